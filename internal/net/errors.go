// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package net

import "errors"

var (
	// ErrClientClosed is returned when using a client that has been closed.
	ErrClientClosed = errors.New("tcp: client is closed")
	// ErrServerClosed is returned when starting a server that has been shut down.
	ErrServerClosed = errors.New("tcp: server is closed")
	// ErrFrameTooLarge is returned when a received frame exceeds the maximum allowed size.
	ErrFrameTooLarge = errors.New("tcp: frame exceeds maximum size")
	// ErrInvalidFrame is returned when a received frame is malformed.
	ErrInvalidFrame = errors.New("tcp: frame is malformed")
	// ErrCodecTooLong is returned when a frame codec name exceeds 255 bytes.
	ErrCodecTooLong = errors.New("tcp: frame codec name exceeds 255 bytes")
)
