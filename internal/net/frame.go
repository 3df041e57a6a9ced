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

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/tochemey/spi/internal/bufferpool"
)

// defaultMaxFrameSize is the default maximum size of a single frame (16 MiB).
const defaultMaxFrameSize uint32 = 16 << 20

// headerSize covers totalLen, status and codec length
const headerSize = 6

// Frame statuses
const (
	StatusOK    byte = 0
	StatusError byte = 1
)

// Frame is the unit exchanged between a Client and a Server.
//
// Wire format:
//
//	┌──────────┬────────┬──────────┬────────────┬─────────┐
//	│ totalLen │ status │ codecLen │ codec name │ payload │
//	│ 4 bytes  │ 1 byte │ 1 byte   │ N bytes    │ M bytes │
//	│ uint32BE │        │          │ UTF-8      │         │
//	└──────────┴────────┴──────────┴────────────┴─────────┘
//
// totalLen covers the entire frame, including itself. The codec names the
// compressor the payload was encoded with, empty when it is not compressed.
// An error frame carries the error message as its payload.
type Frame struct {
	Status  byte
	Codec   string
	Payload []byte
}

// WriteFrame encodes frame and writes it to w in a single call
func WriteFrame(w io.Writer, frame Frame) error {
	if len(frame.Codec) > 255 {
		return ErrCodecTooLong
	}

	buf := bufferpool.Pool.Get()
	defer bufferpool.Pool.Put(buf)

	totalLen := headerSize + len(frame.Codec) + len(frame.Payload)
	buf.Grow(totalLen)

	var header [headerSize]byte
	binary.BigEndian.PutUint32(header[:4], uint32(totalLen))
	header[4] = frame.Status
	header[5] = byte(len(frame.Codec))
	_, _ = buf.Write(header[:])
	_, _ = buf.WriteString(frame.Codec)
	_, _ = buf.Write(frame.Payload)

	_, err := w.Write(buf.Bytes())
	return err
}

// ReadFrame reads a single frame from r. The frame is read into a buffer
// drawn from pool; the returned payload is a copy and outlives it.
func ReadFrame(r io.Reader, pool *FramePool, maxFrameSize uint32) (Frame, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return Frame{}, err
	}

	totalLen := binary.BigEndian.Uint32(header[:])
	if totalLen < headerSize {
		return Frame{}, ErrInvalidFrame
	}
	if totalLen > maxFrameSize {
		return Frame{}, ErrFrameTooLarge
	}

	body := pool.Get(int(totalLen) - 4)
	defer pool.Put(body)
	if _, err := io.ReadFull(r, body); err != nil {
		return Frame{}, err
	}

	codecLen := int(body[1])
	if 2+codecLen > len(body) {
		return Frame{}, ErrInvalidFrame
	}

	return Frame{
		Status:  body[0],
		Codec:   string(body[2 : 2+codecLen]),
		Payload: bytes.Clone(body[2+codecLen:]),
	}, nil
}
