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

package address

import (
	"errors"
	"fmt"
)

var (
	// ErrAddressRequired is returned when an empty address is parsed or validated.
	ErrAddressRequired = errors.New("address is required")

	// ErrInvalidFormat is returned when an address cannot be parsed.
	ErrInvalidFormat = errors.New("address format is invalid")

	// ErrInvalidPort is returned when the port of an address is not an integer.
	ErrInvalidPort = errors.New("address port is invalid")

	// ErrInvalidProtocol is returned when the protocol is not a valid URL scheme.
	ErrInvalidProtocol = errors.New("address protocol must match [a-zA-Z][a-zA-Z0-9+.-]*")
)

func newErrInvalidFormat(raw, reason string) error {
	return fmt.Errorf("address=(%s) %s: %w", raw, reason, ErrInvalidFormat)
}

func newErrInvalidPort(raw string, err error) error {
	return fmt.Errorf("address=(%s) %w: %w", raw, ErrInvalidPort, err)
}
