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

package transport

import (
	"errors"

	"github.com/tochemey/spi/address"
	"github.com/tochemey/spi/compress"
	spierrors "github.com/tochemey/spi/errors"
	"github.com/tochemey/spi/extension"
)

// codec compresses payloads with the compressor an address names.
// Without a declared compress extension point payloads travel as they are.
type codec struct {
	dispatcher *extension.Adaptive[compress.Compressor]
}

func newCodec(r *extension.Registry) (*codec, error) {
	dispatcher, err := extension.NewAdaptive[compress.Compressor](r)
	if err != nil {
		if errors.Is(err, spierrors.ErrNotExtensionPoint) {
			return &codec{}, nil
		}
		return nil, err
	}
	return &codec{dispatcher: dispatcher}, nil
}

// name returns the compressor name the address selects, empty when payloads are not compressed
func (c *codec) name(addr *address.Address) (string, error) {
	if c.dispatcher == nil {
		return "", nil
	}
	return c.dispatcher.Name("Compress", addr)
}

func (c *codec) encode(addr *address.Address, name string, data []byte) ([]byte, error) {
	if name == "" {
		return data, nil
	}
	scoped := addr.WithParameter(compress.Key, name)
	return extension.Call(c.dispatcher, "Compress", scoped, func(compressor compress.Compressor) ([]byte, error) {
		return compressor.Compress(scoped, data)
	})
}

func (c *codec) decode(addr *address.Address, name string, data []byte) ([]byte, error) {
	if name == "" {
		return data, nil
	}
	if c.dispatcher == nil {
		return nil, spierrors.NewErrNotExtensionPoint("Compressor")
	}
	scoped := addr.WithParameter(compress.Key, name)
	return extension.Call(c.dispatcher, "Decompress", scoped, func(compressor compress.Compressor) ([]byte, error) {
		return compressor.Decompress(scoped, data)
	})
}
