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

// Package compress declares the Compressor extension point and its built-in
// implementations: gzip (default), zstd, brotli and identity.
//
// The implementation is picked per call from the "compressor" parameter of
// the address handed to Compress and Decompress, and the "compressor.level"
// parameter tunes the compression level of gzip and brotli.
//
//	registry := extension.NewRegistry()
//	_ = compress.Register(registry)
//	compressor, _ := compress.Adaptive(registry)
//	addr, _ := address.Parse("tcp://127.0.0.1:20880/orders?compressor=zstd")
//	payload, err := compressor.Compress(addr, data)
package compress

import (
	"github.com/tochemey/spi/address"
	"github.com/tochemey/spi/extension"
)

// Compressor implementation names
const (
	Gzip     = "gzip"
	Zstd     = "zstd"
	Brotli   = "brotli"
	Identity = "identity"
)

const (
	// Key is the address parameter naming the compressor
	Key = "compressor"
	// LevelKey is the address parameter holding the compression level
	LevelKey = "compressor.level"

	// maxDecompressedSize bounds the size of a decompressed payload
	maxDecompressedSize = 64 << 20
)

// Compressor compresses the payloads exchanged with an address.
// Implementations must be safe for concurrent use.
type Compressor interface {
	// Compress returns the compressed form of data
	Compress(addr *address.Address, data []byte) ([]byte, error)
	// Decompress returns the original form of data
	Decompress(addr *address.Address, data []byte) ([]byte, error)
}

// adaptiveCompressor dispatches every call to the compressor named by its address
type adaptiveCompressor struct {
	dispatcher *extension.Adaptive[Compressor]
}

var _ Compressor = (*adaptiveCompressor)(nil)

func newAdaptiveCompressor(dispatcher *extension.Adaptive[Compressor]) Compressor {
	return &adaptiveCompressor{dispatcher: dispatcher}
}

// Compress implements Compressor
func (a *adaptiveCompressor) Compress(addr *address.Address, data []byte) ([]byte, error) {
	return extension.Call(a.dispatcher, "Compress", parameters(addr), func(c Compressor) ([]byte, error) {
		return c.Compress(addr, data)
	})
}

// Decompress implements Compressor
func (a *adaptiveCompressor) Decompress(addr *address.Address, data []byte) ([]byte, error) {
	return extension.Call(a.dispatcher, "Decompress", parameters(addr), func(c Compressor) ([]byte, error) {
		return c.Decompress(addr, data)
	})
}

// parameters keeps a nil address a nil request context
func parameters(addr *address.Address) extension.Parameters {
	if addr == nil {
		return nil
	}
	return addr
}

// Register declares the Compressor extension point on the registry and
// registers the built-in compressors.
func Register(r *extension.Registry) error {
	if _, err := extension.Declare[Compressor](r,
		extension.WithDefaultName(Gzip),
		extension.WithKeys(Key),
		extension.WithMethod("Compress"),
		extension.WithMethod("Decompress"),
		extension.WithAdapter(newAdaptiveCompressor)); err != nil {
		return err
	}

	factories := map[string]extension.Factory[Compressor]{
		Gzip:     func(*extension.Registry) (Compressor, error) { return newGzip(), nil },
		Zstd:     func(*extension.Registry) (Compressor, error) { return newZstd() },
		Brotli:   func(*extension.Registry) (Compressor, error) { return newBrotli(), nil },
		Identity: func(*extension.Registry) (Compressor, error) { return identity{}, nil },
	}
	for name, factory := range factories {
		if err := extension.Register(r, name, factory); err != nil {
			return err
		}
	}
	return nil
}

// Adaptive returns the Compressor that dispatches every call to the
// compressor named by the address parameters.
func Adaptive(r *extension.Registry) (Compressor, error) {
	return extension.AdaptiveOf[Compressor](r)
}

// identity leaves payloads untouched
type identity struct{}

var _ Compressor = identity{}

func (identity) Compress(_ *address.Address, data []byte) ([]byte, error) {
	return data, nil
}

func (identity) Decompress(_ *address.Address, data []byte) ([]byte, error) {
	return data, nil
}
