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

package compress

import (
	"bytes"
	"sync"

	"github.com/andybalholm/brotli"

	"github.com/tochemey/spi/address"
)

// brotliCompressor pools writers per level and readers
type brotliCompressor struct {
	writers *levelPool[*brotli.Writer]
	readers sync.Pool
}

var _ Compressor = (*brotliCompressor)(nil)

func newBrotli() *brotliCompressor {
	return &brotliCompressor{
		writers: newLevelPool(func(level int) *brotli.Writer {
			return brotli.NewWriterLevel(nil, level)
		}),
		readers: sync.Pool{
			New: func() any {
				return brotli.NewReader(nil)
			},
		},
	}
}

// Compress implements Compressor
func (b *brotliCompressor) Compress(addr *address.Address, data []byte) ([]byte, error) {
	return encode(b.writers.get(brotliLevel(addr)), data)
}

// Decompress implements Compressor
func (b *brotliCompressor) Decompress(_ *address.Address, data []byte) ([]byte, error) {
	reader := b.readers.Get().(*brotli.Reader)
	if err := reader.Reset(bytes.NewReader(data)); err != nil {
		return nil, err
	}

	out, err := readAll(reader)
	if err != nil {
		return nil, err
	}
	_ = reader.Reset(nil)
	b.readers.Put(reader)
	return out, nil
}

func brotliLevel(addr *address.Address) int {
	level := addr.IntParameter(LevelKey, brotli.DefaultCompression)
	if level < brotli.BestSpeed || level > brotli.BestCompression {
		return brotli.DefaultCompression
	}
	return level
}
