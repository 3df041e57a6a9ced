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
	"fmt"
	"runtime"

	"github.com/klauspost/compress/zstd"

	"github.com/tochemey/spi/address"
)

// zstdCompressor shares one encoder and one decoder between all calls;
// EncodeAll and DecodeAll are safe for concurrent use.
type zstdCompressor struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

var _ Compressor = (*zstdCompressor)(nil)

func newZstd() (*zstdCompressor, error) {
	concurrency := max(runtime.GOMAXPROCS(0), 1)
	encoder, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedFastest),
		zstd.WithWindowSize(4<<20),
		zstd.WithEncoderConcurrency(concurrency),
		zstd.WithLowerEncoderMem(false),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(0),
		zstd.WithDecoderLowmem(false),
		zstd.WithDecoderMaxMemory(maxDecompressedSize),
	)
	if err != nil {
		_ = encoder.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	return &zstdCompressor{encoder: encoder, decoder: decoder}, nil
}

// Compress implements Compressor
func (z *zstdCompressor) Compress(_ *address.Address, data []byte) ([]byte, error) {
	return z.encoder.EncodeAll(data, nil), nil
}

// Decompress implements Compressor
func (z *zstdCompressor) Decompress(_ *address.Address, data []byte) ([]byte, error) {
	out, err := z.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, err
	}
	if len(out) > maxDecompressedSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrPayloadTooLarge, maxDecompressedSize)
	}
	return out, nil
}

// Close releases the encoder and decoder resources
func (z *zstdCompressor) Close() error {
	z.decoder.Close()
	return z.encoder.Close()
}
