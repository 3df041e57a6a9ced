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
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/spi/address"
	"github.com/tochemey/spi/errors"
	"github.com/tochemey/spi/extension"
	"github.com/tochemey/spi/log"
)

func newRegistry(t *testing.T) *extension.Registry {
	t.Helper()
	registry := extension.NewRegistry(extension.WithLogger(log.DiscardLogger))
	require.NoError(t, Register(registry))
	t.Cleanup(func() { _ = registry.Close() })
	return registry
}

func TestRegister(t *testing.T) {
	registry := newRegistry(t)
	names, err := extension.Names[Compressor](registry)
	require.NoError(t, err)
	assert.Equal(t, []string{Brotli, Gzip, Identity, Zstd}, names)

	name, err := extension.DefaultName[Compressor](registry)
	require.NoError(t, err)
	assert.Equal(t, Gzip, name)

	require.ErrorIs(t, Register(registry), errors.ErrPointAlreadyDeclared)
}

func TestCompressor(t *testing.T) {
	registry := newRegistry(t)
	compressor, err := Adaptive(registry)
	require.NoError(t, err)

	payload := []byte(strings.Repeat("adaptive extension payload ", 256))
	base := address.New("tcp", "localhost", 20880, "orders", nil)

	for _, name := range []string{Gzip, Zstd, Brotli, Identity} {
		t.Run(name, func(t *testing.T) {
			addr := base.WithParameter(Key, name)
			compressed, err := compressor.Compress(addr, payload)
			require.NoError(t, err)
			if name == Identity {
				assert.Equal(t, payload, compressed)
			} else {
				assert.Less(t, len(compressed), len(payload))
			}

			decompressed, err := compressor.Decompress(addr, compressed)
			require.NoError(t, err)
			assert.Equal(t, payload, decompressed)
		})
	}

	t.Run("default compressor", func(t *testing.T) {
		compressed, err := compressor.Compress(base, payload)
		require.NoError(t, err)

		gzipped, err := extension.Resolve[Compressor](registry, Gzip)
		require.NoError(t, err)
		decompressed, err := gzipped.Decompress(base, compressed)
		require.NoError(t, err)
		assert.Equal(t, payload, decompressed)
	})
	t.Run("with levels", func(t *testing.T) {
		for _, name := range []string{Gzip, Brotli} {
			for _, level := range []string{"1", "9", "42", "fast"} {
				addr := base.WithParameter(Key, name).WithParameter(LevelKey, level)
				compressed, err := compressor.Compress(addr, payload)
				require.NoError(t, err)
				decompressed, err := compressor.Decompress(addr, compressed)
				require.NoError(t, err)
				assert.Equal(t, payload, decompressed)
			}
		}
	})
	t.Run("unknown compressor", func(t *testing.T) {
		_, err := compressor.Compress(base.WithParameter(Key, "lz4"), payload)
		require.ErrorIs(t, err, errors.ErrUnknownExtension)
	})
	t.Run("nil address", func(t *testing.T) {
		_, err := compressor.Compress(nil, payload)
		require.ErrorIs(t, err, errors.ErrNoParameters)
	})
	t.Run("corrupted payload", func(t *testing.T) {
		for _, name := range []string{Gzip, Zstd} {
			_, err := compressor.Decompress(base.WithParameter(Key, name), []byte("not compressed"))
			assert.Error(t, err, name)
		}
	})
	t.Run("concurrent use", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := range 32 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				names := []string{Gzip, Zstd, Brotli, Identity}
				addr := base.WithParameter(Key, names[i%len(names)])
				compressed, err := compressor.Compress(addr, payload)
				if !assert.NoError(t, err) {
					return
				}
				decompressed, err := compressor.Decompress(addr, compressed)
				assert.NoError(t, err)
				assert.True(t, bytes.Equal(payload, decompressed))
			}()
		}
		wg.Wait()
	})
}

func TestPayloadTooLarge(t *testing.T) {
	registry := newRegistry(t)
	compressor, err := Adaptive(registry)
	require.NoError(t, err)

	huge := make([]byte, maxDecompressedSize+1)
	addr := address.New("tcp", "localhost", 0, "", map[string]string{Key: Gzip})
	compressed, err := compressor.Compress(addr, huge)
	require.NoError(t, err)

	_, err = compressor.Decompress(addr, compressed)
	require.ErrorIs(t, err, ErrPayloadTooLarge)
}

func TestZstdClose(t *testing.T) {
	compressor, err := newZstd()
	require.NoError(t, err)
	require.NoError(t, compressor.Close())
}
