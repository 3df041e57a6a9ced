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
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/tochemey/spi/internal/bufferpool"
)

// ErrPayloadTooLarge is returned when a payload decompresses beyond 64 MiB.
var ErrPayloadTooLarge = errors.New("decompressed payload exceeds maximum size")

// levelPool keeps one writer pool per compression level
type levelPool[W any] struct {
	mu        sync.RWMutex
	pools     map[int]*sync.Pool
	newWriter func(level int) W
}

func newLevelPool[W any](newWriter func(level int) W) *levelPool[W] {
	return &levelPool[W]{
		pools:     make(map[int]*sync.Pool),
		newWriter: newWriter,
	}
}

// get returns or creates the pool for the given level
func (p *levelPool[W]) get(level int) *sync.Pool {
	p.mu.RLock()
	pool, ok := p.pools[level]
	p.mu.RUnlock()
	if ok {
		return pool
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	// another goroutine may have created it
	if pool, ok := p.pools[level]; ok {
		return pool
	}

	pool = &sync.Pool{
		New: func() any {
			return p.newWriter(level)
		},
	}
	p.pools[level] = pool
	return pool
}

// resetWriteCloser is a pooled compressing writer
type resetWriteCloser interface {
	io.WriteCloser
	Reset(w io.Writer)
}

// encode compresses data through a writer drawn from pool
func encode(pool *sync.Pool, data []byte) ([]byte, error) {
	writer := pool.Get().(resetWriteCloser)
	buf := bufferpool.Pool.Get()
	defer bufferpool.Pool.Put(buf)

	writer.Reset(buf)
	if _, err := writer.Write(data); err != nil {
		writer.Reset(nil)
		return nil, err
	}
	if err := writer.Close(); err != nil {
		writer.Reset(nil)
		return nil, err
	}
	writer.Reset(nil)
	pool.Put(writer)

	return bytes.Clone(buf.Bytes()), nil
}

// readAll reads a decompressing reader up to maxDecompressedSize
func readAll(reader io.Reader) ([]byte, error) {
	buf := bufferpool.Pool.Get()
	defer bufferpool.Pool.Put(buf)

	n, err := buf.ReadFrom(io.LimitReader(reader, maxDecompressedSize+1))
	if err != nil {
		return nil, err
	}
	if n > maxDecompressedSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrPayloadTooLarge, maxDecompressedSize)
	}
	return bytes.Clone(buf.Bytes()), nil
}
