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
	"context"
	"encoding/binary"
	"fmt"
	"net"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travisjeffery/go-dynaport"
	"go.uber.org/goleak"

	"github.com/tochemey/spi/log"
)

func TestFrame(t *testing.T) {
	pool := NewFramePool()
	t.Run("With happy path", func(t *testing.T) {
		var buf bytes.Buffer
		frame := Frame{Status: StatusOK, Codec: "zstd", Payload: []byte("payload")}
		require.NoError(t, WriteFrame(&buf, frame))
		assert.Equal(t, headerSize+4+7, buf.Len())

		actual, err := ReadFrame(&buf, pool, defaultMaxFrameSize)
		require.NoError(t, err)
		assert.Equal(t, frame, actual)
	})
	t.Run("With an empty frame", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteFrame(&buf, Frame{Status: StatusError}))
		actual, err := ReadFrame(&buf, pool, defaultMaxFrameSize)
		require.NoError(t, err)
		assert.Equal(t, StatusError, actual.Status)
		assert.Empty(t, actual.Codec)
		assert.Empty(t, actual.Payload)
	})
	t.Run("With a long codec name", func(t *testing.T) {
		var buf bytes.Buffer
		err := WriteFrame(&buf, Frame{Codec: string(make([]byte, 256))})
		require.ErrorIs(t, err, ErrCodecTooLong)
	})
	t.Run("With a too large frame", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteFrame(&buf, Frame{Payload: make([]byte, 64)}))
		_, err := ReadFrame(&buf, pool, 32)
		require.ErrorIs(t, err, ErrFrameTooLarge)
	})
	t.Run("With a malformed frame", func(t *testing.T) {
		var header [4]byte
		binary.BigEndian.PutUint32(header[:], 3)
		_, err := ReadFrame(bytes.NewReader(header[:]), pool, defaultMaxFrameSize)
		require.ErrorIs(t, err, ErrInvalidFrame)

		// codec length beyond the frame
		frame := []byte{0, 0, 0, 7, StatusOK, 9, 'x'}
		_, err = ReadFrame(bytes.NewReader(frame), pool, defaultMaxFrameSize)
		require.ErrorIs(t, err, ErrInvalidFrame)
	})
}

func TestFramePool(t *testing.T) {
	pool := NewFramePool()
	buf := pool.Get(300)
	assert.Len(t, buf, 300)
	assert.Equal(t, 512, cap(buf))
	pool.Put(buf)

	small := pool.Get(1)
	assert.Equal(t, 256, cap(small))

	oversized := pool.Get(1<<maxBucketShift + 1)
	assert.Len(t, oversized, 1<<maxBucketShift+1)
	pool.Put(oversized)

	assert.Equal(t, -1, bucketIndexExact(300))
	assert.Equal(t, numBuckets, bucketIndex(1<<maxBucketShift+1))
}

func echoHandler(_ context.Context, req Frame) Frame {
	if string(req.Payload) == "fail" {
		return Frame{Status: StatusError, Payload: []byte("failed")}
	}
	return Frame{Status: StatusOK, Codec: req.Codec, Payload: append([]byte("echo:"), req.Payload...)}
}

func startServer(t *testing.T, opts ...ServerOption) (*Server, string) {
	t.Helper()
	port := dynaport.Get(1)[0]
	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(port))
	opts = append([]ServerOption{WithServerLogger(log.DiscardLogger)}, opts...)
	server := NewServer(addr, echoHandler, opts...)
	require.NoError(t, server.Start())
	require.NotNil(t, server.ListenAddr())
	assert.Equal(t, port, server.ListenAddr().Port)
	return server, addr
}

func TestClientServer(t *testing.T) {
	defer goleak.VerifyNone(t)

	server, addr := startServer(t)
	client := NewClient(addr, WithMaxIdleConns(2), WithDialTimeout(time.Second))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	t.Run("request and response", func(t *testing.T) {
		resp, err := client.Request(ctx, Frame{Codec: "gzip", Payload: []byte("hello")})
		require.NoError(t, err)
		assert.Equal(t, StatusOK, resp.Status)
		assert.Equal(t, "gzip", resp.Codec)
		assert.Equal(t, "echo:hello", string(resp.Payload))
	})
	t.Run("error response", func(t *testing.T) {
		resp, err := client.Request(ctx, Frame{Payload: []byte("fail")})
		require.NoError(t, err)
		assert.Equal(t, StatusError, resp.Status)
		assert.Equal(t, "failed", string(resp.Payload))
	})
	t.Run("concurrent requests", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				payload := fmt.Sprintf("message-%d", i)
				resp, err := client.Request(ctx, Frame{Payload: []byte(payload)})
				if assert.NoError(t, err) {
					assert.Equal(t, "echo:"+payload, string(resp.Payload))
				}
			}()
		}
		wg.Wait()
	})

	require.NoError(t, client.Close())
	require.NoError(t, client.Close())
	_, err := client.Request(ctx, Frame{})
	require.ErrorIs(t, err, ErrClientClosed)

	require.NoError(t, server.Shutdown())
	require.NoError(t, server.Shutdown())
	require.ErrorIs(t, server.Start(), ErrServerClosed)
}

func TestClientDialFailure(t *testing.T) {
	port := dynaport.Get(1)[0]
	client := NewClient(net.JoinHostPort("127.0.0.1", strconv.Itoa(port)),
		WithDialRetries(2),
		WithDialTimeout(100*time.Millisecond))
	defer client.Close()

	_, err := client.Request(context.Background(), Frame{Payload: []byte("hello")})
	require.Error(t, err)
}

func TestServerIdleTimeout(t *testing.T) {
	defer goleak.VerifyNone(t)

	server, addr := startServer(t, WithServerIdleTimeout(50*time.Millisecond))
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, err = conn.Read(make([]byte, 1))
	require.Error(t, err)
	_ = conn.Close()

	require.NoError(t, server.Shutdown())
}

func TestAdvertiseHost(t *testing.T) {
	for _, host := range []string{"127.0.0.1", "localhost", "::1", "10.0.0.12"} {
		advertised, err := AdvertiseHost(host)
		require.NoError(t, err)
		assert.Equal(t, host, advertised)
	}

	advertised, err := AdvertiseHost("0.0.0.0")
	if err != nil {
		t.Skipf("no usable interface address: %v", err)
	}
	ip := net.ParseIP(advertised)
	require.NotNil(t, ip)
	assert.False(t, ip.IsUnspecified())
}
