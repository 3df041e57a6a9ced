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
	"context"
	"net"
	"sync"
	"time"

	"github.com/flowchartsman/retry"
	"go.uber.org/atomic"
)

// Client is a thread-safe, connection-pooling frame client. It dials the
// target address with retries and keeps a LIFO pool of idle connections for
// reuse. Stale connections are evicted lazily on Get; no background
// goroutines are created.
type Client struct {
	addr         string
	dialer       net.Dialer
	maxIdle      int
	idleTimeout  time.Duration
	maxFrameSize uint32
	dialRetries  int
	framePool    *FramePool

	mu     sync.Mutex
	idle   []idleConn
	closed atomic.Bool
}

type idleConn struct {
	conn  net.Conn
	since int64 // UnixNano
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a Client that connects to addr (host:port).
//
// Defaults: 8 max idle connections, 30 s idle timeout, 5 s dial timeout,
// 15 s TCP keep-alive, 3 dial attempts, 16 MiB max frame size.
func NewClient(addr string, opts ...ClientOption) *Client {
	c := &Client{
		addr:         addr,
		maxIdle:      8,
		idleTimeout:  30 * time.Second,
		maxFrameSize: defaultMaxFrameSize,
		dialRetries:  3,
		framePool:    NewFramePool(),
		dialer: net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 15 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	c.idle = make([]idleConn, 0, c.maxIdle)
	return c
}

// WithMaxIdleConns sets the maximum number of idle connections kept in
// the pool. Zero disables pooling.
func WithMaxIdleConns(n int) ClientOption {
	return func(c *Client) { c.maxIdle = max(n, 0) }
}

// WithIdleTimeout sets how long an idle connection stays in the pool
// before being evicted on the next Get.
func WithIdleTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.idleTimeout = d }
}

// WithDialTimeout sets the timeout of a single dial attempt.
func WithDialTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.dialer.Timeout = d }
}

// WithDialRetries sets the number of dial attempts.
func WithDialRetries(n int) ClientOption {
	return func(c *Client) { c.dialRetries = max(n, 1) }
}

// WithMaxFrameSize sets the maximum allowed size of a response frame.
func WithMaxFrameSize(size uint32) ClientOption {
	return func(c *Client) {
		if size > 0 {
			c.maxFrameSize = size
		}
	}
}

// Request writes req on a pooled connection and reads the response frame.
// A ctx deadline applies to the whole exchange.
func (c *Client) Request(ctx context.Context, req Frame) (Frame, error) {
	conn, err := c.Get(ctx)
	if err != nil {
		return Frame{}, err
	}

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			c.Discard(conn)
			return Frame{}, err
		}
	}

	if err := WriteFrame(conn, req); err != nil {
		c.Discard(conn)
		return Frame{}, err
	}

	resp, err := ReadFrame(conn, c.framePool, c.maxFrameSize)
	if err != nil {
		c.Discard(conn)
		return Frame{}, err
	}

	c.Put(conn)
	return resp, nil
}

// Get returns a pooled connection or dials a new one. The caller must call
// Put after a successful exchange or Discard on error.
func (c *Client) Get(ctx context.Context) (net.Conn, error) {
	if c.closed.Load() {
		return nil, ErrClientClosed
	}

	cutoff := time.Now().UnixNano() - c.idleTimeout.Nanoseconds()

	c.mu.Lock()
	for len(c.idle) > 0 {
		n := len(c.idle)
		ic := c.idle[n-1]
		c.idle[n-1] = idleConn{}
		c.idle = c.idle[:n-1]

		if ic.since < cutoff {
			c.mu.Unlock()
			_ = ic.conn.Close()
			c.mu.Lock()
			continue
		}

		c.mu.Unlock()
		return ic.conn, nil
	}
	c.mu.Unlock()

	return c.dial(ctx)
}

// Put returns a healthy connection to the idle pool, closing it when the
// pool is full. Deadlines are cleared.
func (c *Client) Put(conn net.Conn) {
	if c.closed.Load() {
		_ = conn.Close()
		return
	}

	if err := conn.SetDeadline(time.Time{}); err != nil {
		_ = conn.Close()
		return
	}

	c.mu.Lock()
	if len(c.idle) < c.maxIdle {
		c.idle = append(c.idle, idleConn{conn: conn, since: time.Now().UnixNano()})
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	_ = conn.Close()
}

// Discard closes a connection without returning it to the pool.
func (c *Client) Discard(conn net.Conn) {
	_ = conn.Close()
}

// Close shuts down the client and closes all pooled connections.
// It is idempotent.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	c.mu.Lock()
	idle := c.idle
	c.idle = nil
	c.mu.Unlock()

	var firstErr error
	for i := range idle {
		if err := idle[i].conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// dial connects with an exponential backoff
func (c *Client) dial(ctx context.Context) (net.Conn, error) {
	var conn net.Conn
	retrier := retry.NewRetrier(c.dialRetries, 50*time.Millisecond, time.Second)
	err := retrier.Run(func() error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		var err error
		conn, err = c.dialer.DialContext(ctx, "tcp", c.addr)
		return err
	})
	if err != nil {
		return nil, err
	}
	return conn, nil
}
