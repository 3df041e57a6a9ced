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
	"errors"
	"net"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/tochemey/spi/log"
)

// FrameHandler processes a request frame and returns the response frame.
// It is invoked from one goroutine per connection and must be safe for
// concurrent use.
type FrameHandler func(ctx context.Context, req Frame) Frame

// Server is a frame-over-TCP server. Every accepted connection runs a read
// loop: read frame, dispatch to the handler, write the response frame.
// The loop exits on EOF, read error or idle timeout.
type Server struct {
	addr         string
	handler      FrameHandler
	logger       log.Logger
	idleTimeout  time.Duration
	maxFrameSize uint32
	framePool    *FramePool

	listener net.Listener
	ctx      context.Context
	cancel   context.CancelFunc

	mu    sync.Mutex
	conns map[net.Conn]struct{}
	wg    sync.WaitGroup

	started atomic.Bool
	closed  atomic.Bool
}

// ServerOption configures a Server before it is started.
type ServerOption func(*Server)

// NewServer creates a Server bound to listenAddr (host:port). The server is
// not listening until Start is called.
func NewServer(listenAddr string, handler FrameHandler, opts ...ServerOption) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		addr:         listenAddr,
		handler:      handler,
		logger:       log.DiscardLogger,
		maxFrameSize: defaultMaxFrameSize,
		framePool:    NewFramePool(),
		ctx:          ctx,
		cancel:       cancel,
		conns:        make(map[net.Conn]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithServerLogger sets the server logger.
func WithServerLogger(logger log.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithServerIdleTimeout sets how long a connection may stay without a
// complete request before the server closes it. Zero disables the timeout.
func WithServerIdleTimeout(d time.Duration) ServerOption {
	return func(s *Server) { s.idleTimeout = d }
}

// WithServerMaxFrameSize sets the maximum allowed size of a request frame.
// Larger frames close the connection.
func WithServerMaxFrameSize(size uint32) ServerOption {
	return func(s *Server) {
		if size > 0 {
			s.maxFrameSize = size
		}
	}
}

// Start listens on the configured address and accepts connections in the background.
func (s *Server) Start() error {
	if s.closed.Load() {
		return ErrServerClosed
	}
	if !s.started.CompareAndSwap(false, true) {
		return nil
	}

	var lc net.ListenConfig
	listener, err := lc.Listen(s.ctx, "tcp", s.addr)
	if err != nil {
		s.started.Store(false)
		return err
	}
	s.listener = listener

	s.wg.Add(1)
	go s.acceptLoop()
	s.logger.Debugf("tcp server listening on %s", listener.Addr())
	return nil
}

// ListenAddr returns the address the server listens on, nil before Start.
func (s *Server) ListenAddr() *net.TCPAddr {
	if s.listener == nil {
		return nil
	}
	addr, _ := s.listener.Addr().(*net.TCPAddr)
	return addr
}

// Shutdown stops accepting connections, closes the open ones and waits
// for their read loops to exit. It is idempotent.
func (s *Server) Shutdown() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	s.cancel()

	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}

	s.mu.Lock()
	for conn := range s.conns {
		_ = conn.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if !s.closed.Load() {
				s.logger.Errorf("tcp server on %s stopped accepting: %v", s.addr, err)
			}
			return
		}

		s.mu.Lock()
		if s.closed.Load() {
			s.mu.Unlock()
			_ = conn.Close()
			return
		}
		s.conns[conn] = struct{}{}
		s.wg.Add(1)
		s.mu.Unlock()

		go s.serveConn(conn)
	}
}

func (s *Server) serveConn(conn net.Conn) {
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		_ = conn.Close()
		s.wg.Done()
	}()

	for {
		if s.idleTimeout > 0 {
			if err := conn.SetReadDeadline(time.Now().Add(s.idleTimeout)); err != nil {
				return
			}
		}

		req, err := ReadFrame(conn, s.framePool, s.maxFrameSize)
		if err != nil {
			if errors.Is(err, ErrFrameTooLarge) || errors.Is(err, ErrInvalidFrame) {
				s.logger.Warnf("closing connection from %s: %v", conn.RemoteAddr(), err)
			}
			return
		}

		resp := s.handler(s.ctx, req)
		if err := WriteFrame(conn, resp); err != nil {
			return
		}
	}
}
