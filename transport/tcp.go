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
	"context"
	"fmt"
	"time"

	"github.com/tochemey/spi/address"
	"github.com/tochemey/spi/extension"
	inet "github.com/tochemey/spi/internal/net"
	"github.com/tochemey/spi/log"
)

const (
	// timeoutKey holds the request timeout in milliseconds
	timeoutKey     = "timeout"
	defaultTimeout = 3000
	// idleTimeoutKey holds the server connection idle timeout in milliseconds
	idleTimeoutKey = "idle.timeout"
	// connectionsKey holds the number of idle connections a client keeps
	connectionsKey = "connections"
)

// tcpTransporter exchanges length-prefixed frames over TCP
type tcpTransporter struct {
	codec  *codec
	logger log.Logger
}

var _ Transporter = (*tcpTransporter)(nil)

func newTCPTransporter(r *extension.Registry) (Transporter, error) {
	codec, err := newCodec(r)
	if err != nil {
		return nil, err
	}
	return &tcpTransporter{
		codec:  codec,
		logger: r.Logger().With("transporter", TCP),
	}, nil
}

// Bind implements Transporter
func (t *tcpTransporter) Bind(addr *address.Address, handler Handler) (Server, error) {
	if err := addr.Validate(); err != nil {
		return nil, fmt.Errorf("invalid bind address: %w", err)
	}

	server := &tcpServer{addr: addr}
	server.server = inet.NewServer(addr.HostPort(), t.frameHandler(addr, handler),
		inet.WithServerLogger(t.logger),
		inet.WithServerIdleTimeout(time.Duration(addr.IntParameter(idleTimeoutKey, 0))*time.Millisecond))
	if err := server.server.Start(); err != nil {
		return nil, fmt.Errorf("failed to bind %s: %w", addr.HostPort(), err)
	}

	if listenAddr := server.server.ListenAddr(); listenAddr != nil && addr.Port() == 0 {
		server.addr = server.addr.WithPort(listenAddr.Port)
	}

	host, err := inet.AdvertiseHost(addr.Host())
	if err != nil {
		_ = server.server.Shutdown()
		return nil, err
	}
	server.addr = server.addr.WithHost(host)
	t.logger.Infof("tcp server bound on %s", server.addr.HostPort())
	return server, nil
}

// frameHandler decodes a request frame, runs the handler and encodes its response
// with the codec of the request
func (t *tcpTransporter) frameHandler(addr *address.Address, handler Handler) inet.FrameHandler {
	return func(ctx context.Context, req inet.Frame) inet.Frame {
		payload, err := t.codec.decode(addr, req.Codec, req.Payload)
		if err != nil {
			return errorFrame(err)
		}

		response, err := handler(ctx, payload)
		if err != nil {
			t.logger.Debugf("request handler failed: %v", err)
			return errorFrame(err)
		}

		encoded, err := t.codec.encode(addr, req.Codec, response)
		if err != nil {
			return errorFrame(err)
		}
		return inet.Frame{Status: inet.StatusOK, Codec: req.Codec, Payload: encoded}
	}
}

func errorFrame(err error) inet.Frame {
	return inet.Frame{Status: inet.StatusError, Payload: []byte(err.Error())}
}

// Connect implements Transporter
func (t *tcpTransporter) Connect(addr *address.Address) (Client, error) {
	if err := addr.Validate(); err != nil {
		return nil, fmt.Errorf("invalid connect address: %w", err)
	}

	codecName, err := t.codec.name(addr)
	if err != nil {
		return nil, err
	}

	return &tcpClient{
		addr:      addr,
		codec:     t.codec,
		codecName: codecName,
		timeout:   time.Duration(addr.IntParameter(timeoutKey, defaultTimeout)) * time.Millisecond,
		client: inet.NewClient(addr.HostPort(),
			inet.WithMaxIdleConns(addr.IntParameter(connectionsKey, 8))),
	}, nil
}

type tcpServer struct {
	addr   *address.Address
	server *inet.Server
}

var _ Server = (*tcpServer)(nil)

func (s *tcpServer) Address() *address.Address {
	return s.addr
}

func (s *tcpServer) Close() error {
	return s.server.Shutdown()
}

type tcpClient struct {
	addr      *address.Address
	codec     *codec
	codecName string
	timeout   time.Duration
	client    *inet.Client
}

var _ Client = (*tcpClient)(nil)

// Request implements Client. The address timeout applies when ctx has no deadline.
func (c *tcpClient) Request(ctx context.Context, payload []byte) ([]byte, error) {
	if _, ok := ctx.Deadline(); !ok && c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	encoded, err := c.codec.encode(c.addr, c.codecName, payload)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Request(ctx, inet.Frame{Status: inet.StatusOK, Codec: c.codecName, Payload: encoded})
	if err != nil {
		return nil, err
	}

	if resp.Status != inet.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrRemote, resp.Payload)
	}
	return c.codec.decode(c.addr, resp.Codec, resp.Payload)
}

func (c *tcpClient) Close() error {
	return c.client.Close()
}
