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
	"errors"
	"fmt"
	"time"

	"github.com/flowchartsman/retry"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/tochemey/spi/address"
	"github.com/tochemey/spi/extension"
	"github.com/tochemey/spi/log"
)

const (
	// natsURLKey holds the NATS server URL; the address host and port are used otherwise
	natsURLKey = "nats.url"
	// natsQueueKey holds the queue group servers of the same subject share
	natsQueueKey = "nats.queue"

	codecHeader = "Spi-Codec"
	errorHeader = "Spi-Error"
)

// ErrNoSubject is returned when a nats address has no path to use as subject.
var ErrNoSubject = errors.New("nats address requires a path used as subject")

// natsTransporter exchanges request/reply messages through a NATS server.
// The address path is the subject.
type natsTransporter struct {
	codec  *codec
	logger log.Logger
}

var _ Transporter = (*natsTransporter)(nil)

func newNATSTransporter(r *extension.Registry) (Transporter, error) {
	codec, err := newCodec(r)
	if err != nil {
		return nil, err
	}
	return &natsTransporter{
		codec:  codec,
		logger: r.Logger().With("transporter", NATS),
	}, nil
}

// connect dials the NATS server of addr with an exponential backoff
func (t *natsTransporter) connect(addr *address.Address) (*nats.Conn, error) {
	if addr.Path() == "" {
		return nil, ErrNoSubject
	}

	url := addr.Parameter(natsURLKey, "nats://"+addr.HostPort())
	opts := []nats.Option{
		nats.Name("spi-" + uuid.NewString()),
		nats.ReconnectWait(2 * time.Second),
		nats.MaxReconnects(-1),
	}

	var conn *nats.Conn
	// try five times with an initial delay of 100 ms and a maximum delay of 2 s
	retrier := retry.NewRetrier(5, 100*time.Millisecond, 2*time.Second)
	err := retrier.Run(func() error {
		var err error
		conn, err = nats.Connect(url, opts...)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}
	return conn, nil
}

// Bind implements Transporter
func (t *natsTransporter) Bind(addr *address.Address, handler Handler) (Server, error) {
	if err := addr.Validate(); err != nil {
		return nil, fmt.Errorf("invalid bind address: %w", err)
	}

	conn, err := t.connect(addr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	server := &natsServer{addr: addr, conn: conn, cancel: cancel}
	callback := func(msg *nats.Msg) {
		t.serve(ctx, addr, handler, msg)
	}

	subject := addr.Path()
	if queue := addr.Parameter(natsQueueKey, ""); queue != "" {
		server.subscription, err = conn.QueueSubscribe(subject, queue, callback)
	} else {
		server.subscription, err = conn.Subscribe(subject, callback)
	}
	if err == nil {
		err = conn.Flush()
	}
	if err != nil {
		cancel()
		conn.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}

	t.logger.Infof("nats server bound on subject %s", subject)
	return server, nil
}

// serve handles a single request message and replies to it
func (t *natsTransporter) serve(ctx context.Context, addr *address.Address, handler Handler, msg *nats.Msg) {
	codecName := msg.Header.Get(codecHeader)
	reply := nats.NewMsg(msg.Reply)

	response, err := t.codec.decode(addr, codecName, msg.Data)
	if err == nil {
		response, err = handler(ctx, response)
	}
	if err == nil {
		response, err = t.codec.encode(addr, codecName, response)
	}

	if err != nil {
		t.logger.Debugf("request handler failed: %v", err)
		reply.Header.Set(errorHeader, err.Error())
	} else {
		reply.Header.Set(codecHeader, codecName)
		reply.Data = response
	}

	if err := msg.RespondMsg(reply); err != nil {
		t.logger.Warnf("failed to reply on %s: %v", msg.Subject, err)
	}
}

// Connect implements Transporter
func (t *natsTransporter) Connect(addr *address.Address) (Client, error) {
	if err := addr.Validate(); err != nil {
		return nil, fmt.Errorf("invalid connect address: %w", err)
	}

	codecName, err := t.codec.name(addr)
	if err != nil {
		return nil, err
	}

	conn, err := t.connect(addr)
	if err != nil {
		return nil, err
	}

	return &natsClient{
		addr:      addr,
		conn:      conn,
		codec:     t.codec,
		codecName: codecName,
		timeout:   time.Duration(addr.IntParameter(timeoutKey, defaultTimeout)) * time.Millisecond,
	}, nil
}

type natsServer struct {
	addr         *address.Address
	conn         *nats.Conn
	subscription *nats.Subscription
	cancel       context.CancelFunc
}

var _ Server = (*natsServer)(nil)

func (s *natsServer) Address() *address.Address {
	return s.addr
}

func (s *natsServer) Close() error {
	s.cancel()
	err := s.subscription.Unsubscribe()
	s.conn.Close()
	if errors.Is(err, nats.ErrConnectionClosed) {
		return nil
	}
	return err
}

type natsClient struct {
	addr      *address.Address
	conn      *nats.Conn
	codec     *codec
	codecName string
	timeout   time.Duration
}

var _ Client = (*natsClient)(nil)

// Request implements Client. The address timeout applies when ctx has no deadline.
func (c *natsClient) Request(ctx context.Context, payload []byte) ([]byte, error) {
	if _, ok := ctx.Deadline(); !ok && c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	encoded, err := c.codec.encode(c.addr, c.codecName, payload)
	if err != nil {
		return nil, err
	}

	msg := nats.NewMsg(c.addr.Path())
	msg.Header.Set(codecHeader, c.codecName)
	msg.Data = encoded

	resp, err := c.conn.RequestMsgWithContext(ctx, msg)
	if err != nil {
		return nil, err
	}

	if remoteErr := resp.Header.Get(errorHeader); remoteErr != "" {
		return nil, fmt.Errorf("%w: %s", ErrRemote, remoteErr)
	}
	return c.codec.decode(c.addr, resp.Header.Get(codecHeader), resp.Data)
}

func (c *natsClient) Close() error {
	c.conn.Close()
	return nil
}
