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

// Package transport declares the Transporter extension point, the remoting
// layer servers bind and clients connect through, together with its tcp
// (default) and nats implementations.
//
// The adaptive Transporter picks the implementation per call: Bind reads the
// "server" then "transporter" address parameters, Connect reads "client" then
// "transporter". Payloads are compressed with the compressor named by the
// "compressor" parameter when the compress extension point is declared on
// the same registry.
//
//	registry := extension.NewRegistry()
//	_ = compress.Register(registry)
//	_ = transport.Register(registry)
//	transporter, _ := transport.Adaptive(registry)
//
//	addr, _ := address.Parse("tcp://127.0.0.1:20880/greeter?transporter=nats&nats.url=nats://127.0.0.1:4222")
//	server, _ := transporter.Bind(addr, handler)
//	client, _ := transporter.Connect(addr)
//	reply, err := client.Request(ctx, []byte("hello"))
package transport

import (
	"context"
	"errors"
	"io"

	"github.com/tochemey/spi/address"
	"github.com/tochemey/spi/extension"
)

// Transporter implementation names
const (
	TCP  = "tcp"
	NATS = "nats"
)

// ErrRemote is returned by Client.Request when the remote handler failed.
var ErrRemote = errors.New("remote handler failed")

// Handler processes a request payload on the server side and returns the
// response payload. Errors are reported to the client as ErrRemote.
type Handler func(ctx context.Context, request []byte) ([]byte, error)

// Server is a bound endpoint
type Server interface {
	io.Closer
	// Address returns the address the server is reachable at
	Address() *address.Address
}

// Client is a connection to a bound endpoint
type Client interface {
	io.Closer
	// Request sends a payload and waits for the response payload
	Request(ctx context.Context, payload []byte) ([]byte, error)
}

// Transporter binds servers and connects clients
type Transporter interface {
	// Bind starts a server on addr dispatching requests to handler
	Bind(addr *address.Address, handler Handler) (Server, error)
	// Connect opens a client to the server bound on addr
	Connect(addr *address.Address) (Client, error)
}

// adaptiveTransporter dispatches every call to the transporter named by its address
type adaptiveTransporter struct {
	dispatcher *extension.Adaptive[Transporter]
}

var _ Transporter = (*adaptiveTransporter)(nil)

func newAdaptiveTransporter(dispatcher *extension.Adaptive[Transporter]) Transporter {
	return &adaptiveTransporter{dispatcher: dispatcher}
}

// Bind implements Transporter
func (a *adaptiveTransporter) Bind(addr *address.Address, handler Handler) (Server, error) {
	return extension.Call(a.dispatcher, "Bind", parameters(addr), func(t Transporter) (Server, error) {
		return t.Bind(addr, handler)
	})
}

// Connect implements Transporter
func (a *adaptiveTransporter) Connect(addr *address.Address) (Client, error) {
	return extension.Call(a.dispatcher, "Connect", parameters(addr), func(t Transporter) (Client, error) {
		return t.Connect(addr)
	})
}

func parameters(addr *address.Address) extension.Parameters {
	if addr == nil {
		return nil
	}
	return addr
}

// Register declares the Transporter extension point on the registry and
// registers the built-in transporters.
func Register(r *extension.Registry) error {
	if _, err := extension.Declare[Transporter](r,
		extension.WithDefaultName(TCP),
		extension.WithMethod("Bind", "server", "transporter"),
		extension.WithMethod("Connect", "client", "transporter"),
		extension.WithAdapter(newAdaptiveTransporter)); err != nil {
		return err
	}

	if err := extension.Register(r, TCP, newTCPTransporter); err != nil {
		return err
	}
	return extension.Register(r, NATS, newNATSTransporter)
}

// Adaptive returns the Transporter that dispatches every call to the
// transporter named by the address parameters.
func Adaptive(r *extension.Registry) (Transporter, error) {
	return extension.AdaptiveOf[Transporter](r)
}
