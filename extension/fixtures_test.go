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

package extension

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"go.uber.org/atomic"
)

// Transporter is the extension point used throughout the tests
type Transporter interface {
	Bind(params Parameters) (string, error)
	Connect(params Parameters) (string, error)
}

// YyyInvokerWrapper is declared without keys to exercise the derived key
type YyyInvokerWrapper interface {
	Invoke(params Parameters) string
}

// Filter is activated automatically
type Filter interface {
	Name() string
}

type netty struct{ closed *atomic.Bool }

func (n *netty) Bind(Parameters) (string, error)    { return "netty-server", nil }
func (n *netty) Connect(Parameters) (string, error) { return "netty-client", nil }
func (n *netty) Close() error {
	if n.closed != nil {
		n.closed.Store(true)
	}
	return nil
}

type mina struct{}

func (mina) Bind(Parameters) (string, error)    { return "mina-server", nil }
func (mina) Connect(Parameters) (string, error) { return "", fmt.Errorf("mina: connection refused") }

type invoker struct{ name string }

func (i invoker) Invoke(Parameters) string { return i.name }

type filter string

func (f filter) Name() string { return string(f) }

// params is an in-memory request context
type params struct {
	protocol string
	values   map[string]string
}

func newParams(kv ...string) *params {
	p := &params{values: make(map[string]string, len(kv)/2)}
	for i := 0; i+1 < len(kv); i += 2 {
		p.values[kv[i]] = kv[i+1]
	}
	return p
}

func (p *params) Get(key string) (string, bool) {
	value, ok := p.values[key]
	return value, ok
}

func (p *params) Protocol() string {
	return p.protocol
}

func (p *params) Range(f func(key, value string) bool) {
	for _, key := range slices.Sorted(maps.Keys(p.values)) {
		if !f(key, p.values[key]) {
			return
		}
	}
}

func (p *params) String() string {
	pairs := make([]string, 0, len(p.values))
	for _, key := range slices.Sorted(maps.Keys(p.values)) {
		pairs = append(pairs, key+"="+p.values[key])
	}
	return strings.Join(pairs, "&")
}

// getOnly hides every optional capability of a request context
type getOnly map[string]string

func (g getOnly) Get(key string) (string, bool) {
	value, ok := g[key]
	return value, ok
}

func nettyFactory(*Registry) (Transporter, error) { return &netty{}, nil }
func minaFactory(*Registry) (Transporter, error)  { return mina{}, nil }

func filterFactory(name string) Factory[Filter] {
	return func(*Registry) (Filter, error) { return filter(name), nil }
}
