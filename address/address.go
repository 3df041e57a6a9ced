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

// Package address provides the request context adaptive extensions are
// resolved from.
//
// An address locates a service endpoint and carries the parameters of a
// request:
//
//	<protocol>://[<user>[:<password>]@]<host>[:<port>][/<path>][?<key>=<value>&...]
//
// Addresses are immutable: the With methods return modified copies, so a
// single Address can be shared by concurrent readers. Address implements the
// parameter lookup the extension package dispatches on, and exposes its
// protocol for the "protocol" key.
package address

import (
	"maps"
	"net"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/tochemey/spi/internal/validation"
)

// protocolPattern is the shape of a URL scheme
var protocolPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*$`)

// Address is a parsed request URL
type Address struct {
	protocol string
	username string
	password string
	host     string
	port     int
	path     string
	params   map[string]string
}

var _ validation.Validator = (*Address)(nil)

// New creates an Address. The params map is copied.
// New does not validate its inputs; call Validate on the result.
//
// Example:
//
//	addr := New("tcp", "127.0.0.1", 20880, "demo.Greeter", map[string]string{"transporter": "nats"})
//	addr.String() // "tcp://127.0.0.1:20880/demo.Greeter?transporter=nats"
func New(protocol, host string, port int, path string, params map[string]string) *Address {
	return &Address{
		protocol: protocol,
		host:     host,
		port:     port,
		path:     strings.TrimPrefix(path, "/"),
		params:   maps.Clone(params),
	}
}

// Parse parses a textual address.
//
// The protocol and host are required. A port must be a base-10 integer.
// Parameters are URL-decoded; when a key is repeated the first value wins.
// IPv6 hosts are written in brackets: tcp://[::1]:20880.
//
// Errors:
//   - ErrAddressRequired when raw is empty
//   - ErrInvalidFormat for a missing protocol, host or malformed query
//   - ErrInvalidPort when the port is not an integer
func Parse(raw string) (*Address, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrAddressRequired
	}

	protocol, rest, ok := strings.Cut(raw, "://")
	if !ok || protocol == "" {
		return nil, newErrInvalidFormat(raw, "protocol is required")
	}

	addr := &Address{protocol: protocol}

	rest, query, hasQuery := strings.Cut(rest, "?")
	authority, path, _ := strings.Cut(rest, "/")
	addr.path = path

	if at := strings.LastIndexByte(authority, '@'); at >= 0 {
		userinfo := authority[:at]
		authority = authority[at+1:]
		addr.username, addr.password, _ = strings.Cut(userinfo, ":")
	}

	host, port, err := splitHostPort(authority)
	if err != nil {
		return nil, newErrInvalidFormat(raw, err.Error())
	}
	if host == "" {
		return nil, newErrInvalidFormat(raw, "host is required")
	}
	addr.host = host

	if port != "" {
		if addr.port, err = strconv.Atoi(port); err != nil {
			return nil, newErrInvalidPort(raw, err)
		}
	}

	if hasQuery && query != "" {
		values, err := url.ParseQuery(query)
		if err != nil {
			return nil, newErrInvalidFormat(raw, err.Error())
		}
		addr.params = make(map[string]string, len(values))
		for key, value := range values {
			if key != "" && len(value) > 0 {
				addr.params[key] = value[0]
			}
		}
	}

	return addr, nil
}

// splitHostPort splits an authority with an optional port
func splitHostPort(authority string) (host, port string, err error) {
	hasPort := strings.LastIndexByte(authority, ':') > strings.LastIndexByte(authority, ']')
	if !hasPort {
		return strings.Trim(authority, "[]"), "", nil
	}
	return net.SplitHostPort(authority)
}

// Protocol returns the protocol of the Address
func (x *Address) Protocol() string {
	if x == nil {
		return ""
	}
	return x.protocol
}

// Username returns the user name, empty when none is set
func (x *Address) Username() string {
	if x == nil {
		return ""
	}
	return x.username
}

// Password returns the password, empty when none is set
func (x *Address) Password() string {
	if x == nil {
		return ""
	}
	return x.password
}

// Host returns the host of the Address
func (x *Address) Host() string {
	if x == nil {
		return ""
	}
	return x.host
}

// Port returns the port of the Address, zero when none is set
func (x *Address) Port() int {
	if x == nil {
		return 0
	}
	return x.port
}

// Path returns the path of the Address without its leading slash
func (x *Address) Path() string {
	if x == nil {
		return ""
	}
	return x.path
}

// HostPort returns the "host:port" portion of the Address
func (x *Address) HostPort() string {
	return net.JoinHostPort(x.Host(), strconv.Itoa(x.Port()))
}

// Get returns the value of the parameter key and whether it is set
func (x *Address) Get(key string) (string, bool) {
	if x == nil {
		return "", false
	}
	value, ok := x.params[key]
	return value, ok
}

// Parameter returns the value of the parameter key, or fallback when it is unset or empty
func (x *Address) Parameter(key, fallback string) string {
	if value, ok := x.Get(key); ok && value != "" {
		return value
	}
	return fallback
}

// IntParameter returns the integer value of the parameter key, or fallback
// when it is unset or not an integer
func (x *Address) IntParameter(key string, fallback int) int {
	value, ok := x.Get(key)
	if !ok {
		return fallback
	}
	number, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return number
}

// MethodParameter returns the parameter key scoped to method ("<method>.<key>"),
// falling back to the unscoped key.
func (x *Address) MethodParameter(method, key string) (string, bool) {
	if value, ok := x.Get(method + "." + key); ok && value != "" {
		return value, true
	}
	return x.Get(key)
}

// Parameters returns a copy of the parameters
func (x *Address) Parameters() map[string]string {
	if x == nil {
		return map[string]string{}
	}
	params := maps.Clone(x.params)
	if params == nil {
		params = map[string]string{}
	}
	return params
}

// Range calls f for every parameter in key order until f returns false
func (x *Address) Range(f func(key, value string) bool) {
	if x == nil {
		return
	}
	for _, key := range slices.Sorted(maps.Keys(x.params)) {
		if !f(key, x.params[key]) {
			return
		}
	}
}

// WithParameter returns a copy of the Address with the parameter key set to value
func (x *Address) WithParameter(key, value string) *Address {
	clone := x.clone()
	if clone.params == nil {
		clone.params = make(map[string]string, 1)
	}
	clone.params[key] = value
	return clone
}

// WithoutParameter returns a copy of the Address without the given parameters
func (x *Address) WithoutParameter(keys ...string) *Address {
	clone := x.clone()
	for _, key := range keys {
		delete(clone.params, key)
	}
	return clone
}

// WithHost returns a copy of the Address with the given host
func (x *Address) WithHost(host string) *Address {
	clone := x.clone()
	clone.host = host
	return clone
}

// WithPort returns a copy of the Address with the given port
func (x *Address) WithPort(port int) *Address {
	clone := x.clone()
	clone.port = port
	return clone
}

// WithPath returns a copy of the Address with the given path
func (x *Address) WithPath(path string) *Address {
	clone := x.clone()
	clone.path = strings.TrimPrefix(path, "/")
	return clone
}

// Equals reports whether x and y render the same address
func (x *Address) Equals(y *Address) bool {
	if x == nil || y == nil {
		return false
	}
	return x.protocol == y.protocol &&
		x.username == y.username &&
		x.password == y.password &&
		x.host == y.host &&
		x.port == y.port &&
		x.path == y.path &&
		maps.Equal(x.params, y.params)
}

// String returns the canonical textual form of the Address.
// Parameters are sorted by key so that equal addresses render the same.
func (x *Address) String() string {
	if x == nil {
		return ""
	}

	var builder strings.Builder
	_, _ = builder.WriteString(x.protocol)
	_, _ = builder.WriteString("://")
	if x.username != "" {
		_, _ = builder.WriteString(x.username)
		if x.password != "" {
			_ = builder.WriteByte(':')
			_, _ = builder.WriteString(x.password)
		}
		_ = builder.WriteByte('@')
	}

	if x.port > 0 {
		_, _ = builder.WriteString(x.HostPort())
	} else if strings.Contains(x.host, ":") {
		_, _ = builder.WriteString("[" + x.host + "]")
	} else {
		_, _ = builder.WriteString(x.host)
	}

	if x.path != "" {
		_ = builder.WriteByte('/')
		_, _ = builder.WriteString(x.path)
	}

	if len(x.params) > 0 {
		values := make(url.Values, len(x.params))
		for key, value := range x.params {
			values.Set(key, value)
		}
		_ = builder.WriteByte('?')
		_, _ = builder.WriteString(values.Encode())
	}
	return builder.String()
}

// Validate checks whether the Address is well-formed: the protocol is a
// valid URL scheme, the host is set and, when a port is set, host and port
// form a valid TCP address.
func (x *Address) Validate() error {
	if x == nil {
		return ErrAddressRequired
	}

	chain := validation.New(validation.FailFast()).
		AddValidator(validation.NewEmptyStringValidator("protocol", x.protocol)).
		AddValidator(validation.NewPatternValidator(protocolPattern, x.protocol, ErrInvalidProtocol)).
		AddValidator(validation.NewEmptyStringValidator("host", x.host)).
		AddAssertion(x.port >= 0, "port must not be negative")
	if x.port > 0 {
		chain.AddValidator(validation.NewTCPAddressValidator(x.HostPort()))
	}
	return chain.Validate()
}

func (x *Address) clone() *Address {
	if x == nil {
		return &Address{}
	}
	clone := *x
	clone.params = maps.Clone(x.params)
	return &clone
}
