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
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/tochemey/spi/log"
)

func TestOption(t *testing.T) {
	provider := noop.NewMeterProvider()
	testCases := []struct {
		name     string
		option   Option
		expected registryConfig
	}{
		{
			name:     "WithLogger",
			option:   WithLogger(log.DiscardLogger),
			expected: registryConfig{logger: log.DiscardLogger},
		},
		{
			name:     "WithLogger ignores nil",
			option:   WithLogger(nil),
			expected: registryConfig{logger: log.DefaultLogger},
		},
		{
			name:     "WithMeterProvider",
			option:   WithMeterProvider(provider),
			expected: registryConfig{logger: log.DefaultLogger, meterProvider: provider},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			config := newRegistryConfig(tc.option)
			assert.Equal(t, tc.expected, *config)
		})
	}
}

func TestPointOption(t *testing.T) {
	keys := []string{"server", "transporter"}
	config := newPointConfig(
		WithPointName("Remoting"),
		WithDefaultName("netty"),
		WithKeys(keys...),
		WithMethod("Bind", keys...),
		WithMethod("Close"),
	)
	keys[0] = "client"

	assert.Equal(t, "Remoting", config.name)
	assert.Equal(t, "netty", config.defaultName)
	assert.Equal(t, []string{"server", "transporter"}, config.keys)
	assert.Equal(t, []string{"server", "transporter"}, config.methods["Bind"])
	assert.Empty(t, config.methods["Close"])
	assert.Nil(t, config.adapter)
}

func TestPointKeys(t *testing.T) {
	point, err := newPoint[Transporter](newPointConfig(
		WithDefaultName("netty"),
		WithMethod("Bind", "server", "transporter"),
		WithMethod("Connect"),
	))
	assert.NoError(t, err)

	assert.Equal(t, []string{"server", "transporter"}, point.Keys("Bind"))
	assert.Equal(t, []string{"transporter"}, point.Keys("Connect"))
	assert.Equal(t, []string{"transporter"}, point.Keys("Unknown"))
	assert.Equal(t, "Transporter(default=netty, keys=[transporter])", point.String())

	keys := point.Keys("Bind")
	keys[0] = "client"
	assert.Equal(t, []string{"server", "transporter"}, point.Keys("Bind"))
}
