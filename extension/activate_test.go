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
	"github.com/stretchr/testify/require"

	"github.com/tochemey/spi/errors"
)

func newFilterRegistry(t *testing.T) *Registry {
	t.Helper()
	registry := newTestRegistry(t)
	_, err := Declare[Filter](registry)
	require.NoError(t, err)

	require.NoError(t, Register(registry, "monitor", filterFactory("monitor"),
		WithActivation(Activation{Groups: []string{"consumer", "provider"}, Order: 2})))
	require.NoError(t, Register(registry, "context", filterFactory("context"),
		WithActivation(Activation{Groups: []string{"provider"}, Order: -1})))
	require.NoError(t, Register(registry, "cache", filterFactory("cache"),
		WithActivation(Activation{Groups: []string{"consumer"}, Keys: []string{"cache"}, Order: 1})))
	require.NoError(t, Register(registry, "echo", filterFactory("echo"),
		WithActivation(Activation{Groups: []string{"consumer", "provider"}, Order: 2})))
	require.NoError(t, Register(registry, "token", filterFactory("token")))
	require.NoError(t, Register(registry, "trace", filterFactory("trace")))
	return registry
}

func filterNames(filters []Filter) []string {
	names := make([]string, len(filters))
	for i, f := range filters {
		names[i] = f.Name()
	}
	return names
}

func TestActivate(t *testing.T) {
	registry := newFilterRegistry(t)

	testCases := []struct {
		name     string
		params   Parameters
		names    []string
		group    string
		expected []string
	}{
		{
			name:     "sorted by order then name",
			params:   newParams(),
			group:    "consumer",
			expected: []string{"echo", "monitor"},
		},
		{
			name:     "active key",
			params:   newParams("cache", "lru"),
			group:    "consumer",
			expected: []string{"cache", "echo", "monitor"},
		},
		{
			name:     "active key suffix",
			params:   newParams("sayHello.cache", "lru"),
			group:    "consumer",
			expected: []string{"cache", "echo", "monitor"},
		},
		{
			name:     "empty key value is inactive",
			params:   newParams("cache", ""),
			group:    "consumer",
			expected: []string{"echo", "monitor"},
		},
		{
			name:     "empty group matches every group",
			params:   newParams(),
			expected: []string{"context", "echo", "monitor"},
		},
		{
			name:     "explicit names follow",
			params:   newParams(),
			names:    []string{"trace", "token"},
			group:    "provider",
			expected: []string{"context", "echo", "monitor", "trace", "token"},
		},
		{
			name:     "excluded names",
			params:   newParams(),
			names:    []string{"-echo", "token", "-token"},
			group:    "provider",
			expected: []string{"context", "monitor"},
		},
		{
			name:     "explicit activatable name keeps its position",
			params:   newParams(),
			names:    []string{"token", "echo"},
			group:    "provider",
			expected: []string{"context", "monitor", "token", "echo"},
		},
		{
			name:     "default splices explicit names first",
			params:   newParams(),
			names:    []string{"token", "default", "trace"},
			group:    "provider",
			expected: []string{"token", "context", "echo", "monitor", "trace"},
		},
		{
			name:     "minus default disables automatic activation",
			params:   newParams(),
			names:    []string{"-default", "trace"},
			group:    "provider",
			expected: []string{"trace"},
		},
		{
			name:     "unknown group",
			params:   newParams(),
			group:    "registry",
			expected: nil,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			filters, err := Activate[Filter](registry, tc.params, tc.names, tc.group)
			require.NoError(t, err)
			if tc.expected == nil {
				assert.Empty(t, filters)
				return
			}
			assert.Equal(t, tc.expected, filterNames(filters))
		})
	}

	t.Run("unknown explicit name", func(t *testing.T) {
		_, err := Activate[Filter](registry, newParams(), []string{"grpc"}, "provider")
		require.ErrorIs(t, err, errors.ErrUnknownExtension)
	})
	t.Run("keys without parameters", func(t *testing.T) {
		filters, err := Activate[Filter](registry, nil, nil, "consumer")
		require.NoError(t, err)
		assert.Equal(t, []string{"echo", "monitor"}, filterNames(filters))
	})
	t.Run("keys without enumerable parameters", func(t *testing.T) {
		filters, err := Activate[Filter](registry, getOnly{"sayHello.cache": "lru"}, nil, "consumer")
		require.NoError(t, err)
		assert.Equal(t, []string{"echo", "monitor"}, filterNames(filters))
	})
}

func TestActivateByKey(t *testing.T) {
	registry := newFilterRegistry(t)

	filters, err := ActivateByKey[Filter](registry, newParams("filter", "token, -monitor"), "filter", "consumer")
	require.NoError(t, err)
	assert.Equal(t, []string{"echo", "token"}, filterNames(filters))

	filters, err = ActivateByKey[Filter](registry, newParams(), "filter", "consumer")
	require.NoError(t, err)
	assert.Equal(t, []string{"echo", "monitor"}, filterNames(filters))

	_, err = ActivateByKey[Filter](registry, nil, "filter", "consumer")
	require.ErrorIs(t, err, errors.ErrNoParameters)
}

func TestWithActivationCopies(t *testing.T) {
	groups := []string{"provider"}
	config := &registerConfig{}
	WithActivation(Activation{Groups: groups, Order: 3}).Apply(config)
	groups[0] = "consumer"

	require.NotNil(t, config.activation)
	assert.Equal(t, []string{"provider"}, config.activation.Groups)
	assert.Equal(t, 3, config.activation.Order)
}
