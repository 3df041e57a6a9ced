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

package hash

import (
	"hash/fnv"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/xxh3"

	"github.com/tochemey/spi/address"
	"github.com/tochemey/spi/errors"
	"github.com/tochemey/spi/extension"
	"github.com/tochemey/spi/log"
)

func TestHasher(t *testing.T) {
	registry := extension.NewRegistry(extension.WithLogger(log.DiscardLogger))
	require.NoError(t, Register(registry))

	names, err := extension.Names[Hasher](registry)
	require.NoError(t, err)
	assert.Equal(t, []string{FNV, XXH3, XXHash}, names)

	hasher, err := Adaptive(registry)
	require.NoError(t, err)

	key := []byte("order-42")
	fnvHash := fnv.New64a()
	_, _ = fnvHash.Write(key)

	base := address.New("tcp", "localhost", 20880, "orders", nil)
	testCases := []struct {
		name     string
		addr     *address.Address
		expected uint64
	}{
		{name: "default", addr: base, expected: xxh3.Hash(key)},
		{name: "hash key", addr: base.WithParameter("hash", XXHash), expected: xxhash.Sum64(key)},
		{name: "hasher key", addr: base.WithParameter("hasher", FNV), expected: fnvHash.Sum64()},
		{name: "hash key first", addr: base.WithParameter("hash", FNV).WithParameter("hasher", XXHash), expected: fnvHash.Sum64()},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sum, err := hasher.HashCode(tc.addr, key)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, sum)
		})
	}

	t.Run("unknown hasher", func(t *testing.T) {
		addr, err := address.Parse("tcp://127.0.0.1:1/x?hash=md5")
		require.NoError(t, err)
		sum, err := hasher.HashCode(addr, key)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrUnknownExtension)
		assert.Zero(t, sum)
	})

	t.Run("nil address", func(t *testing.T) {
		sum, err := hasher.HashCode(nil, key)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrNoParameters)
		assert.Zero(t, sum)
	})

	require.NoError(t, registry.Close())
}

func TestDefaultHasher(t *testing.T) {
	sum, err := DefaultHasher().HashCode(nil, []byte("key"))
	require.NoError(t, err)
	assert.Equal(t, xxh3.Hash([]byte("key")), sum)
}
