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

package xsync

import (
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap(t *testing.T) {
	t.Run("Set Get Delete", func(t *testing.T) {
		m := NewMap[string, int]()
		m.Set("netty", 1)
		m.Set("mina", 2)

		v, ok := m.Get("netty")
		require.True(t, ok)
		assert.Equal(t, 1, v)
		assert.Equal(t, 2, m.Len())

		m.Delete("netty")
		_, ok = m.Get("netty")
		assert.False(t, ok)
		assert.Equal(t, 1, m.Len())
	})

	t.Run("GetOrSet keeps the first value", func(t *testing.T) {
		m := NewMap[string, int]()
		actual, loaded := m.GetOrSet("netty", 1)
		assert.False(t, loaded)
		assert.Equal(t, 1, actual)

		actual, loaded = m.GetOrSet("netty", 2)
		assert.True(t, loaded)
		assert.Equal(t, 1, actual)
	})

	t.Run("Keys Values Range Reset", func(t *testing.T) {
		m := NewMap[string, int]()
		m.Set("a", 1)
		m.Set("b", 2)

		keys := m.Keys()
		slices.Sort(keys)
		assert.Equal(t, []string{"a", "b"}, keys)

		values := m.Values()
		slices.Sort(values)
		assert.Equal(t, []int{1, 2}, values)

		sum := 0
		m.Range(func(_ string, v int) { sum += v })
		assert.Equal(t, 3, sum)

		m.Reset()
		assert.Zero(t, m.Len())
	})

	t.Run("concurrent GetOrSet stores once", func(t *testing.T) {
		m := NewMap[string, int]()
		var wg sync.WaitGroup
		results := make([]int, 64)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], _ = m.GetOrSet("key", i)
			}(i)
		}
		wg.Wait()
		for _, r := range results {
			assert.Equal(t, results[0], r)
		}
	})
}
