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
)

func TestDeriveKey(t *testing.T) {
	testCases := []struct {
		name     string
		expected string
	}{
		{name: "YyyInvokerWrapper", expected: "yyy.invoker.wrapper"},
		{name: "Transporter", expected: "transporter"},
		{name: "HTTPServer", expected: "h.t.t.p.server"},
		{name: "protocol", expected: "protocol"},
		{name: "", expected: ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, DeriveKey(tc.name))
		})
	}

	t.Run("is stable on its own output", func(t *testing.T) {
		key := DeriveKey("YyyInvokerWrapper")
		assert.Equal(t, key, DeriveKey(key))
	})
}

func TestSplitNames(t *testing.T) {
	assert.Nil(t, SplitNames(""))
	assert.Nil(t, SplitNames("  "))
	assert.Equal(t, []string{"a"}, SplitNames("a"))
	assert.Equal(t, []string{"a", "-b", "default"}, SplitNames(" a, ,-b ,default,"))
}
