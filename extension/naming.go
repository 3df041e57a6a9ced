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
	"strings"
	"unicode"
)

// DeriveKey derives the request parameter key of an extension point from its
// simple type name: every upper-case letter starts a new part, parts are
// lower-cased and joined with a dot.
//
//	DeriveKey("YyyInvokerWrapper") // "yyy.invoker.wrapper"
//	DeriveKey("Transporter")       // "transporter"
//	DeriveKey("HTTPServer")        // "h.t.t.p.server"
//
// Acronyms are split letter by letter; declare explicit keys for such types.
func DeriveKey(simpleName string) string {
	var builder strings.Builder
	builder.Grow(len(simpleName) + 4)
	for i, r := range simpleName {
		if unicode.IsUpper(r) {
			if i != 0 {
				_ = builder.WriteByte('.')
			}
			_, _ = builder.WriteRune(unicode.ToLower(r))
			continue
		}
		_, _ = builder.WriteRune(r)
	}
	return builder.String()
}

// SplitNames splits a comma separated list of extension names, trimming
// spaces and dropping empty entries.
func SplitNames(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}
