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
	"cmp"
	"fmt"
	"slices"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/tochemey/spi/errors"
)

const (
	// excludePrefix removes an extension from an activation list
	excludePrefix = "-"
	// defaultMarker stands for the automatically activated extensions in an activation list
	defaultMarker = "default"
)

// Activation describes when a registered extension is activated automatically.
type Activation struct {
	// Groups restricts activation to the given groups. An empty list only
	// matches requests made without a group.
	Groups []string
	// Keys restricts activation to requests carrying one of these parameters
	// with a non-empty value. A parameter named "<prefix>.<key>" also matches.
	Keys []string
	// Order sorts activated extensions, lowest first. Ties are sorted by name.
	Order int
}

// Activate returns the extensions of T activated for a request.
//
// Unless names contains "-default", every extension registered WithActivation
// whose groups match group, whose keys are present in params and which is
// neither listed in names nor excluded with "-<name>" is activated, sorted by
// order. The extensions listed in names follow in the given order; the entry
// "default" places the names listed before it ahead of the automatic ones.
func Activate[T any](r *Registry, params Parameters, names []string, group string) ([]T, error) {
	l, err := loaderOf[T](r)
	if err != nil {
		return nil, err
	}
	return l.activate(params, names, group)
}

// ActivateByKey is Activate with names read from the comma separated
// value of the request parameter key.
func ActivateByKey[T any](r *Registry, params Parameters, key, group string) ([]T, error) {
	l, err := loaderOf[T](r)
	if err != nil {
		return nil, err
	}
	if params == nil {
		return nil, fmt.Errorf("point=(%s) key=(%s) %w", l.point.Name(), key, errors.ErrNoParameters)
	}
	value, _ := params.Get(key)
	return l.activate(params, SplitNames(value), group)
}

func (l *pointLoader[T]) activate(params Parameters, names []string, group string) ([]T, error) {
	listed := mapset.NewThreadUnsafeSet(names...)
	var activated []T

	if !listed.Contains(excludePrefix + defaultMarker) {
		for _, reg := range l.activatable() {
			if !groupMatches(group, reg.activation.Groups) ||
				listed.Contains(reg.name) ||
				listed.Contains(excludePrefix+reg.name) ||
				!isActive(reg.activation.Keys, params) {
				continue
			}

			instance, err := l.get(reg.name)
			if err != nil {
				return nil, err
			}
			activated = append(activated, instance)
		}
	}

	var explicit []T
	for _, name := range names {
		if strings.HasPrefix(name, excludePrefix) || listed.Contains(excludePrefix+name) {
			continue
		}

		if name == defaultMarker {
			if len(explicit) > 0 {
				activated = append(explicit, activated...)
				explicit = nil
			}
			continue
		}

		instance, err := l.get(name)
		if err != nil {
			return nil, err
		}
		explicit = append(explicit, instance)
	}

	return append(activated, explicit...), nil
}

// activatable returns the registrations carrying an activation, by order then name
func (l *pointLoader[T]) activatable() []*registration[T] {
	l.mu.RLock()
	regs := make([]*registration[T], 0, len(l.registrations))
	for _, reg := range l.registrations {
		if reg.activation != nil {
			regs = append(regs, reg)
		}
	}
	l.mu.RUnlock()

	slices.SortFunc(regs, func(a, b *registration[T]) int {
		if c := cmp.Compare(a.activation.Order, b.activation.Order); c != 0 {
			return c
		}
		return cmp.Compare(a.name, b.name)
	})
	return regs
}

func groupMatches(group string, groups []string) bool {
	if group == "" {
		return true
	}
	return mapset.NewThreadUnsafeSet(groups...).Contains(group)
}

func isActive(keys []string, params Parameters) bool {
	if len(keys) == 0 {
		return true
	}
	if params == nil {
		return false
	}

	for _, key := range keys {
		if value, ok := params.Get(key); ok && value != "" {
			return true
		}
	}

	ranger, ok := params.(rangeParameters)
	if !ok {
		return false
	}

	suffixes := make([]string, len(keys))
	for i, key := range keys {
		suffixes[i] = "." + key
	}

	active := false
	ranger.Range(func(name, value string) bool {
		if value == "" {
			return true
		}
		for _, suffix := range suffixes {
			if strings.HasSuffix(name, suffix) {
				active = true
				return false
			}
		}
		return true
	})
	return active
}
