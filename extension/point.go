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
	"reflect"
	"slices"
	"strings"

	"github.com/tochemey/spi/errors"
	"github.com/tochemey/spi/internal/validation"
)

// Point describes an extension point: the interface T, its default extension
// name and the parameter keys its adaptive methods are resolved with.
//
// A Point is computed once by Declare and is read-only afterwards.
type Point[T any] struct {
	name        string
	defaultName string
	derivedKey  string
	keys        []string
	methods     map[string][]string
	adapter     func(*Adaptive[T]) T
}

// newPoint builds the descriptor of T from the declared options
func newPoint[T any](config *pointConfig) (*Point[T], error) {
	rtype := reflect.TypeFor[T]()
	name := config.name
	if name == "" {
		name = rtype.Name()
	}

	if rtype.Kind() != reflect.Interface || name == "" {
		return nil, errors.NewErrNotExtensionPoint(rtype.String())
	}

	if config.defaultName != "" {
		if err := validation.NewNameValidator(config.defaultName).Validate(); err != nil {
			return nil, errors.NewErrInvalidExtensionName(name, config.defaultName)
		}
	}

	chain := validation.New(validation.AllErrors())
	for _, key := range config.keys {
		chain.AddValidator(validation.NewEmptyStringValidator(name+" key", key))
	}
	for method, keys := range config.methods {
		chain.AddValidator(validation.NewEmptyStringValidator(name+" method", method))
		if method != "" {
			_, found := rtype.MethodByName(method)
			chain.AddAssertion(found, fmt.Sprintf("%s has no method %s", rtype.String(), method))
		}
		for _, key := range keys {
			chain.AddValidator(validation.NewEmptyStringValidator(name+"."+method+" key", key))
		}
	}
	if err := chain.Validate(); err != nil {
		return nil, fmt.Errorf("invalid extension point %s: %w", name, err)
	}

	point := &Point[T]{
		name:        name,
		defaultName: config.defaultName,
		derivedKey:  DeriveKey(name),
		keys:        slices.Clone(config.keys),
		methods:     make(map[string][]string, len(config.methods)),
	}

	for method, keys := range config.methods {
		if len(keys) == 0 {
			keys = point.typeKeys()
		}
		point.methods[method] = slices.Clone(keys)
	}

	if config.adapter != nil {
		adapter, ok := config.adapter.(func(*Adaptive[T]) T)
		if !ok {
			return nil, fmt.Errorf("invalid extension point %s: adapter %T does not build a %s", name, config.adapter, rtype.String())
		}
		point.adapter = adapter
	}

	return point, nil
}

// Name returns the simple name of the extension point
func (p *Point[T]) Name() string {
	return p.name
}

// DefaultName returns the declared default extension name, empty when none is declared
func (p *Point[T]) DefaultName() string {
	return p.defaultName
}

// DerivedKey returns the parameter key derived from the point name
func (p *Point[T]) DerivedKey() string {
	return p.derivedKey
}

// Keys returns the ordered parameter keys the given method is resolved with:
// the method keys when declared, otherwise the point keys, otherwise the
// derived key.
func (p *Point[T]) Keys(method string) []string {
	return slices.Clone(p.candidateKeys(method))
}

// Methods returns the sorted names of the methods declared adaptive
func (p *Point[T]) Methods() []string {
	methods := make([]string, 0, len(p.methods))
	for method := range p.methods {
		methods = append(methods, method)
	}
	slices.Sort(methods)
	return methods
}

// String returns a readable form of the descriptor
func (p *Point[T]) String() string {
	return fmt.Sprintf("%s(default=%s, keys=[%s])", p.name, p.defaultName, strings.Join(p.typeKeys(), ","))
}

// candidateKeys returns the shared key slice; callers must not modify it
func (p *Point[T]) candidateKeys(method string) []string {
	if keys, ok := p.methods[method]; ok {
		return keys
	}
	return p.typeKeys()
}

func (p *Point[T]) typeKeys() []string {
	if len(p.keys) > 0 {
		return p.keys
	}
	return []string{p.derivedKey}
}
