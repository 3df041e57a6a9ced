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
	"context"
	"fmt"

	"github.com/tochemey/spi/errors"
	"github.com/tochemey/spi/internal/xsync"
)

// protocolKey is read from the request protocol when the parameters carry one
const protocolKey = "protocol"

// Parameters is the request context an adaptive call is resolved from.
// Implementations must be safe for concurrent reads.
type Parameters interface {
	// Get returns the value of key and whether it is present
	Get(key string) (string, bool)
}

// protocolParameters is implemented by request contexts that carry the
// protocol outside of their parameter set, such as addresses.
type protocolParameters interface {
	Protocol() string
}

// rangeParameters is implemented by request contexts that can enumerate their parameters
type rangeParameters interface {
	Range(f func(key, value string) bool)
}

// Adaptive dispatches calls on the extension point T to the implementation
// named by the request parameters of each call.
//
// Per call it takes the candidate keys of the invoked method, uses the value of
// the first key present and non-empty in the parameters as the extension name,
// falls back to the declared default name, resolves that extension from the
// registry and hands it to the caller. The dispatcher keeps no state besides a
// cache of the instances it has resolved, so one dispatcher can route
// concurrent calls to different implementations.
type Adaptive[T any] struct {
	loader *pointLoader[T]
	cache  *xsync.Map[string, T]
}

// NewAdaptive creates a dispatcher for the declared extension point T
func NewAdaptive[T any](r *Registry) (*Adaptive[T], error) {
	l, err := loaderOf[T](r)
	if err != nil {
		return nil, err
	}
	return newAdaptive(l), nil
}

func newAdaptive[T any](l *pointLoader[T]) *Adaptive[T] {
	return &Adaptive[T]{
		loader: l,
		cache:  xsync.NewMap[string, T](),
	}
}

// Point returns the descriptor of the extension point the dispatcher serves
func (a *Adaptive[T]) Point() *Point[T] {
	return a.loader.point
}

// Name returns the extension name the given method call resolves to.
// It fails with ErrNoParameters when params is nil and with
// ErrNoExtensionNameResolved when no key matches and no default is declared.
func (a *Adaptive[T]) Name(method string, params Parameters) (string, error) {
	point := a.loader.point
	if params == nil {
		a.loader.registry.metric.RecordFailure(context.Background(), point.Name(), "no_parameters")
		return "", fmt.Errorf("point=(%s) method=(%s) %w", point.Name(), method, errors.ErrNoParameters)
	}

	keys := point.candidateKeys(method)
	for _, key := range keys {
		if value, ok := lookup(params, key); ok && value != "" {
			return value, nil
		}
	}

	if name := point.DefaultName(); name != "" {
		return name, nil
	}

	a.loader.registry.metric.RecordFailure(context.Background(), point.Name(), "no_name")
	return "", errors.NewErrNoExtensionNameResolved(point.Name(), method, keys, describe(params))
}

// Resolve returns the extension instance the given method call is dispatched to
func (a *Adaptive[T]) Resolve(method string, params Parameters) (T, error) {
	var zero T
	name, err := a.Name(method, params)
	if err != nil {
		return zero, err
	}

	if instance, ok := a.cache.Get(name); ok {
		a.loader.registry.metric.RecordResolution(context.Background(), a.loader.point.Name(), name)
		return instance, nil
	}

	instance, err := a.loader.get(name)
	if err != nil {
		return zero, err
	}

	a.cache.Set(name, instance)
	return instance, nil
}

// Call resolves the extension for method and invokes fn on it. The result and
// error of fn are returned to the caller as they are.
func Call[T, R any](a *Adaptive[T], method string, params Parameters, fn func(T) (R, error)) (R, error) {
	instance, err := a.Resolve(method, params)
	if err != nil {
		var zero R
		return zero, err
	}
	return fn(instance)
}

// Exec is Call for methods that only return an error
func Exec[T any](a *Adaptive[T], method string, params Parameters, fn func(T) error) error {
	instance, err := a.Resolve(method, params)
	if err != nil {
		return err
	}
	return fn(instance)
}

// RegisterAdaptive registers a hand-written adaptive implementation of T.
// It takes precedence over the point adapter in AdaptiveOf.
func RegisterAdaptive[T any](r *Registry, factory Factory[T]) error {
	l, err := loaderOf[T](r)
	if err != nil {
		return err
	}
	if factory == nil {
		return errors.NewErrInstantiation(l.point.Name(), "adaptive", errNilFactory)
	}

	l.adaptiveMu.Lock()
	defer l.adaptiveMu.Unlock()
	if l.adaptiveFactory != nil {
		return errors.NewErrDuplicateName(l.point.Name(), "adaptive")
	}
	l.adaptiveFactory = factory
	return nil
}

// AdaptiveOf returns the adaptive implementation of T: the hand-written one
// registered with RegisterAdaptive, or else the one built by the adapter the
// point was declared with. The instance is built once per registry.
// It fails with ErrNotAdaptive when T has neither.
func AdaptiveOf[T any](r *Registry) (T, error) {
	var zero T
	l, err := loaderOf[T](r)
	if err != nil {
		return zero, err
	}

	l.adaptiveMu.Lock()
	defer l.adaptiveMu.Unlock()
	if l.adaptiveBuilt {
		return l.adaptive, nil
	}

	var instance T
	switch {
	case l.adaptiveFactory != nil:
		instance, err = l.build("adaptive", l.adaptiveFactory, false)
		if err != nil {
			return zero, err
		}
	case l.point.adapter != nil:
		instance = l.point.adapter(newAdaptive(l))
	default:
		return zero, errors.NewErrNotAdaptive(l.point.Name())
	}

	l.adaptive = instance
	l.adaptiveBuilt = true
	return instance, nil
}

// lookup reads key from the parameters
func lookup(params Parameters, key string) (string, bool) {
	if key == protocolKey {
		if carrier, ok := params.(protocolParameters); ok {
			if protocol := carrier.Protocol(); protocol != "" {
				return protocol, true
			}
		}
	}
	return params.Get(key)
}

// describe renders the parameters for error messages
func describe(params Parameters) string {
	if stringer, ok := params.(fmt.Stringer); ok {
		return stringer.String()
	}
	return fmt.Sprintf("%v", params)
}
