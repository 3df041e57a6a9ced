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
	stderrors "errors"
	"slices"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/sync/singleflight"

	"github.com/tochemey/spi/errors"
	"github.com/tochemey/spi/internal/validation"
	"github.com/tochemey/spi/internal/xsync"
	"github.com/tochemey/spi/log"
)

// defaultAlias resolves to the declared default extension
const defaultAlias = "true"

var (
	errNilFactory  = stderrors.New("factory is nil")
	errNilInstance = stderrors.New("factory returned a nil instance")
)

// Factory creates an extension instance. The registry is handed over so that
// a factory can resolve the extensions its instance depends on. A factory
// must not resolve the extension it is constructing.
type Factory[T any] func(r *Registry) (T, error)

// Wrapper decorates every instance of an extension point when it is constructed
type Wrapper[T any] func(T) T

// registration is a registered extension factory
type registration[T any] struct {
	name       string
	factory    Factory[T]
	activation *Activation
}

// pointLoader holds the registrations and instances of one extension point
type pointLoader[T any] struct {
	registry *Registry
	point    *Point[T]
	logger   log.Logger

	mu            sync.RWMutex
	registrations map[string]*registration[T]
	wrappers      []Wrapper[T]

	instances    *xsync.Map[string, T]
	constructing singleflight.Group

	adaptiveMu      sync.Mutex
	adaptiveFactory Factory[T]
	adaptive        T
	adaptiveBuilt   bool
}

var _ loader = (*pointLoader[any])(nil)

func newPointLoader[T any](r *Registry, point *Point[T]) *pointLoader[T] {
	return &pointLoader[T]{
		registry:      r,
		point:         point,
		logger:        r.logger.With("point", point.Name()),
		registrations: make(map[string]*registration[T]),
		instances:     xsync.NewMap[string, T](),
	}
}

func (l *pointLoader[T]) pointName() string {
	return l.point.Name()
}

// Register associates name with factory on the extension point T.
// The name must be unique for T: a second registration fails with
// ErrDuplicateName. Registration is expected to happen during start-up.
func Register[T any](r *Registry, name string, factory Factory[T], opts ...RegisterOption) error {
	l, err := loaderOf[T](r)
	if err != nil {
		return err
	}
	return l.register(name, factory, opts...)
}

func (l *pointLoader[T]) register(name string, factory Factory[T], opts ...RegisterOption) error {
	if err := validation.NewNameValidator(name).Validate(); err != nil {
		return errors.NewErrInvalidExtensionName(l.point.Name(), name)
	}

	if factory == nil {
		return errors.NewErrInstantiation(l.point.Name(), name, errNilFactory)
	}

	config := &registerConfig{}
	for _, opt := range opts {
		opt.Apply(config)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.registrations[name]; ok {
		l.logger.Warnf("extension %s is already registered", name)
		return errors.NewErrDuplicateName(l.point.Name(), name)
	}

	l.registrations[name] = &registration[T]{
		name:       name,
		factory:    factory,
		activation: config.activation,
	}
	l.logger.Debugf("extension %s registered", name)
	return nil
}

// Resolve returns the instance registered under name for the extension point T,
// constructing it on first use. The name "true" resolves the declared default.
// An unregistered name fails with ErrUnknownExtension.
func Resolve[T any](r *Registry, name string) (T, error) {
	l, err := loaderOf[T](r)
	if err != nil {
		var zero T
		return zero, err
	}
	return l.get(name)
}

// Default returns the instance of the declared default extension of T.
// It fails with ErrNoExtensionNameResolved when T declares no default.
func Default[T any](r *Registry) (T, error) {
	return Resolve[T](r, defaultAlias)
}

// DefaultName returns the declared default extension name of T, empty when none is declared.
func DefaultName[T any](r *Registry) (string, error) {
	l, err := loaderOf[T](r)
	if err != nil {
		return "", err
	}
	return l.point.DefaultName(), nil
}

// Names returns the sorted names registered for the extension point T.
func Names[T any](r *Registry) ([]string, error) {
	l, err := loaderOf[T](r)
	if err != nil {
		return nil, err
	}
	return l.names(), nil
}

// Has reports whether name is registered for the extension point T.
func Has[T any](r *Registry, name string) bool {
	l, err := loaderOf[T](r)
	if err != nil {
		return false
	}
	l.mu.RLock()
	_, ok := l.registrations[name]
	l.mu.RUnlock()
	return ok
}

// Loaded returns the sorted names of the extensions of T that have been constructed.
func Loaded[T any](r *Registry) ([]string, error) {
	l, err := loaderOf[T](r)
	if err != nil {
		return nil, err
	}
	names := l.instances.Keys()
	slices.Sort(names)
	return names, nil
}

// Wrap adds a wrapper applied to every instance of T constructed afterwards.
// Wrappers run in the order they were added, so the last one is outermost.
func Wrap[T any](r *Registry, wrapper Wrapper[T]) error {
	l, err := loaderOf[T](r)
	if err != nil {
		return err
	}
	if wrapper == nil {
		return nil
	}
	l.mu.Lock()
	l.wrappers = append(l.wrappers, wrapper)
	l.mu.Unlock()
	return nil
}

// get returns the named instance, constructing it once
func (l *pointLoader[T]) get(name string) (T, error) {
	var zero T
	if name == "" {
		l.registry.metric.RecordFailure(context.Background(), l.point.Name(), "invalid_name")
		return zero, errors.NewErrInvalidExtensionName(l.point.Name(), name)
	}

	if name == defaultAlias {
		name = l.point.DefaultName()
		if name == "" {
			l.registry.metric.RecordFailure(context.Background(), l.point.Name(), "no_name")
			return zero, errors.NewErrNoExtensionNameResolved(l.point.Name(), "", nil, defaultAlias)
		}
	}

	if instance, ok := l.instances.Get(name); ok {
		l.registry.metric.RecordResolution(context.Background(), l.point.Name(), name)
		return instance, nil
	}

	l.mu.RLock()
	reg, ok := l.registrations[name]
	l.mu.RUnlock()
	if !ok {
		l.logger.Warnf("extension %s is not registered", name)
		l.registry.metric.RecordFailure(context.Background(), l.point.Name(), "unknown")
		return zero, errors.NewErrUnknownExtension(l.point.Name(), name, l.names())
	}

	result, err, _ := l.constructing.Do(name, func() (any, error) {
		// another caller may have finished constructing while this one waited for the read lock
		if instance, ok := l.instances.Get(name); ok {
			return instance, nil
		}
		instance, err := l.construct(reg)
		if err != nil {
			return nil, err
		}
		l.instances.Set(name, instance)
		return instance, nil
	})

	if err != nil {
		l.logger.Errorf("failed to construct extension %s: %v", name, err)
		l.registry.metric.RecordFailure(context.Background(), l.point.Name(), "instantiation")
		return zero, err
	}

	l.registry.metric.RecordResolution(context.Background(), l.point.Name(), name)
	return result.(T), nil
}

// construct runs the factory of a registered extension and applies the wrappers
func (l *pointLoader[T]) construct(reg *registration[T]) (T, error) {
	instance, err := l.build(reg.name, reg.factory, true)
	if err != nil {
		return instance, err
	}
	l.logger.Infof("extension %s constructed", reg.name)
	l.registry.metric.RecordConstruction(context.Background(), l.point.Name(), reg.name)
	return instance, nil
}

// build runs factory, turning panics and nil instances into ErrInstantiation
func (l *pointLoader[T]) build(name string, factory Factory[T], wrap bool) (instance T, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			var zero T
			instance = zero
			err = errors.NewErrInstantiation(l.point.Name(), name, errors.NewPanicError(recovered))
		}
	}()

	instance, err = factory(l.registry)
	if err != nil {
		var zero T
		return zero, errors.NewErrInstantiation(l.point.Name(), name, err)
	}

	if wrap {
		l.mu.RLock()
		wrappers := slices.Clone(l.wrappers)
		l.mu.RUnlock()
		for _, wrapper := range wrappers {
			instance = wrapper(instance)
		}
	}

	if any(instance) == nil {
		var zero T
		return zero, errors.NewErrInstantiation(l.point.Name(), name, errNilInstance)
	}
	return instance, nil
}

// names returns the sorted registered names
func (l *pointLoader[T]) names() []string {
	l.mu.RLock()
	names := make([]string, 0, len(l.registrations))
	for name := range l.registrations {
		names = append(names, name)
	}
	l.mu.RUnlock()
	slices.Sort(names)
	return names
}

// close closes the constructed instances holding resources
func (l *pointLoader[T]) close() error {
	var err error
	l.instances.Range(func(name string, instance T) {
		if closeErr := closeInstance(instance); closeErr != nil {
			l.logger.Warnf("failed to close extension %s: %v", name, closeErr)
			err = multierr.Append(err, closeErr)
		}
	})
	return err
}
