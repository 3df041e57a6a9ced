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

// Package extension implements adaptive extension resolution.
//
// An extension point is a Go interface declared on a Registry together with
// its default extension name and the request parameter keys its methods are
// resolved with. Implementations are registered by name with a Factory and
// are constructed at most once per registry, on first use.
//
// An Adaptive dispatcher picks the implementation per call: it reads the
// candidate keys of the invoked method from the request Parameters, falls back
// to the declared default name, resolves the named instance from the registry
// and forwards the call to it.
//
//	registry := extension.NewRegistry()
//	_, _ = extension.Declare[Transporter](registry,
//		extension.WithDefaultName("netty"),
//		extension.WithMethod("Bind", "server", "transporter"))
//	_ = extension.Register[Transporter](registry, "netty", newNetty)
//	_ = extension.Register[Transporter](registry, "mina", newMina)
//
//	dispatcher, _ := extension.NewAdaptive[Transporter](registry)
//	server, err := extension.Call(dispatcher, "Bind", params, func(t Transporter) (Server, error) {
//		return t.Bind(params)
//	})
package extension

import (
	"io"
	"reflect"
	"slices"
	"sync"

	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/atomic"
	"go.uber.org/multierr"

	"github.com/tochemey/spi/errors"
	"github.com/tochemey/spi/internal/metric"
	"github.com/tochemey/spi/log"
)

// loader is the type-erased view of a declared extension point
type loader interface {
	pointName() string
	close() error
}

// Registry owns the declared extension points, their registered factories
// and the instances constructed from them.
//
// A Registry is meant to be populated during start-up and shared afterwards;
// all its operations are safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	points map[reflect.Type]loader

	logger log.Logger
	metric *metric.ExtensionMetric
	closed atomic.Bool
}

// NewRegistry creates an empty Registry
func NewRegistry(opts ...Option) *Registry {
	config := newRegistryConfig(opts...)

	var providerOpts []metric.ProviderOption
	if config.meterProvider != nil {
		providerOpts = append(providerOpts, metric.WithMeterProvider(config.meterProvider))
	}

	extensionMetric, err := metric.NewExtensionMetric(metric.NewProvider(providerOpts...).Meter())
	if err != nil {
		config.logger.Warnf("extension metrics disabled: %v", err)
		// the noop meter never fails
		extensionMetric, _ = metric.NewExtensionMetric(noop.NewMeterProvider().Meter(""))
	}

	return &Registry{
		points: make(map[reflect.Type]loader),
		logger: config.logger,
		metric: extensionMetric,
	}
}

// Declare declares T as an extension point of the registry and returns its
// descriptor. T must be an interface type. Declaring the same type twice
// fails with ErrPointAlreadyDeclared.
func Declare[T any](r *Registry, opts ...PointOption) (*Point[T], error) {
	if r.closed.Load() {
		return nil, errors.ErrRegistryClosed
	}

	point, err := newPoint[T](newPointConfig(opts...))
	if err != nil {
		return nil, err
	}

	rtype := reflect.TypeFor[T]()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.points[rtype]; ok {
		return nil, errors.NewErrPointAlreadyDeclared(point.Name())
	}

	r.points[rtype] = newPointLoader(r, point)
	r.logger.With("point", point.Name()).Debugf("extension point declared: %s", point.String())
	return point, nil
}

// Logger returns the registry logger. Factories use it to log on behalf of
// the extensions they construct.
func (r *Registry) Logger() log.Logger {
	return r.logger
}

// PointOf returns the descriptor of the declared extension point T
func PointOf[T any](r *Registry) (*Point[T], error) {
	l, err := loaderOf[T](r)
	if err != nil {
		return nil, err
	}
	return l.point, nil
}

// Points returns the sorted names of the declared extension points
func (r *Registry) Points() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.points))
	for _, l := range r.points {
		names = append(names, l.pointName())
	}
	r.mu.RUnlock()
	slices.Sort(names)
	return names
}

// Close closes every constructed extension instance that implements io.Closer
// and rejects any further declaration, registration or resolution.
// Close is idempotent; only the first call closes instances.
func (r *Registry) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}

	r.mu.RLock()
	loaders := make([]loader, 0, len(r.points))
	for _, l := range r.points {
		loaders = append(loaders, l)
	}
	r.mu.RUnlock()

	var err error
	for _, l := range loaders {
		err = multierr.Append(err, l.close())
	}

	if err != nil {
		r.logger.Errorf("extension registry closed with errors: %v", err)
		return err
	}
	r.logger.Debug("extension registry closed")
	return nil
}

// loaderOf returns the typed loader of the extension point T
func loaderOf[T any](r *Registry) (*pointLoader[T], error) {
	if r.closed.Load() {
		return nil, errors.ErrRegistryClosed
	}

	rtype := reflect.TypeFor[T]()
	r.mu.RLock()
	l, ok := r.points[rtype]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.NewErrNotExtensionPoint(rtype.String())
	}
	return l.(*pointLoader[T]), nil
}

// closeInstance closes the instance when it holds resources
func closeInstance(instance any) error {
	if closer, ok := instance.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
