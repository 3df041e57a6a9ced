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
	"go.opentelemetry.io/otel/metric"

	"github.com/tochemey/spi/log"
)

// Option is the interface that applies a configuration option to a Registry.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(config *registryConfig)
}

// enforce compilation error
var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(config *registryConfig)

// Apply sets the Option value of a config.
func (f OptionFunc) Apply(c *registryConfig) {
	f(c)
}

// registryConfig holds the registry settings
type registryConfig struct {
	logger        log.Logger
	meterProvider metric.MeterProvider
}

func newRegistryConfig(opts ...Option) *registryConfig {
	config := &registryConfig{
		logger: log.DefaultLogger,
	}
	for _, opt := range opts {
		opt.Apply(config)
	}
	return config
}

// WithLogger sets the registry logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(config *registryConfig) {
		if logger != nil {
			config.logger = logger
		}
	})
}

// WithMeterProvider sets the meter provider used to record constructions,
// resolutions and failures. The global provider is used otherwise.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return OptionFunc(func(config *registryConfig) {
		config.meterProvider = provider
	})
}

// PointOption configures an extension point at declaration time.
type PointOption interface {
	// Apply sets the PointOption value of a config.
	Apply(config *pointConfig)
}

var _ PointOption = PointOptionFunc(nil)

// PointOptionFunc implements the PointOption interface.
type PointOptionFunc func(config *pointConfig)

// Apply sets the PointOption value of a config.
func (f PointOptionFunc) Apply(c *pointConfig) {
	f(c)
}

// pointConfig holds what an extension point declares about itself
type pointConfig struct {
	name        string
	defaultName string
	keys        []string
	methods     map[string][]string
	adapter     any
}

func newPointConfig(opts ...PointOption) *pointConfig {
	config := &pointConfig{
		methods: make(map[string][]string),
	}
	for _, opt := range opts {
		opt.Apply(config)
	}
	return config
}

// WithDefaultName sets the extension used when no request parameter names one.
func WithDefaultName(name string) PointOption {
	return PointOptionFunc(func(config *pointConfig) {
		config.defaultName = name
	})
}

// WithKeys marks the extension point as adaptive and sets the ordered
// parameter keys used by every method that does not declare its own.
func WithKeys(keys ...string) PointOption {
	return PointOptionFunc(func(config *pointConfig) {
		config.keys = append([]string(nil), keys...)
	})
}

// WithMethod marks a method as adaptive. The given ordered keys override the
// point keys for this method only; with no keys the method uses the point
// keys, or the key derived from the point name.
func WithMethod(method string, keys ...string) PointOption {
	return PointOptionFunc(func(config *pointConfig) {
		config.methods[method] = append([]string(nil), keys...)
	})
}

// WithPointName overrides the simple name taken from the Go type. The name is
// used in errors, logs, metrics and to derive the default parameter key.
func WithPointName(name string) PointOption {
	return PointOptionFunc(func(config *pointConfig) {
		config.name = name
	})
}

// WithAdapter sets the function that builds the adaptive implementation of
// the extension point on top of its dispatcher. See AdaptiveOf.
func WithAdapter[T any](adapter func(*Adaptive[T]) T) PointOption {
	return PointOptionFunc(func(config *pointConfig) {
		config.adapter = adapter
	})
}

// RegisterOption configures a single extension registration.
type RegisterOption interface {
	// Apply sets the RegisterOption value of a config.
	Apply(config *registerConfig)
}

var _ RegisterOption = RegisterOptionFunc(nil)

// RegisterOptionFunc implements the RegisterOption interface.
type RegisterOptionFunc func(config *registerConfig)

// Apply sets the RegisterOption value of a config.
func (f RegisterOptionFunc) Apply(c *registerConfig) {
	f(c)
}

type registerConfig struct {
	activation *Activation
}

// WithActivation makes the extension eligible for automatic activation.
// See Activate.
func WithActivation(activation Activation) RegisterOption {
	return RegisterOptionFunc(func(config *registerConfig) {
		config.activation = &Activation{
			Groups: append([]string(nil), activation.Groups...),
			Keys:   append([]string(nil), activation.Keys...),
			Order:  activation.Order,
		}
	})
}
