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

// Package metrictest provides an in-memory meter provider that records
// counter increments so tests can assert on them.
package metrictest

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// MeterProvider records every Int64Counter created through its meters
type MeterProvider struct {
	noop.MeterProvider
	mu       sync.Mutex
	meters   []string
	counters map[string]*Counter
}

var _ metric.MeterProvider = (*MeterProvider)(nil)

// NewMeterProvider creates a recording MeterProvider
func NewMeterProvider() *MeterProvider {
	return &MeterProvider{counters: make(map[string]*Counter)}
}

// Meter implements metric.MeterProvider
func (p *MeterProvider) Meter(name string, _ ...metric.MeterOption) metric.Meter {
	p.mu.Lock()
	p.meters = append(p.meters, name)
	p.mu.Unlock()
	return &meter{provider: p}
}

// Meters returns the instrumentation names requested so far
func (p *MeterProvider) Meters() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.meters...)
}

// Counter returns the counter registered under name, or nil
func (p *MeterProvider) Counter(name string) *Counter {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.counters[name]
}

type meter struct {
	noop.Meter
	provider *MeterProvider
}

func (m *meter) Int64Counter(name string, _ ...metric.Int64CounterOption) (metric.Int64Counter, error) {
	m.provider.mu.Lock()
	defer m.provider.mu.Unlock()
	counter, ok := m.provider.counters[name]
	if !ok {
		counter = &Counter{totals: make(map[attribute.Distinct]int64)}
		m.provider.counters[name] = counter
	}
	return counter, nil
}

// Counter is a recording metric.Int64Counter
type Counter struct {
	noop.Int64Counter
	mu     sync.Mutex
	total  int64
	totals map[attribute.Distinct]int64
}

// Add implements metric.Int64Counter
func (c *Counter) Add(_ context.Context, incr int64, options ...metric.AddOption) {
	cfg := metric.NewAddConfig(options)
	set := cfg.Attributes()
	c.mu.Lock()
	c.total += incr
	c.totals[set.Equivalent()] += incr
	c.mu.Unlock()
}

// Total returns the sum of every increment
func (c *Counter) Total() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// TotalFor returns the sum of the increments recorded with exactly the given attributes
func (c *Counter) TotalFor(attrs ...attribute.KeyValue) int64 {
	set := attribute.NewSet(attrs...)
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totals[set.Equivalent()]
}
