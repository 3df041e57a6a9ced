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

package metric

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	pointAttribute  = "point"
	nameAttribute   = "name"
	reasonAttribute = "reason"
)

// ExtensionMetric defines the extension registry instrumentation
type ExtensionMetric struct {
	// Specifies the total number of extension instances constructed
	constructions metric.Int64Counter
	// Specifies the total number of successful resolutions
	resolutions metric.Int64Counter
	// Specifies the total number of failed resolutions
	failures metric.Int64Counter
}

// NewExtensionMetric creates an instance of ExtensionMetric
func NewExtensionMetric(meter metric.Meter) (*ExtensionMetric, error) {
	extensionMetric := new(ExtensionMetric)
	var err error
	if extensionMetric.constructions, err = meter.Int64Counter(
		"spi.extension.constructions",
		metric.WithDescription("Total number of extension instances constructed"),
	); err != nil {
		return nil, fmt.Errorf("failed to create constructions instrument, %w", err)
	}

	if extensionMetric.resolutions, err = meter.Int64Counter(
		"spi.extension.resolutions",
		metric.WithDescription("Total number of extension resolutions"),
	); err != nil {
		return nil, fmt.Errorf("failed to create resolutions instrument, %w", err)
	}

	if extensionMetric.failures, err = meter.Int64Counter(
		"spi.extension.failures",
		metric.WithDescription("Total number of failed extension resolutions"),
	); err != nil {
		return nil, fmt.Errorf("failed to create failures instrument, %w", err)
	}
	return extensionMetric, nil
}

// RecordConstruction counts one constructed instance
func (x *ExtensionMetric) RecordConstruction(ctx context.Context, point, name string) {
	x.constructions.Add(ctx, 1, metric.WithAttributes(
		attribute.String(pointAttribute, point),
		attribute.String(nameAttribute, name)))
}

// RecordResolution counts one successful resolution
func (x *ExtensionMetric) RecordResolution(ctx context.Context, point, name string) {
	x.resolutions.Add(ctx, 1, metric.WithAttributes(
		attribute.String(pointAttribute, point),
		attribute.String(nameAttribute, name)))
}

// RecordFailure counts one failed resolution
func (x *ExtensionMetric) RecordFailure(ctx context.Context, point, reason string) {
	x.failures.Add(ctx, 1, metric.WithAttributes(
		attribute.String(pointAttribute, point),
		attribute.String(reasonAttribute, reason)))
}
