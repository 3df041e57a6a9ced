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
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tochemey/spi/internal/metric/metrictest"
)

func TestProvider(t *testing.T) {
	t.Run("uses the global provider by default", func(t *testing.T) {
		prevProvider := otel.GetMeterProvider()
		recorder := metrictest.NewMeterProvider()
		otel.SetMeterProvider(recorder)
		t.Cleanup(func() {
			otel.SetMeterProvider(prevProvider)
		})

		provider := NewProvider()
		require.NotNil(t, provider.Meter())
		require.Equal(t, []string{instrumentationName}, recorder.Meters())
	})

	t.Run("WithMeterProvider overrides the default", func(t *testing.T) {
		recorder := metrictest.NewMeterProvider()
		provider := NewProvider(WithMeterProvider(recorder))
		require.Equal(t, recorder, provider.meterProvider)
		require.Equal(t, []string{instrumentationName}, recorder.Meters())
	})

	t.Run("WithMeterProvider ignores nil", func(t *testing.T) {
		provider := NewProvider(WithMeterProvider(nil))
		require.NotNil(t, provider.meterProvider)
		require.NotNil(t, provider.Meter())
	})
}

func TestExtensionMetric(t *testing.T) {
	recorder := metrictest.NewMeterProvider()
	provider := NewProvider(WithMeterProvider(recorder))

	extensionMetric, err := NewExtensionMetric(provider.Meter())
	require.NoError(t, err)

	ctx := context.Background()
	extensionMetric.RecordConstruction(ctx, "Transporter", "netty")
	extensionMetric.RecordResolution(ctx, "Transporter", "netty")
	extensionMetric.RecordResolution(ctx, "Transporter", "netty")
	extensionMetric.RecordResolution(ctx, "Transporter", "mina")
	extensionMetric.RecordFailure(ctx, "Transporter", "unknown")

	require.EqualValues(t, 1, recorder.Counter("spi.extension.constructions").Total())
	resolutions := recorder.Counter("spi.extension.resolutions")
	require.EqualValues(t, 3, resolutions.Total())
	require.EqualValues(t, 2, resolutions.TotalFor(
		attribute.String(pointAttribute, "Transporter"),
		attribute.String(nameAttribute, "netty")))
	require.EqualValues(t, 1, recorder.Counter("spi.extension.failures").TotalFor(
		attribute.String(pointAttribute, "Transporter"),
		attribute.String(reasonAttribute, "unknown")))
}
