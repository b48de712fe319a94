// Copyright 2025 The Pagemux Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package observe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"pagemux.dev/pagemux"
)

type probePage struct{}

func (p *probePage) Routes(t *pagemux.Table) {
	t.API("ping", (*probePage).Ping)
}

func (p *probePage) Ping() pagemux.Result { return pagemux.Text("pong") }

// collect drains one metric collection cycle from a manual reader.
func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

func metricNames(rm metricdata.ResourceMetrics) []string {
	var names []string
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			names = append(names, m.Name)
		}
	}
	return names
}

func TestRecorderRecordsDispatch(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	rec, err := New(WithMeterProvider(mp))
	require.NoError(t, err)

	d := pagemux.New(
		pagemux.WithRegistries(&pagemux.Registries{}),
		pagemux.WithRecorder(rec),
	)
	c := pagemux.NewCtx([]string{"ping"}, "GET")
	outcome, err := d.Dispatch(c, &probePage{})
	require.NoError(t, err)
	assert.Equal(t, pagemux.Done, outcome)

	rm := collect(t, reader)
	names := metricNames(rm)
	assert.Contains(t, names, "pagemux.dispatches")
	assert.Contains(t, names, "pagemux.dispatch.duration")
}

func TestRecorderOutcomeAttributes(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	rec, err := New(WithMeterProvider(mp))
	require.NoError(t, err)

	d := pagemux.New(
		pagemux.WithRegistries(&pagemux.Registries{}),
		pagemux.WithRecorder(rec),
	)

	_, err = d.Dispatch(pagemux.NewCtx([]string{"ping"}, "GET"), &probePage{})
	require.NoError(t, err)
	_, err = d.Dispatch(pagemux.NewCtx([]string{"missing"}, "GET"), &probePage{})
	require.NoError(t, err)

	rm := collect(t, reader)
	var sum *metricdata.Sum[int64]
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == "pagemux.dispatches" {
				s, ok := m.Data.(metricdata.Sum[int64])
				require.True(t, ok)
				sum = &s
			}
		}
	}
	require.NotNil(t, sum)

	// One datapoint per (outcome, pattern) combination.
	outcomes := map[string]bool{}
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(attribute.Key("outcome")); ok {
			outcomes[v.AsString()] = true
		}
	}
	assert.True(t, outcomes["done"])
	assert.True(t, outcomes["not_found"])
}

func TestRecorderSpans(t *testing.T) {
	t.Parallel()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
	)
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	rec, err := New(WithMeterProvider(mp), WithTracerProvider(tp))
	require.NoError(t, err)

	d := pagemux.New(
		pagemux.WithRegistries(&pagemux.Registries{}),
		pagemux.WithRecorder(rec),
	)
	_, err = d.Dispatch(pagemux.NewCtx([]string{"ping"}, "GET"), &probePage{})
	require.NoError(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "pagemux.dispatch", spans[0].Name)
}

func TestRecorderPrometheus(t *testing.T) {
	t.Parallel()

	rec, err := New(WithPrometheus(), WithServiceName("pagemux-test"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rec.Shutdown(context.Background()) })

	handler := rec.PrometheusHandler()
	require.NotNil(t, handler)

	d := pagemux.New(
		pagemux.WithRegistries(&pagemux.Registries{}),
		pagemux.WithRecorder(rec),
	)
	_, err = d.Dispatch(pagemux.NewCtx([]string{"ping"}, "GET"), &probePage{})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pagemux_dispatches")
}

func TestRecorderIgnoresForeignState(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	rec, err := New(WithMeterProvider(mp))
	require.NoError(t, err)

	// A state token the recorder did not hand out must be a no-op.
	rec.OnDispatchEnd(context.Background(), "bogus", pagemux.Done, "ping", nil)

	rm := collect(t, reader)
	assert.Empty(t, metricNames(rm))
}

func TestRecorderFailedDispatchSpanStatus(t *testing.T) {
	t.Parallel()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	rec, err := New(WithMeterProvider(mp), WithTracerProvider(tp))
	require.NoError(t, err)

	ctx, state := rec.OnDispatchStart(context.Background(), pagemux.NewCtx(nil, "GET"))
	rec.OnDispatchEnd(ctx, state, pagemux.Failed, "bad", errors.New("handler exploded"))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	require.Len(t, spans[0].Events, 1) // RecordError event
	assert.Equal(t, "exception", spans[0].Events[0].Name)
}

func TestRecorderShutdownStdout(t *testing.T) {
	t.Parallel()

	rec, err := New(WithStdout())
	require.NoError(t, err)
	assert.Nil(t, rec.PrometheusHandler())
	require.NoError(t, rec.Shutdown(context.Background()))
}
