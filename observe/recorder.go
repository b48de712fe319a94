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
	"fmt"
	"log/slog"
	"net/http"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"pagemux.dev/pagemux"
)

// instrumentation scope reported to OpenTelemetry.
const scopeName = "pagemux.dev/pagemux/observe"

// Provider selects the built-in metrics exporter.
type Provider string

const (
	// PrometheusProvider exposes metrics for pull via PrometheusHandler.
	PrometheusProvider Provider = "prometheus"
	// OTLPProvider pushes metrics over OTLP/HTTP.
	OTLPProvider Provider = "otlp"
	// StdoutProvider prints metrics to stdout; development only.
	StdoutProvider Provider = "stdout"
)

// Recorder implements pagemux.DispatchRecorder on OpenTelemetry. It
// records one counter (pagemux.dispatches) and one histogram
// (pagemux.dispatch.duration) per dispatch, attributed by outcome and
// matched pattern, and opens a span when tracing is configured.
//
// Recorder is safe for concurrent use.
type Recorder struct {
	provider    Provider
	serviceName string
	logger      *slog.Logger

	meterProvider       metric.MeterProvider
	customMeterProvider bool
	tracerProvider      trace.TracerProvider

	otlpEndpoint string
	traceStdout  bool

	prometheusRegistry *promclient.Registry
	prometheusHandler  http.Handler

	// owned SDK providers, shut down by Shutdown
	ownedMeter  *sdkmetric.MeterProvider
	ownedTracer *sdktrace.TracerProvider

	meter            metric.Meter
	tracer           trace.Tracer
	dispatchTotal    metric.Int64Counter
	dispatchDuration metric.Float64Histogram
}

// dispatchState is the opaque per-dispatch token handed back to
// OnDispatchEnd.
type dispatchState struct {
	start time.Time
	span  trace.Span
}

// New builds a Recorder. Without options it uses the stdout provider and
// no tracing.
func New(opts ...Option) (*Recorder, error) {
	r := &Recorder{
		provider:    StdoutProvider,
		serviceName: "pagemux",
		logger:      pagemux.NoopLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.initializeProviders(); err != nil {
		return nil, err
	}
	if err := r.initializeInstruments(); err != nil {
		return nil, err
	}
	return r, nil
}

// initializeInstruments creates the dispatch instruments from the meter.
func (r *Recorder) initializeInstruments() error {
	r.meter = r.meterProvider.Meter(scopeName)

	var err error
	r.dispatchTotal, err = r.meter.Int64Counter(
		"pagemux.dispatches",
		metric.WithDescription("Total dispatches by outcome and matched pattern"),
	)
	if err != nil {
		return fmt.Errorf("failed to create dispatch counter: %w", err)
	}
	r.dispatchDuration, err = r.meter.Float64Histogram(
		"pagemux.dispatch.duration",
		metric.WithDescription("Dispatch duration"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return fmt.Errorf("failed to create dispatch duration histogram: %w", err)
	}

	if r.tracerProvider != nil {
		r.tracer = r.tracerProvider.Tracer(scopeName)
	}
	return nil
}

// OnDispatchStart implements pagemux.DispatchRecorder. It opens a span
// when tracing is configured and starts the dispatch timer.
func (r *Recorder) OnDispatchStart(ctx context.Context, c *pagemux.Ctx) (context.Context, any) {
	state := &dispatchState{start: time.Now()}
	if r.tracer != nil {
		ctx, state.span = r.tracer.Start(ctx, "pagemux.dispatch",
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(attribute.String("pagemux.method", c.Method)),
		)
	}
	return ctx, state
}

// OnDispatchEnd implements pagemux.DispatchRecorder.
func (r *Recorder) OnDispatchEnd(ctx context.Context, state any, outcome pagemux.Outcome, matched string, err error) {
	s, ok := state.(*dispatchState)
	if !ok {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("outcome", outcome.String()),
		attribute.String("pattern", matched),
	}
	r.dispatchTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	elapsed := float64(time.Since(s.start)) / float64(time.Millisecond)
	r.dispatchDuration.Record(ctx, elapsed, metric.WithAttributes(attrs...))

	if s.span != nil {
		s.span.SetAttributes(
			attribute.String("pagemux.outcome", outcome.String()),
			attribute.String("pagemux.pattern", matched),
		)
		if err != nil {
			s.span.RecordError(err)
			s.span.SetStatus(codes.Error, err.Error())
		}
		s.span.End()
	}

	r.logger.Debug("dispatch recorded",
		"outcome", outcome.String(), "pattern", matched, "duration_ms", elapsed)
}

// PrometheusHandler returns the scrape handler for the Prometheus
// provider, or nil for other providers.
func (r *Recorder) PrometheusHandler() http.Handler { return r.prometheusHandler }

// Shutdown flushes and stops the providers owned by this Recorder.
// Providers supplied by the caller are left untouched.
func (r *Recorder) Shutdown(ctx context.Context) error {
	var firstErr error
	if r.ownedMeter != nil {
		if err := r.ownedMeter.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if r.ownedTracer != nil {
		if err := r.ownedTracer.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Compile-time check that Recorder implements pagemux.DispatchRecorder.
var _ pagemux.DispatchRecorder = (*Recorder)(nil)
