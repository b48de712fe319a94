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
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Option defines functional options for Recorder configuration.
type Option func(*Recorder)

// WithPrometheus selects the Prometheus metrics provider. Metrics are
// registered in a Recorder-private registry; expose them by mounting
// [Recorder.PrometheusHandler] on a scrape endpoint.
func WithPrometheus() Option {
	return func(r *Recorder) {
		r.provider = PrometheusProvider
	}
}

// WithOTLP selects the OTLP/HTTP metrics provider pushing to endpoint
// (e.g. "http://collector:4318"). An http:// prefix selects an insecure
// connection; anything else is treated as TLS.
func WithOTLP(endpoint string) Option {
	return func(r *Recorder) {
		r.provider = OTLPProvider
		r.otlpEndpoint = endpoint
	}
}

// WithStdout selects the stdout metrics provider. Development only.
func WithStdout() Option {
	return func(r *Recorder) {
		r.provider = StdoutProvider
	}
}

// WithMeterProvider supplies a custom OpenTelemetry [metric.MeterProvider].
// Provider selection options (WithPrometheus, WithOTLP, WithStdout) are
// ignored, and Shutdown leaves the provider's lifecycle to the caller.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(r *Recorder) {
		r.meterProvider = mp
		r.customMeterProvider = true
	}
}

// WithTracerProvider supplies a [trace.TracerProvider] and enables a span
// per dispatch. Its lifecycle belongs to the caller.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(r *Recorder) {
		r.tracerProvider = tp
	}
}

// WithStdoutTraces enables per-dispatch spans printed to stdout.
// Development only.
func WithStdoutTraces() Option {
	return func(r *Recorder) {
		r.traceStdout = true
	}
}

// WithServiceName sets the service.name resource attribute on exported
// telemetry. Default "pagemux".
func WithServiceName(name string) Option {
	return func(r *Recorder) {
		if name != "" {
			r.serviceName = name
		}
	}
}

// WithLogger sets a structured logger for recorder debug output.
func WithLogger(l *slog.Logger) Option {
	return func(r *Recorder) {
		if l != nil {
			r.logger = l
		}
	}
}
