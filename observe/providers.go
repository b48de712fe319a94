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
	"strings"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// initializeProviders initializes the metric and trace providers based on
// configuration.
func (r *Recorder) initializeProviders() error {
	if r.customMeterProvider {
		if r.meterProvider == nil {
			return fmt.Errorf("custom meter provider is nil")
		}
		r.logger.Debug("using custom user-provided meter provider")
	} else {
		switch r.provider {
		case PrometheusProvider:
			if err := r.initPrometheusProvider(); err != nil {
				return err
			}
		case OTLPProvider:
			if err := r.initOTLPProvider(); err != nil {
				return err
			}
		case StdoutProvider:
			if err := r.initStdoutProvider(); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unsupported metrics provider: %s", r.provider)
		}
	}

	if r.tracerProvider == nil && r.traceStdout {
		if err := r.initStdoutTracer(); err != nil {
			return err
		}
	}
	return nil
}

// serviceResource labels exported telemetry with the configured service
// name.
func (r *Recorder) serviceResource() *resource.Resource {
	return resource.NewSchemaless(attribute.String("service.name", r.serviceName))
}

// initPrometheusProvider wires a dedicated Prometheus registry so the
// Recorder never conflicts with the global registry, and keeps a scrape
// handler for it.
func (r *Recorder) initPrometheusProvider() error {
	r.prometheusRegistry = promclient.NewRegistry()

	exporter, err := prometheus.New(
		prometheus.WithRegisterer(r.prometheusRegistry),
	)
	if err != nil {
		return fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}

	r.ownedMeter = sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(r.serviceResource()),
	)
	r.meterProvider = r.ownedMeter
	r.prometheusHandler = promhttp.HandlerFor(r.prometheusRegistry, promhttp.HandlerOpts{})
	return nil
}

// initOTLPProvider pushes metrics over OTLP/HTTP to the configured
// endpoint. An http:// prefix selects an insecure connection.
func (r *Recorder) initOTLPProvider() error {
	opts := []otlpmetrichttp.Option{}
	if r.otlpEndpoint != "" {
		endpoint := r.otlpEndpoint
		if rest, ok := strings.CutPrefix(endpoint, "http://"); ok {
			endpoint = rest
			opts = append(opts, otlpmetrichttp.WithInsecure())
		} else {
			endpoint = strings.TrimPrefix(endpoint, "https://")
		}
		opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
	}

	exporter, err := otlpmetrichttp.New(context.Background(), opts...)
	if err != nil {
		return fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	r.ownedMeter = sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		sdkmetric.WithResource(r.serviceResource()),
	)
	r.meterProvider = r.ownedMeter
	return nil
}

// initStdoutProvider prints metrics to stdout. Development only.
func (r *Recorder) initStdoutProvider() error {
	exporter, err := stdoutmetric.New()
	if err != nil {
		return fmt.Errorf("failed to create stdout exporter: %w", err)
	}

	r.ownedMeter = sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		sdkmetric.WithResource(r.serviceResource()),
	)
	r.meterProvider = r.ownedMeter
	return nil
}

// initStdoutTracer prints spans to stdout. Development only.
func (r *Recorder) initStdoutTracer() error {
	exporter, err := stdouttrace.New()
	if err != nil {
		return fmt.Errorf("failed to create stdout trace exporter: %w", err)
	}

	r.ownedTracer = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(r.serviceResource()),
	)
	r.tracerProvider = r.ownedTracer
	return nil
}
