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

// Package observe provides an OpenTelemetry-backed implementation of
// pagemux.DispatchRecorder: a dispatch counter and duration histogram,
// plus an optional span per dispatch.
//
// Metrics are exported through a selectable provider: Prometheus (pull,
// with a handler for a /metrics endpoint), OTLP over HTTP (push), or
// stdout (development). A custom metric.MeterProvider can be supplied
// instead, in which case provider selection is skipped entirely.
//
// Example:
//
//	rec, err := observe.New(
//	    observe.WithPrometheus(),
//	    observe.WithServiceName("gateway"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rec.Shutdown(context.Background())
//
//	d := pagemux.New(pagemux.WithRecorder(rec))
//	http.Handle("/metrics", rec.PrometheusHandler())
//
// New returns an error (unlike pagemux.New) because provider construction
// touches external resources and can fail.
package observe
