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

package pagemux

import (
	"io"
	"log/slog"
)

// noopLogger is a singleton no-op logger used when no logger is configured.
var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// NoopLogger returns the singleton no-op logger.
func NoopLogger() *slog.Logger { return noopLogger }

// defaultMaxDepth bounds reroute recursion. Mount trees deeper than this
// are almost certainly cycles.
const defaultMaxDepth = 32

// Option defines functional options for dispatcher configuration.
type Option func(*Dispatcher)

// WithLogger sets a structured logger for dispatch decision tracing.
// Logging is debug-level only; the default discards everything.
//
// Example:
//
//	d := pagemux.New(pagemux.WithLogger(slog.Default()))
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithRecorder sets an observability recorder invoked around every
// top-level dispatch. See the observe package for an OpenTelemetry-backed
// implementation.
func WithRecorder(r DispatchRecorder) Option {
	return func(d *Dispatcher) {
		d.recorder = r
	}
}

// WithRegistries gives the dispatcher its own registry cache instead of
// the process-wide default. Useful for tests that must not observe
// registries cached by other tests.
func WithRegistries(c *Registries) Option {
	return func(d *Dispatcher) {
		if c != nil {
			d.registries = c
		}
	}
}

// WithMaxDepth caps reroute recursion depth (default 32). Exceeding the
// cap fails the dispatch with ErrMountDepthExceeded; the support probe
// shares the cap and treats paths beyond it as unsupported.
func WithMaxDepth(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.maxDepth = n
		}
	}
}
