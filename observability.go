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

import "context"

// Outcome is the terminal result of one dispatch.
type Outcome int

const (
	// Done means a handler was matched and invoked successfully.
	Done Outcome = iota
	// NotFound means no route matched and the host's not-found callback
	// (if any) was invoked. NotFound is a first-class outcome, not an
	// error.
	NotFound
	// Failed means a ConfigError or DispatchError aborted the dispatch.
	Failed
)

// String returns the outcome name for logs and metric attributes.
func (o Outcome) String() string {
	switch o {
	case Done:
		return "done"
	case NotFound:
		return "not_found"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// DispatchRecorder provides observability lifecycle hooks around dispatch.
// Implementations typically combine metrics collection, distributed
// tracing, and structured logging; the observe package ships an
// OpenTelemetry-backed implementation.
//
// Lifecycle:
//  1. Dispatcher calls OnDispatchStart, which returns an enriched context
//     and an opaque state token.
//     The enriched context replaces the Ctx's context for the rest of the
//     dispatch, so trace propagation reaches handler bodies.
//  2. The dispatch runs.
//  3. Dispatcher calls OnDispatchEnd ONLY IF state != nil. Returning a nil
//     state from OnDispatchStart excludes the dispatch from recording
//     while keeping the context enrichment.
//
// The matched raw pattern (not the raw request path) is reported, keeping
// metric and span cardinality bounded. It is empty when nothing matched.
//
// Thread safety: all methods must be safe for concurrent use.
type DispatchRecorder interface {
	// OnDispatchStart is called before routing begins. The state token is
	// opaque to the dispatcher and handed back to OnDispatchEnd.
	OnDispatchStart(ctx context.Context, c *Ctx) (context.Context, any)

	// OnDispatchEnd is called after dispatch completes, with the terminal
	// outcome, the primary matched pattern ("" if none), and the dispatch
	// error (nil unless outcome is Failed).
	OnDispatchEnd(ctx context.Context, state any, outcome Outcome, matched string, err error)
}
