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

// Package pagemux routes inbound requests to handler methods declared on
// composable page types, and dispatches matched requests through
// before/after filter chains with parameter binding and result coercion.
//
// A page type declares its routes ahead of time through [Page.Routes] in
// five independent categories: before-filters, path-handlers (optionally
// method-restricted), api-handlers, after-filters, and reroute mounts. A
// mount delegates a wildcard sub-path tree to another page type, composing
// routing trees recursively.
//
// Registries are built once per page type and cached process-wide; dispatch
// itself is stateless across requests beyond reading the immutable registry
// tree.
//
// # Dispatch order
//
// For each request the dispatcher tries, in order: api-handlers,
// method-filtered path-handlers, reroute mounts (after a read-only probe of
// the mounted subtree), and finally the host-supplied not-found callback.
// Within one category, the earliest-registered matching pattern is the
// primary match; before- and after-filter chains always run every matching
// entry in registration order.
//
// # Quick start
//
//	type Root struct{}
//
//	func (p *Root) Routes(t *pagemux.Table) {
//		t.API("ping", (*Root).Ping)
//	}
//
//	func (p *Root) Ping() pagemux.Result {
//		return pagemux.Text("pong")
//	}
//
//	d := pagemux.New()
//	c := pagemux.NewCtx([]string{"ping"}, "GET")
//	outcome, err := d.Dispatch(c, &Root{})
//	// outcome == pagemux.Done, c.Text.String() == "pong"
//
// # Constructor pattern
//
//   - [New] returns *Dispatcher (no error) because dispatcher initialization
//     cannot fail: it allocates a data structure and applies options, with
//     no I/O and no external dependencies.
//   - Packages that initialize external resources (the observe package's
//     metric and trace providers) return errors instead, because provider
//     construction can fail.
//
// Declaration problems surface later as [ConfigError]: invalid mount
// targets and malformed patterns at registry build time, unsupported
// handler signatures at the moment that specific handler is invoked.
package pagemux
