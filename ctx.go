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
	"context"
	"io"
	"strings"
)

// ParamMap is the request-scoped, string-keyed parameter sink. Named
// captures are bound into it at match time, overwriting any prior value
// for the same key. Hosts may pre-seed it with transport parameters (the
// httpbind package seeds it from the query string).
type ParamMap map[string]string

// Get returns the value for name, or "" when absent.
func (m ParamMap) Get(name string) string { return m[name] }

// GetOr returns the value for name, or fallback when absent.
func (m ParamMap) GetOr(name, fallback string) string {
	if v, ok := m[name]; ok {
		return v
	}
	return fallback
}

// Set stores a value, overwriting any prior value for the same key.
func (m ParamMap) Set(name, value string) { m[name] = value }

// Ctx is the host request context: everything the transport supplies for
// one dispatch. It is owned by the current dispatch invocation and
// discarded on return; reroute delegation passes the same Ctx to the
// delegate page, which is how contextual state transfers across mounts.
//
// Handler members receive Ctx capabilities through their parameter lists:
// io.Writer (output writer), ParamMap (parameter sink), *strings.Builder
// (response text buffer), or the raw request handle's own type.
type Ctx struct {
	// Path is the tokenized inbound request path.
	Path []string

	// Method is the request method identifier, e.g. "GET".
	Method string

	// Raw is the transport's inbound request handle. The dispatcher never
	// inspects it beyond type matching during argument resolution.
	Raw any

	// Writer is the host output writer.
	Writer io.Writer

	// Params is the mutable request parameter sink.
	Params ParamMap

	// Text is the mutable response text buffer shared across the filter
	// chain and the primary handler.
	Text *strings.Builder

	// Out is the mutable structured response sink. Structured results
	// shallow-merge into it.
	Out map[string]any

	// NotFound is invoked when dispatch resolves to no route. It may be
	// nil, in which case NotFound dispatch is a terminal no-op and the
	// host inspects the returned Outcome instead.
	NotFound func(*Ctx)

	// Context carries request-scoped cancellation and tracing. Nil is
	// treated as context.Background.
	Context context.Context
}

// NewCtx returns a Ctx for the given tokenized path and method with all
// sinks initialized and output discarded. Hosts replace the fields they
// care about.
func NewCtx(path []string, method string) *Ctx {
	return &Ctx{
		Path:   path,
		Method: method,
		Writer: io.Discard,
		Params: make(ParamMap),
		Text:   &strings.Builder{},
		Out:    make(map[string]any),
	}
}

func (c *Ctx) context() context.Context {
	if c.Context != nil {
		return c.Context
	}
	return context.Background()
}
