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

// Page is a routable handler type: a unit declaring route members in five
// categories through Routes.
//
// Routes must be deterministic and must not depend on receiver state: it
// is invoked once per page type to build that type's registry, and the
// registry is cached process-wide. Handlers themselves run against the
// live page instance handed to Dispatch (or, for mounts, a fresh instance
// from the mount constructor).
type Page interface {
	Routes(t *Table)
}

// Member is a declared handler member: a method expression or function
// whose parameters are drawn from the supported capability set (the page
// receiver first, then any of io.Writer, ParamMap, *strings.Builder, or
// the raw request handle's type). Signature problems are reported as
// ConfigError when that specific member is invoked, leaving the rest of
// the registry usable.
type Member any

// decl is one pattern declaration for a method member.
type decl struct {
	pattern string
	member  Member
	methods []string
}

// mountDecl is one reroute mount declaration.
type mountDecl struct {
	pattern string
	create  func() Page
}

// Table collects a page type's route declarations during [Page.Routes].
// A member may be declared under several patterns, and several members may
// share a pattern; every declaration is retained in order.
type Table struct {
	before []decl
	path   []decl
	api    []decl
	after  []decl
	mounts []mountDecl
}

// Before declares a before-filter member. Every matching before-filter
// runs, in declaration order, ahead of the primary handler.
func (t *Table) Before(pattern string, m Member) {
	t.before = append(t.before, decl{pattern: pattern, member: m})
}

// Path declares a path-handler member, optionally restricted to the given
// request methods. With no methods the handler accepts every method.
func (t *Table) Path(pattern string, m Member, methods ...string) {
	t.path = append(t.path, decl{pattern: pattern, member: m, methods: methods})
}

// API declares a method-agnostic api-handler member. Api-handlers are
// consulted before path-handlers during dispatch.
func (t *Table) API(pattern string, m Member) {
	t.api = append(t.api, decl{pattern: pattern, member: m})
}

// After declares an after-filter member. Every matching after-filter runs,
// in declaration order, after the primary handler.
func (t *Table) After(pattern string, m Member) {
	t.after = append(t.after, decl{pattern: pattern, member: m})
}

// Mount declares a reroute mount: the wildcard sub-path tree under pattern
// is delegated to a fresh page built by create. The pattern must end with
// the wildcard marker (e.g. "sub/*"); dispatch reports a ConfigError
// otherwise. The constructor is validated at registry build time.
func (t *Table) Mount(pattern string, create func() Page) {
	t.mounts = append(t.mounts, mountDecl{pattern: pattern, create: create})
}
