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
	"fmt"
	"reflect"

	"pagemux.dev/pagemux/pattern"
)

// mountEntry is a built reroute mount: the constructor plus the target
// page type resolved at build time.
type mountEntry struct {
	create func() Page
	target reflect.Type
}

// Registry is the built, immutable route table set for one page type:
// five pattern tables plus the owning type key. Built exactly once per
// type and never rebuilt.
type Registry struct {
	key     reflect.Type
	before  pattern.Table[Member]
	path    pattern.Table[Member]
	api     pattern.Table[Member]
	after   pattern.Table[Member]
	reroute pattern.Table[*mountEntry]
}

// Key returns the page type this registry was built for.
func (r *Registry) Key() reflect.Type { return r.key }

// KeyOf returns the stable identity key for a page: its dynamic type. Two
// calls with pages of the same declared type yield the same key.
func KeyOf(page Page) reflect.Type { return reflect.TypeOf(page) }

// buildRegistry builds the registry for one page by collecting its
// declarations. Malformed patterns and invalid mount targets fail the
// build with a ConfigError; nothing is cached on failure.
//
// The build is a pure function of the page type's static declarations, so
// redundant concurrent builds are harmless.
func buildRegistry(page Page) (*Registry, error) {
	key := KeyOf(page)
	var t Table
	page.Routes(&t)

	reg := &Registry{key: key}
	fail := func(err error) (*Registry, error) {
		return nil, &ConfigError{Page: key, Err: err}
	}

	for _, d := range t.before {
		if err := reg.before.Register(d.pattern, d.member, nil); err != nil {
			return fail(err)
		}
	}
	for _, d := range t.path {
		if err := reg.path.Register(d.pattern, d.member, pattern.MethodSet(d.methods...)); err != nil {
			return fail(err)
		}
	}
	for _, d := range t.api {
		if err := reg.api.Register(d.pattern, d.member, nil); err != nil {
			return fail(err)
		}
	}
	for _, d := range t.after {
		if err := reg.after.Register(d.pattern, d.member, nil); err != nil {
			return fail(err)
		}
	}
	for _, m := range t.mounts {
		ent, err := buildMount(m)
		if err != nil {
			return fail(err)
		}
		if err := reg.reroute.Register(m.pattern, ent, nil); err != nil {
			return fail(err)
		}
	}
	return reg, nil
}

// buildMount validates a mount declaration's target: the constructor must
// exist and yield a non-nil page. The target registry itself is built
// lazily at first probe or dispatch, which keeps mutually mounted page
// types legal.
func buildMount(m mountDecl) (*mountEntry, error) {
	if m.create == nil {
		return nil, fmt.Errorf("%w: mount %q has no constructor", ErrInvalidMountTarget, m.pattern)
	}
	proto := m.create()
	if proto == nil || reflect.ValueOf(proto).Kind() == reflect.Ptr && reflect.ValueOf(proto).IsNil() {
		return nil, fmt.Errorf("%w: mount %q constructor returned nil", ErrInvalidMountTarget, m.pattern)
	}
	return &mountEntry{create: m.create, target: reflect.TypeOf(proto)}, nil
}
