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
	"reflect"
	"sync"
)

// Registries is a process-wide, long-lived cache of built registries keyed
// by page type. Reads are lock-free. A given type's registry is built at
// most logically once: concurrent first calls may each perform a build
// (the build is pure and deterministic, so duplicates are equivalent), and
// LoadOrStore retains exactly one canonical instance that every caller
// converges on.
//
// Registries are never invalidated or rebuilt.
type Registries struct {
	m sync.Map // reflect.Type -> *Registry
}

// GetOrBuild returns the cached registry for the page's type, building and
// inserting it on first use. Build failures are ConfigErrors and nothing
// is cached.
func (c *Registries) GetOrBuild(page Page) (*Registry, error) {
	return c.getOrBuild(KeyOf(page), func() Page { return page })
}

// getOrBuild is the keyed variant used for mount targets: the cache-hit
// path never constructs a page.
func (c *Registries) getOrBuild(key reflect.Type, create func() Page) (*Registry, error) {
	if v, ok := c.m.Load(key); ok {
		return v.(*Registry), nil
	}
	reg, err := buildRegistry(create())
	if err != nil {
		return nil, err
	}
	actual, _ := c.m.LoadOrStore(key, reg)
	return actual.(*Registry), nil
}

// defaultRegistries backs every Dispatcher that is not given its own cache
// via WithRegistries.
var defaultRegistries Registries

// DefaultRegistries returns the process-wide registry cache.
func DefaultRegistries() *Registries { return &defaultRegistries }
