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

import "strings"

// Flatten walks the mount tree rooted at page and returns a single global
// discovery map from fully-qualified path strings to api-handler members,
// independent of live dispatch. It uses the process-wide registry cache.
func Flatten(page Page) (map[string]Member, error) {
	return New().Flatten(page)
}

// flattenRoot seeds the depth-first walk with an empty accumulated prefix.
func (d *Dispatcher) flattenRoot(page Page) (map[string]Member, error) {
	reg, err := d.registries.GetOrBuild(page)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Member)
	if err := d.flatten("", reg, out, 0); err != nil {
		return nil, err
	}
	return out, nil
}

// flatten registers every api entry under both the accumulated prefix and
// its bare local pattern (first registration for a key wins, later
// duplicates are silently dropped), then recurses into each mount with
// both the nested and the root-relative prefix, mirroring the same
// first-wins rule.
func (d *Dispatcher) flatten(prefix string, reg *Registry, out map[string]Member, depth int) error {
	if depth > d.maxDepth {
		return &ConfigError{Page: reg.Key(), Err: ErrMountDepthExceeded}
	}

	for _, key := range reg.api.Keys() {
		member, _ := reg.api.Get(key)
		putIfAbsent(out, prefix+key, member)
		putIfAbsent(out, key, member)
	}

	for _, key := range reg.reroute.Keys() {
		ent, _ := reg.reroute.Get(key)
		target, err := d.registries.getOrBuild(ent.target, ent.create)
		if err != nil {
			return err
		}
		// "sub/*" contributes the prefix "sub/".
		next := strings.TrimSuffix(key, "*")
		if err := d.flatten(prefix+next, target, out, depth+1); err != nil {
			return err
		}
		if err := d.flatten(next, target, out, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func putIfAbsent(out map[string]Member, key string, member Member) {
	if _, ok := out[key]; !ok {
		out[key] = member
	}
}
