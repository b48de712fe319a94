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

package pattern

// MethodFilter restricts an entry to a subset of request methods. A nil
// filter accepts every method.
type MethodFilter func(method string) bool

// MethodSet builds a MethodFilter accepting exactly the given methods.
// Comparison is case-sensitive; callers normalize casing at the transport.
func MethodSet(methods ...string) MethodFilter {
	if len(methods) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		set[m] = struct{}{}
	}
	return func(method string) bool {
		_, ok := set[method]
		return ok
	}
}

// entry is one registered pattern with its value and optional method
// restriction.
type entry[V any] struct {
	raw     string
	pattern Pattern
	value   V
	allow   MethodFilter
}

// Table is an ordered pattern-to-value table. Entries are matched in
// registration order; multiple entries may share identical or overlapping
// patterns and all are retained.
//
// A Table is not safe for concurrent mutation. The intended lifecycle is a
// single-threaded registration phase followed by read-only matching, which
// is safe for concurrent use.
type Table[V any] struct {
	entries []entry[V]
	// first maps a raw pattern string to the index of its
	// earliest-registered entry, so Get honors first-registered-wins.
	first map[string]int
}

// Register parses raw and appends an entry. Registering the same raw
// pattern again retains both entries; Get keeps returning the first.
// The filter may be nil to accept every method.
func (t *Table[V]) Register(raw string, value V, filter MethodFilter) error {
	p, err := Parse(raw)
	if err != nil {
		return err
	}
	if t.first == nil {
		t.first = make(map[string]int)
	}
	if _, dup := t.first[raw]; !dup {
		t.first[raw] = len(t.entries)
	}
	t.entries = append(t.entries, entry[V]{raw: raw, pattern: p, value: value, allow: filter})
	return nil
}

// Hit is one matched entry: the raw pattern it was registered under, its
// parsed form, and its value. Resolving matches through Hit rather than by
// raw string keeps entries distinct even when several share a pattern, and
// keeps a method-filtered match bound to the entry whose filter passed.
type Hit[V any] struct {
	Raw     string
	Pattern Pattern
	Value   V
}

// FindMatches returns every entry matching the request segments, in
// registration order, ignoring method restrictions. Entries registered
// under the same raw pattern are each reported.
//
// The result is deterministic for a fixed request: it depends only on
// registration order and segment structure, never on prior calls.
func (t *Table[V]) FindMatches(req []string) []Hit[V] {
	return t.find(req, "", false)
}

// FindMatchesMethod is FindMatches with an additional method filter: an
// entry matches only if its stored filter (if any) accepts the method.
// Entries without a filter always pass.
func (t *Table[V]) FindMatchesMethod(req []string, method string) []Hit[V] {
	return t.find(req, method, true)
}

func (t *Table[V]) find(req []string, method string, filtered bool) []Hit[V] {
	var out []Hit[V]
	for i := range t.entries {
		e := &t.entries[i]
		if filtered && e.allow != nil && !e.allow(method) {
			continue
		}
		if !e.pattern.Match(req) {
			continue
		}
		out = append(out, Hit[V]{Raw: e.raw, Pattern: e.pattern, Value: e.value})
	}
	return out
}

// Get returns the value of the earliest-registered entry for the raw
// pattern string, and whether one exists. It serves discovery walks keyed
// by raw pattern; match resolution goes through [Hit] values instead.
func (t *Table[V]) Get(raw string) (V, bool) {
	if i, ok := t.first[raw]; ok {
		return t.entries[i].value, true
	}
	var zero V
	return zero, false
}

// PatternOf returns the parsed Pattern of the earliest-registered entry
// for the raw pattern string.
func (t *Table[V]) PatternOf(raw string) (Pattern, bool) {
	if i, ok := t.first[raw]; ok {
		return t.entries[i].pattern, true
	}
	return nil, false
}

// Keys returns the distinct raw pattern strings in registration order.
func (t *Table[V]) Keys() []string {
	out := make([]string, 0, len(t.first))
	seen := make(map[string]struct{}, len(t.first))
	for i := range t.entries {
		raw := t.entries[i].raw
		if _, ok := seen[raw]; ok {
			continue
		}
		seen[raw] = struct{}{}
		out = append(out, raw)
	}
	return out
}

// Len returns the number of registered entries, duplicates included.
func (t *Table[V]) Len() int {
	return len(t.entries)
}
