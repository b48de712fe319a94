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

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrWildcardNotLast indicates a "*" segment somewhere other than the
	// final position of a pattern.
	ErrWildcardNotLast = errors.New("wildcard segment must be the last segment")

	// ErrEmptyCaptureName indicates a ":" segment with no capture name.
	ErrEmptyCaptureName = errors.New("named segment requires a capture name")
)

// SegmentKind discriminates the three segment forms of a pattern.
type SegmentKind uint8

const (
	// Literal matches one request segment by exact equality.
	Literal SegmentKind = iota
	// Named matches any single request segment and captures its value.
	Named
	// Wildcard greedily consumes all remaining request segments.
	Wildcard
)

// Segment is one element of a parsed pattern.
//
// Literal comparison is case-sensitive: "Users" and "users" are distinct
// segments.
type Segment struct {
	Kind SegmentKind
	// Text is the literal text for Literal segments, or the capture name
	// for Named segments. Empty for Wildcard.
	Text string
}

// Pattern is an ordered sequence of segments parsed from a slash-delimited
// string. A Pattern never contains a segment after a Wildcard.
type Pattern []Segment

// wildcardMarker is the raw token declaring a greedy suffix wildcard.
const wildcardMarker = "*"

// Split tokenizes a slash-delimited string, dropping empty tokens produced
// by leading, trailing, or doubled separators. Split("") is empty.
func Split(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Parse parses a raw slash-delimited pattern string.
//
// Empty, leading, and trailing separators are stripped before parsing, so
// "/a/b/", "a/b" and "a//b" all parse identically. An empty raw string
// yields the empty Pattern, which matches only a zero-length request.
func Parse(raw string) (Pattern, error) {
	tokens := Split(raw)
	p := make(Pattern, 0, len(tokens))
	for i, tok := range tokens {
		switch {
		case tok == wildcardMarker:
			if i != len(tokens)-1 {
				return nil, fmt.Errorf("%w: %q", ErrWildcardNotLast, raw)
			}
			p = append(p, Segment{Kind: Wildcard})
		case strings.HasPrefix(tok, ":"):
			name := tok[1:]
			if name == "" {
				return nil, fmt.Errorf("%w: %q", ErrEmptyCaptureName, raw)
			}
			p = append(p, Segment{Kind: Named, Text: name})
		default:
			p = append(p, Segment{Kind: Literal, Text: tok})
		}
	}
	return p, nil
}

// HasWildcard reports whether the pattern ends with a wildcard segment.
func (p Pattern) HasWildcard() bool {
	return len(p) > 0 && p[len(p)-1].Kind == Wildcard
}

// PrefixLen returns the number of non-wildcard segments. For a wildcard
// pattern this is the number of request segments consumed before the
// wildcard takes over; for reroute delegation it is the split point
// between the mount prefix and the delegated suffix.
func (p Pattern) PrefixLen() int {
	if p.HasWildcard() {
		return len(p) - 1
	}
	return len(p)
}

// Match reports whether the pattern matches the given request segments.
//
// Without a wildcard, the lengths must be equal and every literal segment
// must equal the corresponding request segment; named segments always
// match. With a trailing wildcard, the non-wildcard prefix must match the
// request's prefix and the request must be at least that long; the
// wildcard consumes the remainder, including zero segments.
func (p Pattern) Match(req []string) bool {
	n := p.PrefixLen()
	if p.HasWildcard() {
		if len(req) < n {
			return false
		}
	} else if len(req) != n {
		return false
	}
	for i := range n {
		if p[i].Kind == Literal && p[i].Text != req[i] {
			return false
		}
	}
	return true
}

// Bind extracts named captures from a matched request, calling set once per
// named segment with the capture name and the corresponding request
// segment. Later captures for the same name overwrite earlier ones in any
// sink with map semantics. Segments consumed by a wildcard are never bound
// individually.
//
// Bind assumes Match(req) is true; it must not be called otherwise.
func (p Pattern) Bind(req []string, set func(name, value string)) {
	for i := range p.PrefixLen() {
		if p[i].Kind == Named {
			set(p[i].Text, req[i])
		}
	}
}

// String reassembles the pattern into its canonical slash-delimited form.
func (p Pattern) String() string {
	var b strings.Builder
	for i, s := range p {
		if i > 0 {
			b.WriteByte('/')
		}
		switch s.Kind {
		case Named:
			b.WriteByte(':')
			b.WriteString(s.Text)
		case Wildcard:
			b.WriteString(wildcardMarker)
		default:
			b.WriteString(s.Text)
		}
	}
	return b.String()
}
