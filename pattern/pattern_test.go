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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"single", "a", []string{"a"}},
		{"nested", "a/b/c", []string{"a", "b", "c"}},
		{"leading slash", "/a/b", []string{"a", "b"}},
		{"trailing slash", "a/b/", []string{"a", "b"}},
		{"doubled slash", "a//b", []string{"a", "b"}},
		{"only slashes", "///", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Split(tt.raw))
		})
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("literal and named and wildcard", func(t *testing.T) {
		t.Parallel()
		p, err := Parse("users/:id/files/*")
		require.NoError(t, err)
		require.Len(t, p, 4)
		assert.Equal(t, Segment{Kind: Literal, Text: "users"}, p[0])
		assert.Equal(t, Segment{Kind: Named, Text: "id"}, p[1])
		assert.Equal(t, Segment{Kind: Literal, Text: "files"}, p[2])
		assert.Equal(t, Segment{Kind: Wildcard}, p[3])
		assert.True(t, p.HasWildcard())
		assert.Equal(t, 3, p.PrefixLen())
	})

	t.Run("separators are stripped before parsing", func(t *testing.T) {
		t.Parallel()
		a, err := Parse("/a/b/")
		require.NoError(t, err)
		b, err := Parse("a/b")
		require.NoError(t, err)
		assert.Equal(t, b, a)
	})

	t.Run("empty pattern", func(t *testing.T) {
		t.Parallel()
		p, err := Parse("")
		require.NoError(t, err)
		assert.Empty(t, p)
		assert.False(t, p.HasWildcard())
	})

	t.Run("wildcard must be last", func(t *testing.T) {
		t.Parallel()
		_, err := Parse("a/*/b")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrWildcardNotLast)
	})

	t.Run("named segment needs a name", func(t *testing.T) {
		t.Parallel()
		_, err := Parse("a/:")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrEmptyCaptureName)
	})
}

func TestPatternMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
		req     []string
		want    bool
	}{
		// A pattern without named/wildcard segments matches iff the
		// segment sequences are exactly equal.
		{"exact equal", "a/b", []string{"a", "b"}, true},
		{"exact shorter", "a/b", []string{"a"}, false},
		{"exact longer", "a/b", []string{"a", "b", "c"}, false},
		{"exact mismatch", "a/b", []string{"a", "x"}, false},
		{"case sensitive", "Users", []string{"users"}, false},

		// Named segments always match their position.
		{"named match", "a/:id", []string{"a", "42"}, true},
		{"named too short", "a/:id", []string{"a"}, false},
		{"named too long", "a/:id", []string{"a", "42", "x"}, false},

		// Trailing wildcard consumes the remainder, including nothing.
		{"wildcard deep", "a/*", []string{"a", "b", "c"}, true},
		{"wildcard exact prefix", "a/*", []string{"a"}, true},
		{"wildcard wrong prefix", "a/*", []string{"x", "b"}, false},

		// Degenerate patterns.
		{"empty vs empty", "", nil, true},
		{"empty vs nonempty", "", []string{"a"}, false},
		{"lone wildcard vs empty", "*", nil, true},
		{"lone wildcard vs anything", "*", []string{"a", "b"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p, err := Parse(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Match(tt.req))
		})
	}
}

func TestPatternBind(t *testing.T) {
	t.Parallel()

	t.Run("binds each named capture", func(t *testing.T) {
		t.Parallel()
		p, err := Parse("users/:id/posts/:post")
		require.NoError(t, err)

		got := map[string]string{}
		p.Bind([]string{"users", "7", "posts", "42"}, func(k, v string) { got[k] = v })
		assert.Equal(t, map[string]string{"id": "7", "post": "42"}, got)
	})

	t.Run("wildcard remainder is never bound", func(t *testing.T) {
		t.Parallel()
		p, err := Parse("files/:name/*")
		require.NoError(t, err)

		got := map[string]string{}
		p.Bind([]string{"files", "a", "b", "c"}, func(k, v string) { got[k] = v })
		assert.Equal(t, map[string]string{"name": "a"}, got)
	})
}

func TestPatternString(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"a/b", "a/:id", "a/:id/*", "*", ""} {
		p, err := Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, p.String())
	}
}
