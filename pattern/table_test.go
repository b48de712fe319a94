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

func rawsOf[V any](hits []Hit[V]) []string {
	var out []string
	for _, h := range hits {
		out = append(out, h.Raw)
	}
	return out
}

func valuesOf[V any](hits []Hit[V]) []V {
	var out []V
	for _, h := range hits {
		out = append(out, h.Value)
	}
	return out
}

func TestTableRegister(t *testing.T) {
	t.Parallel()

	t.Run("invalid pattern is rejected", func(t *testing.T) {
		t.Parallel()
		var tbl Table[int]
		err := tbl.Register("a/*/b", 1, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrWildcardNotLast)
		assert.Equal(t, 0, tbl.Len())
	})

	t.Run("duplicates are retained", func(t *testing.T) {
		t.Parallel()
		var tbl Table[int]
		require.NoError(t, tbl.Register("a", 1, nil))
		require.NoError(t, tbl.Register("a", 2, nil))
		assert.Equal(t, 2, tbl.Len())
	})
}

func TestTableFindMatches(t *testing.T) {
	t.Parallel()

	t.Run("registration order with overlapping patterns", func(t *testing.T) {
		t.Parallel()
		var tbl Table[string]
		require.NoError(t, tbl.Register("users/:id", "named", nil))
		require.NoError(t, tbl.Register("users/*", "wild", nil))
		require.NoError(t, tbl.Register("users/me", "literal", nil))

		got := tbl.FindMatches([]string{"users", "me"})
		assert.Equal(t, []string{"users/:id", "users/*", "users/me"}, rawsOf(got))
		assert.Equal(t, []string{"named", "wild", "literal"}, valuesOf(got))
	})

	t.Run("entries sharing a raw pattern are each reported", func(t *testing.T) {
		t.Parallel()
		var tbl Table[string]
		require.NoError(t, tbl.Register("a/:x", "one", nil))
		require.NoError(t, tbl.Register("a/:x", "two", nil))

		got := tbl.FindMatches([]string{"a", "b"})
		assert.Equal(t, []string{"one", "two"}, valuesOf(got))
	})

	t.Run("deterministic across calls", func(t *testing.T) {
		t.Parallel()
		var tbl Table[string]
		require.NoError(t, tbl.Register("a/*", "one", nil))
		require.NoError(t, tbl.Register("a/b", "two", nil))

		req := []string{"a", "b"}
		first := tbl.FindMatches(req)
		for range 5 {
			assert.Equal(t, first, tbl.FindMatches(req))
		}
	})

	t.Run("no match yields empty", func(t *testing.T) {
		t.Parallel()
		var tbl Table[string]
		require.NoError(t, tbl.Register("a", "one", nil))
		assert.Empty(t, tbl.FindMatches([]string{"b"}))
	})
}

func TestTableFindMatchesMethod(t *testing.T) {
	t.Parallel()

	var tbl Table[string]
	require.NoError(t, tbl.Register("submit", "post-only", MethodSet("POST")))
	require.NoError(t, tbl.Register("submit", "any", nil))

	t.Run("restricted entry passes its method", func(t *testing.T) {
		t.Parallel()
		got := tbl.FindMatchesMethod([]string{"submit"}, "POST")
		assert.Equal(t, []string{"post-only", "any"}, valuesOf(got))
	})

	t.Run("filtered entry yields the entry that passed", func(t *testing.T) {
		t.Parallel()
		// The POST-restricted entry shares its raw pattern with the
		// unrestricted one; a GET match must resolve to the unrestricted
		// entry's value, not the earliest registration for the pattern.
		got := tbl.FindMatchesMethod([]string{"submit"}, "GET")
		require.Len(t, got, 1)
		assert.Equal(t, "any", got[0].Value)
		assert.Equal(t, "submit", got[0].Raw)
	})

	t.Run("method comparison is exact", func(t *testing.T) {
		t.Parallel()
		var only Table[string]
		require.NoError(t, only.Register("x", "post", MethodSet("POST")))
		assert.Empty(t, only.FindMatchesMethod([]string{"x"}, "post"))
	})
}

func TestTableGet(t *testing.T) {
	t.Parallel()

	var tbl Table[string]
	require.NoError(t, tbl.Register("a", "first", nil))
	require.NoError(t, tbl.Register("a", "second", nil))

	v, ok := tbl.Get("a")
	require.True(t, ok)
	assert.Equal(t, "first", v)

	_, ok = tbl.Get("missing")
	assert.False(t, ok)
}

func TestTableKeys(t *testing.T) {
	t.Parallel()

	var tbl Table[int]
	require.NoError(t, tbl.Register("b", 1, nil))
	require.NoError(t, tbl.Register("a", 2, nil))
	require.NoError(t, tbl.Register("b", 3, nil))

	assert.Equal(t, []string{"b", "a"}, tbl.Keys())
}

func TestTablePatternOf(t *testing.T) {
	t.Parallel()

	var tbl Table[int]
	require.NoError(t, tbl.Register("a/*", 1, nil))

	p, ok := tbl.PatternOf("a/*")
	require.True(t, ok)
	assert.True(t, p.HasWildcard())
	assert.Equal(t, 1, p.PrefixLen())

	_, ok = tbl.PatternOf("missing")
	assert.False(t, ok)
}
