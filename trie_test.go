package relic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPattern(t *testing.T, raw string) PathPattern {
	t.Helper()
	p, err := ParsePathPattern(raw)
	require.NoError(t, err, "ParsePathPattern(%q)", raw)
	return p
}

func TestTrieLiteralMatch(t *testing.T) {
	trie := NewPathTrie[string]()
	require.NoError(t, trie.Insert(mustPattern(t, "/users/789/profile"), "profile"))

	match, ok := trie.Lookup(ParseNormalizedPath("/users/789/profile"))
	require.True(t, ok)
	assert.Equal(t, "profile", match.Value)
	assert.True(t, match.Remaining.Empty())
}

func TestTrieDuplicateRoute(t *testing.T) {
	trie := NewPathTrie[string]()
	require.NoError(t, trie.Insert(mustPattern(t, "/a/b"), "first"))

	err := trie.Insert(mustPattern(t, "/a/b"), "second")
	assert.ErrorIs(t, err, ErrDuplicateRoute)
}

func TestTrieParameterConflict(t *testing.T) {
	trie := NewPathTrie[string]()
	require.NoError(t, trie.Insert(mustPattern(t, "/a/:x"), "first"))

	err := trie.Insert(mustPattern(t, "/a/:y/b"), "second")
	assert.ErrorIs(t, err, ErrParameterConflict)
}

func TestTrieLiteralBeatsParameterOnBacktrack(t *testing.T) {
	// /:entity/:id and /users/:id/profile; request /users/789 should resolve
	// to the first pattern since the literal "users" branch cannot reach a
	// terminal for the two-segment remainder and the search backtracks.
	trie := NewPathTrie[string]()
	require.NoError(t, trie.Insert(mustPattern(t, "/:entity/:id"), "generic"))
	require.NoError(t, trie.Insert(mustPattern(t, "/users/:id/profile"), "profile"))

	match, ok := trie.Lookup(ParseNormalizedPath("/users/789"))
	require.True(t, ok)
	assert.Equal(t, "generic", match.Value)

	id, found := match.Parameters.Get(NewSymbol("id"))
	assert.True(t, found)
	assert.Equal(t, "789", id)
}

func TestTrieTailWildcard(t *testing.T) {
	trie := NewPathTrie[string]()
	require.NoError(t, trie.Insert(mustPattern(t, "/files/**"), "catchall"))
	require.NoError(t, trie.Insert(mustPattern(t, "/files/special/report"), "specific"))

	match, ok := trie.Lookup(ParseNormalizedPath("/files/special/report"))
	require.True(t, ok)
	assert.Equal(t, "specific", match.Value)

	match, ok = trie.Lookup(ParseNormalizedPath("/files/special/other"))
	require.True(t, ok)
	assert.Equal(t, "catchall", match.Value)
	assert.Equal(t, "/special/other", match.Remaining.String())
	assert.Equal(t, "/files", match.Matched.String())
}

func TestTrieTailRequiresNonEmptyRemainder(t *testing.T) {
	trie := NewPathTrie[string]()
	require.NoError(t, trie.Insert(mustPattern(t, "/files/**"), "catchall"))

	_, ok := trie.Lookup(ParseNormalizedPath("/files"))
	assert.False(t, ok, "tail wildcard should not match zero remaining segments")
}

func TestTrieWildcardBeatsTail(t *testing.T) {
	trie := NewPathTrie[string]()
	require.NoError(t, trie.Insert(mustPattern(t, "/files/*/report"), "specific"))
	require.NoError(t, trie.Insert(mustPattern(t, "/files/**"), "catchall"))

	match, ok := trie.Lookup(ParseNormalizedPath("/files/special/report"))
	require.True(t, ok)
	assert.Equal(t, "specific", match.Value)
}

func TestTrieRootPattern(t *testing.T) {
	trie := NewPathTrie[string]()
	require.NoError(t, trie.Insert(mustPattern(t, "/"), "root"))

	match, ok := trie.Lookup(ParseNormalizedPath("/"))
	require.True(t, ok)
	assert.Equal(t, "root", match.Value)

	_, ok = trie.Lookup(ParseNormalizedPath("/anything"))
	assert.False(t, ok)
}

func TestTrieRegistrationOrderIndependent(t *testing.T) {
	build := func(order []string) *PathTrie[string] {
		trie := NewPathTrie[string]()
		for _, pattern := range order {
			require.NoError(t, trie.Insert(mustPattern(t, pattern), pattern), "insert %q", pattern)
		}
		return trie
	}

	a := build([]string{"/a/:x", "/a/b", "/files/**"})
	b := build([]string{"/files/**", "/a/b", "/a/:x"})

	for _, path := range []string{"/a/b", "/a/123", "/files/x/y"} {
		ma, oka := a.Lookup(ParseNormalizedPath(path))
		mb, okb := b.Lookup(ParseNormalizedPath(path))
		assert.Equal(t, oka, okb, "path %q", path)
		assert.Equal(t, ma.Value, mb.Value, "path %q", path)
	}
}
