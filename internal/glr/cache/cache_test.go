package cache

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/glr/internal/glr/automaton"
	"github.com/dekarrin/glr/internal/glr/grammar"
)

// Test_StoreLoad_RoundTrip builds a real automaton, writes it to a temp
// cache dir, reloads it, and checks that every state's item set and
// outgoing transitions survive the flatten/rezi-encode/decode/rebuild
// cycle unchanged.
func Test_StoreLoad_RoundTrip(t *testing.T) {
	g := grammar.MustParse(`S -> a S | a ;`)

	dfa, warnings, err := automaton.NewLR1ViablePrefixDFA(g, automaton.Ceilings{})
	assert.NoError(t, err)
	assert.Empty(t, warnings)

	dir := t.TempDir()
	key := KeyFor(g)

	id, err := uuid.NewRandom()
	assert.NoError(t, err)

	assert.NoError(t, Store(dir, key, dfa, id))

	loaded, ok, err := Load(dir, key)
	assert.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, dfa.Start, loaded.Start)
	assert.ElementsMatch(t, dfa.States().Elements(), loaded.States().Elements())

	for _, state := range dfa.States().Elements() {
		origItems := dfa.GetValue(state)
		gotItems := loaded.GetValue(state)
		assert.ElementsMatch(t, origItems.Elements(), gotItems.Elements(), "item set mismatch for state %s", state)

		for _, sym := range allSymbols(dfa, state) {
			assert.Equal(t, dfa.Next(state, sym), loaded.Next(state, sym), "transition mismatch for state %s on %s", state, sym)
		}
	}
}

// Test_Load_MissingEntry_ReturnsNotOK confirms a cache miss is reported via
// ok=false with no error, so callers fall back to a full Build.
func Test_Load_MissingEntry_ReturnsNotOK(t *testing.T) {
	dir := t.TempDir()

	_, ok, err := Load(dir, "deadbeef")
	assert.NoError(t, err)
	assert.False(t, ok)
}

// Test_KeyFor_StableForSameGrammar confirms the cache key only depends on
// the grammar's production text, not on construction order or instance
// identity.
func Test_KeyFor_StableForSameGrammar(t *testing.T) {
	g1 := grammar.MustParse(`S -> a S | a ;`)
	g2 := grammar.MustParse(`S -> a S | a ;`)

	assert.Equal(t, KeyFor(g1), KeyFor(g2))
}
