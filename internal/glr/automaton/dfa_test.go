package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/glr/internal/glr/grammar"
)

// Test_NewLR1ViablePrefixDFA builds the canonical LR(1) automaton for the
// textbook 2-rule grammar and checks the state count and start state
// rather than a full string dump, since the construction order of item
// sets is not itself part of the contract.
func Test_NewLR1ViablePrefixDFA(t *testing.T) {
	assert := assert.New(t)

	g := grammar.MustParse(`
		S -> C C ;
		C -> c C | d ;
	`)

	dfa, warnings, err := NewLR1ViablePrefixDFA(g, Ceilings{})
	if !assert.NoError(err) {
		return
	}
	assert.Empty(warnings)

	assert.Equal(10, dfa.States().Len())
	assert.NotEmpty(dfa.Start)
	assert.NotEmpty(dfa.GetValue(dfa.Start))
}

// Test_NewLR1ViablePrefixDFA_BuildCeilingClampedToMinimum confirms that a
// worklist ceiling of MinBuildCeiling converges without warnings for a small
// grammar, and that a configured ceiling below that minimum is raised to it,
// producing the same automaton with no warnings rather than an early
// termination.
func Test_NewLR1ViablePrefixDFA_BuildCeilingClampedToMinimum(t *testing.T) {
	assert := assert.New(t)

	g := grammar.MustParse(`
		S -> C C ;
		C -> c C | d ;
	`)

	dfa, warnings, err := NewLR1ViablePrefixDFA(g, Ceilings{Build: grammar.MinBuildCeiling})
	if !assert.NoError(err) {
		return
	}
	assert.Empty(warnings, "MinBuildCeiling rounds is far more than this grammar needs")

	// a ceiling smaller than the minimum is clamped back up to it, so the
	// worklist still converges; this exercises clampBuildCeiling's floor
	// rather than an actual early termination.
	dfa2, warnings2, err := NewLR1ViablePrefixDFA(g, Ceilings{Build: 1})
	if !assert.NoError(err) {
		return
	}
	assert.Equal(dfa.States().Len(), dfa2.States().Len())
	assert.Empty(warnings2)
}

func Test_DFA_AddState_AddTransition_Next_IsAccepting(t *testing.T) {
	assert := assert.New(t)

	dfa := &DFA[string]{}
	dfa.AddState("0", false)
	dfa.AddState("1", true)
	dfa.SetValue("0", "start")
	dfa.SetValue("1", "end")
	dfa.AddTransition("0", "a", "1")
	dfa.Start = "0"

	assert.Equal("1", dfa.Next("0", "a"))
	assert.Equal("", dfa.Next("0", "b"))
	assert.False(dfa.IsAccepting("0"))
	assert.True(dfa.IsAccepting("1"))
	assert.Equal("start", dfa.GetValue("0"))
}
