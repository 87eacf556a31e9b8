package automaton

import (
	"fmt"
	"strings"

	"github.com/dekarrin/glr/internal/util"
)

type FATransition struct {
	input string
	next  string
}

func (t FATransition) String() string {
	inp := t.input
	if inp == "" {
		inp = "ε"
	}
	return fmt.Sprintf("=(%s)=> %s", inp, t.next)
}

type DFAState[E any] struct {
	name        string
	value       E
	transitions map[string]FATransition
	accepting   bool
	ordering    uint64
}

// Copy returns a duplicate of this state that shares no transition map with
// it.
func (ns DFAState[E]) Copy() DFAState[E] {
	copied := ns
	copied.transitions = make(map[string]FATransition, len(ns.transitions))
	for k, t := range ns.transitions {
		copied.transitions[k] = t
	}
	return copied
}

func (ns DFAState[E]) String() string {
	var moves strings.Builder

	inputs := util.OrderedKeys(ns.transitions)

	for i, input := range inputs {
		moves.WriteString(ns.transitions[input].String())
		if i+1 < len(inputs) {
			moves.WriteRune(',')
			moves.WriteRune(' ')
		}
	}

	str := fmt.Sprintf("(%s [%s])", ns.name, moves.String())

	if ns.accepting {
		str = "(" + str + ")"
	}

	return str
}
