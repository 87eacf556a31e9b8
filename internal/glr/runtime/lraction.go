package parse

import (
	"fmt"

	"github.com/dekarrin/glr/internal/glr/grammar"
)

// LRActionType identifies the kind of decision a stack made on a token,
// for use in trace diagnostics. Unlike a deterministic LR parser, the GLR
// runtime does not resolve shift/reduce or reduce/reduce conflicts into a
// single action per state/symbol pair: every applicable action is taken,
// forking the stack. This type exists purely to describe, after the fact,
// which action a particular fork took.
type LRActionType int

const (
	LRShift LRActionType = iota
	LRReduce
	LRAccept
	LRError
)

func (t LRActionType) String() string {
	switch t {
	case LRShift:
		return "shift"
	case LRReduce:
		return "reduce"
	case LRAccept:
		return "accept"
	case LRError:
		return "error"
	default:
		return "unknown"
	}
}

// LRAction records one decision taken by one stack during one step of the
// GLR main loop, for trace output.
type LRAction struct {
	Type LRActionType

	// Production and Symbol are used when Type is LRReduce: the production
	// being reduced is Symbol -> Production.
	Production grammar.Production
	Symbol     string

	// State is the destination state, used when Type is LRShift.
	State string
}

func (act LRAction) String() string {
	switch act.Type {
	case LRAccept:
		return "ACTION<accept>"
	case LRError:
		return "ACTION<error>"
	case LRReduce:
		return fmt.Sprintf("ACTION<reduce %s -> %s>", act.Symbol, act.Production.String())
	case LRShift:
		return fmt.Sprintf("ACTION<shift %s>", act.State)
	default:
		return "ACTION<unknown>"
	}
}
