package lex

import (
	"fmt"
	"io"
	"regexp"

	"github.com/dekarrin/glr/internal/glr/types"
)

type patAct struct {
	src string
	pat *regexp.Regexp
	act Action
}

// Lexer builds a tokenizer from a set of per-state regex patterns and the
// actions associated with them, then produces independent TokenStreams over
// arbitrary input readers.
type Lexer interface {
	// Lex returns a token stream over input. Scanning happens lazily as the
	// stream is consumed; a malformed character sequence is reported as an
	// error token at the point it is reached, not up front.
	Lex(input io.Reader) (types.TokenStream, error)

	// LazyLex is equivalent to Lex.
	LazyLex(input io.Reader) (types.TokenStream, error)

	// ImmediatelyLex scans all of input up front and returns a TokenStream
	// backed by the resulting slice of tokens. If a lexical error is
	// encountered anywhere in input, it is returned immediately as an error
	// rather than deferred to the point the offending token is read.
	ImmediatelyLex(input io.Reader) (types.TokenStream, error)

	AddClass(cl types.TokenClass, forState string)
	AddPattern(pat string, action Action, forState string) error
	StartingState() string
	SetStartingState(state string)
}

type lexerTemplate struct {
	patterns   map[string][]patAct
	startState string

	// classes by ID by state
	classes map[string]map[string]types.TokenClass
}

// Lex is equivalent to LazyLex.
func (lx *lexerTemplate) Lex(input io.Reader) (types.TokenStream, error) {
	return lx.LazyLex(input)
}

func (lx *lexerTemplate) StartingState() string {
	return lx.startState
}

func (lx *lexerTemplate) SetStartingState(state string) {
	lx.startState = state
}

func NewLexer() Lexer {
	return &lexerTemplate{
		patterns:   map[string][]patAct{},
		startState: "",
		classes:    map[string]map[string]types.TokenClass{},
	}
}

// AddClass adds the given token class to the lexer. This will mark that token
// class as a lexable token class, and make it available for use in the Action
// of an AddPattern.
//
// If the given token class's ID() returns a string matching one already added,
// the provided one will replace the existing one.
func (lx *lexerTemplate) AddClass(cl types.TokenClass, forState string) {
	stateClasses, ok := lx.classes[forState]
	if !ok {
		stateClasses = map[string]types.TokenClass{}
	}

	stateClasses[cl.ID()] = cl
	lx.classes[forState] = stateClasses
}

// AddPattern adds a regex pattern and the action to take when it matches, for
// use when the lexer is in the given state. Patterns within a state are tried
// in gnu-lex fashion: the longest match wins, ties broken by order of
// definition.
func (lx *lexerTemplate) AddPattern(pat string, action Action, forState string) error {
	statePatterns, ok := lx.patterns[forState]
	if !ok {
		statePatterns = make([]patAct, 0)
	}
	stateClasses, ok := lx.classes[forState]
	if !ok {
		stateClasses = map[string]types.TokenClass{}
	}

	compiled, err := regexp.Compile(pat)
	if err != nil {
		return fmt.Errorf("cannot compile regex: %w", err)
	}

	if action.Type == ActionScan || action.Type == ActionScanAndState {
		id := action.ClassID
		if _, ok := stateClasses[id]; !ok {
			return fmt.Errorf("%q is not a defined token class on this lexer; add it with AddClass first", id)
		}
	}
	if action.Type == ActionState || action.Type == ActionScanAndState {
		if action.State == "" {
			return fmt.Errorf("action includes state shift but does not define state to shift to (cannot shift to empty state)")
		}
	}

	record := patAct{
		src: pat,
		pat: compiled,
		act: action,
	}
	statePatterns = append(statePatterns, record)

	lx.patterns[forState] = statePatterns
	return nil
}
