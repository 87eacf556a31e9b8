/*
Package glr implements a Generalized LR (GLR) parsing engine: it accepts a
context-free grammar definition, possibly ambiguous or outside LR(1), builds
a canonical LR(1) recognizer for it, and parses a token stream into one or
more parse trees by exploring every viable shift/reduce path in parallel
rather than resolving conflicts to a single deterministic action.

Typical use:

	eng := glr.New(glr.DefaultConfig())
	eng.AddProduction("S", "a", "S")
	eng.AddProduction("S", "a")
	if err := eng.Build(); err != nil {
		log.Fatal(err)
	}
	trees, err := eng.Parse(stream)
*/
package glr

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dekarrin/glr/internal/glr/automaton"
	"github.com/dekarrin/glr/internal/glr/glrerrors"
	"github.com/dekarrin/glr/internal/glr/grammar"
	parse "github.com/dekarrin/glr/internal/glr/runtime"
	"github.com/dekarrin/glr/internal/glr/types"
	"github.com/dekarrin/glr/internal/util"
)

// Config re-exports the runtime's tunable ceilings and panic-mode settings
// so that callers never need to import the internal runtime package
// directly.
type Config = parse.Config

// DefaultConfig returns the engine's default Config: the minimum closure
// ceiling and synchronizing-token set called out in the design.
func DefaultConfig() Config {
	return parse.DefaultConfig()
}

// Engine assembles a grammar definition, the automaton built from it, and
// the GLR runtime that parses against it, into the single object a caller
// constructs and reuses across many parses.
type Engine struct {
	id     uuid.UUID
	gram   grammar.Grammar
	parser *parse.Parser
	cfg    Config

	verbose bool
	trace   func(string)
}

// New returns an Engine with no productions yet defined, using cfg for its
// iteration ceilings and synchronizing-token set.
func New(cfg Config) *Engine {
	id, err := uuid.NewRandom()
	if err != nil {
		// uuid generation failure means the system's CSPRNG is broken;
		// an all-zero ID still lets the engine function, it just won't
		// disambiguate concurrent sessions in a trace log.
		id = uuid.UUID{}
	}

	return &Engine{id: id, cfg: cfg}
}

// ID returns this engine instance's UUID, for disambiguating diagnostic
// output from concurrently-run sessions in shared log capture.
func (e *Engine) ID() uuid.UUID {
	return e.id
}

// AddProduction adds rhs as an alternative production of lhs. The first
// call to AddProduction fixes the grammar's start symbol as lhs. An empty
// rhs adds an epsilon production. Build registers every symbol that never
// appears as a left-hand side as a terminal.
func (e *Engine) AddProduction(lhs string, rhs ...string) {
	prod := grammar.Production(rhs)
	if len(prod) == 0 {
		prod = grammar.Epsilon.Copy()
	}
	e.gram.AddRule(lhs, prod)
}

// SetVerbose enables or disables diagnostic tracing: state construction
// progress, per-token shift/reduce/fork/merge decisions, closure
// iterations, terminal-lookahead fixes, and recovery events. No other
// observable behavior depends on this flag.
func (e *Engine) SetVerbose(v bool) {
	e.verbose = v
	if e.parser != nil {
		if v {
			e.parser.RegisterTraceListener(e.trace)
		} else {
			e.parser.RegisterTraceListener(nil)
		}
	}
}

// RegisterTraceListener registers fn to receive one diagnostic line per
// notable event when verbose mode is enabled. Passing nil disables
// tracing even if verbose mode is later turned on.
func (e *Engine) RegisterTraceListener(fn func(string)) {
	e.trace = fn
	if e.verbose && e.parser != nil {
		e.parser.RegisterTraceListener(fn)
	}
}

// Build computes FIRST/FOLLOW and the canonical LR(1) automaton for the
// engine's grammar. Idempotent: once built, subsequent calls are no-ops.
// If this call fails, the engine's automaton is left unset; the grammar
// definition itself is unaffected and may still be inspected, but the
// engine cannot parse until Build succeeds.
func (e *Engine) Build() error {
	if e.parser == nil {
		for _, nt := range e.gram.NonTerminals() {
			for _, p := range e.gram.Rule(nt).Productions {
				for _, sym := range p {
					if sym != grammar.Epsilon[0] && !e.gram.IsNonTerminal(sym) && !e.gram.IsTerminal(sym) {
						e.gram.AddTerm(sym, types.MakeDefaultClass(sym))
					}
				}
			}
		}
		e.parser = parse.New(e.gram, e.cfg)
		if e.verbose {
			e.parser.RegisterTraceListener(e.trace)
		}
	}

	if err := e.parser.Build(); err != nil {
		e.parser = nil
		return err
	}

	return nil
}

// Parse consumes an already-tokenized stream (tokenizing is the caller's
// responsibility; the stream's last token must have class ID "$") and
// returns every parse tree the grammar admits for it. Build is called
// implicitly if it has not been already.
//
// Parse errors do not invalidate the Engine: the same instance may be used
// to parse further input after a failure.
func (e *Engine) Parse(stream types.TokenStream) ([]types.ParseTree, error) {
	if err := e.Build(); err != nil {
		return nil, err
	}

	return e.parser.Parse(stream)
}

// Grammar returns a copy of the grammar definition accumulated so far via
// AddProduction.
func (e *Engine) Grammar() grammar.Grammar {
	return e.gram.Copy()
}

// Reset replaces the engine's grammar definition wholesale (e.g. with one
// loaded from grammarfile.Load or predefined.Get) and discards any
// previously built automaton, so a subsequent Build constructs one for the
// new grammar.
func (e *Engine) Reset(g grammar.Grammar) {
	e.gram = g
	e.parser = nil
}

// AdoptDFA installs a previously-built automaton (e.g. one restored from
// the cache package) in place of running Build's state construction. The
// caller is responsible for ensuring dfa was built from the engine's
// current grammar.
func (e *Engine) AdoptDFA(dfa automaton.DFA[util.SVSet[grammar.LR1Item]]) {
	e.parser = parse.New(e.gram, e.cfg)
	if e.verbose {
		e.parser.RegisterTraceListener(e.trace)
	}
	e.parser.Adopt(dfa)
}

// GetDFA returns the canonical LR(1) automaton backing the engine,
// building it first if necessary. Used by callers (such as the CLI's
// --cache flag) that need to persist the automaton themselves.
func (e *Engine) GetDFA() (*automaton.DFA[util.SVSet[grammar.LR1Item]], error) {
	if err := e.Build(); err != nil {
		return nil, err
	}
	return e.parser.GetDFA()
}

// String returns a short human-readable summary of the engine's state, for
// use in verbose-mode banners.
func (e *Engine) String() string {
	state := "unbuilt"
	if e.parser != nil {
		state = "built"
	}
	return fmt.Sprintf("Engine<%s, start=%q, %s>", e.id, e.gram.StartSymbol(), state)
}

// Errors re-exported so callers can type-switch on engine failures without
// importing the internal glrerrors package directly.
type (
	SyntaxError    = glrerrors.SyntaxError
	GrammarError   = glrerrors.GrammarError
	BuildError     = glrerrors.BuildError
	ParseError     = glrerrors.ParseError
	TokenizerError = glrerrors.TokenizerError
)
