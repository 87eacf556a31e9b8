// Package glrerrors defines the error taxonomy used across the grammar,
// automaton, and runtime packages: a SyntaxError carrying source position
// for user-facing diagnostics, plus the typed errors returned by the
// build and parse phases of the engine.
package glrerrors

import (
	"fmt"

	"github.com/dekarrin/glr/internal/glr/types"
	"github.com/dekarrin/glr/internal/util"
)

// ExpectedTokensMessage builds a human-readable "expected X, Y, and Z"
// message ("expected X and Y" for two names) from a set of expected symbol
// names, in the same style a hand-rolled
// findExpectedTokens/getExpectedString pair would.
func ExpectedTokensMessage(expected []string) string {
	if len(expected) == 0 {
		return "unexpected token"
	}
	return "expected " + util.MakeTextList(append([]string(nil), expected...))
}

// SyntaxError is a human-readable parse error tied to a specific offending
// token's position in the source text.
type SyntaxError struct {
	msg      string
	Line     int
	Col      int
	FullLine string
	Lexeme   string
}

func (e *SyntaxError) Error() string {
	return e.msg
}

// FullMessage renders the error along with the offending line and a caret
// pointing at the column the error occurred on, for CLI display.
func (e *SyntaxError) FullMessage() string {
	if e.FullLine == "" {
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.msg)
	}

	caret := ""
	for i := 1; i < e.Col; i++ {
		caret += " "
	}
	caret += "^"

	return fmt.Sprintf("%d:%d: %s\n%s\n%s", e.Line, e.Col, e.msg, e.FullLine, caret)
}

// NewSyntaxErrorFromToken builds a SyntaxError whose position is taken from
// tok.
func NewSyntaxErrorFromToken(msg string, tok types.Token) *SyntaxError {
	return &SyntaxError{
		msg:      msg,
		Line:     tok.Line(),
		Col:      tok.LinePos(),
		FullLine: tok.FullLine(),
		Lexeme:   tok.Lexeme(),
	}
}

// GrammarError is returned by FIRST/FOLLOW computation when a fixed-point
// iteration exceeds its configured ceiling.
type GrammarError struct {
	msg string
}

func (e *GrammarError) Error() string        { return e.msg }
func (e *GrammarError) FullMessage() string  { return "grammar error: " + e.msg }
func NewGrammarError(format string, args ...interface{}) *GrammarError {
	return &GrammarError{msg: fmt.Sprintf(format, args...)}
}

// BuildError is returned by automaton construction when the state graph
// cannot be completed; the automaton is guaranteed not to be left
// half-built in the Engine that produced this error.
type BuildError struct {
	msg string
}

func (e *BuildError) Error() string       { return e.msg }
func (e *BuildError) FullMessage() string { return "build error: " + e.msg }
func NewBuildError(format string, args ...interface{}) *BuildError {
	return &BuildError{msg: fmt.Sprintf(format, args...)}
}

// ParseError is returned by Parse when, after panic-mode recovery has been
// attempted, no stack survives to consume the remaining input.
type ParseError struct {
	msg        string
	TokenIndex int
	Symbol     string
}

func (e *ParseError) Error() string       { return e.msg }
func (e *ParseError) FullMessage() string { return "parse error: " + e.msg }
func NewParseError(tokenIndex int, symbol string, format string, args ...interface{}) *ParseError {
	return &ParseError{
		msg:        fmt.Sprintf(format, args...),
		TokenIndex: tokenIndex,
		Symbol:     symbol,
	}
}

// TokenizerError wraps a lexical error surfaced by a tokenizer, propagated
// unchanged up through Parse.
type TokenizerError struct {
	msg string
	err error
}

func (e *TokenizerError) Error() string       { return e.msg }
func (e *TokenizerError) Unwrap() error       { return e.err }
func (e *TokenizerError) FullMessage() string { return "tokenizer error: " + e.msg }
func NewTokenizerError(wrapped error) *TokenizerError {
	msg := ""
	if wrapped != nil {
		msg = wrapped.Error()
	}
	return &TokenizerError{msg: msg, err: wrapped}
}
