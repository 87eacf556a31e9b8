// Package predefined bundles reference tokenizer+grammar pairs used by the
// CLI as built-in conveniences: they satisfy the engine's Grammar- and
// Tokenizer-construction interfaces the same way a caller's own grammar
// and lexer would, and add no dependency from the core onto this package.
package predefined

import (
	"fmt"

	"golang.org/x/text/cases"

	"github.com/dekarrin/glr/internal/glr/grammar"
	"github.com/dekarrin/glr/internal/glr/lex"
)

// Type identifies one of the bundled grammar/tokenizer pairs.
type Type string

const (
	Simple      Type = "simple"
	Math        Type = "math"
	Lua         Type = "lua"
	Programming Type = "programming"
)

// Pair bundles a grammar with the lexer that tokenizes source text for it.
type Pair struct {
	Grammar grammar.Grammar
	Lexer   lex.Lexer
}

// Get returns the grammar/lexer pair for t.
func Get(t Type) (Pair, error) {
	switch t {
	case Simple:
		return simplePair()
	case Math:
		return mathPair()
	case Lua:
		return luaPair()
	case Programming:
		return programmingPair()
	default:
		return Pair{}, fmt.Errorf("unknown grammar type %q", t)
	}
}

// simplePair is the S -> a S | a toy grammar used to smoke-test the engine
// end to end.
func simplePair() (Pair, error) {
	g, err := grammar.Parse(`S -> a S | a ;`)
	if err != nil {
		return Pair{}, err
	}

	lx := lex.NewLexer()
	lx.AddClass(lex.NewTokenClass("a", "a"), "")
	if err := lx.AddPattern(`a`, lex.LexAs("a"), ""); err != nil {
		return Pair{}, err
	}
	if err := lx.AddPattern(`\s+`, lex.Discard(), ""); err != nil {
		return Pair{}, err
	}

	return Pair{Grammar: g, Lexer: lx}, nil
}

// mathPair is the ambiguous arithmetic expression grammar from the
// end-to-end scenario table: E -> E + E | E * E | ( E ) | id, deliberately
// left flat (not precedence-layered) so the GLR runtime's fork-on-conflict
// behavior has something to demonstrate.
func mathPair() (Pair, error) {
	g, err := grammar.Parse(`E -> E plus E | E mult E | lparen E rparen | id ;`)
	if err != nil {
		return Pair{}, err
	}

	lx := lex.NewLexer()
	for _, id := range []string{"plus", "mult", "lparen", "rparen", "id"} {
		lx.AddClass(lex.NewTokenClass(id, id), "")
	}

	patterns := []struct {
		pat string
		act lex.Action
	}{
		{`\+`, lex.LexAs("plus")},
		{`\*`, lex.LexAs("mult")},
		{`\(`, lex.LexAs("lparen")},
		{`\)`, lex.LexAs("rparen")},
		{`[A-Za-z_][A-Za-z_0-9]*`, lex.LexAs("id")},
		{`\s+`, lex.Discard()},
	}
	for _, p := range patterns {
		if err := lx.AddPattern(p.pat, p.act, ""); err != nil {
			return Pair{}, err
		}
	}

	return Pair{Grammar: g, Lexer: lx}, nil
}

// luaTitleCaser case-folds reserved words before comparison so that a
// tokenizer built on this grammar can treat "Local"/"LOCAL"/"local" as the
// same reserved word, per the Lua lexer idiom this pair is grounded on.
var luaTitleCaser = cases.Fold()

// luaPair is a Lua-subset grammar: chunk/block/stat, local assignment,
// if/elseif/else/end, and simple expressions.
func luaPair() (Pair, error) {
	g, err := grammar.Parse(`
		chunk -> block ;
		block -> stat block | ;
		stat -> local id equals expr semi | if expr then block elseifs elseopt end semi ;
		elseifs -> elseif expr then block elseifs | ;
		elseopt -> else block | ;
		expr -> expr plus expr | lparen expr rparen | id | int ;
	`)
	if err != nil {
		return Pair{}, err
	}

	lx := lex.NewLexer()
	ids := []string{"local", "if", "then", "elseif", "else", "end", "equals", "semi", "plus", "lparen", "rparen", "id", "int"}
	for _, id := range ids {
		lx.AddClass(lex.NewTokenClass(id, id), "")
	}

	keywordPatterns := []struct {
		word string
		id   string
	}{
		{"local", "local"},
		{"if", "if"},
		{"then", "then"},
		{"elseif", "elseif"},
		{"else", "else"},
		{"end", "end"},
	}
	for _, kw := range keywordPatterns {
		folded := luaTitleCaser.String(kw.word)
		pat := fmt.Sprintf(`(?i)%s\b`, folded)
		if err := lx.AddPattern(pat, lex.LexAs(kw.id), ""); err != nil {
			return Pair{}, err
		}
	}

	patterns := []struct {
		pat string
		act lex.Action
	}{
		{`=`, lex.LexAs("equals")},
		{`;`, lex.LexAs("semi")},
		{`\+`, lex.LexAs("plus")},
		{`\(`, lex.LexAs("lparen")},
		{`\)`, lex.LexAs("rparen")},
		{`[0-9]+`, lex.LexAs("int")},
		{`[A-Za-z_][A-Za-z_0-9]*`, lex.LexAs("id")},
		{`\s+`, lex.Discard()},
	}
	for _, p := range patterns {
		if err := lx.AddPattern(p.pat, p.act, ""); err != nil {
			return Pair{}, err
		}
	}

	return Pair{Grammar: g, Lexer: lx}, nil
}

// programmingPair is a small superset of Simple combining assignment
// statements and arithmetic, used to exercise the CLI's multi-statement,
// multi-tree rendering path.
func programmingPair() (Pair, error) {
	g, err := grammar.Parse(`
		program -> stmts ;
		stmts -> stmt semi stmts | stmt semi ;
		stmt -> id equals expr ;
		expr -> expr plus expr | expr mult expr | lparen expr rparen | id | int ;
	`)
	if err != nil {
		return Pair{}, err
	}

	lx := lex.NewLexer()
	ids := []string{"semi", "equals", "plus", "mult", "lparen", "rparen", "id", "int"}
	for _, id := range ids {
		lx.AddClass(lex.NewTokenClass(id, id), "")
	}

	patterns := []struct {
		pat string
		act lex.Action
	}{
		{`;`, lex.LexAs("semi")},
		{`=`, lex.LexAs("equals")},
		{`\+`, lex.LexAs("plus")},
		{`\*`, lex.LexAs("mult")},
		{`\(`, lex.LexAs("lparen")},
		{`\)`, lex.LexAs("rparen")},
		{`[0-9]+`, lex.LexAs("int")},
		{`[A-Za-z_][A-Za-z_0-9]*`, lex.LexAs("id")},
		{`\s+`, lex.Discard()},
	}
	for _, p := range patterns {
		if err := lx.AddPattern(p.pat, p.act, ""); err != nil {
			return Pair{}, err
		}
	}

	return Pair{Grammar: g, Lexer: lx}, nil
}
