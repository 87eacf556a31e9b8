package lex

import (
	"strings"
	"testing"

	"github.com/dekarrin/glr/internal/glr/types"
	"github.com/stretchr/testify/assert"
)

func Test_LazyLex_singleStateLex(t *testing.T) {
	testCases := []struct {
		name       string
		classes    []types.TokenClass
		patterns   []string
		lexActions []Action
		input      string
		expect     []lexerToken
	}{
		{
			name:    "single token",
			classes: allTestClasses,
			patterns: []string{
				`[0-9]+`,
				`\s+`,
			},
			lexActions: []Action{
				LexAs("int"),
				{},
			},
			input: "413",
			expect: []lexerToken{
				{line: "413", lineNum: 1, linePos: 1, class: testClassInt, lexed: "413"},
				{line: "413", lineNum: 1, linePos: 4, class: types.TokenEndOfText},
			},
		},
		{
			name:    "two tokens separated by discarded whitespace",
			classes: allTestClasses,
			patterns: []string{
				`[A-Za-z_][A-Za-z_0-9]*`,
				`\s+`,
			},
			lexActions: []Action{
				LexAs("id"),
				{},
			},
			input: "one two",
			expect: []lexerToken{
				{line: "one two", lineNum: 1, linePos: 1, class: testClassId, lexed: "one"},
				{line: "one two", lineNum: 1, linePos: 5, class: testClassId, lexed: "two"},
				{line: "one two", lineNum: 1, linePos: 8, class: types.TokenEndOfText},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// setup
			assert := assert.New(t)
			lx := NewLexer()
			for i := range tc.classes {
				lx.AddClass(tc.classes[i], "")
			}
			if len(tc.patterns) != len(tc.lexActions) {
				panic("bad test case: number of patterns doesnt match number of lex actions")
			}
			for i := range tc.patterns {
				pat := tc.patterns[i]
				act := tc.lexActions[i]
				err := lx.AddPattern(pat, act, "")
				if !assert.NoErrorf(err, "adding pattern %d to lexer failed", i) {
					return
				}
			}
			inputReader := strings.NewReader(tc.input)

			// execute
			stream, err := lx.LazyLex(inputReader)
			if !assert.NoErrorf(err, "error while producing token stream") {
				return
			}

			// Peek must never advance the stream.
			if len(tc.expect) > 0 {
				peeked := stream.Peek()
				assert.Equal(tc.expect[0].Class().ID(), peeked.Class().ID(), "peek: class mismatch")
				assert.Equal(tc.expect[0].Lexeme(), peeked.Lexeme(), "peek: lexeme mismatch")
			}

			// assert

			// go through each item in the stream and check that it matches
			// expected
			tokNum := 0
			for stream.HasNext() {
				if tokNum >= len(tc.expect) {
					assert.Failf("wrong number of produced tokens", "expected stream to produce %d tokens but got more", len(tc.expect))
					return
				}

				expectToken := tc.expect[tokNum]
				actualToken := stream.Next()

				assert.Equal(expectToken.Class().ID(), actualToken.Class().ID(), "token #%d, class mismatch", tokNum)
				assert.Equal(expectToken.FullLine(), actualToken.FullLine(), "token #%d, full-line mismatch", tokNum)
				assert.Equal(expectToken.Line(), actualToken.Line(), "token #%d, line number mismatch", tokNum)
				assert.Equal(expectToken.LinePos(), actualToken.LinePos(), "token #%d, line position mismatch", tokNum)
				assert.Equal(expectToken.Lexeme(), actualToken.Lexeme(), "token #%d, lexeme mismatch", tokNum)

				tokNum++
			}
			if tokNum != len(tc.expect) {
				assert.Failf("wrong number of produced tokens", "expected stream to produce %d tokens but got %d", len(tc.expect), tokNum)
			}
		})
	}
}
