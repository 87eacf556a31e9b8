// Package renderer reconstructs a source-like string from a parse tree's
// leaves, for the CLI's --render flag. It is a pure presentation helper
// living outside the engine core; the core never needs to reconstruct
// source text from a tree.
package renderer

import (
	"strings"
	"unicode"

	"github.com/dekarrin/glr/internal/glr/types"
)

// noSpaceBefore is the set of lexemes that never get a space inserted
// before them.
var noSpaceBefore = map[string]bool{
	",": true, ";": true, ")": true, "]": true, "}": true, ".": true, ":": true,
}

// noSpaceAfter is the set of lexemes that never get a space inserted
// after them.
var noSpaceAfter = map[string]bool{
	"(": true, "[": true, "{": true, ".": true, ":": true,
}

// Render reconstructs a source string from tree by concatenating its
// terminal leaves' lexemes with spacing heuristics: no space before a
// comma, semicolon, or closing bracket; no space around a dot or colon;
// a space between two alphanumeric tokens; a space at the
// alphanumeric/operator boundary.
func Render(tree types.ParseTree) string {
	leaves := tree.Leaves()

	var sb strings.Builder
	for i, lex := range leaves {
		if i > 0 && needsSpace(leaves[i-1], lex) {
			sb.WriteByte(' ')
		}
		sb.WriteString(lex)
	}

	return sb.String()
}

func needsSpace(prev, next string) bool {
	if noSpaceAfter[prev] || noSpaceBefore[next] {
		return false
	}

	prevAlnum := isAlnumLike(prev)
	nextAlnum := isAlnumLike(next)

	if prevAlnum && nextAlnum {
		return true
	}

	// alphanumeric/operator boundary
	return prevAlnum != nextAlnum
}

func isAlnumLike(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}
