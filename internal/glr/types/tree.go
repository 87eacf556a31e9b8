package types

import (
	"fmt"
	"strings"
)

const (
	treeLevelEmpty               = "        "
	treeLevelOngoing             = "  |     "
	treeLevelPrefix              = "  |%s: "
	treeLevelPrefixLast          = `  \%s: `
	treeLevelPrefixNamePadChar   = '-'
	treeLevelPrefixNamePadAmount = 3
)

func makeTreeLevelPrefix(msg string) string {
	for len([]rune(msg)) < treeLevelPrefixNamePadAmount {
		msg = string(treeLevelPrefixNamePadChar) + msg
	}
	return fmt.Sprintf(treeLevelPrefix, msg)
}

func makeTreeLevelPrefixLast(msg string) string {
	for len([]rune(msg)) < treeLevelPrefixNamePadAmount {
		msg = string(treeLevelPrefixNamePadChar) + msg
	}
	return fmt.Sprintf(treeLevelPrefixLast, msg)
}

// NodeKind distinguishes the three parse-tree node variants a GLR reduction
// can produce: an ordinary terminal leaf, a reduced nonterminal, and the
// Error placeholder substituted when a reduction has no node to pop (an
// epsilon production, or a frame left behind by panic-mode recovery).
type NodeKind int

const (
	KindNonterminal NodeKind = iota
	KindTerminal
	KindError
)

func (k NodeKind) String() string {
	switch k {
	case KindTerminal:
		return "TERM"
	case KindError:
		return "ERROR"
	default:
		return "NONTERM"
	}
}

// ParseTree is a single node of a parse tree built by the GLR runtime. A
// Nonterminal node's Children are in production-rhs order. A Terminal node
// has no children and carries the lexed Source token. An Error node is a
// placeholder with no Source, inserted wherever a reduction popped a frame
// that had no node attached.
type ParseTree struct {
	Kind NodeKind

	// Value is the symbol at this node: the nonterminal for a reduction, the
	// terminal class ID for a leaf, or the symbol the recovery was attempting
	// to fill in for an Error node.
	Value string

	// Source is only meaningful when Kind is KindTerminal.
	Source Token

	// Children is all children of the parse tree, in left-to-right order. Always
	// empty for Terminal and Error nodes.
	Children []*ParseTree
}

// Terminal is whether this node is for a terminal symbol. Kept for callers
// written against the two-variant (terminal/nonterminal) model; Error nodes
// report false here since they are neither.
func (pt ParseTree) Terminal() bool {
	return pt.Kind == KindTerminal
}

// String returns a prettified representation of the entire parse tree suitable
// for use in line-by-line comparisons of tree structure. Two parse trees are
// considered semantically identical if they produce identical String() output.
func (pt ParseTree) String() string {
	return pt.leveledStr("", "")
}

// Copy returns a duplicate, deeply-copied parse tree.
func (pt ParseTree) Copy() ParseTree {
	newPt := ParseTree{
		Kind:     pt.Kind,
		Value:    pt.Value,
		Source:   pt.Source,
		Children: make([]*ParseTree, len(pt.Children)),
	}

	for i := range pt.Children {
		if pt.Children[i] != nil {
			newChild := pt.Children[i].Copy()
			newPt.Children[i] = &newChild
		}
	}

	return newPt
}

// Leaves returns the lexemes of every Terminal node in the tree, left to
// right. Error nodes contribute nothing; this is used to check the testable
// property that an accepted tree's leaves reconstruct the original input.
func (pt ParseTree) Leaves() []string {
	var out []string
	pt.collectLeaves(&out)
	return out
}

func (pt ParseTree) collectLeaves(out *[]string) {
	switch pt.Kind {
	case KindTerminal:
		lexeme := pt.Value
		if pt.Source != nil {
			lexeme = pt.Source.Lexeme()
		}
		*out = append(*out, lexeme)
	case KindError:
		// contributes nothing; it stands in for consumed input that the
		// grammar could not account for.
	default:
		for _, c := range pt.Children {
			if c != nil {
				c.collectLeaves(out)
			}
		}
	}
}

func (pt ParseTree) leveledStr(firstPrefix, contPrefix string) string {
	var sb strings.Builder

	sb.WriteString(firstPrefix)
	switch pt.Kind {
	case KindTerminal:
		sb.WriteString(fmt.Sprintf("(TERM %q)", pt.Value))
	case KindError:
		sb.WriteString(fmt.Sprintf("(ERROR %q)", pt.Value))
	default:
		sb.WriteString(fmt.Sprintf("( %s )", pt.Value))
	}

	for i := range pt.Children {
		sb.WriteRune('\n')
		var leveledFirstPrefix string
		var leveledContPrefix string
		if i+1 < len(pt.Children) {
			leveledFirstPrefix = contPrefix + makeTreeLevelPrefix("")
			leveledContPrefix = contPrefix + treeLevelOngoing
		} else {
			leveledFirstPrefix = contPrefix + makeTreeLevelPrefixLast("")
			leveledContPrefix = contPrefix + treeLevelEmpty
		}
		itemOut := pt.Children[i].leveledStr(leveledFirstPrefix, leveledContPrefix)
		sb.WriteString(itemOut)
	}

	return sb.String()
}

// Equal returns whether the parse tree is equal to the given object. If the
// given object is not a ParseTree, returns false, else returns whether the two
// parse trees have the exact same structure.
func (pt ParseTree) Equal(o any) bool {
	other, ok := o.(ParseTree)
	if !ok {
		otherPtr, ok := o.(*ParseTree)
		if !ok {
			return false
		} else if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if pt.Kind != other.Kind {
		return false
	} else if pt.Value != other.Value {
		return false
	}

	if len(pt.Children) != len(other.Children) {
		return false
	}
	for i := range pt.Children {
		if !pt.Children[i].Equal(other.Children[i]) {
			return false
		}
	}
	return true
}
