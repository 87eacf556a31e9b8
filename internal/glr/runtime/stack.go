package parse

import (
	"strings"

	"github.com/dekarrin/glr/internal/glr/types"
)

// Frame is one level of a parse stack: the automaton state the parser was
// in when the frame was pushed, and the parse-tree node attached to it (nil
// for the bottom frame).
type Frame struct {
	State string
	Node  *types.ParseTree
}

// ParseStack is a single parser stack: an ordered, LIFO sequence of frames.
// Stacks are cloned on every shift and every reduction rather than mutated
// in place, so that speculative forks never disturb one another.
type ParseStack struct {
	Frames []Frame
}

// NewParseStack returns a stack containing only the bottom frame, in
// initialState.
func NewParseStack(initialState string) ParseStack {
	return ParseStack{Frames: []Frame{{State: initialState}}}
}

// Copy returns a stack with the same frames as s that shares no backing
// array with it.
func (s ParseStack) Copy() ParseStack {
	dup := ParseStack{Frames: make([]Frame, len(s.Frames))}
	copy(dup.Frames, s.Frames)
	return dup
}

func (s *ParseStack) Push(f Frame) {
	s.Frames = append(s.Frames, f)
}

func (s *ParseStack) Pop() Frame {
	top := s.Frames[len(s.Frames)-1]
	s.Frames = s.Frames[:len(s.Frames)-1]
	return top
}

func (s ParseStack) Top() Frame {
	return s.Frames[len(s.Frames)-1]
}

func (s ParseStack) Len() int {
	return len(s.Frames)
}

// Key returns a string that uniquely identifies the sequence of states in
// s. Two stacks with the same Key are considered equal for deduplication
// purposes, regardless of the parse-tree nodes attached to their frames.
func (s ParseStack) Key() string {
	var sb strings.Builder
	for i, f := range s.Frames {
		if i > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(f.State)
	}
	return sb.String()
}
