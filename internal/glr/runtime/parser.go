// Package parse implements the GLR runtime: a parallel-stack interpreter
// that drives a canonical LR(1) automaton over a token stream, forking on
// shift/reduce and reduce/reduce conflicts and merging equivalent stacks,
// to produce every parse tree the grammar admits for the input.
package parse

import (
	"fmt"
	"strings"

	"github.com/dekarrin/glr/internal/glr/automaton"
	"github.com/dekarrin/glr/internal/glr/glrerrors"
	"github.com/dekarrin/glr/internal/glr/grammar"
	"github.com/dekarrin/glr/internal/glr/types"
	"github.com/dekarrin/glr/internal/util"
)

// defaultSyncTokens is the minimum panic-mode synchronizing set from the
// design: tokens that plausibly mark a safe place to resume parsing after
// an error.
var defaultSyncTokens = []string{";", "end", "else", "elseif", "until", "$", ")", "}", "]"}

// Config holds the tunable ceilings and panic-mode settings for a Parser.
// The zero value is not valid; use DefaultConfig.
type Config struct {
	// FirstFollowCeiling bounds the number of fixed-point rounds the
	// FIRST/FOLLOW computation will run before giving up and reporting a
	// GrammarError rather than looping forever on a pathological grammar
	// (e.g. one with a cycle of nullable productions).
	FirstFollowCeiling int

	// ClosureCeiling bounds the number of fixed-point rounds the automaton
	// builder's item-set closure will run before giving up and reporting a
	// performance warning rather than looping forever on a pathological
	// grammar.
	ClosureCeiling int

	// BuildCeiling bounds the number of rounds the automaton builder's
	// outer worklist loop (state and transition discovery) will run before
	// giving up and reporting a performance warning rather than looping
	// forever.
	BuildCeiling int

	// SyncTokens is the set of terminal IDs panic-mode recovery treats as
	// safe resynchronization points.
	SyncTokens map[string]bool

	// Verbose records whether diagnostic output was requested. The Parser
	// itself does not read it: iteration-ceiling warnings and other
	// diagnostics reach the caller only through a listener registered with
	// RegisterTraceListener.
	Verbose bool
}

// DefaultConfig returns a Config with the minimums called out in the
// design: a FIRST/FOLLOW ceiling of 100 rounds, a closure ceiling of 200
// rounds, a build-worklist ceiling of 1000 rounds, and the default
// synchronizing token set.
func DefaultConfig() Config {
	sync := make(map[string]bool, len(defaultSyncTokens))
	for _, s := range defaultSyncTokens {
		sync[s] = true
	}
	return Config{
		FirstFollowCeiling: grammar.MinFirstFollowCeiling,
		ClosureCeiling:     grammar.MinClosureCeiling,
		BuildCeiling:       grammar.MinBuildCeiling,
		SyncTokens:         sync,
	}
}

// Parser is a GLR parser for a single grammar. Build the automaton once via
// Build (or implicitly on first Parse) and reuse the instance across many
// Parse calls; the grammar and automaton are read-only once built.
type Parser struct {
	gram   grammar.Grammar
	dfa    automaton.DFA[util.SVSet[grammar.LR1Item]]
	config Config
	trace  func(string)
	built  bool
}

// New returns a Parser for g using cfg.
func New(g grammar.Grammar, cfg Config) *Parser {
	return &Parser{gram: g, config: cfg}
}

// RegisterTraceListener registers fn to receive one diagnostic line per
// notable event: closure iterations, per-token shift/reduce/fork/merge
// decisions, terminal-lookahead repairs, and recovery events. Passing nil
// disables tracing.
func (p *Parser) RegisterTraceListener(fn func(string)) {
	p.trace = fn
}

func (p *Parser) notifyTrace(format string, args ...interface{}) {
	if p.trace != nil {
		p.trace(fmt.Sprintf(format, args...))
	}
}

// Adopt installs a pre-built automaton (e.g. one restored from the cache
// package) in place of running Build's state construction, marking the
// parser as built. The caller is responsible for ensuring dfa was built
// from the same grammar.
func (p *Parser) Adopt(dfa automaton.DFA[util.SVSet[grammar.LR1Item]]) {
	p.dfa = dfa
	p.built = true
}

// GetDFA returns the canonical LR(1) automaton backing this parser,
// building it first if necessary.
func (p *Parser) GetDFA() (*automaton.DFA[util.SVSet[grammar.LR1Item]], error) {
	if err := p.Build(); err != nil {
		return nil, err
	}
	return &p.dfa, nil
}

// Build computes FIRST/FOLLOW and the canonical LR(1) automaton for the
// parser's grammar. It is idempotent: subsequent calls are no-ops once the
// automaton has been built. If grammar validation or state construction
// fails, the automaton is left unset and every subsequent call returns the
// same error.
func (p *Parser) Build() error {
	if p.built {
		return nil
	}

	if err := p.gram.Validate(); err != nil {
		return glrerrors.NewBuildError("invalid grammar: %s", err.Error())
	}

	ceilings := automaton.Ceilings{
		FirstFollow: p.config.FirstFollowCeiling,
		Closure:     p.config.ClosureCeiling,
		Build:       p.config.BuildCeiling,
	}

	dfa, warnings, err := automaton.NewLR1ViablePrefixDFA(p.gram, ceilings)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		p.notifyTrace("%s", w)
	}

	p.dfa = dfa
	p.notifyTrace("built %d states", p.dfa.States().Len())

	if err := p.repairTerminalLookaheads(); err != nil {
		return err
	}

	p.built = true
	return nil
}

// repairTerminalLookaheads applies the terminal-lookahead repair: for every
// complete item A -> t . where t is a single terminal, the item's
// lookahead set is replaced with FOLLOW(A). This corrects an
// under-approximation the closure construction otherwise leaves for simple
// unit-terminal productions. Returns the GrammarError FOLLOW reports if its
// fixed point fails to converge within the parser's configured ceiling.
func (p *Parser) repairTerminalLookaheads() error {
	for _, state := range p.dfa.States().Elements() {
		items := p.dfa.GetValue(state)

		repairCores := map[string]grammar.LR0Item{}
		kept := util.NewSVSet[grammar.LR1Item]()

		for _, key := range items.Elements() {
			item := items.Get(key)
			if len(item.Right) == 0 && len(item.Left) == 1 && p.gram.IsTerminal(item.Left[0]) {
				repairCores[item.LR0Item.String()] = item.LR0Item
				continue
			}
			kept.Set(key, item)
		}

		if len(repairCores) == 0 {
			continue
		}

		for _, core := range repairCores {
			follow, err := p.gram.FOLLOW(core.NonTerminal, p.config.FirstFollowCeiling)
			if err != nil {
				return err
			}
			for _, b := range follow.Elements() {
				repaired := grammar.LR1Item{LR0Item: core, Lookahead: b}
				kept.Set(repaired.String(), repaired)
			}
			p.notifyTrace("repaired lookahead of %s to FOLLOW(%s)", core.String(), core.NonTerminal)
		}

		p.dfa.SetValue(state, kept)
	}

	return nil
}

// isAugmentedAccept returns whether item is the augmented production's
// completed item, S-P -> S ., which marks acceptance.
func isAugmentedAccept(item grammar.LR1Item) bool {
	return len(item.Right) == 0 && len(item.Left) == 1 && strings.HasSuffix(item.NonTerminal, "-P")
}

// Parse drives the GLR main loop over stream, producing every parse tree
// the grammar admits for the tokenized input. The primary result is the
// set of trees whose top stack accepted (reached the augmented item with
// the dot at the end); if no stack accepted, a fallback list of partial
// trees from surviving stacks of depth >= 2 is returned instead. If both
// are empty, parsing has failed and an error is returned.
func (p *Parser) Parse(stream types.TokenStream) ([]types.ParseTree, error) {
	if err := p.Build(); err != nil {
		return nil, err
	}

	tokens := drain(stream)

	active := NewGraphStack()
	active.Add(NewParseStack(p.dfa.Start))

	i := 0
	for i < len(tokens) {
		tok := tokens[i]
		sym := tok.Class().ID()

		p.reduceAll(active, sym)

		if sym == types.TokenEndOfText.ID() {
			return p.collectResults(active)
		}

		next := p.shiftAll(active, tok)

		if next.Len() == 0 {
			recovered, newCursor := p.recover(tokens, i, active)
			active = recovered
			i = newCursor
			continue
		}

		active = next
		i++
	}

	return nil, glrerrors.NewParseError(i, types.TokenEndOfText.ID(), "input ended without a terminating %q token", types.TokenEndOfText.ID())
}

// expectedAt collects, across every stack in active, the terminals that
// could be shifted from its current top state, for use in a diagnostic
// "expected X, Y, and Z" message when recovery cannot find a synchronizing
// token.
func (p *Parser) expectedAt(active *GraphStack) []string {
	seen := map[string]bool{}
	var out []string

	for _, s := range active.Stacks() {
		for _, term := range p.gram.Terminals() {
			if seen[term] {
				continue
			}
			if p.dfa.Next(s.Top().State, term) != "" {
				seen[term] = true
				out = append(out, term)
			}
		}
	}

	return out
}

// drain reads every remaining token out of stream into a slice so that
// error recovery can scan forward for a synchronizing token.
func drain(stream types.TokenStream) []types.Token {
	var tokens []types.Token
	for stream.HasNext() {
		tokens = append(tokens, stream.Next())
	}
	return tokens
}

// reduceAll runs the reduction phase for one token against active,
// appending any newly-forked stacks to active itself so that cascading
// reductions against the same token are visited in turn. Lookahead
// relaxation means every complete item is attempted regardless of whether
// its recorded lookahead set actually contains sym; a wrongly-taken
// reduction simply yields a stack that cannot shift later and is pruned
// naturally.
func (p *Parser) reduceAll(active *GraphStack, sym string) {
	processed := 0
	for processed < active.Len() {
		s := active.Stacks()[processed]
		processed++

		items := p.dfa.GetValue(s.Top().State)
		for _, key := range items.Elements() {
			item := items.Get(key)

			// an epsilon production's item, B -> .ε, is complete as it stands
			complete := len(item.Right) == 0 || (len(item.Right) == 1 && item.Right[0] == grammar.Epsilon[0])
			if !complete || isAugmentedAccept(item) {
				continue
			}

			popCount := len(item.Left)
			if s.Len() <= popCount {
				// not enough frames beneath the bottom marker; discard
				continue
			}

			clone := s.Copy()
			children := make([]*types.ParseTree, popCount)
			for k := popCount - 1; k >= 0; k-- {
				f := clone.Pop()
				if f.Node != nil {
					children[k] = f.Node
				} else {
					children[k] = &types.ParseTree{Kind: types.KindError, Value: item.Left[k]}
				}
			}

			target := p.dfa.Next(clone.Top().State, item.NonTerminal)
			if target == "" {
				continue
			}

			node := &types.ParseTree{Kind: types.KindNonterminal, Value: item.NonTerminal, Children: children}
			clone.Push(Frame{State: target, Node: node})

			if active.Add(clone) {
				p.notifyTrace("reduce %s -> %s on %q", item.NonTerminal, grammar.Production(item.Left).String(), sym)
			}
		}
	}
}

// shiftAll runs the shift phase for tok against active, returning the
// deduplicated set of stacks that successfully shifted.
func (p *Parser) shiftAll(active *GraphStack, tok types.Token) *GraphStack {
	sym := tok.Class().ID()
	next := NewGraphStack()

	for _, s := range active.Stacks() {
		target := p.dfa.Next(s.Top().State, sym)
		if target == "" {
			continue
		}

		clone := s.Copy()
		clone.Push(Frame{State: target, Node: &types.ParseTree{Kind: types.KindTerminal, Value: tok.Class().ID(), Source: tok}})

		if next.Add(clone) {
			p.notifyTrace("shift %q -> state %s", tok.Lexeme(), target)
		}
	}

	return next
}

// collectResults inspects the final active set at end-of-input and returns
// the accepted trees, or a fallback set of partial trees if nothing
// accepted.
func (p *Parser) collectResults(active *GraphStack) ([]types.ParseTree, error) {
	var primary []types.ParseTree
	var fallback []types.ParseTree

	for _, s := range active.Stacks() {
		top := s.Top()
		items := p.dfa.GetValue(top.State)

		accepted := false
		for _, key := range items.Elements() {
			if isAugmentedAccept(items.Get(key)) {
				accepted = true
				break
			}
		}

		if top.Node == nil {
			continue
		}

		if accepted {
			primary = append(primary, *top.Node)
		} else if s.Len() >= 2 {
			fallback = append(fallback, *top.Node)
		}
	}

	if len(primary) > 0 {
		return primary, nil
	}
	if len(fallback) > 0 {
		return fallback, nil
	}

	return nil, glrerrors.NewParseError(-1, types.TokenEndOfText.ID(), "no stack accepted the input")
}
