// Package grammar provides representation and analysis of context-free
// grammars: productions, FIRST/FOLLOW computation, and the LR item
// construction used to build viable-prefix automata.
package grammar

import (
	"fmt"
	"strings"

	"github.com/dekarrin/glr/internal/glr/glrerrors"
	"github.com/dekarrin/glr/internal/glr/types"
	"github.com/dekarrin/glr/internal/util"
)

// MinFirstFollowCeiling, MinClosureCeiling, and MinBuildCeiling are the
// minimum iteration bounds the design calls for; callers passing a ceiling
// below the relevant minimum get the minimum instead, so a misconfigured
// ceiling of 0 or a typo'd small value cannot silently defeat the safety
// net these bounds exist for.
const (
	MinFirstFollowCeiling = 100
	MinClosureCeiling     = 200
	MinBuildCeiling       = 1000
)

func clampCeiling(ceiling, min int) int {
	if ceiling < min {
		return min
	}
	return ceiling
}

// Production is a single alternative of a rule: a sequence of grammar
// symbols, terminal or non-terminal. A production consisting of exactly the
// Epsilon symbol derives the empty string.
type Production []string

// Epsilon is the production that derives the empty string. Epsilon[0] is
// also used as the epsilon *symbol* wherever one is needed standalone, such
// as in a FIRST set.
var Epsilon = Production{""}

// Copy returns a duplicate of p that shares no backing array with it.
func (p Production) Copy() Production {
	dup := make(Production, len(p))
	copy(dup, p)
	return dup
}

// Equal returns whether p and o contain the same symbols in the same order.
func (p Production) Equal(o any) bool {
	other, ok := o.(Production)
	if !ok {
		otherSlice, ok := o.([]string)
		if !ok {
			return false
		}
		other = Production(otherSlice)
	}

	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

func (p Production) String() string {
	if len(p) == 1 && p[0] == Epsilon[0] {
		return "ε"
	}
	return strings.Join(p, " ")
}

// Rule is a non-terminal and every alternative production it expands to.
type Rule struct {
	NonTerminal string
	Productions []Production
}

// Equal returns whether two rules have the same non-terminal and the same
// productions, in the same order.
func (r Rule) Equal(o any) bool {
	other, ok := o.(Rule)
	if !ok {
		otherPtr, ok := o.(*Rule)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if r.NonTerminal != other.NonTerminal {
		return false
	}
	if len(r.Productions) != len(other.Productions) {
		return false
	}
	for i := range r.Productions {
		if !r.Productions[i].Equal(other.Productions[i]) {
			return false
		}
	}
	return true
}

func (r Rule) Copy() Rule {
	dup := Rule{NonTerminal: r.NonTerminal, Productions: make([]Production, len(r.Productions))}
	for i := range r.Productions {
		dup.Productions[i] = r.Productions[i].Copy()
	}
	return dup
}

func (r Rule) String() string {
	alts := make([]string, len(r.Productions))
	for i := range r.Productions {
		alts[i] = r.Productions[i].String()
	}
	return fmt.Sprintf("%s -> %s", r.NonTerminal, strings.Join(alts, " | "))
}

// Grammar is a context-free grammar: a set of terminals (token classes
// produced by a lexer), a set of rules over those terminals and whatever
// non-terminals the rules introduce, and a start symbol, which is the
// non-terminal named by the first rule added.
//
// The zero value is an empty Grammar ready to have terms and rules added to
// it.
type Grammar struct {
	rules       []Rule
	ruleIndexes map[string]int
	terminals   map[string]types.TokenClass
	start       string
}

// AddTerm registers a terminal under id, associating it with the token class
// cl. If id is already registered, cl replaces the previous class.
func (g *Grammar) AddTerm(id string, cl types.TokenClass) {
	if g.terminals == nil {
		g.terminals = map[string]types.TokenClass{}
	}
	g.terminals[id] = cl
}

// AddRule adds production p as an alternative of the rule for nt, creating
// the rule if this is the first production seen for nt. The first
// non-terminal ever added via AddRule becomes the grammar's start symbol.
func (g *Grammar) AddRule(nt string, p Production) {
	if g.ruleIndexes == nil {
		g.ruleIndexes = map[string]int{}
	}

	idx, ok := g.ruleIndexes[nt]
	if !ok {
		if g.start == "" {
			g.start = nt
		}
		g.rules = append(g.rules, Rule{NonTerminal: nt})
		idx = len(g.rules) - 1
		g.ruleIndexes[nt] = idx
	}

	g.rules[idx].Productions = append(g.rules[idx].Productions, p.Copy())
}

// StartSymbol returns the non-terminal of the first rule added to g.
func (g Grammar) StartSymbol() string {
	return g.start
}

// Term returns the token class registered under id, or nil if none is.
func (g Grammar) Term(id string) types.TokenClass {
	return g.terminals[id]
}

// IsTerminal returns whether sym is a registered terminal.
func (g Grammar) IsTerminal(sym string) bool {
	_, ok := g.terminals[sym]
	return ok
}

// IsNonTerminal returns whether sym names a rule in g.
func (g Grammar) IsNonTerminal(sym string) bool {
	_, ok := g.ruleIndexes[sym]
	return ok
}

// Terminals returns the IDs of every registered terminal, sorted.
func (g Grammar) Terminals() []string {
	return util.OrderedKeys(g.terminals)
}

// NonTerminals returns the non-terminal of every rule, in the order the
// rules were first added (so index 0 is always the start symbol, if any
// rules exist).
func (g Grammar) NonTerminals() []string {
	names := make([]string, len(g.rules))
	for i := range g.rules {
		names[i] = g.rules[i].NonTerminal
	}
	return names
}

// Rule returns the rule for non-terminal nt, or the zero Rule if nt has no
// rule.
func (g Grammar) Rule(nt string) Rule {
	idx, ok := g.ruleIndexes[nt]
	if !ok {
		return Rule{}
	}
	return g.rules[idx]
}

// Copy returns a duplicate of g that shares no mutable state with it.
func (g Grammar) Copy() Grammar {
	dup := Grammar{
		rules:       make([]Rule, len(g.rules)),
		ruleIndexes: make(map[string]int, len(g.ruleIndexes)),
		terminals:   make(map[string]types.TokenClass, len(g.terminals)),
		start:       g.start,
	}
	for i := range g.rules {
		dup.rules[i] = g.rules[i].Copy()
	}
	for k, v := range g.ruleIndexes {
		dup.ruleIndexes[k] = v
	}
	for k, v := range g.terminals {
		dup.terminals[k] = v
	}
	return dup
}

// Validate checks that g is a minimally usable grammar: it must have at
// least one rule and at least one terminal, every symbol referenced from a
// production must be either a declared terminal or a declared non-terminal,
// and the start symbol must have a rule.
func (g Grammar) Validate() error {
	if len(g.rules) == 0 {
		return fmt.Errorf("grammar has no rules")
	}
	if len(g.terminals) == 0 {
		return fmt.Errorf("grammar has no terminals")
	}

	for _, r := range g.rules {
		for _, p := range r.Productions {
			for _, sym := range p {
				if sym == Epsilon[0] {
					continue
				}
				if g.IsNonTerminal(sym) || g.IsTerminal(sym) {
					continue
				}
				return fmt.Errorf("rule %q references undefined symbol %q", r.String(), sym)
			}
		}
	}

	if !g.IsNonTerminal(g.start) {
		return fmt.Errorf("no rule defined for start symbol %q", g.start)
	}

	return nil
}

// Augmented returns a copy of g with a new start symbol S-P added, whose
// sole production is the old start symbol. This guarantees the grammar has
// a start symbol that never appears on the right-hand side of any
// production, which the LR automaton constructions rely on.
func (g Grammar) Augmented() Grammar {
	ag := g.Copy()

	newStart := ag.start + "-P"
	ag.rules = append([]Rule{{NonTerminal: newStart, Productions: []Production{{ag.start}}}}, ag.rules...)
	ag.ruleIndexes = make(map[string]int, len(ag.rules))
	for i := range ag.rules {
		ag.ruleIndexes[ag.rules[i].NonTerminal] = i
	}
	ag.start = newStart

	return ag
}

// LR0Items returns every LR(0) item derivable from g: for every production,
// one item per dot position from before the first symbol to after the last,
// save for an epsilon production, which contributes only its single
// fully-reduced item.
func (g Grammar) LR0Items() []LR0Item {
	var items []LR0Item

	for _, r := range g.rules {
		for _, p := range r.Productions {
			if len(p) == 1 && p[0] == Epsilon[0] {
				items = append(items, LR0Item{NonTerminal: r.NonTerminal})
				continue
			}

			for dot := 0; dot <= len(p); dot++ {
				left := make([]string, dot)
				copy(left, p[:dot])
				right := make([]string, len(p)-dot)
				copy(right, p[dot:])

				items = append(items, LR0Item{
					NonTerminal: r.NonTerminal,
					Left:        left,
					Right:       right,
				})
			}
		}
	}

	return items
}

// firstSets computes the FIRST set of every non-terminal in g via the
// standard fixed-point iteration. ceiling bounds the number of full passes
// over the rule set; if the sets have not converged within ceiling rounds,
// a GrammarError is returned rather than looping forever on a pathological
// grammar (e.g. one with a cycle of nullable productions).
func (g Grammar) firstSets(ceiling int) (map[string]util.StringSet, error) {
	ceiling = clampCeiling(ceiling, MinFirstFollowCeiling)

	sets := map[string]util.StringSet{}
	for _, nt := range g.NonTerminals() {
		sets[nt] = util.NewStringSet()
	}

	rounds := 0
	changed := true
	for changed {
		if rounds >= ceiling {
			return nil, glrerrors.NewGrammarError("FIRST did not converge within %d iterations", ceiling)
		}
		rounds++
		changed = false

		for _, r := range g.rules {
			for _, p := range r.Productions {
				before := sets[r.NonTerminal].Len()

				nullable := true
				for _, sym := range p {
					if sym == Epsilon[0] {
						break
					}

					var symFirst util.StringSet
					if g.IsTerminal(sym) {
						symFirst = util.StringSetOf([]string{sym})
					} else {
						symFirst = sets[sym]
					}

					for _, t := range symFirst.Elements() {
						if t != Epsilon[0] {
							sets[r.NonTerminal].Add(t)
						}
					}

					if !symFirst.Has(Epsilon[0]) {
						nullable = false
						break
					}
				}

				if nullable {
					sets[r.NonTerminal].Add(Epsilon[0])
				}

				if sets[r.NonTerminal].Len() != before {
					changed = true
				}
			}
		}
	}

	return sets, nil
}

// firstOfSequence computes FIRST(seq), i.e. the set of terminals (and
// possibly epsilon) that can begin some string derived from the
// concatenation of the symbols in seq, given the already-computed
// non-terminal FIRST sets in firsts.
func (g Grammar) firstOfSequence(seq []string, firsts map[string]util.StringSet) util.StringSet {
	result := util.NewStringSet()

	nullable := true
	for _, sym := range seq {
		if sym == Epsilon[0] {
			continue
		}

		// anything that is not a non-terminal, including the "$" lookahead
		// that LR1_CLOSURE appends, begins only with itself
		var symFirst util.StringSet
		if !g.IsNonTerminal(sym) {
			symFirst = util.StringSetOf([]string{sym})
		} else {
			symFirst = firsts[sym]
		}

		for _, t := range symFirst.Elements() {
			if t != Epsilon[0] {
				result.Add(t)
			}
		}

		if !symFirst.Has(Epsilon[0]) {
			nullable = false
			break
		}
	}

	if nullable {
		result.Add(Epsilon[0])
	}

	return result
}

// FIRST returns the FIRST set of symbol X: every terminal (and possibly
// epsilon) that can begin some string derived from X. If X is itself a
// terminal or the epsilon symbol, FIRST(X) is just {X}. ceiling bounds the
// fixed-point computation (see firstSets); it is ignored (no iteration is
// needed) when X is a terminal or epsilon.
func (g Grammar) FIRST(X string, ceiling int) (util.StringSet, error) {
	if X == Epsilon[0] || g.IsTerminal(X) {
		return util.StringSetOf([]string{X}), nil
	}

	sets, err := g.firstSets(ceiling)
	if err != nil {
		return nil, err
	}
	if s, ok := sets[X]; ok {
		return s, nil
	}
	return util.NewStringSet(), nil
}

// followSets computes the FOLLOW set of every non-terminal and terminal in g
// via the standard fixed-point iteration, seeding the start symbol's FOLLOW set
// with the end-of-text marker. ceiling bounds both this fixed point and the
// FIRST computation it depends on; see firstSets.
func (g Grammar) followSets(ceiling int) (map[string]util.StringSet, error) {
	ceiling = clampCeiling(ceiling, MinFirstFollowCeiling)

	firsts, err := g.firstSets(ceiling)
	if err != nil {
		return nil, err
	}

	follow := map[string]util.StringSet{}
	for _, nt := range g.NonTerminals() {
		follow[nt] = util.NewStringSet()
	}
	for _, t := range g.Terminals() {
		follow[t] = util.NewStringSet()
	}
	if g.IsNonTerminal(g.start) {
		follow[g.start].Add(types.TokenEndOfText.ID())
	}

	rounds := 0
	changed := true
	for changed {
		if rounds >= ceiling {
			return nil, glrerrors.NewGrammarError("FOLLOW did not converge within %d iterations", ceiling)
		}
		rounds++
		changed = false

		for _, r := range g.rules {
			for _, p := range r.Productions {
				for i, sym := range p {
					if _, tracked := follow[sym]; !tracked {
						continue
					}

					before := follow[sym].Len()

					beta := p[i+1:]
					betaFirst := g.firstOfSequence(beta, firsts)

					for _, t := range betaFirst.Elements() {
						if t != Epsilon[0] {
							follow[sym].Add(t)
						}
					}

					if len(beta) == 0 || betaFirst.Has(Epsilon[0]) {
						follow[sym].AddAll(follow[r.NonTerminal])
					}

					if follow[sym].Len() != before {
						changed = true
					}
				}
			}
		}
	}

	return follow, nil
}

// FOLLOW returns the FOLLOW set of symbol X: every terminal that can
// immediately follow X in some derivation starting from the start symbol,
// including the end-of-text marker if X can be the last symbol before the
// end of input. ceiling bounds the fixed-point computation; see followSets.
func (g Grammar) FOLLOW(X string, ceiling int) (util.StringSet, error) {
	sets, err := g.followSets(ceiling)
	if err != nil {
		return nil, err
	}
	if s, ok := sets[X]; ok {
		return s, nil
	}
	return util.NewStringSet(), nil
}

// LR1_CLOSURE computes the closure of item set I: for every item
// [A -> α.Bβ, a] in the set where B is a non-terminal, adds [B -> .γ, b] for
// every production B -> γ and every terminal b in FIRST(βa), repeating
// until no new items are added. closureCeiling bounds this fixed point;
// firstFollowCeiling bounds the FIRST computation it depends on. If
// closureCeiling is reached before the set stabilizes, the partial closure
// accumulated so far is returned along with hitCeiling=true rather than an
// error, matching the design's "terminate the phase, don't fail the build"
// treatment of this particular cap. A non-nil error can only come from the
// FIRST computation itself exceeding its own ceiling.
func (g Grammar) LR1_CLOSURE(I util.SVSet[LR1Item], firstFollowCeiling, closureCeiling int) (closure util.SVSet[LR1Item], hitCeiling bool, err error) {
	closureCeiling = clampCeiling(closureCeiling, MinClosureCeiling)

	closure = util.NewSVSet(I)
	firsts, err := g.firstSets(firstFollowCeiling)
	if err != nil {
		return nil, false, err
	}

	rounds := 0
	changed := true
	for changed {
		if rounds >= closureCeiling {
			return closure, true, nil
		}
		rounds++
		changed = false

		for _, key := range closure.Elements() {
			item := closure.Get(key)

			if len(item.Right) == 0 {
				continue
			}

			B := item.Right[0]
			if !g.IsNonTerminal(B) {
				continue
			}

			seq := make([]string, 0, len(item.Right))
			seq = append(seq, item.Right[1:]...)
			seq = append(seq, item.Lookahead)
			lookaheads := g.firstOfSequence(seq, firsts)

			rule := g.Rule(B)
			for _, gamma := range rule.Productions {
				for _, b := range lookaheads.Elements() {
					if b == Epsilon[0] {
						continue
					}

					newItem := LR1Item{
						LR0Item:   LR0Item{NonTerminal: B, Right: gamma.Copy()},
						Lookahead: b,
					}

					newKey := newItem.String()
					if !closure.Has(newKey) {
						closure.Set(newKey, newItem)
						changed = true
					}
				}
			}
		}
	}

	return closure, false, nil
}

func (g Grammar) String() string {
	var sb strings.Builder
	for i, r := range g.rules {
		if i > 0 {
			sb.WriteRune('\n')
		}
		sb.WriteString(r.String())
	}
	return sb.String()
}

// parseRuleBody parses the right-hand side of a single rule, already split
// from its non-terminal, into its alternative productions. Alternatives are
// separated by '|'; symbols within an alternative are separated by
// whitespace; an alternative consisting solely of "ε" (or nothing at all)
// is the epsilon production.
func parseRuleBody(body string) []Production {
	altStrings := strings.Split(body, "|")
	alts := make([]Production, 0, len(altStrings))

	for _, altStr := range altStrings {
		fields := strings.Fields(altStr)

		var prod Production
		for _, f := range fields {
			if f == "ε" {
				continue
			}
			prod = append(prod, f)
		}

		if len(prod) == 0 {
			prod = Epsilon.Copy()
		}

		alts = append(alts, prod)
	}

	return alts
}

// parseRuleLine parses a single rule of the form "NONTERM -> a b | c ;",
// the trailing semicolon optional, into its non-terminal and productions.
func parseRuleLine(s string) (string, []Production, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ";")

	sides := strings.SplitN(s, "->", 2)
	if len(sides) != 2 {
		return "", nil, fmt.Errorf("rule missing '->': %q", s)
	}

	nt := strings.TrimSpace(sides[0])
	if nt == "" {
		return "", nil, fmt.Errorf("rule has no non-terminal name: %q", s)
	}

	return nt, parseRuleBody(sides[1]), nil
}

// Parse parses the textual grammar DSL used throughout this package's
// tests and by the grammarfile and predefined packages: semicolon-terminated rules of the
// form "NONTERM -> a b | c d ;", with terminals registered implicitly the
// first time a symbol is seen that is not the left-hand side of some rule.
// Terminal token classes are created via types.MakeDefaultClass.
func Parse(s string) (Grammar, error) {
	var g Grammar

	ruleStrings := strings.Split(s, ";")

	type parsed struct {
		nt   string
		alts []Production
	}
	var rules []parsed
	nts := map[string]bool{}

	for _, rs := range ruleStrings {
		if strings.TrimSpace(rs) == "" {
			continue
		}

		nt, alts, err := parseRuleLine(rs + ";")
		if err != nil {
			return g, err
		}

		nts[nt] = true
		rules = append(rules, parsed{nt: nt, alts: alts})
	}

	if len(rules) == 0 {
		return g, fmt.Errorf("grammar text contains no rules")
	}

	seenTerms := map[string]bool{}
	for _, r := range rules {
		for _, p := range r.alts {
			for _, sym := range p {
				if sym == Epsilon[0] || nts[sym] || seenTerms[sym] {
					continue
				}
				seenTerms[sym] = true
				g.AddTerm(sym, types.MakeDefaultClass(sym))
			}
		}
	}

	for _, r := range rules {
		for _, p := range r.alts {
			g.AddRule(r.nt, p)
		}
	}

	return g, g.Validate()
}

// MustParse is equivalent to Parse but panics if s cannot be parsed.
func MustParse(s string) Grammar {
	g, err := Parse(s)
	if err != nil {
		panic(err.Error())
	}
	return g
}
