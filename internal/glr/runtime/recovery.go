package parse

import (
	"github.com/dekarrin/glr/internal/glr/glrerrors"
	"github.com/dekarrin/glr/internal/glr/types"
)

// recover implements panic-mode error recovery: scan forward from cursor
// for the next synchronizing token, then among the stacks in active find
// the one that can actually transition on that token after discarding
// frames down to some viable depth, preferring the candidate with the
// largest remaining stack (the one that has matched the most input and so
// discards the least context). If no synchronizing token remains in the
// input, or no stack can be salvaged to resume on it, recovery degrades
// gracefully: it returns active unchanged and advances the cursor by one
// token, so the caller makes progress rather than looping forever.
func (p *Parser) recover(tokens []types.Token, cursor int, active *GraphStack) (*GraphStack, int) {
	syncAt := -1
	for j := cursor; j < len(tokens); j++ {
		if p.isSyncToken(tokens[j].Class().ID()) {
			syncAt = j
			break
		}
	}

	if syncAt == -1 {
		p.notifyTrace("recovery: no synchronizing token found after position %d (%s), discarding token", cursor, glrerrors.ExpectedTokensMessage(p.expectedAt(active)))
		return active, cursor + 1
	}

	syncSym := tokens[syncAt].Class().ID()

	var best ParseStack
	bestDepth := -1
	found := false

	for _, s := range active.Stacks() {
		candidate := s.Copy()

		for candidate.Len() > 1 {
			if p.dfa.Next(candidate.Top().State, syncSym) != "" {
				if candidate.Len() > bestDepth {
					best = candidate
					bestDepth = candidate.Len()
					found = true
				}
				break
			}
			candidate.Pop()
		}
	}

	if !found {
		p.notifyTrace("recovery: no stack could resynchronize on %q, discarding token", syncSym)
		return active, cursor + 1
	}

	p.notifyTrace("recovery: resynchronized on %q at token index %d, discarding %d tokens", syncSym, syncAt, syncAt-cursor)

	fresh := NewGraphStack()
	fresh.Add(best)
	return fresh, syncAt
}

// isSyncToken returns whether sym is in the parser's panic-mode
// synchronizing set.
func (p *Parser) isSyncToken(sym string) bool {
	if p.config.SyncTokens == nil {
		return false
	}
	return p.config.SyncTokens[sym]
}
