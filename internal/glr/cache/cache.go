// Package cache persists a built automaton to disk so that repeated CLI
// invocations against the same grammar can skip the most expensive phase
// of Engine.Build. Entries are keyed by a content hash of the grammar
// definition and encoded with github.com/dekarrin/rezi, the same binary
// codec the teacher lineage uses for its own persisted game state.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dekarrin/rezi"

	"github.com/dekarrin/glr/internal/glr/automaton"
	"github.com/dekarrin/glr/internal/glr/grammar"
	"github.com/dekarrin/glr/internal/util"
	"github.com/google/uuid"
)

// record is the flattened, rezi-encodable representation of a built
// automaton. DFA itself carries unexported bookkeeping fields, so the
// cache stores only what the public accessors expose and rebuilds a DFA
// from that on Load.
type record struct {
	Start       string
	States      []string
	ItemSets    map[string][]string
	Transitions map[string]map[string]string
}

// KeyFor returns the cache key for g: a hex SHA-256 digest of its textual
// production listing, stable across process runs as long as the grammar's
// rules are unchanged.
func KeyFor(g grammar.Grammar) string {
	sum := sha256.Sum256([]byte(g.String()))
	return hex.EncodeToString(sum[:])
}

func pathFor(dir, key string) string {
	return filepath.Join(dir, key+".glrcache")
}

// Store encodes dfa's state graph and writes it under dir, keyed by key.
// instanceID is not part of the cache content; Store does not record it.
func Store(dir, key string, dfa automaton.DFA[util.SVSet[grammar.LR1Item]], instanceID uuid.UUID) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	rec := record{
		Start:       dfa.Start,
		ItemSets:    map[string][]string{},
		Transitions: map[string]map[string]string{},
	}

	for _, state := range dfa.States().Elements() {
		rec.States = append(rec.States, state)

		items := dfa.GetValue(state)
		for _, itemKey := range items.Elements() {
			rec.ItemSets[state] = append(rec.ItemSets[state], items.Get(itemKey).String())
		}
	}

	for _, from := range rec.States {
		trans := map[string]string{}
		for _, sym := range allSymbols(dfa, from) {
			if to := dfa.Next(from, sym); to != "" {
				trans[sym] = to
			}
		}
		rec.Transitions[from] = trans
	}

	enc := rezi.EncBinary(&rec)
	return os.WriteFile(pathFor(dir, key), enc, 0o644)
}

// allSymbols collects every distinct non-dot-position symbol that appears
// as a grammar symbol in the item set of from, as a reasonable upper bound
// on the outgoing transitions to probe via DFA.Next.
func allSymbols(dfa automaton.DFA[util.SVSet[grammar.LR1Item]], from string) []string {
	seen := map[string]bool{}
	var out []string
	items := dfa.GetValue(from)
	for _, key := range items.Elements() {
		item := items.Get(key)
		if len(item.Right) == 0 {
			continue
		}
		sym := item.Right[0]
		if !seen[sym] {
			seen[sym] = true
			out = append(out, sym)
		}
	}
	return out
}

// Load reads and decodes the automaton cached under dir for key. It
// reports ok=false (with a nil error) if no cache entry exists yet.
func Load(dir, key string) (dfa automaton.DFA[util.SVSet[grammar.LR1Item]], ok bool, err error) {
	data, readErr := os.ReadFile(pathFor(dir, key))
	if readErr != nil {
		if os.IsNotExist(readErr) {
			return dfa, false, nil
		}
		return dfa, false, fmt.Errorf("read cache file: %w", readErr)
	}

	var rec record
	n, decErr := rezi.DecBinary(data, &rec)
	if decErr != nil {
		return dfa, false, fmt.Errorf("decode cache file: %w", decErr)
	}
	if n != len(data) {
		return dfa, false, fmt.Errorf("cache file %s: decoded %d/%d bytes, refusing partial result", pathFor(dir, key), n, len(data))
	}

	dfa.Start = rec.Start
	for _, state := range rec.States {
		items := util.NewSVSet[grammar.LR1Item]()
		for _, itemStr := range rec.ItemSets[state] {
			item, parseErr := grammar.ParseLR1Item(itemStr)
			if parseErr != nil {
				return dfa, false, fmt.Errorf("cache file %s: decode item %q: %w", pathFor(dir, key), itemStr, parseErr)
			}
			items.Set(item.String(), item)
		}
		dfa.AddState(state, false)
		dfa.SetValue(state, items)
	}
	for from, trans := range rec.Transitions {
		for sym, to := range trans {
			dfa.AddTransition(from, sym, to)
		}
	}

	return dfa, true, nil
}
