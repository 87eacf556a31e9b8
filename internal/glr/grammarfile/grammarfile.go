// Package grammarfile loads a grammar.Grammar from a human-editable YAML
// document, as a convenience collaborator living outside the engine core.
// The core's only entry point for grammar definitions remains
// grammar.Parse/AddRule; this package just gets rule text there from a
// file.
package grammarfile

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dekarrin/glr/internal/glr/grammar"
)

// Document is the YAML shape of a grammar file:
//
//	start: S
//	rules:
//	  - "S -> a S | a"
//	  - "T -> b"
type Document struct {
	Start string   `yaml:"start"`
	Rules []string `yaml:"rules"`
}

// Load reads and parses the grammar file at path into a grammar.Grammar.
// If start is set it must name the first rule's non-terminal, matching
// grammar.Parse's convention that the first rule encountered fixes the
// start symbol.
func Load(path string) (grammar.Grammar, error) {
	var g grammar.Grammar

	data, err := os.ReadFile(path)
	if err != nil {
		return g, fmt.Errorf("read grammar file: %w", err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return g, fmt.Errorf("parse grammar file %s: %w", path, err)
	}

	if len(doc.Rules) == 0 {
		return g, fmt.Errorf("grammar file %s defines no rules", path)
	}

	if doc.Start != "" {
		firstLHS := strings.TrimSpace(strings.SplitN(doc.Rules[0], "->", 2)[0])
		if firstLHS != doc.Start {
			return g, fmt.Errorf("grammar file %s: declared start %q does not match first rule's non-terminal %q", path, doc.Start, firstLHS)
		}
	}

	g, err = grammar.Parse(strings.Join(doc.Rules, " ; ") + " ;")
	if err != nil {
		return g, fmt.Errorf("grammar file %s: %w", path, err)
	}

	return g, nil
}
