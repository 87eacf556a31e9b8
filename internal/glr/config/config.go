// Package config loads the engine's tunable ceilings and panic-mode
// settings from a TOML file, for use with the CLI's --config flag.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
	parse "github.com/dekarrin/glr/internal/glr/runtime"
)

// File is the on-disk shape of a config file. Fields left unset (zero
// value) fall back to parse.DefaultConfig's values when Load merges
// them in.
type File struct {
	FirstFollowCeiling int      `toml:"first_follow_ceiling"`
	ClosureCeiling     int      `toml:"closure_ceiling"`
	BuildCeiling       int      `toml:"build_ceiling"`
	SyncTokens         []string `toml:"sync_tokens"`
	Verbose            bool     `toml:"verbose"`
}

// Load reads the TOML file at path and returns the parse.Config it
// describes, with any field the file leaves unset taken from
// parse.DefaultConfig.
func Load(path string) (parse.Config, error) {
	def := parse.DefaultConfig()

	var f File
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return def, fmt.Errorf("load config %s: %w", path, err)
	}

	cfg := def
	if f.FirstFollowCeiling > 0 {
		cfg.FirstFollowCeiling = f.FirstFollowCeiling
	}
	if f.ClosureCeiling > 0 {
		cfg.ClosureCeiling = f.ClosureCeiling
	}
	if f.BuildCeiling > 0 {
		cfg.BuildCeiling = f.BuildCeiling
	}
	if len(f.SyncTokens) > 0 {
		sync := make(map[string]bool, len(f.SyncTokens))
		for _, s := range f.SyncTokens {
			sync[s] = true
		}
		cfg.SyncTokens = sync
	}
	cfg.Verbose = f.Verbose

	return cfg, nil
}
