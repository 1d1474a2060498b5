// Package config loads pydep's TOML configuration, either from a dedicated
// pydep.toml at the project root or from a [tool.pydep] table inside
// pyproject.toml. Grounded on the original implementation's
// config.rs::Config::new (dedicated-file-then-pyproject-table fallback).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const (
	dedicatedFileName = "pydep.toml"
	manifestFileName  = "pyproject.toml"
)

// FilesConfig holds the [files] table.
type FilesConfig struct {
	// Ignores lists globs of files whose imports are not extracted (C5);
	// such files can still be resolved as dependencies of other files.
	Ignores []string `toml:"ignores"`
	// RunAllTestsOnChange lists globs that, if any changed file matches,
	// trigger the run-all sentinel (§4.8) before any graph is built.
	RunAllTestsOnChange []string `toml:"run-all-tests-on-change"`
}

// TestsConfig holds the [tests] table.
type TestsConfig struct {
	// AlwaysRun lists globs of test files included regardless of impact.
	AlwaysRun []string `toml:"always-run"`
	// Ignores lists globs subtracted from the impacted test set.
	Ignores []string `toml:"ignores"`
}

// Config is pydep's full configuration surface.
type Config struct {
	Files FilesConfig `toml:"files"`
	Tests TestsConfig `toml:"tests"`
}

// manifestDoc unwraps the [tool.pydep] table of a pyproject.toml-shaped
// document; only the sub-tree this tool cares about is decoded.
type manifestDoc struct {
	Tool struct {
		Pydep Config `toml:"pydep"`
	} `toml:"tool"`
}

// Load looks for pydep.toml at root, then pyproject.toml's [tool.pydep]
// table. If neither exists, it returns a zero-value Config (every glob set
// empty) and a nil error -- an absent config file is not an error.
func Load(root string) (*Config, error) {
	dedicated := filepath.Join(root, dedicatedFileName)
	if data, err := os.ReadFile(dedicated); err == nil {
		var cfg Config
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", dedicated, err)
		}
		cfg.dedupe()
		return &cfg, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read %s: %w", dedicated, err)
	}

	manifest := filepath.Join(root, manifestFileName)
	data, err := os.ReadFile(manifest)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", manifest, err)
	}

	var doc manifestDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", manifest, err)
	}
	doc.Tool.Pydep.dedupe()
	return &doc.Tool.Pydep, nil
}

// dedupe collapses each glob list to its set of distinct entries, matching
// the data model's "set of globs" contract while preserving first-seen
// order (order is not meaningful for glob matching, but stable output
// helps tests and debugging alike).
func (c *Config) dedupe() {
	c.Files.Ignores = dedupeStrings(c.Files.Ignores)
	c.Files.RunAllTestsOnChange = dedupeStrings(c.Files.RunAllTestsOnChange)
	c.Tests.AlwaysRun = dedupeStrings(c.Tests.AlwaysRun)
	c.Tests.Ignores = dedupeStrings(c.Tests.Ignores)
}

func dedupeStrings(in []string) []string {
	if len(in) == 0 {
		return in
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
