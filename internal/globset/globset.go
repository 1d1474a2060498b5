// Package globset builds glob-sets from configuration strings and matches
// them against project-root-relative paths. Every config-driven filter in
// this tool (files.ignores, files.run-all-tests-on-change, tests.ignores,
// tests.always-run) goes through here, grounded on the original
// implementation's use of the globset crate (build_glob_set / GlobSet::matches)
// but backed by github.com/bmatcuk/doublestar/v4, the **-aware glob matcher
// already present in the retrieved example pack.
package globset

import (
	"fmt"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Set is an ordered collection of validated glob patterns.
type Set struct {
	patterns []string
}

// New validates every pattern in patterns and returns a ready-to-match Set.
func New(patterns []string) (*Set, error) {
	s := &Set{patterns: make([]string, 0, len(patterns))}
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid glob pattern %q", p)
		}
		s.patterns = append(s.patterns, p)
	}
	return s, nil
}

// Matches reports whether root-relative path relPath matches any pattern in the
// set. Matching is always performed against the slash-normalized,
// project-root-relative form of the path, regardless of host path
// separator.
func (s *Set) Matches(relPath string) bool {
	if s == nil {
		return false
	}
	normalized := filepath.ToSlash(relPath)
	for _, pattern := range s.patterns {
		if ok, _ := doublestar.Match(pattern, normalized); ok {
			return true
		}
	}
	return false
}

// Empty reports whether the set has no patterns, i.e. can never match.
func (s *Set) Empty() bool {
	return s == nil || len(s.patterns) == 0
}
