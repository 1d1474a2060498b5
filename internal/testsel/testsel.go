// Package testsel partitions the impact closure into the impacted,
// always-run, and ignored test sets pydep ultimately reports. Grounded on
// the original implementation's lib.rs::SnobResult::new.
package testsel

import (
	"sort"
	"strings"

	"github.com/arjun-kestrel/pydep/internal/globset"
)

// Result holds the three test sets pydep computes: Impacted is the tests
// selected because of the change, AlwaysRun is included unconditionally,
// and Ignored records impacted tests that were deliberately excluded (for
// caller visibility/logging, not re-added). Impacted and Ignored are
// disjoint; a test can appear in both AlwaysRun and Impacted.
type Result struct {
	Impacted  []string
	AlwaysRun []string
	Ignored   []string
}

// Select partitions workspaceFiles and the impact closure into the three
// result sets. ignoreGlob and alwaysRunGlob may be nil (equivalent to an
// empty glob set, matching nothing).
func Select(impacted map[string]struct{}, workspaceFiles []string, ignoreGlob, alwaysRunGlob *globset.Set) Result {
	var alwaysRun []string
	for _, f := range workspaceFiles {
		if IsTestFile(f) && alwaysRunGlob.Matches(f) {
			alwaysRun = append(alwaysRun, f)
		}
	}

	var impactedTests, ignored []string
	for f := range impacted {
		if !IsTestFile(f) {
			continue
		}
		if ignoreGlob.Matches(f) {
			ignored = append(ignored, f)
			continue
		}
		impactedTests = append(impactedTests, f)
	}

	sort.Strings(alwaysRun)
	sort.Strings(impactedTests)
	sort.Strings(ignored)

	return Result{Impacted: impactedTests, AlwaysRun: alwaysRun, Ignored: ignored}
}

// IsTestFile reports whether path names a Python test file by pytest's
// default discovery convention: basename starting with "test_", or a path
// ending in "_test.py".
func IsTestFile(path string) bool {
	base := path
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		base = path[idx+1:]
	}
	return strings.HasPrefix(base, "test_") || strings.HasSuffix(path, "_test.py")
}
