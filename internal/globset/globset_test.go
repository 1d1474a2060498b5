package globset

import (
	"path/filepath"
	"testing"
)

func TestSetMatchesSimpleGlob(t *testing.T) {
	s, err := New([]string{"tests/test_expensive.py"})
	if err != nil {
		t.Fatal(err)
	}
	if !s.Matches("tests/test_expensive.py") {
		t.Error("expected exact path to match")
	}
	if s.Matches("tests/test_cheap.py") {
		t.Error("did not expect unrelated path to match")
	}
}

func TestSetMatchesDoubleStar(t *testing.T) {
	s, err := New([]string{"**/generated/**"})
	if err != nil {
		t.Fatal(err)
	}
	if !s.Matches("src/pkg/generated/schema.py") {
		t.Error("expected nested generated path to match **/generated/**")
	}
	if s.Matches("src/pkg/handwritten.py") {
		t.Error("did not expect unrelated path to match")
	}
}

func TestSetNormalizesPathSeparators(t *testing.T) {
	s, err := New([]string{"src/critical.py"})
	if err != nil {
		t.Fatal(err)
	}
	// Callers normally pass slash-normalized paths; verify a path built
	// with filepath.Join (the host separator) still matches.
	joined := filepath.Join("src", "critical.py")
	if !s.Matches(joined) {
		t.Error("expected host-separator path to match")
	}
}

func TestEmptySetNeverMatches(t *testing.T) {
	var s *Set
	if s.Matches("anything.py") {
		t.Error("nil set should never match")
	}
	if !s.Empty() {
		t.Error("nil set should report Empty")
	}

	s2, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !s2.Empty() {
		t.Error("set built from no patterns should report Empty")
	}
}

func TestNewRejectsInvalidPattern(t *testing.T) {
	if _, err := New([]string{"["}); err == nil {
		t.Error("expected error for malformed glob pattern")
	}
}
