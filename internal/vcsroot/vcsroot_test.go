package vcsroot

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindAscendsToGitRoot(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "src", "pkg")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := Find(nested)
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}

	wantAbs, _ := filepath.Abs(root)
	if got != wantAbs {
		t.Errorf("Find(%q) = %q, want %q", nested, got, wantAbs)
	}
}

func TestFindPrefersNearestGitRoot(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(root, "vendored-repo")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(sub, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(sub, "deep", "dir")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := Find(nested)
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	wantAbs, _ := filepath.Abs(sub)
	if got != wantAbs {
		t.Errorf("Find(%q) = %q, want nearest root %q, not the outer one", nested, got, wantAbs)
	}
}
