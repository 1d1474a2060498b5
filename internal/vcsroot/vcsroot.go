// Package vcsroot detects the project root by ascending to the nearest
// directory containing a .git entry, grounded on the original
// implementation's utils::get_repo_root.
package vcsroot

import (
	"fmt"
	"os"
	"path/filepath"
)

// Find ascends from dir until it finds a directory containing a .git entry,
// returning its absolute path. It fails once it reaches the filesystem
// root without finding one.
func Find(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %s: %w", dir, err)
	}

	path := abs
	for {
		if _, err := os.Stat(filepath.Join(path, ".git")); err == nil {
			return path, nil
		}

		parent := filepath.Dir(path)
		if parent == path {
			return "", fmt.Errorf("no .git directory found above %s", abs)
		}
		path = parent
	}
}
