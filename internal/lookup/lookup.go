// Package lookup builds Python's local import search-path list: the
// current directory followed by PYTHONPATH entries, filtered to those
// that live under the project root and deduplicated while preserving
// discovery order. Grounded on the original implementation's
// utils.rs::get_python_local_lookup_paths / LookupPaths / get_pythonpath.
package lookup

import (
	"os"
	"path/filepath"
	"strings"
)

const pythonPathEnv = "PYTHONPATH"

// Paths is an ordered, deduplicated set of absolute lookup roots.
type Paths struct {
	ordered []string
	seen    map[string]struct{}
}

func newPaths() *Paths {
	return &Paths{seen: make(map[string]struct{})}
}

func (p *Paths) insert(path string) {
	if _, ok := p.seen[path]; ok {
		return
	}
	p.seen[path] = struct{}{}
	p.ordered = append(p.ordered, path)
}

// Ordered returns the lookup roots in discovery order: cwd first, then
// each PYTHONPATH entry in listed order.
func (p *Paths) Ordered() []string {
	return p.ordered
}

// Resolve builds the local lookup-path list for currentDir, filtered to
// entries under projectRoot. Both arguments are expected absolute (or
// resolvable to absolute) paths; PYTHONPATH is read from the process
// environment.
func Resolve(currentDir, projectRoot string) (*Paths, error) {
	currentDir, err := filepath.Abs(currentDir)
	if err != nil {
		return nil, err
	}
	projectRoot, err = filepath.Abs(projectRoot)
	if err != nil {
		return nil, err
	}

	candidates := append([]string{currentDir}, pythonPathEntries()...)

	paths := newPaths()
	for _, c := range candidates {
		abs, err := filepath.Abs(c)
		if err != nil {
			continue
		}
		if !underRoot(abs, projectRoot) {
			continue
		}
		paths.insert(abs)
	}
	return paths, nil
}

// pythonPathEntries splits the PYTHONPATH environment variable on the
// host's path-list separator, returning nil when unset or empty.
func pythonPathEntries() []string {
	raw := os.Getenv(pythonPathEnv)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, string(os.PathListSeparator))
	entries := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		entries = append(entries, p)
	}
	return entries
}

// underRoot reports whether path is root itself or a descendant of root.
func underRoot(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return !strings.HasPrefix(rel, "..")
}
