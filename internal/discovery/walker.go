// Package discovery walks a project tree for Python source files,
// .gitignore-aware, skipping hidden directories and symlinks. Grounded on
// the teacher's internal/discovery/walker.go (gitignore loading,
// hidden/symlink skip patterns) and the original implementation's
// fs.rs::crawl_workspace (parallel walk over a single Python-only file
// set).
package discovery

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	ignore "github.com/sabhiram/go-gitignore"
	"golang.org/x/sync/errgroup"
)

// skipDirs lists directory names that are never descended into.
var skipDirs = map[string]bool{
	".git":        true,
	"__pycache__": true,
	"node_modules": true,
	".venv":       true,
	"venv":        true,
	"env":         true,
	"dist":        true,
	"build":       true,
}

const pyExt = ".py"

// File is one discovered Python source file.
type File struct {
	// Path is absolute.
	Path string
	// RelPath is root-relative, slash-normalized.
	RelPath string
}

// Walker discovers Python source files under a root directory.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// Discover walks root recursively and returns every .py file found, sorted
// by RelPath for deterministic output. Hidden directories, symlinks, and
// .gitignore-matched entries are skipped. Directory entries are fanned out
// to an errgroup-bounded pool of workers that scan each directory's files
// concurrently; only the traversal that finds subdirectories is serial.
func (w *Walker) Discover(ctx context.Context, root string) ([]File, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cannot access root directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	gitIgnore := loadGitIgnore(root)

	dirs, err := collectDirs(root, gitIgnore)
	if err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		results []File
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for _, dir := range dirs {
		dir := dir
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			entries, err := os.ReadDir(dir)
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: skipping %s: %v\n", dir, err)
				return nil
			}
			var found []File
			for _, e := range entries {
				if e.IsDir() || e.Type()&fs.ModeSymlink != 0 {
					continue
				}
				if filepath.Ext(e.Name()) != pyExt {
					continue
				}
				abs := filepath.Join(dir, e.Name())
				rel, err := filepath.Rel(root, abs)
				if err != nil {
					continue
				}
				rel = filepath.ToSlash(rel)
				if gitIgnore != nil && gitIgnore.MatchesPath(rel) {
					continue
				}
				found = append(found, File{Path: abs, RelPath: rel})
			}
			mu.Lock()
			results = append(results, found...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].RelPath < results[j].RelPath })
	return results, nil
}

// collectDirs walks root serially, gathering every directory (including
// root itself) that should be scanned for Python files.
func collectDirs(root string, gitIgnore *ignore.GitIgnore) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: skipping %s: %v\n", path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return fs.SkipDir
		}
		name := d.Name()
		if path != root {
			if strings.HasPrefix(name, ".") {
				return fs.SkipDir
			}
			if skipDirs[name] {
				return fs.SkipDir
			}
			if gitIgnore != nil {
				rel, relErr := filepath.Rel(root, path)
				if relErr == nil && gitIgnore.MatchesPath(filepath.ToSlash(rel)+"/") {
					return fs.SkipDir
				}
			}
		}
		dirs = append(dirs, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk error: %w", err)
	}
	return dirs, nil
}

func loadGitIgnore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gi
}
