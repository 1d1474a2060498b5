// Package resolve turns an import record into the project-relative file it
// points at, or drops it. Grounded on the original implementation's
// ast.rs::FileImports::resolve_imports and determine_import_type
// (package-over-module tie-break, one-level-up object retry).
package resolve

import (
	"fmt"
	"strings"

	"github.com/arjun-kestrel/pydep/internal/pyimport"
)

const initFile = "__init__.py"

// Warning records a non-fatal resolution issue worth surfacing to the
// caller at warn level -- currently only a relative import that ascends
// past the importing file's own ancestor chain (spec §7/§9: dropped, not
// panicked, but not silent either, unlike an ordinary unresolved import).
type Warning struct {
	File    string
	Message string
}

func (w Warning) Error() string {
	return fmt.Sprintf("%s: %s", w.File, w.Message)
}

// Resolver resolves imports against a fixed snapshot of the workspace: the
// full set of project-relative source paths, and a map of first-level
// component names (direct children of a lookup root that are themselves
// either a .py file or a package directory) to the project-root-relative
// directory the matching lookup root corresponds to.
type Resolver struct {
	ProjectFiles   map[string]struct{}
	FirstLevelDirs map[string]string
}

// New builds a Resolver over the given workspace snapshot.
func New(projectFiles map[string]struct{}, firstLevelDirs map[string]string) *Resolver {
	return &Resolver{ProjectFiles: projectFiles, FirstLevelDirs: firstLevelDirs}
}

// Resolve resolves every import found in file (a project-root-relative,
// slash-separated path) against the workspace snapshot, returning the
// project-relative paths of files it depends on, plus any non-fatal
// Warnings worth logging. Imports that cannot be resolved locally
// (standard library, third-party, or a level that ascends above the
// project root) are dropped either way; an over-ascending relative import
// additionally produces a Warning (spec §7), everything else is dropped
// silently.
func (r *Resolver) Resolve(file string, imports []pyimport.Import) ([]string, []Warning) {
	var out []string
	var warnings []Warning
	for _, imp := range imports {
		resolved, ok, warn := r.resolveOne(file, imp)
		if ok {
			out = append(out, resolved)
		}
		if warn != "" {
			warnings = append(warnings, Warning{File: file, Message: warn})
		}
	}
	return out, warnings
}

func (r *Resolver) resolveOne(file string, imp pyimport.Import) (resolved string, ok bool, warning string) {
	if len(imp.Segments) == 0 {
		return "", false, ""
	}
	importPath := strings.Join(imp.Segments, "/")

	var target string
	if imp.IsRelative() {
		// Relative imports ascend from the importing file itself; §4.4's
		// First-Level Component match only governs absolute candidate
		// construction, so it does not gate this branch.
		anchor, ascended := ancestor(file, imp.Level)
		if !ascended {
			return "", false, fmt.Sprintf("relative import at level %d ascends past the project root", imp.Level)
		}
		target = joinPath(anchor, importPath)
	} else {
		first := strings.SplitN(importPath, "/", 2)[0]
		prefix, found := r.FirstLevelDirs[first]
		if !found {
			return "", false, ""
		}
		target = joinPath(prefix, importPath)
	}

	switch resolvedPath, kind := r.classify(target); kind {
	case kindPackage, kindModule:
		return resolvedPath, true, ""
	default:
		// Object import (e.g. "from pkg.module import func"): retry once
		// against the parent, since the name may be an attribute rather
		// than a module of its own.
		parent, hasParent := parentOf(target)
		if !hasParent {
			return "", false, ""
		}
		if resolvedPath, kind := r.classify(parent); kind != kindNone {
			return resolvedPath, true, ""
		}
		return "", false, ""
	}
}

type importKind int

const (
	kindNone importKind = iota
	kindPackage
	kindModule
)

// classify checks whether target resolves to a package (has an __init__.py
// in the project) or a plain module file, preferring package over module
// when both coincidentally exist.
func (r *Resolver) classify(target string) (string, importKind) {
	pkgFile := joinPath(target, initFile)
	if _, ok := r.ProjectFiles[pkgFile]; ok {
		return pkgFile, kindPackage
	}
	moduleFile := target + ".py"
	if _, ok := r.ProjectFiles[moduleFile]; ok {
		return moduleFile, kindModule
	}
	return "", kindNone
}

// ancestor returns the path level directories above file's own directory,
// i.e. Python's "from . import x" (level 1) means the directory containing
// file; "from .. import x" (level 2) means its parent, and so on. It
// reports false if level ascends past the root of file's own path (no
// panic, matching the "warn and drop" resolution of an over-ascending
// relative import).
func ancestor(file string, level int) (string, bool) {
	components := strings.Split(file, "/")
	// components[:len-1] is the directory containing file (level 1).
	idx := len(components) - level
	if idx < 0 {
		return "", false
	}
	return strings.Join(components[:idx], "/"), true
}

func parentOf(target string) (string, bool) {
	idx := strings.LastIndex(target, "/")
	if idx < 0 {
		return "", target != ""
	}
	return target[:idx], true
}

func joinPath(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}
