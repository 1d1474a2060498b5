// Package depgraph builds the reverse Python import graph and computes
// transitive impact closures over it. Graph construction is grounded on
// the original implementation's lib.rs (build_dependency_graph,
// deduplicate_dependencies, merge_hashmaps); concurrency shape is grounded
// on the teacher's internal/agent/parallel.go (errgroup.WithContext plus a
// mutex-guarded indexed result slice). Impact traversal and DOT emission
// are grounded on graph.rs (discover_impacted_nodes,
// discover_impacted_nodes_with_graphviz).
package depgraph

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/arjun-kestrel/pydep/internal/discovery"
	"github.com/arjun-kestrel/pydep/internal/globset"
	"github.com/arjun-kestrel/pydep/internal/parser"
	"github.com/arjun-kestrel/pydep/internal/pyimport"
	"github.com/arjun-kestrel/pydep/internal/resolve"
)

// Graph maps a project-relative dependency path to the deduplicated,
// sorted set of project-relative paths that import it (its consumers).
type Graph map[string][]string

// FirstLevelDirs scans each lookup root's direct children, returning a map
// from each first-level component's bare name (a ".py" module with
// extension stripped, or a package directory name as-is) to the
// project-root-relative directory that lookup root corresponds to. Earlier
// entries in lookupRoots win on a name collision, preserving the priority
// order §4.2 assigns to the lookup-path list. Unreadable roots are skipped,
// not fatal -- a lookup path that doesn't exist on disk simply contributes
// nothing.
//
// The original implementation's get_first_level_components instead
// collects raw directory entries (full filesystem names, extension
// included); that shape cannot be compared against a resolved import's
// bare first path segment (ast.rs's own resolve_imports strips no
// extension), so it is reproduced here stripped to bare names. The
// project-relative prefix is carried alongside each name because a lookup
// root need not coincide with the project root itself (e.g. a "src"
// layout): §4.4's "candidate as that component's parent directory joined
// with segments" only resolves to the right workspace file once that
// parent directory is expressed relative to the project root.
func FirstLevelDirs(lookupRoots []string, projectRoot string) map[string]string {
	names := make(map[string]string)
	for _, root := range lookupRoots {
		prefix, err := filepath.Rel(projectRoot, root)
		if err != nil {
			continue
		}
		prefix = filepath.ToSlash(prefix)
		if prefix == "." {
			prefix = ""
		}

		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				if _, err := os.Stat(filepath.Join(root, e.Name(), "__init__.py")); err == nil {
					if _, exists := names[e.Name()]; !exists {
						names[e.Name()] = prefix
					}
				}
				continue
			}
			if filepath.Ext(e.Name()) == ".py" {
				name := strings.TrimSuffix(e.Name(), ".py")
				if _, exists := names[name]; !exists {
					names[name] = prefix
				}
			}
		}
	}
	return names
}

// ParseError records a single file that could not be read or parsed. Build treats
// these as non-fatal: the file stays a graph node with no outgoing
// imports, and the error is returned for the caller to log.
type ParseError struct {
	File string
	Err  error
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

// Build parses every discovered file (skipping any that match ignoreGlob)
// and folds its resolved imports into a reverse dependency graph. Parsing
// and resolution per file run concurrently via an errgroup; the partial
// per-file results are merged into the shared graph under a mutex,
// mirroring the teacher's indexed-result-slice pattern adapted to a
// keyed map merge. Per-file read and parse failures are collected and returned
// alongside the graph rather than aborting the run, as are any resolve
// Warnings (e.g. an over-ascending relative import) the caller should log.
func Build(ctx context.Context, files []discovery.File, resolver *resolve.Resolver, p *parser.TreeSitterParser, ignoreGlob *globset.Set) (Graph, []ParseError, []resolve.Warning, error) {
	graph := make(Graph)
	var (
		mu        sync.Mutex
		parseErrs []ParseError
		warnings  []resolve.Warning
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for _, f := range files {
		f := f
		if ignoreGlob != nil && ignoreGlob.Matches(f.RelPath) {
			continue
		}
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			content, err := os.ReadFile(f.Path)
			if err != nil {
				// An unreadable file is reported the same way as a parse
				// failure: it contributes no imports and the run goes on.
				mu.Lock()
				parseErrs = append(parseErrs, ParseError{File: f.RelPath, Err: err})
				mu.Unlock()
				return nil
			}
			imports, err := pyimport.Extract(p, content)
			if err != nil {
				// A file that fails to parse is reported, not fatal -- a
				// single malformed file should not abort the whole run.
				mu.Lock()
				parseErrs = append(parseErrs, ParseError{File: f.RelPath, Err: err})
				mu.Unlock()
				return nil
			}
			deps, warns := resolver.Resolve(f.RelPath, imports)

			mu.Lock()
			for _, dep := range deps {
				graph[dep] = appendUnique(graph[dep], f.RelPath)
			}
			warnings = append(warnings, warns...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}

	for k := range graph {
		sort.Strings(graph[k])
	}
	sort.Slice(parseErrs, func(i, j int) bool { return parseErrs[i].File < parseErrs[j].File })
	sort.Slice(warnings, func(i, j int) bool { return warnings[i].File < warnings[j].File })
	return graph, parseErrs, warnings, nil
}

func appendUnique(consumers []string, candidate string) []string {
	for _, c := range consumers {
		if c == candidate {
			return consumers
		}
	}
	return append(consumers, candidate)
}

// ImpactClosure performs a worklist traversal over graph starting from
// changed, returning every node reachable by following "is a consumer of"
// edges -- i.e. the full set of files transitively impacted by a change
// to any file in changed. changed is itself included in the result
// (reflexive closure).
func ImpactClosure(graph Graph, changed []string) map[string]struct{} {
	impacted := make(map[string]struct{})
	stack := append([]string{}, changed...)
	for len(stack) > 0 {
		file := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, ok := impacted[file]; ok {
			continue
		}
		impacted[file] = struct{}{}

		if consumers, ok := graph[file]; ok {
			stack = append(stack, consumers...)
		}
	}
	return impacted
}

// ImpactClosureWithDOT performs the same traversal as ImpactClosure while
// emitting a Graphviz DOT document of every consumer edge visited to w,
// consumer -> dependency, matching the direction of "depends on".
func ImpactClosureWithDOT(graph Graph, changed []string, w io.Writer) (map[string]struct{}, error) {
	if _, err := fmt.Fprintln(w, "digraph G {"); err != nil {
		return nil, err
	}

	impacted := make(map[string]struct{})
	stack := append([]string{}, changed...)
	for len(stack) > 0 {
		file := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, ok := impacted[file]; ok {
			continue
		}
		impacted[file] = struct{}{}

		if consumers, ok := graph[file]; ok {
			stack = append(stack, consumers...)
			for _, consumer := range consumers {
				if _, err := fmt.Fprintf(w, "    %q -> %q;\n", consumer, file); err != nil {
					return nil, err
				}
			}
		}
	}

	if _, err := fmt.Fprintln(w, "}"); err != nil {
		return nil, err
	}
	return impacted, nil
}
