// Package cmd wires pydep's pipeline (discovery, lookup-path resolution,
// import extraction, resolution, graph construction, impact closure, and
// test selection) behind a single flat Cobra command. Grounded on the
// teacher's cmd/root.go (Execute/ExitError dispatch pattern) and the
// original implementation's snob/src/main.rs, which has no subcommands of
// its own -- this tool's surface mirrors that shape rather than the
// teacher's root+scan split.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/arjun-kestrel/pydep/internal/cliexit"
	"github.com/arjun-kestrel/pydep/internal/config"
	"github.com/arjun-kestrel/pydep/internal/depgraph"
	"github.com/arjun-kestrel/pydep/internal/discovery"
	"github.com/arjun-kestrel/pydep/internal/globset"
	"github.com/arjun-kestrel/pydep/internal/lookup"
	"github.com/arjun-kestrel/pydep/internal/parser"
	"github.com/arjun-kestrel/pydep/internal/resolve"
	"github.com/arjun-kestrel/pydep/internal/stdinfeed"
	"github.com/arjun-kestrel/pydep/internal/testsel"
	"github.com/arjun-kestrel/pydep/internal/vcsroot"
	"github.com/arjun-kestrel/pydep/pkg/version"
)

// runAllSentinel is written alone to stdout when a changed file matches
// files.run-all-tests-on-change: the caller should run its full test suite
// rather than trust a partial selection.
const runAllSentinel = "."

var (
	targetDirectory string
	verbosityLevel  int
	quiet           bool
	dotGraphPath    string
)

var rootCmd = &cobra.Command{
	Use:     "pydep",
	Short:   "Select the tests impacted by a set of changed Python files",
	Long:    "pydep statically traces Python import graphs to determine which tests\nare impacted by a given set of changed files, so only those need to run.",
	Version: version.Version,
	Args:    cobra.ArbitraryArgs,
	RunE:    run,
}

func init() {
	rootCmd.Flags().StringVarP(&targetDirectory, "target-directory", "t", ".", "the target directory to analyze")
	rootCmd.Flags().IntVarP(&verbosityLevel, "verbosity-level", "v", 2, "verbosity level: 0=error 1=warn 2=info 3=debug 4+=trace")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress all logging output")
	rootCmd.Flags().StringVarP(&dotGraphPath, "dot-graph", "g", "", "write the impact traversal as a Graphviz DOT file to this path")
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

// Execute runs the root command and exits with code 1 on error.
// cliexit.Error is handled specially: its Code is used as the exit code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr *cliexit.Error
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	log := cliexit.New(os.Stderr, verbosityLevel, quiet)

	cwd, err := os.Getwd()
	if err != nil {
		return cliexit.Errorf("determine working directory: %v", err)
	}

	gitRoot, err := vcsroot.Find(cwd)
	if err != nil {
		return cliexit.Errorf("locate project root: %v", err)
	}
	log.Debug("project root: %s", gitRoot)

	cfg, err := config.Load(gitRoot)
	if err != nil {
		return cliexit.Errorf("load configuration: %v", err)
	}

	changed, err := changedFiles(args)
	if err != nil {
		return err
	}
	log.Debug("changed files: %v", changed)

	changedRel, err := toRootRelative(gitRoot, cwd, changed)
	if err != nil {
		return err
	}

	runAllGlob, err := globset.New(cfg.Files.RunAllTestsOnChange)
	if err != nil {
		return cliexit.Errorf("compile files.run-all-tests-on-change: %v", err)
	}
	if matchesAny(runAllGlob, changedRel) {
		log.Info("running all tests")
		fmt.Fprintln(cmd.OutOrStdout(), runAllSentinel)
		return nil
	}

	target, err := filepath.Abs(targetDirectory)
	if err != nil {
		return cliexit.Errorf("resolve target directory: %v", err)
	}

	targetRelToRoot, err := filepath.Rel(gitRoot, target)
	if err != nil {
		return cliexit.Errorf("relate target directory to project root: %v", err)
	}

	lookupPaths, err := lookup.Resolve(target, gitRoot)
	if err != nil {
		return cliexit.Errorf("resolve python lookup paths: %v", err)
	}
	log.Debug("lookup paths: %v", lookupPaths.Ordered())

	start := time.Now()

	walker := discovery.NewWalker()
	files, err := walker.Discover(cmd.Context(), target)
	if err != nil {
		return cliexit.Errorf("discover workspace files: %v", err)
	}

	firstLevelDirs := depgraph.FirstLevelDirs(lookupPaths.Ordered(), gitRoot)

	projectFiles := make(map[string]struct{}, len(files))
	workspaceFiles := make([]string, 0, len(files))
	for i, f := range files {
		relToRoot := joinRel(targetRelToRoot, f.RelPath)
		files[i].RelPath = relToRoot
		projectFiles[relToRoot] = struct{}{}
		workspaceFiles = append(workspaceFiles, relToRoot)
	}

	fileIgnores, err := globset.New(cfg.Files.Ignores)
	if err != nil {
		return cliexit.Errorf("compile files.ignores: %v", err)
	}

	resolver := resolve.New(projectFiles, firstLevelDirs)

	p, err := parser.NewTreeSitterParser()
	if err != nil {
		return cliexit.Errorf("initialize python parser: %v", err)
	}
	defer p.Close()

	graph, parseErrs, resolveWarnings, err := depgraph.Build(cmd.Context(), files, resolver, p, fileIgnores)
	if err != nil {
		return cliexit.Errorf("build dependency graph: %v", err)
	}
	for _, pe := range parseErrs {
		log.Error("parse %s", pe.Error())
	}
	for _, w := range resolveWarnings {
		log.Warn("%s", w.Error())
	}

	var impacted map[string]struct{}
	if dotGraphPath != "" {
		impacted, err = writeDOTGraph(graph, changedRel, dotGraphPath)
		if err != nil {
			return err
		}
	} else {
		impacted = depgraph.ImpactClosure(graph, changedRel)
	}

	ignoredTests, err := globset.New(cfg.Tests.Ignores)
	if err != nil {
		return cliexit.Errorf("compile tests.ignores: %v", err)
	}
	alwaysRun, err := globset.New(cfg.Tests.AlwaysRun)
	if err != nil {
		return cliexit.Errorf("compile tests.always-run: %v", err)
	}

	results := testsel.Select(impacted, workspaceFiles, ignoredTests, alwaysRun)

	log.Info("analyzed %s files in %s", humanize.Comma(int64(len(files))), time.Since(start).Round(time.Millisecond))
	log.Info("found %d impacted tests, %d always-run, %d ignored", len(results.Impacted), len(results.AlwaysRun), len(results.Ignored))

	out := cmd.OutOrStdout()
	for _, test := range results.Impacted {
		fmt.Fprintln(out, test)
	}
	for _, test := range results.AlwaysRun {
		fmt.Fprintln(out, test)
	}

	return nil
}

func writeDOTGraph(graph depgraph.Graph, changed []string, path string) (map[string]struct{}, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, cliexit.Errorf("create dot graph file: %v", err)
	}
	defer f.Close()

	impacted, err := depgraph.ImpactClosureWithDOT(graph, changed, f)
	if err != nil {
		return nil, cliexit.Errorf("write dot graph: %v", err)
	}
	return impacted, nil
}

// changedFiles returns the positional args, or, when none were given and
// stdin looks piped, the changed-file list read from stdin.
func changedFiles(args []string) ([]string, error) {
	if len(args) == 0 && stdinfeed.IsReadable() {
		lines, err := stdinfeed.ReadLines(os.Stdin)
		if err != nil {
			return nil, cliexit.Errorf("read changed files from stdin: %v", err)
		}
		return lines, nil
	}
	return args, nil
}

// toRootRelative resolves each changed file (interpreted relative to cwd,
// the conventional shape for "git diff --name-only"-style input) to an
// absolute path, verifies it exists, and returns it as a project-root-
// relative, slash-normalized path for graph and glob matching.
func toRootRelative(gitRoot, cwd string, changed []string) ([]string, error) {
	out := make([]string, 0, len(changed))
	for _, c := range changed {
		abs := c
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(cwd, c)
		}
		if _, err := os.Stat(abs); err != nil {
			return nil, cliexit.Errorf("changed file does not exist: %s", c)
		}
		rel, err := filepath.Rel(gitRoot, abs)
		if err != nil {
			return nil, cliexit.Errorf("relate %s to project root: %v", c, err)
		}
		out = append(out, filepath.ToSlash(rel))
	}
	return out, nil
}

func matchesAny(g *globset.Set, paths []string) bool {
	for _, p := range paths {
		if g.Matches(p) {
			return true
		}
	}
	return false
}

func joinRel(base, rel string) string {
	if base == "." || base == "" {
		return rel
	}
	return filepath.ToSlash(filepath.Join(base, rel))
}

