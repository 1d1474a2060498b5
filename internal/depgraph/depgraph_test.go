package depgraph

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arjun-kestrel/pydep/internal/discovery"
	"github.com/arjun-kestrel/pydep/internal/parser"
	"github.com/arjun-kestrel/pydep/internal/resolve"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFirstLevelDirsCollectsModulesAndPackages(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "app.py"), "")
	writeFile(t, filepath.Join(root, "pkg", "__init__.py"), "")
	writeFile(t, filepath.Join(root, "notapkg", "module.py"), "")

	got := FirstLevelDirs([]string{root}, root)
	if prefix, ok := got["app"]; !ok || prefix != "" {
		t.Errorf("expected app.py to contribute bare name %q with empty prefix, got %v", "app", got)
	}
	if prefix, ok := got["pkg"]; !ok || prefix != "" {
		t.Errorf("expected pkg/ (has __init__.py) to contribute %q, got %v", "pkg", got)
	}
	if _, ok := got["notapkg"]; ok {
		t.Errorf("notapkg lacks __init__.py and should not be a first-level component: %v", got)
	}
}

func TestFirstLevelDirsRecordsLookupRootPrefix(t *testing.T) {
	projectRoot := t.TempDir()
	srcRoot := filepath.Join(projectRoot, "src")
	writeFile(t, filepath.Join(srcRoot, "pkg", "__init__.py"), "")

	got := FirstLevelDirs([]string{srcRoot}, projectRoot)
	if prefix, ok := got["pkg"]; !ok || prefix != "src" {
		t.Errorf("expected pkg to resolve under prefix %q, got %v", "src", got)
	}
}

func TestFirstLevelDirsSkipsUnreadableRoot(t *testing.T) {
	root := t.TempDir()
	got := FirstLevelDirs([]string{filepath.Join(root, "does-not-exist")}, root)
	if len(got) != 0 {
		t.Errorf("expected empty set for unreadable root, got %v", got)
	}
}

func TestBuildGraphConnectsImporterToImported(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "app.py"), "from pkg.util import helper\n")
	writeFile(t, filepath.Join(root, "pkg", "__init__.py"), "")
	writeFile(t, filepath.Join(root, "pkg", "util.py"), "def helper():\n    pass\n")

	w := discovery.NewWalker()
	files, err := w.Discover(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}

	p, err := parser.NewTreeSitterParser()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(p.Close)

	firstLevel := FirstLevelDirs([]string{root}, root)
	projectFiles := make(map[string]struct{}, len(files))
	for _, f := range files {
		projectFiles[f.RelPath] = struct{}{}
	}
	resolver := resolve.New(projectFiles, firstLevel)

	graph, parseErrs, warnings, err := Build(context.Background(), files, resolver, p, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(parseErrs) != 0 {
		t.Fatalf("unexpected parse errors: %v", parseErrs)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected resolve warnings: %v", warnings)
	}

	consumers, ok := graph["pkg/util.py"]
	if !ok {
		t.Fatalf("expected pkg/util.py to have consumers, graph = %v", graph)
	}
	if len(consumers) != 1 || consumers[0] != "app.py" {
		t.Errorf("graph[pkg/util.py] = %v, want [app.py]", consumers)
	}
}

func TestImpactClosureFollowsTransitiveConsumers(t *testing.T) {
	graph := Graph{
		"c.py": {"b.py"},
		"b.py": {"a.py"},
	}
	impacted := ImpactClosure(graph, []string{"c.py"})
	for _, want := range []string{"c.py", "b.py", "a.py"} {
		if _, ok := impacted[want]; !ok {
			t.Errorf("expected %q in impact closure, got %v", want, impacted)
		}
	}
}

func TestImpactClosureIsReflexive(t *testing.T) {
	graph := Graph{}
	impacted := ImpactClosure(graph, []string{"solo.py"})
	if _, ok := impacted["solo.py"]; !ok {
		t.Errorf("expected changed file itself in closure, got %v", impacted)
	}
	if len(impacted) != 1 {
		t.Errorf("expected closure of size 1, got %v", impacted)
	}
}

func TestImpactClosureHandlesCycles(t *testing.T) {
	graph := Graph{
		"a.py": {"b.py"},
		"b.py": {"a.py"},
	}
	impacted := ImpactClosure(graph, []string{"a.py"})
	if len(impacted) != 2 {
		t.Errorf("expected cycle to terminate with both nodes visited once, got %v", impacted)
	}
}

func TestImpactClosureWithDOTEmitsEdgesConsumerToDependency(t *testing.T) {
	graph := Graph{
		"b.py": {"a.py"},
	}
	var buf strings.Builder
	impacted, err := ImpactClosureWithDOT(graph, []string{"b.py"}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := impacted["a.py"]; !ok {
		t.Errorf("expected a.py in impacted set, got %v", impacted)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "digraph G {") {
		t.Errorf("DOT output missing header: %q", out)
	}
	if !strings.Contains(out, `"a.py" -> "b.py";`) {
		t.Errorf("DOT output missing consumer edge: %q", out)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "}") {
		t.Errorf("DOT output missing closing brace: %q", out)
	}
}
