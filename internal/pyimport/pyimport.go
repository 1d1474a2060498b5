// Package pyimport extracts import records from a single Python source
// file via Tree-sitter. Record shape and dot-level semantics are grounded
// on the original implementation's ast.rs::ImportVisitor; node-kind
// handling (import_statement / import_from_statement / aliased_import /
// relative_import / dotted_name) is grounded on the Python Tree-sitter walk
// in the teacher's c3_architecture/python.go.
package pyimport

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/arjun-kestrel/pydep/internal/parser"
)

// Import is one statically extracted import: Segments is the dotted module
// path split on ".", Level is the number of leading dots for a relative
// import (0 for an absolute import).
type Import struct {
	Segments []string
	Level    int
}

// IsRelative reports whether the import used leading-dot relative syntax.
func (i Import) IsRelative() bool {
	return i.Level > 0
}

// Extract parses content as Python source and returns every import record
// found, in source order, with exact duplicates removed. A wildcard
// from-import ("from x import *") contributes no record: its target is
// dynamic and cannot be statically resolved.
func Extract(p *parser.TreeSitterParser, content []byte) ([]Import, error) {
	parsed, err := p.ParseFile("<module>", content)
	if err != nil {
		return nil, err
	}
	defer parsed.Tree.Close()

	var imports []Import
	root := parsed.Tree.RootNode()
	parser.WalkTree(root, func(node *tree_sitter.Node) {
		switch node.Kind() {
		case "import_statement":
			imports = append(imports, extractImportStatement(node, content)...)
		case "import_from_statement":
			imports = append(imports, extractImportFromStatement(node, content)...)
		}
	})

	return dedupe(imports), nil
}

// extractImportStatement handles "import a.b.c" and "import a.b.c as d".
func extractImportStatement(node *tree_sitter.Node, content []byte) []Import {
	var out []Import
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "dotted_name":
			out = append(out, Import{Segments: splitDotted(parser.NodeText(child, content))})
		case "aliased_import":
			nameNode := child.ChildByFieldName("name")
			if nameNode != nil {
				out = append(out, Import{Segments: splitDotted(parser.NodeText(nameNode, content))})
			}
		}
	}
	return out
}

// extractImportFromStatement handles "from [.[.]]module import a, b as c"
// and relative forms "from . import x" / "from ..pkg import y". Each named
// import produces its own record: segments are the module path followed by
// the imported name, matching the original's per-alias record shape. The
// module_name field is either a plain dotted_name (absolute import) or a
// relative_import node wrapping a leading-dot prefix and an optional
// dotted_name (relative import); either way its raw text carries the dot
// count, so level is derived from it once, not re-derived from sibling
// children.
func extractImportFromStatement(node *tree_sitter.Node, content []byte) []Import {
	level := 0
	var moduleSegments []string

	moduleNode := node.ChildByFieldName("module_name")
	if moduleNode != nil {
		level, moduleSegments = parseModulePath(parser.NodeText(moduleNode, content))
	}

	var names []string
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || (moduleNode != nil && child.Id() == moduleNode.Id()) {
			continue
		}
		switch child.Kind() {
		case "wildcard_import":
			return nil
		case "dotted_name":
			names = append(names, parser.NodeText(child, content))
		case "aliased_import":
			nameNode := child.ChildByFieldName("name")
			if nameNode != nil {
				names = append(names, parser.NodeText(nameNode, content))
			}
		}
	}

	if len(names) == 0 {
		return nil
	}

	out := make([]Import, 0, len(names))
	for _, name := range names {
		segments := append(append([]string{}, moduleSegments...), splitDotted(name)...)
		out = append(out, Import{Segments: segments, Level: level})
	}
	return out
}

// parseModulePath splits a from-import module token such as "..a.b" into
// its leading-dot level and dotted segments. A bare "." or ".." (no
// trailing module name) yields a nil segment slice.
func parseModulePath(token string) (level int, segments []string) {
	i := 0
	for i < len(token) && token[i] == '.' {
		i++
	}
	level = i
	rest := token[i:]
	if rest == "" {
		return level, nil
	}
	return level, splitDotted(rest)
}

func splitDotted(name string) []string {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	return strings.Split(name, ".")
}

func dedupe(imports []Import) []Import {
	if len(imports) == 0 {
		return imports
	}
	seen := make(map[string]struct{}, len(imports))
	out := make([]Import, 0, len(imports))
	for _, imp := range imports {
		key := strings.Join(imp.Segments, ".")
		if imp.Level > 0 {
			key = strings.Repeat(".", imp.Level) + key
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, imp)
	}
	return out
}
