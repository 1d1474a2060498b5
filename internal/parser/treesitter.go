// Package parser provides shared Tree-sitter Python parsing.
//
// Tree-sitter parsers require CGO_ENABLED=1. Parser is not thread-safe, so
// parse operations are serialized via a mutex; the returned Tree is safe to
// read concurrently once parsing completes. Every Tree must be closed.
package parser

import (
	"fmt"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// ParsedFile holds a parsed Tree-sitter syntax tree with its source content.
// Caller must call Tree.Close() when done, or use CloseAll.
type ParsedFile struct {
	Path    string
	Tree    *tree_sitter.Tree
	Content []byte
}

// TreeSitterParser holds a single shared Python parser. Parsing is serialized
// internally via a mutex since the underlying Tree-sitter parser is not
// safe for concurrent use.
type TreeSitterParser struct {
	mu     sync.Mutex
	python *tree_sitter.Parser
}

// NewTreeSitterParser creates a shared Python parser.
func NewTreeSitterParser() (*TreeSitterParser, error) {
	p := tree_sitter.NewParser()
	lang := tree_sitter.NewLanguage(tree_sitter_python.Language())
	if err := p.SetLanguage(lang); err != nil {
		p.Close()
		return nil, fmt.Errorf("set python language: %w", err)
	}
	return &TreeSitterParser{python: p}, nil
}

// Close releases the parser's resources. Must be called when done.
func (p *TreeSitterParser) Close() {
	if p.python != nil {
		p.python.Close()
	}
}

// Parse parses Python source content into a Tree. The caller must close the
// returned tree. Thread-safe; parsing is serialized internally.
func (p *TreeSitterParser) Parse(content []byte) (*tree_sitter.Tree, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	tree := p.python.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("tree-sitter parse returned nil")
	}
	return tree, nil
}

// ParseFile parses file content and wraps it with its path, returning a
// ParsedFile the caller must close (via Tree.Close).
func (p *TreeSitterParser) ParseFile(path string, content []byte) (*ParsedFile, error) {
	tree, err := p.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &ParsedFile{Path: path, Tree: tree, Content: content}, nil
}

// CloseAll closes all trees in a slice of ParsedFile. Safe to call with nil
// or empty slice.
func CloseAll(files []*ParsedFile) {
	for _, f := range files {
		if f != nil && f.Tree != nil {
			f.Tree.Close()
		}
	}
}

// WalkTree walks a Tree-sitter tree depth-first, calling fn for each node.
func WalkTree(node *tree_sitter.Node, fn func(*tree_sitter.Node)) {
	if node == nil {
		return
	}
	fn(node)
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child != nil {
			WalkTree(child, fn)
		}
	}
}

// NodeText extracts the text content of a Tree-sitter node.
func NodeText(node *tree_sitter.Node, content []byte) string {
	return string(content[node.StartByte():node.EndByte()])
}
