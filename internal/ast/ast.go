// Package ast defines the syntax tree produced by internal/parser for Pkl
// source modules. Nodes are immutable once built; the semantic builder
// (internal/semantic) lowers them into the evaluable tree the evaluator
// walks.
package ast

import "github.com/cwbudde/go-pkl/pkg/token"

// Node is the base interface for every syntax tree node. Every node carries
// a character span so diagnostics can point at the offending source text.
type Node interface {
	Span() token.Span
}

// Expression is any node that produces a value when evaluated.
type Expression interface {
	Node
	exprNode()
}

// Decl is a top-level or class-level declaration.
type Decl interface {
	Node
	declNode()
}

type BaseNode struct {
	span token.Span
}

func (b BaseNode) Span() token.Span { return b.span }

// NewBaseNode constructs the embeddable span-carrying base every concrete
// node type embeds. It is the one place outside this file that needs to
// touch the unexported span field, so every other package builds nodes via
// this constructor rather than poking at BaseNode directly.
func NewBaseNode(span token.Span) BaseNode { return BaseNode{span} }

// Module is the root of a parsed Pkl source file.
type Module struct {
	BaseNode
	Doc        string
	AmendsURI  string // non-empty for `module amends "..."`
	ExtendsURI string // non-empty for `module extends "..."`
	Imports    []*ImportDecl
	Members    []Decl // PropertyDecl | ClassDecl | TypeAliasDecl | FunctionDecl
}

func NewModule(span token.Span, imports []*ImportDecl, members []Decl) *Module {
	return &Module{BaseNode: BaseNode{span}, Imports: imports, Members: members}
}

// ImportDecl is `import "path"` or `import* "glob"`, optionally aliased with
// `as name`.
type ImportDecl struct {
	BaseNode
	Path  string
	Alias string
	Glob  bool
}

func (d *ImportDecl) declNode() {}
