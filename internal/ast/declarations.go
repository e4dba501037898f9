package ast

import "github.com/cwbudde/go-pkl/pkg/token"

// Modifier is one of the declaration-site flags named in spec.md §3:
// abstract, open, local, hidden, external, fixed, const. The internal-only
// flags (import, class, typealias, element, entry, glob, delete) are
// represented structurally instead of as Modifier bits.
type Modifier int

const (
	ModNone Modifier = 0
	ModAbstract Modifier = 1 << iota
	ModOpen
	ModLocal
	ModHidden
	ModExternal
	ModFixed
	ModConst
)

func (m Modifier) Has(f Modifier) bool { return m&f != 0 }

// ClassDecl declares a user class: `[open|abstract] class Name extends Super { ... }`.
type ClassDecl struct {
	BaseNode
	Doc        string
	Name       string
	Modifiers  Modifier
	Superclass string // "" for the implicit root
	Properties []*PropertyDecl
	Methods    []*FunctionDecl
	TypeParams []string
}

func (d *ClassDecl) declNode() {}

// TypeAliasDecl declares `typealias Name = Type` or a parameterised alias.
type TypeAliasDecl struct {
	BaseNode
	Name       string
	TypeParams []string
	Type       TypeExpr
}

func (d *TypeAliasDecl) declNode() {}

// PropertyDecl is a named member declaration: a property, at class or module
// scope. Value is nil for an abstract or external property and for a
// typed-only one; a typed-only property receives its type's default.
type PropertyDecl struct {
	BaseNode
	Doc       string
	Name      string
	Modifiers Modifier
	Type      TypeExpr // nil if untyped
	Value     Expression
}

func (d *PropertyDecl) declNode() {}

// Param is a function or method parameter.
type Param struct {
	Name string
	Type TypeExpr
}

// FunctionDecl declares a named function or method:
// `function name(params): ReturnType = body`.
type FunctionDecl struct {
	BaseNode
	Doc        string
	Name       string
	Modifiers  Modifier
	TypeParams []string
	Params     []Param
	ReturnType TypeExpr
	Body       Expression // nil for `external` functions
}

func (d *FunctionDecl) declNode() {}

func NewClassDecl(span token.Span, name string, mods Modifier, super string) *ClassDecl {
	return &ClassDecl{BaseNode: BaseNode{span}, Name: name, Modifiers: mods, Superclass: super}
}
