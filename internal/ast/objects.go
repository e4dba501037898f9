package ast

import "github.com/cwbudde/go-pkl/pkg/token"

// ObjectLiteral is the unified syntax for object bodies: a bare `{ ... }`
// (Dynamic), `new Type { ... }` (Base nil, TypeHint set to the type), and
// amendment `(base) { ... }` (Base set to the amended expression). The
// evaluator picks the resulting object's class: the amended object's class
// when Base is set, else the class TypeHint names, else Dynamic.
type ObjectLiteral struct {
	BaseNode
	Base     Expression // nil for a fresh object literal
	TypeHint TypeExpr   // set for `new Type { ... }`; nil otherwise
	Members  []ObjectMember
}

func (e *ObjectLiteral) exprNode() {}

// ObjectMember is any member that can appear inside an object body.
type ObjectMember interface {
	Node
	objectMemberNode()
}

// ObjectProperty is `name = expr` or `name { ... }`. For the second form the
// parser stores the body as a fresh object literal (Base nil) in Value, so
// it replaces the parent's existing value of name rather than amending it.
type ObjectProperty struct {
	BaseNode
	Doc       string
	Name      string
	Modifiers Modifier
	Type      TypeExpr
	Value     Expression
}

func (m *ObjectProperty) objectMemberNode() {}

// ObjectElement is an unnamed Listing element.
type ObjectElement struct {
	BaseNode
	Value Expression
}

func (m *ObjectElement) objectMemberNode() {}

// ObjectEntry is a Mapping entry `["key"] = value` or `[key] { ... }`.
type ObjectEntry struct {
	BaseNode
	Key   Expression
	Value Expression
}

func (m *ObjectEntry) objectMemberNode() {}

// ObjectMethod is a local method defined inline inside an object body.
type ObjectMethod struct {
	BaseNode
	Decl *FunctionDecl
}

func (m *ObjectMethod) objectMemberNode() {}

// ForGenerator is `for (k, v in iterable) { ... }`; KeyName is "" for the
// single-variable form `for (v in iterable)`.
type ForGenerator struct {
	BaseNode
	KeyName   string
	ValueName string
	Iterable  Expression
	Body      []ObjectMember
}

func (m *ForGenerator) objectMemberNode() {}

// WhenGenerator is `when (cond) { thenBody } else { elseBody }`.
type WhenGenerator struct {
	BaseNode
	Cond     Expression
	Then     []ObjectMember
	Else     []ObjectMember // nil if no else clause
}

func (m *WhenGenerator) objectMemberNode() {}

// SpreadMember is `...expr` or `...?expr`, splicing another Listing/Mapping's
// members in at this point.
type SpreadMember struct {
	BaseNode
	Value    Expression
	Nullable bool
}

func (m *SpreadMember) objectMemberNode() {}

// DeleteMember marks a key/index for removal when amending a parent
// (internal `delete` modifier from spec.md §3's member flag set).
type DeleteMember struct {
	BaseNode
	Key Expression // the name or key of the member to remove; always set
}

func (m *DeleteMember) objectMemberNode() {}

func NewObjectLiteral(span token.Span, base Expression, members []ObjectMember) *ObjectLiteral {
	return &ObjectLiteral{BaseNode: BaseNode{span}, Base: base, Members: members}
}
