package ast

import "github.com/cwbudde/go-pkl/pkg/token"

// TypeExpr is a syntactic type annotation. Unlike value Expressions, type
// expressions are resolved lazily by the semantic builder (§4.4) so that a
// property may reference a class defined later in the same module.
type TypeExpr interface {
	Node
	typeExprNode()
}

// NominalType names a class, typealias, or one of the built-in parameterised
// collection types (List<T>, Map<K,V>, Listing<T>, Mapping<K,V>, Pair<A,B>).
type NominalType struct {
	BaseNode
	Name string
	Args []TypeExpr
}

func (t *NominalType) typeExprNode() {}

// NullableType is `T?`.
type NullableType struct {
	BaseNode
	Base TypeExpr
}

func (t *NullableType) typeExprNode() {}

// UnionType is `A|B|...`; branches are tried in declaration order.
type UnionType struct {
	BaseNode
	Members []TypeExpr
}

func (t *UnionType) typeExprNode() {}

// FunctionType is `(A,B)->R`.
type FunctionType struct {
	BaseNode
	Params []TypeExpr
	Result TypeExpr
}

func (t *FunctionType) typeExprNode() {}

// StringLiteralType is a string-literal type `"abc"`, used for enum-like
// unions of literal tags.
type StringLiteralType struct {
	BaseNode
	Value string
}

func (t *StringLiteralType) typeExprNode() {}

// ConstrainedType is `T(pred1, pred2, ...)`: a base type plus Boolean
// predicate expressions run with `this` bound to the candidate value.
type ConstrainedType struct {
	BaseNode
	Base        TypeExpr
	Constraints []Expression
}

func (t *ConstrainedType) typeExprNode() {}

// Sentinel type names resolved specially by the semantic builder: "unknown",
// "nothing", "Any", and type-parameter references share NominalType's shape
// and are distinguished by name during resolution.

func NewNominalType(span token.Span, name string, args []TypeExpr) *NominalType {
	return &NominalType{BaseNode: BaseNode{span}, Name: name, Args: args}
}
