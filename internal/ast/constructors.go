package ast

import "github.com/cwbudde/go-pkl/pkg/token"

// Constructors for every concrete node type, used by internal/parser and
// internal/semantic to build spans without reaching into BaseNode directly.

func NewImportDecl(span token.Span, path, alias string, glob bool) *ImportDecl {
	return &ImportDecl{BaseNode: NewBaseNode(span), Path: path, Alias: alias, Glob: glob}
}

func NewTypeAliasDecl(span token.Span, name string, typeParams []string, t TypeExpr) *TypeAliasDecl {
	return &TypeAliasDecl{BaseNode: NewBaseNode(span), Name: name, TypeParams: typeParams, Type: t}
}

func NewPropertyDecl(span token.Span, name string, mods Modifier, t TypeExpr, value Expression) *PropertyDecl {
	return &PropertyDecl{BaseNode: NewBaseNode(span), Name: name, Modifiers: mods, Type: t, Value: value}
}

func NewFunctionDecl(span token.Span, name string, mods Modifier, params []Param, ret TypeExpr, body Expression) *FunctionDecl {
	return &FunctionDecl{BaseNode: NewBaseNode(span), Name: name, Modifiers: mods, Params: params, ReturnType: ret, Body: body}
}

func NewNullableType(span token.Span, base TypeExpr) *NullableType {
	return &NullableType{BaseNode: NewBaseNode(span), Base: base}
}

func NewUnionType(span token.Span, members []TypeExpr) *UnionType {
	return &UnionType{BaseNode: NewBaseNode(span), Members: members}
}

func NewFunctionType(span token.Span, params []TypeExpr, result TypeExpr) *FunctionType {
	return &FunctionType{BaseNode: NewBaseNode(span), Params: params, Result: result}
}

func NewStringLiteralType(span token.Span, value string) *StringLiteralType {
	return &StringLiteralType{BaseNode: NewBaseNode(span), Value: value}
}

func NewConstrainedType(span token.Span, base TypeExpr, constraints []Expression) *ConstrainedType {
	return &ConstrainedType{BaseNode: NewBaseNode(span), Base: base, Constraints: constraints}
}

func NewNullLiteral(span token.Span) *NullLiteral { return &NullLiteral{BaseNode: NewBaseNode(span)} }

func NewBoolLiteral(span token.Span, v bool) *BoolLiteral {
	return &BoolLiteral{BaseNode: NewBaseNode(span), Value: v}
}

func NewIntLiteral(span token.Span, raw string) *IntLiteral {
	return &IntLiteral{BaseNode: NewBaseNode(span), Raw: raw}
}

func NewFloatLiteral(span token.Span, raw string) *FloatLiteral {
	return &FloatLiteral{BaseNode: NewBaseNode(span), Raw: raw}
}

func NewStringLiteral(span token.Span, parts []StringPart) *StringLiteral {
	return &StringLiteral{BaseNode: NewBaseNode(span), Parts: parts}
}

func NewThisExpr(span token.Span) *ThisExpr { return &ThisExpr{BaseNode: NewBaseNode(span)} }

func NewSuperMemberExpr(span token.Span, name string) *SuperMemberExpr {
	return &SuperMemberExpr{BaseNode: NewBaseNode(span), Name: name}
}

func NewModuleExpr(span token.Span) *ModuleExpr { return &ModuleExpr{BaseNode: NewBaseNode(span)} }

func NewUnaryExpr(span token.Span, op token.Type, operand Expression) *UnaryExpr {
	return &UnaryExpr{BaseNode: NewBaseNode(span), Op: op, Operand: operand}
}

func NewBinaryExpr(span token.Span, op token.Type, left, right Expression) *BinaryExpr {
	return &BinaryExpr{BaseNode: NewBaseNode(span), Op: op, Left: left, Right: right}
}

func NewMemberExpr(span token.Span, recv Expression, name string, optional bool) *MemberExpr {
	return &MemberExpr{BaseNode: NewBaseNode(span), Receiver: recv, Name: name, Optional: optional}
}

func NewIndexExpr(span token.Span, recv, index Expression) *IndexExpr {
	return &IndexExpr{BaseNode: NewBaseNode(span), Receiver: recv, Index: index}
}

func NewCallExpr(span token.Span, callee Expression, args []Expression) *CallExpr {
	return &CallExpr{BaseNode: NewBaseNode(span), Callee: callee, Args: args}
}

func NewPipeExpr(span token.Span, left, right Expression) *PipeExpr {
	return &PipeExpr{BaseNode: NewBaseNode(span), Left: left, Right: right}
}

func NewLetExpr(span token.Span, name string, t TypeExpr, value, body Expression) *LetExpr {
	return &LetExpr{BaseNode: NewBaseNode(span), Name: name, Type: t, Value: value, Body: body}
}

func NewIfExpr(span token.Span, cond, then, els Expression) *IfExpr {
	return &IfExpr{BaseNode: NewBaseNode(span), Cond: cond, Then: then, Else: els}
}

func NewFunctionLiteral(span token.Span, params []Param, body Expression) *FunctionLiteral {
	return &FunctionLiteral{BaseNode: NewBaseNode(span), Params: params, Body: body}
}

func NewIsExpr(span token.Span, value Expression, t TypeExpr) *IsExpr {
	return &IsExpr{BaseNode: NewBaseNode(span), Value: value, Type: t}
}

func NewAsExpr(span token.Span, value Expression, t TypeExpr) *AsExpr {
	return &AsExpr{BaseNode: NewBaseNode(span), Value: value, Type: t}
}

func NewThrowExpr(span token.Span, value Expression) *ThrowExpr {
	return &ThrowExpr{BaseNode: NewBaseNode(span), Value: value}
}

func NewTraceExpr(span token.Span, value Expression) *TraceExpr {
	return &TraceExpr{BaseNode: NewBaseNode(span), Value: value}
}

func NewReadExpr(span token.Span, kind ReadKind, path Expression) *ReadExpr {
	return &ReadExpr{BaseNode: NewBaseNode(span), Kind: kind, Path: path}
}

func NewImportExpr(span token.Span, path string, glob bool) *ImportExpr {
	return &ImportExpr{BaseNode: NewBaseNode(span), Path: path, Glob: glob}
}

func NewAmendedExpr(span token.Span, target Expression, body *ObjectLiteral) *AmendedExpr {
	return &AmendedExpr{BaseNode: NewBaseNode(span), Target: target, Body: body}
}

func NewObjectProperty(span token.Span, name string, mods Modifier, t TypeExpr, value Expression) *ObjectProperty {
	return &ObjectProperty{BaseNode: NewBaseNode(span), Name: name, Modifiers: mods, Type: t, Value: value}
}

func NewObjectElement(span token.Span, value Expression) *ObjectElement {
	return &ObjectElement{BaseNode: NewBaseNode(span), Value: value}
}

func NewObjectEntry(span token.Span, key, value Expression) *ObjectEntry {
	return &ObjectEntry{BaseNode: NewBaseNode(span), Key: key, Value: value}
}

func NewObjectMethod(span token.Span, decl *FunctionDecl) *ObjectMethod {
	return &ObjectMethod{BaseNode: NewBaseNode(span), Decl: decl}
}

func NewForGenerator(span token.Span, keyName, valueName string, iterable Expression, body []ObjectMember) *ForGenerator {
	return &ForGenerator{BaseNode: NewBaseNode(span), KeyName: keyName, ValueName: valueName, Iterable: iterable, Body: body}
}

func NewWhenGenerator(span token.Span, cond Expression, then, els []ObjectMember) *WhenGenerator {
	return &WhenGenerator{BaseNode: NewBaseNode(span), Cond: cond, Then: then, Else: els}
}

func NewSpreadMember(span token.Span, value Expression, nullable bool) *SpreadMember {
	return &SpreadMember{BaseNode: NewBaseNode(span), Value: value, Nullable: nullable}
}

func NewDeleteMember(span token.Span, key Expression) *DeleteMember {
	return &DeleteMember{BaseNode: NewBaseNode(span), Key: key}
}
