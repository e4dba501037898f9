package parser

import (
	"github.com/cwbudde/go-pkl/internal/ast"
	"github.com/cwbudde/go-pkl/pkg/token"
)

// modifierTokens maps the leading modifier keywords to their ast.Modifier
// bit; parseModifiers accepts them stacked in any order.
var modifierTokens = map[token.Type]ast.Modifier{
	token.ABSTRACT: ast.ModAbstract,
	token.OPEN:     ast.ModOpen,
	token.LOCAL:    ast.ModLocal,
	token.HIDDEN:   ast.ModHidden,
	token.EXTERNAL: ast.ModExternal,
	token.FIXED:    ast.ModFixed,
	token.CONST:    ast.ModConst,
}

func (p *Parser) parseModifiers() ast.Modifier {
	mods := ast.ModNone
	for {
		bit, ok := modifierTokens[p.cur.Type]
		if !ok {
			return mods
		}
		mods |= bit
		p.next()
	}
}

// parseModuleMember parses one class, module-level property, function, or
// typealias declaration, including any leading doc comment and modifiers.
func (p *Parser) parseModuleMember() ast.Decl {
	doc := p.takeDoc()
	start := p.cur.Span
	mods := p.parseModifiers()

	switch p.cur.Type {
	case token.CLASS:
		return p.parseClassDecl(start, doc, mods)
	case token.TYPEALIAS:
		return p.parseTypeAliasDecl(start, doc, mods)
	case token.FUNCTION:
		return p.parseFunctionDecl(start, doc, mods)
	case token.IDENT:
		return p.parsePropertyDecl(start, doc, mods)
	default:
		p.errorf(p.cur.Span, "expected a declaration, got %v (%q)", p.cur.Type, p.cur.Literal)
		return nil
	}
}

// takeDoc is a stub hook for doc-comment association; the lexer discards
// comments today (spec.md's grammar treats `///` doc comments as trivia),
// so this always returns "".
func (p *Parser) takeDoc() string { return "" }

func (p *Parser) parseClassDecl(start token.Span, doc string, mods ast.Modifier) *ast.ClassDecl {
	p.expect(token.CLASS)
	name := p.expect(token.IDENT).Literal
	typeParams := p.parseOptionalTypeParams()
	super := ""
	if p.at(token.EXTENDS) {
		p.next()
		super = p.expect(token.IDENT).Literal
	}

	decl := ast.NewClassDecl(token.Span{}, name, mods, super)
	decl.Doc = doc
	decl.TypeParams = typeParams

	if p.at(token.LBRACE) {
		p.next()
		for !p.at(token.RBRACE) && !p.at(token.EOF) {
			memberStart := p.cur.Span
			memberDoc := p.takeDoc()
			memberMods := p.parseModifiers()
			switch p.cur.Type {
			case token.FUNCTION:
				decl.Methods = append(decl.Methods, p.parseFunctionDecl(memberStart, memberDoc, memberMods))
			case token.IDENT:
				decl.Properties = append(decl.Properties, p.parsePropertyDecl(memberStart, memberDoc, memberMods))
			default:
				p.errorf(p.cur.Span, "expected a class member, got %v", p.cur.Type)
				p.next()
			}
		}
		p.expect(token.RBRACE)
	}

	decl.BaseNode = ast.NewBaseNode(token.Span{Start: start.Start, End: p.cur.Span.End})
	return decl
}

func (p *Parser) parseOptionalTypeParams() []string {
	if !p.at(token.LT) {
		return nil
	}
	p.next()
	var params []string
	for {
		params = append(params, p.expect(token.IDENT).Literal)
		if !p.at(token.COMMA) {
			break
		}
		p.next()
	}
	p.expect(token.GT)
	return params
}

func (p *Parser) parseTypeAliasDecl(start token.Span, doc string, mods ast.Modifier) *ast.TypeAliasDecl {
	p.expect(token.TYPEALIAS)
	name := p.expect(token.IDENT).Literal
	typeParams := p.parseOptionalTypeParams()
	p.expect(token.ASSIGN)
	t := p.parseTypeExpr()
	return ast.NewTypeAliasDecl(token.Span{Start: start.Start, End: p.cur.Span.End}, name, typeParams, t)
}

func (p *Parser) parseFunctionDecl(start token.Span, doc string, mods ast.Modifier) *ast.FunctionDecl {
	p.expect(token.FUNCTION)
	name := p.expect(token.IDENT).Literal
	typeParams := p.parseOptionalTypeParams()
	params := p.parseParamList()

	var ret ast.TypeExpr
	if p.at(token.COLON) {
		p.next()
		ret = p.parseTypeExpr()
	}

	var body ast.Expression
	if p.at(token.ASSIGN) {
		p.next()
		body = p.parseExpression(lowest)
	} else if !mods.Has(ast.ModExternal) && !mods.Has(ast.ModAbstract) {
		p.errorf(p.cur.Span, "function %s has no body and is neither external nor abstract", name)
	}

	decl := ast.NewFunctionDecl(token.Span{Start: start.Start, End: p.cur.Span.End}, name, mods, params, ret, body)
	decl.Doc = doc
	decl.TypeParams = typeParams
	return decl
}

func (p *Parser) parseParamList() []ast.Param {
	p.expect(token.LPAREN)
	var params []ast.Param
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		name := p.expect(token.IDENT).Literal
		var t ast.TypeExpr
		if p.at(token.COLON) {
			p.next()
			t = p.parseTypeExpr()
		}
		params = append(params, ast.Param{Name: name, Type: t})
		if !p.at(token.COMMA) {
			break
		}
		p.next()
	}
	p.expect(token.RPAREN)
	return params
}

func (p *Parser) parsePropertyDecl(start token.Span, doc string, mods ast.Modifier) *ast.PropertyDecl {
	name := p.expect(token.IDENT).Literal

	var t ast.TypeExpr
	if p.at(token.COLON) {
		p.next()
		t = p.parseTypeExpr()
	}

	var value ast.Expression
	switch {
	case p.at(token.ASSIGN):
		p.next()
		value = p.parseExpression(lowest)
	case p.at(token.LBRACE):
		// `name { ... }`: the body becomes a fresh object literal (Base nil);
		// it does not amend an inherited value of name.
		body := p.parseObjectLiteralBody(nil, nil)
		value = body
	}

	decl := ast.NewPropertyDecl(token.Span{Start: start.Start, End: p.cur.Span.End}, name, mods, t, value)
	decl.Doc = doc
	return decl
}
