package parser

import (
	"github.com/cwbudde/go-pkl/internal/ast"
	"github.com/cwbudde/go-pkl/pkg/token"
)

// parseObjectMember parses one member of an object/Listing/Mapping body:
// a property, element, entry, local method, spread, or `for`/`when`
// generator (spec.md §3's object-member shapes).
func (p *Parser) parseObjectMember() ast.ObjectMember {
	start := p.cur.Span

	switch p.cur.Type {
	case token.ELLIPSIS:
		p.next()
		nullable := false
		if p.at(token.QUESTION) {
			nullable = true
			p.next()
		}
		v := p.parseExpression(lowest)
		return ast.NewSpreadMember(token.Span{Start: start.Start, End: p.cur.Span.End}, v, nullable)

	case token.FOR:
		return p.parseForGenerator(start)

	case token.WHEN:
		return p.parseWhenGenerator(start)

	case token.LBRACKET:
		return p.parseObjectEntry(start)

	case token.LOCAL:
		p.next()
		return p.parseObjectMember()

	case token.FUNCTION:
		decl := p.parseFunctionDecl(start, p.takeDoc(), ast.ModNone)
		return ast.NewObjectMethod(decl.Span(), decl)

	case token.IDENT:
		return p.parseObjectPropertyOrElement(start)

	default:
		// Bare expression: a Listing element.
		v := p.parseExpression(lowest)
		return ast.NewObjectElement(token.Span{Start: start.Start, End: p.cur.Span.End}, v)
	}
}

func (p *Parser) parseObjectEntry(start token.Span) ast.ObjectMember {
	p.expect(token.LBRACKET)
	key := p.parseExpression(lowest)
	p.expect(token.RBRACKET)

	var value ast.Expression
	switch {
	case p.at(token.ASSIGN):
		p.next()
		value = p.parseExpression(lowest)
	case p.at(token.LBRACE):
		value = p.parseObjectLiteralBody(nil, nil)
	default:
		p.errorf(p.cur.Span, "expected '=' or '{' after mapping key, got %v", p.cur.Type)
	}
	return ast.NewObjectEntry(token.Span{Start: start.Start, End: p.cur.Span.End}, key, value)
}

// parseObjectPropertyOrElement disambiguates `name = value` / `name { }`
// (a property) from a bare identifier expression used as a Listing element
// or the start of a larger expression (e.g. `foo.bar`, `foo(1)`).
func (p *Parser) parseObjectPropertyOrElement(start token.Span) ast.ObjectMember {
	if p.peek.Type == token.ASSIGN || p.peek.Type == token.LBRACE || p.peek.Type == token.COLON {
		name := p.cur.Literal
		p.next()

		var t ast.TypeExpr
		if p.at(token.COLON) {
			p.next()
			t = p.parseTypeExpr()
		}

		var value ast.Expression
		if p.at(token.ASSIGN) {
			p.next()
			value = p.parseExpression(lowest)
		} else if p.at(token.LBRACE) {
			value = p.parseObjectLiteralBody(nil, nil)
		}
		return ast.NewObjectProperty(token.Span{Start: start.Start, End: p.cur.Span.End}, name, ast.ModNone, t, value)
	}

	v := p.parseExpression(lowest)
	return ast.NewObjectElement(token.Span{Start: start.Start, End: p.cur.Span.End}, v)
}

func (p *Parser) parseForGenerator(start token.Span) ast.ObjectMember {
	p.expect(token.FOR)
	p.expect(token.LPAREN)
	first := p.expect(token.IDENT).Literal
	keyName, valueName := "", first
	if p.at(token.COMMA) {
		p.next()
		valueName = p.expect(token.IDENT).Literal
		keyName = first
	}
	p.expect(token.IN)
	iterable := p.parseExpression(lowest)
	p.expect(token.RPAREN)

	p.expect(token.LBRACE)
	var body []ast.ObjectMember
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		body = append(body, p.parseObjectMember())
	}
	p.expect(token.RBRACE)

	return ast.NewForGenerator(token.Span{Start: start.Start, End: p.cur.Span.End}, keyName, valueName, iterable, body)
}

func (p *Parser) parseWhenGenerator(start token.Span) ast.ObjectMember {
	p.expect(token.WHEN)
	p.expect(token.LPAREN)
	cond := p.parseExpression(lowest)
	p.expect(token.RPAREN)

	p.expect(token.LBRACE)
	var then []ast.ObjectMember
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		then = append(then, p.parseObjectMember())
	}
	p.expect(token.RBRACE)

	var els []ast.ObjectMember
	if p.at(token.ELSE) {
		p.next()
		p.expect(token.LBRACE)
		for !p.at(token.RBRACE) && !p.at(token.EOF) {
			els = append(els, p.parseObjectMember())
		}
		p.expect(token.RBRACE)
	}

	return ast.NewWhenGenerator(token.Span{Start: start.Start, End: p.cur.Span.End}, cond, then, els)
}
