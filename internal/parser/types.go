package parser

import (
	"github.com/cwbudde/go-pkl/internal/ast"
	"github.com/cwbudde/go-pkl/pkg/token"
)

// parseTypeExpr parses a type annotation: a nominal/function/literal base,
// with `?` nullable suffixes binding tightest, then `(...)` constraint
// predicates, then `|` union branches (spec.md §4.4).
func (p *Parser) parseTypeExpr() ast.TypeExpr {
	t := p.parseUnionType()
	return t
}

func (p *Parser) parseUnionType() ast.TypeExpr {
	start := p.cur.Span
	first := p.parseConstrainedType()
	if !p.at(token.PIPE) {
		return first
	}
	members := []ast.TypeExpr{first}
	for p.at(token.PIPE) {
		p.next()
		members = append(members, p.parseConstrainedType())
	}
	return ast.NewUnionType(token.Span{Start: start.Start, End: p.cur.Span.End}, members)
}

func (p *Parser) parseConstrainedType() ast.TypeExpr {
	start := p.cur.Span
	base := p.parseNullableType()
	if !p.at(token.LPAREN) {
		return base
	}
	p.next()
	var constraints []ast.Expression
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		constraints = append(constraints, p.parseExpression(lowest))
		if !p.at(token.COMMA) {
			break
		}
		p.next()
	}
	p.expect(token.RPAREN)
	return ast.NewConstrainedType(token.Span{Start: start.Start, End: p.cur.Span.End}, base, constraints)
}

func (p *Parser) parseNullableType() ast.TypeExpr {
	start := p.cur.Span
	base := p.parseAtomicType()
	for p.at(token.QUESTION) {
		p.next()
		base = ast.NewNullableType(token.Span{Start: start.Start, End: p.cur.Span.End}, base)
	}
	return base
}

func (p *Parser) parseAtomicType() ast.TypeExpr {
	start := p.cur.Span
	switch p.cur.Type {
	case token.STRING:
		v := p.cur.Literal
		p.next()
		return ast.NewStringLiteralType(start, v)
	case token.LPAREN:
		return p.parseFunctionType()
	case token.IDENT, token.UNKNOWN, token.NOTHING:
		name := p.cur.Literal
		p.next()
		var args []ast.TypeExpr
		if p.at(token.LT) {
			p.next()
			for !p.at(token.GT) && !p.at(token.EOF) {
				args = append(args, p.parseTypeExpr())
				if !p.at(token.COMMA) {
					break
				}
				p.next()
			}
			p.expect(token.GT)
		}
		return ast.NewNominalType(token.Span{Start: start.Start, End: p.cur.Span.End}, name, args)
	default:
		p.errorf(p.cur.Span, "expected a type, got %v (%q)", p.cur.Type, p.cur.Literal)
		p.next()
		return ast.NewNominalType(start, "unknown", nil)
	}
}

// parseFunctionType parses `(A,B)->R`. Since `(` also opens a parenthesized
// constraint position in parseConstrainedType's caller, this is only reached
// when a type expression itself starts with `(`.
func (p *Parser) parseFunctionType() ast.TypeExpr {
	start := p.cur.Span
	p.expect(token.LPAREN)
	var params []ast.TypeExpr
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		params = append(params, p.parseTypeExpr())
		if !p.at(token.COMMA) {
			break
		}
		p.next()
	}
	p.expect(token.RPAREN)
	p.expect(token.ARROW)
	result := p.parseTypeExpr()
	return ast.NewFunctionType(token.Span{Start: start.Start, End: p.cur.Span.End}, params, result)
}
