package parser

import (
	"github.com/cwbudde/go-pkl/internal/ast"
	"github.com/cwbudde/go-pkl/pkg/token"
)

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.cur.Type]; ok {
		return prec
	}
	return lowest
}

// parseExpression is the precedence-climbing entry point: it parses one
// prefix/primary expression, then repeatedly folds in infix and postfix
// operators whose precedence exceeds minPrec.
func (p *Parser) parseExpression(minPrec int) ast.Expression {
	left := p.parsePrefix()
	for {
		prec, ok := precedences[p.cur.Type]
		if !ok || prec <= minPrec {
			return left
		}
		left = p.parseInfix(left, prec)
	}
}

func (p *Parser) parsePrefix() ast.Expression {
	start := p.cur.Span
	switch p.cur.Type {
	case token.NOT, token.MINUS:
		op := p.cur.Type
		p.next()
		operand := p.parseExpression(precUnary)
		return ast.NewUnaryExpr(token.Span{Start: start.Start, End: p.cur.Span.End}, op, operand)
	case token.NULL:
		p.next()
		return ast.NewNullLiteral(start)
	case token.TRUE, token.FALSE:
		v := p.cur.Type == token.TRUE
		p.next()
		return ast.NewBoolLiteral(start, v)
	case token.INT:
		raw := p.cur.Literal
		p.next()
		return ast.NewIntLiteral(start, raw)
	case token.FLOAT:
		raw := p.cur.Literal
		p.next()
		return ast.NewFloatLiteral(start, raw)
	case token.STRING:
		parts := []ast.StringPart{{Text: p.cur.Literal}}
		p.next()
		return ast.NewStringLiteral(start, parts)
	case token.INTERP_BEGIN:
		return p.parseInterpolatedString(start)
	case token.IDENT:
		name := p.cur.Literal
		p.next()
		return ast.NewIdentifier(start, name)
	case token.THIS:
		p.next()
		return ast.NewThisExpr(start)
	case token.MODULE:
		p.next()
		return ast.NewModuleExpr(start)
	case token.SUPER:
		p.next()
		p.expect(token.DOT)
		name := p.expect(token.IDENT).Literal
		return ast.NewSuperMemberExpr(token.Span{Start: start.Start, End: p.cur.Span.End}, name)
	case token.LPAREN:
		return p.parseParenOrFunctionLiteral(start)
	case token.NEW:
		return p.parseNewExpr(start)
	case token.LBRACE:
		return p.parseObjectLiteralBody(nil, nil)
	case token.LET:
		return p.parseLetExpr(start)
	case token.IF:
		return p.parseIfExpr(start)
	case token.THROW:
		p.next()
		p.expect(token.LPAREN)
		v := p.parseExpression(lowest)
		p.expect(token.RPAREN)
		return ast.NewThrowExpr(token.Span{Start: start.Start, End: p.cur.Span.End}, v)
	case token.TRACE:
		p.next()
		p.expect(token.LPAREN)
		v := p.parseExpression(lowest)
		p.expect(token.RPAREN)
		return ast.NewTraceExpr(token.Span{Start: start.Start, End: p.cur.Span.End}, v)
	case token.READ, token.READ_Q, token.READ_STAR:
		return p.parseReadExpr(start)
	case token.IMPORT, token.IMPORT_STAR:
		return p.parseImportExpr(start)
	default:
		p.errorf(p.cur.Span, "unexpected token %v (%q) in expression", p.cur.Type, p.cur.Literal)
		p.next()
		return ast.NewNullLiteral(start)
	}
}

// parseInterpolatedString drives the lexer's ContinueInterpolation callback
// to alternate between text fragments and embedded expressions until the
// closing quote, per the INTERP_BEGIN/INTERP_MID/INTERP_END protocol
// documented on internal/lexer.Lexer.
func (p *Parser) parseInterpolatedString(start token.Span) *ast.StringLiteral {
	delim := p.cur.Literal
	triple := p.cur.Type == token.INTERP_BEGIN && len(delim) >= 3 && delim[:3] == `"""`
	var parts []ast.StringPart
	parts = append(parts, ast.StringPart{Text: p.cur.Literal})
	p.next() // consume INTERP_BEGIN, now positioned at the embedded expr's first token

	for {
		expr := p.parseExpression(lowest)
		parts = append(parts, ast.StringPart{Expr: expr})

		tok := p.l.ContinueInterpolation(delim, triple)
		p.cur = tok
		p.peek = p.l.NextToken()

		parts = append(parts, ast.StringPart{Text: tok.Literal})
		if tok.Type == token.INTERP_END {
			p.next()
			break
		}
		p.next() // consume INTERP_MID, now positioned at the next embedded expr
	}
	return ast.NewStringLiteral(token.Span{Start: start.Start, End: p.cur.Span.End}, parts)
}

func (p *Parser) parseParenOrFunctionLiteral(start token.Span) ast.Expression {
	// Disambiguate `(expr)` from `(params) -> body` by scanning ahead: a
	// function literal's parameter list is either empty or a comma-separated
	// list of identifiers (optionally typed) followed by `->`.
	if p.looksLikeFunctionLiteral() {
		params := p.parseParamList()
		p.expect(token.ARROW)
		body := p.parseExpression(lowest)
		return ast.NewFunctionLiteral(token.Span{Start: start.Start, End: p.cur.Span.End}, params, body)
	}
	p.expect(token.LPAREN)
	inner := p.parseExpression(lowest)
	p.expect(token.RPAREN)
	if p.at(token.LBRACE) {
		body := p.parseObjectLiteralBody(inner, nil)
		return body
	}
	return inner
}

// looksLikeFunctionLiteral peeks past a balanced `(...)` to see whether `->`
// follows, without consuming any tokens. The lexer/parser pair here has no
// generic backtracking, so this performs the lookahead on a throwaway lexer
// clone copied from the current position.
func (p *Parser) looksLikeFunctionLiteral() bool {
	clone := p.l.Clone()
	cur, peek := p.cur, p.peek
	depth := 0
	// cur is LPAREN at entry.
	for {
		if cur.Type == token.LPAREN {
			depth++
		} else if cur.Type == token.RPAREN {
			depth--
			if depth == 0 {
				return peek.Type == token.ARROW
			}
		} else if cur.Type == token.EOF {
			return false
		}
		cur = peek
		peek = clone.NextToken()
	}
}

func (p *Parser) parseNewExpr(start token.Span) ast.Expression {
	p.expect(token.NEW)
	var hint ast.TypeExpr
	if !p.at(token.LBRACE) {
		hint = p.parseTypeExpr()
	}
	return p.parseObjectLiteralBody(nil, hint)
}

// parseObjectLiteralBody parses `{ members }`, attached either to an amend
// base (amendTarget != nil), a `new Type { }` hint (hint != nil), or neither
// for a fresh `{ }` literal.
func (p *Parser) parseObjectLiteralBody(amendTarget ast.Expression, hint ast.TypeExpr) *ast.ObjectLiteral {
	start := p.cur.Span
	p.expect(token.LBRACE)
	var members []ast.ObjectMember
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		members = append(members, p.parseObjectMember())
	}
	p.expect(token.RBRACE)
	lit := ast.NewObjectLiteral(token.Span{Start: start.Start, End: p.cur.Span.End}, amendTarget, members)
	lit.TypeHint = hint
	return lit
}

func (p *Parser) parseLetExpr(start token.Span) ast.Expression {
	p.expect(token.LET)
	p.expect(token.LPAREN)
	name := p.expect(token.IDENT).Literal
	var t ast.TypeExpr
	if p.at(token.COLON) {
		p.next()
		t = p.parseTypeExpr()
	}
	p.expect(token.ASSIGN)
	value := p.parseExpression(lowest)
	p.expect(token.RPAREN)
	body := p.parseExpression(lowest)
	return ast.NewLetExpr(token.Span{Start: start.Start, End: p.cur.Span.End}, name, t, value, body)
}

func (p *Parser) parseIfExpr(start token.Span) ast.Expression {
	p.expect(token.IF)
	p.expect(token.LPAREN)
	cond := p.parseExpression(lowest)
	p.expect(token.RPAREN)
	then := p.parseExpression(lowest)
	p.expect(token.ELSE)
	els := p.parseExpression(lowest)
	return ast.NewIfExpr(token.Span{Start: start.Start, End: p.cur.Span.End}, cond, then, els)
}

func (p *Parser) parseReadExpr(start token.Span) ast.Expression {
	var kind ast.ReadKind
	switch p.cur.Type {
	case token.READ_Q:
		kind = ast.ReadOptional
	case token.READ_STAR:
		kind = ast.ReadGlob
	default:
		kind = ast.ReadOne
	}
	p.next()
	p.expect(token.LPAREN)
	path := p.parseExpression(lowest)
	p.expect(token.RPAREN)
	return ast.NewReadExpr(token.Span{Start: start.Start, End: p.cur.Span.End}, kind, path)
}

func (p *Parser) parseImportExpr(start token.Span) ast.Expression {
	glob := p.at(token.IMPORT_STAR)
	p.next()
	p.expect(token.LPAREN)
	path := p.parseStringPathLiteral()
	p.expect(token.RPAREN)
	return ast.NewImportExpr(token.Span{Start: start.Start, End: p.cur.Span.End}, path, glob)
}

func (p *Parser) parseInfix(left ast.Expression, prec int) ast.Expression {
	start := left.Span()
	switch p.cur.Type {
	case token.DOT, token.QUESTION_DOT:
		optional := p.cur.Type == token.QUESTION_DOT
		p.next()
		name := p.expect(token.IDENT).Literal
		return ast.NewMemberExpr(token.Span{Start: start.Start, End: p.cur.Span.End}, left, name, optional)
	case token.LBRACKET:
		p.next()
		index := p.parseExpression(lowest)
		p.expect(token.RBRACKET)
		return ast.NewIndexExpr(token.Span{Start: start.Start, End: p.cur.Span.End}, left, index)
	case token.LPAREN:
		args := p.parseArgList()
		return ast.NewCallExpr(token.Span{Start: start.Start, End: p.cur.Span.End}, left, args)
	case token.LBRACE:
		body := p.parseObjectLiteralBody(nil, nil)
		return ast.NewAmendedExpr(token.Span{Start: start.Start, End: p.cur.Span.End}, left, body)
	case token.PIPE_GT:
		p.next()
		right := p.parseExpression(prec)
		return ast.NewPipeExpr(token.Span{Start: start.Start, End: p.cur.Span.End}, left, right)
	case token.NON_NULL:
		p.next()
		return ast.NewUnaryExpr(token.Span{Start: start.Start, End: p.cur.Span.End}, token.NON_NULL, left)
	case token.IS:
		p.next()
		t := p.parseTypeExpr()
		return ast.NewIsExpr(token.Span{Start: start.Start, End: p.cur.Span.End}, left, t)
	case token.AS:
		p.next()
		t := p.parseTypeExpr()
		return ast.NewAsExpr(token.Span{Start: start.Start, End: p.cur.Span.End}, left, t)
	default:
		op := p.cur.Type
		p.next()
		right := p.parseExpression(prec)
		return ast.NewBinaryExpr(token.Span{Start: start.Start, End: p.cur.Span.End}, op, left, right)
	}
}

func (p *Parser) parseArgList() []ast.Expression {
	p.expect(token.LPAREN)
	var args []ast.Expression
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		args = append(args, p.parseExpression(lowest))
		if !p.at(token.COMMA) {
			break
		}
		p.next()
	}
	p.expect(token.RPAREN)
	return args
}
