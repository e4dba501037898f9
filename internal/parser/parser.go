// Package parser builds an internal/ast syntax tree from a token.Token
// stream produced by internal/lexer. It is a hand-written recursive-descent
// / precedence-climbing parser, in the teacher's style
// (internal/parser/expressions.go): no silent error recovery, every failure
// carries a span, and a failure where one specific token was required also
// names that token in SyntaxError.Expected (spec.md §4.1).
package parser

import (
	"fmt"

	"github.com/cwbudde/go-pkl/internal/ast"
	"github.com/cwbudde/go-pkl/internal/lexer"
	"github.com/cwbudde/go-pkl/pkg/token"
)

// SyntaxError is raised for malformed input; Expected lists the token kinds
// that would have been accepted at Span. It is filled in where one specific
// token was required and is empty for other errors.
type SyntaxError struct {
	Span     token.Span
	Message  string
	Expected []token.Type
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Span.Start, e.Message)
}

// precedence levels, lowest to highest binding.
const (
	lowest = iota
	precPipe
	precCoalesce
	precOr
	precAnd
	precEquality
	precComparison
	precAdditive
	precMultiplicative
	precUnary
	precPower
	precPostfix
)

var precedences = map[token.Type]int{
	token.PIPE_GT:      precPipe,
	token.COALESCE:     precCoalesce,
	token.OR:           precOr,
	token.AND:          precAnd,
	token.EQ:           precEquality,
	token.NEQ:          precEquality,
	token.LT:           precComparison,
	token.GT:           precComparison,
	token.LE:           precComparison,
	token.GE:           precComparison,
	token.IS:           precComparison,
	token.AS:           precComparison,
	token.PLUS:         precAdditive,
	token.MINUS:        precAdditive,
	token.STAR:         precMultiplicative,
	token.SLASH:        precMultiplicative,
	token.INT_DIV:      precMultiplicative,
	token.PERCENT:      precMultiplicative,
	token.POW:          precPower,
	token.DOT:          precPostfix,
	token.QUESTION_DOT: precPostfix,
	token.LPAREN:       precPostfix,
	token.LBRACKET:     precPostfix,
	token.LBRACE:       precPostfix, // amend/object-body suffix
	token.NON_NULL:     precPostfix,
}

// Parser turns a token stream into a Module.
type Parser struct {
	l    *lexer.Lexer
	errs []error

	cur, peek token.Token
	// interpStack tracks the (delim, triple) of string literals currently
	// being interpolated, so that a `)` closing an embedded expression can
	// resume the right string.
	interpStack []interpState
}

type interpState struct {
	delim  string
	triple bool
}

// New creates a Parser over src.
func New(src string) *Parser {
	p := &Parser{l: lexer.New(src)}
	p.next()
	p.next()
	return p
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) errorf(span token.Span, format string, args ...any) {
	p.errs = append(p.errs, &SyntaxError{Span: span, Message: fmt.Sprintf(format, args...)})
}

// Errors returns every syntax error accumulated during parsing.
func (p *Parser) Errors() []error { return p.errs }

func (p *Parser) expect(tt token.Type) token.Token {
	tok := p.cur
	if p.cur.Type != tt {
		p.errs = append(p.errs, &SyntaxError{
			Span:     p.cur.Span,
			Message:  fmt.Sprintf("expected %v, got %v (%q)", tt, p.cur.Type, p.cur.Literal),
			Expected: []token.Type{tt},
		})
	}
	p.next()
	return tok
}

func (p *Parser) at(tt token.Type) bool { return p.cur.Type == tt }

// ParseModule parses an entire Pkl source file.
func (p *Parser) ParseModule() *ast.Module {
	start := p.cur.Span
	var amends, extends string
	if p.at(token.MODULE) {
		p.next()
		if p.at(token.AMENDS) {
			p.next()
			amends = p.parseStringPathLiteral()
		} else if p.at(token.EXTENDS) {
			p.next()
			extends = p.parseStringPathLiteral()
		}
	}

	var imports []*ast.ImportDecl
	for p.at(token.IMPORT) || p.at(token.IMPORT_STAR) {
		imports = append(imports, p.parseImport())
	}

	var members []ast.Decl
	for !p.at(token.EOF) {
		if d := p.parseModuleMember(); d != nil {
			members = append(members, d)
		} else {
			p.next() // avoid infinite loop on unrecoverable error
		}
	}

	mod := ast.NewModule(token.Span{Start: start.Start, End: p.cur.Span.End}, imports, members)
	mod.AmendsURI = amends
	mod.ExtendsURI = extends
	return mod
}

func (p *Parser) parseStringPathLiteral() string {
	if p.at(token.STRING) {
		s := p.cur.Literal
		p.next()
		return s
	}
	p.errorf(p.cur.Span, "expected string literal")
	return ""
}

func (p *Parser) parseImport() *ast.ImportDecl {
	start := p.cur.Span
	glob := p.at(token.IMPORT_STAR)
	p.next()
	path := p.parseStringPathLiteral()
	alias := ""
	if p.at(token.AS) {
		p.next()
		alias = p.expect(token.IDENT).Literal
	}
	return ast.NewImportDecl(token.Span{Start: start.Start, End: p.cur.Span.End}, path, alias, glob)
}
