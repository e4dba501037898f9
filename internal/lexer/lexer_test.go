package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/go-pkl/internal/lexer"
	"github.com/cwbudde/go-pkl/pkg/token"
)

func tokenTypes(t *testing.T, src string) []token.Type {
	t.Helper()
	l := lexer.New(src)
	var out []token.Type
	for {
		tok := l.NextToken()
		out = append(out, tok.Type)
		if tok.Type == token.EOF {
			return out
		}
	}
}

func TestNextToken_Operators(t *testing.T) {
	types := tokenTypes(t, `?. ?? !! |> ... -> ~/ **`)
	require.Equal(t, []token.Type{
		token.QUESTION_DOT, token.COALESCE, token.NON_NULL, token.PIPE_GT,
		token.ELLIPSIS, token.ARROW, token.INT_DIV, token.POW, token.EOF,
	}, types)
}

func TestNextToken_NumberLiterals(t *testing.T) {
	l := lexer.New(`0xFF 0b101 0o17 1_000 3.14 2.5e10`)

	tok := l.NextToken()
	require.Equal(t, token.INT, tok.Type)
	require.Equal(t, "0xFF", tok.Literal)

	tok = l.NextToken()
	require.Equal(t, token.INT, tok.Type)
	require.Equal(t, "0b101", tok.Literal)

	tok = l.NextToken()
	require.Equal(t, token.INT, tok.Type)
	require.Equal(t, "0o17", tok.Literal)

	tok = l.NextToken()
	require.Equal(t, token.INT, tok.Type)
	require.Equal(t, "1000", tok.Literal, "underscores are stripped")

	tok = l.NextToken()
	require.Equal(t, token.FLOAT, tok.Type)
	require.Equal(t, "3.14", tok.Literal)

	tok = l.NextToken()
	require.Equal(t, token.FLOAT, tok.Type)
	require.Equal(t, "2.5e10", tok.Literal)
}

func TestNextToken_ReadAndImportVariants(t *testing.T) {
	types := tokenTypes(t, `read read? read* import import*`)
	require.Equal(t, []token.Type{
		token.READ, token.READ_Q, token.READ_STAR,
		token.IMPORT, token.IMPORT_STAR, token.EOF,
	}, types)
}

func TestNextToken_SimpleString(t *testing.T) {
	l := lexer.New(`"hello\nworld"`)
	tok := l.NextToken()
	require.Equal(t, token.STRING, tok.Type)
	require.Equal(t, "hello\nworld", tok.Literal)
}

func TestNextToken_StringInterpolation(t *testing.T) {
	l := lexer.New(`"a\(x)b"`)

	begin := l.NextToken()
	require.Equal(t, token.INTERP_BEGIN, begin.Type)
	require.Equal(t, "a", begin.Literal)

	ident := l.NextToken()
	require.Equal(t, token.IDENT, ident.Type)
	require.Equal(t, "x", ident.Literal)

	end := l.ContinueInterpolation("", false)
	require.Equal(t, token.INTERP_END, end.Type)
	require.Equal(t, "b", end.Literal)
}

func TestNextToken_CustomQuoteRawString(t *testing.T) {
	l := lexer.New(`#"no \n escapes"#`)
	tok := l.NextToken()
	require.Equal(t, token.STRING, tok.Type)
	require.Equal(t, `no \n escapes`, tok.Literal)
}

func TestNextToken_KeywordsAreCaseSensitive(t *testing.T) {
	l := lexer.New(`class Class`)
	tok := l.NextToken()
	require.Equal(t, token.CLASS, tok.Type)
	tok = l.NextToken()
	require.Equal(t, token.IDENT, tok.Type, "Pkl identifiers are case-sensitive, unlike the teacher language")
}

func TestNextToken_CommentsAreSkipped(t *testing.T) {
	types := tokenTypes(t, "// line comment\nfoo /* block */ bar")
	require.Equal(t, []token.Type{token.IDENT, token.IDENT, token.EOF}, types)
}

func TestNextToken_IllegalCharacter(t *testing.T) {
	l := lexer.New("$")
	tok := l.NextToken()
	require.Equal(t, token.ILLEGAL, tok.Type)
}
