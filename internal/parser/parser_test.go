package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/go-pkl/internal/ast"
	"github.com/cwbudde/go-pkl/internal/parser"
)

func parseModule(t *testing.T, src string) *ast.Module {
	t.Helper()
	p := parser.New(src)
	mod := p.ParseModule()
	require.Empty(t, p.Errors())
	return mod
}

func TestParseModule_SimpleProperties(t *testing.T) {
	mod := parseModule(t, `name = "hello"
count = 42
`)
	require.Len(t, mod.Members, 2)

	p0, ok := mod.Members[0].(*ast.PropertyDecl)
	require.True(t, ok)
	require.Equal(t, "name", p0.Name)

	p1, ok := mod.Members[1].(*ast.PropertyDecl)
	require.True(t, ok)
	require.Equal(t, "count", p1.Name)
}

func TestParseModule_AmendsClause(t *testing.T) {
	mod := parseModule(t, `module amends "base.pkl"
x = 1
`)
	require.Equal(t, "base.pkl", mod.AmendsURI)
}

func TestParseModule_Imports(t *testing.T) {
	mod := parseModule(t, `import "a.pkl"
import* "globs/*.pkl" as g
x = 1
`)
	require.Len(t, mod.Imports, 2)
	require.Equal(t, "a.pkl", mod.Imports[0].Path)
	require.False(t, mod.Imports[0].Glob)
	require.Equal(t, "globs/*.pkl", mod.Imports[1].Path)
	require.True(t, mod.Imports[1].Glob)
	require.Equal(t, "g", mod.Imports[1].Alias)
}

func TestParseModule_ClassDeclaration(t *testing.T) {
	mod := parseModule(t, `open class Animal {
  name: String
  function speak(): String = "..."
}
`)
	require.Len(t, mod.Members, 1)
	c, ok := mod.Members[0].(*ast.ClassDecl)
	require.True(t, ok)
	require.Equal(t, "Animal", c.Name)
	require.True(t, c.Modifiers.Has(ast.ModOpen))
	require.Len(t, c.Properties, 1)
	require.Len(t, c.Methods, 1)
}

func TestParseModule_BinaryExpressionPrecedence(t *testing.T) {
	mod := parseModule(t, `x = 1 + 2 * 3
`)
	p := mod.Members[0].(*ast.PropertyDecl)
	bin, ok := p.Value.(*ast.BinaryExpr)
	require.True(t, ok)
	// `+` should bind loosest: left is `1`, right is `2 * 3`.
	_, leftIsLit := bin.Left.(*ast.IntLiteral)
	require.True(t, leftIsLit)
	_, rightIsBinary := bin.Right.(*ast.BinaryExpr)
	require.True(t, rightIsBinary)
}

func TestParseModule_SyntaxErrorCarriesSpan(t *testing.T) {
	p := parser.New(`class`)
	p.ParseModule()
	errs := p.Errors()
	require.NotEmpty(t, errs)
	var se *parser.SyntaxError
	require.ErrorAs(t, errs[0], &se)
	require.Equal(t, 1, se.Span.Start.Line)
}
