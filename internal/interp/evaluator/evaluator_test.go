package evaluator_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/go-pkl/internal/interp/evaluator"
	"github.com/cwbudde/go-pkl/internal/interp/runtime"
	"github.com/cwbudde/go-pkl/internal/parser"
	"github.com/cwbudde/go-pkl/internal/semantic"
	"github.com/cwbudde/go-pkl/pkg/token"
)

func evalModule(t *testing.T, src string) *runtime.Object {
	t.Helper()
	p := parser.New(src)
	mod := p.ParseModule()
	require.Empty(t, p.Errors())

	res, err := semantic.Build(mod, "file:///test.pkl", nil)
	require.NoError(t, err)

	ev := evaluator.New("file:///test.pkl", res.Classes, nil, nil)
	obj, err := ev.EvalModule(mod, nil)
	require.NoError(t, err)
	return obj
}

func getProp(t *testing.T, obj *runtime.Object, name string) runtime.Value {
	t.Helper()
	m, owner, ok := obj.Lookup(name)
	require.True(t, ok, "property %q not found", name)
	ev := evaluator.New("file:///test.pkl", nil, nil, nil)
	v, err := ev.GetMember(owner, name, token.Span{})
	require.NoError(t, err)
	_ = m
	return v
}

func TestEvalModule_ArithmeticAndPrecedence(t *testing.T) {
	obj := evalModule(t, `x = 1 + 2 * 3
`)
	v := getProp(t, obj, "x")
	require.Equal(t, runtime.NewInt(7), v)
}

func TestEvalModule_StringInterpolation(t *testing.T) {
	obj := evalModule(t, `name = "world"
greeting = "hello, \(name)!"
`)
	v := getProp(t, obj, "greeting")
	require.Equal(t, runtime.String("hello, world!"), v)
}

func TestEvalModule_LogicalShortCircuit(t *testing.T) {
	obj := evalModule(t, `a = true || (1 / 0 > 0)
`)
	v := getProp(t, obj, "a")
	require.Equal(t, runtime.Bool(true), v)
}

func TestEvalModule_CoalesceOperator(t *testing.T) {
	obj := evalModule(t, `a = null ?? "fallback"
`)
	v := getProp(t, obj, "a")
	require.Equal(t, runtime.String("fallback"), v)
}

func TestEvalModule_PropertyMemoizationCachesAcrossReads(t *testing.T) {
	obj := evalModule(t, `x = 1 + 1
`)
	m, _, ok := obj.Lookup("x")
	require.True(t, ok)
	require.Equal(t, runtime.Uncomputed, m.CellState())

	getProp(t, obj, "x")
	require.Equal(t, runtime.Computed, m.CellState())
}

func TestEvalModule_SelfReferenceDetectsCycle(t *testing.T) {
	p := parser.New(`x = x
`)
	mod := p.ParseModule()
	require.Empty(t, p.Errors())
	res, err := semantic.Build(mod, "file:///cycle.pkl", nil)
	require.NoError(t, err)
	ev := evaluator.New("file:///cycle.pkl", res.Classes, nil, nil)
	obj, err := ev.EvalModule(mod, nil)
	require.NoError(t, err)

	_, err = ev.GetMember(obj, "x", token.Span{})
	require.Error(t, err)
}

func TestEvalModule_IntDivisionByZeroErrors(t *testing.T) {
	obj := evalModule(t, `x = 1 ~/ 0
`)
	m, owner, ok := obj.Lookup("x")
	require.True(t, ok)
	ev := evaluator.New("file:///test.pkl", nil, nil, nil)
	_, err := ev.GetMember(owner, "x", token.Span{})
	require.Error(t, err)
	require.Equal(t, runtime.Computed, m.CellState())
}
