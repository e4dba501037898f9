package render_test

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/go-pkl/internal/interp/evaluator"
	"github.com/cwbudde/go-pkl/internal/interp/runtime"
	"github.com/cwbudde/go-pkl/internal/parser"
	"github.com/cwbudde/go-pkl/internal/render"
	"github.com/cwbudde/go-pkl/internal/semantic"
)

// evalAndForce parses, semantically builds, evaluates a module and forces
// the whole object graph (including nested objects) so every memoization
// cell is Computed, the precondition render.JSON/YAML/etc. document for
// toGo/cellToGo.
func evalAndForce(t *testing.T, src string) *runtime.Object {
	t.Helper()
	p := parser.New(src)
	mod := p.ParseModule()
	require.Empty(t, p.Errors())

	res, err := semantic.Build(mod, "file:///render.pkl", nil)
	require.NoError(t, err)

	ev := evaluator.New("file:///render.pkl", res.Classes, nil, nil)
	obj, err := ev.EvalModule(mod, nil)
	require.NoError(t, err)

	require.NoError(t, ev.ForceTree(obj))
	return obj
}

func TestJSON_RendersScalarProperties(t *testing.T) {
	obj := evalAndForce(t, `name = "Alice"
age = 30
active = true
`)
	out, err := render.JSON(obj)
	require.NoError(t, err)
	require.Contains(t, out, `"name": "Alice"`)
	require.Contains(t, out, `"age": 30`)
	require.Contains(t, out, `"active": true`)
}

func TestJSON_NullProperty(t *testing.T) {
	obj := evalAndForce(t, `x = null
`)
	out, err := render.JSON(obj)
	require.NoError(t, err)
	require.Contains(t, out, `"x": null`)
}

func TestYAML_RendersScalarProperties(t *testing.T) {
	obj := evalAndForce(t, `name = "Bob"
count = 7
`)
	out, err := render.YAML(obj)
	require.NoError(t, err)
	require.Contains(t, out, "name: Bob")
	require.Contains(t, out, "count: 7")
}

func TestJSON_NestedObjectSnapshot(t *testing.T) {
	obj := evalAndForce(t, `server {
  host = "localhost"
  port = 8080
  tls = false
}
`)
	out, err := render.JSON(obj)
	require.NoError(t, err)
	snaps.MatchSnapshot(t, out)
}
