package loader_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/go-pkl/internal/interp/evaluator"
	"github.com/cwbudde/go-pkl/internal/interp/runtime"
	"github.com/cwbudde/go-pkl/internal/loader"
	"github.com/cwbudde/go-pkl/internal/parser"
	"github.com/cwbudde/go-pkl/internal/security"
	"github.com/cwbudde/go-pkl/internal/semantic"
)

// newFactory wires a loader.EvaluatorFactory the way pkg/pkl.Evaluator does,
// so Load/LoadGlob can fully evaluate the modules they resolve.
func newFactory() loader.EvaluatorFactory {
	return func(moduleURI string, l *loader.Loader) loader.Evaluator {
		classes := make(map[string]*runtime.Class)
		return evaluator.New(moduleURI, classes, nil, evalLoaderAdapter{l})
	}
}

// evalLoaderAdapter satisfies evaluator.ModuleLoader by delegating to a
// *loader.Loader, mirroring how pkg/pkl wires the two packages together.
type evalLoaderAdapter struct{ l *loader.Loader }

func (a evalLoaderAdapter) Load(fromURI, path string) (*runtime.Object, error) {
	return a.l.Load(fromURI, path)
}
func (a evalLoaderAdapter) LoadGlob(fromURI, path string) ([]loader.Match, error) {
	return a.l.LoadGlob(fromURI, path)
}

func TestLoad_ResolvesAndEvaluatesAModule(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dep.pkl"), []byte("x = 1\n"), 0o644))

	sec := security.New(security.LevelSandbox)
	l := loader.New(sec, newFactory())

	obj, err := l.Load("file://"+dir+"/main.pkl", "dep.pkl")
	require.NoError(t, err)
	require.NotNil(t, obj)

	_, _, ok := obj.Lookup("x")
	require.True(t, ok)
}

func TestLoad_CachesByCanonicalURI(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dep.pkl"), []byte("x = 1\n"), 0o644))

	sec := security.New(security.LevelSandbox)
	l := loader.New(sec, newFactory())

	from := "file://" + dir + "/main.pkl"
	a, err := l.Load(from, "dep.pkl")
	require.NoError(t, err)
	b, err := l.Load(from, "dep.pkl")
	require.NoError(t, err)
	require.Same(t, a, b, "second load of the same canonical URI returns the cached module")
}

func TestLoadGlob_OrdersResultsLexicographically(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "mods"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mods", "zeta.pkl"), []byte("v = 1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mods", "alpha.pkl"), []byte("v = 2\n"), 0o644))

	sec := security.New(security.LevelSandbox)
	l := loader.New(sec, newFactory())

	matches, err := l.LoadGlob("file://"+dir+"/main.pkl", "mods/*.pkl")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	require.Contains(t, matches[0].URI, "alpha.pkl")
	require.Contains(t, matches[1].URI, "zeta.pkl")
}

func TestLoad_DeniedBySecurityManager(t *testing.T) {
	sec := security.New(security.LevelSandbox)
	l := loader.New(sec, newFactory())

	_, err := l.Load("file:///main.pkl", "https://example.com/remote.pkl")
	require.Error(t, err)
}

func TestSemanticBuild_ResolvesNamedImport(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dep.pkl"), []byte("x = 1\n"), 0o644))

	sec := security.New(security.LevelSandbox)
	l := loader.New(sec, newFactory())

	p := parser.New(`import "dep.pkl" as dep
y = 2
`)
	mod := p.ParseModule()
	require.Empty(t, p.Errors())

	res, err := semantic.Build(mod, "file://"+dir+"/main.pkl", l)
	require.NoError(t, err)
	require.Contains(t, res.Imports, "dep")
	_, _, ok := res.Imports["dep"].Lookup("x")
	require.True(t, ok)
}
