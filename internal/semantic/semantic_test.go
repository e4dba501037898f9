package semantic_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/go-pkl/internal/interp/runtime"
	"github.com/cwbudde/go-pkl/internal/loader"
	"github.com/cwbudde/go-pkl/internal/parser"
	"github.com/cwbudde/go-pkl/internal/semantic"
)

func buildModule(t *testing.T, src string) (*semantic.Result, error) {
	t.Helper()
	p := parser.New(src)
	mod := p.ParseModule()
	require.Empty(t, p.Errors())
	return semantic.Build(mod, "file:///test.pkl", nil)
}

func TestBuild_PreRegistersClassesForForwardReference(t *testing.T) {
	res, err := buildModule(t, `class Dog extends Animal {
}
open class Animal {
}
`)
	require.NoError(t, err)
	require.Contains(t, res.Classes, "Dog")
	require.Contains(t, res.Classes, "Animal")
	require.Same(t, res.Classes["Animal"], res.Classes["Dog"].Super)
}

func TestBuild_UnknownSuperclassErrors(t *testing.T) {
	_, err := buildModule(t, `class Dog extends Ghost {
}
`)
	require.Error(t, err)
}

func TestBuild_AbstractAndOpenIsIllegal(t *testing.T) {
	_, err := buildModule(t, `abstract open class Weird {
}
`)
	require.Error(t, err)
}

func TestBuild_ConstWithoutValueWarns(t *testing.T) {
	res, err := buildModule(t, `const x: Int
`)
	require.NoError(t, err)
	require.NotEmpty(t, res.Warnings)
}

// fakeLoader is a minimal semantic.ModuleLoader test double, independent of
// internal/loader, so semantic.Build's import-resolution wiring can be
// exercised without touching the filesystem.
type fakeLoader struct {
	modules map[string]*runtime.Object
	globs   map[string][]loader.Match
}

func (f *fakeLoader) Load(fromURI, path string) (*runtime.Object, error) {
	return f.modules[path], nil
}
func (f *fakeLoader) LoadGlob(fromURI, pattern string) ([]loader.Match, error) {
	return f.globs[pattern], nil
}

func TestBuild_GlobImportBuildsOrderedMapping(t *testing.T) {
	a := runtime.NewObject(&runtime.Class{Name: "module"}, nil)
	b := runtime.NewObject(&runtime.Class{Name: "module"}, nil)
	fl := &fakeLoader{globs: map[string][]loader.Match{
		"mods/*.pkl": {
			{URI: "file:///mods/alpha.pkl", Object: a},
			{URI: "file:///mods/zeta.pkl", Object: b},
		},
	}}

	p := parser.New(`import* "mods/*.pkl" as all
x = 1
`)
	mod := p.ParseModule()
	require.Empty(t, p.Errors())

	res, err := semantic.Build(mod, "file:///test.pkl", fl)
	require.NoError(t, err)
	require.Contains(t, res.Imports, "all")

	mapping := res.Imports["all"]
	names := mapping.Members()
	require.Equal(t, []string{"file:///mods/alpha.pkl", "file:///mods/zeta.pkl"}, names)
}

func TestBuild_UnaliasedImportDerivesNameFromPath(t *testing.T) {
	dep := runtime.NewObject(&runtime.Class{Name: "module"}, nil)
	fl := &fakeLoader{modules: map[string]*runtime.Object{"utils/strings.pkl": dep}}

	p := parser.New(`import "utils/strings.pkl"
x = 1
`)
	mod := p.ParseModule()
	require.Empty(t, p.Errors())

	res, err := semantic.Build(mod, "file:///test.pkl", fl)
	require.NoError(t, err)
	require.Contains(t, res.Imports, "strings")
}
