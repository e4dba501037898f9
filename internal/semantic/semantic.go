// Package semantic validates a parsed module and prepares it for
// evaluation: checking modifier legality, pre-registering class
// declarations (so forward references resolve, per spec.md §4.4's lazy
// type-node resolution), and loading imports into alias bindings in
// Result.Imports. The evaluator's identifier lookup does not consult
// Result.Imports, so an import alias is not resolvable in expressions.
package semantic

import (
	"fmt"

	"github.com/cwbudde/go-pkl/internal/ast"
	"github.com/cwbudde/go-pkl/internal/errors"
	"github.com/cwbudde/go-pkl/internal/interp/runtime"
	"github.com/cwbudde/go-pkl/internal/loader"
)

// ModuleLoader resolves an import path relative to the importing module's
// URI, mirroring internal/interp/evaluator.ModuleLoader so internal/loader
// can satisfy both without an adapter type.
type ModuleLoader interface {
	Load(fromURI, path string) (*runtime.Object, error)
	LoadGlob(fromURI, path string) ([]loader.Match, error)
}

// Result is the output of building a module: its class table, the
// resolved import bindings to expose as module-scope names, and any
// accumulated diagnostics that did not abort the build.
type Result struct {
	Classes    map[string]*runtime.Class
	Imports    map[string]*runtime.Object // alias -> evaluated module
	Warnings   []error
}

// Build validates mod and resolves its imports, returning a Result ready
// for internal/interp/evaluator.Evaluator.EvalModule.
func Build(mod *ast.Module, moduleURI string, loader ModuleLoader) (*Result, error) {
	res := &Result{Classes: make(map[string]*runtime.Class), Imports: make(map[string]*runtime.Object)}

	// Pre-register every class name so a property's type annotation or a
	// superclass reference can name a class declared later in the file.
	for _, decl := range mod.Members {
		if c, ok := decl.(*ast.ClassDecl); ok {
			if err := checkClassModifiers(c); err != nil {
				return nil, err
			}
			res.Classes[c.Name] = &runtime.Class{Name: c.Name}
		}
	}
	for _, decl := range mod.Members {
		if c, ok := decl.(*ast.ClassDecl); ok {
			class := res.Classes[c.Name]
			class.Abstract = c.Modifiers.Has(ast.ModAbstract)
			class.Open = c.Modifiers.Has(ast.ModOpen)
			class.Properties = c.Properties
			class.Methods = c.Methods
			if c.Superclass != "" {
				super, ok := res.Classes[c.Superclass]
				if !ok {
					return nil, errors.Type(moduleURI, c.Span(), "unknown superclass %q for class %q", c.Superclass, c.Name)
				}
				class.Super = super
			}
		}
	}

	for _, decl := range mod.Members {
		if p, ok := decl.(*ast.PropertyDecl); ok {
			if p.Modifiers.Has(ast.ModConst) && p.Value == nil {
				res.Warnings = append(res.Warnings, fmt.Errorf("const property %q has no value", p.Name))
			}
		}
	}

	if loader != nil {
		for _, imp := range mod.Imports {
			if imp.Glob {
				mods, err := loader.LoadGlob(moduleURI, imp.Path)
				if err != nil {
					return nil, err
				}
				alias := imp.Alias
				if alias == "" {
					alias = imp.Path
				}
				merged := runtime.NewObject(&runtime.Class{Name: "Mapping"}, nil)
				for _, match := range mods {
					mem := &runtime.Member{Name: match.URI, Index: -1}
					mem.Finish(match.Object, nil)
					merged.AddMember(mem)
				}
				res.Imports[alias] = merged
				continue
			}
			m, err := loader.Load(moduleURI, imp.Path)
			if err != nil {
				return nil, err
			}
			alias := imp.Alias
			if alias == "" {
				alias = importDefaultAlias(imp.Path)
			}
			res.Imports[alias] = m
		}
	}

	return res, nil
}

func checkClassModifiers(c *ast.ClassDecl) error {
	if c.Modifiers.Has(ast.ModAbstract) && c.Modifiers.Has(ast.ModOpen) {
		return errors.Type("", c.Span(), "class %q cannot be both abstract and open", c.Name)
	}
	return nil
}

// importDefaultAlias derives the implicit binding name for an unaliased
// import: the last path segment, without its file extension.
func importDefaultAlias(path string) string {
	start := 0
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			start = i + 1
			break
		}
	}
	name := path[start:]
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[:i]
		}
	}
	return name
}
