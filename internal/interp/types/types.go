// Package types resolves internal/ast.TypeExpr nodes against the runtime
// value model and checks values against them, implementing spec.md §4.4's
// type/constraint checking (union branches tried in order, constrained
// types evaluating their predicates with `this` bound to the candidate).
package types

import (
	"fmt"

	"github.com/cwbudde/go-pkl/internal/ast"
	"github.com/cwbudde/go-pkl/internal/errors"
	"github.com/cwbudde/go-pkl/internal/interp/runtime"
)

// Checker evaluates ConstrainedType predicates, which requires calling back
// into the evaluator; Evaluator is the minimal surface internal/interp/evaluator
// implements to satisfy that without an import cycle.
type Evaluator interface {
	EvalPredicate(expr ast.Expression, frame *runtime.Frame, candidate runtime.Value) (bool, error)
}

type Checker struct {
	Classes map[string]*runtime.Class
	Eval    Evaluator
	ModURI  string
}

func New(classes map[string]*runtime.Class, eval Evaluator, moduleURI string) *Checker {
	return &Checker{Classes: classes, Eval: eval, ModURI: moduleURI}
}

// Check reports whether v satisfies t, per spec.md's `is`/`as`/property-type
// semantics. frame supplies the lexical context (for constraint predicates);
// it may be nil when checking types with no ConstrainedType branches.
func (c *Checker) Check(t ast.TypeExpr, v runtime.Value, frame *runtime.Frame) (bool, error) {
	switch n := t.(type) {
	case nil:
		return true, nil
	case *ast.NominalType:
		return c.checkNominal(n, v)
	case *ast.NullableType:
		if _, ok := v.(runtime.Null); ok {
			return true, nil
		}
		return c.Check(n.Base, v, frame)
	case *ast.UnionType:
		for _, m := range n.Members {
			ok, err := c.Check(m, v, frame)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	case *ast.StringLiteralType:
		s, ok := v.(runtime.String)
		return ok && string(s) == n.Value, nil
	case *ast.FunctionType:
		_, ok := v.(*runtime.Function)
		return ok, nil
	case *ast.ConstrainedType:
		ok, err := c.Check(n.Base, v, frame)
		if err != nil || !ok {
			return false, err
		}
		for _, pred := range n.Constraints {
			if c.Eval == nil {
				return false, errors.Internal("constraint checking requires an evaluator")
			}
			satisfied, err := c.Eval.EvalPredicate(pred, frame, v)
			if err != nil {
				return false, err
			}
			if !satisfied {
				return false, nil
			}
		}
		return true, nil
	default:
		return false, errors.Internal("unhandled type expression %T", t)
	}
}

func (c *Checker) checkNominal(n *ast.NominalType, v runtime.Value) (bool, error) {
	switch n.Name {
	case "unknown", "Any":
		return true, nil
	case "nothing":
		return false, nil
	case "Dynamic":
		_, ok := v.(*runtime.Object)
		return ok, nil
	case "Boolean":
		_, ok := v.(runtime.Bool)
		return ok, nil
	case "Int", "UInt", "Int8", "Int16", "Int32", "UInt8", "UInt16", "UInt32":
		_, ok := v.(runtime.Int)
		return ok, nil
	case "Float", "Number":
		switch v.(type) {
		case runtime.Float, runtime.Int:
			return true, nil
		}
		return false, nil
	case "String":
		_, ok := v.(runtime.String)
		return ok, nil
	case "Duration":
		_, ok := v.(runtime.Duration)
		return ok, nil
	case "DataSize":
		_, ok := v.(runtime.DataSize)
		return ok, nil
	case "List":
		_, ok := v.(runtime.List)
		return ok, nil
	case "Set":
		_, ok := v.(*runtime.Set)
		return ok, nil
	case "Map":
		_, ok := v.(*runtime.Map)
		return ok, nil
	case "Pair":
		_, ok := v.(runtime.Pair)
		return ok, nil
	case "Listing", "Mapping":
		_, ok := v.(*runtime.Object)
		return ok, nil
	case "Function", "Function0", "Function1", "Function2", "Function3", "Function4", "Function5":
		_, ok := v.(*runtime.Function)
		return ok, nil
	case "Class":
		_, ok := v.(*runtime.Class)
		return ok, nil
	case "Module":
		_, ok := v.(*runtime.Object)
		return ok, nil
	case "Regex":
		_, ok := v.(runtime.Regex)
		return ok, nil
	default:
		obj, ok := v.(*runtime.Object)
		if !ok {
			return false, nil
		}
		target, ok := c.Classes[n.Name]
		if !ok {
			return false, errors.Type(c.ModURI, n.Span(), "unknown type %q", n.Name)
		}
		return obj.Class != nil && obj.Class.IsSubclassOf(target), nil
	}
}

// Default returns a type's default value for an abstract/typed-only
// property with no declared value (spec.md §3): "" for String, 0 for
// numeric types, false for Boolean, an empty value for the collection types
// List, Set, Map, Listing and Mapping, null otherwise.
func (c *Checker) Default(t ast.TypeExpr) (runtime.Value, error) {
	n, ok := t.(*ast.NominalType)
	if !ok {
		return runtime.Null{}, nil
	}
	switch n.Name {
	case "String":
		return runtime.String(""), nil
	case "Int", "UInt":
		return runtime.NewInt(0), nil
	case "Float", "Number":
		return runtime.Float(0), nil
	case "Boolean":
		return runtime.Bool(false), nil
	case "List":
		return runtime.List{}, nil
	case "Set":
		return runtime.NewSet(nil), nil
	case "Map":
		return &runtime.Map{}, nil
	case "Listing", "Mapping":
		return runtime.NewObject(&runtime.Class{Name: n.Name}, nil), nil
	default:
		return runtime.Null{}, nil
	}
}

// Describe renders a type expression back to Pkl syntax, used in diagnostic
// messages ("expected Int|String, got Boolean").
func Describe(t ast.TypeExpr) string {
	switch n := t.(type) {
	case nil:
		return "unknown"
	case *ast.NominalType:
		if len(n.Args) == 0 {
			return n.Name
		}
		s := n.Name + "<"
		for i, a := range n.Args {
			if i > 0 {
				s += ", "
			}
			s += Describe(a)
		}
		return s + ">"
	case *ast.NullableType:
		return Describe(n.Base) + "?"
	case *ast.UnionType:
		s := ""
		for i, m := range n.Members {
			if i > 0 {
				s += "|"
			}
			s += Describe(m)
		}
		return s
	case *ast.StringLiteralType:
		return fmt.Sprintf("%q", n.Value)
	case *ast.FunctionType:
		s := "("
		for i, p := range n.Params {
			if i > 0 {
				s += ", "
			}
			s += Describe(p)
		}
		return s + ") -> " + Describe(n.Result)
	case *ast.ConstrainedType:
		return Describe(n.Base) + "(...)"
	default:
		return "?"
	}
}
