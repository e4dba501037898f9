// Package evaluator tree-walks an internal/ast module into the
// internal/interp/runtime value model, implementing spec.md §4.5's
// amendment, `this`/`super`, and lazy-property evaluation semantics.
package evaluator

import (
	"fmt"
	"math/big"

	"github.com/cwbudde/go-pkl/internal/ast"
	"github.com/cwbudde/go-pkl/internal/errors"
	"github.com/cwbudde/go-pkl/internal/interp/runtime"
	"github.com/cwbudde/go-pkl/internal/interp/types"
	"github.com/cwbudde/go-pkl/internal/loader"
	"github.com/cwbudde/go-pkl/internal/resource"
	"github.com/cwbudde/go-pkl/pkg/token"
)

// ResourceReader is the subset of internal/resource.Manager the `read`
// family of expressions needs; kept as an interface here (rather than a
// direct *resource.Manager field) so a test double can stand in without
// constructing a real security.Manager. Neither loader nor resource imports
// back into this package, so the dependency stays one-directional.
type ResourceReader interface {
	Read(uri string) (string, error)
	ReadGlob(uri string) ([]resource.Match, error)
}

// ModuleLoader resolves `import`/`import*` targets to evaluated module
// objects, implemented by internal/loader.
type ModuleLoader interface {
	Load(fromURI, path string) (*runtime.Object, error)
	LoadGlob(fromURI, path string) ([]loader.Match, error)
}

// Evaluator walks one module's AST. A fresh Evaluator is created per module
// evaluation; imported modules get their own Evaluator sharing the same
// Resources/Loader/Trace sinks.
type Evaluator struct {
	ModuleURI string
	Classes   map[string]*runtime.Class
	Checker   *types.Checker
	Resources ResourceReader
	Loader    ModuleLoader
	TraceSink func(moduleURI string, span token.Span, message string)
}

func New(moduleURI string, classes map[string]*runtime.Class, resources ResourceReader, loader ModuleLoader) *Evaluator {
	e := &Evaluator{ModuleURI: moduleURI, Classes: classes, Resources: resources, Loader: loader}
	e.Checker = types.New(classes, e, moduleURI)
	return e
}

// EvalModule builds the module's root Object: its own top-level properties
// become Own members of a parentless Object (or, for `module amends`, an
// Object layered on top of the amended module's evaluated root).
func (e *Evaluator) EvalModule(mod *ast.Module, parent *runtime.Object) (*runtime.Object, error) {
	class := &runtime.Class{Name: "module"}
	obj := runtime.NewObject(class, parent)
	frame := runtime.NewFrame(nil, obj)

	for _, decl := range mod.Members {
		switch d := decl.(type) {
		case *ast.PropertyDecl:
			obj.AddMember(&runtime.Member{Name: d.Name, Index: -1, Expr: d.Value, Frame: frame})
			if d.Value == nil {
				if def, err := e.Checker.Default(d.Type); err == nil {
					m, _, _ := obj.Lookup(d.Name)
					m.Finish(def, nil)
				}
			}
		case *ast.ClassDecl:
			e.Classes[d.Name] = e.buildClass(d)
		case *ast.FunctionDecl:
			obj.AddMember(&runtime.Member{
				Name: d.Name, Index: -1, Frame: frame,
				Expr: &ast.FunctionLiteral{BaseNode: d.BaseNode, Params: d.Params, Body: d.Body},
			})
		}
	}
	return obj, nil
}

func (e *Evaluator) buildClass(d *ast.ClassDecl) *runtime.Class {
	class := &runtime.Class{
		Name:       d.Name,
		Abstract:   d.Modifiers.Has(ast.ModAbstract),
		Open:       d.Modifiers.Has(ast.ModOpen),
		Properties: d.Properties,
		Methods:    d.Methods,
	}
	if d.Superclass != "" {
		class.Super = e.Classes[d.Superclass]
	}
	return class
}

// GetMember looks up name on obj, evaluating and memoizing it if necessary,
// and returning a cycle error if the member is already InProgress
// (spec.md §9's InProgress state).
func (e *Evaluator) GetMember(obj *runtime.Object, name string, span token.Span) (runtime.Value, error) {
	m, owner, ok := obj.Lookup(name)
	if !ok {
		return nil, errors.Eval(e.ModuleURI, span, "cannot find property %q", name)
	}
	return e.evalMember(m, owner, span)
}

func (e *Evaluator) evalMember(m *runtime.Member, owner *runtime.Object, span token.Span) (runtime.Value, error) {
	switch m.CellState() {
	case runtime.Computed:
		return m.Cached()
	case runtime.InProgress:
		err := errors.Eval(e.ModuleURI, span, "circular reference: property %q reads itself during its own evaluation", m.Name)
		return nil, err
	}
	m.BeginEvaluation()
	frame := m.Frame
	if frame == nil {
		frame = runtime.NewFrame(nil, owner)
	} else if frame.ThisObject() != owner {
		frame = runtime.NewFrame(frame, owner)
	}
	v, err := e.Eval(m.Expr, frame)
	m.Finish(v, err)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Eval dispatches on the dynamic type of expr, the single switch every
// other evaluation entry point in this package routes through.
func (e *Evaluator) Eval(expr ast.Expression, frame *runtime.Frame) (runtime.Value, error) {
	switch n := expr.(type) {
	case *ast.NullLiteral:
		return runtime.Null{}, nil
	case *ast.BoolLiteral:
		return runtime.Bool(n.Value), nil
	case *ast.IntLiteral:
		return e.evalIntLiteral(n)
	case *ast.FloatLiteral:
		return e.evalFloatLiteral(n)
	case *ast.StringLiteral:
		return e.evalStringLiteral(n, frame)
	case *ast.Identifier:
		return e.evalIdentifier(n, frame)
	case *ast.ThisExpr:
		this := frame.ThisObject()
		if this == nil {
			return nil, errors.Eval(e.ModuleURI, n.Span(), "'this' used outside of an object context")
		}
		return this, nil
	case *ast.ModuleExpr:
		return e.moduleRoot(frame), nil
	case *ast.SuperMemberExpr:
		this := frame.ThisObject()
		if this == nil || this.Parent == nil {
			return nil, errors.Eval(e.ModuleURI, n.Span(), "'super' has no parent in this context")
		}
		return e.GetMember(this.Parent, n.Name, n.Span())
	case *ast.UnaryExpr:
		return e.evalUnary(n, frame)
	case *ast.BinaryExpr:
		return e.evalBinary(n, frame)
	case *ast.MemberExpr:
		return e.evalMemberExpr(n, frame)
	case *ast.IndexExpr:
		return e.evalIndex(n, frame)
	case *ast.CallExpr:
		return e.evalCall(n, frame)
	case *ast.PipeExpr:
		right, err := e.Eval(n.Right, frame)
		if err != nil {
			return nil, err
		}
		left, err := e.Eval(n.Left, frame)
		if err != nil {
			return nil, err
		}
		return e.applyFunction(right, []runtime.Value{left}, n.Span())
	case *ast.LetExpr:
		v, err := e.Eval(n.Value, frame)
		if err != nil {
			return nil, err
		}
		inner := runtime.NewFrame(frame, nil)
		inner.Set(n.Name, v)
		return e.Eval(n.Body, inner)
	case *ast.IfExpr:
		cond, err := e.Eval(n.Cond, frame)
		if err != nil {
			return nil, err
		}
		b, ok := cond.(runtime.Bool)
		if !ok {
			return nil, errors.Type(e.ModuleURI, n.Cond.Span(), "if condition must be a Boolean")
		}
		if bool(b) {
			return e.Eval(n.Then, frame)
		}
		return e.Eval(n.Else, frame)
	case *ast.FunctionLiteral:
		return &runtime.Function{Params: n.Params, Body: n.Body, Closure: frame}, nil
	case *ast.IsExpr:
		v, err := e.Eval(n.Value, frame)
		if err != nil {
			return nil, err
		}
		ok, err := e.Checker.Check(n.Type, v, frame)
		return runtime.Bool(ok), err
	case *ast.AsExpr:
		v, err := e.Eval(n.Value, frame)
		if err != nil {
			return nil, err
		}
		ok, err := e.Checker.Check(n.Type, v, frame)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.Type(e.ModuleURI, n.Span(), "expected %s, got %s", types.Describe(n.Type), v.Kind())
		}
		return v, nil
	case *ast.ThrowExpr:
		v, err := e.Eval(n.Value, frame)
		if err != nil {
			return nil, err
		}
		return nil, errors.Thrown(e.ModuleURI, n.Span(), v.String())
	case *ast.TraceExpr:
		v, err := e.Eval(n.Value, frame)
		if err != nil {
			return nil, err
		}
		if e.TraceSink != nil {
			e.TraceSink(e.ModuleURI, n.Span(), v.String())
		}
		return v, nil
	case *ast.ReadExpr:
		return e.evalRead(n, frame)
	case *ast.ImportExpr:
		return e.evalImport(n)
	case *ast.ObjectLiteral:
		return e.evalObjectLiteral(n, frame)
	case *ast.AmendedExpr:
		return e.evalAmend(n, frame)
	default:
		return nil, errors.Internal("unhandled expression type %T", expr)
	}
}

// ForceTree recursively evaluates every member reachable from obj -
// including nested objects, list/set elements, and map entry values - so the
// whole graph is Computed before a renderer walks it. internal/render's
// cellToGo assumes rendering always runs after full module evaluation; this
// is what makes that assumption true for a module loaded via pkg/pkl.
func (e *Evaluator) ForceTree(obj *runtime.Object) error {
	for _, name := range obj.Members() {
		v, err := e.GetMember(obj, name, token.Span{})
		if err != nil {
			return err
		}
		if err := e.forceValue(v); err != nil {
			return err
		}
	}
	return nil
}

func (e *Evaluator) forceValue(v runtime.Value) error {
	switch val := v.(type) {
	case *runtime.Object:
		return e.ForceTree(val)
	case runtime.List:
		for _, elem := range val.Elements {
			if err := e.forceValue(elem); err != nil {
				return err
			}
		}
	case *runtime.Set:
		for _, elem := range val.Elements {
			if err := e.forceValue(elem); err != nil {
				return err
			}
		}
	case *runtime.Map:
		for _, entry := range val.Entries {
			if err := e.forceValue(entry.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Evaluator) moduleRoot(frame *runtime.Frame) *runtime.Object {
	obj := frame.ThisObject()
	for obj != nil && obj.Parent != nil {
		obj = obj.Parent
	}
	return obj
}

func (e *Evaluator) evalIntLiteral(n *ast.IntLiteral) (runtime.Value, error) {
	raw := n.Raw
	base := 10
	switch {
	case len(raw) > 1 && (raw[1] == 'x' || raw[1] == 'X'):
		base, raw = 16, raw[2:]
	case len(raw) > 1 && (raw[1] == 'b' || raw[1] == 'B'):
		base, raw = 2, raw[2:]
	case len(raw) > 1 && (raw[1] == 'o' || raw[1] == 'O'):
		base, raw = 8, raw[2:]
	}
	i, ok := new(big.Int).SetString(raw, base)
	if !ok {
		return nil, errors.Eval(e.ModuleURI, n.Span(), "invalid integer literal %q", n.Raw)
	}
	return runtime.Int{Int: i}, nil
}

func (e *Evaluator) evalFloatLiteral(n *ast.FloatLiteral) (runtime.Value, error) {
	var f float64
	if _, err := fmt.Sscanf(n.Raw, "%g", &f); err != nil {
		return nil, errors.Eval(e.ModuleURI, n.Span(), "invalid float literal %q", n.Raw)
	}
	return runtime.Float(f), nil
}

func (e *Evaluator) evalStringLiteral(n *ast.StringLiteral, frame *runtime.Frame) (runtime.Value, error) {
	if n.IsPlain() {
		return runtime.String(n.Parts[0].Text), nil
	}
	var sb []byte
	for _, part := range n.Parts {
		if part.Expr == nil {
			sb = append(sb, part.Text...)
			continue
		}
		v, err := e.Eval(part.Expr, frame)
		if err != nil {
			return nil, err
		}
		sb = append(sb, v.String()...)
	}
	return runtime.String(sb), nil
}

func (e *Evaluator) evalIdentifier(n *ast.Identifier, frame *runtime.Frame) (runtime.Value, error) {
	if v, ok := frame.Get(n.Name); ok {
		return v, nil
	}
	if this := frame.ThisObject(); this != nil {
		if _, _, ok := this.Lookup(n.Name); ok {
			return e.GetMember(this, n.Name, n.Span())
		}
	}
	return nil, errors.Eval(e.ModuleURI, n.Span(), "cannot resolve name %q", n.Name)
}

func (e *Evaluator) evalMemberExpr(n *ast.MemberExpr, frame *runtime.Frame) (runtime.Value, error) {
	recv, err := e.Eval(n.Receiver, frame)
	if err != nil {
		return nil, err
	}
	if n.Optional {
		if _, isNull := recv.(runtime.Null); isNull {
			return runtime.Null{}, nil
		}
	}
	obj, ok := recv.(*runtime.Object)
	if !ok {
		return nil, errors.Type(e.ModuleURI, n.Span(), "cannot access property %q on a %s", n.Name, recv.Kind())
	}
	return e.GetMember(obj, n.Name, n.Span())
}

func (e *Evaluator) evalIndex(n *ast.IndexExpr, frame *runtime.Frame) (runtime.Value, error) {
	recv, err := e.Eval(n.Receiver, frame)
	if err != nil {
		return nil, err
	}
	idx, err := e.Eval(n.Index, frame)
	if err != nil {
		return nil, err
	}
	switch c := recv.(type) {
	case runtime.List:
		i, ok := idx.(runtime.Int)
		if !ok {
			return nil, errors.Type(e.ModuleURI, n.Span(), "List index must be an Int")
		}
		pos := int(i.Int64())
		if pos < 0 || pos >= len(c.Elements) {
			return nil, errors.Eval(e.ModuleURI, n.Span(), "index %d out of bounds for List of length %d", pos, len(c.Elements))
		}
		return c.Elements[pos], nil
	case *runtime.Map:
		for _, entry := range c.Entries {
			if entry.Key.String() == idx.String() {
				return entry.Value, nil
			}
		}
		return nil, errors.Eval(e.ModuleURI, n.Span(), "key %s not found in Map", idx)
	case *runtime.Object:
		return e.GetMember(c, idx.String(), n.Span())
	default:
		return nil, errors.Type(e.ModuleURI, n.Span(), "cannot index a %s", recv.Kind())
	}
}
