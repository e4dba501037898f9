package evaluator

import (
	"github.com/cwbudde/go-pkl/internal/ast"
	"github.com/cwbudde/go-pkl/internal/errors"
	"github.com/cwbudde/go-pkl/internal/interp/runtime"
)

// evalObjectLiteral builds a fresh Object (TypeHint set for `new Type {}`,
// nil for a bare `{ }`). A literal with Base set (the `(base) { ... }`
// form) is an amendment and goes through evalAmend, which evaluates Base to
// find the parent Object first.
func (e *Evaluator) evalObjectLiteral(n *ast.ObjectLiteral, frame *runtime.Frame) (runtime.Value, error) {
	if n.Base != nil {
		return e.evalAmend(&ast.AmendedExpr{BaseNode: n.BaseNode, Target: n.Base, Body: n}, frame)
	}
	var class *runtime.Class
	if n.TypeHint != nil {
		if nom, ok := n.TypeHint.(*ast.NominalType); ok {
			class = e.Classes[nom.Name]
			if class == nil {
				class = &runtime.Class{Name: nom.Name}
			}
		}
	}
	if class == nil {
		class = &runtime.Class{Name: "Dynamic"}
	}
	obj := runtime.NewObject(class, nil)
	return obj, e.populateMembers(obj, n.Members, frame)
}

// evalAmend evaluates the target expression to find the object (or
// function) being amended, then layers a new Object on top of it whose
// Parent is the evaluated target, per spec.md §4.5.
func (e *Evaluator) evalAmend(n *ast.AmendedExpr, frame *runtime.Frame) (runtime.Value, error) {
	target, err := e.Eval(n.Target, frame)
	if err != nil {
		return nil, err
	}
	if fn, ok := target.(*runtime.Function); ok {
		// Amending a function/call result with an object body applies the
		// body as the function's sole argument, per spec.md §4.5.
		argObj := runtime.NewObject(&runtime.Class{Name: "Dynamic"}, nil)
		if err := e.populateMembers(argObj, n.Body.Members, frame); err != nil {
			return nil, err
		}
		return e.applyFunction(fn, []runtime.Value{argObj}, n.Span())
	}
	parent, ok := target.(*runtime.Object)
	if !ok {
		return nil, errors.Type(e.ModuleURI, n.Span(), "cannot amend a %s", target.Kind())
	}
	obj := runtime.NewObject(parent.Class, parent)
	return obj, e.populateMembers(obj, n.Body.Members, frame)
}

// populateMembers expands `for`/`when`/`...spread` structure eagerly and
// adds the resulting concrete members to obj, leaving each member's value
// expression unevaluated (memoized lazily on first read).
func (e *Evaluator) populateMembers(obj *runtime.Object, members []ast.ObjectMember, frame *runtime.Frame) error {
	inner := runtime.NewFrame(frame, obj)
	elemIndex := 0
	for cur := obj; cur != nil; cur = cur.Parent {
		for _, m := range cur.Own {
			if m.Index >= elemIndex {
				elemIndex = m.Index + 1
			}
		}
	}
	return e.expandInto(obj, members, inner, &elemIndex)
}

func (e *Evaluator) expandInto(obj *runtime.Object, members []ast.ObjectMember, frame *runtime.Frame, elemIndex *int) error {
	for _, raw := range members {
		switch m := raw.(type) {
		case *ast.ObjectProperty:
			obj.AddMember(&runtime.Member{Name: m.Name, Index: -1, Expr: m.Value, Frame: frame})

		case *ast.ObjectElement:
			idx := *elemIndex
			*elemIndex++
			obj.AddMember(&runtime.Member{Index: idx, Expr: m.Value, Frame: frame})

		case *ast.ObjectEntry:
			key, err := e.Eval(m.Key, frame)
			if err != nil {
				return err
			}
			// Entries are looked up by their key's rendered form, same as a
			// named property; this keeps Object.Lookup as the single
			// member-resolution path for both Mapping entries and
			// properties (spec.md §3 treats both as named members).
			obj.AddMember(&runtime.Member{Name: key.String(), Index: -1, Key: key, Expr: m.Value, Frame: frame})

		case *ast.ObjectMethod:
			obj.AddMember(&runtime.Member{
				Name: m.Decl.Name, Index: -1, Frame: frame,
				Expr: &ast.FunctionLiteral{BaseNode: m.Decl.BaseNode, Params: m.Decl.Params, Body: m.Decl.Body},
			})

		case *ast.ForGenerator:
			if err := e.expandForGenerator(obj, m, frame, elemIndex); err != nil {
				return err
			}

		case *ast.WhenGenerator:
			cond, err := e.Eval(m.Cond, frame)
			if err != nil {
				return err
			}
			b, ok := cond.(runtime.Bool)
			if !ok {
				return errors.Type(e.ModuleURI, m.Span(), "when condition must be a Boolean")
			}
			branch := m.Else
			if bool(b) {
				branch = m.Then
			}
			if err := e.expandInto(obj, branch, frame, elemIndex); err != nil {
				return err
			}

		case *ast.SpreadMember:
			if err := e.expandSpread(obj, m, frame, elemIndex); err != nil {
				return err
			}

		case *ast.DeleteMember:
			key, err := e.Eval(m.Key, frame)
			if err != nil {
				return err
			}
			obj.AddMember(&runtime.Member{Name: key.String(), Index: -1, Deleted: true})

		default:
			return errors.Internal("unhandled object member type %T", raw)
		}
	}
	return nil
}

func (e *Evaluator) expandForGenerator(obj *runtime.Object, gen *ast.ForGenerator, frame *runtime.Frame, elemIndex *int) error {
	iterable, err := e.Eval(gen.Iterable, frame)
	if err != nil {
		return err
	}
	bind := func(key, value runtime.Value) *runtime.Frame {
		f := runtime.NewFrame(frame, nil)
		if gen.KeyName != "" {
			f.Set(gen.KeyName, key)
		}
		f.Set(gen.ValueName, value)
		return f
	}

	switch it := iterable.(type) {
	case runtime.List:
		for i, v := range it.Elements {
			if err := e.expandInto(obj, gen.Body, bind(runtime.NewInt(int64(i)), v), elemIndex); err != nil {
				return err
			}
		}
	case *runtime.Set:
		for _, v := range it.Elements {
			if err := e.expandInto(obj, gen.Body, bind(v, v), elemIndex); err != nil {
				return err
			}
		}
	case *runtime.Map:
		for _, entry := range it.Entries {
			if err := e.expandInto(obj, gen.Body, bind(entry.Key, entry.Value), elemIndex); err != nil {
				return err
			}
		}
	case *runtime.Object:
		for _, name := range it.Members() {
			v, err := e.GetMember(it, name, gen.Span())
			if err != nil {
				return err
			}
			if err := e.expandInto(obj, gen.Body, bind(runtime.String(name), v), elemIndex); err != nil {
				return err
			}
		}
	default:
		return errors.Type(e.ModuleURI, gen.Span(), "cannot iterate over a %s", iterable.Kind())
	}
	return nil
}

func (e *Evaluator) expandSpread(obj *runtime.Object, s *ast.SpreadMember, frame *runtime.Frame, elemIndex *int) error {
	v, err := e.Eval(s.Value, frame)
	if err != nil {
		return err
	}
	if _, isNull := v.(runtime.Null); isNull {
		if s.Nullable {
			return nil
		}
		return errors.Eval(e.ModuleURI, s.Span(), "spread target is null")
	}
	switch src := v.(type) {
	case *runtime.Object:
		for _, name := range src.Members() {
			m, _, _ := src.Lookup(name)
			obj.AddMember(&runtime.Member{Name: name, Index: -1, Expr: m.Expr, Frame: m.Frame})
		}
	case runtime.List:
		for _, elem := range src.Elements {
			idx := *elemIndex
			*elemIndex++
			mem := &runtime.Member{Index: idx}
			mem.Finish(elem, nil)
			obj.AddMember(mem)
		}
	case *runtime.Map:
		for _, entry := range src.Entries {
			mem := &runtime.Member{Name: entry.Key.String(), Index: -1, Key: entry.Key}
			mem.Finish(entry.Value, nil)
			obj.AddMember(mem)
		}
	default:
		return errors.Type(e.ModuleURI, s.Span(), "cannot spread a %s", v.Kind())
	}
	return nil
}
