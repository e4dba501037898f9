package evaluator

import (
	"github.com/cwbudde/go-pkl/internal/ast"
	"github.com/cwbudde/go-pkl/internal/errors"
	"github.com/cwbudde/go-pkl/internal/interp/runtime"
	"github.com/cwbudde/go-pkl/pkg/token"
)

func (e *Evaluator) evalCall(n *ast.CallExpr, frame *runtime.Frame) (runtime.Value, error) {
	callee, err := e.Eval(n.Callee, frame)
	if err != nil {
		return nil, err
	}
	args := make([]runtime.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := e.Eval(a, frame)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return e.applyFunction(callee, args, n.Span())
}

func (e *Evaluator) applyFunction(callee runtime.Value, args []runtime.Value, span token.Span) (runtime.Value, error) {
	fn, ok := callee.(*runtime.Function)
	if !ok {
		return nil, errors.Type(e.ModuleURI, span, "cannot call a %s", callee.Kind())
	}
	if fn.Builtin != nil {
		return fn.Builtin(args)
	}
	if len(args) != len(fn.Params) {
		return nil, errors.Eval(e.ModuleURI, span, "function %s expects %d argument(s), got %d", fn.Name, len(fn.Params), len(args))
	}
	call := runtime.NewFrame(fn.Closure, nil)
	for i, p := range fn.Params {
		call.Set(p.Name, args[i])
	}
	return e.Eval(fn.Body, call)
}

func (e *Evaluator) evalRead(n *ast.ReadExpr, frame *runtime.Frame) (runtime.Value, error) {
	pathVal, err := e.Eval(n.Path, frame)
	if err != nil {
		return nil, err
	}
	uri := pathVal.String()
	if e.Resources == nil {
		return nil, errors.IO("no resource manager configured to read %q", uri)
	}

	if n.Kind == ast.ReadGlob {
		results, err := e.Resources.ReadGlob(uri)
		if err != nil {
			return nil, errors.IO("%v", err)
		}
		m := &runtime.Map{}
		for _, r := range results {
			m.Entries = append(m.Entries, runtime.MapEntry{Key: runtime.String(r.URI), Value: runtime.String(r.Content)})
		}
		return m, nil
	}

	content, err := e.Resources.Read(uri)
	if err != nil {
		if n.Kind == ast.ReadOptional {
			return runtime.Null{}, nil
		}
		return nil, errors.IO("%v", err)
	}
	return runtime.String(content), nil
}

func (e *Evaluator) evalImport(n *ast.ImportExpr) (runtime.Value, error) {
	if e.Loader == nil {
		return nil, errors.IO("no module loader configured to import %q", n.Path)
	}
	if n.Glob {
		mods, err := e.Loader.LoadGlob(e.ModuleURI, n.Path)
		if err != nil {
			return nil, err
		}
		m := &runtime.Map{}
		for _, match := range mods {
			m.Entries = append(m.Entries, runtime.MapEntry{Key: runtime.String(match.URI), Value: match.Object})
		}
		return m, nil
	}
	return e.Loader.Load(e.ModuleURI, n.Path)
}
