package evaluator

import (
	"math/big"

	"github.com/cwbudde/go-pkl/internal/ast"
	"github.com/cwbudde/go-pkl/internal/errors"
	"github.com/cwbudde/go-pkl/internal/interp/runtime"
	"github.com/cwbudde/go-pkl/pkg/token"
)

// EvalPredicate evaluates a ConstrainedType predicate with `this` bound to
// candidate, satisfying internal/interp/types.Evaluator.
func (e *Evaluator) EvalPredicate(expr ast.Expression, frame *runtime.Frame, candidate runtime.Value) (bool, error) {
	obj, isObj := candidate.(*runtime.Object)
	inner := frame
	if isObj {
		inner = runtime.NewFrame(frame, obj)
	} else {
		inner = runtime.NewFrame(frame, nil)
		inner.Set("this", candidate)
	}
	v, err := e.Eval(expr, inner)
	if err != nil {
		return false, err
	}
	b, ok := v.(runtime.Bool)
	if !ok {
		return false, errors.Type(e.ModuleURI, expr.Span(), "constraint predicate must evaluate to a Boolean")
	}
	return bool(b), nil
}

func (e *Evaluator) evalUnary(n *ast.UnaryExpr, frame *runtime.Frame) (runtime.Value, error) {
	v, err := e.Eval(n.Operand, frame)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case token.NOT:
		b, ok := v.(runtime.Bool)
		if !ok {
			return nil, errors.Type(e.ModuleURI, n.Span(), "'!' requires a Boolean operand")
		}
		return !b, nil
	case token.MINUS:
		switch num := v.(type) {
		case runtime.Int:
			return runtime.Int{Int: new(big.Int).Neg(num.Int)}, nil
		case runtime.Float:
			return -num, nil
		default:
			return nil, errors.Type(e.ModuleURI, n.Span(), "unary '-' requires a numeric operand")
		}
	case token.NON_NULL:
		if _, isNull := v.(runtime.Null); isNull {
			return nil, errors.Eval(e.ModuleURI, n.Span(), "non-null assertion failed: value is null")
		}
		return v, nil
	default:
		return nil, errors.Internal("unhandled unary operator %v", n.Op)
	}
}

func (e *Evaluator) evalBinary(n *ast.BinaryExpr, frame *runtime.Frame) (runtime.Value, error) {
	// && and || short-circuit, so the right operand is evaluated lazily.
	if n.Op == token.AND || n.Op == token.OR {
		left, err := e.Eval(n.Left, frame)
		if err != nil {
			return nil, err
		}
		lb, ok := left.(runtime.Bool)
		if !ok {
			return nil, errors.Type(e.ModuleURI, n.Span(), "'%v' requires Boolean operands", n.Op)
		}
		if n.Op == token.AND && !bool(lb) {
			return runtime.Bool(false), nil
		}
		if n.Op == token.OR && bool(lb) {
			return runtime.Bool(true), nil
		}
		right, err := e.Eval(n.Right, frame)
		if err != nil {
			return nil, err
		}
		rb, ok := right.(runtime.Bool)
		if !ok {
			return nil, errors.Type(e.ModuleURI, n.Span(), "'%v' requires Boolean operands", n.Op)
		}
		return rb, nil
	}

	if n.Op == token.COALESCE {
		left, err := e.Eval(n.Left, frame)
		if err != nil {
			return nil, err
		}
		if _, isNull := left.(runtime.Null); !isNull {
			return left, nil
		}
		return e.Eval(n.Right, frame)
	}

	left, err := e.Eval(n.Left, frame)
	if err != nil {
		return nil, err
	}
	right, err := e.Eval(n.Right, frame)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case token.EQ:
		return runtime.Bool(valuesEqual(left, right)), nil
	case token.NEQ:
		return runtime.Bool(!valuesEqual(left, right)), nil
	}

	if n.Op == token.PLUS {
		if ls, ok := left.(runtime.String); ok {
			return ls + runtime.String(right.String()), nil
		}
		if ll, ok := left.(runtime.List); ok {
			if rl, ok := right.(runtime.List); ok {
				out := append(append([]runtime.Value{}, ll.Elements...), rl.Elements...)
				return runtime.List{Elements: out}, nil
			}
		}
	}

	return e.arith(n.Op, left, right, n.Span())
}

func (e *Evaluator) arith(op token.Type, left, right runtime.Value, span token.Span) (runtime.Value, error) {
	li, lIsInt := left.(runtime.Int)
	ri, rIsInt := right.(runtime.Int)
	if lIsInt && rIsInt {
		return e.intArith(op, li, ri, span)
	}
	lf, lok := toFloat(left)
	rf, rok := toFloat(right)
	if !lok || !rok {
		return nil, errors.Type(e.ModuleURI, span, "'%v' requires numeric operands, got %s and %s", op, left.Kind(), right.Kind())
	}
	switch op {
	case token.PLUS:
		return runtime.Float(lf + rf), nil
	case token.MINUS:
		return runtime.Float(lf - rf), nil
	case token.STAR:
		return runtime.Float(lf * rf), nil
	case token.SLASH:
		return runtime.Float(lf / rf), nil
	case token.PERCENT:
		return runtime.Float(mod(lf, rf)), nil
	case token.LT:
		return runtime.Bool(lf < rf), nil
	case token.GT:
		return runtime.Bool(lf > rf), nil
	case token.LE:
		return runtime.Bool(lf <= rf), nil
	case token.GE:
		return runtime.Bool(lf >= rf), nil
	default:
		return nil, errors.Internal("unhandled binary operator %v", op)
	}
}

func (e *Evaluator) intArith(op token.Type, l, r runtime.Int, span token.Span) (runtime.Value, error) {
	z := new(big.Int)
	switch op {
	case token.PLUS:
		z.Add(l.Int, r.Int)
	case token.MINUS:
		z.Sub(l.Int, r.Int)
	case token.STAR:
		z.Mul(l.Int, r.Int)
	case token.INT_DIV:
		if r.Sign() == 0 {
			return nil, errors.Eval(e.ModuleURI, span, "division by zero")
		}
		z.Quo(l.Int, r.Int)
	case token.SLASH:
		lf, _ := new(big.Float).SetInt(l.Int).Float64()
		rf, _ := new(big.Float).SetInt(r.Int).Float64()
		return runtime.Float(lf / rf), nil
	case token.PERCENT:
		if r.Sign() == 0 {
			return nil, errors.Eval(e.ModuleURI, span, "division by zero")
		}
		z.Mod(l.Int, r.Int)
	case token.LT:
		return runtime.Bool(l.Cmp(r.Int) < 0), nil
	case token.GT:
		return runtime.Bool(l.Cmp(r.Int) > 0), nil
	case token.LE:
		return runtime.Bool(l.Cmp(r.Int) <= 0), nil
	case token.GE:
		return runtime.Bool(l.Cmp(r.Int) >= 0), nil
	default:
		return nil, errors.Internal("unhandled integer operator %v", op)
	}
	if !z.IsInt64() {
		return nil, errors.Eval(e.ModuleURI, span, "integer overflow")
	}
	return runtime.Int{Int: z}, nil
}

func toFloat(v runtime.Value) (float64, bool) {
	switch n := v.(type) {
	case runtime.Float:
		return float64(n), true
	case runtime.Int:
		f, _ := new(big.Float).SetInt(n.Int).Float64()
		return f, true
	default:
		return 0, false
	}
}

func mod(a, b float64) float64 {
	m := a - b*float64(int64(a/b))
	return m
}

func valuesEqual(a, b runtime.Value) bool {
	if a.Kind() != b.Kind() {
		// Int and Float still compare equal across kinds, like Pkl's Number.
		af, aok := toFloat(a)
		bf, bok := toFloat(b)
		if aok && bok {
			return af == bf
		}
		return false
	}
	return a.String() == b.String()
}
