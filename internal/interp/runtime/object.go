package runtime

import (
	"fmt"

	"github.com/cwbudde/go-pkl/internal/ast"
)

// CellState is the three-state memoization lifecycle of a lazily-evaluated
// property, from spec.md §9: a property starts Uncomputed, flips to
// InProgress for the duration of its own evaluation (so a self-reference is
// caught as a cycle rather than silently re-entering), then settles at
// Computed with its value cached for the object's lifetime.
type CellState int

const (
	Uncomputed CellState = iota
	InProgress
	Computed
)

// Cell is one memoized slot: a property, element, or entry value that is
// evaluated at most once per Object.
type Cell struct {
	State CellState
	Value Value
	Err   error
}

// Member is an unevaluated object member: the syntax for a property's
// right-hand side plus the lexical Frame it closes over, kept separate from
// Cell so that amendment can graft new members onto a parent's chain without
// disturbing the parent's own memoized cells.
type Member struct {
	Name    string // "" for a Listing element, keyed by Index instead
	Index   int    // position for Listing elements, -1 for named/mapping members
	Key     Value  // set for Mapping entries
	Expr    ast.Expression
	Frame   *Frame
	Deleted bool
	cell    Cell
}

// CellState reports the member's memoization state without exposing the
// cell itself, so the evaluator can detect a self-referencing cycle
// (spec.md §9) before recursing into Expr.
func (m *Member) CellState() CellState { return m.cell.State }

// BeginEvaluation marks the member InProgress; callers must pair this with
// Finish to record the eventual Value or Err.
func (m *Member) BeginEvaluation() { m.cell.State = InProgress }

// Finish records the result of evaluating Expr and marks the cell Computed.
func (m *Member) Finish(v Value, err error) {
	m.cell.State = Computed
	m.cell.Value = v
	m.cell.Err = err
}

// Cached returns the memoized value/error once the cell is Computed.
func (m *Member) Cached() (Value, error) { return m.cell.Value, m.cell.Err }

// Object is a node in Pkl's amendment chain: `Parent` is the object being
// amended (nil at the root), `Own` holds this layer's newly-declared or
// overridden members, in declaration order so `for`-generated duplicates
// resolve last-wins.
type Object struct {
	Class    *Class
	Parent   *Object
	Own      []*Member
	ownIndex map[string]int // name -> index into Own, last write wins
}

func NewObject(class *Class, parent *Object) *Object {
	return &Object{Class: class, Parent: parent, ownIndex: make(map[string]int)}
}

// AddMember appends a member to this layer, recording its name in ownIndex
// so Lookup finds the most recently added definition first.
func (o *Object) AddMember(m *Member) {
	o.Own = append(o.Own, m)
	if m.Name != "" {
		o.ownIndex[m.Name] = len(o.Own) - 1
	}
}

// Lookup walks from this object up through Parent to find the member named
// name, honouring deletion: a Deleted member at this layer hides the
// parent's member of the same name entirely (spec.md §3's amendment rule).
func (o *Object) Lookup(name string) (*Member, *Object, bool) {
	for cur := o; cur != nil; cur = cur.Parent {
		if idx, ok := cur.ownIndex[name]; ok {
			m := cur.Own[idx]
			if m.Deleted {
				return nil, nil, false
			}
			return m, cur, true
		}
	}
	return nil, nil, false
}

// LookupFromSuper behaves like Lookup but starts searching at this object's
// Parent, implementing `super.name`'s "parent of the definition, not of
// `this`" binding rule (spec.md §4.5).
func (o *Object) LookupFromSuper(name string) (*Member, *Object, bool) {
	if o.Parent == nil {
		return nil, nil, false
	}
	return o.Parent.Lookup(name)
}

// Members returns the object's visible member names in effective order:
// parent-first, with each name appearing once at the position of its first
// (root-most) definition and deleted names dropped; a name re-defined after
// its deletion appears at the position of that re-definition.
func (o *Object) Members() []string {
	seen := make(map[string]bool)
	var chain []*Object
	for cur := o; cur != nil; cur = cur.Parent {
		chain = append(chain, cur)
	}
	var names []string
	for i := len(chain) - 1; i >= 0; i-- {
		for _, m := range chain[i].Own {
			if m.Name == "" {
				continue
			}
			if m.Deleted {
				for j, name := range names {
					if name == m.Name {
						names = append(names[:j], names[j+1:]...)
						break
					}
				}
				delete(seen, m.Name)
				continue
			}
			if !seen[m.Name] {
				names = append(names, m.Name)
			}
			seen[m.Name] = true
		}
	}
	return names
}

func (o *Object) Kind() Kind { return KindTyped }
func (o *Object) String() string {
	if o.Class != nil {
		return fmt.Sprintf("%s { ... }", o.Class.Name)
	}
	return "{ ... }"
}

// Class describes a Pkl class or module: its superclass link, declared
// property/method templates (not yet evaluated - those live on Object
// instances), and the modifiers that gate instantiation (spec.md §3).
type Class struct {
	Name       string
	Super      *Class
	Abstract   bool
	Open       bool
	Properties []*ast.PropertyDecl
	Methods    []*ast.FunctionDecl
}

func (*Class) Kind() Kind       { return KindClass }
func (c *Class) String() string { return "class " + c.Name }

// IsSubclassOf reports whether c is t or descends from t.
func (c *Class) IsSubclassOf(t *Class) bool {
	for cur := c; cur != nil; cur = cur.Super {
		if cur == t {
			return true
		}
	}
	return false
}

// Frame is a lexical environment: local `let`-bindings and, via This, the
// object an expression's `this`/`super` resolve against (`super` through
// This's Parent). Frames chain to
// an Outer frame for closures captured by function literals.
type Frame struct {
	Outer *Frame
	Vars  map[string]Value
	This  *Object
}

func NewFrame(outer *Frame, this *Object) *Frame {
	return &Frame{Outer: outer, Vars: make(map[string]Value), This: this}
}

func (f *Frame) Get(name string) (Value, bool) {
	for cur := f; cur != nil; cur = cur.Outer {
		if v, ok := cur.Vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

func (f *Frame) Set(name string, v Value) { f.Vars[name] = v }

// ThisObject returns the nearest enclosing `this` binding, searching outward
// through closures (a function literal's body still sees the `this` of the
// object it was defined in, unless it defines its own).
func (f *Frame) ThisObject() *Object {
	for cur := f; cur != nil; cur = cur.Outer {
		if cur.This != nil {
			return cur.This
		}
	}
	return nil
}
