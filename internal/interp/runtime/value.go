// Package runtime defines the value model the evaluator produces and the
// object/frame machinery backing Pkl's lazy amendment semantics (spec.md
// §3, §9). It has no dependency on internal/ast's concrete node types beyond
// what it needs to hold an unevaluated expression closure.
package runtime

import (
	"fmt"
	"math/big"

	"github.com/emirpasic/gods/v2/maps/linkedhashmap"

	"github.com/cwbudde/go-pkl/internal/ast"
)

// Kind tags a Value's dynamic type for fast dispatch in the evaluator and
// renderers, mirroring the teacher's variant-kind enum (internal/interp
// value.go) rather than relying purely on Go type switches.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindDuration
	KindDataSize
	KindPair
	KindList
	KindSet
	KindMap
	KindListing
	KindMapping
	KindTyped // Dynamic or a user/stdlib class instance
	KindFunction
	KindClass
	KindModule
	KindRegex
	KindNothing
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Boolean"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindDuration:
		return "Duration"
	case KindDataSize:
		return "DataSize"
	case KindPair:
		return "Pair"
	case KindList:
		return "List"
	case KindSet:
		return "Set"
	case KindMap:
		return "Map"
	case KindListing:
		return "Listing"
	case KindMapping:
		return "Mapping"
	case KindTyped:
		return "Typed"
	case KindFunction:
		return "Function"
	case KindClass:
		return "Class"
	case KindModule:
		return "Module"
	case KindRegex:
		return "Regex"
	case KindNothing:
		return "nothing"
	default:
		return "unknown"
	}
}

// Value is any fully-evaluated Pkl runtime value.
type Value interface {
	Kind() Kind
	String() string
}

type Null struct{}

func (Null) Kind() Kind     { return KindNull }
func (Null) String() string { return "null" }

type Bool bool

func (Bool) Kind() Kind        { return KindBool }
func (b Bool) String() string  { return fmt.Sprintf("%t", bool(b)) }

// Int holds an arbitrary-precision integer; the evaluator's integer
// arithmetic reports a result outside the signed 64-bit range as an
// overflow error rather than wrapping.
type Int struct{ *big.Int }

func NewInt(i int64) Int       { return Int{big.NewInt(i)} }
func (Int) Kind() Kind         { return KindInt }
func (v Int) String() string   { return v.Int.String() }

type Float float64

func (Float) Kind() Kind       { return KindFloat }
func (f Float) String() string { return fmt.Sprintf("%g", float64(f)) }

type String string

func (String) Kind() Kind        { return KindString }
func (s String) String() string  { return string(s) }

// Duration is a quantity with a Pkl time unit ("ns","us","ms","s","min","h","d").
type Duration struct {
	Value float64
	Unit  string
}

func (Duration) Kind() Kind      { return KindDuration }
func (d Duration) String() string { return fmt.Sprintf("%g.%s", d.Value, d.Unit) }

// DataSize is a quantity with a Pkl data unit ("b","kb","mb","gb","tb","kib", ...).
type DataSize struct {
	Value float64
	Unit  string
}

func (DataSize) Kind() Kind      { return KindDataSize }
func (d DataSize) String() string { return fmt.Sprintf("%g.%s", d.Value, d.Unit) }

type Pair struct{ First, Second Value }

func (Pair) Kind() Kind       { return KindPair }
func (p Pair) String() string { return fmt.Sprintf("Pair(%s, %s)", p.First, p.Second) }

type List struct{ Elements []Value }

func (List) Kind() Kind       { return KindList }
func (l List) String() string { return fmt.Sprintf("List(%d elements)", len(l.Elements)) }

// Set preserves insertion order (spec.md's iteration-order guarantee) while
// still supporting O(1) membership, backed by gods' linkedhashmap keyed on
// each element's String() form (Value itself isn't safely comparable - a List
// or Pair element embeds a slice) so the original elements stay retrievable
// in the order they were added.
type Set struct {
	entries  *linkedhashmap.Map[string, Value]
	Elements []Value
}

func NewSet(elements []Value) *Set {
	s := &Set{entries: linkedhashmap.New[string, Value]()}
	for _, e := range elements {
		if _, exists := s.entries.Get(e.String()); exists {
			continue
		}
		s.entries.Put(e.String(), e)
		s.Elements = append(s.Elements, e)
	}
	return s
}

func (s *Set) Contains(v Value) bool { _, ok := s.entries.Get(v.String()); return ok }
func (*Set) Kind() Kind              { return KindSet }
func (s *Set) String() string        { return fmt.Sprintf("Set(%d elements)", len(s.Elements)) }

// MapEntry preserves declaration order for Map/Mapping rendering.
type MapEntry struct {
	Key   Value
	Value Value
}

type Map struct{ Entries []MapEntry }

func (*Map) Kind() Kind       { return KindMap }
func (m *Map) String() string { return fmt.Sprintf("Map(%d entries)", len(m.Entries)) }

// Function is a closure: either a user-defined Pkl function/method or a
// builtin implemented in Go.
type Function struct {
	Name    string
	Params  []ast.Param
	Body    ast.Expression
	Closure *Frame
	Builtin func(args []Value) (Value, error)
}

func (*Function) Kind() Kind       { return KindFunction }
func (f *Function) String() string { return fmt.Sprintf("function %s", f.Name) }

// Regex wraps a compiled pattern; Pkl's Regex type is opaque to user code
// beyond matches()/...
type Regex struct {
	Pattern string
}

func (Regex) Kind() Kind       { return KindRegex }
func (r Regex) String() string { return "Regex(" + r.Pattern + ")" }
