package runtime_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/go-pkl/internal/interp/runtime"
)

func TestSet_DeduplicatesByStringForm(t *testing.T) {
	s := runtime.NewSet([]runtime.Value{
		runtime.NewInt(1), runtime.NewInt(2), runtime.NewInt(1),
	})
	require.Len(t, s.Elements, 2, "duplicate element collapses")
	require.True(t, s.Contains(runtime.NewInt(1)))
	require.True(t, s.Contains(runtime.NewInt(2)))
	require.False(t, s.Contains(runtime.NewInt(3)))
}

func TestSet_PreservesInsertionOrder(t *testing.T) {
	s := runtime.NewSet([]runtime.Value{runtime.String("c"), runtime.String("a"), runtime.String("b")})
	var out []string
	for _, e := range s.Elements {
		out = append(out, e.String())
	}
	require.Equal(t, []string{"c", "a", "b"}, out)
}

func TestMember_MemoizationLifecycle(t *testing.T) {
	m := &runtime.Member{Name: "x"}
	require.Equal(t, runtime.Uncomputed, m.CellState())

	m.BeginEvaluation()
	require.Equal(t, runtime.InProgress, m.CellState())

	m.Finish(runtime.NewInt(42), nil)
	require.Equal(t, runtime.Computed, m.CellState())

	v, err := m.Cached()
	require.NoError(t, err)
	require.Equal(t, runtime.NewInt(42), v)
}

func TestObject_LookupWalksParentChain(t *testing.T) {
	parent := runtime.NewObject(&runtime.Class{Name: "Base"}, nil)
	parentMember := &runtime.Member{Name: "a", Index: -1}
	parentMember.Finish(runtime.String("from parent"), nil)
	parent.AddMember(parentMember)

	child := runtime.NewObject(&runtime.Class{Name: "Base"}, parent)
	childMember := &runtime.Member{Name: "b", Index: -1}
	childMember.Finish(runtime.String("from child"), nil)
	child.AddMember(childMember)

	m, owner, ok := child.Lookup("a")
	require.True(t, ok)
	require.Same(t, parent, owner)
	v, _ := m.Cached()
	require.Equal(t, runtime.String("from parent"), v)

	_, _, ok = child.Lookup("a")
	require.True(t, ok)
}

func TestObject_ChildOverridesParent(t *testing.T) {
	parent := runtime.NewObject(&runtime.Class{Name: "Base"}, nil)
	pm := &runtime.Member{Name: "x", Index: -1}
	pm.Finish(runtime.NewInt(1), nil)
	parent.AddMember(pm)

	child := runtime.NewObject(&runtime.Class{Name: "Base"}, parent)
	cm := &runtime.Member{Name: "x", Index: -1}
	cm.Finish(runtime.NewInt(2), nil)
	child.AddMember(cm)

	m, owner, ok := child.Lookup("x")
	require.True(t, ok)
	require.Same(t, child, owner)
	v, _ := m.Cached()
	require.Equal(t, runtime.NewInt(2), v)
}

func TestObject_DeletedMemberHidesParent(t *testing.T) {
	parent := runtime.NewObject(&runtime.Class{Name: "Base"}, nil)
	pm := &runtime.Member{Name: "x", Index: -1}
	pm.Finish(runtime.NewInt(1), nil)
	parent.AddMember(pm)

	child := runtime.NewObject(&runtime.Class{Name: "Base"}, parent)
	child.AddMember(&runtime.Member{Name: "x", Index: -1, Deleted: true})

	_, _, ok := child.Lookup("x")
	require.False(t, ok, "a Deleted member at this layer hides the parent's member entirely")
}

func TestObject_LookupFromSuperSkipsDefiningLevel(t *testing.T) {
	grandparent := runtime.NewObject(&runtime.Class{Name: "Base"}, nil)
	gm := &runtime.Member{Name: "x", Index: -1}
	gm.Finish(runtime.NewInt(10), nil)
	grandparent.AddMember(gm)

	parent := runtime.NewObject(&runtime.Class{Name: "Base"}, grandparent)
	pm := &runtime.Member{Name: "x", Index: -1}
	pm.Finish(runtime.NewInt(20), nil)
	parent.AddMember(pm)

	child := runtime.NewObject(&runtime.Class{Name: "Base"}, parent)

	m, _, ok := child.LookupFromSuper("x")
	require.True(t, ok)
	v, _ := m.Cached()
	require.Equal(t, runtime.NewInt(20), v, "super at child starts search at parent, not grandparent")
}

func TestObject_MembersOrderedParentFirstLastWins(t *testing.T) {
	parent := runtime.NewObject(&runtime.Class{Name: "Base"}, nil)
	parent.AddMember(&runtime.Member{Name: "a", Index: -1})
	parent.AddMember(&runtime.Member{Name: "b", Index: -1})

	child := runtime.NewObject(&runtime.Class{Name: "Base"}, parent)
	child.AddMember(&runtime.Member{Name: "c", Index: -1})

	require.Equal(t, []string{"a", "b", "c"}, child.Members())
}

func TestClass_IsSubclassOf(t *testing.T) {
	base := &runtime.Class{Name: "Base"}
	mid := &runtime.Class{Name: "Mid", Super: base}
	leaf := &runtime.Class{Name: "Leaf", Super: mid}

	require.True(t, leaf.IsSubclassOf(base))
	require.True(t, leaf.IsSubclassOf(leaf))
	require.False(t, base.IsSubclassOf(leaf))
}

func TestFrame_GetWalksOuterChainAndThisObjectSkipsClosures(t *testing.T) {
	this := runtime.NewObject(&runtime.Class{Name: "M"}, nil)
	outer := runtime.NewFrame(nil, this)
	outer.Set("x", runtime.NewInt(1))

	inner := runtime.NewFrame(outer, nil)
	v, ok := inner.Get("x")
	require.True(t, ok)
	require.Equal(t, runtime.NewInt(1), v)

	require.Same(t, this, inner.ThisObject(), "function literal body sees the enclosing this unless it defines its own")
}
