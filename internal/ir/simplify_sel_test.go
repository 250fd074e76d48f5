package ir

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSimplifySelConstantConditionCollapses(t *testing.T) {
	fn := newTestFunction()
	b := NewBuilder(fn)
	whenTrue := fn.Registry.ArgPseudo(0)
	whenFalse := fn.Registry.ArgPseudo(1)
	sel := b.InsertSelect(i32(), 32, fn.Registry.ValuePseudo(1), whenTrue, whenFalse)
	b.InsertReturn(sel)

	Simplify(fn, sel.Def, DiscardSink)

	require.Equal(t, whenTrue, fn.Entry.Terminator.Src1)
	require.True(t, sel.Def.Dead())
	require.Empty(t, whenFalse.Users)
}

func TestSimplifySelSameValueCollapses(t *testing.T) {
	fn := newTestFunction()
	b := NewBuilder(fn)
	arg := fn.Registry.ArgPseudo(0)
	shared := fn.Registry.ArgPseudo(1)
	sel := b.InsertSelect(i32(), 32, arg, shared, shared)
	b.InsertReturn(sel)

	Simplify(fn, sel.Def, DiscardSink)

	require.Equal(t, shared, fn.Entry.Terminator.Src1)
	require.True(t, sel.Def.Dead())
}

func TestSimplifySelBooleanIdentityRewritesToSetNeOfCondition(t *testing.T) {
	fn := newTestFunction()
	b := NewBuilder(fn)
	arg := fn.Registry.ArgPseudo(0)
	cond := b.BinOp(SET_LT, &IntType{Width: 1}, 32, arg, fn.Registry.ValuePseudo(10))
	sel := b.InsertSelect(&IntType{Width: 1}, 1, cond, fn.Registry.ValuePseudo(1), fn.Registry.ValuePseudo(0))
	b.InsertReturn(sel)

	Simplify(fn, sel.Def, DiscardSink)

	// sel(c,1,0) must become set_ne(c,0), not a bare copy of c: for a
	// non-boolean cond the select's result is the boolean 1, which only
	// set_ne(c,0) reproduces.
	require.Equal(t, SET_NE, sel.Def.Op)
	require.Equal(t, cond, sel.Def.Src1)
	require.True(t, sel.Def.Src2.Kind == PVal && sel.Def.Src2.Value == 0)
	require.Equal(t, sel, fn.Entry.Terminator.Src1)
}

func TestSimplifySelNonCompareBooleanIdentityRewritesToSetEq(t *testing.T) {
	fn := newTestFunction()
	b := NewBuilder(fn)
	arg := fn.Registry.ArgPseudo(0)
	sel := b.InsertSelect(&IntType{Width: 1}, 1, arg, fn.Registry.ValuePseudo(0), fn.Registry.ValuePseudo(1))
	b.InsertReturn(sel)

	Simplify(fn, sel.Def, DiscardSink)

	// sel(c,0,1) with a non-compare cond has no compare to negate
	// directly, so it falls back to set_eq(c,0).
	require.Equal(t, SET_EQ, sel.Def.Op)
	require.Equal(t, arg, sel.Def.Src1)
	require.True(t, sel.Def.Src2.Kind == PVal && sel.Def.Src2.Value == 0)
	require.Equal(t, sel, fn.Entry.Terminator.Src1)
}

func TestSimplifySelNegatedBooleanRewritesToCompare(t *testing.T) {
	fn := newTestFunction()
	b := NewBuilder(fn)
	arg := fn.Registry.ArgPseudo(0)
	cond := b.BinOp(SET_LT, &IntType{Width: 1}, 32, arg, fn.Registry.ValuePseudo(10))
	sel := b.InsertSelect(&IntType{Width: 1}, 32, cond, fn.Registry.ValuePseudo(0), fn.Registry.ValuePseudo(1))
	b.InsertReturn(sel)

	Simplify(fn, sel.Def, DiscardSink)

	require.Equal(t, SET_GE, sel.Def.Op)
	require.Equal(t, arg, sel.Def.Src1)
	require.True(t, sel.Def.Src2.Kind == PVal && sel.Def.Src2.Value == 10)
	require.Equal(t, sel, fn.Entry.Terminator.Src1)
}
