package ir

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestFunction() *Function {
	return NewFunction("f")
}

func TestUseAddsUserEntry(t *testing.T) {
	fn := newTestFunction()
	b := NewBuilder(fn)
	b.InsertReturn(nil)

	x := fn.Registry.ArgPseudo(0)
	y := fn.Registry.ValuePseudo(5)
	sum := b.BinOp(ADD, &IntType{Width: 32, Signed: true}, 32, x, y)

	require.Len(t, x.Users, 1)
	require.Equal(t, sum.Def, x.Users[0].Insn)
	require.Nil(t, y.Users) // VAL pseudos never track users
}

func TestRemoveUseClearsSlotAndEntry(t *testing.T) {
	fn := newTestFunction()
	b := NewBuilder(fn)
	b.InsertReturn(nil)

	x := fn.Registry.ArgPseudo(0)
	y := fn.Registry.ArgPseudo(1)
	sum := b.BinOp(ADD, &IntType{Width: 32, Signed: true}, 32, x, y)
	insn := sum.Def

	RemoveUse(&insn.Src1)
	require.Equal(t, Void, insn.Src1)
	require.Empty(t, x.Users)
	require.Len(t, y.Users, 1)
}

func TestKillUseCascadesWhenUseListEmpties(t *testing.T) {
	fn := newTestFunction()
	b := NewBuilder(fn)
	b.InsertReturn(nil)

	arg := fn.Registry.ArgPseudo(0)
	inner := b.UnOp(NEG, &IntType{Width: 32, Signed: true}, 32, arg)
	outer := b.UnOp(NEG, &IntType{Width: 32, Signed: true}, 32, inner)

	KillUse(&outer.Def.Src1)
	require.True(t, inner.Def.Dead())
}

func TestReplaceTargetRewiresEveryUser(t *testing.T) {
	fn := newTestFunction()
	b := NewBuilder(fn)
	b.InsertReturn(nil)

	arg := fn.Registry.ArgPseudo(0)
	a := b.BinOp(ADD, &IntType{Width: 32, Signed: true}, 32, arg, fn.Registry.ValuePseudo(1))
	c := b.BinOp(ADD, &IntType{Width: 32, Signed: true}, 32, a, a)

	replacement := fn.Registry.ValuePseudo(42)
	ReplaceTarget(a.Def, replacement)

	require.Equal(t, replacement, c.Def.Src1)
	require.Equal(t, replacement, c.Def.Src2)
	require.Empty(t, a.Users)
}

func TestSwitchPseudoKeepsUseListsConsistent(t *testing.T) {
	fn := newTestFunction()
	b := NewBuilder(fn)
	b.InsertReturn(nil)

	x := fn.Registry.ArgPseudo(0)
	y := fn.Registry.ArgPseudo(1)
	insn := &Instruction{Op: SUB, Type: &IntType{Width: 32, Signed: true}, Size: 32, BB: b.BB}
	fn.Registry.AllocReg(insn)
	use(insn, x, &insn.Src1)
	use(insn, y, &insn.Src2)

	SwitchPseudo(&insn.Src1, &insn.Src2)

	require.Equal(t, y, insn.Src1)
	require.Equal(t, x, insn.Src2)
	require.Equal(t, &insn.Src1, y.Users[0].Slot)
	require.Equal(t, &insn.Src2, x.Users[0].Slot)
}
