package ir

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSimplifyPhiCollapsesWhenAllInputsAgree(t *testing.T) {
	fn := newTestFunction()
	arg := fn.Registry.ArgPseudo(0)

	left := fn.NewBlock("left")
	right := fn.NewBlock("right")
	join := fn.NewBlock("join")
	b := NewBuilder(fn)
	b.SetBlock(fn.Entry)
	b.InsertBranch(arg, left, right)
	b.SetBlock(left)
	b.InsertJump(join)
	b.SetBlock(right)
	b.InsertJump(join)

	b.SetBlock(join)
	phi := b.InsertPhi(i32())
	AppendPhiInput(phi, left, arg)
	AppendPhiInput(phi, right, arg)
	b.InsertReturn(phi.Target)

	mask := simplifyPhi(fn, phi)

	require.True(t, mask.Has(RepeatCSE))
	require.Equal(t, arg, join.Terminator.Src1)
	require.True(t, phi.Dead())
}

func TestSimplifyPhiIfConvertsTrivialDiamond(t *testing.T) {
	fn := newTestFunction()
	cond := fn.Registry.ArgPseudo(0)

	left := fn.NewBlock("left")
	right := fn.NewBlock("right")
	join := fn.NewBlock("join")
	b := NewBuilder(fn)
	b.SetBlock(fn.Entry)
	b.InsertBranch(cond, left, right)
	b.SetBlock(left)
	b.InsertJump(join)
	b.SetBlock(right)
	b.InsertJump(join)

	trueVal := fn.Registry.ValuePseudo(1)
	falseVal := fn.Registry.ValuePseudo(2)

	b.SetBlock(join)
	phi := b.InsertPhi(i32())
	AppendPhiInput(phi, left, trueVal)
	AppendPhiInput(phi, right, falseVal)
	b.InsertReturn(phi.Target)

	mask := simplifyPhi(fn, phi)

	require.True(t, mask.Has(RepeatCSE))
	require.Equal(t, SEL, phi.Op)
	require.Equal(t, cond, phi.Src1)
	require.Equal(t, trueVal, phi.Src2)
	require.Equal(t, falseVal, phi.Src3)
	require.Nil(t, phi.PhiInputs)
}

func TestSimplifyPhiDeadTargetKilled(t *testing.T) {
	fn := newTestFunction()
	arg := fn.Registry.ArgPseudo(0)

	left := fn.NewBlock("left")
	right := fn.NewBlock("right")
	join := fn.NewBlock("join")
	b := NewBuilder(fn)
	b.SetBlock(fn.Entry)
	b.InsertBranch(arg, left, right)
	b.SetBlock(left)
	b.InsertJump(join)
	b.SetBlock(right)
	b.InsertJump(join)

	b.SetBlock(join)
	phi := b.InsertPhi(i32())
	AppendPhiInput(phi, left, fn.Registry.ValuePseudo(1))
	AppendPhiInput(phi, right, fn.Registry.ValuePseudo(2))
	b.InsertReturn(nil)

	mask := simplifyPhi(fn, phi)

	require.True(t, mask.Has(RepeatCSE))
	require.True(t, phi.Dead())
}
