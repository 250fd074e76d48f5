package ir

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRPOOrdersEntryFirstAndSkipsUnreachable(t *testing.T) {
	fn := newTestFunction()
	mid := fn.NewBlock("mid")
	tail := fn.NewBlock("tail")
	orphan := fn.NewBlock("orphan")
	_ = orphan

	b := NewBuilder(fn)
	b.SetBlock(fn.Entry)
	b.InsertJump(mid)
	b.SetBlock(mid)
	b.InsertJump(tail)
	b.SetBlock(tail)
	b.InsertReturn(nil)

	order := RPO(fn)

	require.Equal(t, []*BasicBlock{fn.Entry, mid, tail}, order)
}

func TestRunConvergesAndFoldsAcrossSweeps(t *testing.T) {
	fn := newTestFunction()
	b := NewBuilder(fn)
	b.SetBlock(fn.Entry)
	arg := fn.Registry.ArgPseudo(0)
	// (arg + 0) - 0: both identities peel off in the first sweep, and a
	// further sweep confirms nothing is left to fold.
	step1 := b.BinOp(ADD, i32(), 32, arg, fn.Registry.ValuePseudo(0))
	step2 := b.BinOp(SUB, i32(), 32, step1, fn.Registry.ValuePseudo(0))
	b.InsertReturn(step2)

	sweeps := Run(fn, DiscardSink)

	require.GreaterOrEqual(t, sweeps, 1)
	require.Equal(t, arg, fn.Entry.Terminator.Src1)
	require.True(t, step1.Def.Dead())
	require.True(t, step2.Def.Dead())
	require.Empty(t, CheckInvariants(fn))
}

func TestRunPrunesDeadBranchViaCFGCleanup(t *testing.T) {
	fn := newTestFunction()
	left := fn.NewBlock("left")
	right := fn.NewBlock("right")

	b := NewBuilder(fn)
	b.SetBlock(fn.Entry)
	b.InsertBranch(fn.Registry.ValuePseudo(0), left, right)
	b.SetBlock(left)
	b.InsertReturn(fn.Registry.ValuePseudo(1))
	b.SetBlock(right)
	b.InsertReturn(fn.Registry.ValuePseudo(2))

	Run(fn, DiscardSink)

	require.NotContains(t, fn.Blocks, left)
	require.Contains(t, fn.Blocks, right)
	require.Empty(t, left.Parents)
	require.Equal(t, BR, fn.Entry.Terminator.Op)
	require.Equal(t, right, fn.Entry.Terminator.Target2)
}

func TestCFGCleanupCompactsPhiInputsToSurvivingPredecessors(t *testing.T) {
	fn := newTestFunction()
	left := fn.NewBlock("left")
	right := fn.NewBlock("right")
	join := fn.NewBlock("join")

	b := NewBuilder(fn)
	b.SetBlock(fn.Entry)
	b.InsertBranch(fn.Registry.ValuePseudo(1), left, right)
	b.SetBlock(left)
	b.InsertJump(join)
	b.SetBlock(right)
	b.InsertJump(join)

	b.SetBlock(join)
	phi := b.InsertPhi(i32())
	AppendPhiInput(phi, left, fn.Registry.ValuePseudo(10))
	AppendPhiInput(phi, right, fn.Registry.ValuePseudo(20))
	b.InsertReturn(phi.Target)

	// Simulate a prior rewrite that collapsed the branch to always take
	// "left", as simplifyBranch would before CFGCleanup prunes "right".
	right.Parents = nil
	fn.Entry.Children = []*BasicBlock{left}

	changed := CFGCleanup(fn)

	require.True(t, changed)
	require.NotContains(t, fn.Blocks, right)
	require.Len(t, phi.PhiInputs, 1)
	require.Equal(t, left, phi.PhiInputs[0].Block)
}
