package irtext_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"irsimplify/internal/ir"
	"irsimplify/internal/irtext"
)

func i32() ir.Type { return &ir.IntType{Width: 32, Signed: true} }

func buildSampleFunction() *ir.Function {
	fn := ir.NewFunction("add_one")
	fn.Params = []*ir.Parameter{{Name: "arg0", Type: i32()}}
	fn.ReturnType = i32()

	b := ir.NewBuilder(fn)
	b.SetBlock(fn.Entry)
	arg := fn.Registry.ArgPseudo(0)
	sum := b.BinOp(ir.ADD, i32(), 32, arg, fn.Registry.ValuePseudo(1))
	b.InsertReturn(sum)
	return fn
}

func TestWriteFunctionThenParseRoundTrips(t *testing.T) {
	fn := buildSampleFunction()
	printed := irtext.WriteFunction(fn)

	prog, err := irtext.ParseString("fixture.ir", printed)
	require.NoError(t, err)
	require.Len(t, prog.Functions, 1)

	reprinted := ir.Print(prog.Functions[0])
	require.Equal(t, printed, reprinted)
}

func TestParseStringReadsControlFlowAndPhi(t *testing.T) {
	src := `func pick(arg0 i32, arg1 i32) i32 {
entry:
  %t1 = set_lt.32 %arg0, %arg1
  cbr %t1, left, right
left:
  br join
right:
  br join
join:
  %t2 = phi [left: %arg0], [right: %arg1]
  ret %t2
}
`
	prog, err := irtext.ParseString("fixture.ir", src)
	require.NoError(t, err)
	require.Len(t, prog.Functions, 1)

	fn := prog.Functions[0]
	require.Equal(t, "pick", fn.Name)
	require.Len(t, fn.Blocks, 4)

	join := fn.Blocks[3]
	require.Equal(t, "join", join.Label)
	require.Len(t, join.Instructions, 1)
	phi := join.Instructions[0]
	require.Equal(t, ir.PHI, phi.Op)
	require.Len(t, phi.PhiInputs, 2)
	require.Equal(t, ir.RET, join.Terminator.Op)
}

func TestParseStringReportsSyntaxErrorWithoutPanicking(t *testing.T) {
	src := `func broken(arg0 i32) i32 {
entry:
  %t1 = add.32 %arg0,
  ret %t1
}
`
	_, err := irtext.ParseString("fixture.ir", src)
	require.Error(t, err)
}
