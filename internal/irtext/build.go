package irtext

import (
	"fmt"
	"strconv"
	"strings"

	"irsimplify/internal/ir"
)

// build lowers a parsed Program into ir.Function values. Registers may
// be used before their textual definition (a phi input referencing a
// value from a block that appears later in the loop it closes), so
// lowering runs in two passes per function: first every instruction
// that produces a register gets its Pseudo and an empty Instruction
// shell allocated and named, then a second pass fills in every
// instruction's operands, now that every name in the function resolves.
func build(tree *Program) (*ir.Program, error) {
	prog := &ir.Program{}
	for _, f := range tree.Functions {
		fn, err := buildFunc(f)
		if err != nil {
			return nil, fmt.Errorf("function %s: %w", f.Name, err)
		}
		prog.Functions = append(prog.Functions, fn)
	}
	return prog, nil
}

// pending is one not-yet-filled instruction discovered during the
// naming pass, paired with the AST node that describes it and the
// block it belongs to.
type pending struct {
	node  *Insn
	insn  *ir.Instruction
	block *ir.BasicBlock
}

type funcBuilder struct {
	fn      *ir.Function
	labels  map[string]*ir.BasicBlock
	names   map[string]*ir.Pseudo
	symbols map[string]*ir.Symbol
	pend    []pending
}

func buildFunc(f *Func) (*ir.Function, error) {
	fn := &ir.Function{
		Name:     f.Name,
		Locals:   make(map[string]*ir.Symbol),
		Registry: ir.NewRegistry(),
	}
	for i, p := range f.Params {
		fn.Params = append(fn.Params, &ir.Parameter{
			Name:  p.Name,
			Type:  resolveType(p.Type),
			Value: fn.Registry.ArgPseudo(i),
		})
	}
	fn.ReturnType = resolveType(f.RetType)

	b := &funcBuilder{
		fn:      fn,
		labels:  make(map[string]*ir.BasicBlock),
		names:   make(map[string]*ir.Pseudo),
		symbols: make(map[string]*ir.Symbol),
	}

	for _, blk := range f.Blocks {
		bb := &ir.BasicBlock{Label: blk.Label, Func: fn}
		fn.Blocks = append(fn.Blocks, bb)
		b.labels[blk.Label] = bb
	}
	if len(fn.Blocks) == 0 {
		return nil, fmt.Errorf("function has no blocks")
	}
	fn.Entry = fn.Blocks[0]

	for bi, blk := range f.Blocks {
		bb := fn.Blocks[bi]
		for _, node := range blk.Insns {
			insn := &ir.Instruction{}
			if node.Target != nil {
				name, kind, err := targetKind(node.Target)
				if err != nil {
					return nil, err
				}
				p := &ir.Pseudo{Kind: kind, Def: insn}
				insn.Target = p
				b.names[name] = p
			}
			b.pend = append(b.pend, pending{node: node, insn: insn, block: bb})
		}
	}

	for _, pd := range b.pend {
		if err := b.fill(pd); err != nil {
			return nil, err
		}
	}
	return fn, nil
}

// targetKind maps a result operand's textual form to the pseudo kind
// it must produce: a "%phiN" name is a PHISOURCE result (PPhi), every
// other register name is a PREG result.
func targetKind(op *Operand) (string, ir.PseudoKind, error) {
	if op.Reg == nil {
		return "", 0, fmt.Errorf("result operand must be a register")
	}
	name := *op.Reg
	if strings.HasPrefix(name, "%phi") {
		return name, ir.PPhi, nil
	}
	return name, ir.PReg, nil
}

func (b *funcBuilder) symbol(name string) *ir.Symbol {
	if s, ok := b.symbols[name]; ok {
		return s
	}
	s := &ir.Symbol{Name: name}
	b.symbols[name] = s
	return s
}

func (b *funcBuilder) operand(op *Operand) (*ir.Pseudo, error) {
	switch {
	case op.Reg != nil:
		name := *op.Reg
		if strings.HasPrefix(name, "%arg") {
			n, err := strconv.Atoi(name[len("%arg"):])
			if err != nil {
				return nil, fmt.Errorf("bad argument register %q: %w", name, err)
			}
			return b.fn.Registry.ArgPseudo(n), nil
		}
		p, ok := b.names[name]
		if !ok {
			return nil, fmt.Errorf("undefined register %q", name)
		}
		return p, nil
	case op.Sym != nil:
		return b.fn.Registry.SymPseudo(b.symbol((*op.Sym)[1:])), nil
	case op.Int != nil:
		v, err := strconv.ParseInt(*op.Int, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad integer literal %q: %w", *op.Int, err)
		}
		return b.fn.Registry.ValuePseudo(v), nil
	default:
		return nil, fmt.Errorf("empty operand")
	}
}

func (b *funcBuilder) block(label string) (*ir.BasicBlock, error) {
	bb, ok := b.labels[label]
	if !ok {
		return nil, fmt.Errorf("undefined block %q", label)
	}
	return bb, nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func atoi64(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

func resolveType(t *TypeRef) ir.Type {
	if t == nil {
		return &ir.VoidType{}
	}
	var base ir.Type
	switch {
	case t.Name == "void":
		base = &ir.VoidType{}
	case strings.HasPrefix(t.Name, "i"):
		base = &ir.IntType{Width: atoi(t.Name[1:]), Signed: true}
	case strings.HasPrefix(t.Name, "u"):
		base = &ir.IntType{Width: atoi(t.Name[1:]), Signed: false}
	case strings.HasPrefix(t.Name, "f"):
		base = &ir.FloatType{Width: atoi(t.Name[1:])}
	default:
		base = &ir.IntType{Width: 32, Signed: true}
	}
	for range t.Stars {
		base = &ir.PointerType{Elem: base, Width: 64}
	}
	return base
}

// fill resolves pd's operands now that every register name in the
// function is known, and appends or terminates pd.block with the
// finished instruction.
func (b *funcBuilder) fill(pd pending) error {
	insn := pd.insn
	insn.BB = pd.block
	insn.ID = b.fn.Registry.AllocID()
	body := pd.node.Body

	switch {
	case body.Binary != nil:
		n := body.Binary
		insn.Op = ir.LookupOpcode(n.Op)
		insn.Size = atoi(n.Size)
		src1, err := b.operand(n.Src1)
		if err != nil {
			return err
		}
		src2, err := b.operand(n.Src2)
		if err != nil {
			return err
		}
		ir.Use(insn, src1, &insn.Src1)
		ir.Use(insn, src2, &insn.Src2)
		insn.Type = resultType(insn.Op, insn.Size)
		pd.block.Instructions = append(pd.block.Instructions, insn)

	case body.Unary != nil:
		n := body.Unary
		insn.Op = ir.LookupOpcode(n.Op)
		insn.Size = atoi(n.Size)
		src1, err := b.operand(n.Src1)
		if err != nil {
			return err
		}
		ir.Use(insn, src1, &insn.Src1)
		insn.Type = resultType(insn.Op, insn.Size)
		pd.block.Instructions = append(pd.block.Instructions, insn)

	case body.CastI != nil:
		n := body.CastI
		insn.Op = ir.LookupOpcode(n.Op)
		insn.OrigType = resolveType(n.OrigType)
		insn.Type = resolveType(n.ToType)
		insn.Size = insn.Type.Bits()
		src1, err := b.operand(n.Src1)
		if err != nil {
			return err
		}
		ir.Use(insn, src1, &insn.Src1)
		pd.block.Instructions = append(pd.block.Instructions, insn)

	case body.Sel != nil:
		n := body.Sel
		insn.Op = ir.SEL
		cond, err := b.operand(n.Cond)
		if err != nil {
			return err
		}
		t, err := b.operand(n.WhenTrue)
		if err != nil {
			return err
		}
		f, err := b.operand(n.WhenFalse)
		if err != nil {
			return err
		}
		ir.Use(insn, cond, &insn.Src1)
		ir.Use(insn, t, &insn.Src2)
		ir.Use(insn, f, &insn.Src3)
		pd.block.Instructions = append(pd.block.Instructions, insn)

	case body.Load != nil:
		n := body.Load
		insn.Op = ir.LOAD
		insn.Offset = atoi64(n.Offset)
		insn.SetVolatile(n.Volatile)
		base, err := b.operand(n.Base)
		if err != nil {
			return err
		}
		ir.Use(insn, base, &insn.Src1)
		pd.block.Instructions = append(pd.block.Instructions, insn)

	case body.Store != nil:
		n := body.Store
		insn.Op = ir.STORE
		insn.Offset = atoi64(n.Offset)
		insn.SetVolatile(n.Volatile)
		base, err := b.operand(n.Base)
		if err != nil {
			return err
		}
		val, err := b.operand(n.Val)
		if err != nil {
			return err
		}
		ir.Use(insn, base, &insn.Src1)
		ir.Use(insn, val, &insn.Target)
		pd.block.Instructions = append(pd.block.Instructions, insn)

	case body.SetVal != nil:
		n := body.SetVal
		insn.Op = ir.SETVAL
		insn.Type = resolveType(n.Type)
		insn.Size = insn.Type.Bits()
		val, err := b.operand(n.Val)
		if err != nil {
			return err
		}
		ir.Use(insn, val, &insn.Src1)
		pd.block.Instructions = append(pd.block.Instructions, insn)

	case body.SymAddr != nil:
		n := body.SymAddr
		insn.Op = ir.SYMADDR
		insn.Offset = atoi64(n.Offset)
		sym, err := b.operand(n.Sym)
		if err != nil {
			return err
		}
		ir.Use(insn, sym, &insn.Src1)
		pd.block.Instructions = append(pd.block.Instructions, insn)

	case body.Phi != nil:
		n := body.Phi
		insn.Op = ir.PHI
		for _, in := range n.Inputs {
			src, err := b.block(in.Label)
			if err != nil {
				return err
			}
			val, err := b.operand(in.Value)
			if err != nil {
				return err
			}
			slot := len(insn.PhiInputs)
			insn.PhiInputs = append(insn.PhiInputs, ir.PhiInput{Block: src})
			ir.Use(insn, val, &insn.PhiInputs[slot].Value)
		}
		pd.block.Instructions = append(pd.block.Instructions, insn)

	case body.PhiSrc != nil:
		n := body.PhiSrc
		insn.Op = ir.PHISOURCE
		src, err := b.operand(n.Src)
		if err != nil {
			return err
		}
		ir.Use(insn, src, &insn.Src1)
		pd.block.Instructions = append(pd.block.Instructions, insn)

	case body.Call != nil:
		n := body.Call
		if n.Op == "inlined_call" {
			insn.Op = ir.INLINED_CALL
		} else {
			insn.Op = ir.CALL
		}
		callee, err := b.operand(n.Callee)
		if err != nil {
			return err
		}
		ir.Use(insn, callee, &insn.Src1)
		args := make([]*ir.Pseudo, len(n.Args))
		for i, a := range n.Args {
			v, err := b.operand(a)
			if err != nil {
				return err
			}
			args[i] = v
		}
		ir.SetCallArgs(insn, args)
		pd.block.Instructions = append(pd.block.Instructions, insn)

	case body.Range != nil:
		n := body.Range
		insn.Op = ir.RANGE
		insn.RangeLo = atoi64(n.Lo)
		insn.RangeHi = atoi64(n.Hi)
		src, err := b.operand(n.Src)
		if err != nil {
			return err
		}
		ir.Use(insn, src, &insn.Src1)
		pd.block.Instructions = append(pd.block.Instructions, insn)

	case body.Cbr != nil:
		n := body.Cbr
		insn.Op = ir.CBR
		cond, err := b.operand(n.Cond)
		if err != nil {
			return err
		}
		trueBlock, err := b.block(n.TrueLabel)
		if err != nil {
			return err
		}
		falseBlock, err := b.block(n.FalseLabel)
		if err != nil {
			return err
		}
		ir.Use(insn, cond, &insn.Src1)
		insn.TrueBlock, insn.FalseBlock = trueBlock, falseBlock
		pd.block.Terminator = insn
		pd.block.AddChild(trueBlock)
		pd.block.AddChild(falseBlock)

	case body.Br != nil:
		n := body.Br
		insn.Op = ir.BR
		target, err := b.block(n.Label)
		if err != nil {
			return err
		}
		insn.Target2 = target
		pd.block.Terminator = insn
		pd.block.AddChild(target)

	case body.Switch != nil:
		n := body.Switch
		insn.Op = ir.SWITCH
		disc, err := b.operand(n.Disc)
		if err != nil {
			return err
		}
		ir.Use(insn, disc, &insn.Src1)
		for _, c := range n.Cases {
			target, err := b.block(c.Label)
			if err != nil {
				return err
			}
			sc := ir.SwitchCase{Target: target}
			if c.Default {
				sc.Low, sc.High = 1, 0
			} else {
				sc.Low, sc.High = atoi64(c.Range.Lo), atoi64(c.Range.Hi)
			}
			insn.Cases = append(insn.Cases, sc)
			pd.block.AddChild(target)
		}
		pd.block.Terminator = insn

	case body.Ret != nil:
		n := body.Ret
		insn.Op = ir.RET
		if n.Val != nil {
			v, err := b.operand(n.Val)
			if err != nil {
				return err
			}
			ir.Use(insn, v, &insn.Src1)
		} else {
			insn.Src1 = ir.Void
		}
		pd.block.Terminator = insn

	case body.Bare != nil:
		insn.Op = ir.LookupOpcode(*body.Bare)
		if insn.Op.IsTerminator() {
			pd.block.Terminator = insn
		} else {
			pd.block.Instructions = append(pd.block.Instructions, insn)
		}

	default:
		return fmt.Errorf("empty instruction body")
	}
	return nil
}

// resultType gives binary/unary instructions a type when the grammar
// carries only an operation and a bit width: signed for arithmetic and
// ordering-insensitive ops, a plain i1-ish int for comparisons.
func resultType(op ir.Opcode, size int) ir.Type {
	if op.IsCompare() || op.IsFPCompare() {
		return &ir.IntType{Width: 1, Signed: false}
	}
	if op.IsFloat() {
		return &ir.FloatType{Width: size}
	}
	return &ir.IntType{Width: size, Signed: true}
}
