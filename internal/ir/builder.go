package ir

// builder.go is the construction API used to hand-assemble a function's
// instructions (directly, or from the textual IR reader): one call per
// instruction, each wiring its own operands through use() so a built
// function starts life with a fully consistent use-def graph.

// Builder inserts instructions into one function, tracking the block
// new instructions are appended to.
type Builder struct {
	Fn *Function
	BB *BasicBlock
}

// NewBuilder creates a builder positioned at fn's entry block.
func NewBuilder(fn *Function) *Builder {
	return &Builder{Fn: fn, BB: fn.Entry}
}

// SetBlock repositions the builder to insert into bb.
func (b *Builder) SetBlock(bb *BasicBlock) { b.BB = bb }

// Use wires p into *slot as an operand of insn, exported for callers
// outside this package that assemble instructions from a source other
// than Builder's sequential append (the textual reader, which resolves
// forward references across a whole function before any instruction is
// considered final).
func Use(insn *Instruction, p *Pseudo, slot **Pseudo) { use(insn, p, slot) }

// append inserts insn immediately before the current block's terminator
// (or at the end, if the block isn't terminated yet).
func (b *Builder) append(insn *Instruction) *Instruction {
	insertBefore(b.BB, b.BB.Terminator, insn)
	return insn
}

func firstNonPhi(bb *BasicBlock) *Instruction {
	for _, insn := range bb.Instructions {
		if insn.Op != PHI {
			return insn
		}
	}
	return bb.Terminator
}

// BinOp inserts a binary/compare instruction x `op` y.
func (b *Builder) BinOp(op Opcode, typ Type, size int, x, y *Pseudo) *Pseudo {
	insn := &Instruction{Op: op, Type: typ, Size: size, BB: b.BB}
	b.Fn.Registry.AllocReg(insn)
	use(insn, x, &insn.Src1)
	use(insn, y, &insn.Src2)
	b.append(insn)
	return insn.Target
}

// UnOp inserts a NOT/NEG/FNEG instruction over x.
func (b *Builder) UnOp(op Opcode, typ Type, size int, x *Pseudo) *Pseudo {
	insn := &Instruction{Op: op, Type: typ, Size: size, BB: b.BB}
	b.Fn.Registry.AllocReg(insn)
	use(insn, x, &insn.Src1)
	b.append(insn)
	return insn.Target
}

// Cast inserts a CAST/SCAST/FPCAST/PTRCAST instruction converting x from
// origType to typ.
func (b *Builder) Cast(op Opcode, typ, origType Type, size int, x *Pseudo) *Pseudo {
	insn := &Instruction{Op: op, Type: typ, OrigType: origType, Size: size, BB: b.BB}
	b.Fn.Registry.AllocReg(insn)
	use(insn, x, &insn.Src1)
	b.append(insn)
	return insn.Target
}

// InsertSelect inserts a SEL: cond ? whenTrue : whenFalse.
func (b *Builder) InsertSelect(typ Type, size int, cond, whenTrue, whenFalse *Pseudo) *Pseudo {
	insn := &Instruction{Op: SEL, Type: typ, Size: size, BB: b.BB}
	b.Fn.Registry.AllocReg(insn)
	use(insn, cond, &insn.Src1)
	use(insn, whenTrue, &insn.Src2)
	use(insn, whenFalse, &insn.Src3)
	b.append(insn)
	return insn.Target
}

// SetVal materializes a typed integer constant.
func (b *Builder) SetVal(typ Type, size int, v int64) *Pseudo {
	insn := &Instruction{Op: SETVAL, Type: typ, Size: size, BB: b.BB}
	b.Fn.Registry.AllocReg(insn)
	use(insn, b.Fn.Registry.ValuePseudo(v), &insn.Src1)
	b.append(insn)
	return insn.Target
}

// SymAddr materializes the address of sym plus a constant offset.
func (b *Builder) SymAddr(typ Type, sym *Symbol, offset int64) *Pseudo {
	insn := &Instruction{Op: SYMADDR, Type: typ, Offset: offset, BB: b.BB}
	b.Fn.Registry.AllocReg(insn)
	use(insn, b.Fn.Registry.SymPseudo(sym), &insn.Src1)
	b.append(insn)
	return insn.Target
}

// Load inserts a LOAD from base+offset.
func (b *Builder) Load(typ Type, size int, base *Pseudo, offset int64, volatile bool) *Pseudo {
	insn := &Instruction{Op: LOAD, Type: typ, Size: size, Offset: offset, BB: b.BB}
	b.Fn.Registry.AllocReg(insn)
	insn.SetVolatile(volatile)
	use(insn, base, &insn.Src1)
	b.append(insn)
	return insn.Target
}

// Store inserts a STORE of val to base+offset.
func (b *Builder) Store(typ Type, base *Pseudo, offset int64, val *Pseudo, volatile bool) *Instruction {
	insn := &Instruction{Op: STORE, Type: typ, Offset: offset, BB: b.BB}
	insn.ID = b.Fn.Registry.AllocID()
	insn.SetVolatile(volatile)
	use(insn, base, &insn.Src1)
	use(insn, val, &insn.Target)
	b.append(insn)
	return insn
}

// InsertCall inserts a CALL to callee with args, returning its result
// pseudo (or nil for a void call).
func (b *Builder) InsertCall(typ Type, callee *Symbol, args []*Pseudo) *Pseudo {
	insn := &Instruction{Op: CALL, Type: typ, BB: b.BB}
	if _, isVoid := typ.(*VoidType); typ == nil || isVoid {
		insn.ID = b.Fn.Registry.AllocID()
	} else {
		b.Fn.Registry.AllocReg(insn)
	}
	use(insn, b.Fn.Registry.SymPseudo(callee), &insn.Src1)
	SetCallArgs(insn, args)
	b.append(insn)
	return insn.Target
}

// InsertPhi creates an empty PHI at the top of the current block, above
// any other instruction but after earlier phis.
func (b *Builder) InsertPhi(typ Type) *Instruction {
	insn := &Instruction{Op: PHI, Type: typ, BB: b.BB}
	b.Fn.Registry.AllocReg(insn)
	insertBefore(b.BB, firstNonPhi(b.BB), insn)
	return insn
}

// AppendPhiInput adds one (block, value) input to a PHI. Per the "rebuild
// wholesale" rule, every existing input's use-list entry is torn down
// and re-established against the freshly reallocated slice so no stale
// slot pointer into the old backing array survives.
func AppendPhiInput(insn *Instruction, block *BasicBlock, val *Pseudo) {
	old := insn.PhiInputs
	oldSlots := make([]**Pseudo, len(old))
	for i := range old {
		oldSlots[i] = &old[i].Value
	}

	next := make([]PhiInput, len(old)+1)
	copy(next, old)
	next[len(old)] = PhiInput{Block: block, Value: val}

	newVals := make([]*Pseudo, len(next))
	newSlots := make([]**Pseudo, len(next))
	for i := range next {
		newVals[i] = next[i].Value
		newSlots[i] = &next[i].Value
	}

	rebuildSliceUses(insn, oldSlots, newVals, newSlots)
	insn.PhiInputs = next
}

// SetCallArgs replaces a CALL/INLINED_CALL's argument list wholesale,
// using the same rebuild-wholesale discipline as AppendPhiInput.
func SetCallArgs(insn *Instruction, args []*Pseudo) {
	old := insn.Args
	oldSlots := make([]**Pseudo, len(old))
	for i := range old {
		oldSlots[i] = &old[i]
	}

	next := append([]*Pseudo(nil), args...)
	newSlots := make([]**Pseudo, len(next))
	for i := range next {
		newSlots[i] = &next[i]
	}

	rebuildSliceUses(insn, oldSlots, next, newSlots)
	insn.Args = next
}

func (b *Builder) terminate(insn *Instruction) {
	insn.BB = b.BB
	b.BB.Terminator = insn
}

// InsertBranch terminates the current block with a CBR on cond.
func (b *Builder) InsertBranch(cond *Pseudo, trueBlock, falseBlock *BasicBlock) *Instruction {
	insn := &Instruction{Op: CBR, TrueBlock: trueBlock, FalseBlock: falseBlock}
	insn.ID = b.Fn.Registry.AllocID()
	use(insn, cond, &insn.Src1)
	b.terminate(insn)
	b.BB.AddChild(trueBlock)
	b.BB.AddChild(falseBlock)
	return insn
}

// InsertJump terminates the current block with an unconditional BR.
func (b *Builder) InsertJump(target *BasicBlock) *Instruction {
	insn := &Instruction{Op: BR, Target2: target}
	insn.ID = b.Fn.Registry.AllocID()
	b.terminate(insn)
	b.BB.AddChild(target)
	return insn
}

// InsertSwitch terminates the current block with a SWITCH over disc.
func (b *Builder) InsertSwitch(disc *Pseudo, cases []SwitchCase) *Instruction {
	insn := &Instruction{Op: SWITCH, Cases: cases}
	insn.ID = b.Fn.Registry.AllocID()
	use(insn, disc, &insn.Src1)
	b.terminate(insn)
	for _, c := range cases {
		b.BB.AddChild(c.Target)
	}
	return insn
}

// InsertReturn terminates the current block with a RET. Pass nil for a
// void return.
func (b *Builder) InsertReturn(val *Pseudo) *Instruction {
	insn := &Instruction{Op: RET}
	insn.ID = b.Fn.Registry.AllocID()
	if val != nil && val != Void {
		use(insn, val, &insn.Src1)
	} else {
		insn.Src1 = Void
	}
	b.terminate(insn)
	return insn
}
