package ir

// simplify_mem.go implements LOAD/STORE address simplification: folding
// a constant displacement computed by an ADD into the instruction's own
// Offset field, and absorbing a SYMADDR base directly into the memory
// op so the address materializes as a symbol reference plus offset
// rather than a separate pointer-arithmetic instruction.

// sink is accepted for symmetry with the other simplify* entry points
// even though no memory-op rule currently emits a diagnostic.
func simplifyMem(fn *Function, insn *Instruction, sink DiagSink) RepeatMask {
	if insn.Op == LOAD && insn.Target != nil && len(insn.Target.Users) == 0 && !insn.Volatile() {
		if DeadInsn(insn, &insn.Src1) {
			return RepeatCSE
		}
	}

	if foldMemOffset(insn) {
		return RepeatCSE
	}
	if mask := absorbSymaddr(insn); mask != 0 {
		return mask
	}

	return 0
}

// foldMemOffset absorbs `base = add(x, c)` into insn's own Offset field
// when base has no other user, so the address computation disappears
// and the displacement travels as immediate data on the memory op.
func foldMemOffset(insn *Instruction) bool {
	base := insn.Src1
	if base.Kind != PReg || base.Def == nil || base.Def.Dead() {
		return false
	}
	def := base.Def
	if def.Op != ADD || len(base.Users) != 1 {
		return false
	}

	var inner *Pseudo
	var delta int64
	switch {
	case def.Src2.Kind == PVal:
		inner, delta = def.Src1, def.Src2.Value
	case def.Src1.Kind == PVal:
		inner, delta = def.Src2, def.Src1.Value
	default:
		return false
	}

	RemoveUse(&insn.Src1)
	use(insn, inner, &insn.Src1)
	insn.Offset += delta
	Kill(def, false)
	return true
}

// absorbSymaddr absorbs a SYMADDR base directly into insn: the memory
// op's own Src1 becomes the symbol pseudo and its offset field absorbs
// the symaddr's offset, so the intermediate pointer value vanishes.
func absorbSymaddr(insn *Instruction) RepeatMask {
	base := insn.Src1
	if base.Kind != PReg || base.Def == nil || base.Def.Dead() {
		return 0
	}
	def := base.Def
	if def.Op != SYMADDR || len(base.Users) != 1 {
		return 0
	}

	sym := def.Src1
	RemoveUse(&insn.Src1)
	use(insn, sym, &insn.Src1)
	insn.Offset += def.Offset
	Kill(def, false)
	return RepeatCSE | RepeatSymbolCleanup
}
