package ir

// simplify_phi.go implements PHI simplification: collapsing a phi whose
// live inputs all resolve to the same value, and if-converting a
// two-input phi fed by a trivial diamond into a SEL so later passes see
// a plain data-flow value instead of control flow.

func simplifyPhi(fn *Function, insn *Instruction) RepeatMask {
	if insn.Target != nil && len(insn.Target.Users) == 0 {
		if Kill(insn, false) {
			return RepeatCSE
		}
	}

	if same, ok := distinctPhiValue(insn); ok {
		for i := range insn.PhiInputs {
			RemoveUse(&insn.PhiInputs[i].Value)
		}
		insn.PhiInputs = nil
		ReplaceTarget(insn, same)
		detachInsn(insn)
		return RepeatCSE
	}

	if tryIfConvert(insn) {
		return RepeatCSE
	}

	return 0
}

// distinctPhiValue reports the single pseudo every live (non-VOID)
// input shares, or ok=false if the inputs disagree or there are none.
func distinctPhiValue(insn *Instruction) (*Pseudo, bool) {
	var same *Pseudo
	for _, in := range insn.PhiInputs {
		if in.Value == nil || in.Value == Void {
			continue
		}
		if same == nil {
			same = in.Value
			continue
		}
		if same != in.Value {
			return nil, false
		}
	}
	if same == nil {
		return nil, false
	}
	return same, true
}

// tryIfConvert rewrites insn into a SEL when it has exactly two inputs
// arriving from a trivial diamond: two single-instruction (terminator
// only), single-predecessor blocks hung off one common CBR.
func tryIfConvert(insn *Instruction) bool {
	if len(insn.PhiInputs) != 2 {
		return false
	}
	p0, p1 := insn.PhiInputs[0].Block, insn.PhiInputs[1].Block
	if !isTrivialArm(p0) || !isTrivialArm(p1) {
		return false
	}
	cond0, cond1 := p0.Parents[0], p1.Parents[0]
	if cond0 != cond1 {
		return false
	}
	term := cond0.Terminator
	if term == nil || term.Op != CBR {
		return false
	}

	var trueVal, falseVal *Pseudo
	switch {
	case term.TrueBlock == p0 && term.FalseBlock == p1:
		trueVal, falseVal = insn.PhiInputs[0].Value, insn.PhiInputs[1].Value
	case term.TrueBlock == p1 && term.FalseBlock == p0:
		trueVal, falseVal = insn.PhiInputs[1].Value, insn.PhiInputs[0].Value
	default:
		return false
	}
	if trueVal == nil || falseVal == nil || trueVal == Void || falseVal == Void {
		return false
	}

	cond := term.Src1
	for i := range insn.PhiInputs {
		RemoveUse(&insn.PhiInputs[i].Value)
	}
	insn.PhiInputs = nil
	insn.Op = SEL
	use(insn, cond, &insn.Src1)
	use(insn, trueVal, &insn.Src2)
	use(insn, falseVal, &insn.Src3)
	return true
}

func isTrivialArm(b *BasicBlock) bool {
	return len(b.Instructions) == 0 && b.Terminator != nil &&
		b.Terminator.Op == BR && len(b.Parents) == 1
}
