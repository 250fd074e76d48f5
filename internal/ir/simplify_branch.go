package ir

// simplify_branch.go implements CBR/SWITCH/RANGE simplification:
// folding a constant branch condition, equal true/false targets, or a
// switch discriminant down to a single unconditional edge; fusing a
// branch on a negated compare, a widening cast, or a select of boolean
// constants into a branch on the underlying condition (with swapped
// arms where the fusion inverts it); and collapsing a RANGE check that
// a constant is already known to satisfy.

func simplifyBranch(fn *Function, insn *Instruction) RepeatMask {
	// Both arms land on the same block regardless of cond: collapse to
	// an unconditional BR, dropping the condition's use and the
	// duplicate parallel edge rewireToSingleTarget would otherwise
	// leave behind.
	if insn.TrueBlock == insn.FalseBlock {
		collapseCBRToBR(insn, insn.TrueBlock)
		return RepeatCFGCleanup
	}

	cond := insn.Src1

	if cond.Kind == PVal {
		var keep *BasicBlock
		if cond.Value != 0 {
			keep = insn.TrueBlock
		} else {
			keep = insn.FalseBlock
		}
		collapseCBRToBR(insn, keep)
		return RepeatCFGCleanup
	}

	if cond.Kind == PReg && cond.Def != nil && !cond.Def.Dead() && len(cond.Users) == 1 {
		def := cond.Def
		switch {
		case def.Op == NOT:
			rewireCondition(insn, def.Src1, true)
			return RepeatCSE
		case def.Op == SET_EQ && def.Src2.Kind == PVal && def.Src2.Value == 0:
			rewireCondition(insn, def.Src1, true)
			return RepeatCSE
		case def.Op == SET_NE && def.Src2.Kind == PVal && def.Src2.Value == 0:
			rewireCondition(insn, def.Src1, false)
			return RepeatCSE
		case (def.Op == CAST || def.Op == SCAST) && def.Type != nil && def.OrigType != nil &&
			def.Type.Bits() >= def.OrigType.Bits():
			// A widening cast never changes zero/nonzero-ness, so the
			// branch can read straight through it to the pre-cast
			// value. A narrowing cast can turn a nonzero value into
			// zero and must not be skipped.
			rewireCondition(insn, def.Src1, false)
			return RepeatCSE
		case def.Op == SEL && def.Src2.Kind == PVal && def.Src3.Kind == PVal:
			return simplifyBranchOnSelect(insn, def)
		}
	}

	return 0
}

// simplifyBranchOnSelect rewrites a branch on sel(c,a,b) with a,b both
// constant in terms of c directly: the select's boolean arms determine
// whether the branch follows c (a truthy, b falsy), follows !c (a
// falsy, b truthy), or no longer depends on c at all (a and b agree on
// truthiness, in which case the branch is unconditional).
func simplifyBranchOnSelect(insn *Instruction, def *Instruction) RepeatMask {
	a, b := def.Src2.Value != 0, def.Src3.Value != 0
	switch {
	case a && !b:
		rewireCondition(insn, def.Src1, false)
		return RepeatCSE
	case !a && b:
		rewireCondition(insn, def.Src1, true)
		return RepeatCSE
	case a && b:
		collapseCBRToBR(insn, insn.TrueBlock)
		return RepeatCFGCleanup
	default:
		collapseCBRToBR(insn, insn.FalseBlock)
		return RepeatCFGCleanup
	}
}

// rewireCondition replaces insn's condition with inner, killing the old
// one (it has exactly one user: insn itself) via Reuse, and swaps the
// true/false targets when swap is set.
func rewireCondition(insn *Instruction, inner *Pseudo, swap bool) {
	Reuse(insn, inner, &insn.Src1)
	if swap {
		insn.TrueBlock, insn.FalseBlock = insn.FalseBlock, insn.TrueBlock
	}
}

// collapseCBRToBR rewrites insn in place from a CBR to an unconditional
// BR to keep, dropping the CFG edge to the side not taken.
func collapseCBRToBR(insn *Instruction, keep *BasicBlock) {
	KillUse(&insn.Src1)
	rewireToSingleTarget(insn.BB, keep)
	insn.Op = BR
	insn.Target2 = keep
	insn.TrueBlock, insn.FalseBlock = nil, nil
}

// rewireToSingleTarget leaves bb with exactly one CFG child edge, to
// keep, removing every other edge bb's terminator used to have.
func rewireToSingleTarget(bb *BasicBlock, keep *BasicBlock) {
	old := bb.Children
	bb.Children = nil
	kept := false
	for _, c := range old {
		if c == keep && !kept {
			bb.Children = append(bb.Children, c)
			kept = true
			continue
		}
		c.Parents = removeOneBlock(c.Parents, bb)
	}
	if !kept {
		bb.AddChild(keep)
	}
}

// simplifySwitch collapses a SWITCH with a constant discriminant to an
// unconditional BR at the matching (or default) case.
func simplifySwitch(fn *Function, insn *Instruction) RepeatMask {
	if insn.Src1.Kind != PVal {
		return 0
	}
	v := insn.Src1.Value

	var target *BasicBlock
	var defaultTarget *BasicBlock
	for _, c := range insn.Cases {
		if c.Low > c.High {
			defaultTarget = c.Target
			continue
		}
		if v >= c.Low && v <= c.High {
			target = c.Target
			break
		}
	}
	if target == nil {
		target = defaultTarget
	}
	if target == nil {
		return 0
	}

	KillUse(&insn.Src1)
	rewireToSingleTarget(insn.BB, target)
	insn.Op = BR
	insn.Target2 = target
	insn.Cases = nil
	return RepeatCFGCleanup
}

// simplifyRange collapses a RANGE check on a constant already known to
// lie within [RangeLo, RangeHi] into a direct copy of that constant,
// eliminating the check. A constant found to be outside the range is
// left alone: that is undefined behavior the front-end is responsible
// for diagnosing, not something this pass folds away.
func simplifyRange(fn *Function, insn *Instruction) RepeatMask {
	if insn.Target != nil && len(insn.Target.Users) == 0 {
		if DeadInsn(insn, &insn.Src1) {
			return RepeatCSE
		}
	}

	if insn.Src1.Kind != PVal {
		return 0
	}
	v := insn.Src1.Value
	if v < insn.RangeLo || v > insn.RangeHi {
		return 0
	}

	src := insn.Src1
	ReplaceTarget(insn, src)
	RemoveUse(&insn.Src1)
	detachInsn(insn)
	return RepeatCSE
}
