package ir

// simplify_sel.go implements SEL (ternary select) simplification:
// constant-condition collapse, same-value collapse, and rewriting a
// select of the 0/1 constants as a compare: sel(c,1,0) becomes
// set_ne(c,0), and sel(c,0,1) becomes the negation of c's defining
// compare or, where c has none, set_eq(c,0).

func simplifySel(fn *Function, insn *Instruction) RepeatMask {
	if insn.Target != nil && len(insn.Target.Users) == 0 {
		if DeadInsn(insn, &insn.Src1, &insn.Src2, &insn.Src3) {
			return RepeatCSE
		}
	}

	cond, whenTrue, whenFalse := insn.Src1, insn.Src2, insn.Src3

	if cond.Kind == PVal {
		var keep, drop *Pseudo
		if cond.Value != 0 {
			keep, drop = whenTrue, whenFalse
		} else {
			keep, drop = whenFalse, whenTrue
		}
		ReplaceTarget(insn, keep)
		RemoveUse(pickSlot(insn, keep))
		KillUse(&insn.Src1)
		KillUse(pickSlot(insn, drop))
		detachInsn(insn)
		return RepeatCSE
	}

	if whenTrue == whenFalse {
		KillUse(&insn.Src1)
		RemoveUse(&insn.Src2)
		ReplaceTarget(insn, whenTrue)
		KillUse(&insn.Src3)
		detachInsn(insn)
		return RepeatCSE
	}

	if whenTrue.Kind == PVal && whenFalse.Kind == PVal &&
		whenTrue.Value == 1 && whenFalse.Value == 0 {
		// sel(c,1,0) is not a bare copy of c: for a non-boolean cond
		// (e.g. cond == 5) the result must be the boolean 1, not 5.
		// Rewrite to an explicit set_ne(c,0).
		rewriteAsSetccOfCond(fn, insn, SET_NE)
		return RepeatCSE
	}

	if whenTrue.Kind == PVal && whenFalse.Kind == PVal &&
		whenTrue.Value == 0 && whenFalse.Value == 1 {
		if negOp := findBoolNegation(cond); negOp != BADOP {
			rewriteAsNegatedCond(fn, insn, negOp)
			return RepeatCSE
		}
		rewriteAsSetccOfCond(fn, insn, SET_EQ)
		return RepeatCSE
	}

	return 0
}

// pickSlot returns &insn.Src2 if it holds p, and &insn.Src3 otherwise.
func pickSlot(insn *Instruction, p *Pseudo) **Pseudo {
	if insn.Src2 == p {
		return &insn.Src2
	}
	return &insn.Src3
}

// findBoolNegation reports the compare opcode that negates cond's
// defining compare, or BADOP if cond is not itself a compare result.
func findBoolNegation(cond *Pseudo) Opcode {
	if cond.Kind != PReg || cond.Def == nil || cond.Def.Dead() {
		return BADOP
	}
	op := cond.Def.Op
	if !op.IsCompare() && !op.IsFPCompare() {
		return BADOP
	}
	return op.Negate()
}

// rewriteAsNegatedCond turns `sel(c, 0, 1)` into a direct evaluation of
// the negated compare that defines c, eliminating the select entirely.
// a and b are def's own operands, and def is cond's defining instruction,
// about to be killed once cond's use below is released. Both of their new
// uses are recorded before that release runs: rewiring one slot at a time
// via plain Reuse calls would let the first release's cascade into def's
// operand list see the other of a/b at a momentary zero use count and
// wrongly kill its defining instruction before this rewrite reinstates a
// use of it.
func rewriteAsNegatedCond(fn *Function, insn *Instruction, negOp Opcode) {
	def := insn.Src1.Def
	cond := insn.Src1
	a, b := def.Src1, def.Src2
	oldSrc2, oldSrc3 := insn.Src2, insn.Src3

	addUse(a, insn, &insn.Src1)
	addUse(b, insn, &insn.Src2)
	insn.Src1, insn.Src2 = a, b
	insn.Op = negOp
	insn.Src3 = nil

	releaseUse(cond, &insn.Src1)
	releaseUse(oldSrc2, &insn.Src2)
	releaseUse(oldSrc3, &insn.Src3)
}

// rewriteAsSetccOfCond turns `sel(cond, v1, v2)` (v1/v2 the boolean
// constants 1/0 in either order) into `op(cond, 0)`, keeping cond's
// existing use in Src1 and discarding the two constant arms.
func rewriteAsSetccOfCond(fn *Function, insn *Instruction, op Opcode) {
	KillUse(&insn.Src2)
	KillUse(&insn.Src3)
	insn.Op = op
	insn.Src3 = nil
	use(insn, fn.Registry.ValuePseudo(0), &insn.Src2)
}
