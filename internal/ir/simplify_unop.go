package ir

// simplify_unop.go implements NOT/NEG/FNEG simplification: double-negation
// collapse and constant folding. Floats are never folded.

func simplifyUnary(fn *Function, insn *Instruction) RepeatMask {
	if insn.Target != nil && len(insn.Target.Users) == 0 {
		if DeadInsn(insn, &insn.Src1) {
			return RepeatCSE
		}
	}

	if insn.Op == FNEG {
		return 0
	}

	if inner := insn.Src1; inner.Kind == PReg && inner.Def != nil && !inner.Def.Dead() && inner.Def.Op == insn.Op {
		def := inner.Def
		grand := def.Src1
		// grand is def's own operand, and def is inner's defining
		// instruction: Reuse records grand's new use before releasing
		// inner, so def's own operand-kill cascade never sees grand at
		// a momentary zero use count.
		Reuse(insn, grand, &insn.Src1)
		foldIdentityUnary(insn)
		return RepeatCSE
	}

	if insn.Src1.Kind == PVal {
		if folded, ok := EvalUnary(insn.Op, insn.Src1.Value, insn.Size); ok {
			val := fn.Registry.ValuePseudo(folded)
			ReplaceTarget(insn, val)
			DeadInsn(insn, &insn.Src1)
			return RepeatCSE
		}
	}

	return 0
}

// foldIdentityUnary finishes the `not (not x)` / `neg (neg x)` collapse
// once the double application has been rewired onto x directly: every
// user of the instruction's result is redirected to x and the
// instruction is detached from its block.
func foldIdentityUnary(insn *Instruction) {
	src := insn.Src1
	ReplaceTarget(insn, src)
	RemoveUse(&insn.Src1)
	detachInsn(insn)
}
