package ir

// simplify_cast.go implements CAST/SCAST/PTRCAST simplification: no-op
// elision when the source and result types already agree, collapsing a
// cast of a cast into a single cast at the outer width/signedness, and
// constant folding through the width/sign truncation the cast performs.
// FPCAST is carried but never folded or collapsed, since float value
// representations are out of scope for the integer evaluator.

func simplifyCast(fn *Function, insn *Instruction) RepeatMask {
	if insn.Target != nil && len(insn.Target.Users) == 0 {
		if DeadInsn(insn, &insn.Src1) {
			return RepeatCSE
		}
	}

	if insn.Op == FPCAST {
		return 0
	}

	if insn.OrigType != nil && insn.Type != nil &&
		insn.OrigType.Bits() == insn.Type.Bits() &&
		insn.OrigType.IsSigned() == insn.Type.IsSigned() &&
		insn.OrigType.IsPointer() == insn.Type.IsPointer() {
		src := insn.Src1
		ReplaceTarget(insn, src)
		RemoveUse(&insn.Src1)
		detachInsn(insn)
		return RepeatCSE
	}

	if inner := insn.Src1; inner.Kind == PReg && inner.Def != nil && !inner.Def.Dead() &&
		inner.Def.Op == insn.Op && len(inner.Users) == 1 {
		def := inner.Def
		if castChainCollapsible(def, insn) {
			grand := def.Src1
			origType := def.OrigType
			// grand is def's own operand, and def is insn.Src1's
			// defining instruction: Reuse records grand's new use
			// before releasing inner, so def's own operand-kill
			// cascade never sees grand at a momentary zero use count.
			Reuse(insn, grand, &insn.Src1)
			insn.OrigType = origType
			return RepeatCSE
		}
	}

	if insn.Src1.Kind == PVal {
		w := insn.Type.Bits()
		var folded int64
		if insn.Op == SCAST {
			folded = maskResult(signExtend(insn.Src1.Value, w), w)
		} else {
			folded = maskResult(int64(zeroExtend(insn.Src1.Value, w)), w)
		}
		val := fn.Registry.ValuePseudo(folded)
		ReplaceTarget(insn, val)
		DeadInsn(insn, &insn.Src1)
		return RepeatCSE
	}

	return 0
}

// castChainCollapsible reports whether CAST(CAST(x,A->B),B->C) can
// collapse to a single CAST(x,A->C). This is safe unless the
// intermediate width B is a strict local minimum between A and C: if
// the inner cast narrows (B < A) and the outer cast then widens past B
// (C > B), the outer widen only has B's truncated bits to extend, which
// a direct A->C resize would not reproduce (it would keep bits of A
// that the inner narrowing had already discarded). Narrow-then-narrow
// and widen-then-widen (and any chain where B sits at or beyond both
// ends) collapse safely.
func castChainCollapsible(def, insn *Instruction) bool {
	if def.Type == nil || def.OrigType == nil || insn.Type == nil {
		return false
	}
	a, b, c := def.OrigType.Bits(), def.Type.Bits(), insn.Type.Bits()
	return !(b < a && b < c)
}
