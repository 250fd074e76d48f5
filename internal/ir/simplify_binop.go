package ir

// simplify_binop.go implements the binary/compare instruction rules:
// canonicalization, constant folding, right- and left-constant algebraic
// identities, same-operand identities, setcc fusion, and the
// associative reassociation helper in simplify.go.

func simplifyBinary(fn *Function, insn *Instruction, sink DiagSink) RepeatMask {
	changed := false
	if canonicalizeBinary(insn) {
		changed = true
	}

	if insn.Target != nil && len(insn.Target.Users) == 0 {
		if killBinary(insn) {
			return RepeatCSE
		}
	}

	if insn.Op.IsFloat() {
		if changed {
			return RepeatCSE
		}
		return 0
	}

	if insn.Src1.Kind == PVal && insn.Src2.Kind == PVal {
		if folded, ok := Eval(fn, insn); ok {
			foldBinaryTo(insn, folded)
			return RepeatCSE
		}
		warnUndefinedFold(insn, sink)
	}

	if insn.Src2.Kind == PVal {
		if rightConstantRule(fn, insn, sink) {
			return RepeatCSE
		}
	} else if insn.Src1.Kind == PVal && !insn.Op.commutative() {
		if leftConstantRule(fn, insn) {
			return RepeatCSE
		}
	}

	if insn.Src1 == insn.Src2 {
		if sameOperandRule(fn, insn, sink) {
			return RepeatCSE
		}
	}

	if reassociate(fn, insn) {
		return RepeatCSE
	}

	if changed {
		return RepeatCSE
	}
	return 0
}

func killBinary(insn *Instruction) bool {
	return DeadInsn(insn, &insn.Src1, &insn.Src2, &insn.Src3)
}

func foldBinaryTo(insn *Instruction, val *Pseudo) {
	ReplaceTarget(insn, val)
	DeadInsn(insn, &insn.Src1, &insn.Src2)
}

func warnUndefinedFold(insn *Instruction, sink DiagSink) {
	switch insn.Op {
	case DIVS, MODS:
		sink.Warn(insn.Pos, "W-UB-DIV", "declining to fold %s: division overflow or divide by zero", insn.Op)
	case DIVU, MODU:
		sink.Warn(insn.Pos, "W-UB-DIV", "declining to fold %s: divide by zero", insn.Op)
	}
}

func replaceWithVal(fn *Function, insn *Instruction, v int64) {
	foldBinaryTo(insn, fn.Registry.ValuePseudo(v))
}

// rightConstantRule applies the right-operand-is-constant identities.
func rightConstantRule(fn *Function, insn *Instruction, sink DiagSink) bool {
	c := insn.Src2.Value
	w := insn.Size

	switch insn.Op {
	case ADD, SUB, OR, XOR, SHL, LSR, ASR:
		if c == 0 {
			replaceWithSrc1(insn)
			return true
		}
	case MUL, AND:
		if c == 0 {
			replaceWithVal(fn, insn, 0)
			return true
		}
		if insn.Op == MUL && c == 1 {
			replaceWithSrc1(insn)
			return true
		}
	case DIVU, DIVS:
		if c == 1 {
			replaceWithSrc1(insn)
			return true
		}
	case MODU, MODS:
		if c == 1 {
			replaceWithVal(fn, insn, 0)
			return true
		}
	case AND_BOOL:
		if c != 0 {
			replaceWithSrc1(insn)
			return true
		}
	}

	switch insn.Op {
	case SUB:
		negC := maskResult(-c, w)
		insn.Op = ADD
		rewriteSrc2Val(fn, insn, negC)
		return true
	case DIVS, MUL:
		// A literal left operand only reaches here when Eval declined
		// (INT_MIN / -1); rewriting it to NEG would fold it after all.
		if isAllOnesAt(c, w) && insn.Src1.Kind != PVal {
			insn.Op = NEG
			RemoveUse(&insn.Src2)
			insn.Src3 = nil
			return true
		}
	case ASR:
		opSize := insn.operandSize()
		if c >= int64(opSize) {
			sink.Warn(insn.Pos, "W-SHIFT-OVERSIZE", "shift amount %d is not smaller than the operand's %d-bit width", c, opSize)
			replaceWithVal(fn, insn, 0)
			return true
		}
	case SET_EQ, SET_NE:
		if c == 0 || c == 1 {
			if fuseSetccOfSetcc(insn, c) {
				return true
			}
		}
	}

	return false
}

// operandSize reports the instruction's own declared width, or 64 when
// none is set; the shifted value is taken to have that width.
func (insn *Instruction) operandSize() int {
	if insn.Size > 0 {
		return insn.Size
	}
	return 64
}

func isAllOnesAt(c int64, w int) bool {
	return zeroExtend(c, w) == maskFor(w)
}

func replaceWithSrc1(insn *Instruction) {
	src1 := insn.Src1
	ReplaceTarget(insn, src1)
	RemoveUse(&insn.Src1)
	DeadInsn(insn, &insn.Src2, &insn.Src3)
}

func rewriteSrc2Val(fn *Function, insn *Instruction, v int64) {
	RemoveUse(&insn.Src2)
	use(insn, fn.Registry.ValuePseudo(v), &insn.Src2)
}

// fuseSetccOfSetcc eliminates a redundant compare-of-compare: when the
// left operand of SET_EQ/SET_NE is itself the result of a compare and
// the right operand is the boolean constant c (0 or 1), the outer
// compare collapses into (a negation of) the inner one.
func fuseSetccOfSetcc(insn *Instruction, c int64) bool {
	inner := insn.Src1
	if inner.Kind != PReg || inner.Def == nil || inner.Def.Dead() {
		return false
	}
	def := inner.Def
	if !def.Op.IsCompare() && !def.Op.IsFPCompare() {
		return false
	}
	wantNegate := (insn.Op == SET_EQ && c == 0) || (insn.Op == SET_NE && c == 1)
	wantSame := (insn.Op == SET_NE && c == 0) || (insn.Op == SET_EQ && c == 1)
	if !wantNegate && !wantSame {
		return false
	}

	if wantSame {
		ReplaceTarget(insn, def.Target)
		RemoveUse(&insn.Src1)
		DeadInsn(insn, &insn.Src2)
		return true
	}

	negOp := def.Op.Negate()
	if negOp == BADOP {
		return false
	}
	a, b := def.Src1, def.Src2
	inner, oldSrc2 := insn.Src1, insn.Src2

	// a and b are def's own operands, and def is inner's defining
	// instruction, about to be killed once inner's use below is
	// released. Both new uses are recorded first: releasing inner one
	// slot at a time would let its operand-kill cascade see the other
	// of a/b at a momentary zero use count and wrongly kill its
	// defining instruction before this rewrite reinstates a use of it.
	addUse(a, insn, &insn.Src1)
	addUse(b, insn, &insn.Src2)
	insn.Src1, insn.Src2 = a, b
	insn.Op = negOp

	releaseUse(inner, &insn.Src1)
	releaseUse(oldSrc2, &insn.Src2)
	return true
}

// leftConstantRule applies the left-operand-is-constant identities,
// reachable only for non-commutative ops (commutative ops are always
// canonicalized so VAL never sits on the left once both aren't VAL).
func leftConstantRule(fn *Function, insn *Instruction) bool {
	if insn.Src1.Value != 0 {
		return false
	}
	switch insn.Op {
	case OR, XOR:
		replaceWithSrc2(insn)
		return true
	case DIVU, DIVS, MODU, MODS, MUL, AND, ASR, LSR, SHL:
		replaceWithVal(fn, insn, 0)
		return true
	}
	return false
}

func replaceWithSrc2(insn *Instruction) {
	src2 := insn.Src2
	ReplaceTarget(insn, src2)
	RemoveUse(&insn.Src2)
	DeadInsn(insn, &insn.Src1, &insn.Src3)
}

// sameOperandRule applies the identities that hold when both operands
// of insn are the same pseudo.
func sameOperandRule(fn *Function, insn *Instruction, sink DiagSink) bool {
	switch insn.Op {
	case SET_NE, SET_LT, SET_GT, SET_B, SET_A:
		sink.Warn(insn.Pos, "W-TAUTOLOGICAL-COMPARE", "comparison of %s with itself is always false", insn.Op)
		replaceWithVal(fn, insn, 0)
		return true
	case SET_EQ, SET_LE, SET_GE, SET_BE, SET_AE:
		sink.Warn(insn.Pos, "W-TAUTOLOGICAL-COMPARE", "comparison of %s with itself is always true", insn.Op)
		replaceWithVal(fn, insn, 1)
		return true
	case SUB, XOR:
		replaceWithVal(fn, insn, 0)
		return true
	case AND, OR:
		replaceWithSrc1(insn)
		return true
	case AND_BOOL, OR_BOOL:
		insn.Op = SET_NE
		RemoveUse(&insn.Src2)
		use(insn, fn.Registry.ValuePseudo(0), &insn.Src2)
		return true
	}
	return false
}
