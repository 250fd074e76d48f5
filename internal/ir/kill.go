package ir

// RepeatMask is the bitset the driver ORs across a scan to decide
// whether another fixed-point iteration is needed.
type RepeatMask uint8

const (
	RepeatCSE           RepeatMask = 1 << iota // a rewrite may have created a new common subexpression
	RepeatSymbolCleanup                        // a symbol's last reference may have gone away
	RepeatCFGCleanup                           // a block's terminator or edges changed
)

func (m RepeatMask) Has(flag RepeatMask) bool { return m&flag != 0 }

// detachInsn unlinks insn from its block's instruction list, marks it
// deleted, and raises RepeatCSE on the owning function.
func detachInsn(insn *Instruction) {
	bb := insn.BB
	if bb == nil {
		return
	}
	removeInstruction(bb, insn)
	insn.BB = nil
	if bb.Func != nil {
		bb.Func.RepeatPhase |= RepeatCSE
	}
}

// Kill removes insn safely, cascading kills of now-unused defs through
// KillUse. Without force it honors the side-effect guard: STORE
// is never killed, a volatile LOAD is never killed, and CALL is killed
// only when the callee is a statically-known pure symbol. Returns false
// if insn was already dead or the guard blocked the kill.
func Kill(insn *Instruction, force bool) bool {
	if insn.Dead() {
		return false
	}
	if !force && !killAllowed(insn) {
		return false
	}

	switch {
	case insn.Op.IsTerminator():
		killTerminatorOperands(insn)
	case insn.Op.IsBinary(), insn.Op.IsCompare(), insn.Op.IsFPCompare(), insn.Op == SEL:
		KillUse(&insn.Src1)
		if insn.Src2 != nil {
			KillUse(&insn.Src2)
		}
		if insn.Op == SEL && insn.Src3 != nil {
			KillUse(&insn.Src3)
		}
	case insn.Op == NOT, insn.Op == NEG, insn.Op == FNEG,
		insn.Op == CAST, insn.Op == SCAST, insn.Op == FPCAST, insn.Op == PTRCAST:
		KillUse(&insn.Src1)
	case insn.Op == LOAD:
		KillUse(&insn.Src1)
	case insn.Op == STORE:
		KillUse(&insn.Src1)
		KillUse(&insn.Target)
	case insn.Op == PHI:
		for i := range insn.PhiInputs {
			KillUse(&insn.PhiInputs[i].Value)
		}
	case insn.Op == PHISOURCE:
		KillUse(&insn.Src1)
	case insn.Op == SYMADDR:
		KillUse(&insn.Src1)
	case insn.Op == CALL, insn.Op == INLINED_CALL:
		for i := range insn.Args {
			KillUse(&insn.Args[i])
		}
		if insn.Src1 != nil {
			KillUse(&insn.Src1)
		}
	case insn.Op == SETVAL, insn.Op == SETFVAL, insn.Op == COPY, insn.Op == SLICE:
		if insn.Src1 != nil && insn.Src1 != Void {
			KillUse(&insn.Src1)
		}
	case insn.Op == RANGE:
		if insn.Src1 != nil && insn.Src1 != Void {
			KillUse(&insn.Src1)
		}
		// NOP, DEATHNOTE, ASM, CONTEXT: no use-listed operands to kill.
	}

	detachInsn(insn)
	return true
}

// killAllowed implements the non-forced side-effect guard.
func killAllowed(insn *Instruction) bool {
	switch insn.Op {
	case STORE:
		return false
	case LOAD:
		return !insn.Volatile()
	case CALL:
		return calleeIsPure(insn)
	default:
		return true
	}
}

// Volatile reports whether a LOAD reads through a volatile-qualified
// type. The front-end marks this on the result
// type's underlying symbol metadata; here it is carried directly on the
// instruction for simplicity.
func (insn *Instruction) Volatile() bool {
	return insn.volatile
}

// SetVolatile marks a LOAD as reading volatile memory.
func (insn *Instruction) SetVolatile(v bool) { insn.volatile = v }

func calleeIsPure(insn *Instruction) bool {
	return insn.Src1 != nil && insn.Src1.Kind == PSym && insn.Src1.Sym != nil && insn.Src1.Sym.Pure
}

func killTerminatorOperands(insn *Instruction) {
	switch insn.Op {
	case CBR:
		KillUse(&insn.Src1)
	case SWITCH:
		KillUse(&insn.Src1)
	case RET:
		if insn.Src1 != nil && insn.Src1 != Void {
			KillUse(&insn.Src1)
		}
	case COMPUTEDGOTO:
		KillUse(&insn.Src1)
		// BR has no operand.
	}
}

// DeadInsn is a shorthand: if insn's result has no users, kill
// the given operand slots and mark the instruction dead. Callers that
// know exactly which slots are live operands (the simplifier, after it
// has already canonicalized an instruction) use this instead of routing
// through the opcode switch in Kill.
func DeadInsn(insn *Instruction, slots ...**Pseudo) bool {
	if insn.Target != nil && len(insn.Target.Users) > 0 {
		return false
	}
	for _, s := range slots {
		if *s != nil && *s != Void {
			KillUse(s)
		}
	}
	detachInsn(insn)
	return true
}
