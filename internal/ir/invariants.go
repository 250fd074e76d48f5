package ir

import "fmt"

// invariants.go is the debug consistency checker: a set of O(n)
// structural assertions. CheckInvariants runs whenever it is called;
// Run calls it only when DebugAsserts is set. It never mutates the
// function; it only reports.

// DebugAsserts makes Run call CheckInvariants after every sweep and
// panic on the first violation. Off by default, so a normal run never
// pays for walking every pseudo's use list.
var DebugAsserts = false

// CheckInvariants walks fn and returns one message per violation found:
// use-list consistency, single-definition, block well-formedness,
// deleted-implies-detached, and PHI/predecessor parity.
func CheckInvariants(fn *Function) []string {
	var problems []string

	allInsns := make(map[*Instruction]bool)
	for _, bb := range fn.Blocks {
		for _, insn := range bb.Instructions {
			if insn.BB != bb {
				problems = append(problems, fmt.Sprintf("instruction %s claims block %v but lives in %s.Instructions", insn, insn.BB, bb.Label))
			}
			allInsns[insn] = true
		}
		if bb.Terminator == nil {
			problems = append(problems, fmt.Sprintf("block %s has no terminator", bb.Label))
		} else {
			if bb.Terminator.BB != bb {
				problems = append(problems, fmt.Sprintf("terminator of %s claims a different block", bb.Label))
			}
			allInsns[bb.Terminator] = true
		}
	}

	for _, bb := range fn.Blocks {
		for _, insn := range bb.Instructions {
			problems = append(problems, checkInsnUses(insn)...)
		}
		if bb.Terminator != nil {
			problems = append(problems, checkInsnUses(bb.Terminator)...)
		}
		problems = append(problems, checkPhiParity(bb)...)
	}

	return problems
}

func checkInsnUses(insn *Instruction) []string {
	var problems []string
	check := func(slot *Pseudo, name string) {
		if slot == nil || !slot.HasUseList() {
			return
		}
		if !usersContains(slot.Users, insn) {
			problems = append(problems, fmt.Sprintf("%s's %s operand %s has no matching use-list entry", insn, name, slot))
		}
		if slot.Kind == PReg || slot.Kind == PPhi {
			if slot.Def == nil || slot.Def.Dead() {
				problems = append(problems, fmt.Sprintf("%s's %s operand %s has a dead or missing definition", insn, name, slot))
			} else if slot.Def.Target != slot {
				problems = append(problems, fmt.Sprintf("%s's %s operand %s is not its definition's Target", insn, name, slot))
			}
		}
	}
	check(insn.Src1, "Src1")
	check(insn.Src2, "Src2")
	check(insn.Src3, "Src3")
	for i, in := range insn.PhiInputs {
		check(in.Value, fmt.Sprintf("PhiInputs[%d]", i))
	}
	for i, a := range insn.Args {
		check(a, fmt.Sprintf("Args[%d]", i))
	}
	return problems
}

func usersContains(users []Use, insn *Instruction) bool {
	for _, u := range users {
		if u.Insn == insn {
			return true
		}
	}
	return false
}

func checkPhiParity(bb *BasicBlock) []string {
	var problems []string
	for _, insn := range bb.Instructions {
		if insn.Dead() || insn.Op != PHI {
			continue
		}
		if len(insn.PhiInputs) != len(bb.Parents) {
			problems = append(problems, fmt.Sprintf("%s in %s has %d inputs for %d predecessors", insn, bb.Label, len(insn.PhiInputs), len(bb.Parents)))
			continue
		}
		for _, in := range insn.PhiInputs {
			if !blockIsParent(bb, in.Block) {
				problems = append(problems, fmt.Sprintf("%s in %s has an input from non-predecessor %v", insn, bb.Label, in.Block))
			}
		}
	}
	return problems
}
