package ir

// use-def maintenance. Every mutation of an operand slot goes through
// one of these primitives so that the use-list invariant holds at every
// point between calls: for every use-listed pseudo p and instruction i,
// the number of slots in i holding p equals the number of (i,_) entries
// in p.Users.

// use writes p into *slot and, if p has a use list, appends (insn, slot)
// to it.
func use(insn *Instruction, p *Pseudo, slot **Pseudo) {
	*slot = p
	if p.HasUseList() {
		p.Users = append(p.Users, Use{Insn: insn, Slot: slot})
	}
}

// RemoveUse sets *slot = VOID and removes the matching (insn, slot)
// entry from the previous occupant's use list. It does not cascade
//.
func RemoveUse(slot **Pseudo) {
	old := *slot
	*slot = Void
	if old == nil || !old.HasUseList() {
		return
	}
	old.Users = removeUseEntry(old.Users, slot)
}

// KillUse behaves like RemoveUse, but if the previous occupant's use
// list becomes empty afterward, its defining instruction is recursively
// killed.
func KillUse(slot **Pseudo) {
	old := *slot
	RemoveUse(slot)
	if old != nil && old.HasUseList() && len(old.Users) == 0 && old.Def != nil {
		Kill(old.Def, false)
	}
}

// Reuse installs newPseudo into *slot in place of its current occupant
// and kills the old occupant's defining instruction if that was its
// last use, same as KillUse — but it records newPseudo's new use first.
// This ordering matters whenever newPseudo can be reached from the old
// occupant's own operands (a fused-away instruction being replaced by
// one of its own inputs): killing the old occupant first would let its
// operand-kill cascade see newPseudo's use count momentarily drop to
// zero and wrongly kill newPseudo's own defining instruction before
// this call reinstates a use of it.
func Reuse(insn *Instruction, newPseudo *Pseudo, slot **Pseudo) {
	old := *slot
	addUse(newPseudo, insn, slot)
	*slot = newPseudo
	releaseUse(old, slot)
}

// addUse records a new (insn, slot) entry in p's use list, if p has one.
// It does not write *slot; callers control when the slot is overwritten
// relative to other addUse/releaseUse calls, which matters when several
// slots are being rewired from operands of the same about-to-be-killed
// instruction (see rewriteAsNegatedCond).
func addUse(p *Pseudo, insn *Instruction, slot **Pseudo) {
	if p.HasUseList() {
		p.Users = append(p.Users, Use{Insn: insn, Slot: slot})
	}
}

// releaseUse removes the (insn, slot) entry for old's use list and, if
// that was old's last use, recursively kills old's defining instruction.
// Unlike KillUse it takes the occupant explicitly instead of reading
// *slot, so it can be called after *slot has already been overwritten.
func releaseUse(old *Pseudo, slot **Pseudo) {
	if !old.HasUseList() {
		return
	}
	old.Users = removeUseEntry(old.Users, slot)
	if len(old.Users) == 0 && old.Def != nil {
		Kill(old.Def, false)
	}
}

// ReplaceTarget redirects every user of insn's result to newPseudo. After
// this call insn.Target has no users.
func ReplaceTarget(insn *Instruction, newPseudo *Pseudo) {
	old := insn.Target
	if old == nil || !old.HasUseList() {
		return
	}
	users := old.Users
	old.Users = nil
	for _, u := range users {
		*u.Slot = newPseudo
		if newPseudo.HasUseList() {
			newPseudo.Users = append(newPseudo.Users, u)
		}
	}
}

// SwitchPseudo swaps the pseudos occupying two operand slots, keeping
// each pseudo's use list pointed at its new slot.
// Used by commutative canonicalization.
func SwitchPseudo(slotA, slotB **Pseudo) {
	pa, pb := *slotA, *slotB
	*slotA, *slotB = pb, pa
	if pa.HasUseList() {
		retargetUseEntry(pa, slotA, slotB)
	}
	if pb.HasUseList() {
		retargetUseEntry(pb, slotB, slotA)
	}
}

func removeUseEntry(users []Use, slot **Pseudo) []Use {
	for i, u := range users {
		if u.Slot == slot {
			return append(users[:i:i], users[i+1:]...)
		}
	}
	return users
}

// retargetUseEntry finds the use-list entry that used to point at
// oldSlot and repoints it at newSlot, in place.
func retargetUseEntry(p *Pseudo, oldSlot, newSlot **Pseudo) {
	for i := range p.Users {
		if p.Users[i].Slot == oldSlot {
			p.Users[i].Slot = newSlot
			return
		}
	}
}

// rebuildSliceUses tears down the use-list entries for every old slot in
// oldSlots and re-establishes them for newSlots against insn, in the
// same order. Used whenever an operand slice (PhiInputs, Args) is
// rebuilt wholesale rather than mutated element-by-element, so stale
// slot pointers from a reallocated backing array are never left in a
// use list.
func rebuildSliceUses(insn *Instruction, oldSlots []**Pseudo, newValues []*Pseudo, newSlots []**Pseudo) {
	for _, s := range oldSlots {
		RemoveUse(s)
	}
	for i, s := range newSlots {
		use(insn, newValues[i], s)
	}
}
