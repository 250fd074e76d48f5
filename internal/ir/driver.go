package ir

// driver.go drives the local simplifier to a fixed point over one
// function: a reverse-postorder sweep of Simplify calls, repeated until
// a sweep makes no further progress, interleaved with the heavier CFG
// cleanup a RepeatCFGCleanup flag asks for.

// RPO returns fn's blocks in reverse postorder starting from Entry.
// Blocks unreachable from Entry are omitted.
func RPO(fn *Function) []*BasicBlock {
	visited := make(map[*BasicBlock]bool, len(fn.Blocks))
	var post []*BasicBlock
	var visit func(bb *BasicBlock)
	visit = func(bb *BasicBlock) {
		if bb == nil || visited[bb] {
			return
		}
		visited[bb] = true
		for _, child := range bb.Children {
			visit(child)
		}
		post = append(post, bb)
	}
	visit(fn.Entry)

	order := make([]*BasicBlock, len(post))
	for i, bb := range post {
		order[len(post)-1-i] = bb
	}
	return order
}

// Run simplifies every instruction of fn to a fixed point, running CFG
// cleanup between sweeps whenever a rewrite asked for it. It returns the
// number of sweeps performed.
func Run(fn *Function, sink DiagSink) int {
	sweeps := 0
	for {
		sweeps++
		var pending RepeatMask
		for _, bb := range RPO(fn) {
			for _, insn := range append([]*Instruction(nil), bb.Instructions...) {
				if insn.Dead() {
					continue
				}
				pending |= Simplify(fn, insn, sink)
			}
			if bb.Terminator != nil && !bb.Terminator.Dead() {
				pending |= Simplify(fn, bb.Terminator, sink)
			}
		}
		pending |= fn.RepeatPhase
		fn.RepeatPhase = 0

		if pending.Has(RepeatCFGCleanup) {
			CFGCleanup(fn)
		}

		if DebugAsserts {
			if problems := CheckInvariants(fn); len(problems) > 0 {
				panic("ir: invariant violated: " + problems[0])
			}
		}

		if pending == 0 {
			return sweeps
		}
	}
}

// CFGCleanup removes blocks no longer reachable from fn.Entry, force-
// killing their instructions, and compacts every surviving PHI's input
// list down to entries whose predecessor edge still exists.
func CFGCleanup(fn *Function) bool {
	reachable := make(map[*BasicBlock]bool, len(fn.Blocks))
	var mark func(bb *BasicBlock)
	mark = func(bb *BasicBlock) {
		if bb == nil || reachable[bb] {
			return
		}
		reachable[bb] = true
		for _, c := range bb.Children {
			mark(c)
		}
	}
	mark(fn.Entry)

	changed := false
	for _, bb := range fn.Blocks {
		if reachable[bb] {
			continue
		}
		changed = true
		for _, insn := range append([]*Instruction(nil), bb.Instructions...) {
			Kill(insn, true)
		}
		if bb.Terminator != nil {
			Kill(bb.Terminator, true)
		}
		for _, child := range append([]*BasicBlock(nil), bb.Children...) {
			bb.RemoveChild(child)
		}
		for _, parent := range append([]*BasicBlock(nil), bb.Parents...) {
			parent.RemoveChild(bb)
		}
	}

	kept := fn.Blocks[:0]
	for _, bb := range fn.Blocks {
		if reachable[bb] {
			kept = append(kept, bb)
		}
	}
	fn.Blocks = kept

	for _, bb := range fn.Blocks {
		for _, insn := range bb.Instructions {
			if insn.Dead() || insn.Op != PHI {
				continue
			}
			if compactPhiInputs(bb, insn) {
				changed = true
			}
		}
	}
	return changed
}

func compactPhiInputs(bb *BasicBlock, insn *Instruction) bool {
	old := insn.PhiInputs
	var kept []PhiInput
	removed := false
	for _, in := range old {
		if in.Value == nil || in.Value == Void || !blockIsParent(bb, in.Block) {
			removed = true
			continue
		}
		kept = append(kept, in)
	}
	if !removed {
		return false
	}
	oldSlots := make([]**Pseudo, len(old))
	for i := range old {
		oldSlots[i] = &old[i].Value
	}
	newVals := make([]*Pseudo, len(kept))
	newSlots := make([]**Pseudo, len(kept))
	for i := range kept {
		newVals[i], newSlots[i] = kept[i].Value, &kept[i].Value
	}
	rebuildSliceUses(insn, oldSlots, newVals, newSlots)
	insn.PhiInputs = kept
	return true
}

func blockIsParent(bb, candidate *BasicBlock) bool {
	for _, p := range bb.Parents {
		if p == candidate {
			return true
		}
	}
	return false
}
