package ir

// BasicBlock holds an ordered instruction sequence terminated (when
// well-formed) by exactly one terminator, plus its CFG edges.
type BasicBlock struct {
	Label        string
	Instructions []*Instruction
	Terminator   *Instruction // nil => ill-formed, must be re-terminated or removed
	Parents      []*BasicBlock
	Children     []*BasicBlock
	Func         *Function
}

// AddChild records a CFG edge from bb to child, keeping both the
// Children and the child's Parents lists in sync.
func (bb *BasicBlock) AddChild(child *BasicBlock) {
	bb.Children = append(bb.Children, child)
	child.Parents = append(child.Parents, bb)
}

// RemoveChild removes one instance of the bb->child edge. If the edge
// appears more than once (parallel edges from the same compare, e.g. a
// CBR whose true and false arms coincide before collapsing), only the
// first instance of each side is removed.
func (bb *BasicBlock) RemoveChild(child *BasicBlock) {
	bb.Children = removeOneBlock(bb.Children, child)
	child.Parents = removeOneBlock(child.Parents, bb)
}

func removeOneBlock(list []*BasicBlock, target *BasicBlock) []*BasicBlock {
	for i, b := range list {
		if b == target {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

// insertBefore splices insn into bb immediately before mark. If mark is
// nil or not found, insn is appended.
func insertBefore(bb *BasicBlock, mark *Instruction, insn *Instruction) {
	insn.BB = bb
	if mark == nil {
		bb.Instructions = append(bb.Instructions, insn)
		return
	}
	for i, cur := range bb.Instructions {
		if cur == mark {
			bb.Instructions = append(bb.Instructions, nil)
			copy(bb.Instructions[i+1:], bb.Instructions[i:])
			bb.Instructions[i] = insn
			return
		}
	}
	bb.Instructions = append(bb.Instructions, insn)
}

// removeInstruction splices insn out of bb's instruction list. It does
// not touch use-lists; callers go through kill() for that.
func removeInstruction(bb *BasicBlock, insn *Instruction) {
	for i, cur := range bb.Instructions {
		if cur == insn {
			bb.Instructions = append(bb.Instructions[:i], bb.Instructions[i+1:]...)
			return
		}
	}
}

// Parameter is a formal parameter of a function.
type Parameter struct {
	Name  string
	Type  Type
	Value *Pseudo // the ARG(n) pseudo
}

// Function is a C function body in IR form: a name, an entry
// block, the full block list, and the local symbol table the front-end
// handed down. PhiAccesses is left for mem2reg to populate; the core
// never reads it.
type Function struct {
	Name        string
	Params      []*Parameter
	ReturnType  Type
	Entry       *BasicBlock
	Blocks      []*BasicBlock
	Locals      map[string]*Symbol
	PhiAccesses []*Instruction

	Registry *Registry

	// RepeatPhase is threaded through the simplifier and OR'd by the
	// driver: callers
	// that only want to simplify one instruction pass this explicitly
	// rather than reaching for a package-level flag.
	RepeatPhase RepeatMask
}

// NewFunction creates an empty function with a fresh registry and a
// single entry block.
func NewFunction(name string) *Function {
	fn := &Function{
		Name:     name,
		Locals:   make(map[string]*Symbol),
		Registry: NewRegistry(),
	}
	entry := &BasicBlock{Label: "entry", Func: fn}
	fn.Entry = entry
	fn.Blocks = []*BasicBlock{entry}
	return fn
}

// NewBlock creates a new basic block belonging to fn and appends it to
// fn.Blocks. It is not wired into the CFG; callers add edges with
// AddChild.
func (fn *Function) NewBlock(label string) *BasicBlock {
	bb := &BasicBlock{Label: label, Func: fn}
	fn.Blocks = append(fn.Blocks, bb)
	return bb
}

// RemoveBlock deletes bb from fn.Blocks. The caller is responsible for
// having already killed bb's instructions and unlinked its CFG edges.
func (fn *Function) RemoveBlock(bb *BasicBlock) {
	for i, b := range fn.Blocks {
		if b == bb {
			fn.Blocks = append(fn.Blocks[:i], fn.Blocks[i+1:]...)
			return
		}
	}
}

// Program is the collection of functions produced by linearize for one
// translation unit. The simplifier runs per function; Program is a thin
// container so a driver can iterate "every function in the unit".
type Program struct {
	Functions []*Function
}
