package irtext

// Grammar mirrors the concrete syntax ir.Print produces: a struct-tag
// description per instruction shape, parsed with participle the same
// way the lexer/grammar/parser split works over KansoLexer.

type Program struct {
	Functions []*Func `@@*`
}

type Func struct {
	Name    string     `"func" @Ident "("`
	Params  []*Param   `[ @@ { "," @@ } ] ")"`
	RetType *TypeRef   `@@ "{"`
	Blocks  []*Block   `@@* "}"`
}

type Param struct {
	Name string  `@Ident`
	Type *TypeRef `@@`
}

// TypeRef is an Ident optionally followed by pointer stars: "i32",
// "u8", "f64", "void", "i32*", "i32**".
type TypeRef struct {
	Name  string   `@Ident`
	Stars []string `{ @"*" }`
}

type Block struct {
	Label string  `@Ident ":"`
	Insns []*Insn `@@*`
}

// Insn is one line: an optional "%tN = " result prefix followed by one
// of the opcode-specific shapes below.
type Insn struct {
	Target *Operand  `[ @@ "=" ]`
	Body   *InsnBody `@@`
}

type InsnBody struct {
	Binary  *BinaryInsn    `  @@`
	Unary   *UnaryInsn     `| @@`
	CastI   *CastInsn      `| @@`
	Sel     *SelInsn       `| @@`
	Load    *LoadInsn      `| @@`
	Store   *StoreInsn     `| @@`
	SetVal  *SetValInsn    `| @@`
	SymAddr *SymAddrInsn   `| @@`
	Phi     *PhiInsn       `| @@`
	PhiSrc  *PhiSourceInsn `| @@`
	Call    *CallInsn      `| @@`
	Range   *RangeInsn     `| @@`
	Cbr     *CbrInsn       `| @@`
	Br      *BrInsn        `| @@`
	Switch  *SwitchInsn    `| @@`
	Ret     *RetInsn       `| @@`
	Bare    *string        `| @("nop" | "deathnote" | "asm" | "context" | "computedgoto" | "slice" | "copy" | "setfval")`
}

// Operand is a use: a register/phi-result reference, a symbol
// reference, or an integer literal — the three non-void ir.Pseudo
// kinds that ever appear written out in source text.
type Operand struct {
	Reg *string `@Reg`
	Sym *string `| @Sym`
	Int *string `| @Integer`
}

type BinaryInsn struct {
	Op   string   `@("add" | "sub" | "mul" | "divu" | "divs" | "modu" | "mods" | "shl" | "lsr" | "asr" | "and" | "or" | "xor" | "and_bool" | "or_bool" | "fadd" | "fsub" | "fmul" | "fdiv" | "fcmp_ord" | "fcmp_oeq" | "fcmp_one" | "fcmp_ole" | "fcmp_oge" | "fcmp_olt" | "fcmp_ogt" | "fcmp_ueq" | "fcmp_une" | "fcmp_ule" | "fcmp_uge" | "fcmp_ult" | "fcmp_ugt" | "fcmp_uno" | "set_eq" | "set_ne" | "set_le" | "set_ge" | "set_lt" | "set_gt" | "set_b" | "set_a" | "set_be" | "set_ae") "."`
	Size string   `@Integer`
	Src1 *Operand `@@ ","`
	Src2 *Operand `@@`
}

type UnaryInsn struct {
	Op   string   `@("not" | "neg" | "fneg") "."`
	Size string   `@Integer`
	Src1 *Operand `@@`
}

type CastInsn struct {
	Op       string   `@("cast" | "scast" | "fpcast" | "ptrcast")`
	OrigType *TypeRef `@@ "->"`
	ToType   *TypeRef `@@`
	Src1     *Operand `@@`
}

type SelInsn struct {
	Kw        string   `"sel"`
	Cond      *Operand `@@ ","`
	WhenTrue  *Operand `@@ ","`
	WhenFalse *Operand `@@`
}

type LoadInsn struct {
	Kw       string   `"load"`
	Base     *Operand `@@ "["`
	Offset   string   `@Integer "]"`
	Volatile bool     `[ @"volatile" ]`
}

type StoreInsn struct {
	Kw       string   `"store"`
	Base     *Operand `@@ "["`
	Offset   string   `@Integer "]" "="`
	Val      *Operand `@@`
	Volatile bool     `[ @"volatile" ]`
}

type SetValInsn struct {
	Kw   string   `"setval"`
	Type *TypeRef `@@`
	Val  *Operand `@@`
}

type SymAddrInsn struct {
	Kw     string   `"symaddr"`
	Sym    *Operand `@@ "+"`
	Offset string   `@Integer`
}

type PhiInsn struct {
	Kw     string          `"phi"`
	Inputs []*PhiInputNode `@@ { "," @@ }`
}

type PhiInputNode struct {
	Label string   `"[" @Ident ":"`
	Value *Operand `@@ "]"`
}

type PhiSourceInsn struct {
	Kw  string   `"phisource"`
	Src *Operand `@@`
}

type CallInsn struct {
	Op     string     `@("call" | "inlined_call")`
	Callee *Operand   `@@ "("`
	Args   []*Operand `[ @@ { "," @@ } ] ")"`
}

type RangeInsn struct {
	Kw  string   `"range" "["`
	Lo  string   `@Integer ","`
	Hi  string   `@Integer "]"`
	Src *Operand `@@`
}

type CbrInsn struct {
	Kw         string   `"cbr"`
	Cond       *Operand `@@ ","`
	TrueLabel  string   `@Ident ","`
	FalseLabel string   `@Ident`
}

type BrInsn struct {
	Kw    string `"br"`
	Label string `@Ident`
}

type SwitchInsn struct {
	Kw    string            `"switch"`
	Disc  *Operand          `@@`
	Cases []*SwitchCaseNode `@@ { "," @@ }`
}

// SwitchCaseNode is either "[lo, hi]: label" or "default: label", the
// same pointer-or-literal alternation idiom as Type/RefType.
type SwitchCaseNode struct {
	Range   *SwitchRange `( @@`
	Default bool         `| @"default" )`
	Label   string       `":" @Ident`
}

type SwitchRange struct {
	Lo string `"[" @Integer ","`
	Hi string `@Integer "]"`
}

type RetInsn struct {
	Kw  string   `"ret"`
	Val *Operand `[ @@ ]`
}
