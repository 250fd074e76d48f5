package ir

import (
	"fmt"
	"strings"
)

// printer.go renders a function back to the textual assembly syntax
// internal/irtext parses, so a before/after diff can be shown across a
// simplification run.

// Print renders fn as a sequence of labeled blocks, one instruction per
// line, in declaration order (not reverse postorder: the printed form
// is meant to be read top to bottom as written, not as traversed).
func Print(fn *Function) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "func %s(%s) %s {\n", fn.Name, printParams(fn.Params), typeString(fn.ReturnType))
	for _, bb := range fn.Blocks {
		printBlock(&sb, bb)
	}
	sb.WriteString("}\n")
	return sb.String()
}

func printParams(params []*Parameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name + " " + typeString(p.Type)
	}
	return strings.Join(parts, ", ")
}

func printBlock(sb *strings.Builder, bb *BasicBlock) {
	fmt.Fprintf(sb, "%s:\n", bb.Label)
	for _, insn := range bb.Instructions {
		if insn.Dead() {
			continue
		}
		fmt.Fprintf(sb, "  %s\n", printInsn(insn))
	}
	if bb.Terminator != nil && !bb.Terminator.Dead() {
		fmt.Fprintf(sb, "  %s\n", printInsn(bb.Terminator))
	}
}

func printInsn(insn *Instruction) string {
	target := ""
	if insn.Target != nil {
		target = insn.Target.String() + " = "
	}

	switch {
	case insn.Op.IsBinary(), insn.Op.IsCompare(), insn.Op.IsFPCompare():
		return fmt.Sprintf("%s%s.%d %s, %s", target, insn.Op, insn.Size, insn.Src1, insn.Src2)
	case insn.Op == NOT, insn.Op == NEG, insn.Op == FNEG:
		return fmt.Sprintf("%s%s.%d %s", target, insn.Op, insn.Size, insn.Src1)
	case insn.Op == CAST, insn.Op == SCAST, insn.Op == FPCAST, insn.Op == PTRCAST:
		return fmt.Sprintf("%s%s %s -> %s %s", target, insn.Op, typeString(insn.OrigType), typeString(insn.Type), insn.Src1)
	case insn.Op == SEL:
		return fmt.Sprintf("%s%s %s, %s, %s", target, insn.Op, insn.Src1, insn.Src2, insn.Src3)
	case insn.Op == LOAD:
		return fmt.Sprintf("%s%s %s[%d]%s", target, insn.Op, insn.Src1, insn.Offset, volatileSuffix(insn))
	case insn.Op == STORE:
		return fmt.Sprintf("%s %s[%d] = %s%s", insn.Op, insn.Src1, insn.Offset, insn.Target, volatileSuffix(insn))
	case insn.Op == SETVAL:
		return fmt.Sprintf("%s%s %s %s", target, insn.Op, typeString(insn.Type), insn.Src1)
	case insn.Op == SYMADDR:
		return fmt.Sprintf("%s%s %s+%d", target, insn.Op, insn.Src1, insn.Offset)
	case insn.Op == PHI:
		return fmt.Sprintf("%s%s %s", target, insn.Op, printPhiInputs(insn))
	case insn.Op == PHISOURCE:
		return fmt.Sprintf("%s%s %s", target, insn.Op, insn.Src1)
	case insn.Op == CALL, insn.Op == INLINED_CALL:
		return fmt.Sprintf("%s%s %s(%s)", target, insn.Op, insn.Src1, printArgs(insn.Args))
	case insn.Op == RANGE:
		return fmt.Sprintf("%s%s [%d, %d] %s", target, insn.Op, insn.RangeLo, insn.RangeHi, insn.Src1)
	case insn.Op == CBR:
		return fmt.Sprintf("%s %s, %s, %s", insn.Op, insn.Src1, insn.TrueBlock.Label, insn.FalseBlock.Label)
	case insn.Op == BR:
		return fmt.Sprintf("%s %s", insn.Op, insn.Target2.Label)
	case insn.Op == SWITCH:
		return fmt.Sprintf("%s %s %s", insn.Op, insn.Src1, printCases(insn.Cases))
	case insn.Op == RET:
		if insn.Src1 == nil || insn.Src1 == Void {
			return insn.Op.String()
		}
		return fmt.Sprintf("%s %s", insn.Op, insn.Src1)
	default:
		return insn.Op.String()
	}
}

func volatileSuffix(insn *Instruction) string {
	if insn.Volatile() {
		return " volatile"
	}
	return ""
}

func printPhiInputs(insn *Instruction) string {
	parts := make([]string, len(insn.PhiInputs))
	for i, in := range insn.PhiInputs {
		label := "?"
		if in.Block != nil {
			label = in.Block.Label
		}
		parts[i] = fmt.Sprintf("[%s: %s]", label, in.Value)
	}
	return strings.Join(parts, ", ")
}

func printArgs(args []*Pseudo) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return strings.Join(parts, ", ")
}

func printCases(cases []SwitchCase) string {
	parts := make([]string, 0, len(cases))
	for _, c := range cases {
		if c.Low > c.High {
			parts = append(parts, fmt.Sprintf("default: %s", c.Target.Label))
			continue
		}
		parts = append(parts, fmt.Sprintf("[%d, %d]: %s", c.Low, c.High, c.Target.Label))
	}
	return strings.Join(parts, ", ")
}

func typeString(t Type) string {
	if t == nil {
		return "void"
	}
	return t.String()
}
