package ir

import (
	"fmt"
	"io"
	"strings"

	"ember/internal/types"
)

// DumpFunc writes a human-readable representation of a function body.
func DumpFunc(w io.Writer, f *Func, in *types.Interner) error {
	if w == nil || f == nil {
		return nil
	}
	var sb strings.Builder
	sb.WriteString("func @" + f.Name + "(")
	for i, arg := range f.Entry.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s: %s", valueStr(arg), typeStr(in, arg.Type))
	}
	sb.WriteString(") {\n")
	dumpBlockBody(&sb, f.Entry, in, 1)
	for _, blk := range f.Blocks {
		if blk == f.Entry || blk.Loop != nil {
			continue
		}
		fmt.Fprintf(&sb, "^bb%d(", blk.ID)
		for i, arg := range blk.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s: %s", valueStr(arg), typeStr(in, arg.Type))
		}
		sb.WriteString("):\n")
		dumpBlockBody(&sb, blk, in, 1)
	}
	sb.WriteString("}\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func dumpBlockBody(sb *strings.Builder, blk *Block, in *types.Interner, depth int) {
	pad := strings.Repeat("  ", depth)
	for _, instr := range blk.Instrs {
		sb.WriteString(pad)
		dumpInstr(sb, instr, in, depth)
		sb.WriteByte('\n')
	}
}

func dumpInstr(sb *strings.Builder, instr *Instr, in *types.Interner, depth int) {
	if res := instr.Result(); res != nil {
		fmt.Fprintf(sb, "%s = ", valueStr(res))
	}
	switch instr.Op {
	case OpConstantIndex:
		fmt.Fprintf(sb, "constant %d : index", instr.IntVal)
	case OpConstantInt:
		fmt.Fprintf(sb, "constant %d : %s", instr.IntVal, resultTypeStr(instr, in))
	case OpConstantFloat:
		fmt.Fprintf(sb, "constant %g : %s", instr.FloatVal, resultTypeStr(instr, in))
	case OpDim:
		fmt.Fprintf(sb, "dim %s, %d : %s", valueStr(instr.Operands[0]), instr.IntVal, typeStr(in, instr.Operands[0].Type))
	case OpAffineApply:
		fmt.Fprintf(sb, "affine_apply %s", instr.Map)
		dumpOperandList(sb, instr.Operands)
	case OpAffineFor:
		dumpLoop(sb, instr, in, depth)
	case OpCmpI, OpCmpF:
		fmt.Fprintf(sb, "%s %s, ", instr.Op, instr.Pred)
		dumpCommaOperands(sb, instr.Operands)
	case OpAlloc:
		fmt.Fprintf(sb, "alloc : %s", resultTypeStr(instr, in))
	default:
		sb.WriteString(instr.Op.String())
		if len(instr.Operands) > 0 {
			sb.WriteByte(' ')
			dumpCommaOperands(sb, instr.Operands)
		}
	}
}

func dumpLoop(sb *strings.Builder, loop *Instr, in *types.Interner, depth int) {
	fmt.Fprintf(sb, "affine_for %s = ", valueStr(loop.Induction))
	if loop.HasConstBounds {
		fmt.Fprintf(sb, "%d to %d", loop.LB, loop.UB)
	} else {
		fmt.Fprintf(sb, "%s", loop.LowerMap)
		dumpOperandList(sb, loop.LowerOperands)
		sb.WriteString(" to ")
		fmt.Fprintf(sb, "%s", loop.UpperMap)
		dumpOperandList(sb, loop.UpperOperands)
	}
	fmt.Fprintf(sb, " step %d {\n", loop.Step)
	if loop.Body != nil {
		dumpBlockBody(sb, loop.Body, in, depth+1)
	}
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteByte('}')
}

func dumpOperandList(sb *strings.Builder, ops []*Value) {
	sb.WriteByte('(')
	dumpCommaOperands(sb, ops)
	sb.WriteByte(')')
}

func dumpCommaOperands(sb *strings.Builder, ops []*Value) {
	for i, op := range ops {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(valueStr(op))
	}
}

func valueStr(v *Value) string {
	if v == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%%v%d", v.ID)
}

func resultTypeStr(instr *Instr, in *types.Interner) string {
	res := instr.Result()
	if res == nil {
		return "none"
	}
	return typeStr(in, res.Type)
}

func typeStr(in *types.Interner, id types.TypeID) string {
	if in == nil {
		return fmt.Sprintf("T%d", id)
	}
	return in.String(id)
}

// DescribeValue renders a value and its provenance for diagnostics:
// the defining instruction, the owning loop for induction variables or
// a block-argument marker.
func DescribeValue(v *Value, in *types.Interner) string {
	if v == nil {
		return "<nil value>"
	}
	var sb strings.Builder
	switch {
	case v.DefiningInstr() != nil:
		dumpInstr(&sb, v.DefiningInstr(), in, 0)
	case v.Kind == ValueInduction:
		sb.WriteString("loop induction variable")
	case v.Kind == ValueBlockArg:
		fmt.Fprintf(&sb, "block_argument %d of ^bb%d", v.ArgIndex, v.Block.ID)
	default:
		sb.WriteString("unknown_ssa_value")
	}
	return sb.String()
}
