// Package edsl is the symbolic front end of the emitter: deferred,
// identity-compared expression trees describing values to compute.
// Nodes are pure data; internal/emit materializes them into IR.
package edsl

import (
	"fmt"
	"strings"

	"ember/internal/types"
)

// ExprKind tags the shape of a symbolic expression node.
type ExprKind uint8

const (
	// ExprUnbound is a leaf placeholder: it stands for a value the
	// client binds explicitly (function argument, constant, block
	// argument) before emission reaches it.
	ExprUnbound ExprKind = iota
	// ExprUnary has one operand.
	ExprUnary
	// ExprBinary has two operands.
	ExprBinary
	// ExprTernary has three operands.
	ExprTernary
	// ExprVariadic has any number of operands.
	ExprVariadic
	// ExprFor is the loop construct: operands are lower bound, upper
	// bound and step.
	ExprFor
)

func (k ExprKind) String() string {
	switch k {
	case ExprUnbound:
		return "unbound"
	case ExprUnary:
		return "unary"
	case ExprBinary:
		return "binary"
	case ExprTernary:
		return "ternary"
	case ExprVariadic:
		return "variadic"
	case ExprFor:
		return "for"
	default:
		return fmt.Sprintf("ExprKind(%d)", k)
	}
}

// Op names the operation an operator node stands for.
type Op uint8

const (
	OpNone Op = iota
	OpAdd
	OpSub
	OpMul
	OpAnd
	OpOr
	OpNot
	OpCmpLT
	OpCmpLE
	OpCmpGT
	OpCmpGE
	OpCmpEQ
	OpCmpNE
	OpSelect
	OpAlloc
	OpLoad
	OpStore
	OpDealloc
	OpReturn
)

func (o Op) String() string {
	switch o {
	case OpNone:
		return "none"
	case OpAdd:
		return "add"
	case OpSub:
		return "sub"
	case OpMul:
		return "mul"
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	case OpNot:
		return "not"
	case OpCmpLT:
		return "cmplt"
	case OpCmpLE:
		return "cmple"
	case OpCmpGT:
		return "cmpgt"
	case OpCmpGE:
		return "cmpge"
	case OpCmpEQ:
		return "cmpeq"
	case OpCmpNE:
		return "cmpne"
	case OpSelect:
		return "select"
	case OpAlloc:
		return "alloc"
	case OpLoad:
		return "load"
	case OpStore:
		return "store"
	case OpDealloc:
		return "dealloc"
	case OpReturn:
		return "return"
	default:
		return fmt.Sprintf("Op(%d)", o)
	}
}

// ZeroResult reports whether the operation is side-effecting and
// produces no value. Emission accepts a zero-result build only for
// these operations.
func (o Op) ZeroResult() bool {
	switch o {
	case OpStore, OpDealloc, OpReturn:
		return true
	default:
		return false
	}
}

// Expr is a symbolic expression node. Identity is the pointer: the same
// *Expr may appear under several parents (the tree is really a DAG) and
// all occurrences denote one value. Two structurally equal nodes are
// still distinct expressions.
type Expr struct {
	Kind     ExprKind
	Op       Op
	Type     types.TypeID
	Operands []*Expr
}

// NewUnbound creates a fresh leaf placeholder of the given type.
func NewUnbound(t types.TypeID) *Expr {
	return &Expr{Kind: ExprUnbound, Type: t}
}

func binary(op Op, t types.TypeID, a, b *Expr) *Expr {
	return &Expr{Kind: ExprBinary, Op: op, Type: t, Operands: []*Expr{a, b}}
}

// Add builds a symbolic addition; the result type follows the left operand.
func Add(a, b *Expr) *Expr { return binary(OpAdd, a.Type, a, b) }

// Sub builds a symbolic subtraction.
func Sub(a, b *Expr) *Expr { return binary(OpSub, a.Type, a, b) }

// Mul builds a symbolic multiplication.
func Mul(a, b *Expr) *Expr { return binary(OpMul, a.Type, a, b) }

// And builds a symbolic bitwise and.
func And(a, b *Expr) *Expr { return binary(OpAnd, a.Type, a, b) }

// Or builds a symbolic bitwise or.
func Or(a, b *Expr) *Expr { return binary(OpOr, a.Type, a, b) }

// Not builds a symbolic logical negation over an integer operand.
func Not(a *Expr) *Expr {
	return &Expr{Kind: ExprUnary, Op: OpNot, Type: a.Type, Operands: []*Expr{a}}
}

func cmp(op Op, a, b *Expr) *Expr { return binary(op, types.NoTypeID, a, b) }

// LT builds a < comparison.
func LT(a, b *Expr) *Expr { return cmp(OpCmpLT, a, b) }

// LE builds a <= comparison.
func LE(a, b *Expr) *Expr { return cmp(OpCmpLE, a, b) }

// GT builds a > comparison.
func GT(a, b *Expr) *Expr { return cmp(OpCmpGT, a, b) }

// GE builds a >= comparison.
func GE(a, b *Expr) *Expr { return cmp(OpCmpGE, a, b) }

// EQ builds an == comparison.
func EQ(a, b *Expr) *Expr { return cmp(OpCmpEQ, a, b) }

// NE builds a != comparison.
func NE(a, b *Expr) *Expr { return cmp(OpCmpNE, a, b) }

// Select builds a ternary conditional pick.
func Select(cond, t, f *Expr) *Expr {
	return &Expr{Kind: ExprTernary, Op: OpSelect, Type: t.Type, Operands: []*Expr{cond, t, f}}
}

// Alloc builds a memref allocation of the given type.
func Alloc(t types.TypeID) *Expr {
	return &Expr{Kind: ExprVariadic, Op: OpAlloc, Type: t}
}

// Load builds an element read: memref then index expressions.
func Load(mem *Expr, idxs ...*Expr) *Expr {
	ops := append([]*Expr{mem}, idxs...)
	return &Expr{Kind: ExprVariadic, Op: OpLoad, Operands: ops}
}

// Store builds an element write: value, memref, indices. Zero-result.
func Store(val, mem *Expr, idxs ...*Expr) *Expr {
	ops := append([]*Expr{val, mem}, idxs...)
	return &Expr{Kind: ExprVariadic, Op: OpStore, Operands: ops}
}

// Dealloc builds a memref release. Zero-result.
func Dealloc(mem *Expr) *Expr {
	return &Expr{Kind: ExprVariadic, Op: OpDealloc, Operands: []*Expr{mem}}
}

// Return builds a function terminator. Zero-result.
func Return(vals ...*Expr) *Expr {
	return &Expr{Kind: ExprVariadic, Op: OpReturn, Operands: vals}
}

// ForExpr builds the loop construct over lower bound, upper bound and
// step sub-expressions. Its emitted value is the induction variable.
func ForExpr(lb, ub, step *Expr) *Expr {
	return &Expr{Kind: ExprFor, Type: lb.Type, Operands: []*Expr{lb, ub, step}}
}

// String renders the node with its identity for diagnostics.
func (e *Expr) String() string {
	if e == nil {
		return "<nil expr>"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s", e.Kind)
	if e.Op != OpNone {
		fmt.Fprintf(&sb, " %s", e.Op)
	}
	fmt.Fprintf(&sb, "@%p", e)
	if len(e.Operands) > 0 {
		sb.WriteByte('(')
		for i, op := range e.Operands {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s@%p", op.Kind, op)
		}
		sb.WriteByte(')')
	}
	return sb.String()
}
