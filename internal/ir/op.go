package ir

import "fmt"

// OpKind enumerates the closed instruction set of the IR.
type OpKind uint8

const (
	OpInvalid OpKind = iota
	// OpConstantIndex materializes an immediate index value.
	OpConstantIndex
	// OpConstantInt materializes an immediate fixed-width integer.
	OpConstantInt
	// OpConstantFloat materializes an immediate float.
	OpConstantFloat
	// OpDim queries the runtime size of a memref dimension.
	OpDim
	// OpAddI is integer addition.
	OpAddI
	// OpSubI is integer subtraction.
	OpSubI
	// OpMulI is integer multiplication.
	OpMulI
	// OpAndI is bitwise and.
	OpAndI
	// OpOrI is bitwise or.
	OpOrI
	// OpAddF is float addition.
	OpAddF
	// OpSubF is float subtraction.
	OpSubF
	// OpMulF is float multiplication.
	OpMulF
	// OpCmpI is an integer comparison with a predicate attribute.
	OpCmpI
	// OpCmpF is a float comparison with a predicate attribute.
	OpCmpF
	// OpSelect picks between two values by an i1 condition.
	OpSelect
	// OpAffineApply evaluates an affine map over index operands.
	OpAffineApply
	// OpAffineFor is the structured loop construct.
	OpAffineFor
	// OpAlloc allocates a memref.
	OpAlloc
	// OpLoad reads a memref element.
	OpLoad
	// OpStore writes a memref element.
	OpStore
	// OpDealloc releases a memref.
	OpDealloc
	// OpReturn terminates the enclosing function.
	OpReturn
)

func (k OpKind) String() string {
	switch k {
	case OpConstantIndex, OpConstantInt, OpConstantFloat:
		return "constant"
	case OpDim:
		return "dim"
	case OpAddI:
		return "addi"
	case OpSubI:
		return "subi"
	case OpMulI:
		return "muli"
	case OpAndI:
		return "andi"
	case OpOrI:
		return "ori"
	case OpAddF:
		return "addf"
	case OpSubF:
		return "subf"
	case OpMulF:
		return "mulf"
	case OpCmpI:
		return "cmpi"
	case OpCmpF:
		return "cmpf"
	case OpSelect:
		return "select"
	case OpAffineApply:
		return "affine_apply"
	case OpAffineFor:
		return "affine_for"
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
		return fmt.Sprintf("OpKind(%d)", k)
	}
}

// ZeroResult reports whether instructions of this kind legitimately
// produce no result value. Emission treats a zero-result build of any
// other kind as a contract violation.
func (k OpKind) ZeroResult() bool {
	switch k {
	case OpStore, OpDealloc, OpReturn:
		return true
	default:
		return false
	}
}

// Pred is the comparison predicate attribute of cmpi/cmpf.
type Pred uint8

const (
	PredInvalid Pred = iota
	PredLT
	PredLE
	PredGT
	PredGE
	PredEQ
	PredNE
)

func (p Pred) String() string {
	switch p {
	case PredLT:
		return "lt"
	case PredLE:
		return "le"
	case PredGT:
		return "gt"
	case PredGE:
		return "ge"
	case PredEQ:
		return "eq"
	case PredNE:
		return "ne"
	default:
		return fmt.Sprintf("Pred(%d)", p)
	}
}
