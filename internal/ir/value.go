package ir

import "ember/internal/types"

// ValueID numbers SSA values within a function.
type ValueID uint32

// ValueKind distinguishes how a value came to exist.
type ValueKind uint8

const (
	// ValueOpResult is produced by an instruction.
	ValueOpResult ValueKind = iota
	// ValueBlockArg is an argument of a block (function arguments are
	// the entry block's arguments).
	ValueBlockArg
	// ValueInduction is the per-iteration variable of an affine_for.
	ValueInduction
)

// Value is an SSA value: an instruction result, a block argument or a
// loop induction variable.
type Value struct {
	ID   ValueID
	Type types.TypeID
	Kind ValueKind

	// Def is the producing instruction for ValueOpResult.
	Def *Instr
	// Owner is the affine_for instruction for ValueInduction.
	Owner *Instr
	// Block and ArgIndex locate a ValueBlockArg.
	Block    *Block
	ArgIndex int
}

// DefiningInstr returns the instruction that produced v, or nil for
// block arguments and induction variables.
func (v *Value) DefiningInstr() *Instr {
	if v == nil || v.Kind != ValueOpResult {
		return nil
	}
	return v.Def
}

// InductionVarOwner returns the affine_for that owns v when v is an
// induction variable, nil otherwise.
func InductionVarOwner(v *Value) *Instr {
	if v == nil || v.Kind != ValueInduction {
		return nil
	}
	return v.Owner
}

// ConstantIndexValue returns the immediate of a constant-index value.
func ConstantIndexValue(v *Value) (int64, bool) {
	def := v.DefiningInstr()
	if def == nil || def.Op != OpConstantIndex {
		return 0, false
	}
	return def.IntVal, true
}
