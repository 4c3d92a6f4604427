package ir

// Instr is a single IR instruction. Attribute fields are meaningful
// only for the kinds that use them.
type Instr struct {
	Op       OpKind
	Operands []*Value
	Results  []*Value
	Parent   *Block

	// IntVal holds the immediate of constant-index/constant-int
	// instructions and the axis of dim instructions.
	IntVal int64
	// FloatVal holds the immediate of constant-float instructions.
	FloatVal float64
	// Pred is the predicate of cmpi/cmpf.
	Pred Pred
	// Map is the map of affine_apply.
	Map *AffineMap

	// affine_for attributes. Either HasConstBounds with LB/UB, or
	// LowerMap/UpperMap applied to the corresponding operand slices.
	HasConstBounds bool
	LB, UB         int64
	LowerMap       *AffineMap
	UpperMap       *AffineMap
	LowerOperands  []*Value
	UpperOperands  []*Value
	Step           int64
	Body           *Block
	Induction      *Value
}

// Result returns the single result of the instruction, or nil for
// zero-result kinds.
func (in *Instr) Result() *Value {
	if in == nil || len(in.Results) == 0 {
		return nil
	}
	return in.Results[0]
}
