package ir

// BlockID numbers blocks within a function.
type BlockID uint32

// Block owns an ordered instruction sequence and its argument values.
// A loop body block records the affine_for that encloses it.
type Block struct {
	ID     BlockID
	Args   []*Value
	Instrs []*Instr
	Func   *Func
	// Loop is non-nil when this block is the body of an affine_for.
	Loop *Instr
}

// NumInstrs returns the instruction count, counting nested loop bodies
// transitively. Tests use it to assert that re-emission adds nothing.
func (b *Block) NumInstrs() int {
	if b == nil {
		return 0
	}
	n := 0
	for _, in := range b.Instrs {
		n++
		if in.Op == OpAffineFor {
			n += in.Body.NumInstrs()
		}
	}
	return n
}
