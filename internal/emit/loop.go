package emit

import (
	"fmt"

	"ember/internal/edsl"
	"ember/internal/ir"
)

// emitLoop materializes a loop-construct expression: bounds and step
// first, then the loop itself, then a fresh body scope. The returned
// value is the induction variable. ok=false propagates a soft failure
// of any of the three control sub-expressions.
func (e *Emitter) emitLoop(ex *edsl.Expr) (*ir.Value, bool) {
	vals := e.EmitExprs(ex.Operands)
	for _, v := range vals {
		if v == nil {
			return nil, false
		}
	}
	if len(vals) != 3 {
		panic(fmt.Errorf("emit: loop construct %s has %d control expressions, want 3", ex, len(vals)))
	}
	lb, ub := vals[0], vals[1]

	e.checkBoundProvenance(lb, "lower bound", ex)
	e.checkBoundProvenance(ub, "upper bound", ex)

	// Non-constant steps are unsupported by the structured loop form.
	step, ok := ir.ConstantIndexValue(vals[2])
	if !ok {
		panic(fmt.Errorf("emit: step of %s is not a constant index: %s",
			ex, ir.DescribeValue(vals[2], e.builder.Types())))
	}

	// Two literal bounds emit the compact constant form.
	var loop *ir.Instr
	if lbc, lok := ir.ConstantIndexValue(lb); lok {
		if ubc, uok := ir.ConstantIndexValue(ub); uok {
			loop = e.builder.AffineForConst(lbc, ubc, step)
		}
	}
	if loop == nil {
		m := ir.IdentityMap()
		loop = e.builder.AffineFor([]*ir.Value{lb}, m, []*ir.Value{ub}, m, step)
	}
	return e.builder.CreateLoopBody(loop), true
}

// checkBoundProvenance enforces that loop bounds trace to affine
// structure: an immediate constant, a composed affine application, a
// dimension size query (an affine symbol), an induction variable of an
// enclosing loop, or a raw block/function argument (the latter two have
// no defining instruction). Anything else cannot be represented by the
// structured loop form.
func (e *Emitter) checkBoundProvenance(v *ir.Value, which string, ex *edsl.Expr) {
	def := v.DefiningInstr()
	if def == nil {
		return
	}
	switch def.Op {
	case ir.OpConstantIndex, ir.OpAffineApply, ir.OpDim:
		return
	}
	panic(fmt.Errorf("emit: %s of %s does not have affine provenance: %s",
		which, ex, ir.DescribeValue(v, e.builder.Types())))
}
