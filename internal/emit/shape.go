package emit

import (
	"fmt"

	"ember/internal/edsl"
	"ember/internal/ir"
	"ember/internal/types"
)

// SizesOf emits one size value per dimension of a memref value, in
// declared order: an immediate constant for static dimensions, a dim
// query for dynamic ones. Repeated calls emit fresh (redundant) IR;
// downstream simplification is expected to deduplicate.
func (e *Emitter) SizesOf(v *ir.Value) []*ir.Value {
	t := e.builder.Types().MustLookup(v.Type)
	if t.Kind != types.KindMemRef {
		panic(fmt.Errorf("emit: expected a memref value, got %s", e.builder.Types().String(v.Type)))
	}
	res := make([]*ir.Value, 0, len(t.Shape))
	for i, d := range t.Shape {
		if d == types.DynamicDim {
			res = append(res, e.builder.Dim(v, i))
		} else {
			res = append(res, e.builder.ConstantIndex(d))
		}
	}
	return res
}

// BoundShape creates one fresh placeholder per dimension of a memref
// value and binds each to the corresponding emitted size, pairwise in
// declared order.
func (e *Emitter) BoundShape(v *ir.Value) []*edsl.Expr {
	sizes := e.SizesOf(v)
	exprs := make([]*edsl.Expr, len(sizes))
	idx := e.builder.Types().Index()
	for i, s := range sizes {
		ex := edsl.NewUnbound(idx)
		e.Bind(ex, s)
		exprs[i] = ex
	}
	return exprs
}

// View is the bound iteration space of a memref: per-dimension lower
// bounds, upper bounds and steps, index-wise corresponding; dimension
// i iterates [LowerBounds[i], UpperBounds[i]) by Steps[i].
type View struct {
	LowerBounds []*edsl.Expr
	UpperBounds []*edsl.Expr
	Steps       []*edsl.Expr
}

// BoundView derives the full iteration space of a memref value: lower
// bounds bound to constant 0, upper bounds to the emitted sizes, steps
// to constant 1. All three sequences have length equal to the rank.
func (e *Emitter) BoundView(v *ir.Value) View {
	rank := e.builder.Types().Rank(v.Type)

	lbs := make([]*edsl.Expr, 0, rank)
	for i := 0; i < rank; i++ {
		lbs = append(lbs, e.BindConstantIndex(0))
	}

	ubs := e.BoundShape(v)

	steps := make([]*edsl.Expr, 0, rank)
	for i := 0; i < rank; i++ {
		steps = append(steps, e.BindConstantIndex(1))
	}

	return View{LowerBounds: lbs, UpperBounds: ubs, Steps: steps}
}
