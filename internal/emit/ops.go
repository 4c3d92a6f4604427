package emit

import (
	"fmt"

	"ember/internal/edsl"
	"ember/internal/ir"
)

// buildOp emits the operands of an operator node and materializes the
// operation. ok=false means an operand soft-failed; a nil value with
// ok=true is a zero-result build.
func (e *Emitter) buildOp(ex *edsl.Expr) (*ir.Value, bool) {
	vals := make([]*ir.Value, len(ex.Operands))
	for i, operand := range ex.Operands {
		v := e.EmitExpr(operand)
		if v == nil {
			return nil, false
		}
		vals[i] = v
	}

	b := e.builder
	switch ex.Op {
	case edsl.OpAdd:
		return e.resolveAdd(vals[0], vals[1]), true
	case edsl.OpSub:
		return e.resolveSub(vals[0], vals[1]), true
	case edsl.OpMul:
		return e.resolveMul(vals[0], vals[1]), true
	case edsl.OpAnd:
		return b.Binary(ir.OpAndI, vals[0], vals[1]), true
	case edsl.OpOr:
		return b.Binary(ir.OpOrI, vals[0], vals[1]), true
	case edsl.OpNot:
		return e.resolveNot(vals[0]), true
	case edsl.OpCmpLT, edsl.OpCmpLE, edsl.OpCmpGT, edsl.OpCmpGE, edsl.OpCmpEQ, edsl.OpCmpNE:
		return e.resolveCmp(ex.Op, vals[0], vals[1]), true
	case edsl.OpSelect:
		return b.Select(vals[0], vals[1], vals[2]), true
	case edsl.OpAlloc:
		return b.Alloc(ex.Type), true
	case edsl.OpLoad:
		return b.Load(vals[0], vals[1:]...), true
	case edsl.OpStore:
		b.Store(vals[0], vals[1], vals[2:]...)
		return nil, true
	case edsl.OpDealloc:
		b.Dealloc(vals[0])
		return nil, true
	case edsl.OpReturn:
		b.Return(vals...)
		return nil, true
	default:
		panic(fmt.Errorf("emit: no build rule for %s", ex))
	}
}

// The scalar operator resolver dispatches on the elementwise operand
// type over the closed {index, integer, float} domain. Index add/sub
// lower through a composed affine application so downstream analysis
// sees the bound arithmetic; multiplication by a non-constant is not
// representable affinely and always takes the plain arithmetic path.

func (e *Emitter) resolveAdd(a, b *ir.Value) *ir.Value {
	t := e.builder.Types()
	if t.IsIndex(a.Type) {
		return e.builder.ComposedAffineApply(ir.AddMap(), []*ir.Value{a, b})
	}
	if t.IsInt(a.Type) {
		return e.builder.Binary(ir.OpAddI, a, b)
	}
	if !t.IsFloat(a.Type) {
		panic(fmt.Errorf("emit: add expects a float element, got %s", t.String(a.Type)))
	}
	return e.builder.Binary(ir.OpAddF, a, b)
}

func (e *Emitter) resolveSub(a, b *ir.Value) *ir.Value {
	t := e.builder.Types()
	if t.IsIndex(a.Type) {
		return e.builder.ComposedAffineApply(ir.SubMap(), []*ir.Value{a, b})
	}
	if t.IsInt(a.Type) {
		return e.builder.Binary(ir.OpSubI, a, b)
	}
	if !t.IsFloat(a.Type) {
		panic(fmt.Errorf("emit: sub expects a float element, got %s", t.String(a.Type)))
	}
	return e.builder.Binary(ir.OpSubF, a, b)
}

func (e *Emitter) resolveMul(a, b *ir.Value) *ir.Value {
	t := e.builder.Types()
	if !t.IsFloat(a.Type) {
		return e.builder.Binary(ir.OpMulI, a, b)
	}
	return e.builder.Binary(ir.OpMulF, a, b)
}

// resolveNot lowers logical negation as an equality test against zero,
// which inverts i1 operands and normalizes wider integers to i1.
func (e *Emitter) resolveNot(a *ir.Value) *ir.Value {
	t := e.builder.Types()
	if !t.IsInt(a.Type) {
		panic(fmt.Errorf("emit: not expects an integer element, got %s", t.String(a.Type)))
	}
	width := t.MustLookup(t.ElemOf(a.Type)).IntWidth
	zero := e.builder.ConstantInt(0, width)
	return e.builder.Cmp(ir.OpCmpI, ir.PredEQ, a, zero)
}

func (e *Emitter) resolveCmp(op edsl.Op, a, b *ir.Value) *ir.Value {
	pred := map[edsl.Op]ir.Pred{
		edsl.OpCmpLT: ir.PredLT,
		edsl.OpCmpLE: ir.PredLE,
		edsl.OpCmpGT: ir.PredGT,
		edsl.OpCmpGE: ir.PredGE,
		edsl.OpCmpEQ: ir.PredEQ,
		edsl.OpCmpNE: ir.PredNE,
	}[op]
	if e.builder.Types().IsFloat(a.Type) {
		return e.builder.Cmp(ir.OpCmpF, pred, a, b)
	}
	return e.builder.Cmp(ir.OpCmpI, pred, a, b)
}
