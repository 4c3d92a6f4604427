// Package emit materializes symbolic edsl trees into concrete IR. The
// emitter owns the binding table mapping expression identity to emitted
// values and the single insertion cursor of the underlying builder; it
// is scoped to one function body and is not safe for concurrent use.
package emit

import (
	"fmt"

	"ember/internal/diag"
	"ember/internal/edsl"
	"ember/internal/ir"
)

// Emitter binds symbolic expressions to emitted values exactly once and
// walks statement trees into the builder's function body.
//
// Failures come in two severities. Malformed DSL construction (double
// binding, non-constant loop steps, bounds without affine provenance,
// bound block arguments, unexpected zero-result builds) panics: these
// are programming errors in client code. An expression tree referencing
// a leaf nobody bound is a soft failure: it is reported to the bag and
// EmitExpr returns nil, which propagates through batch and loop
// emission without polluting the binding table.
type Emitter struct {
	builder       *ir.Builder
	bag           *diag.Bag
	bindings      map[*edsl.Expr]*ir.Value
	blockBindings map[*edsl.StmtBlock]*ir.Block

	zero, one *edsl.Expr
}

// New creates an emitter over the builder and binds the ubiquitous
// index constants 0 and 1 at the current insertion point.
func New(b *ir.Builder, bag *diag.Bag) *Emitter {
	e := &Emitter{
		builder:       b,
		bag:           bag,
		bindings:      make(map[*edsl.Expr]*ir.Value),
		blockBindings: make(map[*edsl.StmtBlock]*ir.Block),
	}
	e.zero = e.BindConstantIndex(0)
	e.one = e.BindConstantIndex(1)
	return e
}

// Builder returns the underlying IR builder.
func (e *Emitter) Builder() *ir.Builder { return e.builder }

// Zero returns the pre-bound index constant 0.
func (e *Emitter) Zero() *edsl.Expr { return e.zero }

// One returns the pre-bound index constant 1.
func (e *Emitter) One() *edsl.Expr { return e.one }

// Bind records that ex denotes v. Rebinding an expression is fatal:
// bindings model immutable SSA-like values, so a second bind means the
// client's DSL construction is broken.
func (e *Emitter) Bind(ex *edsl.Expr, v *ir.Value) *Emitter {
	if prev, ok := e.bindings[ex]; ok {
		panic(fmt.Errorf("emit: double binding of %s: bound to %s, rebinding to %s",
			ex, ir.DescribeValue(prev, e.builder.Types()), ir.DescribeValue(v, e.builder.Types())))
	}
	e.bindings[ex] = v
	return e
}

// Lookup returns the value bound to ex, if any.
func (e *Emitter) Lookup(ex *edsl.Expr) (*ir.Value, bool) {
	v, ok := e.bindings[ex]
	return v, ok
}

// EmitExpr materializes ex and returns its value. Emission is memoized
// on expression identity: a second call returns the same value and
// produces no further IR. A nil return means an unbound leaf was
// reached; the failure has been reported to the bag.
func (e *Emitter) EmitExpr(ex *edsl.Expr) *ir.Value {
	if v, ok := e.bindings[ex]; ok {
		return v
	}

	var res *ir.Value
	zeroResult := false
	switch ex.Kind {
	case edsl.ExprUnary, edsl.ExprBinary, edsl.ExprTernary, edsl.ExprVariadic:
		v, ok := e.buildOp(ex)
		if !ok {
			return nil
		}
		res = v
		if res == nil {
			if !ex.Op.ZeroResult() {
				panic(fmt.Errorf("emit: %s built no result; only side-effecting operations may", ex))
			}
			zeroResult = true
		}
	case edsl.ExprFor:
		v, ok := e.emitLoop(ex)
		if !ok {
			return nil
		}
		res = v
	}

	if res == nil && !zeroResult {
		// An unbound leaf reached emission. The DSL is dynamically
		// typed, so this surfaces at runtime rather than construction.
		e.bag.Add(diag.Diagnostic{
			Severity: diag.SevError,
			Code:     diag.EmitUnboundLeaf,
			Message:  "expression references an unbound value",
			Subject:  ex.String(),
			Detail:   "unbound",
		})
		return nil
	}

	if res != nil {
		if def := res.DefiningInstr(); def != nil && len(def.Results) > 1 {
			panic(fmt.Errorf("emit: %s produced %d results; multi-result expressions are not supported", ex, len(def.Results)))
		}
	}
	e.Bind(ex, res)
	return res
}

// EmitExprs emits in declaration order; later expressions may reference
// leaves bound by earlier ones, so the batch is not reorderable. Failed
// entries stay nil in the result.
func (e *Emitter) EmitExprs(exprs []*edsl.Expr) []*ir.Value {
	res := make([]*ir.Value, 0, len(exprs))
	for _, ex := range exprs {
		res = append(res, e.EmitExpr(ex))
	}
	return res
}
