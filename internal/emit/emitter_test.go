package emit

import (
	"testing"

	"ember/internal/diag"
	"ember/internal/edsl"
	"ember/internal/ir"
	"ember/internal/types"
)

// All argTypes passed to newTestEmitter must come from testInterner so
// the builder and the caller agree on TypeIDs.
var testInterner = types.NewInterner()

func newTestEmitter(t *testing.T, argTypes ...types.TypeID) (*Emitter, *diag.Bag) {
	t.Helper()
	fn := ir.NewFunc("test", argTypes)
	bag := diag.NewBag(16)
	return New(ir.NewBuilder(fn, testInterner), bag), bag
}

func mustPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic")
		}
	}()
	fn()
}

func TestEmitMemoization(t *testing.T) {
	idx := testInterner.Index()
	e, _ := newTestEmitter(t, idx, idx)

	a := e.BindFunctionArgument(0)
	b := e.BindFunctionArgument(1)
	sum := edsl.Add(a, b)

	v1 := e.EmitExpr(sum)
	if v1 == nil {
		t.Fatalf("emission failed")
	}
	before := e.Builder().Func().Entry.NumInstrs()

	v2 := e.EmitExpr(sum)
	if v2 != v1 {
		t.Fatalf("re-emission returned a different value")
	}
	if after := e.Builder().Func().Entry.NumInstrs(); after != before {
		t.Fatalf("re-emission produced IR: %d -> %d instructions", before, after)
	}
}

func TestBindDoubleFatal(t *testing.T) {
	idx := testInterner.Index()
	e, _ := newTestEmitter(t, idx)

	ex := edsl.NewUnbound(idx)
	arg := e.Builder().Func().Argument(0)
	e.Bind(ex, arg)

	if v, ok := e.Lookup(ex); !ok || v != arg {
		t.Fatalf("Lookup after Bind: got %v, %v", v, ok)
	}
	// Rebinding, even to the same value, is a programming error.
	mustPanic(t, func() { e.Bind(ex, arg) })
}

func TestOperatorResolution(t *testing.T) {
	idx := testInterner.Index()
	i32 := testInterner.Int(32)
	f32 := testInterner.Float(types.FloatF32)

	tests := []struct {
		name    string
		argType types.TypeID
		build   func(a, b *edsl.Expr) *edsl.Expr
		wantOp  ir.OpKind
		wantMap string
	}{
		{name: "index_add_affine", argType: idx, build: edsl.Add, wantOp: ir.OpAffineApply, wantMap: "(d0 + d1)"},
		{name: "index_sub_affine", argType: idx, build: edsl.Sub, wantOp: ir.OpAffineApply, wantMap: "(d0 - d1)"},
		{name: "index_mul_never_affine", argType: idx, build: edsl.Mul, wantOp: ir.OpMulI},
		{name: "int_add", argType: i32, build: edsl.Add, wantOp: ir.OpAddI},
		{name: "int_sub", argType: i32, build: edsl.Sub, wantOp: ir.OpSubI},
		{name: "int_mul", argType: i32, build: edsl.Mul, wantOp: ir.OpMulI},
		{name: "float_add", argType: f32, build: edsl.Add, wantOp: ir.OpAddF},
		{name: "float_sub", argType: f32, build: edsl.Sub, wantOp: ir.OpSubF},
		{name: "float_mul", argType: f32, build: edsl.Mul, wantOp: ir.OpMulF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEmitter(t, tt.argType, tt.argType)
			a := e.BindFunctionArgument(0)
			b := e.BindFunctionArgument(1)

			v := e.EmitExpr(tt.build(a, b))
			if v == nil {
				t.Fatalf("emission failed")
			}
			def := v.DefiningInstr()
			if def == nil || def.Op != tt.wantOp {
				t.Fatalf("lowered to %v, want %s", def, tt.wantOp)
			}
			if tt.wantMap != "" {
				if got := def.Map.Exprs[0].String(); got != tt.wantMap {
					t.Fatalf("affine map expr = %q, want %q", got, tt.wantMap)
				}
			}
		})
	}
}

func TestUnaryNot(t *testing.T) {
	i1 := testInterner.Int(1)
	e, _ := newTestEmitter(t, i1)

	a := e.BindFunctionArgument(0)
	v := e.EmitExpr(edsl.Not(a))
	if v == nil {
		t.Fatalf("emission failed")
	}
	def := v.DefiningInstr()
	if def == nil || def.Op != ir.OpCmpI || def.Pred != ir.PredEQ {
		t.Fatalf("not lowered to %v, want cmpi eq against zero", def)
	}
	zero := def.Operands[1].DefiningInstr()
	if zero == nil || zero.Op != ir.OpConstantInt || zero.IntVal != 0 {
		t.Fatalf("not compares against %s, want the zero constant", ir.DescribeValue(def.Operands[1], testInterner))
	}

	// Negating a float is outside the closed operator domain.
	f := e.BindConstantFloat(1, types.FloatF32)
	mustPanic(t, func() { e.EmitExpr(edsl.Not(f)) })
}

func TestLoopConstantBounds(t *testing.T) {
	e, _ := newTestEmitter(t)

	loop := edsl.ForExpr(e.BindConstantIndex(0), e.BindConstantIndex(10), e.BindConstantIndex(2))
	iv := e.EmitExpr(loop)
	if iv == nil {
		t.Fatalf("loop emission failed")
	}
	owner := ir.InductionVarOwner(iv)
	if owner == nil {
		t.Fatalf("loop result is not an induction variable")
	}
	if !owner.HasConstBounds || owner.LB != 0 || owner.UB != 10 || owner.Step != 2 {
		t.Fatalf("expected constant-bound form 0..10 step 2, got %+v", owner)
	}
}

func TestLoopDynamicBounds(t *testing.T) {
	f32 := testInterner.Float(types.FloatF32)
	mem := testInterner.MemRef([]int64{types.DynamicDim}, f32)
	e, _ := newTestEmitter(t, mem)

	shape := e.BoundShape(e.Builder().Func().Argument(0))
	loop := edsl.ForExpr(e.Zero(), shape[0], e.One())

	iv := e.EmitExpr(loop)
	if iv == nil {
		t.Fatalf("loop emission failed")
	}
	owner := ir.InductionVarOwner(iv)
	if owner.HasConstBounds {
		t.Fatalf("dynamic upper bound emitted the constant form")
	}
	if owner.UpperMap.String() != "(d0) -> (d0)" {
		t.Fatalf("upper map = %s, want the identity map", owner.UpperMap)
	}
	ubDef := owner.UpperOperands[0].DefiningInstr()
	if ubDef == nil || ubDef.Op != ir.OpDim {
		t.Fatalf("upper bound operand should be the dim query, got %s", ir.DescribeValue(owner.UpperOperands[0], testInterner))
	}
}

func TestLoopNonConstantStepFatal(t *testing.T) {
	idx := testInterner.Index()
	e, _ := newTestEmitter(t, idx)

	step := e.BindFunctionArgument(0)
	loop := edsl.ForExpr(e.Zero(), e.BindConstantIndex(8), step)
	mustPanic(t, func() { e.EmitExpr(loop) })
}

func TestLoopBoundProvenanceFatal(t *testing.T) {
	idx := testInterner.Index()
	e, _ := newTestEmitter(t, idx, idx)

	a := e.BindFunctionArgument(0)
	b := e.BindFunctionArgument(1)
	// Index multiplication lowers to muli, which has no affine
	// provenance and therefore cannot serve as a loop bound.
	ub := edsl.Mul(a, b)
	loop := edsl.ForExpr(e.Zero(), ub, e.One())
	mustPanic(t, func() { e.EmitExpr(loop) })
}

func TestLoopBoundFromInduction(t *testing.T) {
	e, _ := newTestEmitter(t)

	outer := edsl.ForExpr(e.Zero(), e.BindConstantIndex(10), e.One())
	iv := e.EmitExpr(outer)
	if iv == nil {
		t.Fatalf("outer loop emission failed")
	}

	// A triangular inner loop: the outer induction variable is a valid
	// upper bound.
	ivExpr := edsl.NewUnbound(testInterner.Index())
	e.Bind(ivExpr, iv)
	inner := edsl.ForExpr(e.Zero(), ivExpr, e.One())
	if e.EmitExpr(inner) == nil {
		t.Fatalf("inner loop emission failed")
	}
}

func TestBoundView(t *testing.T) {
	f32 := testInterner.Float(types.FloatF32)
	mem := testInterner.MemRef([]int64{types.DynamicDim, 3, 4, types.DynamicDim, 5}, f32)
	e, _ := newTestEmitter(t, mem)

	view := e.BoundView(e.Builder().Func().Argument(0))
	if len(view.LowerBounds) != 5 || len(view.UpperBounds) != 5 || len(view.Steps) != 5 {
		t.Fatalf("view sequences have lengths %d/%d/%d, want 5",
			len(view.LowerBounds), len(view.UpperBounds), len(view.Steps))
	}
	for i := 0; i < 5; i++ {
		lb, ok := e.Lookup(view.LowerBounds[i])
		if !ok {
			t.Fatalf("lower bound %d unbound", i)
		}
		if c, ok := ir.ConstantIndexValue(lb); !ok || c != 0 {
			t.Fatalf("lower bound %d = %s, want constant 0", i, ir.DescribeValue(lb, testInterner))
		}
		st, ok := e.Lookup(view.Steps[i])
		if !ok {
			t.Fatalf("step %d unbound", i)
		}
		if c, ok := ir.ConstantIndexValue(st); !ok || c != 1 {
			t.Fatalf("step %d = %s, want constant 1", i, ir.DescribeValue(st, testInterner))
		}
	}
}

func TestSizesOfMixedShape(t *testing.T) {
	f32 := testInterner.Float(types.FloatF32)
	mem := testInterner.MemRef([]int64{types.DynamicDim, 3, 4, types.DynamicDim, 5}, f32)
	e, _ := newTestEmitter(t, mem)

	sizes := e.SizesOf(e.Builder().Func().Argument(0))
	if len(sizes) != 5 {
		t.Fatalf("got %d sizes, want 5", len(sizes))
	}
	wantConst := map[int]int64{1: 3, 2: 4, 4: 5}
	wantDim := map[int]int64{0: 0, 3: 3}
	for i, s := range sizes {
		def := s.DefiningInstr()
		if c, isDim := wantDim[i]; isDim {
			if def.Op != ir.OpDim || def.IntVal != c {
				t.Fatalf("size %d: got %s, want dim query on axis %d", i, ir.DescribeValue(s, testInterner), c)
			}
			continue
		}
		if def.Op != ir.OpConstantIndex || def.IntVal != wantConst[i] {
			t.Fatalf("size %d: got %s, want constant %d", i, ir.DescribeValue(s, testInterner), wantConst[i])
		}
	}
}

func TestEmitBlockIdempotent(t *testing.T) {
	idx := testInterner.Index()
	e, _ := newTestEmitter(t)

	sb := edsl.NewStmtBlock("exit", []types.TypeID{idx, idx})
	before := len(e.Builder().Func().Blocks)

	e.EmitBlock(sb)
	after := len(e.Builder().Func().Blocks)
	if after != before+1 {
		t.Fatalf("EmitBlock created %d blocks, want 1", after-before)
	}
	for i, arg := range sb.Args {
		v, ok := e.Lookup(arg)
		if !ok {
			t.Fatalf("block argument %d not bound", i)
		}
		if v.Kind != ir.ValueBlockArg || v.ArgIndex != i {
			t.Fatalf("block argument %d bound to %s", i, ir.DescribeValue(v, testInterner))
		}
	}

	// Re-emission is a no-op: no new block, no argument rebinding.
	e.EmitBlock(sb)
	if got := len(e.Builder().Func().Blocks); got != after {
		t.Fatalf("second EmitBlock created a block")
	}
}

func TestEmitBlockBoundArgFatal(t *testing.T) {
	idx := testInterner.Index()
	e, _ := newTestEmitter(t)

	sb := edsl.NewStmtBlock("exit", []types.TypeID{idx})
	e.Bind(sb.Args[0], e.Builder().ConstantIndex(7))
	mustPanic(t, func() { e.EmitBlock(sb) })
}

func TestUnboundLeafSoftFailure(t *testing.T) {
	idx := testInterner.Index()
	e, bag := newTestEmitter(t)

	leaf := edsl.NewUnbound(idx)
	sum := edsl.Add(leaf, e.Zero())

	if v := e.EmitExpr(sum); v != nil {
		t.Fatalf("expected nil for a tree with an unbound leaf, got %s", ir.DescribeValue(v, testInterner))
	}
	if bag.Len() == 0 {
		t.Fatalf("soft failure did not report a diagnostic")
	}
	if _, ok := e.Lookup(sum); ok {
		t.Fatalf("failed emission polluted the binding table")
	}

	// Completing the binding sequence makes the same tree emittable.
	e.Bind(leaf, e.Builder().ConstantIndex(5))
	if v := e.EmitExpr(sum); v == nil {
		t.Fatalf("emission still failing after the leaf was bound")
	}
}

func TestEmitStmtLoopNesting(t *testing.T) {
	f32 := testInterner.Float(types.FloatF32)
	mem := testInterner.MemRef([]int64{8}, f32)
	e, _ := newTestEmitter(t, mem)

	memEx := e.BindFunctionArgument(0)
	c := e.BindConstantFloat(2.5, types.FloatF32)

	st := edsl.For(e.Zero(), e.BindConstantIndex(8), e.One())
	st.Body = []edsl.Stmt{edsl.NewStmt(edsl.Store(c, memEx, st.LHS))}

	ret := edsl.NewStmt(edsl.Return())
	e.EmitStmts([]edsl.Stmt{st, ret})

	iv, ok := e.Lookup(st.LHS)
	if !ok {
		t.Fatalf("loop LHS not bound to the induction variable")
	}
	loop := ir.InductionVarOwner(iv)
	if loop == nil {
		t.Fatalf("loop LHS bound to %s, want induction variable", ir.DescribeValue(iv, testInterner))
	}
	if len(loop.Body.Instrs) != 1 || loop.Body.Instrs[0].Op != ir.OpStore {
		t.Fatalf("loop body does not hold exactly the store: %v", loop.Body.Instrs)
	}

	// The return must be a sibling of the loop in the entry block, not
	// inside the loop body.
	entry := e.Builder().Func().Entry
	last := entry.Instrs[len(entry.Instrs)-1]
	if last.Op != ir.OpReturn {
		t.Fatalf("entry block does not end with return: %s", last.Op)
	}
}

func TestEmitStmtSiblingOrder(t *testing.T) {
	f32 := testInterner.Float(types.FloatF32)
	mem := testInterner.MemRef([]int64{8}, f32)
	e, _ := newTestEmitter(t, mem)

	memEx := e.BindFunctionArgument(0)
	first := e.BindConstantFloat(1, types.FloatF32)
	second := e.BindConstantFloat(2, types.FloatF32)
	idx := e.Zero()

	e.EmitStmts([]edsl.Stmt{
		edsl.NewStmt(edsl.Store(first, memEx, idx)),
		edsl.NewStmt(edsl.Store(second, memEx, idx)),
	})

	entry := e.Builder().Func().Entry
	var stores []*ir.Instr
	for _, in := range entry.Instrs {
		if in.Op == ir.OpStore {
			stores = append(stores, in)
		}
	}
	if len(stores) != 2 {
		t.Fatalf("got %d stores, want 2", len(stores))
	}
	// Statements must land in declaration order, not reversed.
	if got := stores[0].Operands[0].DefiningInstr().FloatVal; got != 1 {
		t.Fatalf("first store in the block writes %g, want 1", got)
	}
	if got := stores[1].Operands[0].DefiningInstr().FloatVal; got != 2 {
		t.Fatalf("second store in the block writes %g, want 2", got)
	}
}

func TestEmitStmtZeroResultContract(t *testing.T) {
	idx := testInterner.Index()
	e, _ := newTestEmitter(t)

	// An unbound RHS that is not a side-effecting operation cannot
	// legally produce no value at the statement level.
	leaf := edsl.NewUnbound(idx)
	st := edsl.NewStmt(edsl.Add(leaf, e.Zero()))
	mustPanic(t, func() { e.EmitStmt(st) })
}

func TestConstantBinders(t *testing.T) {
	e, _ := newTestEmitter(t)

	tests := []struct {
		name string
		expr *edsl.Expr
		want string
	}{
		{name: "index", expr: e.BindConstantIndex(42), want: "index"},
		{name: "i16", expr: e.BindConstantInt(-1, 16), want: "i16"},
		{name: "f32", expr: e.BindConstantFloat(1.0, types.FloatF32), want: "f32"},
		{name: "f64", expr: e.BindConstantFloat(1.0, types.FloatF64), want: "f64"},
		{name: "bf16", expr: e.BindConstantFloat(0.5, types.FloatBF16), want: "bf16"},
		{name: "f16", expr: e.BindConstantFloat(0.5, types.FloatF16), want: "f16"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := e.Lookup(tt.expr)
			if !ok {
				t.Fatalf("constant binder returned an unbound expression")
			}
			if got := testInterner.String(v.Type); got != tt.want {
				t.Fatalf("constant type = %q, want %q", got, tt.want)
			}
		})
	}
}
