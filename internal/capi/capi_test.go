package capi

import (
	"testing"

	"ember/internal/diag"
	"ember/internal/edsl"
	"ember/internal/emit"
	"ember/internal/ir"
	"ember/internal/types"
)

func newTestEmitter(t *testing.T, in *types.Interner, argTypes ...types.TypeID) (*emit.Emitter, *ir.Func) {
	t.Helper()
	fn := ir.NewFunc("test", argTypes)
	return emit.New(ir.NewBuilder(fn, in), diag.NewBag(16)), fn
}

func TestFunctionArgumentQueries(t *testing.T) {
	in := types.NewInterner()
	f32 := in.Float(types.FloatF32)
	mem := in.MemRef([]int64{types.DynamicDim, 8}, f32)
	_, fn := newTestEmitter(t, in, mem, in.Index())

	if got := FunctionArgumentRank(fn, in, 0); got != 2 {
		t.Fatalf("memref argument rank = %d, want 2", got)
	}
	if got := FunctionArgumentRank(fn, in, 1); got != 0 {
		t.Fatalf("scalar argument rank = %d, want 0", got)
	}
	if got := FunctionArgumentType(fn, 0); got != mem {
		t.Fatalf("argument type = %d, want %d", got, mem)
	}
}

func TestBindMemRefViewAndShape(t *testing.T) {
	in := types.NewInterner()
	f32 := in.Float(types.FloatF32)
	mem := in.MemRef([]int64{4, types.DynamicDim}, f32)
	e, _ := newTestEmitter(t, in, mem)

	arg := BindFunctionArgument(e, 0)
	if got := BoundMemRefRank(e, arg); got != 2 {
		t.Fatalf("BoundMemRefRank = %d, want 2", got)
	}

	shape := BindMemRefShape(e, arg)
	if len(shape) != 2 {
		t.Fatalf("got %d shape expressions, want 2", len(shape))
	}
	view := BindMemRefView(e, arg)
	if len(view.LowerBounds) != 2 || len(view.UpperBounds) != 2 || len(view.Steps) != 2 {
		t.Fatalf("view sequences have lengths %d/%d/%d, want 2",
			len(view.LowerBounds), len(view.UpperBounds), len(view.Steps))
	}
}

func TestBoundMemRefRankUnboundFatal(t *testing.T) {
	in := types.NewInterner()
	e, _ := newTestEmitter(t, in)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic for an unbound expression")
		}
	}()
	BoundMemRefRank(e, edsl.NewUnbound(in.Index()))
}

func boundType(e *emit.Emitter, in *types.Interner, ex *edsl.Expr) string {
	v, ok := e.Lookup(ex)
	if !ok {
		return "<unbound>"
	}
	return in.String(v.Type)
}

func TestConstantBinderTypes(t *testing.T) {
	in := types.NewInterner()
	e, _ := newTestEmitter(t, in)

	tests := []struct {
		name string
		bind func() string
		want string
	}{
		{name: "bf16", bind: func() string { return boundType(e, in, BindConstantBF16(e, 0.5)) }, want: "bf16"},
		{name: "f16", bind: func() string { return boundType(e, in, BindConstantF16(e, 0.5)) }, want: "f16"},
		{name: "f32", bind: func() string { return boundType(e, in, BindConstantF32(e, 1)) }, want: "f32"},
		{name: "f64", bind: func() string { return boundType(e, in, BindConstantF64(e, 1)) }, want: "f64"},
		{name: "i8", bind: func() string { return boundType(e, in, BindConstantInt(e, -1, 8)) }, want: "i8"},
		{name: "index", bind: func() string { return boundType(e, in, BindConstantIndex(e, 3)) }, want: "index"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.bind(); got != tt.want {
				t.Fatalf("bound constant type = %q, want %q", got, tt.want)
			}
		})
	}
}
