// Package capi is the flat binding surface exposed to foreign callers:
// every function is a thin delegation onto the emitter or the IR, with
// no logic of its own.
package capi

import (
	"fmt"

	"ember/internal/edsl"
	"ember/internal/emit"
	"ember/internal/ir"
	"ember/internal/types"
)

// BindFunctionArgument binds a fresh expression to the pos-th argument
// of fn's function.
func BindFunctionArgument(e *emit.Emitter, pos int) *edsl.Expr {
	return e.BindFunctionArgument(pos)
}

// BindFunctionArguments binds all function arguments in order.
func BindFunctionArguments(e *emit.Emitter) []*edsl.Expr {
	return e.BindFunctionArguments()
}

// FunctionArgumentRank returns the declared rank of the pos-th argument:
// the dimension count for memrefs, 0 for scalars.
func FunctionArgumentRank(fn *ir.Func, in *types.Interner, pos int) int {
	return in.Rank(fn.Argument(pos).Type)
}

// FunctionArgumentType returns the declared type of the pos-th argument.
func FunctionArgumentType(fn *ir.Func, pos int) types.TypeID {
	return fn.Argument(pos).Type
}

// BoundMemRefRank returns the rank of the memref a bound expression
// denotes.
func BoundMemRefRank(e *emit.Emitter, boundMemRef *edsl.Expr) int {
	v, ok := e.Lookup(boundMemRef)
	if !ok {
		panic(fmt.Errorf("capi: expected a bound expression, got %s", boundMemRef))
	}
	return e.Builder().Types().Rank(v.Type)
}

// BindMemRefShape binds one fresh expression per dimension of a bound
// memref expression to its emitted size.
func BindMemRefShape(e *emit.Emitter, boundMemRef *edsl.Expr) []*edsl.Expr {
	v, ok := e.Lookup(boundMemRef)
	if !ok {
		panic(fmt.Errorf("capi: expected a bound expression, got %s", boundMemRef))
	}
	return e.BoundShape(v)
}

// BindMemRefView derives the bound iteration space of a bound memref
// expression.
func BindMemRefView(e *emit.Emitter, boundMemRef *edsl.Expr) emit.View {
	v, ok := e.Lookup(boundMemRef)
	if !ok {
		panic(fmt.Errorf("capi: expected a bound expression, got %s", boundMemRef))
	}
	return e.BoundView(v)
}

// BindConstantBF16 binds a bf16 constant.
func BindConstantBF16(e *emit.Emitter, v float64) *edsl.Expr {
	return e.BindConstantFloat(v, types.FloatBF16)
}

// BindConstantF16 binds an f16 constant.
func BindConstantF16(e *emit.Emitter, v float32) *edsl.Expr {
	return e.BindConstantFloat(float64(v), types.FloatF16)
}

// BindConstantF32 binds an f32 constant.
func BindConstantF32(e *emit.Emitter, v float32) *edsl.Expr {
	return e.BindConstantFloat(float64(v), types.FloatF32)
}

// BindConstantF64 binds an f64 constant.
func BindConstantF64(e *emit.Emitter, v float64) *edsl.Expr {
	return e.BindConstantFloat(v, types.FloatF64)
}

// BindConstantInt binds an integer constant of the given bit width.
func BindConstantInt(e *emit.Emitter, v int64, bitwidth uint32) *edsl.Expr {
	return e.BindConstantInt(v, bitwidth)
}

// BindConstantIndex binds an index constant.
func BindConstantIndex(e *emit.Emitter, v int64) *edsl.Expr {
	return e.BindConstantIndex(v)
}
