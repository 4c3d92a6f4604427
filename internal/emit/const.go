package emit

import (
	"ember/internal/edsl"
	"ember/internal/types"
)

// BindConstantIndex emits an immediate index constant and returns a
// fresh expression bound to it.
func (e *Emitter) BindConstantIndex(v int64) *edsl.Expr {
	ex := edsl.NewUnbound(e.builder.Types().Index())
	e.Bind(ex, e.builder.ConstantIndex(v))
	return ex
}

// BindConstantInt emits an integer constant of the given bit width.
func (e *Emitter) BindConstantInt(v int64, width uint32) *edsl.Expr {
	ex := edsl.NewUnbound(e.builder.Types().Int(width))
	e.Bind(ex, e.builder.ConstantInt(v, width))
	return ex
}

// BindConstantFloat emits a float constant of the given format.
func (e *Emitter) BindConstantFloat(v float64, w types.FloatWidth) *edsl.Expr {
	ex := edsl.NewUnbound(e.builder.Types().Float(w))
	e.Bind(ex, e.builder.ConstantFloat(v, w))
	return ex
}

// BindFunctionArgument binds a fresh expression to the pos-th argument
// of the function under construction.
func (e *Emitter) BindFunctionArgument(pos int) *edsl.Expr {
	arg := e.builder.Func().Argument(pos)
	ex := edsl.NewUnbound(arg.Type)
	e.Bind(ex, arg)
	return ex
}

// BindFunctionArguments binds one fresh expression per function
// argument, in declaration order.
func (e *Emitter) BindFunctionArguments() []*edsl.Expr {
	fn := e.builder.Func()
	res := make([]*edsl.Expr, 0, fn.NumArguments())
	for pos := 0; pos < fn.NumArguments(); pos++ {
		res = append(res, e.BindFunctionArgument(pos))
	}
	return res
}
