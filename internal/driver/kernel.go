// Package driver turns manifest kernels into emitted, dumped IR
// functions: one interner, builder and emitter per kernel.
package driver

import (
	"fmt"
	"strings"

	"ember/internal/diag"
	"ember/internal/edsl"
	"ember/internal/emit"
	"ember/internal/ir"
	"ember/internal/manifest"
	"ember/internal/types"
)

// EmitKernel builds the kernel's symbolic loop nest, emits it and
// returns the textual dump. The returned bag holds soft emission
// diagnostics; a non-nil error means the kernel produced no usable IR.
func EmitKernel(k manifest.Kernel) (string, *diag.Bag, error) {
	in := types.NewInterner()
	elem, err := manifest.ElemType(in, k.Elem)
	if err != nil {
		return "", nil, err
	}
	memTy := in.MemRef(k.Shape, elem)

	argTypes := make([]types.TypeID, k.Op.MemRefArgs())
	for i := range argTypes {
		argTypes[i] = memTy
	}
	fn := ir.NewFunc(k.Name, argTypes)
	bag := diag.NewBag(64)
	e := emit.New(ir.NewBuilder(fn, in), bag)
	args := e.BindFunctionArguments()

	out, _ := e.Lookup(args[len(args)-1])
	view := e.BoundView(out)

	// One loop statement per dimension, outermost first; the loop LHS
	// placeholders become the induction variables indexing the body.
	rank := len(k.Shape)
	loops := make([]edsl.Stmt, rank)
	ivs := make([]*edsl.Expr, rank)
	for i := 0; i < rank; i++ {
		loops[i] = edsl.For(view.LowerBounds[i], view.UpperBounds[i], view.Steps[i])
		ivs[i] = loops[i].LHS
	}
	body, err := kernelBody(e, k, in, elem, args, ivs)
	if err != nil {
		return "", bag, err
	}
	for i := rank - 1; i >= 0; i-- {
		if i == rank-1 {
			loops[i].Body = body
		} else {
			loops[i].Body = []edsl.Stmt{loops[i+1]}
		}
	}

	e.EmitStmts([]edsl.Stmt{loops[0], edsl.NewStmt(edsl.Return())})
	if bag.HasErrors() {
		return "", bag, fmt.Errorf("driver: kernel %q: emission failed", k.Name)
	}

	var sb strings.Builder
	if err := ir.DumpFunc(&sb, fn, in); err != nil {
		return "", bag, err
	}
	return sb.String(), bag, nil
}

// kernelBody builds the innermost statements: loads, the elementwise
// operation and the store into the output argument.
func kernelBody(e *emit.Emitter, k manifest.Kernel, in *types.Interner, elem types.TypeID, args, ivs []*edsl.Expr) ([]edsl.Stmt, error) {
	outArg := args[len(args)-1]
	switch k.Op {
	case manifest.OpFill:
		c, err := zeroConstant(e, in, elem)
		if err != nil {
			return nil, err
		}
		return []edsl.Stmt{edsl.NewStmt(edsl.Store(c, outArg, ivs...))}, nil
	case manifest.OpCopy:
		val := edsl.Load(args[0], ivs...)
		return []edsl.Stmt{edsl.NewStmt(edsl.Store(val, outArg, ivs...))}, nil
	case manifest.OpAdd, manifest.OpSub, manifest.OpMul:
		a := edsl.Load(args[0], ivs...)
		b := edsl.Load(args[1], ivs...)
		var op *edsl.Expr
		switch k.Op {
		case manifest.OpAdd:
			op = edsl.Add(a, b)
		case manifest.OpSub:
			op = edsl.Sub(a, b)
		default:
			op = edsl.Mul(a, b)
		}
		return []edsl.Stmt{edsl.NewStmt(edsl.Store(op, outArg, ivs...))}, nil
	default:
		return nil, fmt.Errorf("%w: %q", manifest.ErrBadOp, k.Op)
	}
}

// zeroConstant binds the element type's zero for fill kernels.
func zeroConstant(e *emit.Emitter, in *types.Interner, elem types.TypeID) (*edsl.Expr, error) {
	t := in.MustLookup(elem)
	switch t.Kind {
	case types.KindFloat:
		return e.BindConstantFloat(0, t.FloatWidth), nil
	case types.KindInt:
		return e.BindConstantInt(0, t.IntWidth), nil
	case types.KindIndex:
		return e.BindConstantIndex(0), nil
	default:
		return nil, fmt.Errorf("%w: cannot fill %s", manifest.ErrBadElem, in.String(elem))
	}
}
