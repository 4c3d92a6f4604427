package ir

import (
	"fmt"
	"slices"

	"ember/internal/types"
)

// Cursor is the insertion position inside a block: new instructions go
// in front of Pos.
type Cursor struct {
	Block *Block
	Pos   int
}

// Builder owns the single mutable insertion cursor for one function
// body and materializes instructions at it. Scope-entering callers save
// the cursor before recursing and restore it on every exit path.
type Builder struct {
	fn    *Func
	types *types.Interner
	cur   Cursor
}

// NewBuilder returns a builder positioned at the end of fn's entry block.
func NewBuilder(fn *Func, in *types.Interner) *Builder {
	return &Builder{
		fn:    fn,
		types: in,
		cur:   Cursor{Block: fn.Entry, Pos: len(fn.Entry.Instrs)},
	}
}

// Func returns the function under construction.
func (b *Builder) Func() *Func { return b.fn }

// Types returns the type interner.
func (b *Builder) Types() *types.Interner { return b.types }

// Cursor returns the current insertion position.
func (b *Builder) Cursor() Cursor { return b.cur }

// SetCursor restores a previously saved insertion position.
func (b *Builder) SetCursor(c Cursor) { b.cur = c }

// SetCursorToStart positions the cursor at the beginning of blk.
func (b *Builder) SetCursorToStart(blk *Block) { b.cur = Cursor{Block: blk, Pos: 0} }

// SetCursorToEnd positions the cursor after the last instruction of blk.
func (b *Builder) SetCursorToEnd(blk *Block) { b.cur = Cursor{Block: blk, Pos: len(blk.Instrs)} }

// InsertionBlock returns the block the cursor points into.
func (b *Builder) InsertionBlock() *Block { return b.cur.Block }

// CreateBlock appends a fresh block to the function and moves the
// cursor to its start.
func (b *Builder) CreateBlock() *Block {
	blk := b.fn.newBlock()
	b.SetCursorToStart(blk)
	return blk
}

// AddBlockArg appends a new argument of the given type to blk.
func (b *Builder) AddBlockArg(blk *Block, t types.TypeID) *Value {
	v := b.fn.newValue(t, ValueBlockArg)
	v.Block = blk
	v.ArgIndex = len(blk.Args)
	blk.Args = append(blk.Args, v)
	return v
}

// insert places the instruction at the cursor and advances it.
func (b *Builder) insert(in *Instr) {
	blk := b.cur.Block
	in.Parent = blk
	blk.Instrs = slices.Insert(blk.Instrs, b.cur.Pos, in)
	b.cur.Pos++
}

func (b *Builder) newResult(in *Instr, t types.TypeID) *Value {
	v := b.fn.newValue(t, ValueOpResult)
	v.Def = in
	in.Results = append(in.Results, v)
	return v
}

// ConstantIndex emits an immediate index constant.
func (b *Builder) ConstantIndex(v int64) *Value {
	in := &Instr{Op: OpConstantIndex, IntVal: v}
	res := b.newResult(in, b.types.Index())
	b.insert(in)
	return res
}

// ConstantInt emits an immediate integer constant of the given width.
func (b *Builder) ConstantInt(v int64, width uint32) *Value {
	in := &Instr{Op: OpConstantInt, IntVal: v}
	res := b.newResult(in, b.types.Int(width))
	b.insert(in)
	return res
}

// ConstantFloat emits an immediate float constant of the given format.
func (b *Builder) ConstantFloat(v float64, w types.FloatWidth) *Value {
	in := &Instr{Op: OpConstantFloat, FloatVal: v}
	res := b.newResult(in, b.types.Float(w))
	b.insert(in)
	return res
}

// Dim emits a runtime size query for the axis-th dimension of a memref.
func (b *Builder) Dim(mem *Value, axis int) *Value {
	in := &Instr{Op: OpDim, Operands: []*Value{mem}, IntVal: int64(axis)}
	res := b.newResult(in, b.types.Index())
	b.insert(in)
	return res
}

// Binary emits an arithmetic instruction; the result carries the left
// operand's type.
func (b *Builder) Binary(op OpKind, a, c *Value) *Value {
	in := &Instr{Op: op, Operands: []*Value{a, c}}
	res := b.newResult(in, a.Type)
	b.insert(in)
	return res
}

// Cmp emits a comparison producing an i1.
func (b *Builder) Cmp(op OpKind, pred Pred, a, c *Value) *Value {
	in := &Instr{Op: op, Operands: []*Value{a, c}, Pred: pred}
	res := b.newResult(in, b.types.Int(1))
	b.insert(in)
	return res
}

// Select emits a conditional pick between t and f.
func (b *Builder) Select(cond, t, f *Value) *Value {
	in := &Instr{Op: OpSelect, Operands: []*Value{cond, t, f}}
	res := b.newResult(in, t.Type)
	b.insert(in)
	return res
}

// AffineApply emits an application of m to the operands.
func (b *Builder) AffineApply(m *AffineMap, operands []*Value) *Value {
	if len(operands) != m.NumDims {
		panic(fmt.Errorf("ir: affine_apply expects %d operands, got %d", m.NumDims, len(operands)))
	}
	in := &Instr{Op: OpAffineApply, Operands: slices.Clone(operands), Map: m}
	res := b.newResult(in, b.types.Index())
	b.insert(in)
	return res
}

// ComposedAffineApply emits the application of a single-result map,
// first splicing in the maps of operands that are themselves
// affine_apply results and folding constant-index operands. A fully
// constant composition emits a plain constant instead of an apply.
// Composition keeps bound arithmetic analyzable downstream instead of
// chaining opaque applications.
func (b *Builder) ComposedAffineApply(m *AffineMap, operands []*Value) *Value {
	if len(m.Exprs) != 1 {
		panic(fmt.Errorf("ir: composed apply requires a single-result map, got %d results", len(m.Exprs)))
	}
	if len(operands) != m.NumDims {
		panic(fmt.Errorf("ir: composed apply expects %d operands, got %d", m.NumDims, len(operands)))
	}

	var newOps []*Value
	dimOf := make(map[*Value]int)
	var exprFor func(v *Value) AffineExpr
	exprFor = func(v *Value) AffineExpr {
		if c, ok := ConstantIndexValue(v); ok {
			return ConstExpr(c)
		}
		if def := v.DefiningInstr(); def != nil && def.Op == OpAffineApply && len(def.Map.Exprs) == 1 {
			repl := make([]AffineExpr, len(def.Operands))
			for i, op := range def.Operands {
				repl[i] = exprFor(op)
			}
			return def.Map.Exprs[0].Substitute(repl)
		}
		if pos, ok := dimOf[v]; ok {
			return DimExpr(pos)
		}
		pos := len(newOps)
		dimOf[v] = pos
		newOps = append(newOps, v)
		return DimExpr(pos)
	}

	repl := make([]AffineExpr, len(operands))
	for i, v := range operands {
		repl[i] = exprFor(v)
	}
	expr := m.Exprs[0].Substitute(repl)
	if c, ok := expr.ConstValue(); ok {
		return b.ConstantIndex(c)
	}
	return b.AffineApply(NewAffineMap(len(newOps), expr), newOps)
}

// Alloc emits a memref allocation of the given type.
func (b *Builder) Alloc(t types.TypeID) *Value {
	in := &Instr{Op: OpAlloc}
	res := b.newResult(in, t)
	b.insert(in)
	return res
}

// Load emits an element read: operands are the memref then the indices.
func (b *Builder) Load(mem *Value, idxs ...*Value) *Value {
	ops := append([]*Value{mem}, idxs...)
	in := &Instr{Op: OpLoad, Operands: ops}
	res := b.newResult(in, b.types.ElemOf(mem.Type))
	b.insert(in)
	return res
}

// Store emits an element write: value, memref, indices. No result.
func (b *Builder) Store(val, mem *Value, idxs ...*Value) *Instr {
	ops := append([]*Value{val, mem}, idxs...)
	in := &Instr{Op: OpStore, Operands: ops}
	b.insert(in)
	return in
}

// Dealloc emits a memref release. No result.
func (b *Builder) Dealloc(mem *Value) *Instr {
	in := &Instr{Op: OpDealloc, Operands: []*Value{mem}}
	b.insert(in)
	return in
}

// Return emits a function terminator. No result.
func (b *Builder) Return(vals ...*Value) *Instr {
	in := &Instr{Op: OpReturn, Operands: slices.Clone(vals)}
	b.insert(in)
	return in
}

// AffineForConst emits a loop with immediate bounds.
func (b *Builder) AffineForConst(lb, ub, step int64) *Instr {
	in := &Instr{Op: OpAffineFor, HasConstBounds: true, LB: lb, UB: ub, Step: step}
	b.insert(in)
	return in
}

// AffineFor emits a loop whose bounds are maps over dynamic operands.
func (b *Builder) AffineFor(lowerOps []*Value, lowerMap *AffineMap, upperOps []*Value, upperMap *AffineMap, step int64) *Instr {
	in := &Instr{
		Op:            OpAffineFor,
		LowerMap:      lowerMap,
		UpperMap:      upperMap,
		LowerOperands: slices.Clone(lowerOps),
		UpperOperands: slices.Clone(upperOps),
		Step:          step,
	}
	b.insert(in)
	return in
}

// CreateLoopBody attaches a fresh body block and induction variable to
// an affine_for. The cursor does not move; the caller steps into the
// body explicitly.
func (b *Builder) CreateLoopBody(loop *Instr) *Value {
	if loop.Op != OpAffineFor {
		panic(fmt.Errorf("ir: CreateLoopBody on %s", loop.Op))
	}
	if loop.Body != nil {
		panic(fmt.Errorf("ir: loop body already created"))
	}
	body := b.fn.newBlock()
	body.Loop = loop
	loop.Body = body
	iv := b.fn.newValue(b.types.Index(), ValueInduction)
	iv.Owner = loop
	loop.Induction = iv
	return iv
}
