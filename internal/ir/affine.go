package ir

import "fmt"

// AffineExpr is a restricted linear-arithmetic expression over
// dimension operands: dims, integer constants and add/sub/mul nodes.
type AffineExpr interface {
	// Substitute replaces each dim d_i with repl[i].
	Substitute(repl []AffineExpr) AffineExpr
	// ConstValue returns the immediate when the expression folds to a
	// constant.
	ConstValue() (int64, bool)
	// MaxDim returns the highest dim position referenced, -1 for none.
	MaxDim() int
	String() string
}

// AffineDimExpr references the i-th dimension operand.
type AffineDimExpr struct{ Pos int }

// AffineConstExpr is an integer immediate.
type AffineConstExpr struct{ Val int64 }

// AffineBinOp enumerates affine binary operators.
type AffineBinOp uint8

const (
	AffAdd AffineBinOp = iota
	AffSub
	AffMul
)

// AffineBinExpr combines two affine sub-expressions.
type AffineBinExpr struct {
	Op   AffineBinOp
	L, R AffineExpr
}

// DimExpr returns the expression d_pos.
func DimExpr(pos int) AffineExpr { return AffineDimExpr{Pos: pos} }

// ConstExpr returns a constant expression.
func ConstExpr(v int64) AffineExpr { return AffineConstExpr{Val: v} }

// AddExpr returns l+r, folding constants.
func AddExpr(l, r AffineExpr) AffineExpr { return makeBin(AffAdd, l, r) }

// SubExpr returns l-r, folding constants.
func SubExpr(l, r AffineExpr) AffineExpr { return makeBin(AffSub, l, r) }

// MulExpr returns l*r, folding constants. Affine multiplication is only
// meaningful when at least one side is constant; callers enforce that.
func MulExpr(l, r AffineExpr) AffineExpr { return makeBin(AffMul, l, r) }

func makeBin(op AffineBinOp, l, r AffineExpr) AffineExpr {
	lc, lok := l.ConstValue()
	rc, rok := r.ConstValue()
	if lok && rok {
		switch op {
		case AffAdd:
			return AffineConstExpr{Val: lc + rc}
		case AffSub:
			return AffineConstExpr{Val: lc - rc}
		case AffMul:
			return AffineConstExpr{Val: lc * rc}
		}
	}
	return AffineBinExpr{Op: op, L: l, R: r}
}

func (e AffineDimExpr) Substitute(repl []AffineExpr) AffineExpr {
	if e.Pos < len(repl) && repl[e.Pos] != nil {
		return repl[e.Pos]
	}
	return e
}
func (e AffineDimExpr) ConstValue() (int64, bool) { return 0, false }
func (e AffineDimExpr) MaxDim() int               { return e.Pos }
func (e AffineDimExpr) String() string            { return fmt.Sprintf("d%d", e.Pos) }

func (e AffineConstExpr) Substitute([]AffineExpr) AffineExpr { return e }
func (e AffineConstExpr) ConstValue() (int64, bool)          { return e.Val, true }
func (e AffineConstExpr) MaxDim() int                        { return -1 }
func (e AffineConstExpr) String() string                     { return fmt.Sprintf("%d", e.Val) }

func (e AffineBinExpr) Substitute(repl []AffineExpr) AffineExpr {
	return makeBin(e.Op, e.L.Substitute(repl), e.R.Substitute(repl))
}
func (e AffineBinExpr) ConstValue() (int64, bool) { return 0, false }
func (e AffineBinExpr) MaxDim() int {
	l, r := e.L.MaxDim(), e.R.MaxDim()
	if l > r {
		return l
	}
	return r
}
func (e AffineBinExpr) String() string {
	op := "+"
	switch e.Op {
	case AffSub:
		op = "-"
	case AffMul:
		op = "*"
	}
	return fmt.Sprintf("(%s %s %s)", e.L, op, e.R)
}

// AffineMap is a list of affine expressions over NumDims dimension
// operands. Loop bound maps and affine_apply maps are single-result.
type AffineMap struct {
	NumDims int
	Exprs   []AffineExpr
}

// NewAffineMap constructs a map, panicking when an expression
// references a dim beyond NumDims.
func NewAffineMap(numDims int, exprs ...AffineExpr) *AffineMap {
	for _, e := range exprs {
		if e.MaxDim() >= numDims {
			panic(fmt.Errorf("ir: affine map expr %s references d%d with only %d dims", e, e.MaxDim(), numDims))
		}
	}
	return &AffineMap{NumDims: numDims, Exprs: exprs}
}

// IdentityMap returns the single-dim identity map (d0) -> d0.
func IdentityMap() *AffineMap {
	return NewAffineMap(1, DimExpr(0))
}

// AddMap returns (d0, d1) -> d0+d1.
func AddMap() *AffineMap {
	return NewAffineMap(2, AddExpr(DimExpr(0), DimExpr(1)))
}

// SubMap returns (d0, d1) -> d0-d1.
func SubMap() *AffineMap {
	return NewAffineMap(2, SubExpr(DimExpr(0), DimExpr(1)))
}

func (m *AffineMap) String() string {
	s := "("
	for i := 0; i < m.NumDims; i++ {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("d%d", i)
	}
	s += ") -> ("
	for i, e := range m.Exprs {
		if i > 0 {
			s += ", "
		}
		s += e.String()
	}
	return s + ")"
}
