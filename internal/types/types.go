package types

import (
	"fmt"
	"strings"
)

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// DynamicDim is the shape entry marking a dimension whose size is only
// known at runtime.
const DynamicDim int64 = -1

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	// KindIndex is the platform-sized integer used for loop bounds,
	// induction variables and memory indexing.
	KindIndex
	// KindInt is a fixed-width integer.
	KindInt
	// KindFloat is a floating-point scalar.
	KindFloat
	// KindVector is a fixed-shape vector of scalars.
	KindVector
	// KindMemRef is a rank-N memory region with a per-dimension size
	// that is either a static constant or DynamicDim.
	KindMemRef
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindIndex:
		return "index"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindVector:
		return "vector"
	case KindMemRef:
		return "memref"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// FloatWidth captures the precision of floating-point types.
type FloatWidth uint8

const (
	FloatInvalid FloatWidth = iota
	FloatBF16
	FloatF16
	FloatF32
	FloatF64
)

func (w FloatWidth) String() string {
	switch w {
	case FloatBF16:
		return "bf16"
	case FloatF16:
		return "f16"
	case FloatF32:
		return "f32"
	case FloatF64:
		return "f64"
	default:
		return fmt.Sprintf("FloatWidth(%d)", w)
	}
}

// Bits returns the bit width of the format.
func (w FloatWidth) Bits() uint32 {
	switch w {
	case FloatBF16, FloatF16:
		return 16
	case FloatF32:
		return 32
	case FloatF64:
		return 64
	default:
		return 0
	}
}

// Type is a structural type descriptor. Scalar kinds use IntWidth or
// FloatWidth; Vector and MemRef use Elem plus Shape.
type Type struct {
	Kind       Kind
	IntWidth   uint32
	FloatWidth FloatWidth
	Elem       TypeID
	Shape      []int64
}

// MakeIndex returns the index type descriptor.
func MakeIndex() Type { return Type{Kind: KindIndex} }

// MakeInt returns an integer descriptor of the given bit width.
func MakeInt(width uint32) Type { return Type{Kind: KindInt, IntWidth: width} }

// MakeFloat returns a float descriptor of the given format.
func MakeFloat(w FloatWidth) Type { return Type{Kind: KindFloat, FloatWidth: w} }

// MakeVector returns a vector descriptor over the given element type.
func MakeVector(shape []int64, elem TypeID) Type {
	return Type{Kind: KindVector, Elem: elem, Shape: shape}
}

// MakeMemRef returns a memref descriptor over the given element type.
// Shape entries equal to DynamicDim mark runtime-sized dimensions.
func MakeMemRef(shape []int64, elem TypeID) Type {
	return Type{Kind: KindMemRef, Elem: elem, Shape: shape}
}

// Rank returns the number of dimensions for shaped types, 0 otherwise.
func (t Type) Rank() int {
	if t.Kind == KindVector || t.Kind == KindMemRef {
		return len(t.Shape)
	}
	return 0
}

// IsDynamicDim reports whether dimension i is runtime-sized.
func (t Type) IsDynamicDim(i int) bool {
	return i >= 0 && i < len(t.Shape) && t.Shape[i] == DynamicDim
}

// render writes the textual form of the descriptor, resolving element
// types through the interner when available.
func (t Type) render(sb *strings.Builder, in *Interner) {
	switch t.Kind {
	case KindIndex:
		sb.WriteString("index")
	case KindInt:
		fmt.Fprintf(sb, "i%d", t.IntWidth)
	case KindFloat:
		sb.WriteString(t.FloatWidth.String())
	case KindVector, KindMemRef:
		sb.WriteString(t.Kind.String())
		sb.WriteByte('<')
		for _, d := range t.Shape {
			if d == DynamicDim {
				sb.WriteString("?x")
			} else {
				fmt.Fprintf(sb, "%dx", d)
			}
		}
		if in != nil {
			if et, ok := in.Lookup(t.Elem); ok {
				et.render(sb, in)
			} else {
				sb.WriteString("invalid")
			}
		} else {
			fmt.Fprintf(sb, "T%d", t.Elem)
		}
		sb.WriteByte('>')
	default:
		sb.WriteString("invalid")
	}
}
