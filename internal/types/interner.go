package types

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
)

// Interner provides stable TypeIDs by hashing structural descriptors.
type Interner struct {
	types   []Type
	index   map[string]TypeID
	indexID TypeID
}

// NewInterner constructs an interner with the invalid descriptor at slot 0
// and the ubiquitous index type pre-interned.
func NewInterner() *Interner {
	in := &Interner{
		index: make(map[string]TypeID, 32),
	}
	in.internRaw(Type{Kind: KindInvalid}) // reserve 0 as invalid sentinel
	in.indexID = in.Intern(MakeIndex())
	return in
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	if id, ok := in.index[typeKey(t)]; ok {
		return id
	}
	return in.internRaw(t)
}

// internRaw adds the descriptor to the storage without consulting the map.
func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("types: len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	in.index[typeKey(t)] = id
	return id
}

// typeKey renders a structural descriptor to a canonical map key.
// Shapes participate in the key, so memref<4xf32> and memref<8xf32>
// intern to distinct IDs.
func typeKey(t Type) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d:%d:%d:%d:", t.Kind, t.IntWidth, t.FloatWidth, t.Elem)
	for _, d := range t.Shape {
		fmt.Fprintf(&sb, "%d,", d)
	}
	return sb.String()
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// Index returns the pre-interned index type.
func (in *Interner) Index() TypeID { return in.indexID }

// Int interns and returns an integer type of the given bit width.
func (in *Interner) Int(width uint32) TypeID { return in.Intern(MakeInt(width)) }

// Float interns and returns a float type of the given format.
func (in *Interner) Float(w FloatWidth) TypeID { return in.Intern(MakeFloat(w)) }

// Vector interns and returns a vector type.
func (in *Interner) Vector(shape []int64, elem TypeID) TypeID {
	return in.Intern(MakeVector(shape, elem))
}

// MemRef interns and returns a memref type.
func (in *Interner) MemRef(shape []int64, elem TypeID) TypeID {
	return in.Intern(MakeMemRef(shape, elem))
}

// ElemOf unwraps vector and memref types to their element type; scalar
// types are returned unchanged. Operator resolution inspects operands
// elementwise through this helper.
func (in *Interner) ElemOf(id TypeID) TypeID {
	t, ok := in.Lookup(id)
	if !ok {
		return NoTypeID
	}
	if t.Kind == KindVector || t.Kind == KindMemRef {
		return t.Elem
	}
	return id
}

// IsIndex reports whether id's element type is the index type.
func (in *Interner) IsIndex(id TypeID) bool {
	t, ok := in.Lookup(in.ElemOf(id))
	return ok && t.Kind == KindIndex
}

// IsInt reports whether id's element type is a fixed-width integer.
func (in *Interner) IsInt(id TypeID) bool {
	t, ok := in.Lookup(in.ElemOf(id))
	return ok && t.Kind == KindInt
}

// IsFloat reports whether id's element type is a float.
func (in *Interner) IsFloat(id TypeID) bool {
	t, ok := in.Lookup(in.ElemOf(id))
	return ok && t.Kind == KindFloat
}

// Rank returns the dimension count of a shaped type, 0 for scalars.
func (in *Interner) Rank(id TypeID) int {
	t, ok := in.Lookup(id)
	if !ok {
		return 0
	}
	return t.Rank()
}

// String renders a TypeID to its textual form.
func (in *Interner) String(id TypeID) string {
	t, ok := in.Lookup(id)
	if !ok {
		return "invalid"
	}
	var sb strings.Builder
	t.render(&sb, in)
	return sb.String()
}
