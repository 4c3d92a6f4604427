// Package manifest reads ember.toml kernel manifests: the declarative
// description of which functions to emit and over what shapes.
package manifest

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"

	"ember/internal/types"
)

var (
	// ErrNoKernels indicates a manifest without any [[kernel]] entries.
	ErrNoKernels = errors.New("manifest: no kernels declared")
	// ErrBadOp indicates an unknown kernel operation.
	ErrBadOp = errors.New("manifest: unknown op")
	// ErrBadElem indicates an unparsable element type.
	ErrBadElem = errors.New("manifest: bad element type")
	// ErrBadShape indicates an invalid shape entry.
	ErrBadShape = errors.New("manifest: bad shape")
)

// Op names the elementwise kernel body.
type Op string

const (
	// OpAdd stores the elementwise sum of two inputs.
	OpAdd Op = "add"
	// OpSub stores the elementwise difference of two inputs.
	OpSub Op = "sub"
	// OpMul stores the elementwise product of two inputs.
	OpMul Op = "mul"
	// OpCopy stores the input unchanged.
	OpCopy Op = "copy"
	// OpFill stores a constant into every element.
	OpFill Op = "fill"
)

// MemRefArgs returns how many memref arguments the kernel signature
// takes: inputs plus the output.
func (o Op) MemRefArgs() int {
	switch o {
	case OpFill:
		return 1
	case OpCopy:
		return 2
	default:
		return 3
	}
}

// Kernel declares one function to emit. Shape entries of -1 mark
// dynamic dimensions.
type Kernel struct {
	Name  string  `toml:"name"`
	Op    Op      `toml:"op"`
	Elem  string  `toml:"elem"`
	Shape []int64 `toml:"shape"`
}

// Package is the manifest's [package] section.
type Package struct {
	Name string `toml:"name"`
}

// Manifest is a parsed ember.toml.
type Manifest struct {
	Package Package  `toml:"package"`
	Kernels []Kernel `toml:"kernel"`
}

// Load parses and validates a manifest file.
func Load(path string) (*Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &m, nil
}

// Parse parses and validates manifest text.
func Parse(data string) (*Manifest, error) {
	var m Manifest
	if _, err := toml.Decode(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: failed to parse TOML: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks every kernel declaration.
func (m *Manifest) Validate() error {
	if len(m.Kernels) == 0 {
		return ErrNoKernels
	}
	for i := range m.Kernels {
		k := &m.Kernels[i]
		if k.Name == "" {
			k.Name = fmt.Sprintf("kernel%d", i)
		}
		switch k.Op {
		case OpAdd, OpSub, OpMul, OpCopy, OpFill:
		default:
			return fmt.Errorf("%w: kernel %q op %q", ErrBadOp, k.Name, k.Op)
		}
		if _, err := ElemType(types.NewInterner(), k.Elem); err != nil {
			return fmt.Errorf("kernel %q: %w", k.Name, err)
		}
		if len(k.Shape) == 0 {
			return fmt.Errorf("%w: kernel %q has an empty shape", ErrBadShape, k.Name)
		}
		for _, d := range k.Shape {
			if d <= 0 && d != types.DynamicDim {
				return fmt.Errorf("%w: kernel %q dimension %d", ErrBadShape, k.Name, d)
			}
		}
	}
	return nil
}

// ElemType resolves a manifest element-type string ("f32", "index",
// "i8"...) against the interner.
func ElemType(in *types.Interner, s string) (types.TypeID, error) {
	switch s {
	case "index":
		return in.Index(), nil
	case "bf16":
		return in.Float(types.FloatBF16), nil
	case "f16":
		return in.Float(types.FloatF16), nil
	case "f32":
		return in.Float(types.FloatF32), nil
	case "f64":
		return in.Float(types.FloatF64), nil
	}
	if rest, ok := strings.CutPrefix(s, "i"); ok {
		bits, err := strconv.ParseUint(rest, 10, 32)
		if err != nil {
			return types.NoTypeID, fmt.Errorf("%w: %q", ErrBadElem, s)
		}
		width, err := safecast.Conv[uint32](bits)
		if err != nil || width == 0 {
			return types.NoTypeID, fmt.Errorf("%w: %q", ErrBadElem, s)
		}
		return in.Int(width), nil
	}
	return types.NoTypeID, fmt.Errorf("%w: %q", ErrBadElem, s)
}

// Digest is a stable content hash of a kernel declaration, used as the
// disk cache key.
type Digest [sha256.Size]byte

// Digest hashes the kernel's canonical encoding.
func (k Kernel) Digest() Digest {
	var sb strings.Builder
	sb.WriteString(k.Name)
	sb.WriteByte(0)
	sb.WriteString(string(k.Op))
	sb.WriteByte(0)
	sb.WriteString(k.Elem)
	for _, d := range k.Shape {
		fmt.Fprintf(&sb, ":%d", d)
	}
	return sha256.Sum256([]byte(sb.String()))
}
