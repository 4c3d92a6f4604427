package ir

import (
	"fmt"

	"fortio.org/safecast"

	"ember/internal/types"
)

// Func is one function body under construction. Function arguments are
// the entry block's arguments.
type Func struct {
	Name   string
	Entry  *Block
	Blocks []*Block

	nextValue ValueID
	nextBlock BlockID
}

// NewFunc creates a function with an entry block carrying one argument
// per declared type.
func NewFunc(name string, argTypes []types.TypeID) *Func {
	f := &Func{Name: name}
	entry := f.newBlock()
	f.Entry = entry
	for _, t := range argTypes {
		arg := f.newValue(t, ValueBlockArg)
		arg.Block = entry
		arg.ArgIndex = len(entry.Args)
		entry.Args = append(entry.Args, arg)
	}
	return f
}

// NumArguments returns the function's argument count.
func (f *Func) NumArguments() int { return len(f.Entry.Args) }

// Argument returns the pos-th function argument.
func (f *Func) Argument(pos int) *Value {
	if pos < 0 || pos >= len(f.Entry.Args) {
		panic(fmt.Errorf("ir: argument index %d out of range [0, %d)", pos, len(f.Entry.Args)))
	}
	return f.Entry.Args[pos]
}

func (f *Func) newValue(t types.TypeID, kind ValueKind) *Value {
	id := f.nextValue
	next, err := safecast.Conv[uint32](uint64(id) + 1)
	if err != nil {
		panic(fmt.Errorf("ir: value id overflow: %w", err))
	}
	f.nextValue = ValueID(next)
	return &Value{ID: id, Type: t, Kind: kind}
}

func (f *Func) newBlock() *Block {
	id := f.nextBlock
	next, err := safecast.Conv[uint32](uint64(id) + 1)
	if err != nil {
		panic(fmt.Errorf("ir: block id overflow: %w", err))
	}
	f.nextBlock = BlockID(next)
	b := &Block{ID: id, Func: f}
	f.Blocks = append(f.Blocks, b)
	return b
}
