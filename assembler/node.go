package assembler

import (
	"github.com/samber/lo"

	"github.com/Urethramancer/rv32i/cpu"
)

// Location records where an item came from.
type Location struct {
	Line   int
	Source string
}

// Loc returns the location itself; embedding Location gives every item this method.
func (l Location) Loc() Location { return l }

// Item is one element of a program: an instruction, Label, Align, Blob or Pack.
type Item interface {
	// Size is the number of bytes the item emits. Label and unresolved Align report 0.
	Size() int64
	Loc() Location
	isItem()
}

// Program is an ordered item sequence; the order defines the byte layout.
type Program []Item

// Labels maps label names to byte offsets in the output image.
type Labels map[string]int64

// RInstr is a register-register instruction (and the shift-immediates, whose
// shift amount sits in Rs2).
type RInstr struct {
	Location
	Op           cpu.Opcode
	Rd, Rs1, Rs2 cpu.Register
}

// IInstr is a register-immediate instruction, a load, jalr, ecall or ebreak.
type IInstr struct {
	Location
	Op      cpu.Opcode
	Rd, Rs1 cpu.Register
	Imm     Immediate
}

// SInstr is a store.
type SInstr struct {
	Location
	Op       cpu.Opcode
	Rs1, Rs2 cpu.Register
	Imm      Immediate
}

// BInstr is a conditional branch.
type BInstr struct {
	Location
	Op       cpu.Opcode
	Rs1, Rs2 cpu.Register
	Imm      Immediate
}

// UInstr is lui or auipc.
type UInstr struct {
	Location
	Op  cpu.Opcode
	Rd  cpu.Register
	Imm Immediate
}

// JInstr is jal.
type JInstr struct {
	Location
	Op  cpu.Opcode
	Rd  cpu.Register
	Imm Immediate
}

// Label marks the current position and emits nothing.
type Label struct {
	Location
	Name string
}

// Align pads with zeros up to the next multiple of Boundary.
type Align struct {
	Location
	Boundary int64
}

// Blob is raw bytes.
type Blob struct {
	Location
	Data []byte
}

// Pack is an immediate encoded in a fixed-width binary format.
type Pack struct {
	Location
	Format PackFormat
	Imm    Immediate
}

func (RInstr) Size() int64 { return cpu.WordSize }
func (IInstr) Size() int64 { return cpu.WordSize }
func (SInstr) Size() int64 { return cpu.WordSize }
func (BInstr) Size() int64 { return cpu.WordSize }
func (UInstr) Size() int64 { return cpu.WordSize }
func (JInstr) Size() int64 { return cpu.WordSize }
func (Label) Size() int64  { return 0 }
func (Align) Size() int64  { return 0 }
func (b Blob) Size() int64 { return int64(len(b.Data)) }
func (p Pack) Size() int64 { return int64(p.Format.Size) }

func (RInstr) isItem() {}
func (IInstr) isItem() {}
func (SInstr) isItem() {}
func (BInstr) isItem() {}
func (UInstr) isItem() {}
func (JInstr) isItem() {}
func (Label) isItem()  {}
func (Align) isItem()  {}
func (Blob) isItem()   {}
func (Pack) isItem()   {}

// immediateItem is an item carrying an Immediate. withImmediate returns a
// copy, so passes build new programs instead of editing shared items.
type immediateItem interface {
	Item
	immediate() Immediate
	withImmediate(Immediate) Item
}

func (i IInstr) immediate() Immediate { return i.Imm }
func (i SInstr) immediate() Immediate { return i.Imm }
func (i BInstr) immediate() Immediate { return i.Imm }
func (i UInstr) immediate() Immediate { return i.Imm }
func (i JInstr) immediate() Immediate { return i.Imm }
func (p Pack) immediate() Immediate   { return p.Imm }

func (i IInstr) withImmediate(imm Immediate) Item { i.Imm = imm; return i }
func (i SInstr) withImmediate(imm Immediate) Item { i.Imm = imm; return i }
func (i BInstr) withImmediate(imm Immediate) Item { i.Imm = imm; return i }
func (i UInstr) withImmediate(imm Immediate) Item { i.Imm = imm; return i }
func (i JInstr) withImmediate(imm Immediate) Item { i.Imm = imm; return i }
func (p Pack) withImmediate(imm Immediate) Item   { p.Imm = imm; return p }

// Size returns the number of bytes the program emits.
func (p Program) Size() int64 {
	return lo.SumBy(p, func(it Item) int64 { return it.Size() })
}
