package cpu

import (
	"fmt"
)

// Fields holds the decoded operand fields of an instruction word.
type Fields struct {
	Op  Opcode
	Rd  Register
	Rs1 Register
	Rs2 Register
	Imm int64
}

// Field accessors shared by every format.
func (w Word) opcode() uint32 { return uint32(w) & 0x7f }
func (w Word) rd() Register   { return Register(uint32(w) >> 7 & 0x1f) }
func (w Word) funct3() uint32 { return uint32(w) >> 12 & 0x7 }
func (w Word) rs1() Register  { return Register(uint32(w) >> 15 & 0x1f) }
func (w Word) rs2() Register  { return Register(uint32(w) >> 20 & 0x1f) }
func (w Word) funct7() uint32 { return uint32(w) >> 25 }
func (w Word) immI() int64    { return SignExtend(int64(w>>20), 12) }
func (w Word) immU() int64    { return SignExtend(int64(w>>12), 20) }
func (w Word) immS() int64 {
	return SignExtend(int64(w>>25)<<5|int64(w>>7&0x1f), 12)
}

func (w Word) immB() int64 {
	v := int64(w>>31&0x1)<<12 |
		int64(w>>7&0x1)<<11 |
		int64(w>>25&0x3f)<<5 |
		int64(w>>8&0xf)<<1
	return SignExtend(v, 13)
}

func (w Word) immJ() int64 {
	v := int64(w>>31&0x1)<<20 |
		int64(w>>12&0xff)<<12 |
		int64(w>>20&0x1)<<11 |
		int64(w>>21&0x3ff)<<1
	return SignExtend(v, 21)
}

// identity keys the reverse mnemonic table.
type identity struct {
	opcode, funct3, funct7 uint32
}

var byIdentity = buildIdentities()

func buildIdentities() map[identity]Opcode {
	m := make(map[identity]Opcode, len(Instructions))
	for _, op := range Instructions {
		id := identity{opcode: op.Opcode, funct3: op.Funct3}
		switch {
		case op.Format == FormatR:
			id.funct7 = op.Funct7
		case op.Signature == SigNone:
			// ecall and ebreak differ only in their fixed immediate.
			id.funct7 = uint32(op.Fixed)
		}
		m[id] = op
	}
	return m
}

// Decode identifies the mnemonic of w and extracts its operand fields.
// Instructions outside the mnemonic table return an error.
func Decode(w Word) (Fields, error) {
	id := identity{opcode: w.opcode(), funct3: w.funct3()}
	switch id.opcode {
	case OPLUI, OPAUIPC, OPJAL:
		id.funct3 = 0
	case OPREG:
		id.funct7 = w.funct7()
	case OPIMM:
		if id.funct3 == 0b001 || id.funct3 == 0b101 {
			id.funct7 = w.funct7()
		}
	case OPSYSTEM:
		if uint32(w)&^0xfff00000 != OPSYSTEM {
			return Fields{}, fmt.Errorf("%w: unknown instruction 0x%08x", ErrIllegalInstruction, uint32(w))
		}
		id.funct7 = uint32(w) >> 20
	}

	op, ok := byIdentity[id]
	if !ok {
		return Fields{}, fmt.Errorf("%w: unknown instruction 0x%08x", ErrIllegalInstruction, uint32(w))
	}

	f := Fields{Op: op}
	switch op.Format {
	case FormatR:
		f.Rd, f.Rs1, f.Rs2 = w.rd(), w.rs1(), w.rs2()
	case FormatI:
		f.Rd, f.Rs1, f.Imm = w.rd(), w.rs1(), w.immI()
	case FormatS:
		f.Rs1, f.Rs2, f.Imm = w.rs1(), w.rs2(), w.immS()
	case FormatB:
		f.Rs1, f.Rs2, f.Imm = w.rs1(), w.rs2(), w.immB()
	case FormatU:
		f.Rd, f.Imm = w.rd(), w.immU()
	case FormatJ:
		f.Rd, f.Imm = w.rd(), w.immJ()
	}
	return f, nil
}
