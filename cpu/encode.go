package cpu

import "fmt"

// Immediate bounds per format.
const (
	MinImm12 = -0x800
	MaxImm12 = 0x7ff
	MinImm13 = -0x1000
	MaxImm13 = 0x0fff
	MinImm20 = -0x80000
	MaxImm20 = 0x7ffff
	MinImm21 = -0x100000
	MaxImm21 = 0x0fffff
)

// EncodeR packs an R-type instruction.
func EncodeR(op Opcode, rd, rs1, rs2 Register) (Word, error) {
	if err := checkRegisters(rd, rs1, rs2); err != nil {
		return 0, err
	}

	var code uint32
	code |= op.Opcode
	code |= uint32(rd) << 7
	code |= op.Funct3 << 12
	code |= uint32(rs1) << 15
	code |= uint32(rs2) << 20
	code |= op.Funct7 << 25
	return Word(code), nil
}

// EncodeI packs an I-type instruction. imm must fit in 12 signed bits.
func EncodeI(op Opcode, rd, rs1 Register, imm int64) (Word, error) {
	if err := checkRegisters(rd, rs1); err != nil {
		return 0, err
	}
	if imm < MinImm12 || imm > MaxImm12 {
		return 0, fmt.Errorf("%w: 12-bit immediate must be between -0x800 (-2048) and 0x7ff (2047): %d", ErrImmediateRange, imm)
	}
	u := uint32(imm) & 0xfff

	var code uint32
	code |= op.Opcode
	code |= uint32(rd) << 7
	code |= op.Funct3 << 12
	code |= uint32(rs1) << 15
	code |= u << 20
	return Word(code), nil
}

// EncodeS packs an S-type instruction. imm must fit in 12 signed bits.
func EncodeS(op Opcode, rs1, rs2 Register, imm int64) (Word, error) {
	if err := checkRegisters(rs1, rs2); err != nil {
		return 0, err
	}
	if imm < MinImm12 || imm > MaxImm12 {
		return 0, fmt.Errorf("%w: 12-bit immediate must be between -0x800 (-2048) and 0x7ff (2047): %d", ErrImmediateRange, imm)
	}
	u := uint32(imm) & 0xfff

	var code uint32
	code |= op.Opcode
	code |= (u & 0b11111) << 7
	code |= op.Funct3 << 12
	code |= uint32(rs1) << 15
	code |= uint32(rs2) << 20
	code |= (u >> 5 & 0b1111111) << 25
	return Word(code), nil
}

// EncodeB packs a B-type instruction. imm is a byte offset: even, 13 signed bits.
func EncodeB(op Opcode, rs1, rs2 Register, imm int64) (Word, error) {
	if err := checkRegisters(rs1, rs2); err != nil {
		return 0, err
	}
	if imm < MinImm13 || imm > MaxImm13 {
		return 0, fmt.Errorf("%w: 12-bit multiple of 2 immediate must be between -0x1000 (-4096) and 0x0fff (4095): %d", ErrImmediateRange, imm)
	}
	if imm&1 != 0 {
		return 0, fmt.Errorf("%w: %d", ErrImmediateParity, imm)
	}
	u := uint32(imm/2) & 0xfff

	imm12 := u >> 11 & 0b1
	imm11 := u >> 10 & 0b1
	imm10to5 := u >> 4 & 0b111111
	imm4to1 := u & 0b1111

	var code uint32
	code |= op.Opcode
	code |= imm11 << 7
	code |= imm4to1 << 8
	code |= op.Funct3 << 12
	code |= uint32(rs1) << 15
	code |= uint32(rs2) << 20
	code |= imm10to5 << 25
	code |= imm12 << 31
	return Word(code), nil
}

// EncodeU packs a U-type instruction. imm is the 20-bit upper field, signed.
func EncodeU(op Opcode, rd Register, imm int64) (Word, error) {
	if err := checkRegisters(rd); err != nil {
		return 0, err
	}
	if imm < MinImm20 || imm > MaxImm20 {
		return 0, fmt.Errorf("%w: 20-bit immediate must be between -0x80000 (-524288) and 0x7ffff (524287): %d", ErrImmediateRange, imm)
	}
	u := uint32(imm) & 0xfffff

	var code uint32
	code |= op.Opcode
	code |= uint32(rd) << 7
	code |= u << 12
	return Word(code), nil
}

// EncodeJ packs a J-type instruction. imm is a byte offset: even, 21 signed bits.
func EncodeJ(op Opcode, rd Register, imm int64) (Word, error) {
	if err := checkRegisters(rd); err != nil {
		return 0, err
	}
	if imm < MinImm21 || imm > MaxImm21 {
		return 0, fmt.Errorf("%w: 20-bit multiple of 2 immediate must be between -0x100000 (-1048576) and 0x0fffff (1048575): %d", ErrImmediateRange, imm)
	}
	if imm&1 != 0 {
		return 0, fmt.Errorf("%w: %d", ErrImmediateParity, imm)
	}
	u := uint32(imm/2) & 0xfffff

	imm20 := u >> 19 & 0b1
	imm19to12 := u >> 11 & 0b11111111
	imm11 := u >> 10 & 0b1
	imm10to1 := u & 0b1111111111

	var code uint32
	code |= op.Opcode
	code |= uint32(rd) << 7
	code |= imm19to12 << 12
	code |= imm11 << 20
	code |= imm10to1 << 21
	code |= imm20 << 31
	return Word(code), nil
}

func checkRegisters(regs ...Register) error {
	for _, r := range regs {
		if !r.Valid() {
			return fmt.Errorf("%w: %d is not between 0 and 31", ErrInvalidRegister, uint8(r))
		}
	}
	return nil
}
