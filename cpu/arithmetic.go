package cpu

// opALU handles the register-register and register-immediate groups. Both
// share funct3; bit 5 of funct7 selects sub and the arithmetic shift.
func (c *CPU) opALU(f Fields) {
	a := c.X[f.Rs1]
	var b uint32
	switch {
	case f.Op.Opcode == OPREG:
		b = c.X[f.Rs2]
	case f.Op.Signature == SigShift:
		b = uint32(f.Rs2)
	default:
		b = uint32(f.Imm)
	}
	alt := f.Op.Funct7&0b0100000 != 0

	var result uint32
	switch f.Op.Funct3 {
	case 0b000:
		if alt && f.Op.Opcode == OPREG {
			result = a - b
		} else {
			result = a + b
		}
	case 0b001:
		result = a << (b & 31)
	case 0b010:
		result = boolBit(int32(a) < int32(b))
	case 0b011:
		result = boolBit(a < b)
	case 0b100:
		result = a ^ b
	case 0b101:
		if alt {
			result = uint32(int32(a) >> (b & 31))
		} else {
			result = a >> (b & 31)
		}
	case 0b110:
		result = a | b
	case 0b111:
		result = a & b
	}
	c.X[f.Rd] = result
}

// opUpper handles lui and auipc.
func (c *CPU) opUpper(pc uint32, f Fields) {
	v := uint32(f.Imm) << 12
	if f.Op.Opcode == OPAUIPC {
		v += pc
	}
	c.X[f.Rd] = v
}

func boolBit(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
