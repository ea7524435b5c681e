package cpu

// opBranch handles the conditional branches. The offset is relative to the
// branch itself.
func (c *CPU) opBranch(pc uint32, f Fields) {
	a, b := c.X[f.Rs1], c.X[f.Rs2]
	var taken bool
	switch f.Op.Funct3 {
	case 0b000:
		taken = a == b
	case 0b001:
		taken = a != b
	case 0b100:
		taken = int32(a) < int32(b)
	case 0b101:
		taken = int32(a) >= int32(b)
	case 0b110:
		taken = a < b
	case 0b111:
		taken = a >= b
	}
	if taken {
		c.PC = pc + uint32(f.Imm)
	}
}

// opJump handles jal and jalr. The return address is written after the
// target is computed, so rd may equal rs1.
func (c *CPU) opJump(pc uint32, f Fields) {
	target := pc + uint32(f.Imm)
	if f.Op.Opcode == OPJALR {
		target = (c.X[f.Rs1] + uint32(f.Imm)) &^ 1
	}
	c.X[f.Rd] = pc + WordSize
	c.PC = target
}
