package cpu

import "fmt"

// opLoad handles lb, lh, lw, lbu and lhu.
func (c *CPU) opLoad(f Fields) error {
	addr := c.X[f.Rs1] + uint32(f.Imm)
	var (
		value uint32
		err   error
	)
	switch f.Op.Funct3 {
	case 0b000:
		var b uint8
		b, err = c.ReadU8(addr)
		value = uint32(int32(int8(b)))
	case 0b001:
		var h uint16
		h, err = c.ReadU16(addr)
		value = uint32(int32(int16(h)))
	case 0b010:
		value, err = c.ReadU32(addr)
	case 0b100:
		var b uint8
		b, err = c.ReadU8(addr)
		value = uint32(b)
	case 0b101:
		var h uint16
		h, err = c.ReadU16(addr)
		value = uint32(h)
	default:
		err = fmt.Errorf("%w: load width %d", ErrIllegalInstruction, f.Op.Funct3)
	}
	if err != nil {
		return err
	}
	c.X[f.Rd] = value
	return nil
}

// opStore handles sb, sh and sw.
func (c *CPU) opStore(f Fields) error {
	addr := c.X[f.Rs1] + uint32(f.Imm)
	value := c.X[f.Rs2]
	switch f.Op.Funct3 {
	case 0b000:
		return c.WriteU8(addr, uint8(value))
	case 0b001:
		return c.WriteU16(addr, uint16(value))
	case 0b010:
		return c.WriteU32(addr, value)
	}
	return fmt.Errorf("%w: store width %d", ErrIllegalInstruction, f.Op.Funct3)
}
