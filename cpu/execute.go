package cpu

import "fmt"

// Execute fetches, decodes, and executes a single instruction.
func (c *CPU) Execute() error {
	if !c.Running {
		return nil
	}

	// Fetch
	pc := c.PC
	w, err := c.ReadU32(pc)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	// Decode
	f, err := Decode(Word(w))
	if err != nil {
		return fmt.Errorf("decode failed at 0x%08x: %w", pc, err)
	}

	// Execute
	c.PC = pc + WordSize
	switch f.Op.Opcode {
	case OPREG, OPIMM:
		c.opALU(f)
	case OPLUI, OPAUIPC:
		c.opUpper(pc, f)
	case OPLOAD:
		err = c.opLoad(f)
	case OPSTORE:
		err = c.opStore(f)
	case OPBRANCH:
		c.opBranch(pc, f)
	case OPJAL, OPJALR:
		c.opJump(pc, f)
	case OPSYSTEM:
		c.opSystem(f)
	default:
		err = fmt.Errorf("%w: no handler for %s", ErrIllegalInstruction, f.Op.Name)
	}
	c.X[0] = 0
	if err != nil {
		c.PC = pc
		return fmt.Errorf("execution failed for %s at 0x%08x: %w", f.Op.Name, pc, err)
	}

	c.Cycles++
	return nil
}
