package cpu

import "fmt"

// CPU memory and registers.
type CPU struct {
	// X is the integer register file. X[0] reads as zero after every instruction.
	X [NumRegisters]uint32
	// PC is the program counter.
	PC uint32

	// Memory, starting at address 0.
	Mem []byte

	// Cycles counts executed instructions.
	Cycles int64
	// Running or not.
	Running bool
	// Trap is the mnemonic of the instruction that halted the hart.
	Trap string
}

// New creates a new CPU instance with given memory size.
func New(memsize int) *CPU {
	return &CPU{
		Mem: make([]byte, memsize),
	}
}

// LoadCode to specified address and point the PC at it.
func (c *CPU) LoadCode(addr uint32, code []byte) error {
	if uint64(addr)+uint64(len(code)) > uint64(len(c.Mem)) {
		return fmt.Errorf("%w: %d bytes at 0x%08x", ErrMemoryAccess, len(code), addr)
	}
	copy(c.Mem[addr:], code)
	c.PC = addr
	c.Running = true
	c.Trap = ""
	return nil
}

// Run executes instructions until ecall or ebreak halts the hart, an
// instruction fails, or limit instructions have run. A limit of 0 or less
// means no limit.
func (c *CPU) Run(limit int64) error {
	for n := int64(0); c.Running; n++ {
		if limit > 0 && n >= limit {
			return fmt.Errorf("%w: %d instructions, pc 0x%08x", ErrStepLimit, limit, c.PC)
		}
		if err := c.Execute(); err != nil {
			return err
		}
	}
	return nil
}
