package cpu

// opSystem handles ecall and ebreak. There is no environment to call into,
// so both halt the hart and record which one did it.
func (c *CPU) opSystem(f Fields) {
	c.Running = false
	c.Trap = f.Op.Name
}
