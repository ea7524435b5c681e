package cpu

import (
	"encoding/binary"
	"fmt"
)

// span returns the n bytes of memory at addr.
func (c *CPU) span(addr uint32, n int) ([]byte, error) {
	end := uint64(addr) + uint64(n)
	if end > uint64(len(c.Mem)) {
		return nil, fmt.Errorf("%w: %d bytes at 0x%08x", ErrMemoryAccess, n, addr)
	}
	return c.Mem[addr:end], nil
}

// ReadU8 reads a byte from memory at the given address.
func (c *CPU) ReadU8(addr uint32) (uint8, error) {
	b, err := c.span(addr, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU16 reads a little-endian 16-bit halfword from memory at the given address.
func (c *CPU) ReadU16(addr uint32) (uint16, error) {
	b, err := c.span(addr, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadU32 reads a little-endian 32-bit word from memory at the given address.
func (c *CPU) ReadU32(addr uint32) (uint32, error) {
	b, err := c.span(addr, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// WriteU8 writes a byte to memory at the given address.
func (c *CPU) WriteU8(addr uint32, val uint8) error {
	b, err := c.span(addr, 1)
	if err != nil {
		return err
	}
	b[0] = val
	return nil
}

// WriteU16 writes a 16-bit halfword to memory at the given address in little-endian format.
func (c *CPU) WriteU16(addr uint32, val uint16) error {
	b, err := c.span(addr, 2)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(b, val)
	return nil
}

// WriteU32 writes a 32-bit word to memory at the given address in little-endian format.
func (c *CPU) WriteU32(addr uint32, val uint32) error {
	b, err := c.span(addr, 4)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(b, val)
	return nil
}
