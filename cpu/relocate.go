package cpu

// SignExtend interprets the low bits of value as a two's-complement number.
func SignExtend(value int64, bits uint) int64 {
	sign := int64(1) << (bits - 1)
	return (value & (sign - 1)) - (value & sign)
}

// RelocateHi returns the upper 20 bits of v for lui/auipc. When bit 11 of v
// is set the paired low part is negative after sign extension, so the upper
// part is rounded up by one.
func RelocateHi(v int64) int64 {
	if v&0x800 != 0 {
		v += 1 << 12
	}
	return SignExtend(v>>12&0xfffff, 20)
}

// RelocateLo returns the low 12 bits of v, sign-extended, for addi, loads
// and stores.
func RelocateLo(v int64) int64 {
	return SignExtend(v&0xfff, 12)
}
