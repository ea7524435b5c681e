package cpu

import (
	"fmt"
	"strconv"
)

// Register is an integer register index in the range 0-31.
type Register uint8

// NumRegisters is the size of the RV32I integer register file.
const NumRegisters = 32

// RA is the return address register written by calls.
const RA Register = 1

// registerNames maps canonical and ABI names to register indices.
var registerNames = map[string]Register{
	"x0": 0, "zero": 0,
	"x1": 1, "ra": 1,
	"x2": 2, "sp": 2,
	"x3": 3, "gp": 3,
	"x4": 4, "tp": 4,
	"x5": 5, "t0": 5,
	"x6": 6, "t1": 6,
	"x7": 7, "t2": 7,
	"x8": 8, "s0": 8, "fp": 8,
	"x9": 9, "s1": 9,
	"x10": 10, "a0": 10,
	"x11": 11, "a1": 11,
	"x12": 12, "a2": 12,
	"x13": 13, "a3": 13,
	"x14": 14, "a4": 14,
	"x15": 15, "a5": 15,
	"x16": 16, "a6": 16,
	"x17": 17, "a7": 17,
	"x18": 18, "s2": 18,
	"x19": 19, "s3": 19,
	"x20": 20, "s4": 20,
	"x21": 21, "s5": 21,
	"x22": 22, "s6": 22,
	"x23": 23, "s7": 23,
	"x24": 24, "s8": 24,
	"x25": 25, "s9": 25,
	"x26": 26, "s10": 26,
	"x27": 27, "s11": 27,
	"x28": 28, "t3": 28,
	"x29": 29, "t4": 29,
	"x30": 30, "t5": 30,
	"x31": 31, "t6": 31,
}

// abiNames is indexed by register number. fp is an alias of s0 and is never printed.
var abiNames = [NumRegisters]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// ResolveRegister maps a register token to its index. The token is either a
// known name (exact match, e.g. "x5", "t0") or a decimal numeral.
func ResolveRegister(token string) (Register, error) {
	if r, ok := registerNames[token]; ok {
		return r, nil
	}

	n, err := strconv.Atoi(token)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number or valid name", ErrInvalidRegister, token)
	}
	if n < 0 || n >= NumRegisters {
		return 0, fmt.Errorf("%w: %d is not between 0 and 31", ErrInvalidRegister, n)
	}
	return Register(n), nil
}

// IsRegister reports whether token resolves to a register.
func IsRegister(token string) bool {
	_, err := ResolveRegister(token)
	return err == nil
}

// Valid reports whether r lies inside the register file.
func (r Register) Valid() bool {
	return r < NumRegisters
}

// String returns the ABI name of the register.
func (r Register) String() string {
	if !r.Valid() {
		return fmt.Sprintf("x%d", uint8(r))
	}
	return abiNames[r]
}
