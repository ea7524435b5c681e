package cpu

import "errors"

var (
	// ErrInvalidRegister is returned for tokens that do not name a register.
	ErrInvalidRegister = errors.New("invalid register")
	// ErrImmediateRange is returned when an immediate does not fit its field.
	ErrImmediateRange = errors.New("immediate out of range")
	// ErrImmediateParity is returned for odd branch and jump offsets.
	ErrImmediateParity = errors.New("immediate must be a multiple of 2")
)

var (
	// ErrMemoryAccess is returned for loads, stores and fetches outside memory.
	ErrMemoryAccess = errors.New("memory access out of range")
	// ErrIllegalInstruction is returned when a word is not an RV32I instruction.
	ErrIllegalInstruction = errors.New("illegal instruction")
	// ErrStepLimit is returned by Run when the hart is still running after the step limit.
	ErrStepLimit = errors.New("step limit reached")
)
