package assembler

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateLabel is returned when a label is declared twice.
	ErrDuplicateLabel = errors.New("duplicate label")
	// ErrUndefinedLabel is returned when position() or offset() names an unknown label.
	ErrUndefinedLabel = errors.New("undefined label")
	// ErrInvalidSyntax is returned for lines and operands that cannot be parsed.
	ErrInvalidSyntax = errors.New("invalid syntax")
	// ErrUnknownMnemonic is returned for instructions missing from the mnemonic table.
	ErrUnknownMnemonic = errors.New("unknown mnemonic")
	// ErrUndefinedVariable is returned when an expression uses a name that was never bound.
	ErrUndefinedVariable = errors.New("undefined variable")
	// ErrDivisionByZero is returned by / and % with a zero divisor.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrInvalidAlignment is returned for align with a boundary below 1.
	ErrInvalidAlignment = errors.New("invalid alignment")
	// ErrInvalidPackFormat is returned for pack formats that are not understood.
	ErrInvalidPackFormat = errors.New("invalid pack format")
	// ErrUnresolved is returned when a pass meets an item an earlier pass should have removed.
	ErrUnresolved = errors.New("unresolved item")
)

// Error ties a failure to the source line that caused it.
type Error struct {
	Line   int
	Source string
	Err    error
}

func (e *Error) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: %v\n    %s", e.Line, e.Err, e.Source)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// lineError wraps err with the location of an item, leaving errors that
// already carry a location untouched.
func lineError(line int, source string, err error) error {
	var located *Error
	if errors.As(err, &located) {
		return err
	}
	return &Error{Line: line, Source: source, Err: err}
}
