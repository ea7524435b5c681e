package assembler

import (
	"fmt"

	"github.com/Urethramancer/rv32i/cpu"
)

// Immediate is the operand of every non-R instruction and of pack. It is one of
// Literal, Position, Offset, Hi or Lo. Resolution replaces the symbolic forms
// with a Literal pass by pass.
type Immediate interface {
	isImmediate()
	String() string
}

// Literal is an immediate whose value is known.
type Literal int64

// Position resolves to the address of Label plus Base.
type Position struct {
	Label string
	Base  int64
}

// Offset resolves to the distance from the current item to Label.
type Offset struct {
	Label string
}

// Hi selects the upper 20 bits of Inner, corrected for a negative Lo.
type Hi struct {
	Inner Immediate
}

// Lo selects the sign-extended lower 12 bits of Inner.
type Lo struct {
	Inner Immediate
}

func (Literal) isImmediate()  {}
func (Position) isImmediate() {}
func (Offset) isImmediate()   {}
func (Hi) isImmediate()       {}
func (Lo) isImmediate()       {}

func (v Literal) String() string { return fmt.Sprintf("%d", int64(v)) }

func (p Position) String() string {
	if p.Base == 0 {
		return fmt.Sprintf("position(%s)", p.Label)
	}
	return fmt.Sprintf("position(%s, %d)", p.Label, p.Base)
}

func (o Offset) String() string { return fmt.Sprintf("offset(%s)", o.Label) }
func (h Hi) String() string     { return fmt.Sprintf("%%hi(%s)", h.Inner) }
func (l Lo) String() string     { return fmt.Sprintf("%%lo(%s)", l.Inner) }

// resolveImmediate turns Position and Offset into literals, including when
// they sit inside Hi or Lo. The wrapper itself is kept for relocation.
func resolveImmediate(imm Immediate, labels Labels, position int64) (Immediate, error) {
	switch v := imm.(type) {
	case Literal:
		return v, nil
	case Position:
		addr, ok := labels[v.Label]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUndefinedLabel, v.Label)
		}
		return Literal(addr + v.Base), nil
	case Offset:
		addr, ok := labels[v.Label]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUndefinedLabel, v.Label)
		}
		return Literal(addr - position), nil
	case Hi:
		inner, err := resolveImmediate(v.Inner, labels, position)
		if err != nil {
			return nil, err
		}
		return Hi{Inner: inner}, nil
	case Lo:
		inner, err := resolveImmediate(v.Inner, labels, position)
		if err != nil {
			return nil, err
		}
		return Lo{Inner: inner}, nil
	default:
		return nil, fmt.Errorf("%w: immediate %v", ErrUnresolved, imm)
	}
}

// relocateImmediate splits a resolved Hi or Lo into its final literal.
func relocateImmediate(imm Immediate) (Immediate, error) {
	switch v := imm.(type) {
	case Literal:
		return v, nil
	case Hi:
		inner, ok := v.Inner.(Literal)
		if !ok {
			return nil, fmt.Errorf("%w: %v", ErrUnresolved, v)
		}
		return Literal(cpu.RelocateHi(int64(inner))), nil
	case Lo:
		inner, ok := v.Inner.(Literal)
		if !ok {
			return nil, fmt.Errorf("%w: %v", ErrUnresolved, v)
		}
		return Literal(cpu.RelocateLo(int64(inner))), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnresolved, imm)
	}
}

// literal returns the concrete value of a fully resolved immediate.
func literal(imm Immediate) (int64, error) {
	v, ok := imm.(Literal)
	if !ok {
		return 0, fmt.Errorf("%w: %v", ErrUnresolved, imm)
	}
	return int64(v), nil
}
