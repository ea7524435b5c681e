package assembler

import (
	"fmt"
)

// ResolveAligns replaces every Align with the zero padding it needs at its
// position. An Align that is already satisfied is dropped.
func ResolveAligns(program Program) (Program, error) {
	var position int64
	output := make(Program, 0, len(program))

	for _, item := range program {
		if a, ok := item.(Align); ok {
			if a.Boundary < 1 {
				return nil, lineError(a.Line, a.Source, fmt.Errorf("%w: %d", ErrInvalidAlignment, a.Boundary))
			}
			padding := a.Boundary - position%a.Boundary
			if padding == a.Boundary {
				continue
			}
			position += padding
			output = append(output, Blob{Location: a.Location, Data: make([]byte, padding)})
			continue
		}
		position += item.Size()
		output = append(output, item)
	}

	return output, nil
}

// ResolveLabels records the address of every Label and removes the labels
// from the program. It expects aligns to be resolved already.
func ResolveLabels(program Program) (Program, Labels, error) {
	var position int64
	output := make(Program, 0, len(program))
	labels := make(Labels)

	for _, item := range program {
		switch it := item.(type) {
		case Label:
			if _, exists := labels[it.Name]; exists {
				return nil, nil, lineError(it.Line, it.Source, fmt.Errorf("%w: %q", ErrDuplicateLabel, it.Name))
			}
			labels[it.Name] = position
			continue
		case Align:
			return nil, nil, lineError(it.Line, it.Source, fmt.Errorf("%w: align", ErrUnresolved))
		}
		position += item.Size()
		output = append(output, item)
	}

	return output, labels, nil
}

// ResolveImmediates replaces position() and offset() with the integers they
// stand for. Inside %hi and %lo the inner value is resolved and the wrapper kept.
func ResolveImmediates(program Program, labels Labels) (Program, error) {
	var position int64
	output := make(Program, 0, len(program))

	for _, item := range program {
		switch it := item.(type) {
		case Label, Align:
			loc := it.Loc()
			return nil, lineError(loc.Line, loc.Source, fmt.Errorf("%w: %T", ErrUnresolved, it))
		case immediateItem:
			imm, err := resolveImmediate(it.immediate(), labels, position)
			if err != nil {
				loc := it.Loc()
				return nil, lineError(loc.Line, loc.Source, err)
			}
			item = it.withImmediate(imm)
		}
		position += item.Size()
		output = append(output, item)
	}

	return output, nil
}

// ResolveRelocations splits %hi and %lo values into their final integers.
// Afterwards every immediate in the program is a Literal.
func ResolveRelocations(program Program) (Program, error) {
	output := make(Program, 0, len(program))

	for _, item := range program {
		if it, ok := item.(immediateItem); ok {
			imm, err := relocateImmediate(it.immediate())
			if err != nil {
				loc := it.Loc()
				return nil, lineError(loc.Line, loc.Source, err)
			}
			item = it.withImmediate(imm)
		}
		output = append(output, item)
	}

	return output, nil
}
