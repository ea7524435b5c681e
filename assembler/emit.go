package assembler

import (
	"bytes"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Urethramancer/rv32i/cpu"
)

// minSegment is the smallest number of items worth handing to a worker.
const minSegment = 256

// Emit encodes a fully resolved program into the output image.
func Emit(program Program) ([]byte, error) {
	return emitSegment(program)
}

// EmitParallel encodes a fully resolved program using up to workers
// goroutines. The program is cut into contiguous segments that are joined in
// order, so the output is identical to Emit. On failure the error of the
// earliest failing item is returned.
func EmitParallel(program Program, workers int) ([]byte, error) {
	if workers <= 1 || len(program) < 2*minSegment {
		return emitSegment(program)
	}

	size := max((len(program)+workers-1)/workers, minSegment)
	count := (len(program) + size - 1) / size
	chunks := make([][]byte, count)
	errs := make([]error, count)

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range count {
		start := i * size
		end := min(start+size, len(program))
		g.Go(func() error {
			chunks[i], errs[i] = emitSegment(program[start:end])
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return bytes.Join(chunks, nil), nil
}

func emitSegment(program Program) ([]byte, error) {
	out := make([]byte, 0, program.Size())
	for _, item := range program {
		var err error
		out, err = appendItem(out, item)
		if err != nil {
			loc := item.Loc()
			return nil, lineError(loc.Line, loc.Source, err)
		}
	}
	return out, nil
}

// appendItem encodes one item with its format's encoder and appends the bytes.
func appendItem(out []byte, item Item) ([]byte, error) {
	var (
		w   cpu.Word
		err error
	)
	switch it := item.(type) {
	case RInstr:
		w, err = cpu.EncodeR(it.Op, it.Rd, it.Rs1, it.Rs2)
	case IInstr:
		w, err = encodeWith(it.Imm, func(imm int64) (cpu.Word, error) {
			return cpu.EncodeI(it.Op, it.Rd, it.Rs1, imm)
		})
	case SInstr:
		w, err = encodeWith(it.Imm, func(imm int64) (cpu.Word, error) {
			return cpu.EncodeS(it.Op, it.Rs1, it.Rs2, imm)
		})
	case BInstr:
		w, err = encodeWith(it.Imm, func(imm int64) (cpu.Word, error) {
			return cpu.EncodeB(it.Op, it.Rs1, it.Rs2, imm)
		})
	case UInstr:
		w, err = encodeWith(it.Imm, func(imm int64) (cpu.Word, error) {
			return cpu.EncodeU(it.Op, it.Rd, imm)
		})
	case JInstr:
		w, err = encodeWith(it.Imm, func(imm int64) (cpu.Word, error) {
			return cpu.EncodeJ(it.Op, it.Rd, imm)
		})
	case Blob:
		return append(out, it.Data...), nil
	case Pack:
		v, err := literal(it.Imm)
		if err != nil {
			return nil, err
		}
		b, err := it.Format.Encode(v)
		if err != nil {
			return nil, err
		}
		return append(out, b...), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnresolved, item)
	}
	if err != nil {
		return nil, err
	}
	return cpu.AppendWord(out, w), nil
}

func encodeWith(imm Immediate, encode func(int64) (cpu.Word, error)) (cpu.Word, error) {
	v, err := literal(imm)
	if err != nil {
		return 0, err
	}
	return encode(v)
}
