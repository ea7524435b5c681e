package assembler

import (
	"fmt"
	"io"
	"log/slog"
	"runtime"
)

// Assembler runs the resolution pipeline over a whole source file:
// aligns, labels, immediates, relocations, then encoding.
type Assembler struct {
	log     *slog.Logger
	workers int

	// State of the most recent run.
	program   Program
	labels    Labels
	variables Variables
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithLogger sets the logger that receives one debug record per pass.
func WithLogger(l *slog.Logger) Option {
	return func(asm *Assembler) {
		if l != nil {
			asm.log = l
		}
	}
}

// WithWorkers sets how many goroutines the final encoding pass may use.
func WithWorkers(n int) Option {
	return func(asm *Assembler) {
		asm.workers = n
	}
}

// New creates a new Assembler instance.
func New(opts ...Option) *Assembler {
	asm := &Assembler{
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(asm)
	}
	return asm
}

// Assemble takes RV32I assembly source and returns the flat binary image.
func Assemble(src string) ([]byte, error) {
	return New().Assemble(src)
}

// Assemble takes RV32I assembly source and returns the flat binary image.
// Nothing is returned unless every pass succeeds.
func (asm *Assembler) Assemble(src string) ([]byte, error) {
	asm.program, asm.labels, asm.variables = nil, nil, nil

	lines := Lex(src)
	program, vars, err := Build(lines)
	if err != nil {
		return nil, fmt.Errorf("parsing error: %w", err)
	}
	asm.log.Debug("built program", "lines", len(lines), "items", len(program), "variables", len(vars))

	program, err = ResolveAligns(program)
	if err != nil {
		return nil, err
	}
	asm.log.Debug("resolved aligns", "items", len(program), "bytes", program.Size())

	program, labels, err := ResolveLabels(program)
	if err != nil {
		return nil, err
	}
	asm.log.Debug("resolved labels", "items", len(program), "labels", len(labels))

	program, err = ResolveImmediates(program, labels)
	if err != nil {
		return nil, err
	}
	asm.log.Debug("resolved immediates", "items", len(program))

	program, err = ResolveRelocations(program)
	if err != nil {
		return nil, err
	}
	asm.log.Debug("resolved relocations", "items", len(program))

	code, err := EmitParallel(program, asm.workers)
	if err != nil {
		return nil, err
	}
	asm.log.Debug("encoded program", "bytes", len(code), "workers", asm.workers)

	asm.program, asm.labels, asm.variables = program, labels, vars
	return code, nil
}

// Program returns the fully resolved program of the last successful run.
func (asm *Assembler) Program() Program {
	return asm.program
}

// Labels returns the label addresses of the last successful run.
func (asm *Assembler) Labels() Labels {
	return asm.labels
}

// Variables returns the variables bound during the last successful run.
func (asm *Assembler) Variables() Variables {
	return asm.variables
}
