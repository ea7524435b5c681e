package disassembler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/Urethramancer/rv32i/cpu"
)

// LabelType defines the context of a label.
type LabelType int

const (
	// JumpTarget is for a branch or a plain jal.
	JumpTarget LabelType = iota
	// SubroutineEntry is for a jal that links through ra.
	SubroutineEntry
)

// Instruction represents a single word at a specific address.
type Instruction struct {
	Address uint32
	Word    cpu.Word
	Fields  cpu.Fields
	IsCode  bool // false when the word is not a known instruction
}

// Listing is an analysed image: every full word, the label targets found in
// branches and jumps, and any bytes after the last full word.
type Listing struct {
	Instructions []Instruction
	Labels       map[uint32]LabelType
	Trailing     []byte
}

// Disassemble takes a flat RV32I image and returns source text that
// assembles back to the same bytes.
func Disassemble(code []byte) string {
	return Analyze(code).String()
}

// Analyze decodes every word of code and collects jump targets.
func Analyze(code []byte) *Listing {
	words := cpu.BytesToWords(code)
	l := &Listing{
		Instructions: make([]Instruction, len(words)),
		Labels:       make(map[uint32]LabelType),
		Trailing:     code[len(words)*cpu.WordSize:],
	}

	// Linear sweep
	for i, w := range words {
		inst := Instruction{Address: uint32(i * cpu.WordSize), Word: w}
		if f, err := cpu.Decode(w); err == nil {
			inst.Fields, inst.IsCode = f, true
		}
		l.Instructions[i] = inst
	}

	// Label targets
	for _, inst := range l.Instructions {
		target, ok := l.target(inst)
		if !ok {
			continue
		}
		if inst.Fields.Op.Format == cpu.FormatJ && inst.Fields.Rd == cpu.RA {
			l.Labels[target] = SubroutineEntry
		} else if _, exists := l.Labels[target]; !exists {
			l.Labels[target] = JumpTarget
		}
	}

	return l
}

// CodeWords returns the number of words that decoded as instructions.
func (l *Listing) CodeWords() int {
	return lo.CountBy(l.Instructions, func(inst Instruction) bool { return inst.IsCode })
}

// end is the address just past the last full word. A label may sit there.
func (l *Listing) end() uint32 {
	return uint32(len(l.Instructions) * cpu.WordSize)
}

// target returns the destination of a branch or jal when it can carry a label:
// word aligned and inside the image or at its end.
func (l *Listing) target(inst Instruction) (uint32, bool) {
	if !inst.IsCode {
		return 0, false
	}
	switch inst.Fields.Op.Format {
	case cpu.FormatB, cpu.FormatJ:
	default:
		return 0, false
	}
	addr := int64(inst.Address) + inst.Fields.Imm
	if addr < 0 || addr > int64(l.end()) || addr%cpu.WordSize != 0 {
		return 0, false
	}
	return uint32(addr), true
}

// String renders the listing as assembly source.
func (l *Listing) String() string {
	var out strings.Builder
	var text []byte

	// Printable data words are gathered into one blob until something else
	// has to be written.
	flush := func() {
		if len(text) > 0 {
			fmt.Fprintf(&out, "    %-8s %s\n", "blob", strconv.Quote(string(text)))
			text = text[:0]
		}
	}
	label := func(addr uint32) {
		if labelType, exists := l.Labels[addr]; exists {
			flush()
			fmt.Fprintf(&out, "%s:\n", labelName(addr, labelType))
		}
	}

	for _, inst := range l.Instructions {
		label(inst.Address)
		if !inst.IsCode {
			b := inst.Word.Bytes()
			if allPrintable(b) {
				text = append(text, b...)
				continue
			}
			flush()
			out.WriteString(formatWord(inst.Word))
			continue
		}

		flush()
		operands := l.operands(inst)
		if operands != "" {
			fmt.Fprintf(&out, "    %-8s %s\n", inst.Fields.Op.Name, operands)
		} else {
			fmt.Fprintf(&out, "    %s\n", inst.Fields.Op.Name)
		}
	}
	label(l.end())
	flush()
	out.WriteString(formatBytes(l.Trailing))

	return out.String()
}

// operands formats the operand fields in the order the assembler reads them.
func (l *Listing) operands(inst Instruction) string {
	f := inst.Fields
	switch f.Op.Format {
	case cpu.FormatR:
		if f.Op.Signature == cpu.SigShift {
			return fmt.Sprintf("%s, %s, %d", f.Rd, f.Rs1, uint8(f.Rs2))
		}
		return fmt.Sprintf("%s, %s, %s", f.Rd, f.Rs1, f.Rs2)
	case cpu.FormatI:
		switch f.Op.Signature {
		case cpu.SigNone:
			return ""
		case cpu.SigMemory:
			return fmt.Sprintf("%s, %d(%s)", f.Rd, f.Imm, f.Rs1)
		}
		return fmt.Sprintf("%s, %s, %d", f.Rd, f.Rs1, f.Imm)
	case cpu.FormatS:
		return fmt.Sprintf("%s, %d(%s)", f.Rs2, f.Imm, f.Rs1)
	case cpu.FormatB:
		return fmt.Sprintf("%s, %s, %s", f.Rs1, f.Rs2, l.destination(inst))
	case cpu.FormatU:
		return fmt.Sprintf("%s, %s", f.Rd, formatUpper(f.Imm))
	case cpu.FormatJ:
		return fmt.Sprintf("%s, %s", f.Rd, l.destination(inst))
	}
	return ""
}

// destination names the label a branch or jump lands on, or falls back to
// the raw offset.
func (l *Listing) destination(inst Instruction) string {
	if addr, ok := l.target(inst); ok {
		if labelType, exists := l.Labels[addr]; exists {
			return fmt.Sprintf("offset(%s)", labelName(addr, labelType))
		}
	}
	return strconv.FormatInt(inst.Fields.Imm, 10)
}

func labelName(addr uint32, labelType LabelType) string {
	prefix := "loc_"
	switch labelType {
	case SubroutineEntry:
		prefix = "sub_"
	}
	return fmt.Sprintf("%s%04X", prefix, addr)
}
