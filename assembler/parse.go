package assembler

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/Urethramancer/rv32i/cpu"
)

var (
	reLabel    = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_.]*):(.*)$`)
	reAssign   = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*=\s*(.*)$`)
	reName     = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)
	reCallName = regexp.MustCompile(`^%?[A-Za-z_][A-Za-z0-9_]*$`)
)

// builder turns lines into program items. Variables are bound in source
// order, so an expression can only use names assigned above it.
type builder struct {
	program Program
	vars    Variables
}

// Build converts lexed lines into a program and the variables bound while
// reading it.
func Build(lines []Line) (Program, Variables, error) {
	b := &builder{vars: make(Variables)}
	for _, line := range lines {
		if err := b.parseLine(line); err != nil {
			return nil, nil, lineError(line.Number, line.Text, err)
		}
	}
	return b.program, b.vars, nil
}

// Parse lexes and builds src in one step.
func Parse(src string) (Program, Variables, error) {
	return Build(Lex(src))
}

func (b *builder) parseLine(line Line) error {
	loc := Location{Line: line.Number, Source: line.Text}
	text := line.Text

	if m := reLabel.FindStringSubmatch(text); m != nil {
		b.program = append(b.program, Label{Location: loc, Name: m[1]})
		text = strings.TrimSpace(m[2])
		if text == "" {
			return nil
		}
	}

	if m := reAssign.FindStringSubmatch(text); m != nil {
		v, err := Eval(m[2], b.vars)
		if err != nil {
			return fmt.Errorf("assignment to %s: %w", m[1], err)
		}
		b.vars[m[1]] = v
		return nil
	}

	head, rest := splitHead(text)
	var (
		item Item
		err  error
	)
	switch strings.ToLower(head) {
	case "blob":
		item, err = parseBlob(loc, rest)
	case "pack":
		item, err = b.parsePack(loc, rest)
	case "align":
		item, err = b.parseAlign(loc, rest)
	default:
		if !reName.MatchString(head) {
			return fmt.Errorf("%w: %q", ErrInvalidSyntax, text)
		}
		op, ok := cpu.Lookup(head)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownMnemonic, head)
		}
		item, err = b.parseInstruction(loc, op, rest)
	}
	if err != nil {
		return err
	}
	b.program = append(b.program, item)
	return nil
}

// parseInstruction reads the operands of op in its format's order:
// R rd, rs1, rs2; I rd, rs1, imm; S rs1, rs2, imm; B rs1, rs2, imm;
// U rd, imm; J rd, imm. Loads and jalr also take rd, imm(rs1) and stores
// take rs2, imm(rs1). jal with a single operand links into x0.
func (b *builder) parseInstruction(loc Location, op cpu.Opcode, rest string) (Item, error) {
	ops := splitOperands(rest)
	p := operandParser{builder: b, op: op, ops: ops}

	switch op.Format {
	case cpu.FormatR:
		if err := p.expect(3, "rd, rs1, rs2"); err != nil {
			return nil, err
		}
		it := RInstr{Location: loc, Op: op, Rd: p.register(0), Rs1: p.register(1)}
		if op.Signature == cpu.SigShift {
			it.Rs2 = p.shamt(2)
		} else {
			it.Rs2 = p.register(2)
		}
		return it, p.err

	case cpu.FormatI:
		if op.Signature == cpu.SigNone {
			if err := p.expect(0, ""); err != nil {
				return nil, err
			}
			return IInstr{Location: loc, Op: op, Imm: Literal(op.Fixed)}, nil
		}
		if op.Signature == cpu.SigMemory && len(ops) == 2 {
			imm, base, ok := splitMemoryOperand(ops[1])
			if !ok {
				return nil, fmt.Errorf("%w: %s expects rd, imm(rs1) or rd, rs1, imm", ErrInvalidSyntax, op.Name)
			}
			p.ops = []string{ops[0], base, imm}
		}
		if err := p.expect(3, "rd, rs1, imm"); err != nil {
			return nil, err
		}
		it := IInstr{Location: loc, Op: op, Rd: p.register(0), Rs1: p.register(1), Imm: p.immediate(2)}
		return it, p.err

	case cpu.FormatS:
		if op.Signature == cpu.SigMemory && len(ops) == 2 {
			imm, base, ok := splitMemoryOperand(ops[1])
			if !ok {
				return nil, fmt.Errorf("%w: %s expects rs2, imm(rs1) or rs1, rs2, imm", ErrInvalidSyntax, op.Name)
			}
			p.ops = []string{base, ops[0], imm}
		}
		if err := p.expect(3, "rs1, rs2, imm"); err != nil {
			return nil, err
		}
		it := SInstr{Location: loc, Op: op, Rs1: p.register(0), Rs2: p.register(1), Imm: p.immediate(2)}
		return it, p.err

	case cpu.FormatB:
		if err := p.expect(3, "rs1, rs2, imm"); err != nil {
			return nil, err
		}
		it := BInstr{Location: loc, Op: op, Rs1: p.register(0), Rs2: p.register(1), Imm: p.target(2)}
		return it, p.err

	case cpu.FormatU:
		if err := p.expect(2, "rd, imm"); err != nil {
			return nil, err
		}
		it := UInstr{Location: loc, Op: op, Rd: p.register(0), Imm: p.immediate(1)}
		return it, p.err

	case cpu.FormatJ:
		if len(ops) == 1 {
			it := JInstr{Location: loc, Op: op, Imm: p.target(0)}
			return it, p.err
		}
		if err := p.expect(2, "rd, imm"); err != nil {
			return nil, err
		}
		it := JInstr{Location: loc, Op: op, Rd: p.register(0), Imm: p.target(1)}
		return it, p.err
	}
	return nil, fmt.Errorf("%w: %s has no operand format", ErrUnknownMnemonic, op.Name)
}

// operandParser reads operands by index and keeps the first error, so an
// instruction can be assembled field by field and checked once.
type operandParser struct {
	builder *builder
	op      cpu.Opcode
	ops     []string
	err     error
}

func (p *operandParser) expect(n int, form string) error {
	if len(p.ops) == n {
		return nil
	}
	if n == 0 {
		return fmt.Errorf("%w: %s takes no operands", ErrInvalidSyntax, p.op.Name)
	}
	return fmt.Errorf("%w: %s expects %d operands (%s), got %d", ErrInvalidSyntax, p.op.Name, n, form, len(p.ops))
}

func (p *operandParser) register(i int) cpu.Register {
	if p.err != nil {
		return 0
	}
	r, err := cpu.ResolveRegister(p.ops[i])
	p.err = err
	return r
}

func (p *operandParser) immediate(i int) Immediate {
	if p.err != nil {
		return nil
	}
	imm, err := p.builder.parseImmediate(p.ops[i])
	p.err = err
	return imm
}

// target reads a branch or jump destination. A bare name that is not a
// bound variable is a label, taken relative to the instruction.
func (p *operandParser) target(i int) Immediate {
	if p.err != nil {
		return nil
	}
	name := p.ops[i]
	if _, bound := p.builder.vars[name]; !bound && reName.MatchString(name) {
		return Offset{Label: name}
	}
	return p.immediate(i)
}

// shamt reads the shift amount of slli, srli and srai.
func (p *operandParser) shamt(i int) cpu.Register {
	if p.err != nil {
		return 0
	}
	v, err := Eval(p.ops[i], p.builder.vars)
	if err != nil {
		p.err = err
		return 0
	}
	if v < 0 || v >= cpu.NumRegisters {
		p.err = fmt.Errorf("%w: shift amount must be between 0 and 31: %d", cpu.ErrImmediateRange, v)
		return 0
	}
	return cpu.Register(v)
}

// parseImmediate reads an integer expression or one of the special forms
// position(label[, expr]), offset(label), %hi(...) and %lo(...).
func (b *builder) parseImmediate(s string) (Immediate, error) {
	return b.parseImmediateForm(strings.TrimSpace(s), true)
}

func (b *builder) parseImmediateForm(s string, allowRelocation bool) (Immediate, error) {
	if name, args, ok := splitCall(s); ok {
		switch strings.ToLower(name) {
		case "%hi", "%lo":
			if !allowRelocation {
				return nil, fmt.Errorf("%w: %s cannot wrap %%hi or %%lo", ErrInvalidSyntax, s)
			}
			inner, err := b.parseImmediateForm(strings.TrimSpace(args), false)
			if err != nil {
				return nil, err
			}
			if strings.EqualFold(name, "%hi") {
				return Hi{Inner: inner}, nil
			}
			return Lo{Inner: inner}, nil

		case "position":
			parts := splitOperands(args)
			if len(parts) < 1 || len(parts) > 2 || !reName.MatchString(parts[0]) {
				return nil, fmt.Errorf("%w: expected position(label[, expr]): %s", ErrInvalidSyntax, s)
			}
			pos := Position{Label: parts[0]}
			if len(parts) == 2 {
				base, err := Eval(parts[1], b.vars)
				if err != nil {
					return nil, err
				}
				pos.Base = base
			}
			return pos, nil

		case "offset":
			parts := splitOperands(args)
			if len(parts) != 1 || !reName.MatchString(parts[0]) {
				return nil, fmt.Errorf("%w: expected offset(label): %s", ErrInvalidSyntax, s)
			}
			return Offset{Label: parts[0]}, nil
		}
	}
	if strings.HasPrefix(s, "%") {
		return nil, fmt.Errorf("%w: unknown relocation %s", ErrInvalidSyntax, s)
	}

	v, err := Eval(s, b.vars)
	if err != nil {
		return nil, err
	}
	return Literal(v), nil
}

// splitHead splits off the first whitespace-separated word.
func splitHead(s string) (string, string) {
	s = strings.TrimSpace(s)
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}

// splitOperands splits an operand string by commas, but ignores commas inside
// parentheses. A list with no such comma is split on whitespace instead, so
// "add x1 x2 x3" reads the same as "add x1, x2, x3".
func splitOperands(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	result := splitTopLevel(s, func(r rune) bool { return r == ',' })
	if len(result) == 1 {
		result = lo.Compact(splitTopLevel(s, unicode.IsSpace))
	}
	return lo.Map(result, func(op string, _ int) string { return strings.TrimSpace(op) })
}

// splitTopLevel cuts s at every separator outside parentheses.
func splitTopLevel(s string, sep func(rune) bool) []string {
	var result []string
	parenLevel := 0
	last := 0
	for i, r := range s {
		switch {
		case r == '(':
			parenLevel++
		case r == ')':
			parenLevel--
		case parenLevel == 0 && sep(r):
			result = append(result, s[last:i])
			last = i + utf8.RuneLen(r)
		}
	}
	return append(result, s[last:])
}

// splitCall recognises name(args) where the parenthesis opened after name
// closes at the very end of s.
func splitCall(s string) (name, args string, ok bool) {
	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return "", "", false
	}
	name = strings.TrimSpace(s[:open])
	if !reCallName.MatchString(name) || closingParen(s, open) != len(s)-1 {
		return "", "", false
	}
	return name, s[open+1 : len(s)-1], true
}

// splitMemoryOperand splits imm(reg) into its immediate and base register.
// An empty immediate means 0.
func splitMemoryOperand(s string) (imm, base string, ok bool) {
	if !strings.HasSuffix(s, ")") {
		return "", "", false
	}
	open := openingParen(s, len(s)-1)
	if open < 0 {
		return "", "", false
	}
	base = strings.TrimSpace(s[open+1 : len(s)-1])
	imm = strings.TrimSpace(s[:open])
	if !cpu.IsRegister(base) {
		return "", "", false
	}
	switch strings.ToLower(imm) {
	case "":
		imm = "0"
	case "%hi", "%lo", "position", "offset":
		return "", "", false
	}
	return imm, base, true
}

// closingParen returns the index of the parenthesis closing the one at open, or -1.
func closingParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// openingParen returns the index of the parenthesis opening the one at closing, or -1.
func openingParen(s string, closing int) int {
	depth := 0
	for i := closing; i >= 0; i-- {
		switch s[i] {
		case ')':
			depth++
		case '(':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
