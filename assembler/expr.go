package assembler

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Variables holds the integer constants bound by "name = expr" lines.
type Variables map[string]int64

type exprTokenKind int

const (
	tokNumber exprTokenKind = iota
	tokName
	tokOperator
	tokEnd
)

type exprToken struct {
	kind  exprTokenKind
	text  string
	value int64
}

// binary operators by precedence level, loosest first.
var binaryLevels = [][]string{
	{"|"},
	{"^"},
	{"&"},
	{"<<", ">>"},
	{"+", "-"},
	{"*", "/", "//", "%"},
}

// Eval evaluates an integer expression. It supports + - * / // % << >> & | ^,
// unary - + ~, parentheses, integer literals and names bound in vars.
// Division and modulo round toward negative infinity.
func Eval(expr string, vars Variables) (int64, error) {
	toks, err := tokenizeExpr(expr)
	if err != nil {
		return 0, err
	}
	p := &exprParser{toks: toks, vars: vars}
	v, err := p.parseBinary(0)
	if err != nil {
		return 0, err
	}
	if p.peek().kind != tokEnd {
		return 0, fmt.Errorf("%w: unexpected %q in expression %q", ErrInvalidSyntax, p.peek().text, expr)
	}
	return v, nil
}

func tokenizeExpr(s string) ([]exprToken, error) {
	var toks []exprToken
	for i := 0; i < len(s); {
		c := rune(s[i])
		switch {
		case unicode.IsSpace(c):
			i++
		case c >= '0' && c <= '9':
			j := i
			for j < len(s) && isNameChar(rune(s[j])) {
				j++
			}
			v, err := parseInteger(s[i:j])
			if err != nil {
				return nil, err
			}
			toks = append(toks, exprToken{kind: tokNumber, text: s[i:j], value: v})
			i = j
		case c == '_' || unicode.IsLetter(c):
			j := i
			for j < len(s) && isNameChar(rune(s[j])) {
				j++
			}
			toks = append(toks, exprToken{kind: tokName, text: s[i:j]})
			i = j
		default:
			op := ""
			for _, cand := range []string{"<<", ">>", "//", "+", "-", "*", "/", "%", "&", "|", "^", "~", "(", ")"} {
				if strings.HasPrefix(s[i:], cand) {
					op = cand
					break
				}
			}
			if op == "" {
				return nil, fmt.Errorf("%w: unexpected character %q in expression %q", ErrInvalidSyntax, c, s)
			}
			toks = append(toks, exprToken{kind: tokOperator, text: op})
			i += len(op)
		}
	}
	return append(toks, exprToken{kind: tokEnd, text: "end of expression"}), nil
}

func isNameChar(c rune) bool {
	return c == '_' || unicode.IsLetter(c) || unicode.IsDigit(c)
}

// parseInteger reads a decimal, 0x, 0o or 0b literal with optional _ separators.
func parseInteger(s string) (int64, error) {
	v, err := strconv.ParseInt(s, 0, 64)
	if err == nil {
		return v, nil
	}
	// Values in 0x80000000_00000000..0xffffffff_ffffffff are accepted as their
	// two's-complement bit pattern.
	u, uerr := strconv.ParseUint(s, 0, 64)
	if uerr != nil {
		return 0, fmt.Errorf("%w: invalid number %q", ErrInvalidSyntax, s)
	}
	return int64(u), nil
}

type exprParser struct {
	toks []exprToken
	pos  int
	vars Variables
}

func (p *exprParser) peek() exprToken {
	return p.toks[p.pos]
}

func (p *exprParser) next() exprToken {
	t := p.toks[p.pos]
	if t.kind != tokEnd {
		p.pos++
	}
	return t
}

func (p *exprParser) acceptOperator(ops []string) (string, bool) {
	t := p.peek()
	if t.kind != tokOperator {
		return "", false
	}
	for _, op := range ops {
		if t.text == op {
			p.pos++
			return op, true
		}
	}
	return "", false
}

func (p *exprParser) parseBinary(level int) (int64, error) {
	if level == len(binaryLevels) {
		return p.parseUnary()
	}

	left, err := p.parseBinary(level + 1)
	if err != nil {
		return 0, err
	}
	for {
		op, ok := p.acceptOperator(binaryLevels[level])
		if !ok {
			return left, nil
		}
		right, err := p.parseBinary(level + 1)
		if err != nil {
			return 0, err
		}
		left, err = applyBinary(op, left, right)
		if err != nil {
			return 0, err
		}
	}
}

func (p *exprParser) parseUnary() (int64, error) {
	if op, ok := p.acceptOperator([]string{"-", "+", "~"}); ok {
		v, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		switch op {
		case "-":
			return -v, nil
		case "~":
			return ^v, nil
		}
		return v, nil
	}
	return p.parsePrimary()
}

func (p *exprParser) parsePrimary() (int64, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return t.value, nil
	case tokName:
		v, ok := p.vars[t.text]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUndefinedVariable, t.text)
		}
		return v, nil
	case tokOperator:
		if t.text == "(" {
			v, err := p.parseBinary(0)
			if err != nil {
				return 0, err
			}
			if _, ok := p.acceptOperator([]string{")"}); !ok {
				return 0, fmt.Errorf("%w: missing closing parenthesis", ErrInvalidSyntax)
			}
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: unexpected %q in expression", ErrInvalidSyntax, t.text)
}

func applyBinary(op string, a, b int64) (int64, error) {
	switch op {
	case "|":
		return a | b, nil
	case "^":
		return a ^ b, nil
	case "&":
		return a & b, nil
	case "<<", ">>":
		if b < 0 {
			return 0, fmt.Errorf("%w: negative shift count %d", ErrInvalidSyntax, b)
		}
		if op == "<<" {
			return a << uint64(b), nil
		}
		return a >> uint64(b), nil
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	case "/", "//":
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		q := a / b
		if (a%b != 0) && ((a < 0) != (b < 0)) {
			q--
		}
		return q, nil
	case "%":
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		m := a % b
		if m != 0 && ((m < 0) != (b < 0)) {
			m += b
		}
		return m, nil
	}
	return 0, fmt.Errorf("%w: unknown operator %q", ErrInvalidSyntax, op)
}
