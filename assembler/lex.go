package assembler

import (
	"regexp"
	"strings"
)

// Line is one non-empty source line with its comment removed.
type Line struct {
	Number int
	Text   string
}

var reTokenSeparators = regexp.MustCompile(`[\s,()]+`)

// Tokens splits the line on whitespace, commas and parentheses.
func (l Line) Tokens() []string {
	var tokens []string
	for _, tok := range reTokenSeparators.Split(l.Text, -1) {
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// Lex strips comments and blank lines from assembly source. Line numbers
// are kept so errors can point back at the input.
func Lex(src string) []Line {
	raw := strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")
	lines := make([]Line, 0, len(raw))
	for i, text := range raw {
		text = strings.TrimSpace(stripComment(text))
		if text == "" {
			continue
		}
		lines = append(lines, Line{Number: i + 1, Text: text})
	}
	return lines
}

// stripComment cuts the line at the first # that is not inside a string literal.
func stripComment(s string) string {
	inQuote := false
	escaped := false
	for i, c := range s {
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inQuote:
			escaped = true
		case c == '"':
			inQuote = !inQuote
		case c == '#' && !inQuote:
			return s[:i]
		}
	}
	return s
}
