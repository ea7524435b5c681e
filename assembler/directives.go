package assembler

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/Urethramancer/rv32i/cpu"
)

// PackFormat is a fixed-width binary layout for a pack item, written as an
// optional byte-order prefix and one type code, e.g. "<I" or ">h".
type PackFormat struct {
	Text   string
	Order  binary.ByteOrder
	Size   int
	Signed bool
}

var packCodes = map[byte]struct {
	size   int
	signed bool
}{
	'b': {1, true}, 'B': {1, false},
	'h': {2, true}, 'H': {2, false},
	'i': {4, true}, 'I': {4, false},
	'l': {4, true}, 'L': {4, false},
	'q': {8, true}, 'Q': {8, false},
}

// ParsePackFormat reads a pack format. The prefixes '<' (little-endian),
// '>' and '!' (big-endian), '@' and '=' (native, little-endian) are accepted;
// without a prefix the layout is little-endian. Native means the RV32
// target rather than the host, so sizes never change with the prefix and
// 'l' and 'L' are 4 bytes as in ILP32.
func ParsePackFormat(text string) (PackFormat, error) {
	f := PackFormat{Text: text, Order: binary.LittleEndian}
	code := text
	if len(code) > 0 {
		switch code[0] {
		case '<', '@', '=':
			code = code[1:]
		case '>', '!':
			f.Order = binary.BigEndian
			code = code[1:]
		}
	}
	if len(code) != 1 {
		return f, fmt.Errorf("%w: %q", ErrInvalidPackFormat, text)
	}
	c, ok := packCodes[code[0]]
	if !ok {
		return f, fmt.Errorf("%w: %q", ErrInvalidPackFormat, text)
	}
	f.Size, f.Signed = c.size, c.signed
	return f, nil
}

// Encode packs v in the format, rejecting values that do not fit.
func (f PackFormat) Encode(v int64) ([]byte, error) {
	bits := uint(f.Size * 8)
	if f.Signed {
		if bits < 64 {
			lo, hi := -(int64(1) << (bits - 1)), int64(1)<<(bits-1)-1
			if v < lo || v > hi {
				return nil, fmt.Errorf("%w: %d does not fit format %q", cpu.ErrImmediateRange, v, f.Text)
			}
		}
	} else {
		if v < 0 || (bits < 64 && v >= int64(1)<<bits) {
			return nil, fmt.Errorf("%w: %d does not fit format %q", cpu.ErrImmediateRange, v, f.Text)
		}
	}

	out := make([]byte, f.Size)
	switch f.Size {
	case 1:
		out[0] = byte(v)
	case 2:
		f.Order.PutUint16(out, uint16(v))
	case 4:
		f.Order.PutUint32(out, uint32(v))
	case 8:
		f.Order.PutUint64(out, uint64(v))
	}
	return out, nil
}

func (f PackFormat) String() string {
	return f.Text
}

// parseBlob handles "blob <literal>". A double-quoted literal is unquoted
// with Go escape rules; anything else is taken verbatim. The bytes are UTF-8.
func parseBlob(loc Location, rest string) (Item, error) {
	if rest == "" {
		return nil, fmt.Errorf("%w: blob expects a literal", ErrInvalidSyntax)
	}
	data := []byte(rest)
	if strings.HasPrefix(rest, `"`) {
		s, err := strconv.Unquote(rest)
		if err != nil {
			return nil, fmt.Errorf("%w: bad string literal %s", ErrInvalidSyntax, rest)
		}
		data = []byte(s)
	}
	return Blob{Location: loc, Data: data}, nil
}

// parsePack handles "pack <format> <immediate>".
func (b *builder) parsePack(loc Location, rest string) (Item, error) {
	text, immText := splitHead(rest)
	immText = strings.TrimSpace(strings.TrimPrefix(immText, ","))
	if text == "" || immText == "" {
		return nil, fmt.Errorf("%w: pack expects a format and a value", ErrInvalidSyntax)
	}
	f, err := ParsePackFormat(strings.TrimSuffix(text, ","))
	if err != nil {
		return nil, err
	}
	imm, err := b.parseImmediate(immText)
	if err != nil {
		return nil, err
	}
	return Pack{Location: loc, Format: f, Imm: imm}, nil
}

// parseAlign handles "align <expr>".
func (b *builder) parseAlign(loc Location, rest string) (Item, error) {
	n, err := Eval(rest, b.vars)
	if err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAlignment, n)
	}
	return Align{Location: loc, Boundary: n}, nil
}
