package cpu

import (
	"encoding/binary"
)

// WordSize is the length in bytes of every RV32I instruction.
const WordSize = 4

// Word is one encoded instruction.
type Word uint32

// Bytes returns the word in little-endian order.
func (w Word) Bytes() []byte {
	b := make([]byte, WordSize)
	binary.LittleEndian.PutUint32(b, uint32(w))
	return b
}

// AppendWord appends w to dst in little-endian order.
func AppendWord(dst []byte, w Word) []byte {
	return binary.LittleEndian.AppendUint32(dst, uint32(w))
}

// WordsToBytes converts instruction words to a little-endian byte slice.
func WordsToBytes(words []Word) []byte {
	out := make([]byte, 0, len(words)*WordSize)
	for _, w := range words {
		out = AppendWord(out, w)
	}
	return out
}

// BytesToWords interprets bytes as little-endian words.
// Trailing bytes that do not fill a whole word are ignored.
func BytesToWords(b []byte) []Word {
	out := make([]Word, len(b)/WordSize)
	for i := range out {
		out[i] = Word(binary.LittleEndian.Uint32(b[i*WordSize:]))
	}
	return out
}
