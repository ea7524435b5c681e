package disassembler

import (
	"fmt"
	"strconv"

	"github.com/Urethramancer/rv32i/cpu"
)

// isPrintableASCII checks if a byte is a standard printable ASCII character.
func isPrintableASCII(b byte) bool {
	return b >= 0x20 && b <= 0x7E
}

// allPrintable reports whether all bytes are standard printable ASCII.
func allPrintable(b []byte) bool {
	for _, c := range b {
		if !isPrintableASCII(c) {
			return false
		}
	}
	return true
}

// formatWord writes a word that is not an instruction as a little-endian pack.
func formatWord(w cpu.Word) string {
	return fmt.Sprintf("    %-8s <I 0x%08x\n", "pack", uint32(w))
}

// formatBytes writes bytes that do not fill a word as a quoted blob.
func formatBytes(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	return fmt.Sprintf("    %-8s %s\n", "blob", strconv.Quote(string(data)))
}

// formatUpper prints a lui/auipc immediate, in hex unless it is negative.
func formatUpper(imm int64) string {
	if imm < 0 {
		return strconv.FormatInt(imm, 10)
	}
	return fmt.Sprintf("0x%05x", imm)
}
