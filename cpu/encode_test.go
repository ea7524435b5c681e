package cpu_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/Urethramancer/rv32i/cpu"
)

func mustLookup(t *testing.T, name string) cpu.Opcode {
	t.Helper()
	op, ok := cpu.Lookup(name)
	if !ok {
		t.Fatalf("mnemonic %q missing from table", name)
	}
	return op
}

func TestKnownEncodings(t *testing.T) {
	tests := []struct {
		name string
		enc  func(t *testing.T) (cpu.Word, error)
		want cpu.Word
	}{
		{"add x1,x2,x3", func(t *testing.T) (cpu.Word, error) {
			return cpu.EncodeR(mustLookup(t, "add"), 1, 2, 3)
		}, 0x003100B3},
		{"sub a0,a1,a2", func(t *testing.T) (cpu.Word, error) {
			return cpu.EncodeR(mustLookup(t, "sub"), 10, 11, 12)
		}, 0x40C58533},
		{"addi x1,x2,0x7ff", func(t *testing.T) (cpu.Word, error) {
			return cpu.EncodeI(mustLookup(t, "addi"), 1, 2, 0x7ff)
		}, 0x7FF10093},
		{"addi x1,x0,-1", func(t *testing.T) (cpu.Word, error) {
			return cpu.EncodeI(mustLookup(t, "addi"), 1, 0, -1)
		}, 0xFFF00093},
		{"sw a0,8(sp)", func(t *testing.T) (cpu.Word, error) {
			return cpu.EncodeS(mustLookup(t, "sw"), 2, 10, 8)
		}, 0x00A12423},
		{"beq a0,a1,8", func(t *testing.T) (cpu.Word, error) {
			return cpu.EncodeB(mustLookup(t, "beq"), 10, 11, 8)
		}, 0x00B50463},
		{"bne x0,x0,-4", func(t *testing.T) (cpu.Word, error) {
			return cpu.EncodeB(mustLookup(t, "bne"), 0, 0, -4)
		}, 0xFE001EE3},
		{"lui a0,0x12345", func(t *testing.T) (cpu.Word, error) {
			return cpu.EncodeU(mustLookup(t, "lui"), 10, 0x12345)
		}, 0x12345537},
		{"lui x1,-1", func(t *testing.T) (cpu.Word, error) {
			return cpu.EncodeU(mustLookup(t, "lui"), 1, -1)
		}, 0xFFFFF0B7},
		{"jal ra,2048", func(t *testing.T) (cpu.Word, error) {
			return cpu.EncodeJ(mustLookup(t, "jal"), 1, 2048)
		}, 0x001000EF},
		{"jal x0,-2", func(t *testing.T) (cpu.Word, error) {
			return cpu.EncodeJ(mustLookup(t, "jal"), 0, -2)
		}, 0xFFFFF06F},
		{"jal x0,0", func(t *testing.T) (cpu.Word, error) {
			return cpu.EncodeJ(mustLookup(t, "jal"), 0, 0)
		}, 0x0000006F},
	}
	for _, tc := range tests {
		got, err := tc.enc(t)
		if err != nil {
			t.Errorf("[%s] unexpected error: %v", tc.name, err)
			continue
		}
		if got != tc.want {
			t.Errorf("[%s] got 0x%08X, want 0x%08X", tc.name, uint32(got), uint32(tc.want))
		}
	}
}

func TestWordBytesLittleEndian(t *testing.T) {
	w, err := cpu.EncodeR(mustLookup(t, "add"), 1, 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0xB3, 0x00, 0x31, 0x00}
	if got := w.Bytes(); !bytes.Equal(got, want) {
		t.Fatalf("got % X, want % X", got, want)
	}
	if got := cpu.WordsToBytes([]cpu.Word{w, w}); !bytes.Equal(got, append(want, want...)) {
		t.Fatalf("WordsToBytes: got % X", got)
	}
	if words := cpu.BytesToWords([]byte{0xB3, 0x00, 0x31, 0x00, 0xFF}); len(words) != 1 || words[0] != w {
		t.Fatalf("BytesToWords: got %v", words)
	}
}

func TestImmediateBoundaries(t *testing.T) {
	addi := mustLookup(t, "addi")
	sw := mustLookup(t, "sw")
	beq := mustLookup(t, "beq")
	lui := mustLookup(t, "lui")
	jal := mustLookup(t, "jal")

	tests := []struct {
		name string
		enc  func() (cpu.Word, error)
		want error
	}{
		{"I max", func() (cpu.Word, error) { return cpu.EncodeI(addi, 1, 1, 0x7ff) }, nil},
		{"I min", func() (cpu.Word, error) { return cpu.EncodeI(addi, 1, 1, -0x800) }, nil},
		{"I over", func() (cpu.Word, error) { return cpu.EncodeI(addi, 1, 1, 0x800) }, cpu.ErrImmediateRange},
		{"I under", func() (cpu.Word, error) { return cpu.EncodeI(addi, 1, 1, -0x801) }, cpu.ErrImmediateRange},
		{"S over", func() (cpu.Word, error) { return cpu.EncodeS(sw, 1, 1, 2048) }, cpu.ErrImmediateRange},
		{"S min", func() (cpu.Word, error) { return cpu.EncodeS(sw, 1, 1, -2048) }, nil},
		{"B 4094", func() (cpu.Word, error) { return cpu.EncodeB(beq, 1, 2, 4094) }, nil},
		{"B -4096", func() (cpu.Word, error) { return cpu.EncodeB(beq, 1, 2, -4096) }, nil},
		{"B 4096", func() (cpu.Word, error) { return cpu.EncodeB(beq, 1, 2, 4096) }, cpu.ErrImmediateRange},
		{"B odd", func() (cpu.Word, error) { return cpu.EncodeB(beq, 1, 2, 3) }, cpu.ErrImmediateParity},
		{"B odd negative", func() (cpu.Word, error) { return cpu.EncodeB(beq, 1, 2, -3) }, cpu.ErrImmediateParity},
		{"U max", func() (cpu.Word, error) { return cpu.EncodeU(lui, 1, 524287) }, nil},
		{"U min", func() (cpu.Word, error) { return cpu.EncodeU(lui, 1, -524288) }, nil},
		{"U over", func() (cpu.Word, error) { return cpu.EncodeU(lui, 1, 524288) }, cpu.ErrImmediateRange},
		{"J max even", func() (cpu.Word, error) { return cpu.EncodeJ(jal, 1, 1048574) }, nil},
		{"J min", func() (cpu.Word, error) { return cpu.EncodeJ(jal, 1, -1048576) }, nil},
		{"J over", func() (cpu.Word, error) { return cpu.EncodeJ(jal, 1, 1048576) }, cpu.ErrImmediateRange},
		{"J odd", func() (cpu.Word, error) { return cpu.EncodeJ(jal, 1, 7) }, cpu.ErrImmediateParity},
		{"bad register", func() (cpu.Word, error) { return cpu.EncodeI(addi, 32, 1, 0) }, cpu.ErrInvalidRegister},
	}
	for _, tc := range tests {
		_, err := tc.enc()
		if tc.want == nil && err != nil {
			t.Errorf("[%s] unexpected error: %v", tc.name, err)
		}
		if tc.want != nil && !errors.Is(err, tc.want) {
			t.Errorf("[%s] got %v, want %v", tc.name, err, tc.want)
		}
	}
}

// Every mnemonic must decode back to itself with the operands it was built from.
func TestEncodeDecodeFields(t *testing.T) {
	const rd, rs1, rs2 = cpu.Register(5), cpu.Register(17), cpu.Register(30)

	for _, name := range cpu.Mnemonics() {
		op := mustLookup(t, name)
		var (
			w    cpu.Word
			err  error
			want cpu.Fields
		)
		want.Op = op
		switch op.Format {
		case cpu.FormatR:
			w, err = cpu.EncodeR(op, rd, rs1, rs2)
			want.Rd, want.Rs1, want.Rs2 = rd, rs1, rs2
		case cpu.FormatI:
			if op.Signature == cpu.SigNone {
				w, err = cpu.EncodeI(op, 0, 0, op.Fixed)
				want.Imm = op.Fixed
			} else {
				w, err = cpu.EncodeI(op, rd, rs1, -12)
				want.Rd, want.Rs1, want.Imm = rd, rs1, -12
			}
		case cpu.FormatS:
			w, err = cpu.EncodeS(op, rs1, rs2, -2048)
			want.Rs1, want.Rs2, want.Imm = rs1, rs2, -2048
		case cpu.FormatB:
			w, err = cpu.EncodeB(op, rs1, rs2, -4096)
			want.Rs1, want.Rs2, want.Imm = rs1, rs2, -4096
		case cpu.FormatU:
			w, err = cpu.EncodeU(op, rd, -524288)
			want.Rd, want.Imm = rd, -524288
		case cpu.FormatJ:
			w, err = cpu.EncodeJ(op, rd, 1048574)
			want.Rd, want.Imm = rd, 1048574
		}
		if err != nil {
			t.Fatalf("[%s] encode failed: %v", name, err)
		}

		got, err := cpu.Decode(w)
		if err != nil {
			t.Fatalf("[%s] decode of 0x%08X failed: %v", name, uint32(w), err)
		}
		if got != want {
			t.Errorf("[%s] decoded %+v, want %+v", name, got, want)
		}
	}
}

func TestDecodeBranchOffsets(t *testing.T) {
	beq := mustLookup(t, "beq")
	jal := mustLookup(t, "jal")
	for imm := int64(-4096); imm <= 4094; imm += 226 {
		imm &^= 1
		w, err := cpu.EncodeB(beq, 1, 2, imm)
		if err != nil {
			t.Fatalf("beq %d: %v", imm, err)
		}
		f, err := cpu.Decode(w)
		if err != nil || f.Imm != imm {
			t.Errorf("beq %d decoded as %d (%v)", imm, f.Imm, err)
		}
	}
	for imm := int64(-1048576); imm <= 1048574; imm += 65538 {
		w, err := cpu.EncodeJ(jal, 1, imm)
		if err != nil {
			t.Fatalf("jal %d: %v", imm, err)
		}
		f, err := cpu.Decode(w)
		if err != nil || f.Imm != imm {
			t.Errorf("jal %d decoded as %d (%v)", imm, f.Imm, err)
		}
	}
}

func TestDecodeUnknown(t *testing.T) {
	for _, w := range []cpu.Word{0x00000000, 0xFFFFFFFF, 0x00003003, 0x30200073} {
		if _, err := cpu.Decode(w); !errors.Is(err, cpu.ErrIllegalInstruction) {
			t.Errorf("0x%08X: expected illegal instruction, got %v", uint32(w), err)
		}
	}
}
