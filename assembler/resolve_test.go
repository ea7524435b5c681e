package assembler_test

import (
	"errors"
	"testing"

	"github.com/Urethramancer/rv32i/assembler"
)

func TestResolveAligns(t *testing.T) {
	program, err := assembler.ResolveAligns(mustParse(t, "blob \"abc\"\nalign 4\nblob \"d\"\nalign 4\nalign 2"))
	if err != nil {
		t.Fatalf("aligns: %v", err)
	}
	sizes := []int64{3, 1, 1, 3}
	if len(program) != len(sizes) {
		t.Fatalf("expected %d items, got %d", len(sizes), len(program))
	}
	for i, want := range sizes {
		b, ok := program[i].(assembler.Blob)
		if !ok || b.Size() != want {
			t.Errorf("item %d: expected blob of %d bytes, got %+v", i, want, program[i])
		}
	}

	program, err = assembler.ResolveAligns(mustParse(t, "align 4\nblob \"x\""))
	if err != nil {
		t.Fatalf("aligns: %v", err)
	}
	if len(program) != 1 {
		t.Errorf("an align at offset 0 should vanish, got %d items", len(program))
	}

	_, err = assembler.ResolveAligns(assembler.Program{assembler.Align{Boundary: 0}})
	if !errors.Is(err, assembler.ErrInvalidAlignment) {
		t.Errorf("expected invalid alignment, got %v", err)
	}
}

func TestResolveLabels(t *testing.T) {
	program, labels, err := assembler.ResolveLabels(mustParse(t, "a:\nblob \"12345\"\nb:\nc:\npack <H 1\nd:"))
	if err != nil {
		t.Fatalf("labels: %v", err)
	}
	want := assembler.Labels{"a": 0, "b": 5, "c": 5, "d": 7}
	for name, addr := range want {
		if labels[name] != addr {
			t.Errorf("%s: expected %d, got %d", name, addr, labels[name])
		}
	}
	if len(labels) != len(want) {
		t.Errorf("expected %d labels, got %v", len(want), labels)
	}
	if len(program) != 2 {
		t.Errorf("labels should be removed, got %d items", len(program))
	}

	_, _, err = assembler.ResolveLabels(mustParse(t, "dup:\naddi x0, x0, 0\ndup:"))
	if !errors.Is(err, assembler.ErrDuplicateLabel) {
		t.Errorf("expected duplicate label, got %v", err)
	}

	_, _, err = assembler.ResolveLabels(mustParse(t, "align 4"))
	if !errors.Is(err, assembler.ErrUnresolved) {
		t.Errorf("expected unresolved align, got %v", err)
	}
}

func TestResolveImmediates(t *testing.T) {
	f, err := assembler.ParsePackFormat("<I")
	if err != nil {
		t.Fatal(err)
	}
	program := assembler.Program{
		assembler.Pack{Format: f, Imm: assembler.Position{Label: "here", Base: 4}},
		assembler.Pack{Format: f, Imm: assembler.Offset{Label: "here"}},
		assembler.Pack{Format: f, Imm: assembler.Literal(9)},
	}
	labels := assembler.Labels{"here": 100}

	out, err := assembler.ResolveImmediates(program, labels)
	if err != nil {
		t.Fatalf("immediates: %v", err)
	}
	for i, want := range []assembler.Immediate{assembler.Literal(104), assembler.Literal(96), assembler.Literal(9)} {
		if got := out[i].(assembler.Pack).Imm; got != want {
			t.Errorf("item %d: expected %v, got %v", i, want, got)
		}
	}
	if program[0].(assembler.Pack).Imm != (assembler.Position{Label: "here", Base: 4}) {
		t.Error("input program was modified")
	}

	_, err = assembler.ResolveImmediates(assembler.Program{assembler.Pack{Format: f, Imm: assembler.Offset{Label: "gone"}}}, labels)
	if !errors.Is(err, assembler.ErrUndefinedLabel) {
		t.Errorf("expected undefined label, got %v", err)
	}

	_, err = assembler.ResolveImmediates(assembler.Program{assembler.Label{Name: "here"}}, labels)
	if !errors.Is(err, assembler.ErrUnresolved) {
		t.Errorf("expected unresolved label, got %v", err)
	}
}

func TestResolveSelfLoop(t *testing.T) {
	program, labels, err := assembler.ResolveLabels(mustParse(t, "loop: jal loop"))
	if err != nil {
		t.Fatalf("labels: %v", err)
	}
	program, err = assembler.ResolveImmediates(program, labels)
	if err != nil {
		t.Fatalf("immediates: %v", err)
	}
	jal := program[0].(assembler.JInstr)
	if jal.Imm != assembler.Literal(0) || jal.Rd != 0 || jal.Op.Name != "jal" {
		t.Errorf("expected jal x0 with offset 0, got %+v", jal)
	}
	code, err := assembler.Emit(program)
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if string(code) != "\x6f\x00\x00\x00" {
		t.Errorf("expected 6F 00 00 00, got % X", code)
	}
}

func TestResolveRelocations(t *testing.T) {
	program, labels, err := assembler.ResolveLabels(mustParse(t, "lui a0, %hi(position(x, 0x12345000))\naddi a0, a0, %lo(position(x, 0x12345000))\nx:"))
	if err != nil {
		t.Fatalf("labels: %v", err)
	}
	program, err = assembler.ResolveImmediates(program, labels)
	if err != nil {
		t.Fatalf("immediates: %v", err)
	}
	// x sits at 8, so the absolute value is 0x12345008.
	if got := program[0].(assembler.UInstr).Imm; got != (assembler.Hi{Inner: assembler.Literal(0x12345008)}) {
		t.Errorf("expected %%hi wrapper to survive, got %v", got)
	}

	program, err = assembler.ResolveRelocations(program)
	if err != nil {
		t.Fatalf("relocations: %v", err)
	}
	if got := program[0].(assembler.UInstr).Imm; got != assembler.Literal(0x12345) {
		t.Errorf("hi: expected 0x12345, got %v", got)
	}
	if got := program[1].(assembler.IInstr).Imm; got != assembler.Literal(8) {
		t.Errorf("lo: expected 8, got %v", got)
	}

	_, err = assembler.ResolveRelocations(assembler.Program{assembler.UInstr{Imm: assembler.Hi{Inner: assembler.Offset{Label: "x"}}}})
	if !errors.Is(err, assembler.ErrUnresolved) {
		t.Errorf("expected unresolved, got %v", err)
	}
}
