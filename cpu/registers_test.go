package cpu_test

import (
	"errors"
	"testing"

	"github.com/Urethramancer/rv32i/cpu"
)

func TestResolveRegister(t *testing.T) {
	tests := []struct {
		token string
		want  cpu.Register
	}{
		{"x0", 0},
		{"zero", 0},
		{"ra", 1},
		{"sp", 2},
		{"fp", 8},
		{"s0", 8},
		{"a0", 10},
		{"a1", 11},
		{"s11", 27},
		{"t6", 31},
		{"x31", 31},
		{"7", 7},
		{"31", 31},
	}
	for _, tc := range tests {
		got, err := cpu.ResolveRegister(tc.token)
		if err != nil {
			t.Errorf("%q: unexpected error %v", tc.token, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%q: got %d, want %d", tc.token, got, tc.want)
		}
	}
}

func TestResolveRegisterInvalid(t *testing.T) {
	for _, token := range []string{"x32", "32", "-1", "foo", "A0", "", "t7"} {
		if _, err := cpu.ResolveRegister(token); !errors.Is(err, cpu.ErrInvalidRegister) {
			t.Errorf("%q: got %v, want ErrInvalidRegister", token, err)
		}
	}
}

func TestRegisterString(t *testing.T) {
	if got := cpu.Register(8).String(); got != "s0" {
		t.Errorf("got %s, want s0", got)
	}
	if got := cpu.Register(0).String(); got != "zero" {
		t.Errorf("got %s, want zero", got)
	}
	for r := cpu.Register(0); r < cpu.NumRegisters; r++ {
		back, err := cpu.ResolveRegister(r.String())
		if err != nil || back != r {
			t.Errorf("register %d: name %q resolves to %d (%v)", r, r.String(), back, err)
		}
	}
}
