package assembler_test

import (
	"errors"
	"testing"

	"github.com/Urethramancer/rv32i/assembler"
)

func TestEval(t *testing.T) {
	vars := assembler.Variables{"x": 21, "base": 0x1000}
	tests := []struct {
		expr string
		want int64
	}{
		{"1+2*3", 7},
		{"(1+2)*3", 9},
		{"2--1", 3},
		{"-7/2", -4},
		{"-7//2", -4},
		{"7/2", 3},
		{"7%-3", -2},
		{"-7%3", 2},
		{"1<<4|1", 17},
		{"6&3^1", 3},
		{"1|2^3&4", 3},
		{"~0", -1},
		{"0x10+0b11+0o7", 26},
		{"0X1F", 31},
		{"1_000", 1000},
		{"0xffffffffffffffff", -1},
		{"x*2", 42},
		{"base + x - 1", 0x1014},
		{"-(x)", -21},
		{"256 >> 4", 16},
	}
	for _, tc := range tests {
		got, err := assembler.Eval(tc.expr, vars)
		if err != nil {
			t.Errorf("%q: unexpected error %v", tc.expr, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%q: expected %d, got %d", tc.expr, tc.want, got)
		}
	}
}

func TestEvalErrors(t *testing.T) {
	tests := []struct {
		expr string
		want error
	}{
		{"1/0", assembler.ErrDivisionByZero},
		{"5%0", assembler.ErrDivisionByZero},
		{"y + 1", assembler.ErrUndefinedVariable},
		{"1+", assembler.ErrInvalidSyntax},
		{"(1", assembler.ErrInvalidSyntax},
		{"1 2", assembler.ErrInvalidSyntax},
		{"1 $ 2", assembler.ErrInvalidSyntax},
		{"0xzz", assembler.ErrInvalidSyntax},
		{"1 << -1", assembler.ErrInvalidSyntax},
		{"", assembler.ErrInvalidSyntax},
	}
	for _, tc := range tests {
		_, err := assembler.Eval(tc.expr, nil)
		if !errors.Is(err, tc.want) {
			t.Errorf("%q: expected %v, got %v", tc.expr, tc.want, err)
		}
	}
}
