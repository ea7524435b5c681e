package cpu

import (
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Format is one of the six RV32I instruction word layouts.
type Format int

const (
	// FormatR is register-register.
	FormatR Format = iota
	// FormatI is register-immediate, loads and jalr.
	FormatI
	// FormatS is stores.
	FormatS
	// FormatB is conditional branches.
	FormatB
	// FormatU is upper-immediate.
	FormatU
	// FormatJ is jal.
	FormatJ
)

func (f Format) String() string {
	switch f {
	case FormatR:
		return "R"
	case FormatI:
		return "I"
	case FormatS:
		return "S"
	case FormatB:
		return "B"
	case FormatU:
		return "U"
	case FormatJ:
		return "J"
	default:
		return "?"
	}
}

// Major opcodes.
const (
	OPLUI    = 0b0110111
	OPAUIPC  = 0b0010111
	OPJAL    = 0b1101111
	OPJALR   = 0b1100111
	OPBRANCH = 0b1100011
	OPLOAD   = 0b0000011
	OPSTORE  = 0b0100011
	OPIMM    = 0b0010011
	OPREG    = 0b0110011
	OPSYSTEM = 0b1110011
)

// Operand signature variations inside a format.
const (
	// SigDefault uses the format's plain operand list.
	SigDefault = iota
	// SigShift is an R-format shift-immediate; rs2 carries the shift amount.
	SigShift
	// SigMemory accepts the imm(rs1) addressing syntax as well.
	SigMemory
	// SigNone takes no operands; the immediate is fixed.
	SigNone
)

// Opcode describes a mnemonic: its format and the fixed fields of its encoding.
type Opcode struct {
	Name      string
	Format    Format
	Opcode    uint32
	Funct3    uint32
	Funct7    uint32
	Signature int
	// Fixed is the immediate of a SigNone instruction.
	Fixed int64
}

// Instructions is the RV32I mnemonic table, keyed by lower-case name.
var Instructions = map[string]Opcode{
	"lui":   {Name: "lui", Format: FormatU, Opcode: OPLUI},
	"auipc": {Name: "auipc", Format: FormatU, Opcode: OPAUIPC},

	"jal":  {Name: "jal", Format: FormatJ, Opcode: OPJAL},
	"jalr": {Name: "jalr", Format: FormatI, Opcode: OPJALR, Funct3: 0b000, Signature: SigMemory},

	"beq":  {Name: "beq", Format: FormatB, Opcode: OPBRANCH, Funct3: 0b000},
	"bne":  {Name: "bne", Format: FormatB, Opcode: OPBRANCH, Funct3: 0b001},
	"blt":  {Name: "blt", Format: FormatB, Opcode: OPBRANCH, Funct3: 0b100},
	"bge":  {Name: "bge", Format: FormatB, Opcode: OPBRANCH, Funct3: 0b101},
	"bltu": {Name: "bltu", Format: FormatB, Opcode: OPBRANCH, Funct3: 0b110},
	"bgeu": {Name: "bgeu", Format: FormatB, Opcode: OPBRANCH, Funct3: 0b111},

	"lb":  {Name: "lb", Format: FormatI, Opcode: OPLOAD, Funct3: 0b000, Signature: SigMemory},
	"lh":  {Name: "lh", Format: FormatI, Opcode: OPLOAD, Funct3: 0b001, Signature: SigMemory},
	"lw":  {Name: "lw", Format: FormatI, Opcode: OPLOAD, Funct3: 0b010, Signature: SigMemory},
	"lbu": {Name: "lbu", Format: FormatI, Opcode: OPLOAD, Funct3: 0b100, Signature: SigMemory},
	"lhu": {Name: "lhu", Format: FormatI, Opcode: OPLOAD, Funct3: 0b101, Signature: SigMemory},

	"sb": {Name: "sb", Format: FormatS, Opcode: OPSTORE, Funct3: 0b000, Signature: SigMemory},
	"sh": {Name: "sh", Format: FormatS, Opcode: OPSTORE, Funct3: 0b001, Signature: SigMemory},
	"sw": {Name: "sw", Format: FormatS, Opcode: OPSTORE, Funct3: 0b010, Signature: SigMemory},

	"addi":  {Name: "addi", Format: FormatI, Opcode: OPIMM, Funct3: 0b000},
	"slti":  {Name: "slti", Format: FormatI, Opcode: OPIMM, Funct3: 0b010},
	"sltiu": {Name: "sltiu", Format: FormatI, Opcode: OPIMM, Funct3: 0b011},
	"xori":  {Name: "xori", Format: FormatI, Opcode: OPIMM, Funct3: 0b100},
	"ori":   {Name: "ori", Format: FormatI, Opcode: OPIMM, Funct3: 0b110},
	"andi":  {Name: "andi", Format: FormatI, Opcode: OPIMM, Funct3: 0b111},

	"slli": {Name: "slli", Format: FormatR, Opcode: OPIMM, Funct3: 0b001, Funct7: 0b0000000, Signature: SigShift},
	"srli": {Name: "srli", Format: FormatR, Opcode: OPIMM, Funct3: 0b101, Funct7: 0b0000000, Signature: SigShift},
	"srai": {Name: "srai", Format: FormatR, Opcode: OPIMM, Funct3: 0b101, Funct7: 0b0100000, Signature: SigShift},

	"add":  {Name: "add", Format: FormatR, Opcode: OPREG, Funct3: 0b000, Funct7: 0b0000000},
	"sub":  {Name: "sub", Format: FormatR, Opcode: OPREG, Funct3: 0b000, Funct7: 0b0100000},
	"sll":  {Name: "sll", Format: FormatR, Opcode: OPREG, Funct3: 0b001, Funct7: 0b0000000},
	"slt":  {Name: "slt", Format: FormatR, Opcode: OPREG, Funct3: 0b010, Funct7: 0b0000000},
	"sltu": {Name: "sltu", Format: FormatR, Opcode: OPREG, Funct3: 0b011, Funct7: 0b0000000},
	"xor":  {Name: "xor", Format: FormatR, Opcode: OPREG, Funct3: 0b100, Funct7: 0b0000000},
	"srl":  {Name: "srl", Format: FormatR, Opcode: OPREG, Funct3: 0b101, Funct7: 0b0000000},
	"sra":  {Name: "sra", Format: FormatR, Opcode: OPREG, Funct3: 0b101, Funct7: 0b0100000},
	"or":   {Name: "or", Format: FormatR, Opcode: OPREG, Funct3: 0b110, Funct7: 0b0000000},
	"and":  {Name: "and", Format: FormatR, Opcode: OPREG, Funct3: 0b111, Funct7: 0b0000000},

	"ecall":  {Name: "ecall", Format: FormatI, Opcode: OPSYSTEM, Signature: SigNone, Fixed: 0},
	"ebreak": {Name: "ebreak", Format: FormatI, Opcode: OPSYSTEM, Signature: SigNone, Fixed: 1},
}

// Lookup finds a mnemonic, ignoring case.
func Lookup(mnemonic string) (Opcode, bool) {
	op, ok := Instructions[strings.ToLower(mnemonic)]
	return op, ok
}

// Mnemonics returns every known mnemonic in sorted order.
func Mnemonics() []string {
	names := lo.Keys(Instructions)
	sort.Strings(names)
	return names
}
