package cpu

import (
	"fmt"
	"strings"
)

var (
	regNames   = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}
	pairNames  = [4]string{"BC", "DE", "HL", "SP"}
	stackNames = [4]string{"BC", "DE", "HL", "AF"}
	condNames  = [4]string{"NZ", "Z", "NC", "C"}
	aluNames   = [8]string{"ADD A,", "ADC A,", "SUB ", "SBC A,", "AND ", "XOR ", "OR ", "CP "}
	cbNames    = [8]string{"RLC", "RRC", "RL", "RR", "SLA", "SRA", "SWAP", "SRL"}
)

var (
	mnemonics [256]string
	lengths   [256]int
)

func init() {
	fixed := map[byte]string{
		0x00: "NOP", 0x02: "LD (BC),A", 0x07: "RLCA", 0x08: "LD (a16),SP", 0x0A: "LD A,(BC)", 0x0F: "RRCA",
		0x10: "STOP", 0x12: "LD (DE),A", 0x17: "RLA", 0x18: "JR e8", 0x1A: "LD A,(DE)", 0x1F: "RRA",
		0x22: "LD (HL+),A", 0x27: "DAA", 0x2A: "LD A,(HL+)", 0x2F: "CPL",
		0x32: "LD (HL-),A", 0x37: "SCF", 0x3A: "LD A,(HL-)", 0x3F: "CCF",
		0x76: "HALT", 0xC3: "JP a16", 0xC9: "RET", 0xCB: "PREFIX CB", 0xCD: "CALL a16", 0xD9: "RETI",
		0xE0: "LDH (a8),A", 0xE2: "LD (C),A", 0xE8: "ADD SP,e8", 0xE9: "JP HL", 0xEA: "LD (a16),A",
		0xF0: "LDH A,(a8)", 0xF2: "LD A,(C)", 0xF3: "DI", 0xF8: "LD HL,SP+e8", 0xF9: "LD SP,HL",
		0xFA: "LD A,(a16)", 0xFB: "EI",
	}
	for op := 0x40; op < 0x80; op++ {
		mnemonics[op] = "LD " + regNames[(op>>3)&7] + "," + regNames[op&7]
	}
	for op := 0x80; op < 0xC0; op++ {
		mnemonics[op] = aluNames[(op>>3)&7] + regNames[op&7]
	}
	for r := 0; r < 8; r++ {
		mnemonics[0x04|r<<3] = "INC " + regNames[r]
		mnemonics[0x05|r<<3] = "DEC " + regNames[r]
		mnemonics[0x06|r<<3] = "LD " + regNames[r] + ",d8"
		mnemonics[0xC6|r<<3] = aluNames[r] + "d8"
		mnemonics[0xC7|r<<3] = fmt.Sprintf("RST %02XH", r*8)
	}
	for p := 0; p < 4; p++ {
		mnemonics[0x01|p<<4] = "LD " + pairNames[p] + ",d16"
		mnemonics[0x03|p<<4] = "INC " + pairNames[p]
		mnemonics[0x0B|p<<4] = "DEC " + pairNames[p]
		mnemonics[0x09|p<<4] = "ADD HL," + pairNames[p]
		mnemonics[0xC1|p<<4] = "POP " + stackNames[p]
		mnemonics[0xC5|p<<4] = "PUSH " + stackNames[p]
		mnemonics[0x20|p<<3] = "JR " + condNames[p] + ",e8"
		mnemonics[0xC0|p<<3] = "RET " + condNames[p]
		mnemonics[0xC2|p<<3] = "JP " + condNames[p] + ",a16"
		mnemonics[0xC4|p<<3] = "CALL " + condNames[p] + ",a16"
	}
	for op, s := range fixed {
		mnemonics[op] = s
	}
	for _, op := range UndefinedOpcodes {
		mnemonics[op] = fmt.Sprintf("DB %02XH", op)
	}
	for op, s := range mnemonics {
		switch {
		case strings.Contains(s, "d16"), strings.Contains(s, "a16"):
			lengths[op] = 3
		case strings.Contains(s, "d8"), strings.Contains(s, "a8"), strings.Contains(s, "e8"), op == 0x10, op == 0xCB:
			lengths[op] = 2
		default:
			lengths[op] = 1
		}
	}
}

// InstructionLength returns the encoded size of a primary opcode in bytes,
// operands and the 0xCB prefix's second byte included.
func InstructionLength(op byte) int { return lengths[op] }

// Mnemonic returns assembler text for a primary opcode, or for a
// prefixed one when cb is true.
func Mnemonic(op byte, cb bool) string {
	if !cb {
		return mnemonics[op]
	}
	r := regNames[op%8]
	if op < 0x40 {
		return cbNames[op>>3] + " " + r
	}
	bit := (op >> 3) & 7
	switch op & 0xC0 {
	case cbBIT:
		return fmt.Sprintf("BIT %d,%s", bit, r)
	case cbRES:
		return fmt.Sprintf("RES %d,%s", bit, r)
	default:
		return fmt.Sprintf("SET %d,%s", bit, r)
	}
}
