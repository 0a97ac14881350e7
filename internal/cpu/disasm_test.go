package cpu

import "testing"

func TestPrimaryMnemonicsAndLengths(t *testing.T) {
	tests := []struct {
		op   byte
		text string
		size int
	}{
		{0x00, "NOP", 1},
		{0x01, "LD BC,d16", 3},
		{0x06, "LD B,d8", 2},
		{0x08, "LD (a16),SP", 3},
		{0x10, "STOP", 2},
		{0x18, "JR e8", 2},
		{0x28, "JR Z,e8", 2},
		{0x36, "LD (HL),d8", 2},
		{0x76, "HALT", 1},
		{0x7E, "LD A,(HL)", 1},
		{0x9E, "SBC A,(HL)", 1},
		{0xC4, "CALL NZ,a16", 3},
		{0xCB, "PREFIX CB", 2},
		{0xDF, "RST 18H", 1},
		{0xE0, "LDH (a8),A", 2},
		{0xE8, "ADD SP,e8", 2},
		{0xEF, "RST 28H", 1},
		{0xF1, "POP AF", 1},
		{0xF8, "LD HL,SP+e8", 2},
		{0xFE, "CP d8", 2},
		{0xED, "DB EDH", 1},
	}
	for _, tt := range tests {
		if got := Mnemonic(tt.op, false); got != tt.text {
			t.Fatalf("Mnemonic(%02X) got %q want %q", tt.op, got, tt.text)
		}
		if got := InstructionLength(tt.op); got != tt.size {
			t.Fatalf("InstructionLength(%02X) got %d want %d", tt.op, got, tt.size)
		}
	}
}
