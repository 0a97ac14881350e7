package cpu

import "testing"

func TestALU_AddSubFlagsExhaustive(t *testing.T) {
	c := New(nil)
	for a := 0; a < 256; a++ {
		for v := 0; v < 256; v++ {
			for _, cin := range []bool{false, true} {
				ci := 0
				if cin {
					ci = 1
				}
				cases := []struct {
					sel    byte
					res    int
					h, cy  bool
					sub    bool
					usesCi bool
				}{
					{0, a + v, a&0xF+v&0xF > 0xF, a+v > 0xFF, false, false},
					{1, a + v + ci, a&0xF+v&0xF+ci > 0xF, a+v+ci > 0xFF, false, true},
					{2, a - v, a&0xF < v&0xF, a < v, true, false},
					{3, a - v - ci, a&0xF < v&0xF+ci, a < v+ci, true, true},
				}
				for _, tc := range cases {
					if !tc.usesCi && cin {
						continue
					}
					c.A = byte(a)
					c.SetFlag(FlagC, cin)
					c.alu(tc.sel, byte(v))
					want := byte(tc.res)
					if c.A != want {
						t.Fatalf("%s a=%02x v=%02x c=%v got %02x want %02x", aluNames[tc.sel], a, v, cin, c.A, want)
					}
					if c.Flag(FlagZ) != (want == 0) || c.Flag(FlagN) != tc.sub || c.Flag(FlagH) != tc.h || c.Flag(FlagC) != tc.cy {
						t.Fatalf("%s a=%02x v=%02x c=%v F=%02x", aluNames[tc.sel], a, v, cin, c.F)
					}
				}
			}
		}
	}
}

func TestALU_CompareLeavesA(t *testing.T) {
	c := New(nil)
	for a := 0; a < 256; a++ {
		for v := 0; v < 256; v++ {
			c.A = byte(a)
			c.alu(7, byte(v))
			if c.A != byte(a) {
				t.Fatalf("CP changed A %02x -> %02x", a, c.A)
			}
			if c.Flag(FlagZ) != (a == v) || c.Flag(FlagC) != (a < v) || !c.Flag(FlagN) {
				t.Fatalf("CP a=%02x v=%02x F=%02x", a, v, c.F)
			}
		}
	}
}

func TestALU_LogicFlags(t *testing.T) {
	c := New(nil)
	tests := []struct {
		sel     byte
		a, v    byte
		want, f byte
	}{
		{4, 0xF0, 0x0F, 0x00, 0xA0}, // AND: Z, H
		{4, 0xFF, 0x81, 0x81, 0x20},
		{5, 0xAA, 0xAA, 0x00, 0x80}, // XOR
		{5, 0xAA, 0x55, 0xFF, 0x00},
		{6, 0x00, 0x00, 0x00, 0x80}, // OR
		{6, 0x10, 0x01, 0x11, 0x00},
	}
	for _, tt := range tests {
		c.A = tt.a
		c.F = 0x70
		c.alu(tt.sel, tt.v)
		if c.A != tt.want || c.F != tt.f {
			t.Fatalf("%s%02x on %02x got A=%02x F=%02x want A=%02x F=%02x", aluNames[tt.sel], tt.v, tt.a, c.A, c.F, tt.want, tt.f)
		}
	}
}

func TestALU_DocumentedVectors(t *testing.T) {
	c := New(nil)

	c.A, c.F = 0x3A, 0
	c.alu(0, 0xC6)
	if c.A != 0x00 || c.F != 0xB0 {
		t.Fatalf("ADD 3A+C6 got A=%02x F=%02x want 00 B0", c.A, c.F)
	}

	c.A, c.F = 0xE1, 0x10
	c.alu(1, 0x0F)
	if c.A != 0xF1 || c.F != 0x20 {
		t.Fatalf("ADC E1+0F+1 got A=%02x F=%02x want F1 20", c.A, c.F)
	}

	c.A, c.F = 0x3C, 0
	c.alu(7, 0x2F)
	if c.A != 0x3C || c.F != 0x60 {
		t.Fatalf("CP 3C,2F got A=%02x F=%02x want 3C 60", c.A, c.F)
	}

	c.SetHL(0x8A23)
	c.F = 0
	c.addHL(0x0605)
	if c.HL() != 0x9028 || c.F != 0x20 {
		t.Fatalf("ADD HL 8A23+0605 got HL=%04x F=%02x want 9028 20", c.HL(), c.F)
	}

	var cy bool
	c.A, cy = rlc(0x85)
	if c.A != 0x0B || !cy {
		t.Fatalf("RLCA 85 got %02x c=%v want 0B true", c.A, cy)
	}
}

func TestALU_IncDecPreserveCarry(t *testing.T) {
	c := New(nil)
	for v := 0; v < 256; v++ {
		for _, cin := range []bool{false, true} {
			c.F = 0
			c.SetFlag(FlagC, cin)
			r := c.inc8(byte(v))
			if r != byte(v+1) || c.Flag(FlagC) != cin || c.Flag(FlagZ) != (r == 0) || c.Flag(FlagH) != (v&0xF == 0xF) || c.Flag(FlagN) {
				t.Fatalf("INC %02x c=%v got %02x F=%02x", v, cin, r, c.F)
			}
			c.F = 0
			c.SetFlag(FlagC, cin)
			r = c.dec8(byte(v))
			if r != byte(v-1) || c.Flag(FlagC) != cin || c.Flag(FlagZ) != (r == 0) || c.Flag(FlagH) != (v&0xF == 0) || !c.Flag(FlagN) {
				t.Fatalf("DEC %02x c=%v got %02x F=%02x", v, cin, r, c.F)
			}
		}
	}
}

func TestALU_AddSPSignedLowByteFlags(t *testing.T) {
	tests := []struct {
		sp    uint16
		e     byte
		want  uint16
		h, cy bool
	}{
		{0xFFF8, 0x08, 0x0000, true, true},
		{0x0000, 0xFF, 0xFFFF, false, false},
		{0x00FF, 0x01, 0x0100, true, true},
		{0x1000, 0x80, 0x0F80, false, false},
		{0xFF0F, 0xFF, 0xFF0E, true, true},
	}
	for _, tt := range tests {
		res, h, cy := addSPSigned(tt.sp, tt.e)
		if res != tt.want || h != tt.h || cy != tt.cy {
			t.Fatalf("SP=%04x e=%02x got %04x h=%v c=%v want %04x h=%v c=%v", tt.sp, tt.e, res, h, cy, tt.want, tt.h, tt.cy)
		}
	}
}

func TestALU_DAATable(t *testing.T) {
	tests := []struct {
		a, f    byte
		want, g byte
	}{
		{0x45, 0x20, 0x4B, 0x00}, // add, H only: +06
		{0x0A, 0x00, 0x10, 0x00}, // add, low nibble > 9
		{0x9A, 0x00, 0x00, 0x90}, // add, both adjustments, wraps to zero
		{0x12, 0x10, 0x72, 0x10}, // add, C: +60
		{0x00, 0x30, 0x66, 0x10}, // add, H and C
		{0x99, 0x00, 0x99, 0x00}, // add, already decimal
		{0x3F, 0x60, 0x39, 0x40}, // sub, H: -06
		{0xA0, 0x50, 0x40, 0x50}, // sub, C: -60
		{0x9A, 0x70, 0x34, 0x50}, // sub, H and C
		{0x45, 0x40, 0x45, 0x40}, // sub, nothing to adjust
		{0x00, 0x40, 0x00, 0xC0}, // sub, zero result
	}
	c := New(nil)
	for _, tt := range tests {
		c.A, c.F = tt.a, tt.f
		c.daa()
		if c.A != tt.want || c.F != tt.g {
			t.Fatalf("DAA A=%02x F=%02x got A=%02x F=%02x want A=%02x F=%02x", tt.a, tt.f, c.A, c.F, tt.want, tt.g)
		}
	}
}

func TestRegisters_PairRoundTrip(t *testing.T) {
	c := New(nil)
	for v := 0; v <= 0xFFFF; v++ {
		w := uint16(v)
		c.SetBC(w)
		c.SetDE(w)
		c.SetHL(w)
		if c.BC() != w || c.DE() != w || c.HL() != w {
			t.Fatalf("pair round trip %04x got BC=%04x DE=%04x HL=%04x", w, c.BC(), c.DE(), c.HL())
		}
		c.SetAF(w)
		if c.AF() != w&0xFFF0 || c.F&0x0F != 0 {
			t.Fatalf("AF round trip %04x got %04x", w, c.AF())
		}
	}
}

func TestRegisters_SetFlag(t *testing.T) {
	c := New(nil)
	for _, f := range []Flag{FlagZ, FlagN, FlagH, FlagC} {
		c.F = 0
		c.SetFlag(f, true)
		if !c.Flag(f) || c.F != byte(f) {
			t.Fatalf("SetFlag %02x got F=%02x", byte(f), c.F)
		}
		c.SetFlag(f, false)
		if c.F != 0 {
			t.Fatalf("clear %02x got F=%02x", byte(f), c.F)
		}
	}
}
