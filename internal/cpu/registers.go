package cpu

// Flag is one of the four meaningful bits of F.
type Flag byte

// Flags helpers
const (
	FlagZ Flag = 1 << 7
	FlagN Flag = 1 << 6
	FlagH Flag = 1 << 5
	FlagC Flag = 1 << 4
)

const (
	flagZ = byte(FlagZ)
	flagN = byte(FlagN)
	flagH = byte(FlagH)
	flagC = byte(FlagC)
)

// Flag reports whether f is set in F.
func (c *CPU) Flag(f Flag) bool { return c.F&byte(f) != 0 }

// SetFlag sets or clears f in F.
func (c *CPU) SetFlag(f Flag, on bool) {
	if on {
		c.F |= byte(f)
	} else {
		c.F &^= byte(f)
	}
	c.F &= 0xF0
}

func (c *CPU) setZNHC(z, n, h, carry bool) {
	var f byte
	if z {
		f |= flagZ
	}
	if n {
		f |= flagN
	}
	if h {
		f |= flagH
	}
	if carry {
		f |= flagC
	}
	c.F = f
}

func (c *CPU) carry() byte {
	if c.F&flagC != 0 {
		return 1
	}
	return 0
}

// Register pairs. Setters write the high byte first; AF drops F's low nibble.
func (c *CPU) AF() uint16     { return uint16(c.A)<<8 | uint16(c.F&0xF0) }
func (c *CPU) SetAF(v uint16) { c.A = byte(v >> 8); c.F = byte(v) & 0xF0 }
func (c *CPU) BC() uint16     { return uint16(c.B)<<8 | uint16(c.C) }
func (c *CPU) SetBC(v uint16) { c.B = byte(v >> 8); c.C = byte(v) }
func (c *CPU) DE() uint16     { return uint16(c.D)<<8 | uint16(c.E) }
func (c *CPU) SetDE(v uint16) { c.D = byte(v >> 8); c.E = byte(v) }
func (c *CPU) HL() uint16     { return uint16(c.H)<<8 | uint16(c.L) }
func (c *CPU) SetHL(v uint16) { c.H = byte(v >> 8); c.L = byte(v) }

// Operand selector shared by LD r,r', the ALU block and the CB space:
// 0-5 = B,C,D,E,H,L; 6 = (HL); 7 = A.
const operandHL = 6

func (c *CPU) reg8(idx byte) byte {
	switch idx & 7 {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	case 6:
		return c.read8(c.HL())
	default:
		return c.A
	}
}

func (c *CPU) setReg8(idx, v byte) {
	switch idx & 7 {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		c.H = v
	case 5:
		c.L = v
	case 6:
		c.write8(c.HL(), v)
	default:
		c.A = v
	}
}

// Pair selector for the 16-bit load/inc/dec/add columns: BC, DE, HL, SP.
func (c *CPU) reg16(idx byte) uint16 {
	switch idx & 3 {
	case 0:
		return c.BC()
	case 1:
		return c.DE()
	case 2:
		return c.HL()
	default:
		return c.SP
	}
}

func (c *CPU) setReg16(idx byte, v uint16) {
	switch idx & 3 {
	case 0:
		c.SetBC(v)
	case 1:
		c.SetDE(v)
	case 2:
		c.SetHL(v)
	default:
		c.SP = v
	}
}

// Pair selector for PUSH/POP: BC, DE, HL, AF.
func (c *CPU) stackReg(idx byte) uint16 {
	if idx&3 == 3 {
		return c.AF()
	}
	return c.reg16(idx)
}

func (c *CPU) setStackReg(idx byte, v uint16) {
	if idx&3 == 3 {
		c.SetAF(v)
		return
	}
	c.setReg16(idx, v)
}

// condition evaluates the NZ, Z, NC, C predicates encoded in bits 3-4.
func (c *CPU) condition(cc byte) bool {
	switch cc & 3 {
	case 0:
		return c.F&flagZ == 0
	case 1:
		return c.F&flagZ != 0
	case 2:
		return c.F&flagC == 0
	default:
		return c.F&flagC != 0
	}
}
