package cpu

// cbTable holds the 256 handlers of the 0xCB-prefixed space, generated
// from the opcode bit layout by decodeCB.
var cbTable [256]func(c *CPU)

func init() {
	for op := 0; op < 256; op++ {
		cbTable[op] = decodeCB(byte(op))
	}
}

// CB opcode groups for 0x00-0x3F, selected by op&0xF8.
const (
	cbRLC  = 0x00
	cbRRC  = 0x08
	cbRL   = 0x10
	cbRR   = 0x18
	cbSLA  = 0x20
	cbSRA  = 0x28
	cbSWAP = 0x30
	cbSRL  = 0x38
)

// CB bit operations for 0x40-0xFF, selected by op&0xC0.
const (
	cbBIT = 0x40
	cbRES = 0x80
	cbSET = 0xC0
)

// decodeCB splits op into an operand selector (op%8) and either a
// rotate/shift group (op&0xF8) or a bit index (bits 3-5) with a
// BIT/RES/SET selector (top two bits).
func decodeCB(op byte) func(c *CPU) {
	r := op % 8
	if op < 0x40 {
		shift := shiftOp(op & 0xF8)
		return func(c *CPU) {
			res, cy := shift(c, c.reg8(r))
			c.setReg8(r, res)
			c.setZNHC(res == 0, false, false, cy)
		}
	}
	bit := (op >> 3) & 7
	mask := byte(1) << bit
	switch op & 0xC0 {
	case cbBIT:
		return func(c *CPU) {
			z := c.reg8(r)&mask == 0
			f := c.F&flagC | flagH
			if z {
				f |= flagZ
			}
			c.F = f
		}
	case cbRES:
		return func(c *CPU) { c.setReg8(r, c.reg8(r)&^mask) }
	default: // cbSET
		return func(c *CPU) { c.setReg8(r, c.reg8(r)|mask) }
	}
}

func shiftOp(group byte) func(c *CPU, v byte) (byte, bool) {
	switch group {
	case cbRLC:
		return func(_ *CPU, v byte) (byte, bool) { return rlc(v) }
	case cbRRC:
		return func(_ *CPU, v byte) (byte, bool) { return rrc(v) }
	case cbRL:
		return func(c *CPU, v byte) (byte, bool) { return rl(v, c.carry()) }
	case cbRR:
		return func(c *CPU, v byte) (byte, bool) { return rr(v, c.carry()) }
	case cbSLA:
		return func(_ *CPU, v byte) (byte, bool) { return sla(v) }
	case cbSRA:
		return func(_ *CPU, v byte) (byte, bool) { return sra(v) }
	case cbSWAP:
		return func(_ *CPU, v byte) (byte, bool) { return swap(v) }
	default:
		return func(_ *CPU, v byte) (byte, bool) { return srl(v) }
	}
}
