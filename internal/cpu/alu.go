package cpu

func add8(a, b byte) (res byte, z, n, h, cy bool) {
	r := uint16(a) + uint16(b)
	res = byte(r)
	z = res == 0
	n = false
	h = ((a & 0x0F) + (b & 0x0F)) > 0x0F
	cy = r > 0xFF
	return
}

func adc8(a, b byte, carryIn bool) (res byte, z, n, h, cy bool) {
	ci := byte(0)
	if carryIn {
		ci = 1
	}
	r := uint16(a) + uint16(b) + uint16(ci)
	res = byte(r)
	z = res == 0
	n = false
	h = ((a & 0x0F) + (b & 0x0F) + ci) > 0x0F
	cy = r > 0xFF
	return
}

func sub8(a, b byte) (res byte, z, n, h, cy bool) {
	r := int16(a) - int16(b)
	res = byte(r)
	z = res == 0
	n = true
	h = (a & 0x0F) < (b & 0x0F)
	cy = int16(a) < int16(b)
	return
}

func sbc8(a, b byte, carryIn bool) (res byte, z, n, h, cy bool) {
	ci := int16(0)
	if carryIn {
		ci = 1
	}
	r := int16(a) - int16(b) - ci
	res = byte(r)
	z = res == 0
	n = true
	h = int16(a&0x0F) < int16(b&0x0F)+ci
	cy = int16(a) < int16(b)+ci
	return
}

func and8(a, b byte) (res byte, z, n, h, cy bool) {
	res = a & b
	return res, res == 0, false, true, false
}

func xor8(a, b byte) (res byte, z, n, h, cy bool) {
	res = a ^ b
	return res, res == 0, false, false, false
}

func or8(a, b byte) (res byte, z, n, h, cy bool) {
	res = a | b
	return res, res == 0, false, false, false
}

func cp8(a, b byte) (z, n, h, cy bool) {
	_, z, n, h, cy = sub8(a, b)
	return
}

// alu applies one of the eight accumulator operations selected by bits 3-5
// of the 0x80-0xBF block and of the 0xC6-0xFE immediate column.
func (c *CPU) alu(sel, v byte) {
	var (
		res           byte
		z, n, h, cy   bool
		carryIn       = c.F&flagC != 0
		discardResult bool
	)
	switch sel & 7 {
	case 0:
		res, z, n, h, cy = add8(c.A, v)
	case 1:
		res, z, n, h, cy = adc8(c.A, v, carryIn)
	case 2:
		res, z, n, h, cy = sub8(c.A, v)
	case 3:
		res, z, n, h, cy = sbc8(c.A, v, carryIn)
	case 4:
		res, z, n, h, cy = and8(c.A, v)
	case 5:
		res, z, n, h, cy = xor8(c.A, v)
	case 6:
		res, z, n, h, cy = or8(c.A, v)
	case 7:
		z, n, h, cy = cp8(c.A, v)
		discardResult = true
	}
	if !discardResult {
		c.A = res
	}
	c.setZNHC(z, n, h, cy)
}

// inc8 and dec8 leave C untouched.
func (c *CPU) inc8(v byte) byte {
	r := v + 1
	c.setZNHC(r == 0, false, (v&0x0F) == 0x0F, c.F&flagC != 0)
	return r
}

func (c *CPU) dec8(v byte) byte {
	r := v - 1
	c.setZNHC(r == 0, true, (v&0x0F) == 0x00, c.F&flagC != 0)
	return r
}

// addHL adds v to HL; Z is preserved, H and C come from bits 11 and 15.
func (c *CPU) addHL(v uint16) {
	hl := c.HL()
	r := uint32(hl) + uint32(v)
	h := ((hl & 0x0FFF) + (v & 0x0FFF)) > 0x0FFF
	c.SetHL(uint16(r))
	c.setZNHC(c.F&flagZ != 0, false, h, r > 0xFFFF)
}

// addSPSigned computes SP + e8 for ADD SP,e8 and LD HL,SP+e8. H and C
// are taken from the unsigned add of SP's low byte and the raw immediate.
func addSPSigned(sp uint16, e byte) (res uint16, h, cy bool) {
	res = uint16(int32(sp) + int32(int8(e)))
	_, _, _, h, cy = add8(byte(sp), e)
	return
}

func (c *CPU) daa() {
	a := int(c.A)
	carry := c.F&flagC != 0
	half := c.F&flagH != 0
	if c.F&flagN == 0 {
		if half || a&0x0F > 0x09 {
			a += 0x06
		}
		if carry || a > 0x9F {
			a += 0x60
			carry = true
		}
	} else {
		if half {
			a -= 0x06
		}
		if carry {
			a -= 0x60
		}
	}
	c.A = byte(a)
	c.setZNHC(c.A == 0, c.F&flagN != 0, false, carry)
}

// Rotates and shifts return the result and the bit shifted out.
func rlc(v byte) (byte, bool) {
	out := v >> 7
	return v<<1 | out, out == 1
}

func rrc(v byte) (byte, bool) {
	out := v & 1
	return v>>1 | out<<7, out == 1
}

func rl(v, cin byte) (byte, bool) {
	return v<<1 | cin, v&0x80 != 0
}

func rr(v, cin byte) (byte, bool) {
	return v>>1 | cin<<7, v&1 != 0
}

func sla(v byte) (byte, bool) { return v << 1, v&0x80 != 0 }
func sra(v byte) (byte, bool) { return v>>1 | v&0x80, v&1 != 0 }
func srl(v byte) (byte, bool) { return v >> 1, v&1 != 0 }
func swap(v byte) (byte, bool) {
	return v<<4 | v>>4, false
}
