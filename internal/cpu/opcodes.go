package cpu

// instruction executes one primary opcode after its fetch. Conditional
// control transfers return true when the branch was taken.
type instruction func(c *CPU) (taken bool)

// primaryTable is indexed by opcode. A nil slot marks an undefined opcode;
// 0xCB is also nil here because ExecuteNext routes it to cbTable.
var primaryTable [256]instruction

func init() {
	t := &primaryTable

	// LD r,r' and LD r,(HL) / LD (HL),r
	for op := 0x40; op < 0x80; op++ {
		dst, src := byte(op>>3)&7, byte(op)&7
		t[op] = func(c *CPU) bool {
			c.setReg8(dst, c.reg8(src))
			return false
		}
	}
	t[0x76] = halt

	// ALU A,r
	for op := 0x80; op < 0xC0; op++ {
		sel, src := byte(op>>3)&7, byte(op)&7
		t[op] = func(c *CPU) bool {
			c.alu(sel, c.reg8(src))
			return false
		}
	}

	for r := byte(0); r < 8; r++ {
		// Per-iteration copy for the closures below (pre-Go 1.22 loop semantics).
		r := r
		t[0x04|r<<3] = func(c *CPU) bool { // INC r
			c.setReg8(r, c.inc8(c.reg8(r)))
			return false
		}
		t[0x05|r<<3] = func(c *CPU) bool { // DEC r
			c.setReg8(r, c.dec8(c.reg8(r)))
			return false
		}
		t[0x06|r<<3] = func(c *CPU) bool { // LD r,d8
			c.setReg8(r, c.fetch8())
			return false
		}
		t[0xC6|r<<3] = func(c *CPU) bool { // ALU A,d8
			c.alu(r, c.fetch8())
			return false
		}
		vec := uint16(r) * 8
		t[0xC7|r<<3] = func(c *CPU) bool { // RST
			c.push16(c.PC)
			c.PC = vec
			return false
		}
	}

	for p := byte(0); p < 4; p++ {
		// Per-iteration copy for the closures below (pre-Go 1.22 loop semantics).
		p := p
		t[0x01|p<<4] = func(c *CPU) bool { // LD rr,d16
			c.setReg16(p, c.fetch16())
			return false
		}
		t[0x03|p<<4] = func(c *CPU) bool { // INC rr
			c.setReg16(p, c.reg16(p)+1)
			return false
		}
		t[0x0B|p<<4] = func(c *CPU) bool { // DEC rr
			c.setReg16(p, c.reg16(p)-1)
			return false
		}
		t[0x09|p<<4] = func(c *CPU) bool { // ADD HL,rr
			c.addHL(c.reg16(p))
			return false
		}
		t[0xC1|p<<4] = func(c *CPU) bool { // POP
			c.setStackReg(p, c.pop16())
			return false
		}
		t[0xC5|p<<4] = func(c *CPU) bool { // PUSH
			c.push16(c.stackReg(p))
			return false
		}
	}

	for cc := byte(0); cc < 4; cc++ {
		// Per-iteration copy for the closures below (pre-Go 1.22 loop semantics).
		cc := cc
		t[0x20|cc<<3] = func(c *CPU) bool { // JR cc,e8
			e := int8(c.fetch8())
			if !c.condition(cc) {
				return false
			}
			c.PC = uint16(int32(c.PC) + int32(e))
			return true
		}
		t[0xC2|cc<<3] = func(c *CPU) bool { // JP cc,a16
			addr := c.fetch16()
			if !c.condition(cc) {
				return false
			}
			c.PC = addr
			return true
		}
		t[0xC4|cc<<3] = func(c *CPU) bool { // CALL cc,a16
			addr := c.fetch16()
			if !c.condition(cc) {
				return false
			}
			c.push16(c.PC)
			c.PC = addr
			return true
		}
		t[0xC0|cc<<3] = func(c *CPU) bool { // RET cc
			if !c.condition(cc) {
				return false
			}
			c.PC = c.pop16()
			return true
		}
	}

	t[0x00] = func(c *CPU) bool { return false } // NOP
	t[0x10] = stop

	// Indirect accumulator loads
	t[0x02] = func(c *CPU) bool { c.write8(c.BC(), c.A); return false }
	t[0x12] = func(c *CPU) bool { c.write8(c.DE(), c.A); return false }
	t[0x0A] = func(c *CPU) bool { c.A = c.read8(c.BC()); return false }
	t[0x1A] = func(c *CPU) bool { c.A = c.read8(c.DE()); return false }
	t[0x22] = func(c *CPU) bool { // LD (HL+),A
		hl := c.HL()
		c.write8(hl, c.A)
		c.SetHL(hl + 1)
		return false
	}
	t[0x2A] = func(c *CPU) bool { // LD A,(HL+)
		hl := c.HL()
		c.A = c.read8(hl)
		c.SetHL(hl + 1)
		return false
	}
	t[0x32] = func(c *CPU) bool { // LD (HL-),A
		hl := c.HL()
		c.write8(hl, c.A)
		c.SetHL(hl - 1)
		return false
	}
	t[0x3A] = func(c *CPU) bool { // LD A,(HL-)
		hl := c.HL()
		c.A = c.read8(hl)
		c.SetHL(hl - 1)
		return false
	}
	t[0x08] = func(c *CPU) bool { // LD (a16),SP
		c.write16(c.fetch16(), c.SP)
		return false
	}
	t[0xEA] = func(c *CPU) bool { c.write8(c.fetch16(), c.A); return false }
	t[0xFA] = func(c *CPU) bool { c.A = c.read8(c.fetch16()); return false }

	// High-page loads at 0xFF00+n
	t[0xE0] = func(c *CPU) bool { c.write8(0xFF00+uint16(c.fetch8()), c.A); return false }
	t[0xF0] = func(c *CPU) bool { c.A = c.read8(0xFF00 + uint16(c.fetch8())); return false }
	t[0xE2] = func(c *CPU) bool { c.write8(0xFF00+uint16(c.C), c.A); return false }
	t[0xF2] = func(c *CPU) bool { c.A = c.read8(0xFF00 + uint16(c.C)); return false }

	// Accumulator rotates always clear Z
	t[0x07] = func(c *CPU) bool {
		var cy bool
		c.A, cy = rlc(c.A)
		c.setZNHC(false, false, false, cy)
		return false
	}
	t[0x0F] = func(c *CPU) bool {
		var cy bool
		c.A, cy = rrc(c.A)
		c.setZNHC(false, false, false, cy)
		return false
	}
	t[0x17] = func(c *CPU) bool {
		var cy bool
		c.A, cy = rl(c.A, c.carry())
		c.setZNHC(false, false, false, cy)
		return false
	}
	t[0x1F] = func(c *CPU) bool {
		var cy bool
		c.A, cy = rr(c.A, c.carry())
		c.setZNHC(false, false, false, cy)
		return false
	}

	t[0x27] = func(c *CPU) bool { c.daa(); return false }
	t[0x2F] = func(c *CPU) bool { // CPL
		c.A = ^c.A
		c.F |= flagN | flagH
		return false
	}
	t[0x37] = func(c *CPU) bool { // SCF
		c.setZNHC(c.F&flagZ != 0, false, false, true)
		return false
	}
	t[0x3F] = func(c *CPU) bool { // CCF
		c.setZNHC(c.F&flagZ != 0, false, false, c.F&flagC == 0)
		return false
	}

	t[0x18] = func(c *CPU) bool { // JR e8
		e := int8(c.fetch8())
		c.PC = uint16(int32(c.PC) + int32(e))
		return false
	}
	t[0xC3] = func(c *CPU) bool { c.PC = c.fetch16(); return false }
	t[0xE9] = func(c *CPU) bool { c.PC = c.HL(); return false }
	t[0xCD] = func(c *CPU) bool { // CALL a16
		addr := c.fetch16()
		c.push16(c.PC)
		c.PC = addr
		return false
	}
	t[0xC9] = func(c *CPU) bool { c.PC = c.pop16(); return false }
	t[0xD9] = func(c *CPU) bool { // RETI
		c.PC = c.pop16()
		c.armEI()
		return false
	}

	// Stack pointer arithmetic
	t[0xE8] = func(c *CPU) bool { // ADD SP,e8
		res, h, cy := addSPSigned(c.SP, c.fetch8())
		c.SP = res
		c.setZNHC(false, false, h, cy)
		return false
	}
	t[0xF8] = func(c *CPU) bool { // LD HL,SP+e8
		res, h, cy := addSPSigned(c.SP, c.fetch8())
		c.SetHL(res)
		c.setZNHC(false, false, h, cy)
		return false
	}
	t[0xF9] = func(c *CPU) bool { c.SP = c.HL(); return false }

	t[0xF3] = func(c *CPU) bool { // DI
		c.IME = false
		c.eiDelay = 0
		return false
	}
	t[0xFB] = func(c *CPU) bool { c.armEI(); return false } // EI
}

func halt(c *CPU) bool {
	if !c.IME && c.pendingInterrupts() != 0 {
		// HALT bug: no halt, and the next opcode byte is read twice
		c.haltBug = true
		return false
	}
	c.halted = true
	return false
}

func stop(c *CPU) bool {
	c.fetch8() // padding byte
	c.stopped = true
	return false
}
