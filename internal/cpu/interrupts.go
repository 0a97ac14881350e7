package cpu

// Interrupt sources in priority order, as bit positions in IE/IF.
const (
	IntVBlank = iota
	IntSTAT
	IntTimer
	IntSerial
	IntJoypad
)

const (
	regIF = 0xFF0F
	regIE = 0xFFFF
)

// Vector returns the service address for an interrupt bit.
func Vector(bit int) uint16 { return 0x40 + uint16(bit)*8 }

func (c *CPU) pendingInterrupts() byte {
	return c.read8(regIE) & c.read8(regIF) & 0x1F
}

// WakeIfPending leaves HALT when any enabled interrupt is pending,
// regardless of IME, and leaves STOP on a joypad request.
func (c *CPU) WakeIfPending() {
	if c.halted && c.pendingInterrupts() != 0 {
		c.halted = false
	}
	if c.stopped && c.read8(regIF)&(1<<IntJoypad) != 0 {
		c.stopped = false
	}
}

// ServiceInterrupt dispatches the highest-priority interrupt that is both
// enabled and pending, if IME is set. Only one source is serviced per call;
// the others stay latched in IF.
func (c *CPU) ServiceInterrupt() bool {
	if !c.IME {
		return false
	}
	pending := c.pendingInterrupts()
	if pending == 0 {
		return false
	}
	// priority order VBlank(0), LCD STAT(1), Timer(2), Serial(3), Joypad(4)
	bit := 0
	for ; bit < 5; bit++ {
		if pending&(1<<bit) != 0 {
			break
		}
	}
	ifReg := c.read8(regIF) & 0x1F
	c.write8(regIF, ifReg&^(1<<bit))
	c.halted = false
	c.IME = false
	c.eiDelay = 0
	c.push16(c.PC)
	c.PC = Vector(bit)
	return true
}
