package cpu

// Memory is the address space the CPU executes against. Interrupt enable
// and pending flags are reached through it at 0xFFFF and 0xFF0F.
type Memory interface {
	Read(addr uint16) byte
	Write(addr uint16, value byte)
}

// CPU implements the SM83 core: registers, table-driven dispatch and the
// interrupt controller.
type CPU struct {
	// 8-bit registers
	A, F byte
	B, C byte
	D, E byte
	H, L byte

	SP uint16
	PC uint16

	IME     bool
	halted  bool
	stopped bool
	haltBug bool
	// EI enables IME after the following instruction. The counter is
	// decremented at every instruction boundary, before and after dispatch.
	eiDelay int

	bus Memory
}

// New creates a CPU with all registers cleared.
func New(b Memory) *CPU {
	return &CPU{bus: b}
}

// SetPC allows tests or a boot stub to set the program counter.
func (c *CPU) SetPC(pc uint16) { c.PC = pc }

// Bus exposes the underlying memory for tests/tools.
func (c *CPU) Bus() Memory { return c.bus }

// Halted reports whether HALT is waiting for an interrupt.
func (c *CPU) Halted() bool { return c.halted }

// Stopped reports whether STOP is waiting for a joypad event.
func (c *CPU) Stopped() bool { return c.stopped }

// ResetNoBoot sets registers to typical DMG post-boot state.
// Useful when running without a boot ROM.
func (c *CPU) ResetNoBoot() {
	c.A, c.F = 0x01, 0xB0
	c.B, c.C = 0x00, 0x13
	c.D, c.E = 0x00, 0xD8
	c.H, c.L = 0x01, 0x4D
	c.SP = 0xFFFE
	c.PC = 0x0100
	c.IME = false
	c.halted = false
	c.stopped = false
	c.haltBug = false
	c.eiDelay = 0
}

func (c *CPU) read8(addr uint16) byte     { return c.bus.Read(addr) }
func (c *CPU) write8(addr uint16, v byte) { c.bus.Write(addr, v) }

func (c *CPU) fetch8() byte {
	b := c.read8(c.PC)
	if c.haltBug {
		// PC fails to advance once after the HALT bug triggers
		c.haltBug = false
		return b
	}
	c.PC++
	return b
}

func (c *CPU) fetch16() uint16 {
	lo := uint16(c.fetch8())
	hi := uint16(c.fetch8())
	return lo | (hi << 8)
}

func (c *CPU) read16(addr uint16) uint16 {
	lo := uint16(c.read8(addr))
	hi := uint16(c.read8(addr + 1))
	return lo | (hi << 8)
}

func (c *CPU) write16(addr uint16, v uint16) {
	c.write8(addr, byte(v&0x00FF))
	c.write8(addr+1, byte(v>>8))
}

func (c *CPU) push16(v uint16) {
	c.SP -= 2
	c.write16(c.SP, v)
}

func (c *CPU) pop16() uint16 {
	v := c.read16(c.SP)
	c.SP += 2
	return v
}

// HandleEIDelay advances the EI latch by one instruction boundary.
func (c *CPU) HandleEIDelay() {
	if c.eiDelay == 0 {
		return
	}
	c.eiDelay--
	if c.eiDelay == 0 {
		c.IME = true
	}
}

// armEI schedules IME for after the instruction following the current one.
// Three boundaries remain: after this dispatch, before and after the next.
func (c *CPU) armEI() { c.eiDelay = 3 }

// ExecuteNext fetches one opcode at PC and runs it, returning its cost in
// T-cycles. A 0xCB prefix reads a second byte and is costed from the CB table.
func (c *CPU) ExecuteNext() (int, error) {
	pc := c.PC
	op := c.fetch8()
	if op == 0xCB {
		cb := c.fetch8()
		cbTable[cb](c)
		return CBCycles[cb], nil
	}
	fn := primaryTable[op]
	if fn == nil {
		return 0, &UndefinedOpcodeError{Opcode: op, PC: pc}
	}
	if fn(c) {
		return TakenCycles[op], nil
	}
	return Cycles[op], nil
}

// Step runs one instruction boundary: HALT/STOP wake-up, interrupt
// dispatch or one instruction. It returns the T-cycles consumed.
func (c *CPU) Step() (int, error) {
	c.WakeIfPending()
	if c.halted || c.stopped {
		return 4, nil
	}
	c.HandleEIDelay()
	if c.ServiceInterrupt() {
		return InterruptCycles, nil
	}
	cycles, err := c.ExecuteNext()
	if err != nil {
		return 0, err
	}
	c.HandleEIDelay()
	return cycles, nil
}
