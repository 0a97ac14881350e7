package emu

import (
	"errors"
	"sort"

	"github.com/FabianRolfMatthiasNoll/gbemu/internal/cpu"
	"github.com/FabianRolfMatthiasNoll/gbemu/internal/ppu"
	"github.com/sirupsen/logrus"
)

// ErrBreakpoint is returned when execution reaches a breakpoint. The
// instruction at PC has not run; stepping again executes it.
var ErrBreakpoint = errors.New("emu: breakpoint")

// FrameTicks is the length of one video frame in T-cycles.
const FrameTicks = ppu.LinesPerFrame * ppu.DotsPerLine

// Tick advances the machine by one T-cycle:
//
//  1. HALT/STOP wake-up on a pending interrupt
//  2. at an instruction boundary, interrupt dispatch or one instruction
//  3. one PPU dot, VBlank/STAT latched into IF
//  4. one timer cycle, overflow latched into IF
//  5. busy-cycle accounting and the clock, skipped while halted or stopped
//
// An instruction's effects are applied at its first tick; the remaining
// ticks of its cost only advance the devices. Tick reports whether the PPU
// entered VBlank. Errors from the CPU are returned unchanged and stop the
// machine: every later Tick returns the same error without advancing until
// the machine is reset or another cartridge is loaded.
//
// While the CPU is halted or stopped the devices keep running, but the
// cost left of the HALT or STOP and the clock wait for the wake-up.
func (m *Machine) Tick() (bool, error) {
	if m.cpu == nil {
		return false, ErrNoCartridge
	}
	if m.fatal != nil {
		return false, m.fatal
	}
	c := m.cpu
	c.WakeIfPending()
	if m.busy == 0 && !c.Halted() && !c.Stopped() {
		if err := m.dispatch(); err != nil {
			if !errors.Is(err, ErrBreakpoint) {
				m.fatal = err
			}
			return false, err
		}
	}
	vblank := m.bus.Tick(1)
	if c.Halted() || c.Stopped() {
		return vblank, nil
	}
	if m.busy > 0 {
		m.busy--
	}
	m.clock++
	return vblank, nil
}

// dispatch runs one instruction boundary and loads the busy counter.
func (m *Machine) dispatch() error {
	c := m.cpu
	if len(m.breakpoints) > 0 && !m.resume {
		if _, ok := m.breakpoints[c.PC]; ok {
			m.resume = true
			return ErrBreakpoint
		}
	}
	m.resume = false

	c.HandleEIDelay()
	if c.ServiceInterrupt() {
		m.busy = cpu.InterruptCycles
		if m.cfg.Trace {
			m.log.WithField("vector", hex16(c.PC)).Trace("interrupt")
		}
		return nil
	}
	if m.cfg.Trace {
		m.trace()
	}
	n, err := c.ExecuteNext()
	if err != nil {
		return err
	}
	m.busy = n
	c.HandleEIDelay()
	return nil
}

func (m *Machine) trace() {
	if !m.log.IsLevelEnabled(logrus.TraceLevel) {
		return
	}
	c := m.cpu
	op := m.bus.Read(c.PC)
	text := cpu.Mnemonic(op, false)
	if op == 0xCB {
		text = cpu.Mnemonic(m.bus.Read(c.PC+1), true)
	}
	m.log.WithFields(logrus.Fields{
		"pc": hex16(c.PC),
		"af": hex16(c.AF()),
		"bc": hex16(c.BC()),
		"de": hex16(c.DE()),
		"hl": hex16(c.HL()),
		"sp": hex16(c.SP),
	}).Trace(text)
}

// StepFrame runs until the PPU enters VBlank, or for one frame's worth of
// ticks while the LCD is off, and then refreshes the RGBA framebuffer.
// A breakpoint or CPU error stops it early; calling it again continues the
// same frame.
func (m *Machine) StepFrame() error {
	for {
		vblank, err := m.Tick()
		if err != nil {
			return err
		}
		m.frameTicks++
		if vblank || m.frameTicks >= FrameTicks {
			m.frameTicks = 0
			m.updateFramebuffer()
			return nil
		}
	}
}

// StepInstruction runs ticks until the current instruction or interrupt
// dispatch has used up its cycles, ignoring a breakpoint at PC. It returns
// the ticks consumed. While the CPU is halted or stopped it runs a single
// tick.
func (m *Machine) StepInstruction() (int, error) {
	m.resume = true
	n := 0
	for {
		_, err := m.Tick()
		if err != nil {
			return n, err
		}
		n++
		if m.busy == 0 || m.cpu.Halted() || m.cpu.Stopped() {
			return n, nil
		}
	}
}

// AddBreakpoint stops execution before the instruction at pc.
func (m *Machine) AddBreakpoint(pc uint16) { m.breakpoints[pc] = struct{}{} }

// RemoveBreakpoint deletes the breakpoint at pc, if any.
func (m *Machine) RemoveBreakpoint(pc uint16) { delete(m.breakpoints, pc) }

// ClearBreakpoints deletes every breakpoint.
func (m *Machine) ClearBreakpoints() { clear(m.breakpoints) }

// Breakpoints returns the breakpoint addresses in ascending order.
func (m *Machine) Breakpoints() []uint16 {
	out := make([]uint16, 0, len(m.breakpoints))
	for pc := range m.breakpoints {
		out = append(out, pc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
