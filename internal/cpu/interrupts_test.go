package cpu

import (
	"errors"
	"testing"
)

func TestCPU_InterruptServiceAndHALT(t *testing.T) {
	c, b := newCPU(make([]byte, 0x8000))
	c.SetPC(0x0100)
	c.IME = true
	b.Write(0xFFFF, 0x01)
	b.Write(0xFF0F, 0x01)

	if cycles := step(t, c); cycles != 20 {
		t.Fatalf("expected 20 cycles for interrupt service, got %d", cycles)
	}
	if c.PC != 0x0040 {
		t.Fatalf("expected PC at 0x0040 vector, got %04X", c.PC)
	}
	if c.IME {
		t.Fatal("IME should be cleared after interrupt service")
	}
	if ret := c.read16(c.SP); ret != 0x0100 {
		t.Fatalf("pushed return address %04X want 0100", ret)
	}
	if b.Read(0xFF0F)&0x1F != 0 {
		t.Fatalf("IF bit should be acknowledged, IF=%02X", b.Read(0xFF0F))
	}
}

func TestCPU_InterruptPriority(t *testing.T) {
	c, b := newCPU(make([]byte, 0x8000))
	c.SetPC(0x0100)
	c.IME = true
	b.Write(0xFFFF, 0x05) // VBlank | Timer
	b.Write(0xFF0F, 0x05)

	if !c.ServiceInterrupt() {
		t.Fatal("expected an interrupt to be serviced")
	}
	if c.PC != Vector(IntVBlank) {
		t.Fatalf("first vector got %04X want %04X", c.PC, Vector(IntVBlank))
	}
	if c.IME {
		t.Fatal("IME should be false right after service")
	}
	if got := b.Read(0xFF0F) & 0x1F; got != 0x04 {
		t.Fatalf("Timer should stay pending, IF=%02X", got)
	}
	if c.ServiceInterrupt() {
		t.Fatal("no service expected while IME=0")
	}
	c.IME = true
	if !c.ServiceInterrupt() || c.PC != 0x0050 {
		t.Fatalf("timer service PC=%04X want 0050", c.PC)
	}
}

func TestCPU_InterruptRequiresEnable(t *testing.T) {
	c, b := newCPU(make([]byte, 0x8000))
	c.IME = true
	b.Write(0xFFFF, 0x00)
	b.Write(0xFF0F, 0x1F)
	if c.ServiceInterrupt() {
		t.Fatal("IE=0 must mask every source")
	}
	b.Write(0xFFFF, 0x10)
	if !c.ServiceInterrupt() || c.PC != 0x0060 {
		t.Fatalf("joypad vector got %04X want 0060", c.PC)
	}
}

func TestCPU_EI_DelayedEnable(t *testing.T) {
	rom := make([]byte, 0x8000)
	rom[0x0000] = 0xFB // EI
	rom[0x0001] = 0x00 // NOP
	rom[0x0002] = 0x00 // NOP
	c, b := newCPU(rom)
	b.Write(0xFFFF, 0x01)
	b.Write(0xFF0F, 0x01)

	step(t, c)
	if c.IME {
		t.Fatalf("IME should not be enabled immediately after EI")
	}
	// the instruction after EI still runs with interrupts masked
	if cyc := step(t, c); cyc != 4 || c.PC != 0x0002 {
		t.Fatalf("NOP after EI cyc=%d PC=%04X", cyc, c.PC)
	}
	if !c.IME {
		t.Fatalf("IME should be set once the instruction after EI completes")
	}
	cyc := step(t, c)
	if c.PC != 0x0040 || cyc != 20 {
		t.Fatalf("interrupt not serviced after EI delay; PC=%04X cyc=%d", c.PC, cyc)
	}
}

func TestCPU_EI_ThenDI_CancelsEnable(t *testing.T) {
	c, _ := newCPUWithROM([]byte{0xFB, 0xF3, 0x00}) // EI; DI; NOP
	step(t, c)
	step(t, c)
	step(t, c)
	if c.IME {
		t.Fatal("DI directly after EI must keep IME clear")
	}
}

func TestCPU_RETI_EnablesIME_Delayed(t *testing.T) {
	rom := make([]byte, 0x8000)
	rom[0x0040] = 0xD9 // RETI
	c, b := newCPU(rom)
	c.SetPC(0x0100)
	c.IME = true
	b.Write(0xFFFF, 0x01)
	b.Write(0xFF0F, 0x01)

	cyc := step(t, c)
	if cyc != 20 || c.PC != 0x0040 {
		t.Fatalf("Interrupt service failed: cyc=%d PC=%04X", cyc, c.PC)
	}
	if c.IME {
		t.Fatalf("IME should be cleared during ISR, got IME=true")
	}
	cyc = step(t, c)
	if cyc != 16 || c.PC != 0x0100 {
		t.Fatalf("RETI cyc=%d PC=%04X want 16 0100", cyc, c.PC)
	}
	if c.IME {
		t.Fatalf("RETI uses the EI latch; IME must still be clear")
	}
	step(t, c)
	if !c.IME {
		t.Fatalf("IME should be set after the instruction following RETI")
	}
}

func TestCPU_HALT_WaitsAndWakes(t *testing.T) {
	c, b := newCPUWithROM([]byte{0x76, 0x3C}) // HALT; INC A
	b.Write(0xFFFF, 0x04)
	step(t, c)
	if !c.Halted() {
		t.Fatal("HALT with nothing pending should halt")
	}
	for i := 0; i < 3; i++ {
		if cyc := step(t, c); cyc != 4 || c.PC != 0x0001 {
			t.Fatalf("halted step cyc=%d PC=%04X", cyc, c.PC)
		}
	}
	// wake without IME: execution resumes after HALT, no service
	b.Write(0xFF0F, 0x04)
	step(t, c)
	if c.Halted() || c.A != 0x01 || c.PC != 0x0002 {
		t.Fatalf("wake halted=%v A=%02X PC=%04X", c.Halted(), c.A, c.PC)
	}
	if b.Read(0xFF0F)&0x04 == 0 {
		t.Fatal("IF must stay pending when IME=0")
	}
}

func TestCPU_HALT_WakeWithIMEServices(t *testing.T) {
	c, b := newCPUWithROM([]byte{0x76, 0x00})
	c.IME = true
	b.Write(0xFFFF, 0x01)
	step(t, c)
	if !c.Halted() {
		t.Fatal("expected halt")
	}
	b.Write(0xFF0F, 0x01)
	if cyc := step(t, c); cyc != 20 || c.PC != 0x0040 {
		t.Fatalf("halt wake service cyc=%d PC=%04X", cyc, c.PC)
	}
	if ret := c.read16(c.SP); ret != 0x0001 {
		t.Fatalf("return address %04X want 0001", ret)
	}
}

func TestCPU_HALT_Bug_DoubleFetch(t *testing.T) {
	// HALT; INC A; NOP. With IME=0 and a pending interrupt the byte after
	// HALT is read twice, so INC A runs two times.
	c, b := newCPUWithROM([]byte{0x76, 0x3C, 0x00})
	b.Write(0xFFFF, 0x01)
	b.Write(0xFF0F, 0x01)

	cyc := step(t, c)
	if cyc != 4 || c.Halted() {
		t.Fatalf("HALT bug: step after HALT got cyc=%d halted=%v", cyc, c.Halted())
	}
	step(t, c)
	if c.PC != 0x0001 || c.A != 0x01 {
		t.Fatalf("HALT bug first fetch PC=%04X A=%02X", c.PC, c.A)
	}
	step(t, c)
	if c.PC != 0x0002 || c.A != 0x02 {
		t.Fatalf("HALT bug second fetch PC=%04X A=%02X", c.PC, c.A)
	}
}

func TestCPU_STOP_ConsumesPaddingAndWaitsForJoypad(t *testing.T) {
	c, b := newCPUWithROM([]byte{0x10, 0x00, 0x00}) // STOP 00; NOP
	if cycles := step(t, c); cycles != 4 {
		t.Fatalf("STOP cycles got %d want 4", cycles)
	}
	if c.PC != 0x0002 || !c.Stopped() {
		t.Fatalf("PC after STOP got %04X stopped=%v", c.PC, c.Stopped())
	}
	step(t, c)
	if c.PC != 0x0002 {
		t.Fatalf("stopped CPU advanced to %04X", c.PC)
	}
	b.Write(0xFF0F, 0x10)
	step(t, c)
	if c.Stopped() || c.PC != 0x0003 {
		t.Fatalf("joypad wake stopped=%v PC=%04X", c.Stopped(), c.PC)
	}
}

func TestCPU_UndefinedOpcodes(t *testing.T) {
	for _, op := range UndefinedOpcodes {
		c, _ := newCPUWithROM([]byte{0x00, op})
		step(t, c)
		_, err := c.Step()
		if err == nil {
			t.Fatalf("opcode %02X: expected error", op)
		}
		if !errors.Is(err, ErrUndefinedOpcode) {
			t.Fatalf("opcode %02X: error %v is not ErrUndefinedOpcode", op, err)
		}
		var ue *UndefinedOpcodeError
		if !errors.As(err, &ue) || ue.Opcode != op || ue.PC != 0x0001 {
			t.Fatalf("opcode %02X: got %+v", op, ue)
		}
	}
}
