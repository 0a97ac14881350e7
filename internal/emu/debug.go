package emu

import (
	"fmt"
	"strings"

	"github.com/FabianRolfMatthiasNoll/gbemu/internal/cpu"
)

func hex16(v uint16) string { return fmt.Sprintf("%04X", v) }

// DumpRegisters formats the CPU registers with a few LCD registers, as
// printed when a breakpoint is hit.
func (m *Machine) DumpRegisters() string {
	if m.cpu == nil {
		return "no cartridge"
	}
	c := m.cpu
	p := m.bus.PPU()
	return fmt.Sprintf("AF=%04X BC=%04X DE=%04X HL=%04X SP=%04X PC=%04X Z=%t IME=%t HALT=%t SCY=%02X LY=%02X",
		c.AF(), c.BC(), c.DE(), c.HL(), c.SP, c.PC, c.Flag(cpu.FlagZ), c.IME, c.Halted(), p.SCY(), p.LY())
}

var ioNames = []struct {
	addr uint16
	name string
}{
	{0xFF00, "JOYP"}, {0xFF01, "SB"}, {0xFF02, "SC"},
	{0xFF04, "DIV"}, {0xFF05, "TIMA"}, {0xFF06, "TMA"}, {0xFF07, "TAC"},
	{0xFF0F, "IF"},
	{0xFF40, "LCDC"}, {0xFF41, "STAT"}, {0xFF42, "SCY"}, {0xFF43, "SCX"},
	{0xFF44, "LY"}, {0xFF45, "LYC"}, {0xFF46, "DMA"}, {0xFF47, "BGP"},
	{0xFF48, "OBP0"}, {0xFF49, "OBP1"}, {0xFF4A, "WY"}, {0xFF4B, "WX"},
	{0xFFFF, "IE"},
}

// DumpIO lists the IO registers by name, four per line.
func (m *Machine) DumpIO() string {
	if m.bus == nil {
		return "no cartridge"
	}
	var sb strings.Builder
	for i, r := range ioNames {
		fmt.Fprintf(&sb, "%-4s(%04X)=%02X", r.name, r.addr, m.bus.Read(r.addr))
		if i%4 == 3 || i == len(ioNames)-1 {
			sb.WriteByte('\n')
		} else {
			sb.WriteString("  ")
		}
	}
	return sb.String()
}

// Disassemble returns n instructions starting at addr, one per line.
func (m *Machine) Disassemble(addr uint16, n int) string {
	if m.bus == nil {
		return "no cartridge"
	}
	var sb strings.Builder
	for i := 0; i < n; i++ {
		op := m.bus.Read(addr)
		text := cpu.Mnemonic(op, false)
		size := cpu.InstructionLength(op)
		if op == 0xCB {
			text = cpu.Mnemonic(m.bus.Read(addr+1), true)
		}
		fmt.Fprintf(&sb, "%04X  ", addr)
		for j := 0; j < 3; j++ {
			if j < size {
				fmt.Fprintf(&sb, "%02X ", m.bus.Read(addr+uint16(j)))
			} else {
				sb.WriteString("   ")
			}
		}
		sb.WriteString(" " + text + "\n")
		addr += uint16(size)
	}
	return sb.String()
}
