package emu

import (
	"github.com/FabianRolfMatthiasNoll/gbemu/internal/ppu"
	"github.com/cespare/xxhash"
)

// Framebuffer returns the last completed frame as RGBA, 160x144, row-major.
func (m *Machine) Framebuffer() []byte { return m.fb }

// FrameHash is a 64-bit xxHash of the RGBA framebuffer, used to compare
// frames across runs.
func (m *Machine) FrameHash() uint64 { return xxhash.Sum64(m.fb) }

// SetPalette selects one of Palettes for subsequent frames.
func (m *Machine) SetPalette(id int) {
	if id >= 0 && id < len(Palettes) {
		m.palette = id
		m.updateFramebuffer()
	}
}

// Palette returns the ID of the active palette.
func (m *Machine) Palette() int { return m.palette }

// updateFramebuffer converts the PPU shades to RGBA. Before a cartridge is
// loaded the screen shows shade 0.
func (m *Machine) updateFramebuffer() {
	colors := Palettes[m.palette].Colors
	var shades []byte
	if m.bus != nil {
		shades = m.bus.PPU().Frame()
	}
	for i := 0; i < ppu.Width*ppu.Height; i++ {
		var s byte
		if shades != nil {
			s = shades[i] & 0x03
		}
		c := colors[s]
		o := i * 4
		m.fb[o+0] = c.R
		m.fb[o+1] = c.G
		m.fb[o+2] = c.B
		m.fb[o+3] = c.A
	}
}
