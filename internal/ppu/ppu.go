package ppu

// Screen dimensions in pixels.
const (
	Width  = 160
	Height = 144
)

// Line timing in dots. A frame is LinesPerFrame*DotsPerLine dots.
const (
	DotsPerLine   = 456
	LinesPerFrame = 154
	oamScanDots   = 80
	transferDots  = 172
	vblankStartLY = 144
)

// Mode is the value of STAT bits 0-1.
type Mode byte

const (
	ModeHBlank Mode = iota
	ModeVBlank
	ModeOAMScan
	ModeTransfer
)

func (m Mode) String() string {
	switch m {
	case ModeHBlank:
		return "HBlank"
	case ModeVBlank:
		return "VBlank"
	case ModeOAMScan:
		return "OamScan"
	default:
		return "PixelTransfer"
	}
}

// STAT interrupt enable bits.
const (
	statHBlank = 1 << 3
	statVBlank = 1 << 4
	statOAM    = 1 << 5
	statLYC    = 1 << 6
)

// PPU models VRAM/OAM, the LCD registers, the mode state machine and a
// scanline renderer producing 2-bit shades.
type PPU struct {
	vram [0x2000]byte // 0x8000–0x9FFF
	oam  [0xA0]byte   // 0xFE00–0xFE9F

	lcdc byte // FF40
	stat byte // FF41 (mode bits 0-1, coincidence flag bit2, enables bits3-6)
	scy  byte // FF42
	scx  byte // FF43
	ly   byte // FF44
	lyc  byte // FF45
	bgp  byte // FF47
	obp0 byte // FF48
	obp1 byte // FF49
	wy   byte // FF4A
	wx   byte // FF4B

	dot int // dots within current line [0..455]

	// interrupt conditions raised since the last Step
	vblankReq bool
	statReq   bool

	// Per-scanline register snapshot captured when entering PixelTransfer
	lineRegs [LinesPerFrame]LineRegs

	// window rows drawn so far this frame; the next window line to draw
	winLineCounter byte

	frame [Width * Height]byte
}

func New() *PPU { return &PPU{} }

// LineRegs represents the PPU-visible registers relevant for rendering a scanline.
type LineRegs struct {
	LCDC    byte
	SCY     byte
	SCX     byte
	BGP     byte
	OBP0    byte
	OBP1    byte
	WY      byte
	WX      byte
	WinLine byte
}

// CPURead returns bytes for VRAM, OAM, and PPU IO registers. Returns 0xFF for others.
func (p *PPU) CPURead(addr uint16) byte {
	switch {
	case addr >= 0x8000 && addr <= 0x9FFF:
		// VRAM is inaccessible to CPU during mode 3
		if p.Mode() == ModeTransfer {
			return 0xFF
		}
		return p.vram[addr-0x8000]
	case addr >= 0xFE00 && addr <= 0xFE9F:
		if m := p.Mode(); m == ModeOAMScan || m == ModeTransfer {
			return 0xFF
		}
		return p.oam[addr-0xFE00]
	case addr == 0xFF40:
		return p.lcdc
	case addr == 0xFF41:
		// bit7 reads as 1; bit6..3 are enables; bit2 coincidence; bit1..0 mode
		return 0x80 | (p.stat & 0x7F)
	case addr == 0xFF42:
		return p.scy
	case addr == 0xFF43:
		return p.scx
	case addr == 0xFF44:
		return p.ly
	case addr == 0xFF45:
		return p.lyc
	case addr == 0xFF47:
		return p.bgp
	case addr == 0xFF48:
		return p.obp0
	case addr == 0xFF49:
		return p.obp1
	case addr == 0xFF4A:
		return p.wy
	case addr == 0xFF4B:
		return p.wx
	default:
		return 0xFF
	}
}

// CPUWrite handles writes to VRAM, OAM, and PPU IO regs. Others are ignored here.
func (p *PPU) CPUWrite(addr uint16, value byte) {
	switch {
	case addr >= 0x8000 && addr <= 0x9FFF:
		if p.Mode() == ModeTransfer {
			return
		}
		p.vram[addr-0x8000] = value
	case addr >= 0xFE00 && addr <= 0xFE9F:
		if m := p.Mode(); m == ModeOAMScan || m == ModeTransfer {
			return
		}
		p.oam[addr-0xFE00] = value
	case addr == 0xFF40:
		prev := p.lcdc
		p.lcdc = value
		if (p.lcdc&0x80) == 0 && (prev&0x80) != 0 {
			// Turning LCD off resets LY/mode
			p.ly = 0
			p.dot = 0
			p.setMode(ModeHBlank)
			p.updateLYC()
		} else if (p.lcdc&0x80) != 0 && (prev&0x80) == 0 {
			// Turning LCD on: start at LY=0, mode 2 (OAM)
			p.ly = 0
			p.dot = 0
			p.winLineCounter = 0
			p.setMode(ModeOAMScan)
			p.updateLYC()
		}
	case addr == 0xFF41:
		p.stat = (p.stat & 0x07) | (value & 0x78)
	case addr == 0xFF42:
		p.scy = value
	case addr == 0xFF43:
		p.scx = value
	case addr == 0xFF44:
		p.ly = 0
		p.dot = 0
		p.winLineCounter = 0
		p.updateLYC()
		if p.enabled() {
			p.setMode(ModeOAMScan)
		}
	case addr == 0xFF45:
		p.lyc = value
		p.updateLYC()
	case addr == 0xFF47:
		p.bgp = value
	case addr == 0xFF48:
		p.obp0 = value
	case addr == 0xFF49:
		p.obp1 = value
	case addr == 0xFF4A:
		p.wy = value
	case addr == 0xFF4B:
		p.wx = value
	}
}

// WriteOAM stores a byte in OAM regardless of mode; used by DMA.
func (p *PPU) WriteOAM(index int, value byte) {
	if index >= 0 && index < len(p.oam) {
		p.oam[index] = value
	}
}

func (p *PPU) enabled() bool { return p.lcdc&0x80 != 0 }

// Mode returns the current STAT mode.
func (p *PPU) Mode() Mode { return Mode(p.stat & 0x03) }

// LY returns the current scanline.
func (p *PPU) LY() byte { return p.ly }

// Step advances the PPU by one dot and reports whether a VBlank and/or an
// LCD STAT interrupt should be requested.
func (p *PPU) Step() (vblank, stat bool) {
	if p.enabled() {
		p.advance()
	}
	vblank, stat = p.vblankReq, p.statReq
	p.vblankReq, p.statReq = false, false
	return vblank, stat
}

func (p *PPU) advance() {
	p.dot++
	if p.ly < vblankStartLY {
		switch {
		case p.dot < oamScanDots:
			p.setMode(ModeOAMScan)
		case p.dot < oamScanDots+transferDots:
			p.setMode(ModeTransfer)
		default:
			if p.Mode() == ModeTransfer {
				p.renderLine()
			}
			p.setMode(ModeHBlank)
		}
	}
	if p.dot < DotsPerLine {
		return
	}

	p.dot = 0
	p.ly++
	if p.ly == vblankStartLY {
		p.vblankReq = true
	} else if p.ly >= LinesPerFrame {
		p.ly = 0
		p.winLineCounter = 0
	}
	p.updateLYC()
	if p.ly >= vblankStartLY {
		p.setMode(ModeVBlank)
		return
	}
	p.setMode(ModeOAMScan)
}

// setMode updates STAT and raises the mode's STAT source on entry.
func (p *PPU) setMode(mode Mode) {
	if p.Mode() == mode {
		return
	}
	p.stat = (p.stat &^ 0x03) | byte(mode)
	switch mode {
	case ModeHBlank:
		if p.stat&statHBlank != 0 {
			p.statReq = true
		}
	case ModeVBlank:
		if p.stat&statVBlank != 0 {
			p.statReq = true
		}
	case ModeOAMScan:
		if p.stat&statOAM != 0 {
			p.statReq = true
		}
	case ModeTransfer:
		p.captureLineRegs()
	}
}

func (p *PPU) updateLYC() {
	if p.ly == p.lyc {
		p.stat |= 1 << 2
		if p.stat&statLYC != 0 {
			p.statReq = true
		}
	} else {
		p.stat &^= 1 << 2
	}
}

func (p *PPU) captureLineRegs() {
	if p.ly < vblankStartLY {
		p.lineRegs[p.ly] = LineRegs{
			LCDC:    p.lcdc,
			SCY:     p.scy,
			SCX:     p.scx,
			BGP:     p.bgp,
			OBP0:    p.obp0,
			OBP1:    p.obp1,
			WY:      p.wy,
			WX:      p.wx,
			WinLine: p.winLineCounter,
		}
	}
}

// LineRegs returns the captured register snapshot for a given scanline (0..153).
func (p *PPU) LineRegs(y int) LineRegs {
	if y < 0 || y >= len(p.lineRegs) {
		return LineRegs{}
	}
	return p.lineRegs[y]
}

// Frame returns the shade (0 lightest .. 3 darkest) of every pixel, row-major.
// The slice aliases the PPU buffer and is overwritten as lines are drawn.
func (p *PPU) Frame() []byte { return p.frame[:] }

// RawVRAM returns VRAM bytes without CPU access restrictions; for renderer use only.
func (p *PPU) RawVRAM(addr uint16) byte {
	if addr >= 0x8000 && addr <= 0x9FFF {
		return p.vram[addr-0x8000]
	}
	return 0xFF
}

// RawOAM returns OAM bytes without CPU access restrictions; for renderer use only.
func (p *PPU) RawOAM(addr uint16) byte {
	if addr >= 0xFE00 && addr <= 0xFE9F {
		return p.oam[addr-0xFE00]
	}
	return 0xFF
}

func (p *PPU) LCDC() byte { return p.lcdc }
func (p *PPU) SCY() byte  { return p.scy }
func (p *PPU) SCX() byte  { return p.scx }
func (p *PPU) BGP() byte  { return p.bgp }
