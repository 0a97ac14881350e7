package bus

import (
	"io"

	"github.com/FabianRolfMatthiasNoll/gbemu/internal/cart"
	"github.com/FabianRolfMatthiasNoll/gbemu/internal/ppu"
	"github.com/FabianRolfMatthiasNoll/gbemu/internal/timer"
)

// Interrupt request bits in IF/IE.
const (
	IntVBlank = 1 << 0
	IntSTAT   = 1 << 1
	IntTimer  = 1 << 2
	IntSerial = 1 << 3
	IntJoypad = 1 << 4
)

// Joypad button bits for SetJoypadState. A set bit means pressed.
const (
	JoypRight = 1 << iota
	JoypLeft
	JoypUp
	JoypDown
	JoypA
	JoypB
	JoypSelectBtn
	JoypStart
)

const (
	regJOYP = 0xFF00
	regSB   = 0xFF01
	regSC   = 0xFF02
	regIF   = 0xFF0F
	regDMA  = 0xFF46
	regBOOT = 0xFF50
	regIE   = 0xFFFF
)

// Bus routes CPU addresses to the cartridge, RAM, the PPU, the timer and
// the IO registers it owns itself (joypad, serial, IF/IE, DMA, boot).
// Every address is defined; unmapped reads return 0xFF and unmapped
// writes are dropped.
type Bus struct {
	cart  cart.Cartridge
	ppu   *ppu.PPU
	timer *timer.Timer

	wram [0x2000]byte // C000–DFFF, echoed at E000–FDFF
	hram [0x7F]byte   // FF80–FFFE

	ie    byte
	iflag byte

	joypSelect byte // bits 4-5 as last written
	joypState  byte // pressed buttons, Joyp* bits

	sb     byte
	sc     byte
	serial io.Writer

	dma byte // last value written to FF46

	boot        []byte
	bootEnabled bool
}

// New builds a bus around a ROM-only cartridge. The image is used in
// place; it may be shorter than 32 KiB or nil.
func New(rom []byte) *Bus {
	return NewWithCartridge(cart.NewROMOnly(rom))
}

// NewWithCartridge builds a bus for any cartridge implementation.
func NewWithCartridge(c cart.Cartridge) *Bus {
	return &Bus{
		cart:       c,
		ppu:        ppu.New(),
		timer:      timer.New(),
		joypSelect: 0x30,
	}
}

// Cart returns the inserted cartridge.
func (b *Bus) Cart() cart.Cartridge { return b.cart }

// PPU returns the picture processor behind 8000–9FFF, FE00–FE9F and FF40–FF4B.
func (b *Bus) PPU() *ppu.PPU { return b.ppu }

// Timer returns the timer behind FF04–FF07.
func (b *Bus) Timer() *timer.Timer { return b.timer }

// SetBootROM maps the first 256 bytes of data over 0000–00FF until a
// nonzero write to FF50. Shorter data removes the overlay.
func (b *Bus) SetBootROM(data []byte) {
	if len(data) < 0x100 {
		b.boot, b.bootEnabled = nil, false
		return
	}
	b.boot = data[:0x100]
	b.bootEnabled = true
}

// BootEnabled reports whether the boot overlay is still mapped.
func (b *Bus) BootEnabled() bool { return b.bootEnabled }

// SetSerialWriter receives every byte shifted out through FF01/FF02.
func (b *Bus) SetSerialWriter(w io.Writer) { b.serial = w }

// SetJoypadState replaces the pressed-button mask. A newly pressed button
// requests the Joypad interrupt.
func (b *Bus) SetJoypadState(mask byte) {
	if mask&^b.joypState != 0 {
		b.iflag |= IntJoypad
	}
	b.joypState = mask
}

// RequestInterrupt sets bits in IF.
func (b *Bus) RequestInterrupt(bits byte) { b.iflag |= bits & 0x1F }

// Tick advances the PPU and then the timer by the given number of
// T-cycles, latching their interrupt requests into IF. It reports whether
// the PPU entered VBlank.
func (b *Bus) Tick(cycles int) (vblank bool) {
	for i := 0; i < cycles; i++ {
		vb, st := b.ppu.Step()
		if vb {
			b.iflag |= IntVBlank
			vblank = true
		}
		if st {
			b.iflag |= IntSTAT
		}
		if b.timer.Advance(1) {
			b.iflag |= IntTimer
		}
	}
	return vblank
}

func (b *Bus) Read(addr uint16) byte {
	switch {
	case addr < 0x0100 && b.bootEnabled:
		return b.boot[addr]
	case addr < 0x8000:
		return b.cart.Read(addr)
	case addr < 0xA000:
		return b.ppu.CPURead(addr)
	case addr < 0xC000:
		return b.cart.Read(addr)
	case addr < 0xE000:
		return b.wram[addr-0xC000]
	case addr < 0xFE00:
		return b.wram[addr-0xE000]
	case addr < 0xFEA0:
		return b.ppu.CPURead(addr)
	case addr < 0xFF00:
		return 0xFF
	case addr >= 0xFF80 && addr < 0xFFFF:
		return b.hram[addr-0xFF80]
	case addr == regIE:
		return b.ie
	default:
		return b.readIO(addr)
	}
}

func (b *Bus) readIO(addr uint16) byte {
	switch {
	case addr == regJOYP:
		return b.readJoypad()
	case addr == regSB:
		return b.sb
	case addr == regSC:
		return 0x7E | b.sc
	case addr >= timer.RegDIV && addr <= timer.RegTAC:
		return b.timer.Read(addr)
	case addr == regIF:
		return 0xE0 | b.iflag
	case addr == regDMA:
		return b.dma
	case addr >= 0xFF40 && addr <= 0xFF4B:
		return b.ppu.CPURead(addr)
	default:
		return 0xFF
	}
}

// readJoypad returns JOYP with a 0 in the low nibble for every pressed
// button of the selected groups.
func (b *Bus) readJoypad() byte {
	low := byte(0x0F)
	if b.joypSelect&0x10 == 0 {
		low &^= b.joypState & 0x0F
	}
	if b.joypSelect&0x20 == 0 {
		low &^= b.joypState >> 4
	}
	return 0xC0 | b.joypSelect | low
}

func (b *Bus) Write(addr uint16, value byte) {
	switch {
	case addr < 0x8000:
		b.cart.Write(addr, value)
	case addr < 0xA000:
		b.ppu.CPUWrite(addr, value)
	case addr < 0xC000:
		b.cart.Write(addr, value)
	case addr < 0xE000:
		b.wram[addr-0xC000] = value
	case addr < 0xFE00:
		b.wram[addr-0xE000] = value
	case addr < 0xFEA0:
		b.ppu.CPUWrite(addr, value)
	case addr < 0xFF00:
	case addr >= 0xFF80 && addr < 0xFFFF:
		b.hram[addr-0xFF80] = value
	case addr == regIE:
		b.ie = value
	default:
		b.writeIO(addr, value)
	}
}

func (b *Bus) writeIO(addr uint16, value byte) {
	switch {
	case addr == regJOYP:
		b.joypSelect = value & 0x30
	case addr == regSB:
		b.sb = value
	case addr == regSC:
		b.sc = value & 0x81
		if value&0x80 != 0 {
			b.transferSerial()
		}
	case addr >= timer.RegDIV && addr <= timer.RegTAC:
		b.timer.Write(addr, value)
	case addr == regIF:
		b.iflag = value & 0x1F
	case addr == regDMA:
		b.dma = value
		b.runDMA(value)
	case addr >= 0xFF40 && addr <= 0xFF4B:
		b.ppu.CPUWrite(addr, value)
	case addr == regBOOT:
		if value != 0 {
			b.bootEnabled = false
		}
	}
}

// transferSerial completes a transfer at once: there is never a link
// partner, so the byte goes to the writer and the shift register reads back 0xFF.
func (b *Bus) transferSerial() {
	if b.serial != nil {
		_, _ = b.serial.Write([]byte{b.sb})
	}
	b.sb = 0xFF
	b.sc &^= 0x80
	b.iflag |= IntSerial
}

// runDMA copies 160 bytes from page<<8 into OAM in one step.
func (b *Bus) runDMA(page byte) {
	src := uint16(page) << 8
	for i := 0; i < 0xA0; i++ {
		b.ppu.WriteOAM(i, b.Read(src+uint16(i)))
	}
}
