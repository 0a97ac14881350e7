package cart

// MBC3 implements ROM/RAM banking without the real-time clock.
//   - 0000-1FFF: RAM enable (0x0A in low nibble)
//   - 2000-3FFF: ROM bank low 7 bits (0 maps to 1)
//   - 4000-5FFF: RAM bank 0-3; clock register selects 08-0C fall back to bank 0
//   - 6000-7FFF: clock latch, ignored
//   - A000-BFFF: external RAM when enabled
type MBC3 struct {
	titled
	extRAM
	rom []byte

	romBank byte // 1..127
	bank    byte // RAM bank 0..3
}

func NewMBC3(rom []byte, ramSize int) *MBC3 {
	return &MBC3{
		titled:  titled{Title(rom)},
		extRAM:  newExtRAM(ramSize),
		rom:     rom,
		romBank: 1,
	}
}

func (m *MBC3) Read(addr uint16) byte {
	switch {
	case addr < 0x4000:
		return romByte(m.rom, int(addr))
	case addr < 0x8000:
		return romByte(m.rom, int(m.romBank)*0x4000+int(addr-0x4000))
	case addr >= 0xA000 && addr <= 0xBFFF:
		return m.read(int(m.bank), addr)
	default:
		return 0xFF
	}
}

func (m *MBC3) Write(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		m.setEnable(value)
	case addr < 0x4000:
		m.romBank = value & 0x7F
		if m.romBank == 0 {
			m.romBank = 1
		}
	case addr < 0x6000:
		if value <= 0x03 {
			m.bank = value
		} else {
			m.bank = 0
		}
	case addr < 0x8000:
	case addr >= 0xA000 && addr <= 0xBFFF:
		m.write(int(m.bank), addr, value)
	}
}
