package cart

// MBC5 supports up to 8 MiB ROM and 128 KiB RAM. Unlike MBC1/3 it can map
// bank 0 into the switchable window.
type MBC5 struct {
	titled
	extRAM
	rom []byte

	romBank uint16 // 9 bits (0..511)
	bank    byte   // RAM bank 0..15
}

func NewMBC5(rom []byte, ramSize int) *MBC5 {
	return &MBC5{
		titled:  titled{Title(rom)},
		extRAM:  newExtRAM(ramSize),
		rom:     rom,
		romBank: 1,
	}
}

func (m *MBC5) Read(addr uint16) byte {
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

func (m *MBC5) Write(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		m.setEnable(value)
	case addr < 0x3000:
		m.romBank = m.romBank&0x100 | uint16(value)
	case addr < 0x4000:
		m.romBank = m.romBank&0x0FF | uint16(value&0x01)<<8
	case addr < 0x6000:
		m.bank = value & 0x0F
	case addr >= 0xA000 && addr <= 0xBFFF:
		m.write(int(m.bank), addr, value)
	}
}
