package cart

// MBC1 implements MBC1 ROM/RAM banking: up to 2 MiB ROM and 32 KiB RAM.
type MBC1 struct {
	titled
	extRAM
	rom []byte

	romBankLow5       byte // lower 5 bits of ROM bank number (0->1 remapped)
	ramBankOrRomHigh2 byte // either RAM bank (mode1) or ROM bank high bits (mode0)
	modeSelect        byte // 0: ROM banking (default), 1: RAM banking
}

func NewMBC1(rom []byte, ramSize int) *MBC1 {
	return &MBC1{
		titled:      titled{Title(rom)},
		extRAM:      newExtRAM(ramSize),
		rom:         rom,
		romBankLow5: 1,
	}
}

func (m *MBC1) Read(addr uint16) byte {
	switch {
	case addr < 0x4000:
		if m.modeSelect == 0 {
			return romByte(m.rom, int(addr))
		}
		// mode 1 applies the high bits to the bank 0 region too
		bank := int(m.ramBankOrRomHigh2&0x03) << 5
		return romByte(m.rom, bank*0x4000+int(addr))
	case addr < 0x8000:
		return romByte(m.rom, int(m.effectiveROMBank())*0x4000+int(addr-0x4000))
	case addr >= 0xA000 && addr <= 0xBFFF:
		return m.read(m.ramBank(), addr)
	default:
		return 0xFF
	}
}

func (m *MBC1) Write(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		m.setEnable(value)
	case addr < 0x4000:
		m.romBankLow5 = value & 0x1F
		if m.romBankLow5 == 0 {
			m.romBankLow5 = 1
		}
	case addr < 0x6000:
		m.ramBankOrRomHigh2 = value & 0x03
	case addr < 0x8000:
		m.modeSelect = value & 0x01
	case addr >= 0xA000 && addr <= 0xBFFF:
		m.write(m.ramBank(), addr, value)
	}
}

func (m *MBC1) ramBank() int {
	if m.modeSelect == 1 {
		return int(m.ramBankOrRomHigh2 & 0x03)
	}
	return 0
}

// effectiveROMBank combines the high 2 bits with the low 5. Because low5 is
// never 0, banks 0x20/0x40/0x60 map to 0x21/0x41/0x61 as on hardware.
func (m *MBC1) effectiveROMBank() byte {
	return m.romBankLow5 | (m.ramBankOrRomHigh2&0x03)<<5
}
