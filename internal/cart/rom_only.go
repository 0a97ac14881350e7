package cart

// ROMOnly is a 32 KiB cartridge without an MBC or external RAM.
// The image is used in place; reads past its end return 0xFF.
type ROMOnly struct {
	titled
	rom []byte
}

func NewROMOnly(rom []byte) *ROMOnly {
	return &ROMOnly{titled: titled{Title(rom)}, rom: rom}
}

func (c *ROMOnly) Read(addr uint16) byte {
	if addr < 0x8000 {
		return romByte(c.rom, int(addr))
	}
	return 0xFF
}

// Write is a no-op; ROM-only carts have neither bank registers nor RAM.
func (c *ROMOnly) Write(addr uint16, value byte) {}
