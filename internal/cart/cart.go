package cart

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned for cartridge types without an implementation.
var ErrUnsupported = errors.New("unsupported cartridge type")

// Cartridge defines the minimal interface the Bus needs for ROM/RAM banking.
// Implementations can be ROM-only or MBC variants. Addresses are CPU addresses.
type Cartridge interface {
	// Read returns a byte for ROM (0x0000–0x7FFF) and external RAM (0xA000–0xBFFF).
	Read(addr uint16) byte
	// Write handles MBC control writes (0x0000–0x7FFF) and external RAM writes (0xA000–0xBFFF).
	Write(addr uint16, value byte)
	// Name is the title stored at 0x0134–0x0143, or "unknown".
	Name() string
}

// BatteryBacked is an optional interface for cartridges with external RAM to be persisted.
// Implementations should return a copy of RAM bytes (may be empty if no RAM), and accept data to load.
type BatteryBacked interface {
	SaveRAM() []byte
	LoadRAM(data []byte)
}

// NewCartridge picks an implementation based on the ROM header.
func NewCartridge(rom []byte) (Cartridge, error) {
	h, err := ParseHeader(rom)
	if err != nil {
		return nil, fmt.Errorf("cart: %w", err)
	}
	switch mapperOf(h.CartType) {
	case mapperNone:
		return NewROMOnly(rom), nil
	case mapperMBC1:
		return NewMBC1(rom, h.RAMSizeBytes), nil
	case mapperMBC3: // no RTC
		return NewMBC3(rom, h.RAMSizeBytes), nil
	case mapperMBC5:
		return NewMBC5(rom, h.RAMSizeBytes), nil
	default:
		return nil, fmt.Errorf("cart: %w %02X (%s)", ErrUnsupported, h.CartType, h.CartTypeStr)
	}
}

// HasBattery reports whether the cartridge type keeps RAM across power cycles.
func HasBattery(cartType byte) bool {
	switch cartType {
	case 0x03, 0x0F, 0x10, 0x13, 0x1B, 0x1E:
		return true
	}
	return false
}

// romByte reads rom[off] or 0xFF past the end of the image.
func romByte(rom []byte, off int) byte {
	if off >= 0 && off < len(rom) {
		return rom[off]
	}
	return 0xFF
}
