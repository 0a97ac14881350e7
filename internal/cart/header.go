package cart

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
)

// ErrROMTooSmall is returned when an image ends before the header does.
var ErrROMTooSmall = errors.New("ROM too small to contain header")

// Header field offsets.
const (
	offLogo     = 0x0104
	offTitle    = 0x0134
	offCGB      = 0x0143
	offLicensee = 0x0144
	offSGB      = 0x0146
	offType     = 0x0147
	offROMSize  = 0x0148
	offRAMSize  = 0x0149
	offDest     = 0x014A
	offOldLic   = 0x014B
	offVersion  = 0x014C
	offHeaderCk = 0x014D
	offGlobalCk = 0x014E
	headerSize  = 0x0150
)

var nintendoLogo = [48]byte{
	0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B, 0x03, 0x73, 0x00, 0x83, 0x00, 0x0C, 0x00, 0x0D,
	0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E, 0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99,
	0xBB, 0xBB, 0x67, 0x63, 0x6E, 0x0E, 0xEC, 0xCC, 0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
}

// unknownTitle is the name reported when the title bytes are missing or not text.
const unknownTitle = "unknown"

// Header is the decoded cartridge header at 0x0100-0x014F.
type Header struct {
	Title          string
	CGBFlag        byte
	NewLicensee    string // two ASCII characters, used when OldLicensee is 0x33
	SGBFlag        byte
	CartType       byte
	ROMSizeCode    byte
	RAMSizeCode    byte
	Destination    byte
	OldLicensee    byte
	ROMVersion     byte
	HeaderChecksum byte
	GlobalChecksum uint16
	LogoOK         bool

	// decoded for logs and mapper setup
	ROMSizeBytes int
	ROMBanks     int
	RAMSizeBytes int
	CartTypeStr  string
}

// ParseHeader decodes the header of rom. A missing logo is reported in
// LogoOK rather than failing, since homebrew and test ROMs often omit it.
func ParseHeader(rom []byte) (*Header, error) {
	if len(rom) < headerSize {
		return nil, ErrROMTooSmall
	}
	h := &Header{
		Title:          Title(rom),
		LogoOK:         bytes.Equal(rom[offLogo:offLogo+len(nintendoLogo)], nintendoLogo[:]),
		CGBFlag:        rom[offCGB],
		NewLicensee:    string(rom[offLicensee : offLicensee+2]),
		SGBFlag:        rom[offSGB],
		CartType:       rom[offType],
		ROMSizeCode:    rom[offROMSize],
		RAMSizeCode:    rom[offRAMSize],
		Destination:    rom[offDest],
		OldLicensee:    rom[offOldLic],
		ROMVersion:     rom[offVersion],
		HeaderChecksum: rom[offHeaderCk],
		GlobalChecksum: binary.BigEndian.Uint16(rom[offGlobalCk:]),
	}
	h.ROMBanks = romBanks(h.ROMSizeCode)
	h.ROMSizeBytes = h.ROMBanks * 0x4000
	h.RAMSizeBytes = ramSizes[h.RAMSizeCode]
	h.CartTypeStr = mapperOf(h.CartType).String()
	return h, nil
}

// Title decodes the ASCII title region 0x0134-0x0143 with NUL padding removed.
// Images without the region, or whose title is empty or contains non-ASCII
// bytes, are reported as "unknown".
func Title(rom []byte) string {
	if len(rom) < offCGB+1 {
		return unknownTitle
	}
	title := strings.TrimRight(string(rom[offTitle:offCGB+1]), "\x00 ")
	if title == "" || strings.IndexFunc(title, func(r rune) bool { return r >= 0x80 }) >= 0 {
		return unknownTitle
	}
	return title
}

// HeaderChecksumOK verifies the byte at 0x014D against 0x0134-0x014C.
func HeaderChecksumOK(rom []byte) bool {
	if len(rom) <= offHeaderCk {
		return false
	}
	var sum byte
	for _, v := range rom[offTitle:offHeaderCk] {
		sum = sum - v - 1
	}
	return sum == rom[offHeaderCk]
}

// romBanks decodes the 0x0148 size code into 16 KiB banks; unknown codes give 0.
func romBanks(code byte) int {
	switch {
	case code <= 0x08:
		return 2 << code
	case code == 0x52:
		return 72
	case code == 0x53:
		return 80
	case code == 0x54:
		return 96
	}
	return 0
}

// ramSizes maps the 0x0149 code to bytes; 0x01 and unknown codes have none.
var ramSizes = map[byte]int{
	0x02: 8 * 1024,
	0x03: 32 * 1024,
	0x04: 128 * 1024,
	0x05: 64 * 1024,
}

// mapper is the bank controller family of a cartridge type code.
type mapper byte

const (
	mapperUnknown mapper = iota
	mapperNone
	mapperMBC1
	mapperMBC2
	mapperMBC3
	mapperMBC5
)

func mapperOf(cartType byte) mapper {
	switch {
	case cartType == 0x00:
		return mapperNone
	case cartType <= 0x03:
		return mapperMBC1
	case cartType == 0x05 || cartType == 0x06:
		return mapperMBC2
	case cartType >= 0x0F && cartType <= 0x13:
		return mapperMBC3
	case cartType >= 0x19 && cartType <= 0x1E:
		return mapperMBC5
	}
	return mapperUnknown
}

func (m mapper) String() string {
	switch m {
	case mapperNone:
		return "ROM ONLY"
	case mapperMBC1:
		return "MBC1 (variants)"
	case mapperMBC2:
		return "MBC2 (variants)"
	case mapperMBC3:
		return "MBC3 (variants)"
	case mapperMBC5:
		return "MBC5 (variants)"
	}
	return "Other/unknown"
}
