package emu

import (
	"image/color"
	"strings"

	"github.com/FabianRolfMatthiasNoll/gbemu/internal/cart"
)

// Palette maps the four DMG shades (0 lightest) to screen colors.
type Palette struct {
	Name   string
	Colors [4]color.RGBA
}

func rgb(v uint32) color.RGBA {
	return color.RGBA{R: byte(v >> 16), G: byte(v >> 8), B: byte(v), A: 0xFF}
}

// Palettes lists the built-in palettes; the index is the palette ID.
var Palettes = []Palette{
	{"green", [4]color.RGBA{rgb(0xE0F8D0), rgb(0x88C070), rgb(0x346856), rgb(0x081820)}},
	{"sepia", [4]color.RGBA{rgb(0xF8E8C8), rgb(0xD0A878), rgb(0x886040), rgb(0x302010)}},
	{"blue", [4]color.RGBA{rgb(0xE8F0FF), rgb(0x90B0E8), rgb(0x3858A8), rgb(0x081038)}},
	{"red", [4]color.RGBA{rgb(0xFFE8E0), rgb(0xF09080), rgb(0xA83830), rgb(0x300808)}},
	{"pastel", [4]color.RGBA{rgb(0xFFF0F8), rgb(0xD8B0E0), rgb(0x8070B0), rgb(0x282040)}},
	{"gray", [4]color.RGBA{rgb(0xFFFFFF), rgb(0xC0C0C0), rgb(0x606060), rgb(0x000000)}},
}

const grayPalette = 5

// PaletteByName returns the ID of a built-in palette.
func PaletteByName(name string) (int, bool) {
	for i, p := range Palettes {
		if strings.EqualFold(p.Name, name) {
			return i, true
		}
	}
	return 0, false
}

// paletteTitleExact maps exact, normalized titles to a palette ID.
var paletteTitleExact = map[string]int{
	"TETRIS":              2,
	"TETRIS DX":           2,
	"SUPER MARIO LAND":    3,
	"SUPER MARIO LAND 2":  3,
	"DR. MARIO":           4,
	"DONKEY KONG":         1,
	"THE LEGEND OF ZELDA": 0,
	"ZELDA":               0,
	"METROID II":          3,
	"KIRBY'S DREAM LAND":  4,
	"MEGA MAN":            2,
	"MEGAMAN":             2,
	"WARIO LAND":          1,
	"POKEMON YELLOW":      4,
	"POKEMON RED":         4,
	"POKEMON BLUE":        4,
	"POCKET MONSTERS":     4,
}

type containsRule struct {
	substr string
	id     int
}

// paletteTitleContains covers game families by substring.
var paletteTitleContains = []containsRule{
	{"TETRIS", 2},
	{"MARIO", 3},
	{"ZELDA", 0},
	{"KIRBY", 4},
	{"DONKEY KONG", 1},
	{"METROID", 3},
	{"MEGA MAN", 2},
	{"MEGAMAN", 2},
	{"WARIO", 1},
	{"POKEMON", 4},
	{"POCKET MONSTERS", 4},
}

// autoPalette picks a palette from the cartridge title. Unknown
// Nintendo titles get a stable choice from the header checksum; everything
// else stays gray.
func autoPalette(h *cart.Header) int {
	if h == nil {
		return grayPalette
	}
	t := strings.ToUpper(strings.TrimSpace(h.Title))
	if id, ok := paletteTitleExact[t]; ok {
		return id
	}
	for _, r := range paletteTitleContains {
		if strings.Contains(t, r.substr) {
			return r.id
		}
	}
	nintendo := h.OldLicensee == 0x01
	if h.OldLicensee == 0x33 {
		nintendo = h.NewLicensee == "01"
	}
	if nintendo {
		return int(h.HeaderChecksum) % len(Palettes)
	}
	return grayPalette
}
