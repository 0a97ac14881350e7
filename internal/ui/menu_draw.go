package ui

import (
	"path/filepath"

	"github.com/FabianRolfMatthiasNoll/gbemu/internal/emu"
	"github.com/FabianRolfMatthiasNoll/gbemu/internal/ppu"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const (
	lineH     = 14 // debug font row height
	charW     = 6  // debug font glyph width
	romListY  = 24
	keysListY = 24
)

var keyRows = []string{
	"Z: A",
	"X: B",
	"Enter: Start",
	"RShift: Select",
	"Arrows: D-Pad",
	"P: Pause",
	"N: Step (paused)",
	"Tab: Fast-forward",
	"R: Reset",
	"B: Reset w/ Boot ROM",
	"[ ]: Palette",
	"F11: Fullscreen",
	"F12: Screenshot",
	"Esc: Menu",
}

func (a *App) drawMainMenu(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, "Menu:", 10, 10)
	for i, s := range mainItems {
		if s == "Palette" {
			s = "Palette: " + emu.Palettes[a.m.Palette()].Name
		}
		prefix := "  "
		if i == a.menuIdx {
			prefix = "> "
		}
		ebitenutil.DebugPrintAt(screen, truncateText(prefix+s, maxChars(10)), 10, 10+(i+1)*lineH)
	}
}

func (a *App) drawRomMenu(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, truncateText("ROMs: "+a.cfg.ROMsDir, maxChars(10)), 10, 6)
	if len(a.romList) == 0 {
		ebitenutil.DebugPrintAt(screen, "No ROMs found", 10, romListY)
		return
	}
	rows := listRows(romListY)
	end := min(a.romOff+rows, len(a.romList))
	width := maxChars(10) - 2 // account for "> " prefix
	for i, p := range a.romList[a.romOff:end] {
		prefix := "  "
		if a.romOff+i == a.romSel {
			prefix = "> "
		}
		ebitenutil.DebugPrintAt(screen, prefix+truncateText(filepath.Base(p), width), 10, romListY+i*lineH)
	}
	// scroll indicators
	if a.romOff > 0 {
		ebitenutil.DebugPrintAt(screen, "^", 2, romListY)
	}
	if end < len(a.romList) {
		ebitenutil.DebugPrintAt(screen, "v", 2, romListY+(rows-1)*lineH)
	}
}

func (a *App) drawKeysMenu(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, "Keybindings", 10, 6)
	rows := listRows(keysListY)
	end := min(a.keysOff+rows, len(keyRows))
	for i := a.keysOff; i < end; i++ {
		ebitenutil.DebugPrintAt(screen, truncateText(keyRows[i], maxChars(10)), 10, keysListY+(i-a.keysOff)*lineH)
	}
	if a.keysOff > 0 {
		ebitenutil.DebugPrintAt(screen, "^", 2, keysListY)
	}
	if end < len(keyRows) {
		ebitenutil.DebugPrintAt(screen, "v", 2, keysListY+(rows-1)*lineH)
	}
}

// listRows is the number of text rows that fit below y.
func listRows(y int) int { return max((ppu.Height-y)/lineH, 1) }

// maxChars is the number of glyphs that fit on a row starting at x.
func maxChars(x int) int { return max((ppu.Width-x)/charW, 1) }

// scrollTo returns the first visible row so that sel stays in a window of rows.
func scrollTo(sel, off, rows int) int {
	if sel < off {
		off = sel
	}
	if sel >= off+rows {
		off = sel - rows + 1
	}
	return max(off, 0)
}

// truncateText shortens s to n glyphs, marking the cut with "~".
func truncateText(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "~"
}
