package ui

import (
	"path/filepath"

	"github.com/FabianRolfMatthiasNoll/gbemu/internal/romloader"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// mainItems is the main menu in display order.
var mainItems = []string{
	"Resume",
	"Reset",
	"Reset with Boot ROM",
	"Palette",
	"Screenshot",
	"Switch ROM",
	"Keybindings",
	"Quit",
}

func (a *App) updateMainMenu() error {
	last := len(mainItems) - 1
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.menuIdx > 0 {
		a.menuIdx--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.menuIdx < last {
		a.menuIdx++
	}
	if mainItems[a.menuIdx] == "Palette" {
		if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
			a.cyclePalette(-1)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
			a.cyclePalette(+1)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		switch mainItems[a.menuIdx] {
		case "Resume":
			a.showMenu = false
		case "Reset":
			a.reset(false)
			a.showMenu = false
		case "Reset with Boot ROM":
			a.reset(true)
			a.showMenu = false
		case "Palette":
			a.cyclePalette(+1)
		case "Screenshot":
			a.saveScreenshot()
		case "Switch ROM":
			a.openROMMenu()
		case "Keybindings":
			a.menuMode = menuKeys
			a.keysOff = 0
		case "Quit":
			return ebiten.Termination
		}
	}
	// Back with Backspace
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.showMenu = false
	}
	return nil
}

func (a *App) openROMMenu() {
	list, err := romloader.Find(a.cfg.ROMsDir)
	if err != nil {
		a.log.WithError(err).Warn("cannot list ROMs")
	}
	a.romList = list
	a.romSel = 0
	a.romOff = 0
	a.showMenu = true
	a.menuMode = menuROM
}

func (a *App) updateRomMenu() {
	back := inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace)
	n := len(a.romList)
	if n == 0 {
		if back || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			a.menuMode = menuMain
		}
		return
	}
	// compute window to maintain selection visibility
	rows := listRows(romListY)
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.romSel > 0 {
		a.romSel--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.romSel < n-1 {
		a.romSel++
	}
	a.romOff = scrollTo(a.romSel, a.romOff, rows)
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		a.loadROM(a.romList[a.romSel])
		return
	}
	if back {
		a.menuMode = menuMain
	}
}

// loadROM swaps cartridges, saving the old battery RAM and loading the new one.
func (a *App) loadROM(path string) {
	a.saveBattery()
	if err := a.m.LoadROMFromFile(path); err != nil {
		a.log.WithError(err).WithField("path", path).Error("ROM load failed")
		a.toast("ROM load failed: " + err.Error())
		a.menuMode = menuMain
		return
	}
	if !a.cfg.NoSave {
		if err := a.m.LoadBatteryFile(romloader.SavePath(path)); err != nil {
			a.log.WithError(err).Warn("battery load failed")
		}
	}
	a.updateTitle()
	a.toast("Loaded " + filepath.Base(path))
	a.paused = false
	a.showMenu = false
	a.menuMode = menuMain
}

func (a *App) updateKeysMenu() {
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.keysOff > 0 {
		a.keysOff--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.keysOff < len(keyRows)-1 {
		a.keysOff++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.menuMode = menuMain
	}
}
