package ui

import (
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/FabianRolfMatthiasNoll/gbemu/internal/emu"
	"github.com/FabianRolfMatthiasNoll/gbemu/internal/ppu"
	"github.com/FabianRolfMatthiasNoll/gbemu/internal/romloader"
	"github.com/FabianRolfMatthiasNoll/gbemu/internal/screenshot"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sirupsen/logrus"
)

const (
	menuMain = "main"
	menuROM  = "rom"
	menuKeys = "keys"
)

type App struct {
	cfg    Config
	m      *emu.Machine
	log    *logrus.Logger
	tex    *ebiten.Image
	shade  *ebiten.Image
	paused bool
	fast   bool

	// overlay/menu
	showMenu bool
	menuMode string
	menuIdx  int
	romList  []string
	romSel   int
	romOff   int
	keysOff  int

	toastMsg   string
	toastUntil time.Time
}

func NewApp(cfg Config, m *emu.Machine) *App {
	cfg.Defaults()
	ebiten.SetWindowSize(ppu.Width*cfg.Scale, ppu.Height*cfg.Scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	// one emulated frame per update; the hardware rate is 59.73 Hz
	ebiten.SetTPS(60)
	a := &App{cfg: cfg, m: m, log: m.Logger(), menuMode: menuMain}
	a.updateTitle()
	if m.Bus() == nil {
		a.openROMMenu()
	}
	return a
}

// Run blocks until the window is closed, then writes battery RAM.
func (a *App) Run() error {
	err := ebiten.RunGame(a)
	if errors.Is(err, ebiten.Termination) {
		err = nil
	}
	a.saveBattery()
	return err
}

func (a *App) Update() error {
	a.m.SetButtons(a.readButtons())

	// Toggle menu (Escape)
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) && a.menuMode == menuMain {
		a.showMenu = !a.showMenu
		a.menuIdx = 0
		return nil
	}
	if a.showMenu {
		switch a.menuMode {
		case menuROM:
			a.updateRomMenu()
		case menuKeys:
			a.updateKeysMenu()
		default:
			return a.updateMainMenu()
		}
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyP) && a.runnable() {
		a.paused = !a.paused
	}
	// Fast-forward (Tab): while held, run multiple frames per Ebiten update
	a.fast = ebiten.IsKeyPressed(ebiten.KeyTab)

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		a.reset(false)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		a.reset(true)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft) {
		a.cyclePalette(-1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketRight) {
		a.cyclePalette(+1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		a.saveScreenshot()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}

	// Frame-step when paused (N)
	if a.paused {
		if inpututil.IsKeyJustPressed(ebiten.KeyN) && a.runnable() {
			a.stepFrame()
		}
		return nil
	}
	frames := 1
	if a.fast {
		frames = a.cfg.FastFrames
	}
	for i := 0; i < frames && !a.paused; i++ {
		a.stepFrame()
	}
	return nil
}

// readButtons maps the keyboard onto the eight Game Boy buttons.
func (a *App) readButtons() emu.Buttons {
	if a.showMenu {
		return emu.Buttons{}
	}
	return emu.Buttons{
		Right:  ebiten.IsKeyPressed(ebiten.KeyArrowRight),
		Left:   ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		Up:     ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		Down:   ebiten.IsKeyPressed(ebiten.KeyArrowDown),
		A:      ebiten.IsKeyPressed(ebiten.KeyZ),
		B:      ebiten.IsKeyPressed(ebiten.KeyX),
		Start:  ebiten.IsKeyPressed(ebiten.KeyEnter),
		Select: ebiten.IsKeyPressed(ebiten.KeyShiftRight),
	}
}

// stepFrame runs one frame and pauses on any error, so a breakpoint or an
// undefined opcode leaves the last picture on screen.
func (a *App) stepFrame() {
	err := a.m.StepFrame()
	switch {
	case err == nil:
	case errors.Is(err, emu.ErrBreakpoint):
		a.paused = true
		a.toast(fmt.Sprintf("Breakpoint at %04X", a.m.CPU().PC))
	default:
		a.paused = true
		a.log.WithError(err).Error("emulation stopped")
		a.toast("Stopped: " + err.Error())
	}
}

// runnable reports whether the machine may resume. After a CPU error only
// a reset or another ROM gets it going again.
func (a *App) runnable() bool {
	if a.m.Fatal() == nil {
		return true
	}
	a.toast("Stopped: reset (R/B) or load a ROM")
	return false
}

func (a *App) reset(withBoot bool) {
	var err error
	if withBoot {
		err = a.m.ResetWithBoot()
	} else {
		err = a.m.ResetPostBoot()
	}
	if err != nil {
		a.toast("Reset failed: " + err.Error())
		return
	}
	a.paused = false
	a.toast("Reset")
}

func (a *App) cyclePalette(delta int) {
	n := len(emu.Palettes)
	id := (a.m.Palette() + delta + n) % n
	a.m.SetPalette(id)
	a.toast("Palette: " + emu.Palettes[id].Name)
}

func (a *App) saveScreenshot() {
	name := screenshot.Name(a.cfg.ScreenshotFormat, time.Now())
	if err := screenshot.Save(name, a.m.Framebuffer(), ppu.Width, ppu.Height); err != nil {
		a.log.WithError(err).Error("screenshot failed")
		a.toast("Screenshot failed")
		return
	}
	a.log.WithField("path", name).Info("screenshot saved")
	a.toast("Saved " + name)
}

// saveBattery writes cartridge RAM next to the current ROM.
func (a *App) saveBattery() {
	if a.cfg.NoSave || a.m.ROMPath() == "" {
		return
	}
	if err := a.m.SaveBatteryFile(romloader.SavePath(a.m.ROMPath())); err != nil {
		a.log.WithError(err).Error("battery save failed")
	}
}

func (a *App) updateTitle() {
	title := a.cfg.Title
	if a.m.Bus() != nil {
		title += " - [" + a.m.Title() + "]"
	}
	ebiten.SetWindowTitle(title)
}

func (a *App) toast(msg string) {
	a.toastMsg = msg
	a.toastUntil = time.Now().Add(2 * time.Second)
}

func (a *App) Draw(screen *ebiten.Image) {
	if a.tex == nil {
		a.tex = ebiten.NewImage(ppu.Width, ppu.Height)
	}
	a.tex.WritePixels(a.m.Framebuffer())
	screen.DrawImage(a.tex, nil)

	if a.showMenu {
		if a.shade == nil {
			a.shade = ebiten.NewImage(ppu.Width, ppu.Height)
			a.shade.Fill(color.RGBA{0, 0, 0, 160})
		}
		screen.DrawImage(a.shade, nil)
		switch a.menuMode {
		case menuROM:
			a.drawRomMenu(screen)
		case menuKeys:
			a.drawKeysMenu(screen)
		default:
			a.drawMainMenu(screen)
		}
	}
	if a.toastMsg != "" && time.Now().Before(a.toastUntil) {
		ebitenutil.DebugPrintAt(screen, truncateText(a.toastMsg, maxChars(2)), 2, ppu.Height-16)
	}
}

func (a *App) Layout(outW, outH int) (int, int) { return ppu.Width, ppu.Height }
