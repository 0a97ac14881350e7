package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/FabianRolfMatthiasNoll/gbemu/internal/emu"
	"github.com/FabianRolfMatthiasNoll/gbemu/internal/ppu"
	"github.com/FabianRolfMatthiasNoll/gbemu/internal/romloader"
	"github.com/FabianRolfMatthiasNoll/gbemu/internal/screenshot"
	"github.com/FabianRolfMatthiasNoll/gbemu/internal/statsview"
	"github.com/FabianRolfMatthiasNoll/gbemu/internal/ui"
	"github.com/sirupsen/logrus"
)

type CLIFlags struct {
	ROMPath   string
	BootROM   string
	Scale     int
	Title     string
	ROMsDir   string
	Palette   string
	LogLevel  string
	Trace     bool
	SaveRAM   bool // persist battery RAM next to ROM (.sav)
	Stats     bool
	StatsAddr string

	// headless
	Headless bool
	Frames   int
	Out      string
	Expect   string // expected framebuffer xxhash hex
}

func parseFlags() CLIFlags {
	var f CLIFlags
	flag.StringVar(&f.ROMPath, "rom", "", "path to ROM (.gb, .gbc, or a .gz/.zip/.7z holding one)")
	flag.StringVar(&f.BootROM, "bootrom", "", "optional DMG boot ROM")
	flag.IntVar(&f.Scale, "scale", 3, "window scale")
	flag.StringVar(&f.Title, "title", "gbemu", "window title")
	flag.StringVar(&f.ROMsDir, "romdir", "roms", "directory listed by the Switch ROM menu")
	flag.StringVar(&f.Palette, "palette", "gray", "shade palette: green, sepia, blue, red, pastel, gray or auto")
	flag.StringVar(&f.LogLevel, "loglevel", "info", "log level (trace, debug, info, warn, error)")
	flag.BoolVar(&f.Trace, "trace", false, "log every instruction (implies -loglevel trace)")
	flag.BoolVar(&f.SaveRAM, "save", true, "persist battery RAM to ROM.sav on exit and load on start")
	flag.BoolVar(&f.Stats, "statsview", false, "serve runtime statistics (needs the statsview build tag)")
	flag.StringVar(&f.StatsAddr, "statsaddr", statsview.DefaultAddr, "listen address for -statsview")

	// headless options
	flag.BoolVar(&f.Headless, "headless", false, "run without a window")
	flag.IntVar(&f.Frames, "frames", 300, "frames to run in headless mode")
	flag.StringVar(&f.Out, "out", "", "write last framebuffer to a .png or .bmp at path")
	flag.StringVar(&f.Expect, "expect", "", "assert framebuffer xxhash (hex)")
	flag.Parse()
	return f
}

func runHeadless(m *emu.Machine, frames int, outPath, expect string) error {
	log := m.Logger()
	frames = max(frames, 1)

	start := time.Now()
	for i := 0; i < frames; i++ {
		if err := m.StepFrame(); err != nil {
			log.Error(m.DumpRegisters())
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}
	dur := time.Since(start)
	hash := m.FrameHash()

	log.WithFields(logrus.Fields{
		"frames":  frames,
		"elapsed": dur.Truncate(time.Millisecond),
		"fps":     fmt.Sprintf("%.2f", float64(frames)/dur.Seconds()),
		"hash":    fmt.Sprintf("%016x", hash),
	}).Info("headless run finished")

	if outPath != "" {
		if err := screenshot.Save(outPath, m.Framebuffer(), ppu.Width, ppu.Height); err != nil {
			return fmt.Errorf("write frame: %w", err)
		}
		log.WithField("path", outPath).Info("frame written")
	}

	if expect != "" {
		// allow with/without 0x, upper/lowercase
		want, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(expect), "0x"), 16, 64)
		if err != nil {
			return fmt.Errorf("bad -expect %q: %w", expect, err)
		}
		if hash != want {
			return fmt.Errorf("frame hash mismatch: got %016x, want %016x", hash, want)
		}
	}
	return nil
}

func main() {
	f := parseFlags()

	log, err := emu.NewLogger(f.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if f.Trace {
		log.SetLevel(logrus.TraceLevel)
	}
	if f.Stats {
		if !statsview.Available() {
			log.Warn("statsview requested but not built in; rebuild with -tags statsview")
		}
		stop := statsview.Launch(os.Stderr, f.StatsAddr)
		defer stop()
	}

	m := emu.New(emu.Config{Trace: f.Trace, Palette: f.Palette, Logger: log})
	if f.BootROM != "" {
		boot, err := os.ReadFile(f.BootROM)
		if err != nil {
			log.WithError(err).Fatal("read boot ROM")
		}
		m.SetBootROM(boot)
	}

	var savPath string
	if f.ROMPath != "" {
		if err := m.LoadROMFromFile(f.ROMPath); err != nil {
			log.WithError(err).Fatal("load cartridge")
		}
		if f.SaveRAM {
			savPath = romloader.SavePath(f.ROMPath)
			if err := m.LoadBatteryFile(savPath); err != nil {
				log.WithError(err).Warn("battery RAM not restored")
			}
		}
	}

	if f.Headless {
		if f.ROMPath == "" {
			log.Fatal("-headless needs -rom")
		}
		if err := runHeadless(m, f.Frames, f.Out, f.Expect); err != nil {
			log.Fatal(err)
		}
		if savPath != "" {
			if err := m.SaveBatteryFile(savPath); err != nil {
				log.WithError(err).Error("battery RAM not saved")
			}
		}
		return
	}

	app := ui.NewApp(ui.Config{Title: f.Title, Scale: f.Scale, ROMsDir: f.ROMsDir, NoSave: !f.SaveRAM}, m)
	// The app writes battery RAM for whatever cartridge is inserted at exit.
	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
}
