// Command gbdebug is an interactive debugger: it loads a ROM without a
// window and reads breakpoint, step and inspection commands from stdin.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/FabianRolfMatthiasNoll/gbemu/internal/emu"
	"golang.org/x/term"
)

const prompt = "gbdbg> "

func main() {
	romPath := flag.String("rom", "", "path to ROM")
	bootPath := flag.String("bootrom", "", "optional DMG boot ROM")
	palette := flag.String("palette", "gray", "shade palette used for hash and shot")
	level := flag.String("loglevel", "warn", "log level")
	flag.Parse()

	log, err := emu.NewLogger(*level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *romPath == "" {
		log.Fatal("-rom is required")
	}
	m := emu.New(emu.Config{Palette: *palette, Logger: log})
	if *bootPath != "" {
		boot, err := os.ReadFile(*bootPath)
		if err != nil {
			log.WithError(err).Fatal("read boot ROM")
		}
		m.SetBootROM(boot)
	}
	if err := m.LoadROMFromFile(*romPath); err != nil {
		log.WithError(err).Fatal("load cartridge")
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		// scripted: one command per line, no prompt
		d := &debugger{m: m, out: os.Stdout}
		if err := script(d, os.Stdin); err != nil {
			log.Fatal(err)
		}
		return
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		log.WithError(err).Fatal("raw mode")
	}
	defer term.Restore(fd, state)

	t := term.NewTerminal(struct {
		io.Reader
		io.Writer
	}{os.Stdin, os.Stdout}, prompt)
	if w, h, err := term.GetSize(fd); err == nil {
		_ = t.SetSize(w, h)
	}
	// the terminal translates newlines while in raw mode
	log.SetOutput(t)
	d := &debugger{m: m, out: t}
	fmt.Fprintf(t, "%s loaded, type help for commands\n", m.Title())
	d.where()
	for {
		line, err := t.ReadLine()
		if err != nil {
			return
		}
		if err := d.exec(line); err != nil {
			if errors.Is(err, errQuit) {
				return
			}
			fmt.Fprintf(t, "error: %v\n", err)
		}
	}
}

// script runs commands from r until EOF or quit. A failing command stops it.
func script(d *debugger, r io.Reader) error {
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		if err := d.exec(sc.Text()); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			return fmt.Errorf("line %d: %w", n, err)
		}
	}
	return sc.Err()
}
