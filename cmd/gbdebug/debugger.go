package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/FabianRolfMatthiasNoll/gbemu/internal/emu"
	"github.com/FabianRolfMatthiasNoll/gbemu/internal/ppu"
	"github.com/FabianRolfMatthiasNoll/gbemu/internal/screenshot"
)

// errQuit ends the command loop.
var errQuit = errors.New("quit")

// maxContinueFrames bounds "continue" so a ROM without a breakpoint hit
// returns to the prompt.
const maxContinueFrames = 600

const help = `commands:
  b ADDR        set breakpoint      d ADDR    delete breakpoint
  bl            list breakpoints    s [N]     step N instructions
  c [FRAMES]    run until a breakpoint (at most FRAMES frames)
  f [N]         run N frames        r         registers
  io            IO registers        x ADDR [N] dump N bytes
  dis [ADDR] [N] disassemble        hash      framebuffer hash
  shot PATH     save framebuffer    reset     post-boot reset
  q             quit`

type debugger struct {
	m   *emu.Machine
	out io.Writer
}

// exec runs one command line. Errors other than errQuit are reported to
// the user and the loop carries on.
func (d *debugger) exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "h", "help", "?":
		fmt.Fprintln(d.out, help)
	case "q", "quit", "exit":
		return errQuit
	case "b", "break":
		addr, err := needAddr(args)
		if err != nil {
			return err
		}
		d.m.AddBreakpoint(addr)
		fmt.Fprintf(d.out, "breakpoint at %04X\n", addr)
	case "d", "delete":
		addr, err := needAddr(args)
		if err != nil {
			return err
		}
		d.m.RemoveBreakpoint(addr)
	case "bl":
		for _, pc := range d.m.Breakpoints() {
			fmt.Fprintf(d.out, "%04X\n", pc)
		}
	case "s", "step":
		n, err := argInt(args, 0, 1)
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			if _, err := d.m.StepInstruction(); err != nil {
				return err
			}
		}
		d.where()
	case "c", "continue":
		limit, err := argInt(args, 0, maxContinueFrames)
		if err != nil {
			return err
		}
		return d.run(limit, true)
	case "f", "frame":
		n, err := argInt(args, 0, 1)
		if err != nil {
			return err
		}
		return d.run(n, false)
	case "r", "regs":
		fmt.Fprintln(d.out, d.m.DumpRegisters())
	case "io":
		fmt.Fprint(d.out, d.m.DumpIO())
	case "x":
		addr, err := needAddr(args)
		if err != nil {
			return err
		}
		n, err := argInt(args, 1, 16)
		if err != nil {
			return err
		}
		d.dump(addr, n)
	case "dis":
		addr, err := argAddr(args, 0, d.pc())
		if err != nil {
			return err
		}
		n, err := argInt(args, 1, 8)
		if err != nil {
			return err
		}
		fmt.Fprint(d.out, d.m.Disassemble(addr, n))
	case "hash":
		fmt.Fprintf(d.out, "%016x\n", d.m.FrameHash())
	case "shot":
		if len(args) == 0 {
			return errors.New("shot needs a path")
		}
		if err := screenshot.Save(args[0], d.m.Framebuffer(), ppu.Width, ppu.Height); err != nil {
			return err
		}
		fmt.Fprintf(d.out, "wrote %s\n", args[0])
	case "reset":
		if err := d.m.ResetPostBoot(); err != nil {
			return err
		}
		d.where()
	default:
		return fmt.Errorf("unknown command %q, try help", cmd)
	}
	return nil
}

// run steps up to n frames. A breakpoint ends the run and is reported;
// with stopOnly set, running out of frames is reported too.
func (d *debugger) run(n int, stopOnly bool) error {
	for i := 0; i < n; i++ {
		err := d.m.StepFrame()
		if errors.Is(err, emu.ErrBreakpoint) {
			fmt.Fprintf(d.out, "break at %04X after %d frames\n", d.pc(), i)
			d.where()
			return nil
		}
		if err != nil {
			return err
		}
	}
	if stopOnly {
		fmt.Fprintf(d.out, "no breakpoint hit in %d frames\n", n)
	}
	d.where()
	return nil
}

func (d *debugger) pc() uint16 {
	if c := d.m.CPU(); c != nil {
		return c.PC
	}
	return 0
}

// where prints the registers and the next instruction.
func (d *debugger) where() {
	fmt.Fprintln(d.out, d.m.DumpRegisters())
	fmt.Fprint(d.out, d.m.Disassemble(d.pc(), 1))
}

func (d *debugger) dump(addr uint16, n int) {
	b := d.m.Bus()
	if b == nil {
		fmt.Fprintln(d.out, "no cartridge")
		return
	}
	for i := 0; i < n; i += 16 {
		fmt.Fprintf(d.out, "%04X ", addr+uint16(i))
		for j := i; j < min(i+16, n); j++ {
			fmt.Fprintf(d.out, " %02X", b.Read(addr+uint16(j)))
		}
		fmt.Fprintln(d.out)
	}
}

func needAddr(args []string) (uint16, error) {
	if len(args) == 0 {
		return 0, errors.New("missing address")
	}
	return argAddr(args, 0, 0)
}

// argAddr parses args[i] as a hex address, with or without $ or 0x.
func argAddr(args []string, i int, def uint16) (uint16, error) {
	if i >= len(args) {
		return def, nil
	}
	s := strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(args[i]), "$"), "0x")
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("bad address %q", args[i])
	}
	return uint16(v), nil
}

func argInt(args []string, i int, def int) (int, error) {
	if i >= len(args) {
		return def, nil
	}
	v, err := strconv.Atoi(args[i])
	if err != nil || v < 1 {
		return 0, fmt.Errorf("bad count %q", args[i])
	}
	return v, nil
}
