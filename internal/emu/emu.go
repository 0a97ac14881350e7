package emu

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/FabianRolfMatthiasNoll/gbemu/internal/bus"
	"github.com/FabianRolfMatthiasNoll/gbemu/internal/cart"
	"github.com/FabianRolfMatthiasNoll/gbemu/internal/cpu"
	"github.com/FabianRolfMatthiasNoll/gbemu/internal/ppu"
	"github.com/FabianRolfMatthiasNoll/gbemu/internal/romloader"
	"github.com/sirupsen/logrus"
)

// ErrNoCartridge is returned by operations that need a loaded cartridge.
var ErrNoCartridge = errors.New("emu: no cartridge loaded")

type Buttons struct {
	A, B, Start, Select   bool
	Up, Down, Left, Right bool
}

// Machine wires the CPU, bus and devices together and drives them one
// T-cycle at a time.
type Machine struct {
	cfg Config
	log *logrus.Logger

	fb      []byte // RGBA 160x144*4
	palette int

	bus     *bus.Bus
	cpu     *cpu.CPU
	header  *cart.Header
	romPath string
	bootROM []byte
	serial  io.Writer

	// scheduler state
	busy        int    // T-cycles left of the instruction in flight
	clock       uint64 // CPU ticks since power on, halted time excluded
	frameTicks  int
	breakpoints map[uint16]struct{}
	resume      bool  // the next boundary ignores a breakpoint at PC
	fatal       error // CPU error that stopped the machine until the next reset
}

// New builds an empty machine. A cartridge must be loaded before stepping.
// An invalid LogLevel falls back to info.
func New(cfg Config) *Machine {
	cfg.Defaults()
	log := cfg.Logger
	if log == nil {
		var err error
		if log, err = NewLogger(cfg.LogLevel); err != nil {
			log, _ = NewLogger("info")
			log.WithError(err).Warn("invalid log level")
		}
	}
	m := &Machine{
		cfg:         cfg,
		log:         log,
		fb:          make([]byte, ppu.Width*ppu.Height*4),
		palette:     grayPalette,
		breakpoints: make(map[uint16]struct{}),
	}
	if id, ok := PaletteByName(cfg.Palette); ok {
		m.palette = id
	}
	m.updateFramebuffer()
	return m
}

// Logger returns the machine's logger.
func (m *Machine) Logger() *logrus.Logger { return m.log }

// LoadCartridge inserts rom and powers on. With a boot image of at least
// 256 bytes execution starts at 0x0000 under the boot overlay; otherwise
// the CPU and IO registers are set to their post-boot values.
func (m *Machine) LoadCartridge(rom []byte, boot []byte) error {
	h, err := cart.ParseHeader(rom)
	if err != nil {
		return fmt.Errorf("emu: %w", err)
	}
	c, err := cart.NewCartridge(rom)
	if err != nil {
		return fmt.Errorf("emu: %w", err)
	}
	m.header = h
	if len(boot) >= 0x100 {
		m.bootROM = make([]byte, 0x100)
		copy(m.bootROM, boot[:0x100])
	} else {
		m.bootROM = nil
	}
	if m.cfg.Palette == "auto" {
		m.palette = autoPalette(h)
	}
	m.log.WithFields(logrus.Fields{
		"title":   c.Name(),
		"type":    h.CartTypeStr,
		"banks":   h.ROMBanks,
		"ram":     h.RAMSizeBytes,
		"battery": cart.HasBattery(h.CartType),
		"palette": Palettes[m.palette].Name,
	}).Info("cartridge loaded")
	if !cart.HeaderChecksumOK(rom) {
		m.log.Warn("header checksum mismatch")
	}
	m.powerOn(c, m.bootROM != nil)
	return nil
}

// LoadROMFromFile reads a .gb/.gbc image, possibly inside a .gz, .zip or
// .7z archive, and loads it with the configured boot ROM.
func (m *Machine) LoadROMFromFile(path string) error {
	rom, err := romloader.Load(path)
	if err != nil {
		return err
	}
	if err := m.LoadCartridge(rom, m.bootROM); err != nil {
		return err
	}
	m.romPath = path
	return nil
}

// ROMPath returns the file the current cartridge was loaded from.
func (m *Machine) ROMPath() string { return m.romPath }

// SetBootROM sets the DMG boot ROM used by later loads and ResetWithBoot.
func (m *Machine) SetBootROM(data []byte) {
	if len(data) >= 0x100 {
		m.bootROM = make([]byte, 0x100)
		copy(m.bootROM, data[:0x100])
	} else {
		m.bootROM = nil
	}
}

// HasBootROM reports whether a DMG boot ROM is configured on this machine.
func (m *Machine) HasBootROM() bool { return len(m.bootROM) >= 0x100 }

// powerOn builds fresh devices around c and starts the CPU.
func (m *Machine) powerOn(c cart.Cartridge, useBoot bool) {
	m.bus = bus.NewWithCartridge(c)
	if m.serial != nil {
		m.bus.SetSerialWriter(m.serial)
	}
	m.cpu = cpu.New(m.bus)
	m.busy, m.clock, m.frameTicks = 0, 0, 0
	m.resume = false
	m.fatal = nil
	if useBoot {
		m.bus.SetBootROM(m.bootROM)
		m.cpu.SP = 0xFFFE
		m.cpu.PC = 0x0000
		return
	}
	m.cpu.ResetNoBoot()
	m.applyDMGPostBootIO()
}

// ResetPostBoot restarts the loaded cartridge at 0x0100 in post-boot state.
// Cartridge RAM is kept.
func (m *Machine) ResetPostBoot() error {
	if m.bus == nil {
		return ErrNoCartridge
	}
	m.powerOn(m.bus.Cart(), false)
	return nil
}

// ResetWithBoot restarts through the boot ROM, or post-boot without one.
func (m *Machine) ResetWithBoot() error {
	if m.bus == nil {
		return ErrNoCartridge
	}
	m.powerOn(m.bus.Cart(), m.bootROM != nil)
	return nil
}

// applyDMGPostBootIO sets the IO registers the boot ROM leaves behind, so
// ROMs can start from PC=0x0100 with the LCD already on.
func (m *Machine) applyDMGPostBootIO() {
	b := m.bus
	b.Timer().Reset(0xABCC)
	b.Write(0xFF00, 0xCF) // JOYP: no group selected
	b.Write(0xFF05, 0x00) // TIMA
	b.Write(0xFF06, 0x00) // TMA
	b.Write(0xFF07, 0x00) // TAC
	b.Write(0xFF0F, 0xE1) // IF: VBlank left pending
	b.Write(0xFF40, 0x91) // LCDC: LCD on, BG on, tile data 8000, BG map 9800
	b.Write(0xFF42, 0x00) // SCY
	b.Write(0xFF43, 0x00) // SCX
	b.Write(0xFF45, 0x00) // LYC
	b.Write(0xFF47, 0xFC) // BGP
	b.Write(0xFF48, 0xFF) // OBP0
	b.Write(0xFF49, 0xFF) // OBP1
	b.Write(0xFF4A, 0x00) // WY
	b.Write(0xFF4B, 0x00) // WX
	b.Write(0xFF50, 0x01) // boot overlay off
	b.Write(0xFFFF, 0x00) // IE
}

// CPU exposes the processor for tools and tests.
func (m *Machine) CPU() *cpu.CPU { return m.cpu }

// Bus exposes the memory bus for tools and tests.
func (m *Machine) Bus() *bus.Bus { return m.bus }

// Title returns the cartridge name, or "unknown" when nothing is loaded.
func (m *Machine) Title() string {
	if m.bus == nil {
		return "unknown"
	}
	return m.bus.Cart().Name()
}

// Clock returns the number of T-cycles the CPU has run since power on.
// Ticks spent halted or stopped are not counted.
func (m *Machine) Clock() uint64 { return m.clock }

// Fatal returns the CPU error that stopped the machine, or nil. Once set,
// Tick keeps returning it until LoadCartridge, ResetPostBoot or
// ResetWithBoot powers the machine on again.
func (m *Machine) Fatal() error { return m.fatal }

// HasBattery reports whether the loaded cartridge keeps its RAM.
func (m *Machine) HasBattery() bool {
	return m.header != nil && cart.HasBattery(m.header.CartType)
}

// SaveBattery returns a copy of battery-backed cartridge RAM.
func (m *Machine) SaveBattery() ([]byte, bool) {
	if m.bus == nil || !m.HasBattery() {
		return nil, false
	}
	bb, ok := m.bus.Cart().(cart.BatteryBacked)
	if !ok {
		return nil, false
	}
	data := bb.SaveRAM()
	return data, len(data) > 0
}

// LoadBattery restores battery-backed cartridge RAM.
func (m *Machine) LoadBattery(data []byte) bool {
	if m.bus == nil || !m.HasBattery() {
		return false
	}
	bb, ok := m.bus.Cart().(cart.BatteryBacked)
	if !ok {
		return false
	}
	bb.LoadRAM(data)
	return true
}

// SaveBatteryFile writes battery RAM to path. Cartridges without a battery
// write nothing and return nil.
func (m *Machine) SaveBatteryFile(path string) error {
	data, ok := m.SaveBattery()
	if !ok {
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("emu: save battery: %w", err)
	}
	m.log.WithFields(logrus.Fields{"path": path, "bytes": len(data)}).Info("battery saved")
	return nil
}

// LoadBatteryFile restores battery RAM from path. A missing file is not an error.
func (m *Machine) LoadBatteryFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("emu: load battery: %w", err)
	}
	if m.LoadBattery(data) {
		m.log.WithFields(logrus.Fields{"path": path, "bytes": len(data)}).Info("battery loaded")
	}
	return nil
}

// SetSerialWriter connects an io.Writer to receive bytes written to the serial port (FF01/FF02).
// The writer survives cartridge loads and resets.
func (m *Machine) SetSerialWriter(w io.Writer) {
	m.serial = w
	if m.bus != nil {
		m.bus.SetSerialWriter(w)
	}
}

func (m *Machine) SetButtons(b Buttons) {
	if m.bus == nil {
		return
	}
	var mask byte
	if b.Right {
		mask |= bus.JoypRight
	}
	if b.Left {
		mask |= bus.JoypLeft
	}
	if b.Up {
		mask |= bus.JoypUp
	}
	if b.Down {
		mask |= bus.JoypDown
	}
	if b.A {
		mask |= bus.JoypA
	}
	if b.B {
		mask |= bus.JoypB
	}
	if b.Select {
		mask |= bus.JoypSelectBtn
	}
	if b.Start {
		mask |= bus.JoypStart
	}
	m.bus.SetJoypadState(mask)
}
