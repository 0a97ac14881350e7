package emu

import "github.com/sirupsen/logrus"

// Config contains settings that affect emulation behavior.
type Config struct {
	Trace    bool   // log every instruction at Trace level
	LogLevel string // logrus level name, "info" when empty
	Palette  string // shade palette name, or "auto" to pick one from the cartridge title

	// Logger overrides the logger built from LogLevel.
	Logger *logrus.Logger
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Palette == "" {
		c.Palette = "gray"
	}
	if c.Trace && c.LogLevel != "trace" {
		c.LogLevel = "trace"
	}
}
