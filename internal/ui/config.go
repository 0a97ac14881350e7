package ui

// Config contains window and input related settings.
type Config struct {
	Title   string // window title prefix
	Scale   int    // integer upscaling factor
	ROMsDir string // directory to browse for ROMs
	NoSave  bool   // skip reading and writing .sav files
	// ScreenshotFormat is "png" or "bmp".
	ScreenshotFormat string
	// FastFrames is the number of frames run per update while Tab is held.
	FastFrames int
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.Title == "" {
		c.Title = "gbemu"
	}
	if c.Scale <= 0 {
		c.Scale = 3
	}
	if c.ROMsDir == "" {
		c.ROMsDir = "roms"
	}
	if c.ScreenshotFormat != "bmp" {
		c.ScreenshotFormat = "png"
	}
	if c.FastFrames <= 0 {
		c.FastFrames = 5
	}
}
