// Package screenshot encodes RGBA framebuffers as PNG or BMP images.
package screenshot

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/bmp"
)

// Image wraps an RGBA framebuffer of w*h pixels. The pixels are copied.
func Image(pix []byte, w, h int) (*image.RGBA, error) {
	if len(pix) != w*h*4 {
		return nil, fmt.Errorf("screenshot: framebuffer is %d bytes, want %d", len(pix), w*h*4)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	copy(img.Pix, pix)
	return img, nil
}

// Encode writes the framebuffer to out in the given format ("png" or "bmp").
func Encode(out io.Writer, format string, pix []byte, w, h int) error {
	img, err := Image(pix, w, h)
	if err != nil {
		return err
	}
	switch format {
	case "png":
		return png.Encode(out, img)
	case "bmp":
		return bmp.Encode(out, img)
	default:
		return fmt.Errorf("screenshot: unknown format %q", format)
	}
}

// Save writes the framebuffer to path, picking the format from the
// extension. Anything other than .bmp is written as PNG.
func Save(path string, pix []byte, w, h int) error {
	format := "png"
	if strings.EqualFold(filepath.Ext(path), ".bmp") {
		format = "bmp"
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, format, pix, w, h); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Name returns a timestamped file name such as screenshot_20060102_150405.png.
func Name(format string, now time.Time) string {
	return fmt.Sprintf("screenshot_%s.%s", now.Format("20060102_150405"), format)
}
