package screenshot

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/image/bmp"
)

func frame(w, h int) []byte {
	pix := make([]byte, w*h*4)
	for i := 0; i < w*h; i++ {
		pix[i*4+0] = byte(i)
		pix[i*4+1] = byte(i >> 3)
		pix[i*4+2] = 0x60
		pix[i*4+3] = 0xFF
	}
	return pix
}

func TestEncodePNGRoundTrip(t *testing.T) {
	pix := frame(16, 8)
	var buf bytes.Buffer
	if err := Encode(&buf, "png", pix, 16, 8); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	img, format, err := image.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if format != "png" {
		t.Fatalf("format got %s want png", format)
	}
	want := color.RGBA{pix[4*17], pix[4*17+1], pix[4*17+2], 0xFF}
	if got := color.RGBAModel.Convert(img.At(1, 1)); got != want {
		t.Fatalf("pixel (1,1) got %v want %v", got, want)
	}
}

func TestEncodeBMP(t *testing.T) {
	pix := frame(16, 8)
	var buf bytes.Buffer
	if err := Encode(&buf, "bmp", pix, 16, 8); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	img, err := bmp.Decode(&buf)
	if err != nil {
		t.Fatalf("bmp decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 8 {
		t.Fatalf("bounds got %v want 16x8", b)
	}
	r, g, _, _ := img.At(3, 2).RGBA()
	i := 2*16 + 3
	if byte(r>>8) != pix[i*4] || byte(g>>8) != pix[i*4+1] {
		t.Fatalf("pixel (3,2) got r=%02x g=%02x", r>>8, g>>8)
	}
}

func TestEncodeRejectsBadInput(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, "png", make([]byte, 10), 16, 8); err == nil {
		t.Fatalf("short framebuffer accepted")
	}
	if err := Encode(&buf, "gif", frame(2, 2), 2, 2); err == nil {
		t.Fatalf("unknown format accepted")
	}
}

func TestSavePicksFormatFromExtension(t *testing.T) {
	dir := t.TempDir()
	pix := frame(4, 4)
	for _, name := range []string{"a.png", "b.BMP"} {
		path := filepath.Join(dir, name)
		if err := Save(path, pix, 4, 4); err != nil {
			t.Fatalf("Save %s: %v", name, err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		magic := string(data[:2])
		if name == "a.png" && magic != "\x89P" {
			t.Fatalf("%s magic %q", name, magic)
		}
		if name == "b.BMP" && magic != "BM" {
			t.Fatalf("%s magic %q", name, magic)
		}
	}
}

func TestName(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	if got := Name("png", ts); got != "screenshot_20240309_140507.png" {
		t.Fatalf("Name got %s", got)
	}
}
