package romloader

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func image() []byte {
	rom := make([]byte, 0x8000)
	for i := range rom {
		rom[i] = byte(i * 7)
	}
	return rom
}

func TestDecodePlain(t *testing.T) {
	rom := image()
	got, err := Decode("game.gb", rom)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(got, rom) {
		t.Fatalf("plain image changed")
	}
}

func TestDecodeGzip(t *testing.T) {
	rom := image()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(rom); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	got, err := Decode("game.gb.gz", buf.Bytes())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(got, rom) {
		t.Fatalf("gzip image mismatch: len %d want %d", len(got), len(rom))
	}
}

func zipOf(t *testing.T, files map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecodeZipPicksROM(t *testing.T) {
	rom := image()
	data := zipOf(t, map[string][]byte{
		"readme.txt": []byte("hello"),
		"GAME.GB":    rom,
	})
	got, err := Decode("game.zip", data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(got, rom) {
		t.Fatalf("zip image mismatch")
	}
}

func TestDecodeZipWithoutROM(t *testing.T) {
	data := zipOf(t, map[string][]byte{"readme.txt": []byte("hello")})
	if _, err := Decode("game.zip", data); !errors.Is(err, ErrNoImage) {
		t.Fatalf("err got %v want ErrNoImage", err)
	}
}

func TestDecodeCorrupt7z(t *testing.T) {
	if _, err := Decode("game.7z", []byte("not an archive")); err == nil {
		t.Fatalf("corrupt 7z decoded without error")
	}
}

func TestLoadFromDisk(t *testing.T) {
	rom := image()
	path := filepath.Join(t.TempDir(), "game.gb")
	if err := os.WriteFile(path, rom, 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !bytes.Equal(got, rom) {
		t.Fatalf("loaded image mismatch")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.gb")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file err got %v", err)
	}
}

func TestSavePath(t *testing.T) {
	tests := map[string]string{
		"roms/tetris.gb":    "roms/tetris.sav",
		"roms/zelda.gbc":    "roms/zelda.sav",
		"roms/pkmn.gb.zip":  "roms/pkmn.sav",
		"roms/mario.7z":     "roms/mario.sav",
		"roms/no_extension": "roms/no_extension.sav",
		"roms/v1.1/game.GB": "roms/v1.1/game.sav",
	}
	for in, want := range tests {
		if got := SavePath(in); got != want {
			t.Fatalf("SavePath(%q) got %q want %q", in, got, want)
		}
	}
}

func TestFindListsLoadableFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"b.gb", "a.zip", "notes.txt", "sub/c.gbc", "sub/d.sav"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	got, err := Find(dir)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.zip"),
		filepath.Join(dir, "b.gb"),
		filepath.Join(dir, "sub", "c.gbc"),
	}
	if len(got) != len(want) {
		t.Fatalf("Find got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Find[%d] got %q want %q", i, got[i], want[i])
		}
	}
	if _, err := Find(filepath.Join(dir, "missing")); err == nil {
		t.Fatalf("missing dir gave no error")
	}
}
