// Package romloader reads cartridge images from disk, unpacking .gz, .zip
// and .7z archives on the way.
package romloader

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bodgit/sevenzip"
)

// ErrNoImage is returned when an archive holds no .gb/.gbc file.
var ErrNoImage = errors.New("romloader: archive contains no ROM image")

// Load reads path and returns the cartridge image it contains.
func Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(filepath.Base(path), data)
}

// Decode unpacks data according to the extension of name. Unknown
// extensions are returned unchanged.
func Decode(name string, data []byte) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz":
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("romloader: %s: %w", name, err)
		}
		defer zr.Close()
		return io.ReadAll(zr)
	case ".zip":
		zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, fmt.Errorf("romloader: %s: %w", name, err)
		}
		for _, f := range zr.File {
			if isImage(f.Name) {
				return readEntry(f.Open)
			}
		}
		return nil, ErrNoImage
	case ".7z":
		sr, err := sevenzip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, fmt.Errorf("romloader: %s: %w", name, err)
		}
		for _, f := range sr.File {
			if isImage(f.Name) {
				return readEntry(f.Open)
			}
		}
		return nil, ErrNoImage
	default:
		return data, nil
	}
}

// Find walks dir and returns every loadable file below it, sorted. Plain
// .gb/.gbc images and the archive types Decode understands are listed.
func Find(dir string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".gb", ".gbc", ".gz", ".zip", ".7z":
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("romloader: %w", err)
	}
	sort.Strings(out)
	return out, nil
}

func isImage(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gb", ".gbc":
		return true
	}
	return false
}

func readEntry(open func() (io.ReadCloser, error)) ([]byte, error) {
	rc, err := open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// SavePath returns the battery file next to a ROM: the extension
// (including any archive suffix) is replaced by .sav.
func SavePath(romPath string) string {
	base := romPath
	for {
		ext := filepath.Ext(base)
		switch strings.ToLower(ext) {
		case ".gz", ".zip", ".7z", ".gb", ".gbc":
			base = strings.TrimSuffix(base, ext)
			continue
		}
		return base + ".sav"
	}
}
