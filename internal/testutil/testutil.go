// Package testutil provides test helpers and fixtures for imgcheck tests.
// All file operations use t.TempDir() for safe, isolated testing.
package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// TestFixture holds a temporary dataset directory
type TestFixture struct {
	T       testing.TB
	RootDir string // Root temp directory (auto-cleaned)
}

// NewFixture creates a new, empty dataset directory
func NewFixture(t testing.TB) *TestFixture {
	t.Helper()

	return &TestFixture{
		T:       t,
		RootDir: t.TempDir(),
	}
}

// =============================================================================
// Image Helpers
// =============================================================================

// EncodeImage returns a width x height image encoded as format
// ("png", "jpeg" or "gif")
func EncodeImage(t testing.TB, format string, width, height int) []byte {
	t.Helper()
	return encode(t, format, newRGBA(width, height))
}

// WriteImage writes a valid image and returns its path
func (f *TestFixture) WriteImage(name, format string, width, height int) string {
	f.T.Helper()
	return f.WriteFile(name, EncodeImage(f.T, format, width, height))
}

// WriteGrayImage writes a valid grayscale PNG and returns its path
func (f *TestFixture) WriteGrayImage(name string, width, height int) string {
	f.T.Helper()

	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8((x + y) % 256)})
		}
	}
	return f.WriteFile(name, encode(f.T, "png", img))
}

// WriteTruncatedImage writes the first half of a valid image
func (f *TestFixture) WriteTruncatedImage(name, format string, width, height int) string {
	f.T.Helper()

	data := EncodeImage(f.T, format, width, height)
	return f.WriteFile(name, data[:len(data)/2])
}

// WriteCorrupt writes bytes that start like a JPEG but cannot be decoded
func (f *TestFixture) WriteCorrupt(name string) string {
	f.T.Helper()

	data := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, bytes.Repeat([]byte("garbage"), 16)...)
	return f.WriteFile(name, data)
}

// =============================================================================
// File and Directory Helpers
// =============================================================================

// WriteFile creates a file with specified content and returns its path
func (f *TestFixture) WriteFile(name string, content []byte) string {
	f.T.Helper()

	fullPath := filepath.Join(f.RootDir, name)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		f.T.Fatalf("failed to create directory for %s: %v", fullPath, err)
	}
	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		f.T.Fatalf("failed to create file %s: %v", fullPath, err)
	}

	return fullPath
}

// CreateDir creates a directory and returns its path
func (f *TestFixture) CreateDir(name string) string {
	f.T.Helper()

	fullPath := filepath.Join(f.RootDir, name)
	if err := os.MkdirAll(fullPath, 0755); err != nil {
		f.T.Fatalf("failed to create directory %s: %v", fullPath, err)
	}
	return fullPath
}

// Remove deletes an entry from the dataset directory
func (f *TestFixture) Remove(name string) {
	f.T.Helper()

	if err := os.RemoveAll(filepath.Join(f.RootDir, name)); err != nil {
		f.T.Fatalf("failed to remove %s: %v", name, err)
	}
}

// EntryCount returns the number of entries in the dataset directory
func (f *TestFixture) EntryCount() int {
	f.T.Helper()

	entries, err := os.ReadDir(f.RootDir)
	if err != nil {
		f.T.Fatalf("failed to read %s: %v", f.RootDir, err)
	}
	return len(entries)
}

// WriteScenario lays out the standard mixed dataset:
// a.jpg (224x224), b.png (100x100), c.txt (text), d.jpg (corrupt)
func (f *TestFixture) WriteScenario() {
	f.T.Helper()

	f.WriteImage("a.jpg", "jpeg", 224, 224)
	f.WriteImage("b.png", "png", 100, 100)
	f.WriteFile("c.txt", []byte("not an image"))
	f.WriteCorrupt("d.jpg")
}

func newRGBA(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	return img
}

func encode(t testing.TB, format string, img image.Image) []byte {
	t.Helper()

	var buf bytes.Buffer
	var err error

	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "jpeg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		t.Fatalf("unsupported test image format %q", format)
	}
	if err != nil {
		t.Fatalf("failed to encode %s: %v", format, err)
	}

	return buf.Bytes()
}
