package atlas

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

var (
	red   = color.NRGBA{255, 0, 0, 255}
	green = color.NRGBA{0, 255, 0, 255}
	blue  = color.NRGBA{0, 0, 255, 255}
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// writePNG writes a solid w x h image to dir/name and returns its path.
func writePNG(t *testing.T, dir, name string, w, h int, c color.NRGBA) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, solid(w, h, c)); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	return path
}

// rgbInputs writes the red, green and blue 64x64 fixtures.
func rgbInputs(t *testing.T, dir string) []string {
	t.Helper()
	return []string{
		writePNG(t, dir, "red.png", 64, 64, red),
		writePNG(t, dir, "green.png", 64, 64, green),
		writePNG(t, dir, "blue.png", 64, 64, blue),
	}
}

func quietLogger() *log.Logger {
	return log.New(&bytes.Buffer{})
}

func overlapping(entries []*Entry) bool {
	for i := range entries {
		for j := i + 1; j < len(entries); j++ {
			if entries[i].Rect().Overlaps(entries[j].Rect()) {
				return true
			}
		}
	}
	return false
}
