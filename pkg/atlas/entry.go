package atlas

import (
	"image"
	"path/filepath"
	"strings"
)

// Entry is one source image placed on a page.
//
// X and Y are final pixel positions, with any border already applied. Image
// holds the decoded pixels until the entry is composited; entries read back
// from a binary directory never carry pixels.
type Entry struct {
	Filename string
	Image    image.Image
	X, Y     int
	Width    int
	Height   int
}

// Basename returns the last path element of Filename. This is the name
// stored in .atlas and .map files.
func (e *Entry) Basename() string {
	return filepath.Base(e.Filename)
}

// Stem returns the basename without its final extension.
func (e *Entry) Stem() string {
	base := e.Basename()
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Rect returns the entry's area on the page.
func (e *Entry) Rect() image.Rectangle {
	return image.Rect(e.X, e.Y, e.X+e.Width, e.Y+e.Height)
}

// Matrix returns the entry's normalized 2x3 transform for a page of the
// given size, row-major: [w/size, 0, x/size, 0, h/size, y/size].
func (e *Entry) Matrix(size int) [6]float32 {
	s := float32(size)
	return [6]float32{
		float32(e.Width) / s, 0, float32(e.X) / s,
		0, float32(e.Height) / s, float32(e.Y) / s,
	}
}
