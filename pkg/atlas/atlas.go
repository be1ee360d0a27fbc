package atlas

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"os"

	"golang.org/x/image/draw"

	omterrors "github.com/omnimad/omt/pkg/errors"
	"github.com/omnimad/omt/pkg/imageio"
)

// Atlas is one page: a square canvas and the entries placed on it.
type Atlas struct {
	size    int
	border  int
	entries []*Entry
	canvas  *image.NRGBA
}

// New creates an empty page. Its transparent size x size canvas is allocated
// on first use, so pages that are only measured never hold pixels.
func New(size, border int) *Atlas {
	return &Atlas{
		size:   size,
		border: border,
	}
}

func (a *Atlas) Size() int         { return a.size }
func (a *Atlas) Border() int       { return a.border }
func (a *Atlas) Entries() []*Entry { return a.entries }
func (a *Atlas) Len() int          { return len(a.entries) }

// Canvas returns the page pixels. It is transparent until BlitEntries runs.
func (a *Atlas) Canvas() *image.NRGBA {
	if a.canvas == nil {
		a.canvas = imageio.NewCanvas(a.size)
	}
	return a.canvas
}

// AddEntry appends an entry without compositing it.
func (a *Atlas) AddEntry(e *Entry) {
	a.entries = append(a.entries, e)
}

// BlitEntries copies every entry's pixels onto the canvas at its position,
// unscaled and unblended, then releases the entry's pixels. Entries without
// pixels are skipped, so a second call is a no-op.
func (a *Atlas) BlitEntries() {
	canvas := a.Canvas()
	for _, e := range a.entries {
		if e.Image == nil {
			continue
		}
		src := e.Image.Bounds()
		dst := image.Rect(e.X, e.Y, e.X+src.Dx(), e.Y+src.Dy())
		draw.Draw(canvas, dst, e.Image, src.Min, draw.Src)
		e.Image = nil
	}
}

// SavePNG writes the canvas to path.
func (a *Atlas) SavePNG(path string) error {
	return imageio.SavePNG(path, a.Canvas())
}

// WriteMap writes one "name:x,y-x2,y2" line per entry.
func (a *Atlas) WriteMap(w io.Writer) error {
	for _, e := range a.entries {
		if _, err := fmt.Fprintf(w, "%s:%d,%d-%d,%d\n",
			e.Basename(), e.X, e.Y, e.X+e.Width, e.Y+e.Height); err != nil {
			return err
		}
	}
	return nil
}

// SaveMap writes the text map to path.
func (a *Atlas) SaveMap(path string) error {
	return writeFile(path, a.WriteMap)
}

// SaveAtlas writes the binary directory to path. An invalid page is
// rejected before path is created.
func (a *Atlas) SaveAtlas(path string) error {
	if err := a.Validate(); err != nil {
		return err
	}
	return writeFile(path, a.WriteAtlas)
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return omterrors.Wrap(omterrors.ErrCodeIO, err, "create %s", path)
	}

	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		f.Close()
		if omterrors.GetCode(err) != "" {
			return err
		}
		return omterrors.Wrap(omterrors.ErrCodeIO, err, "write %s", path)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return omterrors.Wrap(omterrors.ErrCodeIO, err, "write %s", path)
	}
	if err := f.Close(); err != nil {
		return omterrors.Wrap(omterrors.ErrCodeIO, err, "close %s", path)
	}
	return nil
}
