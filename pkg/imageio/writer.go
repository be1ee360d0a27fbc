package imageio

import (
	"bufio"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"github.com/disintegration/imaging"

	omterrors "github.com/omnimad/omt/pkg/errors"
)

// NewCanvas returns a fully transparent size x size non-premultiplied RGBA canvas.
func NewCanvas(size int) *image.NRGBA {
	return imaging.New(size, size, color.Transparent)
}

// EncodePNG writes img to w as PNG with default compression.
func EncodePNG(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(png.DefaultCompression))
}

// SavePNG writes img to path as PNG, creating or truncating the file.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return omterrors.Wrap(omterrors.ErrCodeIO, err, "create %s", path)
	}

	bw := bufio.NewWriter(f)
	if err := EncodePNG(bw, img); err != nil {
		f.Close()
		return omterrors.Wrap(omterrors.ErrCodeIO, err, "encode %s", path)
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
