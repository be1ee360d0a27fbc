package atlas

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"io/fs"
	"math"
	"os"

	omterrors "github.com/omnimad/omt/pkg/errors"
)

// Binary directory layout, little-endian:
//
//	u16 magic, u16 version
//	u8[7] "OMATLAS", u8 compression ('S' = stored), u8[4] chunk version
//	u16 entry count
//	count x { u8[128] NUL-padded basename, f32[6] matrix }
const (
	fileMagic   uint16 = 0x4F53
	fileVersion uint16 = 0x0001

	chunkStored byte = 'S'

	// MaxEntries is the largest entry count a directory can record.
	MaxEntries = math.MaxUint16

	// MaxNameLength is the size of the NUL-padded name field of a record.
	MaxNameLength = 128
)

var (
	chunkMagic   = [7]byte{'O', 'M', 'A', 'T', 'L', 'A', 'S'}
	chunkVersion = [4]byte{0x01, 0x00, 0x00, 0x00}
)

type fileHeader struct {
	Magic        uint16
	Version      uint16
	ChunkMagic   [7]byte
	Compression  byte
	ChunkVersion [4]byte
	Count        uint16
}

type fileRecord struct {
	Name   [MaxNameLength]byte
	Matrix [6]float32
}

// Validate reports whether the page can be recorded in a binary directory:
// at most MaxEntries entries, each with a non-empty basename of at most
// MaxNameLength bytes.
func (a *Atlas) Validate() error {
	if len(a.entries) > MaxEntries {
		return omterrors.New(omterrors.ErrCodeInvalidInput,
			"too many entries for one atlas: %d (max %d)", len(a.entries), MaxEntries)
	}
	for _, e := range a.entries {
		if err := omterrors.ValidateEntryName(e.Basename(), MaxNameLength); err != nil {
			return err
		}
	}
	return nil
}

// WriteAtlas writes the binary directory for this page.
// The page is validated before anything is written.
func (a *Atlas) WriteAtlas(w io.Writer) error {
	if err := a.Validate(); err != nil {
		return err
	}

	hdr := fileHeader{
		Magic:        fileMagic,
		Version:      fileVersion,
		ChunkMagic:   chunkMagic,
		Compression:  chunkStored,
		ChunkVersion: chunkVersion,
		Count:        uint16(len(a.entries)),
	}
	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return err
	}

	for _, e := range a.entries {
		var rec fileRecord
		copy(rec.Name[:], e.Basename())
		rec.Matrix = e.Matrix(a.size)
		if err := binary.Write(w, binary.LittleEndian, &rec); err != nil {
			return err
		}
	}
	return nil
}

// ReadAtlas parses a binary directory into a page of the given size.
// Geometry is recovered by scaling the stored matrix by size and rounding to
// the nearest pixel. The returned page has a blank canvas and entries
// without pixels.
func ReadAtlas(r io.Reader, size int) (*Atlas, error) {
	var hdr fileHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, omterrors.Wrap(omterrors.ErrCodeInvalidFormat, err, "truncated atlas header")
	}
	switch {
	case hdr.Magic != fileMagic:
		return nil, omterrors.New(omterrors.ErrCodeInvalidFormat, "broken file magic %#04x", hdr.Magic)
	case hdr.Version != fileVersion:
		return nil, omterrors.New(omterrors.ErrCodeInvalidFormat, "unsupported atlas version %d", hdr.Version)
	case hdr.ChunkMagic != chunkMagic:
		return nil, omterrors.New(omterrors.ErrCodeInvalidFormat, "broken chunk magic")
	case hdr.Compression != chunkStored:
		return nil, omterrors.New(omterrors.ErrCodeUnsupported, "compressed atlas chunks (%q) are not supported", hdr.Compression)
	case hdr.ChunkVersion != chunkVersion:
		return nil, omterrors.New(omterrors.ErrCodeInvalidFormat, "broken chunk version")
	}

	a := New(size, 0)
	a.entries = make([]*Entry, 0, hdr.Count)
	for i := 0; i < int(hdr.Count); i++ {
		var rec fileRecord
		if err := binary.Read(r, binary.LittleEndian, &rec); err != nil {
			return nil, omterrors.Wrap(omterrors.ErrCodeInvalidFormat, err,
				"truncated atlas: entry %d of %d", i, hdr.Count)
		}
		name := rec.Name[:]
		if n := bytes.IndexByte(name, 0); n >= 0 {
			name = name[:n]
		}
		a.entries = append(a.entries, &Entry{
			Filename: string(name),
			Width:    scale(rec.Matrix[0], size),
			Height:   scale(rec.Matrix[4], size),
			X:        scale(rec.Matrix[2], size),
			Y:        scale(rec.Matrix[5], size),
		})
	}
	return a, nil
}

func scale(v float32, size int) int {
	return int(math.Round(float64(v) * float64(size)))
}

// LoadAtlas reads the binary directory at path. A missing file yields
// FILE_NOT_FOUND; a malformed one yields INVALID_FORMAT.
func LoadAtlas(path string, size int) (*Atlas, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, omterrors.Wrap(omterrors.ErrCodeFileNotFound, err, "open atlas %s", path)
		}
		return nil, omterrors.Wrap(omterrors.ErrCodeIO, err, "open atlas %s", path)
	}
	defer f.Close()

	a, err := ReadAtlas(bufio.NewReader(f), size)
	if err != nil {
		return nil, omterrors.Wrap(omterrors.GetCode(err), err, "load %s", path)
	}
	return a, nil
}
