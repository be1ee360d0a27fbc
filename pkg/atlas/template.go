package atlas

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/omnimad/omt/pkg/imageio"
)

// File suffixes written for every page and reference.
const (
	ImageExt     = ".png"
	AtlasExt     = ".atlas"
	MapExt       = ".map"
	ReferenceExt = ".omtr"
)

// Placeholder is the literal token replaced by the page index in output
// templates.
const Placeholder = "%d"

// FormatTemplate replaces every literal "%d" in tpl with n. No other
// formatting directives are interpreted.
func FormatTemplate(tpl string, n int) string {
	return strings.ReplaceAll(tpl, Placeholder, strconv.Itoa(n))
}

// Page is an existing page found on disk by Discover.
type Page struct {
	Index     int
	Name      string // template with the index substituted
	AtlasPath string
	ImagePath string
	Atlas     *Atlas
}

// Discover probes tpl with indices 0, 1, 2, ... and loads each page whose
// .atlas and .png files both exist, stopping at the first index where either
// is missing. The page size comes from the PNG header; non-square pages are
// logged and their width is used. A corrupt directory or image is an error;
// finding nothing is not.
func Discover(tpl string, logger *log.Logger) ([]*Page, error) {
	if logger == nil {
		logger = log.Default()
	}

	var pages []*Page
	for n := 0; ; n++ {
		name := FormatTemplate(tpl, n)
		atlasPath := name + AtlasExt
		imagePath := name + ImageExt

		if !exists(atlasPath) {
			logger.Debug("atlas not found, stopping", "path", atlasPath)
			break
		}
		if !exists(imagePath) {
			logger.Debug("atlas image not found, stopping", "path", imagePath)
			break
		}

		w, h, err := imageio.Dimensions(imagePath)
		if err != nil {
			return nil, err
		}
		if w != h {
			logger.Warn("non-square texture atlas", "path", imagePath, "width", w, "height", h)
		}

		a, err := LoadAtlas(atlasPath, w)
		if err != nil {
			return nil, err
		}
		pages = append(pages, &Page{
			Index:     n,
			Name:      name,
			AtlasPath: atlasPath,
			ImagePath: imagePath,
			Atlas:     a,
		})

		// a template without a placeholder names the same files every time
		if !strings.Contains(tpl, Placeholder) {
			break
		}
	}
	return pages, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
