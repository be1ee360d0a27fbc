package imageio

import (
	"errors"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io/fs"
	"os"
	"sync"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder

	omterrors "github.com/omnimad/omt/pkg/errors"
)

// Loader decodes images and caches the result per path.
//
// Loader is safe for concurrent use, although a build only ever uses it from
// one goroutine.
type Loader struct {
	mu     sync.RWMutex
	images map[string]image.Image
	loads  int
}

// NewLoader creates an empty loader.
func NewLoader() *Loader {
	return &Loader{
		images: make(map[string]image.Image),
	}
}

// Load returns the decoded image at path, reading it from disk only once.
//
// Errors carry FILE_NOT_FOUND when the file does not exist, IO_ERROR when it
// cannot be read, and DECODE_FAILED when its contents are not a supported
// image.
func (l *Loader) Load(path string) (image.Image, error) {
	l.mu.RLock()
	if img, ok := l.images[path]; ok {
		l.mu.RUnlock()
		return img, nil
	}
	l.mu.RUnlock()

	img, err := imaging.Open(path)
	if err != nil {
		return nil, classify(err, path)
	}

	l.mu.Lock()
	l.images[path] = img
	l.loads++
	l.mu.Unlock()

	return img, nil
}

// Loads returns how many times an image was actually decoded from disk.
func (l *Loader) Loads() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loads
}

// Len returns the number of cached images.
func (l *Loader) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.images)
}

// Evict removes a specific image from the cache.
func (l *Loader) Evict(path string) {
	l.mu.Lock()
	delete(l.images, path)
	l.mu.Unlock()
}

// Clear removes all images from the cache.
func (l *Loader) Clear() {
	l.mu.Lock()
	l.images = make(map[string]image.Image)
	l.mu.Unlock()
}

// Dimensions reads only the image header at path and returns its size.
func Dimensions(path string) (width, height int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, classify(err, path)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, omterrors.Wrap(omterrors.ErrCodeDecodeFailed, err, "decode header of %s", path)
	}
	return cfg.Width, cfg.Height, nil
}

// classify maps an open or decode failure to a coded error.
func classify(err error, path string) error {
	if errors.Is(err, fs.ErrNotExist) {
		return omterrors.Wrap(omterrors.ErrCodeFileNotFound, err, "open image %s", path)
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return omterrors.Wrap(omterrors.ErrCodeIO, err, "read image %s", path)
	}
	return omterrors.Wrap(omterrors.ErrCodeDecodeFailed, err, "decode image %s", path)
}
