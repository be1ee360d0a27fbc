package atlas

import (
	"cmp"
	"context"
	"image"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	omterrors "github.com/omnimad/omt/pkg/errors"
	"github.com/omnimad/omt/pkg/fitter"
	"github.com/omnimad/omt/pkg/imageio"
	"github.com/omnimad/omt/pkg/observability"
)

// DefaultMaximumSize caps the autosize search when no maximum is configured.
const DefaultMaximumSize = 65536

// SetOption configures a Set.
type SetOption func(*Set)

// WithBorder sets the transparent margin kept around every entry.
func WithBorder(border int) SetOption {
	return func(s *Set) { s.border = border }
}

// WithTargetSize sets the page size used by Refit.
func WithTargetSize(size int) SetOption {
	return func(s *Set) { s.targetSize = size }
}

// WithMaximumSize sets the largest page size Autosize may choose.
// Values <= 0 select DefaultMaximumSize.
func WithMaximumSize(size int) SetOption {
	return func(s *Set) { s.maximumSize = size }
}

// WithReferencePath sets the directory that receives .omtr back-references.
func WithReferencePath(dir string) SetOption {
	return func(s *Set) { s.referencePath = dir }
}

// WithInputs appends source image paths. Input order is significant: it
// breaks ties between entries of equal height.
func WithInputs(paths ...string) SetOption {
	return func(s *Set) { s.inputs = append(s.inputs, paths...) }
}

// WithLogger sets the logger for the set and its fitter.
func WithLogger(l *log.Logger) SetOption {
	return func(s *Set) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithLoader replaces the decode cache. A Loader must not be shared between
// unrelated sets.
func WithLoader(l *imageio.Loader) SetOption {
	return func(s *Set) {
		if l != nil {
			s.loader = l
		}
	}
}

// WithSelector sets the fitter's row selection strategy.
func WithSelector(sel fitter.RowSelector) SetOption {
	return func(s *Set) { s.selector = sel }
}

// Set is one combine job: its configuration, its inputs, and after Refit the
// resulting pages. A Set is not safe for concurrent use.
type Set struct {
	border        int
	targetSize    int
	maximumSize   int
	referencePath string
	inputs        []string

	logger   *log.Logger
	loader   *imageio.Loader
	selector fitter.RowSelector

	atlases  []*Atlas
	rejected []string

	// probing silences per-input warnings while Autosize tries sizes
	probing bool
}

// NewSet creates a set from options.
func NewSet(opts ...SetOption) *Set {
	s := &Set{
		logger: log.Default(),
		loader: imageio.NewLoader(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.maximumSize <= 0 {
		s.maximumSize = DefaultMaximumSize
	}
	return s
}

func (s *Set) Atlases() []*Atlas     { return s.atlases }
func (s *Set) TargetSize() int       { return s.targetSize }
func (s *Set) MaximumSize() int      { return s.maximumSize }
func (s *Set) Border() int           { return s.border }
func (s *Set) ReferencePath() string { return s.referencePath }
func (s *Set) Inputs() []string      { return s.inputs }

// Rejected returns the inputs the last Refit could not place because they
// are larger than a page, in input order.
func (s *Set) Rejected() []string { return s.rejected }

// Refit packs every input onto pages of TargetSize and returns the page
// count. Pixels are decoded (once per path) but not composited.
func (s *Set) Refit(ctx context.Context) (int, error) {
	if len(s.inputs) == 0 {
		return 0, omterrors.New(omterrors.ErrCodeInvalidInput, "no input images")
	}
	if s.targetSize <= 0 {
		return 0, omterrors.New(omterrors.ErrCodeInvalidSize, "no target size set")
	}

	hooks := observability.Pack()
	start := time.Now()
	hooks.OnRefitStart(ctx, s.targetSize, len(s.inputs))

	n, err := s.refit(ctx)

	hooks.OnRefitComplete(ctx, s.targetSize, n, len(s.rejected), time.Since(start), err)
	return n, err
}

func (s *Set) refit(ctx context.Context) (int, error) {
	s.atlases = nil
	s.rejected = nil

	entries := make(map[int]*Entry, len(s.inputs))
	requests := make([]fitter.Request, 0, len(s.inputs))
	for i, path := range s.inputs {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		img, err := s.load(ctx, path)
		if err != nil {
			return 0, err
		}
		b := img.Bounds()
		entries[i] = &Entry{Filename: path, Image: img, Width: b.Dx(), Height: b.Dy()}
		requests = append(requests, fitter.Request{
			ID:     i,
			Width:  b.Dx() + 2*s.border,
			Height: b.Dy() + 2*s.border,
		})
	}

	slices.SortStableFunc(requests, func(a, b fitter.Request) int {
		return cmp.Compare(b.Height, a.Height)
	})

	fitLogger := s.logger
	if s.probing {
		fitLogger = log.New(io.Discard)
	}
	f := fitter.New(fitter.WithLogger(fitLogger), fitter.WithSelector(s.selector))
	for _, r := range requests {
		f.AddEntry(r.ID, r.Width, r.Height)
	}
	res := f.Fit(s.targetSize, s.border)

	s.rejected = s.rejectedInInputOrder(res.Rejected)
	if !s.probing {
		s.reportRejected()
	}

	for _, p := range res.Pages {
		a := New(p.Size(), p.Border())
		for _, pl := range p.Placements() {
			e := entries[pl.ID]
			e.X = pl.X + s.border
			e.Y = pl.Y + s.border
			a.AddEntry(e)
		}
		s.atlases = append(s.atlases, a)
	}

	return len(s.atlases), nil
}

func (s *Set) rejectedInInputOrder(reqs []fitter.Request) []string {
	if len(reqs) == 0 {
		return nil
	}
	ids := make([]int, 0, len(reqs))
	for _, r := range reqs {
		ids = append(ids, r.ID)
	}
	slices.Sort(ids)
	paths := make([]string, 0, len(ids))
	for _, id := range ids {
		paths = append(paths, s.inputs[id])
	}
	return paths
}

func (s *Set) reportRejected() {
	for _, path := range s.rejected {
		s.logger.Warn("input is larger than a page, skipping it", "input", path, "size", s.targetSize)
	}
}

func (s *Set) load(ctx context.Context, path string) (image.Image, error) {
	before := s.loader.Loads()
	img, err := s.loader.Load(path)
	if err != nil {
		return nil, err
	}
	if s.loader.Loads() > before {
		observability.Decode().OnDecodeMiss(ctx, path)
	} else {
		observability.Decode().OnDecodeHit(ctx, path)
	}
	return img, nil
}

// Autosize finds the smallest power-of-two page size, starting at 2, that
// holds every input on a single page, and returns the resulting page count.
// When the next doubling would exceed MaximumSize, one last Refit runs at
// exactly MaximumSize and its outcome is accepted, even if it needs more than
// one page or has to skip inputs. TargetSize is left at the chosen size.
func (s *Set) Autosize(ctx context.Context) (int, error) {
	s.probing = true
	defer func() { s.probing = false }()

	hooks := observability.Pack()
	size := min(2, s.maximumSize)
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		s.targetSize = size
		n, err := s.Refit(ctx)
		if err != nil {
			return 0, err
		}
		hooks.OnAutosizeStep(ctx, size, n)
		if n == 1 && len(s.rejected) == 0 {
			return n, nil
		}

		if size*2 > s.maximumSize {
			if size < s.maximumSize {
				s.targetSize = s.maximumSize
				if n, err = s.Refit(ctx); err != nil {
					return 0, err
				}
				hooks.OnAutosizeStep(ctx, s.maximumSize, n)
			}
			if n != 1 || len(s.rejected) > 0 {
				s.logger.Warn("autosize reached the maximum size", "maximum_size", s.maximumSize, "pages", n)
				s.reportRejected()
			}
			return n, nil
		}
		size *= 2
	}
}

// Save composites every page and writes <name>.png, <name>.atlas and
// <name>.map for each, where name is outputTemplate with "%d" replaced by the
// page index. When referencePath is non-empty, every entry also gets a
// <referencePath>/<stem>.omtr file naming its page. Pages already written
// are left in place if a later one fails. Save returns the number of pages
// written.
func (s *Set) Save(ctx context.Context, outputTemplate, referencePath string) (int, error) {
	if err := omterrors.ValidateTemplate(outputTemplate); err != nil {
		return 0, err
	}

	hooks := observability.Pack()
	for n, a := range s.atlases {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		start := time.Now()
		name := FormatTemplate(outputTemplate, n)

		// no file of a page is written unless its directory can be
		if err := a.Validate(); err != nil {
			return n, err
		}
		a.BlitEntries()
		if err := a.SavePNG(name + ImageExt); err != nil {
			return n, err
		}
		if err := a.SaveAtlas(name + AtlasExt); err != nil {
			return n, err
		}
		if err := a.SaveMap(name + MapExt); err != nil {
			return n, err
		}
		if referencePath != "" {
			if err := s.saveReferences(a, name, referencePath); err != nil {
				return n, err
			}
		}

		hooks.OnPageSaved(ctx, n, name, a.Len(), time.Since(start))
	}
	return len(s.atlases), nil
}

func (s *Set) saveReferences(a *Atlas, name, dir string) error {
	content := []byte(filepath.Base(name) + "\n")
	for _, e := range a.entries {
		path := filepath.Join(dir, e.Stem()+ReferenceExt)
		if err := os.WriteFile(path, content, 0o644); err != nil {
			return omterrors.Wrap(omterrors.ErrCodeIO, err, "write reference %s", path)
		}
	}
	return nil
}
