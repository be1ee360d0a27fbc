package fitter

import (
	"github.com/charmbracelet/log"
)

// Request is one rectangle to place. ID is opaque to the fitter.
type Request struct {
	ID     int
	Width  int
	Height int
}

// RowInfo describes a candidate row offered to a RowSelector.
type RowInfo struct {
	Index     int // row index within the page, in creation order
	Y         int // top of the row
	Height    int // fixed row height
	Remaining int // free width at the end of the row
}

// RowSelector picks one of the candidate rows for a w x h item and returns
// its position in candidates. Candidates are non-empty and ordered by row
// creation. Out-of-range results fall back to the first candidate.
type RowSelector func(candidates []RowInfo, w, h int) int

// FirstFit picks the first candidate row.
func FirstFit(candidates []RowInfo, w, h int) int {
	return 0
}

// TightestFit picks the candidate whose height wastes the least space above
// the item, breaking ties by creation order. It produces different layouts
// than FirstFit and is not used by default.
func TightestFit(candidates []RowInfo, w, h int) int {
	best := 0
	for i, c := range candidates {
		if c.Height-h < candidates[best].Height-h {
			best = i
		}
	}
	return best
}

// Option configures a Fitter.
type Option func(*Fitter)

// WithSelector sets the row selection strategy. A nil selector is ignored.
func WithSelector(sel RowSelector) Option {
	return func(f *Fitter) {
		if sel != nil {
			f.selector = sel
		}
	}
}

// WithLogger sets the logger used to report rejected requests.
func WithLogger(l *log.Logger) Option {
	return func(f *Fitter) {
		if l != nil {
			f.logger = l
		}
	}
}

// Fitter collects requests and distributes them across pages.
// A Fitter is not safe for concurrent use.
type Fitter struct {
	requests []Request
	selector RowSelector
	logger   *log.Logger
}

// New creates an empty fitter.
func New(opts ...Option) *Fitter {
	f := &Fitter{
		selector: FirstFit,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// AddEntry enqueues a request. No validation happens here; impossible
// requests are rejected by Fit.
func (f *Fitter) AddEntry(id, width, height int) {
	f.requests = append(f.requests, Request{ID: id, Width: width, Height: height})
}

// Len returns the number of enqueued requests.
func (f *Fitter) Len() int {
	return len(f.requests)
}

// Result is the output of Fit.
type Result struct {
	// Pages in creation order.
	Pages []*Page

	// Rejected holds requests that cannot fit on an empty page, in enqueue order.
	Rejected []Request
}

// IDs returns every placed id, page by page in placement order.
func (r *Result) IDs() []int {
	var ids []int
	for _, p := range r.Pages {
		for _, pl := range p.placements {
			ids = append(ids, pl.ID)
		}
	}
	return ids
}

// Fit places all enqueued requests, in enqueue order, on size x size pages.
// The border is recorded on each page only; see the package documentation.
// Fit does not modify the queue and may be called repeatedly.
func (f *Fitter) Fit(size, border int) *Result {
	res := &Result{}

	for _, req := range f.requests {
		if req.Width < 0 || req.Height < 0 || req.Width > size || req.Height > size {
			f.logger.Warn("entry does not fit into an empty page, dropping it",
				"id", req.ID, "width", req.Width, "height", req.Height, "size", size)
			res.Rejected = append(res.Rejected, req)
			continue
		}

		placed := false
		for _, p := range res.Pages {
			if p.fit(req, f.selector) {
				placed = true
				break
			}
		}
		if placed {
			continue
		}

		p := newPage(size, border)
		if !p.fit(req, f.selector) {
			// unreachable for requests that passed the size check
			f.logger.Error("entry rejected by an empty page", "id", req.ID, "size", size)
			res.Rejected = append(res.Rejected, req)
			continue
		}
		res.Pages = append(res.Pages, p)
	}

	return res
}
