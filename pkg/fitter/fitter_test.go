package fitter

import (
	"bytes"
	"math/rand"
	"reflect"
	"sort"
	"testing"

	"github.com/charmbracelet/log"
)

func quietFitter(opts ...Option) *Fitter {
	return New(append([]Option{WithLogger(log.New(&bytes.Buffer{}))}, opts...)...)
}

func TestFitter_ThreeSquares(t *testing.T) {
	f := quietFitter()
	f.AddEntry(0, 64, 64)
	f.AddEntry(1, 64, 64)
	f.AddEntry(2, 64, 64)

	res := f.Fit(128, 0)
	if len(res.Pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(res.Pages))
	}
	if len(res.Rejected) != 0 {
		t.Errorf("expected no rejected entries, got %v", res.Rejected)
	}

	want := []Placement{
		{ID: 0, Width: 64, Height: 64, X: 0, Y: 0},
		{ID: 1, Width: 64, Height: 64, X: 64, Y: 0},
		{ID: 2, Width: 64, Height: 64, X: 0, Y: 64},
	}
	if got := res.Pages[0].Placements(); !reflect.DeepEqual(got, want) {
		t.Errorf("placements = %+v, want %+v", got, want)
	}
	if res.Pages[0].RowCount() != 2 {
		t.Errorf("expected 2 rows, got %d", res.Pages[0].RowCount())
	}
}

func TestFitter_OnePerPage(t *testing.T) {
	f := quietFitter()
	for i := 0; i < 3; i++ {
		f.AddEntry(i, 64, 64)
	}

	res := f.Fit(64, 0)
	if len(res.Pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(res.Pages))
	}
	for i, p := range res.Pages {
		if p.Len() != 1 {
			t.Errorf("page %d: expected 1 entry, got %d", i, p.Len())
		}
		if p.Utilization() != 1.0 {
			t.Errorf("page %d: expected full utilization, got %f", i, p.Utilization())
		}
	}
}

func TestFitter_Oversized(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"both too large", 300, 300},
		{"too wide", 129, 10},
		{"too tall", 10, 129},
		{"negative width", -1, 10},
		{"negative height", 10, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			f := New(WithLogger(log.New(&buf)))
			f.AddEntry(7, tt.width, tt.height)

			res := f.Fit(128, 0)
			if len(res.Pages) != 0 {
				t.Errorf("expected no pages, got %d", len(res.Pages))
			}
			if len(res.Rejected) != 1 || res.Rejected[0].ID != 7 {
				t.Errorf("expected entry 7 rejected, got %+v", res.Rejected)
			}
			if buf.Len() == 0 {
				t.Error("expected a warning to be logged")
			}
		})
	}
}

func TestFitter_OversizedAmongOthers(t *testing.T) {
	f := quietFitter()
	f.AddEntry(0, 300, 300)
	f.AddEntry(1, 64, 64)
	f.AddEntry(2, 32, 32)

	res := f.Fit(128, 0)
	if len(res.Pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(res.Pages))
	}
	if got := res.IDs(); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Errorf("placed ids = %v, want [1 2]", got)
	}
	if len(res.Rejected) != 1 || res.Rejected[0].ID != 0 {
		t.Errorf("rejected = %+v, want id 0", res.Rejected)
	}
}

func TestFitter_ExactFit(t *testing.T) {
	f := quietFitter()
	f.AddEntry(0, 128, 128)

	res := f.Fit(128, 0)
	if len(res.Pages) != 1 || res.Pages[0].Len() != 1 {
		t.Fatalf("expected a single full page, got %+v", res)
	}
	if res.Pages[0].UsedHeight() != 128 {
		t.Errorf("used height = %d, want 128", res.Pages[0].UsedHeight())
	}
}

func TestFitter_ZeroSize(t *testing.T) {
	f := quietFitter()
	f.AddEntry(0, 0, 0)
	f.AddEntry(1, 16, 0)

	res := f.Fit(32, 0)
	if len(res.Rejected) != 0 {
		t.Errorf("zero-size entries should be placed, rejected %+v", res.Rejected)
	}
	if got := len(res.IDs()); got != 2 {
		t.Errorf("expected 2 placements, got %d", got)
	}
}

func TestFitter_WasteBound(t *testing.T) {
	f := quietFitter()
	f.AddEntry(0, 20, 40) // row 0, height 40
	f.AddEntry(1, 20, 30) // 40 < 60: shares row 0
	f.AddEntry(2, 20, 20) // 40 >= 40: too much waste, opens row 1

	res := f.Fit(100, 0)
	pl := res.Pages[0].Placements()

	if pl[1].X != 20 || pl[1].Y != 0 {
		t.Errorf("entry 1 at (%d,%d), want (20,0)", pl[1].X, pl[1].Y)
	}
	if pl[2].X != 0 || pl[2].Y != 40 {
		t.Errorf("entry 2 at (%d,%d), want (0,40)", pl[2].X, pl[2].Y)
	}
	if res.Pages[0].RowCount() != 2 {
		t.Errorf("expected 2 rows, got %d", res.Pages[0].RowCount())
	}
}

func TestFitter_TallerThanRow(t *testing.T) {
	f := quietFitter()
	f.AddEntry(0, 10, 10)
	f.AddEntry(1, 10, 20) // taller than row 0, needs a new row

	res := f.Fit(100, 0)
	pl := res.Pages[0].Placements()
	if pl[1].Y != 10 || pl[1].X != 0 {
		t.Errorf("entry 1 at (%d,%d), want (0,10)", pl[1].X, pl[1].Y)
	}
}

func TestFitter_EarlierPagesFirst(t *testing.T) {
	f := quietFitter()
	f.AddEntry(0, 64, 48) // page 0, row 0
	f.AddEntry(1, 64, 48) // page 1: row 0 has no width left, no room for a 48 row
	f.AddEntry(2, 64, 16) // back on page 0, new row at y=48

	res := f.Fit(64, 0)
	if len(res.Pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(res.Pages))
	}
	p0 := res.Pages[0].Placements()
	if len(p0) != 2 || p0[1].ID != 2 || p0[1].Y != 48 {
		t.Errorf("page 0 placements = %+v, want entry 2 at y=48", p0)
	}
}

func TestFitter_Selector(t *testing.T) {
	build := func(sel RowSelector) Placement {
		f := quietFitter(WithSelector(sel))
		f.AddEntry(0, 30, 30)
		f.AddEntry(1, 30, 30)
		f.AddEntry(2, 30, 30) // row 0 now has 10 px left
		f.AddEntry(3, 25, 25) // row 1 at y=30
		f.AddEntry(4, 10, 20) // both rows are candidates
		res := f.Fit(100, 0)
		return res.Pages[0].Placements()[4]
	}

	first := build(FirstFit)
	if first.X != 90 || first.Y != 0 {
		t.Errorf("FirstFit placed at (%d,%d), want (90,0)", first.X, first.Y)
	}

	tight := build(TightestFit)
	if tight.X != 25 || tight.Y != 30 {
		t.Errorf("TightestFit placed at (%d,%d), want (25,30)", tight.X, tight.Y)
	}

	// nil selector keeps the default
	if got := build(nil); got != first {
		t.Errorf("nil selector placed at %+v, want %+v", got, first)
	}
}

func TestFitter_OutOfRangeSelector(t *testing.T) {
	f := quietFitter(WithSelector(func([]RowInfo, int, int) int { return 99 }))
	f.AddEntry(0, 10, 10)
	f.AddEntry(1, 10, 10)

	res := f.Fit(100, 0)
	pl := res.Pages[0].Placements()
	if pl[1].X != 10 || pl[1].Y != 0 {
		t.Errorf("entry 1 at (%d,%d), want fallback to first candidate (10,0)", pl[1].X, pl[1].Y)
	}
}

func TestFitter_BorderIsRecordedOnly(t *testing.T) {
	f := quietFitter()
	f.AddEntry(0, 10, 10)
	f.AddEntry(1, 10, 10)

	res := f.Fit(100, 7)
	p := res.Pages[0]
	if p.Border() != 7 {
		t.Errorf("Border() = %d, want 7", p.Border())
	}
	if pl := p.Placements(); pl[0].X != 0 || pl[1].X != 10 {
		t.Errorf("border must not shift placements: %+v", pl)
	}
}

func TestFitter_FitIsRepeatable(t *testing.T) {
	f := quietFitter()
	for i, sz := range [][2]int{{30, 40}, {50, 20}, {10, 10}, {60, 60}} {
		f.AddEntry(i, sz[0], sz[1])
	}

	a := f.Fit(64, 0)
	b := f.Fit(64, 0)
	if !reflect.DeepEqual(a.IDs(), b.IDs()) {
		t.Errorf("repeated Fit differs: %v vs %v", a.IDs(), b.IDs())
	}
	if f.Len() != 4 {
		t.Errorf("Len() = %d, want 4", f.Len())
	}
}

func TestPlacement_Overlaps(t *testing.T) {
	a := Placement{X: 0, Y: 0, Width: 10, Height: 10}
	tests := []struct {
		name string
		b    Placement
		want bool
	}{
		{"same", a, true},
		{"touching right", Placement{X: 10, Y: 0, Width: 10, Height: 10}, false},
		{"touching below", Placement{X: 0, Y: 10, Width: 10, Height: 10}, false},
		{"inside", Placement{X: 2, Y: 2, Width: 2, Height: 2}, true},
		{"corner overlap", Placement{X: 9, Y: 9, Width: 5, Height: 5}, true},
		{"zero area", Placement{X: 5, Y: 5, Width: 0, Height: 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
		})
	}
}

// randomRequests returns n pseudo-random requests sorted by decreasing height.
func randomRequests(seed int64, n, maxDim int) []Request {
	rng := rand.New(rand.NewSource(seed))
	reqs := make([]Request, n)
	for i := range reqs {
		reqs[i] = Request{ID: i, Width: 1 + rng.Intn(maxDim), Height: 1 + rng.Intn(maxDim)}
	}
	sort.SliceStable(reqs, func(i, j int) bool { return reqs[i].Height > reqs[j].Height })
	return reqs
}

func TestFitter_Properties(t *testing.T) {
	const size = 256

	for _, seed := range []int64{1, 2, 3, 42} {
		reqs := randomRequests(seed, 200, 300)

		f := quietFitter()
		for _, r := range reqs {
			f.AddEntry(r.ID, r.Width, r.Height)
		}
		res := f.Fit(size, 0)

		// No overlap, in bounds
		for pi, p := range res.Pages {
			pl := p.Placements()
			for i := range pl {
				if pl[i].X < 0 || pl[i].Y < 0 || pl[i].Right() > size || pl[i].Bottom() > size {
					t.Errorf("seed %d page %d: %+v out of bounds", seed, pi, pl[i])
				}
				for j := i + 1; j < len(pl); j++ {
					if pl[i].Overlaps(pl[j]) {
						t.Errorf("seed %d page %d: %+v overlaps %+v", seed, pi, pl[i], pl[j])
					}
				}
			}
			if p.UsedHeight() > size {
				t.Errorf("seed %d page %d: used height %d exceeds size", seed, pi, p.UsedHeight())
			}
		}

		// Conservation: submitted = placed + rejected oversized
		seen := make(map[int]bool)
		for _, id := range res.IDs() {
			if seen[id] {
				t.Errorf("seed %d: id %d placed twice", seed, id)
			}
			seen[id] = true
		}
		for _, r := range res.Rejected {
			if r.Width <= size && r.Height <= size {
				t.Errorf("seed %d: %+v rejected but fits an empty page", seed, r)
			}
			seen[r.ID] = true
		}
		if len(seen) != len(reqs) {
			t.Errorf("seed %d: accounted for %d ids, submitted %d", seed, len(seen), len(reqs))
		}

		// Determinism
		g := quietFitter()
		for _, r := range reqs {
			g.AddEntry(r.ID, r.Width, r.Height)
		}
		again := g.Fit(size, 0)
		if len(again.Pages) != len(res.Pages) {
			t.Fatalf("seed %d: page count differs between runs", seed)
		}
		for i := range res.Pages {
			if !reflect.DeepEqual(res.Pages[i].Placements(), again.Pages[i].Placements()) {
				t.Errorf("seed %d: page %d placements differ between runs", seed, i)
			}
		}
	}
}
