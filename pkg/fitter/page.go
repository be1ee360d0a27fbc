package fitter

// Placement is a request with its final position on a page.
type Placement struct {
	ID     int
	Width  int
	Height int
	X      int
	Y      int
}

// Right returns the exclusive right edge of the placement.
func (p Placement) Right() int { return p.X + p.Width }

// Bottom returns the exclusive bottom edge of the placement.
func (p Placement) Bottom() int { return p.Y + p.Height }

// Overlaps reports whether two placements share any pixel.
// Zero-area placements never overlap anything.
func (p Placement) Overlaps(o Placement) bool {
	if p.Width == 0 || p.Height == 0 || o.Width == 0 || o.Height == 0 {
		return false
	}
	return p.X < o.Right() && o.X < p.Right() && p.Y < o.Bottom() && o.Y < p.Bottom()
}

// row is a horizontal shelf inside a page.
type row struct {
	y      int // top of the row
	height int // fixed at creation
	endX   int // next free x
}

// Page is one fixed-size square of placements.
type Page struct {
	size       int
	border     int
	placements []Placement
	rows       []row // addressed by index, never by pointer across calls
	usedHeight int
	usedArea   int
}

func newPage(size, border int) *Page {
	return &Page{
		size:   size,
		border: border,
		rows:   make([]row, 0, 8),
	}
}

// Size returns the page width and height.
func (p *Page) Size() int { return p.size }

// Border returns the border the page was created with.
func (p *Page) Border() int { return p.border }

// Placements returns the placements in placement order.
func (p *Page) Placements() []Placement { return p.placements }

// Len returns the number of placements on the page.
func (p *Page) Len() int { return len(p.placements) }

// RowCount returns the number of shelves opened on the page.
func (p *Page) RowCount() int { return len(p.rows) }

// UsedHeight returns the summed height of all rows.
func (p *Page) UsedHeight() int { return p.usedHeight }

// UsedArea returns the summed area of all placements.
func (p *Page) UsedArea() int { return p.usedArea }

// Utilization returns the fraction of the page covered by placements (0.0 to 1.0).
func (p *Page) Utilization() float64 {
	if p.size <= 0 {
		return 0
	}
	return float64(p.usedArea) / float64(p.size*p.size)
}

// canEverFit reports whether a request could be placed on an empty page.
func (p *Page) canEverFit(r Request) bool {
	return r.Width >= 0 && r.Height >= 0 && r.Width <= p.size && r.Height <= p.size
}

// candidates returns the indices of rows that may take a w x h item, in
// row-creation order.
func (p *Page) candidates(w, h int) []int {
	var idx []int
	for i, r := range p.rows {
		if p.size-r.endX < w {
			continue
		}
		if r.height < h {
			continue
		}
		// keep tall rows for tall items
		if r.height >= 2*h {
			continue
		}
		idx = append(idx, i)
	}
	return idx
}

// addRow opens a new row of the given height and returns its index,
// or -1 when the page has no vertical room left.
func (p *Page) addRow(height int) int {
	if height > p.size-p.usedHeight {
		return -1
	}
	p.rows = append(p.rows, row{y: p.usedHeight, height: height})
	p.usedHeight += height
	return len(p.rows) - 1
}

// placeInRow appends the request to the row at index ri.
func (p *Page) placeInRow(r Request, ri int) Placement {
	pl := Placement{
		ID:     r.ID,
		Width:  r.Width,
		Height: r.Height,
		X:      p.rows[ri].endX,
		Y:      p.rows[ri].y,
	}
	p.rows[ri].endX += r.Width
	p.placements = append(p.placements, pl)
	p.usedArea += r.Width * r.Height
	return pl
}

// fit tries to place the request on this page.
func (p *Page) fit(r Request, sel RowSelector) bool {
	if !p.canEverFit(r) {
		return false
	}

	if cands := p.candidates(r.Width, r.Height); len(cands) > 0 {
		ri := sel(p.rowInfos(cands), r.Width, r.Height)
		if ri < 0 || ri >= len(cands) {
			ri = 0
		}
		p.placeInRow(r, cands[ri])
		return true
	}

	ri := p.addRow(r.Height)
	if ri < 0 {
		return false
	}
	p.placeInRow(r, ri)
	return true
}

func (p *Page) rowInfos(idx []int) []RowInfo {
	infos := make([]RowInfo, len(idx))
	for i, ri := range idx {
		r := p.rows[ri]
		infos[i] = RowInfo{
			Index:     ri,
			Y:         r.y,
			Height:    r.height,
			Remaining: p.size - r.endX,
		}
	}
	return infos
}
