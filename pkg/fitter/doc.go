// Package fitter partitions rectangles across fixed-size square pages using
// shelf packing.
//
// The fitter is pure geometry: callers enqueue (id, width, height) requests
// and [Fitter.Fit] returns pages of placements. Ids are opaque and only
// travel with their placement.
//
// # Algorithm
//
// Each page is a stack of horizontal shelves ("rows"). A row's height is fixed
// by the first item placed in it; items append left-to-right. For every
// request, pages are tried in creation order and a new page is opened only
// when no existing page accepts it. Within a page:
//
//  1. Rows with enough remaining width, at least the item's height, and less
//     than twice the item's height are candidates.
//  2. The [RowSelector] picks one candidate ([FirstFit] by default).
//  3. Without candidates a new row exactly as tall as the item is opened
//     below the last one, if it fits.
//
// Requests are consumed in enqueue order. Packing quality depends on callers
// presenting requests sorted by decreasing height.
//
// # Borders
//
// The border passed to [Fitter.Fit] is recorded on each page but does not take
// part in placement. Callers that want spacing inflate each request by twice
// the border and offset the final position themselves.
//
// # Rejected requests
//
// A request that is wider or taller than the page can never be placed. It is
// logged at warning level and returned in [Result.Rejected] instead of on any
// page.
package fitter
