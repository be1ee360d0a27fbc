// Package atlas combines source images into square texture pages and reads
// and writes the files that describe them.
//
// # Overview
//
// A [Set] is one combine job. [Set.Refit] decodes the inputs, packs them with
// [fitter.Fitter] and builds one [Atlas] per page. [Set.Autosize] searches for
// the smallest power-of-two page size that fits everything on one page.
// [Set.Save] composites and writes each page:
//
//	set := atlas.NewSet(
//	    atlas.WithInputs("a.png", "b.png", "c.png"),
//	    atlas.WithBorder(2),
//	    atlas.WithMaximumSize(2048),
//	)
//	if _, err := set.Autosize(ctx); err != nil {
//	    return err
//	}
//	pages, err := set.Save(ctx, "ui-%d", "")
//
// # Output Files
//
// For page n, "%d" in the output template is replaced by n and three files
// are written next to each other:
//
//	<name>.png    the composited page, pixels copied verbatim
//	<name>.atlas  binary directory: per entry its basename and a normalized matrix
//	<name>.map    text directory: "basename:x,y-x2,y2" per line
//
// With a reference path, every entry also gets <path>/<stem>.omtr holding the
// base name of the page it landed on.
//
// # Borders
//
// The border is a transparent margin around each entry. Requests handed to
// the fitter are inflated by twice the border and the final entry position
// is offset by the border, so neighboring entries are 2*border apart and
// entries stay border away from the page edge.
//
// # Oversized Inputs
//
// Inputs larger than a page (after the border is added) are skipped with a
// warning and listed by [Set.Rejected]. They never fail a run.
package atlas
