// Package pkg provides the core libraries for OMT texture atlas packing.
//
// # Overview
//
// OMT combines many small images into a few large square textures ("pages")
// and records where each image landed so that a renderer can sample it back
// out with a single texture-coordinate transform. The pkg directory is
// organized into these areas:
//
//  1. [fitter] - Shelf packing of rectangles into fixed-size pages
//  2. [atlas] - Pages, entries, the binary .atlas format and atlas sets
//  3. [imageio] - Image decoding (with a per-run cache) and PNG encoding
//  4. [pipeline] - Job options, validation and the combine run
//  5. [observability] - Hooks for packing and decoding events
//  6. [errors] - Coded errors shared by all packages
//
// # Architecture
//
// The typical data flow through a combine run:
//
//	Input images
//	     ↓
//	[imageio] package (decode, cache by path)
//	     ↓
//	[fitter] package (place rectangles on shelves, page by page)
//	     ↓
//	[atlas] package (blit, write .png/.atlas/.map per page)
//	     ↓
//	Reference files (.omtr) for each input
//
// # Quick Start
//
// Pack a set of images into as few pages as possible:
//
//	set := atlas.NewSet(
//	    atlas.WithInputs("a.png", "b.png", "c.png"),
//	    atlas.WithMaximumSize(4096),
//	)
//	if _, err := set.Autosize(ctx); err != nil {
//	    return err
//	}
//	if _, err := set.Save(ctx, "output-atlas-%d", ""); err != nil {
//	    return err
//	}
//
// Or run a whole job through the pipeline:
//
//	opts := pipeline.Options{Inputs: files, MaximumSize: 4096}
//	result, err := pipeline.NewRunner(logger).Execute(ctx, opts)
//
// [fitter]: https://pkg.go.dev/github.com/omnimad/omt/pkg/fitter
// [atlas]: https://pkg.go.dev/github.com/omnimad/omt/pkg/atlas
// [imageio]: https://pkg.go.dev/github.com/omnimad/omt/pkg/imageio
// [pipeline]: https://pkg.go.dev/github.com/omnimad/omt/pkg/pipeline
// [observability]: https://pkg.go.dev/github.com/omnimad/omt/pkg/observability
// [errors]: https://pkg.go.dev/github.com/omnimad/omt/pkg/errors
package pkg
