// Package imageio reads source images and writes composited pages.
//
// Decoding goes through github.com/disintegration/imaging, with the PNG, JPEG
// and GIF decoders from the standard library plus BMP, TIFF and WebP from
// golang.org/x/image registered on import. Pages are always written as PNG.
//
// # Caching
//
// A [Loader] keeps every decoded image keyed by the exact path string it was
// loaded with. Autosizing refits the same inputs many times; the cache makes
// every refit after the first free of disk I/O. A Loader belongs to one build
// and is never shared between builds.
//
// # Coordinate System
//
// Images are returned as decoded. Callers that composite them should use
// Bounds() rather than assume a zero origin.
package imageio
