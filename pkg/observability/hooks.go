// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about packing, autosizing, and page output.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so pkg/atlas never depends
// on a particular backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPackHooks(&myPackHooks{})
//	    observability.SetDecodeHooks(&myDecodeHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pack().OnRefitStart(ctx, size, inputs)
//	// ... fit ...
//	observability.Pack().OnRefitComplete(ctx, size, pages, rejected, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pack Hooks
// =============================================================================

// PackHooks receives events from atlas packing and output.
type PackHooks interface {
	// Refit events
	OnRefitStart(ctx context.Context, size, inputs int)
	OnRefitComplete(ctx context.Context, size, pages, rejected int, duration time.Duration, err error)

	// OnAutosizeStep records one candidate size tried by the autosize search.
	OnAutosizeStep(ctx context.Context, size, pages int)

	// OnPageSaved records one page written to disk.
	OnPageSaved(ctx context.Context, index int, name string, entries int, duration time.Duration)
}

// =============================================================================
// Decode Hooks
// =============================================================================

// DecodeHooks receives events from the per-run image decode cache.
type DecodeHooks interface {
	// OnDecodeHit records an image served from the cache.
	OnDecodeHit(ctx context.Context, path string)

	// OnDecodeMiss records an image decoded from disk.
	OnDecodeMiss(ctx context.Context, path string)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPackHooks is a no-op implementation of PackHooks.
type NoopPackHooks struct{}

func (NoopPackHooks) OnRefitStart(context.Context, int, int)                               {}
func (NoopPackHooks) OnRefitComplete(context.Context, int, int, int, time.Duration, error) {}
func (NoopPackHooks) OnAutosizeStep(context.Context, int, int)                             {}
func (NoopPackHooks) OnPageSaved(context.Context, int, string, int, time.Duration)         {}

// NoopDecodeHooks is a no-op implementation of DecodeHooks.
type NoopDecodeHooks struct{}

func (NoopDecodeHooks) OnDecodeHit(context.Context, string)  {}
func (NoopDecodeHooks) OnDecodeMiss(context.Context, string) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	packHooks   PackHooks   = NoopPackHooks{}
	decodeHooks DecodeHooks = NoopDecodeHooks{}
	hooksMu     sync.RWMutex
)

// SetPackHooks registers custom pack hooks.
// This should be called once at application startup before any packing.
func SetPackHooks(h PackHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		packHooks = h
	}
}

// SetDecodeHooks registers custom decode hooks.
func SetDecodeHooks(h DecodeHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		decodeHooks = h
	}
}

// Pack returns the registered pack hooks.
func Pack() PackHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return packHooks
}

// Decode returns the registered decode hooks.
func Decode() DecodeHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return decodeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	packHooks = NoopPackHooks{}
	decodeHooks = NoopDecodeHooks{}
}
