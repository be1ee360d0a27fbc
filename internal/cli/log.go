// Package cli implements the omt-atlas command-line interface.
//
// This package provides commands for combining images into texture atlas
// pages and for inspecting pages already on disk. The CLI is built using
// cobra and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - combine: Pack input images into pages and write .png, .atlas and .map files
//   - info: List the pages matching an output template and every entry on them
//   - completion: Generate shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. At debug
// level the packing hooks are routed to the logger, so every autosize step,
// refit and saved page shows up with its timing.
//
// # Example
//
//	import "github.com/omnimad/omt/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// The duration is rounded to the nearest millisecond.
// Example output: "Packed 42 images (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// logHooks reports packing and decoding events at debug level.
type logHooks struct {
	logger *log.Logger
}

func newLogHooks(l *log.Logger) *logHooks {
	return &logHooks{logger: l}
}

func (h *logHooks) OnRefitStart(_ context.Context, size, inputs int) {
	h.logger.Debug("refit", "size", size, "inputs", inputs)
}

func (h *logHooks) OnRefitComplete(_ context.Context, size, pages, rejected int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("refit failed", "size", size, "err", err)
		return
	}
	h.logger.Debug("refit done", "size", size, "pages", pages, "rejected", rejected, "duration", d.Round(time.Microsecond))
}

func (h *logHooks) OnAutosizeStep(_ context.Context, size, pages int) {
	h.logger.Debug("autosize step", "size", size, "pages", pages)
}

func (h *logHooks) OnPageSaved(_ context.Context, index int, name string, entries int, d time.Duration) {
	h.logger.Debug("saved page", "index", index, "name", name, "entries", entries, "duration", d.Round(time.Millisecond))
}

func (h *logHooks) OnDecodeHit(context.Context, string) {}

func (h *logHooks) OnDecodeMiss(_ context.Context, path string) {
	h.logger.Debug("decoded", "path", path)
}
