package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/omnimad/omt/pkg/atlas"
)

// Runner executes combine jobs.
//
// The Runner is stateless except for the logger - every Execute call gets
// its own decode cache, so runs never share state. Multiple goroutines can
// safely use the same Runner with different options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute packs the job's inputs and writes every page.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{RunID: uuid.NewString()}
	logger := opts.Logger.With("run", shortID(result.RunID))

	set := atlas.NewSet(
		atlas.WithInputs(opts.Inputs...),
		atlas.WithBorder(opts.Border),
		atlas.WithTargetSize(opts.Size),
		atlas.WithMaximumSize(opts.MaximumSize),
		atlas.WithReferencePath(opts.ReferencePath),
		atlas.WithLogger(logger),
	)

	// Stage 1: Pack
	packStart := time.Now()
	pages, err := r.pack(ctx, set, opts)
	if err != nil {
		return nil, fmt.Errorf("pack: %w", err)
	}
	result.Size = set.TargetSize()
	result.Autosized = opts.Autosize()
	result.Rejected = set.Rejected()
	result.Stats.PackTime = time.Since(packStart)
	result.Stats.Inputs = len(opts.Inputs)
	result.Stats.Entries, result.Stats.Utilization = usage(set.Atlases())

	logger.Info("packed inputs",
		"inputs", len(opts.Inputs),
		"pages", pages,
		"size", result.Size,
		"rejected", len(result.Rejected),
		"duration", result.Stats.PackTime)

	// Stage 2: Save
	saveStart := time.Now()
	saved, err := set.Save(ctx, opts.Output, opts.ReferencePath)
	result.Pages = saved
	result.Files = pageFiles(opts.Output, saved)
	if err != nil {
		return result, fmt.Errorf("save: %w", err)
	}
	result.Stats.SaveTime = time.Since(saveStart)

	logger.Info("saved pages",
		"pages", saved,
		"output", opts.Output,
		"duration", result.Stats.SaveTime)

	return result, nil
}

func (r *Runner) pack(ctx context.Context, set *atlas.Set, opts Options) (int, error) {
	if opts.Autosize() {
		if opts.Size > 0 {
			opts.Logger.Debug("maximum size given, ignoring fixed size", "size", opts.Size)
		}
		return set.Autosize(ctx)
	}
	return set.Refit(ctx)
}

// usage returns the number of placed entries and the mean fraction of page
// area they cover.
func usage(pages []*atlas.Atlas) (entries int, utilization float64) {
	if len(pages) == 0 {
		return 0, 0
	}
	var sum float64
	for _, p := range pages {
		area := 0
		for _, e := range p.Entries() {
			area += e.Width * e.Height
		}
		entries += p.Len()
		sum += float64(area) / float64(p.Size()*p.Size())
	}
	return entries, sum / float64(len(pages))
}

func pageFiles(tpl string, pages int) []string {
	var files []string
	for n := 0; n < pages; n++ {
		name := atlas.FormatTemplate(tpl, n)
		files = append(files, name+atlas.ImageExt, name+atlas.AtlasExt, name+atlas.MapExt)
	}
	return files
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
