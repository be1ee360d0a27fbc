// Package pipeline provides the combine pipeline for omt-atlas.
//
// This package turns a job description into written atlas pages:
// validate options, decode and pack the inputs (at a fixed size or by
// autosizing), then composite and save every page. The CLI is a thin layer
// over it; tests and other callers drive the same code.
//
// # Configuration
//
// [Options] is the single source of truth for a job. It can be read from a
// TOML job file with [LoadOptions] and overridden by command-line values with
// [Options.MergeFlags]:
//
//	output         = "build/ui-%d"
//	maximum_size   = 2048
//	border         = 2
//	reference_path = "build/refs"
//	inputs         = ["art/button.png", "art/panel.png"]
//
// Relative paths in a job file are resolved against the file's directory.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Inputs:      []string{"a.png", "b.png"},
//	    MaximumSize: 1024,
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Pages, "pages of", result.Size)
package pipeline

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	omterrors "github.com/omnimad/omt/pkg/errors"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultOutput is the output template used when none is given.
	DefaultOutput = "output-atlas-%d"

	// DefaultSize is the page size used when neither a size nor a maximum
	// size is given.
	DefaultSize = 2048
)

// =============================================================================
// Options - Job Configuration
// =============================================================================

// Options contains all configuration for one combine job.
// This struct supports TOML decoding for job files.
type Options struct {
	// Output is the page name template; "%d" is replaced by the page index.
	Output string `toml:"output"`

	// Size is the fixed page size. Ignored when MaximumSize is set.
	Size int `toml:"size"`

	// MaximumSize > 0 selects autosizing, capped at this size.
	MaximumSize int `toml:"maximum_size"`

	Border        int      `toml:"border"`
	Inputs        []string `toml:"inputs"`
	ReferencePath string   `toml:"reference_path"`

	// Runtime options (not decoded)
	Logger *log.Logger `toml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this run in logs.
	RunID string

	// Pages is the number of pages written.
	Pages int

	// Size is the page size that was used.
	Size int

	// Autosized reports whether Size was chosen by the autosize search.
	Autosized bool

	// Files lists every written page file, page by page.
	Files []string

	// Rejected lists inputs too large for a page.
	Rejected []string

	// Stats contains timing and packing information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Inputs      int
	Entries     int
	Utilization float64 // mean fraction of page area covered by entries
	PackTime    time.Duration
	SaveTime    time.Duration
}

// Overrides carries command-line values for MergeFlags. Nil fields were not
// given and leave the job file's value alone.
type Overrides struct {
	Output        *string
	Size          *int
	MaximumSize   *int
	Border        *int
	ReferencePath *string

	// Inputs are appended to the job file's inputs.
	Inputs []string
}

// =============================================================================
// Loading and Merging
// =============================================================================

// LoadOptions reads a TOML job file. Unknown keys are rejected, and relative
// paths are resolved against the directory holding the file.
func LoadOptions(path string) (Options, error) {
	var opts Options
	md, err := toml.DecodeFile(path, &opts)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Options{}, omterrors.Wrap(omterrors.ErrCodeFileNotFound, err, "read job file %s", path)
		}
		return Options{}, omterrors.Wrap(omterrors.ErrCodeInvalidConfig, err, "parse job file %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Options{}, omterrors.New(omterrors.ErrCodeInvalidConfig,
			"unknown keys in job file %s: %s", path, strings.Join(keys, ", "))
	}

	base := filepath.Dir(path)
	opts.Output = resolve(base, opts.Output)
	opts.ReferencePath = resolve(base, opts.ReferencePath)
	for i, in := range opts.Inputs {
		opts.Inputs[i] = resolve(base, in)
	}
	return opts, nil
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// MergeFlags applies command-line overrides on top of o.
func (o *Options) MergeFlags(ov Overrides) {
	if ov.Output != nil {
		o.Output = *ov.Output
	}
	if ov.Size != nil {
		o.Size = *ov.Size
	}
	if ov.MaximumSize != nil {
		o.MaximumSize = *ov.MaximumSize
	}
	if ov.Border != nil {
		o.Border = *ov.Border
	}
	if ov.ReferencePath != nil {
		o.ReferencePath = *ov.ReferencePath
	}
	o.Inputs = append(o.Inputs, ov.Inputs...)
	o.validated = false
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.Output == "" {
		o.Output = DefaultOutput
	}
	if err := omterrors.ValidateTemplate(o.Output); err != nil {
		return err
	}

	if len(o.Inputs) == 0 {
		return omterrors.New(omterrors.ErrCodeInvalidInput, "at least one input image is required")
	}
	for _, in := range o.Inputs {
		if strings.TrimSpace(in) == "" {
			return omterrors.New(omterrors.ErrCodeInvalidInput, "input path cannot be empty")
		}
	}

	if o.Size == 0 && o.MaximumSize == 0 {
		o.Size = DefaultSize
	}
	if o.MaximumSize != 0 {
		if err := omterrors.ValidateSize("maximum_size", o.MaximumSize); err != nil {
			return err
		}
	} else if err := omterrors.ValidateSize("size", o.Size); err != nil {
		return err
	}
	if err := omterrors.ValidateBorder(o.Border); err != nil {
		return err
	}

	if o.ReferencePath != "" {
		if fi, err := os.Stat(o.ReferencePath); err != nil || !fi.IsDir() {
			return omterrors.New(omterrors.ErrCodeInvalidPath, "reference path %q is not a directory", o.ReferencePath)
		}
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// Autosize reports whether the page size is searched rather than fixed.
func (o *Options) Autosize() bool {
	return o.MaximumSize > 0
}
