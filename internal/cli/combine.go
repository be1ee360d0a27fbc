package cli

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/omnimad/omt/pkg/pipeline"
)

// combineOpts holds the command-line flags for the combine command.
type combineOpts struct {
	config        string   // TOML job file; flags override its values
	output        string   // output template, "%d" is the page index
	size          int      // fixed page size
	maximumSize   int      // autosize cap; > 0 selects autosizing
	border        int      // transparent margin around every entry
	inputs        []string // input images (repeatable)
	referencePath string   // directory for .omtr back-references
}

// combineCommand creates the combine command for packing images into pages.
//
// Inputs come from --input (repeatable), positional arguments, and the job
// file's inputs, in that order after the job file's. A page size of 2048 is
// used when neither --size nor --maximum-size is given.
func (c *CLI) combineCommand() *cobra.Command {
	var opts combineOpts

	cmd := &cobra.Command{
		Use:   "combine [flags] [input...]",
		Short: "Combine images into texture atlas pages",
		Example: `  omt-atlas combine --output ui-%d --maximum-size 2048 --border 2 art/*.png
  omt-atlas combine --config ui.toml --reference-path build/refs`,
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := opts.toOptions(cmd, args)
			if err != nil {
				return err
			}
			return c.runCombine(cmd.Context(), cmd.OutOrStdout(), job)
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "TOML job file")
	cmd.Flags().StringVarP(&opts.output, "output", "o", pipeline.DefaultOutput, "output template, %d is replaced by the page index")
	cmd.Flags().IntVarP(&opts.size, "size", "s", 0, fmt.Sprintf("page size (default %d without --maximum-size)", pipeline.DefaultSize))
	cmd.Flags().IntVarP(&opts.maximumSize, "maximum-size", "m", 0, "find the smallest power-of-two size up to this maximum")
	cmd.Flags().IntVarP(&opts.border, "border", "b", 0, "transparent border around every image")
	cmd.Flags().StringArrayVarP(&opts.inputs, "input", "i", nil, "input image (repeatable)")
	cmd.Flags().StringVarP(&opts.referencePath, "reference-path", "r", "", "directory for .omtr back-reference files")

	_ = cmd.MarkFlagFilename("config", "toml")
	_ = cmd.MarkFlagFilename("input", "png", "jpg", "jpeg", "gif", "bmp", "tif", "tiff", "webp")
	_ = cmd.MarkFlagDirname("reference-path")

	return cmd
}

// toOptions builds pipeline options from the job file, if any, and the
// flags that were set explicitly.
func (o *combineOpts) toOptions(cmd *cobra.Command, args []string) (pipeline.Options, error) {
	var job pipeline.Options
	if o.config != "" {
		loaded, err := pipeline.LoadOptions(o.config)
		if err != nil {
			return pipeline.Options{}, err
		}
		job = loaded
	}

	changed := cmd.Flags().Changed
	ov := pipeline.Overrides{
		Inputs: append(slices.Clone(o.inputs), args...),
	}
	if changed("output") {
		ov.Output = &o.output
	}
	if changed("size") {
		ov.Size = &o.size
	}
	if changed("maximum-size") {
		ov.MaximumSize = &o.maximumSize
	}
	if changed("border") {
		ov.Border = &o.border
	}
	if changed("reference-path") {
		ov.ReferencePath = &o.referencePath
	}
	job.MergeFlags(ov)
	return job, nil
}

func (c *CLI) runCombine(ctx context.Context, w io.Writer, opts pipeline.Options) error {
	prog := newProgress(c.Logger)

	result, err := c.newRunner().Execute(ctx, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Packed %d images", result.Stats.Entries))

	how := "fixed size"
	if result.Autosized {
		how = "autosized"
	}
	printSuccess(w, "Combined %d images into %d page(s) of %dx%d (%s)",
		result.Stats.Entries, result.Pages, result.Size, result.Size, how)
	printKeyValue(w, "Utilization", fmt.Sprintf("%.1f%%", result.Stats.Utilization*100))
	for _, f := range result.Files {
		printFile(w, f)
	}

	if len(result.Rejected) > 0 {
		printWarning(w, "%d image(s) skipped, larger than a %dx%d page", len(result.Rejected), result.Size, result.Size)
		for _, r := range result.Rejected {
			printDetail(w, "%s", r)
		}
	}
	if result.Pages == 0 {
		printInfo(w, "No pages written")
	}
	return nil
}
