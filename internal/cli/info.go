package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/omnimad/omt/pkg/atlas"
	omterrors "github.com/omnimad/omt/pkg/errors"
)

// infoCommand creates the info command for listing existing pages.
func (c *CLI) infoCommand() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "info [template]",
		Short: "Show the pages and entries of an existing atlas",
		Long: `Show the pages and entries of an existing atlas.

The template is the same one given to combine as --output. Pages are probed
from index 0 upwards until a page's .atlas or .png file is missing.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if input != "" {
					return fmt.Errorf("template given both as --input and as an argument")
				}
				input = args[0]
			}
			if input == "" {
				return fmt.Errorf("an atlas template is required (--input)")
			}
			return c.runInfo(cmd.OutOrStdout(), input)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "atlas template, e.g. output-atlas-%d")

	return cmd
}

func (c *CLI) runInfo(w io.Writer, template string) error {
	pages, err := atlas.Discover(template, c.Logger)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		return omterrors.New(omterrors.ErrCodeNotFound, "no matching atlas found for %q", template)
	}

	for _, p := range pages {
		printTitle(w, "Atlas %s %s", p.AtlasPath, p.ImagePath)
		printKeyValue(w, "Size", strconv.Itoa(p.Atlas.Size()))
		printKeyValue(w, "Border", strconv.Itoa(p.Atlas.Border()))
		printKeyValue(w, "Entries", strconv.Itoa(p.Atlas.Len()))
		for _, e := range p.Atlas.Entries() {
			printEntry(w, e.Width, e.Height, e.X, e.Y, e.Filename)
		}
	}
	return nil
}
