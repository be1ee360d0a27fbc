package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand generates completion scripts for the supported shells.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for omt-atlas and write it to stdout.

Load it into the current shell:

  bash:        source <(omt-atlas completion bash)
  zsh:         source <(omt-atlas completion zsh)
  fish:        omt-atlas completion fish | source
  powershell:  omt-atlas completion powershell | Out-String | Invoke-Expression

To keep completions across sessions, redirect the output into your shell's
completion directory instead, e.g. ~/.config/fish/completions/omt-atlas.fish.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(w, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
			return nil
		},
	}

	return cmd
}
