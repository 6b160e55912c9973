package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for topo2graph. Completion covers the
subcommands, their flags, and the --input-format and render --format values.

To load completions:

Bash:
  $ source <(topo2graph completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ topo2graph completion bash > /etc/bash_completion.d/topo2graph
  # macOS:
  $ topo2graph completion bash > $(brew --prefix)/etc/bash_completion.d/topo2graph

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ topo2graph completion zsh > "${fpath[1]}/_topo2graph"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ topo2graph completion fish | source

  # To load completions for each session, execute once:
  $ topo2graph completion fish > ~/.config/fish/completions/topo2graph.fish

PowerShell:
  PS> topo2graph completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> topo2graph completion powershell > topo2graph.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(c.Out)
			case "zsh":
				return cmd.Root().GenZshCompletion(c.Out)
			case "fish":
				return cmd.Root().GenFishCompletion(c.Out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(c.Out)
			}
			return nil
		},
	}

	return cmd
}
