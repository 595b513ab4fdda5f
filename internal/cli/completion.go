package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for paneforge.

To load completions:

Bash:
  $ source <(paneforge completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ paneforge completion bash > /etc/bash_completion.d/paneforge
  # macOS:
  $ paneforge completion bash > $(brew --prefix)/etc/bash_completion.d/paneforge

Zsh:
  $ paneforge completion zsh > "${fpath[1]}/_paneforge"

Fish:
  $ paneforge completion fish | source

  # To load completions for each session, execute once:
  $ paneforge completion fish > ~/.config/fish/completions/paneforge.fish

PowerShell:
  PS> paneforge completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
	return cmd
}
