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
		Long: `Generate shell completion scripts for unidep.

To load completions:

Bash:
  $ source <(unidep completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ unidep completion bash > /etc/bash_completion.d/unidep
  # macOS:
  $ unidep completion bash > $(brew --prefix)/etc/bash_completion.d/unidep

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ unidep completion zsh > "${fpath[1]}/_unidep"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ unidep completion fish | source

  # To load completions for each session, execute once:
  $ unidep completion fish > ~/.config/fish/completions/unidep.fish

PowerShell:
  PS> unidep completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> unidep completion powershell > unidep.ps1
  # and source this file from your PowerShell profile.
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
