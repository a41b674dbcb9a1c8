package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for doctriage.

To load completions:

Bash:
  $ source <(doctriage completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ doctriage completion bash > /etc/bash_completion.d/doctriage
  # macOS:
  $ doctriage completion bash > $(brew --prefix)/etc/bash_completion.d/doctriage

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ doctriage completion zsh > "${fpath[1]}/_doctriage"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ doctriage completion fish | source

  # To load completions for each session, execute once:
  $ doctriage completion fish > ~/.config/fish/completions/doctriage.fish

PowerShell:
  PS> doctriage completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> doctriage completion powershell > doctriage.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(stdout)
			}
			return nil
		},
	}

	return cmd
}
