package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Completion returns the completion command for shell autocompletion.
func Completion() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for dg.

To load completions:

Bash:
  $ source <(dg completion bash)
  # To load completions for each session, execute once:
  # Linux:
  $ dg completion bash > /etc/bash_completion.d/dg
  # macOS:
  $ dg completion bash > $(brew --prefix)/etc/bash_completion.d/dg

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc
  # To load completions for each session, execute once:
  $ dg completion zsh > "${fpath[1]}/_dg"
  # You will need to start a new shell for this setup to take effect.

Fish:
  $ dg completion fish | source
  # To load completions for each session, execute once:
  $ dg completion fish > ~/.config/fish/completions/dg.fish

PowerShell:
  PS> dg completion powershell | Out-String | Invoke-Expression
  # To load completions for every new session, run:
  PS> dg completion powershell > dg.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return fmt.Errorf("unsupported shell %q", args[0])
		},
	}
	return cmd
}
