package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for pingwatch.

To load completions:

Bash:
  $ source <(pingwatch completion bash)
  # To load completions for each session, execute once:
  # Linux:
  $ pingwatch completion bash > /etc/bash_completion.d/pingwatch
  # macOS:
  $ pingwatch completion bash > $(brew --prefix)/etc/bash_completion.d/pingwatch

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc
  # To load completions for each session, execute once:
  $ pingwatch completion zsh > "${fpath[1]}/_pingwatch"
  # You will need to start a new shell for this setup to take effect.

Fish:
  $ pingwatch completion fish | source
  # To load completions for each session, execute once:
  $ pingwatch completion fish > ~/.config/fish/completions/pingwatch.fish

PowerShell:
  PS> pingwatch completion powershell | Out-String | Invoke-Expression
  # To load completions for every new session, run:
  PS> pingwatch completion powershell > pingwatch.ps1
  # and source this file from your PowerShell profile.
`,
	DisableFlagsInUseLine: true,
	Annotations:           map[string]string{"skipConfig": "true"},
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletionV2(os.Stdout, true)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
