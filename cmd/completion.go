package cmd

import (
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for ccgate.

Bash:
  $ source <(ccgate completion bash)
  # Persist (Linux):
  $ ccgate completion bash > /etc/bash_completion.d/ccgate

Zsh:
  # Enable completion once if your shell does not already:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc
  $ ccgate completion zsh > "${fpath[1]}/_ccgate"

Fish:
  $ ccgate completion fish > ~/.config/fish/completions/ccgate.fish

PowerShell:
  PS> ccgate completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletionV2(out, true)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
