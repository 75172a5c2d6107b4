package cli

import (
	"github.com/spf13/cobra"
)

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

func newCompletionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion <shell>",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for bash, zsh, fish or powershell.

  $ source <(recwatch completion bash)
  $ recwatch completion zsh > "${fpath[1]}/_recwatch"
  $ recwatch completion fish > ~/.config/fish/completions/recwatch.fish
  PS> recwatch completion powershell | Out-String | Invoke-Expression`,
		// No config or logger needed to print a script.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Args:              cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs:         completionShells,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			w := cmd.OutOrStdout()

			switch args[0] {
			case "zsh":
				return root.GenZshCompletion(w)
			case "fish":
				return root.GenFishCompletion(w, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(w)
			default:
				return root.GenBashCompletionV2(w, true)
			}
		},
	}
}
