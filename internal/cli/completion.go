package cli

import (
	"github.com/spf13/cobra"
)

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: MsgCompletionShort,
		Long: `To load completions:

Bash:
  $ source <(envrender completion bash)
  # To load completions for each session, execute once:
  # Linux:
  $ envrender completion bash > /etc/bash_completion.d/envrender
  # macOS:
  $ envrender completion bash > /usr/local/etc/bash_completion.d/envrender

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it.  You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc
  # To load completions for each session, execute once:
  $ envrender completion zsh > "${fpath[1]}/_envrender"
  # You will need to start a new shell for this setup to take effect.

Fish:
  $ envrender completion fish | source
  # To load completions for each session, execute once:
  $ envrender completion fish > ~/.config/fish/completions/envrender.fish

PowerShell:
  PS> envrender completion powershell | Out-String | Invoke-Expression
  # To load completions for every new session, run:
  PS> envrender completion powershell > envrender.ps1
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
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
