package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish]",
		Short: "Generate shell completion script",
		Long: `Generate shell completion script for appupdater.

To load completions:

Bash:
  $ source <(appupdater completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ appupdater completion bash > /etc/bash_completion.d/appupdater
  # macOS:
  $ appupdater completion bash > $(brew --prefix)/etc/bash_completion.d/appupdater

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it.  You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ appupdater completion zsh > "${fpath[1]}/_appupdater"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ appupdater completion fish > ~/.config/fish/completions/appupdater.fish
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			}
			return nil
		},
	}
}
