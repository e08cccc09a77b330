package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/shelf/pkg/errors"
)

// NewCompletionCommand writes a shell completion script to stdout.
func (a *App) NewCompletionCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "completion <bash|zsh|fish|powershell>",
		Short:     "Generate a shell completion script",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Example: `  shelf completion bash > /etc/bash_completion.d/shelf
  shelf completion zsh > "${fpath[1]}/_shelf"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(a.out, true)
			case "zsh":
				return root.GenZshCompletion(a.out)
			case "fish":
				return root.GenFishCompletion(a.out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(a.out)
			default:
				return errors.NewValidationError("shell", args[0], "must be one of bash, zsh, fish, powershell")
			}
		},
	}
}
