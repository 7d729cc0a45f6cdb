package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tagcloud/pkg/layout"
)

// completionCommand prints a completion script. Scripts complete --shape
// with the layout names and --config with TOML files.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Print a shell completion script",
		Long: `Print a completion script for tagcloud.

  bash        source <(tagcloud completion bash)
  zsh         tagcloud completion zsh > "${fpath[1]}/_tagcloud"
  fish        tagcloud completion fish | source
  powershell  tagcloud completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			default:
				return root.GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// completeShapes offers the shape names that start with the typed prefix,
// each described by its placement rule.
func completeShapes(_ *cobra.Command, _ []string, prefix string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, s := range layout.All {
		if strings.HasPrefix(string(s), prefix) {
			out = append(out, string(s)+"\t"+layout.Descriptions[s])
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// registerCloudCompletions wires flag completion for the shared cloud flags.
func registerCloudCompletions(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("shape", completeShapes)
	_ = cmd.MarkFlagFilename("config", "toml")
}
