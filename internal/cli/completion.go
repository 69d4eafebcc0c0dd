package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tidydag/pkg/adjust"
	dagio "github.com/matzehuels/tidydag/pkg/io"
	"github.com/matzehuels/tidydag/pkg/tidy"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for tidydag.

Besides commands and flags, the scripts complete variable names for
--exposure, --outcome, --given and the control command by reading the
graph file named on the command line.

Bash:
  $ source <(tidydag completion bash)

Zsh:
  $ tidydag completion zsh > "${fpath[1]}/_tidydag"

Fish:
  $ tidydag completion fish > ~/.config/fish/completions/tidydag.fish

PowerShell:
  PS> tidydag completion powershell | Out-String | Invoke-Expression
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

	return cmd
}

// Flags whose values are variables of the graph file.
var nodeFlags = []string{"exposure", "outcome", "given", "set", "relatives"}

// Flags with a fixed set of values. format is handled per command.
var choiceFlags = map[string][]string{
	"type":         {adjust.Minimal.String(), adjust.All.String(), adjust.Canonical.String()},
	"engine":       {"dot", "neato"},
	"relation":     {string(tidy.RelationParents), string(tidy.RelationChildren), string(tidy.RelationAncestors), string(tidy.RelationDescendants)},
	"input-format": dagio.Formats,
	"to":           {"formula", "json", "yaml", "toml"},
}

var formatChoices = map[string][]string{
	"render": {"dot", "svg", "png", "pdf", "json", "csv"},
	"tidy":   {"table", "json", "csv"},
}

// registerCompletions attaches value completions to every command under root.
func registerCompletions(root *cobra.Command) {
	for _, cmd := range root.Commands() {
		registerCompletions(cmd)
		for _, name := range nodeFlags {
			if cmd.Flags().Lookup(name) != nil {
				_ = cmd.RegisterFlagCompletionFunc(name, completeNodes)
			}
		}
		for name, values := range choiceFlags {
			if cmd.Flags().Lookup(name) != nil {
				_ = cmd.RegisterFlagCompletionFunc(name, cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
			}
		}
		if values, ok := formatChoices[cmd.Name()]; ok {
			_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
		}
	}
}

// completeNodes lists the observable variables of the graph file in args[0].
// Before a file is given it falls back to file completion.
func completeNodes(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 || args[0] == "-" {
		return nil, cobra.ShellCompDirectiveDefault
	}
	g, err := dagio.Import(args[0])
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	// --given and --set take comma-separated lists; complete the last item.
	prefix := ""
	if i := strings.LastIndexByte(toComplete, ','); i >= 0 {
		prefix = toComplete[:i+1]
	}
	var ids []string
	for _, n := range g.Nodes() {
		if tidy.Visible(n) && n.Observable() {
			ids = append(ids, prefix+n.ID)
		}
	}
	return ids, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

// completeControlArgs completes the graph file first, then its variables.
func completeControlArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return nil, cobra.ShellCompDirectiveDefault
	}
	ids, directive := completeNodes(cmd, args, "")
	return ids, directive &^ cobra.ShellCompDirectiveNoSpace
}
