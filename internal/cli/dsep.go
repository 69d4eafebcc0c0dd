package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

type dsepOpts struct {
	graph graphFlags
	given []string
}

// dsepCommand creates the dsep command.
func (c *CLI) dsepCommand() *cobra.Command {
	var opts dsepOpts

	cmd := &cobra.Command{
		Use:   "dsep <file>",
		Short: "Test whether two variables are d-separated",
		Long: `Test whether the exposure and outcome are d-separated given a
conditioning set, and list the paths that remain open.`,
		Example: `  tidydag dsep smoking.dag -x smoking -y cancer --given tar
  tidydag dsep mbias.dag -x x -y y -z m`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDSep(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	opts.graph.bind(cmd)
	cmd.Flags().StringSliceVarP(&opts.given, "given", "z", nil, "conditioning set (comma-separated)")

	return cmd
}

func (c *CLI) runDSep(ctx context.Context, w io.Writer, input string, o dsepOpts) error {
	opts, err := c.options(input, o.graph)
	if err != nil {
		return err
	}
	opts.Condition = o.given

	run, err := c.analyze(ctx, opts)
	if err != nil {
		return err
	}
	defer run.Close()

	a := run.analysis
	if err := requirePair(a); err != nil {
		return err
	}

	x, y := StyleHighlight.Render(a.Exposure), StyleHighlight.Render(a.Outcome)
	if a.Separated {
		printSuccess(w, "%s and %s are d-separated given %s", x, y, a.Conditioned)
	} else {
		printError(w, "%s and %s are d-connected given %s", x, y, a.Conditioned)
		for _, p := range a.OpenPaths {
			printDetail(w, "open: %s", p)
		}
	}
	for _, act := range a.Activations {
		printWarning(w, "conditioning opens %s", act)
	}
	return nil
}
