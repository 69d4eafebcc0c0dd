package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tidydag/pkg/collider"
	"github.com/matzehuels/tidydag/pkg/dag"
	"github.com/matzehuels/tidydag/pkg/tidy"
)

type controlOpts struct {
	graph    graphFlags
	activate bool
}

// controlCommand creates the control command.
func (c *CLI) controlCommand() *cobra.Command {
	opts := controlOpts{activate: true}

	cmd := &cobra.Command{
		Use:   "control <file> <var>...",
		Short: "Condition on variables and show the associations it creates",
		Long: `Mark variables as adjusted and list the associations that conditioning
on a collider, or on a descendant of one, creates between its parents.`,
		Example: `  tidydag control mbias.dag m
  tidydag control dagify.dag w1 z1 --activate-colliders=false`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeControlArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runControl(cmd.Context(), cmd.OutOrStdout(), args[0], args[1:], opts)
		},
	}

	opts.graph.bind(cmd)
	cmd.Flags().BoolVar(&opts.activate, "activate-colliders", opts.activate, "add rows for associations opened by conditioning")

	return cmd
}

func (c *CLI) runControl(ctx context.Context, w io.Writer, input string, vars []string, o controlOpts) error {
	opts, err := c.options(input, o.graph)
	if err != nil {
		return err
	}
	run, err := c.analyze(ctx, opts)
	if err != nil {
		return err
	}
	defer run.Close()

	t, err := tidy.ControlFor(run.table, run.graph, vars, tidy.ControlOptions{ActivateColliders: o.activate})
	if err != nil {
		return err
	}
	fmt.Fprintln(w, renderTable(t))

	cond := dag.NewSet(vars...)
	acts := collider.ActivatedEdges(run.graph, cond)
	if len(acts) == 0 {
		printSuccess(w, "Conditioning on %s opens no collider", cond)
		return nil
	}
	for _, a := range acts {
		printWarning(w, "%s", a)
	}
	return nil
}
