package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tidydag/pkg/adjust"
	"github.com/matzehuels/tidydag/pkg/dag"
	errs "github.com/matzehuels/tidydag/pkg/errors"
	"github.com/matzehuels/tidydag/pkg/paths"
)

type pathsOpts struct {
	graph    graphFlags
	given    []string
	openOnly bool
}

// pathsCommand creates the paths command.
func (c *CLI) pathsCommand() *cobra.Command {
	var opts pathsOpts

	cmd := &cobra.Command{
		Use:   "paths <file>",
		Short: "List every path between exposure and outcome with its verdict",
		Long: `List every simple path between the exposure and the outcome, ignoring
edge direction, and classify each as open or blocked given the conditioning
set. Blocked paths name the first node that blocks them.`,
		Example: `  tidydag paths confounding.dag
  tidydag paths dagify.dag --given w1,z1 --open`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPaths(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	opts.graph.bind(cmd)
	cmd.Flags().StringSliceVarP(&opts.given, "given", "z", nil, "conditioning set (comma-separated)")
	cmd.Flags().BoolVar(&opts.openOnly, "open", false, "only list open paths")

	return cmd
}

func (c *CLI) runPaths(ctx context.Context, w io.Writer, input string, o pathsOpts) error {
	opts, err := c.options(input, o.graph)
	if err != nil {
		return err
	}
	runner, err := c.newRunner()
	if err != nil {
		return err
	}
	defer runner.Close()

	g, err := runner.Load(ctx, opts)
	if err != nil {
		return err
	}
	x, y, err := adjust.ResolveRoles(g, opts.Exposure, opts.Outcome)
	if err != nil {
		return err
	}
	cond := dag.NewSet(o.given...)
	if err := checkKnown(g, cond); err != nil {
		return err
	}

	var verdicts []paths.Verdict
	for _, p := range paths.All(g, x, y) {
		v := paths.Classify(g, p, cond)
		if o.openOnly && !v.Open {
			continue
		}
		verdicts = append(verdicts, v)
	}

	if len(verdicts) == 0 {
		printInfo(w, "No paths between %s and %s", x, y)
		return nil
	}
	fmt.Fprintln(w, renderVerdicts(verdicts))
	return nil
}

// pathKind names the kind of path for display.
func pathKind(p paths.Path) string {
	switch {
	case p.IsDirected():
		return "causal"
	case p.IsBackdoor():
		return "back-door"
	}
	return "other"
}

func renderVerdicts(verdicts []paths.Verdict) string {
	rows := make([][]string, len(verdicts))
	for i, v := range verdicts {
		verdict, reason := "open", ""
		if !v.Open {
			verdict = "blocked by " + v.Blocker
			for _, s := range v.Steps {
				if s.Node == v.Blocker {
					reason = s.Reason
				}
			}
		}
		rows[i] = []string{strconv.Itoa(i + 1), v.Path.String(), pathKind(v.Path), verdict, reason}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "path", "kind", "verdict", "reason").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return styleHeader.Padding(0, 1)
			case col == 3 && verdicts[row].Open:
				return base.Foreground(colorGreen)
			case col == 3:
				return base.Foreground(colorRed)
			case col == 4:
				return base.Foreground(colorDim)
			}
			return base
		}).
		Render()
}

// checkKnown rejects conditioning variables missing from g.
func checkKnown(g *dag.DAG, cond dag.Set) error {
	for _, id := range cond.IDs() {
		if !g.Has(id) {
			return errs.New(errs.ErrCodeUnknownNode, "unknown node %q in conditioning set", id)
		}
	}
	return nil
}
