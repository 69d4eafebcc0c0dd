package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/tidydag/pkg/errors"
	"github.com/matzehuels/tidydag/pkg/tidy"
)

const (
	tableFormatTable = "table"
	tableFormatJSON  = "json"
	tableFormatCSV   = "csv"
)

type tidyOpts struct {
	graph     graphFlags
	format    string
	output    string
	given     []string
	activate  bool
	sets      bool
	openPaths bool
	status    bool
	relatives string
	relation  string
}

// tidyCommand creates the tidy command.
func (c *CLI) tidyCommand() *cobra.Command {
	opts := tidyOpts{format: tableFormatTable, relation: string(tidy.RelationAncestors)}

	cmd := &cobra.Command{
		Use:   "tidy <file>",
		Short: "Print or export the tidy edge table",
		Long: `Print the graph as a tidy table with one row per edge, annotated with
roles, coordinates and analysis results.

At most one view can be selected:
  --sets        one block of rows per adjustment set
  --open-paths  one block of rows per open path between exposure and outcome
  --relatives   label rows by their relation to a node`,
		Example: `  tidydag tidy dagify.dag
  tidydag tidy dagify.dag --sets --format csv -o sets.csv
  tidydag tidy mbias.dag --given m --format json
  tidydag tidy dagify.dag --relatives x --relation descendants`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTidy(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	opts.graph.bind(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: table, json, csv")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().StringSliceVarP(&opts.given, "given", "z", nil, "conditioning set (comma-separated)")
	cmd.Flags().BoolVar(&opts.activate, "activate-colliders", false, "add rows for associations opened by conditioning")
	cmd.Flags().BoolVar(&opts.sets, "sets", false, "repeat the table per adjustment set")
	cmd.Flags().BoolVar(&opts.openPaths, "open-paths", false, "list the rows of each open path")
	cmd.Flags().BoolVar(&opts.status, "status", false, "record each node's role in the status column")
	cmd.Flags().StringVar(&opts.relatives, "relatives", "", "label rows by their relation to this node")
	cmd.Flags().StringVar(&opts.relation, "relation", opts.relation, "relation for --relatives: parents, children, ancestors, descendants")

	return cmd
}

func (c *CLI) runTidy(ctx context.Context, w io.Writer, input string, o tidyOpts) error {
	if err := errs.ValidateFormat(o.format, tableFormatTable, tableFormatJSON, tableFormatCSV); err != nil {
		return err
	}
	views := 0
	for _, on := range []bool{o.sets, o.openPaths, o.relatives != ""} {
		if on {
			views++
		}
	}
	if views > 1 {
		return errs.New(errs.ErrCodeInvalidInput, "--sets, --open-paths and --relatives are mutually exclusive")
	}

	opts, err := c.options(input, o.graph)
	if err != nil {
		return err
	}
	opts.Condition = o.given
	opts.ActivateColliders = o.activate

	run, err := c.analyze(ctx, opts)
	if err != nil {
		return err
	}
	defer run.Close()

	t, err := c.tidyView(run, o)
	if err != nil {
		return err
	}

	if o.output != "" {
		f, err := os.Create(o.output)
		if err != nil {
			return errs.Wrap(errs.ErrCodeInvalidInput, err, "create %s", o.output)
		}
		defer f.Close()
		if err := writeTable(f, t, o.format); err != nil {
			return err
		}
		printSuccess(w, "Wrote %d rows", t.Len())
		printFile(w, o.output)
		return nil
	}
	return writeTable(w, t, o.format)
}

// tidyView applies the selected annotation verb to the analyzed table.
func (c *CLI) tidyView(run *analysisRun, o tidyOpts) (*tidy.Table, error) {
	t, g, a := run.table, run.graph, run.analysis
	if o.status {
		t = tidy.Status(t, g)
	}

	switch {
	case o.sets:
		if err := requirePair(a); err != nil {
			return nil, err
		}
		return tidy.AdjustmentSets(t, g, a.Exposure, a.Outcome, run.opts.Adjust)
	case o.openPaths:
		if err := requirePair(a); err != nil {
			return nil, err
		}
		return tidy.OpenPaths(t, g, a.Exposure, a.Outcome, a.Conditioned)
	case o.relatives != "":
		return tidy.Relatives(t, g, o.relatives, tidy.Relation(o.relation))
	}
	return t, nil
}

func writeTable(w io.Writer, t *tidy.Table, format string) error {
	switch format {
	case tableFormatJSON:
		return tidy.WriteJSON(w, t)
	case tableFormatCSV:
		return tidy.WriteCSV(w, t)
	}
	_, err := fmt.Fprintln(w, renderTable(t))
	return err
}
