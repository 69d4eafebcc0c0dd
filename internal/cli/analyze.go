package cli

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tidydag/pkg/adjust"
	"github.com/matzehuels/tidydag/pkg/dag"
	errs "github.com/matzehuels/tidydag/pkg/errors"
	"github.com/matzehuels/tidydag/pkg/pipeline"
	"github.com/matzehuels/tidydag/pkg/tidy"
)

// analysisRun is a loaded graph with its analysis. Close releases the
// runner's cache.
type analysisRun struct {
	runner   *pipeline.Runner
	opts     pipeline.Options
	graph    *dag.DAG
	analysis *pipeline.Analysis
	table    *tidy.Table
	cached   bool
}

func (r *analysisRun) Close() error { return r.runner.Close() }

// analyze loads the graph and runs the causal queries.
func (c *CLI) analyze(ctx context.Context, opts pipeline.Options) (*analysisRun, error) {
	runner, err := c.newRunner()
	if err != nil {
		return nil, err
	}
	g, err := runner.Load(ctx, opts)
	if err != nil {
		runner.Close()
		return nil, err
	}
	a, t, hit, err := runner.AnalyzeWithCacheInfo(ctx, g, opts)
	if err != nil {
		runner.Close()
		return nil, err
	}
	return &analysisRun{runner: runner, opts: opts, graph: g, analysis: a, table: t, cached: hit}, nil
}

// requirePair fails unless an exposure and outcome were resolved.
func requirePair(a *pipeline.Analysis) error {
	if a.Exposure == "" {
		return errs.New(errs.ErrCodeMissingRole, "no exposure and outcome: declare them in the graph or pass --exposure and --outcome")
	}
	return nil
}

// analysisJSON adds the diagnostic causes, if any, to the JSON output.
type analysisJSON struct {
	*pipeline.Analysis
	Unclosable []string `json:"unclosable,omitempty"`
}

type analyzeOpts struct {
	graph   graphFlags
	adjType string
	maxSize int
	json    bool
}

// analyzeCommand creates the analyze command.
func (c *CLI) analyzeCommand() *cobra.Command {
	var opts analyzeOpts

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "List adjustment sets and back-door paths",
		Long: `Find the sets of variables that close every back-door path from the
exposure to the outcome.

Set types:
  minimal    sets no proper subset of which suffices (default)
  all        every sufficient set
  canonical  the single set of all eligible ancestors of exposure or outcome`,
		Example: `  tidydag analyze smoking.dag
  tidydag analyze model.yaml -x treatment -y recovery --type all
  echo "y ~ x + z; x ~ z; exposure: x; outcome: y" | tidydag analyze -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAnalyze(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	opts.graph.bind(cmd)
	cmd.Flags().StringVarP(&opts.adjType, "type", "t", "", "set type: minimal, all, canonical (default from config)")
	cmd.Flags().IntVar(&opts.maxSize, "max-size", -1, "largest set size searched, 0 for unbounded (default from config)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the analysis as JSON")

	return cmd
}

func (c *CLI) runAnalyze(ctx context.Context, w io.Writer, input string, o analyzeOpts) error {
	opts, err := c.options(input, o.graph)
	if err != nil {
		return err
	}
	if o.adjType != "" {
		t, err := adjust.ParseType(o.adjType)
		if err != nil {
			return err
		}
		opts.Adjust.Type = t
	}
	if o.maxSize >= 0 {
		opts.Adjust.MaxSize = o.maxSize
	}

	prog := newProgress(loggerFromContext(ctx))
	run, err := c.analyze(ctx, opts)
	if err != nil {
		return err
	}
	defer run.Close()

	a := run.analysis
	if err := requirePair(a); err != nil {
		return err
	}
	prog.done("Analyzed " + a.Exposure + " → " + a.Outcome)

	if o.json {
		out := analysisJSON{Analysis: a}
		if a.Unclosable != nil {
			out.Unclosable = a.Unclosable.Causes
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	printInfo(w, "Effect of %s on %s", StyleHighlight.Render(a.Exposure), StyleHighlight.Render(a.Outcome))
	printStats(w, run.graph.NodeCount(), run.graph.EdgeCount(), run.cached)

	if a.Unclosable != nil {
		printUnclosable(w, a.Unclosable)
		return nil
	}

	res := a.Adjustment
	if len(res.BackdoorPaths) == 0 {
		printSuccess(w, "No back-door paths: no adjustment needed")
	} else {
		printInfo(w, "Back-door paths")
		for _, p := range res.BackdoorPaths {
			printDetail(w, "%s", p)
		}
	}
	printInfo(w, "Adjustment sets (%s)", res.Type)
	for _, s := range res.Sets {
		if s.Empty() {
			printSuccess(w, "%s (adjust for nothing)", s)
			continue
		}
		printSuccess(w, "%s", StyleHighlight.Render(s.String()))
	}
	return nil
}

// printUnclosable prints a placeholder for an effect that no adjustment set
// identifies, with the diagnostic causes.
func printUnclosable(w io.Writer, e *adjust.UnclosableBackdoorError) {
	printWarning(w, "No adjustment set closes the back-door paths from %s to %s", e.Exposure, e.Outcome)
	for _, p := range e.Paths {
		printDetail(w, "open: %s", p)
	}
	for _, cause := range e.Causes {
		printDetail(w, "%s", cause)
	}
}
