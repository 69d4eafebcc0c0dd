package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/tidydag/pkg/errors"
	"github.com/matzehuels/tidydag/pkg/pipeline"
	"github.com/matzehuels/tidydag/pkg/render/nodelink"
	"github.com/matzehuels/tidydag/pkg/tidy"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	graph    graphFlags
	output   string   // output file (one format) or base path (several)
	formats  []string // dot, svg, png, pdf, json, csv
	engine   string   // dot or neato; neato pins nodes at layout coordinates
	set      string   // adjustment set to draw, e.g. "{w1, z1}"
	sets     bool     // draw an adjustment set
	given    []string // conditioning set
	activate bool     // draw associations opened by conditioning
	scale    float64  // PNG resolution multiplier
	refresh  bool     // bypass cached artifacts
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a causal diagram",
		Long: `Render the graph as a node-link diagram. Nodes are colored by role,
adjusted nodes are boxed, latent nodes dashed and associations opened by
conditioning drawn as dashed undirected edges.

The dot engine ranks nodes top to bottom; neato draws them at the layout
coordinates.`,
		Example: `  tidydag render smoking.dag
  tidydag render dagify.dag -f svg,png --sets --set "{w1, z1}"
  tidydag render mbias.dag --given m --activate-colliders -o mbias.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], opts)
		},
	}

	opts.graph.bind(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (one format) or base path (several)")
	cmd.Flags().StringSliceVarP(&opts.formats, "format", "f", nil, "output formats: dot, svg, png, pdf, json, csv (default from config)")
	cmd.Flags().StringVar(&opts.engine, "engine", "", "layout engine: dot, neato (default from config)")
	cmd.Flags().BoolVar(&opts.sets, "sets", false, "draw an adjustment set")
	cmd.Flags().StringVar(&opts.set, "set", "", "adjustment set to draw with --sets (default: the first)")
	cmd.Flags().StringSliceVarP(&opts.given, "given", "z", nil, "conditioning set (comma-separated)")
	cmd.Flags().BoolVar(&opts.activate, "activate-colliders", false, "draw associations opened by conditioning")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "PNG resolution multiplier (default from config)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, w, status io.Writer, input string, o renderOpts) error {
	opts, err := c.options(input, o.graph)
	if err != nil {
		return err
	}
	if len(o.formats) > 0 {
		opts.Formats = o.formats
	}
	if o.engine != "" {
		engine, err := nodelink.ParseEngine(o.engine)
		if err != nil {
			return err
		}
		opts.Engine = engine
	}
	if o.scale > 0 {
		opts.Scale = o.scale
	}
	opts.Condition = o.given
	opts.ActivateColliders = o.activate
	opts.Set = o.set
	opts.Refresh = o.refresh
	if err := opts.ValidateForRender(); err != nil {
		return err
	}

	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	run, err := c.analyze(ctx, opts)
	if err != nil {
		return err
	}
	defer run.Close()

	t := run.table
	if o.sets {
		if t, err = drawnSets(run); err != nil {
			return err
		}
	}

	spin := newSpinner(ctx, status, "Rendering "+strings.Join(opts.Formats, ", "))
	spin.Start()
	artifacts, cached, err := run.runner.RenderWithCacheInfo(ctx, t, opts)
	spin.Stop()
	if err != nil {
		return err
	}

	base := basePath(o.output, input)
	for _, format := range opts.Formats {
		path := base + "." + format
		if len(opts.Formats) == 1 && o.output != "" {
			path = o.output
		}
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidInput, err, "write %s", path)
		}
		printFile(w, path)
	}
	printStats(w, run.graph.NodeCount(), run.graph.EdgeCount(), cached && run.cached)
	prog.done(fmt.Sprintf("Rendered %d file(s)", len(opts.Formats)))
	return nil
}

// drawnSets repeats the table per adjustment set. With an unclosable
// back-door the plain table is drawn and the causes are logged.
func drawnSets(run *analysisRun) (*tidy.Table, error) {
	a := run.analysis
	if err := requirePair(a); err != nil {
		return nil, err
	}
	if a.Unclosable != nil {
		logger := run.runner.Logger
		logger.Warn("no adjustment set to draw", "exposure", a.Exposure, "outcome", a.Outcome)
		for _, cause := range a.Unclosable.Causes {
			logger.Warn(cause)
		}
		return run.table, nil
	}
	return tidy.AdjustmentSets(run.table, run.graph, a.Exposure, a.Outcome, run.opts.Adjust)
}

// basePath derives the output path without extension. If output is empty,
// it strips the extension from input; stdin renders to "tidydag".
func basePath(output, input string) string {
	if output == "" {
		if input == "-" {
			return "tidydag"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
