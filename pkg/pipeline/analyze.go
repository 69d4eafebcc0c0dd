package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/matzehuels/tidydag/pkg/adjust"
	"github.com/matzehuels/tidydag/pkg/collider"
	"github.com/matzehuels/tidydag/pkg/dag"
	errs "github.com/matzehuels/tidydag/pkg/errors"
	"github.com/matzehuels/tidydag/pkg/layout"
	"github.com/matzehuels/tidydag/pkg/observability"
	"github.com/matzehuels/tidydag/pkg/paths"
	"github.com/matzehuels/tidydag/pkg/tidy"
)

// Analyze answers the causal queries for g without caching. sets, when not
// nil, replaces the adjustment-set search.
func Analyze(ctx context.Context, g *dag.DAG, opts Options, sets *adjust.Result) (*Analysis, *tidy.Table, error) {
	opts.setLogger()
	for _, id := range opts.Condition {
		if !g.Has(id) {
			return nil, nil, errs.New(errs.ErrCodeUnknownNode, "unknown node %q in conditioning set", id)
		}
	}

	a := &Analysis{Conditioned: dag.NewSet(opts.Condition...)}
	a.Activations = collider.ActivatedEdges(g, a.Conditioned)

	x, y, err := adjust.ResolveRoles(g, opts.Exposure, opts.Outcome)
	switch {
	case errs.Is(err, errs.ErrCodeMissingRole):
		opts.Logger.Debug("no exposure/outcome pair, skipping adjustment", "reason", err)
	case err != nil:
		return nil, nil, err
	default:
		if err := analyzePair(ctx, g, x, y, opts, sets, a); err != nil {
			return nil, nil, err
		}
	}

	table, err := buildTable(g, opts, a)
	if err != nil {
		return nil, nil, err
	}
	return a, table, nil
}

func analyzePair(ctx context.Context, g *dag.DAG, x, y string, opts Options, sets *adjust.Result, a *Analysis) error {
	a.Exposure, a.Outcome = x, y
	a.Separated = paths.DSeparated(g, x, y, a.Conditioned)
	a.OpenPaths = paths.OpenPaths(g, x, y, a.Conditioned)

	hooks := observability.Pipeline()
	hooks.OnAnalyzeStart(ctx, x, y)
	start := time.Now()

	if sets == nil {
		var err error
		sets, err = adjust.Sets(g, x, y, opts.Adjust)
		var unclosable *adjust.UnclosableBackdoorError
		switch {
		case errors.As(err, &unclosable):
			a.Unclosable = unclosable
		case err != nil:
			hooks.OnAnalyzeComplete(ctx, 0, time.Since(start), err)
			return err
		}
	}
	a.Adjustment = sets

	count := 0
	if sets != nil {
		count = len(sets.Sets)
	}
	hooks.OnAnalyzeComplete(ctx, count, time.Since(start), nil)
	opts.Logger.Debug("adjustment sets",
		"exposure", x,
		"outcome", y,
		"type", opts.Adjust.Type,
		"sets", count,
		"duration", time.Since(start))
	return nil
}

// buildTable lays g out and annotates the tidy table with the conditioning
// set, colliders and the d-separation status of the pair.
func buildTable(g *dag.DAG, opts Options, a *Analysis) (*tidy.Table, error) {
	table := tidy.Colliders(tidy.Tidy(g, layout.Compute(g, opts.Layout)), g)

	var err error
	if !a.Conditioned.Empty() {
		table, err = tidy.ControlFor(table, g, a.Conditioned.IDs(), tidy.ControlOptions{ActivateColliders: opts.ActivateColliders})
		if err != nil {
			return nil, err
		}
	}
	if a.Exposure != "" {
		table, err = tidy.DSeparation(table, g, a.Exposure, a.Outcome, a.Conditioned)
		if err != nil {
			return nil, err
		}
	}
	return table, nil
}
