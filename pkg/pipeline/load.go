package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/matzehuels/tidydag/pkg/cache"
	"github.com/matzehuels/tidydag/pkg/dag"
	errs "github.com/matzehuels/tidydag/pkg/errors"
	dagio "github.com/matzehuels/tidydag/pkg/io"
	"github.com/matzehuels/tidydag/pkg/observability"
)

// Load reads the graph named by opts.
func Load(ctx context.Context, opts Options) (*dag.DAG, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}

	source := opts.Input
	if opts.Source != nil {
		source = "<" + string(opts.InputFormat) + ">"
	}
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, source)
	start := time.Now()

	var g *dag.DAG
	var err error
	if opts.Source != nil {
		g, err = dagio.Read(bytes.NewReader(opts.Source), opts.InputFormat)
	} else {
		g, err = dagio.Import(opts.Input)
	}

	nodes := 0
	if g != nil {
		nodes = g.NodeCount()
	}
	hooks.OnLoadComplete(ctx, source, nodes, time.Since(start), err)
	return g, err
}

// GraphHash hashes the JSON description of g. Graphs that differ only in
// the order of their declarations share a hash.
func GraphHash(g *dag.DAG) (string, error) {
	var buf bytes.Buffer
	if err := dagio.WriteJSON(&buf, g); err != nil {
		return "", errs.Wrap(errs.ErrCodeInternal, err, "serialize graph for cache key")
	}
	return cache.Hash(buf.Bytes()), nil
}
