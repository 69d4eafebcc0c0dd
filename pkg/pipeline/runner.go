package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tidydag/pkg/adjust"
	"github.com/matzehuels/tidydag/pkg/cache"
	"github.com/matzehuels/tidydag/pkg/dag"
	errs "github.com/matzehuels/tidydag/pkg/errors"
	"github.com/matzehuels/tidydag/pkg/observability"
	"github.com/matzehuels/tidydag/pkg/tidy"
)

// Runner executes pipeline stages with caching.
//
// The Runner is stateless except for the cache and logger, so multiple
// goroutines can share one with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs load → analyze → render.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	loadStart := time.Now()
	g, err := r.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Graph = g
	if result.GraphHash, err = GraphHash(g); err != nil {
		return nil, err
	}
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()

	r.Logger.Info("loaded graph",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", result.Stats.LoadTime)

	analyzeStart := time.Now()
	analysis, table, hit, err := r.AnalyzeWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	result.Analysis, result.Table = analysis, table
	result.Stats.AnalyzeTime = time.Since(analyzeStart)
	result.CacheInfo.AnalysisHit = hit

	r.Logger.Info("analyzed graph",
		"exposure", analysis.Exposure,
		"outcome", analysis.Outcome,
		"rows", table.Len(),
		"duration", result.Stats.AnalyzeTime)

	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, table, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads the graph named by opts.
func (r *Runner) Load(ctx context.Context, opts Options) (*dag.DAG, error) {
	r.applyLogger(&opts)
	g, err := Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("read graph", "input", opts.Input, "format", opts.InputFormat)
	return g, nil
}

// AnalyzeWithCacheInfo analyzes g, reusing cached adjustment sets, and
// reports whether the cache was hit.
func (r *Runner) AnalyzeWithCacheInfo(ctx context.Context, g *dag.DAG, opts Options) (*Analysis, *tidy.Table, bool, error) {
	r.applyLogger(&opts)

	x, y, err := adjust.ResolveRoles(g, opts.Exposure, opts.Outcome)
	if err != nil {
		// Analyze reports bad roles, or skips the search when none are set
		a, t, err := Analyze(ctx, g, opts, nil)
		return a, t, false, err
	}

	graphHash, err := GraphHash(g)
	if err != nil {
		return nil, nil, false, err
	}
	key := r.Keyer.AnalysisKey(graphHash, opts.AnalysisKeyOpts(x, y))
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cached adjust.Result
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "analysis")
				a, t, err := Analyze(ctx, g, opts, &cached)
				return a, t, err == nil, err
			}
		}
		observability.Cache().OnCacheMiss(ctx, "analysis")
	}

	a, t, err := Analyze(ctx, g, opts, nil)
	if err != nil {
		return nil, nil, false, err
	}
	if a.Adjustment != nil {
		if data, err := json.Marshal(a.Adjustment); err == nil {
			if err := r.Cache.Set(ctx, key, data, TTLAnalysis); err == nil {
				observability.Cache().OnCacheSet(ctx, "analysis", len(data))
			}
		}
	}
	return a, t, false, nil
}

// Analyze is a convenience wrapper that calls AnalyzeWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Analyze(ctx context.Context, g *dag.DAG, opts Options) (*Analysis, *tidy.Table, error) {
	a, t, _, err := r.AnalyzeWithCacheInfo(ctx, g, opts)
	return a, t, err
}

// RenderWithCacheInfo generates artifacts with caching and reports whether
// every artifact came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, t *tidy.Table, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	var tableData bytes.Buffer
	if err := tidy.WriteJSON(&tableData, t); err != nil {
		return nil, false, errs.Wrap(errs.ErrCodeInternal, err, "serialize table for cache key")
	}
	tableHash := cache.Hash(tableData.Bytes())

	artifacts := make(map[string][]byte)
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(tableHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit && !opts.Refresh {
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
			continue
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := Render(ctx, t, renderOpts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(tableHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, t *tidy.Table, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, t, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
