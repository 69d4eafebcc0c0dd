// Package pipeline runs the load → analyze → render stages shared by every
// tidydag command.
//
// # Stages
//
//  1. Load: read a graph document (formula, JSON, YAML, TOML or HCL)
//  2. Analyze: adjustment sets, d-separation, open paths and collider
//     activations for the exposure and outcome, plus the tidy table
//  3. Render: DOT, SVG, PNG, PDF, JSON or CSV output of the tidy table
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   "confounding.dag",
//	    Formats: []string{"svg"},
//	})
//	svg := result.Artifacts["svg"]
//
// Adjustment-set results and artifacts are cached by content hash, so
// re-running a command on an unchanged graph skips the search and the
// Graphviz call.
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tidydag/pkg/adjust"
	"github.com/matzehuels/tidydag/pkg/cache"
	"github.com/matzehuels/tidydag/pkg/collider"
	"github.com/matzehuels/tidydag/pkg/dag"
	errs "github.com/matzehuels/tidydag/pkg/errors"
	dagio "github.com/matzehuels/tidydag/pkg/io"
	"github.com/matzehuels/tidydag/pkg/layout"
	"github.com/matzehuels/tidydag/pkg/paths"
	"github.com/matzehuels/tidydag/pkg/render/nodelink"
	"github.com/matzehuels/tidydag/pkg/tidy"
)

// Format constants for output formats.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

const (
	// DefaultScale is the PNG resolution multiplier.
	DefaultScale = 2.0

	// TTLAnalysis and TTLArtifact bound how long cached results live.
	TTLAnalysis = 30 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatCSV:  true,
}

// Options contains all configuration for a pipeline run.
type Options struct {
	// Load options. Source, when set, is read instead of Input.
	Input       string       `json:"input,omitempty"`
	Source      []byte       `json:"-"`
	InputFormat dagio.Format `json:"input_format,omitempty"`

	// Analysis options. Empty Exposure or Outcome fall back to the roles
	// declared in the graph.
	Exposure          string         `json:"exposure,omitempty"`
	Outcome           string         `json:"outcome,omitempty"`
	Adjust            adjust.Options `json:"-"`
	Condition         []string       `json:"condition,omitempty"`
	ActivateColliders bool           `json:"activate_colliders,omitempty"`
	Layout            layout.Options `json:"-"`

	// Render options. The neato engine pins nodes at their layout
	// coordinates.
	Formats []string        `json:"formats,omitempty"`
	Engine  nodelink.Engine `json:"engine,omitempty"`
	Theme   nodelink.Theme  `json:"-"`
	Set     string          `json:"set,omitempty"`
	Scale   float64         `json:"scale,omitempty"`

	Refresh bool        `json:"refresh,omitempty"`
	Logger  *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Analysis holds the causal queries answered for one exposure/outcome pair.
// Exposure and Outcome are empty when the graph declares neither and none
// was given; the other fields are then zero.
type Analysis struct {
	Exposure string `json:"exposure,omitempty"`
	Outcome  string `json:"outcome,omitempty"`

	// Adjustment is nil when the back-door paths cannot be closed;
	// Unclosable then explains why.
	Adjustment *adjust.Result                  `json:"adjustment,omitempty"`
	Unclosable *adjust.UnclosableBackdoorError `json:"-"`

	Conditioned dag.Set               `json:"conditioned"`
	Separated   bool                  `json:"separated"`
	OpenPaths   []paths.Path          `json:"open_paths,omitempty"`
	Activations []collider.Activation `json:"activations,omitempty"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Graph     *dag.DAG
	GraphHash string
	Analysis  *Analysis
	Table     *tidy.Table
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount   int
	EdgeCount   int
	LoadTime    time.Duration
	AnalyzeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	AnalysisHit bool // adjustment sets came from cache
	RenderHit   bool // every artifact came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(formatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

func formatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. Calling it again has no effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks the input fields.
func (o *Options) ValidateForLoad() error {
	if o.Input == "" && o.Source == nil {
		return errs.New(errs.ErrCodeInvalidInput, "input is required")
	}
	if o.Source != nil && o.InputFormat == "" {
		o.InputFormat = dagio.FormatFormula
	}
	o.setLogger()
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Engine == "" {
		o.Engine = nodelink.EngineDot
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if _, err := nodelink.ParseEngine(string(o.Engine)); err != nil {
		return err
	}
	return ValidateFormats(o.Formats)
}

// Pinned reports whether nodes are drawn at their layout coordinates.
func (o *Options) Pinned() bool { return o.Engine == nodelink.EngineNeato }

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// AnalysisKeyOpts returns cache key options for the adjustment-set search.
func (o *Options) AnalysisKeyOpts(x, y string) cache.AnalysisKeyOpts {
	return cache.AnalysisKeyOpts{
		Exposure: x,
		Outcome:  y,
		Type:     o.Adjust.Type.String(),
		MaxSize:  o.Adjust.MaxSize,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Engine: string(o.Engine),
		Theme:  o.Theme,
		Pinned: o.Pinned(),
		Set:    o.Set,
		Scale:  o.Scale,
	}
}
