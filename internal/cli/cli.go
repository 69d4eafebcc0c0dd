// Package cli implements the tidydag command-line interface.
//
// Every command loads a graph document (a file, or "-" for stdin), runs the
// causal queries through the pipeline and prints the answers with lipgloss
// styling. Settings come from internal/config; --config names the project
// file explicitly.
//
// # Commands
//
//   - analyze: adjustment sets and back-door paths
//   - dsep: d-separation query
//   - paths: every path between two nodes with its verdict
//   - control: condition on variables and list activated colliders
//   - tidy: print or export the tidy table
//   - convert: rewrite a graph in another input format
//   - render: DOT, SVG, PNG or PDF diagrams
//   - explore: interactive, read-only explorer
//   - cache: manage the artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// lives on [CLI] and is also attached to each command's context.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tidydag/internal/config"
	"github.com/matzehuels/tidydag/pkg/buildinfo"
	"github.com/matzehuels/tidydag/pkg/cache"
	errs "github.com/matzehuels/tidydag/pkg/errors"
	dagio "github.com/matzehuels/tidydag/pkg/io"
	"github.com/matzehuels/tidydag/pkg/observability"
	"github.com/matzehuels/tidydag/pkg/pipeline"
	"github.com/matzehuels/tidydag/pkg/render/nodelink"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any command runs.
	Config *config.Config

	configPath string
	noCache    bool
	stdin      io.Reader
}

// New creates a CLI logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), stdin: os.Stdin}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "tidydag",
		Short: "tidydag analyzes causal DAGs",
		Long: `tidydag reads causal diagrams and answers identification questions:
which variables to adjust for, whether two variables are d-separated, which
paths between them are open and which associations conditioning induces.

Graphs are written as formulas ("y ~ x + z", "x ~~ y", "exposure: x") or as
JSON, YAML, TOML or HCL documents.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}
	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "project config file (default "+config.ProjectConfigPath+")")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the result cache")

	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.dsepCommand())
	root.AddCommand(c.pathsCommand())
	root.AddCommand(c.controlCommand())
	root.AddCommand(c.tidyCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	registerCompletions(root)

	return root
}

// setup loads the configuration, registers the logging hooks and attaches
// the logger to the command context.
func (c *CLI) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(config.LoadOptions{ProjectConfigPath: c.configPath})
	if err != nil {
		return err
	}
	c.Config = cfg

	hooks := logHooks{c.Logger}
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner whose cache keys are scoped to this
// build.
func (c *CLI) newRunner() (*pipeline.Runner, error) {
	store, err := c.newCache()
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.CacheScope())
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

func (c *CLI) newCache() (cache.Cache, error) {
	if c.noCache || !c.Config.Cache.Enabled {
		return cache.NewNullCache(), nil
	}
	dir, err := config.CacheDir()
	if err != nil {
		c.Logger.Debug("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// graphFlags are the flags shared by every command that reads a graph.
type graphFlags struct {
	exposure    string
	outcome     string
	inputFormat string
}

func (f *graphFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.exposure, "exposure", "x", "", "exposure variable (default: the one declared in the graph)")
	cmd.Flags().StringVarP(&f.outcome, "outcome", "y", "", "outcome variable (default: the one declared in the graph)")
	cmd.Flags().StringVar(&f.inputFormat, "input-format", "", "input format: formula, json, yaml, toml, hcl (default: from extension)")
}

// options builds pipeline options for input from the config and f. An input
// of "-" reads the graph from stdin.
func (c *CLI) options(input string, f graphFlags) (pipeline.Options, error) {
	engine, err := nodelink.ParseEngine(c.Config.Render.Engine)
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.Options{
		Input:    input,
		Exposure: f.exposure,
		Outcome:  f.outcome,
		Adjust:   c.Config.AdjustOptions(),
		Layout:   c.Config.LayoutOptions(),
		Formats:  []string{c.Config.Render.Format},
		Engine:   engine,
		Theme:    c.Config.Render.Theme,
		Scale:    c.Config.Render.Scale,
		Logger:   c.Logger,
	}

	if f.inputFormat != "" {
		format, err := dagio.ParseFormat(f.inputFormat)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.InputFormat = format
	}

	if input == "-" {
		data, err := io.ReadAll(c.stdin)
		if err != nil {
			return pipeline.Options{}, errs.Wrap(errs.ErrCodeInvalidInput, err, "read stdin")
		}
		opts.Source = data
	} else if opts.InputFormat != "" {
		// An explicit format overrides the extension.
		data, err := os.ReadFile(input)
		if err != nil {
			return pipeline.Options{}, errs.Wrap(errs.ErrCodeFileNotFound, err, "read %s", input)
		}
		opts.Source = data
	}
	return opts, nil
}
