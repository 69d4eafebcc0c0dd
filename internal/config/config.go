// Package config loads tidydag settings with koanf.
//
// Sources are layered, later ones winning: built-in defaults, the user
// config (~/.config/tidydag/config.yaml), the project config (.tidydag.yaml
// or the --config flag) and TIDYDAG_* environment variables. In variable
// names a double underscore separates sections, so
// TIDYDAG_ANALYSIS__MAX_SIZE sets analysis.max_size.
package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/matzehuels/tidydag/pkg/adjust"
	errs "github.com/matzehuels/tidydag/pkg/errors"
	"github.com/matzehuels/tidydag/pkg/layout"
	"github.com/matzehuels/tidydag/pkg/pipeline"
	"github.com/matzehuels/tidydag/pkg/render/nodelink"
)

const envPrefix = "TIDYDAG_"

// Config holds every setting. It is passed down explicitly; nothing reads
// configuration from globals.
type Config struct {
	Layout   LayoutConfig   `koanf:"layout"`
	Render   RenderConfig   `koanf:"render"`
	Analysis AnalysisConfig `koanf:"analysis"`
	Cache    CacheConfig    `koanf:"cache"`
}

// LayoutConfig configures node placement.
type LayoutConfig struct {
	Algorithm string  `koanf:"algorithm"`
	Spacing   float64 `koanf:"spacing"`
	Sweeps    int     `koanf:"sweeps"`
}

// RenderConfig configures diagram output.
type RenderConfig struct {
	Engine string         `koanf:"engine"`
	Format string         `koanf:"format"`
	Scale  float64        `koanf:"scale"`
	Theme  nodelink.Theme `koanf:"theme"`
}

// AnalysisConfig configures the adjustment-set search.
type AnalysisConfig struct {
	Type    string `koanf:"type"`
	MaxSize int    `koanf:"max_size"`
}

// CacheConfig toggles the artifact cache.
type CacheConfig struct {
	Enabled bool `koanf:"enabled"`
}

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path. An explicit path
	// must exist.
	ProjectConfigPath string
	// UserConfigPath overrides the user config path (used by tests).
	UserConfigPath string
	// SkipUser ignores the user config.
	SkipUser bool
}

// Defaults returns the built-in settings keyed by koanf path.
func Defaults() map[string]any {
	theme := nodelink.DefaultTheme()
	return map[string]any{
		"layout.algorithm":       string(layout.Layered),
		"layout.spacing":         1.0,
		"layout.sweeps":          8,
		"render.engine":          string(nodelink.EngineDot),
		"render.format":          "svg",
		"render.scale":           2.0,
		"render.theme.observed":  theme.Observed,
		"render.theme.exposure":  theme.Exposure,
		"render.theme.outcome":   theme.Outcome,
		"render.theme.latent":    theme.Latent,
		"render.theme.adjusted":  theme.Adjusted,
		"render.theme.edge":      theme.Edge,
		"render.theme.activated": theme.Activated,
		"analysis.type":          adjust.Minimal.String(),
		"analysis.max_size":      0,
		"cache.enabled":          true,
	}
}

// Load loads configuration from all sources.
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")
	for key, value := range Defaults() {
		if err := k.Set(key, value); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "set default %s", key)
		}
	}

	if !opts.SkipUser {
		path := opts.UserConfigPath
		if path == "" {
			path, _ = UserConfigPath()
		}
		if err := loadYAML(k, path, false); err != nil {
			return nil, err
		}
	}

	project, explicit := opts.ProjectConfigPath, opts.ProjectConfigPath != ""
	if !explicit {
		project = ProjectConfigPath
	}
	if err := loadYAML(k, project, explicit); err != nil {
		return nil, err
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "load environment config")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadYAML merges a YAML file. Missing files are skipped unless required.
func loadYAML(k *koanf.Koanf, path string, required bool) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if required {
			return errs.Wrap(errs.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return nil
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidFormat, err, "load config %s", path)
	}
	return nil
}

// envTransform maps TIDYDAG_RENDER__THEME__EXPOSURE to render.theme.exposure.
func envTransform(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	if _, err := layout.ParseAlgorithm(c.Layout.Algorithm); err != nil {
		return err
	}
	if _, err := nodelink.ParseEngine(c.Render.Engine); err != nil {
		return err
	}
	if err := pipeline.ValidateFormat(c.Render.Format); err != nil {
		return err
	}
	if _, err := adjust.ParseType(c.Analysis.Type); err != nil {
		return err
	}
	if c.Analysis.MaxSize < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "analysis.max_size must not be negative, got %d", c.Analysis.MaxSize)
	}
	if c.Layout.Spacing < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "layout.spacing must not be negative, got %g", c.Layout.Spacing)
	}
	return nil
}

// LayoutOptions converts the layout section.
func (c *Config) LayoutOptions() layout.Options {
	algo, _ := layout.ParseAlgorithm(c.Layout.Algorithm)
	return layout.Options{Algorithm: algo, Spacing: c.Layout.Spacing, Sweeps: c.Layout.Sweeps}
}

// AdjustOptions converts the analysis section.
func (c *Config) AdjustOptions() adjust.Options {
	t, _ := adjust.ParseType(c.Analysis.Type)
	return adjust.Options{Type: t, MaxSize: c.Analysis.MaxSize}
}
