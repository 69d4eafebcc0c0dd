package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/tidydag/pkg/adjust"
	errs "github.com/matzehuels/tidydag/pkg/errors"
	"github.com/matzehuels/tidydag/pkg/layout"
	"github.com/matzehuels/tidydag/pkg/render/nodelink"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(LoadOptions{SkipUser: true})
	require.NoError(t, err)

	assert.Equal(t, "layered", cfg.Layout.Algorithm)
	assert.Equal(t, 1.0, cfg.Layout.Spacing)
	assert.Equal(t, "dot", cfg.Render.Engine)
	assert.Equal(t, "svg", cfg.Render.Format)
	assert.Equal(t, nodelink.DefaultTheme(), cfg.Render.Theme)
	assert.Equal(t, "minimal", cfg.Analysis.Type)
	assert.True(t, cfg.Cache.Enabled)

	assert.Equal(t, layout.Options{Algorithm: layout.Layered, Spacing: 1, Sweeps: 8}, cfg.LayoutOptions())
	assert.Equal(t, adjust.Options{Type: adjust.Minimal}, cfg.AdjustOptions())
}

func TestLoad_Example(t *testing.T) {
	example, err := filepath.Abs(filepath.Join("..", "..", "examples", "tidydag.yaml"))
	require.NoError(t, err)
	t.Chdir(t.TempDir())

	cfg, err := Load(LoadOptions{SkipUser: true, ProjectConfigPath: example})
	require.NoError(t, err)

	assert.Equal(t, "neato", cfg.Render.Engine)
	assert.Equal(t, 1.5, cfg.Layout.Spacing)
	assert.Equal(t, 4, cfg.Analysis.MaxSize)
	assert.Equal(t, "#9be3a4", cfg.Render.Theme.Exposure)
	assert.Equal(t, nodelink.DefaultTheme().Latent, cfg.Render.Theme.Latent)
}

func TestLoad_Layering(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	user := writeFile(t, dir, "user.yaml", `
layout:
  algorithm: circle
analysis:
  type: all
render:
  theme:
    exposure: green
`)
	writeFile(t, dir, ProjectConfigPath, `
analysis:
  type: canonical
  max_size: 3
`)
	t.Setenv("TIDYDAG_RENDER__ENGINE", "neato")
	t.Setenv("TIDYDAG_CACHE__ENABLED", "false")

	cfg, err := Load(LoadOptions{UserConfigPath: user})
	require.NoError(t, err)

	assert.Equal(t, "circle", cfg.Layout.Algorithm, "user file")
	assert.Equal(t, "canonical", cfg.Analysis.Type, "project beats user")
	assert.Equal(t, 3, cfg.Analysis.MaxSize)
	assert.Equal(t, "green", cfg.Render.Theme.Exposure)
	assert.Equal(t, nodelink.DefaultTheme().Outcome, cfg.Render.Theme.Outcome, "untouched theme keys keep defaults")
	assert.Equal(t, "neato", cfg.Render.Engine, "env beats files")
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, adjust.Options{Type: adjust.Canonical, MaxSize: 3}, cfg.AdjustOptions())
}

func TestLoad_ExplicitProject(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := writeFile(t, dir, "custom.yaml", "render:\n  format: png\n")
	cfg, err := Load(LoadOptions{ProjectConfigPath: path, SkipUser: true})
	require.NoError(t, err)
	assert.Equal(t, "png", cfg.Render.Format)

	_, err = Load(LoadOptions{ProjectConfigPath: filepath.Join(dir, "missing.yaml"), SkipUser: true})
	assert.True(t, errs.Is(err, errs.ErrCodeFileNotFound))
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"algorithm": "layout:\n  algorithm: spiral\n",
		"engine":    "render:\n  engine: fdp\n",
		"format":    "render:\n  format: gif\n",
		"type":      "analysis:\n  type: maximal\n",
		"max size":  "analysis:\n  max_size: -1\n",
		"yaml":      "layout: [\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeFile(t, dir, "c.yaml", content)
			_, err := Load(LoadOptions{ProjectConfigPath: path, SkipUser: true})
			assert.Error(t, err)
		})
	}
}

func TestEnvTransform(t *testing.T) {
	assert.Equal(t, "analysis.max_size", envTransform("TIDYDAG_ANALYSIS__MAX_SIZE"))
	assert.Equal(t, "render.theme.exposure", envTransform("TIDYDAG_RENDER__THEME__EXPOSURE"))
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err := CacheDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg", "tidydag"), dir)
}
