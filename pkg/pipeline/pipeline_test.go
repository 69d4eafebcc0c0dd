package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/tidydag/pkg/cache"
	errs "github.com/matzehuels/tidydag/pkg/errors"
	dagio "github.com/matzehuels/tidydag/pkg/io"
	"github.com/matzehuels/tidydag/pkg/render/nodelink"
)

const dagify = `
y ~ x + z2 + w2 + w1
x ~ z1 + w1
z1 ~ w1 + v
z2 ~ w2 + v
w1 ~~ w2
exposure: x; outcome: y
`

const mBias = `
x ~ a
m ~ a + b
y ~ b
exposure: x; outcome: y
`

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"dot", false},
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"csv", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("ValidateFormats() = %v, want INVALID_FORMAT", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Source: []byte("y ~ x")}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	if opts.InputFormat != dagio.FormatFormula {
		t.Errorf("InputFormat = %q, want formula", opts.InputFormat)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Engine != nodelink.EngineDot || opts.Pinned() {
		t.Errorf("Engine = %q, want dot and unpinned", opts.Engine)
	}
	if opts.Scale != DefaultScale || opts.Logger == nil {
		t.Error("Scale or Logger default missing")
	}

	if err := (&Options{}).ValidateAndSetDefaults(); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("empty options error = %v, want INVALID_INPUT", err)
	}
	if err := (&Options{Source: []byte("a"), Engine: "fdp"}).ValidateAndSetDefaults(); err == nil {
		t.Error("unknown engine should fail validation")
	}
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	g, err := Load(ctx, Options{Source: []byte(dagify)})
	if err != nil {
		t.Fatalf("Load(source) error: %v", err)
	}
	if g.NodeCount() != 8 {
		t.Errorf("NodeCount() = %d, want 8", g.NodeCount())
	}

	path := filepath.Join(t.TempDir(), "g.dag")
	if err := os.WriteFile(path, []byte(dagify), 0o644); err != nil {
		t.Fatal(err)
	}
	fromFile, err := Load(ctx, Options{Input: path})
	if err != nil {
		t.Fatalf("Load(file) error: %v", err)
	}
	fileHash, err := GraphHash(fromFile)
	if err != nil {
		t.Fatalf("GraphHash(file) error: %v", err)
	}
	sourceHash, err := GraphHash(g)
	if err != nil {
		t.Fatalf("GraphHash(source) error: %v", err)
	}
	if fileHash == "" || fileHash != sourceHash {
		t.Errorf("GraphHash(file) = %q, GraphHash(source) = %q, want equal and non-empty", fileHash, sourceHash)
	}

	if _, err := Load(ctx, Options{Input: filepath.Join(t.TempDir(), "missing.dag")}); !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestAnalyze_Dagify(t *testing.T) {
	ctx := context.Background()
	g, _ := Load(ctx, Options{Source: []byte(dagify)})

	a, table, err := Analyze(ctx, g, Options{}, nil)
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if a.Exposure != "x" || a.Outcome != "y" {
		t.Errorf("roles = %s, %s", a.Exposure, a.Outcome)
	}
	var got []string
	for _, s := range a.Adjustment.Sets {
		got = append(got, s.String())
	}
	if want := "{v, w1} {w1, z1} {w1, w2, z2}"; strings.Join(got, " ") != want {
		t.Errorf("Sets = %v, want %s", got, want)
	}
	if a.Separated || len(a.OpenPaths) == 0 {
		t.Error("x and y should be d-connected with no conditioning")
	}
	if table.Len() == 0 {
		t.Error("empty table")
	}
}

func TestAnalyze_MBias(t *testing.T) {
	ctx := context.Background()
	g, _ := Load(ctx, Options{Source: []byte(mBias)})

	a, _, err := Analyze(ctx, g, Options{}, nil)
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if !a.Separated || len(a.Activations) != 0 {
		t.Errorf("unconditioned M-bias: separated=%v activations=%v", a.Separated, a.Activations)
	}

	a, table, err := Analyze(ctx, g, Options{Condition: []string{"m"}, ActivateColliders: true}, nil)
	if err != nil {
		t.Fatalf("Analyze(m) error: %v", err)
	}
	if a.Separated {
		t.Error("conditioning on m should connect x and y")
	}
	if len(a.Activations) != 1 || a.Activations[0].String() != "a -- b (collider m)" {
		t.Errorf("Activations = %v", a.Activations)
	}
	if !table.Adjusted().Has("m") {
		t.Error("table does not mark m as adjusted")
	}
}

func TestAnalyze_Unclosable(t *testing.T) {
	ctx := context.Background()
	g, _ := Load(ctx, Options{Source: []byte("y ~ x\nx ~~ y\nexposure: x; outcome: y")})

	a, _, err := Analyze(ctx, g, Options{}, nil)
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if a.Adjustment != nil || a.Unclosable == nil {
		t.Fatalf("want unclosable result, got %+v", a)
	}
	if len(a.Unclosable.Causes) == 0 {
		t.Error("unclosable result has no causes")
	}
}

func TestAnalyze_NoRoles(t *testing.T) {
	ctx := context.Background()
	g, _ := Load(ctx, Options{Source: []byte("y ~ x")})

	a, table, err := Analyze(ctx, g, Options{}, nil)
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if a.Exposure != "" || a.Adjustment != nil || table.Len() != 2 {
		t.Errorf("unexpected analysis without roles: %+v", a)
	}

	if _, _, err := Analyze(ctx, g, Options{Condition: []string{"nope"}}, nil); !errs.Is(err, errs.ErrCodeUnknownNode) {
		t.Errorf("unknown condition error = %v", err)
	}
	if _, _, err := Analyze(ctx, g, Options{Exposure: "nope", Outcome: "y"}, nil); !errs.Is(err, errs.ErrCodeUnknownNode) {
		t.Errorf("unknown exposure error = %v", err)
	}
}

func TestRender(t *testing.T) {
	ctx := context.Background()
	g, _ := Load(ctx, Options{Source: []byte(mBias)})
	_, table, _ := Analyze(ctx, g, Options{}, nil)

	artifacts, err := Render(ctx, table, Options{Formats: []string{FormatDOT, FormatJSON, FormatCSV}})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.HasPrefix(string(artifacts[FormatDOT]), "digraph G {") {
		t.Errorf("dot artifact = %q", artifacts[FormatDOT])
	}
	var rows []map[string]any
	if err := json.Unmarshal(artifacts[FormatJSON], &rows); err != nil || len(rows) != table.Len() {
		t.Errorf("json artifact: %d rows, err %v", len(rows), err)
	}
	if !strings.HasPrefix(string(artifacts[FormatCSV]), "name,") {
		t.Errorf("csv artifact = %q", artifacts[FormatCSV])
	}

	if _, err := Render(ctx, table, Options{Formats: []string{"gif"}}); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("Render(gif) error = %v", err)
	}
}

func TestRunner_Cache(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, cache.NewScopedKeyer(nil, "test:"), nil)
	defer r.Close()

	opts := Options{Source: []byte(dagify), Formats: []string{FormatDOT, FormatCSV}}
	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if first.CacheInfo.AnalysisHit || first.CacheInfo.RenderHit {
		t.Errorf("first run hit the cache: %+v", first.CacheInfo)
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("second Execute() error: %v", err)
	}
	if !second.CacheInfo.AnalysisHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run missed the cache: %+v", second.CacheInfo)
	}
	if len(second.Analysis.Adjustment.Sets) != 3 {
		t.Errorf("cached sets = %v", second.Analysis.Adjustment.Sets)
	}
	if string(second.Artifacts[FormatDOT]) != string(first.Artifacts[FormatDOT]) {
		t.Error("cached DOT differs")
	}

	opts.Refresh = true
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("refresh Execute() error: %v", err)
	}
	if third.CacheInfo.AnalysisHit || third.CacheInfo.RenderHit {
		t.Errorf("refresh run hit the cache: %+v", third.CacheInfo)
	}
}
