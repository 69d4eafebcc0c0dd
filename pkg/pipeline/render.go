package pipeline

import (
	"bytes"
	"context"
	"time"

	errs "github.com/matzehuels/tidydag/pkg/errors"
	"github.com/matzehuels/tidydag/pkg/observability"
	"github.com/matzehuels/tidydag/pkg/render/nodelink"
	"github.com/matzehuels/tidydag/pkg/tidy"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, t *tidy.Table, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var err error
	for _, format := range opts.Formats {
		var data []byte
		if data, err = renderFormat(ctx, t, format, opts); err != nil {
			code := errs.GetCode(err)
			if code == "" {
				code = errs.ErrCodeInternal
			}
			err = errs.Wrap(code, err, "render %s", format)
			break
		}
		artifacts[format] = data
	}

	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return artifacts, nil
}

// DOT returns the Graphviz source for t.
func DOT(t *tidy.Table, opts Options) string {
	return nodelink.ToDOT(t, nodelink.Options{Theme: opts.Theme, Pinned: opts.Pinned(), Set: opts.Set})
}

func renderFormat(ctx context.Context, t *tidy.Table, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		var buf bytes.Buffer
		err := tidy.WriteJSON(&buf, t)
		return buf.Bytes(), err
	case FormatCSV:
		var buf bytes.Buffer
		err := tidy.WriteCSV(&buf, t)
		return buf.Bytes(), err
	case FormatDOT:
		return []byte(DOT(t, opts)), nil
	case FormatSVG:
		return nodelink.RenderSVG(ctx, DOT(t, opts), opts.Engine)
	case FormatPNG:
		return nodelink.RenderPNG(ctx, DOT(t, opts), opts.Engine, opts.Scale)
	case FormatPDF:
		return nodelink.RenderPDF(ctx, DOT(t, opts), opts.Engine)
	}
	return nil, errs.New(errs.ErrCodeInvalidFormat, "unsupported format: %s", format)
}
