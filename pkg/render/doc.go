// Package render holds output conversions shared by the diagram renderers.
//
// [ToPDF] and [ToPNG] convert an SVG document with the external rsvg-convert
// tool (from librsvg). The [nodelink] subpackage produces the SVG:
//
//	dot := nodelink.ToDOT(table, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot, nodelink.EngineDot)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// [nodelink]: github.com/matzehuels/tidydag/pkg/render/nodelink
package render
