// Package nodelink draws tidy tables as node-link diagrams with Graphviz.
//
// [ToDOT] turns a [tidy.Table] into DOT source: nodes are filled by role,
// adjusted variables are boxed, latent variables dashed, bidirected edges
// point both ways and collider activations are dashed undirected lines.
// [RenderSVG] lays the source out in-process:
//
//	dot := nodelink.ToDOT(table, nodelink.Options{Pinned: true})
//	svg, err := nodelink.RenderSVG(ctx, dot, nodelink.EngineNeato)
//
// Pinned diagrams carry the table coordinates as pos="x,y!" and need the
// neato engine; dot computes its own ranks.
//
// This package uses [github.com/goccy/go-graphviz] for SVG rendering. PDF
// and PNG conversion requires librsvg (rsvg-convert).
package nodelink
