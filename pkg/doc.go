// Package pkg provides the libraries behind tidydag, a toolkit for causal
// directed acyclic graphs.
//
// # Overview
//
// A causal DAG encodes assumptions about what causes what. Given one, tidydag
// answers the questions an analyst asks before estimating an effect: which
// variables must be adjusted for, whether two variables are independent
// given others, which paths carry association and what conditioning on a
// collider does. Results come back as plain Go values or as a tidy edge
// table ready for plotting.
//
// # Architecture
//
// The typical data flow:
//
//	formula / JSON / YAML / TOML / HCL document
//	         ↓
//	    [io] package (parse and build)
//	         ↓
//	    [dag] package (immutable graph, bidirected edges canonicalized)
//	         ↓
//	    [paths], [adjust], [collider] (causal queries)
//	         ↓
//	    [layout] + [tidy] (coordinates and the edge table)
//	         ↓
//	    [render/nodelink] (DOT, SVG, PNG, PDF)
//
// # Quick Start
//
//	import (
//	    "strings"
//	    "github.com/matzehuels/tidydag/pkg/adjust"
//	    dagio "github.com/matzehuels/tidydag/pkg/io"
//	)
//
//	g, _ := dagio.Read(strings.NewReader(`
//	    y ~ x + z
//	    x ~ z
//	    exposure: x; outcome: y
//	`), dagio.FormatFormula)
//
//	res, _ := adjust.Sets(g, "", "", adjust.Options{})
//	fmt.Println(res.Sets) // [{z}]
//
// # Main Packages
//
// ## Graph Model
//
// [dag] - The immutable causal graph: roles, latent and synthetic nodes,
// reflexive ancestor and descendant closures, topological order and edge
// crossing counts. [dag/transform] holds the graph rewrites the queries
// need: layer assignment and the moral ancestral graph.
//
// [io] - Graph documents in the formula language and in JSON, YAML, TOML and
// HCL.
//
// ## Causal Queries
//
// [paths] - Path enumeration, chain/fork/collider classification and
// d-separation.
//
// [adjust] - Minimal, all and canonical adjustment sets for the back-door
// criterion, with diagnostics when no set exists.
//
// [collider] - Associations opened by conditioning on colliders or their
// descendants.
//
// ## Presentation
//
// [layout] - Layered and circular node placement.
//
// [tidy] - The tidy edge table and its annotation verbs (ControlFor,
// AdjustmentSets, DSeparation, OpenPaths, Relatives, ...).
//
// [render/nodelink] - Graphviz diagrams of a tidy table.
//
// [render] - SVG to PDF/PNG conversion.
//
// ## Infrastructure
//
// [pipeline] - Load → analyze → render, shared by every CLI command.
//
// [cache] - Content-addressed caching of adjustment sets and artifacts.
//
// [observability] - Hooks for logging, metrics and tracing.
//
// [errors] - Error codes shared by every package.
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/adjust/...   # Specific package
//	go test -run Example       # Examples only
//
// [dag]: https://pkg.go.dev/github.com/matzehuels/tidydag/pkg/dag
// [dag/transform]: https://pkg.go.dev/github.com/matzehuels/tidydag/pkg/dag/transform
// [io]: https://pkg.go.dev/github.com/matzehuels/tidydag/pkg/io
// [paths]: https://pkg.go.dev/github.com/matzehuels/tidydag/pkg/paths
// [adjust]: https://pkg.go.dev/github.com/matzehuels/tidydag/pkg/adjust
// [collider]: https://pkg.go.dev/github.com/matzehuels/tidydag/pkg/collider
// [layout]: https://pkg.go.dev/github.com/matzehuels/tidydag/pkg/layout
// [tidy]: https://pkg.go.dev/github.com/matzehuels/tidydag/pkg/tidy
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/tidydag/pkg/render/nodelink
// [render]: https://pkg.go.dev/github.com/matzehuels/tidydag/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/tidydag/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/tidydag/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/tidydag/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/tidydag/pkg/errors
package pkg
