package io

import (
	"slices"

	"github.com/matzehuels/tidydag/pkg/dag"
	errs "github.com/matzehuels/tidydag/pkg/errors"
)

// Document is the structured description shared by the JSON, YAML and TOML
// formats.
type Document struct {
	Exposure   string     `json:"exposure,omitempty" yaml:"exposure,omitempty" toml:"exposure,omitempty"`
	Outcome    string     `json:"outcome,omitempty" yaml:"outcome,omitempty" toml:"outcome,omitempty"`
	Latent     []string   `json:"latent,omitempty" yaml:"latent,omitempty" toml:"latent,omitempty"`
	Promote    []string   `json:"promote,omitempty" yaml:"promote,omitempty" toml:"promote,omitempty"`
	Bidirected [][]string `json:"bidirected,omitempty" yaml:"bidirected,omitempty" toml:"bidirected,omitempty"`
	Nodes      []NodeDoc  `json:"nodes" yaml:"nodes" toml:"nodes"`
}

// NodeDoc describes one node and its direct causes.
type NodeDoc struct {
	ID      string   `json:"id" yaml:"id" toml:"id"`
	Label   string   `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
	Parents []string `json:"parents,omitempty" yaml:"parents,omitempty" toml:"parents,omitempty"`
	X       *float64 `json:"x,omitempty" yaml:"x,omitempty" toml:"x,omitempty"`
	Y       *float64 `json:"y,omitempty" yaml:"y,omitempty" toml:"y,omitempty"`
}

// Spec converts the document into a graph description.
func (d Document) Spec() (dag.Spec, error) {
	spec := dag.Spec{
		Exposure: d.Exposure,
		Outcome:  d.Outcome,
		Latent:   slices.Clone(d.Latent),
		Promote:  slices.Clone(d.Promote),
	}
	for _, pair := range d.Bidirected {
		if len(pair) != 2 {
			return dag.Spec{}, errs.New(errs.ErrCodeInvalidFormat, "bidirected entry %v must name exactly two nodes", pair)
		}
		spec.Bidirected = append(spec.Bidirected, dag.Pair{pair[0], pair[1]})
	}
	for _, n := range d.Nodes {
		if len(n.Parents) > 0 {
			spec.Relations = append(spec.Relations, dag.Relation{Child: n.ID, Parents: slices.Clone(n.Parents)})
		} else {
			spec.Nodes = append(spec.Nodes, n.ID)
		}
		if n.Label != "" {
			if spec.Labels == nil {
				spec.Labels = make(map[string]string)
			}
			spec.Labels[n.ID] = n.Label
		}
		if (n.X == nil) != (n.Y == nil) {
			return dag.Spec{}, errs.New(errs.ErrCodeInvalidFormat, "node %q needs both x and y coordinates", n.ID)
		}
		if n.X != nil {
			if spec.Coords == nil {
				spec.Coords = make(map[string]dag.Point)
			}
			spec.Coords[n.ID] = dag.Point{X: *n.X, Y: *n.Y}
		}
	}
	return spec, nil
}

// NewDocument describes a graph. Every declared node gets an entry, sorted
// by ID, with its parents in sorted order. Synthetic nodes are represented
// by their bidirected edge only.
func NewDocument(g *dag.DAG) Document {
	var doc Document
	doc.Exposure, _ = g.Exposure()
	doc.Outcome, _ = g.Outcome()

	for _, n := range g.Nodes() {
		if n.IsSynthetic() {
			if n.Promoted {
				doc.Promote = append(doc.Promote, n.ID)
			}
			continue
		}
		if n.IsLatent() {
			doc.Latent = append(doc.Latent, n.ID)
			if n.Promoted {
				doc.Promote = append(doc.Promote, n.ID)
			}
		}

		nd := NodeDoc{ID: n.ID, Label: n.Label}
		for _, p := range g.Parents(n.ID) {
			if pn, _ := g.Node(p); !pn.IsSynthetic() {
				nd.Parents = append(nd.Parents, p)
			}
		}
		if n.Pos != nil {
			x, y := n.Pos.X, n.Pos.Y
			nd.X, nd.Y = &x, &y
		}
		doc.Nodes = append(doc.Nodes, nd)
	}
	for _, e := range g.BidirectedEdges() {
		doc.Bidirected = append(doc.Bidirected, []string{e.From, e.To})
	}
	return doc
}
