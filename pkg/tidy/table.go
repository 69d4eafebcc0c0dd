// Package tidy turns a causal DAG into a flat edge table that renderers and
// exporters consume, and annotates that table with analysis results.
//
// A [Table] has one [Row] per edge plus one row for every node without
// outgoing edges. Latent nodes introduced for bidirected edges are not
// listed; their edge shows up as a single "<->" row instead, unless the node
// was promoted.
//
// Every annotation verb (ControlFor, AdjustmentSets, DSeparation, ...)
// returns a new table and leaves its input untouched.
package tidy

import (
	"slices"
	"strings"

	"github.com/matzehuels/tidydag/pkg/dag"
	"github.com/matzehuels/tidydag/pkg/layout"
)

// Direction values used in [Row.Direction].
const (
	Directed   = "->"
	Bidirected = "<->"
	Undirected = "--"
)

// Adjusted values used in [Row.Adjusted].
const (
	StatusAdjusted   = "adjusted"
	StatusUnadjusted = "unadjusted"
)

// Row is one edge, or one edgeless node, of a tidy table.
type Row struct {
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`

	// To, XEnd and YEnd are nil for terminal rows.
	To   *string  `json:"to"`
	XEnd *float64 `json:"xend"`
	YEnd *float64 `json:"yend"`

	Direction string `json:"direction"`
	Label     string `json:"label"`
	Role      string `json:"role"`

	Adjusted  string `json:"adjusted,omitempty"`
	Set       string `json:"set,omitempty"`
	Status    string `json:"status,omitempty"`
	Collider  bool   `json:"collider,omitempty"`
	Activated bool   `json:"activated,omitempty"`
}

// Target returns To, or "" for terminal rows.
func (r Row) Target() string {
	if r.To == nil {
		return ""
	}
	return *r.To
}

// Table is an immutable list of rows.
type Table struct {
	rows     []Row
	adjusted dag.Set
}

// Rows returns a copy of the rows.
func (t *Table) Rows() []Row { return cloneRows(t.rows) }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Adjusted returns the variables adjusted for by earlier ControlFor calls.
func (t *Table) Adjusted() dag.Set { return t.adjusted }

// Names returns the distinct node names, sorted.
func (t *Table) Names() []string {
	var out []string
	for _, r := range t.rows {
		out = append(out, r.Name)
		if r.To != nil {
			out = append(out, *r.To)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Positions returns the coordinates of every node in the table.
func (t *Table) Positions() layout.Layout {
	out := make(layout.Layout)
	for _, r := range t.rows {
		out[r.Name] = dag.Point{X: r.X, Y: r.Y}
		if r.To != nil {
			out[*r.To] = dag.Point{X: *r.XEnd, Y: *r.YEnd}
		}
	}
	return out
}

func (t *Table) derive(rows []Row) *Table {
	return &Table{rows: rows, adjusted: t.adjusted}
}

// Visible reports whether a node appears in tidy tables. Synthetic latent
// nodes stand in for bidirected edges and are hidden unless promoted.
func Visible(n dag.Node) bool { return !n.IsSynthetic() || n.Promoted }

// Tidy builds the table for g using the given coordinates. Nodes missing
// from pos are placed at the origin.
func Tidy(g *dag.DAG, pos layout.Layout) *Table {
	var rows []Row
	hasRow := make(map[string]bool)

	for _, e := range g.Edges() {
		from, _ := g.Node(e.From)
		if !Visible(from) {
			continue
		}
		rows = append(rows, edgeRow(g, pos, e.From, e.To, Directed))
		hasRow[e.From] = true
	}
	for _, e := range g.BidirectedEdges() {
		u, _ := g.Node(dag.CanonicalID(e.From, e.To))
		if Visible(u) {
			continue // drawn as a regular node with two arrows
		}
		rows = append(rows, edgeRow(g, pos, e.From, e.To, Bidirected))
		hasRow[e.From] = true
	}
	for _, n := range g.Nodes() {
		if !Visible(n) || hasRow[n.ID] {
			continue
		}
		rows = append(rows, nodeRow(n, pos))
	}

	sortRows(rows)
	return &Table{rows: rows}
}

func nodeRow(n dag.Node, pos layout.Layout) Row {
	p := pos[n.ID]
	return Row{
		Name:  n.ID,
		X:     p.X,
		Y:     p.Y,
		Label: n.DisplayLabel(),
		Role:  n.Role.String(),
	}
}

func edgeRow(g *dag.DAG, pos layout.Layout, from, to, direction string) Row {
	n, _ := g.Node(from)
	r := nodeRow(n, pos)
	end := pos[to]
	r.To, r.XEnd, r.YEnd = &to, &end.X, &end.Y
	r.Direction = direction
	return r
}

func sortRows(rows []Row) {
	slices.SortStableFunc(rows, func(a, b Row) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.Target(), b.Target())
	})
}

func cloneRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = r
		if r.To != nil {
			to, xe, ye := *r.To, *r.XEnd, *r.YEnd
			out[i].To, out[i].XEnd, out[i].YEnd = &to, &xe, &ye
		}
	}
	return out
}
