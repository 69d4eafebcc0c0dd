package tidy

import (
	"fmt"

	"github.com/matzehuels/tidydag/pkg/adjust"
	"github.com/matzehuels/tidydag/pkg/collider"
	"github.com/matzehuels/tidydag/pkg/dag"
	errs "github.com/matzehuels/tidydag/pkg/errors"
	"github.com/matzehuels/tidydag/pkg/paths"
)

// MissingAdjustingVariableError is returned by [ControlFor] when there is
// nothing to adjust for.
type MissingAdjustingVariableError struct{}

func (MissingAdjustingVariableError) Error() string {
	return "no variables to adjust for: pass at least one or adjust the table first"
}

// Code returns the error code for this error type.
func (MissingAdjustingVariableError) Code() errs.Code { return errs.ErrCodeMissingAdjustingVariable }

// ControlOptions configures [ControlFor].
type ControlOptions struct {
	// ActivateColliders appends an undirected row for every association
	// the adjustment creates through a collider.
	ActivateColliders bool
}

// ControlFor marks vars, plus anything adjusted for earlier, as adjusted.
// With no vars, the table must already carry an adjustment.
func ControlFor(t *Table, g *dag.DAG, vars []string, opts ControlOptions) (*Table, error) {
	if len(vars) == 0 && t.adjusted.Empty() {
		return nil, MissingAdjustingVariableError{}
	}
	if err := checkNodes(g, vars...); err != nil {
		return nil, err
	}

	cond := t.adjusted.With(vars...)
	rows := markAdjusted(cloneRows(t.rows), cond)
	if opts.ActivateColliders {
		rows = append(rows, activatedRows(g, t, cond)...)
		sortRows(rows)
	}
	return &Table{rows: rows, adjusted: cond}, nil
}

func activatedRows(g *dag.DAG, t *Table, cond dag.Set) []Row {
	pos := t.Positions()
	var out []Row
	for _, a := range collider.ActivatedEdges(g, cond) {
		from, _ := g.Node(a.From)
		to, _ := g.Node(a.To)
		if !Visible(from) || !Visible(to) {
			continue
		}
		r := edgeRow(g, pos, a.From, a.To, Undirected)
		r.Activated = true
		r.Adjusted = adjustedStatus(cond, a.From)
		out = append(out, r)
	}
	return out
}

// AdjustmentSets repeats the table once per adjustment set for the effect of
// x on y, with Set naming the set and Adjusted marking its members. Empty x
// or y default to the graph's exposure and outcome.
func AdjustmentSets(t *Table, g *dag.DAG, x, y string, opts adjust.Options) (*Table, error) {
	res, err := adjust.Sets(g, x, y, opts)
	if err != nil {
		return nil, err
	}

	var rows []Row
	for _, s := range res.Sets {
		block := markAdjusted(cloneRows(t.rows), s)
		for i := range block {
			block[i].Set = s.String()
		}
		rows = append(rows, block...)
	}
	return t.derive(rows), nil
}

// DSeparation marks the conditioning set as adjusted and records on the x
// and y rows whether the two are d-separated.
func DSeparation(t *Table, g *dag.DAG, x, y string, cond dag.Set) (*Table, error) {
	if err := checkNodes(g, append([]string{x, y}, cond.IDs()...)...); err != nil {
		return nil, err
	}

	status := "d-connected"
	if paths.DSeparated(g, x, y, cond) {
		status = "d-separated"
	}
	rows := markAdjusted(cloneRows(t.rows), cond)
	for i := range rows {
		if rows[i].Name == x || rows[i].Name == y {
			rows[i].Status = status
		}
	}
	return t.derive(rows), nil
}

// Status records every node's role in the Status column.
func Status(t *Table, g *dag.DAG) *Table {
	rows := cloneRows(t.rows)
	for i := range rows {
		if n, ok := g.Node(rows[i].Name); ok {
			rows[i].Status = n.Role.String()
		}
	}
	return t.derive(rows)
}

// Colliders flags the rows of collider nodes.
func Colliders(t *Table, g *dag.DAG) *Table {
	is := dag.NewSet(collider.Colliders(g)...)
	rows := cloneRows(t.rows)
	for i := range rows {
		rows[i].Collider = is.Has(rows[i].Name)
	}
	return t.derive(rows)
}

// Relation selects a family of nodes relative to another node.
type Relation string

const (
	RelationParents     Relation = "parents"
	RelationChildren    Relation = "children"
	RelationAncestors   Relation = "ancestors"
	RelationDescendants Relation = "descendants"
)

// Relatives labels each row's Set with the relation its node has to id, or
// "other". Ancestors and descendants exclude id itself.
func Relatives(t *Table, g *dag.DAG, id string, relation Relation) (*Table, error) {
	if err := checkNodes(g, id); err != nil {
		return nil, err
	}

	var members dag.Set
	switch relation {
	case RelationParents:
		members = dag.NewSet(g.Parents(id)...)
	case RelationChildren:
		members = dag.NewSet(g.Children(id)...)
	case RelationAncestors:
		members = g.Ancestors(id).Without(id)
	case RelationDescendants:
		members = g.Descendants(id).Without(id)
	default:
		return nil, errs.New(errs.ErrCodeInvalidInput, "unknown relation %q", relation)
	}

	rows := cloneRows(t.rows)
	for i := range rows {
		rows[i].Set = "other"
		if members.Has(rows[i].Name) {
			rows[i].Set = string(relation)
		}
	}
	return t.derive(rows), nil
}

// OpenPaths lists, for every path between x and y that is open given cond,
// the rows of the path's edges with Set "path N". Edges through a hidden
// latent node map to their bidirected row.
func OpenPaths(t *Table, g *dag.DAG, x, y string, cond dag.Set) (*Table, error) {
	if err := checkNodes(g, append([]string{x, y}, cond.IDs()...)...); err != nil {
		return nil, err
	}

	var rows []Row
	for i, p := range paths.OpenPaths(g, x, y, cond) {
		onPath := pathEdges(g, p)
		for _, r := range cloneRows(t.rows) {
			if r.To == nil || !onPath[[3]string{r.Name, *r.To, r.Direction}] {
				continue
			}
			r.Set = fmt.Sprintf("path %d", i+1)
			r.Adjusted = adjustedStatus(cond, r.Name)
			rows = append(rows, r)
		}
	}
	return t.derive(rows), nil
}

// pathEdges keys the edges of p by (name, to, direction) as they appear in
// table rows.
func pathEdges(g *dag.DAG, p paths.Path) map[[3]string]bool {
	out := make(map[[3]string]bool)
	for _, e := range p.Edges() {
		n, _ := g.Node(e[0])
		if Visible(n) {
			out[[3]string{e[0], e[1], Directed}] = true
			continue
		}
		// Hidden U_a_b -> a: the row is a <-> b.
		for _, b := range g.Children(e[0]) {
			if b != e[1] {
				out[[3]string{min(e[1], b), max(e[1], b), Bidirected}] = true
			}
		}
	}
	return out
}

func markAdjusted(rows []Row, cond dag.Set) []Row {
	for i := range rows {
		rows[i].Adjusted = adjustedStatus(cond, rows[i].Name)
	}
	return rows
}

func adjustedStatus(cond dag.Set, id string) string {
	if cond.Has(id) {
		return StatusAdjusted
	}
	return StatusUnadjusted
}

func checkNodes(g *dag.DAG, ids ...string) error {
	for _, id := range ids {
		if !g.Has(id) {
			return errs.New(errs.ErrCodeUnknownNode, "unknown node %q", id)
		}
	}
	return nil
}
