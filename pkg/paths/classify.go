package paths

import (
	"fmt"

	"github.com/matzehuels/tidydag/pkg/dag"
	"github.com/matzehuels/tidydag/pkg/dag/transform"
)

// Step is the classification of one interior node of a path.
type Step struct {
	Node   string `json:"node"`
	Shape  Shape  `json:"-"`
	Blocks bool   `json:"blocks"`
	Reason string `json:"reason"`
}

// Verdict is the outcome of classifying a path against a conditioning set.
type Verdict struct {
	Path  Path   `json:"path"`
	Open  bool   `json:"open"`
	Steps []Step `json:"steps"`

	// Blocker is the first interior node that blocks the path, or "" if the
	// path is open.
	Blocker string `json:"blocker,omitempty"`
}

// Classify decides whether p is open or blocked given the conditioning set.
//
// A chain or fork node blocks iff it is conditioned on. A collider blocks
// unless it, or one of its descendants, is conditioned on. A path is open iff
// no interior node blocks; a single edge is always open.
func Classify(g *dag.DAG, p Path, cond dag.Set) Verdict {
	v := Verdict{Path: p, Open: true}
	for i := 1; i < len(p.Nodes)-1; i++ {
		step := classifyNode(g, p.Nodes[i], p.Shape(i), cond)
		if step.Blocks && v.Open {
			v.Open = false
			v.Blocker = step.Node
		}
		v.Steps = append(v.Steps, step)
	}
	return v
}

func classifyNode(g *dag.DAG, id string, shape Shape, cond dag.Set) Step {
	s := Step{Node: id, Shape: shape}
	if shape != Collider {
		s.Blocks = cond.Has(id)
		if s.Blocks {
			s.Reason = fmt.Sprintf("%s %s is conditioned on", shape, id)
		} else {
			s.Reason = fmt.Sprintf("%s %s is not conditioned on", shape, id)
		}
		return s
	}

	if cond.Has(id) {
		s.Reason = fmt.Sprintf("collider %s is conditioned on", id)
		return s
	}
	if opened := g.Descendants(id).Intersect(cond); !opened.Empty() {
		s.Reason = fmt.Sprintf("descendant %s of collider %s is conditioned on", opened.IDs()[0], id)
		return s
	}
	s.Blocks = true
	s.Reason = fmt.Sprintf("collider %s is not conditioned on", id)
	return s
}

// OpenPaths returns the paths between x and y that are open given cond.
func OpenPaths(g *dag.DAG, x, y string, cond dag.Set) []Path {
	var out []Path
	for _, p := range All(g, x, y) {
		if Classify(g, p, cond).Open {
			out = append(out, p)
		}
	}
	return out
}

// DSeparated reports whether x and y are d-separated given cond: every path
// between them is blocked. A node is never d-separated from itself.
func DSeparated(g *dag.DAG, x, y string, cond dag.Set) bool {
	if x == y {
		return false
	}
	for _, p := range All(g, x, y) {
		if Classify(g, p, cond).Open {
			return false
		}
	}
	return true
}

// DConnected is the negation of [DSeparated].
func DConnected(g *dag.DAG, x, y string, cond dag.Set) bool { return !DSeparated(g, x, y, cond) }

// DSeparatedSets reports whether every node of xs is d-separated from every
// node of ys given cond.
//
// It checks the moral ancestral graph instead of enumerating paths, so it
// stays cheap for larger sets. Members of cond that are also in xs or ys are
// endpoints, not blockers. Overlapping xs and ys are never separated.
func DSeparatedSets(g *dag.DAG, xs, ys, cond dag.Set) bool {
	if !xs.Intersect(ys).Empty() {
		return false
	}
	moral := transform.MoralAncestral(g, xs.Union(ys).Union(cond))
	blocked := cond.Without(xs.Union(ys).IDs()...)
	return transform.Reachable(moral, xs, blocked).Intersect(ys).Empty()
}
