package dag

import (
	"fmt"
	"slices"
	"strings"

	errs "github.com/matzehuels/tidydag/pkg/errors"
)

// Role tags a node with its part in a causal question. Every node carries
// exactly one role; observed is the zero value.
type Role int

const (
	// RoleObserved marks a measured variable that may be conditioned on.
	RoleObserved Role = iota
	// RoleExposure marks the treatment whose effect is estimated.
	RoleExposure
	// RoleOutcome marks the variable the effect is measured on.
	RoleOutcome
	// RoleLatent marks an unmeasured variable. Latent nodes never appear in
	// adjustment sets unless promoted.
	RoleLatent
)

var roleNames = [...]string{"observed", "exposure", "outcome", "latent"}

// String returns the lowercase role name used in tables and input files.
func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// ParseRole converts a role name back into a Role.
func ParseRole(s string) (Role, bool) {
	for i, name := range roleNames {
		if strings.EqualFold(s, name) {
			return Role(i), true
		}
	}
	return RoleObserved, false
}

// NodeKind distinguishes declared nodes from nodes inserted by
// canonicalization.
type NodeKind int

const (
	// NodeKindRegular represents a node named in the graph description.
	NodeKindRegular NodeKind = iota
	// NodeKindSynthetic represents the latent common cause inserted for a
	// bidirected edge. See [CanonicalID].
	NodeKindSynthetic
)

// Point is a 2D layout coordinate.
type Point struct {
	X float64 `json:"x" yaml:"x" toml:"x"`
	Y float64 `json:"y" yaml:"y" toml:"y"`
}

// Node is a vertex of a causal DAG.
type Node struct {
	ID    string   // Unique identifier
	Role  Role     // Causal role
	Kind  NodeKind // Declared or synthetic
	Label string   // Optional display label
	Pos   *Point   // Optional fixed coordinate, consumed by layout only

	// Promoted makes a latent node eligible for conditioning. It is only
	// meaningful for latent nodes.
	Promoted bool
}

// IsSynthetic reports whether the node was inserted by canonicalization.
func (n Node) IsSynthetic() bool { return n.Kind == NodeKindSynthetic }

// IsLatent reports whether the node is unmeasured.
func (n Node) IsLatent() bool { return n.Role == RoleLatent }

// Observable reports whether the node may be part of a conditioning set
// that can be realized in data.
func (n Node) Observable() bool { return !n.IsLatent() || n.Promoted }

// DisplayLabel returns the label if set, otherwise the ID.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// EdgeKind distinguishes directed edges from bidirected shorthand.
type EdgeKind int

const (
	// EdgeDirected is an ordinary causal arrow From -> To.
	EdgeDirected EdgeKind = iota
	// EdgeBidirected is From <-> To, shorthand for an unmeasured common cause.
	EdgeBidirected
)

// String returns the arrow notation for the edge kind.
func (k EdgeKind) String() string {
	if k == EdgeBidirected {
		return "<->"
	}
	return "->"
}

// Edge is a connection between two nodes.
type Edge struct {
	From string
	To   string
	Kind EdgeKind
}

// CyclicGraphError is returned by [Build] when the directed edges, after
// canonicalization, contain a cycle. No partial graph is returned.
type CyclicGraphError struct {
	// Cycle lists one offending cycle; the first node is repeated at the end.
	Cycle []string
}

// Error implements the error interface.
func (e *CyclicGraphError) Error() string {
	if len(e.Cycle) == 0 {
		return "graph contains a cycle"
	}
	return "graph contains a cycle: " + strings.Join(e.Cycle, " -> ")
}

// Code returns the error code for this error type.
func (e *CyclicGraphError) Code() errs.Code { return errs.ErrCodeCyclicGraph }

// DAG is an immutable causal directed acyclic graph.
//
// The zero value is not usable - use [Build] to create a DAG. Every query
// returns freshly allocated slices, so a DAG is safe for concurrent reads.
type DAG struct {
	nodes      map[string]*Node
	ids        []string
	edges      []Edge
	bidirected []Edge
	outgoing   map[string][]string // nodeID -> children IDs, sorted
	incoming   map[string][]string // nodeID -> parent IDs, sorted
	neighbors  map[string][]string // skeleton adjacency, sorted

	ancestors   map[string]Set
	descendants map[string]Set
	order       []string

	exposure string
	outcome  string
	spec     Spec
}

// Node returns a copy of the node with the given ID and true, or the zero
// Node and false if it doesn't exist.
func (d *DAG) Node(id string) (Node, bool) {
	n, ok := d.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Has reports whether id names a node of the graph.
func (d *DAG) Has(id string) bool {
	_, ok := d.nodes[id]
	return ok
}

// Nodes returns copies of all nodes sorted by ID.
func (d *DAG) Nodes() []Node {
	out := make([]Node, len(d.ids))
	for i, id := range d.ids {
		out[i] = *d.nodes[id]
	}
	return out
}

// IDs returns all node IDs in ascending order.
func (d *DAG) IDs() []string { return slices.Clone(d.ids) }

// Edges returns the directed edges sorted by (From, To). Bidirected edges
// appear here in canonical form, as two edges out of their synthetic node.
func (d *DAG) Edges() []Edge { return slices.Clone(d.edges) }

// BidirectedEdges returns the bidirected edges as declared, with From < To.
// They are presentation data only; analysis uses the canonical form.
func (d *DAG) BidirectedEdges() []Edge { return slices.Clone(d.bidirected) }

// NodeCount returns the number of nodes, including synthetic ones.
func (d *DAG) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of directed edges in canonical form.
func (d *DAG) EdgeCount() int { return len(d.edges) }

// Children returns the sorted IDs of nodes this node has edges to.
// Returns nil if the node has no children or doesn't exist.
func (d *DAG) Children(id string) []string { return slices.Clone(d.outgoing[id]) }

// Parents returns the sorted IDs of nodes that have edges to this node.
// Returns nil if the node has no parents or doesn't exist.
func (d *DAG) Parents(id string) []string { return slices.Clone(d.incoming[id]) }

// InDegree returns the number of parents of the node.
func (d *DAG) InDegree(id string) int { return len(d.incoming[id]) }

// OutDegree returns the number of children of the node.
func (d *DAG) OutDegree(id string) int { return len(d.outgoing[id]) }

// HasEdge reports whether the directed edge from -> to exists.
func (d *DAG) HasEdge(from, to string) bool {
	_, found := slices.BinarySearch(d.outgoing[from], to)
	return found
}

// Adjacent reports whether a and b share an edge in either direction.
func (d *DAG) Adjacent(a, b string) bool { return d.HasEdge(a, b) || d.HasEdge(b, a) }

// Ancestors returns the ancestors of id. The result is reflexive: it
// includes id itself. Returns an empty set for unknown IDs.
func (d *DAG) Ancestors(id string) Set { return d.ancestors[id] }

// Descendants returns the descendants of id. The result is reflexive: it
// includes id itself, so call sites that need strict descendants must
// remove id explicitly.
func (d *DAG) Descendants(id string) Set { return d.descendants[id] }

// IsDescendant reports whether id is a descendant of of (reflexively).
func (d *DAG) IsDescendant(of, id string) bool { return d.descendants[of].Has(id) }

// Neighbors returns the sorted skeleton neighbors of id, ignoring direction.
func (d *DAG) Neighbors(id string) []string { return slices.Clone(d.neighbors[id]) }

// Skeleton returns the undirected adjacency of the graph. Every node is
// present as a key; neighbor lists are sorted.
func (d *DAG) Skeleton() map[string][]string {
	out := make(map[string][]string, len(d.ids))
	for _, id := range d.ids {
		out[id] = slices.Clone(d.neighbors[id])
	}
	return out
}

// TopologicalOrder returns the node IDs so that every parent precedes its
// children. Ties are broken by ID, so the order is deterministic.
func (d *DAG) TopologicalOrder() []string { return slices.Clone(d.order) }

// Exposure returns the designated exposure node, if any.
func (d *DAG) Exposure() (string, bool) { return d.exposure, d.exposure != "" }

// Outcome returns the designated outcome node, if any.
func (d *DAG) Outcome() (string, bool) { return d.outcome, d.outcome != "" }

// Latent returns the IDs of latent nodes, including synthetic ones.
func (d *DAG) Latent() []string {
	var out []string
	for _, id := range d.ids {
		if d.nodes[id].IsLatent() {
			out = append(out, id)
		}
	}
	return out
}

// Observable reports whether id exists and may be conditioned on.
func (d *DAG) Observable(id string) bool {
	n, ok := d.nodes[id]
	return ok && n.Observable()
}

// Roots returns the sorted IDs of nodes without parents (exogenous nodes).
func (d *DAG) Roots() []string {
	var out []string
	for _, id := range d.ids {
		if len(d.incoming[id]) == 0 {
			out = append(out, id)
		}
	}
	return out
}

// Sinks returns the sorted IDs of nodes without children.
func (d *DAG) Sinks() []string {
	var out []string
	for _, id := range d.ids {
		if len(d.outgoing[id]) == 0 {
			out = append(out, id)
		}
	}
	return out
}

// Spec returns the description the graph was built from. Building the
// returned Spec again yields an identical graph.
func (d *DAG) Spec() Spec { return d.spec.clone() }

// CanonicalID returns the ID of the synthetic latent node that stands in
// for the bidirected edge a <-> b. The pair is ordered so both directions
// map to the same node.
func CanonicalID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return "U_" + a + "_" + b
}
