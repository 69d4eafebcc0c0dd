package dag

import (
	"maps"
	"slices"
)

// Relation declares the direct causes of a node: every parent gets an edge
// into Child. It mirrors one "child ~ parent + parent" formula term.
type Relation struct {
	Child   string
	Parents []string
}

// Pair is an unordered pair of node IDs, used for bidirected edges.
type Pair [2]string

// Spec is the declarative description a DAG is built from.
//
// Nodes are created implicitly by Relations and Bidirected; Nodes lists
// extra isolated nodes. Every other field must reference a node that exists
// after that, or [Build] reports an unknown node. Synthetic nodes created
// for bidirected edges may be referenced by Promote using [CanonicalID].
type Spec struct {
	Relations  []Relation
	Bidirected []Pair
	Nodes      []string

	Exposure string
	Outcome  string
	Latent   []string
	Promote  []string

	Labels map[string]string
	Coords map[string]Point
}

// Edge adds a single parent -> child relation and returns the spec for
// chaining. It is a convenience for building specs in code.
func (s Spec) Edge(parent, child string) Spec {
	s.Relations = append(slices.Clone(s.Relations), Relation{Child: child, Parents: []string{parent}})
	return s
}

func (s Spec) clone() Spec {
	out := s
	out.Relations = make([]Relation, len(s.Relations))
	for i, r := range s.Relations {
		out.Relations[i] = Relation{Child: r.Child, Parents: slices.Clone(r.Parents)}
	}
	out.Bidirected = slices.Clone(s.Bidirected)
	out.Nodes = slices.Clone(s.Nodes)
	out.Latent = slices.Clone(s.Latent)
	out.Promote = slices.Clone(s.Promote)
	out.Labels = maps.Clone(s.Labels)
	out.Coords = maps.Clone(s.Coords)
	return out
}
