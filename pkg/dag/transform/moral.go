package transform

import (
	"slices"

	"github.com/matzehuels/tidydag/pkg/dag"
)

// MoralAncestral returns the moral graph of the ancestral subgraph of nodes,
// as a sorted undirected adjacency list.
//
// The ancestral subgraph keeps nodes and all their ancestors. Moralizing
// drops edge directions and connects ("marries") every pair of parents that
// share a child. Two node sets X and Y are d-separated by Z in g exactly when
// Z separates X from Y in the moral graph of the ancestors of X, Y and Z.
func MoralAncestral(g *dag.DAG, nodes dag.Set) map[string][]string {
	keep := dag.Set{}
	for _, id := range nodes.IDs() {
		keep = keep.Union(g.Ancestors(id))
	}

	adj := make(map[string][]string, keep.Len())
	link := func(a, b string) {
		adj[a] = append(adj[a], b)
		adj[b] = append(adj[b], a)
	}
	for _, id := range keep.IDs() {
		if _, ok := adj[id]; !ok {
			adj[id] = nil
		}
		parents := g.Parents(id)
		for i, p := range parents {
			link(p, id)
			for _, q := range parents[i+1:] {
				link(p, q)
			}
		}
	}
	for id, ns := range adj {
		slices.Sort(ns)
		adj[id] = slices.Compact(ns)
	}
	return adj
}

// Reachable returns the nodes reachable from the start set in an undirected
// adjacency list without passing through blocked nodes. Start nodes that are
// themselves blocked are not expanded.
func Reachable(adj map[string][]string, start, blocked dag.Set) dag.Set {
	seen := make(map[string]bool)
	var queue []string
	for _, id := range start.IDs() {
		if _, ok := adj[id]; ok && !blocked.Has(id) {
			seen[id] = true
			queue = append(queue, id)
		}
	}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		for _, n := range adj[curr] {
			if seen[n] || blocked.Has(n) {
				continue
			}
			seen[n] = true
			queue = append(queue, n)
		}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	return dag.NewSet(out...)
}
