package paths

import (
	"slices"

	"github.com/matzehuels/tidydag/pkg/dag"
)

// All returns every simple path between from and to in the skeleton of g,
// ignoring edge direction. Paths are returned in lexicographic order of
// their node sequences.
//
// The result is empty when no path exists, when from == to, or when either
// node is unknown.
func All(g *dag.DAG, from, to string) []Path {
	if from == to || !g.Has(from) || !g.Has(to) {
		return nil
	}

	var (
		out     []Path
		stack   = []string{from}
		onStack = map[string]bool{from: true}
	)

	// Neighbors come back sorted, so depth-first order is lexicographic.
	var walk func(curr string)
	walk = func(curr string) {
		for _, next := range g.Neighbors(curr) {
			if onStack[next] {
				continue
			}
			if next == to {
				out = append(out, orient(g, append(slices.Clone(stack), to)))
				continue
			}
			onStack[next] = true
			stack = append(stack, next)
			walk(next)
			stack = stack[:len(stack)-1]
			onStack[next] = false
		}
	}
	walk(from)

	return out
}

// Directed returns the paths of [All] that follow edge directions from
// from to to.
func Directed(g *dag.DAG, from, to string) []Path {
	var out []Path
	for _, p := range All(g, from, to) {
		if p.IsDirected() {
			out = append(out, p)
		}
	}
	return out
}

func orient(g *dag.DAG, nodes []string) Path {
	dirs := make([]Direction, len(nodes)-1)
	for i := range dirs {
		if !g.HasEdge(nodes[i], nodes[i+1]) {
			dirs[i] = Backward
		}
	}
	return Path{Nodes: nodes, Dirs: dirs}
}
