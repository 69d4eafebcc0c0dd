package transform

import (
	"slices"

	"github.com/matzehuels/tidydag/pkg/dag"
)

// AssignLayers assigns every node a row based on its depth in the graph and
// returns the assignment.
//
// AssignLayers uses a longest-path algorithm driven by Kahn's topological
// traversal. Each node is placed at one plus the maximum row of any of its
// parents, so:
//   - Root nodes (no incoming edges) are at row 0
//   - All parents are strictly above their children
//   - Each node is pushed as deep as necessary to avoid parent conflicts
//
// A built DAG is acyclic, so every node is reached.
//
// Time complexity is O(V + E).
func AssignLayers(g *dag.DAG) map[string]int {
	ids := g.IDs()
	inDegree := make(map[string]int, len(ids))
	rows := make(map[string]int, len(ids))
	queue := make([]string, 0, len(ids))

	for _, id := range ids {
		degree := g.InDegree(id)
		inDegree[id] = degree
		rows[id] = 0
		if degree == 0 {
			queue = append(queue, id)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range g.Children(curr) {
			if row := rows[curr] + 1; row > rows[child] {
				rows[child] = row
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	return rows
}

// Layers groups a row assignment into rows of node IDs. Row i of the result
// holds the IDs assigned to row i, sorted; rows nobody was assigned to are
// empty.
func Layers(rows map[string]int) [][]string {
	depth := -1
	for _, r := range rows {
		depth = max(depth, r)
	}
	out := make([][]string, depth+1)
	for id, r := range rows {
		out[r] = append(out[r], id)
	}
	for _, layer := range out {
		slices.Sort(layer)
	}
	return out
}
