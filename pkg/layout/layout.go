// Package layout assigns 2D coordinates to the nodes of a causal DAG for
// drawing.
//
// The [Layered] algorithm puts causes above effects: rows come from the
// longest-path layering in pkg/dag/transform, then nodes inside each row are
// reordered with barycenter sweeps, keeping the ordering with the fewest
// edge crossings. [Circle] places nodes on a circle in topological order.
// Coordinates declared on a node always win over computed ones.
package layout

import (
	"math"
	"slices"
	"strings"

	"github.com/matzehuels/tidydag/pkg/dag"
	"github.com/matzehuels/tidydag/pkg/dag/transform"
	errs "github.com/matzehuels/tidydag/pkg/errors"
)

// Algorithm names a layout strategy.
type Algorithm string

const (
	Layered Algorithm = "layered"
	Circle  Algorithm = "circle"
)

// ParseAlgorithm validates an algorithm name.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch a := Algorithm(strings.ToLower(s)); a {
	case Layered, Circle:
		return a, nil
	case "":
		return Layered, nil
	}
	return "", errs.New(errs.ErrCodeInvalidInput, "unknown layout algorithm %q (must be one of: layered, circle)", s)
}

// Options configures [Compute].
type Options struct {
	Algorithm Algorithm

	// Spacing is the distance between neighboring rows and columns.
	// Zero means 1.
	Spacing float64

	// Sweeps bounds the barycenter iterations of the layered algorithm.
	// Zero means 8.
	Sweeps int
}

// Layout maps node IDs to coordinates.
type Layout map[string]dag.Point

// Compute lays out every node of g.
func Compute(g *dag.DAG, opts Options) Layout {
	spacing := opts.Spacing
	if spacing <= 0 {
		spacing = 1
	}

	var out Layout
	if opts.Algorithm == Circle {
		out = circle(g, spacing)
	} else {
		sweeps := opts.Sweeps
		if sweeps <= 0 {
			sweeps = 8
		}
		out = layered(g, spacing, sweeps)
	}

	for _, n := range g.Nodes() {
		if n.Pos != nil {
			out[n.ID] = *n.Pos
		}
	}
	return out
}

func layered(g *dag.DAG, spacing float64, sweeps int) Layout {
	layers := transform.Layers(transform.AssignLayers(g))
	orders := Order(g, layers, sweeps)

	out := make(Layout, g.NodeCount())
	for row, layer := range orders {
		mid := float64(len(layer)-1) / 2
		for i, id := range layer {
			out[id] = dag.Point{
				X: round((float64(i) - mid) * spacing),
				Y: round(-float64(row) * spacing),
			}
		}
	}
	return out
}

func circle(g *dag.DAG, spacing float64) Layout {
	order := g.TopologicalOrder()
	n := len(order)
	radius := spacing * max(1, float64(n)/(2*math.Pi))

	out := make(Layout, n)
	for i, id := range order {
		angle := math.Pi/2 - 2*math.Pi*float64(i)/float64(n)
		out[id] = dag.Point{X: round(radius * math.Cos(angle)), Y: round(radius * math.Sin(angle))}
	}
	return out
}

// Order reorders the nodes inside each layer to reduce edge crossings and
// returns the best ordering found. Layers are not modified.
func Order(g *dag.DAG, layers [][]string, sweeps int) [][]string {
	cur := make([][]string, len(layers))
	for i, l := range layers {
		cur[i] = slices.Clone(l)
	}
	best, bestCrossings := clone(cur), crossings(g, cur)

	for it := 0; it < sweeps && bestCrossings > 0; it++ {
		for r := 1; r < len(cur); r++ {
			sortByBarycenter(cur[r], dag.PosMap(cur[r-1]), g.Parents)
		}
		for r := len(cur) - 2; r >= 0; r-- {
			sortByBarycenter(cur[r], dag.PosMap(cur[r+1]), g.Children)
		}
		transpose(g, cur)

		if c := crossings(g, cur); c < bestCrossings {
			best, bestCrossings = clone(cur), c
		}
	}
	return best
}

// sortByBarycenter orders layer by the mean position of each node's
// neighbors in the adjacent layer. Nodes without such neighbors keep their
// place relative to each other.
func sortByBarycenter(layer []string, adjPos map[string]int, neighbors func(string) []string) {
	center := make(map[string]float64, len(layer))
	for i, id := range layer {
		sum, n := 0, 0
		for _, nb := range neighbors(id) {
			if p, ok := adjPos[nb]; ok {
				sum += p
				n++
			}
		}
		if n == 0 {
			center[id] = float64(i)
			continue
		}
		center[id] = float64(sum) / float64(n)
	}
	slices.SortStableFunc(layer, func(a, b string) int {
		switch {
		case center[a] < center[b]:
			return -1
		case center[a] > center[b]:
			return 1
		}
		return strings.Compare(a, b)
	})
}

// transpose swaps adjacent nodes while that removes crossings with the
// neighboring layers.
func transpose(g *dag.DAG, layers [][]string) {
	for improved := true; improved; {
		improved = false
		for r, layer := range layers {
			var above, below map[string]int
			if r > 0 {
				above = dag.PosMap(layers[r-1])
			}
			if r < len(layers)-1 {
				below = dag.PosMap(layers[r+1])
			}
			for i := 0; i+1 < len(layer); i++ {
				a, b := layer[i], layer[i+1]
				keep := dag.CountPairCrossings(g, a, b, above, true) + dag.CountPairCrossings(g, a, b, below, false)
				swap := dag.CountPairCrossings(g, b, a, above, true) + dag.CountPairCrossings(g, b, a, below, false)
				if swap < keep {
					layer[i], layer[i+1] = b, a
					improved = true
				}
			}
		}
	}
}

func crossings(g *dag.DAG, layers [][]string) int {
	orders := make(map[int][]string, len(layers))
	for i, l := range layers {
		orders[i] = l
	}
	return dag.CountCrossings(g, orders)
}

func clone(layers [][]string) [][]string {
	out := make([][]string, len(layers))
	for i, l := range layers {
		out[i] = slices.Clone(l)
	}
	return out
}

func round(v float64) float64 {
	r := math.Round(v*1000) / 1000
	if r == 0 {
		return 0 // no negative zero in output
	}
	return r
}
