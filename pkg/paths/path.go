package paths

import (
	"slices"
	"strings"
)

// Direction is the orientation of one step of a path relative to the order
// the path is walked in.
type Direction int

const (
	// Forward means Nodes[i] -> Nodes[i+1].
	Forward Direction = iota
	// Backward means Nodes[i] <- Nodes[i+1].
	Backward
)

// Arrow returns the arrow notation for the step.
func (d Direction) Arrow() string {
	if d == Backward {
		return "<-"
	}
	return "->"
}

// Shape is the local structure a path forms at an interior node.
type Shape int

const (
	// Chain is a -> m -> b or a <- m <- b.
	Chain Shape = iota
	// Fork is a <- m -> b.
	Fork
	// Collider is a -> m <- b.
	Collider
)

var shapeNames = [...]string{"chain", "fork", "collider"}

func (s Shape) String() string { return shapeNames[s] }

// Path is a simple path in the skeleton of a DAG, together with the
// orientation of each of its edges. len(Dirs) == len(Nodes)-1.
type Path struct {
	Nodes []string    `json:"nodes"`
	Dirs  []Direction `json:"dirs"`
}

// Len returns the number of edges.
func (p Path) Len() int { return len(p.Dirs) }

// From returns the first node.
func (p Path) From() string { return p.Nodes[0] }

// To returns the last node.
func (p Path) To() string { return p.Nodes[len(p.Nodes)-1] }

// Interior returns the nodes strictly between the endpoints.
func (p Path) Interior() []string {
	if len(p.Nodes) < 3 {
		return nil
	}
	return slices.Clone(p.Nodes[1 : len(p.Nodes)-1])
}

// Shape classifies interior node i (0 < i < len(Nodes)-1).
func (p Path) Shape(i int) Shape {
	in, out := p.Dirs[i-1], p.Dirs[i]
	switch {
	case in == Forward && out == Backward:
		return Collider
	case in == Backward && out == Forward:
		return Fork
	default:
		return Chain
	}
}

// IsDirected reports whether every step points Forward, i.e. the path is a
// causal path from its first to its last node.
func (p Path) IsDirected() bool {
	for _, d := range p.Dirs {
		if d != Forward {
			return false
		}
	}
	return true
}

// IsBackdoor reports whether the path starts with an arrow into its first
// node.
func (p Path) IsBackdoor() bool { return len(p.Dirs) > 0 && p.Dirs[0] == Backward }

// Contains reports whether id is on the path.
func (p Path) Contains(id string) bool { return slices.Contains(p.Nodes, id) }

// Edges returns the path's edges as (parent, child) pairs in path order.
func (p Path) Edges() [][2]string {
	out := make([][2]string, len(p.Dirs))
	for i, d := range p.Dirs {
		if d == Forward {
			out[i] = [2]string{p.Nodes[i], p.Nodes[i+1]}
		} else {
			out[i] = [2]string{p.Nodes[i+1], p.Nodes[i]}
		}
	}
	return out
}

// String renders the path as "x <- z -> y".
func (p Path) String() string {
	var b strings.Builder
	for i, id := range p.Nodes {
		if i > 0 {
			b.WriteString(" " + p.Dirs[i-1].Arrow() + " ")
		}
		b.WriteString(id)
	}
	return b.String()
}
