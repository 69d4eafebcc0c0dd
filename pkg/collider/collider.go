// Package collider finds colliders in a causal DAG and reports which
// spurious associations conditioning on them creates.
//
// Conditioning on a collider m (a -> m <- b), or on any descendant of m,
// makes its parents a and b dependent even though neither causes the other.
// [ActivatedEdges] lists these new associations so a drawing can show them
// as undirected dashed edges.
package collider

import (
	"fmt"

	"github.com/matzehuels/tidydag/pkg/dag"
	"github.com/matzehuels/tidydag/pkg/paths"
)

// Colliders returns the sorted IDs of nodes with two or more parents.
func Colliders(g *dag.DAG) []string {
	var out []string
	for _, id := range g.IDs() {
		if g.InDegree(id) >= 2 {
			out = append(out, id)
		}
	}
	return out
}

// Activation is an association between From and To created by conditioning
// on Conditioned, which is Collider itself or one of its descendants.
type Activation struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Collider    string `json:"collider"`
	Conditioned string `json:"conditioned"`
}

func (a Activation) String() string {
	if a.Collider == a.Conditioned {
		return fmt.Sprintf("%s -- %s (collider %s)", a.From, a.To, a.Collider)
	}
	return fmt.Sprintf("%s -- %s (collider %s via %s)", a.From, a.To, a.Collider, a.Conditioned)
}

// ActivatedEdges returns the associations that conditioning on cond creates.
//
// For each conditioned node m and each collider c with m == c or m a
// descendant of c, every pair of non-adjacent parents (a, b) of c is
// reported if a and b are d-separated once the members of cond that activate
// c are dropped, so only new connections appear. Each pair is reported once,
// for the first (m, c) that activates it.
func ActivatedEdges(g *dag.DAG, cond dag.Set) []Activation {
	var (
		out  []Activation
		seen = make(map[[2]string]bool)
	)
	colliders := Colliders(g)
	for _, m := range cond.IDs() {
		for _, c := range colliders {
			activators := g.Descendants(c)
			if !activators.Has(m) {
				continue
			}
			base := cond.Without(activators.IDs()...)
			parents := g.Parents(c)
			for i, a := range parents {
				for _, b := range parents[i+1:] {
					key := [2]string{a, b}
					if seen[key] || g.Adjacent(a, b) {
						continue
					}
					if !paths.DSeparated(g, a, b, base) {
						continue
					}
					seen[key] = true
					out = append(out, Activation{From: a, To: b, Collider: c, Conditioned: m})
				}
			}
		}
	}
	return out
}
