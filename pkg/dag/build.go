package dag

import (
	"slices"

	"github.com/dominikbraun/graph"

	errs "github.com/matzehuels/tidydag/pkg/errors"
)

// Build constructs an immutable DAG from a declarative description.
//
// Build proceeds in a fixed order:
//
//  1. Collect nodes from relations, bidirected pairs and isolated nodes,
//     validating every ID with [errs.ValidateNodeID].
//  2. Canonicalize: each bidirected pair a <-> b becomes a synthetic latent
//     node [CanonicalID](a, b) with edges into a and b.
//  3. Apply roles, promotions, labels and coordinates.
//  4. Reject cycles with a topological sort over the canonical edges.
//
// A cycle yields a *[CyclicGraphError]; unknown references and role
// conflicts yield coded errors from pkg/errors. No partial graph is returned.
func Build(spec Spec) (*DAG, error) {
	d := &DAG{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
		spec:     spec.clone(),
	}

	for _, r := range spec.Relations {
		if err := d.ensureNode(r.Child); err != nil {
			return nil, err
		}
		for _, p := range r.Parents {
			if err := d.ensureNode(p); err != nil {
				return nil, err
			}
			d.addEdge(p, r.Child)
		}
	}
	for _, id := range spec.Nodes {
		if err := d.ensureNode(id); err != nil {
			return nil, err
		}
	}
	if err := d.canonicalize(spec.Bidirected); err != nil {
		return nil, err
	}
	if err := d.applyRoles(spec); err != nil {
		return nil, err
	}
	if err := d.applyPresentation(spec); err != nil {
		return nil, err
	}

	slices.Sort(d.ids)
	slices.SortFunc(d.edges, compareEdges)
	slices.SortFunc(d.bidirected, compareEdges)
	for id := range d.nodes {
		slices.Sort(d.outgoing[id])
		slices.Sort(d.incoming[id])
	}

	order, err := d.topologicalSort()
	if err != nil {
		return nil, err
	}
	d.order = order
	d.buildSkeleton()
	d.buildClosures()
	return d, nil
}

// MustBuild is like [Build] but panics on error. It is intended for tests
// and package-level fixtures.
func MustBuild(spec Spec) *DAG {
	d, err := Build(spec)
	if err != nil {
		panic(err)
	}
	return d
}

func (d *DAG) ensureNode(id string) error {
	if _, ok := d.nodes[id]; ok {
		return nil
	}
	if err := errs.ValidateNodeID(id); err != nil {
		return err
	}
	d.nodes[id] = &Node{ID: id}
	d.ids = append(d.ids, id)
	return nil
}

func (d *DAG) addEdge(from, to string) {
	if slices.Contains(d.outgoing[from], to) {
		return
	}
	d.edges = append(d.edges, Edge{From: from, To: to})
	d.outgoing[from] = append(d.outgoing[from], to)
	d.incoming[to] = append(d.incoming[to], from)
}

func (d *DAG) canonicalize(pairs []Pair) error {
	for _, p := range pairs {
		a, b := p[0], p[1]
		if a == b {
			return errs.New(errs.ErrCodeInvalidInput, "bidirected edge %s <-> %s connects a node to itself", a, b)
		}
		if b < a {
			a, b = b, a
		}
		if err := d.ensureNode(a); err != nil {
			return err
		}
		if err := d.ensureNode(b); err != nil {
			return err
		}

		u := CanonicalID(a, b)
		if n, ok := d.nodes[u]; ok {
			if !n.IsSynthetic() {
				return errs.New(errs.ErrCodeInvalidInput, "node %s collides with the latent node for %s <-> %s", u, a, b)
			}
			if children := d.outgoing[u]; children[0] != a || children[1] != b {
				return errs.New(errs.ErrCodeInvalidInput, "bidirected edges %s <-> %s and %s <-> %s both need latent node %s; rename a node", children[0], children[1], a, b, u)
			}
			continue // duplicate pair
		}
		d.nodes[u] = &Node{ID: u, Role: RoleLatent, Kind: NodeKindSynthetic}
		d.ids = append(d.ids, u)
		d.addEdge(u, a)
		d.addEdge(u, b)
		d.bidirected = append(d.bidirected, Edge{From: a, To: b, Kind: EdgeBidirected})
	}
	return nil
}

func (d *DAG) applyRoles(spec Spec) error {
	if spec.Exposure != "" && spec.Exposure == spec.Outcome {
		return errs.New(errs.ErrCodeRoleConflict, "node %s cannot be both exposure and outcome", spec.Exposure)
	}
	for _, id := range spec.Latent {
		n, err := d.lookup(id, "latent")
		if err != nil {
			return err
		}
		if id == spec.Exposure || id == spec.Outcome {
			return errs.New(errs.ErrCodeRoleConflict, "node %s cannot be latent and %s", id, roleOf(spec, id))
		}
		n.Role = RoleLatent
	}
	if spec.Exposure != "" {
		n, err := d.lookup(spec.Exposure, "exposure")
		if err != nil {
			return err
		}
		n.Role = RoleExposure
		d.exposure = n.ID
	}
	if spec.Outcome != "" {
		n, err := d.lookup(spec.Outcome, "outcome")
		if err != nil {
			return err
		}
		n.Role = RoleOutcome
		d.outcome = n.ID
	}
	for _, id := range spec.Promote {
		n, err := d.lookup(id, "promote")
		if err != nil {
			return err
		}
		if !n.IsLatent() {
			return errs.New(errs.ErrCodeRoleConflict, "only latent nodes can be promoted, %s is %s", id, n.Role)
		}
		n.Promoted = true
	}
	return nil
}

func (d *DAG) applyPresentation(spec Spec) error {
	for id, label := range spec.Labels {
		n, err := d.lookup(id, "label")
		if err != nil {
			return err
		}
		n.Label = label
	}
	for id, pos := range spec.Coords {
		n, err := d.lookup(id, "coordinate")
		if err != nil {
			return err
		}
		p := pos
		n.Pos = &p
	}
	return nil
}

func (d *DAG) lookup(id, field string) (*Node, error) {
	n, ok := d.nodes[id]
	if !ok {
		return nil, errs.New(errs.ErrCodeUnknownNode, "%s references unknown node %q", field, id)
	}
	return n, nil
}

func roleOf(spec Spec, id string) string {
	if id == spec.Exposure {
		return "exposure"
	}
	return "outcome"
}

// topologicalSort orders the nodes with Kahn's algorithm. Any node left
// with a non-zero in-degree sits on a cycle, which is then traced for the
// error message.
func (d *DAG) topologicalSort() ([]string, error) {
	g := graph.New(graph.StringHash, graph.Directed())
	for _, id := range d.ids {
		if err := g.AddVertex(id); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "add vertex %s", id)
		}
	}
	for _, e := range d.edges {
		if err := g.AddEdge(e.From, e.To); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "add edge %s->%s", e.From, e.To)
		}
	}

	order, err := graph.StableTopologicalSort(g, func(a, b string) bool { return a < b })
	if err != nil {
		return nil, &CyclicGraphError{Cycle: d.findCycle()}
	}
	return order, nil
}

// findCycle returns one directed cycle using depth-first search with
// white/gray/black coloring. The first node is repeated at the end.
func (d *DAG) findCycle() []string {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(d.nodes))
	var stack, cycle []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		color[id] = gray
		stack = append(stack, id)
		for _, child := range d.outgoing[id] {
			switch color[child] {
			case white:
				if dfs(child) {
					return true
				}
			case gray:
				start := slices.Index(stack, child)
				cycle = append(slices.Clone(stack[start:]), child)
				return true
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
		return false
	}

	for _, id := range d.ids {
		if color[id] == white && dfs(id) {
			return cycle
		}
	}
	return nil
}

func (d *DAG) buildSkeleton() {
	d.neighbors = make(map[string][]string, len(d.ids))
	for _, e := range d.edges {
		d.neighbors[e.From] = append(d.neighbors[e.From], e.To)
		d.neighbors[e.To] = append(d.neighbors[e.To], e.From)
	}
	for id, ns := range d.neighbors {
		slices.Sort(ns)
		d.neighbors[id] = slices.Compact(ns)
	}
}

// buildClosures precomputes reflexive ancestor and descendant sets. Walking
// the topological order guarantees every parent is finished before its
// children, and the reverse for descendants.
func (d *DAG) buildClosures() {
	d.ancestors = make(map[string]Set, len(d.order))
	d.descendants = make(map[string]Set, len(d.order))

	for _, id := range d.order {
		anc := NewSet(id)
		for _, p := range d.incoming[id] {
			anc = anc.Union(d.ancestors[p])
		}
		d.ancestors[id] = anc
	}
	for i := len(d.order) - 1; i >= 0; i-- {
		id := d.order[i]
		desc := NewSet(id)
		for _, c := range d.outgoing[id] {
			desc = desc.Union(d.descendants[c])
		}
		d.descendants[id] = desc
	}
}

func compareEdges(a, b Edge) int {
	if a.From != b.From {
		if a.From < b.From {
			return -1
		}
		return 1
	}
	if a.To != b.To {
		if a.To < b.To {
			return -1
		}
		return 1
	}
	return int(a.Kind) - int(b.Kind)
}
