package adjust

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/tidydag/pkg/collider"
	"github.com/matzehuels/tidydag/pkg/dag"
	errs "github.com/matzehuels/tidydag/pkg/errors"
	"github.com/matzehuels/tidydag/pkg/paths"
)

// Type selects which adjustment sets [Sets] reports.
type Type int

const (
	// Minimal reports every valid set none of whose proper subsets is valid.
	Minimal Type = iota
	// All reports every valid subset of the candidate nodes.
	All
	// Canonical reports the single set of eligible ancestors of the exposure
	// and outcome.
	Canonical
)

var typeNames = [...]string{"minimal", "all", "canonical"}

func (t Type) String() string { return typeNames[t] }

// ParseType converts a type name ("minimal", "all", "canonical").
func ParseType(s string) (Type, error) {
	for i, name := range typeNames {
		if strings.EqualFold(s, name) {
			return Type(i), nil
		}
	}
	return Minimal, errs.New(errs.ErrCodeInvalidInput, "unknown adjustment set type %q (must be one of: %s)", s, strings.Join(typeNames[:], ", "))
}

// Options controls the search.
type Options struct {
	Type Type

	// MaxSize bounds the number of variables per set. Zero means unbounded.
	MaxSize int
}

// Result lists the adjustment sets found for one exposure/outcome pair.
type Result struct {
	Exposure      string       `json:"exposure"`
	Outcome       string       `json:"outcome"`
	Type          string       `json:"type"`
	Sets          []dag.Set    `json:"sets"`
	BackdoorPaths []paths.Path `json:"backdoor_paths"`
}

// ResolveRoles fills in the exposure and outcome. An empty x or y falls back
// to the node designated in the graph.
func ResolveRoles(g *dag.DAG, x, y string) (string, string, error) {
	if x == "" {
		x, _ = g.Exposure()
	}
	if y == "" {
		y, _ = g.Outcome()
	}
	switch {
	case x == "":
		return "", "", errs.New(errs.ErrCodeMissingRole, "no exposure given and none declared in the graph")
	case y == "":
		return "", "", errs.New(errs.ErrCodeMissingRole, "no outcome given and none declared in the graph")
	case !g.Has(x):
		return "", "", errs.New(errs.ErrCodeUnknownNode, "unknown exposure %q", x)
	case !g.Has(y):
		return "", "", errs.New(errs.ErrCodeUnknownNode, "unknown outcome %q", y)
	case x == y:
		return "", "", errs.New(errs.ErrCodeRoleConflict, "exposure and outcome are both %q", x)
	}
	return x, y, nil
}

// BackdoorPaths returns the paths from x to y that start with an arrow into x.
func BackdoorPaths(g *dag.DAG, x, y string) []paths.Path {
	var out []paths.Path
	for _, p := range paths.All(g, x, y) {
		if p.IsBackdoor() {
			out = append(out, p)
		}
	}
	return out
}

// Eligible returns the nodes that may appear in an adjustment set for x and
// y: observable, not x or y, not the designated exposure or outcome, and not
// a descendant of x. The last rule also excludes every node on a directed
// path from x to y.
func Eligible(g *dag.DAG, x, y string) dag.Set {
	forbidden := g.Descendants(x).With(x, y)
	var out []string
	for _, n := range g.Nodes() {
		if forbidden.Has(n.ID) || !n.Observable() {
			continue
		}
		if n.Role == dag.RoleExposure || n.Role == dag.RoleOutcome {
			continue
		}
		out = append(out, n.ID)
	}
	return dag.NewSet(out...)
}

// IsAdjustmentSet reports whether s is a valid adjustment set for x and y.
// It returns the back-door paths s leaves open. A set with a member that
// cannot be conditioned on (see [Eligible]) is invalid with no paths.
func IsAdjustmentSet(g *dag.DAG, x, y string, s dag.Set) (bool, []paths.Path) {
	if !s.IsSubsetOf(Eligible(g, x, y)) {
		return false, nil
	}
	open := openPaths(g, BackdoorPaths(g, x, y), s)
	return len(open) == 0, open
}

// Sets finds adjustment sets for the effect of x on y. Empty x or y default
// to the graph's designated exposure and outcome.
func Sets(g *dag.DAG, x, y string, opts Options) (*Result, error) {
	x, y, err := ResolveRoles(g, x, y)
	if err != nil {
		return nil, err
	}

	backdoor := BackdoorPaths(g, x, y)
	res := &Result{Exposure: x, Outcome: y, Type: opts.Type.String(), BackdoorPaths: backdoor}
	eligible := Eligible(g, x, y)

	if opts.Type == Canonical {
		s := g.Ancestors(x).Union(g.Ancestors(y)).Intersect(eligible)
		if open := openPaths(g, backdoor, s); len(open) > 0 {
			return nil, unclosable(g, x, y, s, open, opts)
		}
		res.Sets = []dag.Set{s}
		return res, nil
	}

	if len(backdoor) == 0 {
		res.Sets = []dag.Set{{}}
		return res, nil
	}

	var onPaths []string
	for _, p := range backdoor {
		onPaths = append(onPaths, p.Interior()...)
	}
	candidates := dag.NewSet(onPaths...).Intersect(eligible).IDs()

	s := search{g: g, backdoor: backdoor, minimal: opts.Type == Minimal}
	limit := len(candidates)
	if opts.MaxSize > 0 {
		limit = min(limit, opts.MaxSize)
	}
	for k := 0; k <= limit; k++ {
		combinations(candidates, k, s.try)
	}

	if len(s.found) == 0 {
		return nil, unclosable(g, x, y, s.best, s.bestOpen, opts)
	}
	slices.SortFunc(s.found, dag.CompareSets)
	res.Sets = s.found
	return res, nil
}

// search accumulates accepted sets and the closest miss.
type search struct {
	g        *dag.DAG
	backdoor []paths.Path
	minimal  bool

	found    []dag.Set
	best     dag.Set
	bestOpen []paths.Path
}

func (s *search) try(ids []string) {
	set := dag.NewSet(ids...)
	if s.minimal {
		for _, f := range s.found {
			if f.IsSubsetOf(set) {
				return
			}
		}
	}
	open := openPaths(s.g, s.backdoor, set)
	if len(open) == 0 {
		s.found = append(s.found, set)
		return
	}
	if s.bestOpen == nil || len(open) < len(s.bestOpen) {
		s.best, s.bestOpen = set, open
	}
}

func openPaths(g *dag.DAG, ps []paths.Path, cond dag.Set) []paths.Path {
	var out []paths.Path
	for _, p := range ps {
		if paths.Classify(g, p, cond).Open {
			out = append(out, p)
		}
	}
	return out
}

// combinations calls fn with every k-element combination of ids, in
// lexicographic order of positions. fn must not retain its argument.
func combinations(ids []string, k int, fn func([]string)) {
	buf := make([]string, k)
	var rec func(start, depth int)
	rec = func(start, depth int) {
		if depth == k {
			fn(buf)
			return
		}
		for i := start; i <= len(ids)-(k-depth); i++ {
			buf[depth] = ids[i]
			rec(i+1, depth+1)
		}
	}
	rec(0, 0)
}

// UnclosableBackdoorError reports that no eligible set blocks every
// back-door path. This is different from an empty adjustment set, which
// means nothing needs to be adjusted for.
type UnclosableBackdoorError struct {
	Exposure string
	Outcome  string

	// Paths are the back-door paths left open by the best attempt.
	Paths []paths.Path

	// Causes are human-readable explanations, one per finding.
	Causes []string
}

func (e *UnclosableBackdoorError) Error() string {
	return fmt.Sprintf("no adjustment set closes all back-door paths from %s to %s (%d open)", e.Exposure, e.Outcome, len(e.Paths))
}

// Code returns the error code for this error type.
func (e *UnclosableBackdoorError) Code() errs.Code { return errs.ErrCodeUnclosableBackdoor }

func unclosable(g *dag.DAG, x, y string, best dag.Set, open []paths.Path, opts Options) error {
	e := &UnclosableBackdoorError{Exposure: x, Outcome: y, Paths: open}

	for _, p := range open {
		blockable := false
		for i, id := range p.Interior() {
			shape := p.Shape(i + 1)
			if shape == paths.Collider {
				continue
			}
			blockable = true
			n, _ := g.Node(id)
			switch {
			case !n.Observable():
				e.Causes = append(e.Causes, fmt.Sprintf("path %s: %s %s is latent", p, shape, id))
			case g.IsDescendant(x, id):
				e.Causes = append(e.Causes, fmt.Sprintf("path %s: %s %s is a descendant of %s", p, shape, id, x))
			}
		}
		if !blockable {
			e.Causes = append(e.Causes, fmt.Sprintf("path %s: every interior node is a collider opened by the adjustment", p))
		}
	}
	for _, a := range collider.ActivatedEdges(g, best) {
		e.Causes = append(e.Causes, fmt.Sprintf("adjusting for %s opens %s", a.Conditioned, a))
	}
	if opts.MaxSize > 0 && opts.Type != Canonical {
		e.Causes = append(e.Causes, fmt.Sprintf("search was limited to sets of at most %d variables", opts.MaxSize))
	}
	return e
}
