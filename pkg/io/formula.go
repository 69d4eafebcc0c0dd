package io

import (
	"fmt"
	"strings"

	"github.com/matzehuels/tidydag/pkg/dag"
	errs "github.com/matzehuels/tidydag/pkg/errors"
)

// ParseFormula parses formula text into a graph description. See the
// package documentation for the syntax.
func ParseFormula(src string) (dag.Spec, error) {
	var spec dag.Spec
	for i, line := range strings.Split(src, "\n") {
		if j := strings.IndexByte(line, '#'); j >= 0 {
			line = line[:j]
		}
		for _, stmt := range strings.Split(line, ";") {
			if err := parseStatement(&spec, strings.TrimSpace(stmt)); err != nil {
				return dag.Spec{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "line %d", i+1)
			}
		}
	}
	return spec, nil
}

func parseStatement(spec *dag.Spec, stmt string) error {
	if stmt == "" {
		return nil
	}
	if key, value, ok := strings.Cut(stmt, ":"); ok && !strings.Contains(key, "~") {
		return parseRole(spec, strings.TrimSpace(key), splitList(value, ","))
	}
	for _, f := range strings.Split(stmt, ",") {
		if err := parseFormula(spec, strings.TrimSpace(f)); err != nil {
			return err
		}
	}
	return nil
}

func parseRole(spec *dag.Spec, key string, ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("%s: no node given", key)
	}
	switch strings.ToLower(key) {
	case "exposure", "outcome":
		if len(ids) != 1 {
			return fmt.Errorf("%s takes exactly one node, got %d", key, len(ids))
		}
		if strings.EqualFold(key, "exposure") {
			spec.Exposure = ids[0]
		} else {
			spec.Outcome = ids[0]
		}
	case "latent":
		spec.Latent = append(spec.Latent, ids...)
	case "promote":
		spec.Promote = append(spec.Promote, ids...)
	default:
		return fmt.Errorf("unknown statement %q", key)
	}
	return nil
}

func parseFormula(spec *dag.Spec, f string) error {
	if f == "" {
		return nil
	}
	if lhs, rhs, ok := strings.Cut(f, "~~"); ok {
		a := strings.TrimSpace(lhs)
		others := splitList(rhs, "+")
		if a == "" || len(others) == 0 {
			return fmt.Errorf("malformed bidirected edge %q", f)
		}
		for _, b := range others {
			spec.Bidirected = append(spec.Bidirected, dag.Pair{a, b})
		}
		return nil
	}
	if lhs, rhs, ok := strings.Cut(f, "~"); ok {
		child := strings.TrimSpace(lhs)
		parents := splitList(rhs, "+")
		if child == "" || len(parents) == 0 || strings.Contains(rhs, "~") {
			return fmt.Errorf("malformed formula %q", f)
		}
		spec.Relations = append(spec.Relations, dag.Relation{Child: child, Parents: parents})
		return nil
	}
	if strings.ContainsAny(f, "+ \t") {
		return fmt.Errorf("expected a formula or a node name, got %q", f)
	}
	spec.Nodes = append(spec.Nodes, f)
	return nil
}

// splitList splits s on sep and drops empty items.
func splitList(s, sep string) []string {
	var out []string
	for _, item := range strings.Split(s, sep) {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// FormulaText writes a graph as formula text that [ParseFormula] reads
// back into the same graph. Coordinates and labels are not representable.
func FormulaText(g *dag.DAG) string {
	doc := NewDocument(g)
	var b strings.Builder
	for _, n := range doc.Nodes {
		if len(n.Parents) > 0 {
			b.WriteString(n.ID + " ~ " + strings.Join(n.Parents, " + ") + "\n")
		} else if g.OutDegree(n.ID) == 0 && !inBidirected(doc, n.ID) {
			b.WriteString(n.ID + "\n")
		}
	}
	for _, p := range doc.Bidirected {
		b.WriteString(p[0] + " ~~ " + p[1] + "\n")
	}
	if doc.Exposure != "" {
		b.WriteString("exposure: " + doc.Exposure + "\n")
	}
	if doc.Outcome != "" {
		b.WriteString("outcome: " + doc.Outcome + "\n")
	}
	if len(doc.Latent) > 0 {
		b.WriteString("latent: " + strings.Join(doc.Latent, ", ") + "\n")
	}
	if len(doc.Promote) > 0 {
		b.WriteString("promote: " + strings.Join(doc.Promote, ", ") + "\n")
	}
	return b.String()
}

func inBidirected(doc Document, id string) bool {
	for _, p := range doc.Bidirected {
		if p[0] == id || p[1] == id {
			return true
		}
	}
	return false
}
