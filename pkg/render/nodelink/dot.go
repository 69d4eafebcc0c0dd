package nodelink

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/tidydag/pkg/tidy"
)

// Theme holds the colors of a diagram. Any Graphviz color name or #rrggbb
// value works.
type Theme struct {
	Observed  string `koanf:"observed"`
	Exposure  string `koanf:"exposure"`
	Outcome   string `koanf:"outcome"`
	Latent    string `koanf:"latent"`
	Adjusted  string `koanf:"adjusted"`
	Edge      string `koanf:"edge"`
	Activated string `koanf:"activated"`
}

// DefaultTheme returns the built-in colors.
func DefaultTheme() Theme {
	return Theme{
		Observed:  "white",
		Exposure:  "#9be3a4",
		Outcome:   "#8fc1f0",
		Latent:    "lightgrey",
		Adjusted:  "#f5d98b",
		Edge:      "black",
		Activated: "#d1495b",
	}
}

// merge fills empty colors from the default theme.
func (t Theme) merge() Theme {
	d := DefaultTheme()
	for _, f := range []struct {
		dst *string
		def string
	}{
		{&t.Observed, d.Observed},
		{&t.Exposure, d.Exposure},
		{&t.Outcome, d.Outcome},
		{&t.Latent, d.Latent},
		{&t.Adjusted, d.Adjusted},
		{&t.Edge, d.Edge},
		{&t.Activated, d.Activated},
	} {
		if *f.dst == "" {
			*f.dst = f.def
		}
	}
	return t
}

// Options configures DOT generation.
type Options struct {
	Theme Theme

	// Pinned fixes every node at its table coordinates. Render pinned
	// graphs with EngineNeato; dot ignores positions.
	Pinned bool

	// Set picks the block of an adjustment-set table to draw. Empty means
	// the first block.
	Set string
}

type nodeAttrs struct {
	label, role, status string
	adjusted, collider  bool
	x, y                float64
}

// ToDOT converts a tidy table to Graphviz DOT source.
//
// Nodes are filled by role, adjusted nodes are drawn as boxes, latent nodes
// dashed and colliders with a double outline. Bidirected edges point both
// ways; edges activated by conditioning on a collider are dashed and
// undirected.
func ToDOT(t *tidy.Table, opts Options) string {
	theme := opts.Theme.merge()
	rows := selectSet(t.Rows(), opts.Set)

	nodes := make(map[string]*nodeAttrs)
	for _, r := range rows {
		if r.To != nil {
			if _, ok := nodes[*r.To]; !ok {
				nodes[*r.To] = &nodeAttrs{label: *r.To, x: *r.XEnd, y: *r.YEnd}
			}
		}
		n, ok := nodes[r.Name]
		if !ok {
			n = &nodeAttrs{}
			nodes[r.Name] = n
		}
		n.label, n.role, n.x, n.y = r.Label, r.Role, r.X, r.Y
		n.adjusted = n.adjusted || r.Adjusted == tidy.StatusAdjusted
		n.collider = n.collider || r.Collider
		if r.Status != "" {
			n.status = r.Status
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if !opts.Pinned {
		buf.WriteString("  rankdir=TB;\n")
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=ellipse, style=filled, fontsize=14];\n")
	fmt.Fprintf(&buf, "  edge [color=%q];\n", theme.Edge)
	if set := setOf(rows); set != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", set)
	}
	buf.WriteString("\n")

	ids := make([]string, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(fmtAttrs(*nodes[id], theme, opts.Pinned), ", "))
	}

	buf.WriteString("\n")
	for _, r := range rows {
		if r.To == nil {
			continue
		}
		attrs := edgeAttrs(r, theme)
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", r.Name, *r.To)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q [%s];\n", r.Name, *r.To, strings.Join(attrs, ", "))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(n nodeAttrs, theme Theme, pinned bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", n.label), fmt.Sprintf("fillcolor=%q", fillColor(n, theme))}
	if n.adjusted {
		attrs = append(attrs, "shape=box")
	}
	if n.role == "latent" {
		attrs = append(attrs, `style="filled,dashed"`)
	}
	if n.collider {
		attrs = append(attrs, "peripheries=2")
	}
	if n.status != "" {
		attrs = append(attrs, fmt.Sprintf("xlabel=%q", n.status))
	}
	if pinned {
		attrs = append(attrs, fmt.Sprintf(`pos="%g,%g!"`, n.x, n.y))
	}
	return attrs
}

func fillColor(n nodeAttrs, theme Theme) string {
	if n.adjusted {
		return theme.Adjusted
	}
	switch n.role {
	case "exposure":
		return theme.Exposure
	case "outcome":
		return theme.Outcome
	case "latent":
		return theme.Latent
	}
	return theme.Observed
}

func edgeAttrs(r tidy.Row, theme Theme) []string {
	switch r.Direction {
	case tidy.Bidirected:
		return []string{"dir=both", "style=dashed"}
	case tidy.Undirected:
		return []string{"dir=none", "style=dashed", fmt.Sprintf("color=%q", theme.Activated)}
	}
	return nil
}

// selectSet keeps the rows of one adjustment-set block. Tables without
// blocks are returned as is.
func selectSet(rows []tidy.Row, set string) []tidy.Row {
	if len(rows) == 0 || rows[0].Set == "" || !isSetBlock(rows[0].Set) {
		return rows
	}
	if set == "" {
		set = rows[0].Set
	}
	var out []tidy.Row
	for _, r := range rows {
		if r.Set == set {
			out = append(out, r)
		}
	}
	return out
}

// isSetBlock tells adjustment-set blocks apart from the per-row labels
// written by Relatives and OpenPaths.
func isSetBlock(s string) bool { return strings.HasPrefix(s, "{") }

func setOf(rows []tidy.Row) string {
	if len(rows) > 0 && isSetBlock(rows[0].Set) {
		return "adjusted for " + rows[0].Set
	}
	return ""
}
