package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tidydag/pkg/adjust"
	"github.com/matzehuels/tidydag/pkg/collider"
	"github.com/matzehuels/tidydag/pkg/dag"
	"github.com/matzehuels/tidydag/pkg/paths"
	"github.com/matzehuels/tidydag/pkg/tidy"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// ExploreModel is the bubbletea model of the explore command. The user
// toggles variables in and out of the conditioning set and watches
// d-separation, open paths and collider activations update. The graph
// itself is never modified.
type ExploreModel struct {
	Graph    *dag.DAG
	Exposure string
	Outcome  string
	Sets     *adjust.Result // nil when the back-door paths are unclosable

	Nodes  []dag.Node
	Cursor int
	Cond   dag.Set

	// Notice is a one-line message shown under the list, e.g. why a node
	// cannot be toggled.
	Notice string
}

// NewExploreModel lists the visible nodes of g.
func NewExploreModel(g *dag.DAG, x, y string, sets *adjust.Result) ExploreModel {
	var nodes []dag.Node
	for _, n := range g.Nodes() {
		if tidy.Visible(n) {
			nodes = append(nodes, n)
		}
	}
	return ExploreModel{Graph: g, Exposure: x, Outcome: y, Sets: sets, Nodes: nodes}
}

func (m ExploreModel) Init() tea.Cmd {
	return nil
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.Notice = ""
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Nodes)-1 {
			m.Cursor++
		}
	case " ", "enter":
		m = m.toggle()
	case "c":
		m.Cond = dag.Set{}
	case "a":
		if m.Sets != nil && len(m.Sets.Sets) > 0 {
			m.Cond = m.nextSet()
		}
	}
	return m, nil
}

// toggle adds or removes the node under the cursor.
func (m ExploreModel) toggle() ExploreModel {
	if len(m.Nodes) == 0 {
		return m
	}
	n := m.Nodes[m.Cursor]
	switch {
	case m.Cond.Has(n.ID):
		m.Cond = m.Cond.Without(n.ID)
	case !n.Observable():
		m.Notice = n.ID + " is latent and cannot be conditioned on"
	default:
		m.Cond = m.Cond.With(n.ID)
	}
	return m
}

// nextSet cycles through the adjustment sets, starting after the current
// conditioning set.
func (m ExploreModel) nextSet() dag.Set {
	sets := m.Sets.Sets
	for i, s := range sets {
		if s.Equal(m.Cond) {
			return sets[(i+1)%len(sets)]
		}
	}
	return sets[0]
}

func (m ExploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Effect of %s on %s", m.Exposure, m.Outcome)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space condition  a next adjustment set  c clear  q quit"))
	b.WriteString("\n\n")

	for i, n := range m.Nodes {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mark := "[ ]"
		if m.Cond.Has(n.ID) {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s%s %-16s %s", cursor, mark, n.ID, n.Role)
		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case !n.Observable():
			b.WriteString(listDimStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	if m.Notice != "" {
		b.WriteString(StyleWarning.Render(m.Notice) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.status())
	return b.String()
}

// status summarizes the queries for the current conditioning set.
func (m ExploreModel) status() string {
	var b strings.Builder
	g, x, y := m.Graph, m.Exposure, m.Outcome

	if paths.DSeparated(g, x, y, m.Cond) {
		b.WriteString(StyleSuccess.Render(fmt.Sprintf("%s ⫫ %s | %s", x, y, m.Cond)))
	} else {
		b.WriteString(StyleError.Render(fmt.Sprintf("%s and %s d-connected given %s", x, y, m.Cond)))
	}
	b.WriteString("\n")

	if ok, open := adjust.IsAdjustmentSet(g, x, y, m.Cond); ok {
		b.WriteString(StyleSuccess.Render("valid adjustment set") + "\n")
	} else {
		b.WriteString(StyleWarning.Render("not an adjustment set") + "\n")
		for _, p := range open {
			b.WriteString(listDimStyle.Render("  open back-door: "+p.String()) + "\n")
		}
	}
	for _, a := range collider.ActivatedEdges(g, m.Cond) {
		b.WriteString(StyleWarning.Render("  opens "+a.String()) + "\n")
	}

	if m.Sets != nil {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("\n%s sets: %s", m.Sets.Type, formatSets(m.Sets.Sets))))
	} else {
		b.WriteString(listDimStyle.Render("\nno adjustment set closes the back-door paths"))
	}
	b.WriteString("\n")
	return b.String()
}

// exploreCommand creates the explore command.
func (c *CLI) exploreCommand() *cobra.Command {
	var graph graphFlags

	cmd := &cobra.Command{
		Use:   "explore <file>",
		Short: "Explore conditioning sets interactively",
		Long: `Open an interactive view of the graph's variables. Toggle variables in
and out of the conditioning set to see d-separation, the back-door paths
left open and the colliders that conditioning activates. The graph is read
only.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplore(cmd.Context(), args[0], graph)
		},
	}
	graph.bind(cmd)

	return cmd
}

func (c *CLI) runExplore(ctx context.Context, input string, f graphFlags) error {
	opts, err := c.options(input, f)
	if err != nil {
		return err
	}
	run, err := c.analyze(ctx, opts)
	if err != nil {
		return err
	}
	defer run.Close()

	a := run.analysis
	if err := requirePair(a); err != nil {
		return err
	}

	model := NewExploreModel(run.graph, a.Exposure, a.Outcome, a.Adjustment)
	_, err = tea.NewProgram(model, tea.WithContext(ctx)).Run()
	return err
}
