package collider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/tidydag/pkg/dag"
)

func rel(child string, parents ...string) dag.Relation {
	return dag.Relation{Child: child, Parents: parents}
}

func mBias(t *testing.T) *dag.DAG {
	t.Helper()
	g, err := dag.Build(dag.Spec{
		Relations: []dag.Relation{rel("x", "a"), rel("m", "a", "b"), rel("y", "b")},
		Exposure:  "x",
		Outcome:   "y",
	})
	require.NoError(t, err)
	return g
}

func TestColliders(t *testing.T) {
	t.Parallel()
	g := mBias(t)
	assert.Equal(t, []string{"m"}, Colliders(g))

	g = dag.MustBuild(dag.Spec{Relations: []dag.Relation{rel("y", "x")}})
	assert.Empty(t, Colliders(g))
}

func TestActivatedEdges(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		spec dag.Spec
		cond dag.Set
		want []Activation
	}{
		"m-bias conditioned": {
			spec: dag.Spec{Relations: []dag.Relation{rel("x", "a"), rel("m", "a", "b"), rel("y", "b")}},
			cond: dag.NewSet("m"),
			want: []Activation{{From: "a", To: "b", Collider: "m", Conditioned: "m"}},
		},
		"m-bias unconditioned": {
			spec: dag.Spec{Relations: []dag.Relation{rel("x", "a"), rel("m", "a", "b"), rel("y", "b")}},
			cond: dag.Set{},
		},
		"descendant of collider": {
			spec: dag.Spec{Relations: []dag.Relation{rel("m", "a", "b"), rel("d", "m")}},
			cond: dag.NewSet("d"),
			want: []Activation{{From: "a", To: "b", Collider: "m", Conditioned: "d"}},
		},
		"adjacent parents": {
			spec: dag.Spec{Relations: []dag.Relation{rel("m", "a", "b"), rel("b", "a")}},
			cond: dag.NewSet("m"),
		},
		"already connected": {
			// a and b share the cause u, so conditioning on m adds nothing new
			spec: dag.Spec{Relations: []dag.Relation{rel("m", "a", "b"), rel("a", "u"), rel("b", "u")}},
			cond: dag.NewSet("m"),
		},
		"deduplicated": {
			spec: dag.Spec{Relations: []dag.Relation{rel("m", "a", "b"), rel("d", "m")}},
			cond: dag.NewSet("d", "m"),
			want: []Activation{{From: "a", To: "b", Collider: "m", Conditioned: "d"}},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			g, err := dag.Build(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ActivatedEdges(g, tt.cond))
		})
	}
}

func TestActivation_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "a -- b (collider m)", Activation{From: "a", To: "b", Collider: "m", Conditioned: "m"}.String())
	assert.Equal(t, "a -- b (collider m via d)", Activation{From: "a", To: "b", Collider: "m", Conditioned: "d"}.String())
}
