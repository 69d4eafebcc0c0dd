package adjust

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/tidydag/pkg/dag"
	errs "github.com/matzehuels/tidydag/pkg/errors"
)

func rel(child string, parents ...string) dag.Relation {
	return dag.Relation{Child: child, Parents: parents}
}

func build(t *testing.T, spec dag.Spec) *dag.DAG {
	t.Helper()
	g, err := dag.Build(spec)
	require.NoError(t, err)
	return g
}

func dagifyGraph(t *testing.T) *dag.DAG {
	return build(t, dag.Spec{
		Relations: []dag.Relation{
			rel("y", "x", "z2", "w2", "w1"),
			rel("x", "z1", "w1"),
			rel("z1", "w1", "v"),
			rel("z2", "w2", "v"),
		},
		Bidirected: []dag.Pair{{"w1", "w2"}},
		Exposure:   "x",
		Outcome:    "y",
	})
}

func setStrings(sets []dag.Set) []string {
	out := make([]string, len(sets))
	for i, s := range sets {
		out[i] = s.String()
	}
	return out
}

func TestSets_Dagify(t *testing.T) {
	t.Parallel()
	g := dagifyGraph(t)

	res, err := Sets(g, "", "", Options{})
	require.NoError(t, err)
	assert.Equal(t, "x", res.Exposure)
	assert.Equal(t, "y", res.Outcome)
	assert.Equal(t, []string{"{v, w1}", "{w1, z1}", "{w1, w2, z2}"}, setStrings(res.Sets))
	assert.NotEmpty(t, res.BackdoorPaths)
}

func TestSets_Minimality(t *testing.T) {
	t.Parallel()
	g := dagifyGraph(t)

	res, err := Sets(g, "x", "y", Options{})
	require.NoError(t, err)
	for _, s := range res.Sets {
		ok, open := IsAdjustmentSet(g, "x", "y", s)
		assert.True(t, ok, "%s leaves %v open", s, open)
		for _, id := range s.IDs() {
			ok, _ := IsAdjustmentSet(g, "x", "y", s.Without(id))
			assert.False(t, ok, "%s is valid without %s", s, id)
		}
		for _, other := range res.Sets {
			if !other.Equal(s) {
				assert.False(t, other.IsSubsetOf(s), "%s contains %s", s, other)
			}
		}
	}
}

func TestSets_Types(t *testing.T) {
	t.Parallel()
	g := dagifyGraph(t)

	tests := map[string]struct {
		opts Options
		want []string
		n    int
	}{
		"minimal bounded": {
			opts: Options{MaxSize: 2},
			want: []string{"{v, w1}", "{w1, z1}"},
		},
		"canonical": {
			opts: Options{Type: Canonical},
			want: []string{"{v, w1, w2, z1, z2}"},
		},
		"all": {
			opts: Options{Type: All},
			n:    13,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			res, err := Sets(g, "x", "y", tt.opts)
			require.NoError(t, err)
			if tt.want != nil {
				assert.Equal(t, tt.want, setStrings(res.Sets))
			}
			if tt.n > 0 {
				assert.Len(t, res.Sets, tt.n)
				for _, s := range res.Sets {
					ok, _ := IsAdjustmentSet(g, "x", "y", s)
					assert.True(t, ok, s.String())
				}
			}
		})
	}
}

func TestSets_NoBackdoor(t *testing.T) {
	t.Parallel()
	g := build(t, dag.Spec{Relations: []dag.Relation{rel("y", "x")}})

	res, err := Sets(g, "x", "y", Options{})
	require.NoError(t, err)
	require.Len(t, res.Sets, 1)
	assert.True(t, res.Sets[0].Empty())
	assert.Empty(t, res.BackdoorPaths)
}

func TestSets_MBias(t *testing.T) {
	t.Parallel()
	g := build(t, dag.Spec{Relations: []dag.Relation{rel("x", "a"), rel("m", "a", "b"), rel("y", "b")}})

	res, err := Sets(g, "x", "y", Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"{}"}, setStrings(res.Sets))

	ok, open := IsAdjustmentSet(g, "x", "y", dag.NewSet("m"))
	assert.False(t, ok)
	require.Len(t, open, 1)
	assert.Equal(t, "x <- a -> m <- b -> y", open[0].String())

	ok, _ = IsAdjustmentSet(g, "x", "y", dag.NewSet("a", "m"))
	assert.True(t, ok)
}

func TestSets_Unclosable(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		spec  dag.Spec
		opts  Options
		cause string
	}{
		"latent confounder": {
			spec: dag.Spec{
				Relations:  []dag.Relation{rel("y", "x")},
				Bidirected: []dag.Pair{{"x", "y"}},
			},
			cause: "path x <- U_x_y -> y: fork U_x_y is latent",
		},
		"declared latent": {
			spec: dag.Spec{
				Relations: []dag.Relation{rel("x", "u"), rel("y", "x", "u")},
				Latent:    []string{"u"},
			},
			cause: "path x <- u -> y: fork u is latent",
		},
		"size limit": {
			spec: dag.Spec{Relations: []dag.Relation{
				rel("x", "a", "b"), rel("y", "x", "a", "b"),
			}},
			opts:  Options{MaxSize: 1},
			cause: "search was limited to sets of at most 1 variables",
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			g := build(t, tt.spec)

			res, err := Sets(g, "x", "y", tt.opts)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.True(t, errs.Is(err, errs.ErrCodeUnclosableBackdoor))

			var ue *UnclosableBackdoorError
			require.ErrorAs(t, err, &ue)
			assert.NotEmpty(t, ue.Paths)
			assert.Contains(t, ue.Causes, tt.cause)
		})
	}
}

func TestSets_ColliderCause(t *testing.T) {
	t.Parallel()
	// The only blocker of x <- c -> y is c, but c is also a collider of the
	// latent-rooted path x <- u1 -> c <- u2 -> y.
	g := build(t, dag.Spec{
		Relations: []dag.Relation{
			rel("x", "c", "u1"),
			rel("y", "x", "c", "u2"),
			rel("c", "u1", "u2"),
		},
		Latent: []string{"u1", "u2"},
	})

	_, err := Sets(g, "x", "y", Options{})
	var ue *UnclosableBackdoorError
	require.ErrorAs(t, err, &ue)
	assert.Contains(t, ue.Causes, "adjusting for c opens u1 -- u2 (collider c)")
}

func TestIsAdjustmentSet_Ineligible(t *testing.T) {
	t.Parallel()
	// x -> m -> y, z -> x, z -> y
	g := build(t, dag.Spec{Relations: []dag.Relation{rel("m", "x"), rel("y", "m", "z"), rel("x", "z")}})

	ok, open := IsAdjustmentSet(g, "x", "y", dag.NewSet("z", "m"))
	assert.False(t, ok, "mediator m is a descendant of x")
	assert.Empty(t, open)

	ok, open = IsAdjustmentSet(g, "x", "y", dag.Set{})
	assert.False(t, ok)
	assert.Len(t, open, 1)

	ok, _ = IsAdjustmentSet(g, "x", "y", dag.NewSet("z"))
	assert.True(t, ok)
}

func TestEligible(t *testing.T) {
	t.Parallel()
	g := build(t, dag.Spec{
		Relations:  []dag.Relation{rel("m", "x"), rel("y", "m", "z"), rel("x", "z")},
		Bidirected: []dag.Pair{{"z", "y"}},
		Exposure:   "x",
		Outcome:    "y",
	})
	assert.Equal(t, "{z}", Eligible(g, "x", "y").String())
}

func TestSets_PromotedSyntheticNode(t *testing.T) {
	t.Parallel()
	spec := dag.Spec{
		Relations:  []dag.Relation{rel("y", "x")},
		Bidirected: []dag.Pair{{"x", "y"}},
	}
	u := dag.CanonicalID("x", "y")

	// Synthetic nodes stay latent and cannot close x <- U_x_y -> y.
	hidden := build(t, spec)
	assert.False(t, Eligible(hidden, "x", "y").Has(u))
	_, err := Sets(hidden, "x", "y", Options{})
	assert.True(t, errs.Is(err, errs.ErrCodeUnclosableBackdoor))

	// Promotion makes the same node a valid adjustment variable.
	spec.Promote = []string{u}
	promoted := build(t, spec)
	assert.True(t, Eligible(promoted, "x", "y").Has(u))

	res, err := Sets(promoted, "x", "y", Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"{U_x_y}"}, setStrings(res.Sets))

	ok, open := IsAdjustmentSet(promoted, "x", "y", dag.NewSet(u))
	assert.True(t, ok)
	assert.Empty(t, open)
}

func TestResolveRoles(t *testing.T) {
	t.Parallel()
	g := build(t, dag.Spec{Relations: []dag.Relation{rel("y", "x")}})
	declared := build(t, dag.Spec{Relations: []dag.Relation{rel("y", "x")}, Exposure: "x", Outcome: "y"})

	tests := map[string]struct {
		g    *dag.DAG
		x, y string
		code errs.Code
	}{
		"missing exposure": {g: g, y: "y", code: errs.ErrCodeMissingRole},
		"missing outcome":  {g: g, x: "x", code: errs.ErrCodeMissingRole},
		"unknown":          {g: g, x: "x", y: "q", code: errs.ErrCodeUnknownNode},
		"same":             {g: g, x: "x", y: "x", code: errs.ErrCodeRoleConflict},
		"declared":         {g: declared},
		"override":         {g: declared, x: "y", y: "x"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			x, y, err := ResolveRoles(tt.g, tt.x, tt.y)
			if tt.code != "" {
				assert.True(t, errs.Is(err, tt.code), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, x)
			assert.NotEqual(t, x, y)
		})
	}
}

func TestParseType(t *testing.T) {
	t.Parallel()
	for _, typ := range []Type{Minimal, All, Canonical} {
		got, err := ParseType(typ.String())
		require.NoError(t, err)
		assert.Equal(t, typ, got)
	}
	_, err := ParseType("maximal")
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidInput))
}
