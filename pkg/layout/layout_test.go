package layout

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

func TestCompute_Layered(t *testing.T) {
	t.Parallel()
	g := dag.MustBuild(dag.Spec{Relations: []dag.Relation{rel("x", "z"), rel("y", "x", "z")}})

	got := Compute(g, Options{})
	assert.Equal(t, Layout{
		"z": {X: 0, Y: 0},
		"x": {X: 0, Y: -1},
		"y": {X: 0, Y: -2},
	}, got)

	got = Compute(g, Options{Spacing: 2})
	assert.Equal(t, dag.Point{X: 0, Y: -4}, got["y"])
}

func TestCompute_CentersRows(t *testing.T) {
	t.Parallel()
	g := dag.MustBuild(dag.Spec{Relations: []dag.Relation{rel("m", "a", "b")}})

	got := Compute(g, Options{})
	assert.Equal(t, dag.Point{X: -0.5, Y: 0}, got["a"])
	assert.Equal(t, dag.Point{X: 0.5, Y: 0}, got["b"])
	assert.Equal(t, dag.Point{X: 0, Y: -1}, got["m"])
}

func TestOrder_RemovesCrossings(t *testing.T) {
	t.Parallel()
	g := dag.MustBuild(dag.Spec{Relations: []dag.Relation{rel("d", "a"), rel("c", "b")}})
	layers := [][]string{{"a", "b"}, {"c", "d"}}
	require.Equal(t, 1, crossings(g, layers))

	ordered := Order(g, layers, 8)
	assert.Equal(t, 0, crossings(g, ordered))
	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}}, layers, "input must not be modified")
}

func TestCompute_Circle(t *testing.T) {
	t.Parallel()
	g := dag.MustBuild(dag.Spec{Relations: []dag.Relation{rel("x", "z"), rel("y", "x", "z")}})

	got := Compute(g, Options{Algorithm: Circle})
	assert.Equal(t, dag.Point{X: 0, Y: 1}, got["z"])
	assert.Equal(t, dag.Point{X: 0.866, Y: -0.5}, got["x"])
	assert.Equal(t, dag.Point{X: -0.866, Y: -0.5}, got["y"])
}

func TestCompute_DeclaredPositionsWin(t *testing.T) {
	t.Parallel()
	g := dag.MustBuild(dag.Spec{
		Relations: []dag.Relation{rel("y", "x")},
		Coords:    map[string]dag.Point{"x": {X: 5, Y: 5}},
	})

	for _, alg := range []Algorithm{Layered, Circle} {
		got := Compute(g, Options{Algorithm: alg})
		assert.Equal(t, dag.Point{X: 5, Y: 5}, got["x"], alg)
		assert.Len(t, got, 2)
	}
}

func TestParseAlgorithm(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		in   string
		want Algorithm
		err  bool
	}{
		"layered": {in: "layered", want: Layered},
		"circle":  {in: "Circle", want: Circle},
		"default": {in: "", want: Layered},
		"bad":     {in: "spring", err: true},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseAlgorithm(tt.in)
			if tt.err {
				assert.True(t, errs.Is(err, errs.ErrCodeInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
