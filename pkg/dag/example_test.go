package dag_test

import (
	"fmt"

	"github.com/matzehuels/tidydag/pkg/dag"
	errs "github.com/matzehuels/tidydag/pkg/errors"
)

func ExampleBuild() {
	// Classic confounding triangle: z causes both x and y
	g, err := dag.Build(dag.Spec{
		Relations: []dag.Relation{
			{Child: "y", Parents: []string{"x", "z"}},
			{Child: "x", Parents: []string{"z"}},
		},
		Exposure: "x",
		Outcome:  "y",
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Parents of y:", g.Parents("y"))
	fmt.Println("Ancestors of y:", g.Ancestors("y"))
	fmt.Println("Descendants of x:", g.Descendants("x"))
	// Output:
	// Nodes: 3
	// Edges: 3
	// Parents of y: [x z]
	// Ancestors of y: {x, y, z}
	// Descendants of x: {x, y}
}

func ExampleBuild_bidirected() {
	// a <-> b is shorthand for an unmeasured common cause of a and b
	g := dag.MustBuild(dag.Spec{
		Relations:  []dag.Relation{{Child: "b", Parents: []string{"a"}}},
		Bidirected: []dag.Pair{{"b", "a"}},
	})

	fmt.Println("IDs:", g.IDs())
	u, _ := g.Node(dag.CanonicalID("a", "b"))
	fmt.Println("Synthetic:", u.IsSynthetic())
	fmt.Println("Observable:", u.Observable())
	for _, e := range g.BidirectedEdges() {
		fmt.Println(e.From, e.Kind, e.To)
	}
	// Output:
	// IDs: [U_a_b a b]
	// Synthetic: true
	// Observable: false
	// a <-> b
}

func ExampleBuild_cycle() {
	_, err := dag.Build(dag.Spec{
		Relations: []dag.Relation{
			{Child: "b", Parents: []string{"a"}},
			{Child: "c", Parents: []string{"b"}},
			{Child: "a", Parents: []string{"c"}},
		},
	})

	fmt.Println(err)
	fmt.Println("Cyclic:", errs.Is(err, errs.ErrCodeCyclicGraph))
	// Output:
	// graph contains a cycle: a -> b -> c -> a
	// Cyclic: true
}

func ExampleSet() {
	s := dag.NewSet("w1", "z1", "w1")
	fmt.Println(s)
	fmt.Println(s.With("v").Without("z1"))
	fmt.Println(s.Has("z1"), s.Len())
	// Output:
	// {w1, z1}
	// {v, w1}
	// true 2
}

func ExampleCountLayerCrossings() {
	// Two parents whose children are drawn in swapped order cross once
	g := dag.MustBuild(dag.Spec{
		Relations: []dag.Relation{
			{Child: "c", Parents: []string{"a"}},
			{Child: "d", Parents: []string{"b"}},
		},
	})

	fmt.Println(dag.CountLayerCrossings(g, []string{"a", "b"}, []string{"c", "d"}))
	fmt.Println(dag.CountLayerCrossings(g, []string{"a", "b"}, []string{"d", "c"}))
	// Output:
	// 0
	// 1
}
