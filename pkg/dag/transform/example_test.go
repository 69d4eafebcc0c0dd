package transform_test

import (
	"fmt"

	"github.com/matzehuels/tidydag/pkg/dag"
	"github.com/matzehuels/tidydag/pkg/dag/transform"
)

func ExampleAssignLayers() {
	// z -> x -> y, z -> y
	g := dag.MustBuild(dag.Spec{Relations: []dag.Relation{
		{Child: "x", Parents: []string{"z"}},
		{Child: "y", Parents: []string{"x", "z"}},
	}})

	for i, layer := range transform.Layers(transform.AssignLayers(g)) {
		fmt.Println(i, layer)
	}
	// Output:
	// 0 [z]
	// 1 [x]
	// 2 [y]
}

func ExampleMoralAncestral() {
	// a -> m <- b: conditioning on m marries a and b
	g := dag.MustBuild(dag.Spec{Relations: []dag.Relation{
		{Child: "m", Parents: []string{"a", "b"}},
	}})

	fmt.Println(transform.MoralAncestral(g, dag.NewSet("a", "b"))["a"])
	fmt.Println(transform.MoralAncestral(g, dag.NewSet("a", "b", "m"))["a"])
	// Output:
	// []
	// [b m]
}
