package paths_test

import (
	"fmt"

	"github.com/matzehuels/tidydag/pkg/dag"
	"github.com/matzehuels/tidydag/pkg/paths"
)

func ExampleAll() {
	// z confounds the effect of x on y
	g := dag.MustBuild(dag.Spec{Relations: []dag.Relation{
		{Child: "x", Parents: []string{"z"}},
		{Child: "y", Parents: []string{"x", "z"}},
	}})

	for _, p := range paths.All(g, "x", "y") {
		fmt.Println(p, "backdoor:", p.IsBackdoor())
	}
	// Output:
	// x -> y backdoor: false
	// x <- z -> y backdoor: true
}

func ExampleClassify() {
	g := dag.MustBuild(dag.Spec{Relations: []dag.Relation{
		{Child: "x", Parents: []string{"z"}},
		{Child: "y", Parents: []string{"x", "z"}},
	}})
	p := paths.All(g, "x", "y")[1]

	for _, cond := range []dag.Set{{}, dag.NewSet("z")} {
		v := paths.Classify(g, p, cond)
		fmt.Printf("given %s: open=%v (%s)\n", cond, v.Open, v.Steps[0].Reason)
	}
	// Output:
	// given {}: open=true (fork z is not conditioned on)
	// given {z}: open=false (fork z is conditioned on)
}

func ExampleDSeparated() {
	// M-bias: conditioning on the collider m connects x and y
	g := dag.MustBuild(dag.Spec{Relations: []dag.Relation{
		{Child: "x", Parents: []string{"a"}},
		{Child: "m", Parents: []string{"a", "b"}},
		{Child: "y", Parents: []string{"b"}},
	}})

	fmt.Println(paths.DSeparated(g, "x", "y", dag.Set{}))
	fmt.Println(paths.DSeparated(g, "x", "y", dag.NewSet("m")))
	fmt.Println(paths.DSeparated(g, "x", "y", dag.NewSet("m", "a")))
	// Output:
	// true
	// false
	// true
}
