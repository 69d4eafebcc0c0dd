// Package transform derives auxiliary graphs and assignments from a causal
// DAG without modifying it.
//
// # Layer Assignment
//
// [AssignLayers] computes a row for each node based on its depth from the
// root nodes, so parents are always drawn above their children. [Layers]
// groups the assignment into rows. The layout package starts from this and
// then orders nodes within each row.
//
// # Moral Ancestral Graph
//
// [MoralAncestral] builds the moralized ancestral graph used by the
// Lauritzen criterion for d-separation: restrict to the ancestors of the
// nodes of interest, marry parents with a common child, drop directions.
// [Reachable] is the undirected search run on the result:
//
//	moral := transform.MoralAncestral(g, xs.Union(ys).Union(cond))
//	separated := transform.Reachable(moral, xs, cond).Intersect(ys).Empty()
package transform
