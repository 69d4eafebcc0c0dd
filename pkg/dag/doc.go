// Package dag provides the immutable causal graph model that every analysis
// in tidydag runs on.
//
// # Overview
//
// A causal DAG is a set of variables (nodes) connected by directed edges
// meaning "is a direct cause of". Each node carries one [Role]: observed,
// exposure, outcome or latent. At most one node is the exposure and at most
// one the outcome.
//
// Graphs are never mutated. Describe one with a [Spec] and call [Build]:
//
//	g, err := dag.Build(dag.Spec{
//	    Relations: []dag.Relation{
//	        {Child: "y", Parents: []string{"x", "z"}},
//	        {Child: "x", Parents: []string{"z"}},
//	    },
//	    Exposure: "x",
//	    Outcome:  "y",
//	})
//
// # Bidirected Edges
//
// A bidirected edge a <-> b is shorthand for an unmeasured common cause. Build
// canonicalizes every such edge into a synthetic latent node named
// [CanonicalID](a, b) with directed edges into a and b, so the analysis code
// only ever sees directed edges. The bidirected edges are kept separately in
// [DAG.BidirectedEdges] for presentation.
//
// Synthetic nodes are latent and therefore never eligible for conditioning.
// Listing one in [Spec.Promote] makes it observable.
//
// # Acyclicity
//
// Build rejects cycles after canonicalization with a *[CyclicGraphError]
// naming one offending cycle. A self-loop is a cycle.
//
// # Ancestors and Descendants
//
// [DAG.Ancestors] and [DAG.Descendants] are reflexive: a node is its own
// ancestor and descendant. This matches the collider rule used by d-separation,
// where conditioning on a collider or any of its descendants opens it. Code
// that needs strict descendants removes the node itself.
//
// # Edge Crossings
//
// [CountCrossings] and [CountLayerCrossings] count crossings of a layered
// drawing with a Fenwick tree. The layout package uses them to score
// candidate orderings.
//
// # Concurrency
//
// A built DAG is read-only; all accessors return fresh slices, so it can be
// shared between goroutines without locking.
package dag
