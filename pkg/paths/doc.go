// Package paths enumerates the paths between two nodes of a causal DAG and
// decides which of them are open given a conditioning set.
//
// # Enumeration
//
// [All] walks the skeleton (edges without direction) depth-first with
// neighbors in sorted order and returns every simple path, each annotated
// with the direction of its edges. [Directed] keeps only causal paths.
//
// # Classification
//
// [Classify] looks at every interior node of a path:
//
//   - chain (a -> m -> b) and fork (a <- m -> b) nodes block when conditioned on
//   - collider (a -> m <- b) nodes block unless they, or one of their
//     descendants, are conditioned on
//
// The resulting [Verdict] names the first blocker and the reason for each
// node, which is what the CLI prints.
//
// # D-separation
//
// [DSeparated] holds when every path between two nodes is blocked.
// [DSeparatedSets] answers the same question for node sets using the moral
// ancestral graph from pkg/dag/transform.
//
// All functions are pure; the DAG is never modified.
package paths
