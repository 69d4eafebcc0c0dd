// Package adjust finds adjustment sets: sets of observed variables that,
// when conditioned on, block every back-door path between an exposure and an
// outcome, so the causal effect can be estimated from observational data.
//
// # Back-door Criterion
//
// A back-door path from x to y starts with an arrow into x. A set Z is a
// valid adjustment set when it contains no descendant of x and blocks every
// back-door path (see package paths for the blocking rules).
//
// # Search
//
// [Sets] only considers nodes that can legally be conditioned on: observed
// (or promoted latent) variables that are neither x, y, nor descendants of x.
// A minimal valid set never contains a node off the back-door paths, so the
// candidates are further restricted to interior nodes of those paths.
// Subsets are tried smallest first and in lexicographic order; supersets of
// an accepted set are skipped, which makes every reported set minimal.
//
// When no back-door path exists the answer is a single empty set. When no
// candidate subset works, Sets returns an *[UnclosableBackdoorError] that
// names the paths that stay open and likely causes.
package adjust
