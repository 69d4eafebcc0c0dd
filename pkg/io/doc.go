// Package io reads and writes causal DAG descriptions.
//
// # Formats
//
// A graph can be described as formula text or as a structured document in
// JSON, YAML, TOML or HCL. All formats produce a [dag.Spec]; [Read] and
// [Import] then build and validate the graph.
//
// # Formula Text
//
// One statement per line, or several separated by ";" or ",":
//
//	y ~ x + z2 + w2 + w1
//	x ~ z1 + w1
//	w1 ~~ w2
//	exposure: x
//	outcome: y
//	latent: u, v
//
// "child ~ a + b" declares edges a -> child and b -> child. "a ~~ b"
// declares a bidirected edge. A lone name declares an isolated node. Role
// statements take the keys exposure, outcome, latent and promote. "#" starts
// a comment.
//
// # Documents
//
// The structured formats share one schema:
//
//	{
//	  "exposure": "x",
//	  "outcome": "y",
//	  "latent": ["u"],
//	  "promote": [],
//	  "bidirected": [["w1", "w2"]],
//	  "nodes": [
//	    {"id": "y", "parents": ["x", "u"], "label": "Outcome", "x": 0, "y": -2},
//	    {"id": "x", "parents": ["u"]}
//	  ]
//	}
//
// In HCL, nodes are blocks labeled with their ID:
//
//	exposure = "x"
//	node "y" {
//	  parents = ["x", "u"]
//	}
//
// Coordinates are optional; when given, both x and y are required.
//
// # Export
//
// [WriteJSON], [WriteYAML] and [WriteTOML] write a graph's description so it
// can be read back into an identical graph.
package io
