// Package dag provides a small directed graph with row (layer) assignments,
// used to model how local projects include each other.
//
// Create a graph with [New], add nodes with [DAG.AddNode] and edges with
// [DAG.AddEdge]:
//
//	g := dag.New()
//	g.AddNode(dag.Node{ID: "/repo/app"})
//	g.AddNode(dag.Node{ID: "/repo/lib"})
//	g.AddEdge(dag.Edge{From: "/repo/app", To: "/repo/lib"})
//
// Include graphs read from disk may contain cycles; the [transform]
// subpackage breaks them and assigns rows so that every project sits above
// the projects it includes. [DAG.Validate] checks both properties.
//
// Node and edge listings are sorted, so renderings of the same graph are
// byte-identical.
//
// DAG instances are not safe for concurrent use.
//
// [transform]: github.com/matzehuels/unidep/pkg/dag/transform
package dag
