package transform_test

import (
	"fmt"

	"github.com/matzehuels/unidep/pkg/dag"
	"github.com/matzehuels/unidep/pkg/dag/transform"
)

func ExampleAssignLayers() {
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "app"})
	_ = g.AddNode(dag.Node{ID: "lib"})
	_ = g.AddNode(dag.Node{ID: "core"})
	_ = g.AddEdge(dag.Edge{From: "app", To: "lib"})
	_ = g.AddEdge(dag.Edge{From: "lib", To: "core"})
	_ = g.AddEdge(dag.Edge{From: "app", To: "core"})

	transform.AssignLayers(g)

	for _, n := range g.Nodes() {
		fmt.Println(n.Row, n.ID)
	}
	// Output:
	// 0 app
	// 1 lib
	// 2 core
}

func ExampleBreakCycles() {
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "a"})
	_ = g.AddNode(dag.Node{ID: "b"})
	_ = g.AddEdge(dag.Edge{From: "a", To: "b"})
	_ = g.AddEdge(dag.Edge{From: "b", To: "a"})

	removed := transform.BreakCycles(g)
	transform.AssignLayers(g)

	fmt.Println("removed:", removed)
	fmt.Println("valid:", g.Validate() == nil)
	// Output:
	// removed: 1
	// valid: true
}
