package transform

import (
	"testing"

	"github.com/matzehuels/unidep/pkg/dag"
)

func includeGraph(t *testing.T, edges [][2]string) *dag.DAG {
	t.Helper()
	g := dag.New()
	for _, e := range edges {
		for _, id := range e {
			if _, ok := g.Node(id); !ok {
				if err := g.AddNode(dag.Node{ID: id}); err != nil {
					t.Fatal(err)
				}
			}
		}
		if err := g.AddEdge(dag.Edge{From: e[0], To: e[1]}); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestBreakCycles(t *testing.T) {
	tests := []struct {
		name        string
		edges       [][2]string
		wantRemoved int
		wantEdges   int
	}{
		{"empty", nil, 0, 0},
		{"chain", [][2]string{{"app", "lib"}, {"lib", "core"}}, 0, 2},
		{"mutual include", [][2]string{{"app", "lib"}, {"lib", "app"}}, 1, 1},
		{"self include", [][2]string{{"app", "app"}}, 1, 0},
		{"ring of three", [][2]string{{"app", "lib"}, {"lib", "core"}, {"core", "app"}}, 1, 2},
		{"diamond", [][2]string{{"app", "api"}, {"app", "cli"}, {"api", "core"}, {"cli", "core"}}, 0, 4},
		{"two rings", [][2]string{{"a", "b"}, {"b", "a"}, {"c", "d"}, {"d", "c"}}, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := includeGraph(t, tt.edges)

			if got := BreakCycles(g); got != tt.wantRemoved {
				t.Errorf("BreakCycles() removed %d edges, want %d", got, tt.wantRemoved)
			}
			if g.EdgeCount() != tt.wantEdges {
				t.Errorf("EdgeCount() = %d, want %d", g.EdgeCount(), tt.wantEdges)
			}
		})
	}
}

func TestBreakCyclesKeepsForwardEdge(t *testing.T) {
	g := includeGraph(t, [][2]string{{"app", "lib"}, {"lib", "app"}})
	BreakCycles(g)

	if !g.HasEdge("app", "lib") {
		t.Error("edge app -> lib removed, want the back edge lib -> app removed")
	}
}

func TestBreakCyclesThenLayer(t *testing.T) {
	g := includeGraph(t, [][2]string{{"app", "lib"}, {"lib", "core"}, {"core", "app"}, {"app", "docs"}})
	BreakCycles(g)
	AssignLayers(g)

	if err := g.Validate(); err != nil {
		t.Errorf("Validate() = %v, want a layered acyclic graph", err)
	}
}
