package nodelink

import (
	"encoding/json"
	"io"

	"github.com/matzehuels/unidep/pkg/dag"
	"github.com/matzehuels/unidep/pkg/errors"
)

type jsonGraph struct {
	Nodes []jsonNode `json:"nodes"`
	Edges []jsonEdge `json:"edges"`
}

type jsonNode struct {
	ID   string       `json:"id"`
	Row  int          `json:"row"`
	Meta dag.Metadata `json:"meta,omitempty"`
}

type jsonEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// WriteJSON encodes g as {"nodes": [...], "edges": [...]} for tools that
// post-process the include graph. [ReadJSON] reads it back.
func WriteJSON(g *dag.DAG, w io.Writer) error {
	out := jsonGraph{
		Nodes: make([]jsonNode, 0, g.NodeCount()),
		Edges: make([]jsonEdge, 0, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		out.Nodes = append(out.Nodes, jsonNode{ID: n.ID, Row: n.Row, Meta: n.Meta})
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, jsonEdge{From: e.From, To: e.To})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode graph")
	}
	return nil
}

// ReadJSON decodes a graph written by [WriteJSON]. Unknown node references
// and cycles are INVALID_INPUT.
func ReadJSON(r io.Reader) (*dag.DAG, error) {
	var in jsonGraph
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode graph")
	}

	g := dag.New()
	for _, n := range in.Nodes {
		if err := g.AddNode(dag.Node{ID: n.ID, Row: n.Row, Meta: n.Meta}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "node %s", n.ID)
		}
	}
	for _, e := range in.Edges {
		if err := g.AddEdge(dag.Edge{From: e.From, To: e.To}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "edge %s->%s", e.From, e.To)
		}
	}
	if err := g.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "graph")
	}
	return g, nil
}
