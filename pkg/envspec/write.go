package envspec

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/unidep/pkg/errors"
)

// DefaultName is the environment name used when none is set.
const DefaultName = "myenv"

// Header describes the comment block written above environment.yaml.
type Header struct {
	Version string // unidep version
	Command string // command line that produced the file; optional
}

func (h Header) lines() []string {
	if h.Version == "" {
		return nil
	}
	lines := []string{
		fmt.Sprintf("# This file is created and managed by `unidep` %s.", h.Version),
		"# For details see https://github.com/matzehuels/unidep",
	}
	if h.Command != "" {
		lines = append(lines, fmt.Sprintf("# File generated with: `unidep %s`", h.Command))
	}
	return lines
}

// Node builds the YAML document for e. The pip list is nested as the last
// item of dependencies.
func (e *Environment) Node() *yaml.Node {
	name := e.Name
	if name == "" {
		name = DefaultName
	}
	root := &yaml.Node{Kind: yaml.MappingNode}
	addPair(root, "name", str(name))
	if len(e.Channels) > 0 {
		addPair(root, "channels", strSeq(e.Channels))
	}

	deps := &yaml.Node{Kind: yaml.SequenceNode}
	for _, d := range e.Conda {
		deps.Content = append(deps.Content, dependencyNode(d))
	}
	if len(e.Pip) > 0 {
		pip := &yaml.Node{Kind: yaml.SequenceNode}
		for _, d := range e.Pip {
			pip.Content = append(pip.Content, dependencyNode(d))
		}
		nested := &yaml.Node{Kind: yaml.MappingNode}
		addPair(nested, "pip", pip)
		deps.Content = append(deps.Content, nested)
	}
	if len(deps.Content) > 0 {
		addPair(root, "dependencies", deps)
	}

	if len(e.Platforms) > 0 {
		ps := make([]string, len(e.Platforms))
		for i, p := range e.Platforms {
			ps[i] = string(p)
		}
		addPair(root, "platforms", strSeq(ps))
	}
	return &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}
}

// Write encodes e as environment.yaml to w, preceded by the header.
func (e *Environment) Write(w io.Writer, h Header) error {
	for _, line := range h.lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if len(h.lines()) > 0 {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(e.Node()); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode environment")
	}
	return enc.Close()
}

// Bytes returns the encoded environment.
func (e *Environment) Bytes(h Header) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.Write(&buf, h); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes e to path.
func (e *Environment) WriteFile(path string, h Header) error {
	data, err := e.Bytes(h)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func dependencyNode(d Dependency) *yaml.Node {
	if d.Sel != "" {
		n := &yaml.Node{Kind: yaml.MappingNode}
		addPair(n, d.Key(), str(d.Value))
		return n
	}
	n := str(d.Value)
	if d.Comment != "" {
		n.LineComment = "# " + d.Comment
	}
	return n
}

func addPair(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, str(key), value)
}

func str(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func strSeq(ss []string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.SequenceNode}
	for _, s := range ss {
		n.Content = append(n.Content, str(s))
	}
	return n
}
