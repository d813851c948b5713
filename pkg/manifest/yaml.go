package manifest

import (
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/unidep/pkg/errors"
	"github.com/matzehuels/unidep/pkg/platform"
)

// YAMLParser reads requirements.yaml files. Selector comments are taken from
// the YAML comment attached to each dependency.
type YAMLParser struct{}

func (YAMLParser) Type() string { return "yaml" }

func (YAMLParser) Supports(name string) bool {
	ext := filepath.Ext(name)
	return ext == ".yaml" || ext == ".yml"
}

func (YAMLParser) Parse(path string, data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse %s", path)
	}
	doc := &Document{Path: path}
	if root.Kind == 0 || len(root.Content) == 0 {
		return doc, nil
	}
	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, invalid(path, top, "expected a mapping at the top level")
	}

	for i := 0; i+1 < len(top.Content); i += 2 {
		key, value := top.Content[i], top.Content[i+1]
		var err error
		switch key.Value {
		case "name":
			doc.Name = value.Value
		case "channels":
			doc.Channels, err = scalars(path, value)
		case "platforms":
			var ps []string
			ps, err = scalars(path, value)
			for _, p := range ps {
				doc.Platforms = append(doc.Platforms, platform.Platform(p))
			}
		case "includes":
			doc.Includes, err = scalars(path, value)
		case "dependencies":
			doc.Dependencies, err = yamlEntries(path, value)
		case "optional_dependencies":
			doc.Optional, err = yamlSections(path, value)
		}
		if err != nil {
			return nil, err
		}
	}
	if err := platform.Default().Validate(doc.Platforms); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "%s", path)
	}
	return doc, nil
}

func yamlSections(path string, n *yaml.Node) (map[string][]Entry, error) {
	if n.Kind != yaml.MappingNode {
		return nil, invalid(path, n, "optional_dependencies must be a mapping")
	}
	out := make(map[string][]Entry, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		entries, err := yamlEntries(path, n.Content[i+1])
		if err != nil {
			return nil, err
		}
		out[n.Content[i].Value] = entries
	}
	return out, nil
}

func yamlEntries(path string, n *yaml.Node) ([]Entry, error) {
	if isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, invalid(path, n, "dependencies must be a list")
	}
	entries := make([]Entry, 0, len(n.Content))
	for _, item := range n.Content {
		switch item.Kind {
		case yaml.ScalarNode:
			entries = append(entries, Entry{Both: &Line{Text: item.Value, Comment: firstLine(item.LineComment)}})
		case yaml.MappingNode:
			e, err := yamlMapEntry(path, item)
			if err != nil {
				return nil, err
			}
			entries = append(entries, e)
		default:
			return nil, invalid(path, item, "dependency must be a string or a {conda, pip} mapping")
		}
	}
	return entries, nil
}

func yamlMapEntry(path string, n *yaml.Node) (Entry, error) {
	var e Entry
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return Entry{}, invalid(path, value, "%s must be a package string", key.Value)
		}
		comment := value.LineComment
		if comment == "" {
			comment = key.LineComment
		}
		if comment == "" {
			comment = n.LineComment
		}
		line := &Line{Text: value.Value, Comment: firstLine(comment)}
		switch key.Value {
		case "conda":
			e.Conda = line
		case "pip":
			e.Pip = line
		default:
			return Entry{}, invalid(path, key, "unknown dependency key %q, use conda or pip", key.Value)
		}
	}
	if e.Conda == nil && e.Pip == nil {
		return Entry{}, invalid(path, n, "dependency mapping needs a conda or pip key")
	}
	return e, nil
}

func scalars(path string, n *yaml.Node) ([]string, error) {
	if isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, invalid(path, n, "expected a list of strings")
	}
	out := make([]string, 0, len(n.Content))
	for _, item := range n.Content {
		if item.Kind != yaml.ScalarNode {
			return nil, invalid(path, item, "expected a string")
		}
		out = append(out, item.Value)
	}
	return out, nil
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}

func invalid(path string, n *yaml.Node, format string, args ...any) error {
	msg := errors.New(errors.ErrCodeInvalidManifest, format, args...).Message
	return errors.New(errors.ErrCodeInvalidManifest, "%s:%d: %s", path, n.Line, msg)
}
