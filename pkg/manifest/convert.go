package manifest

import (
	"bytes"
	"maps"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/unidep/pkg/errors"
	"github.com/matzehuels/unidep/pkg/platform"
)

type tomlOut struct {
	Tool struct {
		Unidep tomlTable `toml:"unidep"`
	} `toml:"tool"`
}

type tomlTable struct {
	Channels             []string         `toml:"channels,omitempty"`
	Platforms            []string         `toml:"platforms,omitempty"`
	Includes             []string         `toml:"includes,omitempty"`
	Dependencies         []any            `toml:"dependencies,omitempty"`
	OptionalDependencies map[string][]any `toml:"optional_dependencies,omitempty"`
}

// ToTOML converts a requirements.yaml file into an equivalent
// [tool.unidep] table for pyproject.toml. Selector comments become inline
// ":selector" suffixes. The name key has no TOML counterpart and is dropped.
func ToTOML(path string) ([]byte, error) {
	doc, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DocumentToTOML(doc)
}

// DocumentToTOML encodes doc as a [tool.unidep] table.
func DocumentToTOML(doc *Document) ([]byte, error) {
	var out tomlOut
	t := &out.Tool.Unidep
	t.Channels = doc.Channels
	t.Includes = doc.Includes
	for _, p := range doc.Platforms {
		t.Platforms = append(t.Platforms, string(p))
	}

	var err error
	if t.Dependencies, err = tomlItems(doc.Dependencies); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "convert %s", doc.Path)
	}
	if len(doc.Optional) > 0 {
		t.OptionalDependencies = make(map[string][]any, len(doc.Optional))
		for _, section := range slices.Sorted(maps.Keys(doc.Optional)) {
			items, err := tomlItems(doc.Optional[section])
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "convert %s", doc.Path)
			}
			t.OptionalDependencies[section] = items
		}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode %s", doc.Path)
	}
	return buf.Bytes(), nil
}

func tomlItems(entries []Entry) ([]any, error) {
	items := make([]any, 0, len(entries))
	for _, e := range entries {
		if e.Both != nil {
			s, err := inlineSelector(e.Both)
			if err != nil {
				return nil, err
			}
			items = append(items, s)
			continue
		}
		table := make(map[string]string, 2)
		for key, l := range map[string]*Line{"conda": e.Conda, "pip": e.Pip} {
			if l == nil {
				continue
			}
			s, err := inlineSelector(l)
			if err != nil {
				return nil, err
			}
			table[key] = s
		}
		items = append(items, table)
	}
	return items, nil
}

// inlineSelector moves a "# [sel]" comment into the package string.
func inlineSelector(l *Line) (string, error) {
	sel, err := platform.SelectorFromComment(l.Comment)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(l.Text)
	if sel == "" || strings.Contains(text, ":") {
		return text, nil
	}
	return text + ":" + strings.Join(strings.Fields(sel), " "), nil
}
