package manifest

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/unidep/pkg/errors"
	"github.com/matzehuels/unidep/pkg/platform"
)

// TOMLParser reads the [tool.unidep] table of pyproject.toml files.
// Selectors use the inline "name pin:selector" syntax.
type TOMLParser struct{}

func (TOMLParser) Type() string { return "toml" }

func (TOMLParser) Supports(name string) bool {
	return filepath.Ext(name) == ".toml"
}

type pyproject struct {
	Tool struct {
		Unidep *unidepTable `toml:"unidep"`
	} `toml:"tool"`
}

type unidepTable struct {
	Name                 string           `toml:"name"`
	Channels             []string         `toml:"channels"`
	Platforms            []string         `toml:"platforms"`
	Includes             []string         `toml:"includes"`
	Dependencies         []any            `toml:"dependencies"`
	OptionalDependencies map[string][]any `toml:"optional_dependencies"`
}

func (TOMLParser) Parse(path string, data []byte) (*Document, error) {
	var f pyproject
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse %s", path)
	}
	t := f.Tool.Unidep
	if t == nil {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "%s has no [tool.unidep] table", path)
	}

	doc := &Document{
		Path:     path,
		Name:     t.Name,
		Channels: t.Channels,
		Includes: t.Includes,
	}
	for _, p := range t.Platforms {
		doc.Platforms = append(doc.Platforms, platform.Platform(p))
	}
	if err := platform.Default().Validate(doc.Platforms); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "%s", path)
	}

	var err error
	if doc.Dependencies, err = tomlEntries(path, t.Dependencies); err != nil {
		return nil, err
	}
	if len(t.OptionalDependencies) > 0 {
		doc.Optional = make(map[string][]Entry, len(t.OptionalDependencies))
		for section, items := range t.OptionalDependencies {
			if doc.Optional[section], err = tomlEntries(path, items); err != nil {
				return nil, err
			}
		}
	}
	return doc, nil
}

func tomlEntries(path string, items []any) ([]Entry, error) {
	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			entries = append(entries, Entry{Both: &Line{Text: v}})
		case map[string]any:
			var e Entry
			for key, raw := range v {
				s, ok := raw.(string)
				if !ok {
					return nil, errors.New(errors.ErrCodeInvalidManifest, "%s: %s must be a package string, got %s", path, key, typeName(raw))
				}
				switch key {
				case "conda":
					e.Conda = &Line{Text: s}
				case "pip":
					e.Pip = &Line{Text: s}
				default:
					return nil, errors.New(errors.ErrCodeInvalidManifest, "%s: unknown dependency key %q, use conda or pip", path, key)
				}
			}
			if e.Conda == nil && e.Pip == nil {
				return nil, errors.New(errors.ErrCodeInvalidManifest, "%s: dependency table needs a conda or pip key", path)
			}
			entries = append(entries, e)
		default:
			return nil, errors.New(errors.ErrCodeInvalidManifest, "%s: dependency must be a string or table, got %s", path, typeName(item))
		}
	}
	return entries, nil
}

func typeName(v any) string { return fmt.Sprintf("%T", v) }
