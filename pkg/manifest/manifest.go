package manifest

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/unidep/pkg/deps"
	"github.com/matzehuels/unidep/pkg/errors"
	"github.com/matzehuels/unidep/pkg/platform"
)

// Well-known manifest filenames.
const (
	RequirementsFile = "requirements.yaml"
	PyprojectFile    = "pyproject.toml"
)

// Line is one package string as written in a manifest.
type Line struct {
	Text    string // "name pin[:selector]"
	Comment string // Trailing comment, "# [linux64]"; YAML only
}

// Entry is one item of a dependencies list. A plain string sets Both; a
// map sets Conda and/or Pip.
type Entry struct {
	Both  *Line
	Conda *Line
	Pip   *Line
}

// Document is the raw content of a single manifest.
type Document struct {
	Path         string
	Name         string
	Channels     []string
	Platforms    []platform.Platform
	Includes     []string
	Dependencies []Entry
	Optional     map[string][]Entry // optional_dependencies by section
}

// Parser decodes one manifest format.
type Parser interface {
	// Parse decodes a manifest; path is used for error messages.
	Parse(path string, data []byte) (*Document, error)
	// Supports reports whether this parser handles the given filename.
	Supports(filename string) bool
	// Type returns the format identifier ("yaml" or "toml").
	Type() string
}

// Parsers returns every supported manifest parser.
func Parsers() []Parser {
	return []Parser{YAMLParser{}, TOMLParser{}}
}

// DetectManifest finds a parser that supports the given file path.
func DetectManifest(path string, parsers ...Parser) (Parser, error) {
	if len(parsers) == 0 {
		parsers = Parsers()
	}
	name := filepath.Base(path)
	for _, p := range parsers {
		if p.Supports(name) {
			return p, nil
		}
	}
	return nil, errors.New(errors.ErrCodeInvalidManifest, "unsupported manifest: %s", name)
}

// Options configures how declarations become specs.
type Options struct {
	IgnorePins       []string             `json:"ignore_pins,omitempty"`       // Drop the pin of these packages
	OverwritePins    []string             `json:"overwrite_pins,omitempty"`    // "name pin" replacing the declared pin
	SkipDependencies []string             `json:"skip_dependencies,omitempty"` // Leave these packages out entirely
	Extras           []string             `json:"extras,omitempty"`            // optional_dependencies sections to include; "*" for all
	Logger           func(string, ...any) `json:"-"`                           // Progress callback (optional)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}

func (o Options) wantsExtra(section string) bool {
	return slices.Contains(o.Extras, "*") || slices.Contains(o.Extras, section)
}

// Requirements is the merged content of a set of manifests.
type Requirements struct {
	Channels  []string            // Union of all channels, sorted
	Platforms []platform.Platform // Union of all platforms, sorted
	Specs     []deps.Spec         // Every declaration in file order
	Files     []string            // Every file read, in order
}

// ByName groups the specs by package name, keeping file order.
func (r *Requirements) ByName() map[string][]deps.Spec {
	out := make(map[string][]deps.Spec)
	for _, s := range r.Specs {
		out[s.Name] = append(out[s.Name], s)
	}
	return out
}

// firstLine returns the first line of a comment, trimmed.
func firstLine(comment string) string {
	line, _, _ := strings.Cut(comment, "\n")
	return strings.TrimSpace(line)
}
