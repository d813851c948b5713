package envspec

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	"github.com/matzehuels/unidep/pkg/deps"
	"github.com/matzehuels/unidep/pkg/errors"
	"github.com/matzehuels/unidep/pkg/platform"
	"github.com/matzehuels/unidep/pkg/resolve"
)

// SelectorStyle selects how platform restrictions are written.
type SelectorStyle string

const (
	SelectorSel     SelectorStyle = "sel"     // {sel(linux): pkg} and PEP 508 markers
	SelectorComment SelectorStyle = "comment" // pkg # [linux64]
)

// Options configures [Create].
type Options struct {
	Selector SelectorStyle // Default SelectorSel
	// PreferConda drops the pip spec of a package on every platform where
	// a conda spec exists.
	PreferConda bool
	Table       *platform.Table  // Default platform.Default()
	Observer    resolve.Observer // Receives collapse warnings
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Selector == "" {
		opts.Selector = SelectorSel
	}
	if opts.Table == nil {
		opts.Table = platform.Default()
	}
	return opts
}

// Dependency is one entry of a dependency list.
type Dependency struct {
	Name      string              `json:"name"`
	Value     string              `json:"value"`               // "name pin", plus "; marker" for pip
	Sel       platform.Class      `json:"sel,omitempty"`       // conda entry written as {sel(Sel): Value}
	Comment   string              `json:"comment,omitempty"`   // selector comment, e.g. "[linux64]"
	Platforms []platform.Platform `json:"platforms,omitempty"` // nil when unconditional
}

// Key returns the mapping key of a conda selector entry, or "".
func (d Dependency) Key() string {
	if d.Sel == "" {
		return ""
	}
	return fmt.Sprintf("sel(%s)", d.Sel)
}

// String renders the entry as it appears in environment.yaml.
func (d Dependency) String() string {
	switch {
	case d.Sel != "":
		return d.Key() + ": " + d.Value
	case d.Comment != "":
		return d.Value + " # " + d.Comment
	}
	return d.Value
}

// Environment is a complete environment specification.
type Environment struct {
	Name      string              `json:"name,omitempty"`
	Channels  []string            `json:"channels"`
	Platforms []platform.Platform `json:"platforms"`
	Conda     []Dependency        `json:"conda"`
	Pip       []Dependency        `json:"pip"`
}

// PipStrings returns the pip entries as plain strings.
func (e *Environment) PipStrings() []string {
	return values(e.Pip)
}

// CondaStrings returns the conda entries as plain strings.
func (e *Environment) CondaStrings() []string {
	return values(e.Conda)
}

func values(ds []Dependency) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.String()
	}
	return out
}

// Create builds the environment for r. An empty platforms list targets
// every platform in the table and is left out of the output.
func Create(r resolve.Resolved, channels []string, platforms []platform.Platform, opts Options) (*Environment, error) {
	opts = opts.WithDefaults()
	if opts.Selector != SelectorSel && opts.Selector != SelectorComment {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid selector %q, must be one of [sel comment]", string(opts.Selector))
	}
	if err := opts.Table.Validate(platforms); err != nil {
		return nil, err
	}
	for _, ch := range channels {
		if err := errors.ValidateChannel(ch); err != nil {
			return nil, err
		}
	}

	targets := platform.Sort(slices.Clone(platforms))
	if len(targets) == 0 {
		targets = opts.Table.All()
	}
	env := &Environment{
		Channels:  slices.Clone(channels),
		Platforms: slices.Clone(platforms),
	}
	e := emitter{opts: opts, targets: targets}
	for _, name := range r.Packages() {
		conda, pip := e.split(r[name], len(platforms) > 0)
		env.Conda = append(env.Conda, e.conda(name, conda)...)
		env.Pip = append(env.Pip, e.pip(name, pip)...)
	}
	sortDependencies(env.Conda)
	sortDependencies(env.Pip)
	return env, nil
}

// PipDependencies returns the pip requirement strings of r for platforms,
// sorted. Conda specs are ignored.
func PipDependencies(r resolve.Resolved, platforms []platform.Platform) ([]string, error) {
	tbl := platform.Default()
	if err := tbl.Validate(platforms); err != nil {
		return nil, err
	}
	targets := platform.Sort(slices.Clone(platforms))
	if len(targets) == 0 {
		targets = tbl.All()
	}
	e := emitter{opts: Options{}.WithDefaults(), targets: targets}
	var out []Dependency
	for _, name := range r.Packages() {
		_, pip := e.split(r[name], len(platforms) > 0)
		out = append(out, e.pip(name, pip)...)
	}
	sortDependencies(out)
	return values(out), nil
}

type emitter struct {
	opts    Options
	targets []platform.Platform
}

// split separates an entry into per-platform conda and pip specs limited to
// the targets.
func (e emitter) split(entry resolve.Entry, restrict bool) (conda, pip map[platform.Platform]deps.Spec) {
	entry = entry.Clone()
	entry.Expand(e.targets, restrict)
	conda = make(map[platform.Platform]deps.Spec)
	pip = make(map[platform.Platform]deps.Spec)
	for p, byEco := range entry {
		c, hasConda := byEco[deps.Conda]
		if hasConda {
			conda[p] = c
		}
		if s, ok := byEco[deps.Pip]; ok && !(e.opts.PreferConda && hasConda) {
			pip[p] = s
		}
	}
	return conda, pip
}

// uniform returns the spec shared by every target, if there is one.
func (e emitter) uniform(specs map[platform.Platform]deps.Spec) (deps.Spec, bool) {
	if s, ok := specs[platform.Wildcard]; ok && len(specs) == 1 {
		return s, true
	}
	if len(specs) != len(e.targets) {
		return deps.Spec{}, false
	}
	first, ok := specs[e.targets[0]]
	if !ok {
		return deps.Spec{}, false
	}
	for _, p := range e.targets[1:] {
		s, ok := specs[p]
		if !ok || !s.Equal(first) {
			return deps.Spec{}, false
		}
	}
	return first, true
}

func (e emitter) conda(name string, specs map[platform.Platform]deps.Spec) []Dependency {
	if len(specs) == 0 {
		return nil
	}
	if s, ok := e.uniform(specs); ok {
		return []Dependency{{Name: name, Value: s.NameWithPin()}}
	}
	if e.opts.Selector == SelectorComment {
		return e.commented(name, specs)
	}
	if len(specs) > 1 {
		specs = resolve.Collapse(name, specs, e.opts.Table, e.opts.Observer)
	}
	out := make([]Dependency, 0, len(specs))
	for _, p := range slices.Sorted(maps.Keys(specs)) {
		out = append(out, Dependency{
			Name:      name,
			Value:     specs[p].NameWithPin(),
			Sel:       e.opts.Table.Class(p),
			Platforms: []platform.Platform{p},
		})
	}
	return out
}

func (e emitter) pip(name string, specs map[platform.Platform]deps.Spec) []Dependency {
	if len(specs) == 0 {
		return nil
	}
	if s, ok := e.uniform(specs); ok {
		return []Dependency{{Name: name, Value: s.NameWithPin()}}
	}
	if e.opts.Selector == SelectorComment {
		return e.commented(name, specs)
	}

	// Platforms sharing an identical spec get one entry with a combined marker.
	type group struct {
		spec      deps.Spec
		platforms []platform.Platform
	}
	var groups []*group
	for _, p := range slices.Sorted(maps.Keys(specs)) {
		s := specs[p]
		idx := slices.IndexFunc(groups, func(g *group) bool { return g.spec.Equal(s) })
		if idx < 0 {
			groups = append(groups, &group{spec: s})
			idx = len(groups) - 1
		}
		groups[idx].platforms = append(groups[idx].platforms, p)
	}
	out := make([]Dependency, 0, len(groups))
	for _, g := range groups {
		out = append(out, Dependency{
			Name:      name,
			Value:     g.spec.NameWithPin() + "; " + e.opts.Table.Marker(g.platforms),
			Platforms: g.platforms,
		})
	}
	return out
}

func (e emitter) commented(name string, specs map[platform.Platform]deps.Spec) []Dependency {
	out := make([]Dependency, 0, len(specs))
	for _, p := range slices.Sorted(maps.Keys(specs)) {
		out = append(out, Dependency{
			Name:      name,
			Value:     specs[p].NameWithPin(),
			Comment:   fmt.Sprintf("[%s]", e.opts.Table.PrimarySelector(p)),
			Platforms: []platform.Platform{p},
		})
	}
	return out
}

func sortDependencies(ds []Dependency) {
	slices.SortStableFunc(ds, func(a, b Dependency) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		if c := cmp.Compare(firstPlatform(a), firstPlatform(b)); c != 0 {
			return c
		}
		return cmp.Compare(a.String(), b.String())
	})
}

func firstPlatform(d Dependency) platform.Platform {
	if len(d.Platforms) == 0 {
		return platform.Wildcard
	}
	return d.Platforms[0]
}
