package manifest

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/unidep/pkg/deps"
	"github.com/matzehuels/unidep/pkg/errors"
	"github.com/matzehuels/unidep/pkg/platform"
)

// ReadFile reads and parses a single manifest, picking the parser by name.
func ReadFile(path string) (*Document, error) {
	p, err := DetectManifest(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read %s", path)
	}
	return p.Parse(path, data)
}

// Load reads paths and everything they include and converts the
// declarations into specs. Top-level files are read concurrently; the
// result is independent of scheduling.
func Load(ctx context.Context, paths []string, opts Options) (*Requirements, error) {
	opts = opts.WithDefaults()
	if len(paths) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no manifest files given")
	}
	overwrite, err := parseOverwritePins(opts.OverwritePins)
	if err != nil {
		return nil, err
	}

	top := make([]*Document, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			opts.Logger("parsing %s", path)
			doc, err := ReadFile(path)
			if err != nil {
				return err
			}
			top[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	type loaded struct {
		doc      *Document
		topLevel bool
	}
	var docs []loaded
	seen := make(map[string]bool)
	var visit func(doc *Document, topLevel bool) error
	visit = func(doc *Document, topLevel bool) error {
		docs = append(docs, loaded{doc, topLevel})
		for _, inc := range doc.Includes {
			incPath, err := includePath(doc.Path, inc)
			if err != nil {
				return err
			}
			if seen[incPath] {
				continue
			}
			seen[incPath] = true
			opts.Logger("parsing include %s", inc)
			incDoc, err := ReadFile(incPath)
			if err != nil {
				return err
			}
			if err := visit(incDoc, false); err != nil {
				return err
			}
		}
		return nil
	}
	for _, doc := range top {
		abs, err := filepath.Abs(doc.Path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "resolve %s", doc.Path)
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		if err := visit(doc, true); err != nil {
			return nil, err
		}
	}

	b := builder{opts: opts, overwrite: overwrite, index: -1}
	reqs := &Requirements{}
	channels := make(map[string]bool)
	platforms := make(map[platform.Platform]bool)
	for _, l := range docs {
		reqs.Files = append(reqs.Files, l.doc.Path)
		for _, ch := range l.doc.Channels {
			channels[ch] = true
		}
		for _, p := range l.doc.Platforms {
			platforms[p] = true
		}
		if err := b.addAll(l.doc.Path, l.doc.Dependencies); err != nil {
			return nil, err
		}
		if !l.topLevel {
			continue
		}
		for _, section := range sortedSections(l.doc.Optional) {
			if opts.wantsExtra(section) {
				if err := b.addAll(l.doc.Path, l.doc.Optional[section]); err != nil {
					return nil, err
				}
			}
		}
	}
	reqs.Specs = b.specs
	for ch := range channels {
		reqs.Channels = append(reqs.Channels, ch)
	}
	slices.Sort(reqs.Channels)
	for p := range platforms {
		reqs.Platforms = append(reqs.Platforms, p)
	}
	platform.Sort(reqs.Platforms)
	return reqs, nil
}

// LoadDocument converts a single in-memory manifest. Includes are not
// followed.
func LoadDocument(doc *Document, opts Options) (*Requirements, error) {
	opts = opts.WithDefaults()
	overwrite, err := parseOverwritePins(opts.OverwritePins)
	if err != nil {
		return nil, err
	}
	b := builder{opts: opts, overwrite: overwrite, index: -1}
	if err := b.addAll(doc.Path, doc.Dependencies); err != nil {
		return nil, err
	}
	for _, section := range sortedSections(doc.Optional) {
		if opts.wantsExtra(section) {
			if err := b.addAll(doc.Path, doc.Optional[section]); err != nil {
				return nil, err
			}
		}
	}
	reqs := &Requirements{
		Channels:  slices.Compact(slices.Sorted(slices.Values(doc.Channels))),
		Platforms: platform.Sort(slices.Clone(doc.Platforms)),
		Specs:     b.specs,
	}
	if doc.Path != "" {
		reqs.Files = []string{doc.Path}
	}
	return reqs, nil
}

func sortedSections(m map[string][]Entry) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// includePath resolves an include relative to the including file.
func includePath(from, include string) (string, error) {
	p := include
	if !filepath.IsAbs(p) {
		p = filepath.Join(filepath.Dir(from), include)
	}
	resolved, err := ResolvePath(p)
	if err != nil {
		return "", errors.Wrap(errors.GetCode(err), err, "include %s of %s", include, from)
	}
	return resolved, nil
}

// ResolvePath returns the absolute path of a manifest. A directory stands
// for its requirements.yaml, or its pyproject.toml when there is no
// requirements.yaml.
func ResolvePath(path string) (string, error) {
	p, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "resolve %s", path)
	}
	info, err := os.Stat(p)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "%s does not exist", path)
	}
	if !info.IsDir() {
		return p, nil
	}
	for _, name := range []string{RequirementsFile, PyprojectFile} {
		candidate := filepath.Join(p, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", errors.New(errors.ErrCodeFileNotFound, "%s has no %s or %s", path, RequirementsFile, PyprojectFile)
}

func parseOverwritePins(pins []string) (map[string]string, error) {
	out := make(map[string]string, len(pins))
	for _, s := range pins {
		d, err := deps.ParsePackageString(s)
		if err != nil {
			return nil, err
		}
		out[d.Name] = d.Pin
	}
	return out, nil
}

// builder numbers declarations and applies the pin options.
type builder struct {
	opts      Options
	overwrite map[string]string
	index     int
	specs     []deps.Spec
}

func (b *builder) addAll(path string, entries []Entry) error {
	for _, e := range entries {
		b.index++
		if e.Both != nil {
			if err := b.add(path, e.Both); err != nil {
				return err
			}
			continue
		}
		if e.Conda != nil {
			if err := b.add(path, e.Conda, deps.Conda); err != nil {
				return err
			}
		}
		if e.Pip != nil {
			if err := b.add(path, e.Pip, deps.Pip); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *builder) add(path string, line *Line, which ...deps.Ecosystem) error {
	d, err := deps.ParsePackageString(line.Text)
	if err != nil {
		return errors.Wrap(errors.GetCode(err), err, "%s", path)
	}
	if slices.Contains(b.opts.SkipDependencies, d.Name) {
		return nil
	}
	if slices.Contains(b.opts.IgnorePins, d.Name) {
		d.Pin = ""
	}
	if pin, ok := b.overwrite[d.Name]; ok {
		d.Pin = pin
	}
	if d.Selector == "" && line.Comment != "" {
		sel, err := platform.SelectorFromComment(line.Comment)
		if err != nil {
			return errors.Wrap(errors.GetCode(err), err, "%s: %s", path, line.Text)
		}
		d.Selector = strings.Join(strings.Fields(sel), " ")
	}
	specs, err := d.Specs(b.index, which...)
	if err != nil {
		return errors.Wrap(errors.GetCode(err), err, "%s: %s", path, line.Text)
	}
	b.specs = append(b.specs, specs...)
	return nil
}
