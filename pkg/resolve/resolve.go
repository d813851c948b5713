package resolve

import (
	"cmp"
	"maps"
	"slices"

	"github.com/matzehuels/unidep/pkg/deps"
	"github.com/matzehuels/unidep/pkg/errors"
	"github.com/matzehuels/unidep/pkg/platform"
)

// Entry maps platform (or Wildcard) -> ecosystem -> the single surviving
// spec for one package.
type Entry map[platform.Platform]map[deps.Ecosystem]deps.Spec

// Resolved maps package name to its [Entry]. After [Resolve] no entry holds
// a Wildcard key next to a concrete platform.
type Resolved map[string]Entry

// Options configures [Resolve].
type Options struct {
	// Platforms restricts output to these targets. Empty means every
	// platform in the table.
	Platforms []platform.Platform
	// Table defaults to [platform.Default].
	Table *platform.Table
	// Observer receives conflict warnings. Nil discards them.
	Observer Observer
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Table == nil {
		opts.Table = platform.Default()
	}
	if opts.Observer == nil {
		opts.Observer = discard{}
	}
	return opts
}

// Targets returns the effective target platforms, sorted.
func (o Options) Targets() []platform.Platform {
	if len(o.Platforms) == 0 {
		tbl := o.Table
		if tbl == nil {
			tbl = platform.Default()
		}
		return tbl.All()
	}
	return platform.Sort(slices.Clone(o.Platforms))
}

// Resolve groups specs and settles every conflict, then expands wildcard
// entries into the target platforms. Packages whose entries all fall
// outside the targets are omitted.
func Resolve(specs []deps.Spec, opts Options) (Resolved, error) {
	opts = opts.WithDefaults()
	if err := opts.Table.Validate(opts.Platforms); err != nil {
		return nil, err
	}
	for _, s := range specs {
		if !s.Which.Valid() {
			return nil, errors.New(errors.ErrCodeInvalidInput, "package %q has unknown ecosystem %q", s.Name, string(s.Which))
		}
		if err := opts.Table.Validate(s.Platforms); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPlatform, err, "package %q", s.Name)
		}
	}

	targets := opts.Targets()
	restricted := len(opts.Platforms) > 0
	groups := Group(specs)

	out := make(Resolved, len(groups))
	for _, name := range slices.Sorted(maps.Keys(groups)) {
		byPlatform := groups[name]
		resolved := make(Entry, len(byPlatform))
		for _, p := range slices.Sorted(maps.Keys(byPlatform)) {
			picked := make(map[deps.Ecosystem]deps.Spec, len(deps.Ecosystems))
			for _, eco := range deps.Ecosystems {
				if candidates, ok := byPlatform[p][eco]; ok {
					picked[eco] = selectPreferred(name, p, candidates, opts.Observer)
				}
			}
			resolved[p] = reconcile(name, p, picked, opts.Observer)
		}
		resolved.Expand(targets, restricted)
		if len(resolved) > 0 {
			out[name] = resolved
		}
	}
	return out, nil
}

// selectPreferred keeps the highest ranked spec of one bucket: pinned
// before unpinned, then the larger pin string. Ties keep input order.
func selectPreferred(name string, p platform.Platform, candidates []deps.Spec, obs Observer) deps.Spec {
	if len(candidates) == 1 {
		return candidates[0]
	}
	sorted := slices.Clone(candidates)
	slices.SortStableFunc(sorted, func(a, b deps.Spec) int {
		if c := compareBool(b.HasPin(), a.HasPin()); c != 0 {
			return c
		}
		return cmp.Compare(b.Pin, a.Pin)
	})
	kept := sorted[0]
	var discarded []deps.Spec
	for _, s := range sorted[1:] {
		if !s.Equal(kept) {
			discarded = append(discarded, s)
		}
	}
	if len(discarded) > 0 {
		obs.Warn(Warning{
			Kind:      PlatformConflict,
			Package:   name,
			Platform:  p,
			Kept:      []deps.Spec{kept},
			Discarded: discarded,
		})
	}
	return kept
}

// reconcile settles conda against pip for one platform.
func reconcile(name string, p platform.Platform, picked map[deps.Ecosystem]deps.Spec, obs Observer) map[deps.Ecosystem]deps.Spec {
	conda, hasConda := picked[deps.Conda]
	pip, hasPip := picked[deps.Pip]
	if !hasConda || !hasPip {
		return picked
	}
	switch {
	case conda.HasPin() && !pip.HasPin():
		return map[deps.Ecosystem]deps.Spec{deps.Conda: conda}
	case pip.HasPin() && !conda.HasPin():
		return map[deps.Ecosystem]deps.Spec{deps.Pip: pip}
	case conda.Pin == pip.Pin:
		return picked
	}
	obs.Warn(Warning{
		Kind:     PinConflict,
		Package:  name,
		Platform: p,
		Kept:     []deps.Spec{conda, pip},
	})
	return picked
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	}
	return -1
}

// Packages returns the resolved package names, sorted.
func (r Resolved) Packages() []string {
	return slices.Sorted(maps.Keys(r))
}

// Specs flattens r back into specs, one per package, platform and
// ecosystem, each restricted to its platform key. The order is
// deterministic, so the result can be fed back into [Resolve].
func (r Resolved) Specs() []deps.Spec {
	var out []deps.Spec
	for _, name := range r.Packages() {
		byPlatform := r[name]
		for _, p := range slices.Sorted(maps.Keys(byPlatform)) {
			for _, eco := range deps.Ecosystems {
				s, ok := byPlatform[p][eco]
				if !ok {
					continue
				}
				if p == platform.Wildcard {
					s = s.WithPlatforms(nil)
				} else {
					s = s.WithPlatforms([]platform.Platform{p})
				}
				out = append(out, s)
			}
		}
	}
	return out
}
