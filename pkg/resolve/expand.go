package resolve

import (
	"maps"
	"slices"

	"github.com/matzehuels/unidep/pkg/deps"
	"github.com/matzehuels/unidep/pkg/platform"
)

// Expand distributes a Wildcard key over targets when concrete platforms
// are also present: every target without an entry of its own receives a
// copy, then the Wildcard key is removed. With restrict set, concrete
// platforms outside targets are dropped as well.
func (m Entry) Expand(targets []platform.Platform, restrict bool) {
	if w, ok := m[platform.Wildcard]; ok && len(m) > 1 {
		delete(m, platform.Wildcard)
		for _, p := range targets {
			if _, exists := m[p]; !exists {
				m[p] = maps.Clone(w)
			}
		}
	}
	if !restrict {
		return
	}
	for p := range m {
		if p != platform.Wildcard && !slices.Contains(targets, p) {
			delete(m, p)
		}
	}
}

// Clone returns a copy of m that shares no maps with it.
func (m Entry) Clone() Entry {
	out := make(Entry, len(m))
	for p, byEco := range m {
		out[p] = maps.Clone(byEco)
	}
	return out
}

// Collapse reduces the per-platform specs of one package and ecosystem to
// one representative platform per coarse class, for conda sel(...) output.
// Platforms are visited in table order; within a class the first spec wins
// and the first platform carrying it is kept. A class holding specs that
// differ raises a [CoarsePlatformConflict] warning. Wildcard entries pass
// through unchanged.
func Collapse(name string, specs map[platform.Platform]deps.Spec, tbl *platform.Table, obs Observer) map[platform.Platform]deps.Spec {
	if tbl == nil {
		tbl = platform.Default()
	}
	if obs == nil {
		obs = discard{}
	}
	type classGroup struct {
		first    platform.Platform
		kept     deps.Spec
		distinct []deps.Spec
	}
	out := make(map[platform.Platform]deps.Spec, len(specs))
	groups := make(map[platform.Class]*classGroup)
	var order []platform.Class
	for _, p := range slices.Sorted(maps.Keys(specs)) {
		s := specs[p]
		if p == platform.Wildcard {
			out[p] = s
			continue
		}
		class := tbl.Class(p)
		g, ok := groups[class]
		if !ok {
			groups[class] = &classGroup{first: p, kept: s, distinct: []deps.Spec{s}}
			order = append(order, class)
			continue
		}
		if !slices.ContainsFunc(g.distinct, s.Equal) {
			g.distinct = append(g.distinct, s)
		}
	}
	for _, class := range order {
		g := groups[class]
		out[g.first] = g.kept
		if len(g.distinct) > 1 {
			obs.Warn(Warning{
				Kind:      CoarsePlatformConflict,
				Package:   name,
				Platform:  g.first,
				Class:     class,
				Kept:      []deps.Spec{g.kept},
				Discarded: slices.Clone(g.distinct[1:]),
			})
		}
	}
	return out
}
