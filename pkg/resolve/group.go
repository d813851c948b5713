package resolve

import (
	"github.com/matzehuels/unidep/pkg/deps"
	"github.com/matzehuels/unidep/pkg/platform"
)

// Groups buckets specs by package name, platform and ecosystem. Buckets keep
// every spec in input order, duplicates included.
type Groups map[string]map[platform.Platform]map[deps.Ecosystem][]deps.Spec

// Group buckets specs. A wildcard spec lands under [platform.Wildcard]; a
// spec restricted to several platforms is inserted once per platform.
func Group(specs []deps.Spec) Groups {
	g := make(Groups)
	for _, s := range specs {
		byPlatform, ok := g[s.Name]
		if !ok {
			byPlatform = make(map[platform.Platform]map[deps.Ecosystem][]deps.Spec)
			g[s.Name] = byPlatform
		}
		targets := s.Platforms
		if s.IsWildcard() {
			targets = []platform.Platform{platform.Wildcard}
		}
		for _, p := range targets {
			byEco, ok := byPlatform[p]
			if !ok {
				byEco = make(map[deps.Ecosystem][]deps.Spec)
				byPlatform[p] = byEco
			}
			byEco[s.Which] = append(byEco[s.Which], s)
		}
	}
	return g
}
