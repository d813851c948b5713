// Package resolve reduces a flat list of dependency specs to exactly one
// spec per package, platform and ecosystem.
//
// Resolution runs in fixed stages:
//
//  1. [Group] buckets specs by package name, then platform (or
//     [platform.Wildcard]), then ecosystem. A spec restricted to several
//     platforms lands in each of their buckets.
//  2. Within a bucket the spec with a pin beats one without; between two
//     pins the lexicographically larger string wins. Pins are never
//     compared as versions. Discarded specs are reported.
//  3. When both ecosystems survive for a platform and only one is pinned,
//     the pinned one wins. Two different pins are both kept and reported.
//  4. A wildcard entry that coexists with concrete platforms is copied
//     into every target platform that has no entry of its own, then
//     removed.
//
// [Collapse] is a separate step used when emitting conda sel(...)
// selectors, which only distinguish coarse OS classes.
//
// Conflicts never fail resolution. They are delivered as [Warning] values
// to the [Observer] in [Options]; errors are reserved for invalid input.
//
//	var warnings resolve.Collector
//	resolved, err := resolve.Resolve(specs, resolve.Options{
//	    Platforms: []platform.Platform{platform.Linux64, platform.OsxArm64},
//	    Observer:  &warnings,
//	})
//
// Resolve allocates all of its state per call and may be used from many
// goroutines at once.
package resolve
