package platform

import (
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/unidep/pkg/errors"
)

// Platform identifies one concrete target platform.
type Platform string

// Supported platforms.
const (
	Linux64      Platform = "linux-64"
	LinuxAarch64 Platform = "linux-aarch64"
	LinuxPPC64le Platform = "linux-ppc64le"
	Osx64        Platform = "osx-64"
	OsxArm64     Platform = "osx-arm64"
	Win64        Platform = "win-64"

	// Wildcard stands for "every platform" in resolved maps. It is never a
	// member of the table.
	Wildcard Platform = ""
)

// String returns the platform id, or "all platforms" for the wildcard.
func (p Platform) String() string {
	if p == Wildcard {
		return "all platforms"
	}
	return string(p)
}

// Selector is a token that may appear inside a bracketed selector comment.
type Selector string

// Class is a coarse OS family as understood by conda's sel(...) syntax.
type Class string

// Coarse classes.
const (
	ClassLinux Class = "linux"
	ClassOsx   Class = "osx"
	ClassWin   Class = "win"
)

// Table is the immutable platform/selector lookup table.
// The zero value is not usable; use [Default].
type Table struct {
	platforms []Platform
	selectors map[Platform][]Selector
	reverse   map[Selector][]Platform
	markers   map[Platform]string
	combined  map[string]string
}

// platformSelectors lists, per platform, the selectors that denote it.
// The first selector of each entry is unique to that platform.
var platformSelectors = map[Platform][]Selector{
	Linux64:      {"linux64", "unix", "linux"},
	LinuxAarch64: {"aarch64", "unix", "linux"},
	LinuxPPC64le: {"ppc64le", "unix", "linux"},
	Osx64:        {"osx64", "osx", "macos", "unix"},
	OsxArm64:     {"arm64", "osx", "macos", "unix"},
	Win64:        {"win64", "win"},
}

var pep508Markers = map[Platform]string{
	Linux64:      "sys_platform == 'linux' and platform_machine == 'x86_64'",
	LinuxAarch64: "sys_platform == 'linux' and platform_machine == 'aarch64'",
	LinuxPPC64le: "sys_platform == 'linux' and platform_machine == 'ppc64le'",
	Osx64:        "sys_platform == 'darwin' and platform_machine == 'x86_64'",
	OsxArm64:     "sys_platform == 'darwin' and platform_machine == 'arm64'",
	Win64:        "sys_platform == 'win32' and platform_machine == 'AMD64'",
}

var combinedMarkers = map[string]string{
	setKey([]Platform{Linux64, LinuxAarch64, LinuxPPC64le}):                  "sys_platform == 'linux'",
	setKey([]Platform{Osx64, OsxArm64}):                                      "sys_platform == 'darwin'",
	setKey([]Platform{Linux64, LinuxAarch64, LinuxPPC64le, Osx64, OsxArm64}): "sys_platform == 'linux' or sys_platform == 'darwin'",
}

var defaultTable = newTable()

// Default returns the process-wide platform table.
func Default() *Table { return defaultTable }

func newTable() *Table {
	t := &Table{
		platforms: slices.Sorted(maps.Keys(platformSelectors)),
		selectors: make(map[Platform][]Selector, len(platformSelectors)),
		reverse:   make(map[Selector][]Platform),
		markers:   maps.Clone(pep508Markers),
		combined:  maps.Clone(combinedMarkers),
	}
	for _, p := range t.platforms {
		sels := platformSelectors[p]
		t.selectors[p] = slices.Clone(sels)
		for _, s := range sels {
			t.reverse[s] = append(t.reverse[s], p)
		}
	}
	return t
}

// All returns every platform in sorted order.
func (t *Table) All() []Platform { return slices.Clone(t.platforms) }

// Valid reports whether p is a concrete platform in the table.
func (t *Table) Valid(p Platform) bool {
	_, ok := t.selectors[p]
	return ok
}

// Validate returns an INVALID_PLATFORM error for the first unknown platform.
func (t *Table) Validate(ps []Platform) error {
	for _, p := range ps {
		if !t.Valid(p) {
			return errors.New(errors.ErrCodeInvalidPlatform,
				"invalid platform %q, must be one of %s", string(p), joinPlatforms(t.platforms))
		}
	}
	return nil
}

// Platforms returns the platforms denoted by a selector token, sorted.
func (t *Table) Platforms(sel Selector) ([]Platform, error) {
	ps, ok := t.reverse[sel]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownSelector,
			"unsupported platform selector %q, use one of %s", string(sel), strings.Join(t.selectorNames(), ", "))
	}
	return slices.Clone(ps), nil
}

// Selectors returns every selector that denotes p.
func (t *Table) Selectors(p Platform) []Selector {
	return slices.Clone(t.selectors[p])
}

// Tokens returns every known selector token, sorted.
func (t *Table) Tokens() []Selector {
	return slices.Sorted(maps.Keys(t.reverse))
}

// PrimarySelector returns the selector unique to p, or "" for an unknown platform.
func (t *Table) PrimarySelector(p Platform) Selector {
	sels := t.selectors[p]
	if len(sels) == 0 {
		return ""
	}
	return sels[0]
}

// Class returns the coarse class of p.
func (t *Table) Class(p Platform) Class {
	os, _, _ := strings.Cut(string(p), "-")
	return Class(os)
}

// Marker builds a PEP 508 environment marker matching exactly ps.
// Well-known platform families collapse to a single sys_platform test;
// anything else is the OR of the per-platform markers in sorted order.
// Unknown platforms are ignored.
func (t *Table) Marker(ps []Platform) string {
	sorted := slices.Sorted(slices.Values(ps))
	sorted = slices.Compact(sorted)
	if m, ok := t.combined[setKey(sorted)]; ok {
		return m
	}
	var parts []string
	for _, p := range sorted {
		if m, ok := t.markers[p]; ok {
			parts = append(parts, m)
		}
	}
	return strings.Join(parts, " or ")
}

func (t *Table) selectorNames() []string {
	names := make([]string, 0, len(t.reverse))
	for _, s := range t.Tokens() {
		names = append(names, string(s))
	}
	return names
}

// Sort sorts ps in place in table order and removes duplicates.
func Sort(ps []Platform) []Platform {
	slices.Sort(ps)
	return slices.Compact(ps)
}

func setKey(ps []Platform) string {
	sorted := slices.Sorted(slices.Values(ps))
	return joinPlatforms(sorted)
}

func joinPlatforms(ps []Platform) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = string(p)
	}
	return strings.Join(parts, ",")
}
