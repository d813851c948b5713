package deps

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/matzehuels/unidep/pkg/errors"
	"github.com/matzehuels/unidep/pkg/platform"
)

// Ecosystem names the package manager a spec is installed with.
type Ecosystem string

const (
	Conda Ecosystem = "conda" // system-level packages
	Pip   Ecosystem = "pip"   // Python packages
)

// Ecosystems lists every ecosystem in output order.
var Ecosystems = []Ecosystem{Conda, Pip}

// Valid reports whether e is a known ecosystem.
func (e Ecosystem) Valid() bool { return e == Conda || e == Pip }

// Spec is a single dependency declaration for one ecosystem.
type Spec struct {
	Name       string              `json:"name"`                 // Package name
	Which      Ecosystem           `json:"which"`                // Target ecosystem
	Pin        string              `json:"pin,omitempty"`        // Version constraint; empty when unpinned
	Identifier string              `json:"identifier,omitempty"` // Links the conda and pip halves of one declaration
	Selector   string              `json:"selector,omitempty"`   // Raw selector text, e.g. "linux64 osx"
	Platforms  []platform.Platform `json:"platforms,omitempty"`  // Sorted; empty means every platform
}

// HasPin reports whether the spec carries a version constraint.
func (s Spec) HasPin() bool { return s.Pin != "" }

// IsWildcard reports whether the spec applies to every platform.
func (s Spec) IsWildcard() bool { return len(s.Platforms) == 0 }

// Equal reports whether s and o declare the same thing. Identifier,
// Selector and Platforms are ignored: two specs coming from different lines
// or platforms are equal when they would install the same package.
func (s Spec) Equal(o Spec) bool {
	return s.Name == o.Name && s.Which == o.Which && s.Pin == o.Pin
}

// NameWithPin renders "name pin" in the ecosystem's own syntax. Conda's
// single "=" (fuzzy match) is spelled "==" for pip.
func (s Spec) NameWithPin() string {
	if s.Pin == "" {
		return s.Name
	}
	pin := s.Pin
	if s.Which == Pip && strings.HasPrefix(pin, "=") && !strings.HasPrefix(pin, "==") {
		pin = "=" + pin
	}
	return s.Name + " " + pin
}

// Pretty renders the spec the way it would appear in requirements.yaml.
func (s Spec) Pretty() string {
	out := s.Name
	if s.Pin != "" {
		out += " " + s.Pin
	}
	if s.Selector != "" {
		out += " # [" + s.Selector + "]"
	}
	return out
}

// String implements fmt.Stringer.
func (s Spec) String() string {
	return fmt.Sprintf("%s (%s)", s.Pretty(), s.Which)
}

// WithPlatforms returns a copy of s restricted to ps.
func (s Spec) WithPlatforms(ps []platform.Platform) Spec {
	s.Platforms = slices.Clone(ps)
	return s
}

// Declaration is a parsed package string.
type Declaration struct {
	Name     string
	Pin      string
	Selector string
}

var packagePattern = regexp.MustCompile(`^([a-zA-Z0-9_.\-\[\]]+)\s*(.*?)(?::([a-z0-9\s]+))?$`)

// ParsePackageString splits "name[ pin][:selector]". The name may carry
// extras ("dask[dataframe]"). Selector tokens are validated against the
// default platform table. Failure is INVALID_PACKAGE, or UNKNOWN_SELECTOR
// for a bad selector.
func ParsePackageString(s string) (Declaration, error) {
	m := packagePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Declaration{}, errors.New(errors.ErrCodeInvalidPackage, "invalid package string: %q", s)
	}
	d := Declaration{
		Name:     m[1],
		Pin:      strings.TrimSpace(m[2]),
		Selector: strings.Join(strings.Fields(m[3]), " "),
	}
	if err := errors.ValidatePackageName(d.Name); err != nil {
		return Declaration{}, err
	}
	if d.Selector != "" {
		if _, err := platform.ParseSelector(d.Selector); err != nil {
			return Declaration{}, err
		}
	}
	return d, nil
}

// Specs builds the records for d. Both ecosystems are produced when which
// is empty. Platforms are resolved from d.Selector.
func (d Declaration) Specs(index int, which ...Ecosystem) ([]Spec, error) {
	ps, err := platform.ParseSelector(d.Selector)
	if err != nil {
		return nil, err
	}
	if len(which) == 0 {
		which = Ecosystems
	}
	id := Identifier(index, ps)
	specs := make([]Spec, 0, len(which))
	for _, w := range which {
		specs = append(specs, Spec{
			Name:       d.Name,
			Which:      w,
			Pin:        d.Pin,
			Identifier: id,
			Selector:   d.Selector,
			Platforms:  slices.Clone(ps),
		})
	}
	return specs, nil
}

// Identifier derives the token shared by the halves of one declaration from
// its position in the input and its platforms. The result is 8 hex digits.
func Identifier(index int, ps []platform.Platform) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(index))
	b.WriteByte('-')
	if ps == nil {
		b.WriteString("None")
	} else {
		sorted := platform.Sort(slices.Clone(ps))
		for i, p := range sorted {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(string(p))
		}
	}
	return fmt.Sprintf("%08x", uint32(xxhash.Sum64String(b.String())))
}
