package resolve

import (
	"fmt"
	"strings"
	"sync"

	"github.com/matzehuels/unidep/pkg/deps"
	"github.com/matzehuels/unidep/pkg/platform"
)

// Kind classifies a resolution warning.
type Kind string

const (
	// PlatformConflict: several specs for one package, platform and
	// ecosystem; one was kept by priority.
	PlatformConflict Kind = "PLATFORM_CONFLICT"
	// PinConflict: conda and pip pin the same package differently on one
	// platform; both are kept.
	PinConflict Kind = "PIN_CONFLICT"
	// CoarsePlatformConflict: platforms sharing a conda sel class resolve
	// to different specs; the first was kept.
	CoarsePlatformConflict Kind = "COARSE_PLATFORM_CONFLICT"
)

// Warning describes a conflict settled during resolution.
type Warning struct {
	Kind      Kind              `json:"kind"`
	Package   string            `json:"package"`
	Platform  platform.Platform `json:"platform,omitempty"`  // Wildcard when the conflict applies everywhere
	Class     platform.Class    `json:"class,omitempty"`     // Set for CoarsePlatformConflict
	Kept      []deps.Spec       `json:"kept"`                // Surviving specs
	Discarded []deps.Spec       `json:"discarded,omitempty"` // Dropped specs; empty for PinConflict
}

// Message renders the warning for humans.
func (w Warning) Message() string {
	switch w.Kind {
	case PlatformConflict:
		return fmt.Sprintf("platform conflict on '%s': '%s' (%s) is retained, discarding: %s",
			w.Platform, prettyFirst(w.Kept), whichFirst(w.Kept), prettyList(w.Discarded))
	case PinConflict:
		var conda, pip string
		for _, s := range w.Kept {
			switch s.Which {
			case deps.Conda:
				conda = s.Pin
			case deps.Pip:
				pip = s.Pin
			}
		}
		return fmt.Sprintf("version pinning conflict for '%s' on '%s': conda '%s' and pip '%s' differ, both are retained",
			w.Package, w.Platform, conda, pip)
	case CoarsePlatformConflict:
		return fmt.Sprintf("dependency conflict on '%s': retaining '%s' and discarding: %s",
			w.Class, prettyFirst(w.Kept), prettyList(w.Discarded))
	}
	return fmt.Sprintf("%s: %s", w.Kind, w.Package)
}

func prettyFirst(specs []deps.Spec) string {
	if len(specs) == 0 {
		return ""
	}
	return specs[0].Pretty()
}

func whichFirst(specs []deps.Spec) deps.Ecosystem {
	if len(specs) == 0 {
		return ""
	}
	return specs[0].Which
}

func prettyList(specs []deps.Spec) string {
	parts := make([]string, len(specs))
	for i, s := range specs {
		parts[i] = fmt.Sprintf("'%s' (%s)", s.Pretty(), s.Which)
	}
	return strings.Join(parts, ", ")
}

// Observer receives warnings as they are raised.
type Observer interface {
	Warn(Warning)
}

// ObserverFunc adapts a function to [Observer].
type ObserverFunc func(Warning)

// Warn calls f(w).
func (f ObserverFunc) Warn(w Warning) { f(w) }

type discard struct{}

func (discard) Warn(Warning) {}

// Collector is an [Observer] that records every warning. It is safe for
// concurrent use.
type Collector struct {
	mu       sync.Mutex
	warnings []Warning
}

// Warn records w.
func (c *Collector) Warn(w Warning) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.warnings = append(c.warnings, w)
}

// Warnings returns a copy of the recorded warnings in arrival order.
func (c *Collector) Warnings() []Warning {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Warning, len(c.warnings))
	copy(out, c.warnings)
	return out
}

// Count returns how many warnings of kind k were recorded.
func (c *Collector) Count(k Kind) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, w := range c.warnings {
		if w.Kind == k {
			n++
		}
	}
	return n
}
