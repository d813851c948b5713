// Package pipeline runs the load → resolve → emit sequence shared by the
// CLI and the HTTP server.
//
// # Stages
//
//  1. Load: read manifests and their includes into dependency specs
//  2. Resolve: settle conflicts per package and platform
//  3. Emit: build the environment specification and the pip list
//
// Every warning raised along the way is collected in [Result.Warnings] and
// logged by the [Runner].
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Files:     []string{"requirements.yaml"},
//	    Platforms: []platform.Platform{platform.Linux64},
//	})
//	if err != nil {
//	    return err
//	}
//	err = result.Environment.WriteFile("environment.yaml", header)
//
// In-memory manifests (as posted to the API) go through
// [Runner.ExecuteDocument], which caches the result.
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/unidep/pkg/envspec"
	"github.com/matzehuels/unidep/pkg/errors"
	"github.com/matzehuels/unidep/pkg/manifest"
	"github.com/matzehuels/unidep/pkg/platform"
	"github.com/matzehuels/unidep/pkg/resolve"
)

// Options contains all configuration for a pipeline run.
type Options struct {
	// Load options
	Files            []string `json:"files,omitempty"`
	IgnorePins       []string `json:"ignore_pins,omitempty"`
	OverwritePins    []string `json:"overwrite_pins,omitempty"`
	SkipDependencies []string `json:"skip_dependencies,omitempty"`
	Extras           []string `json:"extras,omitempty"`

	// Emit options
	Name        string                `json:"name,omitempty"`
	Platforms   []platform.Platform   `json:"platforms,omitempty"` // Empty: platforms declared in the manifests
	Selector    envspec.SelectorStyle `json:"selector,omitempty"`
	PreferConda bool                  `json:"prefer_conda,omitempty"`

	// Refresh bypasses the result cache.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// ValidateAndSetDefaults checks the emit options and fills in defaults.
// Calling it twice has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Name == "" {
		o.Name = envspec.DefaultName
	}
	if o.Selector == "" {
		o.Selector = envspec.SelectorSel
	}
	if err := ValidateSelector(o.Selector); err != nil {
		return err
	}
	return platform.Default().Validate(o.Platforms)
}

// ValidateSelector checks that a selector style is known.
func ValidateSelector(s envspec.SelectorStyle) error {
	switch s {
	case envspec.SelectorSel, envspec.SelectorComment:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidInput, "invalid selector: %q (must be one of: sel, comment)", string(s))
}

// ManifestOptions returns the options passed to the manifest loader.
func (o Options) ManifestOptions() manifest.Options {
	return manifest.Options{
		IgnorePins:       o.IgnorePins,
		OverwritePins:    o.OverwritePins,
		SkipDependencies: o.SkipDependencies,
		Extras:           o.Extras,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Environment *envspec.Environment `json:"environment"`
	Pip         []string             `json:"pip"`
	Warnings    []resolve.Warning    `json:"warnings"`
	Files       []string             `json:"files,omitempty"`
	Stats       Stats                `json:"stats"`
	CacheHit    bool                 `json:"cache_hit"`

	// Resolved is the per-package resolution; not cached.
	Resolved resolve.Resolved `json:"-"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	SpecCount    int           `json:"specs"`
	PackageCount int           `json:"packages"`
	LoadTime     time.Duration `json:"load_ns"`
	ResolveTime  time.Duration `json:"resolve_ns"`
	EmitTime     time.Duration `json:"emit_ns"`
}

// WarningMessages renders every warning.
func (r *Result) WarningMessages() []string {
	out := make([]string, len(r.Warnings))
	for i, w := range r.Warnings {
		out[i] = w.Message()
	}
	return out
}
