// Package cache stores rendered environments and pip lists between runs.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON file per entry under a directory, used by the CLI
//   - [RedisCache]: a shared Redis instance, used by the HTTP server
//   - [NullCache]: stores nothing, used when caching is disabled
//
// Keys are built by a [Keyer] so that every input that changes the output
// (the manifest bytes, target platforms and emitter options) lands in the
// key. [ScopedKeyer] prefixes keys to share one backend between tenants.
package cache

import (
	"context"
	"slices"
	"time"
)

// Default time-to-live values for cached results.
const (
	TTLEnvironment = 24 * time.Hour
	TTLPip         = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key; a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// EnvironmentKey is the key of an environment built from inputHash.
	EnvironmentKey(inputHash string, opts EnvironmentKeyOpts) string
	// PipKey is the key of a pip dependency list built from inputHash.
	PipKey(inputHash string, platforms []string) string
}

// EnvironmentKeyOpts lists the emitter options that change an environment.
type EnvironmentKeyOpts struct {
	Name        string   `json:"name"`
	Platforms   []string `json:"platforms"`
	Selector    string   `json:"selector"`
	PreferConda bool     `json:"prefer_conda"`
}

// DefaultKeyer produces "env:<sha256>" and "pip:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// EnvironmentKey implements Keyer.
func (DefaultKeyer) EnvironmentKey(inputHash string, opts EnvironmentKeyOpts) string {
	opts.Platforms = sortedCopy(opts.Platforms)
	return hashKey("env", inputHash, opts)
}

// PipKey implements Keyer.
func (DefaultKeyer) PipKey(inputHash string, platforms []string) string {
	return hashKey("pip", inputHash, sortedCopy(platforms))
}

func sortedCopy(s []string) []string {
	out := slices.Clone(s)
	slices.Sort(out)
	return out
}
