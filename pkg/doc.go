// Package pkg provides the libraries behind unidep, a tool that keeps conda
// and pip dependencies in one place.
//
// # Overview
//
// Projects declare dependencies once, in requirements.yaml or in the
// [tool.unidep] table of pyproject.toml. Each entry may be installable from
// conda, from pip, or from both, and may be restricted to some platforms
// with a selector such as "# [linux64]". unidep settles conflicting pins per
// platform and writes a conda environment.yaml or a pip requirement list.
//
// # Architecture
//
// The data flow through unidep:
//
//	requirements.yaml / pyproject.toml
//	         ↓
//	    [manifest] package (parse, follow includes, apply pin options)
//	         ↓
//	    [deps] records (one per ecosystem and selector)
//	         ↓
//	    [resolve] package (group, pick pins, reconcile conda vs pip)
//	         ↓
//	    [envspec] package (collapse platforms, emit environment.yaml)
//
// [pipeline] runs these stages for the CLI and for the HTTP API in [server].
//
// # Quick Start
//
//	reqs, _ := manifest.Load(ctx, []string{"requirements.yaml"}, manifest.Options{})
//	resolved, _ := resolve.Resolve(reqs.Specs, resolve.Options{Platforms: reqs.Platforms})
//	env, _ := envspec.Create(resolved, reqs.Channels, reqs.Platforms, envspec.Options{})
//	_ = env.WriteFile("environment.yaml", envspec.Header{})
//
// # Main Packages
//
// [platform] - The platform and selector table: which selectors exist, which
// platforms each one covers and the PEP 508 marker for a platform set.
//
// [deps] - Dependency records and package string parsing.
//
// [manifest] - Manifest readers, include handling, project discovery and
// the local include graph.
//
// [resolve] - Per-platform conflict resolution with warnings.
//
// [envspec] - Environment construction and YAML output.
//
// [dag] - Directed graph with row layering, used for the include graph.
// [render/nodelink] draws it with Graphviz.
//
// ## Infrastructure
//
// [cache] - Result caches (file, Redis, no-op) and key derivation.
//
// [observability] - Hooks for pipeline stages, cache events and HTTP requests.
//
// [errors] - Error codes shared by every package.
//
// [manifest]: https://pkg.go.dev/github.com/matzehuels/unidep/pkg/manifest
// [platform]: https://pkg.go.dev/github.com/matzehuels/unidep/pkg/platform
// [deps]: https://pkg.go.dev/github.com/matzehuels/unidep/pkg/deps
// [resolve]: https://pkg.go.dev/github.com/matzehuels/unidep/pkg/resolve
// [envspec]: https://pkg.go.dev/github.com/matzehuels/unidep/pkg/envspec
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/unidep/pkg/pipeline
// [server]: https://pkg.go.dev/github.com/matzehuels/unidep/pkg/server
// [dag]: https://pkg.go.dev/github.com/matzehuels/unidep/pkg/dag
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/unidep/pkg/render/nodelink
// [cache]: https://pkg.go.dev/github.com/matzehuels/unidep/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/unidep/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/unidep/pkg/errors
package pkg
