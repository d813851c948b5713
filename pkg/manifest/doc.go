// Package manifest reads unidep dependency manifests and turns them into
// [deps.Spec] records.
//
// Two formats are supported:
//
//   - requirements.yaml, where platform selectors are trailing comments
//     ("- cuda-toolkit  # [linux64]")
//   - pyproject.toml with a [tool.unidep] table, where selectors are
//     suffixes ("cuda-toolkit:linux64")
//
// Both share the same keys: name, channels, platforms, includes,
// dependencies and optional_dependencies. A dependency is either a plain
// package string, installed with conda and pip, or a {conda: ..., pip: ...}
// map naming the package per ecosystem.
//
// # Loading
//
// [Load] reads a list of manifests together with everything they include,
// in order, and numbers the declarations so that the conda and pip halves
// of a line share an identifier:
//
//	reqs, err := manifest.Load(ctx, []string{"requirements.yaml"}, manifest.Options{
//	    SkipDependencies: []string{"pytest"},
//	})
//
// Includes are resolved relative to the including file; a directory stands
// for the requirements.yaml (or pyproject.toml) inside it. A file is read
// at most once, so circular includes are harmless.
//
// # Discovery and conversion
//
// [FindRequirementsFiles] scans a directory tree for manifests,
// [ParseLocalDependencies] maps projects to the local projects they
// include, and [ToTOML] converts a requirements.yaml into the equivalent
// [tool.unidep] table.
package manifest
