// Package deps defines the normalized dependency record that flows through
// unidep.
//
// # Records
//
// A [Spec] is one declared dependency for one ecosystem: conda (the system
// package manager) or pip (the Python package installer). A single line in
// requirements.yaml such as
//
//	- numpy >=1.20  # [linux64]
//
// becomes two specs, one per ecosystem, that share the same
// [Spec.Identifier]. Lines written as {conda: ..., pip: ...} maps produce
// one spec per key that is present.
//
// A spec whose Platforms is nil applies to every platform (the wildcard).
// Specs are treated as immutable values once created.
//
// # Package strings
//
// [ParsePackageString] splits a declaration into name, pin and selector:
//
//	numpy                      -> name "numpy"
//	numpy >=1.20,<2            -> pin ">=1.20,<2"
//	cuda-toolkit =11.8:linux64 -> pin "=11.8", selector "linux64"
//	adaptive @ git+https://... -> pin "@ git+https://..."
//
// Pins are opaque strings. No version arithmetic happens anywhere in
// unidep; conflicts between pins are settled by fixed priority rules in
// package resolve.
package deps
