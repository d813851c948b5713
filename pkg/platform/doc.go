// Package platform defines the closed set of target platforms unidep knows
// about and the selector vocabulary used to restrict dependencies to them.
//
// # Platforms, selectors and classes
//
// A [Platform] is one concrete OS/architecture pair such as "linux-64" or
// "osx-arm64". Dependencies are restricted to platforms with selector
// tokens, written as a bracketed comment in requirements.yaml:
//
//	dependencies:
//	  - cuda-toolkit  # [linux64]
//	  - pywin32       # [win]
//
// A [Selector] may denote several platforms ("unix" covers every Linux and
// macOS platform) and each platform is denoted by several selectors. The
// first selector listed for a platform is unique to it and is used when a
// platform has to be written back as a comment.
//
// A [Class] is the coarser OS family ("linux", "osx", "win") understood by
// conda's sel(...) syntax. Platforms sharing a class cannot be told apart
// in that syntax.
//
// # The table
//
// All lookups go through a [Table]. The table is built once and never
// mutated; [Default] returns the process-wide instance and is safe for
// concurrent use.
//
//	t := platform.Default()
//	ps, err := t.Platforms("unix")       // linux-64, linux-aarch64, ...
//	marker := t.Marker(ps)               // PEP 508 environment marker
//	ps, err = platform.ParseSelectorComment("# [linux64 arm64]")
package platform
