// Package envspec turns resolved dependencies into a conda environment
// specification: a conda dependency list using sel(...) selectors and a
// pip list using PEP 508 environment markers.
//
// # Emission rules
//
// A spec that is identical on every target platform is written once,
// without selector or marker. Otherwise:
//
//   - conda entries become {sel(<class>): "name pin"}, one per coarse OS
//     class after [resolve.Collapse]; with a single target platform they
//     are written bare
//   - pip entries become "name pin; <marker>", where platforms sharing an
//     identical spec are merged into one marker
//
// With [SelectorComment] every restricted entry is instead written once
// per platform with a trailing "# [selector]" comment, the input format of
// conda-lock.
//
// Lists are sorted by package name, then platform.
package envspec
