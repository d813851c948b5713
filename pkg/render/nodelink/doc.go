// Package nodelink renders project include graphs as node-link diagrams.
//
// # Usage
//
// Convert a DAG to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: false})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
//   - Detailed: node labels also show the row and every metadata entry.
//
// Projects whose metadata marks them as not pip installable are drawn with a
// dashed outline and grey fill: they are included for their dependencies
// only and never installed themselves.
//
// The generated DOT uses top-to-bottom layout (rankdir=TB), so a project sits
// above the projects it includes.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
