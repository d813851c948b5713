// Package render holds the visual outputs of unidep.
//
// The [nodelink] subpackage draws the include graph of local projects as a
// Graphviz node-link diagram:
//
//	g, err := manifest.IncludeGraph(paths...)
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [nodelink]: github.com/matzehuels/unidep/pkg/render/nodelink
package render
