// Package transform prepares include graphs for display.
//
// Local projects may include each other in circles, which unidep tolerates
// when reading manifests. Before rendering, [BreakCycles] drops the back
// edges and [AssignLayers] gives every project a row below all of the
// projects that include it:
//
//	transform.BreakCycles(g)
//	transform.AssignLayers(g)
//	err := g.Validate() // nil
package transform
