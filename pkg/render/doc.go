// Package render draws a tree with one ideal highlighted.
//
// [ToDOT] emits Graphviz DOT with active nodes filled and inactive ones
// dashed, edges running from parent to child and siblings kept in input
// order. [RenderSVG] lays the DOT out with the embedded Graphviz of
// go-graphviz, so no system installation is needed for SVG.
//
//	dot := render.ToDOT(tree, render.Options{Active: []int{1, 2, 5}})
//	svg, err := render.RenderSVG(ctx, dot)
//
// [ToPDF] and [ToPNG] convert SVG through the external rsvg-convert tool
// (from librsvg) and fail with an UNSUPPORTED error when it is missing.
package render
