// Package dot renders element arrays as Graphviz diagrams.
//
// # Overview
//
// Nodes become shapes labelled with their identifier, styled by node type;
// links become arrows labelled with their relationship type. The result is
// meant for eyeballing a topology, so duplicate node identifiers collapse
// into one shape, and links to identifiers that no node declares still
// appear (Graphviz creates the endpoint implicitly, drawn dashed).
//
// # Usage
//
//	src := dot.ToDOT(elems, dot.Options{})
//	svg, err := dot.RenderSVG(ctx, src)
//
// # Dependencies
//
// SVG rendering uses [github.com/goccy/go-graphviz], which runs Graphviz
// in-process; no external binary is needed.
package dot
