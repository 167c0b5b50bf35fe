// Package render turns computed layouts into static artifacts.
//
// # Overview
//
// The interactive renderer of a knowledge graph lives outside this module:
// it reads [force.Engine] snapshots and draws them. For everything that is
// not interactive (reports, documentation, CI previews) a layout is first
// frozen into a [graph.Layout] and then rendered here.
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage writes the layout as Graphviz DOT with every
// node pinned to its simulated position, and renders it to SVG or PNG
// in-process:
//
//	dot := nodelink.ToDOT(l, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [force.Engine]: github.com/matzehuels/kgforce/pkg/force
// [graph.Layout]: github.com/matzehuels/kgforce/pkg/graph
// [nodelink]: github.com/matzehuels/kgforce/pkg/render/nodelink
package render
