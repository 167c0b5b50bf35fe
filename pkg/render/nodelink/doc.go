// Package nodelink renders positioned knowledge graphs as node-link diagrams.
//
// # Overview
//
// Nodes are drawn as filled circles sized by their layout radius and
// colored by their type; edges are straight lines whose width follows the
// edge weight. Positions come from the force simulation and are pinned,
// so Graphviz only draws and never lays out.
//
// # Usage
//
// Convert a layout to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(l, nodelink.Options{Labels: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PNG output:
//
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG] or [RenderPNG]
//   - Saved and processed with external Graphviz tools (neato -n)
//   - Customized before rendering
//
// Layout coordinates grow downward; DOT coordinates grow upward, so y is
// flipped against the layout height. Positions are written in points with
// inputscale=72, which keeps one layout unit equal to one output pixel.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process rendering
// with the neato engine.
package nodelink
