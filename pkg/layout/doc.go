// Package layout turns an input knowledge graph into layout-ready state.
//
// [Build] resolves a [graph.Graph] against a [Viewport]: nodes are deduplicated
// by ID, given visuals from their type, and placed evenly on a circle of radius
// 0.3·min(width, height) around the viewport center. Edges are resolved to
// pointers into the node set; an edge whose source or target is missing is
// discarded and counted in [State.Dropped].
//
// The resulting [State] is mutable and owned by a single controller (see
// pkg/force). Nothing in this package has behavior beyond construction and
// lookup.
//
// # Known Limitations
//
// Duplicate node IDs are resolved "last write wins": the later node's data
// replaces the earlier one, keeping the slot (and therefore the initial
// position) of the first occurrence.
package layout
