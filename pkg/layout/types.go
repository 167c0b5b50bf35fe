package layout

import (
	"math"

	"github.com/matzehuels/kgforce/pkg/graph"
)

// Viewport is the drawable area in the renderer's display units.
type Viewport struct {
	Width  float64 `json:"width" toml:"width" validate:"gte=0"`
	Height float64 `json:"height" toml:"height" validate:"gte=0"`
}

// Valid reports whether both dimensions are finite and positive.
// Forces that depend on the canvas (centering, boundary clamp) are skipped
// for an invalid viewport.
func (v Viewport) Valid() bool {
	return finite(v.Width) && finite(v.Height) && v.Width > 0 && v.Height > 0
}

// Center returns the viewport midpoint. Negative or non-finite dimensions
// count as zero.
func (v Viewport) Center() (float64, float64) {
	return nonNegative(v.Width) / 2, nonNegative(v.Height) / 2
}

// Node is the per-node layout state derived from a [graph.Node].
type Node struct {
	graph.Node

	X, Y   float64 // position
	VX, VY float64 // velocity
	Radius float64
	Color  string

	// Fixed is set while the node is held by a drag. Fixed nodes exert
	// forces but are not moved by them.
	Fixed bool
}

// Edge is an input edge resolved against the node set.
// Source and Target always point at elements of the owning State.
type Edge struct {
	Source   *Node
	Target   *Node
	Weight   float64
	Relation string
}

// Key returns the (source, target) ID pair identifying the edge.
func (e *Edge) Key() (string, string) {
	return e.Source.ID, e.Target.ID
}

// IsSelfLoop reports whether both endpoints are the same node.
func (e *Edge) IsSelfLoop() bool { return e.Source == e.Target }

// State is the mutable layout of one graph.
type State struct {
	Viewport Viewport
	Nodes    []*Node
	Edges    []*Edge

	// Dropped is the number of input edges discarded during Build.
	Dropped int

	index map[string]*Node
}

// Node returns the node with the given ID.
func (s *State) Node(id string) (*Node, bool) {
	n, ok := s.index[id]
	return n, ok
}

// Edge returns the first edge from source to target.
func (s *State) Edge(source, target string) (*Edge, bool) {
	for _, e := range s.Edges {
		if e.Source.ID == source && e.Target.ID == target {
			return e, true
		}
	}
	return nil, false
}

// Len returns the number of nodes.
func (s *State) Len() int { return len(s.Nodes) }

// Empty reports whether the layout has no nodes.
func (s *State) Empty() bool { return len(s.Nodes) == 0 }

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func nonNegative(f float64) float64 {
	if !finite(f) || f < 0 {
		return 0
	}
	return f
}
