package layout

import (
	"math"

	"github.com/matzehuels/kgforce/pkg/graph"
)

// fallbackRadius is the placement circle radius used when the viewport is
// invalid and 0.3·min(width, height) would collapse every node onto one point.
const fallbackRadius = 100.0

// Build creates the initial layout for g inside vp.
//
// Node i of n is placed at angle 2π·i/n on a circle of radius
// 0.3·min(width, height) centered in the viewport, with zero velocity.
// Edges referencing unknown node IDs are dropped. An empty graph yields an
// empty State.
func Build(g graph.Graph, vp Viewport) *State {
	nodes := dedupe(g.Nodes)

	s := &State{
		Viewport: vp,
		Nodes:    make([]*Node, len(nodes)),
		Edges:    make([]*Edge, 0, len(g.Edges)),
		index:    make(map[string]*Node, len(nodes)),
	}

	cx, cy := vp.Center()
	r := 0.3 * math.Min(vp.Width, vp.Height)
	if !vp.Valid() {
		r = fallbackRadius
	}

	n := float64(len(nodes))
	for i, gn := range nodes {
		angle := 2 * math.Pi * float64(i) / n
		ln := &Node{
			Node:   gn,
			X:      cx + r*math.Cos(angle),
			Y:      cy + r*math.Sin(angle),
			Radius: RadiusFor(gn.Type),
			Color:  ColorFor(gn.Type),
		}
		s.Nodes[i] = ln
		s.index[gn.ID] = ln
	}

	for _, ge := range g.Edges {
		src, ok := s.index[ge.Source]
		if !ok {
			s.Dropped++
			continue
		}
		dst, ok := s.index[ge.Target]
		if !ok {
			s.Dropped++
			continue
		}
		s.Edges = append(s.Edges, &Edge{
			Source:   src,
			Target:   dst,
			Weight:   normalizeWeight(ge.Weight),
			Relation: ge.Relation,
		})
	}

	return s
}

// dedupe collapses duplicate IDs: the last node with an ID wins and takes the
// slot of the first occurrence.
func dedupe(in []graph.Node) []graph.Node {
	slot := make(map[string]int, len(in))
	out := make([]graph.Node, 0, len(in))
	for _, n := range in {
		if i, ok := slot[n.ID]; ok {
			out[i] = n
			continue
		}
		slot[n.ID] = len(out)
		out = append(out, n)
	}
	return out
}

// normalizeWeight maps missing, non-positive or non-finite weights to 1.
func normalizeWeight(w float64) float64 {
	if !finite(w) || w <= 0 {
		return 1
	}
	return w
}
