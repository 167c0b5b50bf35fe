package force

import (
	"github.com/matzehuels/kgforce/pkg/graph"
	"github.com/matzehuels/kgforce/pkg/layout"
)

// EdgeKey identifies an edge by its endpoint IDs.
type EdgeKey struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Snapshot is a read-only copy of the engine's layout.
//
// Nodes are copies; every edge points into the snapshot's own Nodes, never
// into engine state. Node.Properties maps are shared with the input graph
// and must not be modified.
type Snapshot struct {
	Viewport layout.Viewport
	Nodes    []layout.Node
	Edges    []layout.Edge

	Frame   uint64
	Running bool
	Settled bool
	Energy  float64
	Dropped int

	SelectedNode string
	SelectedEdge *EdgeKey
}

func (e *Engine) snapshotLocked() Snapshot {
	s := e.state
	snap := Snapshot{
		Viewport:     s.Viewport,
		Nodes:        make([]layout.Node, len(s.Nodes)),
		Edges:        make([]layout.Edge, len(s.Edges)),
		Frame:        e.frames,
		Running:      e.running,
		Settled:      e.settled,
		Energy:       e.last.Energy,
		Dropped:      s.Dropped,
		SelectedNode: e.selNode,
	}
	if e.selEdge != nil {
		k := *e.selEdge
		snap.SelectedEdge = &k
	}

	index := make(map[*layout.Node]*layout.Node, len(s.Nodes))
	for i, n := range s.Nodes {
		snap.Nodes[i] = *n
		index[n] = &snap.Nodes[i]
	}
	for i, ed := range s.Edges {
		snap.Edges[i] = layout.Edge{
			Source:   index[ed.Source],
			Target:   index[ed.Target],
			Weight:   ed.Weight,
			Relation: ed.Relation,
		}
	}
	return snap
}

// Node returns the snapshot's copy of the node with the given ID. The
// pointer refers into s.Nodes.
func (s Snapshot) Node(id string) (*layout.Node, bool) {
	for i := range s.Nodes {
		if s.Nodes[i].ID == id {
			return &s.Nodes[i], true
		}
	}
	return nil, false
}

// Layout converts the snapshot into the serializable [graph.Layout].
func (s Snapshot) Layout() graph.Layout {
	l := graph.Layout{
		Width:   s.Viewport.Width,
		Height:  s.Viewport.Height,
		Frames:  s.Frame,
		Energy:  s.Energy,
		Settled: s.Settled,
		Nodes:   make([]graph.PositionedNode, len(s.Nodes)),
		Edges:   make([]graph.Edge, len(s.Edges)),
		Dropped: s.Dropped,
	}
	for i, n := range s.Nodes {
		l.Nodes[i] = graph.PositionedNode{
			Node:   n.Node,
			X:      n.X,
			Y:      n.Y,
			Radius: n.Radius,
			Color:  n.Color,
		}
	}
	for i, e := range s.Edges {
		l.Edges[i] = graph.Edge{
			Source:   e.Source.ID,
			Target:   e.Target.ID,
			Weight:   e.Weight,
			Relation: e.Relation,
		}
	}
	return l
}
