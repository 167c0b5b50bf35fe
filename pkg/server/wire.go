package server

import (
	"github.com/matzehuels/kgforce/pkg/force"
	"github.com/matzehuels/kgforce/pkg/layout"
)

// Stream message types sent by the server.
const (
	MsgHello        = "hello"
	MsgSnapshot     = "snapshot"
	MsgNodeSelected = "node_selected"
	MsgEdgeSelected = "edge_selected"
	MsgSettled      = "settled"
	MsgError        = "error"
)

// Stream message types sent by clients.
const (
	MsgPressNode = "press_node"
	MsgPressEdge = "press_edge"
	MsgDrag      = "drag"
	MsgRelease   = "release"
	MsgStart     = "start"
	MsgStop      = "stop"
	MsgClear     = "clear"
)

// SnapshotJSON is the wire form of a [force.Snapshot].
type SnapshotJSON struct {
	Frame    uint64          `json:"frame"`
	Running  bool            `json:"running"`
	Settled  bool            `json:"settled"`
	Energy   float64         `json:"energy"`
	Dropped  int             `json:"dropped"`
	Viewport layout.Viewport `json:"viewport"`
	Nodes    []NodeJSON      `json:"nodes"`
	Edges    []EdgeJSON      `json:"edges"`

	SelectedNode string         `json:"selected_node,omitempty"`
	SelectedEdge *force.EdgeKey `json:"selected_edge,omitempty"`
}

// NodeJSON is the wire form of a [layout.Node].
type NodeJSON struct {
	ID     string  `json:"id"`
	Type   string  `json:"type,omitempty"`
	Label  string  `json:"label"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
	Radius float64 `json:"radius"`
	Color  string  `json:"color"`
	Fixed  bool    `json:"fixed,omitempty"`
}

// EdgeJSON is the wire form of a [layout.Edge].
type EdgeJSON struct {
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Weight   float64 `json:"weight"`
	Relation string  `json:"relation,omitempty"`
}

// Message is a server → client stream message.
type Message struct {
	Type     string        `json:"type"`
	Client   string        `json:"client,omitempty"`
	Snapshot *SnapshotJSON `json:"snapshot,omitempty"`
	Node     *NodeJSON     `json:"node,omitempty"`
	Edge     *EdgeJSON     `json:"edge,omitempty"`
	Error    *ErrorJSON    `json:"error,omitempty"`
}

// ClientMessage is a client → server stream message.
type ClientMessage struct {
	Type   string  `json:"type"`
	ID     string  `json:"id,omitempty"`
	Source string  `json:"source,omitempty"`
	Target string  `json:"target,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
}

// ErrorJSON is the body of every failed request.
type ErrorJSON struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func toSnapshotJSON(s force.Snapshot) *SnapshotJSON {
	out := &SnapshotJSON{
		Frame:        s.Frame,
		Running:      s.Running,
		Settled:      s.Settled,
		Energy:       s.Energy,
		Dropped:      s.Dropped,
		Viewport:     s.Viewport,
		Nodes:        make([]NodeJSON, len(s.Nodes)),
		Edges:        make([]EdgeJSON, len(s.Edges)),
		SelectedNode: s.SelectedNode,
		SelectedEdge: s.SelectedEdge,
	}
	for i := range s.Nodes {
		out.Nodes[i] = toNodeJSON(s.Nodes[i])
	}
	for i := range s.Edges {
		out.Edges[i] = toEdgeJSON(s.Edges[i])
	}
	return out
}

func toNodeJSON(n layout.Node) NodeJSON {
	return NodeJSON{
		ID:     n.ID,
		Type:   n.Type,
		Label:  n.DisplayLabel(),
		X:      n.X,
		Y:      n.Y,
		VX:     n.VX,
		VY:     n.VY,
		Radius: n.Radius,
		Color:  n.Color,
		Fixed:  n.Fixed,
	}
}

func toEdgeJSON(e layout.Edge) EdgeJSON {
	src, tgt := e.Key()
	return EdgeJSON{
		Source:   src,
		Target:   tgt,
		Weight:   e.Weight,
		Relation: e.Relation,
	}
}
