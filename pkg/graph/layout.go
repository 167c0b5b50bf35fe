package graph

import (
	"encoding/json"
	"fmt"
	"os"
)

// =============================================================================
// Layout - Positioned Snapshot
// =============================================================================

// Layout is the serialization format for a computed layout.
//
// It is a frozen copy of the engine's snapshot: every node carries its
// position and visuals, edges reference nodes by ID. Renderers that do not
// run the simulation themselves (Graphviz export, static SVG) consume this.
type Layout struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// Simulation metadata
	Frames  uint64  `json:"frames"`
	Energy  float64 `json:"energy"`
	Settled bool    `json:"settled,omitempty"`

	Nodes []PositionedNode `json:"nodes"`
	Edges []Edge           `json:"edges"`

	// Dropped counts input edges discarded because an endpoint was missing.
	Dropped int `json:"dropped,omitempty"`
}

// PositionedNode is a Node with its computed position and visuals.
type PositionedNode struct {
	Node
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Color  string  `json:"color"`
}

// NodeByID returns the positioned node with the given ID.
func (l *Layout) NodeByID(id string) (PositionedNode, bool) {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return PositionedNode{}, false
}

// Graph returns the input graph the layout was computed from, minus any
// dropped edges and duplicate nodes.
func (l *Layout) Graph() Graph {
	g := Graph{
		Nodes: make([]Node, len(l.Nodes)),
		Edges: make([]Edge, len(l.Edges)),
	}
	for i, n := range l.Nodes {
		g.Nodes[i] = n.Node
	}
	copy(g.Edges, l.Edges)
	return g
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// Every edge must reference nodes present in the layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}

	ids := make(map[string]struct{}, len(l.Nodes))
	for _, n := range l.Nodes {
		ids[n.ID] = struct{}{}
	}
	for _, e := range l.Edges {
		if _, ok := ids[e.Source]; !ok {
			return Layout{}, fmt.Errorf("layout edge references unknown node %q", e.Source)
		}
		if _, ok := ids[e.Target]; !ok {
			return Layout{}, fmt.Errorf("layout edge references unknown node %q", e.Target)
		}
	}

	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
