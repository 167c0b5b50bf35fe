package graph

import (
	"encoding/json"
	"maps"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Node types of the health knowledge graph.
const (
	TypeConstitution = "constitution"
	TypeSymptom      = "symptom"
	TypeSyndrome     = "syndrome"
	TypeHerb         = "herb"
	TypeFormula      = "formula"
	TypeAcupoint     = "acupoint"
	TypeMeridian     = "meridian"
	TypeOrgan        = "organ"
	TypePathology    = "pathology"
	TypeTreatment    = "treatment"
	TypeDisease      = "disease"
)

// Relation kinds carried on edges.
const (
	RelTreats           = "treats"
	RelCauses           = "causes"
	RelContains         = "contains"
	RelBelongsTo        = "belongs_to"
	RelSimilarTo        = "similar_to"
	RelOppositeTo       = "opposite_to"
	RelEnhances         = "enhances"
	RelInhibits         = "inhibits"
	RelTransformsTo     = "transforms_to"
	RelLocatedIn        = "located_in"
	RelManifestsAs      = "manifests_as"
	RelCompatibleWith   = "compatible_with"
	RelIncompatibleWith = "incompatible_with"
)

// NodeTypes lists the recognized node types in display order.
var NodeTypes = []string{
	TypeConstitution,
	TypeSyndrome,
	TypeDisease,
	TypeFormula,
	TypeTreatment,
	TypeSymptom,
	TypeOrgan,
	TypeMeridian,
	TypePathology,
	TypeHerb,
	TypeAcupoint,
}

// =============================================================================
// Graph - Knowledge Graph Input
// =============================================================================

// Graph is the input format for the layout engine.
//
// A Graph is treated as an immutable value: handing a new Graph to the engine
// replaces the previous one entirely.
type Graph struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

// Node is a typed knowledge graph entity. Identity is by ID.
type Node struct {
	ID         string         `json:"id" yaml:"id"`
	Type       string         `json:"type,omitempty" yaml:"type,omitempty"`
	Label      string         `json:"label,omitempty" yaml:"label,omitempty"` // Display label (defaults to ID)
	Properties map[string]any `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is a directed relation between two nodes by ID.
// Weight is optional; zero means unweighted.
type Edge struct {
	Source   string  `json:"source" yaml:"source"`
	Target   string  `json:"target" yaml:"target"`
	Weight   float64 `json:"weight,omitempty" yaml:"weight,omitempty"`
	Relation string  `json:"relation,omitempty" yaml:"relation,omitempty"`
}

// NodeCount returns the number of input nodes, duplicates included.
func (g Graph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of input edges, dangling ones included.
func (g Graph) EdgeCount() int { return len(g.Edges) }

// Clone returns a copy of g that shares no slices or property maps with it.
func (g Graph) Clone() Graph {
	out := Graph{
		Nodes: make([]Node, len(g.Nodes)),
		Edges: make([]Edge, len(g.Edges)),
	}
	for i, n := range g.Nodes {
		n.Properties = copyProps(n.Properties)
		out.Nodes[i] = n
	}
	copy(out.Edges, g.Edges)
	return out
}

// UnmarshalGraph deserializes JSON bytes to a Graph.
func UnmarshalGraph(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, err
	}
	return g, nil
}

// copyProps creates a shallow copy of properties to avoid mutation.
func copyProps(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	return maps.Clone(m)
}
