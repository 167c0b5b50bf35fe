package graph

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleGraph() Graph {
	return Graph{
		Nodes: []Node{
			{ID: "A", Type: TypeSymptom, Label: "Fatigue", Properties: map[string]any{"severity": "mild"}},
			{ID: "B", Type: TypeHerb},
			{ID: "C", Type: TypeHerb},
		},
		Edges: []Edge{
			{Source: "A", Target: "B", Relation: RelTreats},
			{Source: "A", Target: "C", Weight: 2},
			{Source: "A", Target: "Z"},
		},
	}
}

func TestGraphRoundTripFiles(t *testing.T) {
	tests := []struct {
		name string
		file string
	}{
		{"JSON", "kg.json"},
		{"YAML", "kg.yaml"},
		{"YML", "kg.yml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := WriteGraphFile(sampleGraph(), path); err != nil {
				t.Fatalf("WriteGraphFile: %v", err)
			}
			got, err := ReadGraphFile(path)
			if err != nil {
				t.Fatalf("ReadGraphFile: %v", err)
			}
			if got.NodeCount() != 3 || got.EdgeCount() != 3 {
				t.Fatalf("got %d nodes, %d edges; want 3, 3", got.NodeCount(), got.EdgeCount())
			}
			if got.Nodes[0].Label != "Fatigue" {
				t.Errorf("label = %q, want Fatigue", got.Nodes[0].Label)
			}
			if got.Nodes[0].Properties["severity"] != "mild" {
				t.Errorf("severity = %v, want mild", got.Nodes[0].Properties["severity"])
			}
			if got.Edges[1].Weight != 2 {
				t.Errorf("weight = %v, want 2", got.Edges[1].Weight)
			}
			if got.Edges[0].Relation != RelTreats {
				t.Errorf("relation = %q, want %q", got.Edges[0].Relation, RelTreats)
			}
		})
	}
}

func TestReadGraphFileErrors(t *testing.T) {
	if _, err := ReadGraphFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file should fail")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{nodes: ["), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadGraphFile(path); err == nil {
		t.Error("malformed JSON should fail")
	}
}

func TestReadGraphFileEmptyYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	g, err := ReadGraphFile(path)
	if err != nil {
		t.Fatalf("empty YAML should decode to an empty graph: %v", err)
	}
	if g.NodeCount() != 0 {
		t.Errorf("NodeCount = %d, want 0", g.NodeCount())
	}
}

func TestWriteGraphOmitsEmptyFields(t *testing.T) {
	var buf bytes.Buffer
	g := Graph{Nodes: []Node{{ID: "x"}}, Edges: []Edge{}}
	if err := WriteGraph(g, &buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, field := range []string{"label", "properties", "type"} {
		if strings.Contains(out, field) {
			t.Errorf("output should omit empty %q: %s", field, out)
		}
	}
}

func TestDisplayLabel(t *testing.T) {
	n := Node{ID: "ren-shen"}
	if n.DisplayLabel() != "ren-shen" {
		t.Errorf("DisplayLabel = %q, want ID fallback", n.DisplayLabel())
	}
	n.Label = "Ginseng"
	if n.DisplayLabel() != "Ginseng" {
		t.Errorf("DisplayLabel = %q, want Ginseng", n.DisplayLabel())
	}
}

func TestClone(t *testing.T) {
	g := sampleGraph()
	c := g.Clone()
	c.Nodes[0].Properties["severity"] = "severe"
	c.Edges[0].Target = "C"
	if g.Nodes[0].Properties["severity"] != "mild" {
		t.Error("Clone should not share property maps")
	}
	if g.Edges[0].Target != "B" {
		t.Error("Clone should not share edge slices")
	}
}

func TestUnmarshalLayout(t *testing.T) {
	valid := `{"width":400,"height":400,"frames":10,"energy":0.5,
		"nodes":[{"id":"A","x":1,"y":2,"radius":10,"color":"#fff"},{"id":"B","x":3,"y":4,"radius":8,"color":"#000"}],
		"edges":[{"source":"A","target":"B"}]}`
	l, err := UnmarshalLayout([]byte(valid))
	if err != nil {
		t.Fatalf("UnmarshalLayout: %v", err)
	}
	if n, ok := l.NodeByID("B"); !ok || n.X != 3 || n.Radius != 8 {
		t.Errorf("NodeByID(B) = %+v, %v", n, ok)
	}
	if g := l.Graph(); g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Errorf("Graph() = %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
	}

	dangling := `{"nodes":[{"id":"A"}],"edges":[{"source":"A","target":"Z"}]}`
	if _, err := UnmarshalLayout([]byte(dangling)); err == nil {
		t.Error("edge to unknown node should fail")
	}

	if _, err := UnmarshalLayout([]byte("not json")); err == nil {
		t.Error("invalid JSON should fail")
	}
}

func TestLayoutFileRoundTrip(t *testing.T) {
	l := Layout{
		Width:  200,
		Height: 100,
		Frames: 3,
		Nodes: []PositionedNode{
			{Node: Node{ID: "A", Type: TypeSyndrome}, X: 50, Y: 50, Radius: 14, Color: "#FECA57"},
		},
	}
	path := filepath.Join(t.TempDir(), "out.layout.json")
	if err := WriteLayoutFile(l, path); err != nil {
		t.Fatal(err)
	}
	got, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Nodes[0].Type != TypeSyndrome || got.Nodes[0].X != 50 || got.Frames != 3 {
		t.Errorf("round trip mismatch: %+v", got)
	}
}
