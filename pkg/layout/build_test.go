package layout

import (
	"fmt"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/matzehuels/kgforce/pkg/graph"
)

func nodesN(n int) []graph.Node {
	out := make([]graph.Node, n)
	for i := range out {
		out[i] = graph.Node{ID: fmt.Sprintf("n%d", i), Type: graph.TypeHerb}
	}
	return out
}

func TestBuildScenario(t *testing.T) {
	g := graph.Graph{
		Nodes: []graph.Node{
			{ID: "A", Type: graph.TypeSymptom},
			{ID: "B", Type: graph.TypeHerb},
			{ID: "C", Type: graph.TypeHerb},
		},
		Edges: []graph.Edge{
			{Source: "A", Target: "B"},
			{Source: "A", Target: "C"},
			{Source: "A", Target: "Z"},
		},
	}
	s := Build(g, Viewport{Width: 400, Height: 400})

	if s.Len() != 3 {
		t.Fatalf("Len = %d, want 3", s.Len())
	}
	if len(s.Edges) != 2 {
		t.Fatalf("edges = %d, want 2", len(s.Edges))
	}
	if s.Dropped != 1 {
		t.Errorf("Dropped = %d, want 1", s.Dropped)
	}
	if _, ok := s.Edge("A", "Z"); ok {
		t.Error("dangling edge A→Z should be dropped")
	}
	for _, e := range s.Edges {
		if n, ok := s.Node(e.Source.ID); !ok || n != e.Source {
			t.Errorf("edge source %q is not an element of the node set", e.Source.ID)
		}
		if n, ok := s.Node(e.Target.ID); !ok || n != e.Target {
			t.Errorf("edge target %q is not an element of the node set", e.Target.ID)
		}
	}
}

func TestBuildCircularPlacement(t *testing.T) {
	vp := Viewport{Width: 400, Height: 300}
	s := Build(graph.Graph{Nodes: nodesN(4)}, vp)

	want := [][2]float64{
		{200 + 90, 150},
		{200, 150 + 90},
		{200 - 90, 150},
		{200, 150 - 90},
	}
	for i, n := range s.Nodes {
		if math.Abs(n.X-want[i][0]) > 1e-9 || math.Abs(n.Y-want[i][1]) > 1e-9 {
			t.Errorf("node %d at (%v, %v), want %v", i, n.X, n.Y, want[i])
		}
		if n.VX != 0 || n.VY != 0 {
			t.Errorf("node %d velocity = (%v, %v), want zero", i, n.VX, n.VY)
		}
	}
}

func TestBuildEmpty(t *testing.T) {
	s := Build(graph.Graph{Edges: []graph.Edge{{Source: "a", Target: "b"}}}, Viewport{Width: 100, Height: 100})
	if !s.Empty() {
		t.Error("graph without nodes should produce an empty layout")
	}
	if len(s.Edges) != 0 || s.Dropped != 1 {
		t.Errorf("edges = %d, dropped = %d; want 0, 1", len(s.Edges), s.Dropped)
	}
}

func TestBuildDuplicateIDsLastWriteWins(t *testing.T) {
	g := graph.Graph{
		Nodes: []graph.Node{
			{ID: "a", Type: graph.TypeHerb, Label: "first"},
			{ID: "b"},
			{ID: "a", Type: graph.TypeConstitution, Label: "second"},
		},
		Edges: []graph.Edge{{Source: "a", Target: "b"}},
	}
	s := Build(g, Viewport{Width: 200, Height: 200})

	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
	a, _ := s.Node("a")
	if a.Label != "second" || a.Type != graph.TypeConstitution {
		t.Errorf("node a = %+v, want the later definition", a.Node)
	}
	if s.Nodes[0] != a {
		t.Error("duplicate should keep the slot of its first occurrence")
	}
	if a.Radius != RadiusFor(graph.TypeConstitution) {
		t.Errorf("radius = %v, want constitution radius", a.Radius)
	}
}

func TestBuildInvalidViewport(t *testing.T) {
	for _, vp := range []Viewport{{0, 0}, {-10, 50}, {math.NaN(), 100}} {
		s := Build(graph.Graph{Nodes: nodesN(3)}, vp)
		for i, a := range s.Nodes {
			if math.IsNaN(a.X) || math.IsNaN(a.Y) {
				t.Fatalf("viewport %v: node %d has NaN position", vp, i)
			}
			for _, b := range s.Nodes[i+1:] {
				if a.X == b.X && a.Y == b.Y {
					t.Errorf("viewport %v: nodes %s and %s coincide", vp, a.ID, b.ID)
				}
			}
		}
	}
}

func TestBuildNormalizesWeights(t *testing.T) {
	g := graph.Graph{
		Nodes: nodesN(2),
		Edges: []graph.Edge{
			{Source: "n0", Target: "n1"},
			{Source: "n0", Target: "n1", Weight: -3},
			{Source: "n0", Target: "n1", Weight: math.Inf(1)},
			{Source: "n0", Target: "n1", Weight: 2.5, Relation: graph.RelTreats},
		},
	}
	s := Build(g, Viewport{Width: 100, Height: 100})
	want := []float64{1, 1, 1, 2.5}
	for i, e := range s.Edges {
		if e.Weight != want[i] {
			t.Errorf("edge %d weight = %v, want %v", i, e.Weight, want[i])
		}
	}
	if s.Edges[3].Relation != graph.RelTreats {
		t.Errorf("relation = %q, want %q", s.Edges[3].Relation, graph.RelTreats)
	}
}

func TestVisuals(t *testing.T) {
	tests := []struct {
		nodeType   string
		wantRadius float64
		wantColor  string
	}{
		{graph.TypeConstitution, 15, "#FF6B6B"},
		{graph.TypeSyndrome, 14, "#FECA57"},
		{graph.TypeSymptom, 10, "#4ECDC4"},
		{graph.TypeHerb, 8, "#96CEB4"},
		{graph.TypeAcupoint, 8, "#45B7D1"},
		{"unknown", BaseRadius, DefaultColor},
		{"", BaseRadius, DefaultColor},
	}
	for _, tt := range tests {
		if got := RadiusFor(tt.nodeType); math.Abs(got-tt.wantRadius) > 1e-9 {
			t.Errorf("RadiusFor(%q) = %v, want %v", tt.nodeType, got, tt.wantRadius)
		}
		if got := ColorFor(tt.nodeType); got != tt.wantColor {
			t.Errorf("ColorFor(%q) = %q, want %q", tt.nodeType, got, tt.wantColor)
		}
	}
	if RadiusFor(graph.TypeConstitution) <= RadiusFor(graph.TypeAcupoint) {
		t.Error("constitution nodes should render larger than acupoint nodes")
	}
}

func TestInitialPlacementProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("nodes start within 0.3·min(w,h) of the center and never coincide", prop.ForAll(
		func(n int, w, h float64) bool {
			vp := Viewport{Width: w, Height: h}
			s := Build(graph.Graph{Nodes: nodesN(n)}, vp)
			cx, cy := vp.Center()
			limit := 0.3*math.Min(w, h) + 1e-9
			for i, a := range s.Nodes {
				if math.Hypot(a.X-cx, a.Y-cy) > limit {
					return false
				}
				for _, b := range s.Nodes[i+1:] {
					if a.X == b.X && a.Y == b.Y {
						return false
					}
				}
			}
			return s.Len() == n
		},
		gen.IntRange(1, 60),
		gen.Float64Range(50, 2000),
		gen.Float64Range(50, 2000),
	))

	properties.TestingRun(t)
}
