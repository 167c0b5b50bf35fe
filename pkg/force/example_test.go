package force_test

import (
	"fmt"
	"math"

	"github.com/matzehuels/kgforce/pkg/force"
	"github.com/matzehuels/kgforce/pkg/graph"
	"github.com/matzehuels/kgforce/pkg/layout"
)

func ExampleEngine() {
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

	sched := force.NewManualScheduler()
	eng := force.New(sched, force.OnNodeSelected(func(n layout.Node) {
		fmt.Println("selected", n.ID, n.Type)
	}))
	eng.SetGraph(g, layout.Viewport{Width: 400, Height: 400})
	eng.Start()
	sched.Advance(200)
	eng.Stop()

	snap := eng.Snapshot()
	a, _ := snap.Node("A")
	b, _ := snap.Node("B")
	c, _ := snap.Node("C")
	dist := func(p, q *layout.Node) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

	fmt.Printf("frames=%d edges=%d dropped=%d\n", snap.Frame, len(snap.Edges), snap.Dropped)
	fmt.Printf("A-B %.0f  A-C %.0f  B-C %.0f\n", dist(a, b), dist(a, c), dist(b, c))
	eng.SelectNode("B")
	// Output:
	// frames=200 edges=2 dropped=1
	// A-B 100  A-C 100  B-C 200
	// selected B herb
}

func ExampleStep() {
	g := graph.Graph{
		Nodes: []graph.Node{{ID: "a"}, {ID: "b"}},
		Edges: []graph.Edge{{Source: "a", Target: "b"}},
	}
	s := layout.Build(g, layout.Viewport{Width: 400, Height: 400})

	p := force.DefaultParams()
	for range 1000 {
		force.Step(s, p)
	}
	fmt.Printf("%.0f\n", math.Hypot(s.Nodes[0].X-s.Nodes[1].X, s.Nodes[0].Y-s.Nodes[1].Y))
	// Output:
	// 100
}
