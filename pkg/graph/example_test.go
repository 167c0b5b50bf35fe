package graph_test

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/kgforce/pkg/graph"
)

func ExampleWriteGraph() {
	g := graph.Graph{
		Nodes: []graph.Node{
			{ID: "qi-deficiency", Type: graph.TypeConstitution},
			{ID: "fatigue", Type: graph.TypeSymptom},
		},
		Edges: []graph.Edge{
			{Source: "qi-deficiency", Target: "fatigue", Relation: graph.RelManifestsAs},
		},
	}

	var buf bytes.Buffer
	if err := graph.WriteGraph(g, &buf); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Print(buf.String())
	// Output:
	// {
	//   "nodes": [
	//     {
	//       "id": "qi-deficiency",
	//       "type": "constitution"
	//     },
	//     {
	//       "id": "fatigue",
	//       "type": "symptom"
	//     }
	//   ],
	//   "edges": [
	//     {
	//       "source": "qi-deficiency",
	//       "target": "fatigue",
	//       "relation": "manifests_as"
	//     }
	//   ]
	// }
}

func ExampleUnmarshalGraph() {
	data := []byte(`{"nodes":[{"id":"ginseng","type":"herb","label":"Ren Shen"}],"edges":[]}`)
	g, err := graph.UnmarshalGraph(data)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println(g.Nodes[0].DisplayLabel(), g.Nodes[0].Type)
	// Output:
	// Ren Shen herb
}
