// Package graph provides the input and serialization types for knowledge graphs
// and their computed layouts.
//
// This package defines the canonical wire format for kgforce's graph data,
// used for graph files, API payloads, caching, and renderer interoperability.
//
// # Architecture
//
// The package sits at the serialization boundary between external formats and
// the layout engine:
//
//   - [Graph], [Node], [Edge]: immutable input graph (this package)
//   - pkg/layout.State: mutable per-node layout state derived from a Graph
//   - [Layout]: a positioned snapshot, exported after a simulation run
//
// # Graph Files
//
// Graphs use a simple node-link format, as JSON or YAML:
//
//	{
//	  "nodes": [{"id": "qi-deficiency", "type": "constitution"}, {"id": "fatigue", "type": "symptom"}],
//	  "edges": [{"source": "qi-deficiency", "target": "fatigue", "relation": "manifests_as"}]
//	}
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("kg.yaml")     // File → Graph (by extension)
//	graph.WriteGraphFile(g, "kg.json")          // Graph → File
//	parsed, _ := graph.UnmarshalGraph(data)     // []byte → Graph
//
// # Node Types
//
// Node types name the domain category of a node (constitution, symptom, herb,
// syndrome, acupoint, ...). Unknown types are legal; they are rendered with
// the default visuals.
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
