// Package pkg provides the core libraries for kgforce knowledge graph layout.
//
// # Overview
//
// kgforce positions the nodes of a typed knowledge graph with a
// force-directed simulation: edges act as springs, nodes repel each other,
// and a weak pull keeps the graph on the canvas. The pkg directory is
// organized into these areas:
//
//  1. [graph] - Input graph and frozen layout serialization (JSON, YAML)
//  2. [layout] - Per-node simulation state and type-based visuals
//  3. [force] - The physics step and the frame-driven simulation engine
//  4. [pipeline] - Headless orchestration (load, simulate, render) with caching
//  5. [render] - Static artifacts (Graphviz DOT, SVG, PNG)
//  6. [server] - HTTP control surface and WebSocket snapshot stream
//  7. [cache], [errors], [observability], [metrics] - Supporting infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	graph.json / graph.yaml
//	         ↓
//	    [graph] package (decode)
//	         ↓
//	    [layout] package (build node state, drop dangling edges)
//	         ↓
//	    [force] package (simulate frames)
//	         ↓
//	    live snapshots ([server]) or a frozen [graph.Layout] ([render])
//
// # Quick Start
//
// Simulate a graph headlessly and render it:
//
//	g, _ := pipeline.LoadGraph("kg.json")
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(ctx, g, pipeline.Options{
//	    Steps:   300,
//	    Formats: []string{pipeline.FormatSVG},
//	})
//
// Or drive the engine directly from your own frame loop:
//
//	e := force.New(nil)
//	e.SetGraph(g, layout.Viewport{Width: 800, Height: 600})
//	e.Start()
//	snap := e.Snapshot()
//
// [graph]: github.com/matzehuels/kgforce/pkg/graph
// [graph.Layout]: github.com/matzehuels/kgforce/pkg/graph
// [layout]: github.com/matzehuels/kgforce/pkg/layout
// [force]: github.com/matzehuels/kgforce/pkg/force
// [pipeline]: github.com/matzehuels/kgforce/pkg/pipeline
// [render]: github.com/matzehuels/kgforce/pkg/render
// [server]: github.com/matzehuels/kgforce/pkg/server
// [cache]: github.com/matzehuels/kgforce/pkg/cache
// [errors]: github.com/matzehuels/kgforce/pkg/errors
// [observability]: github.com/matzehuels/kgforce/pkg/observability
// [metrics]: github.com/matzehuels/kgforce/pkg/metrics
package pkg
