// Package force implements the force simulation that positions a
// knowledge graph for display.
//
// # Overview
//
// A [layout.State] built by [layout.Build] is advanced one frame at a time
// by [Step], a pure function of the state and a set of [Params]. Each frame
// applies, in order:
//
//  1. Velocity decay (damping)
//  2. Link springs along every edge toward [Params.LinkDistance]
//  3. Pairwise repulsion between all nodes (O(n²))
//  4. Centering toward the viewport midpoint
//  5. Integration of velocity into position, scaled by [Params.Alpha]
//  6. Boundary clamp to [radius, dimension−radius] on both axes
//
// All forces are computed from the positions at the start of the frame, so
// the order in which nodes are visited never changes the result.
//
// # Engine
//
// [Engine] owns one state and drives [Step] from a [Scheduler]. It exposes
// the control surface a renderer needs:
//
//	eng := force.New(force.NewTickerScheduler(60),
//	    force.OnNodeSelected(func(n layout.Node) { showDetail(n) }),
//	)
//	eng.SetGraph(g, layout.Viewport{Width: 800, Height: 600})
//	eng.Start()
//	defer eng.Stop()
//
//	snap := eng.Snapshot() // safe to call every frame
//
// Start and Stop are idempotent. Stopping keeps the last positions, so a
// later Start resumes where the simulation left off. [Engine.SetGraph]
// discards the old positions entirely.
//
// # Scheduling
//
// The engine never sleeps or spawns goroutines itself. [TickerScheduler]
// runs frames from timers at a fixed rate for interactive use.
// [ManualScheduler] queues frames until [ManualScheduler.Advance] is called,
// which makes headless layout and tests deterministic.
//
// # Termination
//
// By default the simulation runs until stopped. Setting
// [Params.SettleEnergy] makes the engine stop itself once the kinetic energy
// of a frame drops below the threshold.
package force
