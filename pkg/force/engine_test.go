package force

import (
	"math"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/matzehuels/kgforce/pkg/graph"
	"github.com/matzehuels/kgforce/pkg/layout"
	"github.com/matzehuels/kgforce/pkg/observability"
)

// staleScheduler never cancels, so frames requested before a Stop still run.
type staleScheduler struct{ *ManualScheduler }

func (staleScheduler) CancelFrame(FrameID) {}

// limitScheduler accepts left requests and then behaves like a closed scheduler.
type limitScheduler struct {
	*ManualScheduler
	left int
}

func (l *limitScheduler) RequestFrame(fn FrameFunc) FrameID {
	if l.left == 0 {
		return 0
	}
	l.left--
	return l.ManualScheduler.RequestFrame(fn)
}

func newEngine(t *testing.T, g graph.Graph, opts ...Option) (*Engine, *ManualScheduler) {
	t.Helper()
	m := NewManualScheduler()
	e := New(m, opts...)
	e.SetGraph(g, square)
	return e, m
}

func positions(s Snapshot) map[string][2]float64 {
	out := make(map[string][2]float64, len(s.Nodes))
	for _, n := range s.Nodes {
		out[n.ID] = [2]float64{n.X, n.Y}
	}
	return out
}

func samePositions(a, b map[string][2]float64) bool {
	if len(a) != len(b) {
		return false
	}
	for id, p := range a {
		if b[id] != p {
			return false
		}
	}
	return true
}

func TestEngineStartIsIdempotent(t *testing.T) {
	e, m := newEngine(t, scenarioGraph())
	e.Start()
	e.Start()

	if !e.Running() {
		t.Fatal("engine not running after Start")
	}
	if m.Pending() != 1 {
		t.Fatalf("Pending = %d after double Start, want exactly one frame", m.Pending())
	}
	m.Advance(10)
	if e.Frames() != 10 {
		t.Errorf("Frames = %d, want 10", e.Frames())
	}
	if m.Pending() != 1 {
		t.Errorf("Pending = %d, want 1", m.Pending())
	}
}

func TestEngineStopIsIdempotent(t *testing.T) {
	e, m := newEngine(t, scenarioGraph())
	e.Stop() // idle

	e.Start()
	m.Advance(5)
	e.Stop()
	before := positions(e.Snapshot())
	e.Stop()

	if e.Running() {
		t.Fatal("engine running after Stop")
	}
	if n := m.Advance(10); n != 0 {
		t.Errorf("%d frames ran after Stop", n)
	}
	if !samePositions(before, positions(e.Snapshot())) {
		t.Error("positions changed after Stop")
	}
}

func TestEngineIgnoresStaleFrames(t *testing.T) {
	m := NewManualScheduler()
	e := New(staleScheduler{m})
	e.SetGraph(scenarioGraph(), square)

	e.Start()
	e.Stop()
	e.Start()
	if m.Pending() != 2 {
		t.Fatalf("Pending = %d, want the stale frame and the live one", m.Pending())
	}

	m.Advance(2)
	if e.Frames() != 1 {
		t.Errorf("Frames = %d, want 1: the stale frame must not step", e.Frames())
	}
	if m.Pending() != 1 {
		t.Errorf("Pending = %d, want one active loop", m.Pending())
	}

	e.Stop()
	m.Advance(5)
	if e.Frames() != 1 {
		t.Errorf("Frames = %d after Stop, want 1", e.Frames())
	}
}

func TestEngineResumesFromLastPositions(t *testing.T) {
	e, m := newEngine(t, scenarioGraph())
	initial := positions(e.Snapshot())

	e.Start()
	m.Advance(50)
	e.Stop()
	paused := positions(e.Snapshot())
	if samePositions(initial, paused) {
		t.Fatal("simulation did not move any node")
	}

	e.Start()
	m.Advance(1)
	resumed := e.Snapshot()
	if resumed.Frame != 51 {
		t.Errorf("Frame = %d after resume, want 51", resumed.Frame)
	}
	for id, p := range positions(resumed) {
		if math.Hypot(p[0]-paused[id][0], p[1]-paused[id][1]) > 20 {
			t.Errorf("node %s jumped from %v to %v on resume", id, paused[id], p)
		}
	}
}

func TestEngineEmptyGraphNeverRuns(t *testing.T) {
	e, m := newEngine(t, graph.Graph{})
	e.Start()
	if e.Running() || m.Pending() != 0 {
		t.Error("engine with no nodes should stay idle")
	}
	if snap := e.Snapshot(); len(snap.Nodes) != 0 || snap.Running {
		t.Errorf("snapshot = %+v, want empty and idle", snap)
	}
}

func TestEngineSetGraphReinitializes(t *testing.T) {
	e, m := newEngine(t, scenarioGraph())
	e.SelectNode("A")
	e.Start()
	m.Advance(20)

	e.SetGraph(pairGraph(), square)
	if e.Running() {
		t.Error("SetGraph should stop the running loop")
	}
	if n := m.Advance(5); n != 0 {
		t.Errorf("%d frames of the old loop ran after SetGraph", n)
	}
	snap := e.Snapshot()
	if snap.Frame != 0 || len(snap.Nodes) != 2 || snap.SelectedNode != "" {
		t.Errorf("snapshot after SetGraph = frame %d, %d nodes, selected %q", snap.Frame, len(snap.Nodes), snap.SelectedNode)
	}
	fresh := New(NewManualScheduler())
	fresh.SetGraph(pairGraph(), square)
	if !samePositions(positions(fresh.Snapshot()), positions(snap)) {
		t.Error("SetGraph kept old positions instead of the initial circle")
	}
}

func TestEngineSnapshotIsolation(t *testing.T) {
	e, _ := newEngine(t, scenarioGraph())
	snap := e.Snapshot()

	if snap.Dropped != 1 || len(snap.Edges) != 2 {
		t.Fatalf("snapshot has %d edges, %d dropped; want 2, 1", len(snap.Edges), snap.Dropped)
	}
	for _, ed := range snap.Edges {
		src, ok := snap.Node(ed.Source.ID)
		if !ok || src != ed.Source {
			t.Errorf("edge source %s does not point into the snapshot", ed.Source.ID)
		}
	}

	snap.Nodes[0].X = -1000
	snap.Edges[0].Target.Y = -1000
	again := e.Snapshot()
	for _, n := range again.Nodes {
		if n.X == -1000 || n.Y == -1000 {
			t.Fatalf("mutating a snapshot changed engine node %s", n.ID)
		}
	}
}

func TestEngineSelection(t *testing.T) {
	var nodes []layout.Node
	var edges []layout.Edge
	e, _ := newEngine(t, scenarioGraph(),
		OnNodeSelected(func(n layout.Node) { nodes = append(nodes, n) }),
		OnEdgeSelected(func(ed layout.Edge) { edges = append(edges, ed) }),
	)

	if e.SelectNode("Z") {
		t.Error("SelectNode of an unknown id should report false")
	}
	if !e.SelectNode("B") || !e.SelectNode("B") {
		t.Fatal("SelectNode(B) = false")
	}
	if len(nodes) != 1 || nodes[0].ID != "B" || nodes[0].Type != graph.TypeHerb {
		t.Fatalf("node events = %+v, want one full node B", nodes)
	}

	if e.SelectEdge("A", "Z") {
		t.Error("SelectEdge of a dropped edge should report false")
	}
	if !e.SelectEdge("A", "C") {
		t.Fatal("SelectEdge(A, C) = false")
	}
	e.SelectEdge("A", "C")
	if len(edges) != 1 || edges[0].Source.ID != "A" || edges[0].Target.ID != "C" {
		t.Fatalf("edge events = %+v, want one edge A→C", edges)
	}
	snap := e.Snapshot()
	if snap.SelectedNode != "" || snap.SelectedEdge == nil || *snap.SelectedEdge != (EdgeKey{"A", "C"}) {
		t.Errorf("selection = %q / %v, want edge A→C only", snap.SelectedNode, snap.SelectedEdge)
	}

	edges[0].Source.X = -1000
	if n, _ := e.Snapshot().Node("A"); n.X == -1000 {
		t.Error("edge event aliases engine state")
	}

	// Re-selecting the node after an edge fires again.
	e.SelectNode("B")
	if len(nodes) != 2 {
		t.Errorf("node events = %d, want 2", len(nodes))
	}

	e.ClearSelection()
	if snap := e.Snapshot(); snap.SelectedNode != "" || snap.SelectedEdge != nil {
		t.Error("ClearSelection left a selection")
	}
	if len(nodes) != 2 || len(edges) != 1 {
		t.Error("ClearSelection fired a callback")
	}
}

func TestEngineSelectionDoesNotAffectPhysics(t *testing.T) {
	plain, pm := newEngine(t, scenarioGraph())
	selected, sm := newEngine(t, scenarioGraph())

	plain.Start()
	selected.Start()
	for i := range 30 {
		if i%3 == 0 {
			selected.SelectNode("A")
		} else {
			selected.SelectEdge("A", "B")
		}
		pm.Advance(1)
		sm.Advance(1)
	}
	if !samePositions(positions(plain.Snapshot()), positions(selected.Snapshot())) {
		t.Error("selection changed the simulation")
	}
}

func TestEngineCallbackMayReenter(t *testing.T) {
	var e *Engine
	called := false
	e, _ = newEngine(t, scenarioGraph(), OnNodeSelected(func(n layout.Node) {
		called = true
		_ = e.Snapshot()
		e.Stop()
	}))
	e.SelectNode("A")
	if !called {
		t.Fatal("callback not fired")
	}
}

func TestEngineDrag(t *testing.T) {
	e, m := newEngine(t, scenarioGraph())
	e.Start()

	if e.Drag("Z", 10, 10) {
		t.Error("Drag of an unknown node should report false")
	}
	if e.Drag("A", math.NaN(), 10) {
		t.Error("Drag to NaN should be ignored")
	}
	if !e.Drag("A", -50, 150) {
		t.Fatal("Drag(A) = false")
	}
	m.Advance(20)

	a, _ := e.Snapshot().Node("A")
	if a.X != a.Radius || a.Y != 150 || !a.Fixed {
		t.Errorf("dragged node at (%v, %v) fixed=%v, want (%v, 150) fixed", a.X, a.Y, a.Fixed, a.Radius)
	}

	if !e.Release("A") {
		t.Fatal("Release(A) = false")
	}
	m.Advance(20)
	a, _ = e.Snapshot().Node("A")
	if a.Fixed || (a.X == a.Radius && a.Y == 150) {
		t.Errorf("released node did not resume moving: %+v", a)
	}
}

func TestEngineSettles(t *testing.T) {
	p := DefaultParams()
	p.SettleEnergy = 0.01

	var settled []Snapshot
	e, m := newEngine(t, pairGraph(), WithParams(p), OnSettled(func(s Snapshot) {
		settled = append(settled, s)
	}))
	e.Start()

	ran := m.Advance(1000)
	if ran >= 1000 {
		t.Fatalf("engine ran %d frames without settling", ran)
	}
	if e.Running() {
		t.Error("engine still running after settling")
	}
	if len(settled) != 1 {
		t.Fatalf("OnSettled fired %d times, want 1", len(settled))
	}
	snap := settled[0]
	if !snap.Settled || snap.Running || snap.Energy >= p.SettleEnergy || snap.Frame != uint64(ran) {
		t.Errorf("settled snapshot = frame %d energy %v settled %v running %v", snap.Frame, snap.Energy, snap.Settled, snap.Running)
	}
}

func TestEngineRunsForeverByDefault(t *testing.T) {
	e, m := newEngine(t, pairGraph())
	e.Start()
	if ran := m.Advance(2000); ran != 2000 {
		t.Errorf("ran %d frames, want 2000", ran)
	}
	if !e.Running() {
		t.Error("engine stopped without SettleEnergy")
	}
}

type countingHooks struct {
	observability.NoopEngineHooks
	frames  atomic.Int64
	changes atomic.Int64
	selects atomic.Int64
	loaded  atomic.Int64
}

func (h *countingHooks) OnFrame(uint64, time.Duration, float64) { h.frames.Add(1) }
func (h *countingHooks) OnRunStateChange(bool)                  { h.changes.Add(1) }
func (h *countingHooks) OnSelect(string)                        { h.selects.Add(1) }
func (h *countingHooks) OnGraphLoaded(int, int, int)            { h.loaded.Add(1) }

func TestEngineEmitsHooks(t *testing.T) {
	h := &countingHooks{}
	observability.SetEngineHooks(h)
	defer observability.Reset()

	e, m := newEngine(t, scenarioGraph())
	e.Start()
	e.Start()
	m.Advance(7)
	e.SelectNode("A")
	e.SelectNode("A")
	e.Stop()
	e.Stop()

	if h.loaded.Load() != 1 || h.frames.Load() != 7 || h.changes.Load() != 2 || h.selects.Load() != 1 {
		t.Errorf("hooks: loaded=%d frames=%d changes=%d selects=%d; want 1 7 2 1",
			h.loaded.Load(), h.frames.Load(), h.changes.Load(), h.selects.Load())
	}
}

func TestEngineWithTickerScheduler(t *testing.T) {
	defer goleak.VerifyNone(t)

	e := New(nil)
	e.SetGraph(scenarioGraph(), square)
	e.Start()

	deadline := time.Now().Add(3 * time.Second)
	for e.Frames() < 5 {
		if time.Now().After(deadline) {
			t.Fatalf("only %d frames in 3s", e.Frames())
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}
	if e.Running() {
		t.Error("engine running after Close")
	}
	frames := e.Frames()
	time.Sleep(50 * time.Millisecond)
	if e.Frames() != frames {
		t.Error("frames kept running after Close")
	}
}

func TestEngineSnapshotNodeLookup(t *testing.T) {
	e, _ := newEngine(t, scenarioGraph())

	n, ok := e.Snapshot().Node("A")
	if !ok || n.ID != "A" {
		t.Fatalf("Node(A) = %v, %v", n, ok)
	}
	if _, ok := e.Snapshot().Node("Z"); ok {
		t.Error("Node(Z) found a node that was never loaded")
	}
	if l := e.Snapshot().Layout(); len(l.Nodes) != 3 {
		t.Errorf("layout has %d nodes, want 3", len(l.Nodes))
	}
}

func TestEngineStartAfterSchedulerClosed(t *testing.T) {
	defer goleak.VerifyNone(t)

	sched := NewTickerScheduler(60)
	if err := sched.Close(); err != nil {
		t.Fatal(err)
	}
	e := New(sched)
	e.SetGraph(scenarioGraph(), square)
	e.Start()

	if e.Running() {
		t.Error("engine running on a closed scheduler")
	}
	time.Sleep(50 * time.Millisecond)
	if e.Frames() != 0 {
		t.Errorf("frames = %d, want 0", e.Frames())
	}
}

func TestEngineStopsWhenSchedulerCloses(t *testing.T) {
	m := NewManualScheduler()
	e := New(&limitScheduler{ManualScheduler: m, left: 3})
	e.SetGraph(scenarioGraph(), square)
	e.Start()

	if got := m.Advance(10); got != 3 {
		t.Errorf("ran %d frames, want 3", got)
	}
	if e.Running() {
		t.Error("engine still running after the scheduler refused a frame")
	}
	if e.Frames() != 3 {
		t.Errorf("frames = %d, want 3", e.Frames())
	}
}
