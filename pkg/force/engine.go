package force

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kgforce/pkg/graph"
	"github.com/matzehuels/kgforce/pkg/layout"
	"github.com/matzehuels/kgforce/pkg/observability"
)

// Engine runs the simulation for one graph at a time.
//
// The state machine is Idle → Running → Idle. Start while running and Stop
// while idle are no-ops. Only one frame is ever outstanding: each frame
// requests the next one when it finishes, and Stop cancels the pending
// request. A frame already in progress when Stop is called completes but
// does not request another.
//
// All methods are safe for concurrent use. Callbacks run on the caller's
// goroutine after the engine's lock has been released, so they may call
// back into the engine.
type Engine struct {
	mu     sync.Mutex
	sched  Scheduler
	owned  *TickerScheduler
	params Params
	logger *log.Logger

	state   *layout.State
	running bool
	settled bool
	frame   FrameID
	gen     uint64
	frames  uint64
	last    StepStats

	selNode string
	selEdge *EdgeKey

	onNode    func(layout.Node)
	onEdge    func(layout.Edge)
	onSettled func(Snapshot)
}

// Option configures an [Engine].
type Option func(*Engine)

// WithParams sets the physical constants. The zero Params means
// [DefaultParams].
func WithParams(p Params) Option {
	return func(e *Engine) {
		if !p.IsZero() {
			e.params = p
		}
	}
}

// WithLogger sets the logger for lifecycle messages. The default discards.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// OnNodeSelected registers the callback fired when the selected node changes.
// The callback receives a copy of the node.
func OnNodeSelected(fn func(layout.Node)) Option {
	return func(e *Engine) { e.onNode = fn }
}

// OnEdgeSelected registers the callback fired when the selected edge changes.
// The edge's endpoints are copies and do not alias engine state.
func OnEdgeSelected(fn func(layout.Edge)) Option {
	return func(e *Engine) { e.onEdge = fn }
}

// OnSettled registers the callback fired when the engine stops itself
// because [Params.SettleEnergy] was reached.
func OnSettled(fn func(Snapshot)) Option {
	return func(e *Engine) { e.onSettled = fn }
}

// New returns an idle engine with an empty graph. A nil scheduler means a
// [TickerScheduler] at [DefaultFrameRate], owned and closed by the engine.
func New(sched Scheduler, opts ...Option) *Engine {
	e := &Engine{
		sched:  sched,
		params: DefaultParams(),
		logger: log.New(io.Discard),
		state:  layout.Build(graph.Graph{}, layout.Viewport{}),
	}
	if sched == nil {
		e.owned = NewTickerScheduler(DefaultFrameRate)
		e.sched = e.owned
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Params returns the engine's physical constants.
func (e *Engine) Params() Params {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.params
}

// SetParams replaces the physical constants. The zero Params is ignored.
// The change applies from the next frame on.
func (e *Engine) SetParams(p Params) {
	if p.IsZero() {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.params = p
}

// SetGraph stops the simulation and replaces the layout with a fresh one
// built from g. Old positions and the selection are discarded. It does not
// start the new simulation.
func (e *Engine) SetGraph(g graph.Graph, vp layout.Viewport) {
	s := layout.Build(g, vp)

	e.mu.Lock()
	wasRunning := e.stopLocked()
	e.state = s
	e.frames = 0
	e.last = StepStats{}
	e.settled = false
	e.selNode, e.selEdge = "", nil
	e.mu.Unlock()

	e.logger.Debug("graph loaded", "nodes", s.Len(), "edges", len(s.Edges), "dropped", s.Dropped)
	if s.Dropped > 0 {
		e.logger.Warn("dropped edges with unknown endpoints", "count", s.Dropped)
	}
	hooks := observability.Engine()
	if wasRunning {
		hooks.OnRunStateChange(false)
	}
	hooks.OnGraphLoaded(s.Len(), len(s.Edges), s.Dropped)
}

// Start begins or resumes the frame loop. It is a no-op when already running
// or when the graph has no nodes. On a closed scheduler the engine stays idle.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running || e.state.Empty() {
		e.mu.Unlock()
		return
	}
	e.gen++
	e.frame = e.request(e.gen)
	frames := e.frames
	if e.frame == 0 {
		// The scheduler is closed; invalidate anything it may still run.
		e.gen++
		e.mu.Unlock()
		e.logger.Debug("scheduler closed, simulation not started", "frame", frames)
		return
	}
	e.running = true
	e.settled = false
	e.mu.Unlock()

	e.logger.Debug("simulation started", "frame", frames)
	observability.Engine().OnRunStateChange(true)
}

// Stop cancels the pending frame. Positions are kept. It is a no-op when idle.
func (e *Engine) Stop() {
	e.mu.Lock()
	stopped := e.stopLocked()
	frames := e.frames
	e.mu.Unlock()

	if stopped {
		e.logger.Debug("simulation stopped", "frame", frames)
		observability.Engine().OnRunStateChange(false)
	}
}

// Close stops the engine and releases a scheduler it created itself.
func (e *Engine) Close() error {
	e.Stop()
	if e.owned != nil {
		return e.owned.Close()
	}
	return nil
}

// stopLocked reports whether the engine was running.
func (e *Engine) stopLocked() bool {
	if !e.running {
		return false
	}
	e.running = false
	e.gen++
	if e.frame != 0 {
		e.sched.CancelFrame(e.frame)
		e.frame = 0
	}
	return true
}

func (e *Engine) request(gen uint64) FrameID {
	return e.sched.RequestFrame(func(time.Time) { e.tick(gen) })
}

// tick runs one frame for the loop generation gen. Frames from an earlier
// generation were requested before a Stop and are ignored.
func (e *Engine) tick(gen uint64) {
	e.mu.Lock()
	if !e.running || gen != e.gen {
		e.mu.Unlock()
		return
	}
	began := time.Now()
	stats := Step(e.state, e.params)
	e.frames++
	e.last = stats
	frames := e.frames

	settled := e.params.SettleEnergy > 0 && stats.Energy < e.params.SettleEnergy
	halted := false
	var snap Snapshot
	if settled {
		e.running = false
		e.settled = true
		e.gen++
		e.frame = 0
		snap = e.snapshotLocked()
	} else if e.frame = e.request(gen); e.frame == 0 {
		e.running = false
		e.gen++
		halted = true
	}
	onSettled := e.onSettled
	e.mu.Unlock()

	hooks := observability.Engine()
	hooks.OnFrame(frames, time.Since(began), stats.Energy)
	if settled {
		e.logger.Debug("simulation settled", "frame", frames, "energy", stats.Energy)
		hooks.OnSettled(frames)
		hooks.OnRunStateChange(false)
		if onSettled != nil {
			onSettled(snap)
		}
	}
	if halted {
		e.logger.Debug("scheduler closed, simulation stopped", "frame", frames)
		hooks.OnRunStateChange(false)
	}
}

// Running reports whether the frame loop is active.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Frames returns the number of frames run since the graph was loaded.
func (e *Engine) Frames() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frames
}

// SelectNode selects the node with the given ID and fires the node callback
// if the selection changed. It reports whether the node exists; an unknown
// ID leaves the selection untouched.
func (e *Engine) SelectNode(id string) bool {
	e.mu.Lock()
	n, ok := e.state.Node(id)
	if !ok {
		e.mu.Unlock()
		return false
	}
	changed := e.selNode != id || e.selEdge != nil
	e.selNode, e.selEdge = id, nil
	node := *n
	cb := e.onNode
	e.mu.Unlock()

	if changed {
		observability.Engine().OnSelect("node")
		if cb != nil {
			cb(node)
		}
	}
	return true
}

// SelectEdge selects the first edge from source to target and fires the
// edge callback if the selection changed. It reports whether the edge exists.
func (e *Engine) SelectEdge(source, target string) bool {
	e.mu.Lock()
	edge, ok := e.state.Edge(source, target)
	if !ok {
		e.mu.Unlock()
		return false
	}
	key := EdgeKey{Source: source, Target: target}
	changed := e.selEdge == nil || *e.selEdge != key
	e.selNode, e.selEdge = "", &key
	src, dst := *edge.Source, *edge.Target
	cp := layout.Edge{Source: &src, Target: &dst, Weight: edge.Weight, Relation: edge.Relation}
	if edge.IsSelfLoop() {
		cp.Target = cp.Source
	}
	cb := e.onEdge
	e.mu.Unlock()

	if changed {
		observability.Engine().OnSelect("edge")
		if cb != nil {
			cb(cp)
		}
	}
	return true
}

// ClearSelection drops the current selection without firing callbacks.
func (e *Engine) ClearSelection() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selNode, e.selEdge = "", nil
}

// Drag pins the node at (x, y), clamped to the viewport, with zero
// velocity. The node keeps exerting forces but is not moved by them until
// Release. Non-finite coordinates are ignored. It reports whether the node
// exists and the position was applied.
func (e *Engine) Drag(id string, x, y float64) bool {
	if !finite(x) || !finite(y) {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	n, ok := e.state.Node(id)
	if !ok {
		return false
	}
	if e.state.Viewport.Valid() {
		x, y = Clamp(e.state.Viewport, n.Radius, x, y)
	}
	n.X, n.Y = x, y
	n.VX, n.VY = 0, 0
	n.Fixed = true
	return true
}

// Release unpins a dragged node. It reports whether the node exists.
func (e *Engine) Release(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	n, ok := e.state.Node(id)
	if !ok {
		return false
	}
	n.Fixed = false
	return true
}

// Snapshot returns a copy of the current layout. It never mutates the engine.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}
