package server

import (
	"context"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/kgforce/pkg/force"
	"github.com/matzehuels/kgforce/pkg/graph"
	"github.com/matzehuels/kgforce/pkg/layout"
	"github.com/matzehuels/kgforce/pkg/metrics"
)

// =============================================================================
// Defaults
// =============================================================================

const (
	// DefaultAddr is the listen address used when Config.Addr is empty.
	DefaultAddr = "127.0.0.1:8080"

	// DefaultStreamRate is the maximum number of snapshots per second sent
	// to each stream client.
	DefaultStreamRate = 30

	shutdownTimeout = 5 * time.Second
	maxBodyBytes    = 8 << 20
)

// DefaultViewport is used for graphs loaded without a viewport.
var DefaultViewport = layout.Viewport{Width: 800, Height: 600}

// =============================================================================
// Config
// =============================================================================

// Config configures a [Server].
type Config struct {
	// Addr is the TCP address to listen on.
	Addr string

	// FrameRate is the engine's frames per second. Ignored when Scheduler is set.
	FrameRate int

	// StreamRate caps the snapshots per second sent to each stream client.
	StreamRate int

	// Viewport is used when a graph is loaded without one.
	Viewport layout.Viewport

	// Params are the initial physical constants. Zero means defaults.
	Params force.Params

	// Scheduler drives the engine. Nil means a ticker at FrameRate owned
	// by the server.
	Scheduler force.Scheduler

	// Metrics serves /metrics. Nil means the default Prometheus registry.
	Metrics http.Handler

	// Logger receives request and stream logs. Nil discards.
	Logger *log.Logger
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.FrameRate <= 0 {
		c.FrameRate = force.DefaultFrameRate
	}
	if c.StreamRate <= 0 {
		c.StreamRate = DefaultStreamRate
	}
	if !c.Viewport.Valid() {
		c.Viewport = DefaultViewport
	}
	if c.Metrics == nil {
		c.Metrics = metrics.DefaultRegistry().Handler()
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard)
	}
}

// =============================================================================
// Server
// =============================================================================

// Server couples one [force.Engine] with its HTTP control surface and
// snapshot stream.
type Server struct {
	cfg    Config
	logger *log.Logger
	engine *force.Engine
	ticker *force.TickerScheduler
	hub    *hub

	upgrader websocket.Upgrader
	handler  http.Handler

	// version changes whenever the layout changes other than by a frame,
	// so idle streams still see selections and drags.
	version atomic.Uint64

	mu       sync.Mutex
	viewport layout.Viewport
}

// New returns a server with an empty graph. The engine is idle until a graph
// is loaded.
func New(cfg Config) *Server {
	cfg.setDefaults()
	s := &Server{
		cfg:      cfg,
		logger:   cfg.Logger,
		hub:      newHub(),
		viewport: cfg.Viewport,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}

	sched := cfg.Scheduler
	if sched == nil {
		s.ticker = force.NewTickerScheduler(cfg.FrameRate)
		sched = s.ticker
	}
	s.engine = force.New(sched,
		force.WithParams(cfg.Params),
		force.WithLogger(cfg.Logger),
		force.OnNodeSelected(s.nodeSelected),
		force.OnEdgeSelected(s.edgeSelected),
		force.OnSettled(s.settled),
	)
	s.handler = s.routes()
	return s
}

// Engine returns the server's engine.
func (s *Server) Engine() *force.Engine { return s.engine }

// Handler returns the HTTP handler for the control surface and stream.
func (s *Server) Handler() http.Handler { return s.handler }

// Viewport returns the viewport of the current graph.
func (s *Server) Viewport() layout.Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewport
}

// LoadGraph replaces the graph and restarts the simulation if the new graph
// has nodes. An invalid vp keeps the current viewport.
func (s *Server) LoadGraph(g graph.Graph, vp layout.Viewport) {
	s.mu.Lock()
	if vp.Valid() {
		s.viewport = vp
	}
	vp = s.viewport
	s.mu.Unlock()

	s.engine.SetGraph(g, vp)
	s.engine.Start()
	s.touch()
	s.logger.Info("graph loaded", "nodes", g.NodeCount(), "edges", g.EdgeCount())
}

// ListenAndServe serves on cfg.Addr until ctx is canceled, then shuts down
// gracefully. Stream clients are disconnected before the HTTP shutdown.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is like ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.logger.Info("server listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.hub.close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	<-errCh
	s.logger.Info("server stopped")
	return nil
}

// Close disconnects all stream clients, waits for their goroutines and
// stops the engine.
func (s *Server) Close() error {
	s.hub.close()
	s.hub.wait()
	err := s.engine.Close()
	if s.ticker != nil {
		if cerr := s.ticker.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// =============================================================================
// Router
// =============================================================================

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.cfg.Metrics)

	r.Route("/api", func(r chi.Router) {
		r.Get("/snapshot", s.handleSnapshot)
		r.Post("/start", s.handleStart)
		r.Post("/stop", s.handleStop)
		r.Put("/graph", s.handleGraph)
		r.Get("/params", s.handleGetParams)
		r.Put("/params", s.handlePutParams)

		r.Post("/select/node/{id}", s.handleSelectNode)
		r.Post("/select/edge", s.handleSelectEdge)
		r.Delete("/select", s.handleClearSelection)

		r.Put("/drag/{id}", s.handleDrag)
		r.Delete("/drag/{id}", s.handleRelease)

		r.Get("/stream", s.handleStream)
	})
	return r
}

// =============================================================================
// Engine Events
// =============================================================================

func (s *Server) touch() { s.version.Add(1) }

func (s *Server) nodeSelected(n layout.Node) {
	s.touch()
	node := toNodeJSON(n)
	s.hub.broadcast(Message{Type: MsgNodeSelected, Node: &node})
}

func (s *Server) edgeSelected(e layout.Edge) {
	s.touch()
	edge := toEdgeJSON(e)
	s.hub.broadcast(Message{Type: MsgEdgeSelected, Edge: &edge})
}

func (s *Server) settled(snap force.Snapshot) {
	s.touch()
	s.logger.Debug("simulation settled", "frame", snap.Frame, "energy", snap.Energy)
	s.hub.broadcast(Message{Type: MsgSettled, Snapshot: toSnapshotJSON(snap)})
}
