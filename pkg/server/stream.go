package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/kgforce/pkg/errors"
	"github.com/matzehuels/kgforce/pkg/observability"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 4096
	// Buffered event messages per client; events beyond this are dropped.
	sendBuffer = 64
)

// =============================================================================
// Hub - Connected Stream Clients
// =============================================================================

type client struct {
	id   uuid.UUID
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func (c *client) stop() { c.once.Do(func() { close(c.done) }) }

// hub tracks stream clients. Broadcasts never block: a client that cannot
// keep up misses events but still receives the next snapshot.
type hub struct {
	mu      sync.Mutex
	clients map[uuid.UUID]*client
	closed  bool
	wg      sync.WaitGroup
}

func newHub() *hub {
	return &hub{clients: make(map[uuid.UUID]*client)}
}

// add registers c and reserves two goroutine slots for its pumps. It fails
// once the hub is closed.
func (h *hub) add(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c.id] = c
	h.wg.Add(2)
	return true
}

func (h *hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c.id)
	h.mu.Unlock()
	c.stop()
}

func (h *hub) len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *hub) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		select {
		case c.send <- data:
		default:
		}
	}
}

// close disconnects every client and refuses new ones.
func (h *hub) close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.stop()
	}
}

func (h *hub) wait() { h.wg.Wait() }

// =============================================================================
// Stream Handler
// =============================================================================

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error.
		s.logger.Warn("stream upgrade failed", "err", err)
		return
	}

	c := &client{
		id:   uuid.New(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
	if !s.hub.add(c) {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		conn.Close()
		return
	}

	ctx := context.WithoutCancel(r.Context())
	observability.HTTP().OnStreamClient(ctx, true)
	s.logger.Debug("stream client connected", "client", c.id)

	go s.writePump(c)
	s.readPump(c)

	observability.HTTP().OnStreamClient(ctx, false)
	s.logger.Debug("stream client disconnected", "client", c.id)
}

// readPump applies client messages until the connection fails or closes.
func (s *Server) readPump(c *client) {
	defer s.hub.wg.Done()
	defer s.hub.remove(c)

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("stream read failed", "client", c.id, "err", err)
			}
			return
		}
		if err := s.apply(msg); err != nil {
			s.reply(c, err)
		}
	}
}

// writePump is the only writer on the connection. It sends the greeting,
// queued events, snapshots when the layout changed and keepalive pings.
func (s *Server) writePump(c *client) {
	snapTicker := time.NewTicker(time.Second / time.Duration(s.cfg.StreamRate))
	pingTicker := time.NewTicker(pingPeriod)
	defer func() {
		snapTicker.Stop()
		pingTicker.Stop()
		c.conn.Close()
		s.hub.wg.Done()
	}()

	if err := s.writeMessage(c, Message{Type: MsgHello, Client: c.id.String()}); err != nil {
		return
	}

	var (
		sentFrame   uint64
		sentVersion uint64
		sentAny     bool
	)
	for {
		select {
		case <-c.done:
			c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return

		case data := <-c.send:
			if err := s.write(c, data); err != nil {
				return
			}

		case <-snapTicker.C:
			version := s.version.Load()
			snap := s.engine.Snapshot()
			if sentAny && snap.Frame == sentFrame && version == sentVersion {
				continue
			}
			if err := s.writeMessage(c, Message{Type: MsgSnapshot, Snapshot: toSnapshotJSON(snap)}); err != nil {
				return
			}
			sentFrame, sentVersion, sentAny = snap.Frame, version, true

		case <-pingTicker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (s *Server) writeMessage(c *client, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return s.write(c, data)
}

func (s *Server) write(c *client, data []byte) error {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// reply queues an error message for one client.
func (s *Server) reply(c *client, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	e := errorJSON(code, err)
	data, merr := json.Marshal(Message{Type: MsgError, Error: &e})
	if merr != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// apply performs a client stream message against the engine.
func (s *Server) apply(msg ClientMessage) error {
	switch msg.Type {
	case MsgPressNode:
		return s.selectNode(msg.ID)
	case MsgPressEdge:
		return s.selectEdge(msg.Source, msg.Target)
	case MsgDrag:
		return s.drag(msg.ID, msg.X, msg.Y)
	case MsgRelease:
		return s.release(msg.ID)
	case MsgStart:
		s.engine.Start()
	case MsgStop:
		s.engine.Stop()
	case MsgClear:
		s.engine.ClearSelection()
	default:
		return errors.New(errors.ErrCodeUnsupported, "unknown message type %q", msg.Type)
	}
	s.touch()
	return nil
}
