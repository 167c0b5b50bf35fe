package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/kgforce/pkg/errors"
	"github.com/matzehuels/kgforce/pkg/graph"
	"github.com/matzehuels/kgforce/pkg/layout"
)

// GraphRequest is the body of PUT /api/graph.
type GraphRequest struct {
	graph.Graph
	Viewport *layout.Viewport `json:"viewport,omitempty"`
}

// EdgeRequest is the body of POST /api/select/edge.
type EdgeRequest struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// PointRequest is the body of PUT /api/drag/{id}.
type PointRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok\n"))
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	s.writeSnapshot(w)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	s.engine.Start()
	s.touch()
	s.writeSnapshot(w)
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	s.engine.Stop()
	s.touch()
	s.writeSnapshot(w)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	var req GraphRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidGraph, err, "invalid graph body"))
		return
	}
	for _, n := range req.Nodes {
		if err := errors.ValidateNodeID(n.ID); err != nil {
			s.writeError(w, errors.Wrap(errors.ErrCodeInvalidGraph, err, "invalid node %q: %s", n.ID, errors.UserMessage(err)))
			return
		}
	}

	var vp layout.Viewport
	if req.Viewport != nil {
		if err := errors.ValidateViewport(req.Viewport.Width, req.Viewport.Height); err != nil {
			s.writeError(w, err)
			return
		}
		vp = *req.Viewport
	}

	s.LoadGraph(req.Graph, vp)
	s.writeSnapshot(w)
}

func (s *Server) handleGetParams(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.engine.Params())
}

func (s *Server) handlePutParams(w http.ResponseWriter, r *http.Request) {
	p := s.engine.Params()
	if err := decode(w, r, &p); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid params body"))
		return
	}
	if err := p.Validate(); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", err.Error()))
		return
	}
	s.engine.SetParams(p)
	s.writeJSON(w, http.StatusOK, s.engine.Params())
}

func (s *Server) handleSelectNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.selectNode(id); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeSnapshot(w)
}

func (s *Server) handleSelectEdge(w http.ResponseWriter, r *http.Request) {
	var req EdgeRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid edge body"))
		return
	}
	if err := s.selectEdge(req.Source, req.Target); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeSnapshot(w)
}

func (s *Server) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	s.engine.ClearSelection()
	s.touch()
	s.writeSnapshot(w)
}

func (s *Server) handleDrag(w http.ResponseWriter, r *http.Request) {
	var req PointRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid drag body"))
		return
	}
	if err := s.drag(chi.URLParam(r, "id"), req.X, req.Y); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeSnapshot(w)
}

func (s *Server) handleRelease(w http.ResponseWriter, r *http.Request) {
	if err := s.release(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeSnapshot(w)
}

// =============================================================================
// Shared Actions (HTTP and stream)
// =============================================================================

func (s *Server) selectNode(id string) error {
	if !s.engine.SelectNode(id) {
		return errors.New(errors.ErrCodeNodeNotFound, "node %q not found", id)
	}
	return nil
}

func (s *Server) selectEdge(source, target string) error {
	if !s.engine.SelectEdge(source, target) {
		return errors.New(errors.ErrCodeEdgeNotFound, "edge %q -> %q not found", source, target)
	}
	return nil
}

func (s *Server) drag(id string, x, y float64) error {
	if !s.engine.Drag(id, x, y) {
		return errors.New(errors.ErrCodeNodeNotFound, "node %q not found", id)
	}
	s.touch()
	return nil
}

func (s *Server) release(id string) error {
	if !s.engine.Release(id) {
		return errors.New(errors.ErrCodeNodeNotFound, "node %q not found", id)
	}
	s.touch()
	return nil
}

// =============================================================================
// Responses
// =============================================================================

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

func (s *Server) writeSnapshot(w http.ResponseWriter) {
	s.writeJSON(w, http.StatusOK, toSnapshotJSON(s.engine.Snapshot()))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := errors.HTTPStatus(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	} else {
		s.logger.Debug("request rejected", "code", code, "err", err)
	}
	s.writeJSON(w, status, errorJSON(code, err))
}

func errorJSON(code errors.Code, err error) ErrorJSON {
	return ErrorJSON{Code: string(code), Message: errors.UserMessage(err)}
}
