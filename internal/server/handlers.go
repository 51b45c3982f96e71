package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	bgperrors "github.com/routeviz/bgpmap/pkg/errors"
	"github.com/routeviz/bgpmap/pkg/layout"
	"github.com/routeviz/bgpmap/pkg/pipeline"
	"github.com/routeviz/bgpmap/pkg/render"
	"github.com/routeviz/bgpmap/pkg/session"
)

// maxDocumentSize bounds uploaded topology documents.
const maxDocumentSize = 10 << 20

type diagramResponse struct {
	ID           string                  `json:"id"`
	TopologyHash string                  `json:"topology_hash"`
	Routers      int                     `json:"routers"`
	Edges        int                     `json:"edges"`
	Interfaces   int                     `json:"interfaces"`
	DroppedEdges int                     `json:"dropped_edges"`
	CreatedAt    time.Time               `json:"created_at"`
	Positions    map[string]layout.Point `json:"positions,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleCreateDiagram runs the full pipeline on an uploaded document and
// registers the result as an interactive diagram.
//
// The source format comes from the Content-Type header (application/toml for
// definitions, anything else is interchange JSON) or an explicit ?format=
// query parameter. ?session= restores saved positions before layout.
func (s *Server) handleCreateDiagram(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentSize))
	if err != nil {
		writeErrorCode(w, bgperrors.ErrCodeInvalidInput, "read request body: %v", err)
		return
	}
	if len(data) == 0 {
		writeErrorCode(w, bgperrors.ErrCodeInvalidInput, "empty topology document")
		return
	}

	opts := pipeline.Options{
		Data:         data,
		SourceFormat: sourceFormat(r),
		Formats:      []string{pipeline.FormatJSON},
	}
	if v := r.URL.Query().Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			writeErrorCode(w, bgperrors.ErrCodeInvalidInput, "invalid seed: %q", v)
			return
		}
		opts.Seed = seed
	}
	if v := r.URL.Query().Get("iterations"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeErrorCode(w, bgperrors.ErrCodeInvalidInput, "invalid iterations: %q", v)
			return
		}
		opts.Iterations = n
	}
	opts.Detailed = r.URL.Query().Get("detailed") == "true"

	if sid := r.URL.Query().Get("session"); sid != "" {
		if s.opts.Sessions == nil {
			writeErrorCode(w, bgperrors.ErrCodeUnsupported, "session store not configured")
			return
		}
		sess, err := s.opts.Sessions.Get(r.Context(), sid)
		if err != nil {
			writeError(w, bgperrors.Wrap(bgperrors.ErrCodeInternal, err, "load session"))
			return
		}
		if sess == nil {
			writeErrorCode(w, bgperrors.ErrCodeSessionNotFound, "session %s not found", sid)
			return
		}
		opts.Positions = sess.Positions
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		if bgperrors.GetCode(err) != "" {
			writeError(w, err)
		} else {
			writeError(w, bgperrors.Wrap(bgperrors.ErrCodeInvalidTopology, err, "pipeline failed"))
		}
		return
	}

	d := newDiagram(result, opts)
	s.addDiagram(d)

	s.logger.Info("diagram created",
		"id", d.id,
		"routers", result.Stats.RouterCount,
		"edges", result.Stats.EdgeCount)

	writeJSON(w, http.StatusCreated, diagramResponse{
		ID:           d.id,
		TopologyHash: d.hash,
		Routers:      result.Stats.RouterCount,
		Edges:        result.Stats.EdgeCount,
		Interfaces:   result.Stats.InterfaceCount,
		DroppedEdges: result.Stats.DroppedEdges,
		CreatedAt:    d.createdAt,
		Positions:    result.Positions,
	})
}

func (s *Server) handleGetDiagram(w http.ResponseWriter, r *http.Request) {
	d, ok := s.diagram(chi.URLParam(r, "id"))
	if !ok {
		writeErrorCode(w, bgperrors.ErrCodeNotFound, "diagram not found")
		return
	}
	writeJSON(w, http.StatusOK, diagramResponse{
		ID:           d.id,
		TopologyHash: d.hash,
		Routers:      d.topo.RouterCount(),
		Edges:        d.topo.EdgeCount(),
		Interfaces:   len(d.exp.Interfaces),
		CreatedAt:    d.createdAt,
	})
}

func (s *Server) handleDeleteDiagram(w http.ResponseWriter, r *http.Request) {
	if !s.removeDiagram(chi.URLParam(r, "id")) {
		writeErrorCode(w, bgperrors.ErrCodeNotFound, "diagram not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetPositions(w http.ResponseWriter, r *http.Request) {
	d, ok := s.diagram(chi.URLParam(r, "id"))
	if !ok {
		writeErrorCode(w, bgperrors.ErrCodeNotFound, "diagram not found")
		return
	}
	writeJSON(w, http.StatusOK, d.positions())
}

type pointerEventRequest struct {
	Type string  `json:"type"` // down, move, up
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type pointerEventResponse struct {
	Action string `json:"action"`
	Node   string `json:"node,omitempty"`
	Info   string `json:"info,omitempty"`
}

func (s *Server) handlePointerEvent(w http.ResponseWriter, r *http.Request) {
	d, ok := s.diagram(chi.URLParam(r, "id"))
	if !ok {
		writeErrorCode(w, bgperrors.ErrCodeNotFound, "diagram not found")
		return
	}

	var req pointerEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorCode(w, bgperrors.ErrCodeInvalidInput, "invalid event body: %v", err)
		return
	}

	event, ok := d.apply(req.Type, req.X, req.Y, time.Now())
	if !ok {
		writeErrorCode(w, bgperrors.ErrCodeInvalidInput, "invalid event type: %q", req.Type)
		return
	}

	writeJSON(w, http.StatusOK, pointerEventResponse{
		Action: actionString(event.Action),
		Node:   event.Node,
		Info:   event.Info,
	})
}

func (s *Server) handleNodeInfo(w http.ResponseWriter, r *http.Request) {
	d, ok := s.diagram(chi.URLParam(r, "id"))
	if !ok {
		writeErrorCode(w, bgperrors.ErrCodeNotFound, "diagram not found")
		return
	}
	// Interface node ids contain slashes ("R1_Gi0/0"); clients escape them
	// as %2F and chi hands the param back still escaped.
	node := chi.URLParam(r, "node")
	if unescaped, err := url.PathUnescape(node); err == nil {
		node = unescaped
	}

	if n, ok := d.exp.Interface(node); ok {
		writeJSON(w, http.StatusOK, map[string]string{"id": node, "info": n.Name + ": " + n.IP})
		return
	}
	if _, ok := d.topo.Router(node); ok {
		writeJSON(w, http.StatusOK, map[string]string{"id": node, "info": d.topo.Info(node)})
		return
	}
	writeErrorCode(w, bgperrors.ErrCodeNodeNotFound, "node %s not found", node)
}

func (s *Server) handleRenderSVG(w http.ResponseWriter, r *http.Request) {
	s.renderDiagram(w, r, pipeline.FormatSVG, "image/svg+xml")
}

func (s *Server) handleRenderDOT(w http.ResponseWriter, r *http.Request) {
	s.renderDiagram(w, r, pipeline.FormatDOT, "text/vnd.graphviz")
}

func (s *Server) renderDiagram(w http.ResponseWriter, r *http.Request, format, contentType string) {
	d, ok := s.diagram(chi.URLParam(r, "id"))
	if !ok {
		writeErrorCode(w, bgperrors.ErrCodeNotFound, "diagram not found")
		return
	}

	opts := pipeline.Options{Formats: []string{format}, Detailed: d.detailed}
	artifacts, err := s.runner.Render(r.Context(), d.topo, d.exp, d.positions(), opts)
	if err != nil {
		writeError(w, bgperrors.Wrap(bgperrors.ErrCodeRender, err, "render %s", format))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

type saveSessionRequest struct {
	Name       string `json:"name"`
	TTLSeconds int64  `json:"ttl_seconds,omitempty"`
}

func (s *Server) handleSaveSession(w http.ResponseWriter, r *http.Request) {
	if s.opts.Sessions == nil {
		writeErrorCode(w, bgperrors.ErrCodeUnsupported, "session store not configured")
		return
	}
	d, ok := s.diagram(chi.URLParam(r, "id"))
	if !ok {
		writeErrorCode(w, bgperrors.ErrCodeNotFound, "diagram not found")
		return
	}

	var req saveSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorCode(w, bgperrors.ErrCodeInvalidInput, "invalid session body: %v", err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeErrorCode(w, bgperrors.ErrCodeInvalidInput, "session name is required")
		return
	}

	ttl := time.Duration(req.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = session.DefaultTTL
	}
	sess := session.NewExpiring(req.Name, d.hash, d.positions(), ttl)
	if err := s.opts.Sessions.Set(r.Context(), sess); err != nil {
		writeError(w, bgperrors.Wrap(bgperrors.ErrCodeInternal, err, "save session"))
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	if s.opts.Sessions == nil {
		writeErrorCode(w, bgperrors.ErrCodeUnsupported, "session store not configured")
		return
	}
	sessions, err := s.opts.Sessions.List(r.Context())
	if err != nil {
		writeError(w, bgperrors.Wrap(bgperrors.ErrCodeInternal, err, "list sessions"))
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	if s.opts.Sessions == nil {
		writeErrorCode(w, bgperrors.ErrCodeUnsupported, "session store not configured")
		return
	}
	id := chi.URLParam(r, "id")
	sess, err := s.opts.Sessions.Get(r.Context(), id)
	if err != nil {
		writeError(w, bgperrors.Wrap(bgperrors.ErrCodeInternal, err, "load session"))
		return
	}
	if sess == nil {
		writeErrorCode(w, bgperrors.ErrCodeSessionNotFound, "session %s not found", id)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if s.opts.Sessions == nil {
		writeErrorCode(w, bgperrors.ErrCodeUnsupported, "session store not configured")
		return
	}
	if err := s.opts.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, bgperrors.Wrap(bgperrors.ErrCodeInternal, err, "delete session"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// sourceFormat resolves the upload format from the query or Content-Type.
func sourceFormat(r *http.Request) string {
	if f := r.URL.Query().Get("format"); f != "" {
		return f
	}
	ct := r.Header.Get("Content-Type")
	if strings.Contains(ct, "toml") {
		return pipeline.SourceTOML
	}
	return pipeline.SourceJSON
}

func actionString(a render.Action) string {
	switch a {
	case render.ActionDragStart:
		return "drag_start"
	case render.ActionDrag:
		return "drag"
	case render.ActionDragEnd:
		return "drag_end"
	case render.ActionInspect:
		return "inspect"
	default:
		return "none"
	}
}
