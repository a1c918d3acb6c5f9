package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/mindmap/pkg/buildinfo"
	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/mindmap"
	"github.com/matzehuels/mindmap/pkg/session"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// =============================================================================
// Request / response bodies
// =============================================================================

type mapsResponse struct {
	Maps   []string `json:"maps"`
	Active string   `json:"active"`
}

type createMapRequest struct {
	Name string `json:"name"`
}

type layoutRequest struct {
	Mode string `json:"mode"`
}

type createNodeRequest struct {
	ParentID string `json:"parent_id"`
	Text     string `json:"text"`
}

type renameNodeRequest struct {
	Text string `json:"text"`
}

type moveNodeRequest struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

type nodeResponse struct {
	Node session.NodeView `json:"node"`
}

type deleteNodeResponse struct {
	Removed []string `json:"removed"`
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

// =============================================================================
// Handlers
// =============================================================================

func (srv *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	srv.writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (srv *Server) handleListMaps(w http.ResponseWriter, r *http.Request) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	maps, err := srv.s.Maps(r.Context())
	if err != nil {
		srv.writeError(w, err)
		return
	}
	srv.writeJSON(w, http.StatusOK, mapsResponse{Maps: append([]string{}, maps...), Active: srv.s.Name()})
}

func (srv *Server) handleCreateMap(w http.ResponseWriter, r *http.Request) {
	var req createMapRequest
	if !srv.decode(w, r, &req) {
		return
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()

	if err := srv.s.NewMap(r.Context(), req.Name); err != nil {
		srv.writeError(w, err)
		return
	}
	srv.writeJSON(w, http.StatusCreated, srv.s.View())
}

func (srv *Server) handleGetMap(w http.ResponseWriter, r *http.Request) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	if !srv.use(w, r) {
		return
	}
	srv.writeJSON(w, http.StatusOK, srv.s.View())
}

func (srv *Server) handleDeleteMap(w http.ResponseWriter, r *http.Request) {
	if !srv.confirmed(w, r) {
		return
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()

	if err := srv.s.DeleteMap(r.Context(), chi.URLParam(r, "name")); err != nil {
		srv.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (srv *Server) handleSetLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if !srv.decode(w, r, &req) {
		return
	}
	mode, err := layout.ParseMode(req.Mode)
	if err != nil {
		srv.writeError(w, err)
		return
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()

	if !srv.use(w, r) {
		return
	}
	if err := srv.s.SetMode(r.Context(), mode); err != nil {
		srv.writeError(w, err)
		return
	}
	srv.writeJSON(w, http.StatusOK, srv.s.View())
}

func (srv *Server) handleCreateNode(w http.ResponseWriter, r *http.Request) {
	var req createNodeRequest
	if !srv.decode(w, r, &req) {
		return
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()

	if !srv.use(w, r) {
		return
	}
	var (
		n   *mindmap.Node
		err error
	)
	if req.ParentID == "" {
		n, err = srv.s.AddRoot(r.Context(), req.Text)
	} else {
		n, err = srv.s.AddChild(r.Context(), req.ParentID, req.Text)
	}
	if err != nil {
		srv.writeError(w, err)
		return
	}
	srv.writeJSON(w, http.StatusCreated, nodeResponse{Node: srv.nodeView(n.ID)})
}

func (srv *Server) handleRenameNode(w http.ResponseWriter, r *http.Request) {
	var req renameNodeRequest
	if !srv.decode(w, r, &req) {
		return
	}
	id, ok := srv.nodeID(w, r)
	if !ok {
		return
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()

	if !srv.use(w, r) {
		return
	}
	if err := srv.s.Rename(r.Context(), id, req.Text); err != nil {
		srv.writeError(w, err)
		return
	}
	srv.writeJSON(w, http.StatusOK, nodeResponse{Node: srv.nodeView(id)})
}

func (srv *Server) handleDeleteNode(w http.ResponseWriter, r *http.Request) {
	id, ok := srv.nodeID(w, r)
	if !ok || !srv.confirmed(w, r) {
		return
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()

	if !srv.use(w, r) {
		return
	}
	removed, err := srv.s.DeleteNode(r.Context(), id)
	if err != nil {
		srv.writeError(w, err)
		return
	}
	srv.writeJSON(w, http.StatusOK, deleteNodeResponse{Removed: removed})
}

func (srv *Server) handleMoveNode(w http.ResponseWriter, r *http.Request) {
	var req moveNodeRequest
	if !srv.decode(w, r, &req) {
		return
	}
	if req.X == nil || req.Y == nil {
		srv.writeError(w, errors.New(errors.ErrCodeInvalidInput, "x and y are required"))
		return
	}
	id, ok := srv.nodeID(w, r)
	if !ok {
		return
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()

	if !srv.use(w, r) {
		return
	}
	if _, err := srv.s.MoveNode(r.Context(), id, *req.X, *req.Y); err != nil {
		srv.writeError(w, err)
		return
	}
	srv.writeJSON(w, http.StatusOK, nodeResponse{Node: srv.nodeView(id)})
}

// =============================================================================
// Helpers
// =============================================================================

// use makes the {name} map active. The caller holds srv.mu.
func (srv *Server) use(w http.ResponseWriter, r *http.Request) bool {
	name := chi.URLParam(r, "name")
	if name == srv.s.Name() {
		return true
	}
	if err := srv.s.Select(r.Context(), name); err != nil {
		srv.writeError(w, err)
		return false
	}
	return true
}

func (srv *Server) nodeID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateNodeID(id); err != nil {
		srv.writeError(w, err)
		return "", false
	}
	return id, true
}

// confirmed reports whether the request carries confirm=true. Otherwise it
// answers 428.
func (srv *Server) confirmed(w http.ResponseWriter, r *http.Request) bool {
	if ok, _ := strconv.ParseBool(r.URL.Query().Get("confirm")); ok {
		return true
	}
	srv.writeJSON(w, http.StatusPreconditionRequired, errorResponse{Error: errorBody{
		Code:    "CONFIRMATION_REQUIRED",
		Message: "repeat the request with confirm=true",
	}})
	return false
}

func (srv *Server) nodeView(id string) session.NodeView {
	for _, n := range srv.s.View().Nodes {
		if n.ID == id {
			return n
		}
	}
	return session.NodeView{ID: id}
}

func (srv *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		srv.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return false
	}
	return true
}
