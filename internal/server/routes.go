package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tobiaswagner/gruppentool/internal/directory"
	"github.com/tobiaswagner/gruppentool/internal/groups"
	"github.com/tobiaswagner/gruppentool/internal/search"
	"github.com/tobiaswagner/gruppentool/internal/selection"
)

// registerRoutes mounts the widget API.
func (s *Server) registerRoutes(r chi.Router) {
	r.Get("/api/whoami", s.whoamiHandler)
	r.Get("/api/reference", s.referenceHandler)
	r.Get("/api/search", s.searchHandler)
	r.Get("/api/search/ws", s.searchSocketHandler)

	r.Post("/api/sessions", s.createSessionHandler)
	r.Delete("/api/sessions/{id}", s.dropSessionHandler)
	r.Get("/api/sessions/{id}/selection", s.listSelectionHandler)
	r.Post("/api/sessions/{id}/selection", s.addSelectionHandler)
	r.Delete("/api/sessions/{id}/selection/{personID}", s.removeSelectionHandler)
	r.Post("/api/sessions/{id}/selection/group", s.toggleGroupHandler)
	r.Get("/api/sessions/{id}/export", s.exportHandler)
	r.Post("/api/sessions/{id}/groups", s.createGroupHandler)
}

func (s *Server) whoamiHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dir.Me())
}

// referenceHandler serves group types and roles. With ?groupTypeId= only the
// roles of that type are returned, matching the role-dropdown invariant.
func (s *Server) referenceHandler(w http.ResponseWriter, r *http.Request) {
	roles := s.dir.Roles()
	if typeID := r.URL.Query().Get("groupTypeId"); typeID != "" {
		roles = s.dir.RolesForType(typeID)
	}
	if roles == nil {
		roles = []directory.Role{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"groupTypes": s.dir.GroupTypes(),
		"roles":      roles,
	})
}

func (s *Server) searchHandler(w http.ResponseWriter, r *http.Request) {
	items, err := s.engine.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []search.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	id := s.sessions.create(s.dir.Me())
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) dropSessionHandler(w http.ResponseWriter, r *http.Request) {
	s.sessions.drop(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// session resolves the session of the request, writing a 404 when it is
// unknown.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*selection.Store, bool) {
	st, ok := s.sessions.get(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
	}
	return st, ok
}

func (s *Server) listSelectionHandler(w http.ResponseWriter, r *http.Request) {
	st, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, st.People())
}

func (s *Server) addSelectionHandler(w http.ResponseWriter, r *http.Request) {
	st, ok := s.session(w, r)
	if !ok {
		return
	}
	var p directory.Person
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.ID == "" {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	// Prefer the directory record over whatever the client sent.
	if known, found := s.dir.PersonByID(p.ID); found {
		p = known
	}
	st.Add(p)
	writeJSON(w, http.StatusOK, st.People())
}

func (s *Server) removeSelectionHandler(w http.ResponseWriter, r *http.Request) {
	st, ok := s.session(w, r)
	if !ok {
		return
	}
	st.Remove(chi.URLParam(r, "personID"))
	writeJSON(w, http.StatusOK, st.People())
}

func (s *Server) toggleGroupHandler(w http.ResponseWriter, r *http.Request) {
	st, ok := s.session(w, r)
	if !ok {
		return
	}
	var body struct {
		GroupID string `json:"groupId"`
		Checked bool   `json:"checked"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.GroupID == "" {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	members, err := s.dir.Members(r.Context(), body.GroupID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	st.ToggleGroup(members, body.Checked)
	writeJSON(w, http.StatusOK, st.People())
}

func (s *Server) exportHandler(w http.ResponseWriter, r *http.Request) {
	st, ok := s.session(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	cfg := selection.ExportConfig{
		TypeID: q.Get("typeId"),
		Name:   q.Get("name"),
		Chat:   q.Get("chat") == "true" || q.Get("chat") == "1",
	}
	if gt, found := s.dir.GroupTypeByID(cfg.TypeID); found {
		cfg.TypeLabel = gt.Name
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(st.Export(cfg)))
}

func (s *Server) createGroupHandler(w http.ResponseWriter, r *http.Request) {
	st, ok := s.session(w, r)
	if !ok {
		return
	}
	var req groups.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	summary, err := s.workflow.Run(r.Context(), req, s.dir.Me().ID, st.People())
	if err != nil {
		var vErr *groups.ValidationError
		if errors.As(err, &vErr) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": vErr.Message, "field": vErr.Field})
			return
		}
		var rErr *groups.RemoteCallError
		if errors.As(err, &rErr) {
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": rErr.Error()})
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"summary": summary,
		"message": summary.Message(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
