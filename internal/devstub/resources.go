package devstub

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxUploadBytes = 32 << 20

func (s *Server) handleList(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		s.mu.Lock()
		out := append([]map[string]any{}, s.data[name]...)
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, out)
	}
}

func (s *Server) handleCreate(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var rec map[string]any
		if err := json.NewDecoder(req.Body).Decode(&rec); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		rec["id"] = uuid.NewString()
		s.mu.Lock()
		s.data[name] = append(s.data[name], rec)
		s.mu.Unlock()
		writeJSON(w, http.StatusCreated, rec)
	}
}

func (s *Server) handleUpdate(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		id := chi.URLParam(req, "id")
		var rec map[string]any
		if err := json.NewDecoder(req.Body).Decode(&rec); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		rec["id"] = id
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, existing := range s.data[name] {
			if existing["id"] == id {
				s.data[name][i] = rec
				writeJSON(w, http.StatusOK, rec)
				return
			}
		}
		writeError(w, http.StatusNotFound, "record not found")
	}
}

func (s *Server) handleDelete(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		id := chi.URLParam(req, "id")
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, existing := range s.data[name] {
			if existing["id"] == id {
				s.data[name] = append(s.data[name][:i], s.data[name][i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		writeError(w, http.StatusNotFound, "record not found")
	}
}

// handleMediaUpload accepts multipart form data: title and kind fields
// plus the file itself. The stub does not keep file bytes, only the
// record and a synthetic URL.
func (s *Server) handleMediaUpload(w http.ResponseWriter, req *http.Request) {
	if err := req.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart form data")
		return
	}
	_, header, err := req.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field required")
		return
	}
	title := req.FormValue("title")
	if title == "" {
		title = header.Filename
	}
	rec := map[string]any{
		"id":    uuid.NewString(),
		"title": title,
		"kind":  req.FormValue("kind"),
		"url":   "/media/files/" + header.Filename,
	}
	s.mu.Lock()
	s.data["media"] = append(s.data["media"], rec)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handlePublicList(w http.ResponseWriter, req *http.Request) {
	name := chi.URLParam(req, "collection")
	if !publicCollections[name] {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	s.handleList(name)(w, req)
}

func (s *Server) handlePublicEnquiry(w http.ResponseWriter, req *http.Request) {
	var rec map[string]any
	if err := json.NewDecoder(req.Body).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	rec["id"] = uuid.NewString()
	rec["created_at"] = time.Now().UTC().Format(time.RFC3339)
	s.mu.Lock()
	s.data["enquiries"] = append(s.data["enquiries"], rec)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, rec)
}
