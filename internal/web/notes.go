package web

import (
	"net/http"

	"zone/internal/highlight"
	"zone/internal/notes"
)

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleListDaily(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.ListDaily(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleListNamed(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.ListNamed(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var f notes.Fields
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &f); err != nil {
			writeError(w, r, err)
			return
		}
	}
	n, err := s.store.Create(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	var f notes.Fields
	if err := decodeJSON(w, r, &f); err != nil {
		writeError(w, r, err)
		return
	}
	n, err := s.store.Update(r.Context(), r.PathValue("id"), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleNoteLinks runs the highlighter over the stored note with a fresh
// link registry and returns what it recorded.
func (s *Server) handleNoteLinks(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	meta := highlight.NewMeta()
	highlight.Parse(n.Content, meta)
	writeJSON(w, http.StatusOK, meta)
}
