package web

import (
	"net/http"
	"strconv"
	"strings"

	"zone/internal/index"
)

func queryLimit(r *http.Request, fallback int) int {
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.idx == nil {
		http.Error(w, "search index disabled", http.StatusServiceUnavailable)
		return
	}
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	results, err := s.idx.Search(r.Context(), query, queryLimit(r, 50))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if results == nil {
		results = []index.SearchResult{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"query": query, "results": results})
}

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	if s.idx == nil {
		http.Error(w, "search index disabled", http.StatusServiceUnavailable)
		return
	}
	tasks, err := s.idx.OpenTasks(r.Context(), queryLimit(r, 200))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if tasks == nil {
		tasks = []index.Task{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

func (s *Server) handleLinks(w http.ResponseWriter, r *http.Request) {
	if s.idx == nil {
		http.Error(w, "search index disabled", http.StatusServiceUnavailable)
		return
	}
	links, err := s.idx.Links(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if links == nil {
		links = []index.Link{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"links": links})
}
