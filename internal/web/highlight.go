package web

import (
	"net/http"
	"time"

	"zone/internal/highlight"
)

type highlightRequest struct {
	Content string `json:"content"`
}

type highlightResponse struct {
	Lines []string          `json:"lines"`
	Links map[string]string `json:"links"`
	Tree  []highlight.Span  `json:"tree,omitempty"`
}

// handleHighlight renders posted text for the editor overlay: one HTML
// string per line plus the links found. ?tree=1 adds the span tree.
func (s *Server) handleHighlight(w http.ResponseWriter, r *http.Request) {
	var req highlightRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	start := time.Now()
	spans, meta := highlight.HighlightLinks(req.Content)
	resp := highlightResponse{
		Lines: highlight.HTMLLines(spans),
		Links: meta.Links,
	}
	s.metrics.ObserveHighlight(len(spans), time.Since(start))
	if r.URL.Query().Get("tree") == "1" {
		resp.Tree = spans
	}
	writeJSON(w, http.StatusOK, resp)
}
