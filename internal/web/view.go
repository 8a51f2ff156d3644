package web

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"zone/internal/dates"
	"zone/internal/notes"
	"zone/internal/render"
)

//go:embed templates/*.html
var templateFS embed.FS

var views = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type viewData struct {
	Title     string
	UpdatedAt time.Time
	Body      template.HTML
	CodeCSS   template.CSS
}

func noteTitle(n notes.Note) string {
	if n.Title != "" {
		return n.Title
	}
	if pretty, err := dates.Pretty(n.ID); err == nil {
		return pretty
	}
	return n.ID
}

// handleViewNote renders a note as a standalone read-only HTML page.
func (s *Server) handleViewNote(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	body, err := render.Markdown(n.Content)
	if err != nil {
		writeError(w, r, err)
		return
	}
	data := viewData{
		Title:     noteTitle(n),
		UpdatedAt: n.UpdatedAt.Local(),
		Body:      template.HTML(body),
		CodeCSS:   template.CSS(render.CodeCSS()),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := views.ExecuteTemplate(w, "view.html", data); err != nil {
		slog.Error("render view", "id", n.ID, "err", err)
	}
}
