// Package web serves the notes JSON API, the highlighter endpoint, live
// change events and the static editor client.
package web

import (
	"net/http"
	"sync"

	"zone/internal/auth"
	"zone/internal/index"
	"zone/internal/metrics"
	"zone/internal/notes"
)

type Options struct {
	Store     *notes.Store
	Index     *index.Index
	PublicDir string
	Auth      auth.Checker
	Metrics   *metrics.Recorder
}

type Server struct {
	store   *notes.Store
	idx     *index.Index
	public  string
	auth    auth.Checker
	metrics *metrics.Recorder
	events  *hub
	mux     *http.ServeMux

	closeOnce sync.Once
	closing   chan struct{}
}

// NewServer wires the routes and subscribes the live event hub to the store.
func NewServer(opts Options) *Server {
	s := &Server{
		store:   opts.Store,
		idx:     opts.Index,
		public:  opts.PublicDir,
		auth:    opts.Auth,
		metrics: opts.Metrics,
		events:  newHub(),
		mux:     http.NewServeMux(),
		closing: make(chan struct{}),
	}
	s.store.Observe(s.events)
	s.routes()
	return s
}

// Shutdown ends every open /events stream. Register it with
// http.Server.RegisterOnShutdown, which does not cancel request contexts.
func (s *Server) Shutdown() {
	s.closeOnce.Do(func() { close(s.closing) })
}

func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	if s.auth != nil {
		h = requireAuth(s.auth, h)
	}
	return s.logRequests(h)
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /notes", s.handleListNotes)
	s.mux.HandleFunc("POST /notes", s.handleCreateNote)
	s.mux.HandleFunc("GET /notes/daily", s.handleListDaily)
	s.mux.HandleFunc("GET /notes/named", s.handleListNamed)
	s.mux.HandleFunc("GET /notes/{id}", s.handleGetNote)
	s.mux.HandleFunc("PUT /notes/{id}", s.handleUpdateNote)
	s.mux.HandleFunc("DELETE /notes/{id}", s.handleDeleteNote)
	s.mux.HandleFunc("GET /notes/{id}/links", s.handleNoteLinks)
	s.mux.HandleFunc("GET /notes/{id}/view", s.handleViewNote)

	s.mux.HandleFunc("POST /highlight", s.handleHighlight)

	s.mux.HandleFunc("GET /search", s.handleSearch)
	s.mux.HandleFunc("GET /tasks", s.handleTasks)
	s.mux.HandleFunc("GET /links", s.handleLinks)

	s.mux.HandleFunc("GET /events", s.handleEvents)
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics.Handler())
	}

	s.mux.HandleFunc("GET /", s.handleStatic)
}
