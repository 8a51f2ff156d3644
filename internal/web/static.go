package web

import (
	"errors"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var mimeTypes = map[string]string{
	".html": "text/html",
	".css":  "text/css",
	".js":   "text/javascript",
	".mjs":  "text/javascript",
	".json": "application/json",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".ico":  "image/x-icon",
}

func contentType(name string) string {
	if ct, ok := mimeTypes[strings.ToLower(path.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// handleStatic serves the client from the public dir. A directory path
// serves its index.html and a path with no extension is redirected to
// the directory form.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	if s.public == "" {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	p := path.Clean("/" + r.URL.Path)
	if strings.HasSuffix(r.URL.Path, "/") {
		index := path.Join(p, "index.html")
		if fileExists(s.publicPath(index)) {
			s.serveFile(w, r, index)
			return
		}
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if path.Ext(p) == "" {
		http.Redirect(w, r, p+"/", http.StatusMovedPermanently)
		return
	}
	s.serveFile(w, r, p)
}

func (s *Server) publicPath(p string) string {
	return filepath.Join(s.public, filepath.FromSlash(p))
}

func (s *Server) serveFile(w http.ResponseWriter, r *http.Request, p string) {
	f, err := os.Open(s.publicPath(p))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			writeError(w, r, err)
			return
		}
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", contentType(p))
	http.ServeContent(w, r, "", info.ModTime(), f)
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
