package fs

import (
	"errors"
	"path/filepath"
	"strings"
)

var ErrUnsafePath = errors.New("unsafe path")

const noteExt = ".md"

// NoteFilePath joins dir with the file name for note id. The id must be a
// single path element.
func NoteFilePath(dir, id string) (string, error) {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, "/\\\x00") {
		return "", ErrUnsafePath
	}
	full := filepath.Join(dir, EnsureMDExt(id))
	if filepath.Dir(full) != filepath.Clean(dir) {
		return "", ErrUnsafePath
	}
	return full, nil
}

// NoteID returns the id for a note file name, skipping dot files and
// non-markdown files.
func NoteID(name string) (string, bool) {
	if strings.HasPrefix(name, ".") {
		return "", false
	}
	if !strings.HasSuffix(strings.ToLower(name), noteExt) {
		return "", false
	}
	return name[:len(name)-len(noteExt)], true
}

func EnsureMDExt(p string) string {
	if strings.HasSuffix(strings.ToLower(p), noteExt) {
		return p
	}
	return p + noteExt
}
