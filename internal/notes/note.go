// Package notes persists notes as flat Markdown files. Daily notes live in
// one directory and are named by date; named notes live in another and get
// a random "n-" id.
package notes

import (
	"errors"
	"strings"
	"time"

	"zone/internal/dates"
)

var (
	ErrNotFound  = errors.New("note not found")
	ErrInvalidID = errors.New("invalid note id")
)

const namedPrefix = "n-"

const dailyTemplate = "# todo\n\n# links"

type Kind int

const (
	KindDaily Kind = iota
	KindNamed
)

func (k Kind) String() string {
	if k == KindNamed {
		return "named"
	}
	return "daily"
}

type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (n Note) Kind() Kind {
	if strings.HasPrefix(n.ID, namedPrefix) {
		return KindNamed
	}
	return KindDaily
}

type Summary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title,omitempty"`
	Slug      string    `json:"slug,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (n Note) Summary() Summary {
	s := Summary{
		ID:        n.ID,
		Title:     n.Title,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
	if n.Title != "" {
		s.Slug = Slugify(n.Title)
	}
	return s
}

// CleanTitle collapses every run of whitespace, line breaks included, to
// one space. A title is a single header line in the note file.
func CleanTitle(title string) string {
	return strings.Join(strings.Fields(title), " ")
}

// Fields is a partial note used by create and update. Nil fields are left
// unchanged.
type Fields struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// KindOf classifies id, rejecting anything that is neither a named id nor
// a date.
func KindOf(id string) (Kind, error) {
	switch {
	case strings.HasPrefix(id, namedPrefix) && len(id) > len(namedPrefix):
		if strings.ContainsAny(id, "/\\.\x00") {
			return 0, ErrInvalidID
		}
		return KindNamed, nil
	case dates.Match(id):
		return KindDaily, nil
	}
	return 0, ErrInvalidID
}
