package index

import (
	"context"
	"strings"
	"time"

	"zone/internal/highlight"
)

type SearchResult struct {
	ID      string `json:"id"`
	Title   string `json:"title,omitempty"`
	Snippet string `json:"snippet"`
}

type Link struct {
	NoteID string `json:"note_id"`
	URL    string `json:"url"`
	Text   string `json:"text"`
}

type Task struct {
	NoteID    string    `json:"note_id"`
	Title     string    `json:"title,omitempty"`
	LineNo    int       `json:"line_no"`
	State     string    `json:"state"`
	Text      string    `json:"text"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ftsQuery quotes every term so user input never trips the FTS5 query
// syntax. The last term is a prefix match.
func ftsQuery(q string) string {
	terms := strings.Fields(q)
	for n, t := range terms {
		terms[n] = `"` + strings.ReplaceAll(t, `"`, `""`) + `"`
	}
	if len(terms) > 0 {
		terms[len(terms)-1] += "*"
	}
	return strings.Join(terms, " ")
}

func (i *Index) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := i.queryContext(ctx, `
		SELECT id, title, snippet(fts, 2, '[', ']', '...', 10)
		FROM fts WHERE fts MATCH ?
		ORDER BY rank
		LIMIT ?`, ftsQuery(query), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.ID, &r.Title, &r.Snippet); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// Links returns every link recorded across all notes, most recently
// updated note first.
func (i *Index) Links(ctx context.Context) ([]Link, error) {
	rows, err := i.queryContext(ctx, `
		SELECT links.note_id, links.url, links.text
		FROM links
		JOIN notes ON notes.id = links.note_id
		ORDER BY notes.updated_at DESC, links.url ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Link
	for rows.Next() {
		var l Link
		if err := rows.Scan(&l.NoteID, &l.URL, &l.Text); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// OpenTasks lists todo and in-progress lines, newest notes first.
func (i *Index) OpenTasks(ctx context.Context, limit int) ([]Task, error) {
	if limit <= 0 {
		limit = 200
	}
	rows, err := i.queryContext(ctx, `
		SELECT tasks.note_id, notes.title, tasks.line_no, tasks.state, tasks.text, notes.updated_at
		FROM tasks
		JOIN notes ON notes.id = tasks.note_id
		WHERE tasks.state != ?
		ORDER BY notes.updated_at DESC, tasks.note_id, tasks.line_no
		LIMIT ?`, highlight.TypeTodoDone, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		var t Task
		var updated int64
		if err := rows.Scan(&t.NoteID, &t.Title, &t.LineNo, &t.State, &t.Text, &updated); err != nil {
			return nil, err
		}
		t.UpdatedAt = time.Unix(updated, 0).Local()
		out = append(out, t)
	}
	return out, rows.Err()
}

func (i *Index) Count(ctx context.Context) (int, error) {
	var n int
	err := i.queryRowScan(ctx, "SELECT COUNT(*) FROM notes", nil, &n)
	return n, err
}
