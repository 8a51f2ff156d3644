// Package index keeps a sqlite side index of the notes directory: full
// text search, every link recorded by the highlighter, and todo lines.
// The files stay the source of truth; the index can always be rebuilt.
package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"zone/internal/highlight"
	"zone/internal/notes"
)

type Index struct {
	db          *sql.DB
	lockTimeout time.Duration
}

// Source lists every note the index should contain.
type Source interface {
	All(ctx context.Context) ([]notes.Note, error)
}

func Open(path string) (*Index, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(2000)")
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	db.SetMaxOpenConns(4)
	return &Index{db: db, lockTimeout: 5 * time.Second}, nil
}

func (i *Index) SetLockTimeout(d time.Duration) {
	i.lockTimeout = d
}

func (i *Index) Close() error {
	if i.db == nil {
		return nil
	}
	return i.db.Close()
}

// Init creates the schema and brings the index in line with src. A schema
// version change drops everything and rebuilds.
func (i *Index) Init(ctx context.Context, src Source) error {
	version, err := i.schemaVersion(ctx)
	if err != nil {
		return err
	}
	if version != schemaVersion {
		for _, stmt := range dropSQL {
			if _, err := i.execContext(ctx, stmt); err != nil {
				return fmt.Errorf("drop old schema: %w", err)
			}
		}
	}
	if _, err := i.execContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if version != schemaVersion {
		if err := i.setSchemaVersion(ctx, schemaVersion); err != nil {
			return err
		}
	}
	all, err := src.All(ctx)
	if err != nil {
		return fmt.Errorf("list notes: %w", err)
	}
	if version != schemaVersion {
		return i.Rebuild(ctx, all)
	}
	return i.Reconcile(ctx, all)
}

func (i *Index) schemaVersion(ctx context.Context) (int, error) {
	if _, err := i.execContext(ctx, "CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)"); err != nil {
		return 0, err
	}
	var v int
	err := i.queryRowScan(ctx, "SELECT version FROM schema_version LIMIT 1", nil, &v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return v, nil
}

func (i *Index) setSchemaVersion(ctx context.Context, v int) error {
	return i.inTx(ctx, "schema-version", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM schema_version"); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, "INSERT INTO schema_version(version) VALUES(?)", v)
		return err
	})
}

// Rebuild clears the index and indexes every note in all.
func (i *Index) Rebuild(ctx context.Context, all []notes.Note) error {
	start := time.Now()
	err := i.inTx(ctx, "rebuild-clear", func(tx *sql.Tx) error {
		for _, table := range []string{"notes", "links", "tasks", "fts"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("clear index: %w", err)
	}
	for _, n := range all {
		if err := i.IndexNote(ctx, n); err != nil {
			return err
		}
	}
	slog.Info("index rebuilt", "notes", len(all), "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// Reconcile indexes changed notes and drops rows for notes no longer in all.
func (i *Index) Reconcile(ctx context.Context, all []notes.Note) error {
	hashes, err := i.hashes(ctx)
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(all))
	changed := 0
	for _, n := range all {
		seen[n.ID] = true
		if hashes[n.ID] == ContentHash(n.Title, n.Content) {
			continue
		}
		if err := i.IndexNote(ctx, n); err != nil {
			return err
		}
		changed++
	}
	removed := 0
	for id := range hashes {
		if seen[id] {
			continue
		}
		if err := i.RemoveNote(ctx, id); err != nil {
			return err
		}
		removed++
	}
	slog.Info("index reconciled", "notes", len(all), "changed", changed, "removed", removed)
	return nil
}

func (i *Index) hashes(ctx context.Context) (map[string]string, error) {
	rows, err := i.queryContext(ctx, "SELECT id, hash FROM notes")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var id, hash string
		if err := rows.Scan(&id, &hash); err != nil {
			return nil, err
		}
		out[id] = hash
	}
	return out, rows.Err()
}

// IndexNote stores n with the links and todos the highlighter finds in it.
// A note whose content hash is unchanged is skipped.
func (i *Index) IndexNote(ctx context.Context, n notes.Note) error {
	hash := ContentHash(n.Title, n.Content)
	var existing string
	err := i.queryRowScan(ctx, "SELECT hash FROM notes WHERE id=?", []any{n.ID}, &existing)
	if err == nil && existing == hash {
		return i.touch(ctx, n)
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	meta := highlight.NewMeta()
	todos := highlight.Todos(highlight.Parse(n.Content, meta))

	err = i.inTx(ctx, "index-note", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO notes(id, kind, title, hash, created_at, updated_at)
			VALUES(?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				kind=excluded.kind, title=excluded.title, hash=excluded.hash,
				created_at=excluded.created_at, updated_at=excluded.updated_at`,
			n.ID, n.Kind().String(), n.Title, hash, n.CreatedAt.Unix(), n.UpdatedAt.Unix(),
		); err != nil {
			return err
		}
		for _, stmt := range []string{
			"DELETE FROM links WHERE note_id=?",
			"DELETE FROM tasks WHERE note_id=?",
			"DELETE FROM fts WHERE id=?",
		} {
			if _, err := tx.ExecContext(ctx, stmt, n.ID); err != nil {
				return err
			}
		}
		for url, text := range meta.Links {
			if _, err := tx.ExecContext(ctx,
				"INSERT OR REPLACE INTO links(note_id, url, text) VALUES(?, ?, ?)",
				n.ID, highlight.StripDelimiters(url), highlight.StripDelimiters(text),
			); err != nil {
				return err
			}
		}
		for _, todo := range todos {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO tasks(note_id, line_no, state, text) VALUES(?, ?, ?, ?)",
				n.ID, todo.LineNo, todo.State, todo.Text,
			); err != nil {
				return err
			}
		}
		_, err := tx.ExecContext(ctx, "INSERT INTO fts(id, title, body) VALUES(?, ?, ?)", n.ID, n.Title, n.Content)
		return err
	})
	if err != nil {
		return fmt.Errorf("index note %s: %w", n.ID, err)
	}
	slog.Debug("note indexed", "id", n.ID, "links", len(meta.Links), "tasks", len(todos))
	return nil
}

func (i *Index) touch(ctx context.Context, n notes.Note) error {
	_, err := i.execContext(ctx, "UPDATE notes SET updated_at=? WHERE id=?", n.UpdatedAt.Unix(), n.ID)
	return err
}

func (i *Index) RemoveNote(ctx context.Context, id string) error {
	err := i.inTx(ctx, "remove-note", func(tx *sql.Tx) error {
		for _, stmt := range []string{
			"DELETE FROM notes WHERE id=?",
			"DELETE FROM links WHERE note_id=?",
			"DELETE FROM tasks WHERE note_id=?",
			"DELETE FROM fts WHERE id=?",
		} {
			if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("remove note %s: %w", id, err)
	}
	return nil
}

// NoteSaved and NoteDeleted let the index follow a notes.Store.
func (i *Index) NoteSaved(ctx context.Context, n notes.Note) {
	if err := i.IndexNote(context.WithoutCancel(ctx), n); err != nil {
		slog.Error("index note failed", "id", n.ID, "err", err)
	}
}

func (i *Index) NoteDeleted(ctx context.Context, id string) {
	if err := i.RemoveNote(context.WithoutCancel(ctx), id); err != nil {
		slog.Error("remove note from index failed", "id", id, "err", err)
	}
}
