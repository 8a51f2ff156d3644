package notes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"zone/internal/dates"
	"zone/internal/storage/fs"
)

// Observer is told about every note written or removed, whether through
// the store or picked up from disk.
type Observer interface {
	NoteSaved(ctx context.Context, n Note)
	NoteDeleted(ctx context.Context, id string)
}

type Store struct {
	dailyDir string
	namedDir string
	locker   *fs.Locker
	now      func() time.Time

	mu        sync.RWMutex
	observers []Observer
}

func NewStore(dailyDir, namedDir string) *Store {
	return &Store{
		dailyDir: dailyDir,
		namedDir: namedDir,
		locker:   fs.NewLocker(),
		now:      time.Now,
	}
}

func (s *Store) Init() error {
	for _, dir := range []string{s.dailyDir, s.namedDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create notes dir: %w", err)
		}
		removeStaleTemps(dir)
	}
	slog.Info("notes store ready", "daily", s.dailyDir, "named", s.namedDir)
	return nil
}

// removeStaleTemps deletes temp files left by writes that never finished.
func removeStaleTemps(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() || !fs.IsTempFile(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if err := os.Remove(path); err != nil {
			slog.Warn("remove stale temp file", "path", path, "err", err)
			continue
		}
		slog.Debug("removed stale temp file", "path", path)
	}
}

func (s *Store) Observe(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

func (s *Store) Dirs() (daily, named string) {
	return s.dailyDir, s.namedDir
}

func (s *Store) Path(id string) (string, error) {
	kind, err := KindOf(id)
	if err != nil {
		return "", err
	}
	dir := s.dailyDir
	if kind == KindNamed {
		dir = s.namedDir
	}
	path, err := fs.NoteFilePath(dir, id)
	if err != nil {
		return "", ErrInvalidID
	}
	return path, nil
}

func (s *Store) Get(ctx context.Context, id string) (Note, error) {
	path, err := s.Path(id)
	if err != nil {
		return Note{}, err
	}
	return s.load(path, id)
}

// load reads the note at path. The file name wins over any id in the header.
func (s *Store) load(path, id string) (Note, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Note{}, ErrNotFound
		}
		return Note{}, fmt.Errorf("read note: %w", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return Note{}, fmt.Errorf("stat note: %w", err)
	}
	n := Decode(data, s.now())
	n.ID = id
	if n.UpdatedAt.Before(info.ModTime()) {
		n.UpdatedAt = info.ModTime()
	}
	return n, nil
}

// Create writes a new note. Without a title it creates today's daily note,
// or returns it unchanged if it already exists.
func (s *Store) Create(ctx context.Context, f Fields) (Note, error) {
	now := s.now()
	n := Note{CreatedAt: now, UpdatedAt: now}
	if f.Content != nil {
		n.Content = *f.Content
	}

	title := ""
	if f.Title != nil {
		title = CleanTitle(*f.Title)
	}
	if title == "" {
		n.ID = dates.Format(now)
		if n.Content == "" {
			n.Content = dailyTemplate
		}
		path, err := s.Path(n.ID)
		if err != nil {
			return Note{}, err
		}
		unlock := s.locker.Lock(n.ID)
		defer unlock()
		if existing, err := s.load(path, n.ID); err == nil {
			return existing, nil
		} else if !errors.Is(err, ErrNotFound) {
			return Note{}, err
		}
		if err := s.write(path, n); err != nil {
			return Note{}, err
		}
		s.notifySaved(ctx, n)
		return n, nil
	}

	n.Title = title
	for {
		n.ID = newNamedID()
		path, err := s.Path(n.ID)
		if err != nil {
			return Note{}, err
		}
		if _, err := os.Stat(path); err == nil {
			continue
		}
		unlock := s.locker.Lock(n.ID)
		err = s.write(path, n)
		unlock()
		if err != nil {
			return Note{}, err
		}
		s.notifySaved(ctx, n)
		return n, nil
	}
}

func (s *Store) Update(ctx context.Context, id string, f Fields) (Note, error) {
	path, err := s.Path(id)
	if err != nil {
		return Note{}, err
	}
	unlock := s.locker.Lock(id)
	n, err := s.load(path, id)
	if err != nil {
		unlock()
		return Note{}, err
	}
	if f.Title != nil {
		n.Title = CleanTitle(*f.Title)
	}
	if f.Content != nil {
		n.Content = *f.Content
	}
	n.UpdatedAt = s.now()
	err = s.write(path, n)
	unlock()
	if err != nil {
		return Note{}, err
	}
	s.notifySaved(ctx, n)
	return n, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	path, err := s.Path(id)
	if err != nil {
		return err
	}
	unlock := s.locker.Lock(id)
	err = os.Remove(path)
	unlock()
	if errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	s.notifyDeleted(ctx, id)
	return nil
}

// Refresh re-reads id from disk and tells observers, used when a file was
// changed outside the store.
func (s *Store) Refresh(ctx context.Context, id string) error {
	n, err := s.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		s.notifyDeleted(ctx, id)
		return nil
	}
	if err != nil {
		return err
	}
	s.notifySaved(ctx, n)
	return nil
}

// ListDaily returns daily notes, newest first.
func (s *Store) ListDaily(ctx context.Context) ([]Summary, error) {
	all, err := s.loadDir(ctx, s.dailyDir)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return summaries(all), nil
}

// ListNamed returns named notes, most recently updated first.
func (s *Store) ListNamed(ctx context.Context) ([]Summary, error) {
	all, err := s.loadDir(ctx, s.namedDir)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].UpdatedAt.After(all[j].UpdatedAt)
	})
	return summaries(all), nil
}

func (s *Store) List(ctx context.Context) ([]Summary, error) {
	daily, err := s.ListDaily(ctx)
	if err != nil {
		return nil, err
	}
	named, err := s.ListNamed(ctx)
	if err != nil {
		return nil, err
	}
	return append(daily, named...), nil
}

// All loads every note in both directories.
func (s *Store) All(ctx context.Context) ([]Note, error) {
	daily, err := s.loadDir(ctx, s.dailyDir)
	if err != nil {
		return nil, err
	}
	named, err := s.loadDir(ctx, s.namedDir)
	if err != nil {
		return nil, err
	}
	return append(daily, named...), nil
}

func (s *Store) loadDir(ctx context.Context, dir string) ([]Note, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	out := make([]Note, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() {
			continue
		}
		id, ok := fs.NoteID(e.Name())
		if !ok {
			continue
		}
		if _, err := KindOf(id); err != nil {
			slog.Debug("skip unrecognised note file", "dir", dir, "name", e.Name())
			continue
		}
		n, err := s.load(filepath.Join(dir, e.Name()), id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (s *Store) write(path string, n Note) error {
	if err := fs.WriteFileAtomic(path, Encode(n), 0o644); err != nil {
		return fmt.Errorf("write note %s: %w", n.ID, err)
	}
	return nil
}

func (s *Store) notifySaved(ctx context.Context, n Note) {
	s.mu.RLock()
	observers := append([]Observer(nil), s.observers...)
	s.mu.RUnlock()
	for _, o := range observers {
		o.NoteSaved(ctx, n)
	}
}

func (s *Store) notifyDeleted(ctx context.Context, id string) {
	s.mu.RLock()
	observers := append([]Observer(nil), s.observers...)
	s.mu.RUnlock()
	for _, o := range observers {
		o.NoteDeleted(ctx, id)
	}
}

func summaries(all []Note) []Summary {
	out := make([]Summary, 0, len(all))
	for _, n := range all {
		out = append(out, n.Summary())
	}
	return out
}

func newNamedID() string {
	return namedPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
