// Package watch picks up note files changed outside the server, such as
// edits from another editor or a sync tool, and hands them back to the
// store so the index and live clients follow along.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"zone/internal/notes"
	"zone/internal/storage/fs"
)

// Writes the store made itself show up as events too; they are ignored
// for this long.
const selfWriteWindow = time.Second

type Refresher interface {
	Refresh(ctx context.Context, id string) error
}

type Watcher struct {
	fsw      *fsnotify.Watcher
	target   Refresher
	debounce time.Duration
	now      func() time.Time

	mu      sync.Mutex
	pending map[string]*time.Timer
	written map[string]time.Time
}

func New(dirs []string, target Refresher, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}
	return &Watcher{
		fsw:      fsw,
		target:   target,
		debounce: debounce,
		now:      time.Now,
		pending:  map[string]*time.Timer{},
		written:  map[string]time.Time{},
	}, nil
}

// Run handles events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "err", err)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, ev fsnotify.Event) {
	if ev.Op == fsnotify.Chmod {
		return
	}
	id, ok := fs.NoteID(filepath.Base(ev.Name))
	if !ok {
		return
	}
	if _, err := notes.KindOf(id); err != nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if at, ok := w.written[id]; ok && w.now().Sub(at) < selfWriteWindow {
		return
	}
	slog.Debug("note file changed", "id", id, "op", ev.Op.String())
	if t, ok := w.pending[id]; ok {
		t.Stop()
	}
	w.pending[id] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, id)
		w.mu.Unlock()
		if ctx.Err() != nil {
			return
		}
		if err := w.target.Refresh(ctx, id); err != nil {
			slog.Warn("refresh changed note", "id", id, "err", err)
		}
	})
}

func (w *Watcher) close() {
	w.mu.Lock()
	for id, t := range w.pending {
		t.Stop()
		delete(w.pending, id)
	}
	w.mu.Unlock()
	if err := w.fsw.Close(); err != nil {
		slog.Warn("close watcher", "err", err)
	}
}

func (w *Watcher) markWritten(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	now := w.now()
	w.written[id] = now
	// The file event can land before the store reports the write.
	if t, ok := w.pending[id]; ok {
		t.Stop()
		delete(w.pending, id)
	}
	for k, at := range w.written {
		if now.Sub(at) > selfWriteWindow {
			delete(w.written, k)
		}
	}
}

func (w *Watcher) NoteSaved(_ context.Context, n notes.Note) {
	w.markWritten(n.ID)
}

func (w *Watcher) NoteDeleted(_ context.Context, id string) {
	w.markWritten(id)
}
