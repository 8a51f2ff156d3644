// Package schedule makes sure today's daily note exists: once at startup
// and again every time the cron expression fires (midnight by default).
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"zone/internal/notes"
)

type Creator interface {
	Create(ctx context.Context, f notes.Fields) (notes.Note, error)
}

type Scheduler struct {
	scheduler gocron.Scheduler
	creator   Creator
	timeout   time.Duration
}

func New(creator Creator, cronExpr string) (*Scheduler, error) {
	s, err := gocron.NewScheduler(gocron.WithLocation(time.Local))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	sc := &Scheduler{scheduler: s, creator: creator, timeout: 30 * time.Second}
	_, err = s.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(sc.run),
		gocron.WithName("ensure-daily-note"),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("schedule daily note %q: %w", cronExpr, err)
	}
	return sc, nil
}

func (s *Scheduler) Start() {
	slog.Info("starting scheduler")
	s.scheduler.Start()
}

func (s *Scheduler) Stop() error {
	slog.Info("stopping scheduler")
	return s.scheduler.Shutdown()
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if _, err := EnsureDaily(ctx, s.creator); err != nil {
		slog.Error("ensure daily note", "err", err)
	}
}

// EnsureDaily creates today's daily note from the template, or returns the
// one that already exists.
func EnsureDaily(ctx context.Context, c Creator) (notes.Note, error) {
	n, err := c.Create(ctx, notes.Fields{})
	if err != nil {
		return notes.Note{}, err
	}
	slog.Info("daily note ready", "id", n.ID)
	return n, nil
}
