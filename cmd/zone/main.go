package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"zone/internal/config"
	"zone/internal/index"
	"zone/internal/logging"
	"zone/internal/metrics"
	"zone/internal/notes"
	"zone/internal/schedule"
	"zone/internal/storage/fs"
	"zone/internal/watch"
	"zone/internal/web"
)

// buildVersion is set with -ldflags "-X main.buildVersion=...".
var buildVersion string

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	flag.Parse()

	closeLog := logging.Setup(os.Stdout, logging.OptionsFromEnv())
	err := run(*configPath)
	if err != nil {
		slog.Error("fatal", "err", err)
	}
	closeLog()
	if err != nil {
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	version := strings.TrimSpace(buildVersion)
	if version == "" {
		version = "dev"
	}
	slog.Info("startup", "build_version", version, "daily", cfg.DailyDir, "named", cfg.NamedDir)
	index.SetBuildVersion(buildVersion)

	lock, err := fs.LockDir(cfg.DataDir, cfg.DBLockTimeout)
	if err != nil {
		return err
	}
	defer lock.Release()

	store := notes.NewStore(cfg.DailyDir, cfg.NamedDir)
	if err := store.Init(); err != nil {
		return err
	}

	idx, err := index.Open(filepath.Join(cfg.DataDir, "index.sqlite"))
	if err != nil {
		return err
	}
	defer idx.Close()
	idx.SetLockTimeout(cfg.DBLockTimeout)

	initCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = idx.Init(initCtx, store)
	cancel()
	if err != nil {
		return err
	}
	store.Observe(idx)

	var rec *metrics.Recorder
	if cfg.Metrics {
		rec = metrics.New()
		store.Observe(rec)
	}

	checker, err := web.NewChecker(cfg)
	if err != nil {
		return err
	}
	if checker == nil {
		slog.Warn("auth disabled", "listen", cfg.ListenAddr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Watch {
		daily, named := store.Dirs()
		w, err := watch.New([]string{daily, named}, store, cfg.WatchDebounce)
		if err != nil {
			return err
		}
		store.Observe(w)
		go func() {
			if err := w.Run(ctx); err != nil {
				slog.Error("watcher stopped", "err", err)
			}
		}()
	}

	sched, err := schedule.New(store, cfg.DailySchedule)
	if err != nil {
		return err
	}
	sched.Start()
	defer func() {
		if err := sched.Stop(); err != nil {
			slog.Warn("stop scheduler", "err", err)
		}
	}()

	srv := web.NewServer(web.Options{
		Store:     store,
		Index:     idx,
		PublicDir: cfg.PublicDir,
		Auth:      checker,
		Metrics:   rec,
	})
	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	httpServer.RegisterOnShutdown(srv.Shutdown)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", cfg.ListenAddr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Warn("http shutdown", "err", err)
		}
	}
	return nil
}
