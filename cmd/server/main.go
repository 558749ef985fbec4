package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/barkeep/barkeep/internal/config"
	"github.com/barkeep/barkeep/internal/domain/bar"
	"github.com/barkeep/barkeep/internal/refresh"
	"github.com/barkeep/barkeep/internal/sqlite"
	"github.com/barkeep/barkeep/internal/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	barRepo := sqlite.NewBarRepository(db)
	barSvc := bar.NewService(barRepo, nil, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scheduler := startStatusSync(ctx, barSvc, cfg.Refresh.Interval, logger)
	defer scheduler.Stop()

	router := transport.NewServer(barSvc, logger)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: router}

	go func() {
		logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

// startStatusSync runs a batch scheduler over all persisted bars so that
// completion and overdue flags flip in the store shortly after they flip in
// time, even with no client attached.
func startStatusSync(ctx context.Context, svc *bar.Service, interval time.Duration, logger *slog.Logger) *refresh.BatchScheduler {
	bars, err := svc.List(ctx)
	if err != nil {
		logger.Error("failed to load bars for status sync", "error", err)
		bars = nil
	}

	scheduler := refresh.NewBatchScheduler(bars, nil, nil, logger)
	if interval > 0 {
		scheduler.SetInterval(interval)
	}

	scheduler.OnUpdate(func(map[string]bar.ProgressCalculation) {
		// Runs on a fresh goroutine: the callback itself executes under the
		// scheduler's lock and SetBars re-enters it.
		go func() {
			current, err := svc.List(ctx)
			if err != nil {
				logger.Error("status sync list failed", "error", err)
				return
			}
			for i := range current {
				if _, err := svc.SyncStatus(ctx, &current[i]); err != nil {
					logger.Error("status sync failed", "id", current[i].ID, "error", err)
				}
			}
			scheduler.SetBars(current)
		}()
	})
	scheduler.Start()
	return scheduler
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func ensureDBDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
