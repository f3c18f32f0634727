package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"task-tracker/internal/config"
	"task-tracker/internal/db"
	"task-tracker/internal/logger"
	"task-tracker/internal/server"
	"task-tracker/internal/store"
)

// shutdownTimeout is how long in-flight requests get to finish.
const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "service=backend msg=%q err=%v\n", "config_invalid", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "service=backend msg=%q err=%v\n", "logger_init_failed", err)
		os.Exit(1)
	}

	// SIGINT (Ctrl+C) or SIGTERM (container stop) starts a graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("backend_exit", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	log.Info("shutdown_complete")
	_ = log.Sync()
}

// run opens the database, brings the schema up and serves HTTP until ctx is
// cancelled. The listener is not opened unless the schema is ready.
func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	pool, err := db.OpenDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = pool.Close() }()

	schema := db.NewInitializer(pool, cfg.Database.URL(), cfg.Schema, log)
	if err := schema.Run(ctx); err != nil {
		return err
	}

	metrics := server.NewMetrics(cfg.AppVersion)
	metrics.MustRegister(collectors.NewDBStatsCollector(pool, cfg.Database.Name))

	srv := server.New(server.Config{
		Addr:      cfg.Addr(),
		StaticDir: cfg.Server.StaticDir,
		Version:   cfg.AppVersion,
		RateLimit: cfg.RateLimit,
	}, server.Deps{
		Employees: store.NewEmployees(pool),
		Tasks:     store.NewTasks(pool),
		History:   store.NewHistory(pool),
		DB:        pool,
		Schema:    schema,
		Log:       log,
		Metrics:   metrics,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting_down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
