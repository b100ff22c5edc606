// Package main is the entry point for the Patro API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
	_ "time/tzdata" // ?tz= lookups without a system zoneinfo

	"golang.org/x/sync/errgroup"

	"github.com/zapponejosh/patro-api/internal/api"
	"github.com/zapponejosh/patro-api/internal/calendar"
	"github.com/zapponejosh/patro-api/internal/config"
	"github.com/zapponejosh/patro-api/internal/database"
	"github.com/zapponejosh/patro-api/internal/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Setup structured logging
	log := logger.Setup(cfg)

	// Log startup info
	log.Info("starting patro API",
		slog.String("env", cfg.Env),
		slog.Int("port", cfg.Port),
		slog.String("calendar_source", cfg.CalendarSource),
		slog.String("log_level", cfg.LogLevel),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("patro API stopped")
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	db, err := setupCalendar(ctx, cfg, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	handlers := api.NewHandlers(db, cfg, log)
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           api.SetupRoutes(handlers, cfg, log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("patro API ready", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// setupCalendar installs the process-wide converter. With the sqlite source
// the almanac is read from the database, which is returned for the admin
// endpoints; otherwise the embedded almanac is used and db is nil.
func setupCalendar(ctx context.Context, cfg *config.Config, log *slog.Logger) (*database.DB, error) {
	var (
		table *calendar.Table
		db    *database.DB
		err   error
	)

	if cfg.UsesDatabase() {
		db, err = database.Open(ctx, database.DefaultConfig(cfg.DatabasePath), log)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		if _, err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		table, err = db.LoadTable(ctx)
		if database.IsNotFound(err) {
			db.Close()
			return nil, fmt.Errorf("almanac table is empty; load one with cmd/import")
		}
	} else {
		table, err = calendar.EmbeddedTable()
	}
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, fmt.Errorf("load almanac: %w", err)
	}

	if err := calendar.Install(calendar.NewConverter(table, cfg.CacheSize)); err != nil {
		if db != nil {
			db.Close()
		}
		return nil, fmt.Errorf("install calendar: %w", err)
	}

	log.Info("calendar ready",
		slog.String("source", cfg.CalendarSource),
		slog.Int("min_year", table.MinYear()),
		slog.Int("max_year", table.MaxYear()),
		slog.Int("cache_size", cfg.CacheSize),
	)
	return db, nil
}
