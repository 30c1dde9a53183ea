// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the folio HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Build the media-library client.
//  4. Connect to Redis when configured, else keep view snapshots in memory.
//  5. Wire services and HTTP handlers.
//  6. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/folio/internal/api"
	"github.com/taibuivan/folio/internal/entity"
	"github.com/taibuivan/folio/internal/library"
	"github.com/taibuivan/folio/internal/overview"
	"github.com/taibuivan/folio/internal/platform/config"
	"github.com/taibuivan/folio/internal/platform/constants"
	redisstore "github.com/taibuivan/folio/internal/platform/redis"
	"github.com/taibuivan/folio/internal/reader"
	"github.com/taibuivan/folio/internal/upstream"
	"github.com/taibuivan/folio/internal/view"
	"github.com/taibuivan/folio/pkg/clock"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("upstream", cfg.UpstreamURL),
	)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Media Library ──────────────────────────────────────────────────
	client, err := upstream.New(cfg.UpstreamURL, cfg.UpstreamTimeout, log)
	must(log, err, "build upstream client")

	// ── 4. Snapshot Store ─────────────────────────────────────────────────
	var snapshots view.SnapshotStore = view.NewMemorySnapshotStore(clock.Real())
	health := api.HealthDependencies{CheckUpstream: client.Ping}

	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing_redis_client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis_close_failed", slog.Any("error", cerr))
			}
		}()

		snapshots = view.NewRedisSnapshotStore(rdb)
		health.CheckCache = func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		}
	} else {
		log.Warn("redis_disabled", slog.String("snapshots", "memory"))
	}

	// ── 5. Domain Wiring ──────────────────────────────────────────────────
	viewService := view.NewService(client, snapshots, view.Settings{
		PageSize:    cfg.PageSize,
		RowHeight:   cfg.RowHeight,
		Gap:         cfg.Gap,
		IdleDesktop: cfg.IdleDesktop,
		IdleTouch:   cfg.IdleTouch,
		TTL:         cfg.ViewTTL,
	}, clock.Real(), log)
	readerService := reader.NewService(client, cfg.IdleReader, cfg.ReaderTTL, clock.Real(), log)
	entityService := entity.NewService(client, log)
	overviewService := overview.NewService(client, log)
	libraryService := library.NewService(client, log)

	liveness, readiness := api.NewHealthHandlers(health, log)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		View:      view.NewHandler(viewService),
		Reader:    reader.NewHandler(readerService),
		Entity:    entity.NewHandler(entityService),
		Overview:  overview.NewHandler(overviewService),
		Library:   library.NewHandler(libraryService),
	}

	// The root context stops background middleware work on shutdown.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	server := api.NewServer(rootCtx, cfg, log, handlers)

	// ── 6. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_failed", slog.Any("error", err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting_down_server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_failed", slog.Any("error", err))
	}

	// Views are persisted before their timers stop so they restore after restart.
	closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer closeCancel()
	viewService.Close(closeCtx)
	readerService.CloseAll()

	log.Info("server_stopped_cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
