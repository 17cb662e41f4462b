package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"golang.org/x/sync/errgroup"

	"roomkeeper/internal/audit"
	httpapi "roomkeeper/internal/http"
	"roomkeeper/internal/platform/config"
	"roomkeeper/internal/platform/httpserver"
	"roomkeeper/internal/platform/logger"
	"roomkeeper/internal/platform/postgres"
	platformredis "roomkeeper/internal/platform/redis"
	roomhandler "roomkeeper/internal/rooms/handler"
	roomsmetrics "roomkeeper/internal/rooms/metrics"
	"roomkeeper/internal/rooms/service"
	"roomkeeper/internal/rooms/store"
	"roomkeeper/internal/tasklog"
	tasklohandler "roomkeeper/internal/tasklog/handler"
	tasklogmetrics "roomkeeper/internal/tasklog/metrics"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Domain rules live in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	roomStore, health, closeStore, err := buildStore(ctx, cfg)
	if err != nil {
		log.Error("failed to initialize room store", "backend", cfg.Store, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	auditStore := audit.NewMemoryStore()
	auditPub := audit.NewPublisher(256, log)
	auditWorker := audit.NewWorker(auditStore, auditPub.Inbox())

	roomService := service.New(roomStore,
		service.WithLogger(log),
		service.WithMetrics(roomsmetrics.New()),
		service.WithAudit(auditPub),
	)
	logService := tasklog.New(roomStore,
		tasklog.WithLogger(log),
		tasklog.WithMetrics(tasklogmetrics.New()),
		tasklog.WithAudit(auditPub),
	)

	router := httpapi.NewRouter(log, health,
		roomhandler.New(roomService, log),
		tasklohandler.New(logService, log),
		audit.NewHandler(auditStore),
	)
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting roomkeeper", "addr", cfg.Addr, "store", cfg.Store)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := auditWorker.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

// buildStore selects the room store backend from configuration. The memory
// backend optionally seeds a demo hotel layout so the service runs standalone.
func buildStore(ctx context.Context, cfg config.Server) (store.Store, httpapi.HealthChecker, func(), error) {
	switch cfg.Store {
	case config.StoreRedis:
		client, err := platformredis.New(cfg.Redis)
		if err != nil {
			return nil, nil, nil, err
		}
		st := store.NewRedis(client.Client)
		if cfg.Seed {
			if err := store.SeedRooms(ctx, st); err != nil {
				client.Close()
				return nil, nil, nil, err
			}
		}
		return st, st, func() { client.Close() }, nil

	case config.StorePostgres:
		pool, err := postgres.New(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, nil, err
		}
		if _, err := pool.Exec(ctx, store.Schema); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		st := store.NewPostgres(pool.Pool)
		if cfg.Seed {
			if err := store.SeedRooms(ctx, st); err != nil {
				pool.Close()
				return nil, nil, nil, err
			}
		}
		return st, st, func() { pool.Close() }, nil

	default:
		st := store.NewMemory()
		if cfg.Seed {
			if err := store.SeedRooms(ctx, st); err != nil {
				return nil, nil, nil, err
			}
		}
		return st, nil, func() {}, nil
	}
}
