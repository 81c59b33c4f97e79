package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Clark-Hu/podcast-registry/internal/config"
	httpserver "github.com/Clark-Hu/podcast-registry/internal/http"
	"github.com/Clark-Hu/podcast-registry/internal/metrics"
	"github.com/Clark-Hu/podcast-registry/internal/migration"
	"github.com/Clark-Hu/podcast-registry/internal/repository"
	"github.com/Clark-Hu/podcast-registry/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := log.New(os.Stdout, "[podcast-registry] ", log.LstdFlags|log.Lshortfile)
	m := metrics.New()

	var (
		repo   *repository.Repository
		health httpserver.HealthChecker
	)
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		if cfg.MigrationsPath != "" {
			if err := migration.New(cfg.MigrationsPath, cfg.DBURL, nil, logger).Up(); err != nil {
				log.Fatalf("migrate database: %v", err)
			}
		}

		dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		st, err := store.New(dbCtx, cfg.DBURL, store.Options{
			MaxConns:               int32(cfg.DBMaxConns),
			MinConns:               int32(cfg.DBMinConns),
			MaxConnIdleTime:        time.Duration(cfg.DBMaxIdleSecs) * time.Second,
			MaxConnLifetime:        time.Duration(cfg.DBMaxLifeSecs) * time.Second,
			ConnTimeout:            time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
			StatementCacheCapacity: cfg.DBStatementCache,
			Logger:                 logger,
		})
		cancel()
		if err != nil {
			log.Fatalf("connect database: %v", err)
		}
		defer st.Close()

		m.RegisterPoolStats(st.Stats)
		repo = repository.New(st)
		health = st
	default:
		logger.Println("storage: using in-memory registry and ledger")
		repo = repository.NewMemory()
	}
	repo = repo.WithAggregateCache(cfg.AggregateCacheTTL(), logger)

	server := httpserver.New(cfg, health, repo, m, logger)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf("server error: %v", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Printf("graceful shutdown error: %v", err)
	}
}
