package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/dom/catalog-facade/internal/api"
	"github.com/dom/catalog-facade/internal/config"
	"github.com/dom/catalog-facade/internal/logging"
	"github.com/dom/catalog-facade/internal/repository/postgres"
	"github.com/dom/catalog-facade/internal/service"
	"github.com/dom/catalog-facade/internal/snapshot"
	"github.com/dom/catalog-facade/internal/upstream"
)

func main() {
	boot := logging.Bootstrap()

	cfg, err := config.Load()
	if err != nil {
		boot.Fatal("failed to load config", zap.Error(err))
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		boot.Fatal("failed to build logger", zap.Error(err))
	}
	defer logger.Sync()

	// Load the fallback snapshot before serving any traffic
	snap, err := loadSnapshot(cfg)
	if err != nil {
		logger.Fatal("failed to load fallback snapshot", zap.Error(err))
	}
	for _, kind := range snap.Kinds() {
		logger.Info("fallback snapshot loaded", zap.String("kind", string(kind)), zap.Int("entities", snap.Len(kind)))
	}

	remote := upstream.NewClient(cfg.RemoteBaseURL,
		upstream.WithTimeout(cfg.UpstreamTimeout),
		upstream.WithCoalescing(cfg.CoalesceRemote),
		upstream.WithLogger(logger.Named("upstream")),
	)
	if !remote.Enabled() {
		logger.Warn("REMOTE_BASE_URL not set, serving from fallback snapshot only")
	}

	services := service.NewServices(remote, snap, cfg, logger)
	router := api.NewRouter(services, cfg, logger)

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port), zap.String("remote", cfg.RemoteBaseURL))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

func loadSnapshot(cfg *config.Config) (*snapshot.Snapshot, error) {
	if cfg.SnapshotSource != config.SnapshotPostgres {
		return snapshot.Bundled()
	}

	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	defer sqlDB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	records, err := postgres.NewRepositories(db).SnapshotRecord.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.FromRecords(records)
}
