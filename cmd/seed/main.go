package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dom/catalog-facade/internal/config"
	"github.com/dom/catalog-facade/internal/logging"
	"github.com/dom/catalog-facade/internal/repository/postgres"
	"github.com/dom/catalog-facade/internal/snapshot"
)

// seed copies the bundled fallback snapshot into Postgres so servers can
// start with SNAPSHOT_SOURCE=postgres.
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

	snap, err := snapshot.Bundled()
	if err != nil {
		logger.Fatal("failed to load bundled snapshot", zap.Error(err))
	}

	records, err := snap.Records()
	if err != nil {
		logger.Fatal("failed to encode snapshot", zap.Error(err))
	}

	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	repos := postgres.NewRepositories(db)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := repos.SnapshotRecord.UpsertMany(ctx, records); err != nil {
		logger.Fatal("failed to upsert snapshot records", zap.Error(err))
	}

	counts, err := repos.SnapshotRecord.CountByKind(ctx)
	if err != nil {
		logger.Fatal("failed to count snapshot records", zap.Error(err))
	}
	for kind, n := range counts {
		logger.Info("seeded", zap.String("kind", kind), zap.Int64("records", n))
	}
}
