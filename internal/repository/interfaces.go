package repository

import (
	"context"

	"github.com/dom/catalog-facade/internal/domain"
)

// SnapshotRecordRepository persists the fallback dataset for the static data
// loader. The serving path only reads it once, at start.
type SnapshotRecordRepository interface {
	UpsertMany(ctx context.Context, records []*domain.SnapshotRecord) error
	GetAll(ctx context.Context) ([]*domain.SnapshotRecord, error)
	CountByKind(ctx context.Context) (map[string]int64, error)
}

type Repositories struct {
	SnapshotRecord SnapshotRecordRepository
}
