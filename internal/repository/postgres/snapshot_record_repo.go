package postgres

import (
	"context"

	"github.com/dom/catalog-facade/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type snapshotRecordRepository struct {
	db *gorm.DB
}

func NewSnapshotRecordRepository(db *gorm.DB) *snapshotRecordRepository {
	return &snapshotRecordRepository{db: db}
}

func (r *snapshotRecordRepository) UpsertMany(ctx context.Context, records []*domain.SnapshotRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kind"}, {Name: "id"}},
		UpdateAll: true,
	}).CreateInBatches(records, 200).Error
}

func (r *snapshotRecordRepository) GetAll(ctx context.Context) ([]*domain.SnapshotRecord, error) {
	var records []*domain.SnapshotRecord
	err := r.db.WithContext(ctx).Order("kind ASC, position ASC").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *snapshotRecordRepository) CountByKind(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Kind  string
		Count int64
	}
	err := r.db.WithContext(ctx).
		Model(&domain.SnapshotRecord{}).
		Select("kind, count(*) AS count").
		Group("kind").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Kind] = row.Count
	}
	return counts, nil
}
