package snapshot

import (
	"encoding/json"
	"fmt"
	"sort"

	"gorm.io/datatypes"

	"github.com/dom/catalog-facade/internal/domain"
)

// FromRecords rebuilds a snapshot from persisted records, ordered by position.
func FromRecords(records []*domain.SnapshotRecord) (*Snapshot, error) {
	sorted := make([]*domain.SnapshotRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Kind != sorted[j].Kind {
			return sorted[i].Kind < sorted[j].Kind
		}
		return sorted[i].Position < sorted[j].Position
	})

	raw := make(map[domain.Kind][]map[string]any)
	for _, rec := range sorted {
		kind, err := domain.ParseKind(rec.Kind)
		if err != nil {
			return nil, fmt.Errorf("snapshot: record %s/%s: %w", rec.Kind, rec.ID, err)
		}
		var doc map[string]any
		if err := json.Unmarshal(rec.Document, &doc); err != nil {
			return nil, fmt.Errorf("snapshot: failed to decode record %s/%s: %w", rec.Kind, rec.ID, err)
		}
		raw[kind] = append(raw[kind], doc)
	}
	return New(raw)
}

// Records flattens the snapshot into persistable records.
func (s *Snapshot) Records() ([]*domain.SnapshotRecord, error) {
	var records []*domain.SnapshotRecord
	for _, kind := range s.Kinds() {
		for i, e := range s.collections[kind] {
			doc, err := json.Marshal(e)
			if err != nil {
				return nil, fmt.Errorf("snapshot: failed to encode %s/%s: %w", kind, e.ID(), err)
			}
			records = append(records, &domain.SnapshotRecord{
				Kind:     string(kind),
				ID:       e.ID(),
				Position: i,
				Document: datatypes.JSON(doc),
			})
		}
	}
	return records, nil
}
