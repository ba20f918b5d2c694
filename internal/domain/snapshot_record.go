package domain

import (
	"time"

	"gorm.io/datatypes"
)

// SnapshotRecord is one fallback entity as persisted by the static data
// loader. Position preserves the collection order.
type SnapshotRecord struct {
	Kind      string         `json:"kind" gorm:"primaryKey"`
	ID        string         `json:"id" gorm:"primaryKey"`
	Position  int            `json:"position" gorm:"not null"`
	Document  datatypes.JSON `json:"document" gorm:"type:jsonb;not null"`
	UpdatedAt time.Time      `json:"updatedAt"`
}
