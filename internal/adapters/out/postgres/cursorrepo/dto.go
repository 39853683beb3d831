// Package cursorrepo persists the per-source sync checkpoint. The cursor row
// is only ever written inside the transaction that commits the batch it
// describes.
package cursorrepo

import (
	"time"

	"returnsync/internal/core/domain/model/cursor"
)

// CursorDTO represents the single checkpoint row for one event source.
type CursorDTO struct {
	Source       string    `gorm:"type:varchar(32);primaryKey"`
	LastEventID  string    `gorm:"type:varchar(128);not null"`
	LastSyncedAt time.Time `gorm:"not null"`
}

// TableName overrides GORM's default naming to use "sync_cursors".
func (CursorDTO) TableName() string {
	return "sync_cursors"
}

// fromDomain converts a cursor to its database representation.
func fromDomain(c cursor.SyncCursor) CursorDTO {
	return CursorDTO{
		Source:       c.Source(),
		LastEventID:  c.LastEventID(),
		LastSyncedAt: c.LastSyncedAt(),
	}
}

// toDomain converts a database DTO back to a cursor value.
func toDomain(dto CursorDTO) (cursor.SyncCursor, error) {
	return cursor.NewSyncCursor(dto.Source, dto.LastEventID, dto.LastSyncedAt)
}
