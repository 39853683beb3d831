// Package auditrepo persists the append-only reconciliation audit log. The
// unique index on event_id doubles as the idempotency guard: inserting a
// second decision for the same carrier event fails with a unique violation
// that the repository translates to ports.ErrDuplicateAuditEntry.
package auditrepo

import (
	"time"

	"returnsync/internal/core/domain/model/audit"
	"returnsync/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// EntryDTO represents the database structure for one audit entry.
type EntryDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	EventID    string     `gorm:"type:varchar(128);not null;uniqueIndex"`
	TrackingID string     `gorm:"type:varchar(64);not null;index"`
	ReturnID   *uuid.UUID `gorm:"type:uuid;index"`
	Decision   string     `gorm:"type:varchar(16);not null"`
	Reason     string     `gorm:"type:varchar(255);not null"`
	CreatedAt  time.Time  `gorm:"not null;index"`
}

// TableName overrides GORM's default naming to use "audit_entries".
func (EntryDTO) TableName() string {
	return "audit_entries"
}

// fromDomain converts an audit entry to its database representation.
func fromDomain(entry *audit.Entry) EntryDTO {
	var returnID *uuid.UUID
	if id := entry.ReturnID(); id != nil {
		raw := id.Bytes()
		returnID = &raw
	}

	return EntryDTO{
		ID:         entry.ID().Bytes(),
		EventID:    entry.EventID(),
		TrackingID: entry.TrackingID(),
		ReturnID:   returnID,
		Decision:   entry.Decision().String(),
		Reason:     entry.Reason(),
		CreatedAt:  entry.CreatedAt(),
	}
}

// toDomain converts a database DTO back to an audit entry.
func toDomain(dto EntryDTO) (*audit.Entry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var returnID *kernel.UUID
	if dto.ReturnID != nil {
		rID, returnErr := kernel.UUIDFromBytes((*dto.ReturnID)[:])
		if returnErr != nil {
			return nil, returnErr
		}
		returnID = &rID
	}

	decision, err := audit.DecisionFromString(dto.Decision)
	if err != nil {
		return nil, err
	}

	return audit.RestoreEntry(
		id, dto.EventID, dto.TrackingID, returnID, decision, dto.Reason, dto.CreatedAt,
	)
}
