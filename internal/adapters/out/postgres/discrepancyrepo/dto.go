// Package discrepancyrepo persists discrepancy records opened by intake
// checks and the sync processor.
package discrepancyrepo

import (
	"time"

	"returnsync/internal/core/domain/model/discrepancy"
	"returnsync/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DiscrepancyDTO represents the database structure for one discrepancy.
type DiscrepancyDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ReturnID   uuid.UUID `gorm:"type:uuid;not null;index"`
	SKU        string    `gorm:"type:varchar(64)"`
	Type       string    `gorm:"type:varchar(32);not null;index"`
	Note       string    `gorm:"type:varchar(512)"`
	Resolved   bool      `gorm:"not null;index"`
	CreatedAt  time.Time `gorm:"not null"`
	ResolvedAt *time.Time
}

// TableName overrides GORM's default naming to use "discrepancies".
func (DiscrepancyDTO) TableName() string {
	return "discrepancies"
}

// fromDomain converts a discrepancy to its database representation.
func fromDomain(d *discrepancy.Discrepancy) DiscrepancyDTO {
	return DiscrepancyDTO{
		ID:         d.ID().Bytes(),
		ReturnID:   d.ReturnID().Bytes(),
		SKU:        d.SKU(),
		Type:       d.Type().String(),
		Note:       d.Note(),
		Resolved:   d.IsResolved(),
		CreatedAt:  d.CreatedAt(),
		ResolvedAt: d.ResolvedAt(),
	}
}

// toDomain converts a database DTO back to a discrepancy entity.
func toDomain(dto DiscrepancyDTO) (*discrepancy.Discrepancy, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	returnID, err := kernel.UUIDFromBytes(dto.ReturnID[:])
	if err != nil {
		return nil, err
	}

	typ, err := discrepancy.TypeFromString(dto.Type)
	if err != nil {
		return nil, err
	}

	return discrepancy.RestoreDiscrepancy(
		id, returnID, dto.SKU, typ, dto.Note, dto.Resolved, dto.CreatedAt, dto.ResolvedAt,
	)
}
