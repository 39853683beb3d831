// Package returnrepo provides data transfer objects and mapping functions
// for return persistence. It implements the repository pattern for the
// return aggregate, converting between domain entities and database rows.
package returnrepo

import (
	"time"

	"returnsync/internal/core/domain/model/kernel"
	"returnsync/internal/core/domain/model/returns"

	"github.com/google/uuid"
)

// ReturnDTO represents the database structure for persisting return
// aggregates. The tracking id carries a unique index because carrier events
// are matched by AWB.
type ReturnDTO struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderRef    string          `gorm:"type:varchar(64);not null;index"`
	TrackingID  string          `gorm:"type:varchar(64);not null;uniqueIndex"`
	Status      int             `gorm:"type:smallint;not null;index"`
	ProcessedBy string          `gorm:"type:varchar(255);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
	VerifiedAt  *time.Time
	Items       []ReturnItemDTO `gorm:"foreignKey:ReturnID;constraint:OnDelete:CASCADE"`
}

// TableName overrides GORM's default naming to use "returns".
func (ReturnDTO) TableName() string {
	return "returns"
}

// ReturnItemDTO represents one persisted item line of a return.
type ReturnItemDTO struct {
	ID               int64     `gorm:"primaryKey;autoIncrement"`
	ReturnID         uuid.UUID `gorm:"type:uuid;not null;index"`
	SKU              string    `gorm:"type:varchar(64);not null"`
	QuantityReturned int       `gorm:"type:int;not null"`
	Condition        int       `gorm:"type:smallint;not null"`
}

// TableName overrides GORM's default naming to use "return_items".
func (ReturnItemDTO) TableName() string {
	return "return_items"
}

// fromDomain converts a return aggregate to its database representation,
// item lines included.
func fromDomain(aggregate *returns.Return) ReturnDTO {
	returnID := aggregate.ID().Bytes()
	items := aggregate.Items()

	itemDTOs := make([]ReturnItemDTO, 0, len(items))
	for _, item := range items {
		itemDTOs = append(itemDTOs, ReturnItemDTO{
			ReturnID:         returnID,
			SKU:              item.SKU(),
			QuantityReturned: item.QuantityReturned(),
			Condition:        int(item.Condition()),
		})
	}

	return ReturnDTO{
		ID:          returnID,
		OrderRef:    aggregate.OrderRef(),
		TrackingID:  aggregate.TrackingID(),
		Status:      int(aggregate.Status()),
		ProcessedBy: aggregate.ProcessedBy(),
		CreatedAt:   aggregate.CreatedAt(),
		VerifiedAt:  aggregate.VerifiedAt(),
		Items:       itemDTOs,
	}
}

// toDomain reconstructs the complete aggregate, item lines included, using
// RestoreReturn.
func toDomain(dto ReturnDTO) (*returns.Return, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	items := make([]returns.ReturnItem, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := returns.NewReturnItem(
			itemDTO.SKU, itemDTO.QuantityReturned, returns.Condition(itemDTO.Condition),
		)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return returns.RestoreReturn(
		id,
		dto.OrderRef,
		dto.TrackingID,
		returns.Status(dto.Status),
		items,
		dto.CreatedAt,
		dto.ProcessedBy,
		dto.VerifiedAt,
	)
}
