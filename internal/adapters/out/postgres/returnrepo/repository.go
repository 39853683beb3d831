package returnrepo

import (
	"context"
	"errors"

	"returnsync/internal/core/domain/model/kernel"
	"returnsync/internal/core/domain/model/returns"
	"returnsync/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormReturnRepository implements ReturnRepository using GORM.
type GormReturnRepository struct {
	db *gorm.DB
}

// NewGormReturnRepository creates a new GORM return repository.
func NewGormReturnRepository(db *gorm.DB) *GormReturnRepository {
	return &GormReturnRepository{db: db}
}

// Add saves a new return with its item lines.
func (r *GormReturnRepository) Add(ctx context.Context, aggregate *returns.Return) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update saves an existing return. Item lines are replaced wholesale; the
// aggregate already guards when they may change.
func (r *GormReturnRepository) Update(ctx context.Context, aggregate *returns.Return) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&ReturnDTO{}).Where("id = ?", dto.ID).Updates(map[string]any{
			"order_ref":    dto.OrderRef,
			"tracking_id":  dto.TrackingID,
			"status":       dto.Status,
			"processed_by": dto.ProcessedBy,
			"verified_at":  dto.VerifiedAt,
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Where("return_id = ?", dto.ID).Delete(&ReturnItemDTO{}).Error; err != nil {
			return err
		}
		if len(dto.Items) == 0 {
			return nil
		}
		return tx.Create(&dto.Items).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewObjectNotFoundError("return", aggregate.ID().String())
	}
	return err
}

// Get retrieves a return by ID, items included.
func (r *GormReturnRepository) Get(ctx context.Context, id kernel.UUID) (*returns.Return, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ReturnDTO
	if err := r.db.WithContext(ctx).Preload("Items").First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("return", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByTrackingID resolves the return a carrier event refers to by its AWB.
func (r *GormReturnRepository) GetByTrackingID(ctx context.Context, trackingID string) (*returns.Return, error) {
	if trackingID == "" {
		return nil, errs.NewValueIsRequiredError("trackingID")
	}

	var dto ReturnDTO
	if err := r.db.WithContext(ctx).Preload("Items").First(&dto, "tracking_id = ?", trackingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("trackingID", trackingID)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllInStatus retrieves all returns currently in the given status.
func (r *GormReturnRepository) GetAllInStatus(ctx context.Context, status returns.Status) ([]*returns.Return, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	var dtos []ReturnDTO
	if err := r.db.WithContext(ctx).Preload("Items").Find(&dtos, "status = ?", int(status)).Error; err != nil {
		return nil, err
	}

	result := make([]*returns.Return, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		result = append(result, aggregate)
	}

	return result, nil
}
