package discrepancyrepo

import (
	"context"
	"errors"

	"returnsync/internal/core/domain/model/discrepancy"
	"returnsync/internal/core/domain/model/kernel"
	"returnsync/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormDiscrepancyRepository implements DiscrepancyRepository using GORM.
type GormDiscrepancyRepository struct {
	db *gorm.DB
}

// NewGormDiscrepancyRepository creates a new GORM discrepancy repository.
func NewGormDiscrepancyRepository(db *gorm.DB) *GormDiscrepancyRepository {
	return &GormDiscrepancyRepository{db: db}
}

// Add saves a new discrepancy.
func (r *GormDiscrepancyRepository) Add(ctx context.Context, d *discrepancy.Discrepancy) error {
	if err := d.Validate(); err != nil {
		return err
	}

	dto := fromDomain(d)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update saves resolution changes to an existing discrepancy.
func (r *GormDiscrepancyRepository) Update(ctx context.Context, d *discrepancy.Discrepancy) error {
	if err := d.Validate(); err != nil {
		return err
	}

	dto := fromDomain(d)
	result := r.db.WithContext(ctx).Model(&DiscrepancyDTO{}).Where("id = ?", dto.ID).Updates(map[string]any{
		"note":        dto.Note,
		"resolved":    dto.Resolved,
		"resolved_at": dto.ResolvedAt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("discrepancy", d.ID().String())
	}

	return nil
}

// Get retrieves a discrepancy by ID.
func (r *GormDiscrepancyRepository) Get(ctx context.Context, id kernel.UUID) (*discrepancy.Discrepancy, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DiscrepancyDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("discrepancy", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// HasOpenForReturn reports whether the return already has an open
// discrepancy of the given type.
func (r *GormDiscrepancyRepository) HasOpenForReturn(
	ctx context.Context, returnID kernel.UUID, typ discrepancy.Type,
) (bool, error) {
	if err := returnID.Validate(); err != nil {
		return false, err
	}
	if err := typ.Validate(); err != nil {
		return false, err
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&DiscrepancyDTO{}).
		Where("return_id = ? AND type = ? AND resolved = false", returnID.Bytes(), typ.String()).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
