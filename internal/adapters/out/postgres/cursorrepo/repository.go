package cursorrepo

import (
	"context"
	"errors"

	"returnsync/internal/core/domain/model/cursor"
	"returnsync/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCursorRepository implements CursorRepository using GORM.
type GormCursorRepository struct {
	db *gorm.DB
}

// NewGormCursorRepository creates a new GORM cursor repository.
func NewGormCursorRepository(db *gorm.DB) *GormCursorRepository {
	return &GormCursorRepository{db: db}
}

// Get retrieves the checkpoint for an event source. Before the first
// successful run there is no row and an ObjectNotFoundError is returned.
func (r *GormCursorRepository) Get(ctx context.Context, source string) (cursor.SyncCursor, error) {
	if source == "" {
		return cursor.SyncCursor{}, errs.NewValueIsRequiredError("source")
	}

	var dto CursorDTO
	if err := r.db.WithContext(ctx).First(&dto, "source = ?", source).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return cursor.SyncCursor{}, errs.NewObjectNotFoundError("source", source)
		}
		return cursor.SyncCursor{}, err
	}

	return toDomain(dto)
}

// Save upserts the checkpoint for its source.
func (r *GormCursorRepository) Save(ctx context.Context, c cursor.SyncCursor) error {
	dto := fromDomain(c)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "source"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_event_id", "last_synced_at"}),
		}).
		Create(&dto).Error
}
