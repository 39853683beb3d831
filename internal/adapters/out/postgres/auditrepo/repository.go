package auditrepo

import (
	"context"
	"errors"

	"returnsync/internal/core/domain/model/audit"
	"returnsync/internal/core/ports"
	"returnsync/internal/pkg/errs"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// uniqueViolation is the Postgres error code for unique constraint failures.
const uniqueViolation = "23505"

// GormAuditRepository implements AuditRepository using GORM.
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GORM audit repository.
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Add appends an audit entry. A unique violation on event_id is reported as
// ports.ErrDuplicateAuditEntry so the processor can treat the event as
// already decided.
func (r *GormAuditRepository) Add(ctx context.Context, entry *audit.Entry) error {
	if entry == nil {
		return errs.NewValueIsRequiredError("entry")
	}

	dto := fromDomain(entry)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if isUniqueViolation(err) {
			return ports.ErrDuplicateAuditEntry
		}
		return err
	}

	return nil
}

// isUniqueViolation detects the event_id unique constraint failure across
// driver error shapes.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// ExistsByEventID reports whether a decision was already recorded for the
// carrier event.
func (r *GormAuditRepository) ExistsByEventID(ctx context.Context, eventID string) (bool, error) {
	if eventID == "" {
		return false, errs.NewValueIsRequiredError("eventID")
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&EntryDTO{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// GetRecent retrieves the most recent entries, newest first.
func (r *GormAuditRepository) GetRecent(ctx context.Context, limit int) ([]*audit.Entry, error) {
	if limit <= 0 {
		return nil, errs.NewValueIsInvalidError("limit")
	}

	var dtos []EntryDTO
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	entries := make([]*audit.Entry, 0, len(dtos))
	for _, dto := range dtos {
		entry, toErr := toDomain(dto)
		if toErr != nil {
			return nil, toErr
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
