package queries

import (
	"context"
	"time"

	"returnsync/internal/core/domain/model/discrepancy"
	"returnsync/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOpenDiscrepanciesQueryHandler reads unresolved discrepancies straight
// from the database, oldest first so the longest-waiting problems surface on
// top of the QC queue.
type GetOpenDiscrepanciesQueryHandler struct {
	db *gorm.DB
}

// NewGetOpenDiscrepanciesQueryHandler creates a handler for open-discrepancy
// queries.
func NewGetOpenDiscrepanciesQueryHandler(db *gorm.DB) GetOpenDiscrepanciesQueryHandler {
	return GetOpenDiscrepanciesQueryHandler{db: db}
}

// Handle executes the query.
func (h GetOpenDiscrepanciesQueryHandler) Handle(
	ctx context.Context,
	query GetOpenDiscrepanciesQuery,
) ([]GetOpenDiscrepanciesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	result := make([]GetOpenDiscrepanciesQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			return_id,
			sku,
			type,
			note,
			created_at
		FROM discrepancies
		WHERE resolved = false
		ORDER BY created_at
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id        uuid.UUID
			returnID  uuid.UUID
			sku       string
			typName   string
			note      string
			createdAt time.Time
		)

		if err = rows.Scan(&id, &returnID, &sku, &typName, &note, &createdAt); err != nil {
			return nil, err
		}

		discrepancyID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}

		parentID, idErr := kernel.UUIDFromBytes(returnID[:])
		if idErr != nil {
			return nil, idErr
		}

		typ, typErr := discrepancy.TypeFromString(typName)
		if typErr != nil {
			return nil, typErr
		}

		result = append(result, GetOpenDiscrepanciesQueryResponse{
			ID:        discrepancyID,
			ReturnID:  parentID,
			SKU:       sku,
			Type:      typ,
			Note:      note,
			CreatedAt: createdAt,
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
