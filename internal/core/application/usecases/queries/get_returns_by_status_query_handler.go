package queries

import (
	"context"
	"time"

	"returnsync/internal/core/domain/model/kernel"
	"returnsync/internal/core/domain/model/returns"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetReturnsByStatusQueryHandler reads returns in a given status straight
// from the database, sorted by intake time for stable output.
type GetReturnsByStatusQueryHandler struct {
	db *gorm.DB
}

// NewGetReturnsByStatusQueryHandler creates a handler for status queries.
func NewGetReturnsByStatusQueryHandler(db *gorm.DB) GetReturnsByStatusQueryHandler {
	return GetReturnsByStatusQueryHandler{db: db}
}

// Handle executes the query.
func (h GetReturnsByStatusQueryHandler) Handle(
	ctx context.Context,
	query GetReturnsByStatusQuery,
) ([]GetReturnsByStatusQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	result := make([]GetReturnsByStatusQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_ref,
			tracking_id,
			status,
			created_at,
			verified_at
		FROM returns
		WHERE status = ?
		ORDER BY created_at
	`, int(query.Status())).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id         uuid.UUID
			orderRef   string
			trackingID string
			status     int
			createdAt  time.Time
			verifiedAt *time.Time
		)

		if err = rows.Scan(&id, &orderRef, &trackingID, &status, &createdAt, &verifiedAt); err != nil {
			return nil, err
		}

		returnID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}

		result = append(result, GetReturnsByStatusQueryResponse{
			ID:         returnID,
			OrderRef:   orderRef,
			TrackingID: trackingID,
			Status:     returns.Status(status),
			CreatedAt:  createdAt,
			VerifiedAt: verifiedAt,
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
