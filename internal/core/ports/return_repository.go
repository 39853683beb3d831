// Package ports defines the contracts between the application core and
// infrastructure: repositories, the unit of work, the remote carrier client
// and the cross-invocation run lock. These interfaces enable dependency
// inversion and testability.
package ports

import (
	"context"

	"returnsync/internal/core/domain/model/kernel"
	"returnsync/internal/core/domain/model/returns"
)

// ReturnRepository defines the persistence contract for return aggregates,
// including their item lines.
type ReturnRepository interface {
	// Add persists a new return aggregate with its items.
	// The return must be valid and not already exist.
	Add(ctx context.Context, aggregate *returns.Return) error

	// Update persists changes to an existing return aggregate. Item lines
	// written at intake are replaced wholesale; the aggregate guards their
	// immutability rules.
	Update(ctx context.Context, aggregate *returns.Return) error

	// Get retrieves a return by its unique identifier, items included.
	Get(ctx context.Context, id kernel.UUID) (*returns.Return, error)

	// GetByTrackingID resolves the return a carrier event refers to by its
	// AWB. Returns an errs.ObjectNotFoundError when no return matches,
	// which the processor records as an unmatched-event anomaly.
	GetByTrackingID(ctx context.Context, trackingID string) (*returns.Return, error)

	// GetAllInStatus retrieves all returns currently in the given status.
	GetAllInStatus(ctx context.Context, status returns.Status) ([]*returns.Return, error)
}
