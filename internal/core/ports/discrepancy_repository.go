package ports

import (
	"context"

	"returnsync/internal/core/domain/model/discrepancy"
	"returnsync/internal/core/domain/model/kernel"
)

// DiscrepancyRepository defines the persistence contract for discrepancy
// records.
type DiscrepancyRepository interface {
	// Add persists a new discrepancy.
	Add(ctx context.Context, d *discrepancy.Discrepancy) error

	// Update persists resolution changes to an existing discrepancy.
	Update(ctx context.Context, d *discrepancy.Discrepancy) error

	// Get retrieves a discrepancy by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*discrepancy.Discrepancy, error)

	// HasOpenForReturn reports whether the return already has an open
	// discrepancy of the given type. The processor uses it to avoid piling
	// duplicate carrier_refused records onto one return.
	HasOpenForReturn(ctx context.Context, returnID kernel.UUID, typ discrepancy.Type) (bool, error)
}
