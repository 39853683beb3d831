// Package queries contains read-side operations that bypass the domain
// aggregates and read the database directly. Query handlers serve the
// operational HTTP surface and never mutate state.
package queries

import (
	"errors"
	"time"

	"returnsync/internal/core/domain/model/discrepancy"
	"returnsync/internal/core/domain/model/kernel"
	"returnsync/internal/pkg/guard"
)

var ErrGetOpenDiscrepanciesQueryIsNotConstructed = errors.New(
	"GetOpenDiscrepanciesQuery must be created via NewGetOpenDiscrepanciesQuery constructor",
)

// GetOpenDiscrepanciesQuery retrieves every unresolved discrepancy for the
// warehouse QC dashboard, oldest first.
//
// Example:
//
//	query := NewGetOpenDiscrepanciesQuery()
//	open, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get open discrepancies: %w", err)
//	}
//	fmt.Printf("%d discrepancies need resolution\n", len(open))
type GetOpenDiscrepanciesQuery struct {
	guard guard.ConstructorGuard
}

// NewGetOpenDiscrepanciesQuery creates a query for all open discrepancies.
func NewGetOpenDiscrepanciesQuery() GetOpenDiscrepanciesQuery {
	return GetOpenDiscrepanciesQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetOpenDiscrepanciesQuery) Validate() error {
	return q.guard.Validate(ErrGetOpenDiscrepanciesQueryIsNotConstructed)
}

// GetOpenDiscrepanciesQueryResponse is one open discrepancy row.
type GetOpenDiscrepanciesQueryResponse struct {
	ID        kernel.UUID
	ReturnID  kernel.UUID
	SKU       string
	Type      discrepancy.Type
	Note      string
	CreatedAt time.Time
}
