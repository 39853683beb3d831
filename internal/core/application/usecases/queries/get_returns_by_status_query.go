package queries

import (
	"errors"
	"time"

	"returnsync/internal/core/domain/model/kernel"
	"returnsync/internal/core/domain/model/returns"
	"returnsync/internal/pkg/guard"
)

var ErrGetReturnsByStatusQueryIsNotConstructed = errors.New(
	"GetReturnsByStatusQuery must be created via NewGetReturnsByStatusQuery constructor",
)

// GetReturnsByStatusQuery retrieves all returns currently in one lifecycle
// status. Used by operations to monitor stuck Pending returns and the
// Discrepancy backlog.
//
// Example:
//
//	query, err := NewGetReturnsByStatusQuery(returns.Discrepancy)
//	if err != nil {
//	    return err
//	}
//	rows, err := handler.Handle(ctx, query)
type GetReturnsByStatusQuery struct {
	status returns.Status

	guard guard.ConstructorGuard
}

// NewGetReturnsByStatusQuery creates a query for returns in the given status.
func NewGetReturnsByStatusQuery(status returns.Status) (GetReturnsByStatusQuery, error) {
	if err := status.Validate(); err != nil {
		return GetReturnsByStatusQuery{}, err
	}

	return GetReturnsByStatusQuery{
		status: status,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetReturnsByStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetReturnsByStatusQueryIsNotConstructed)
}

// Status returns the lifecycle status the query filters by.
func (q GetReturnsByStatusQuery) Status() returns.Status {
	return q.status
}

// GetReturnsByStatusQueryResponse is one return row.
type GetReturnsByStatusQueryResponse struct {
	ID         kernel.UUID
	OrderRef   string
	TrackingID string
	Status     returns.Status
	CreatedAt  time.Time
	VerifiedAt *time.Time
}
