package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each batch/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary. One reconciliation
// batch (every return update, audit entry, discrepancy and the cursor
// advancement) commits or rolls back as a whole through a single unit of
// work.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// ReturnRepository returns a ReturnRepository bound to the current
	// transaction.
	ReturnRepository() ReturnRepository

	// AuditRepository returns an AuditRepository bound to the current
	// transaction.
	AuditRepository() AuditRepository

	// DiscrepancyRepository returns a DiscrepancyRepository bound to the
	// current transaction.
	DiscrepancyRepository() DiscrepancyRepository

	// CursorRepository returns a CursorRepository bound to the current
	// transaction.
	CursorRepository() CursorRepository
}
