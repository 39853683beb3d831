// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS
// architecture. All commands follow a consistent pattern: validation,
// transaction management, and persistence.
package commands

import (
	"context"

	"returnsync/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command
// handlers. These abstractions ensure data consistency across aggregate
// boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// ReturnRepoFactory provides access to the return repository within a
	// transaction.
	ReturnRepoFactory interface {
		ReturnRepository() ports.ReturnRepository
	}

	// AuditRepoFactory provides access to the audit repository within a
	// transaction.
	AuditRepoFactory interface {
		AuditRepository() ports.AuditRepository
	}

	// DiscrepancyRepoFactory provides access to the discrepancy repository
	// within a transaction.
	DiscrepancyRepoFactory interface {
		DiscrepancyRepository() ports.DiscrepancyRepository
	}

	// CursorRepoFactory provides access to the cursor repository within a
	// transaction.
	CursorRepoFactory interface {
		CursorRepository() ports.CursorRepository
	}

	// ReturnUoW manages transactions for intake and QC operations that
	// touch returns and their discrepancies.
	ReturnUoW interface {
		TxManager
		ReturnRepoFactory
		DiscrepancyRepoFactory
	}

	// ReturnUoWFactory creates new return unit of work instances.
	ReturnUoWFactory interface {
		Create() ReturnUoW
	}

	// SyncUoW manages the reconciliation batch transaction: returns,
	// audit entries, discrepancies and the cursor commit together.
	SyncUoW interface {
		TxManager
		ReturnRepoFactory
		AuditRepoFactory
		DiscrepancyRepoFactory
		CursorRepoFactory
	}

	// SyncUoWFactory creates new sync unit of work instances.
	SyncUoWFactory interface {
		Create() SyncUoW
	}
)
