package ports

import (
	"context"
	"errors"

	"returnsync/internal/core/domain/model/audit"
)

// ErrDuplicateAuditEntry is returned by AuditRepository.Add when an entry
// for the same event id already exists. The unique constraint behind it is
// the idempotency guard for event processing.
var ErrDuplicateAuditEntry = errors.New("audit entry for event already exists")

// AuditRepository defines the persistence contract for the append-only
// reconciliation audit log.
type AuditRepository interface {
	// Add appends an audit entry. Returns ErrDuplicateAuditEntry when an
	// entry with the same event id was already recorded.
	Add(ctx context.Context, entry *audit.Entry) error

	// ExistsByEventID reports whether a decision was already recorded for
	// the carrier event. Used to skip re-application on retried windows.
	ExistsByEventID(ctx context.Context, eventID string) (bool, error)

	// GetRecent retrieves the most recent entries, newest first, for the
	// operational read side.
	GetRecent(ctx context.Context, limit int) ([]*audit.Entry, error)
}
