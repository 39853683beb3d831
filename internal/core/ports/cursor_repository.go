package ports

import (
	"context"

	"returnsync/internal/core/domain/model/cursor"
)

// CursorRepository defines the persistence contract for sync checkpoints.
// The cursor must only ever be saved inside the same transaction that
// commits the batch it describes.
type CursorRepository interface {
	// Get retrieves the checkpoint for an event source. Returns an
	// errs.ObjectNotFoundError before the first successful run.
	Get(ctx context.Context, source string) (cursor.SyncCursor, error)

	// Save upserts the checkpoint for its source.
	Save(ctx context.Context, c cursor.SyncCursor) error
}
