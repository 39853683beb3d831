// Package cursor provides the durable checkpoint marking the last
// successfully processed point in the carrier's event stream. The cursor is
// advanced only inside the batch commit, which guarantees at-least-once
// processing: a crash before commit leaves the same window for the next run.
package cursor

import (
	"time"

	"returnsync/internal/pkg/errs"
)

// SyncCursor is the checkpoint for one event source. Source names the feed
// (e.g. "cargus"); LastEventID and LastSyncedAt together bound the next
// delta window.
type SyncCursor struct {
	source       string
	lastEventID  string
	lastSyncedAt time.Time
}

// NewSyncCursor creates a checkpoint for source positioned at lastEventID /
// lastSyncedAt.
func NewSyncCursor(source, lastEventID string, lastSyncedAt time.Time) (SyncCursor, error) {
	if source == "" {
		return SyncCursor{}, errs.NewValueIsRequiredError("source")
	}
	if lastSyncedAt.IsZero() {
		return SyncCursor{}, errs.NewValueIsRequiredError("lastSyncedAt")
	}

	return SyncCursor{
		source:       source,
		lastEventID:  lastEventID,
		lastSyncedAt: lastSyncedAt.UTC(),
	}, nil
}

// Source returns the event-feed name the cursor tracks.
func (c SyncCursor) Source() string {
	return c.source
}

// LastEventID returns the id of the last applied event, empty before the
// first successful run.
func (c SyncCursor) LastEventID() string {
	return c.lastEventID
}

// LastSyncedAt returns the upper bound of the last committed window.
func (c SyncCursor) LastSyncedAt() time.Time {
	return c.lastSyncedAt
}

// Advanced returns a copy of the cursor moved to a new position. It refuses
// to move backward in time; the processor only ever advances the cursor.
func (c SyncCursor) Advanced(lastEventID string, lastSyncedAt time.Time) (SyncCursor, error) {
	if lastSyncedAt.Before(c.lastSyncedAt) {
		return SyncCursor{}, errs.NewValueIsInvalidError("lastSyncedAt moves the cursor backward")
	}

	return SyncCursor{
		source:       c.source,
		lastEventID:  lastEventID,
		lastSyncedAt: lastSyncedAt.UTC(),
	}, nil
}
