package commands

import (
	"errors"
	"time"

	"returnsync/internal/core/domain/model/kernel"
	"returnsync/internal/pkg/guard"
)

var ErrSyncReturnsCommandIsNotConstructed = errors.New(
	"SyncReturnsCommand must be created via one of the NewDeltaSyncCommand, " +
		"NewDailySyncCommand or NewWindowSyncCommand constructors",
)

// SyncMode selects how the reconciliation window is resolved.
type SyncMode int

const (
	// SyncModeUnknown is the invalid zero value.
	SyncModeUnknown SyncMode = iota

	// SyncModeDelta processes everything since the last committed cursor.
	// This is the default cron mode and the only mode that advances the
	// cursor.
	SyncModeDelta

	// SyncModeDaily reprocesses one calendar day. Used for manual
	// backfills; the cursor is left untouched.
	SyncModeDaily

	// SyncModeWindow reprocesses an explicit [from, to) interval. Used for
	// manual backfills; the cursor is left untouched.
	SyncModeWindow
)

// String returns the mode name for logs.
func (m SyncMode) String() string {
	switch m {
	case SyncModeDelta:
		return "delta"
	case SyncModeDaily:
		return "daily"
	case SyncModeWindow:
		return "window"
	default:
		return "unknown"
	}
}

// SyncReturnsCommand triggers one reconciliation batch against the carrier's
// event feed. Delta mode derives its window from the stored cursor; daily
// and window modes carry an explicit window.
//
// Example:
//
//	cmd := NewDeltaSyncCommand()
//	result, err := handler.Handle(ctx, cmd)
type SyncReturnsCommand struct {
	mode   SyncMode
	window kernel.TimeWindow

	guard guard.ConstructorGuard
}

// NewDeltaSyncCommand creates the default command: process all events since
// the last successful cursor.
func NewDeltaSyncCommand() SyncReturnsCommand {
	return SyncReturnsCommand{
		mode:  SyncModeDelta,
		guard: guard.NewConstructorGuard(),
	}
}

// NewDailySyncCommand creates a command reprocessing one calendar day (UTC).
func NewDailySyncCommand(day time.Time) (SyncReturnsCommand, error) {
	window, err := kernel.NewDayWindow(day)
	if err != nil {
		return SyncReturnsCommand{}, err
	}

	return SyncReturnsCommand{
		mode:   SyncModeDaily,
		window: window,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// NewWindowSyncCommand creates a command reprocessing an explicit window.
func NewWindowSyncCommand(from, to time.Time) (SyncReturnsCommand, error) {
	window, err := kernel.NewTimeWindow(from, to)
	if err != nil {
		return SyncReturnsCommand{}, err
	}

	return SyncReturnsCommand{
		mode:   SyncModeWindow,
		window: window,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through a constructor.
func (c SyncReturnsCommand) Validate() error {
	return c.guard.Validate(ErrSyncReturnsCommandIsNotConstructed)
}

// Mode returns how the window is resolved.
func (c SyncReturnsCommand) Mode() SyncMode {
	return c.mode
}

// Window returns the explicit window for daily/window modes. It is the zero
// value in delta mode, where the handler derives the window from the cursor.
func (c SyncReturnsCommand) Window() kernel.TimeWindow {
	return c.window
}
