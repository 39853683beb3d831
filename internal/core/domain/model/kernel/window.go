package kernel

import (
	"fmt"
	"time"

	"returnsync/internal/pkg/errs"
	"returnsync/internal/pkg/guard"
)

// ErrTimeWindowIsNotConstructed is returned when a TimeWindow was not created
// through one of the constructor functions.
var ErrTimeWindowIsNotConstructed = errs.NewValueIsRequiredError(
	"TimeWindow must be created via NewTimeWindow or NewDayWindow",
)

// TimeWindow is the half-open interval [From, To) bounding one sync batch.
// Carrier events with an occurrence time inside the window belong to the
// batch; the window's upper bound becomes the cursor position after a
// successful commit.
//
// A TimeWindow is immutable and must be constructed through NewTimeWindow or
// NewDayWindow, which enforce that From precedes To.
//
// Example:
//
//	window, err := kernel.NewTimeWindow(cursor.LastSyncedAt(), time.Now().UTC())
//	if err != nil {
//	    return err
//	}
type TimeWindow struct {
	from  time.Time
	to    time.Time
	guard guard.ConstructorGuard
}

// NewTimeWindow creates a window spanning [from, to). Both bounds are
// required and from must be strictly before to.
func NewTimeWindow(from, to time.Time) (TimeWindow, error) {
	if from.IsZero() {
		return TimeWindow{}, errs.NewValueIsRequiredError("from")
	}
	if to.IsZero() {
		return TimeWindow{}, errs.NewValueIsRequiredError("to")
	}
	if !from.Before(to) {
		return TimeWindow{}, errs.NewValueIsInvalidErrorWithCause(
			"window",
			fmt.Errorf("from %s is not before to %s", from.Format(time.RFC3339), to.Format(time.RFC3339)),
		)
	}

	return TimeWindow{from: from.UTC(), to: to.UTC(), guard: guard.NewConstructorGuard()}, nil
}

// NewDayWindow creates the window covering one calendar day in UTC,
// [00:00:00, 24:00:00). Used by the driver's daily mode.
func NewDayWindow(day time.Time) (TimeWindow, error) {
	if day.IsZero() {
		return TimeWindow{}, errs.NewValueIsRequiredError("day")
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return NewTimeWindow(start, start.Add(24*time.Hour))
}

// From returns the inclusive lower bound of the window.
func (w TimeWindow) From() time.Time {
	return w.from
}

// To returns the exclusive upper bound of the window.
func (w TimeWindow) To() time.Time {
	return w.to
}

// Contains reports whether t falls inside the half-open interval.
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.from) && t.Before(w.to)
}

// String formats the window for logs and anomaly messages.
func (w TimeWindow) String() string {
	return fmt.Sprintf("[%s, %s)", w.from.Format(time.RFC3339), w.to.Format(time.RFC3339))
}

// Validate ensures the window was created through a constructor.
func (w TimeWindow) Validate() error {
	return w.guard.Validate(ErrTimeWindowIsNotConstructed)
}
