// Package carrier provides the validated representation of remote carrier
// events. The carrier's wire payloads are dynamic JSON; the client boundary
// converts them into ReturnEvent values here, turning malformed payloads
// into typed permanent errors instead of runtime key-lookup failures.
package carrier

import (
	"time"

	"returnsync/internal/pkg/errs"
)

// ReturnEvent is one status report from the carrier about a return shipment.
// EventID is the carrier-assigned identity used for idempotent processing:
// the same event id is never applied twice.
type ReturnEvent struct {
	// EventID is the carrier's unique identifier for this event.
	EventID string

	// TrackingID is the AWB the event refers to.
	TrackingID string

	// StatusCode is the carrier's raw status string, mapped to a local
	// status by the reconciliation service. Unknown codes are left
	// unmapped, never guessed.
	StatusCode string

	// OccurredAt is when the carrier recorded the event.
	OccurredAt time.Time
}

// Validate checks the event carries the fields the processor depends on.
// An invalid event is a permanent per-event error: it is skipped and
// audited, not retried.
func (e ReturnEvent) Validate() error {
	if e.EventID == "" {
		return errs.NewValueIsRequiredError("eventID")
	}
	if e.TrackingID == "" {
		return errs.NewValueIsRequiredError("trackingID")
	}
	if e.StatusCode == "" {
		return errs.NewValueIsRequiredError("statusCode")
	}
	if e.OccurredAt.IsZero() {
		return errs.NewValueIsRequiredError("occurredAt")
	}
	return nil
}

// EventPage is one page of a paginated event listing. An empty
// NextPageToken marks the final page.
type EventPage struct {
	Events        []ReturnEvent
	NextPageToken string
}

// HasMore reports whether another page should be fetched.
func (p EventPage) HasMore() bool {
	return p.NextPageToken != ""
}
