// Package audit provides the append-only record of every reconciliation
// decision. The audit table doubles as the idempotency guard: its unique
// event-id constraint is what prevents a retried window from applying the
// same carrier event twice.
package audit

import (
	"fmt"
	"time"

	"returnsync/internal/core/domain/model/kernel"
	"returnsync/internal/pkg/errs"
)

// Decision is the outcome the processor recorded for one carrier event.
type Decision int

const (
	// DecisionUnknown is the invalid zero value.
	DecisionUnknown Decision = iota

	// DecisionApplied: the event moved its return forward.
	DecisionApplied

	// DecisionSkipped: the event was not applied for a permanent per-event
	// reason (unmatched return, unknown code, malformed payload).
	DecisionSkipped

	// DecisionRejected: the event asked for a backward transition and was
	// refused by the state machine.
	DecisionRejected
)

// getDecisionStrings returns string representations for all decisions.
func getDecisionStrings() map[Decision]string {
	return map[Decision]string{
		DecisionUnknown:  "unknown",
		DecisionApplied:  "applied",
		DecisionSkipped:  "skipped",
		DecisionRejected: "rejected",
	}
}

// DecisionFromString parses a persisted decision name.
func DecisionFromString(s string) (Decision, error) {
	for decision, name := range getDecisionStrings() {
		if name == s && decision != DecisionUnknown {
			return decision, nil
		}
	}
	return DecisionUnknown, errs.NewValueIsInvalidErrorWithCause(
		"decision", fmt.Errorf("%q is not a valid decision", s),
	)
}

// Validate checks that the Decision is one of the defined values.
func (d Decision) Validate() error {
	if d != DecisionApplied && d != DecisionSkipped && d != DecisionRejected {
		return errs.NewValueIsInvalidErrorWithCause(
			"decision", fmt.Errorf("%d is not a valid decision", d),
		)
	}
	return nil
}

// String returns the snake_case name used for persistence and display.
func (d Decision) String() string {
	if str, ok := getDecisionStrings()[d]; ok {
		return str
	}
	return "unknown"
}

// Entry is one audit record: which event, what was decided, and why.
// Entries are append-only; the sync job never updates or deletes them.
type Entry struct {
	id         kernel.UUID
	eventID    string
	trackingID string
	returnID   *kernel.UUID
	decision   Decision
	reason     string
	createdAt  time.Time
}

// NewEntry records a decision for a carrier event. returnID is nil when the
// event could not be matched to a return.
func NewEntry(
	id kernel.UUID,
	eventID, trackingID string,
	returnID *kernel.UUID,
	decision Decision,
	reason string,
) (*Entry, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if eventID == "" {
		return nil, errs.NewValueIsRequiredError("eventID")
	}
	if err := decision.Validate(); err != nil {
		return nil, err
	}
	if returnID != nil {
		if err := returnID.Validate(); err != nil {
			return nil, err
		}
	}

	return &Entry{
		id:         id,
		eventID:    eventID,
		trackingID: trackingID,
		returnID:   returnID,
		decision:   decision,
		reason:     reason,
		createdAt:  time.Now().UTC(),
	}, nil
}

// RestoreEntry reconstructs an audit entry from persistence.
func RestoreEntry(
	id kernel.UUID,
	eventID, trackingID string,
	returnID *kernel.UUID,
	decision Decision,
	reason string,
	createdAt time.Time,
) (*Entry, error) {
	entry, err := NewEntry(id, eventID, trackingID, returnID, decision, reason)
	if err != nil {
		return nil, err
	}
	entry.createdAt = createdAt
	return entry, nil
}

// ID returns the unique identifier of the entry.
func (e *Entry) ID() kernel.UUID {
	return e.id
}

// EventID returns the carrier event identity this entry audits.
func (e *Entry) EventID() string {
	return e.eventID
}

// TrackingID returns the AWB the audited event referred to.
func (e *Entry) TrackingID() string {
	return e.trackingID
}

// ReturnID returns the matched return, or nil for unmatched events.
func (e *Entry) ReturnID() *kernel.UUID {
	return e.returnID
}

// Decision returns the recorded outcome.
func (e *Entry) Decision() Decision {
	return e.decision
}

// Reason returns the short human-readable explanation of the decision.
func (e *Entry) Reason() string {
	return e.reason
}

// CreatedAt returns when the decision was recorded.
func (e *Entry) CreatedAt() time.Time {
	return e.createdAt
}
