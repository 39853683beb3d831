package returns

import (
	"fmt"

	"returnsync/internal/pkg/errs"
)

// Status represents the lifecycle state of a return.
// It implements a state machine with monotonic forward transitions:
//
//	Pending ──> InProgress ──> Completed
//	   │            │
//	   └────────────┴──> Discrepancy
//
// Forward moves may skip states (a carrier can report a pending return as
// already delivered back), but no applied event ever moves a return
// backward. Discrepancy is reachable from any non-terminal state.
// Completed and Discrepancy are terminal; the only sanctioned exit is the
// explicit Reopen operation.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status assigned at return intake.
	Pending

	// InProgress indicates the carrier has the shipment moving back
	// toward the warehouse.
	InProgress

	// Completed indicates the return arrived and was reconciled.
	Completed

	// Discrepancy indicates a mismatch (refusal, loss, damage) that needs
	// manual resolution.
	Discrepancy
)

// getStatusStrings returns string representations for all Status values,
// including Unknown, to support formatting.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:     "Unknown",
		Pending:     "Pending",
		InProgress:  "InProgress",
		Completed:   "Completed",
		Discrepancy: "Discrepancy",
	}
}

// getStatusRanks returns the monotonic ordering used for forward checks.
// Discrepancy carries no rank: it is reached by explicit branch, not by
// ordering.
func getStatusRanks() map[Status]int {
	return map[Status]int{
		Pending:    1,
		InProgress: 2,
		Completed:  3,
	}
}

// StatusFromString parses a persisted status name back into a Status.
// Returns an error for names outside the valid set.
func StatusFromString(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if name == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status", fmt.Errorf("%q is not a valid status", s),
	)
}

// Validate checks that the Status is one of the defined lifecycle states.
// Unknown (the zero value) is invalid.
func (s Status) Validate() error {
	if s != Pending && s != InProgress && s != Completed && s != Discrepancy {
		return errs.NewValueIsInvalidErrorWithCause(
			"status", fmt.Errorf("%d is not a valid status", s),
		)
	}
	return nil
}

// String returns the human-readable name of the status.
// Safe to call on any value; invalid values format as "Unknown".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether the status permits no further carrier-driven
// transitions. Completed and Discrepancy are terminal.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Discrepancy
}

// Apply transitions the status toward target, enforcing the state machine:
//
//   - target Discrepancy is allowed from any non-terminal state;
//   - otherwise target must rank strictly above the current status in
//     Pending < InProgress < Completed.
//
// A backward or same-state move returns an error and the processor records
// the event as rejected rather than applying it.
func (s Status) Apply(target Status) (Status, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	if err := target.Validate(); err != nil {
		return 0, err
	}

	if target == Discrepancy {
		if s.IsTerminal() {
			return 0, errs.NewValueIsInvalidErrorWithCause(
				"status",
				fmt.Errorf("%s is terminal and cannot move to Discrepancy", s),
			)
		}
		return Discrepancy, nil
	}

	ranks := getStatusRanks()
	currentRank, ok := ranks[s]
	if !ok {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status", fmt.Errorf("%s permits no forward transition", s),
		)
	}

	targetRank := ranks[target]
	if targetRank <= currentRank {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("transition %s -> %s is not a forward move", s, target),
		)
	}

	return target, nil
}

// Reopen transitions a terminal status back to InProgress. This is the only
// backward move in the model and is never triggered by carrier events, only
// by an explicit operator command.
func (s Status) Reopen() (Status, error) {
	if !s.IsTerminal() {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a terminal status and cannot be reopened", s),
		)
	}

	return InProgress, nil
}
