package returns

import (
	"errors"
	"fmt"
	"time"

	"returnsync/internal/core/domain/model/kernel"
	"returnsync/internal/pkg/errs"
)

var (
	// ErrReturnIsNotConstructed is returned when a Return instance was not
	// created through NewReturn or RestoreReturn.
	ErrReturnIsNotConstructed = errors.New("Return must be created via NewReturn or RestoreReturn")

	// ErrReturnIsCompleted is returned when an operation would mutate the
	// item lines of a completed return.
	ErrReturnIsCompleted = errors.New("return is completed and its items are immutable")
)

// Return is the aggregate root for a customer/warehouse return tied to
// exactly one order. It owns its item lines and guards the status lifecycle.
//
// Invariants:
//   - references exactly one order (orderRef) and one carrier shipment
//     (trackingID, the AWB)
//   - status transitions are monotonic forward except for the explicit
//     Reopen operation
//   - item lines are created at intake and immutable once the return
//     completes
//   - can only be created through NewReturn or RestoreReturn
type Return struct {
	id          kernel.UUID
	orderRef    string
	trackingID  string
	status      Status
	items       []ReturnItem
	createdAt   time.Time
	processedBy string
	verifiedAt  *time.Time

	isConstructed bool
}

// NewReturn registers a return at intake time. The return starts Pending
// with the item lines recorded by the warehouse operator. processedBy names
// that operator.
func NewReturn(id kernel.UUID, orderRef, trackingID, processedBy string, items []ReturnItem) (*Return, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if orderRef == "" {
		return nil, errs.NewValueIsRequiredError("orderRef")
	}
	if trackingID == "" {
		return nil, errs.NewValueIsRequiredError("trackingID")
	}
	if processedBy == "" {
		return nil, errs.NewValueIsRequiredError("processedBy")
	}
	if len(items) == 0 {
		return nil, errs.NewValueIsRequiredError("items")
	}

	return &Return{
		id:            id,
		orderRef:      orderRef,
		trackingID:    trackingID,
		status:        Pending,
		items:         append([]ReturnItem(nil), items...),
		createdAt:     time.Now().UTC(),
		processedBy:   processedBy,
		isConstructed: true,
	}, nil
}

// RestoreReturn reconstructs a return from persistence without re-running
// intake rules. The stored status must still be valid.
func RestoreReturn(
	id kernel.UUID,
	orderRef, trackingID string,
	status Status,
	items []ReturnItem,
	createdAt time.Time,
	processedBy string,
	verifiedAt *time.Time,
) (*Return, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}
	if orderRef == "" {
		return nil, errs.NewValueIsRequiredError("orderRef")
	}
	if trackingID == "" {
		return nil, errs.NewValueIsRequiredError("trackingID")
	}

	return &Return{
		id:            id,
		orderRef:      orderRef,
		trackingID:    trackingID,
		status:        status,
		items:         append([]ReturnItem(nil), items...),
		createdAt:     createdAt,
		processedBy:   processedBy,
		verifiedAt:    verifiedAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the Return was constructed through NewReturn or
// RestoreReturn. Called by repositories before persisting.
func (r *Return) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrReturnIsNotConstructed
	}
	return nil
}

// IsEqual compares two returns by identity.
func (r *Return) IsEqual(other *Return) bool {
	return other != nil && r.id.IsEqual(other.id)
}

// ID returns the unique identifier of the return.
func (r *Return) ID() kernel.UUID {
	return r.id
}

// OrderRef returns the reference of the order this return belongs to.
func (r *Return) OrderRef() string {
	return r.orderRef
}

// TrackingID returns the carrier AWB identifying the return shipment.
func (r *Return) TrackingID() string {
	return r.trackingID
}

// Status returns the current lifecycle state.
func (r *Return) Status() Status {
	return r.status
}

// Items returns a copy of the item lines.
func (r *Return) Items() []ReturnItem {
	return append([]ReturnItem(nil), r.items...)
}

// CreatedAt returns the intake timestamp.
func (r *Return) CreatedAt() time.Time {
	return r.createdAt
}

// ProcessedBy returns the operator who recorded the intake.
func (r *Return) ProcessedBy() string {
	return r.processedBy
}

// VerifiedAt returns the time the return was last verified (completed),
// or nil if it never completed.
func (r *Return) VerifiedAt() *time.Time {
	return r.verifiedAt
}

// ApplyStatus moves the return toward target following the monotonic state
// machine. A transition to Completed stamps verifiedAt. Backward moves are
// rejected with an error; the caller records them as anomalies.
func (r *Return) ApplyStatus(target Status, at time.Time) error {
	newStatus, err := r.status.Apply(target)
	if err != nil {
		return err
	}

	r.status = newStatus
	if newStatus == Completed {
		verified := at.UTC()
		r.verifiedAt = &verified
	}
	return nil
}

// Reopen explicitly moves a terminal return back to InProgress. This is the
// sanctioned exception to monotonicity, used by the QC workflow when a
// completed return needs re-verification.
func (r *Return) Reopen() error {
	newStatus, err := r.status.Reopen()
	if err != nil {
		return err
	}

	r.status = newStatus
	r.verifiedAt = nil
	return nil
}

// AddItem appends a line while the return is still Pending. Intake
// corrections stop once the carrier starts reporting movement.
func (r *Return) AddItem(item ReturnItem) error {
	if r.status == Completed {
		return ErrReturnIsCompleted
	}
	if r.status != Pending {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("items can only be added while Pending, not %s", r.status),
		)
	}

	r.items = append(r.items, item)
	return nil
}
