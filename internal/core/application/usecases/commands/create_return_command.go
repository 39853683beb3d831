package commands

import (
	"errors"

	"returnsync/internal/core/domain/model/kernel"
	"returnsync/internal/core/domain/model/returns"
	"returnsync/internal/pkg/errs"
	"returnsync/internal/pkg/guard"
)

var ErrCreateReturnCommandIsNotConstructed = errors.New(
	"CreateReturnCommand must be created via NewCreateReturnCommand constructor",
)

// CreateReturnCommand registers a return at warehouse intake. It carries the
// operator's line records plus the quantities the order originally shipped,
// so the handler can open quantity/condition discrepancies immediately.
//
// Example:
//
//	item, _ := returns.NewReturnItem("SKU-100", 1, returns.ConditionGood)
//	cmd, err := NewCreateReturnCommand(
//	    kernel.NewUUID(), "ORD-42", "CGS123456", "operator1",
//	    []returns.ReturnItem{item},
//	    map[string]int{"SKU-100": 2},
//	)
type CreateReturnCommand struct {
	returnID     kernel.UUID
	orderRef     string
	trackingID   string
	processedBy  string
	items        []returns.ReturnItem
	shippedUnits map[string]int

	guard guard.ConstructorGuard
}

// NewCreateReturnCommand creates an intake command. shippedUnits maps SKU to
// the quantity the order shipped; it may be empty when the caller has no
// shipment data, in which case no quantity checks are performed.
func NewCreateReturnCommand(
	returnID kernel.UUID,
	orderRef, trackingID, processedBy string,
	items []returns.ReturnItem,
	shippedUnits map[string]int,
) (CreateReturnCommand, error) {
	if err := returnID.Validate(); err != nil {
		return CreateReturnCommand{}, err
	}
	if orderRef == "" {
		return CreateReturnCommand{}, errs.NewValueIsRequiredError("orderRef")
	}
	if trackingID == "" {
		return CreateReturnCommand{}, errs.NewValueIsRequiredError("trackingID")
	}
	if processedBy == "" {
		return CreateReturnCommand{}, errs.NewValueIsRequiredError("processedBy")
	}
	if len(items) == 0 {
		return CreateReturnCommand{}, errs.NewValueIsRequiredError("items")
	}

	shipped := make(map[string]int, len(shippedUnits))
	for sku, qty := range shippedUnits {
		shipped[sku] = qty
	}

	return CreateReturnCommand{
		returnID:     returnID,
		orderRef:     orderRef,
		trackingID:   trackingID,
		processedBy:  processedBy,
		items:        append([]returns.ReturnItem(nil), items...),
		shippedUnits: shipped,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateReturnCommand) Validate() error {
	return c.guard.Validate(ErrCreateReturnCommandIsNotConstructed)
}

// ReturnID returns the identifier the new return will carry.
func (c CreateReturnCommand) ReturnID() kernel.UUID {
	return c.returnID
}

// OrderRef returns the order the return belongs to.
func (c CreateReturnCommand) OrderRef() string {
	return c.orderRef
}

// TrackingID returns the carrier AWB of the return shipment.
func (c CreateReturnCommand) TrackingID() string {
	return c.trackingID
}

// ProcessedBy returns the intake operator.
func (c CreateReturnCommand) ProcessedBy() string {
	return c.processedBy
}

// Items returns the recorded item lines.
func (c CreateReturnCommand) Items() []returns.ReturnItem {
	return append([]returns.ReturnItem(nil), c.items...)
}

// ShippedUnits returns the per-SKU quantities the order shipped.
func (c CreateReturnCommand) ShippedUnits() map[string]int {
	shipped := make(map[string]int, len(c.shippedUnits))
	for sku, qty := range c.shippedUnits {
		shipped[sku] = qty
	}
	return shipped
}
