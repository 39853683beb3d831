// Package discrepancy provides the entity recording a mismatch between what
// an order shipped and what its return brought back. Discrepancies are
// created by return intake (quantity/condition checks) and by the sync
// processor (carrier refusals); their lifecycle ends when an operator
// resolves them.
package discrepancy

import (
	"errors"
	"fmt"
	"time"

	"returnsync/internal/core/domain/model/kernel"
	"returnsync/internal/pkg/errs"
)

var (
	// ErrDiscrepancyIsNotConstructed is returned when a Discrepancy was not
	// created through NewDiscrepancy or RestoreDiscrepancy.
	ErrDiscrepancyIsNotConstructed = errors.New(
		"Discrepancy must be created via NewDiscrepancy or RestoreDiscrepancy",
	)

	// ErrAlreadyResolved is returned when resolving a discrepancy twice.
	ErrAlreadyResolved = errors.New("discrepancy is already resolved")
)

// Type classifies what kind of mismatch was recorded.
type Type int

const (
	// TypeUnknown is the invalid zero value.
	TypeUnknown Type = iota

	// TypeQuantityMismatch: returned quantity disagrees with shipped quantity.
	TypeQuantityMismatch

	// TypeConditionDamaged: an item came back damaged.
	TypeConditionDamaged

	// TypeItemMissing: an expected item was not in the parcel.
	TypeItemMissing

	// TypeCarrierRefused: the carrier reported the shipment refused or lost.
	TypeCarrierRefused
)

// getTypeStrings returns string representations for all types.
func getTypeStrings() map[Type]string {
	return map[Type]string{
		TypeUnknown:          "unknown",
		TypeQuantityMismatch: "quantity_mismatch",
		TypeConditionDamaged: "condition_damaged",
		TypeItemMissing:      "item_missing",
		TypeCarrierRefused:   "carrier_refused",
	}
}

// TypeFromString parses a persisted type name.
func TypeFromString(s string) (Type, error) {
	for typ, name := range getTypeStrings() {
		if name == s && typ != TypeUnknown {
			return typ, nil
		}
	}
	return TypeUnknown, errs.NewValueIsInvalidErrorWithCause(
		"discrepancyType", fmt.Errorf("%q is not a valid discrepancy type", s),
	)
}

// Validate checks that the Type is one of the defined values.
func (t Type) Validate() error {
	if t != TypeQuantityMismatch && t != TypeConditionDamaged &&
		t != TypeItemMissing && t != TypeCarrierRefused {
		return errs.NewValueIsInvalidErrorWithCause(
			"discrepancyType", fmt.Errorf("%d is not a valid discrepancy type", t),
		)
	}
	return nil
}

// String returns the snake_case name used for persistence and display.
func (t Type) String() string {
	if str, ok := getTypeStrings()[t]; ok {
		return str
	}
	return "unknown"
}

// Discrepancy records one mismatch on a return. It references its parent
// return and optionally the SKU the mismatch concerns (carrier-level
// discrepancies carry no SKU).
type Discrepancy struct {
	id         kernel.UUID
	returnID   kernel.UUID
	sku        string
	typ        Type
	note       string
	resolved   bool
	createdAt  time.Time
	resolvedAt *time.Time

	isConstructed bool
}

// NewDiscrepancy opens a discrepancy on a return. sku may be empty for
// shipment-level discrepancies (e.g. carrier_refused).
func NewDiscrepancy(id, returnID kernel.UUID, sku string, typ Type, note string) (*Discrepancy, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := returnID.Validate(); err != nil {
		return nil, err
	}
	if err := typ.Validate(); err != nil {
		return nil, err
	}

	return &Discrepancy{
		id:            id,
		returnID:      returnID,
		sku:           sku,
		typ:           typ,
		note:          note,
		createdAt:     time.Now().UTC(),
		isConstructed: true,
	}, nil
}

// RestoreDiscrepancy reconstructs a discrepancy from persistence.
func RestoreDiscrepancy(
	id, returnID kernel.UUID,
	sku string,
	typ Type,
	note string,
	resolved bool,
	createdAt time.Time,
	resolvedAt *time.Time,
) (*Discrepancy, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := returnID.Validate(); err != nil {
		return nil, err
	}
	if err := typ.Validate(); err != nil {
		return nil, err
	}

	return &Discrepancy{
		id:            id,
		returnID:      returnID,
		sku:           sku,
		typ:           typ,
		note:          note,
		resolved:      resolved,
		createdAt:     createdAt,
		resolvedAt:    resolvedAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the Discrepancy was constructed through a constructor.
func (d *Discrepancy) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDiscrepancyIsNotConstructed
	}
	return nil
}

// ID returns the unique identifier of the discrepancy.
func (d *Discrepancy) ID() kernel.UUID {
	return d.id
}

// ReturnID returns the identifier of the parent return.
func (d *Discrepancy) ReturnID() kernel.UUID {
	return d.returnID
}

// SKU returns the affected stock-keeping unit, empty for shipment-level
// discrepancies.
func (d *Discrepancy) SKU() string {
	return d.sku
}

// Type returns the mismatch classification.
func (d *Discrepancy) Type() Type {
	return d.typ
}

// Note returns the free-form operator/processor note.
func (d *Discrepancy) Note() string {
	return d.note
}

// IsResolved reports whether the lifecycle has ended.
func (d *Discrepancy) IsResolved() bool {
	return d.resolved
}

// CreatedAt returns the time the discrepancy was opened.
func (d *Discrepancy) CreatedAt() time.Time {
	return d.createdAt
}

// ResolvedAt returns the resolution time, or nil while open.
func (d *Discrepancy) ResolvedAt() *time.Time {
	return d.resolvedAt
}

// Resolve ends the discrepancy lifecycle, appending the resolution note.
// Resolving twice is an error.
func (d *Discrepancy) Resolve(note string, at time.Time) error {
	if d.resolved {
		return ErrAlreadyResolved
	}

	d.resolved = true
	resolvedAt := at.UTC()
	d.resolvedAt = &resolvedAt
	if note != "" {
		d.note = note
	}
	return nil
}
