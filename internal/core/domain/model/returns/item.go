package returns

import (
	"fmt"

	"returnsync/internal/pkg/errs"
)

// Condition describes the physical state of a returned line item as recorded
// at intake.
type Condition int

const (
	// ConditionUnknown is the invalid zero value.
	ConditionUnknown Condition = iota

	// ConditionGood means the item is restockable.
	ConditionGood

	// ConditionDamaged means the item arrived damaged.
	ConditionDamaged

	// ConditionMissing means the item was expected but not in the parcel.
	ConditionMissing
)

// getConditionStrings returns string representations for all conditions.
func getConditionStrings() map[Condition]string {
	return map[Condition]string{
		ConditionUnknown: "Unknown",
		ConditionGood:    "Good",
		ConditionDamaged: "Damaged",
		ConditionMissing: "Missing",
	}
}

// ConditionFromString parses a persisted condition name.
func ConditionFromString(s string) (Condition, error) {
	for condition, name := range getConditionStrings() {
		if name == s && condition != ConditionUnknown {
			return condition, nil
		}
	}
	return ConditionUnknown, errs.NewValueIsInvalidErrorWithCause(
		"condition", fmt.Errorf("%q is not a valid condition", s),
	)
}

// Validate checks that the Condition is one of the defined values.
func (c Condition) Validate() error {
	if c != ConditionGood && c != ConditionDamaged && c != ConditionMissing {
		return errs.NewValueIsInvalidErrorWithCause(
			"condition", fmt.Errorf("%d is not a valid condition", c),
		)
	}
	return nil
}

// String returns the human-readable name of the condition.
func (c Condition) String() string {
	if str, ok := getConditionStrings()[c]; ok {
		return str
	}
	return "Unknown"
}

// ReturnItem is one line of a Return: a SKU, the quantity handed back and
// the condition it arrived in. Items are owned exclusively by their parent
// Return, created at intake time, and immutable once the parent completes.
type ReturnItem struct {
	sku              string
	quantityReturned int
	condition        Condition
}

// NewReturnItem creates a validated return line. SKU is required, quantity
// must be positive and condition must be a defined value. A Missing item may
// carry quantity zero (nothing physically arrived).
func NewReturnItem(sku string, quantityReturned int, condition Condition) (ReturnItem, error) {
	if sku == "" {
		return ReturnItem{}, errs.NewValueIsRequiredError("sku")
	}
	if err := condition.Validate(); err != nil {
		return ReturnItem{}, err
	}
	if quantityReturned < 0 || (quantityReturned == 0 && condition != ConditionMissing) {
		return ReturnItem{}, errs.NewValueIsInvalidErrorWithCause(
			"quantityReturned",
			fmt.Errorf("%d is not a valid quantity for condition %s", quantityReturned, condition),
		)
	}

	return ReturnItem{
		sku:              sku,
		quantityReturned: quantityReturned,
		condition:        condition,
	}, nil
}

// SKU returns the stock-keeping unit of the line.
func (i ReturnItem) SKU() string {
	return i.sku
}

// QuantityReturned returns the number of units handed back.
func (i ReturnItem) QuantityReturned() int {
	return i.quantityReturned
}

// Condition returns the recorded physical condition.
func (i ReturnItem) Condition() Condition {
	return i.condition
}
