package commands

import (
	"context"
	"fmt"

	"returnsync/internal/core/domain/model/discrepancy"
	"returnsync/internal/core/domain/model/kernel"
	"returnsync/internal/core/domain/model/returns"
)

// CreateReturnCommandHandler handles the business logic for return intake.
// Creates the return in Pending status and opens discrepancies for every
// quantity/condition mismatch found against the shipped quantities.
type CreateReturnCommandHandler struct {
	uowFactory ReturnUoWFactory
}

// NewCreateReturnCommandHandler creates a handler for return intake.
// Requires a ReturnUoWFactory for transactional persistence.
func NewCreateReturnCommandHandler(uowFactory ReturnUoWFactory) CreateReturnCommandHandler {
	return CreateReturnCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the intake command. The return and any intake-time
// discrepancies persist in a single transaction.
func (h CreateReturnCommandHandler) Handle(ctx context.Context, cmd CreateReturnCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	ret, err := returns.NewReturn(
		cmd.ReturnID(), cmd.OrderRef(), cmd.TrackingID(), cmd.ProcessedBy(), cmd.Items(),
	)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.ReturnRepository().Add(ctx, ret); err != nil {
		return err
	}

	discrepancies, err := intakeDiscrepancies(ret, cmd.ShippedUnits())
	if err != nil {
		return err
	}

	discrepancyRepo := uow.DiscrepancyRepository()
	for _, d := range discrepancies {
		if err = discrepancyRepo.Add(ctx, d); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}

// intakeDiscrepancies derives the discrepancies a fresh return opens:
// damaged or missing lines always do; quantity mismatches only when the
// shipped quantity for the SKU is known.
func intakeDiscrepancies(ret *returns.Return, shippedUnits map[string]int) ([]*discrepancy.Discrepancy, error) {
	var result []*discrepancy.Discrepancy

	open := func(sku string, typ discrepancy.Type, note string) error {
		d, err := discrepancy.NewDiscrepancy(kernel.NewUUID(), ret.ID(), sku, typ, note)
		if err != nil {
			return err
		}
		result = append(result, d)
		return nil
	}

	for _, item := range ret.Items() {
		switch item.Condition() {
		case returns.ConditionDamaged:
			if err := open(item.SKU(), discrepancy.TypeConditionDamaged,
				fmt.Sprintf("%d unit(s) of %s returned damaged", item.QuantityReturned(), item.SKU())); err != nil {
				return nil, err
			}
		case returns.ConditionMissing:
			if err := open(item.SKU(), discrepancy.TypeItemMissing,
				fmt.Sprintf("%s expected in parcel but missing", item.SKU())); err != nil {
				return nil, err
			}
		}

		shipped, known := shippedUnits[item.SKU()]
		if known && item.QuantityReturned() != shipped && item.Condition() == returns.ConditionGood {
			if err := open(item.SKU(), discrepancy.TypeQuantityMismatch,
				fmt.Sprintf("returned %d of %s, order shipped %d", item.QuantityReturned(), item.SKU(), shipped)); err != nil {
				return nil, err
			}
		}
	}

	return result, nil
}
