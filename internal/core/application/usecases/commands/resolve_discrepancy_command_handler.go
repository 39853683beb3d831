package commands

import (
	"context"
	"time"
)

// ResolveDiscrepancyCommandHandler handles discrepancy resolution by the
// warehouse QC operator.
type ResolveDiscrepancyCommandHandler struct {
	uowFactory ReturnUoWFactory
}

// NewResolveDiscrepancyCommandHandler creates a handler for resolving
// discrepancies.
func NewResolveDiscrepancyCommandHandler(uowFactory ReturnUoWFactory) ResolveDiscrepancyCommandHandler {
	return ResolveDiscrepancyCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle resolves the discrepancy identified by the command.
func (h ResolveDiscrepancyCommandHandler) Handle(ctx context.Context, cmd ResolveDiscrepancyCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	d, err := uow.DiscrepancyRepository().Get(ctx, cmd.DiscrepancyID())
	if err != nil {
		return err
	}

	if err = d.Resolve(cmd.Note(), time.Now().UTC()); err != nil {
		return err
	}

	if err = uow.DiscrepancyRepository().Update(ctx, d); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
