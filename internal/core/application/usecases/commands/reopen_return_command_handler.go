package commands

import (
	"context"
)

// ReopenReturnCommandHandler handles the QC workflow's explicit backward
// move: a completed or discrepancy return goes back to InProgress and loses
// its verification stamp.
type ReopenReturnCommandHandler struct {
	uowFactory ReturnUoWFactory
}

// NewReopenReturnCommandHandler creates a handler for reopening returns.
func NewReopenReturnCommandHandler(uowFactory ReturnUoWFactory) ReopenReturnCommandHandler {
	return ReopenReturnCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle reopens the return identified by the command.
func (h ReopenReturnCommandHandler) Handle(ctx context.Context, cmd ReopenReturnCommand) error {
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

	ret, err := uow.ReturnRepository().Get(ctx, cmd.ReturnID())
	if err != nil {
		return err
	}

	if err = ret.Reopen(); err != nil {
		return err
	}

	if err = uow.ReturnRepository().Update(ctx, ret); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
