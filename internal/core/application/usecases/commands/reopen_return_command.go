package commands

import (
	"errors"

	"returnsync/internal/core/domain/model/kernel"
	"returnsync/internal/pkg/guard"
)

var ErrReopenReturnCommandIsNotConstructed = errors.New(
	"ReopenReturnCommand must be created via NewReopenReturnCommand constructor",
)

// ReopenReturnCommand moves a terminal return back to InProgress for
// re-verification. This is the only sanctioned backward move in the return
// lifecycle.
type ReopenReturnCommand struct {
	returnID kernel.UUID

	guard guard.ConstructorGuard
}

// NewReopenReturnCommand creates a reopen command for the given return.
func NewReopenReturnCommand(returnID kernel.UUID) (ReopenReturnCommand, error) {
	if err := returnID.Validate(); err != nil {
		return ReopenReturnCommand{}, err
	}

	return ReopenReturnCommand{
		returnID: returnID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ReopenReturnCommand) Validate() error {
	return c.guard.Validate(ErrReopenReturnCommandIsNotConstructed)
}

// ReturnID returns the identifier of the return to reopen.
func (c ReopenReturnCommand) ReturnID() kernel.UUID {
	return c.returnID
}
