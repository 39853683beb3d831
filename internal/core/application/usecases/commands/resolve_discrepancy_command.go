package commands

import (
	"errors"

	"returnsync/internal/core/domain/model/kernel"
	"returnsync/internal/pkg/guard"
)

var ErrResolveDiscrepancyCommandIsNotConstructed = errors.New(
	"ResolveDiscrepancyCommand must be created via NewResolveDiscrepancyCommand constructor",
)

// ResolveDiscrepancyCommand ends a discrepancy's lifecycle with an operator
// note describing the resolution.
type ResolveDiscrepancyCommand struct {
	discrepancyID kernel.UUID
	note          string

	guard guard.ConstructorGuard
}

// NewResolveDiscrepancyCommand creates a resolve command. note may be empty,
// in which case the original note is kept.
func NewResolveDiscrepancyCommand(discrepancyID kernel.UUID, note string) (ResolveDiscrepancyCommand, error) {
	if err := discrepancyID.Validate(); err != nil {
		return ResolveDiscrepancyCommand{}, err
	}

	return ResolveDiscrepancyCommand{
		discrepancyID: discrepancyID,
		note:          note,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ResolveDiscrepancyCommand) Validate() error {
	return c.guard.Validate(ErrResolveDiscrepancyCommandIsNotConstructed)
}

// DiscrepancyID returns the identifier of the discrepancy to resolve.
func (c ResolveDiscrepancyCommand) DiscrepancyID() kernel.UUID {
	return c.discrepancyID
}

// Note returns the resolution note.
func (c ResolveDiscrepancyCommand) Note() string {
	return c.note
}
