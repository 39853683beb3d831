// Package guard implements the constructor-guard pattern used by commands,
// queries and value objects across the application. Embedding a
// ConstructorGuard in a struct makes zero-value instances detectable, so an
// object that bypassed its constructor fails validation instead of carrying
// half-initialized state into a handler.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the caller passes a
// nil validation error. Validation always fails with a meaningful message.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard distinguishes properly constructed objects from zero
// values. The internal flag can only become true through NewConstructorGuard,
// which constructors are expected to call.
//
// Example:
//
//	type SyncReturnsCommand struct {
//	    window kernel.TimeWindow
//	    guard  guard.ConstructorGuard
//	}
//
//	func NewSyncReturnsCommand(w kernel.TimeWindow) SyncReturnsCommand {
//	    return SyncReturnsCommand{window: w, guard: guard.NewConstructorGuard()}
//	}
//
//	func (c SyncReturnsCommand) Validate() error {
//	    return c.guard.Validate(ErrSyncReturnsCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard marks an object as properly constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a properly constructed guard. For a zero-value
// guard it returns validationError, or ErrDefaultConstructorGuard when
// validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
