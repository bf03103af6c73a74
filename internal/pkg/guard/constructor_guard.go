// Package guard provides ConstructorGuard, a marker embedded into value objects,
// commands and queries so that zero values can be told apart from values built
// through their constructors.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard records whether the enclosing value was created by its constructor.
//
// Example:
//
//	type ReleaseEscrowCommand struct {
//	    now   time.Time
//	    guard guard.ConstructorGuard
//	}
//
//	func NewReleaseEscrowCommand(now time.Time) ReleaseEscrowCommand {
//	    return ReleaseEscrowCommand{now: now, guard: guard.NewConstructorGuard()}
//	}
//
//	func (c ReleaseEscrowCommand) Validate() error {
//	    return c.guard.Validate(ErrReleaseEscrowCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marking the value as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard is a zero value, nil otherwise.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
