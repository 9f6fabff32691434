// Package guard provides the ConstructorGuard used by value objects, entities and
// commands to tell a properly constructed instance apart from its zero value.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by ConstructorGuard.Validate when no specific
// validation error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded into structs whose zero value is invalid. It carries a
// single flag that only the constructor sets, so Validate fails for zero values and
// succeeds for values built through the designated constructor.
//
// Example usage:
//
//	var ErrLegIsNotConstructed = errors.New("Leg must be created via NewLeg")
//
//	type Leg struct {
//	    origin, destination kernel.Location
//	    guard               guard.ConstructorGuard
//	}
//
//	func (l Leg) Validate() error {
//	    return l.guard.Validate(ErrLegIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard that marks its owner as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a constructed guard. For a zero-value guard it returns
// validationError, or ErrDefaultConstructorGuard when validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
