// Package guard holds the constructor guard embedded by command and query
// value objects so zero values are rejected before a handler runs.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks a value as built by its constructor. A zero-value
// guard fails validation, so a struct literal like ScheduleStockWaitCommand{}
// never reaches a handler.
//
// Example:
//
//	type ExportTabularQuery struct {
//	    ids   []kernel.OrderID
//	    guard guard.ConstructorGuard
//	}
//
//	func (q ExportTabularQuery) Validate() error {
//	    return q.guard.Validate(ErrExportTabularQueryIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard that passes validation.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard is a zero value.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
