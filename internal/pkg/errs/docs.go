// Package errs provides standardized error types for the order workflow service.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes several error types for common error scenarios:
//   - ObjectNotFoundError: an order or notification id that resolves to nothing
//   - ValueIsInvalidError: a value that breaks a domain rule
//   - ValueIsOutOfRangeError: a bounded value (day, month, batch size) outside its range
//   - ValueIsRequiredError: a missing mandatory value
//   - VersionConflictError: a compare-and-set update that lost a race
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() for errors.Is matching against the sentinel and the cause
package errs
