package commands

import (
	"context"
	"errors"

	"orderops/internal/core/application/usecases/queries"
	"orderops/internal/core/domain/model/kernel"
	"orderops/internal/core/domain/model/order"
	"orderops/internal/core/domain/services"
	"orderops/internal/pkg/errs"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	// ErrDeadlineExceeded marks ids left unprocessed when the request deadline passed.
	ErrDeadlineExceeded = errors.New("deadline exceeded before the order was processed")
)

// Reason is the machine-readable code reported for a failed order or a
// rejected request.
type Reason string

const (
	ReasonNotFound          Reason = "not-found"
	ReasonInvalidTransition Reason = "invalid-transition"
	ReasonInvalidDate       Reason = "invalid-date"
	ReasonBatchTooLarge     Reason = "batch-too-large"
	ReasonNoValidOrders     Reason = "no-valid-orders"
	ReasonUnknownCommand    Reason = "unknown-command"
	ReasonDeadlineExceeded  Reason = "deadline-exceeded"

	// Request-level codes that never appear per order.
	ReasonEmptySelection  Reason = "empty-selection"
	ReasonInvalidArgument Reason = "invalid-argument"

	// ReasonConflict is reported when concurrent writers kept winning the
	// compare-and-set until the retry budget ran out.
	ReasonConflict Reason = "conflict"
	ReasonInternal Reason = "internal-error"
)

// ReasonFor classifies err. It returns "" for a nil error.
func ReasonFor(err error) Reason {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnknownCommand):
		return ReasonUnknownCommand
	case errors.Is(err, kernel.ErrEmptySelection):
		return ReasonEmptySelection
	case errors.Is(err, queries.ErrBatchTooLarge):
		return ReasonBatchTooLarge
	case errors.Is(err, queries.ErrNoValidOrders):
		return ReasonNoValidOrders
	case errors.Is(err, services.ErrInvalidDate):
		return ReasonInvalidDate
	case errors.Is(err, order.ErrInvalidTransition):
		return ReasonInvalidTransition
	case errors.Is(err, errs.ErrObjectNotFound):
		return ReasonNotFound
	case errors.Is(err, ErrDeadlineExceeded),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return ReasonDeadlineExceeded
	case errors.Is(err, errs.ErrVersionConflict):
		return ReasonConflict
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return ReasonInvalidArgument
	default:
		return ReasonInternal
	}
}

// Failure is the outcome of one order that could not be processed.
type Failure struct {
	ID     kernel.OrderID
	Reason Reason
	Err    error
}

// BulkResult is the per-order outcome of a bulk command. A partial failure
// is a normal result: callers must inspect Failed even when Succeeded is
// not empty.
type BulkResult struct {
	Succeeded []kernel.OrderID
	Failed    []Failure
}

// HasFailures reports whether at least one order failed.
func (r BulkResult) HasFailures() bool {
	return len(r.Failed) > 0
}

// newBulkResult pairs ids with their outcomes, keeping the order of ids.
func newBulkResult(ids []kernel.OrderID, outcomes []error) BulkResult {
	result := BulkResult{
		Succeeded: make([]kernel.OrderID, 0, len(ids)),
		Failed:    make([]Failure, 0),
	}
	for i, id := range ids {
		if outcomes[i] == nil {
			result.Succeeded = append(result.Succeeded, id)
			continue
		}
		result.Failed = append(result.Failed, Failure{
			ID:     id,
			Reason: ReasonFor(outcomes[i]),
			Err:    outcomes[i],
		})
	}
	return result
}

// failAll reports err for every id.
func failAll(ids []kernel.OrderID, err error) BulkResult {
	outcomes := make([]error, len(ids))
	for i := range outcomes {
		outcomes[i] = err
	}
	return newBulkResult(ids, outcomes)
}
