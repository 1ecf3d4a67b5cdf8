package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"orderops/internal/core/domain/model/kernel"
	"orderops/internal/core/domain/model/order"
	"orderops/internal/core/ports"
	"orderops/internal/pkg/errs"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultMaxParallelism     = 8
	DefaultMaxConflictRetries = 3
	DefaultOrderTimeout       = 10 * time.Second
)

// TransitionOptions tunes the Transition Engine.
type TransitionOptions struct {
	// MaxParallelism bounds how many orders of one batch are mutated at once.
	MaxParallelism int
	// MaxConflictRetries bounds how often one order is reloaded after losing
	// a compare-and-set to a concurrent writer. Zero selects the default,
	// a negative value disables retries.
	MaxConflictRetries int
	// OrderTimeout bounds the unit of work of one order. It is not tied to
	// the request deadline, so an order that was started is finished.
	OrderTimeout time.Duration
}

func (o TransitionOptions) withDefaults() TransitionOptions {
	if o.MaxParallelism <= 0 {
		o.MaxParallelism = DefaultMaxParallelism
	}
	if o.MaxConflictRetries < 0 {
		o.MaxConflictRetries = 0
	} else if o.MaxConflictRetries == 0 {
		o.MaxConflictRetries = DefaultMaxConflictRetries
	}
	if o.OrderTimeout <= 0 {
		o.OrderTimeout = DefaultOrderTimeout
	}
	return o
}

// orderMutation changes one loaded order and reports whether it needs to be
// written. It runs inside the order's unit of work so it may add related
// records through uow.
type orderMutation func(ctx context.Context, uow UoW, o *order.Order, now time.Time) (bool, error)

// transitionEngine applies a mutation to every order of a selection.
//
// Each order gets its own unit of work: one order's failure never rolls back
// another's success. The write is a compare-and-set on the order version, so
// a concurrent writer makes the update fail with errs.ErrVersionConflict; the
// order is then reloaded and the mutation re-applied against the fresh state.
// Because transitions are idempotent the losers converge on the same end
// state instead of overwriting it.
type transitionEngine struct {
	uowFactory UoWFactory
	clock      ports.Clock
	opts       TransitionOptions
	logger     *slog.Logger
}

func newTransitionEngine(
	uowFactory UoWFactory,
	clock ports.Clock,
	opts TransitionOptions,
	logger *slog.Logger,
) transitionEngine {
	if clock == nil {
		clock = ports.ClockFunc(time.Now)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return transitionEngine{
		uowFactory: uowFactory,
		clock:      clock,
		opts:       opts.withDefaults(),
		logger:     logger,
	}
}

// apply never fails as a whole; every id gets an outcome. Once ctx is done
// the ids not yet started are reported with ErrDeadlineExceeded without being
// touched; ids already started run to completion.
func (e transitionEngine) apply(
	ctx context.Context,
	operation string,
	ids []kernel.OrderID,
	mutate orderMutation,
) BulkResult {
	outcomes := make([]error, len(ids))

	var g errgroup.Group
	g.SetLimit(e.opts.MaxParallelism)
	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			outcomes[i] = deadlineError(err)
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				outcomes[i] = deadlineError(err)
				return nil
			}
			orderCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.opts.OrderTimeout)
			defer cancel()
			outcomes[i] = e.applyOne(orderCtx, id, mutate)
			return nil
		})
	}
	_ = g.Wait()

	result := newBulkResult(ids, outcomes)
	for _, f := range result.Failed {
		e.logger.DebugContext(ctx, "order not updated",
			"operation", operation,
			"order_id", f.ID.String(),
			"reason", string(f.Reason),
			"error", f.Err,
		)
	}
	e.logger.InfoContext(ctx, "bulk transition applied",
		"operation", operation,
		"succeeded", len(result.Succeeded),
		"failed", len(result.Failed),
	)
	return result
}

func (e transitionEngine) applyOne(ctx context.Context, id kernel.OrderID, mutate orderMutation) error {
	var err error
	for attempt := 0; attempt <= e.opts.MaxConflictRetries; attempt++ {
		err = e.tryApply(ctx, id, mutate)
		if !errors.Is(err, errs.ErrVersionConflict) {
			return err
		}
		e.logger.DebugContext(ctx, "version conflict, reloading order",
			"order_id", id.String(),
			"attempt", attempt+1,
		)
	}
	return err
}

func (e transitionEngine) tryApply(ctx context.Context, id kernel.OrderID, mutate orderMutation) error {
	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, id)
	if err != nil {
		return err
	}

	changed, err := mutate(ctx, uow, o, e.clock.Now())
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	if changes := o.PullChanges(); len(changes) > 0 {
		if err = uow.OutboxRepository().Add(ctx, changes...); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}

func deadlineError(cause error) error {
	return fmt.Errorf("%w: %w", ErrDeadlineExceeded, cause)
}
