package commands

import (
	"context"
	"log/slog"
	"time"

	"orderops/internal/core/domain/model/order"
	"orderops/internal/core/ports"
)

// ApplyFulfillmentTransitionCommandHandler applies forward-only fulfillment
// transitions.
//
// Per order:
//   - current == target succeeds without writing anything
//   - current > target fails with ReasonInvalidTransition
//   - unknown ids fail with ReasonNotFound
type ApplyFulfillmentTransitionCommandHandler struct {
	engine transitionEngine
}

func NewApplyFulfillmentTransitionCommandHandler(
	uowFactory UoWFactory,
	clock ports.Clock,
	opts TransitionOptions,
	logger *slog.Logger,
) ApplyFulfillmentTransitionCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return ApplyFulfillmentTransitionCommandHandler{
		engine: newTransitionEngine(uowFactory, clock, opts, logger.With("component", "fulfillment_transition")),
	}
}

// Handle returns an error only when the command itself is invalid; order
// failures are reported in the BulkResult.
func (h ApplyFulfillmentTransitionCommandHandler) Handle(
	ctx context.Context,
	command ApplyFulfillmentTransitionCommand,
) (BulkResult, error) {
	if err := command.Validate(); err != nil {
		return BulkResult{}, err
	}

	target := command.Target()
	result := h.engine.apply(ctx, "fulfillment:"+target.String(), command.IDs(),
		func(_ context.Context, _ UoW, o *order.Order, now time.Time) (bool, error) {
			return o.ChangeFulfillmentStatus(target, now)
		},
	)
	return result, nil
}
