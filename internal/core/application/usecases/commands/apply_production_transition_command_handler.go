package commands

import (
	"context"
	"log/slog"
	"time"

	"orderops/internal/core/domain/model/notification"
	"orderops/internal/core/domain/model/order"
	"orderops/internal/core/ports"
)

// ApplyProductionTransitionCommandHandler sets production labels. Labels have
// no ordering, so every existing order succeeds. An order leaving StockWait
// has its pending stock-wait email cancelled in the same transaction.
type ApplyProductionTransitionCommandHandler struct {
	engine transitionEngine
}

func NewApplyProductionTransitionCommandHandler(
	uowFactory UoWFactory,
	clock ports.Clock,
	opts TransitionOptions,
	logger *slog.Logger,
) ApplyProductionTransitionCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return ApplyProductionTransitionCommandHandler{
		engine: newTransitionEngine(uowFactory, clock, opts, logger.With("component", "production_transition")),
	}
}

func (h ApplyProductionTransitionCommandHandler) Handle(
	ctx context.Context,
	command ApplyProductionTransitionCommand,
) (BulkResult, error) {
	if err := command.Validate(); err != nil {
		return BulkResult{}, err
	}

	target := command.Target()
	operation := "production:" + target.String()
	if target.IsNone() {
		operation = "production:none"
	}
	result := h.engine.apply(ctx, operation, command.IDs(),
		func(ctx context.Context, uow UoW, o *order.Order, now time.Time) (bool, error) {
			wasWaiting := o.ProductionStatus() == order.StockWait
			changed, err := o.ChangeProductionStatus(target, now)
			if err != nil || !changed || !wasWaiting {
				return changed, err
			}
			if err = cancelPendingNotifications(ctx, uow, o.ID(), notification.ReasonLeftStockWait); err != nil {
				return false, err
			}
			return true, nil
		},
	)
	return result, nil
}
