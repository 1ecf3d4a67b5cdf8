package commands

import (
	"context"
	"log/slog"
	"time"

	"orderops/internal/core/domain/model/kernel"
	"orderops/internal/core/domain/model/notification"
	"orderops/internal/core/domain/model/order"
	"orderops/internal/core/domain/services"
	"orderops/internal/core/ports"
)

// ScheduleStockWaitCommandHandler is the Notification Scheduler.
//
// The stock date is resolved once, before any order is loaded; an invalid
// date fails every id with ReasonInvalidDate and nothing is written.
// Otherwise each order moves to order.StockWait with the resolved date, and a
// pending StockWaitNotification is stored in the same transaction, replacing
// any email still pending from an earlier schedule. The email itself is sent
// later by DeliverStockWaitNotificationsCommandHandler, so delivery problems
// never change the result reported here.
type ScheduleStockWaitCommandHandler struct {
	engine   transitionEngine
	resolver services.StockDateResolver
	clock    ports.Clock
	logger   *slog.Logger
}

func NewScheduleStockWaitCommandHandler(
	uowFactory UoWFactory,
	resolver services.StockDateResolver,
	clock ports.Clock,
	opts TransitionOptions,
	logger *slog.Logger,
) ScheduleStockWaitCommandHandler {
	if clock == nil {
		clock = ports.ClockFunc(time.Now)
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "stock_wait_scheduler")
	return ScheduleStockWaitCommandHandler{
		engine:   newTransitionEngine(uowFactory, clock, opts, logger),
		resolver: resolver,
		clock:    clock,
		logger:   logger,
	}
}

func (h ScheduleStockWaitCommandHandler) Handle(ctx context.Context, command ScheduleStockWaitCommand) (BulkResult, error) {
	if err := command.Validate(); err != nil {
		return BulkResult{}, err
	}

	availableOn, err := h.resolver.Resolve(command.Day(), command.Month(), h.clock.Now())
	if err != nil {
		h.logger.InfoContext(ctx, "stock date rejected",
			"day", command.Day(),
			"month", command.Month(),
			"error", err,
		)
		return failAll(command.IDs(), err), nil
	}

	result := h.engine.apply(ctx, "stock_wait", command.IDs(),
		func(ctx context.Context, uow UoW, o *order.Order, now time.Time) (bool, error) {
			if err := o.ScheduleStockWait(availableOn, now); err != nil {
				return false, err
			}

			var recipient, name string
			if c := o.Customer(); c != nil {
				recipient, name = c.Email(), c.FullName()
			}
			n, err := notification.NewStockWaitNotification(o.ID(), recipient, name, availableOn, now)
			if err != nil {
				return false, err
			}
			if n.Status() == notification.Failed {
				h.logger.WarnContext(ctx, "order has no customer email, notification not sent",
					"order_id", o.ID().String(),
				)
			}
			if err = cancelPendingNotifications(ctx, uow, o.ID(), notification.ReasonRescheduled); err != nil {
				return false, err
			}
			if err = uow.NotificationRepository().Add(ctx, n); err != nil {
				return false, err
			}
			return true, nil
		},
	)
	return result, nil
}

// cancelPendingNotifications withdraws the emails still queued for orderID.
func cancelPendingNotifications(ctx context.Context, uow UoW, orderID kernel.OrderID, reason string) error {
	repo := uow.NotificationRepository()
	pending, err := repo.GetPendingByOrder(ctx, orderID)
	if err != nil {
		return err
	}
	for _, n := range pending {
		if err = n.Cancel(reason); err != nil {
			return err
		}
		if err = repo.Update(ctx, n); err != nil {
			return err
		}
	}
	return nil
}
