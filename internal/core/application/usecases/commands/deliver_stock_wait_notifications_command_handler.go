package commands

import (
	"context"
	"log/slog"
	"time"

	"orderops/internal/core/domain/model/notification"
	"orderops/internal/core/ports"

	"github.com/cenkalti/backoff/v4"
)

const (
	DefaultNotificationMaxAttempts = 8
	DefaultNotificationBaseBackoff = 30 * time.Second
)

// DeliveryOptions tunes notification delivery.
type DeliveryOptions struct {
	// MaxAttempts is the number of failed runs after which a notification
	// becomes failed.
	MaxAttempts int
	// BaseBackoff is the delay before the second run; it doubles on every
	// further failure.
	BaseBackoff time.Duration
	// SendBackOff builds the policy for quick retries of one send within a
	// run. Nil uses a short exponential policy.
	SendBackOff func() backoff.BackOff
}

func (o DeliveryOptions) withDefaults() DeliveryOptions {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultNotificationMaxAttempts
	}
	if o.BaseBackoff <= 0 {
		o.BaseBackoff = DefaultNotificationBaseBackoff
	}
	if o.SendBackOff == nil {
		o.SendBackOff = defaultSendBackOff
	}
	return o
}

func defaultSendBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	b.MaxElapsedTime = 5 * time.Second
	return backoff.WithMaxRetries(b, 2)
}

// DeliveryReport counts what happened to the notifications of one run.
type DeliveryReport struct {
	Sent     int
	Retrying int
	Failed   int
}

// DeliverStockWaitNotificationsCommandHandler hands due stock-wait emails to
// the mail queue. A send that keeps failing within the run is recorded on
// the notification and retried by a later run after an exponential delay.
type DeliverStockWaitNotificationsCommandHandler struct {
	uowFactory NotificationUoWFactory
	sender     ports.EmailSender
	clock      ports.Clock
	opts       DeliveryOptions
	logger     *slog.Logger
}

func NewDeliverStockWaitNotificationsCommandHandler(
	uowFactory NotificationUoWFactory,
	sender ports.EmailSender,
	clock ports.Clock,
	opts DeliveryOptions,
	logger *slog.Logger,
) DeliverStockWaitNotificationsCommandHandler {
	if clock == nil {
		clock = ports.ClockFunc(time.Now)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return DeliverStockWaitNotificationsCommandHandler{
		uowFactory: uowFactory,
		sender:     sender,
		clock:      clock,
		opts:       opts.withDefaults(),
		logger:     logger.With("component", "stock_wait_delivery"),
	}
}

func (h DeliverStockWaitNotificationsCommandHandler) Handle(
	ctx context.Context,
	command DeliverStockWaitNotificationsCommand,
) (DeliveryReport, error) {
	var report DeliveryReport
	if err := command.Validate(); err != nil {
		return report, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return report, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.NotificationRepository()
	now := h.clock.Now()
	due, err := repo.GetDue(ctx, now, command.BatchSize())
	if err != nil {
		return report, err
	}

	for _, n := range due {
		if !n.IsDue(now) {
			continue
		}
		if err = h.deliver(ctx, n, &report); err != nil {
			return report, err
		}
		if err = repo.Update(ctx, n); err != nil {
			return report, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return report, err
	}
	return report, nil
}

func (h DeliverStockWaitNotificationsCommandHandler) deliver(
	ctx context.Context,
	n *notification.StockWaitNotification,
	report *DeliveryReport,
) error {
	email := ports.StockWaitEmail{
		NotificationID: n.ID(),
		OrderID:        n.OrderID(),
		Recipient:      n.Recipient(),
		CustomerName:   n.CustomerName(),
		AvailableOn:    n.AvailableOn(),
	}

	sendErr := backoff.Retry(func() error {
		return h.sender.SendStockWaitEmail(ctx, email)
	}, backoff.WithContext(h.opts.SendBackOff(), ctx))

	if sendErr == nil {
		report.Sent++
		return n.MarkSent(h.clock.Now())
	}

	if err := n.MarkAttemptFailed(sendErr, h.clock.Now(), h.opts.BaseBackoff, h.opts.MaxAttempts); err != nil {
		return err
	}
	if n.Status() == notification.Failed {
		report.Failed++
		h.logger.ErrorContext(ctx, "stock-wait notification gave up",
			"notification_id", n.ID().String(),
			"order_id", n.OrderID().String(),
			"attempts", n.Attempts(),
			"error", sendErr,
		)
		return nil
	}
	report.Retrying++
	h.logger.WarnContext(ctx, "stock-wait notification will be retried",
		"notification_id", n.ID().String(),
		"order_id", n.OrderID().String(),
		"next_attempt_at", n.NextAttemptAt(),
		"error", sendErr,
	)
	return nil
}
