package jobs

import (
	"context"
	"log/slog"

	"orderops/internal/core/application/usecases/commands"
	"orderops/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

const (
	DefaultNotificationSchedule  = "*/30 * * * * *"
	DefaultNotificationBatchSize = 50
)

type NotificationDeliverer interface {
	Handle(ctx context.Context, command commands.DeliverStockWaitNotificationsCommand) (commands.DeliveryReport, error)
}

// NotificationDeliveryJob hands due stock-wait emails to the mail queue.
type NotificationDeliveryJob struct {
	handler   NotificationDeliverer
	schedule  string
	batchSize int
	metrics   *metrics.Metrics
	cron      *cron.Cron
	logger    *slog.Logger
}

func NewNotificationDeliveryJob(
	handler NotificationDeliverer,
	schedule string,
	batchSize int,
	m *metrics.Metrics,
	logger *slog.Logger,
) *NotificationDeliveryJob {
	if schedule == "" {
		schedule = DefaultNotificationSchedule
	}
	if batchSize <= 0 {
		batchSize = DefaultNotificationBatchSize
	}
	return &NotificationDeliveryJob{
		handler:   handler,
		schedule:  schedule,
		batchSize: batchSize,
		metrics:   m,
		cron:      newCron(),
		logger:    logger.With("component", "notification_delivery_job"),
	}
}

// Run delivers one batch.
func (j *NotificationDeliveryJob) Run(ctx context.Context) {
	cmd, err := commands.NewDeliverStockWaitNotificationsCommand(j.batchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Notification delivery job misconfigured", "error", err)
		return
	}

	report, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Notification delivery job failed", "error", err)
		return
	}

	if j.metrics != nil {
		j.metrics.Notifications.WithLabelValues("sent").Add(float64(report.Sent))
		j.metrics.Notifications.WithLabelValues("retrying").Add(float64(report.Retrying))
		j.metrics.Notifications.WithLabelValues("failed").Add(float64(report.Failed))
	}
	if report.Sent+report.Retrying+report.Failed > 0 {
		j.logger.InfoContext(ctx, "Stock-wait notifications processed",
			"sent", report.Sent,
			"retrying", report.Retrying,
			"failed", report.Failed,
		)
	}
}

func (j *NotificationDeliveryJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Notification delivery job started", "schedule", j.schedule)
	return nil
}

// Stop waits for a running batch to finish.
func (j *NotificationDeliveryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Notification delivery job stopped")
}
