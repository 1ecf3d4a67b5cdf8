package jobs

import (
	"context"
	"log/slog"

	"orderops/internal/core/application/usecases/commands"
	"orderops/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

const (
	DefaultOutboxSchedule  = "*/5 * * * * *"
	DefaultOutboxBatchSize = 100
)

type OutboxRelayer interface {
	Handle(ctx context.Context, command commands.RelayOutboxCommand) (int, error)
}

// OutboxRelayJob publishes pending order events.
type OutboxRelayJob struct {
	handler   OutboxRelayer
	schedule  string
	batchSize int
	metrics   *metrics.Metrics
	cron      *cron.Cron
	logger    *slog.Logger
}

func NewOutboxRelayJob(
	handler OutboxRelayer,
	schedule string,
	batchSize int,
	m *metrics.Metrics,
	logger *slog.Logger,
) *OutboxRelayJob {
	if schedule == "" {
		schedule = DefaultOutboxSchedule
	}
	if batchSize <= 0 {
		batchSize = DefaultOutboxBatchSize
	}
	return &OutboxRelayJob{
		handler:   handler,
		schedule:  schedule,
		batchSize: batchSize,
		metrics:   m,
		cron:      newCron(),
		logger:    logger.With("component", "outbox_relay_job"),
	}
}

// Run relays one batch. A failed batch stays pending for the next run.
func (j *OutboxRelayJob) Run(ctx context.Context) {
	cmd, err := commands.NewRelayOutboxCommand(j.batchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Outbox relay job misconfigured", "error", err)
		return
	}

	published, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		if j.metrics != nil {
			j.metrics.OutboxEvents.WithLabelValues("error").Inc()
		}
		j.logger.ErrorContext(ctx, "Outbox relay job failed", "error", err)
		return
	}

	if published > 0 {
		if j.metrics != nil {
			j.metrics.OutboxEvents.WithLabelValues("published").Add(float64(published))
		}
		j.logger.DebugContext(ctx, "Outbox events published", "count", published)
	}
}

func (j *OutboxRelayJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Outbox relay job started", "schedule", j.schedule)
	return nil
}

// Stop waits for a running batch to finish.
func (j *OutboxRelayJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Outbox relay job stopped")
}
