package cmd

import (
	"log/slog"
	"time"

	"orderops/internal/adapters/out/export/csvexport"
	"orderops/internal/adapters/out/export/pdfexport"
	"orderops/internal/adapters/out/postgres"
	"orderops/internal/core/application/usecases/commands"
	"orderops/internal/core/application/usecases/queries"
	"orderops/internal/core/domain/services"
	"orderops/internal/core/ports"

	"gorm.io/gorm"
)

// CompositionRoot builds the application handlers on top of the shared
// infrastructure clients.
type CompositionRoot struct {
	cfg        Config
	uowFactory postgres.GormUnitOfWorkFactory
	clock      ports.Clock
	logger     *slog.Logger
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		cfg:        cfg,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		clock:      ports.ClockFunc(time.Now),
		logger:     logger,
	}
}

func (c *CompositionRoot) transitionOptions() commands.TransitionOptions {
	return commands.TransitionOptions{
		MaxParallelism:     c.cfg.Workflow.MaxParallelism,
		MaxConflictRetries: c.cfg.Workflow.MaxConflictRetries,
		OrderTimeout:       c.cfg.Workflow.OrderTimeout,
	}
}

func (c *CompositionRoot) orderUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateApplyFulfillmentTransitionCommandHandler() commands.ApplyFulfillmentTransitionCommandHandler {
	return commands.NewApplyFulfillmentTransitionCommandHandler(c.orderUoWFactory(), c.clock, c.transitionOptions(), c.logger)
}

func (c *CompositionRoot) CreateApplyProductionTransitionCommandHandler() commands.ApplyProductionTransitionCommandHandler {
	return commands.NewApplyProductionTransitionCommandHandler(c.orderUoWFactory(), c.clock, c.transitionOptions(), c.logger)
}

func (c *CompositionRoot) CreateScheduleStockWaitCommandHandler() commands.ScheduleStockWaitCommandHandler {
	resolver := services.NewStockDateResolver(c.cfg.Location())
	return commands.NewScheduleStockWaitCommandHandler(c.orderUoWFactory(), resolver, c.clock, c.transitionOptions(), c.logger)
}

func (c *CompositionRoot) CreateDeliverStockWaitNotificationsCommandHandler(
	sender ports.EmailSender,
) commands.DeliverStockWaitNotificationsCommandHandler {
	var f commands.NotificationUoWFactory = FuncNotificationUoWFactory(func() commands.NotificationUoW {
		return c.uowFactory.Create()
	})
	opts := commands.DeliveryOptions{
		MaxAttempts: c.cfg.Workflow.NotificationMaxAttempts,
		BaseBackoff: c.cfg.Workflow.NotificationBaseBackoff,
	}
	return commands.NewDeliverStockWaitNotificationsCommandHandler(f, sender, c.clock, opts, c.logger)
}

func (c *CompositionRoot) CreateRelayOutboxCommandHandler(publisher ports.EventPublisher) commands.RelayOutboxCommandHandler {
	var f commands.OutboxUoWFactory = FuncOutboxUoWFactory(func() commands.OutboxUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRelayOutboxCommandHandler(f, publisher, c.clock)
}

// orderReader reads outside of any transaction.
func (c *CompositionRoot) orderReader() queries.OrderReader {
	return c.uowFactory.Create().OrderRepository()
}

func (c *CompositionRoot) CreateExportTabularQueryHandler() queries.ExportTabularQueryHandler {
	return queries.NewExportTabularQueryHandler(
		c.orderReader(), csvexport.NewRenderer(c.cfg.Location()), c.clock, c.cfg.Workflow.MaxExportBatch)
}

func (c *CompositionRoot) CreateExportPackingDocumentsQueryHandler() queries.ExportPackingDocumentsQueryHandler {
	return queries.NewExportPackingDocumentsQueryHandler(
		c.orderReader(), pdfexport.NewRenderer(c.cfg.Location()), c.clock, c.cfg.Workflow.MaxExportBatch)
}

func (c *CompositionRoot) CreateDispatcher() commands.Dispatcher {
	return commands.NewDispatcher(
		c.CreateApplyFulfillmentTransitionCommandHandler(),
		c.CreateApplyProductionTransitionCommandHandler(),
		c.CreateScheduleStockWaitCommandHandler(),
		c.CreateExportTabularQueryHandler(),
		c.CreateExportPackingDocumentsQueryHandler(),
		c.logger,
	)
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncNotificationUoWFactory func() commands.NotificationUoW

func (f FuncNotificationUoWFactory) Create() commands.NotificationUoW {
	return f()
}

type FuncOutboxUoWFactory func() commands.OutboxUoW

func (f FuncOutboxUoWFactory) Create() commands.OutboxUoW {
	return f()
}
