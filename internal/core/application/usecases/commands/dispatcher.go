package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"orderops/internal/core/application/usecases/queries"
	"orderops/internal/core/domain/model/kernel"
	"orderops/internal/core/domain/model/order"
	"orderops/internal/pkg/guard"
)

// Command identifiers accepted by the Dispatcher.
const (
	CommandProductionSet        = "production.set"
	CommandProductionVinyl      = "production.vinyl"
	CommandProductionBattery    = "production.battery"
	CommandProductionClear      = "production.clear"
	CommandFulfillmentSet       = "fulfillment.set"
	CommandFulfillmentFulfilled = "fulfillment.fulfilled"
	CommandFulfillmentDelivered = "fulfillment.delivered"
	CommandStockWaitSchedule    = "stock_wait.schedule"
	CommandExportTabular        = "export.tabular"
	CommandExportPacking        = "export.packing"
)

func getKnownCommands() map[string]struct{} {
	return map[string]struct{}{
		CommandProductionSet:        {},
		CommandProductionVinyl:      {},
		CommandProductionBattery:    {},
		CommandProductionClear:      {},
		CommandFulfillmentSet:       {},
		CommandFulfillmentFulfilled: {},
		CommandFulfillmentDelivered: {},
		CommandStockWaitSchedule:    {},
		CommandExportTabular:        {},
		CommandExportPacking:        {},
	}
}

var ErrBulkCommandIsNotConstructed = errors.New("BulkCommand must be created via NewBulkCommand constructor")

// BulkCommandParams carries the command-specific parameters. Target is read
// by production.set and fulfillment.set, Day and Month by stock_wait.schedule.
type BulkCommandParams struct {
	Target string
	Day    int
	Month  int
}

// BulkCommand is an operator action on a set of orders. It is never stored.
type BulkCommand struct {
	name   string
	ids    []kernel.OrderID
	params BulkCommandParams

	guard guard.ConstructorGuard
}

// NewBulkCommand checks the preconditions shared by every command: the
// identifier must be known and the selection non-empty.
func NewBulkCommand(name string, ids []kernel.OrderID, params BulkCommandParams) (BulkCommand, error) {
	if _, ok := getKnownCommands()[name]; !ok {
		return BulkCommand{}, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	selection, err := kernel.NewSelection(ids)
	if err != nil {
		return BulkCommand{}, err
	}
	return BulkCommand{
		name:   name,
		ids:    selection,
		params: params,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (c BulkCommand) Validate() error {
	return c.guard.Validate(ErrBulkCommandIsNotConstructed)
}

func (c BulkCommand) Name() string {
	return c.name
}

func (c BulkCommand) IDs() []kernel.OrderID {
	return c.ids
}

func (c BulkCommand) Params() BulkCommandParams {
	return c.params
}

// DispatchResult holds exactly one of Result (mutating commands) or Export.
type DispatchResult struct {
	Command string
	Result  *BulkResult
	Export  *queries.ExportResponse
}

type (
	FulfillmentTransitionHandler interface {
		Handle(ctx context.Context, command ApplyFulfillmentTransitionCommand) (BulkResult, error)
	}

	ProductionTransitionHandler interface {
		Handle(ctx context.Context, command ApplyProductionTransitionCommand) (BulkResult, error)
	}

	StockWaitScheduler interface {
		Handle(ctx context.Context, command ScheduleStockWaitCommand) (BulkResult, error)
	}

	TabularExporter interface {
		Handle(ctx context.Context, query queries.ExportTabularQuery) (queries.ExportResponse, error)
	}

	PackingDocumentExporter interface {
		Handle(ctx context.Context, query queries.ExportPackingDocumentsQuery) (queries.ExportResponse, error)
	}
)

// Dispatcher is the single entry point for bulk commands. It maps a command
// identifier to a transition, a stock-wait schedule or an export.
//
// Example:
//
//	cmd, err := NewBulkCommand(CommandFulfillmentDelivered, ids, BulkCommandParams{})
//	if err != nil {
//	    return err // unknown-command or empty selection
//	}
//	res, err := dispatcher.Dispatch(ctx, cmd)
//	for _, f := range res.Result.Failed {
//	    fmt.Println(f.ID, f.Reason)
//	}
type Dispatcher struct {
	fulfillment FulfillmentTransitionHandler
	production  ProductionTransitionHandler
	stockWait   StockWaitScheduler
	tabular     TabularExporter
	packing     PackingDocumentExporter
	logger      *slog.Logger
}

func NewDispatcher(
	fulfillment FulfillmentTransitionHandler,
	production ProductionTransitionHandler,
	stockWait StockWaitScheduler,
	tabular TabularExporter,
	packing PackingDocumentExporter,
	logger *slog.Logger,
) Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return Dispatcher{
		fulfillment: fulfillment,
		production:  production,
		stockWait:   stockWait,
		tabular:     tabular,
		packing:     packing,
		logger:      logger.With("component", "dispatcher"),
	}
}

// Dispatch returns an error for request-level failures (invalid parameters,
// batch-too-large, no-valid-orders). Per-order failures are in the result.
func (d Dispatcher) Dispatch(ctx context.Context, command BulkCommand) (DispatchResult, error) {
	if err := command.Validate(); err != nil {
		return DispatchResult{}, err
	}

	d.logger.DebugContext(ctx, "dispatching bulk command",
		"command", command.Name(),
		"orders", len(command.IDs()),
	)

	ids := command.IDs()
	params := command.Params()
	switch command.Name() {
	case CommandProductionSet:
		target, err := order.ParseProductionStatus(params.Target)
		if err != nil {
			return DispatchResult{}, err
		}
		return d.applyProduction(ctx, command.Name(), ids, target)
	case CommandProductionVinyl:
		return d.applyProduction(ctx, command.Name(), ids, order.VinylProduction)
	case CommandProductionBattery:
		return d.applyProduction(ctx, command.Name(), ids, order.BatteryProduction)
	case CommandProductionClear:
		return d.applyProduction(ctx, command.Name(), ids, order.ProductionNone)
	case CommandFulfillmentSet:
		target, err := order.ParseFulfillmentStatus(params.Target)
		if err != nil {
			return DispatchResult{}, err
		}
		return d.applyFulfillment(ctx, command.Name(), ids, target)
	case CommandFulfillmentFulfilled:
		return d.applyFulfillment(ctx, command.Name(), ids, order.Fulfilled)
	case CommandFulfillmentDelivered:
		return d.applyFulfillment(ctx, command.Name(), ids, order.Delivered)
	case CommandStockWaitSchedule:
		cmd, err := NewScheduleStockWaitCommand(ids, params.Day, params.Month)
		if err != nil {
			return DispatchResult{}, err
		}
		return bulkResult(command.Name())(d.stockWait.Handle(ctx, cmd))
	case CommandExportTabular:
		query, err := queries.NewExportTabularQuery(ids)
		if err != nil {
			return DispatchResult{}, err
		}
		return exportResult(command.Name())(d.tabular.Handle(ctx, query))
	case CommandExportPacking:
		query, err := queries.NewExportPackingDocumentsQuery(ids)
		if err != nil {
			return DispatchResult{}, err
		}
		return exportResult(command.Name())(d.packing.Handle(ctx, query))
	default:
		return DispatchResult{}, fmt.Errorf("%w: %q", ErrUnknownCommand, command.Name())
	}
}

func (d Dispatcher) applyProduction(
	ctx context.Context,
	name string,
	ids []kernel.OrderID,
	target order.ProductionStatus,
) (DispatchResult, error) {
	cmd, err := NewApplyProductionTransitionCommand(ids, target)
	if err != nil {
		return DispatchResult{}, err
	}
	return bulkResult(name)(d.production.Handle(ctx, cmd))
}

func (d Dispatcher) applyFulfillment(
	ctx context.Context,
	name string,
	ids []kernel.OrderID,
	target order.FulfillmentStatus,
) (DispatchResult, error) {
	cmd, err := NewApplyFulfillmentTransitionCommand(ids, target)
	if err != nil {
		return DispatchResult{}, err
	}
	return bulkResult(name)(d.fulfillment.Handle(ctx, cmd))
}

func bulkResult(name string) func(BulkResult, error) (DispatchResult, error) {
	return func(result BulkResult, err error) (DispatchResult, error) {
		if err != nil {
			return DispatchResult{}, err
		}
		return DispatchResult{Command: name, Result: &result}, nil
	}
}

func exportResult(name string) func(queries.ExportResponse, error) (DispatchResult, error) {
	return func(resp queries.ExportResponse, err error) (DispatchResult, error) {
		if err != nil {
			return DispatchResult{}, err
		}
		return DispatchResult{Command: name, Export: &resp}, nil
	}
}
