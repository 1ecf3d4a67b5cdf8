package commands

import (
	"errors"

	"orderops/internal/core/domain/model/kernel"
	"orderops/internal/pkg/guard"
)

var ErrScheduleStockWaitCommandIsNotConstructed = errors.New(
	"ScheduleStockWaitCommand must be created via NewScheduleStockWaitCommand constructor",
)

// ScheduleStockWaitCommand puts the selected orders on backorder until the
// operator-chosen day and month.
//
// Day and month are not range checked here: an impossible date is a per-order
// ReasonInvalidDate outcome, reported by the handler for every id.
//
// Example:
//
//	cmd, err := NewScheduleStockWaitCommand(ids, 15, 1)
//	result, err := handler.Handle(ctx, cmd)
type ScheduleStockWaitCommand struct {
	ids   []kernel.OrderID
	day   int
	month int

	guard guard.ConstructorGuard
}

func NewScheduleStockWaitCommand(ids []kernel.OrderID, day, month int) (ScheduleStockWaitCommand, error) {
	selection, err := kernel.NewSelection(ids)
	if err != nil {
		return ScheduleStockWaitCommand{}, err
	}

	return ScheduleStockWaitCommand{
		ids:   selection,
		day:   day,
		month: month,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c ScheduleStockWaitCommand) Validate() error {
	return c.guard.Validate(ErrScheduleStockWaitCommandIsNotConstructed)
}

func (c ScheduleStockWaitCommand) IDs() []kernel.OrderID {
	return c.ids
}

func (c ScheduleStockWaitCommand) Day() int {
	return c.day
}

func (c ScheduleStockWaitCommand) Month() int {
	return c.month
}
