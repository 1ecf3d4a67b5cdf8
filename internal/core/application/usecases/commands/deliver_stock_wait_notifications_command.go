package commands

import (
	"errors"
	"fmt"

	"orderops/internal/pkg/errs"
	"orderops/internal/pkg/guard"
)

var ErrDeliverStockWaitNotificationsCommandIsNotConstructed = errors.New(
	"DeliverStockWaitNotificationsCommand must be created via NewDeliverStockWaitNotificationsCommand constructor",
)

// DeliverStockWaitNotificationsCommand sends up to batchSize due notifications.
type DeliverStockWaitNotificationsCommand struct {
	batchSize int

	guard guard.ConstructorGuard
}

func NewDeliverStockWaitNotificationsCommand(batchSize int) (DeliverStockWaitNotificationsCommand, error) {
	if batchSize <= 0 {
		return DeliverStockWaitNotificationsCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"batch size",
			fmt.Errorf("must be positive, got %d", batchSize),
		)
	}
	return DeliverStockWaitNotificationsCommand{
		batchSize: batchSize,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c DeliverStockWaitNotificationsCommand) Validate() error {
	return c.guard.Validate(ErrDeliverStockWaitNotificationsCommandIsNotConstructed)
}

func (c DeliverStockWaitNotificationsCommand) BatchSize() int {
	return c.batchSize
}
