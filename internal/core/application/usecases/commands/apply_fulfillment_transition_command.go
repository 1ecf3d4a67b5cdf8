package commands

import (
	"errors"

	"orderops/internal/core/domain/model/kernel"
	"orderops/internal/core/domain/model/order"
	"orderops/internal/pkg/guard"
)

var ErrApplyFulfillmentTransitionCommandIsNotConstructed = errors.New(
	"ApplyFulfillmentTransitionCommand must be created via NewApplyFulfillmentTransitionCommand constructor",
)

// ApplyFulfillmentTransitionCommand moves the selected orders forward to a
// fulfillment status.
//
// Example:
//
//	cmd, err := NewApplyFulfillmentTransitionCommand(ids, order.Delivered)
//	if err != nil {
//	    return err // empty selection or invalid target
//	}
//	result, err := handler.Handle(ctx, cmd)
type ApplyFulfillmentTransitionCommand struct {
	ids    []kernel.OrderID
	target order.FulfillmentStatus

	guard guard.ConstructorGuard
}

// NewApplyFulfillmentTransitionCommand rejects an empty selection and an
// invalid target before anything is loaded.
func NewApplyFulfillmentTransitionCommand(
	ids []kernel.OrderID,
	target order.FulfillmentStatus,
) (ApplyFulfillmentTransitionCommand, error) {
	selection, err := kernel.NewSelection(ids)
	if err != nil {
		return ApplyFulfillmentTransitionCommand{}, err
	}
	if err = target.Validate(); err != nil {
		return ApplyFulfillmentTransitionCommand{}, err
	}

	return ApplyFulfillmentTransitionCommand{
		ids:    selection,
		target: target,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (c ApplyFulfillmentTransitionCommand) Validate() error {
	return c.guard.Validate(ErrApplyFulfillmentTransitionCommandIsNotConstructed)
}

func (c ApplyFulfillmentTransitionCommand) IDs() []kernel.OrderID {
	return c.ids
}

func (c ApplyFulfillmentTransitionCommand) Target() order.FulfillmentStatus {
	return c.target
}
