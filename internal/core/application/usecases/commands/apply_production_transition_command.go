package commands

import (
	"errors"

	"orderops/internal/core/domain/model/kernel"
	"orderops/internal/core/domain/model/order"
	"orderops/internal/pkg/guard"
)

var ErrApplyProductionTransitionCommandIsNotConstructed = errors.New(
	"ApplyProductionTransitionCommand must be created via NewApplyProductionTransitionCommand constructor",
)

// ApplyProductionTransitionCommand sets the production label of the selected
// orders. order.ProductionNone clears it.
type ApplyProductionTransitionCommand struct {
	ids    []kernel.OrderID
	target order.ProductionStatus

	guard guard.ConstructorGuard
}

// NewApplyProductionTransitionCommand validates label membership, so unknown
// labels are rejected before any order is touched.
func NewApplyProductionTransitionCommand(
	ids []kernel.OrderID,
	target order.ProductionStatus,
) (ApplyProductionTransitionCommand, error) {
	selection, err := kernel.NewSelection(ids)
	if err != nil {
		return ApplyProductionTransitionCommand{}, err
	}
	if err = target.Validate(); err != nil {
		return ApplyProductionTransitionCommand{}, err
	}

	return ApplyProductionTransitionCommand{
		ids:    selection,
		target: target,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (c ApplyProductionTransitionCommand) Validate() error {
	return c.guard.Validate(ErrApplyProductionTransitionCommandIsNotConstructed)
}

func (c ApplyProductionTransitionCommand) IDs() []kernel.OrderID {
	return c.ids
}

func (c ApplyProductionTransitionCommand) Target() order.ProductionStatus {
	return c.target
}
