package commands

import (
	"errors"

	"pawtraits/internal/core/domain/model/kernel"
	"pawtraits/internal/pkg/errs"
	"pawtraits/internal/pkg/guard"
)

var ErrFulfillOrderCommandIsNotConstructed = errors.New(
	"FulfillOrderCommand must be created via NewFulfillOrderCommand constructor",
)

// FulfillOrderCommand triggers a fulfillment run for one paid order.
// This command represents the business operation of routing every line item
// of the order to the backends able to fulfill it.
//
// Example:
//
//	cmd, err := NewFulfillOrderCommand(orderID)
//	if err != nil {
//	    return err
//	}
//	handler := NewFulfillOrderCommandHandler(uowFactory, router, notifier)
//	results, err := handler.Handle(ctx, cmd)
type FulfillOrderCommand struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewFulfillOrderCommand creates a fulfillment command for the given order.
// Returns a validation error when the order id is empty.
func NewFulfillOrderCommand(orderID kernel.UUID) (FulfillOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return FulfillOrderCommand{}, errs.NewValueIsRequiredErrorWithCause("orderID", err)
	}

	return FulfillOrderCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// OrderID returns the identifier of the order to fulfill.
func (c *FulfillOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Validate ensures the command was created through the constructor.
// Returns ErrFulfillOrderCommandIsNotConstructed if validation fails.
func (c *FulfillOrderCommand) Validate() error {
	return c.guard.Validate(
		ErrFulfillOrderCommandIsNotConstructed,
	)
}
