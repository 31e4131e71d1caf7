package commands

import (
	"errors"

	"pawtraits/internal/core/domain/model/kernel"
	"pawtraits/internal/pkg/errs"
	"pawtraits/internal/pkg/guard"
)

var ErrCancelFulfillmentCommandIsNotConstructed = errors.New(
	"CancelFulfillmentCommand must be created via NewCancelFulfillmentCommand constructor",
)

// CancelFulfillmentCommand requests cancellation of one backend's
// fulfillment for an order. Method names the backend ("digital_delivery",
// "print"); whether cancellation is possible is the backend's call.
type CancelFulfillmentCommand struct {
	orderID kernel.UUID
	method  string

	guard guard.ConstructorGuard
}

// NewCancelFulfillmentCommand creates a cancellation command.
// Returns a validation error when the order id or method is empty.
func NewCancelFulfillmentCommand(orderID kernel.UUID, method string) (CancelFulfillmentCommand, error) {
	if err := orderID.Validate(); err != nil {
		return CancelFulfillmentCommand{}, errs.NewValueIsRequiredErrorWithCause("orderID", err)
	}
	if method == "" {
		return CancelFulfillmentCommand{}, errs.NewValueIsRequiredError("method")
	}

	return CancelFulfillmentCommand{
		orderID: orderID,
		method:  method,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// OrderID returns the identifier of the order whose fulfillment to cancel.
func (c *CancelFulfillmentCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Method returns the backend method name to cancel.
func (c *CancelFulfillmentCommand) Method() string {
	return c.method
}

// Validate ensures the command was created through the constructor.
// Returns ErrCancelFulfillmentCommandIsNotConstructed if validation fails.
func (c *CancelFulfillmentCommand) Validate() error {
	return c.guard.Validate(
		ErrCancelFulfillmentCommandIsNotConstructed,
	)
}
