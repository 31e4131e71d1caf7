// Package queries contains read-only projections over fulfillment state.
// Implements the Query side of the CQRS architecture: handlers read the
// database directly and never touch domain aggregates.
package queries

import (
	"errors"
	"time"

	"pawtraits/internal/core/domain/model/kernel"
	"pawtraits/internal/pkg/errs"
	"pawtraits/internal/pkg/guard"
)

var ErrGetFulfillmentStatusQueryIsNotConstructed = errors.New(
	"GetFulfillmentStatusQuery must be created via NewGetFulfillmentStatusQuery constructor",
)

// GetFulfillmentStatusQuery retrieves the fulfillment projection of one order:
// overall status, classified fulfillment type, digital delivery state and
// download expiry.
//
// Example:
//
//	query, err := NewGetFulfillmentStatusQuery(orderID)
//	if err != nil {
//	    return err
//	}
//	handler := NewGetFulfillmentStatusQueryHandler(db)
//	status, err := handler.Handle(ctx, query)
type GetFulfillmentStatusQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetFulfillmentStatusQuery creates a status query for the given order.
// Returns a validation error when the order id is empty.
func NewGetFulfillmentStatusQuery(orderID kernel.UUID) (GetFulfillmentStatusQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetFulfillmentStatusQuery{}, errs.NewValueIsRequiredErrorWithCause("orderID", err)
	}

	return GetFulfillmentStatusQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// OrderID returns the identifier of the order to project.
func (q GetFulfillmentStatusQuery) OrderID() kernel.UUID {
	return q.orderID
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetFulfillmentStatusQueryIsNotConstructed if validation fails.
func (q GetFulfillmentStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetFulfillmentStatusQueryIsNotConstructed)
}

// GetFulfillmentStatusQueryResponse is the fulfillment projection of one
// order. Enum fields carry their wire spelling ("partially_fulfilled",
// "hybrid"), not domain values.
type GetFulfillmentStatusQueryResponse struct {
	OrderID               kernel.UUID
	OrderNumber           string
	Status                string
	FulfillmentType       string
	DigitalDeliveryStatus string
	DownloadExpiresAt     *time.Time
}
