package services

import (
	"context"

	"pawtraits/internal/core/domain/model/fulfillment"
	"pawtraits/internal/core/domain/model/order"
)

// Backend is the capability contract every fulfillment backend implements.
// The router matches items to backends by asking CanFulfill, so backends are
// registered as typed values and matched by identity, never by name strings;
// Name exists for audit rows and log labels only.
type Backend interface {
	// Name returns the stable method identifier used in tracking records
	// and logs, e.g. "digital_delivery" or "print".
	Name() string

	// CanFulfill reports whether this backend can deliver the given item.
	// It is a pure predicate over the item's product classification: no side
	// effects, cheap enough to call many times per routing pass.
	CanFulfill(item *order.Item) bool

	// Fulfill performs the side-effecting work for the items this backend
	// claimed and returns one aggregate result for the whole batch.
	// Failures are reported inside the Result; Fulfill itself reports
	// nothing through panics or errors past the backend boundary.
	Fulfill(ctx context.Context, o *order.Order, items []*order.Item) fulfillment.Result

	// Status re-derives the current state of a fulfillment from persisted
	// records. Read-only and safe to call repeatedly.
	Status(ctx context.Context, fulfillmentID string) (fulfillment.BackendStatus, error)

	// Cancel best-effort cancels a fulfillment. Backends without a
	// cancellation concept return (false, nil) rather than an error.
	Cancel(ctx context.Context, fulfillmentID string) (bool, error)
}
