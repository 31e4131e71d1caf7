package ports

import (
	"context"

	"pawtraits/internal/core/domain/model/fulfillment"
	"pawtraits/internal/core/domain/model/order"
)

// Notifier informs the customer-facing side about fulfillment outcomes.
// Delivery content is outside this subsystem; the wired implementation is a
// logging stub until the email sender lands.
type Notifier interface {
	// OrderFulfillmentFinished reports the reduced outcome of a fulfillment
	// run together with the per-backend results.
	OrderFulfillmentFinished(ctx context.Context, o *order.Order, results []fulfillment.Result) error
}
