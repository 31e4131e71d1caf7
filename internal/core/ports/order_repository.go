package ports

import (
	"context"
	"time"

	"pawtraits/internal/core/domain/model/kernel"
	"pawtraits/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates and
// their line items. Orders are read and mutated by the fulfillment subsystem
// but never created or deleted by it.
type OrderRepository interface {
	// Add persists a new order aggregate with its items.
	// Exists for checkout-side callers and test fixtures; the fulfillment
	// subsystem itself only updates.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate, including its
	// items. The order must exist and be valid.
	Update(ctx context.Context, aggregate *order.Order) error

	// UpdateItem persists a single line item row keyed by its id.
	// Successive calls for the same item overwrite each other; the digital
	// delivery service relies on these last-write-wins semantics for
	// multi-grant items.
	UpdateItem(ctx context.Context, item *order.Item) error

	// Get retrieves an order with its items by unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllWithLapsedDownloads retrieves orders whose digital delivery was
	// sent and whose order-level download expiry has passed at the given
	// moment. Used by the expiry sweep job.
	GetAllWithLapsedDownloads(ctx context.Context, now time.Time) ([]*order.Order, error)
}
