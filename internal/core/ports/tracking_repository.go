package ports

import (
	"context"

	"pawtraits/internal/core/domain/model/fulfillment"
	"pawtraits/internal/core/domain/model/kernel"
)

// TrackingRepository defines the persistence contract for the append-only
// fulfillment audit log. Rows are telemetry, not authoritative state: writers
// treat failures as non-fatal.
type TrackingRepository interface {
	// Add appends one tracking record.
	Add(ctx context.Context, record fulfillment.TrackingRecord) error

	// GetByOrder retrieves all tracking records for an order, oldest first.
	GetByOrder(ctx context.Context, orderID kernel.UUID) ([]fulfillment.TrackingRecord, error)
}
