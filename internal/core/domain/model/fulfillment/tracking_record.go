package fulfillment

import (
	"time"

	"pawtraits/internal/core/domain/model/kernel"
)

// TrackingRecord is an append-only audit row describing what one backend did
// for an order, independent of the authoritative order state. Records are
// best-effort telemetry: failing to write one never rolls back or retries the
// fulfillment itself.
type TrackingRecord struct {
	OrderID kernel.UUID

	// Method is the backend name the record belongs to.
	Method string

	// Status is the free-form outcome label, e.g. "completed" or "failed".
	Status string

	// TrackingData is free-form structured context, jsonized at the
	// persistence boundary.
	TrackingData map[string]any

	StartedAt   time.Time
	CompletedAt *time.Time
}

// NewTrackingRecord creates a completed tracking record for the given
// backend method.
func NewTrackingRecord(orderID kernel.UUID, method, status string, trackingData map[string]any, startedAt, completedAt time.Time) TrackingRecord {
	return TrackingRecord{
		OrderID:      orderID,
		Method:       method,
		Status:       status,
		TrackingData: trackingData,
		StartedAt:    startedAt,
		CompletedAt:  &completedAt,
	}
}
