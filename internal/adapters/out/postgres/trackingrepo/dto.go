// Package trackingrepo provides persistence for the append-only fulfillment
// audit log. Rows map one-to-one onto tracking records; structured tracking
// data is jsonized into a jsonb column.
package trackingrepo

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"pawtraits/internal/core/domain/model/fulfillment"
	"pawtraits/internal/core/domain/model/kernel"
)

// TrackingDTO represents one fulfillment tracking row.
type TrackingDTO struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	OrderID      uuid.UUID `gorm:"type:uuid;index"`
	Method       string    `gorm:"index"`
	Status       string
	TrackingData []byte `gorm:"type:jsonb"`
	StartedAt    time.Time
	CompletedAt  *time.Time
}

// TableName specifies the database table name for tracking rows.
func (TrackingDTO) TableName() string {
	return "order_fulfillment_tracking"
}

// fromDomain converts a tracking record to its database representation.
// Tracking data that cannot be jsonized is dropped rather than failing the
// write; the record itself still lands.
func fromDomain(record fulfillment.TrackingRecord) TrackingDTO {
	var data []byte
	if record.TrackingData != nil {
		if raw, err := json.Marshal(record.TrackingData); err == nil {
			data = raw
		}
	}

	return TrackingDTO{
		OrderID:      record.OrderID.Bytes(),
		Method:       record.Method,
		Status:       record.Status,
		TrackingData: data,
		StartedAt:    record.StartedAt,
		CompletedAt:  record.CompletedAt,
	}
}

// toDomain converts a database row to a tracking record.
func toDomain(dto TrackingDTO) (fulfillment.TrackingRecord, error) {
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return fulfillment.TrackingRecord{}, err
	}

	var data map[string]any
	if len(dto.TrackingData) > 0 {
		if err = json.Unmarshal(dto.TrackingData, &data); err != nil {
			return fulfillment.TrackingRecord{}, err
		}
	}

	return fulfillment.TrackingRecord{
		OrderID:      orderID,
		Method:       dto.Method,
		Status:       dto.Status,
		TrackingData: data,
		StartedAt:    dto.StartedAt,
		CompletedAt:  dto.CompletedAt,
	}, nil
}
