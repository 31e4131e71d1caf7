package trackingrepo

import (
	"context"

	"gorm.io/gorm"

	"pawtraits/internal/core/domain/model/fulfillment"
	"pawtraits/internal/core/domain/model/kernel"
)

// GormTrackingRepository implements TrackingRepository using GORM.
type GormTrackingRepository struct {
	db *gorm.DB
}

// NewGormTrackingRepository creates a new GORM tracking repository.
func NewGormTrackingRepository(db *gorm.DB) *GormTrackingRepository {
	return &GormTrackingRepository{db: db}
}

// Add appends one tracking row.
func (r *GormTrackingRepository) Add(ctx context.Context, record fulfillment.TrackingRecord) error {
	dto := fromDomain(record)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetByOrder retrieves all tracking rows for an order, oldest first.
func (r *GormTrackingRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) ([]fulfillment.TrackingRecord, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []TrackingDTO
	err := r.db.WithContext(ctx).
		Order("id").
		Find(&dtos, "order_id = ?", orderID.Bytes()).Error
	if err != nil {
		return nil, err
	}

	records := make([]fulfillment.TrackingRecord, 0, len(dtos))
	for _, dto := range dtos {
		record, domainErr := toDomain(dto)
		if domainErr != nil {
			return nil, domainErr
		}
		records = append(records, record)
	}

	return records, nil
}
