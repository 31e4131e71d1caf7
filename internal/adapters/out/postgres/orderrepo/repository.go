package orderrepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"pawtraits/internal/core/domain/model/kernel"
	"pawtraits/internal/core/domain/model/order"
	"pawtraits/internal/pkg/errs"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order with its items to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order and all its items to the database.
// All columns are written, including zero values: fulfillment resets
// download fields and counters, and those writes must stick.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Omit("Items").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	for i := range dto.Items {
		if err := r.updateItemRow(ctx, &dto.Items[i]); err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// UpdateItem saves a single line item row. Successive calls for the same
// item overwrite each other, which gives multi-grant items their
// last-write-wins persistence.
func (r *GormOrderRepository) UpdateItem(ctx context.Context, item *order.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}

	var existing OrderItemDTO
	if err := r.db.WithContext(ctx).First(&existing, "id = ?", item.ID().Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewObjectNotFoundError("order item", item.ID().String())
		}
		return err
	}

	orderID, err := kernel.UUIDFromBytes(existing.OrderID[:])
	if err != nil {
		return err
	}

	dto := itemFromDomain(orderID, item)
	return r.updateItemRow(ctx, &dto)
}

func (r *GormOrderRepository) updateItemRow(ctx context.Context, dto *OrderItemDTO) error {
	result := r.db.WithContext(ctx).
		Model(&OrderItemDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Get retrieves an order with its items by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).Preload("Items").First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllWithLapsedDownloads retrieves orders whose digital delivery was sent
// and whose download window has closed at the given moment.
func (r *GormOrderRepository) GetAllWithLapsedDownloads(ctx context.Context, now time.Time) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Preload("Items").
		Find(&dtos, "digital_delivery_status = ? AND download_expires_at IS NOT NULL AND download_expires_at <= ?",
			int(order.DigitalDeliverySent), now).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, domainErr := toDomain(dto)
		if domainErr != nil {
			return nil, domainErr
		}
		orders = append(orders, o)
	}

	return orders, nil
}
