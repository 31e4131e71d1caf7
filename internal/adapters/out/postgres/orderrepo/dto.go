// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. This package implements the repository pattern for the
// order aggregate, handling the conversion between domain entities and
// database representations.
package orderrepo

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"pawtraits/internal/core/domain/model/kernel"
	"pawtraits/internal/core/domain/model/order"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Fulfillment and delivery enums are stored as their integer values; the
// download expiry is denormalized onto the order row for the expiry sweep.
type OrderDTO struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderNumber           string    `gorm:"uniqueIndex"`
	Status                int       `gorm:"index"`
	FulfillmentType       int
	DigitalDeliveryStatus int
	DownloadExpiresAt     *time.Time     `gorm:"index"`
	Items                 []OrderItemDTO `gorm:"foreignKey:OrderID"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO represents one order line item row. Multi-image items keep
// their image references in a text[] column; single-image items use the
// scalar column. The digital projection columns hold the latest issued
// download grant.
type OrderItemDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID  `gorm:"type:uuid;index"`
	ProductType int
	ImageID     *uuid.UUID     `gorm:"type:uuid"`
	ImageIDs    pq.StringArray `gorm:"type:text[]"`

	PreferredFormat string

	IsDigital              bool
	DownloadURL            string
	DownloadURLGeneratedAt *time.Time
	DownloadExpiresAt      *time.Time
	DigitalFileFormat      string
	DigitalFileSizeBytes   int64
	DownloadAccessCount    int
}

// TableName specifies the database table name for order item entities.
func (OrderItemDTO) TableName() string {
	return "order_items"
}

// fromDomain converts an order aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	items := make([]OrderItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, itemFromDomain(aggregate.ID(), item))
	}

	return OrderDTO{
		ID:                    aggregate.ID().Bytes(),
		OrderNumber:           aggregate.OrderNumber(),
		Status:                int(aggregate.Status()),
		FulfillmentType:       int(aggregate.FulfillmentType()),
		DigitalDeliveryStatus: int(aggregate.DigitalDeliveryStatus()),
		DownloadExpiresAt:     aggregate.DownloadExpiresAt(),
		Items:                 items,
	}
}

// itemFromDomain converts one line item entity to its database row.
func itemFromDomain(orderID kernel.UUID, item *order.Item) OrderItemDTO {
	var imageID *uuid.UUID
	if id := item.ImageID(); id != nil {
		raw := id.Bytes()
		imageID = &raw
	}

	var imageIDs pq.StringArray
	for _, id := range item.ImageIDs() {
		imageIDs = append(imageIDs, id.String())
	}

	return OrderItemDTO{
		ID:                     item.ID().Bytes(),
		OrderID:                orderID.Bytes(),
		ProductType:            int(item.ProductType()),
		ImageID:                imageID,
		ImageIDs:               imageIDs,
		PreferredFormat:        item.PreferredFormat(),
		IsDigital:              item.IsDigital(),
		DownloadURL:            item.DownloadURL(),
		DownloadURLGeneratedAt: item.DownloadURLGeneratedAt(),
		DownloadExpiresAt:      item.DownloadExpiresAt(),
		DigitalFileFormat:      item.DigitalFileFormat(),
		DigitalFileSizeBytes:   item.DigitalFileSizeBytes(),
		DownloadAccessCount:    item.DownloadAccessCount(),
	}
}

// toDomain converts a database DTO to an order aggregate.
// Reconstructs the complete aggregate including items using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	items := make([]*order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(
		id,
		dto.OrderNumber,
		order.FulfillmentType(dto.FulfillmentType),
		order.Status(dto.Status),
		order.DigitalDeliveryStatus(dto.DigitalDeliveryStatus),
		dto.DownloadExpiresAt,
		items,
	)
}

// itemToDomain converts a database row to a line item entity.
func itemToDomain(dto OrderItemDTO) (*order.Item, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var imageID *kernel.UUID
	if dto.ImageID != nil {
		imgID, imgErr := kernel.UUIDFromBytes((*dto.ImageID)[:])
		if imgErr != nil {
			return nil, imgErr
		}
		imageID = &imgID
	}

	imageIDs := make([]kernel.UUID, 0, len(dto.ImageIDs))
	for _, raw := range dto.ImageIDs {
		imgID, imgErr := kernel.UUIDFromString(raw)
		if imgErr != nil {
			return nil, imgErr
		}
		imageIDs = append(imageIDs, imgID)
	}

	return order.RestoreItem(
		id,
		order.ProductType(dto.ProductType),
		imageID,
		imageIDs,
		dto.PreferredFormat,
		dto.IsDigital,
		dto.DownloadURL,
		dto.DownloadURLGeneratedAt,
		dto.DownloadExpiresAt,
		dto.DigitalFileFormat,
		dto.DigitalFileSizeBytes,
		dto.DownloadAccessCount,
	)
}
