package queries

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pawtraits/internal/core/domain/model/kernel"
	"pawtraits/internal/core/domain/model/order"
	"pawtraits/internal/pkg/errs"
)

// GetFulfillmentStatusQueryHandler projects one order's fulfillment state
// straight from the orders table, bypassing the aggregate.
type GetFulfillmentStatusQueryHandler struct {
	db *gorm.DB
}

// NewGetFulfillmentStatusQueryHandler creates a handler for status queries.
// Requires a GORM database connection for query execution.
func NewGetFulfillmentStatusQueryHandler(db *gorm.DB) GetFulfillmentStatusQueryHandler {
	return GetFulfillmentStatusQueryHandler{db: db}
}

// Handle executes the status projection for one order.
// Returns an errs.ObjectNotFoundError when the order does not exist.
func (h GetFulfillmentStatusQueryHandler) Handle(
	ctx context.Context,
	query GetFulfillmentStatusQuery,
) (GetFulfillmentStatusQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetFulfillmentStatusQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_number,
			status,
			fulfillment_type,
			digital_delivery_status,
			download_expires_at
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row()

	var (
		id                    uuid.UUID
		orderNumber           string
		status                int
		fulfillmentType       int
		digitalDeliveryStatus int
		downloadExpiresAt     sql.NullTime
	)

	err := row.Scan(&id, &orderNumber, &status, &fulfillmentType, &digitalDeliveryStatus, &downloadExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return GetFulfillmentStatusQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID())
	}
	if err != nil {
		return GetFulfillmentStatusQueryResponse{}, err
	}

	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetFulfillmentStatusQueryResponse{}, err
	}

	response := GetFulfillmentStatusQueryResponse{
		OrderID:               orderID,
		OrderNumber:           orderNumber,
		Status:                order.Status(status).String(),
		FulfillmentType:       order.FulfillmentType(fulfillmentType).String(),
		DigitalDeliveryStatus: order.DigitalDeliveryStatus(digitalDeliveryStatus).String(),
	}
	if downloadExpiresAt.Valid {
		expiresAt := downloadExpiresAt.Time.UTC()
		response.DownloadExpiresAt = &expiresAt
	}

	return response, nil
}
