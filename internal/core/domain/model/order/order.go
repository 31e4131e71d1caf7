package order

import (
	"errors"
	"time"

	"pawtraits/internal/core/domain/model/kernel"
	"pawtraits/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through the NewOrder factory method. This ensures all orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrOrderHasNoItems is returned when an order is constructed without line items.
	ErrOrderHasNoItems = errors.New("order must contain at least one item")
)

// Order represents a paid customer order awaiting fulfillment. It is the
// aggregate root owning its line items and the fulfillment lifecycle.
//
// Order follows these invariants:
//   - Must have a valid unique identifier and a non-empty order number
//   - Must contain at least one valid item
//   - Fulfillment status transitions follow the Status state machine
//   - Can only be created through NewOrder (or RestoreOrder from persistence)
//
// Orders are created at checkout (outside this subsystem) and are mutated
// here only by the fulfillment router and the digital delivery service.
// They are never deleted by this subsystem.
type Order struct {
	id          kernel.UUID
	orderNumber string

	fulfillmentType       FulfillmentType
	status                Status
	digitalDeliveryStatus DigitalDeliveryStatus

	// downloadExpiresAt is the order-level shared expiry bound for digital
	// delivery. It is independent of the per-item grant expiries.
	downloadExpiresAt *time.Time

	items []*Item

	isConstructed bool
}

// NewOrder creates a new Order in Pending status with the given items.
//
// Parameters:
//   - id: unique identifier (must be a valid UUID)
//   - orderNumber: human-readable order number (must be non-empty)
//   - items: the order's line items (must be non-empty, each valid)
func NewOrder(id kernel.UUID, orderNumber string, items []*Item) (*Order, error) {
	order := &Order{
		status:        Pending,
		isConstructed: true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setOrderNumber(orderNumber),
		order.setItems(items),
	); err != nil {
		return nil, err
	}

	return order, nil
}

// RestoreOrder reconstructs an order from persistence with its full
// fulfillment state. Used only by repository implementations.
func RestoreOrder(
	id kernel.UUID,
	orderNumber string,
	fulfillmentType FulfillmentType,
	status Status,
	digitalDeliveryStatus DigitalDeliveryStatus,
	downloadExpiresAt *time.Time,
	items []*Item,
) (*Order, error) {
	order, err := NewOrder(id, orderNumber, items)
	if err != nil {
		return nil, err
	}

	if err = status.Validate(); err != nil {
		return nil, err
	}
	if err = digitalDeliveryStatus.Validate(); err != nil {
		return nil, err
	}

	order.fulfillmentType = fulfillmentType
	order.status = status
	order.digitalDeliveryStatus = digitalDeliveryStatus
	order.downloadExpiresAt = downloadExpiresAt
	return order, nil
}

// Validate ensures the Order instance was properly constructed through NewOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// OrderNumber returns the human-readable order number.
func (o *Order) OrderNumber() string {
	return o.orderNumber
}

// Items returns the order's line items.
func (o *Order) Items() []*Item {
	return o.items
}

// Item returns the line item with the given id.
func (o *Order) Item(id kernel.UUID) (*Item, error) {
	for _, item := range o.items {
		if item.ID().IsEqual(id) {
			return item, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("itemID", id.String())
}

// FulfillmentType returns the order-level classification, or
// FulfillmentTypeUnclassified before the router has run.
func (o *Order) FulfillmentType() FulfillmentType {
	return o.fulfillmentType
}

// Status returns the current fulfillment status.
func (o *Order) Status() Status {
	return o.status
}

// DigitalDeliveryStatus returns the order-level digital delivery state.
func (o *Order) DigitalDeliveryStatus() DigitalDeliveryStatus {
	return o.digitalDeliveryStatus
}

// DownloadExpiresAt returns the order-level digital delivery expiry bound.
func (o *Order) DownloadExpiresAt() *time.Time {
	return o.downloadExpiresAt
}

// Classify derives and records the order's fulfillment type from its items.
//
// Rules:
//   - hybrid: at least one physical item and at least one purchased digital item
//   - digital: purchased digital items only
//   - physical: everything else (including legacy unspecified items)
//
// A physical order stays physical even though every print carries a bundled
// digital copy: hybrid is reserved for genuinely purchased digital line items.
func (o *Order) Classify() FulfillmentType {
	var hasPhysical, hasDigital bool
	for _, item := range o.items {
		if item.ProductType().IsDigital() {
			hasDigital = true
		} else {
			hasPhysical = true
		}
	}

	switch {
	case hasPhysical && hasDigital:
		o.fulfillmentType = FulfillmentTypeHybrid
	case hasDigital:
		o.fulfillmentType = FulfillmentTypeDigital
	default:
		o.fulfillmentType = FulfillmentTypePhysical
	}

	return o.fulfillmentType
}

// StartFulfillment transitions the order to Processing.
// Only legal from Pending or Failed; this is the precondition that
// prevents concurrent or repeated fulfillment runs for the same order.
func (o *Order) StartFulfillment() error {
	newStatus, err := o.status.Start()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// CompleteFulfillment records the reduced outcome of a fulfillment run.
// Only legal from Processing with an outcome of Fulfilled,
// PartiallyFulfilled or Failed.
func (o *Order) CompleteFulfillment(outcome Status) error {
	newStatus, err := o.status.CompleteWith(outcome)
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// MarkDigitalDeliverySent records that download grants were issued, with the
// shared order-level expiry bound.
func (o *Order) MarkDigitalDeliverySent(expiresAt time.Time) {
	o.digitalDeliveryStatus = DigitalDeliverySent
	o.downloadExpiresAt = &expiresAt
}

// ExpireDigitalDelivery forces the order's digital delivery, and every issued
// item grant, to expire at the given moment. Safe to call on already-expired
// delivery.
func (o *Order) ExpireDigitalDelivery(now time.Time) {
	o.digitalDeliveryStatus = DigitalDeliveryExpired
	o.downloadExpiresAt = &now
	for _, item := range o.items {
		item.ExpireDownload(now)
	}
}

// DigitalDeliveryLapsed reports whether the order-level expiry bound has
// passed at the given moment.
func (o *Order) DigitalDeliveryLapsed(now time.Time) bool {
	return o.downloadExpiresAt != nil && !now.Before(*o.downloadExpiresAt)
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setOrderNumber(orderNumber string) error {
	if orderNumber == "" {
		return errs.NewValueIsRequiredError("orderNumber")
	}
	o.orderNumber = orderNumber
	return nil
}

func (o *Order) setItems(items []*Item) error {
	if len(items) == 0 {
		return ErrOrderHasNoItems
	}

	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}

	o.items = items
	return nil
}
