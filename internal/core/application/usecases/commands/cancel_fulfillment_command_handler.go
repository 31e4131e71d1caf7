package commands

import (
	"context"
	"errors"

	"pawtraits/internal/core/domain/model/fulfillment"
	"pawtraits/internal/core/domain/services"
	"pawtraits/internal/pkg/errs"
)

var ErrUnknownFulfillmentMethod = errors.New("unknown fulfillment method")

// CancelFulfillmentCommandHandler dispatches a cancellation request to the
// backend named by the command. The backend-side fulfillment id is resolved
// from the order's tracking log; when no record exists yet the order id is
// passed through, which covers backends keyed by order.
type CancelFulfillmentCommandHandler struct {
	uowFactory UoWFactory
	backends   []services.Backend
}

// NewCancelFulfillmentCommandHandler creates a handler over the backend registry.
func NewCancelFulfillmentCommandHandler(uowFactory UoWFactory, backends ...services.Backend) CancelFulfillmentCommandHandler {
	return CancelFulfillmentCommandHandler{
		uowFactory: uowFactory,
		backends:   backends,
	}
}

// Handle processes the cancellation command.
// Returns whether the backend actually cancelled: print jobs report false
// because a submitted batch cannot be recalled, digital delivery reports
// true after force-expiring every grant.
func (h CancelFulfillmentCommandHandler) Handle(ctx context.Context, command CancelFulfillmentCommand) (bool, error) {
	if err := command.Validate(); err != nil {
		return false, err
	}

	backend := h.backendByName(command.Method())
	if backend == nil {
		return false, ErrUnknownFulfillmentMethod
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if _, err := uow.OrderRepository().Get(ctx, command.OrderID()); err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return false, ErrOrderNotFound
		}
		return false, err
	}

	records, err := uow.TrackingRepository().GetByOrder(ctx, command.OrderID())
	if err != nil {
		return false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	fulfillmentID := resolveFulfillmentID(records, command.Method())
	if fulfillmentID == "" {
		fulfillmentID = command.OrderID().String()
	}

	return backend.Cancel(ctx, fulfillmentID)
}

func (h CancelFulfillmentCommandHandler) backendByName(name string) services.Backend {
	for _, backend := range h.backends {
		if backend != nil && backend.Name() == name {
			return backend
		}
	}
	return nil
}

// resolveFulfillmentID picks the backend-side id from the newest tracking
// record of the given method.
func resolveFulfillmentID(records []fulfillment.TrackingRecord, method string) string {
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].Method != method {
			continue
		}
		if id, ok := records[i].TrackingData["fulfillment_id"].(string); ok {
			return id
		}
	}
	return ""
}
