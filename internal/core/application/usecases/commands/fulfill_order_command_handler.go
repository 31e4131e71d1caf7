package commands

import (
	"context"
	"errors"
	"log/slog"

	"pawtraits/internal/core/domain/model/fulfillment"
	"pawtraits/internal/core/ports"
	"pawtraits/internal/pkg/errs"
)

var ErrOrderNotFound = errors.New("order not found")

// FulfillOrderCommandHandler orchestrates one fulfillment run.
// The status transition to processing is the authoritative, transactional
// part: it claims the order and rejects concurrent or repeated runs. The
// routing pass itself runs after commit; its writes are best-effort.
//
// Example:
//
//	handler := NewFulfillOrderCommandHandler(uowFactory, router, notifier, logger)
//	results, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, ErrOrderNotFound):
//	    log.Println("Unknown order")
//	case err != nil:
//	    log.Printf("Fulfillment did not start: %v", err)
//	}
type FulfillOrderCommandHandler struct {
	uowFactory UoWFactory
	router     Router
	notifier   ports.Notifier
	logger     *slog.Logger
}

// NewFulfillOrderCommandHandler creates a handler for fulfillment runs.
func NewFulfillOrderCommandHandler(
	uowFactory UoWFactory,
	router Router,
	notifier ports.Notifier,
	logger *slog.Logger,
) FulfillOrderCommandHandler {
	return FulfillOrderCommandHandler{
		uowFactory: uowFactory,
		router:     router,
		notifier:   notifier,
		logger:     logger.With("component", "fulfill_order_handler"),
	}
}

// Handle processes the fulfillment command.
// Loads the order, transitions it to processing inside a transaction, then
// routes its items to the fulfillment backends. A status precondition
// failure (already processing, already fulfilled) aborts before any backend
// runs. Returns the per-backend results of the run.
func (h FulfillOrderCommandHandler) Handle(ctx context.Context, command FulfillOrderCommand) ([]fulfillment.Result, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ordersRepo := uow.OrderRepository()

	o, err := ordersRepo.Get(ctx, command.OrderID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if err = o.StartFulfillment(); err != nil {
		return nil, err
	}

	if err = ordersRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	results, err := h.router.Route(ctx, o)
	if err != nil {
		return results, err
	}

	if notifyErr := h.notifier.OrderFulfillmentFinished(ctx, o, results); notifyErr != nil {
		// Notification is a side channel; the run has already completed.
		h.logger.WarnContext(ctx, "fulfillment notification failed",
			"order_id", o.ID().String(),
			"error", notifyErr,
		)
	}

	return results, nil
}
