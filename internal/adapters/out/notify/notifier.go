// Package notify provides the customer notification adapter. The actual
// email/push channel is owned by the storefront; until its sender API is
// available this adapter logs the outcome so runs remain observable.
package notify

import (
	"context"
	"log/slog"

	"pawtraits/internal/core/domain/model/fulfillment"
	"pawtraits/internal/core/domain/model/order"
)

// LogNotifier reports fulfillment outcomes to the structured log.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a logging notifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("component", "notifier")}
}

// OrderFulfillmentFinished logs the reduced outcome of a fulfillment run.
func (n *LogNotifier) OrderFulfillmentFinished(ctx context.Context, o *order.Order, results []fulfillment.Result) error {
	succeeded := 0
	for _, result := range results {
		if result.Success {
			succeeded++
		}
	}

	n.logger.InfoContext(ctx, "order fulfillment finished",
		"order_id", o.ID().String(),
		"order_number", o.OrderNumber(),
		"status", o.Status().String(),
		"backends_succeeded", succeeded,
		"backends_total", len(results),
	)

	return nil
}
