package services

import (
	"context"
	"fmt"
	"log/slog"

	"pawtraits/internal/core/domain/model/fulfillment"
	"pawtraits/internal/core/domain/model/order"
	"pawtraits/internal/core/ports"
	"pawtraits/internal/pkg/metrics"
)

// FulfillmentRouter is the orchestrator of a fulfillment run: it classifies
// the order, fans its items out to every backend that claims them, executes
// each backend in isolation, reduces the per-backend results to an overall
// order status, and persists the order state.
//
// Key behaviors:
//   - An item may be claimed by more than one backend (a physical print is
//     claimed by both the print backend and digital delivery for the bundled
//     copy); an item claimed by nobody is a data-integrity defect surfaced
//     as a failed result.
//   - Backend groups execute sequentially, each behind a bulkhead: a panic
//     or failure in one group never prevents the remaining groups from
//     running.
//   - Classification and final-status writes are best-effort bookkeeping:
//     failures are logged and counted, the run continues, and the results
//     are still returned to the caller.
type FulfillmentRouter struct {
	backends []Backend
	orders   ports.OrderRepository
	logger   *slog.Logger
}

// backendGroup pairs a backend with the items it claimed for one run.
type backendGroup struct {
	backend Backend
	items   []*order.Item
}

// NewFulfillmentRouter creates a router over the given backend registry.
// Backends execute in registration order.
func NewFulfillmentRouter(orders ports.OrderRepository, logger *slog.Logger, backends ...Backend) *FulfillmentRouter {
	return &FulfillmentRouter{
		backends: backends,
		orders:   orders,
		logger:   logger.With("component", "fulfillment_router"),
	}
}

// Route executes a full fulfillment pass for an order already transitioned
// to Processing by the caller. It returns one result per backend group (plus
// one failed result per unclaimed item or empty registry slot); the reduced
// outcome is recorded on the order.
func (r *FulfillmentRouter) Route(ctx context.Context, o *order.Order) ([]fulfillment.Result, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	metrics.FulfillmentRunsTotal.Inc()

	fulfillmentType := o.Classify()
	r.logger.InfoContext(ctx, "order classified",
		"order_id", o.ID().String(),
		"fulfillment_type", fulfillmentType.String(),
	)
	r.persistBestEffort(ctx, o, "classification")

	groups, unclaimed := r.groupItems(o.Items())

	results := make([]fulfillment.Result, 0, len(groups)+len(unclaimed))
	for _, item := range unclaimed {
		results = append(results, fulfillment.NewFailedResult(fulfillment.NewErrorWithDetails(
			fulfillment.ErrorKindInvalidItem,
			fmt.Sprintf("no registered backend can fulfill item %s", item.ID().String()),
			map[string]any{"order_item_id": item.ID().String(), "product_type": item.ProductType().String()},
		)))
	}

	for _, group := range groups {
		results = append(results, r.executeGroup(ctx, group, o))
	}

	outcome := ReduceResults(results)
	switch outcome {
	case order.PartiallyFulfilled:
		metrics.FulfillmentPartialTotal.Inc()
	case order.Failed:
		metrics.FulfillmentFailedTotal.Inc()
	}

	if err := o.CompleteFulfillment(outcome); err != nil {
		return results, err
	}

	r.persistBestEffort(ctx, o, "overall_status")

	r.logger.InfoContext(ctx, "fulfillment run finished",
		"order_id", o.ID().String(),
		"outcome", outcome.String(),
		"result_count", len(results),
	)

	return results, nil
}

// groupItems asks every registered backend to claim items. Groups preserve
// backend registration order; items keep their order within each group.
// A nil registry slot yields a group with no backend so the defect surfaces
// as a failed result instead of a panic.
func (r *FulfillmentRouter) groupItems(items []*order.Item) ([]backendGroup, []*order.Item) {
	groups := make([]backendGroup, 0, len(r.backends))
	claimed := make(map[string]bool, len(items))

	for _, backend := range r.backends {
		if backend == nil {
			groups = append(groups, backendGroup{})
			continue
		}

		group := backendGroup{backend: backend}
		for _, item := range items {
			if backend.CanFulfill(item) {
				group.items = append(group.items, item)
				claimed[item.ID().String()] = true
			}
		}

		if len(group.items) > 0 {
			groups = append(groups, group)
		}
	}

	var unclaimed []*order.Item
	for _, item := range items {
		if !claimed[item.ID().String()] {
			unclaimed = append(unclaimed, item)
		}
	}

	return groups, unclaimed
}

// executeGroup runs one backend's batch behind a bulkhead: an escaping panic
// becomes a failed result for this group only.
func (r *FulfillmentRouter) executeGroup(ctx context.Context, group backendGroup, o *order.Order) (result fulfillment.Result) {
	if group.backend == nil {
		return fulfillment.NewFailedResult(fulfillment.NewError(
			fulfillment.ErrorKindUnknown,
			"no backend instance registered for fulfillment group",
		))
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.ErrorContext(ctx, "backend panicked",
				"order_id", o.ID().String(),
				"backend", group.backend.Name(),
				"panic", fmt.Sprintf("%v", rec),
			)
			result = fulfillment.NewFailedResult(fulfillment.NewError(
				fulfillment.ErrorKindUnknown,
				fmt.Sprintf("backend %s panicked: %v", group.backend.Name(), rec),
			))
			result.Backend = group.backend.Name()
		}
	}()

	result = group.backend.Fulfill(ctx, o, group.items)
	result.Backend = group.backend.Name()

	if !result.Success {
		r.logger.WarnContext(ctx, "backend reported failure",
			"order_id", o.ID().String(),
			"backend", group.backend.Name(),
			"error", result.ErrorMessage(),
		)
	}

	return result
}

// persistBestEffort writes the order aggregate and swallows failures:
// bookkeeping must never abort a fulfillment run. Failures are logged and
// counted so operators can alert on state drift.
func (r *FulfillmentRouter) persistBestEffort(ctx context.Context, o *order.Order, stage string) {
	if err := r.orders.Update(ctx, o); err != nil {
		metrics.TrackingWriteFailuresTotal.Inc()
		r.logger.WarnContext(ctx, "best-effort order write failed",
			"order_id", o.ID().String(),
			"stage", stage,
			"error", err,
		)
	}
}

// ReduceResults reduces per-backend results to the overall order status:
// all succeeded yields Fulfilled, a mix yields PartiallyFulfilled, and no
// successes yields Failed.
func ReduceResults(results []fulfillment.Result) order.Status {
	var succeeded, failed bool
	for _, result := range results {
		if result.Success {
			succeeded = true
		} else {
			failed = true
		}
	}

	switch {
	case succeeded && !failed:
		return order.Fulfilled
	case succeeded && failed:
		return order.PartiallyFulfilled
	default:
		return order.Failed
	}
}
