package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"pawtraits/internal/core/domain/model/fulfillment"
	"pawtraits/internal/core/domain/model/order"
	"pawtraits/internal/core/ports"
	"pawtraits/internal/pkg/metrics"
)

// PrintMethod is the tracking-record method name for physical print jobs.
const PrintMethod = "print"

// PrintBackend is the fulfillment backend for physical items. It batches
// physical line items into one provider submission per order and records
// the provider-side job id as its fulfillment id.
type PrintBackend struct {
	provider ports.PrintProvider
	tracking ports.TrackingRepository
	images   ports.ImageStore

	logger *slog.Logger
}

// NewPrintBackend creates the physical print backend.
func NewPrintBackend(
	provider ports.PrintProvider,
	tracking ports.TrackingRepository,
	images ports.ImageStore,
	logger *slog.Logger,
) *PrintBackend {
	return &PrintBackend{
		provider: provider,
		tracking: tracking,
		images:   images,
		logger:   logger.With("component", "print_backend"),
	}
}

// Name returns the backend's method identifier.
func (b *PrintBackend) Name() string {
	return PrintMethod
}

// CanFulfill reports physical-print eligibility: explicit physical prints
// and legacy items with no recorded product type.
func (b *PrintBackend) CanFulfill(item *order.Item) bool {
	return item.ProductType().IsPhysical()
}

// Fulfill submits the physical items of the order as one provider batch.
// A missing portrait asset fails the batch before anything reaches the
// provider; provider failures are classified by transport symptom.
func (b *PrintBackend) Fulfill(ctx context.Context, o *order.Order, items []*order.Item) fulfillment.Result {
	startedAt := time.Now().UTC()

	submission := ports.PrintSubmission{
		OrderID:     o.ID().String(),
		OrderNumber: o.OrderNumber(),
		Items:       make([]ports.PrintSubmissionItem, 0, len(items)),
	}

	for _, item := range items {
		if !b.CanFulfill(item) {
			continue
		}

		refs := item.ImageRefs()
		storageKeys := make([]string, 0, len(refs))
		for _, imageID := range refs {
			key, err := b.images.StorageKey(ctx, imageID)
			if err != nil {
				return fulfillment.NewFailedResult(fulfillment.NewErrorWithDetails(
					fulfillment.ErrorKindFileNotFound,
					fmt.Sprintf("image %s for item %s is missing", imageID.String(), item.ID().String()),
					map[string]any{
						"order_item_id": item.ID().String(),
						"image_id":      imageID.String(),
					},
				))
			}
			storageKeys = append(storageKeys, key)
		}

		submission.Items = append(submission.Items, ports.PrintSubmissionItem{
			ItemID:      item.ID().String(),
			ProductType: item.ProductType().String(),
			StorageKeys: storageKeys,
		})
	}

	if len(submission.Items) == 0 {
		return fulfillment.NewSuccessResult(o.ID().String(), map[string]any{"submitted_items": 0})
	}

	job, err := b.provider.Submit(ctx, submission)
	if err != nil {
		return fulfillment.NewFailedResult(classifyProviderError(err))
	}

	trackingInfo := map[string]any{
		"fulfillment_id":  job.ID,
		"print_job_id":    job.ID,
		"provider_status": job.Status,
		"submitted_items": len(submission.Items),
	}
	b.writeTrackingRecord(ctx, o, trackingInfo, startedAt)

	return fulfillment.NewSuccessResult(job.ID, trackingInfo)
}

// Status maps the provider's job status onto the shared backend vocabulary.
func (b *PrintBackend) Status(ctx context.Context, fulfillmentID string) (fulfillment.BackendStatus, error) {
	job, err := b.provider.Job(ctx, fulfillmentID)
	if err != nil {
		return fulfillment.BackendStatus{}, err
	}

	trackingInfo := map[string]any{
		"print_job_id":    job.ID,
		"provider_status": job.Status,
	}
	if job.TrackingNumber != "" {
		trackingInfo["tracking_number"] = job.TrackingNumber
		trackingInfo["carrier"] = job.Carrier
	}

	return fulfillment.BackendStatus{
		State:        printStateFor(job.Status),
		Message:      fmt.Sprintf("provider reports %q", job.Status),
		TrackingInfo: trackingInfo,
	}, nil
}

// Cancel is unsupported for print jobs: once submitted, a batch cannot be
// recalled through the provider API. Reports not-cancelled without error.
func (b *PrintBackend) Cancel(_ context.Context, _ string) (bool, error) {
	return false, nil
}

func (b *PrintBackend) writeTrackingRecord(ctx context.Context, o *order.Order, trackingInfo map[string]any, startedAt time.Time) {
	record := fulfillment.NewTrackingRecord(
		o.ID(), PrintMethod, "submitted", trackingInfo, startedAt, time.Now().UTC(),
	)

	if err := b.tracking.Add(ctx, record); err != nil {
		metrics.TrackingWriteFailuresTotal.Inc()
		b.logger.WarnContext(ctx, "tracking record write failed",
			"order_id", o.ID().String(),
			"error", err,
		)
	}
}

// classifyProviderError separates transport symptoms from provider-side
// rejections: timeouts and connection failures are retryable network
// errors, everything else is an API error.
func classifyProviderError(err error) *fulfillment.Error {
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return fulfillment.NewError(fulfillment.ErrorKindNetworkError, err.Error())
	}
	return fulfillment.NewError(fulfillment.ErrorKindAPIError, err.Error())
}

func printStateFor(providerStatus string) fulfillment.BackendState {
	switch providerStatus {
	case "pending", "received":
		return fulfillment.BackendStatePending
	case "in_production", "printing", "shipped":
		return fulfillment.BackendStateProcessing
	case "delivered", "completed":
		return fulfillment.BackendStateFulfilled
	case "failed", "rejected", "cancelled":
		return fulfillment.BackendStateFailed
	default:
		return fulfillment.BackendStateProcessing
	}
}
