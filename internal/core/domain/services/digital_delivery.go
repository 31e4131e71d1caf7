package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pawtraits/internal/core/domain/model/fulfillment"
	"pawtraits/internal/core/domain/model/kernel"
	"pawtraits/internal/core/domain/model/order"
	"pawtraits/internal/core/ports"
	"pawtraits/internal/pkg/metrics"
)

// DigitalDeliveryMethod is the tracking-record method name for digital delivery.
const DigitalDeliveryMethod = "digital_delivery"

// downloadGrantTTL is the fixed lifetime of every download grant.
// Policy, not configuration: grants live exactly seven days.
const downloadGrantTTL = 7 * 24 * time.Hour

// defaultDownloadFormat is used when the item's product configuration does
// not specify a digital file format.
const defaultDownloadFormat = "png"

// estimatedFileSizes maps file formats to estimated sizes in bytes.
// Sizes are estimates by format, not measured from the actual assets.
var estimatedFileSizes = map[string]int64{
	"png":  8 * 1024 * 1024,
	"jpg":  2_500_000,
	"jpeg": 2_500_000,
	"webp": 1_500_000,
	"pdf":  12 * 1024 * 1024,
}

// DigitalDeliveryService is the fulfillment backend that converts eligible
// line items into time-limited download grants and persists them.
//
// Eligibility covers purchased digital downloads, physical prints (which
// include a bundled digital copy), and legacy items with no recorded product
// type (assumed physical, therefore also bundled).
type DigitalDeliveryService struct {
	orders   ports.OrderRepository
	tracking ports.TrackingRepository
	images   ports.ImageStore

	// baseURL prefixes generated download URLs; the endpoint behind them is
	// an external collaborator that resolves tokens and counts accesses.
	baseURL string

	logger *slog.Logger
}

// NewDigitalDeliveryService creates the digital delivery backend.
func NewDigitalDeliveryService(
	orders ports.OrderRepository,
	tracking ports.TrackingRepository,
	images ports.ImageStore,
	baseURL string,
	logger *slog.Logger,
) *DigitalDeliveryService {
	return &DigitalDeliveryService{
		orders:   orders,
		tracking: tracking,
		images:   images,
		baseURL:  baseURL,
		logger:   logger.With("component", "digital_delivery"),
	}
}

// Name returns the backend's method identifier.
func (s *DigitalDeliveryService) Name() string {
	return DigitalDeliveryMethod
}

// CanFulfill reports digital-delivery eligibility: explicit digital
// downloads, physical prints (bundled copy), and legacy unspecified items.
func (s *DigitalDeliveryService) CanFulfill(item *order.Item) bool {
	productType := item.ProductType()
	return productType.IsDigital() || productType.IsPhysical()
}

// Fulfill generates one download grant per (item, image) pair and persists
// them. Multi-image items produce one grant per image in list order; the
// item row keeps only the last grant's fields (documented last-write-wins).
// Any missing image fails the whole batch before a single grant is written;
// zero eligible items is a success with zero grants.
func (s *DigitalDeliveryService) Fulfill(ctx context.Context, o *order.Order, items []*order.Item) fulfillment.Result {
	eligible := make([]*order.Item, 0, len(items))
	for _, item := range items {
		// Defensive re-check: the router already filtered by capability.
		if s.CanFulfill(item) {
			eligible = append(eligible, item)
		}
	}

	// Every image in the batch must resolve before any grant is generated:
	// a missing asset on the last item must not leave live grants on the
	// earlier rows.
	for _, item := range eligible {
		if ferr := s.resolveImages(ctx, item); ferr != nil {
			return fulfillment.NewFailedResult(ferr)
		}
	}

	generatedAt := time.Now().UTC()
	expiresAt := generatedAt.Add(downloadGrantTTL)

	grants := make([]fulfillment.DownloadGrant, 0, len(eligible))
	for _, item := range eligible {
		itemGrants, err := s.generateGrants(ctx, o, item, generatedAt, expiresAt)
		if err != nil {
			return fulfillment.NewFailedResult(err)
		}
		grants = append(grants, itemGrants...)
	}

	if len(grants) > 0 {
		o.MarkDigitalDeliverySent(expiresAt)
		if err := s.orders.Update(ctx, o); err != nil {
			return fulfillment.NewFailedResult(fulfillment.NewError(
				fulfillment.ErrorKindGenerationFailed,
				fmt.Sprintf("persist digital delivery state: %v", err),
			))
		}
		metrics.DownloadGrantsIssuedTotal.Add(float64(len(grants)))
	}

	trackingInfo := grantsTrackingInfo(grants, expiresAt)
	trackingInfo["fulfillment_id"] = o.ID().String()
	s.writeTrackingRecord(ctx, o, trackingInfo, generatedAt)

	return fulfillment.NewSuccessResult(o.ID().String(), trackingInfo)
}

// resolveImages verifies that every image the item references still has a
// stored asset. The lookup validates existence only; the download endpoint
// re-resolves the key at serve time.
func (s *DigitalDeliveryService) resolveImages(ctx context.Context, item *order.Item) *fulfillment.Error {
	for _, imageID := range item.ImageRefs() {
		if _, err := s.images.StorageKey(ctx, imageID); err != nil {
			return fulfillment.NewErrorWithDetails(
				fulfillment.ErrorKindFileNotFound,
				fmt.Sprintf("image %s for item %s is missing", imageID.String(), item.ID().String()),
				map[string]any{
					"order_item_id": item.ID().String(),
					"image_id":      imageID.String(),
				},
			)
		}
	}
	return nil
}

// generateGrants produces and persists the grants for one item. Each grant
// write overwrites the previous one on the item row. Image existence has
// already been checked for the whole batch by resolveImages.
func (s *DigitalDeliveryService) generateGrants(
	ctx context.Context,
	o *order.Order,
	item *order.Item,
	generatedAt, expiresAt time.Time,
) ([]fulfillment.DownloadGrant, *fulfillment.Error) {
	format := item.PreferredFormat()
	if format == "" {
		format = defaultDownloadFormat
	}
	fileSize := estimatedFileSize(format)

	refs := item.ImageRefs()
	grants := make([]fulfillment.DownloadGrant, 0, len(refs))

	for seq := range refs {
		token := kernel.NewUUID().String()
		grant := fulfillment.DownloadGrant{
			OrderItemID: item.ID(),
			DownloadURL: fmt.Sprintf("%s/api/v1/orders/%s/download/%s?token=%s",
				s.baseURL, o.ID().String(), item.ID().String(), token),
			Format:        format,
			ExpiresAt:     expiresAt,
			FileSizeBytes: fileSize,
			FileName:      fmt.Sprintf("%s-portrait-%02d.%s", o.OrderNumber(), seq+1, format),
		}

		if err := item.ApplyGrant(grant.DownloadURL, grant.Format, grant.FileSizeBytes, generatedAt, expiresAt); err != nil {
			return nil, fulfillment.NewError(fulfillment.ErrorKindGenerationFailed, err.Error())
		}
		if err := s.orders.UpdateItem(ctx, item); err != nil {
			return nil, fulfillment.NewError(
				fulfillment.ErrorKindGenerationFailed,
				fmt.Sprintf("persist download grant for item %s: %v", item.ID().String(), err),
			)
		}

		grants = append(grants, grant)
	}

	return grants, nil
}

// Status derives the delivery state from persisted access counters and
// expiries: fulfilled once any grant has been accessed, processing otherwise.
func (s *DigitalDeliveryService) Status(ctx context.Context, fulfillmentID string) (fulfillment.BackendStatus, error) {
	orderID, err := kernel.UUIDFromString(fulfillmentID)
	if err != nil {
		return fulfillment.BackendStatus{}, err
	}

	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return fulfillment.BackendStatus{}, err
	}

	var accessed, totalAccesses int
	var digitalItems int
	for _, item := range o.Items() {
		if !item.IsDigital() {
			continue
		}
		digitalItems++
		totalAccesses += item.DownloadAccessCount()
		if item.DownloadAccessCount() > 0 {
			accessed++
		}
	}

	state := fulfillment.BackendStateProcessing
	message := "download grants issued, awaiting first access"
	if accessed > 0 {
		state = fulfillment.BackendStateFulfilled
		message = "downloads accessed by customer"
	}

	expired := o.DigitalDeliveryLapsed(time.Now().UTC())
	trackingInfo := map[string]any{
		"digital_items":  digitalItems,
		"items_accessed": accessed,
		"total_accesses": totalAccesses,
		"expired":        expired,
	}
	if expiresAt := o.DownloadExpiresAt(); expiresAt != nil {
		trackingInfo["expires_at"] = expiresAt.UTC().Format(time.RFC3339)
	}

	return fulfillment.BackendStatus{
		State:        state,
		Message:      message,
		TrackingInfo: trackingInfo,
	}, nil
}

// Cancel forces every issued grant and the order-level delivery to expire
// now. Cancelling already-expired delivery still succeeds; only a failing
// persistence write reports false.
func (s *DigitalDeliveryService) Cancel(ctx context.Context, fulfillmentID string) (bool, error) {
	orderID, err := kernel.UUIDFromString(fulfillmentID)
	if err != nil {
		return false, err
	}

	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return false, err
	}

	o.ExpireDigitalDelivery(time.Now().UTC())
	if err = s.orders.Update(ctx, o); err != nil {
		return false, err
	}

	s.logger.InfoContext(ctx, "digital delivery cancelled", "order_id", o.ID().String())
	return true, nil
}

// writeTrackingRecord appends the audit row for this run. Failures are
// logged and counted, never propagated: tracking rows are telemetry, the
// authoritative result lives on the order.
func (s *DigitalDeliveryService) writeTrackingRecord(ctx context.Context, o *order.Order, trackingInfo map[string]any, startedAt time.Time) {
	record := fulfillment.NewTrackingRecord(
		o.ID(), DigitalDeliveryMethod, "completed", trackingInfo, startedAt, time.Now().UTC(),
	)

	if err := s.tracking.Add(ctx, record); err != nil {
		metrics.TrackingWriteFailuresTotal.Inc()
		s.logger.WarnContext(ctx, "tracking record write failed",
			"order_id", o.ID().String(),
			"error", err,
		)
	}
}

func grantsTrackingInfo(grants []fulfillment.DownloadGrant, expiresAt time.Time) map[string]any {
	grantInfos := make([]map[string]any, 0, len(grants))
	for _, grant := range grants {
		grantInfos = append(grantInfos, grant.TrackingInfo())
	}

	return map[string]any{
		"grant_count": len(grants),
		"grants":      grantInfos,
		"expires_at":  expiresAt.UTC().Format(time.RFC3339),
	}
}

func estimatedFileSize(format string) int64 {
	if size, ok := estimatedFileSizes[format]; ok {
		return size
	}
	return estimatedFileSizes[defaultDownloadFormat]
}
