package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"pawtraits/internal/core/domain/model/fulfillment"
	"pawtraits/internal/core/domain/model/kernel"
	"pawtraits/internal/core/domain/model/order"
	"pawtraits/internal/core/domain/services"
	"pawtraits/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memOrderRepository keeps one order in memory and counts item writes.
type memOrderRepository struct {
	order           *order.Order
	itemUpdateCount int
	updateErr       error
	updateItemErr   error
}

func (r *memOrderRepository) Add(_ context.Context, aggregate *order.Order) error {
	r.order = aggregate
	return nil
}

func (r *memOrderRepository) Update(_ context.Context, aggregate *order.Order) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.order = aggregate
	return nil
}

func (r *memOrderRepository) UpdateItem(context.Context, *order.Item) error {
	if r.updateItemErr != nil {
		return r.updateItemErr
	}
	r.itemUpdateCount++
	return nil
}

func (r *memOrderRepository) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	if r.order == nil || !r.order.ID().IsEqual(id) {
		return nil, errs.NewObjectNotFoundError("order", id)
	}
	return r.order, nil
}

func (r *memOrderRepository) GetAllWithLapsedDownloads(context.Context, time.Time) ([]*order.Order, error) {
	return nil, nil
}

// stubImageStore resolves every image except the ones listed as missing.
type stubImageStore struct {
	missing map[string]bool
}

func (s *stubImageStore) StorageKey(_ context.Context, imageID kernel.UUID) (string, error) {
	if s.missing[imageID.String()] {
		return "", errs.NewObjectNotFoundError("image", imageID)
	}
	return "portraits/" + imageID.String() + ".png", nil
}

// stubTrackingRepository records appended rows and can be scripted to fail.
type stubTrackingRepository struct {
	records []fulfillment.TrackingRecord
	addErr  error
}

func (r *stubTrackingRepository) Add(_ context.Context, record fulfillment.TrackingRecord) error {
	if r.addErr != nil {
		return r.addErr
	}
	r.records = append(r.records, record)
	return nil
}

func (r *stubTrackingRepository) GetByOrder(context.Context, kernel.UUID) ([]fulfillment.TrackingRecord, error) {
	return r.records, nil
}

func newDigitalService(orders *memOrderRepository, tracking *stubTrackingRepository, images *stubImageStore) *services.DigitalDeliveryService {
	return services.NewDigitalDeliveryService(orders, tracking, images, "https://pawtraits.example.com", testLogger())
}

func TestDigitalDeliveryService_CanFulfill(t *testing.T) {
	svc := newDigitalService(&memOrderRepository{}, &stubTrackingRepository{}, &stubImageStore{})

	t.Run("claims digital downloads", func(t *testing.T) {
		assert.True(t, svc.CanFulfill(makeItem(t, order.ProductTypeDigitalDownload)))
	})

	t.Run("claims physical prints for the bundled copy", func(t *testing.T) {
		assert.True(t, svc.CanFulfill(makeItem(t, order.ProductTypePhysicalPrint)))
	})

	t.Run("claims legacy items with no product type", func(t *testing.T) {
		assert.True(t, svc.CanFulfill(makeItem(t, order.ProductTypeUnspecified)))
	})
}

func TestDigitalDeliveryService_Fulfill(t *testing.T) {
	ctx := context.Background()

	t.Run("multi-image item yields one grant per image in order", func(t *testing.T) {
		imageIDs := []kernel.UUID{kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()}
		item, err := order.NewMultiImageItem(kernel.NewUUID(), order.ProductTypeDigitalDownload, imageIDs, "png")
		require.NoError(t, err)

		o := makeProcessingOrder(t, []*order.Item{item})
		repo := &memOrderRepository{order: o}
		svc := newDigitalService(repo, &stubTrackingRepository{}, &stubImageStore{})

		result := svc.Fulfill(ctx, o, o.Items())

		require.True(t, result.Success)
		assert.Equal(t, 3, result.TrackingInfo["grant_count"])
		// Each grant overwrote the previous one on the same row.
		assert.Equal(t, 3, repo.itemUpdateCount)

		grants, ok := result.TrackingInfo["grants"].([]map[string]any)
		require.True(t, ok)
		require.Len(t, grants, 3)
		for seq, grant := range grants {
			assert.Equal(t, item.ID().String(), grant["order_item_id"])
			assert.Contains(t, grant["file_name"], "PAW-1001-portrait-")
			assert.Contains(t, grant["file_name"], "0"+string(rune('1'+seq)))
		}

		// The item row keeps only the last grant's URL.
		assert.NotEmpty(t, item.DownloadURL())
		assert.Equal(t, grants[2]["download_url"], item.DownloadURL())
	})

	t.Run("grants expire exactly seven days after generation", func(t *testing.T) {
		o := makeProcessingOrder(t, []*order.Item{makeItem(t, order.ProductTypeDigitalDownload)})
		repo := &memOrderRepository{order: o}
		svc := newDigitalService(repo, &stubTrackingRepository{}, &stubImageStore{})

		before := time.Now().UTC()
		result := svc.Fulfill(ctx, o, o.Items())
		after := time.Now().UTC()

		require.True(t, result.Success)
		item := o.Items()[0]
		require.NotNil(t, item.DownloadExpiresAt())
		require.NotNil(t, item.DownloadURLGeneratedAt())

		ttl := item.DownloadExpiresAt().Sub(*item.DownloadURLGeneratedAt())
		assert.Equal(t, 7*24*time.Hour, ttl)
		assert.False(t, item.DownloadExpiresAt().Before(before.Add(7*24*time.Hour)))
		assert.False(t, item.DownloadExpiresAt().After(after.Add(7*24*time.Hour)))

		require.NotNil(t, o.DownloadExpiresAt())
		assert.Equal(t, order.DigitalDeliverySent, o.DigitalDeliveryStatus())
	})

	t.Run("missing image fails the whole batch", func(t *testing.T) {
		goodItem := makeItem(t, order.ProductTypeDigitalDownload)
		badItem := makeItem(t, order.ProductTypeDigitalDownload)

		o := makeProcessingOrder(t, []*order.Item{goodItem, badItem})
		repo := &memOrderRepository{order: o}
		images := &stubImageStore{missing: map[string]bool{badItem.ImageRefs()[0].String(): true}}
		svc := newDigitalService(repo, &stubTrackingRepository{}, images)

		result := svc.Fulfill(ctx, o, o.Items())

		require.False(t, result.Success)
		require.NotNil(t, result.Err)
		assert.Equal(t, fulfillment.ErrorKindFileNotFound, result.Err.Kind)
		assert.Equal(t, badItem.ID().String(), result.Err.Details["order_item_id"])
		assert.NotEqual(t, order.DigitalDeliverySent, o.DigitalDeliveryStatus())

		// The first item's image resolved fine, but a failed batch must not
		// leave any persisted grant behind.
		assert.Equal(t, 0, repo.itemUpdateCount)
		assert.False(t, goodItem.IsDigital())
		assert.Empty(t, goodItem.DownloadURL())
	})

	t.Run("missing image on a later image of a multi-image item leaves earlier items untouched", func(t *testing.T) {
		firstItem := makeItem(t, order.ProductTypeDigitalDownload)
		imageIDs := []kernel.UUID{kernel.NewUUID(), kernel.NewUUID()}
		multiItem, err := order.NewMultiImageItem(kernel.NewUUID(), order.ProductTypeDigitalDownload, imageIDs, "")
		require.NoError(t, err)

		o := makeProcessingOrder(t, []*order.Item{firstItem, multiItem})
		repo := &memOrderRepository{order: o}
		images := &stubImageStore{missing: map[string]bool{imageIDs[1].String(): true}}
		svc := newDigitalService(repo, &stubTrackingRepository{}, images)

		result := svc.Fulfill(ctx, o, o.Items())

		require.False(t, result.Success)
		assert.Equal(t, fulfillment.ErrorKindFileNotFound, result.Err.Kind)
		assert.Equal(t, 0, repo.itemUpdateCount)
		assert.False(t, firstItem.IsDigital())
		assert.False(t, multiItem.IsDigital())
	})

	t.Run("physical multi-image plus purchased digital single yields three grants", func(t *testing.T) {
		imageIDs := []kernel.UUID{kernel.NewUUID(), kernel.NewUUID()}
		printItem, err := order.NewMultiImageItem(kernel.NewUUID(), order.ProductTypePhysicalPrint, imageIDs, "")
		require.NoError(t, err)
		digitalItem := makeItem(t, order.ProductTypeDigitalDownload)

		o := makeProcessingOrder(t, []*order.Item{printItem, digitalItem})
		repo := &memOrderRepository{order: o}
		svc := newDigitalService(repo, &stubTrackingRepository{}, &stubImageStore{})

		// The physical item is claimed for its bundled copy alongside the
		// purchased download, so the batch carries both items.
		result := svc.Fulfill(ctx, o, o.Items())

		require.True(t, result.Success)
		assert.Equal(t, 3, result.TrackingInfo["grant_count"])
		assert.Equal(t, 3, repo.itemUpdateCount)

		grants, ok := result.TrackingInfo["grants"].([]map[string]any)
		require.True(t, ok)
		require.Len(t, grants, 3)
		assert.Equal(t, printItem.ID().String(), grants[0]["order_item_id"])
		assert.Equal(t, printItem.ID().String(), grants[1]["order_item_id"])
		assert.Equal(t, digitalItem.ID().String(), grants[2]["order_item_id"])

		// The multi-image row keeps only its last grant's URL.
		assert.Equal(t, grants[1]["download_url"], printItem.DownloadURL())
		assert.NotEqual(t, grants[0]["download_url"], printItem.DownloadURL())
		assert.Equal(t, grants[2]["download_url"], digitalItem.DownloadURL())
	})

	t.Run("zero eligible items succeeds with zero grants", func(t *testing.T) {
		o := makeProcessingOrder(t, []*order.Item{makeItem(t, order.ProductTypeDigitalDownload)})
		repo := &memOrderRepository{order: o}
		svc := newDigitalService(repo, &stubTrackingRepository{}, &stubImageStore{})

		result := svc.Fulfill(ctx, o, nil)

		require.True(t, result.Success)
		assert.Equal(t, 0, result.TrackingInfo["grant_count"])
		// No grants, so delivery is never marked sent.
		assert.Equal(t, order.DigitalDeliveryNone, o.DigitalDeliveryStatus())
		assert.Equal(t, 0, repo.itemUpdateCount)
	})

	t.Run("grant persistence failure reports generation failed", func(t *testing.T) {
		o := makeProcessingOrder(t, []*order.Item{makeItem(t, order.ProductTypeDigitalDownload)})
		repo := &memOrderRepository{order: o, updateItemErr: errors.New("connection reset")}
		svc := newDigitalService(repo, &stubTrackingRepository{}, &stubImageStore{})

		result := svc.Fulfill(ctx, o, o.Items())

		require.False(t, result.Success)
		require.NotNil(t, result.Err)
		assert.Equal(t, fulfillment.ErrorKindGenerationFailed, result.Err.Kind)
	})

	t.Run("tracking write failure does not fail the run", func(t *testing.T) {
		o := makeProcessingOrder(t, []*order.Item{makeItem(t, order.ProductTypeDigitalDownload)})
		repo := &memOrderRepository{order: o}
		tracking := &stubTrackingRepository{addErr: errors.New("table locked")}
		svc := newDigitalService(repo, tracking, &stubImageStore{})

		result := svc.Fulfill(ctx, o, o.Items())

		require.True(t, result.Success)
		assert.Empty(t, tracking.records)
	})
}

func TestDigitalDeliveryService_Status(t *testing.T) {
	ctx := context.Background()

	t.Run("processing until a grant is accessed", func(t *testing.T) {
		o := makeProcessingOrder(t, []*order.Item{makeItem(t, order.ProductTypeDigitalDownload)})
		repo := &memOrderRepository{order: o}
		svc := newDigitalService(repo, &stubTrackingRepository{}, &stubImageStore{})

		result := svc.Fulfill(ctx, o, o.Items())
		require.True(t, result.Success)

		status, err := svc.Status(ctx, result.FulfillmentID)
		require.NoError(t, err)
		assert.Equal(t, fulfillment.BackendStateProcessing, status.State)
		assert.Equal(t, 0, status.TrackingInfo["items_accessed"])
		assert.Equal(t, false, status.TrackingInfo["expired"])
	})

	t.Run("unknown order reports error", func(t *testing.T) {
		svc := newDigitalService(&memOrderRepository{}, &stubTrackingRepository{}, &stubImageStore{})

		_, err := svc.Status(ctx, kernel.NewUUID().String())
		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrObjectNotFound))
	})
}

func TestDigitalDeliveryService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("cancel expires every grant immediately", func(t *testing.T) {
		o := makeProcessingOrder(t, []*order.Item{makeItem(t, order.ProductTypeDigitalDownload)})
		repo := &memOrderRepository{order: o}
		svc := newDigitalService(repo, &stubTrackingRepository{}, &stubImageStore{})

		result := svc.Fulfill(ctx, o, o.Items())
		require.True(t, result.Success)

		cancelled, err := svc.Cancel(ctx, o.ID().String())
		require.NoError(t, err)
		assert.True(t, cancelled)
		assert.Equal(t, order.DigitalDeliveryExpired, o.DigitalDeliveryStatus())
		assert.True(t, o.DigitalDeliveryLapsed(time.Now().UTC().Add(time.Second)))
	})

	t.Run("cancelling already expired delivery still succeeds", func(t *testing.T) {
		o := makeProcessingOrder(t, []*order.Item{makeItem(t, order.ProductTypeDigitalDownload)})
		repo := &memOrderRepository{order: o}
		svc := newDigitalService(repo, &stubTrackingRepository{}, &stubImageStore{})

		_ = svc.Fulfill(ctx, o, o.Items())
		o.ExpireDigitalDelivery(time.Now().UTC())

		cancelled, err := svc.Cancel(ctx, o.ID().String())
		require.NoError(t, err)
		assert.True(t, cancelled)
	})

	t.Run("persistence failure reports not cancelled", func(t *testing.T) {
		o := makeProcessingOrder(t, []*order.Item{makeItem(t, order.ProductTypeDigitalDownload)})
		repo := &memOrderRepository{order: o, updateErr: errors.New("connection refused")}
		svc := newDigitalService(repo, &stubTrackingRepository{}, &stubImageStore{})

		cancelled, err := svc.Cancel(ctx, o.ID().String())
		require.Error(t, err)
		assert.False(t, cancelled)
	})
}
