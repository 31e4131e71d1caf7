package commands_test

import (
	"context"
	"testing"
	"time"

	"pawtraits/internal/core/application/usecases/commands"
	"pawtraits/internal/core/domain/model/fulfillment"
	"pawtraits/internal/core/domain/model/kernel"
	"pawtraits/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBackend struct{ mock.Mock }

func (m *MockBackend) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockBackend) CanFulfill(item *order.Item) bool {
	args := m.Called(item)
	return args.Bool(0)
}

func (m *MockBackend) Fulfill(ctx context.Context, o *order.Order, items []*order.Item) fulfillment.Result {
	args := m.Called(ctx, o, items)
	return args.Get(0).(fulfillment.Result)
}

func (m *MockBackend) Status(ctx context.Context, fulfillmentID string) (fulfillment.BackendStatus, error) {
	args := m.Called(ctx, fulfillmentID)
	return args.Get(0).(fulfillment.BackendStatus), args.Error(1)
}

func (m *MockBackend) Cancel(ctx context.Context, fulfillmentID string) (bool, error) {
	args := m.Called(ctx, fulfillmentID)
	return args.Bool(0), args.Error(1)
}

func TestCancelFulfillmentCommandHandler_Handle_Success(t *testing.T) {
	ctx := context.Background()
	testOrder := newTestOrder(t)
	cmd, err := commands.NewCancelFulfillmentCommand(testOrder.ID(), "digital_delivery")
	require.NoError(t, err)

	completedAt := time.Now().UTC()
	records := []fulfillment.TrackingRecord{
		fulfillment.NewTrackingRecord(testOrder.ID(), "digital_delivery", "completed",
			map[string]any{"fulfillment_id": testOrder.ID().String()},
			completedAt.Add(-time.Second), completedAt),
	}

	orderRepo := new(MockOrderRepository)
	trackingRepo := new(MockTrackingRepository)
	uow := new(MockUoW)
	backend := new(MockBackend)
	backend.On("Name").Return("digital_delivery")
	backend.On("Cancel", ctx, testOrder.ID().String()).Return(true, nil).Once()

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("TrackingRepository").Return(trackingRepo).Once(),
		trackingRepo.On("GetByOrder", ctx, testOrder.ID()).Return(records, nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCancelFulfillmentCommandHandler(factory, backend)
	cancelled, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, cancelled)
	backend.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCancelFulfillmentCommandHandler_Handle_UnknownMethod(t *testing.T) {
	ctx := context.Background()
	cmd, err := commands.NewCancelFulfillmentCommand(kernel.NewUUID(), "carrier_pigeon")
	require.NoError(t, err)

	backend := new(MockBackend)
	backend.On("Name").Return("digital_delivery")

	factory := new(MockUoWFactory)
	handler := commands.NewCancelFulfillmentCommandHandler(factory, backend)
	cancelled, err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrUnknownFulfillmentMethod)
	assert.False(t, cancelled)
	factory.AssertNotCalled(t, "Create")
}

func TestCancelFulfillmentCommandHandler_Handle_FallsBackToOrderID(t *testing.T) {
	ctx := context.Background()
	testOrder := newTestOrder(t)
	cmd, err := commands.NewCancelFulfillmentCommand(testOrder.ID(), "digital_delivery")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	trackingRepo := new(MockTrackingRepository)
	uow := new(MockUoW)
	backend := new(MockBackend)
	backend.On("Name").Return("digital_delivery")
	// No tracking record yet, so the order id is passed through.
	backend.On("Cancel", ctx, testOrder.ID().String()).Return(true, nil).Once()

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("TrackingRepository").Return(trackingRepo).Once(),
		trackingRepo.On("GetByOrder", ctx, testOrder.ID()).Return([]fulfillment.TrackingRecord{}, nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCancelFulfillmentCommandHandler(factory, backend)
	cancelled, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, cancelled)
}

func TestCancelFulfillmentCommandHandler_Handle_PrintCannotBeCancelled(t *testing.T) {
	ctx := context.Background()
	testOrder := newTestOrder(t)
	cmd, err := commands.NewCancelFulfillmentCommand(testOrder.ID(), "print")
	require.NoError(t, err)

	completedAt := time.Now().UTC()
	records := []fulfillment.TrackingRecord{
		fulfillment.NewTrackingRecord(testOrder.ID(), "print", "submitted",
			map[string]any{"fulfillment_id": "job-42"},
			completedAt.Add(-time.Second), completedAt),
	}

	orderRepo := new(MockOrderRepository)
	trackingRepo := new(MockTrackingRepository)
	uow := new(MockUoW)
	backend := new(MockBackend)
	backend.On("Name").Return("print")
	backend.On("Cancel", ctx, "job-42").Return(false, nil).Once()

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("TrackingRepository").Return(trackingRepo).Once(),
		trackingRepo.On("GetByOrder", ctx, testOrder.ID()).Return(records, nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCancelFulfillmentCommandHandler(factory, backend)
	cancelled, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.False(t, cancelled)
	backend.AssertExpectations(t)
}
