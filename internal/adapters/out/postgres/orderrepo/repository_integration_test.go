package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"pawtraits/internal/adapters/out/postgres/orderrepo"
	"pawtraits/internal/core/domain/model/kernel"
	"pawtraits/internal/core/domain/model/order"
	"pawtraits/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of the aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite provides integration tests for the
// order repository using PostgreSQL containers.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.OrderItemDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders, order_items").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) createTestOrder(productTypes ...order.ProductType) *order.Order {
	items := make([]*order.Item, 0, len(productTypes))
	for _, productType := range productTypes {
		item, err := order.NewItem(kernel.NewUUID(), productType, kernel.NewUUID(), "png")
		suite.Require().NoError(err)
		items = append(items, item)
	}

	o, err := order.NewOrder(kernel.NewUUID(), "PAW-"+kernel.NewUUID().String()[:8], items)
	suite.Require().NoError(err)
	return o
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_ValidOrder_Success() {
	ctx := context.Background()

	testOrder := suite.createTestOrder(order.ProductTypePhysicalPrint, order.ProductTypeDigitalDownload)
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()

	err := suite.repository.Add(ctx, testOrder)
	suite.Require().NoError(err)

	var orderCount, itemCount int64
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderDTO{}).Count(&orderCount).Error)
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderItemDTO{}).Count(&itemCount).Error)
	suite.Equal(int64(1), orderCount)
	suite.Equal(int64(2), itemCount)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_RoundTripsAggregate() {
	ctx := context.Background()

	testOrder := suite.createTestOrder(order.ProductTypePhysicalPrint, order.ProductTypeDigitalDownload)
	testOrder.Classify()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)

	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	restored, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	suite.True(restored.ID().IsEqual(testOrder.ID()))
	suite.Equal(testOrder.OrderNumber(), restored.OrderNumber())
	suite.Equal(order.FulfillmentTypePhysical, restored.FulfillmentType())
	suite.Equal(order.Pending, restored.Status())
	suite.Len(restored.Items(), 2)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_RoundTripsMultiImageItem() {
	ctx := context.Background()

	imageIDs := []kernel.UUID{kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()}
	item, err := order.NewMultiImageItem(kernel.NewUUID(), order.ProductTypeDigitalDownload, imageIDs, "jpg")
	suite.Require().NoError(err)

	testOrder, err := order.NewOrder(kernel.NewUUID(), "PAW-MULTI", []*order.Item{item})
	suite.Require().NoError(err)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	restored, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Require().Len(restored.Items(), 1)

	refs := restored.Items()[0].ImageRefs()
	suite.Require().Len(refs, 3)
	for i, ref := range refs {
		suite.True(ref.IsEqual(imageIDs[i]), "image order must survive the round trip")
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NotFound() {
	ctx := context.Background()

	_, err := suite.repository.Get(ctx, kernel.NewUUID())

	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_PersistsStatusTransition() {
	ctx := context.Background()

	testOrder := suite.createTestOrder(order.ProductTypeDigitalDownload)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	suite.Require().NoError(testOrder.StartFulfillment())
	expiresAt := time.Now().UTC().Add(7 * 24 * time.Hour).Truncate(time.Microsecond)
	testOrder.MarkDigitalDeliverySent(expiresAt)
	suite.Require().NoError(suite.repository.Update(ctx, testOrder))

	restored, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Processing, restored.Status())
	suite.Equal(order.DigitalDeliverySent, restored.DigitalDeliveryStatus())
	suite.Require().NotNil(restored.DownloadExpiresAt())
	suite.WithinDuration(expiresAt, *restored.DownloadExpiresAt(), time.Millisecond)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_NotFound() {
	ctx := context.Background()

	testOrder := suite.createTestOrder(order.ProductTypeDigitalDownload)

	err := suite.repository.Update(ctx, testOrder)
	suite.Require().Error(err)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdateItem_LastWriteWins() {
	ctx := context.Background()

	testOrder := suite.createTestOrder(order.ProductTypeDigitalDownload)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	item := testOrder.Items()[0]
	generatedAt := time.Now().UTC()
	expiresAt := generatedAt.Add(7 * 24 * time.Hour)

	suite.Require().NoError(item.ApplyGrant("https://example.com/dl/first", "png", 1024, generatedAt, expiresAt))
	suite.Require().NoError(suite.repository.UpdateItem(ctx, item))

	suite.Require().NoError(item.ApplyGrant("https://example.com/dl/second", "png", 2048, generatedAt, expiresAt))
	suite.Require().NoError(suite.repository.UpdateItem(ctx, item))

	restored, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Require().Len(restored.Items(), 1)
	suite.Equal("https://example.com/dl/second", restored.Items()[0].DownloadURL())
	suite.Equal(int64(2048), restored.Items()[0].DigitalFileSizeBytes())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetAllWithLapsedDownloads() {
	ctx := context.Background()
	now := time.Now().UTC()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)

	lapsed := suite.createTestOrder(order.ProductTypeDigitalDownload)
	suite.Require().NoError(lapsed.StartFulfillment())
	lapsed.MarkDigitalDeliverySent(now.Add(-time.Hour))
	suite.Require().NoError(suite.repository.Add(ctx, lapsed))

	active := suite.createTestOrder(order.ProductTypeDigitalDownload)
	suite.Require().NoError(active.StartFulfillment())
	active.MarkDigitalDeliverySent(now.Add(time.Hour))
	suite.Require().NoError(suite.repository.Add(ctx, active))

	neverSent := suite.createTestOrder(order.ProductTypeDigitalDownload)
	suite.Require().NoError(suite.repository.Add(ctx, neverSent))

	found, err := suite.repository.GetAllWithLapsedDownloads(ctx, now)
	suite.Require().NoError(err)
	suite.Require().Len(found, 1)
	suite.True(found[0].ID().IsEqual(lapsed.ID()))
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
