package cmd

import (
	"log/slog"

	"pawtraits/internal/adapters/out/imagestore"
	"pawtraits/internal/adapters/out/notify"
	"pawtraits/internal/adapters/out/postgres"
	"pawtraits/internal/adapters/out/postgres/orderrepo"
	"pawtraits/internal/adapters/out/postgres/trackingrepo"
	"pawtraits/internal/adapters/out/printapi"
	"pawtraits/internal/core/application/usecases/commands"
	"pawtraits/internal/core/application/usecases/queries"
	"pawtraits/internal/core/domain/model/kernel"
	"pawtraits/internal/core/domain/services"
	"pawtraits/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory

	images   *imagestore.InMemoryImageStore
	notifier *notify.LogNotifier
	router   *services.FulfillmentRouter
	backends []services.Backend

	logger *slog.Logger
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	images := imagestore.NewInMemoryImageStore()

	// The router and its backends read and write outside the command
	// handlers' transactions, so they get plain repositories.
	orders := orderrepo.NewGormOrderRepository(gormDB, noTracker{})
	tracking := trackingrepo.NewGormTrackingRepository(gormDB)

	printProvider := printapi.NewClient(configs.PrintAPIBaseURL, configs.PrintAPIKey)

	printBackend := services.NewPrintBackend(printProvider, tracking, images, logger)
	digitalBackend := services.NewDigitalDeliveryService(orders, tracking, images, configs.DownloadBaseURL, logger)

	router := services.NewFulfillmentRouter(orders, logger, printBackend, digitalBackend)

	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		images:     images,
		notifier:   notify.NewLogNotifier(logger),
		router:     router,
		backends:   []services.Backend{printBackend, digitalBackend},
		logger:     logger,
	}
}

// ImageStore exposes the image registry so callers can seed portrait
// storage keys as generation completes.
func (c *CompositionRoot) ImageStore() *imagestore.InMemoryImageStore {
	return c.images
}

func (c *CompositionRoot) CreateFulfillOrderCommandHandler() commands.FulfillOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewFulfillOrderCommandHandler(f, c.router, c.notifier, c.logger)
}

func (c *CompositionRoot) CreateCancelFulfillmentCommandHandler() commands.CancelFulfillmentCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewCancelFulfillmentCommandHandler(f, c.backends...)
}

func (c *CompositionRoot) CreateExpireDownloadsCommandHandler() commands.ExpireDownloadsCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewExpireDownloadsCommandHandler(f)
}

func (c *CompositionRoot) CreateGetFulfillmentStatusQueryHandler() queries.GetFulfillmentStatusQueryHandler {
	return queries.NewGetFulfillmentStatusQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetDownloadsQueryHandler() queries.GetDownloadsQueryHandler {
	return queries.NewGetDownloadsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.CreateExpireDownloadsCommandHandler(), c.logger)
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

// noTracker satisfies the order repository's aggregate tracking hook for
// repositories used outside a unit of work.
type noTracker struct{}

func (noTracker) TrackAggregate(kernel.UUID, any) {}
