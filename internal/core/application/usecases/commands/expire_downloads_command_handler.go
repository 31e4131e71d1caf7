package commands

import (
	"context"
)

// ExpireDownloadsCommandHandler runs the download expiry sweep.
// Orders past their download window transition to expired together with
// every item-level grant, all within one transaction.
type ExpireDownloadsCommandHandler struct {
	uowFactory UoWFactory
}

// NewExpireDownloadsCommandHandler creates a handler for expiry sweeps.
func NewExpireDownloadsCommandHandler(uowFactory UoWFactory) ExpireDownloadsCommandHandler {
	return ExpireDownloadsCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the expiry sweep command.
// Returns how many orders were expired by this sweep. An empty sweep is not
// an error: the job runs on a schedule and usually finds nothing to do.
func (h ExpireDownloadsCommandHandler) Handle(ctx context.Context, command ExpireDownloadsCommand) (int, error) {
	if err := command.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ordersRepo := uow.OrderRepository()

	lapsed, err := ordersRepo.GetAllWithLapsedDownloads(ctx, command.Now())
	if err != nil {
		return 0, err
	}

	for _, o := range lapsed {
		o.ExpireDigitalDelivery(command.Now())
		if err = ordersRepo.Update(ctx, o); err != nil {
			return 0, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return len(lapsed), nil
}
