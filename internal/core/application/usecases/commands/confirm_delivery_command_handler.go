package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/metrics"
)

type ConfirmDeliveryCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewConfirmDeliveryCommandHandler(uowFactory OrderUoWFactory) ConfirmDeliveryCommandHandler {
	return ConfirmDeliveryCommandHandler{uowFactory: uowFactory}
}

// Handle confirms delivery and releases the held escrow immediately.
func (h ConfirmDeliveryCommandHandler) Handle(ctx context.Context, cmd ConfirmDeliveryCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	heldBefore := o.EscrowStatus() == order.EscrowHeld
	if err = o.ConfirmDelivery(cmd.Actor(), time.Now()); err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, o); err != nil {
		return nil, trackConflict(err)
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	if heldBefore && o.EscrowStatus() == order.EscrowReleased {
		metrics.EscrowsReleasedTotal.Inc()
	}

	return o, nil
}
