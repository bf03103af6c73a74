package commands

import (
	"context"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/metrics"
)

// AdvanceOrderCommandHandler applies a vendor or admin status change.
//
// Example:
//
//	cmd, _ := NewAdvanceOrderCommand(orderID, order.Shipped, "Picked up by courier", vendor, nil)
//	err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, order.ErrPaymentRequired):
//	    // the customer has not paid yet
//	case errors.Is(err, errs.ErrVersionIsInvalid):
//	    // someone else changed the order first; reload and retry
//	}
type AdvanceOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   *OrderNotifier
}

func NewAdvanceOrderCommandHandler(uowFactory OrderUoWFactory, notifier *OrderNotifier) AdvanceOrderCommandHandler {
	return AdvanceOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle returns the updated order. Of two concurrent calls on the same order
// at most one commits; the other fails with errs.ErrVersionIsInvalid.
func (h AdvanceOrderCommandHandler) Handle(ctx context.Context, cmd AdvanceOrderCommand) (*order.Order, error) {
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

	if expected := cmd.ExpectedVersion(); expected != nil && *expected != o.Version() {
		return nil, trackConflict(errs.NewVersionIsInvalidErrorWithCause("order",
			fmt.Errorf("expected version %d, current is %d", *expected, o.Version())))
	}

	if err = o.Advance(cmd.Target(), cmd.Message(), cmd.Actor(), time.Now()); err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, o); err != nil {
		return nil, trackConflict(err)
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	metrics.OrderTransitionsTotal.WithLabelValues(o.Status().String()).Inc()
	h.notifier.StatusEntered(ctx, o, o.Status())

	return o, nil
}
