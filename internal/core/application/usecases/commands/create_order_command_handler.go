package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/shipping"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/pkg/metrics"
)

// ShippingCalculator prices a cart; implemented by services.ShippingCalculator.
type ShippingCalculator interface {
	Calculate(ctx context.Context, req services.ShippingRequest) (shipping.Quote, error)
}

// CreateOrderCommandHandler prices a cart and persists it as a new order in
// pending_payment.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	calculator ShippingCalculator
	notifier   *OrderNotifier
}

func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	calculator ShippingCalculator,
	notifier *OrderNotifier,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		calculator: calculator,
		notifier:   notifier,
	}
}

// Handle quotes shipping (promo errors abort checkout, distance failures do not),
// stores the order and notifies the customer.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	quote, err := h.calculator.Calculate(ctx, services.ShippingRequest{
		DeliveryPoint: cmd.Address().Point(),
		AddressID:     cmd.AddressID(),
		VendorIDs:     cmd.VendorIDs(),
		Subtotal:      cmd.Subtotal(),
		PromoCode:     cmd.PromoCode(),
		Now:           now,
	})
	if err != nil {
		return nil, err
	}

	o, err := order.NewOrder(cmd.OrderID(), cmd.UserID(), cmd.Items(), cmd.Address(), quote, cmd.Notes(), now)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	metrics.OrdersCreatedTotal.Inc()
	h.notifier.StatusEntered(ctx, o, order.PendingPayment)

	return o, nil
}
