package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/metrics"
)

type VerifyPaymentResult struct {
	OrderID       kernel.UUID
	Status        order.Status
	PaymentStatus order.PaymentStatus
}

// VerifyPaymentCommandHandler is the only path that moves an order out of pending_payment.
type VerifyPaymentCommandHandler struct {
	uowFactory OrderUoWFactory
	gateway    ports.PaymentGateway
	notifier   *OrderNotifier
	logger     *slog.Logger
}

func NewVerifyPaymentCommandHandler(
	uowFactory OrderUoWFactory,
	gateway ports.PaymentGateway,
	notifier *OrderNotifier,
	logger *slog.Logger,
) VerifyPaymentCommandHandler {
	return VerifyPaymentCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		notifier:   notifier,
		logger:     logger.With("component", "verify_payment"),
	}
}

// Handle confirms the payment when the gateway reports it paid for at least the
// order total, and records a failure otherwise. Verifying an already paid order
// is a no-op, so callbacks and webhooks may both arrive.
func (h VerifyPaymentCommandHandler) Handle(ctx context.Context, cmd VerifyPaymentCommand) (VerifyPaymentResult, error) {
	if err := cmd.Validate(); err != nil {
		return VerifyPaymentResult{}, err
	}

	verification, err := h.gateway.Verify(ctx, cmd.Reference())
	if err != nil {
		return VerifyPaymentResult{}, err
	}

	orderID, err := kernel.UUIDFromString(verification.OrderID)
	if err != nil {
		return VerifyPaymentResult{}, errs.NewValueIsInvalidErrorWithCause("payment order id", err)
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return VerifyPaymentResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.Get(ctx, orderID)
	if err != nil {
		return VerifyPaymentResult{}, err
	}

	if o.IsPaid() {
		return resultOf(o), nil
	}

	now := time.Now()
	paid := verification.Paid && verification.Amount >= o.Total()
	if verification.Paid && !paid {
		h.logger.WarnContext(ctx, "payment amount below order total",
			"order_id", o.ID().String(), "reference", cmd.Reference(),
			"amount", verification.Amount, "total", o.Total())
	}

	if paid {
		err = o.ConfirmPayment(cmd.Reference(), now)
	} else {
		err = o.FailPayment(now)
	}
	if err != nil {
		return VerifyPaymentResult{}, fmt.Errorf("settle payment %s: %w", cmd.Reference(), err)
	}

	if err = repo.Update(ctx, o); err != nil {
		return VerifyPaymentResult{}, trackConflict(err)
	}

	if err = uow.Commit(ctx); err != nil {
		return VerifyPaymentResult{}, err
	}

	if paid {
		metrics.OrderTransitionsTotal.WithLabelValues(order.PaymentConfirmed.String()).Inc()
		h.notifier.StatusEntered(ctx, o, order.PaymentConfirmed)
	}

	return resultOf(o), nil
}

func resultOf(o *order.Order) VerifyPaymentResult {
	return VerifyPaymentResult{
		OrderID:       o.ID(),
		Status:        o.Status(),
		PaymentStatus: o.PaymentStatus(),
	}
}
