package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
)

type InitiatePaymentResult struct {
	AuthorizationURL string
	Reference        string
}

// InitiatePaymentCommandHandler asks the payment gateway for a checkout session.
// The order itself is not modified; it leaves pending_payment only after verification.
type InitiatePaymentCommandHandler struct {
	uowFactory OrderUoWFactory
	gateway    ports.PaymentGateway
}

func NewInitiatePaymentCommandHandler(uowFactory OrderUoWFactory, gateway ports.PaymentGateway) InitiatePaymentCommandHandler {
	return InitiatePaymentCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
	}
}

// Handle fails with order.ErrActorNotAllowed for anyone but the ordering customer,
// order.ErrAlreadyPaid for paid orders and order.ErrInvalidState once the order
// left pending_payment.
func (h InitiatePaymentCommandHandler) Handle(ctx context.Context, cmd InitiatePaymentCommand) (InitiatePaymentResult, error) {
	if err := cmd.Validate(); err != nil {
		return InitiatePaymentResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return InitiatePaymentResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return InitiatePaymentResult{}, err
	}

	actor := cmd.Actor()
	if actor.Role() != order.RoleCustomer || !o.IsOwnedBy(actor.ID()) {
		return InitiatePaymentResult{}, fmt.Errorf("%w: only the ordering customer can pay", order.ErrActorNotAllowed)
	}
	if o.IsPaid() {
		return InitiatePaymentResult{}, fmt.Errorf("%w: order %s", order.ErrAlreadyPaid, o.ID())
	}
	if o.Status() != order.PendingPayment {
		return InitiatePaymentResult{}, fmt.Errorf("%w: order is %s", order.ErrInvalidState, o.Status())
	}

	session, err := h.gateway.Initiate(ctx, ports.PaymentRequest{
		OrderID:   o.ID(),
		Reference: paymentReference(o, time.Now()),
		Amount:    o.Total(),
		Email:     cmd.Email(),
	})
	if err != nil {
		return InitiatePaymentResult{}, err
	}

	return InitiatePaymentResult{
		AuthorizationURL: session.AuthorizationURL,
		Reference:        session.Reference,
	}, nil
}

// paymentReference is unique per attempt so that a failed payment can be retried.
func paymentReference(o *order.Order, now time.Time) string {
	return "ord-" + o.ID().String() + "-" + strconv.FormatInt(now.UnixMilli(), 36)
}
