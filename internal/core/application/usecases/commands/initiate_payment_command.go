package commands

import (
	"errors"
	"net/mail"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrInitiatePaymentCommandIsNotConstructed = errors.New(
	"InitiatePaymentCommand must be created via NewInitiatePaymentCommand constructor",
)

// InitiatePaymentCommand opens a hosted checkout for an unpaid order.
type InitiatePaymentCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   order.Actor
	email   string

	guard guard.ConstructorGuard
}

func NewInitiatePaymentCommand(orderID kernel.UUID, actor order.Actor, email string) (InitiatePaymentCommand, error) {
	cmd := InitiatePaymentCommand{
		actor: actor,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(cmd.setOrderID(orderID), cmd.setEmail(email)); err != nil {
		return InitiatePaymentCommand{}, err
	}

	return cmd, nil
}

func (c InitiatePaymentCommand) Validate() error {
	return c.guard.Validate(ErrInitiatePaymentCommandIsNotConstructed)
}

func (c InitiatePaymentCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c InitiatePaymentCommand) Actor() order.Actor {
	return c.actor
}

func (c InitiatePaymentCommand) Email() string {
	return c.email
}

func (c *InitiatePaymentCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *InitiatePaymentCommand) setEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errs.NewValueIsRequiredError("email")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("email", err)
	}
	c.email = email
	return nil
}
