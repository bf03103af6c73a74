package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/guard"
)

var ErrConfirmDeliveryCommandIsNotConstructed = errors.New(
	"ConfirmDeliveryCommand must be created via NewConfirmDeliveryCommand constructor",
)

// ConfirmDeliveryCommand records the customer's acknowledgement of receipt.
type ConfirmDeliveryCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   order.Actor

	guard guard.ConstructorGuard
}

func NewConfirmDeliveryCommand(orderID kernel.UUID, actor order.Actor) (ConfirmDeliveryCommand, error) {
	if err := orderID.Validate(); err != nil {
		return ConfirmDeliveryCommand{}, err
	}

	return ConfirmDeliveryCommand{
		orderID: orderID,
		actor:   actor,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c ConfirmDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrConfirmDeliveryCommandIsNotConstructed)
}

func (c ConfirmDeliveryCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ConfirmDeliveryCommand) Actor() order.Actor {
	return c.actor
}
