package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrAdvanceOrderCommandIsNotConstructed = errors.New(
	"AdvanceOrderCommand must be created via NewAdvanceOrderCommand constructor",
)

// AdvanceOrderCommand moves an order to a later status on behalf of a vendor or admin.
// expectedVersion, when set, must equal the stored version (HTTP If-Match).
type AdvanceOrderCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	target          order.Status
	message         string
	actor           order.Actor
	expectedVersion *int64

	guard guard.ConstructorGuard
}

func NewAdvanceOrderCommand(
	orderID kernel.UUID,
	target order.Status,
	message string,
	actor order.Actor,
	expectedVersion *int64,
) (AdvanceOrderCommand, error) {
	cmd := AdvanceOrderCommand{
		message: message,
		actor:   actor,
		guard:   guard.NewConstructorGuard(),
	}

	var versionErr error
	if expectedVersion != nil {
		if *expectedVersion < order.InitialVersion {
			versionErr = errs.NewValueIsOutOfRangeError("expected version", *expectedVersion, order.InitialVersion, "unbounded")
		} else {
			v := *expectedVersion
			cmd.expectedVersion = &v
		}
	}

	if err := errors.Join(orderID.Validate(), target.Validate(), versionErr); err != nil {
		return AdvanceOrderCommand{}, err
	}
	cmd.orderID = orderID
	cmd.target = target

	return cmd, nil
}

func (c AdvanceOrderCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceOrderCommandIsNotConstructed)
}

func (c AdvanceOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c AdvanceOrderCommand) Target() order.Status {
	return c.target
}

func (c AdvanceOrderCommand) Message() string {
	return c.message
}

func (c AdvanceOrderCommand) Actor() order.Actor {
	return c.actor
}

func (c AdvanceOrderCommand) ExpectedVersion() *int64 {
	return c.expectedVersion
}
