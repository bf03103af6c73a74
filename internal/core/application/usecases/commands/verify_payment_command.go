package commands

import (
	"errors"
	"strings"

	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrVerifyPaymentCommandIsNotConstructed = errors.New(
	"VerifyPaymentCommand must be created via NewVerifyPaymentCommand constructor",
)

// VerifyPaymentCommand checks a gateway transaction and settles the order it belongs to.
// It is issued by the payment callback and webhook on behalf of the system.
type VerifyPaymentCommand struct { //nolint:recvcheck //using for validation
	reference string

	guard guard.ConstructorGuard
}

func NewVerifyPaymentCommand(reference string) (VerifyPaymentCommand, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return VerifyPaymentCommand{}, errs.NewValueIsRequiredError("reference")
	}

	return VerifyPaymentCommand{
		reference: reference,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c VerifyPaymentCommand) Validate() error {
	return c.guard.Validate(ErrVerifyPaymentCommandIsNotConstructed)
}

func (c VerifyPaymentCommand) Reference() string {
	return c.reference
}
