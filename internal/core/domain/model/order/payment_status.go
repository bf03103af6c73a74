package order

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// PaymentStatus tracks the customer's payment for an order.
type PaymentStatus int

const (
	PaymentUnknown PaymentStatus = iota
	PaymentPending
	PaymentPaid
	PaymentFailed
)

var paymentStatusNames = map[PaymentStatus]string{
	PaymentPending: "pending",
	PaymentPaid:    "paid",
	PaymentFailed:  "failed",
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	for st, name := range paymentStatusNames {
		if name == s {
			return st, nil
		}
	}
	return PaymentUnknown, errs.NewValueIsInvalidErrorWithCause(
		"payment status is invalid", fmt.Errorf("%q is not a valid payment status", s))
}

func (s PaymentStatus) Validate() error {
	if _, ok := paymentStatusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"payment status is invalid", fmt.Errorf("%d is not a valid payment status", s))
	}
	return nil
}

func (s PaymentStatus) String() string {
	if name, ok := paymentStatusNames[s]; ok {
		return name
	}
	return "unknown"
}
