package order

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Status is the fulfillment state of an order.
//
// The forward chain is ordered by value:
//
//	pending_payment -> payment_confirmed -> processing -> ready_for_pickup ->
//	shipped -> out_for_delivery -> delivered -> completed
//
// Cancelled sits outside the chain and is terminal, as is Completed.
type Status int

const (
	Unknown Status = iota
	PendingPayment
	PaymentConfirmed
	Processing
	ReadyForPickup
	Shipped
	OutForDelivery
	Delivered
	Completed
	Cancelled
)

var statusNames = map[Status]string{
	PendingPayment:   "pending_payment",
	PaymentConfirmed: "payment_confirmed",
	Processing:       "processing",
	ReadyForPickup:   "ready_for_pickup",
	Shipped:          "shipped",
	OutForDelivery:   "out_for_delivery",
	Delivered:        "delivered",
	Completed:        "completed",
	Cancelled:        "cancelled",
}

// AllStatuses lists every valid status in chain order followed by Cancelled.
func AllStatuses() []Status {
	return []Status{
		PendingPayment, PaymentConfirmed, Processing, ReadyForPickup,
		Shipped, OutForDelivery, Delivered, Completed, Cancelled,
	}
}

// ParseStatus maps a canonical name such as "out_for_delivery" to its Status.
func ParseStatus(s string) (Status, error) {
	for st, name := range statusNames {
		if name == s {
			return st, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the canonical persisted name, or "unknown".
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// IsCancellable reports whether cancellation is permitted from s.
func (s Status) IsCancellable() bool {
	return s == PendingPayment || s == Processing
}

// Advance validates a vendor or admin driven move from s to target.
// Forward skips are allowed. Leaving PendingPayment requires payment
// verification and is rejected here with ErrPaymentRequired.
func (s Status) Advance(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return Unknown, err
	}
	if err := s.Validate(); err != nil {
		return Unknown, err
	}

	if target == Cancelled {
		if !s.IsCancellable() {
			return Unknown, fmt.Errorf("%w: cannot cancel an order in %s", ErrInvalidTransition, s)
		}
		return Cancelled, nil
	}

	if s.IsTerminal() || target <= s {
		return Unknown, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, target)
	}

	if s == PendingPayment {
		return Unknown, fmt.Errorf("%w: %s -> %s", ErrPaymentRequired, s, target)
	}

	return target, nil
}
