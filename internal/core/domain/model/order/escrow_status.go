package order

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// EscrowStatus follows the money held on behalf of vendors.
// EscrowNone is a valid value: unpaid orders have no escrow.
type EscrowStatus int

const (
	EscrowNone EscrowStatus = iota
	EscrowHeld
	EscrowReleased
	EscrowRefunded
)

var escrowStatusNames = map[EscrowStatus]string{
	EscrowHeld:     "held",
	EscrowReleased: "released",
	EscrowRefunded: "refunded",
}

// ParseEscrowStatus accepts "" for EscrowNone.
func ParseEscrowStatus(s string) (EscrowStatus, error) {
	if s == "" {
		return EscrowNone, nil
	}
	for st, name := range escrowStatusNames {
		if name == s {
			return st, nil
		}
	}
	return EscrowNone, errs.NewValueIsInvalidErrorWithCause(
		"escrow status is invalid", fmt.Errorf("%q is not a valid escrow status", s))
}

func (s EscrowStatus) Validate() error {
	if s == EscrowNone {
		return nil
	}
	if _, ok := escrowStatusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"escrow status is invalid", fmt.Errorf("%d is not a valid escrow status", s))
	}
	return nil
}

// String returns "" for EscrowNone so it maps onto a NULL column.
func (s EscrowStatus) String() string {
	return escrowStatusNames[s]
}
