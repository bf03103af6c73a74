package order

import "errors"

// Lifecycle errors. Callers classify them with errors.Is; the returned errors
// wrap one of these sentinels with the offending statuses.
var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrPaymentRequired   = errors.New("payment verification required")
	ErrInvalidState      = errors.New("order is not in a valid state for this operation")
	ErrAlreadyConfirmed  = errors.New("delivery already confirmed")
	ErrActorNotAllowed   = errors.New("actor is not allowed to perform this operation")
	ErrAlreadyPaid       = errors.New("payment already confirmed")
	ErrEscrowNotHeld     = errors.New("escrow is not held")
)
