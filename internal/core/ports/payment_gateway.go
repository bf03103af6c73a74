package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
)

type PaymentRequest struct {
	OrderID   kernel.UUID
	Reference string
	Amount    int64
	Email     string
}

type PaymentSession struct {
	AuthorizationURL string
	Reference        string
}

// PaymentVerification is the gateway's view of a transaction.
// OrderID is echoed back from the metadata sent on initiation.
type PaymentVerification struct {
	Reference string
	OrderID   string
	Amount    int64
	Paid      bool
}

// PaymentGateway hosts checkout and reports transaction outcomes.
type PaymentGateway interface {
	Initiate(ctx context.Context, req PaymentRequest) (PaymentSession, error)
	Verify(ctx context.Context, reference string) (PaymentVerification, error)
}
