package ports

import (
	"context"

	"marketplace/internal/core/domain/model/promo"
)

// PromoCodeRepository looks up promo codes by their normalised code.
// Inactive codes are returned as stored; deciding validity is the caller's job.
// A missing code yields errs.ObjectNotFoundError.
type PromoCodeRepository interface {
	Lookup(ctx context.Context, code string) (*promo.Code, error)
}
