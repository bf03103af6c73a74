package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/promo"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

type PromoCodeValidator interface {
	Validate(ctx context.Context, code string, now time.Time) (*promo.Code, error)
}

var _ PromoCodeValidator = &promoCodeValidator{}

type promoCodeValidator struct {
	repo ports.PromoCodeRepository
}

func NewPromoCodeValidator(repo ports.PromoCodeRepository) PromoCodeValidator {
	return &promoCodeValidator{repo: repo}
}

// Validate returns the matching active code. Failures wrap promo.ErrPromoEmpty,
// promo.ErrPromoNotFound or promo.ErrPromoExpired; repository errors are passed through.
func (v *promoCodeValidator) Validate(ctx context.Context, code string, now time.Time) (*promo.Code, error) {
	normalized := promo.NormalizeCode(code)
	if normalized == "" {
		return nil, promo.ErrPromoEmpty
	}

	c, err := v.repo.Lookup(ctx, normalized)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, fmt.Errorf("%w: %s", promo.ErrPromoNotFound, normalized)
	}
	if err != nil {
		return nil, err
	}

	if !c.IsActive() {
		return nil, fmt.Errorf("%w: %s", promo.ErrPromoNotFound, normalized)
	}
	if c.IsExpired(now) {
		return nil, fmt.Errorf("%w: %s", promo.ErrPromoExpired, normalized)
	}

	return c, nil
}
