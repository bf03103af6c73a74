// Package promo holds shipping promo codes. Codes are read-only reference data:
// validation never consumes them, so a code is reusable until it expires or is
// deactivated.
package promo

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"marketplace/internal/pkg/errs"
)

// Validation outcomes. Each wraps ErrPromoInvalid.
var (
	ErrPromoInvalid  = errors.New("promo code is invalid")
	ErrPromoEmpty    = fmt.Errorf("%w: code is empty", ErrPromoInvalid)
	ErrPromoNotFound = fmt.Errorf("%w: code not found", ErrPromoInvalid)
	ErrPromoExpired  = fmt.Errorf("%w: code has expired", ErrPromoInvalid)
)

type DiscountType string

const (
	DiscountFree       DiscountType = "free"
	DiscountPercentage DiscountType = "percentage"
)

func (t DiscountType) Validate() error {
	switch t {
	case DiscountFree, DiscountPercentage:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("discount type", fmt.Errorf("%q is not a discount type", string(t)))
	}
}

// NormalizeCode trims and upper-cases a user supplied code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Code is a shipping promo code.
type Code struct {
	code          string
	discountType  DiscountType
	discountValue float64
	isActive      bool
	expiresAt     *time.Time
}

// NewCode validates a code definition. Percentage values must lie in (0, 100];
// the value of a free code is ignored.
func NewCode(code string, discountType DiscountType, discountValue float64, isActive bool, expiresAt *time.Time) (*Code, error) {
	c := &Code{
		code:          NormalizeCode(code),
		discountType:  discountType,
		discountValue: discountValue,
		isActive:      isActive,
	}
	if expiresAt != nil {
		e := expiresAt.UTC()
		c.expiresAt = &e
	}

	var codeErr, valueErr error
	if c.code == "" {
		codeErr = errs.NewValueIsRequiredError("code")
	}
	if discountType == DiscountPercentage &&
		(math.IsNaN(discountValue) || discountValue <= 0 || discountValue > 100) {
		valueErr = errs.NewValueIsOutOfRangeError("discount value", discountValue, 0, 100)
	}
	if discountType == DiscountFree {
		c.discountValue = 100
	}

	if err := errors.Join(codeErr, discountType.Validate(), valueErr); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Code) Code() string {
	return c.code
}

func (c *Code) DiscountType() DiscountType {
	return c.discountType
}

func (c *Code) DiscountValue() float64 {
	return c.discountValue
}

func (c *Code) IsActive() bool {
	return c.isActive
}

func (c *Code) ExpiresAt() *time.Time {
	if c.expiresAt == nil {
		return nil
	}
	e := *c.expiresAt
	return &e
}

// IsExpired reports whether the expiry is strictly before now.
func (c *Code) IsExpired(now time.Time) bool {
	return c.expiresAt != nil && c.expiresAt.Before(now)
}

// BasisPoints is the share of the base fee the code removes, 10000 being all of it.
// Percentages are held to a hundredth of a percent.
func (c *Code) BasisPoints() int64 {
	if c.discountType == DiscountFree {
		return 10000
	}
	return int64(math.Round(c.discountValue * 100))
}

// Description is the text shown next to the quote, e.g. "15% off shipping".
func (c *Code) Description() string {
	if c.discountType == DiscountFree {
		return "Free shipping"
	}
	return fmt.Sprintf("%s%% off shipping", formatPercent(c.discountValue))
}

func formatPercent(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
