package shipping

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

// FullDiscount is 100% in basis points.
const FullDiscount int64 = 10000

var ErrQuoteIsNotConstructed = errs.NewValueIsRequiredError("quote must be created via NewQuote constructor")

// Quote is the priced shipping fee for one checkout.
type Quote struct {
	baseFee          int64
	discountBps      int64
	discountAmount   int64
	finalFee         int64
	distanceKm       *float64
	promoCode        string
	promoDescription string
	guard            guard.ConstructorGuard
}

// NewQuote derives the discount amount as round-half-up(baseFee × discountBps / 10000)
// in integer arithmetic and the final fee as the remainder. A non-empty promoCode
// marks the discount as coming from a promo rather than the value tiers.
func NewQuote(baseFee, discountBps int64, distanceKm *float64, promoCode, promoDescription string) (Quote, error) {
	var discountErr, distanceErr error
	if discountBps < 0 || discountBps > FullDiscount {
		discountErr = errs.NewValueIsOutOfRangeError("discount basis points", discountBps, 0, FullDiscount)
	}
	if distanceKm != nil && (math.IsNaN(*distanceKm) || *distanceKm < 0) {
		distanceErr = errs.NewValueIsInvalidErrorWithCause("distance", fmt.Errorf("%v km is not a distance", *distanceKm))
	}
	if err := errors.Join(validateFee("base fee", baseFee), discountErr, distanceErr); err != nil {
		return Quote{}, err
	}

	amount := (baseFee*discountBps + FullDiscount/2) / FullDiscount

	q := Quote{
		baseFee:          baseFee,
		discountBps:      discountBps,
		discountAmount:   amount,
		finalFee:         baseFee - amount,
		promoCode:        strings.TrimSpace(promoCode),
		promoDescription: promoDescription,
		guard:            guard.NewConstructorGuard(),
	}
	if distanceKm != nil {
		d := *distanceKm
		q.distanceKm = &d
	}

	return q, nil
}

func (q Quote) Validate() error {
	return q.guard.Validate(ErrQuoteIsNotConstructed)
}

func (q Quote) BaseFee() int64 {
	return q.baseFee
}

func (q Quote) DiscountBasisPoints() int64 {
	return q.discountBps
}

func (q Quote) DiscountFraction() float64 {
	return float64(q.discountBps) / float64(FullDiscount)
}

func (q Quote) DiscountAmount() int64 {
	return q.discountAmount
}

func (q Quote) FinalFee() int64 {
	return q.finalFee
}

// DistanceKm is nil when the distance could not be resolved.
func (q Quote) DistanceKm() *float64 {
	if q.distanceKm == nil {
		return nil
	}
	d := *q.distanceKm
	return &d
}

func (q Quote) DistanceKnown() bool {
	return q.distanceKm != nil
}

func (q Quote) PromoApplied() bool {
	return q.promoCode != ""
}

func (q Quote) PromoCode() string {
	return q.promoCode
}

func (q Quote) PromoDescription() string {
	return q.promoDescription
}
