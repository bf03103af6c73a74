package services

import (
	"marketplace/internal/core/domain/model/promo"
	"marketplace/internal/core/domain/model/shipping"
)

type ShippingPricer interface {
	Quote(distanceKm *float64, subtotal int64, code *promo.Code) (shipping.Quote, error)
}

var _ ShippingPricer = &shippingPricer{}

type shippingPricer struct {
	tariff shipping.Tariff
}

func NewShippingPricer(tariff shipping.Tariff) ShippingPricer {
	return &shippingPricer{tariff: tariff}
}

// Quote prices shipping. A promo code, which the caller has already
// validated, replaces the value-tier discount; the two never stack.
func (p *shippingPricer) Quote(distanceKm *float64, subtotal int64, code *promo.Code) (shipping.Quote, error) {
	baseFee := p.tariff.BaseFee(distanceKm)

	if code != nil {
		return shipping.NewQuote(baseFee, code.BasisPoints(), distanceKm, code.Code(), code.Description())
	}

	return shipping.NewQuote(baseFee, p.tariff.ValueDiscountBasisPoints(subtotal), distanceKm, "", "")
}
