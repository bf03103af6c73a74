package queries

import (
	"context"

	"marketplace/internal/core/domain/model/shipping"
	"marketplace/internal/core/domain/services"
)

type ShippingCalculator interface {
	Calculate(ctx context.Context, req services.ShippingRequest) (shipping.Quote, error)
}

type ShippingQuoteResponse struct {
	BaseFee          int64    `json:"base_fee"`
	DiscountFraction float64  `json:"discount_fraction"`
	DiscountAmount   int64    `json:"discount_amount"`
	FinalFee         int64    `json:"final_fee"`
	DistanceKm       *float64 `json:"distance_km,omitempty"`
	PromoApplied     bool     `json:"promo_applied"`
	PromoCode        string   `json:"promo_code,omitempty"`
	PromoDescription string   `json:"promo_description,omitempty"`
}

type GetShippingQuoteQueryHandler struct {
	calculator ShippingCalculator
}

func NewGetShippingQuoteQueryHandler(calculator ShippingCalculator) GetShippingQuoteQueryHandler {
	return GetShippingQuoteQueryHandler{calculator: calculator}
}

// Handle returns promo errors as they are; an unknown distance is priced
// with the default fee.
func (h GetShippingQuoteQueryHandler) Handle(ctx context.Context, query GetShippingQuoteQuery) (ShippingQuoteResponse, error) {
	if err := query.Validate(); err != nil {
		return ShippingQuoteResponse{}, err
	}

	quote, err := h.calculator.Calculate(ctx, services.ShippingRequest{
		DeliveryPoint: query.deliveryPoint,
		AddressID:     query.addressID,
		VendorIDs:     query.vendorIDs,
		Subtotal:      query.subtotal,
		PromoCode:     query.promoCode,
		Now:           query.now,
	})
	if err != nil {
		return ShippingQuoteResponse{}, err
	}

	return NewShippingQuoteResponse(quote), nil
}

func NewShippingQuoteResponse(q shipping.Quote) ShippingQuoteResponse {
	return ShippingQuoteResponse{
		BaseFee:          q.BaseFee(),
		DiscountFraction: q.DiscountFraction(),
		DiscountAmount:   q.DiscountAmount(),
		FinalFee:         q.FinalFee(),
		DistanceKm:       q.DistanceKm(),
		PromoApplied:     q.PromoApplied(),
		PromoCode:        q.PromoCode(),
		PromoDescription: q.PromoDescription(),
	}
}
