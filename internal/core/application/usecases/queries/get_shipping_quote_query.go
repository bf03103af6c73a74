package queries

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrGetShippingQuoteQueryIsNotConstructed = errors.New(
	"GetShippingQuoteQuery must be created via NewGetShippingQuoteQuery constructor",
)

// GetShippingQuoteQuery prices a cart before checkout. The quote is a preview:
// nothing is stored and the order total is fixed only when the order is created.
type GetShippingQuoteQuery struct {
	deliveryPoint *kernel.GeoPoint
	addressID     *kernel.UUID
	vendorIDs     []kernel.UUID
	subtotal      int64
	promoCode     string
	now           time.Time

	guard guard.ConstructorGuard
}

func NewGetShippingQuoteQuery(
	deliveryPoint *kernel.GeoPoint,
	addressID *kernel.UUID,
	vendorIDs []kernel.UUID,
	subtotal int64,
	promoCode string,
	now time.Time,
) (GetShippingQuoteQuery, error) {
	var subtotalErr, vendorsErr, addressErr error
	if subtotal < 0 {
		subtotalErr = errs.NewValueIsOutOfRangeError("subtotal", subtotal, 0, "unbounded")
	}
	if len(vendorIDs) == 0 {
		vendorsErr = errs.NewValueIsRequiredError("vendor ids")
	}
	for _, id := range vendorIDs {
		if err := id.Validate(); err != nil {
			vendorsErr = errors.Join(vendorsErr, err)
		}
	}
	if addressID != nil {
		addressErr = addressID.Validate()
	}
	if err := errors.Join(subtotalErr, vendorsErr, addressErr); err != nil {
		return GetShippingQuoteQuery{}, err
	}

	ids := make([]kernel.UUID, len(vendorIDs))
	copy(ids, vendorIDs)

	return GetShippingQuoteQuery{
		deliveryPoint: deliveryPoint,
		addressID:     addressID,
		vendorIDs:     ids,
		subtotal:      subtotal,
		promoCode:     promoCode,
		now:           now,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (q GetShippingQuoteQuery) Validate() error {
	return q.guard.Validate(ErrGetShippingQuoteQueryIsNotConstructed)
}
