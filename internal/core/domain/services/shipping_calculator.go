package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/promo"
	"marketplace/internal/core/domain/model/shipping"
	"marketplace/internal/core/ports"
)

// ShippingRequest describes a cart to be priced. DeliveryPoint takes precedence
// over AddressID; with neither, the distance is unknown.
type ShippingRequest struct {
	DeliveryPoint *kernel.GeoPoint
	AddressID     *kernel.UUID
	VendorIDs     []kernel.UUID
	Subtotal      int64
	PromoCode     string
	Now           time.Time
}

// ShippingCalculator gathers coordinates and the promo code for a cart and prices it.
// Coordinate lookups that fail are logged and priced with the default fee.
// Promo failures are returned to the caller.
type ShippingCalculator struct {
	locations ports.LocationRepository
	promos    PromoCodeValidator
	resolver  DistanceResolver
	pricer    ShippingPricer
	logger    *slog.Logger
}

func NewShippingCalculator(
	locations ports.LocationRepository,
	promos PromoCodeValidator,
	resolver DistanceResolver,
	pricer ShippingPricer,
	logger *slog.Logger,
) *ShippingCalculator {
	return &ShippingCalculator{
		locations: locations,
		promos:    promos,
		resolver:  resolver,
		pricer:    pricer,
		logger:    logger.With("component", "shipping_calculator"),
	}
}

func (c *ShippingCalculator) Calculate(ctx context.Context, req ShippingRequest) (shipping.Quote, error) {
	var code *promo.Code
	if strings.TrimSpace(req.PromoCode) != "" {
		validated, err := c.promos.Validate(ctx, req.PromoCode, req.Now)
		if err != nil {
			return shipping.Quote{}, err
		}
		code = validated
	}

	distance := c.resolveDistance(ctx, req)

	return c.pricer.Quote(distance, req.Subtotal, code)
}

func (c *ShippingCalculator) resolveDistance(ctx context.Context, req ShippingRequest) *float64 {
	delivery := req.DeliveryPoint
	if delivery == nil && req.AddressID != nil {
		p, err := c.locations.AddressCoordinates(ctx, *req.AddressID)
		if err != nil {
			c.logger.WarnContext(ctx, "address coordinates unavailable, using default fee",
				"address_id", req.AddressID.String(), "error", err)
			return nil
		}
		delivery = p
	}
	if delivery == nil || len(req.VendorIDs) == 0 {
		return nil
	}

	vendors, err := c.locations.VendorCoordinates(ctx, req.VendorIDs)
	if err != nil {
		c.logger.WarnContext(ctx, "vendor coordinates unavailable, using default fee", "error", err)
		return nil
	}

	points := make([]*kernel.GeoPoint, 0, len(vendors))
	for _, v := range vendors {
		points = append(points, v.Point)
	}

	return c.resolver.Resolve(delivery, points)
}
