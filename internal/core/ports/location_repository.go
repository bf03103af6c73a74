package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
)

// VendorLocation is a vendor's dispatch point. Point is nil when the vendor
// has not provided coordinates.
type VendorLocation struct {
	VendorID kernel.UUID
	Point    *kernel.GeoPoint
}

// LocationRepository provides coordinates for distance-based shipping.
type LocationRepository interface {
	// VendorCoordinates returns one entry per known vendor; unknown ids are skipped.
	VendorCoordinates(ctx context.Context, vendorIDs []kernel.UUID) ([]VendorLocation, error)

	// AddressCoordinates returns nil coordinates for an address without them,
	// and errs.ObjectNotFoundError when the address does not exist.
	AddressCoordinates(ctx context.Context, addressID kernel.UUID) (*kernel.GeoPoint, error)
}
