package kernel

import (
	"errors"
	"fmt"
	"math"

	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

const (
	// EarthRadiusKm is the mean earth radius used by great-circle distances.
	EarthRadiusKm = 6371.0

	LatitudeMin  = -90.0
	LatitudeMax  = 90.0
	LongitudeMin = -180.0
	LongitudeMax = 180.0
)

// ErrGeoPointIsNotConstructed is returned when a zero-value GeoPoint is used.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"geo point must be created via NewGeoPoint constructor")

// GeoPoint is an immutable WGS84 coordinate pair.
// Delivery addresses and vendor locations carry an optional *GeoPoint;
// nil means the coordinates are unknown.
//
// Example:
//
//	lagos, _ := kernel.NewGeoPoint(6.5244, 3.3792)
//	ibadan, _ := kernel.NewGeoPoint(7.3775, 3.9470)
//	km, _ := lagos.DistanceKm(ibadan) // ~113 km
type GeoPoint struct { //nolint:recvcheck //using for validation
	lat   float64
	lon   float64
	guard guard.ConstructorGuard
}

// NewGeoPoint validates latitude in [-90..90] and longitude in [-180..180].
func NewGeoPoint(lat, lon float64) (GeoPoint, error) {
	p := GeoPoint{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(p.setLat(lat), p.setLon(lon)); err != nil {
		return GeoPoint{}, err
	}

	return p, nil
}

// NewOptionalGeoPoint builds a point only when both coordinates are present.
// A missing coordinate yields (nil, nil).
func NewOptionalGeoPoint(lat, lon *float64) (*GeoPoint, error) {
	if lat == nil || lon == nil {
		return nil, nil //nolint:nilnil // absent coordinates are not an error
	}

	p, err := NewGeoPoint(*lat, *lon)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

func (p GeoPoint) Lat() float64 {
	return p.lat
}

func (p GeoPoint) Lon() float64 {
	return p.lon
}

func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%.6f,%.6f)", p.lat, p.lon)
}

// DistanceKm returns the Haversine great-circle distance in kilometres.
func (p GeoPoint) DistanceKm(other GeoPoint) (float64, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	lat1 := toRadians(p.lat)
	lat2 := toRadians(other.lat)
	dLat := toRadians(other.lat - p.lat)
	dLon := toRadians(other.lon - p.lon)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c, nil
}

func (p *GeoPoint) setLat(lat float64) error {
	if math.IsNaN(lat) || lat < LatitudeMin || lat > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("lat", lat, LatitudeMin, LatitudeMax)
	}

	p.lat = lat
	return nil
}

func (p *GeoPoint) setLon(lon float64) error {
	if math.IsNaN(lon) || lon < LongitudeMin || lon > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("lon", lon, LongitudeMin, LongitudeMax)
	}

	p.lon = lon
	return nil
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
