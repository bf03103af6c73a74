package services

import (
	"marketplace/internal/core/domain/model/kernel"
)

type DistanceResolver interface {
	Resolve(delivery *kernel.GeoPoint, vendors []*kernel.GeoPoint) *float64
}

var _ DistanceResolver = distanceResolver{}

type distanceResolver struct{}

func NewDistanceResolver() DistanceResolver {
	return distanceResolver{}
}

// Resolve returns the largest great-circle distance from delivery to any vendor
// with coordinates, or nil when either side has none. Each vendor ships on its
// own, so the farthest leg bounds the fee.
func (distanceResolver) Resolve(delivery *kernel.GeoPoint, vendors []*kernel.GeoPoint) *float64 {
	if delivery == nil || delivery.Validate() != nil {
		return nil
	}

	var farthest *float64
	for _, v := range vendors {
		if v == nil {
			continue
		}
		d, err := delivery.DistanceKm(*v)
		if err != nil {
			continue
		}
		if farthest == nil || d > *farthest {
			farthest = &d
		}
	}

	return farthest
}
