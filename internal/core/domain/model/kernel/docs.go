// Package kernel provides the shared value objects of the marketplace domain.
//
// The package includes:
//   - UUID: identifier value object wrapping github.com/google/uuid
//   - GeoPoint: a validated latitude/longitude pair with Haversine distance
//
// Both are immutable and safe for concurrent use.
package kernel
