package memory

import (
	"context"
	"sync"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/promo"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// PromoCodes is a ports.PromoCodeRepository over a map.
type PromoCodes struct {
	mu    sync.RWMutex
	codes map[string]*promo.Code
}

func NewPromoCodes(codes ...*promo.Code) *PromoCodes {
	p := &PromoCodes{codes: make(map[string]*promo.Code, len(codes))}
	for _, c := range codes {
		p.codes[c.Code()] = c
	}
	return p
}

func (p *PromoCodes) Save(_ context.Context, code *promo.Code) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.codes[code.Code()] = code
	return nil
}

func (p *PromoCodes) Lookup(_ context.Context, code string) (*promo.Code, error) {
	normalized := promo.NormalizeCode(code)
	if normalized == "" {
		return nil, errs.NewValueIsRequiredError("promo code")
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	c, ok := p.codes[normalized]
	if !ok {
		return nil, errs.NewObjectNotFoundError("promo code", normalized)
	}
	return c, nil
}

// Locations is a ports.LocationRepository over maps. A nil point means the
// vendor or address exists without coordinates.
type Locations struct {
	mu        sync.RWMutex
	vendors   map[kernel.UUID]*kernel.GeoPoint
	addresses map[kernel.UUID]*kernel.GeoPoint
}

func NewLocations() *Locations {
	return &Locations{
		vendors:   make(map[kernel.UUID]*kernel.GeoPoint),
		addresses: make(map[kernel.UUID]*kernel.GeoPoint),
	}
}

func (l *Locations) SetVendor(id kernel.UUID, point *kernel.GeoPoint) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.vendors[id] = point
}

func (l *Locations) SetAddress(id kernel.UUID, point *kernel.GeoPoint) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.addresses[id] = point
}

func (l *Locations) VendorCoordinates(_ context.Context, vendorIDs []kernel.UUID) ([]ports.VendorLocation, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]ports.VendorLocation, 0, len(vendorIDs))
	for _, id := range vendorIDs {
		if point, ok := l.vendors[id]; ok {
			out = append(out, ports.VendorLocation{VendorID: id, Point: point})
		}
	}
	return out, nil
}

func (l *Locations) AddressCoordinates(_ context.Context, addressID kernel.UUID) (*kernel.GeoPoint, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	point, ok := l.addresses[addressID]
	if !ok {
		return nil, errs.NewObjectNotFoundError("address", addressID.String())
	}
	return point, nil
}
