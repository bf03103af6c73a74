// Package locationrepo reads vendor dispatch points and saved customer addresses.
package locationrepo

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VendorLocationDTO holds a vendor's pickup coordinates. Either coordinate may be missing.
type VendorLocationDTO struct {
	VendorID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Latitude  *float64
	Longitude *float64
}

func (VendorLocationDTO) TableName() string {
	return "vendor_locations"
}

// AddressDTO is a customer's saved address book entry.
type AddressDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"`
	Latitude  *float64
	Longitude *float64
}

func (AddressDTO) TableName() string {
	return "addresses"
}

// GormLocationRepository implements ports.LocationRepository.
type GormLocationRepository struct {
	db *gorm.DB
}

func NewGormLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

func (r *GormLocationRepository) VendorCoordinates(ctx context.Context, vendorIDs []kernel.UUID) ([]ports.VendorLocation, error) {
	if len(vendorIDs) == 0 {
		return []ports.VendorLocation{}, nil
	}

	ids := make([]uuid.UUID, 0, len(vendorIDs))
	for _, id := range vendorIDs {
		ids = append(ids, id.Bytes())
	}

	var dtos []VendorLocationDTO
	if err := r.db.WithContext(ctx).Where("vendor_id IN ?", ids).Find(&dtos).Error; err != nil {
		return nil, err
	}

	locations := make([]ports.VendorLocation, 0, len(dtos))
	for _, dto := range dtos {
		vendorID, err := kernel.UUIDFromBytes(dto.VendorID[:])
		if err != nil {
			return nil, err
		}
		point, err := kernel.NewOptionalGeoPoint(dto.Latitude, dto.Longitude)
		if err != nil {
			return nil, err
		}
		locations = append(locations, ports.VendorLocation{VendorID: vendorID, Point: point})
	}

	return locations, nil
}

func (r *GormLocationRepository) AddressCoordinates(ctx context.Context, addressID kernel.UUID) (*kernel.GeoPoint, error) {
	var dto AddressDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", addressID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("address", addressID.String())
		}
		return nil, err
	}

	return kernel.NewOptionalGeoPoint(dto.Latitude, dto.Longitude)
}
