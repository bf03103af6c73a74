// Package promorepo stores promo codes in the promo_codes table.
package promorepo

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/promo"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PromoCodeDTO struct {
	Code          string  `gorm:"size:64;primaryKey"`
	DiscountType  string  `gorm:"size:16;not null"`
	DiscountValue float64 `gorm:"not null"`
	IsActive      bool    `gorm:"not null;default:true"`
	ExpiresAt     *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (PromoCodeDTO) TableName() string {
	return "promo_codes"
}

// GormPromoCodeRepository implements ports.PromoCodeRepository.
type GormPromoCodeRepository struct {
	db *gorm.DB
}

func NewGormPromoCodeRepository(db *gorm.DB) *GormPromoCodeRepository {
	return &GormPromoCodeRepository{db: db}
}

// Lookup normalises code before reading, so "save10 " finds "SAVE10".
func (r *GormPromoCodeRepository) Lookup(ctx context.Context, code string) (*promo.Code, error) {
	normalized := promo.NormalizeCode(code)
	if normalized == "" {
		return nil, errs.NewValueIsRequiredError("promo code")
	}

	var dto PromoCodeDTO
	if err := r.db.WithContext(ctx).First(&dto, "code = ?", normalized).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("promo code", normalized)
		}
		return nil, err
	}

	return promo.NewCode(dto.Code, promo.DiscountType(dto.DiscountType), dto.DiscountValue, dto.IsActive, dto.ExpiresAt)
}

// Save inserts or replaces a promo code. Used by seeding and admin tooling.
func (r *GormPromoCodeRepository) Save(ctx context.Context, code *promo.Code) error {
	dto := PromoCodeDTO{
		Code:          code.Code(),
		DiscountType:  string(code.DiscountType()),
		DiscountValue: code.DiscountValue(),
		IsActive:      code.IsActive(),
		ExpiresAt:     code.ExpiresAt(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"discount_type", "discount_value", "is_active", "expires_at", "updated_at"}),
	}).Create(&dto).Error
}
