package orderrepo

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

// mutableColumns are rewritten by Update. Items, user and creation time never change.
var mutableColumns = []string{
	"status",
	"payment_status",
	"escrow_status",
	"payment_reference",
	"tracking_updates",
	"confirmed_at",
	"auto_release_at",
	"updated_at",
	"version",
}

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add inserts the order and its items. Reusing an order id or a payment
// reference is reported as a version conflict.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if isUniqueViolation(err) {
			return errs.NewVersionIsInvalidErrorWithCause("order", err)
		}
		return err
	}

	return nil
}

// Update writes the order only if nobody else did since it was loaded.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	expected := aggregate.Version()
	dto := fromDomain(aggregate)
	dto.Version = expected + 1

	result := r.db.WithContext(ctx).
		Model(&dto).
		Where("version = ?", expected).
		Select(mutableColumns).
		Updates(&dto)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return errs.NewVersionIsInvalidErrorWithCause("order", result.Error)
		}
		return result.Error
	}

	if result.RowsAffected == 0 {
		return r.missOrConflict(ctx, aggregate.ID())
	}

	aggregate.IncrementVersion()
	return nil
}

func (r *GormOrderRepository) missOrConflict(ctx context.Context, id kernel.UUID) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", id.Bytes()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("order", id.String())
	}
	return errs.NewVersionIsInvalidError("order")
}

func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.withItems(ctx).First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllReleasable returns held escrows that are confirmed or past their
// auto-release time, oldest first.
func (r *GormOrderRepository) GetAllReleasable(ctx context.Context, now time.Time, limit int) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.withItems(ctx).
		Where("escrow_status = ?", order.EscrowHeld.String()).
		Where("confirmed_at IS NOT NULL OR auto_release_at <= ?", now).
		Order("auto_release_at").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, mapErr := toDomain(dto)
		if mapErr != nil {
			return nil, mapErr
		}
		orders = append(orders, o)
	}

	return orders, nil
}

func (r *GormOrderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	})
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
