// Package postgres provides the GORM unit of work and the table schema of the service.
//
// A unit of work wraps one database transaction. Repositories obtained from it
// after Begin run inside that transaction; before Begin they use the plain connection.
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer uow.Rollback(ctx)
//
//	if err := uow.OrderRepository().Update(ctx, o); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
package postgres

import (
	"context"

	"marketplace/internal/adapters/out/postgres/locationrepo"
	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/adapters/out/postgres/promorepo"
	"marketplace/internal/core/ports"

	"gorm.io/gorm"
)

// Models lists every table the service owns, in migration order.
func Models() []any {
	return []any{
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&promorepo.PromoCodeDTO{},
		&locationrepo.VendorLocationDTO{},
		&locationrepo.AddressDTO{},
	}
}

// AutoMigrate creates or updates the schema.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// GormUnitOfWorkFactory hands out a fresh unit of work per business operation.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{db: f.db}
}

// GormUnitOfWork is not safe for concurrent use; each goroutine needs its own.
type GormUnitOfWork struct {
	db *gorm.DB
	tx *gorm.DB
}

// Begin is idempotent: a second call keeps the open transaction.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit returns gorm.ErrInvalidTransaction when no transaction is open.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback after Commit returns gorm.ErrInvalidTransaction, which deferred
// callers ignore.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	db := uow.db
	if uow.tx != nil {
		db = uow.tx
	}
	return orderrepo.NewGormOrderRepository(db)
}
