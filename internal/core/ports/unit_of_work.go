package ports

import (
	"context"
)

// UnitOfWorkFactory creates a UnitOfWork per command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a transaction boundary. Repositories obtained from it
// use the transaction opened by Begin.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
}
