// Package commands contains the write operations of the order pipeline.
// Every command follows the same pattern: a validated command value built by its
// constructor, a handler that opens a unit of work, mutates the Order aggregate,
// persists it with an optimistic version check, commits, and then emits
// notifications and metrics.
package commands

import (
	"context"

	"marketplace/internal/core/ports"
)

type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// OrderUoW manages transactions for order operations.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   repo := uow.OrderRepository()
	//   // ... load, mutate, repo.Update
	//
	//   err = uow.Commit(ctx)
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}
)
