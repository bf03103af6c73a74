// Package ports defines the contracts between the marketplace core and its adapters:
// persistence, reference data lookups, the payment gateway and notification delivery.
package ports

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// OrderRepository persists order aggregates.
type OrderRepository interface {
	// Add stores a new order together with its items.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update writes the mutable fields of an existing order when the stored
	// version still equals aggregate.Version(), then bumps the version.
	// A lost race returns an errs.VersionIsInvalidError and writes nothing.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get returns errs.ObjectNotFoundError when no order has the id.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllReleasable returns up to limit orders whose escrow is held and that
	// are release-eligible at now: confirmed, or past their auto-release time.
	GetAllReleasable(ctx context.Context, now time.Time, limit int) ([]*order.Order, error)
}
