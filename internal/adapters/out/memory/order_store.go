// Package memory keeps orders, promo codes and locations in process memory.
// It backs the service when no database is configured and gives tests a
// storage with the same version semantics as the postgres adapter.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

var ErrNoTransaction = errors.New("no transaction in progress")

// OrderStore holds committed order snapshots keyed by id.
type OrderStore struct {
	mu     sync.RWMutex
	orders map[kernel.UUID]order.Snapshot
}

func NewOrderStore() *OrderStore {
	return &OrderStore{orders: make(map[kernel.UUID]order.Snapshot)}
}

// Create returns a unit of work over the store.
func (s *OrderStore) Create() ports.UnitOfWork {
	return &UnitOfWork{store: s}
}

func (s *OrderStore) load(id kernel.UUID) (order.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.orders[id]
	return snap, ok
}

// apply writes all staged snapshots if every one still matches the stored
// version. Either all are written or none.
func (s *OrderStore) apply(staged []stagedWrite) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := make(map[kernel.UUID]order.Snapshot, len(staged))
	for _, w := range staged {
		id := w.snapshot.ID
		current, exists := pending[id]
		if !exists {
			current, exists = s.orders[id]
		}
		switch {
		case w.insert && exists:
			return errs.NewVersionIsInvalidErrorWithCause("order", errors.New("order already exists"))
		case !w.insert && !exists:
			return errs.NewObjectNotFoundError("order", id.String())
		case !w.insert && current.Version != w.snapshot.Version-1:
			return errs.NewVersionIsInvalidError("order")
		}
		pending[id] = w.snapshot
	}
	for id, snap := range pending {
		s.orders[id] = snap
	}
	return nil
}

type stagedWrite struct {
	snapshot order.Snapshot
	insert   bool
}

// UnitOfWork buffers writes between Begin and Commit. Without Begin every
// write is applied at once.
type UnitOfWork struct {
	store  *OrderStore
	active bool
	staged []stagedWrite
}

func (u *UnitOfWork) Begin(context.Context) error {
	u.active = true
	return nil
}

func (u *UnitOfWork) Commit(context.Context) error {
	if !u.active {
		return ErrNoTransaction
	}
	staged := u.staged
	u.active, u.staged = false, nil
	return u.store.apply(staged)
}

func (u *UnitOfWork) Rollback(context.Context) error {
	if !u.active {
		return ErrNoTransaction
	}
	u.active, u.staged = false, nil
	return nil
}

func (u *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &orderRepository{uow: u}
}

func (u *UnitOfWork) write(w stagedWrite) error {
	if !u.active {
		return u.store.apply([]stagedWrite{w})
	}
	u.staged = append(u.staged, w)
	return nil
}

// lookup sees the transaction's own staged writes first.
func (u *UnitOfWork) lookup(id kernel.UUID) (order.Snapshot, bool) {
	for i := len(u.staged) - 1; i >= 0; i-- {
		if u.staged[i].snapshot.ID.IsEqual(id) {
			return u.staged[i].snapshot, true
		}
	}
	return u.store.load(id)
}

type orderRepository struct {
	uow *UnitOfWork
}

func (r *orderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if _, exists := r.uow.lookup(aggregate.ID()); exists {
		return errs.NewVersionIsInvalidErrorWithCause("order", errors.New("order already exists"))
	}
	return r.uow.write(stagedWrite{snapshot: aggregate.Snapshot(), insert: true})
}

func (r *orderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := aggregate.Validate(); err != nil {
		return err
	}

	current, exists := r.uow.lookup(aggregate.ID())
	if !exists {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}
	if current.Version != aggregate.Version() {
		return errs.NewVersionIsInvalidError("order")
	}

	snap := aggregate.Snapshot()
	snap.Version++
	if err := r.uow.write(stagedWrite{snapshot: snap}); err != nil {
		return err
	}

	aggregate.IncrementVersion()
	return nil
}

func (r *orderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap, ok := r.uow.lookup(id)
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return order.RestoreOrder(snap)
}

func (r *orderRepository) GetAllReleasable(ctx context.Context, now time.Time, limit int) ([]*order.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.uow.store.mu.RLock()
	candidates := make([]order.Snapshot, 0)
	for _, snap := range r.uow.store.orders {
		if snap.EscrowStatus != order.EscrowHeld {
			continue
		}
		if snap.ConfirmedAt != nil || (snap.AutoReleaseAt != nil && !now.Before(*snap.AutoReleaseAt)) {
			candidates = append(candidates, snap)
		}
	}
	r.uow.store.mu.RUnlock()

	sort.Slice(candidates, func(i, j int) bool {
		return releaseKey(candidates[i]).Before(releaseKey(candidates[j]))
	})
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	orders := make([]*order.Order, 0, len(candidates))
	for _, snap := range candidates {
		o, err := order.RestoreOrder(snap)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func releaseKey(s order.Snapshot) time.Time {
	if s.AutoReleaseAt != nil {
		return *s.AutoReleaseAt
	}
	return s.UpdatedAt
}
