package commands

import (
	"context"
	"errors"
	"log/slog"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/metrics"
)

// ReleaseEscrowCommandHandler releases held escrow for every order the settlement
// clock marks eligible. Each order is released in its own unit of work so that one
// conflicting writer does not hold back the rest; the sweep is data-driven and safe
// to rerun after a restart.
type ReleaseEscrowCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      services.SettlementClock
	logger     *slog.Logger
}

func NewReleaseEscrowCommandHandler(
	uowFactory OrderUoWFactory,
	clock services.SettlementClock,
	logger *slog.Logger,
) ReleaseEscrowCommandHandler {
	return ReleaseEscrowCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		logger:     logger.With("component", "release_escrow"),
	}
}

// Handle returns the number of released escrows. Orders lost to a concurrent
// update are skipped and picked up by the next sweep; other failures are joined.
func (h ReleaseEscrowCommandHandler) Handle(ctx context.Context, cmd ReleaseEscrowCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	ids, err := h.candidates(ctx, cmd)
	if err != nil {
		return 0, err
	}

	released := 0
	var failures []error
	for _, id := range ids {
		ok, releaseErr := h.releaseOne(ctx, id, cmd)
		switch {
		case errors.Is(releaseErr, errs.ErrVersionIsInvalid):
			metrics.OrderConflictsTotal.Inc()
			h.logger.InfoContext(ctx, "escrow release skipped, order changed concurrently", "order_id", id.String())
		case releaseErr != nil:
			metrics.OperationErrorsTotal.WithLabelValues("release_escrow").Inc()
			failures = append(failures, releaseErr)
		case ok:
			released++
			metrics.EscrowsReleasedTotal.Inc()
		}
	}

	return released, errors.Join(failures...)
}

func (h ReleaseEscrowCommandHandler) candidates(ctx context.Context, cmd ReleaseEscrowCommand) ([]kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders, err := uow.OrderRepository().GetAllReleasable(ctx, cmd.Now(), cmd.BatchSize())
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID())
	}
	return ids, nil
}

func (h ReleaseEscrowCommandHandler) releaseOne(ctx context.Context, id kernel.UUID, cmd ReleaseEscrowCommand) (bool, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.Get(ctx, id)
	if err != nil {
		return false, err
	}

	// re-check after reload: the order may have been released or refunded meanwhile
	if !h.clock.IsReleaseEligible(o, cmd.Now()) {
		return false, nil
	}
	if err = o.ReleaseEscrow(cmd.Now()); err != nil {
		return false, nil //nolint:nilerr // no longer held
	}

	if err = repo.Update(ctx, o); err != nil {
		return false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	return true, nil
}
