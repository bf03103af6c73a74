package queries

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var (
	ErrGetReleasableOrdersQueryIsNotConstructed = errors.New(
		"GetReleasableOrdersQuery must be created via NewGetReleasableOrdersQuery constructor",
	)
)

// GetReleasableOrdersQuery lists orders whose held escrow can be paid out to vendors.
// Used by admins to see what the next escrow sweep will release.
//
// Example:
//
//	query, _ := NewGetReleasableOrdersQuery(time.Now(), 50)
//	handler := NewGetReleasableOrdersQueryHandler(db)
//
//	orders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("list releasable orders: %w", err)
//	}
//	for _, o := range orders {
//	    fmt.Printf("order %s holds %d\n", o.ID, o.Total)
//	}
type GetReleasableOrdersQuery struct {
	now   time.Time
	limit int

	guard guard.ConstructorGuard
}

func NewGetReleasableOrdersQuery(now time.Time, limit int) (GetReleasableOrdersQuery, error) {
	if now.IsZero() {
		return GetReleasableOrdersQuery{}, errs.NewValueIsRequiredError("now")
	}
	if limit <= 0 {
		return GetReleasableOrdersQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}
	return GetReleasableOrdersQuery{
		now:   now,
		limit: limit,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetReleasableOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetReleasableOrdersQueryIsNotConstructed)
}

// GetReleasableOrdersQueryResponse is one order with a releasable escrow.
type GetReleasableOrdersQueryResponse struct {
	ID            kernel.UUID `json:"id"`
	UserID        kernel.UUID `json:"user_id"`
	Total         int64       `json:"total"`
	ConfirmedAt   *time.Time  `json:"confirmed_at,omitempty"`
	AutoReleaseAt *time.Time  `json:"auto_release_at,omitempty"`
}
