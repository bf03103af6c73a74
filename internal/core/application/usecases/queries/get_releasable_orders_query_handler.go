package queries

import (
	"context"
	"database/sql"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetReleasableOrdersQueryHandler reads releasable escrows straight from the orders table.
// Confirmed orders come first, then the rest by auto-release time.
type GetReleasableOrdersQueryHandler struct {
	db *gorm.DB
}

func NewGetReleasableOrdersQueryHandler(db *gorm.DB) GetReleasableOrdersQueryHandler {
	return GetReleasableOrdersQueryHandler{db: db}
}

func (h GetReleasableOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetReleasableOrdersQuery,
) ([]GetReleasableOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetReleasableOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			user_id,
			total,
			confirmed_at,
			auto_release_at
		FROM orders
		WHERE escrow_status = ?
		  AND (confirmed_at IS NOT NULL OR auto_release_at <= ?)
		ORDER BY confirmed_at IS NULL, auto_release_at, id
		LIMIT ?
	`, order.EscrowHeld.String(), query.now, query.limit).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			resp                       GetReleasableOrdersQueryResponse
			id, userID                 uuid.UUID
			confirmedAt, autoReleaseAt sql.NullTime
		)

		if err = rows.Scan(&id, &userID, &resp.Total, &confirmedAt, &autoReleaseAt); err != nil {
			return nil, err
		}

		if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if resp.UserID, err = kernel.UUIDFromBytes(userID[:]); err != nil {
			return nil, err
		}
		resp.ConfirmedAt = nullTime(confirmedAt)
		resp.AutoReleaseAt = nullTime(autoReleaseAt)

		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}
