package services

import (
	"time"

	"marketplace/internal/core/domain/model/order"
)

type SettlementClock interface {
	IsReleaseEligible(o *order.Order, now time.Time) bool
}

var _ SettlementClock = settlementClock{}

type settlementClock struct{}

func NewSettlementClock() SettlementClock {
	return settlementClock{}
}

// IsReleaseEligible is true once the customer confirmed delivery or the
// auto-release time has been reached. Neither timestamp is ever cleared,
// so eligibility never reverts.
func (settlementClock) IsReleaseEligible(o *order.Order, now time.Time) bool {
	if o == nil {
		return false
	}
	if o.ConfirmedAt() != nil {
		return true
	}
	releaseAt := o.AutoReleaseAt()
	return releaseAt != nil && !now.Before(*releaseAt)
}
