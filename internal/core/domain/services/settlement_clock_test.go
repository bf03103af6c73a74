package services_test

import (
	"testing"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/shipping"
	"marketplace/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deliveredOrder(t *testing.T, customerID kernel.UUID, deliveredAt time.Time) *order.Order {
	t.Helper()
	quote, _ := shipping.NewQuote(1500, 0, nil, "", "")
	vendor, _ := order.NewActor(kernel.NewUUID(), order.RoleVendor)
	item, _ := order.NewItem(kernel.NewUUID(), vendor.ID(), "Sneakers", nil, 1, 30000)
	addr, _ := order.NewShippingAddress("Ada", "080", "1 Broad St", "Lagos", "Lagos", nil, nil)

	o, err := order.NewOrder(kernel.NewUUID(), customerID, []order.Item{item}, addr, quote, "", deliveredAt.Add(-time.Hour))
	require.NoError(t, err)
	require.NoError(t, o.ConfirmPayment("ref", deliveredAt.Add(-time.Hour)))
	require.NoError(t, o.Advance(order.Delivered, "", vendor, deliveredAt))
	return o
}

func TestSettlementClock_IsReleaseEligible(t *testing.T) {
	clock := services.NewSettlementClock()
	deliveredAt := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

	t.Run("should wait for the auto release window", func(t *testing.T) {
		o := deliveredOrder(t, kernel.NewUUID(), deliveredAt)

		assert.False(t, clock.IsReleaseEligible(o, deliveredAt))
		assert.False(t, clock.IsReleaseEligible(o, deliveredAt.Add(order.AutoReleaseWindow-time.Second)))
		assert.True(t, clock.IsReleaseEligible(o, deliveredAt.Add(order.AutoReleaseWindow)))
	})

	t.Run("should be eligible right after confirmation", func(t *testing.T) {
		customerID := kernel.NewUUID()
		customer, _ := order.NewActor(customerID, order.RoleCustomer)
		o := deliveredOrder(t, customerID, deliveredAt)

		require.NoError(t, o.ConfirmDelivery(customer, deliveredAt.Add(time.Minute)))

		assert.True(t, clock.IsReleaseEligible(o, deliveredAt.Add(time.Minute)))
	})

	t.Run("should stay eligible once eligible", func(t *testing.T) {
		o := deliveredOrder(t, kernel.NewUUID(), deliveredAt)
		start := deliveredAt.Add(order.AutoReleaseWindow)

		for i := range 50 {
			assert.True(t, clock.IsReleaseEligible(o, start.Add(time.Duration(i)*time.Hour)))
		}
	})

	t.Run("should never release undelivered orders", func(t *testing.T) {
		assert.False(t, clock.IsReleaseEligible(nil, deliveredAt))
	})
}
