package order_test

import (
	"testing"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/shipping"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	baseTime     = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	testVendorID = kernel.NewUUID()
)

func newItem(t *testing.T, vendorID kernel.UUID, qty int, price int64) order.Item {
	t.Helper()
	it, err := order.NewItem(kernel.NewUUID(), vendorID, "Ankara fabric", nil, qty, price)
	require.NoError(t, err)
	return it
}

func newAddress(t *testing.T) order.ShippingAddress {
	t.Helper()
	a, err := order.NewShippingAddress("Ada Obi", "+2348000000000", "12 Marina Rd", "Lagos", "Lagos", nil, nil)
	require.NoError(t, err)
	return a
}

func newOrder(t *testing.T, customerID kernel.UUID) *order.Order {
	t.Helper()
	quote, err := shipping.NewQuote(1500, 0, nil, "", "")
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), customerID,
		[]order.Item{newItem(t, testVendorID, 2, 10000), newItem(t, testVendorID, 1, 5000)},
		newAddress(t), quote, "", baseTime)
	require.NoError(t, err)
	return o
}

func actor(t *testing.T, role order.ActorRole) order.Actor {
	t.Helper()
	a, err := order.NewActor(kernel.NewUUID(), role)
	require.NoError(t, err)
	return a
}

func paidOrder(t *testing.T, customerID kernel.UUID) *order.Order {
	t.Helper()
	o := newOrder(t, customerID)
	require.NoError(t, o.ConfirmPayment("ref-123", baseTime.Add(time.Minute)))
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("should price and open the order", func(t *testing.T) {
		o := newOrder(t, kernel.NewUUID())

		require.NoError(t, o.Validate())
		assert.Equal(t, int64(25000), o.Subtotal())
		assert.Equal(t, int64(1500), o.ShippingFee())
		assert.Equal(t, o.Subtotal()+o.ShippingFee(), o.Total())
		assert.Equal(t, order.PendingPayment, o.Status())
		assert.Equal(t, order.PaymentPending, o.PaymentStatus())
		assert.Equal(t, order.EscrowNone, o.EscrowStatus())
		assert.Equal(t, order.InitialVersion, o.Version())
		require.Len(t, o.TrackingUpdates(), 1)
		assert.Equal(t, order.PendingPayment, o.TrackingUpdates()[0].Status())
		assert.Len(t, o.VendorIDs(), 1)
	})

	t.Run("should record the promo from the quote", func(t *testing.T) {
		quote, _ := shipping.NewQuote(1500, shipping.FullDiscount, nil, "FREESHIP", "Free shipping")

		o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(),
			[]order.Item{newItem(t, kernel.NewUUID(), 1, 100)}, newAddress(t), quote, "", baseTime)

		require.NoError(t, err)
		require.NotNil(t, o.PromoCode())
		assert.Equal(t, "FREESHIP", *o.PromoCode())
		assert.Equal(t, int64(100), o.Total())
	})

	t.Run("should reject empty carts and missing values", func(t *testing.T) {
		quote, _ := shipping.NewQuote(1500, 0, nil, "", "")

		o, err := order.NewOrder(kernel.UUID{}, kernel.NewUUID(), nil, newAddress(t), quote, "", baseTime)

		require.Error(t, err)
		assert.Nil(t, o)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Contains(t, err.Error(), "items")
		assert.Contains(t, err.Error(), "UUID must be created")
	})

	t.Run("should reject an unconstructed quote", func(t *testing.T) {
		_, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(),
			[]order.Item{newItem(t, kernel.NewUUID(), 1, 100)}, newAddress(t), shipping.Quote{}, "", baseTime)

		require.ErrorIs(t, err, shipping.ErrQuoteIsNotConstructed)
	})
}

func TestOrder_Advance(t *testing.T) {
	vendor := func(t *testing.T) order.Actor {
		a, err := order.NewActor(testVendorID, order.RoleVendor)
		require.NoError(t, err)
		return a
	}

	t.Run("should require payment before vendor transitions", func(t *testing.T) {
		o := newOrder(t, kernel.NewUUID())

		err := o.Advance(order.Processing, "", vendor(t), baseTime)

		require.ErrorIs(t, err, order.ErrPaymentRequired)
		assert.Equal(t, order.PendingPayment, o.Status())
		assert.Len(t, o.TrackingUpdates(), 1)
	})

	t.Run("should reject customers and system actors", func(t *testing.T) {
		o := paidOrder(t, kernel.NewUUID())

		require.ErrorIs(t, o.Advance(order.Processing, "", actor(t, order.RoleCustomer), baseTime), order.ErrActorNotAllowed)
		require.ErrorIs(t, o.Advance(order.Processing, "", order.SystemActor(), baseTime), order.ErrActorNotAllowed)
	})

	t.Run("should reject vendors without items in the order", func(t *testing.T) {
		o := paidOrder(t, kernel.NewUUID())

		err := o.Advance(order.Processing, "", actor(t, order.RoleVendor), baseTime)

		require.ErrorIs(t, err, order.ErrActorNotAllowed)
		assert.Equal(t, order.PaymentConfirmed, o.Status())
		assert.Len(t, o.TrackingUpdates(), 2)
	})

	t.Run("should let admins advance any order", func(t *testing.T) {
		o := paidOrder(t, kernel.NewUUID())

		require.NoError(t, o.Advance(order.Processing, "", actor(t, order.RoleAdmin), baseTime))

		assert.Equal(t, order.Processing, o.Status())
	})

	t.Run("should accept any vendor of a multi-vendor order", func(t *testing.T) {
		other := kernel.NewUUID()
		quote, err := shipping.NewQuote(1500, 0, nil, "", "")
		require.NoError(t, err)
		o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(),
			[]order.Item{newItem(t, testVendorID, 1, 1000), newItem(t, other, 1, 2000)},
			newAddress(t), quote, "", baseTime)
		require.NoError(t, err)
		require.NoError(t, o.ConfirmPayment("ref-9", baseTime))
		second, err := order.NewActor(other, order.RoleVendor)
		require.NoError(t, err)

		require.NoError(t, o.Advance(order.Processing, "", second, baseTime))
	})

	t.Run("should append tracking and keep timestamps non-decreasing", func(t *testing.T) {
		o := paidOrder(t, kernel.NewUUID())

		require.NoError(t, o.Advance(order.Processing, "Packing now", vendor(t), baseTime.Add(time.Hour)))
		// a clock that went backwards must not reorder history
		require.NoError(t, o.Advance(order.Shipped, "", vendor(t), baseTime.Add(30*time.Minute)))

		updates := o.TrackingUpdates()
		require.Len(t, updates, 4)
		assert.Equal(t, "Packing now", updates[2].Message())
		assert.NotEmpty(t, updates[3].Message())
		for i := 1; i < len(updates); i++ {
			assert.False(t, updates[i].Timestamp().Before(updates[i-1].Timestamp()))
		}
		assert.Equal(t, order.Shipped, o.Status())
		assert.Equal(t, o.Total(), o.Subtotal()+o.ShippingFee())
	})

	t.Run("should set auto release once on delivery", func(t *testing.T) {
		o := paidOrder(t, kernel.NewUUID())
		deliveredAt := baseTime.Add(48 * time.Hour)

		require.NoError(t, o.Advance(order.Delivered, "", vendor(t), deliveredAt))
		require.NotNil(t, o.AutoReleaseAt())
		assert.Equal(t, deliveredAt.Add(order.AutoReleaseWindow), *o.AutoReleaseAt())

		require.ErrorIs(t, o.Advance(order.Delivered, "", vendor(t), deliveredAt.Add(time.Hour)), order.ErrInvalidTransition)
		require.NoError(t, o.Advance(order.Completed, "", vendor(t), deliveredAt.Add(time.Hour)))
		assert.Equal(t, deliveredAt.Add(order.AutoReleaseWindow), *o.AutoReleaseAt())
	})

	t.Run("should refund escrow when a paid order is cancelled", func(t *testing.T) {
		o := paidOrder(t, kernel.NewUUID())
		require.NoError(t, o.Advance(order.Processing, "", vendor(t), baseTime))

		require.NoError(t, o.Advance(order.Cancelled, "out of stock", actor(t, order.RoleAdmin), baseTime))

		assert.Equal(t, order.Cancelled, o.Status())
		assert.Equal(t, order.EscrowRefunded, o.EscrowStatus())
	})

	t.Run("should cancel an unpaid order without escrow", func(t *testing.T) {
		o := newOrder(t, kernel.NewUUID())

		require.NoError(t, o.Advance(order.Cancelled, "", vendor(t), baseTime))

		assert.Equal(t, order.EscrowNone, o.EscrowStatus())
	})

	t.Run("should never cancel shipped orders", func(t *testing.T) {
		o := paidOrder(t, kernel.NewUUID())
		require.NoError(t, o.Advance(order.Shipped, "", vendor(t), baseTime))

		err := o.Advance(order.Cancelled, "", vendor(t), baseTime)

		require.ErrorIs(t, err, order.ErrInvalidTransition)
		assert.Len(t, o.TrackingUpdates(), 3)
	})
}

func TestOrder_Payment(t *testing.T) {
	t.Run("should confirm payment and hold escrow", func(t *testing.T) {
		o := newOrder(t, kernel.NewUUID())

		require.NoError(t, o.ConfirmPayment("ref-1", baseTime))

		assert.Equal(t, order.PaymentConfirmed, o.Status())
		assert.Equal(t, order.PaymentPaid, o.PaymentStatus())
		assert.Equal(t, order.EscrowHeld, o.EscrowStatus())
		assert.Equal(t, "ref-1", *o.PaymentReference())
		assert.Len(t, o.TrackingUpdates(), 2)
	})

	t.Run("should report replays as already paid", func(t *testing.T) {
		o := paidOrder(t, kernel.NewUUID())

		require.ErrorIs(t, o.ConfirmPayment("ref-1", baseTime), order.ErrAlreadyPaid)
		assert.Len(t, o.TrackingUpdates(), 2)
	})

	t.Run("should keep pending payment after a failure", func(t *testing.T) {
		o := newOrder(t, kernel.NewUUID())

		require.NoError(t, o.FailPayment(baseTime))

		assert.Equal(t, order.PendingPayment, o.Status())
		assert.Equal(t, order.PaymentFailed, o.PaymentStatus())
		require.NoError(t, o.ConfirmPayment("ref-retry", baseTime.Add(time.Minute)))
	})

	t.Run("should reject payment for a cancelled order", func(t *testing.T) {
		o := newOrder(t, kernel.NewUUID())
		require.NoError(t, o.Advance(order.Cancelled, "", actor(t, order.RoleAdmin), baseTime))

		require.ErrorIs(t, o.ConfirmPayment("ref-late", baseTime), order.ErrInvalidState)
	})

	t.Run("should require a reference", func(t *testing.T) {
		o := newOrder(t, kernel.NewUUID())

		require.ErrorIs(t, o.ConfirmPayment("  ", baseTime), errs.ErrValueIsRequired)
	})
}

func TestOrder_ConfirmDelivery(t *testing.T) {
	customerID := kernel.NewUUID()
	customer, _ := order.NewActor(customerID, order.RoleCustomer)
	vendor, _ := order.NewActor(testVendorID, order.RoleVendor)

	t.Run("should fail before delivery", func(t *testing.T) {
		o := paidOrder(t, customerID)

		require.ErrorIs(t, o.ConfirmDelivery(customer, baseTime), order.ErrInvalidState)
	})

	t.Run("should release escrow and reject a second confirmation", func(t *testing.T) {
		o := paidOrder(t, customerID)
		require.NoError(t, o.Advance(order.Delivered, "", vendor, baseTime))

		require.NoError(t, o.ConfirmDelivery(customer, baseTime.Add(time.Hour)))
		assert.Equal(t, order.EscrowReleased, o.EscrowStatus())
		require.NotNil(t, o.ConfirmedAt())

		require.ErrorIs(t, o.ConfirmDelivery(customer, baseTime.Add(2*time.Hour)), order.ErrAlreadyConfirmed)
	})

	t.Run("should only accept the ordering customer", func(t *testing.T) {
		o := paidOrder(t, customerID)
		require.NoError(t, o.Advance(order.Delivered, "", vendor, baseTime))

		require.ErrorIs(t, o.ConfirmDelivery(actor(t, order.RoleCustomer), baseTime), order.ErrActorNotAllowed)
		require.ErrorIs(t, o.ConfirmDelivery(vendor, baseTime), order.ErrActorNotAllowed)
	})
}

func TestOrder_ReleaseEscrow(t *testing.T) {
	t.Run("should release held escrow", func(t *testing.T) {
		o := paidOrder(t, kernel.NewUUID())

		require.NoError(t, o.ReleaseEscrow(baseTime))
		assert.Equal(t, order.EscrowReleased, o.EscrowStatus())
	})

	t.Run("should reject when nothing is held", func(t *testing.T) {
		o := newOrder(t, kernel.NewUUID())

		require.ErrorIs(t, o.ReleaseEscrow(baseTime), order.ErrEscrowNotHeld)
	})
}

func TestRestoreOrder(t *testing.T) {
	src := paidOrder(t, kernel.NewUUID())

	t.Run("should rebuild an equal order", func(t *testing.T) {
		restored, err := order.RestoreOrder(order.Snapshot{
			ID:              src.ID(),
			UserID:          src.UserID(),
			Items:           src.Items(),
			Address:         src.Address(),
			Status:          src.Status(),
			PaymentStatus:   src.PaymentStatus(),
			EscrowStatus:    src.EscrowStatus(),
			Subtotal:        src.Subtotal(),
			ShippingFee:     src.ShippingFee(),
			Total:           src.Total(),
			TrackingUpdates: src.TrackingUpdates(),
			CreatedAt:       src.CreatedAt(),
			UpdatedAt:       src.UpdatedAt(),
			Version:         3,
		})

		require.NoError(t, err)
		assert.True(t, restored.IsEqual(src))
		assert.Equal(t, int64(3), restored.Version())
		assert.Equal(t, src.TrackingUpdates(), restored.TrackingUpdates())
	})

	t.Run("should reject an inconsistent total", func(t *testing.T) {
		_, err := order.RestoreOrder(order.Snapshot{
			ID:            src.ID(),
			UserID:        src.UserID(),
			Status:        order.Processing,
			PaymentStatus: order.PaymentPaid,
			Subtotal:      100,
			ShippingFee:   10,
			Total:         200,
			Version:       1,
		})

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestOrder_Snapshot(t *testing.T) {
	src := paidOrder(t, kernel.NewUUID())

	restored, err := order.RestoreOrder(src.Snapshot())
	require.NoError(t, err)

	assert.Equal(t, src.Snapshot(), restored.Snapshot())

	snap := src.Snapshot()
	snap.TrackingUpdates[0] = order.TrackingUpdate{}
	assert.NotEqual(t, order.TrackingUpdate{}, src.TrackingUpdates()[0], "snapshot must not alias the order")
}
