package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/shipping"
	"marketplace/internal/pkg/errs"
)

// AutoReleaseWindow is how long escrow stays held after delivery
// when the customer does not confirm receipt.
const AutoReleaseWindow = 7 * 24 * time.Hour

const MaxNotesLength = 1000

// InitialVersion is the version of a newly created order.
const InitialVersion int64 = 1

var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

// Order is the aggregate root of the checkout and fulfillment lifecycle.
//
// Invariants:
//   - total == subtotal + shippingFee and never changes after creation
//   - items are an immutable snapshot taken at checkout
//   - tracking updates are append-only with non-decreasing timestamps
//   - autoReleaseAt is set at most once, when the order enters Delivered
//
// Mutations do not persist anything; repositories store the aggregate
// with an optimistic version check.
type Order struct {
	id               kernel.UUID
	userID           kernel.UUID
	items            []Item
	address          ShippingAddress
	status           Status
	paymentStatus    PaymentStatus
	escrowStatus     EscrowStatus
	subtotal         int64
	shippingFee      int64
	total            int64
	distanceKm       *float64
	promoCode        *string
	notes            string
	paymentReference *string
	trackingUpdates  []TrackingUpdate
	confirmedAt      *time.Time
	autoReleaseAt    *time.Time
	createdAt        time.Time
	updatedAt        time.Time
	version          int64
	isConstructed    bool
}

// NewOrder prices the items with the given shipping quote and opens the order
// in PendingPayment with a first tracking entry.
//
// Example:
//
//	quote, _ := pricer.Quote(distanceKm, subtotal, promo)
//	o, err := order.NewOrder(kernel.NewUUID(), customerID, items, address, quote, "leave at gate", time.Now())
func NewOrder(
	id, userID kernel.UUID,
	items []Item,
	address ShippingAddress,
	quote shipping.Quote,
	notes string,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:        PendingPayment,
		paymentStatus: PaymentPending,
		escrowStatus:  EscrowNone,
		createdAt:     now.UTC(),
		updatedAt:     now.UTC(),
		version:       InitialVersion,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setUserID(userID),
		o.setItems(items),
		o.setAddress(address),
		o.setNotes(notes),
		quote.Validate(),
	); err != nil {
		return nil, err
	}

	o.shippingFee = quote.FinalFee()
	o.total = o.subtotal + o.shippingFee
	o.distanceKm = quote.DistanceKm()
	if quote.PromoApplied() {
		code := quote.PromoCode()
		o.promoCode = &code
	}

	if err := o.appendTracking(PendingPayment, "", now); err != nil {
		return nil, err
	}

	return o, nil
}

// Snapshot carries the persisted state of an order for RestoreOrder.
type Snapshot struct {
	ID               kernel.UUID
	UserID           kernel.UUID
	Items            []Item
	Address          ShippingAddress
	Status           Status
	PaymentStatus    PaymentStatus
	EscrowStatus     EscrowStatus
	Subtotal         int64
	ShippingFee      int64
	Total            int64
	DistanceKm       *float64
	PromoCode        *string
	Notes            string
	PaymentReference *string
	TrackingUpdates  []TrackingUpdate
	ConfirmedAt      *time.Time
	AutoReleaseAt    *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Version          int64
}

// RestoreOrder rebuilds an order loaded from storage.
// Amounts are trusted as stored and only checked for consistency.
func RestoreOrder(s Snapshot) (*Order, error) {
	var totalErr, versionErr error
	if s.Total != s.Subtotal+s.ShippingFee {
		totalErr = errs.NewValueIsInvalidErrorWithCause("total",
			fmt.Errorf("%d is not %d + %d", s.Total, s.Subtotal, s.ShippingFee))
	}
	if s.Version < InitialVersion {
		versionErr = errs.NewValueIsOutOfRangeError("version", s.Version, InitialVersion, "unbounded")
	}

	if err := errors.Join(
		s.ID.Validate(),
		s.UserID.Validate(),
		s.Status.Validate(),
		s.PaymentStatus.Validate(),
		s.EscrowStatus.Validate(),
		totalErr,
		versionErr,
	); err != nil {
		return nil, err
	}

	items := make([]Item, len(s.Items))
	copy(items, s.Items)
	updates := make([]TrackingUpdate, len(s.TrackingUpdates))
	copy(updates, s.TrackingUpdates)

	return &Order{
		id:               s.ID,
		userID:           s.UserID,
		items:            items,
		address:          s.Address,
		status:           s.Status,
		paymentStatus:    s.PaymentStatus,
		escrowStatus:     s.EscrowStatus,
		subtotal:         s.Subtotal,
		shippingFee:      s.ShippingFee,
		total:            s.Total,
		distanceKm:       copyPtr(s.DistanceKm),
		promoCode:        copyPtr(s.PromoCode),
		notes:            s.Notes,
		paymentReference: copyPtr(s.PaymentReference),
		trackingUpdates:  updates,
		confirmedAt:      copyPtr(s.ConfirmedAt),
		autoReleaseAt:    copyPtr(s.AutoReleaseAt),
		createdAt:        s.CreatedAt,
		updatedAt:        s.UpdatedAt,
		version:          s.Version,
		isConstructed:    true,
	}, nil
}

// Snapshot returns a copy of the order's state that RestoreOrder accepts.
func (o *Order) Snapshot() Snapshot {
	return Snapshot{
		ID:               o.id,
		UserID:           o.userID,
		Items:            o.Items(),
		Address:          o.address,
		Status:           o.status,
		PaymentStatus:    o.paymentStatus,
		EscrowStatus:     o.escrowStatus,
		Subtotal:         o.subtotal,
		ShippingFee:      o.shippingFee,
		Total:            o.total,
		DistanceKm:       o.DistanceKm(),
		PromoCode:        o.PromoCode(),
		Notes:            o.notes,
		PaymentReference: o.PaymentReference(),
		TrackingUpdates:  o.TrackingUpdates(),
		ConfirmedAt:      o.ConfirmedAt(),
		AutoReleaseAt:    o.AutoReleaseAt(),
		CreatedAt:        o.createdAt,
		UpdatedAt:        o.updatedAt,
		Version:          o.version,
	}
}

func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID                   { return o.id }
func (o *Order) UserID() kernel.UUID               { return o.userID }
func (o *Order) Address() ShippingAddress          { return o.address }
func (o *Order) Status() Status                    { return o.status }
func (o *Order) PaymentStatus() PaymentStatus      { return o.paymentStatus }
func (o *Order) EscrowStatus() EscrowStatus        { return o.escrowStatus }
func (o *Order) Subtotal() int64                   { return o.subtotal }
func (o *Order) ShippingFee() int64                { return o.shippingFee }
func (o *Order) Total() int64                      { return o.total }
func (o *Order) Notes() string                     { return o.notes }
func (o *Order) CreatedAt() time.Time              { return o.createdAt }
func (o *Order) UpdatedAt() time.Time              { return o.updatedAt }
func (o *Order) DistanceKm() *float64              { return copyPtr(o.distanceKm) }
func (o *Order) PromoCode() *string                { return copyPtr(o.promoCode) }
func (o *Order) PaymentReference() *string         { return copyPtr(o.paymentReference) }
func (o *Order) ConfirmedAt() *time.Time           { return copyPtr(o.confirmedAt) }
func (o *Order) AutoReleaseAt() *time.Time         { return copyPtr(o.autoReleaseAt) }
func (o *Order) IsPaid() bool                      { return o.paymentStatus == PaymentPaid }
func (o *Order) IsOwnedBy(userID kernel.UUID) bool { return o.userID.IsEqual(userID) }

// Version is the optimistic-concurrency version the order was loaded with.
func (o *Order) Version() int64 {
	return o.version
}

// IncrementVersion is called by repositories after a successful versioned write.
func (o *Order) IncrementVersion() {
	o.version++
}

func (o *Order) Items() []Item {
	out := make([]Item, len(o.items))
	copy(out, o.items)
	return out
}

func (o *Order) TrackingUpdates() []TrackingUpdate {
	out := make([]TrackingUpdate, len(o.trackingUpdates))
	copy(out, o.trackingUpdates)
	return out
}

func (o *Order) hasVendor(id kernel.UUID) bool {
	for _, it := range o.items {
		if it.VendorID() == id {
			return true
		}
	}
	return false
}

// VendorIDs returns the distinct vendors of the order's items in item order.
func (o *Order) VendorIDs() []kernel.UUID {
	seen := make(map[kernel.UUID]struct{}, len(o.items))
	var out []kernel.UUID
	for _, it := range o.items {
		if _, ok := seen[it.VendorID()]; ok {
			continue
		}
		seen[it.VendorID()] = struct{}{}
		out = append(out, it.VendorID())
	}
	return out
}

// Advance moves the order to target on behalf of an admin or a vendor
// owning at least one of its items.
// An empty message is replaced with the status' notification text.
//
// Errors: ErrActorNotAllowed, ErrInvalidTransition, ErrPaymentRequired.
func (o *Order) Advance(target Status, message string, actor Actor, now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if !actor.canAdvance() {
		return fmt.Errorf("%w: %s cannot change order status", ErrActorNotAllowed, actor.Role())
	}
	if actor.Role() == RoleVendor && !o.hasVendor(actor.ID()) {
		return fmt.Errorf("%w: vendor %s has no items in order", ErrActorNotAllowed, actor.ID())
	}

	next, err := o.status.Advance(target)
	if err != nil {
		return err
	}

	if err = o.appendTracking(next, message, now); err != nil {
		return err
	}
	o.status = next

	if next == Delivered && o.autoReleaseAt == nil {
		releaseAt := o.updatedAt.Add(AutoReleaseWindow)
		o.autoReleaseAt = &releaseAt
	}
	if next == Cancelled && o.escrowStatus == EscrowHeld {
		o.escrowStatus = EscrowRefunded
	}

	return nil
}

// ConfirmPayment records a verified payment. It is the only way out of PendingPayment.
// Callers treat ErrAlreadyPaid as an idempotent replay.
func (o *Order) ConfirmPayment(reference string, now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return errs.NewValueIsRequiredError("payment reference")
	}
	if o.paymentStatus == PaymentPaid {
		return fmt.Errorf("%w: order %s", ErrAlreadyPaid, o.id)
	}
	if o.status != PendingPayment {
		return fmt.Errorf("%w: cannot confirm payment for an order in %s", ErrInvalidState, o.status)
	}

	if err := o.appendTracking(PaymentConfirmed, "", now); err != nil {
		return err
	}
	o.status = PaymentConfirmed
	o.paymentStatus = PaymentPaid
	o.escrowStatus = EscrowHeld
	o.paymentReference = &reference

	return nil
}

// FailPayment records a failed verification. The order stays in
// PendingPayment so the customer can retry.
func (o *Order) FailPayment(now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.paymentStatus == PaymentPaid {
		return fmt.Errorf("%w: order %s", ErrAlreadyPaid, o.id)
	}
	if o.status != PendingPayment {
		return fmt.Errorf("%w: cannot fail payment for an order in %s", ErrInvalidState, o.status)
	}

	o.paymentStatus = PaymentFailed
	o.touch(now)
	return nil
}

// ConfirmDelivery lets the owning customer acknowledge receipt,
// which releases escrow ahead of the auto-release window.
//
// Errors: ErrActorNotAllowed, ErrAlreadyConfirmed, ErrInvalidState.
func (o *Order) ConfirmDelivery(actor Actor, now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if actor.Role() != RoleCustomer || !o.IsOwnedBy(actor.ID()) {
		return fmt.Errorf("%w: only the ordering customer can confirm delivery", ErrActorNotAllowed)
	}
	if o.confirmedAt != nil {
		return fmt.Errorf("%w: order %s", ErrAlreadyConfirmed, o.id)
	}
	if o.status != Delivered {
		return fmt.Errorf("%w: order is %s, not %s", ErrInvalidState, o.status, Delivered)
	}

	o.touch(now)
	confirmedAt := o.updatedAt
	o.confirmedAt = &confirmedAt
	if o.escrowStatus == EscrowHeld {
		o.escrowStatus = EscrowReleased
	}

	return nil
}

// ReleaseEscrow moves held funds to released. Eligibility is decided
// by the caller with the settlement clock.
func (o *Order) ReleaseEscrow(now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.escrowStatus != EscrowHeld {
		return fmt.Errorf("%w: escrow of order %s is %q", ErrEscrowNotHeld, o.id, o.escrowStatus)
	}

	o.escrowStatus = EscrowReleased
	o.touch(now)
	return nil
}

// appendTracking adds an entry whose timestamp never precedes the previous one.
func (o *Order) appendTracking(status Status, message string, now time.Time) error {
	if strings.TrimSpace(message) == "" {
		if t, ok := TemplateFor(status); ok {
			message = t.Message
		}
	}

	o.touch(now)
	update, err := NewTrackingUpdate(status, strings.TrimSpace(message), o.updatedAt)
	if err != nil {
		return err
	}

	o.trackingUpdates = append(o.trackingUpdates, update)
	return nil
}

func (o *Order) touch(now time.Time) {
	ts := now.UTC()
	if n := len(o.trackingUpdates); n > 0 {
		if last := o.trackingUpdates[n-1].Timestamp(); ts.Before(last) {
			ts = last
		}
	}
	if ts.Before(o.updatedAt) {
		ts = o.updatedAt
	}
	o.updatedAt = ts
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return err
	}
	o.userID = userID
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	var subtotal int64
	for i, it := range items {
		if err := it.productID.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("item %d", i), err)
		}
		subtotal += it.TotalPrice()
	}

	o.items = make([]Item, len(items))
	copy(o.items, items)
	o.subtotal = subtotal
	return nil
}

func (o *Order) setAddress(a ShippingAddress) error {
	if a.street == "" {
		return errs.NewValueIsRequiredError("shipping address")
	}
	o.address = a
	return nil
}

func (o *Order) setNotes(notes string) error {
	notes = strings.TrimSpace(notes)
	if len(notes) > MaxNotesLength {
		return errs.NewValueIsOutOfRangeError("notes length", len(notes), 0, MaxNotesLength)
	}
	o.notes = notes
	return nil
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
