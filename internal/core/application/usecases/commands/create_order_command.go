package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand checks out a cart for a customer.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), customerID, items, address, &savedAddressID, "FREESHIP", "")
//	if err != nil {
//	    return fmt.Errorf("invalid checkout: %w", err)
//	}
//	err = handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	userID    kernel.UUID
	items     []order.Item
	address   order.ShippingAddress
	addressID *kernel.UUID
	promoCode string
	notes     string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the checkout input. addressID optionally points at
// a saved address whose coordinates are used when address has none.
func NewCreateOrderCommand(
	orderID, userID kernel.UUID,
	items []order.Item,
	address order.ShippingAddress,
	addressID *kernel.UUID,
	promoCode, notes string,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		address:   address,
		promoCode: strings.TrimSpace(promoCode),
		notes:     notes,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setUserID(userID),
		cmd.setItems(items),
		cmd.setAddressID(addressID),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CreateOrderCommand) UserID() kernel.UUID {
	return c.userID
}

func (c CreateOrderCommand) Items() []order.Item {
	out := make([]order.Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c CreateOrderCommand) Address() order.ShippingAddress {
	return c.address
}

func (c CreateOrderCommand) AddressID() *kernel.UUID {
	return c.addressID
}

func (c CreateOrderCommand) PromoCode() string {
	return c.promoCode
}

func (c CreateOrderCommand) Notes() string {
	return c.notes
}

// Subtotal is the sum of the item totals.
func (c CreateOrderCommand) Subtotal() int64 {
	var total int64
	for _, it := range c.items {
		total += it.TotalPrice()
	}
	return total
}

// VendorIDs returns the distinct vendors in the cart.
func (c CreateOrderCommand) VendorIDs() []kernel.UUID {
	seen := make(map[kernel.UUID]struct{}, len(c.items))
	var out []kernel.UUID
	for _, it := range c.items {
		if _, ok := seen[it.VendorID()]; !ok {
			seen[it.VendorID()] = struct{}{}
			out = append(out, it.VendorID())
		}
	}
	return out
}

func (c *CreateOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *CreateOrderCommand) setUserID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.userID = id
	return nil
}

func (c *CreateOrderCommand) setItems(items []order.Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	c.items = make([]order.Item, len(items))
	copy(c.items, items)
	return nil
}

func (c *CreateOrderCommand) setAddressID(id *kernel.UUID) error {
	if id == nil {
		return nil
	}
	if err := id.Validate(); err != nil {
		return err
	}
	v := *id
	c.addressID = &v
	return nil
}
