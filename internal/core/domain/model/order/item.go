package order

import (
	"errors"
	"fmt"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

const MaxItemQuantity = 10_000

// Item is an immutable snapshot of a purchased product line.
// Prices are integral amounts in the smallest currency unit.
type Item struct {
	productID   kernel.UUID
	vendorID    kernel.UUID
	productName string
	variantName *string
	quantity    int
	unitPrice   int64
}

func NewItem(
	productID, vendorID kernel.UUID,
	productName string,
	variantName *string,
	quantity int,
	unitPrice int64,
) (Item, error) {
	item := Item{
		productID:   productID,
		vendorID:    vendorID,
		productName: strings.TrimSpace(productName),
		quantity:    quantity,
		unitPrice:   unitPrice,
	}
	if variantName != nil && strings.TrimSpace(*variantName) != "" {
		v := strings.TrimSpace(*variantName)
		item.variantName = &v
	}

	var nameErr, qtyErr, priceErr error
	if item.productName == "" {
		nameErr = errs.NewValueIsRequiredError("product name")
	}
	if quantity < 1 || quantity > MaxItemQuantity {
		qtyErr = errs.NewValueIsOutOfRangeError("quantity", quantity, 1, MaxItemQuantity)
	}
	if unitPrice < 0 {
		priceErr = errs.NewValueIsInvalidErrorWithCause("unit price", fmt.Errorf("%d is negative", unitPrice))
	}

	if err := errors.Join(productID.Validate(), vendorID.Validate(), nameErr, qtyErr, priceErr); err != nil {
		return Item{}, err
	}

	return item, nil
}

func (i Item) ProductID() kernel.UUID {
	return i.productID
}

func (i Item) VendorID() kernel.UUID {
	return i.vendorID
}

func (i Item) ProductName() string {
	return i.productName
}

func (i Item) VariantName() *string {
	if i.variantName == nil {
		return nil
	}
	v := *i.variantName
	return &v
}

func (i Item) Quantity() int {
	return i.quantity
}

func (i Item) UnitPrice() int64 {
	return i.unitPrice
}

// TotalPrice is quantity × unit price.
func (i Item) TotalPrice() int64 {
	return int64(i.quantity) * i.unitPrice
}
