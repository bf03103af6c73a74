package http

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
)

type LocationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (l *LocationRequest) toPoint() (*kernel.GeoPoint, error) {
	if l == nil {
		return nil, nil
	}
	return kernel.NewOptionalGeoPoint(l.Latitude, l.Longitude)
}

type ShippingQuoteRequest struct {
	Location  *LocationRequest `json:"location"`
	AddressID *string          `json:"address_id"`
	VendorIDs []string         `json:"vendor_ids"`
	Subtotal  int64            `json:"subtotal"`
	PromoCode string           `json:"promo_code"`
}

func (r ShippingQuoteRequest) toDomain() (*kernel.GeoPoint, *kernel.UUID, []kernel.UUID, error) {
	point, pointErr := r.Location.toPoint()
	addressID, addressErr := optionalUUID(r.AddressID)

	vendorIDs := make([]kernel.UUID, 0, len(r.VendorIDs))
	var vendorErr error
	for _, raw := range r.VendorIDs {
		id, err := parseUUID("vendor id", raw)
		if err != nil {
			vendorErr = errors.Join(vendorErr, err)
			continue
		}
		vendorIDs = append(vendorIDs, id)
	}

	if err := errors.Join(pointErr, addressErr, vendorErr); err != nil {
		return nil, nil, nil, err
	}
	return point, addressID, vendorIDs, nil
}

type OrderItemRequest struct {
	ProductID   string  `json:"product_id"`
	VendorID    string  `json:"vendor_id"`
	ProductName string  `json:"product_name"`
	VariantName *string `json:"variant_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   int64   `json:"unit_price"`
}

type AddressRequest struct {
	FullName  string   `json:"full_name"`
	Phone     string   `json:"phone"`
	Street    string   `json:"street"`
	City      string   `json:"city"`
	State     string   `json:"state"`
	Landmark  *string  `json:"landmark"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items"`
	ShippingAddress AddressRequest     `json:"shipping_address"`
	AddressID       *string            `json:"address_id"`
	PromoCode       string             `json:"promo_code"`
	Notes           string             `json:"notes"`
}

func (r CreateOrderRequest) toDomain() ([]order.Item, order.ShippingAddress, *kernel.UUID, error) {
	items := make([]order.Item, 0, len(r.Items))
	var itemsErr error
	for _, in := range r.Items {
		item, err := in.toDomain()
		if err != nil {
			itemsErr = errors.Join(itemsErr, err)
			continue
		}
		items = append(items, item)
	}

	a := r.ShippingAddress
	point, pointErr := kernel.NewOptionalGeoPoint(a.Latitude, a.Longitude)
	var address order.ShippingAddress
	var addressErr error
	if pointErr == nil {
		address, addressErr = order.NewShippingAddress(a.FullName, a.Phone, a.Street, a.City, a.State, a.Landmark, point)
	}

	addressID, idErr := optionalUUID(r.AddressID)

	if err := errors.Join(itemsErr, pointErr, addressErr, idErr); err != nil {
		return nil, order.ShippingAddress{}, nil, err
	}
	return items, address, addressID, nil
}

func (r OrderItemRequest) toDomain() (order.Item, error) {
	productID, productErr := parseUUID("product id", r.ProductID)
	vendorID, vendorErr := parseUUID("vendor id", r.VendorID)
	if err := errors.Join(productErr, vendorErr); err != nil {
		return order.Item{}, err
	}
	return order.NewItem(productID, vendorID, r.ProductName, r.VariantName, r.Quantity, r.UnitPrice)
}

type InitiatePaymentRequest struct {
	Email string `json:"email"`
}

type VerifyPaymentRequest struct {
	Reference string `json:"reference"`
}

type AdvanceOrderRequest struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type PaymentSessionResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	Reference        string `json:"reference"`
}

type PaymentVerificationResponse struct {
	OrderID       string `json:"order_id"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
}

type ReleaseEscrowResponse struct {
	Released int `json:"released"`
}

func optionalUUID(raw *string) (*kernel.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := parseUUID("address id", *raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// parseUUID reports malformed ids as invalid values.
func parseUUID(name, raw string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}
