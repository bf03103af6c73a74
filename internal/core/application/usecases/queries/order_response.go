package queries

import (
	"time"

	"marketplace/internal/core/domain/model/order"
)

// OrderResponse is the read model of an order returned by the API.
type OrderResponse struct {
	ID               string                   `json:"id"`
	UserID           string                   `json:"user_id"`
	Status           string                   `json:"status"`
	PaymentStatus    string                   `json:"payment_status"`
	EscrowStatus     string                   `json:"escrow_status,omitempty"`
	Items            []OrderItemResponse      `json:"items"`
	ShippingAddress  AddressResponse          `json:"shipping_address"`
	Subtotal         int64                    `json:"subtotal"`
	ShippingFee      int64                    `json:"shipping_fee"`
	Total            int64                    `json:"total"`
	DistanceKm       *float64                 `json:"distance_km,omitempty"`
	PromoCode        *string                  `json:"promo_code,omitempty"`
	Notes            string                   `json:"notes,omitempty"`
	PaymentReference *string                  `json:"payment_reference,omitempty"`
	TrackingUpdates  []TrackingUpdateResponse `json:"tracking_updates"`
	ConfirmedAt      *time.Time               `json:"confirmed_at,omitempty"`
	AutoReleaseAt    *time.Time               `json:"auto_release_at,omitempty"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
	Version          int64                    `json:"version"`
}

type OrderItemResponse struct {
	ProductID   string  `json:"product_id"`
	VendorID    string  `json:"vendor_id"`
	ProductName string  `json:"product_name"`
	VariantName *string `json:"variant_name,omitempty"`
	Quantity    int     `json:"quantity"`
	UnitPrice   int64   `json:"unit_price"`
	TotalPrice  int64   `json:"total_price"`
}

type AddressResponse struct {
	FullName  string   `json:"full_name"`
	Phone     string   `json:"phone"`
	Street    string   `json:"street"`
	City      string   `json:"city"`
	State     string   `json:"state"`
	Landmark  *string  `json:"landmark,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

type TrackingUpdateResponse struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func NewOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items()))
	for _, it := range o.Items() {
		items = append(items, OrderItemResponse{
			ProductID:   it.ProductID().String(),
			VendorID:    it.VendorID().String(),
			ProductName: it.ProductName(),
			VariantName: it.VariantName(),
			Quantity:    it.Quantity(),
			UnitPrice:   it.UnitPrice(),
			TotalPrice:  it.TotalPrice(),
		})
	}

	updates := make([]TrackingUpdateResponse, 0, len(o.TrackingUpdates()))
	for _, u := range o.TrackingUpdates() {
		updates = append(updates, TrackingUpdateResponse{
			Status:    u.Status().String(),
			Message:   u.Message(),
			Timestamp: u.Timestamp(),
		})
	}

	addr := o.Address()
	address := AddressResponse{
		FullName: addr.FullName(),
		Phone:    addr.Phone(),
		Street:   addr.Street(),
		City:     addr.City(),
		State:    addr.State(),
		Landmark: addr.Landmark(),
	}
	if p := addr.Point(); p != nil {
		lat, lon := p.Lat(), p.Lon()
		address.Latitude, address.Longitude = &lat, &lon
	}

	return OrderResponse{
		ID:               o.ID().String(),
		UserID:           o.UserID().String(),
		Status:           o.Status().String(),
		PaymentStatus:    o.PaymentStatus().String(),
		EscrowStatus:     o.EscrowStatus().String(),
		Items:            items,
		ShippingAddress:  address,
		Subtotal:         o.Subtotal(),
		ShippingFee:      o.ShippingFee(),
		Total:            o.Total(),
		DistanceKm:       o.DistanceKm(),
		PromoCode:        o.PromoCode(),
		Notes:            o.Notes(),
		PaymentReference: o.PaymentReference(),
		TrackingUpdates:  updates,
		ConfirmedAt:      o.ConfirmedAt(),
		AutoReleaseAt:    o.AutoReleaseAt(),
		CreatedAt:        o.CreatedAt(),
		UpdatedAt:        o.UpdatedAt(),
		Version:          o.Version(),
	}
}
