// Package orderrepo maps the order aggregate onto the orders and order_items tables.
package orderrepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is one row of the orders table. Timestamps are owned by the
// aggregate, so GORM's automatic time tracking is switched off.
type OrderDTO struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID      `gorm:"type:uuid;index;not null"`
	Items            []OrderItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Address          AddressDTO     `gorm:"embedded;embeddedPrefix:shipping_"`
	Status           string         `gorm:"size:32;index;not null"`
	PaymentStatus    string         `gorm:"size:16;not null"`
	EscrowStatus     string         `gorm:"size:16;index"`
	Subtotal         int64          `gorm:"not null"`
	ShippingFee      int64          `gorm:"not null"`
	Total            int64          `gorm:"not null"`
	DistanceKm       *float64
	PromoCode        *string             `gorm:"size:64"`
	Notes            string              `gorm:"size:1000"`
	PaymentReference *string             `gorm:"size:128;uniqueIndex"`
	TrackingUpdates  []TrackingUpdateDTO `gorm:"type:jsonb;serializer:json;not null"`
	ConfirmedAt      *time.Time
	AutoReleaseAt    *time.Time `gorm:"index"`
	CreatedAt        time.Time  `gorm:"autoCreateTime:false;not null"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime:false;not null"`
	Version          int64      `gorm:"not null;default:1"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO is a write-once line of an order. Position keeps the cart order.
type OrderItemDTO struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	OrderID     uuid.UUID `gorm:"type:uuid;index;not null"`
	Position    int       `gorm:"not null"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null"`
	VendorID    uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductName string    `gorm:"size:255;not null"`
	VariantName *string   `gorm:"size:255"`
	Quantity    int       `gorm:"not null"`
	UnitPrice   int64     `gorm:"not null"`
	TotalPrice  int64     `gorm:"not null"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

// AddressDTO is the shipping address snapshot embedded in the orders row.
type AddressDTO struct {
	FullName  string `gorm:"size:255"`
	Phone     string `gorm:"size:32"`
	Street    string `gorm:"size:255"`
	City      string `gorm:"size:128"`
	State     string `gorm:"size:128"`
	Landmark  *string
	Latitude  *float64
	Longitude *float64
}

// TrackingUpdateDTO is one element of the tracking_updates JSON array.
type TrackingUpdateDTO struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func fromDomain(o *order.Order) OrderDTO {
	orderID := o.ID().Bytes()

	items := make([]OrderItemDTO, 0, len(o.Items()))
	for i, it := range o.Items() {
		items = append(items, OrderItemDTO{
			OrderID:     orderID,
			Position:    i,
			ProductID:   it.ProductID().Bytes(),
			VendorID:    it.VendorID().Bytes(),
			ProductName: it.ProductName(),
			VariantName: it.VariantName(),
			Quantity:    it.Quantity(),
			UnitPrice:   it.UnitPrice(),
			TotalPrice:  it.TotalPrice(),
		})
	}

	updates := make([]TrackingUpdateDTO, 0, len(o.TrackingUpdates()))
	for _, u := range o.TrackingUpdates() {
		updates = append(updates, TrackingUpdateDTO{
			Status:    u.Status().String(),
			Message:   u.Message(),
			Timestamp: u.Timestamp(),
		})
	}

	addr := o.Address()
	address := AddressDTO{
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

	return OrderDTO{
		ID:               orderID,
		UserID:           o.UserID().Bytes(),
		Items:            items,
		Address:          address,
		Status:           o.Status().String(),
		PaymentStatus:    o.PaymentStatus().String(),
		EscrowStatus:     o.EscrowStatus().String(),
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

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	paymentStatus, err := order.ParsePaymentStatus(dto.PaymentStatus)
	if err != nil {
		return nil, err
	}
	escrowStatus, err := order.ParseEscrowStatus(dto.EscrowStatus)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, it := range dto.Items {
		item, itemErr := itemToDomain(it)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	updates := make([]order.TrackingUpdate, 0, len(dto.TrackingUpdates))
	for _, u := range dto.TrackingUpdates {
		s, parseErr := order.ParseStatus(u.Status)
		if parseErr != nil {
			return nil, parseErr
		}
		update, updateErr := order.NewTrackingUpdate(s, u.Message, u.Timestamp)
		if updateErr != nil {
			return nil, updateErr
		}
		updates = append(updates, update)
	}

	point, err := kernel.NewOptionalGeoPoint(dto.Address.Latitude, dto.Address.Longitude)
	if err != nil {
		return nil, err
	}
	address, err := order.NewShippingAddress(
		dto.Address.FullName, dto.Address.Phone, dto.Address.Street,
		dto.Address.City, dto.Address.State, dto.Address.Landmark, point,
	)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.Snapshot{
		ID:               id,
		UserID:           userID,
		Items:            items,
		Address:          address,
		Status:           status,
		PaymentStatus:    paymentStatus,
		EscrowStatus:     escrowStatus,
		Subtotal:         dto.Subtotal,
		ShippingFee:      dto.ShippingFee,
		Total:            dto.Total,
		DistanceKm:       dto.DistanceKm,
		PromoCode:        dto.PromoCode,
		Notes:            dto.Notes,
		PaymentReference: dto.PaymentReference,
		TrackingUpdates:  updates,
		ConfirmedAt:      utc(dto.ConfirmedAt),
		AutoReleaseAt:    utc(dto.AutoReleaseAt),
		CreatedAt:        dto.CreatedAt.UTC(),
		UpdatedAt:        dto.UpdatedAt.UTC(),
		Version:          dto.Version,
	})
}

func itemToDomain(dto OrderItemDTO) (order.Item, error) {
	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return order.Item{}, err
	}
	vendorID, err := kernel.UUIDFromBytes(dto.VendorID[:])
	if err != nil {
		return order.Item{}, err
	}
	return order.NewItem(productID, vendorID, dto.ProductName, dto.VariantName, dto.Quantity, dto.UnitPrice)
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
