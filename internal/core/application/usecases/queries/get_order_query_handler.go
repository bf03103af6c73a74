package queries

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
)

// OrderReader loads a single order aggregate.
type OrderReader interface {
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
}

// GetOrderQueryHandler returns an order to the customer who placed it, to any
// vendor with an item in it, and to admins. Everyone else gets not found so that
// order ids cannot be enumerated.
type GetOrderQueryHandler struct {
	reader OrderReader
}

func NewGetOrderQueryHandler(reader OrderReader) GetOrderQueryHandler {
	return GetOrderQueryHandler{reader: reader}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return OrderResponse{}, err
	}

	o, err := h.reader.Get(ctx, query.OrderID())
	if err != nil {
		return OrderResponse{}, err
	}

	if !canView(o, query.Actor()) {
		return OrderResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}

	return NewOrderResponse(o), nil
}

func canView(o *order.Order, actor order.Actor) bool {
	switch actor.Role() {
	case order.RoleAdmin, order.RoleSystem:
		return true
	case order.RoleCustomer:
		return o.IsOwnedBy(actor.ID())
	case order.RoleVendor:
		for _, vendorID := range o.VendorIDs() {
			if vendorID.IsEqual(actor.ID()) {
				return true
			}
		}
	}
	return false
}
