package queries

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery reads one order as seen by actor.
//
// Example:
//
//	query, err := NewGetOrderQuery(orderID, actor)
//	if err != nil {
//	    return err
//	}
//	resp, err := handler.Handle(ctx, query)
type GetOrderQuery struct {
	orderID kernel.UUID
	actor   order.Actor

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID, actor order.Actor) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{
		orderID: orderID,
		actor:   actor,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q GetOrderQuery) Actor() order.Actor {
	return q.actor
}
