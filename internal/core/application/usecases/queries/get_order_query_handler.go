package queries

import (
	"context"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services"
)

// GetOrderQueryHandler returns an order if the principal may read it.
// An unknown order is reported as not found before any authorization takes place.
type GetOrderQueryHandler struct {
	orders     OrderReader
	resolver   PrincipalResolver
	authorizer services.Authorizer
}

func NewGetOrderQueryHandler(orders OrderReader, resolver PrincipalResolver) GetOrderQueryHandler {
	return GetOrderQueryHandler{
		orders:     orders,
		resolver:   resolver,
		authorizer: services.NewAuthorizer(),
	}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (*order.Order, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	principal, err := h.resolver.Resolve(ctx, query.Token(), services.ActionReadOrder)
	if err != nil {
		return nil, err
	}

	o, err := h.orders.Get(ctx, query.OrderID())
	if err != nil {
		return nil, err
	}

	action := services.ReadOrder()
	if err = h.authorizer.Authorize(principal, services.Request{Action: action, Order: o}).Err(principal, action); err != nil {
		return nil, err
	}

	return o, nil
}
