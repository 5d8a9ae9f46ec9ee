package commands

import (
	"context"
	"log/slog"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services"
)

// PlaceOrderCommandHandler creates placed orders. Payment is authorized before the command is
// issued and no stock is touched until the seller confirms.
type PlaceOrderCommandHandler struct {
	uowFactory PlaceOrderUoWFactory
	resolver   PrincipalResolver
	authorizer services.Authorizer
	logger     *slog.Logger
}

func NewPlaceOrderCommandHandler(
	uowFactory PlaceOrderUoWFactory,
	resolver PrincipalResolver,
	logger *slog.Logger,
) PlaceOrderCommandHandler {
	return PlaceOrderCommandHandler{
		uowFactory: uowFactory,
		resolver:   resolver,
		authorizer: services.NewAuthorizer(),
		logger:     logger.With("component", "place-order"),
	}
}

func (h PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	principal, err := h.resolver.Resolve(ctx, cmd.Token(), services.ActionPlaceOrder)
	if err != nil {
		return nil, err
	}

	action := services.NewAction(services.ActionPlaceOrder)
	if err = h.authorizer.Authorize(principal, services.Request{Action: action}).Err(principal, action); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	productRepo := uow.ProductRepository()
	items := make([]order.LineItem, 0, len(cmd.Items()))
	for _, requested := range cmd.Items() {
		p, err := productRepo.Get(ctx, requested.ProductID)
		if err != nil {
			return nil, err
		}

		item, err := order.NewLineItem(p.ID(), p.SellerID(), requested.Quantity, p.UnitPrice())
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	o, err := order.NewOrder(kernel.NewUUID(), principal.ID(), items, time.Now())
	if err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "order placed",
		"orderId", o.ID().String(),
		"customerId", principal.ID().String(),
		"total", o.Total().String(),
	)
	return o, nil
}
