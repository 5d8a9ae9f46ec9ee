package commands

import (
	"context"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/keylock"
)

// AssignShipperCommandHandler lets an admin pick the shipper of a preparing order by hand.
type AssignShipperCommandHandler struct {
	uowFactory ShipperUoWFactory
	resolver   PrincipalResolver
	authorizer services.Authorizer
	locks      *keylock.Locker
}

func NewAssignShipperCommandHandler(
	uowFactory ShipperUoWFactory,
	resolver PrincipalResolver,
	locks *keylock.Locker,
) AssignShipperCommandHandler {
	return AssignShipperCommandHandler{
		uowFactory: uowFactory,
		resolver:   resolver,
		authorizer: services.NewAuthorizer(),
		locks:      locks,
	}
}

// Handle assigns the shipper. The shipper must be an unlocked principal with role shipper.
func (h AssignShipperCommandHandler) Handle(ctx context.Context, cmd AssignShipperCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	principal, err := h.resolver.Resolve(ctx, cmd.Token(), services.ActionAssignShipper)
	if err != nil {
		return nil, err
	}

	release, err := h.locks.Acquire(ctx, orderKey(cmd.OrderID()))
	if err != nil {
		return nil, err
	}
	defer release()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	action := services.NewAction(services.ActionAssignShipper)
	if err = h.authorizer.Authorize(principal, services.Request{Action: action, Order: o}).Err(principal, action); err != nil {
		return nil, err
	}

	shipper, err := uow.PrincipalRepository().Get(ctx, cmd.ShipperID())
	if err != nil {
		return nil, err
	}
	if !shipper.Is(identity.Shipper) || shipper.IsLocked() {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"shipperId",
			fmt.Errorf("%s is not an active shipper", shipper.ID()),
		)
	}

	expectedVersion := o.Version()
	if err = o.AssignShipper(shipper.ID(), time.Now()); err != nil {
		return nil, err
	}

	if err = orderRepo.Save(ctx, o, expectedVersion); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
