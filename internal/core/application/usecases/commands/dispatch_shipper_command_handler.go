package commands

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/keylock"
)

var (
	ErrNoFreeShippersFound = errors.New("no free shippers found")
	ErrNoOrderFound        = errors.New("no order found")
)

// DispatchShipperCommandHandler picks the oldest unassigned preparing order and gives it to the
// active shipper with the fewest orders in transit.
type DispatchShipperCommandHandler struct {
	uowFactory ShipperUoWFactory
	dispatcher services.ShipperDispatcher
	locks      *keylock.Locker
}

func NewDispatchShipperCommandHandler(uowFactory ShipperUoWFactory, locks *keylock.Locker) DispatchShipperCommandHandler {
	return DispatchShipperCommandHandler{
		uowFactory: uowFactory,
		dispatcher: services.NewShipperDispatcher(),
		locks:      locks,
	}
}

// Handle returns ErrNoOrderFound when nothing waits and ErrNoFreeShippersFound when no shipper
// can take the order.
func (h DispatchShipperCommandHandler) Handle(ctx context.Context, cmd DispatchShipperCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.GetOldestUnassignedPreparing(ctx)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ErrNoOrderFound
	}
	if err != nil {
		return err
	}

	release, err := h.locks.Acquire(ctx, orderKey(o.ID()))
	if err != nil {
		return err
	}
	defer release()

	shippers, err := uow.PrincipalRepository().ListByRole(ctx, identity.Shipper)
	if err != nil {
		return err
	}
	if len(shippers) == 0 {
		return ErrNoFreeShippersFound
	}

	inTransit, err := orderRepo.CountInTransitByShipper(ctx)
	if err != nil {
		return err
	}

	loads := make([]services.ShipperLoad, 0, len(shippers))
	for _, shipper := range shippers {
		loads = append(loads, services.ShipperLoad{Shipper: shipper, InTransit: inTransit[shipper.ID()]})
	}

	expectedVersion := o.Version()
	if _, err = h.dispatcher.Dispatch(o, loads, time.Now()); err != nil {
		if errors.Is(err, services.ErrShipperNotFound) {
			return ErrNoFreeShippersFound
		}
		return err
	}

	if err = orderRepo.Save(ctx, o, expectedVersion); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
