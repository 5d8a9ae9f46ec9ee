package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrAssignShipperCommandIsNotConstructed = errors.New(
	"AssignShipperCommand must be created via NewAssignShipperCommand constructor",
)

// AssignShipperCommand assigns (or replaces) the shipper of a preparing order. Admin only.
type AssignShipperCommand struct {
	token     string
	orderID   kernel.UUID
	shipperID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAssignShipperCommand(token string, orderID, shipperID kernel.UUID) (AssignShipperCommand, error) {
	var orderErr, shipperErr error
	if err := orderID.Validate(); err != nil {
		orderErr = errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}
	if err := shipperID.Validate(); err != nil {
		shipperErr = errs.NewValueIsRequiredErrorWithCause("shipperId", err)
	}
	if err := errors.Join(orderErr, shipperErr); err != nil {
		return AssignShipperCommand{}, err
	}

	return AssignShipperCommand{
		token:     token,
		orderID:   orderID,
		shipperID: shipperID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c AssignShipperCommand) Validate() error {
	return c.guard.Validate(ErrAssignShipperCommandIsNotConstructed)
}

func (c AssignShipperCommand) Token() string {
	return c.token
}

func (c AssignShipperCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c AssignShipperCommand) ShipperID() kernel.UUID {
	return c.shipperID
}
