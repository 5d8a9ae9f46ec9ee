package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrRequestTransitionCommandIsNotConstructed = errors.New(
	"RequestTransitionCommand must be created via NewRequestTransitionCommand constructor",
)

// RequestTransitionCommand asks to move an order to a target status on behalf of the token holder.
// Tracking is only used when the target is in_transit.
//
// Example:
//
//	cmd, err := NewRequestTransitionCommand(token, orderID, order.Preparing, order.Tracking{})
//	if err != nil {
//	    return err
//	}
//	o, err := handler.Handle(ctx, cmd)
type RequestTransitionCommand struct {
	token    string
	orderID  kernel.UUID
	target   order.Status
	tracking order.Tracking

	guard guard.ConstructorGuard
}

func NewRequestTransitionCommand(
	token string,
	orderID kernel.UUID,
	target order.Status,
	tracking order.Tracking,
) (RequestTransitionCommand, error) {
	cmd := RequestTransitionCommand{
		token:    token,
		tracking: tracking,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTarget(target),
	); err != nil {
		return RequestTransitionCommand{}, err
	}

	return cmd, nil
}

func (c RequestTransitionCommand) Validate() error {
	return c.guard.Validate(ErrRequestTransitionCommandIsNotConstructed)
}

func (c RequestTransitionCommand) Token() string {
	return c.token
}

func (c RequestTransitionCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c RequestTransitionCommand) Target() order.Status {
	return c.target
}

func (c RequestTransitionCommand) Tracking() order.Tracking {
	return c.tracking
}

func (c *RequestTransitionCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}
	c.orderID = orderID
	return nil
}

func (c *RequestTransitionCommand) setTarget(target order.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}
	c.target = target
	return nil
}
