package commands

import (
	"errors"

	"marketplace/internal/pkg/guard"
)

var ErrDispatchShipperCommandIsNotConstructed = errors.New(
	"DispatchShipperCommand must be created via NewDispatchShipperCommand constructor",
)

// DispatchShipperCommand assigns a shipper to the oldest preparing order that has none.
// It is issued by the scheduler, not by a principal.
//
// Example:
//
//	cmd := NewDispatchShipperCommand()
//	err := handler.Handle(ctx, cmd)
//	if errors.Is(err, ErrNoOrderFound) {
//	    // nothing waiting
//	}
type DispatchShipperCommand struct {
	guard guard.ConstructorGuard
}

func NewDispatchShipperCommand() DispatchShipperCommand {
	return DispatchShipperCommand{guard: guard.NewConstructorGuard()}
}

func (c DispatchShipperCommand) Validate() error {
	return c.guard.Validate(ErrDispatchShipperCommandIsNotConstructed)
}
