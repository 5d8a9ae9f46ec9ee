package commands

import (
	"context"
	"log/slog"
	"time"

	"marketplace/internal/core/application/effects"
	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/ledger"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/keylock"
)

// EffectsApplier applies transition effects and finalizes the unit of work while it holds the
// product and seller sections.
type EffectsApplier interface {
	Apply(
		ctx context.Context,
		ledgers effects.Ledgers,
		orderID kernel.UUID,
		fx ledger.Effects,
		finalize effects.Finalizer,
	) error
}

// RequestTransitionCommandHandler runs the full lifecycle of a status change request:
// resolve principal, enter the order section, load, authorize, transition, apply effects,
// save and commit, leave the section, publish.
//
// Example:
//
//	handler := NewRequestTransitionCommandHandler(uowFactory, resolver, applier, locks, publisher, logger)
//	o, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrInsufficientStock):
//	    // the seller cannot confirm yet
//	case errors.Is(err, errs.ErrConflict), errors.Is(err, errs.ErrBusy):
//	    // transient, the caller may retry
//	}
type RequestTransitionCommandHandler struct {
	uowFactory TransitionUoWFactory
	resolver   PrincipalResolver
	authorizer services.Authorizer
	engine     services.TransitionEngine
	applier    EffectsApplier
	locks      *keylock.Locker
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

func NewRequestTransitionCommandHandler(
	uowFactory TransitionUoWFactory,
	resolver PrincipalResolver,
	applier EffectsApplier,
	locks *keylock.Locker,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) RequestTransitionCommandHandler {
	return RequestTransitionCommandHandler{
		uowFactory: uowFactory,
		resolver:   resolver,
		authorizer: services.NewAuthorizer(),
		engine:     services.NewTransitionEngine(),
		applier:    applier,
		locks:      locks,
		publisher:  publisher,
		logger:     logger.With("component", "request-transition"),
	}
}

// Handle returns the order as it is after the request. A request for the status the order is
// already in succeeds without effects, so retries are safe.
func (h RequestTransitionCommandHandler) Handle(ctx context.Context, cmd RequestTransitionCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	principal, err := h.resolver.Resolve(ctx, cmd.Token(), services.ActionTransitionOrder)
	if err != nil {
		return nil, err
	}

	release, err := h.locks.Acquire(ctx, orderKey(cmd.OrderID()))
	if err != nil {
		return nil, err
	}

	o, event, err := h.transition(ctx, cmd, principal)
	release()
	if err != nil {
		return nil, err
	}

	if event != nil {
		publish(ctx, h.publisher, h.logger, *event)
	}
	return o, nil
}

func (h RequestTransitionCommandHandler) transition(
	ctx context.Context,
	cmd RequestTransitionCommand,
	principal *identity.Principal,
) (*order.Order, *order.StatusChanged, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, nil, err
	}

	action := services.TransitionOrder(cmd.Target())
	decision := h.authorizer.Authorize(principal, services.Request{Action: action, Order: o})
	if err = decision.Err(principal, action); err != nil {
		return nil, nil, err
	}

	expectedVersion := o.Version()
	outcome, err := h.engine.Apply(o, cmd.Target(), time.Now(), cmd.Tracking())
	if err != nil {
		return nil, nil, err
	}
	if outcome.NoOp {
		return o, nil, nil
	}

	err = h.applier.Apply(ctx, uow, o.ID(), outcome.Effects, func(ctx context.Context) error {
		if err := orderRepo.Save(ctx, o, expectedVersion); err != nil {
			return err
		}
		return uow.Commit(ctx)
	})
	if err != nil {
		return nil, nil, err
	}

	h.logger.InfoContext(ctx, "order transitioned",
		"orderId", o.ID().String(),
		"from", outcome.From.String(),
		"to", outcome.To.String(),
		"principalId", principal.ID().String(),
	)

	event := order.NewStatusChanged(o, outcome.From)
	return o, &event, nil
}
