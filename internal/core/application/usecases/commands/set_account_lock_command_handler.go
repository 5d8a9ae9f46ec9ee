package commands

import (
	"context"
	"log/slog"

	"marketplace/internal/core/domain/services"
)

type SetAccountLockCommandHandler struct {
	uowFactory PrincipalUoWFactory
	resolver   PrincipalResolver
	authorizer services.Authorizer
	logger     *slog.Logger
}

func NewSetAccountLockCommandHandler(
	uowFactory PrincipalUoWFactory,
	resolver PrincipalResolver,
	logger *slog.Logger,
) SetAccountLockCommandHandler {
	return SetAccountLockCommandHandler{
		uowFactory: uowFactory,
		resolver:   resolver,
		authorizer: services.NewAuthorizer(),
		logger:     logger.With("component", "account-lock"),
	}
}

func (h SetAccountLockCommandHandler) Handle(ctx context.Context, cmd SetAccountLockCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	principal, err := h.resolver.Resolve(ctx, cmd.Token(), services.ActionSetAccountLock)
	if err != nil {
		return err
	}

	subject := cmd.PrincipalID()
	action := services.NewAction(services.ActionSetAccountLock)
	if err = h.authorizer.Authorize(principal, services.Request{Action: action, Subject: &subject}).Err(principal, action); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.PrincipalRepository()
	account, err := repo.Get(ctx, subject)
	if err != nil {
		return err
	}

	if cmd.Locked() {
		account.Lock()
	} else {
		account.Unlock()
	}

	if err = repo.Update(ctx, account); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.logger.InfoContext(ctx, "account lock changed",
		"principalId", subject.String(),
		"locked", cmd.Locked(),
		"adminId", principal.ID().String(),
	)
	return nil
}
